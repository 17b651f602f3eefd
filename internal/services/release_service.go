package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"

	"vestadmin/internal/chain"
	"vestadmin/internal/config"
	"vestadmin/internal/core"
)

// Releaser submits release(token) to a vesting contract and returns the
// transaction hash without waiting for it to be mined.
type Releaser interface {
	Release(ctx context.Context, contract string) (string, error)
}

// ReleasePublisher announces submitted releases to other processes.
type ReleasePublisher interface {
	PublishReleaseSubmitted(ctx context.Context, s core.ReleaseSubmission) error
}

// ReleaseService validates and submits release transactions.
type ReleaseService struct {
	reader    VestingReader
	releaser  Releaser
	book      *ScheduleBook
	network   config.Network
	dashboard *DashboardService
	publisher ReleasePublisher
	timeout   time.Duration
	now       func() time.Time
}

// NewReleaseService wires the release flow. A nil releaser makes every
// release fail with ErrReleaseUnavailable; dashboard and publisher are
// optional.
func NewReleaseService(reader VestingReader, releaser Releaser, book *ScheduleBook, network config.Network, dashboard *DashboardService, publisher ReleasePublisher, timeout time.Duration) *ReleaseService {
	return &ReleaseService{
		reader:    reader,
		releaser:  releaser,
		book:      book,
		network:   network,
		dashboard: dashboard,
		publisher: publisher,
		timeout:   timeout,
		now:       time.Now,
	}
}

// Release submits a release for contract. It is attempted once; errors
// are returned, never retried.
func (s *ReleaseService) Release(ctx context.Context, contract string) (core.ReleaseSubmission, error) {
	bucket := s.book.Classify(contract)
	if !bucket.IsKnown() {
		return core.ReleaseSubmission{}, fmt.Errorf("%w: %s", core.ErrUnrecognizedAddress, contract)
	}
	if s.releaser == nil {
		return core.ReleaseSubmission{}, ErrReleaseUnavailable
	}

	readCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		readCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	chainID, err := s.reader.ChainID(readCtx)
	if err != nil {
		return core.ReleaseSubmission{}, fmt.Errorf("%w: %w", ErrVestingDataUnavailable, err)
	}
	if !s.network.IsCorrectNetwork(chainID) {
		return core.ReleaseSubmission{}, fmt.Errorf("%w: connected to %d, expected %d (%s)",
			ErrWrongNetwork, chainID, s.network.ChainID, s.network.Name)
	}

	info, err := s.reader.CompleteVestingInfo(readCtx)
	if err != nil {
		return core.ReleaseSubmission{}, fmt.Errorf("%w: %w", ErrVestingDataUnavailable, err)
	}
	if !hasReleasable(info, contract) {
		return core.ReleaseSubmission{}, ErrNothingToRelease
	}

	submitCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		submitCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	txHash, err := s.releaser.Release(submitCtx, contract)
	if err != nil {
		slog.ErrorContext(ctx, "Release submission failed",
			"component", "release",
			"contract", contract,
			"bucket", bucket.String(),
			"error", err)
		if chain.IsUserRejection(err) {
			return core.ReleaseSubmission{}, fmt.Errorf("%w: %v", ErrReleaseRejected, err)
		}
		return core.ReleaseSubmission{}, fmt.Errorf("%w: %v", ErrReleaseFailed, err)
	}

	sub := core.ReleaseSubmission{
		ID:          uuid.NewString(),
		Contract:    contract,
		Bucket:      bucket,
		TxHash:      txHash,
		ChainID:     chainID,
		SubmittedAt: s.now().UTC(),
	}

	slog.InfoContext(ctx, "Release submitted",
		"component", "release",
		"contract", contract,
		"bucket", bucket.String(),
		"tx_hash", txHash,
		"chain_id", chainID)

	if s.dashboard != nil {
		s.dashboard.Invalidate()
	}

	if s.publisher != nil {
		if err := s.publisher.PublishReleaseSubmitted(ctx, sub); err != nil {
			// The transaction is already on its way; only the watcher misses it
			slog.ErrorContext(ctx, "Failed to publish release submission",
				"component", "release",
				"tx_hash", txHash,
				"error", err)
		}
	} else {
		slog.DebugContext(ctx, "AMQP client not available, skipping release message")
	}

	return sub, nil
}

func hasReleasable(info core.VestingInfo, contract string) bool {
	want := common.HexToAddress(contract)
	for _, c := range info.Contracts {
		if common.IsHexAddress(c.ContractAddress) && common.HexToAddress(c.ContractAddress) == want {
			return c.ReleasableAmount != nil && c.ReleasableAmount.Sign() > 0
		}
	}
	return false
}

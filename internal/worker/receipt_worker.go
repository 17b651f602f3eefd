// Package worker observes release transactions after submission.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"vestadmin/internal/amqp"
	"vestadmin/internal/chain"
	applog "vestadmin/internal/log"
)

var ErrReceiptTimeout = errors.New("no receipt before timeout")

// ReceiptReader looks up mined transactions. Implementations return
// chain.ErrReceiptPending while the transaction is unmined.
type ReceiptReader interface {
	TransactionReceipt(ctx context.Context, txHash string) (chain.Receipt, error)
}

// ReceiptWorker waits for the receipt of each submitted release and logs
// the outcome. It never resubmits.
type ReceiptWorker struct {
	receipts     ReceiptReader
	chainID      int64
	pollInterval time.Duration
	timeout      time.Duration
}

func NewReceiptWorker(receipts ReceiptReader, chainID int64, pollInterval, timeout time.Duration) *ReceiptWorker {
	return &ReceiptWorker{
		receipts:     receipts,
		chainID:      chainID,
		pollInterval: pollInterval,
		timeout:      timeout,
	}
}

// HandleReleaseSubmitted polls until the transaction is mined or the
// timeout elapses.
func (w *ReceiptWorker) HandleReleaseSubmitted(ctx context.Context, msg *amqp.ReleaseSubmittedMessage) error {
	fields := applog.NewFields().
		WithComponent(applog.ComponentWorker).
		WithOperation(applog.OpConfirm).
		WithContract(msg.Contract, msg.Bucket).
		WithRelease(msg.TxHash, msg.ChainID)
	logger := slog.Default().With(fields.ToSlice()...).With("id", msg.ID)

	if msg.ChainID != w.chainID {
		logger.WarnContext(ctx, "Ignoring release from another network",
			"expected_chain_id", w.chainID)
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		receipt, err := w.receipts.TransactionReceipt(ctx, msg.TxHash)
		switch {
		case err == nil:
			if receipt.Success {
				logger.InfoContext(ctx, "Release confirmed",
					"block", receipt.BlockNumber,
					"gas_used", receipt.GasUsed,
					"latency", time.Since(msg.SubmittedAt).Round(time.Second))
			} else {
				logger.ErrorContext(ctx, "Release transaction reverted",
					"block", receipt.BlockNumber)
			}
			return nil
		case errors.Is(err, chain.ErrReceiptPending):
			logger.DebugContext(ctx, "Release not mined yet")
		default:
			logger.WarnContext(ctx, "Receipt lookup failed", "error", err)
		}

		select {
		case <-ctx.Done():
			logger.ErrorContext(ctx, "Gave up waiting for release receipt", "timeout", w.timeout)
			return fmt.Errorf("%w: %s", ErrReceiptTimeout, msg.TxHash)
		case <-ticker.C:
		}
	}
}

package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"vestadmin/internal/cache"
	"vestadmin/internal/config"
	"vestadmin/internal/core"
)

const dashboardCacheKey = "dashboard"

// VestingReader reads the vesting manager and the connected chain.
type VestingReader interface {
	CompleteVestingInfo(ctx context.Context) (core.VestingInfo, error)
	ChainID(ctx context.Context) (int64, error)
}

// ChainSnapshot is the cached chain state a dashboard is projected from.
type ChainSnapshot struct {
	Info    core.VestingInfo
	ChainID int64
}

// DashboardService builds the aggregated vesting view.
type DashboardService struct {
	reader  VestingReader
	book    *ScheduleBook
	network config.Network
	cache   cache.Cache[ChainSnapshot]
	timeout time.Duration
}

// NewDashboardService wires the view. A nil cache disables caching.
func NewDashboardService(reader VestingReader, book *ScheduleBook, network config.Network, c cache.Cache[ChainSnapshot], timeout time.Duration) *DashboardService {
	return &DashboardService{
		reader:  reader,
		book:    book,
		network: network,
		cache:   c,
		timeout: timeout,
	}
}

// Load returns the dashboard as of now. Any chain read failure fails the
// whole call; partial data is never returned. Only chain state is cached,
// the schedule projection is recomputed for every now.
func (s *DashboardService) Load(ctx context.Context, now time.Time) (core.Dashboard, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return core.Dashboard{}, err
	}

	d := core.Dashboard{
		Overview:       snap.Info.Overview,
		Contracts:      make([]core.ContractView, 0, len(snap.Info.Contracts)),
		ChainID:        snap.ChainID,
		CorrectNetwork: s.network.IsCorrectNetwork(snap.ChainID),
		GeneratedAt:    now,
	}
	for _, c := range snap.Info.Contracts {
		bucket := s.book.Classify(c.ContractAddress)
		next := s.book.NextVestingInfo(ctx, c.ContractAddress, now)
		d.Contracts = append(d.Contracts, core.NewContractView(c, bucket, next))
	}
	return d, nil
}

func (s *DashboardService) snapshot(ctx context.Context) (ChainSnapshot, error) {
	if s.cache != nil {
		if snap, ok := s.cache.Get(dashboardCacheKey); ok {
			slog.DebugContext(ctx, "Dashboard cache hit", "component", "cache")
			return snap, nil
		}
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	var snap ChainSnapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		snap.Info, err = s.reader.CompleteVestingInfo(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		snap.ChainID, err = s.reader.ChainID(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return ChainSnapshot{}, fmt.Errorf("%w: %w", ErrVestingDataUnavailable, err)
	}

	if s.cache != nil {
		s.cache.Set(dashboardCacheKey, snap)
	}
	return snap, nil
}

// Invalidate drops the cached dashboard.
func (s *DashboardService) Invalidate() {
	if s.cache != nil {
		s.cache.Purge()
	}
}

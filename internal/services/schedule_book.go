package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"vestadmin/internal/config"
	"vestadmin/internal/core"
)

// bucketPlan is the monthly release plan of one allocation bucket.
// Months are zero-based and both ends are inclusive.
type bucketPlan struct {
	bucket                                   core.Bucket
	startYear, startMonth, endYear, endMonth int
	monthly                                  int64
}

var bucketPlans = []bucketPlan{
	{core.BucketEcosystem, 2026, 7, 2034, 10, 40_000_000},
	{core.BucketFoundation, 2026, 7, 2034, 10, 30_000_000},
	{core.BucketPrivateInvestor, 2026, 7, 2034, 10, 10_000_000},
	{core.BucketTeam, 2026, 7, 2034, 10, 5_000_000},
	{core.BucketMarketing, 2025, 7, 2033, 10, 10_000_000},
	{core.BucketAdvisor, 2026, 7, 2034, 10, 5_000_000},
}

// ScheduleBook binds each configured contract address to its bucket and
// precomputed schedule. It is immutable after construction and safe for
// concurrent use.
type ScheduleBook struct {
	byAddress map[common.Address]core.Bucket
	addresses map[core.Bucket]string
	schedules map[core.Bucket]core.Schedule
}

func NewScheduleBook(contracts config.Contracts) (*ScheduleBook, error) {
	addresses := map[core.Bucket]string{
		core.BucketEcosystem:       contracts.Ecosystem,
		core.BucketFoundation:      contracts.Foundation,
		core.BucketPrivateInvestor: contracts.PrivateInvestor,
		core.BucketTeam:            contracts.Team,
		core.BucketMarketing:       contracts.Marketing,
		core.BucketAdvisor:         contracts.Advisor,
	}

	b := &ScheduleBook{
		byAddress: make(map[common.Address]core.Bucket, len(addresses)),
		addresses: addresses,
		schedules: make(map[core.Bucket]core.Schedule, len(bucketPlans)),
	}

	for bucket, addr := range addresses {
		if !common.IsHexAddress(addr) {
			return nil, fmt.Errorf("%s contract address %q is not a hex address", bucket, addr)
		}
		key := common.HexToAddress(addr)
		if other, dup := b.byAddress[key]; dup {
			return nil, fmt.Errorf("%s and %s share contract address %s", other, bucket, addr)
		}
		b.byAddress[key] = bucket
	}

	for _, p := range bucketPlans {
		s, err := core.GenerateMonthly(p.startYear, p.startMonth, p.endYear, p.endMonth, decimal.NewFromInt(p.monthly))
		if err != nil {
			return nil, fmt.Errorf("generate %s schedule: %w", p.bucket, err)
		}
		b.schedules[p.bucket] = s
	}

	return b, nil
}

// Classify returns the bucket bound to address, or BucketUnknown.
// Comparison is on the 20-byte value, so checksum casing does not matter.
func (b *ScheduleBook) Classify(address string) core.Bucket {
	if !common.IsHexAddress(address) {
		return core.BucketUnknown
	}
	if bucket, ok := b.byAddress[common.HexToAddress(address)]; ok {
		return bucket
	}
	return core.BucketUnknown
}

// Address returns the configured contract address for bucket.
func (b *ScheduleBook) Address(bucket core.Bucket) (string, bool) {
	addr, ok := b.addresses[bucket]
	return addr, ok
}

// Resolve returns the schedule of the contract at address.
func (b *ScheduleBook) Resolve(address string) (core.Schedule, error) {
	bucket := b.Classify(address)
	if !bucket.IsKnown() {
		return nil, fmt.Errorf("%w: %s", core.ErrUnrecognizedAddress, address)
	}
	return b.schedules[bucket].Clone(), nil
}

// ScheduleFor returns the schedule of a known bucket.
func (b *ScheduleBook) ScheduleFor(bucket core.Bucket) (core.Schedule, error) {
	s, ok := b.schedules[bucket]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrUnknownBucket, bucket)
	}
	return s.Clone(), nil
}

// NextVesting returns the first entry dated strictly after now, or nil
// once the schedule is complete.
func (b *ScheduleBook) NextVesting(address string, now time.Time) (*core.ScheduleEntry, error) {
	s, err := b.Resolve(address)
	if err != nil {
		return nil, err
	}
	next, ok := s.Next(now)
	if !ok {
		return nil, nil
	}
	return &next, nil
}

// NextVestingInfo is NextVesting for display callers: an unrecognized
// address is logged and reported as no next-vesting info.
func (b *ScheduleBook) NextVestingInfo(ctx context.Context, address string, now time.Time) *core.ScheduleEntry {
	next, err := b.NextVesting(address, now)
	if err != nil {
		slog.WarnContext(ctx, "No vesting schedule for address",
			"component", "vesting",
			"contract", address,
			"error", err)
		return nil
	}
	return next
}

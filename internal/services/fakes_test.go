package services

import (
	"context"
	"math/big"
	"sync"

	"vestadmin/internal/core"
)

type fakeReader struct {
	mu       sync.Mutex
	info     core.VestingInfo
	chainID  int64
	infoErr  error
	chainErr error
	calls    int
}

func (f *fakeReader) CompleteVestingInfo(context.Context) (core.VestingInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.info, f.infoErr
}

func (f *fakeReader) ChainID(context.Context) (int64, error) {
	return f.chainID, f.chainErr
}

type fakeReleaser struct {
	hash      string
	err       error
	contracts []string
	deadline  bool
}

func (f *fakeReleaser) Release(ctx context.Context, contract string) (string, error) {
	f.contracts = append(f.contracts, contract)
	_, f.deadline = ctx.Deadline()
	return f.hash, f.err
}

type fakePublisher struct {
	published []core.ReleaseSubmission
	err       error
}

func (f *fakePublisher) PublishReleaseSubmitted(_ context.Context, s core.ReleaseSubmission) error {
	f.published = append(f.published, s)
	return f.err
}

func baseUnits(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))
}

func testVestingInfo() core.VestingInfo {
	return core.VestingInfo{
		Overview: core.VestingOverview{
			TotalLocked:     baseUnits(1000),
			TotalVested:     baseUnits(100),
			TotalReleasable: baseUnits(25),
			TotalReleased:   baseUnits(75),
		},
		Contracts: []core.VestingDetails{
			{
				ContractAddress:  testContracts.Ecosystem,
				TotalAllocation:  baseUnits(400),
				VestedAmount:     baseUnits(100),
				ReleasableAmount: baseUnits(25),
				ReleasedAmount:   baseUnits(75),
			},
			{
				ContractAddress:  testContracts.Team,
				TotalAllocation:  baseUnits(0),
				VestedAmount:     baseUnits(0),
				ReleasableAmount: baseUnits(0),
				ReleasedAmount:   baseUnits(0),
			},
			{
				ContractAddress:  strayAddress,
				TotalAllocation:  baseUnits(600),
				VestedAmount:     baseUnits(0),
				ReleasableAmount: baseUnits(0),
				ReleasedAmount:   baseUnits(0),
			},
		},
	}
}

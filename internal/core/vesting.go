package core

import (
	"math/big"
	"time"
)

type (
	// VestingOverview holds manager-wide totals in base units.
	VestingOverview struct {
		TotalLocked     *big.Int
		TotalVested     *big.Int
		TotalReleasable *big.Int
		TotalReleased   *big.Int
	}

	// VestingDetails is the on-chain state of one vesting contract.
	VestingDetails struct {
		ContractAddress  string
		Beneficiary      string
		Token            string
		TotalAllocation  *big.Int
		VestedAmount     *big.Int
		ReleasableAmount *big.Int
		ReleasedAmount   *big.Int
	}

	// VestingInfo is the combined result of the manager's read call.
	VestingInfo struct {
		Overview  VestingOverview
		Contracts []VestingDetails
	}

	// ContractView is the read-only record rendered per contract.
	ContractView struct {
		Details          VestingDetails
		Bucket           Bucket
		VestedPercentage float64
		HasReleasable    bool
		NextVesting      *ScheduleEntry
	}

	// Dashboard combines chain totals with per-contract projections.
	Dashboard struct {
		Overview       VestingOverview
		Contracts      []ContractView
		ChainID        int64
		CorrectNetwork bool
		GeneratedAt    time.Time
	}

	// ReleaseSubmission records a release transaction handed to the
	// network. Confirmation is never awaited on the request path.
	ReleaseSubmission struct {
		ID          string
		Contract    string
		Bucket      Bucket
		TxHash      string
		ChainID     int64
		SubmittedAt time.Time
	}
)

// NewContractView derives the display fields for one contract.
func NewContractView(d VestingDetails, bucket Bucket, next *ScheduleEntry) ContractView {
	return ContractView{
		Details:          d,
		Bucket:           bucket,
		VestedPercentage: VestedPercentage(d.VestedAmount, d.TotalAllocation),
		HasReleasable:    d.ReleasableAmount != nil && d.ReleasableAmount.Sign() > 0,
		NextVesting:      next,
	}
}

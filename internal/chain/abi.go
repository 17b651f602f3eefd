package chain

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"vestadmin/internal/core"
)

const managerABIJSON = `[
  {
    "type": "function",
    "name": "getCompleteVestingInfo",
    "stateMutability": "view",
    "inputs": [{"name": "token", "type": "address"}],
    "outputs": [
      {
        "name": "overview",
        "type": "tuple",
        "components": [
          {"name": "totalLocked", "type": "uint256"},
          {"name": "totalVested", "type": "uint256"},
          {"name": "totalReleasable", "type": "uint256"},
          {"name": "totalReleased", "type": "uint256"}
        ]
      },
      {
        "name": "contracts",
        "type": "tuple[]",
        "components": [
          {"name": "contractAddress", "type": "address"},
          {"name": "beneficiary", "type": "address"},
          {"name": "token", "type": "address"},
          {"name": "totalAllocation", "type": "uint256"},
          {"name": "vestedAmount", "type": "uint256"},
          {"name": "releasableAmount", "type": "uint256"},
          {"name": "releasedAmount", "type": "uint256"}
        ]
      }
    ]
  }
]`

const vestingABIJSON = `[
  {
    "type": "function",
    "name": "release",
    "stateMutability": "nonpayable",
    "inputs": [{"name": "token", "type": "address"}],
    "outputs": []
  }
]`

const (
	methodCompleteVestingInfo = "getCompleteVestingInfo"
	methodRelease             = "release"
)

type overviewTuple struct {
	TotalLocked     *big.Int
	TotalVested     *big.Int
	TotalReleasable *big.Int
	TotalReleased   *big.Int
}

type detailsTuple struct {
	ContractAddress  common.Address
	Beneficiary      common.Address
	Token            common.Address
	TotalAllocation  *big.Int
	VestedAmount     *big.Int
	ReleasableAmount *big.Int
	ReleasedAmount   *big.Int
}

type completeVestingInfo struct {
	Overview  overviewTuple
	Contracts []detailsTuple
}

func parseABIs() (manager, vesting abi.ABI, err error) {
	manager, err = abi.JSON(strings.NewReader(managerABIJSON))
	if err != nil {
		return abi.ABI{}, abi.ABI{}, fmt.Errorf("parse manager abi: %w", err)
	}
	vesting, err = abi.JSON(strings.NewReader(vestingABIJSON))
	if err != nil {
		return abi.ABI{}, abi.ABI{}, fmt.Errorf("parse vesting abi: %w", err)
	}
	return manager, vesting, nil
}

// decodeCompleteVestingInfo unpacks the return data of
// getCompleteVestingInfo into domain types.
func decodeCompleteVestingInfo(manager abi.ABI, data []byte) (core.VestingInfo, error) {
	var out completeVestingInfo
	if err := manager.UnpackIntoInterface(&out, methodCompleteVestingInfo, data); err != nil {
		return core.VestingInfo{}, fmt.Errorf("unpack %s: %w", methodCompleteVestingInfo, err)
	}

	info := core.VestingInfo{
		Overview: core.VestingOverview{
			TotalLocked:     orZero(out.Overview.TotalLocked),
			TotalVested:     orZero(out.Overview.TotalVested),
			TotalReleasable: orZero(out.Overview.TotalReleasable),
			TotalReleased:   orZero(out.Overview.TotalReleased),
		},
		Contracts: make([]core.VestingDetails, 0, len(out.Contracts)),
	}
	for _, c := range out.Contracts {
		info.Contracts = append(info.Contracts, core.VestingDetails{
			ContractAddress:  c.ContractAddress.Hex(),
			Beneficiary:      c.Beneficiary.Hex(),
			Token:            c.Token.Hex(),
			TotalAllocation:  orZero(c.TotalAllocation),
			VestedAmount:     orZero(c.VestedAmount),
			ReleasableAmount: orZero(c.ReleasableAmount),
			ReleasedAmount:   orZero(c.ReleasedAmount),
		})
	}
	return info, nil
}

func orZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v
}

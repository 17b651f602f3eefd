package core

import (
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
)

func tokens(n int64) *big.Int {
	return ToBaseUnits(decimal.NewFromInt(n))
}

func TestVestedPercentage(t *testing.T) {
	tests := []struct {
		name          string
		vested, total *big.Int
		want          float64
	}{
		{"zero total", tokens(10), big.NewInt(0), 0},
		{"nil total", tokens(10), nil, 0},
		{"nothing vested", big.NewInt(0), tokens(100), 0},
		{"quarter", tokens(25), tokens(100), 25},
		{"fully vested", tokens(4_000_000_000), tokens(4_000_000_000), 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := VestedPercentage(tt.vested, tt.total); got != tt.want {
				t.Errorf("VestedPercentage() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBaseUnits(t *testing.T) {
	one, _ := new(big.Int).SetString("1000000000000000000", 10)
	if got := ToBaseUnits(decimal.NewFromInt(1)); got.Cmp(one) != 0 {
		t.Fatalf("ToBaseUnits(1) = %s, want %s", got, one)
	}
	half, _ := new(big.Int).SetString("500000000000000000", 10)
	if got := FormatTokens(half); got != "0.5" {
		t.Errorf("FormatTokens(0.5e18) = %q, want 0.5", got)
	}
	if got := FormatTokens(nil); got != "0" {
		t.Errorf("FormatTokens(nil) = %q, want 0", got)
	}
}

func TestNewContractView(t *testing.T) {
	d := VestingDetails{
		TotalAllocation:  tokens(200),
		VestedAmount:     tokens(50),
		ReleasableAmount: big.NewInt(0),
	}
	v := NewContractView(d, BucketTeam, nil)
	if v.VestedPercentage != 25 {
		t.Errorf("percentage = %v, want 25", v.VestedPercentage)
	}
	if v.HasReleasable {
		t.Errorf("expected no releasable tokens")
	}

	d.ReleasableAmount = big.NewInt(1)
	if !NewContractView(d, BucketTeam, nil).HasReleasable {
		t.Errorf("expected releasable tokens")
	}
}

package core

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// TokenDecimals is the fractional precision of the vesting token.
const TokenDecimals = 18

// FromBaseUnits converts an integer base-unit amount into whole tokens.
// A nil amount is treated as zero.
func FromBaseUnits(v *big.Int) decimal.Decimal {
	if v == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(v, -TokenDecimals)
}

// ToBaseUnits converts a token quantity into base units, truncating any
// precision below 10^-18.
func ToBaseUnits(d decimal.Decimal) *big.Int {
	return d.Shift(TokenDecimals).BigInt()
}

// FormatTokens renders a base-unit amount as a plain decimal token string.
func FormatTokens(v *big.Int) string {
	return FromBaseUnits(v).String()
}

// VestedPercentage returns vested / total × 100. It is 0 when total is
// zero or missing.
func VestedPercentage(vested, total *big.Int) float64 {
	if total == nil || total.Sign() == 0 {
		return 0
	}
	pct := FromBaseUnits(vested).Div(FromBaseUnits(total)).Mul(decimal.NewFromInt(100))
	return pct.InexactFloat64()
}

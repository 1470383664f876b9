package types

import (
	"fmt"

	sdkmath "cosmossdk.io/math"
)

// DepositMode selects how a deposit into a seeded pool is priced.
type DepositMode string

const (
	// DepositModeProportional clamps the deposit to the pool ratio, pulling the
	// full amount of the limiting side and the matching amount of the other.
	DepositModeProportional DepositMode = "proportional"

	// DepositModeCrossPrice converts each requested amount through the pool price:
	// pulled A = PriceOf(amountA, reserveA, reserveB), pulled B = PriceOf(amountB, reserveB, reserveA).
	DepositModeCrossPrice DepositMode = "cross-price"
)

// Default parameter values
const (
	DefaultFeeNumerator   uint64 = 997
	DefaultFeeDenominator uint64 = 1000
)

// DefaultMinimumLiquidity is the share amount locked forever when a pool is seeded.
var DefaultMinimumLiquidity = sdkmath.NewInt(1000)

// Params holds the swap module parameters.
type Params struct {
	// FeeNumerator / FeeDenominator is the fraction of each input that trades; the rest is the fee.
	FeeNumerator     uint64      `json:"fee_numerator" yaml:"fee_numerator"`
	FeeDenominator   uint64      `json:"fee_denominator" yaml:"fee_denominator"`
	MinimumLiquidity sdkmath.Int `json:"minimum_liquidity" yaml:"minimum_liquidity"`
	DepositMode      DepositMode `json:"deposit_mode" yaml:"deposit_mode"`
}

// DefaultParams returns default swap module parameters
func DefaultParams() Params {
	return Params{
		FeeNumerator:     DefaultFeeNumerator,
		FeeDenominator:   DefaultFeeDenominator,
		MinimumLiquidity: DefaultMinimumLiquidity,
		DepositMode:      DepositModeProportional,
	}
}

// Validate validates the params
func (p Params) Validate() error {
	if p.FeeDenominator == 0 {
		return ErrInvalidParams.Wrap("fee denominator must be positive")
	}
	if p.FeeNumerator == 0 || p.FeeNumerator > p.FeeDenominator {
		return ErrInvalidParams.Wrapf("fee numerator must be in (0, %d], got %d", p.FeeDenominator, p.FeeNumerator)
	}
	if p.MinimumLiquidity.IsNil() || p.MinimumLiquidity.IsNegative() {
		return ErrInvalidParams.Wrap("minimum liquidity must be non-negative")
	}
	switch p.DepositMode {
	case DepositModeProportional, DepositModeCrossPrice:
	default:
		return ErrInvalidParams.Wrapf("unknown deposit mode %q", p.DepositMode)
	}
	return nil
}

// FeeRate returns the fee as a human readable fraction, e.g. "3/1000".
func (p Params) FeeRate() string {
	return fmt.Sprintf("%d/%d", p.FeeDenominator-p.FeeNumerator, p.FeeDenominator)
}

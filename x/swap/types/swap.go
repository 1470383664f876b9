package types

import (
	"fmt"

	sdkmath "cosmossdk.io/math"
)

// SwapKind identifies one of the four swap variants.
type SwapKind string

const (
	// SwapExactAForB sells an exact amount of A for as much B as the pool gives.
	SwapExactAForB SwapKind = "exact-a-for-b"
	// SwapAForExactB buys an exact amount of B, paying whatever A it costs.
	SwapAForExactB SwapKind = "a-for-exact-b"
	// SwapExactBForA sells an exact amount of B for as much A as the pool gives.
	SwapExactBForA SwapKind = "exact-b-for-a"
	// SwapBForExactA buys an exact amount of A, paying whatever B it costs.
	SwapBForExactA SwapKind = "b-for-exact-a"
)

// AllSwapKinds lists every swap variant.
var AllSwapKinds = []SwapKind{SwapExactAForB, SwapAForExactB, SwapExactBForA, SwapBForExactA}

// ParseSwapKind parses a swap kind name.
func ParseSwapKind(s string) (SwapKind, error) {
	for _, k := range AllSwapKinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", ErrInvalidSwapKind.Wrapf("%q", s)
}

// SellsA reports whether the trader pays in token A.
func (k SwapKind) SellsA() bool {
	return k == SwapExactAForB || k == SwapAForExactB
}

// ExactOutput reports whether the amount names the output side.
func (k SwapKind) ExactOutput() bool {
	return k == SwapAForExactB || k == SwapBForExactA
}

func (k SwapKind) String() string {
	return string(k)
}

// SwapResult describes a quoted or executed swap.
type SwapResult struct {
	PoolID    uint64      `json:"pool_id"`
	Kind      SwapKind    `json:"kind"`
	TokenIn   string      `json:"token_in"`
	TokenOut  string      `json:"token_out"`
	AmountIn  sdkmath.Int `json:"amount_in"`
	AmountOut sdkmath.Int `json:"amount_out"`
	Fee       sdkmath.Int `json:"fee"`
	ReserveA  sdkmath.Int `json:"reserve_a"`
	ReserveB  sdkmath.Int `json:"reserve_b"`
}

func (r SwapResult) String() string {
	return fmt.Sprintf("pool %d %s: %s%s -> %s%s (fee %s%s)",
		r.PoolID, r.Kind, r.AmountIn, r.TokenIn, r.AmountOut, r.TokenOut, r.Fee, r.TokenIn)
}

// LiquidityChange describes the assets and shares moved by a deposit or a burn.
type LiquidityChange struct {
	PoolID  uint64      `json:"pool_id"`
	AmountA sdkmath.Int `json:"amount_a"`
	AmountB sdkmath.Int `json:"amount_b"`
	Shares  sdkmath.Int `json:"shares"`
}

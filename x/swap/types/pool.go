package types

import (
	"math/big"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Pool is a two-asset constant-product liquidity pool.
// TokenA and TokenB keep their creation order; every operation refers to them as A and B.
type Pool struct {
	Id          uint64      `json:"id" yaml:"id"`
	TokenA      string      `json:"token_a" yaml:"token_a"`
	TokenB      string      `json:"token_b" yaml:"token_b"`
	ReserveA    sdkmath.Int `json:"reserve_a" yaml:"reserve_a"`
	ReserveB    sdkmath.Int `json:"reserve_b" yaml:"reserve_b"`
	TotalShares sdkmath.Int `json:"total_shares" yaml:"total_shares"`
	Creator     string      `json:"creator" yaml:"creator"`
}

// NewPool returns an empty pool.
func NewPool(id uint64, tokenA, tokenB, creator string) Pool {
	return Pool{
		Id:          id,
		TokenA:      tokenA,
		TokenB:      tokenB,
		ReserveA:    sdkmath.ZeroInt(),
		ReserveB:    sdkmath.ZeroInt(),
		TotalShares: sdkmath.ZeroInt(),
		Creator:     creator,
	}
}

// IsEmpty reports whether the pool has never been seeded or was fully drained.
func (p Pool) IsEmpty() bool {
	return p.ReserveA.IsZero() && p.ReserveB.IsZero()
}

// IsSeeded reports whether both reserves are positive.
func (p Pool) IsSeeded() bool {
	return p.ReserveA.IsPositive() && p.ReserveB.IsPositive()
}

// K returns reserveA * reserveB. The product can exceed the 256-bit range of sdkmath.Int.
func (p Pool) K() *big.Int {
	return new(big.Int).Mul(p.ReserveA.BigInt(), p.ReserveB.BigInt())
}

// ShareDenom returns the share-ledger denom of this pool.
func (p Pool) ShareDenom() string {
	return ShareDenom(p.Id)
}

// Address returns the ledger account holding the pool's assets.
func (p Pool) Address() sdk.AccAddress {
	return PoolAddress(p.Id)
}

// Validate checks the pool's denoms and amount invariants.
func (p Pool) Validate() error {
	if err := ValidateTokenPair(p.TokenA, p.TokenB); err != nil {
		return err
	}
	for name, v := range map[string]sdkmath.Int{
		"reserve_a":    p.ReserveA,
		"reserve_b":    p.ReserveB,
		"total_shares": p.TotalShares,
	} {
		if v.IsNil() || v.IsNegative() {
			return ErrInvalidPoolState.Wrapf("pool %d: %s must be non-negative", p.Id, name)
		}
	}
	if p.ReserveA.IsPositive() != p.ReserveB.IsPositive() {
		return ErrInvalidPoolState.Wrapf("pool %d: one-sided reserves %s/%s", p.Id, p.ReserveA, p.ReserveB)
	}
	if p.TotalShares.IsZero() != p.IsEmpty() {
		return ErrInvalidPoolState.Wrapf("pool %d: %s shares backed by reserves %s/%s",
			p.Id, p.TotalShares, p.ReserveA, p.ReserveB)
	}
	return nil
}

// ValidateTokenPair checks that both denoms are valid and distinct.
func ValidateTokenPair(tokenA, tokenB string) error {
	if err := sdk.ValidateDenom(tokenA); err != nil {
		return ErrInvalidTokenPair.Wrapf("token a: %v", err)
	}
	if err := sdk.ValidateDenom(tokenB); err != nil {
		return ErrInvalidTokenPair.Wrapf("token b: %v", err)
	}
	if tokenA == tokenB {
		return ErrInvalidTokenPair.Wrapf("identical tokens %s", tokenA)
	}
	return nil
}

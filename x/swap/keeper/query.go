package keeper

import (
	"context"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/swapper/x/swap/types"
)

// GetTokenABalance returns the pool address' ledger balance of token A.
func (k Keeper) GetTokenABalance(ctx context.Context, poolID uint64) (math.Int, error) {
	pool, err := k.GetPool(ctx, poolID)
	if err != nil {
		return math.Int{}, err
	}
	return k.assets.BalanceOf(ctx, pool.TokenA, pool.Address()), nil
}

// GetTokenBBalance returns the pool address' ledger balance of token B.
func (k Keeper) GetTokenBBalance(ctx context.Context, poolID uint64) (math.Int, error) {
	pool, err := k.GetPool(ctx, poolID)
	if err != nil {
		return math.Int{}, err
	}
	return k.assets.BalanceOf(ctx, pool.TokenB, pool.Address()), nil
}

// GetPriceOfA returns how much B amountA is worth at the pool's current balances.
func (k Keeper) GetPriceOfA(ctx context.Context, poolID uint64, amountA math.Int) (math.Int, error) {
	pool, err := k.GetPool(ctx, poolID)
	if err != nil {
		return math.Int{}, err
	}
	k.observedReserves(ctx, pool)
	return types.PriceOf(amountA, pool.ReserveA, pool.ReserveB)
}

// GetPriceOfB returns how much A amountB is worth at the pool's current balances.
func (k Keeper) GetPriceOfB(ctx context.Context, poolID uint64, amountB math.Int) (math.Int, error) {
	pool, err := k.GetPool(ctx, poolID)
	if err != nil {
		return math.Int{}, err
	}
	k.observedReserves(ctx, pool)
	return types.PriceOf(amountB, pool.ReserveB, pool.ReserveA)
}

// ReserveTokenA returns the pool's accounted reserve of token A.
func (k Keeper) ReserveTokenA(ctx context.Context, poolID uint64) (math.Int, error) {
	pool, err := k.GetPool(ctx, poolID)
	if err != nil {
		return math.Int{}, err
	}
	return pool.ReserveA, nil
}

// ReserveTokenB returns the pool's accounted reserve of token B.
func (k Keeper) ReserveTokenB(ctx context.Context, poolID uint64) (math.Int, error) {
	pool, err := k.GetPool(ctx, poolID)
	if err != nil {
		return math.Int{}, err
	}
	return pool.ReserveB, nil
}

// TotalShares returns the pool's outstanding share supply, locked shares included.
func (k Keeper) TotalShares(ctx context.Context, poolID uint64) (math.Int, error) {
	pool, err := k.GetPool(ctx, poolID)
	if err != nil {
		return math.Int{}, err
	}
	return pool.TotalShares, nil
}

// ShareBalance returns holder's shares of a pool.
func (k Keeper) ShareBalance(ctx context.Context, poolID uint64, holder sdk.AccAddress) (math.Int, error) {
	pool, err := k.GetPool(ctx, poolID)
	if err != nil {
		return math.Int{}, err
	}
	return k.shares.BalanceOf(ctx, pool.ShareDenom(), holder), nil
}

package keeper

import (
	"context"
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/swapper/x/swap/types"
)

// AddLiquidity deposits up to amountA/amountB from provider into the pool and mints shares.
//
// The first deposit sets the price: both amounts are pulled as requested and
// floor(sqrt(a*b)) shares are created, MinimumLiquidity of them locked forever.
// Later deposits are priced by the configured DepositMode and earn
// min(a*total/reserveA, b*total/reserveB) shares.
//
// The provider must have approved the pool address for both assets.
func (k Keeper) AddLiquidity(ctx context.Context, provider sdk.AccAddress, poolID uint64, amountA, amountB math.Int) (*types.LiquidityChange, error) {
	if amountA.IsNil() || amountB.IsNil() || !amountA.IsPositive() || !amountB.IsPositive() {
		return nil, types.ErrInvalidAmount.Wrap("amounts must be positive")
	}
	if err := sdk.VerifyAddressFormat(provider); err != nil {
		return nil, types.ErrInvalidAddress.Wrap(err.Error())
	}

	var change *types.LiquidityChange
	err := k.atomically(ctx, func(cacheCtx sdk.Context) error {
		pool, err := k.GetPool(cacheCtx, poolID)
		if err != nil {
			return err
		}
		k.syncReserves(cacheCtx, pool)
		params := k.GetParams(cacheCtx)

		seeding := pool.TotalShares.IsZero()
		var pulledA, pulledB, shares math.Int
		if seeding {
			pulledA, pulledB = amountA, amountB
			shares, err = types.InitialShares(pulledA, pulledB, params.MinimumLiquidity)
			if err != nil {
				return err
			}
		} else {
			if !pool.IsSeeded() {
				k.metrics.InvariantViolations.WithLabelValues("seeded-pool").Inc()
				return types.ErrInvalidPoolState.Wrapf("pool %d has %s shares over reserves %s/%s",
					poolID, pool.TotalShares, pool.ReserveA, pool.ReserveB)
			}
			pulledA, pulledB, err = k.depositAmounts(params, pool, amountA, amountB)
			if err != nil {
				return err
			}
			shares, err = types.ProportionalShares(pulledA, pulledB, pool.ReserveA, pool.ReserveB, pool.TotalShares)
			if err != nil {
				return err
			}
			if !shares.IsPositive() {
				return types.ErrInsufficientLiquidityMinted.Wrapf("deposit %s%s/%s%s mints no shares",
					pulledA, pool.TokenA, pulledB, pool.TokenB)
			}
		}

		poolAddr := pool.Address()
		if err := k.pull(cacheCtx, pool.TokenA, provider, poolAddr, pulledA); err != nil {
			return err
		}
		if err := k.pull(cacheCtx, pool.TokenB, provider, poolAddr, pulledB); err != nil {
			return err
		}

		shareDenom := pool.ShareDenom()
		minted := shares
		if seeding && params.MinimumLiquidity.IsPositive() {
			if err := k.shares.Mint(cacheCtx, shareDenom, types.LockedSharesAddress(poolID), params.MinimumLiquidity); err != nil {
				return fmt.Errorf("AddLiquidity: lock minimum liquidity: %w", err)
			}
			minted = minted.Add(params.MinimumLiquidity)
		}
		if err := k.shares.Mint(cacheCtx, shareDenom, provider, shares); err != nil {
			return fmt.Errorf("AddLiquidity: mint shares: %w", err)
		}

		if seeding {
			// stray balances sent before seeding belong to the first provider
			pool.ReserveA = k.assets.BalanceOf(cacheCtx, pool.TokenA, poolAddr)
			pool.ReserveB = k.assets.BalanceOf(cacheCtx, pool.TokenB, poolAddr)
		} else {
			pool.ReserveA = pool.ReserveA.Add(pulledA)
			pool.ReserveB = pool.ReserveB.Add(pulledB)
		}
		pool.TotalShares = pool.TotalShares.Add(minted)

		if err := k.SetPool(cacheCtx, pool); err != nil {
			return err
		}

		cacheCtx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeAddLiquidity,
				sdk.NewAttribute(types.AttributeKeyPoolID, fmt.Sprintf("%d", poolID)),
				sdk.NewAttribute(types.AttributeKeyProvider, provider.String()),
				sdk.NewAttribute(types.AttributeKeyAmountA, pulledA.String()),
				sdk.NewAttribute(types.AttributeKeyAmountB, pulledB.String()),
				sdk.NewAttribute(types.AttributeKeyShares, shares.String()),
			),
		)

		poolIDStr := fmt.Sprintf("%d", poolID)
		k.metrics.LiquidityAdded.WithLabelValues(poolIDStr, pool.TokenA).Add(toFloat(pulledA))
		k.metrics.LiquidityAdded.WithLabelValues(poolIDStr, pool.TokenB).Add(toFloat(pulledB))
		k.recordReserves(pool)

		change = &types.LiquidityChange{PoolID: poolID, AmountA: pulledA, AmountB: pulledB, Shares: shares}
		return nil
	})
	if err != nil {
		return nil, err
	}

	k.Logger().Info("liquidity added",
		"pool_id", poolID,
		"provider", provider.String(),
		"amount_a", change.AmountA.String(),
		"amount_b", change.AmountB.String(),
		"shares", change.Shares.String(),
	)
	return change, nil
}

func (k Keeper) depositAmounts(params types.Params, pool *types.Pool, amountA, amountB math.Int) (math.Int, math.Int, error) {
	switch params.DepositMode {
	case types.DepositModeCrossPrice:
		return types.CrossPriceDeposit(amountA, amountB, pool.ReserveA, pool.ReserveB)
	default:
		return types.ProportionalDeposit(amountA, amountB, pool.ReserveA, pool.ReserveB)
	}
}

// Burn redeems shares from provider for a pro-rata cut of the pool's actual balances.
func (k Keeper) Burn(ctx context.Context, provider sdk.AccAddress, poolID uint64, shares math.Int) (*types.LiquidityChange, error) {
	if shares.IsNil() || !shares.IsPositive() {
		return nil, types.ErrInvalidAmount.Wrap("shares must be positive")
	}
	if err := sdk.VerifyAddressFormat(provider); err != nil {
		return nil, types.ErrInvalidAddress.Wrap(err.Error())
	}

	var change *types.LiquidityChange
	err := k.atomically(ctx, func(cacheCtx sdk.Context) error {
		pool, err := k.GetPool(cacheCtx, poolID)
		if err != nil {
			return err
		}
		k.syncReserves(cacheCtx, pool)

		if pool.TotalShares.IsZero() {
			return types.ErrInsufficientShares.Wrapf("pool %d has no shares", poolID)
		}
		shareDenom := pool.ShareDenom()
		held := k.shares.BalanceOf(cacheCtx, shareDenom, provider)
		if held.LT(shares) {
			return types.ErrInsufficientShares.Wrapf("%s holds %s shares of pool %d, burning %s", provider, held, poolID, shares)
		}

		poolAddr := pool.Address()
		balanceA := k.assets.BalanceOf(cacheCtx, pool.TokenA, poolAddr)
		balanceB := k.assets.BalanceOf(cacheCtx, pool.TokenB, poolAddr)
		amountA, amountB, err := types.WithdrawalAmounts(shares, balanceA, balanceB, pool.TotalShares)
		if err != nil {
			return err
		}
		if !amountA.IsPositive() || !amountB.IsPositive() {
			return types.ErrInsufficientLiquidityBurned.Wrapf("%s shares redeem %s%s/%s%s",
				shares, amountA, pool.TokenA, amountB, pool.TokenB)
		}

		if err := k.shares.Transfer(cacheCtx, shareDenom, provider, poolAddr, shares); err != nil {
			return types.ErrTransferFailed.Wrapf("return shares: %v", err)
		}
		if err := k.shares.Burn(cacheCtx, shareDenom, poolAddr, shares); err != nil {
			return fmt.Errorf("Burn: burn shares: %w", err)
		}
		if err := k.push(cacheCtx, pool.TokenA, poolAddr, provider, amountA); err != nil {
			return err
		}
		if err := k.push(cacheCtx, pool.TokenB, poolAddr, provider, amountB); err != nil {
			return err
		}

		// reserves track the balances after the payout, which also absorbs any drift read above
		pool.ReserveA, err = balanceA.SafeSub(amountA)
		if err != nil {
			return types.ErrInvalidPoolState.Wrap(err.Error())
		}
		pool.ReserveB, err = balanceB.SafeSub(amountB)
		if err != nil {
			return types.ErrInvalidPoolState.Wrap(err.Error())
		}
		pool.TotalShares = pool.TotalShares.Sub(shares)

		if err := k.SetPool(cacheCtx, pool); err != nil {
			return err
		}

		cacheCtx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeRemoveLiquidity,
				sdk.NewAttribute(types.AttributeKeyPoolID, fmt.Sprintf("%d", poolID)),
				sdk.NewAttribute(types.AttributeKeyProvider, provider.String()),
				sdk.NewAttribute(types.AttributeKeyAmountA, amountA.String()),
				sdk.NewAttribute(types.AttributeKeyAmountB, amountB.String()),
				sdk.NewAttribute(types.AttributeKeyShares, shares.String()),
			),
		)

		poolIDStr := fmt.Sprintf("%d", poolID)
		k.metrics.LiquidityRemoved.WithLabelValues(poolIDStr, pool.TokenA).Add(toFloat(amountA))
		k.metrics.LiquidityRemoved.WithLabelValues(poolIDStr, pool.TokenB).Add(toFloat(amountB))
		k.recordReserves(pool)

		change = &types.LiquidityChange{PoolID: poolID, AmountA: amountA, AmountB: amountB, Shares: shares}
		return nil
	})
	if err != nil {
		return nil, err
	}

	k.Logger().Info("liquidity removed",
		"pool_id", poolID,
		"provider", provider.String(),
		"amount_a", change.AmountA.String(),
		"amount_b", change.AmountB.String(),
		"shares", change.Shares.String(),
	)
	return change, nil
}

// pull moves amount of denom from owner into the pool with the pool address as spender.
func (k Keeper) pull(ctx context.Context, denom string, owner, poolAddr sdk.AccAddress, amount math.Int) error {
	if err := k.assets.TransferFrom(ctx, denom, poolAddr, owner, poolAddr, amount); err != nil {
		return types.ErrTransferFailed.Wrapf("pull %s%s from %s: %v", amount, denom, owner, err)
	}
	return nil
}

// push pays amount of denom out of the pool.
func (k Keeper) push(ctx context.Context, denom string, poolAddr, to sdk.AccAddress, amount math.Int) error {
	if err := k.assets.Transfer(ctx, denom, poolAddr, to, amount); err != nil {
		return types.ErrTransferFailed.Wrapf("pay %s%s to %s: %v", amount, denom, to, err)
	}
	return nil
}

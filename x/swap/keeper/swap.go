package keeper

import (
	"context"
	"fmt"
	"time"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/swapper/x/swap/types"
)

// SwapExactTokenAForTokenB sells exactly amountA of A for as much B as the pool gives.
func (k Keeper) SwapExactTokenAForTokenB(ctx context.Context, trader sdk.AccAddress, poolID uint64, amountA math.Int) (*types.SwapResult, error) {
	return k.Swap(ctx, trader, poolID, types.SwapExactAForB, amountA)
}

// SwapTokenAForExactTokenB buys exactly amountB of B, paying the A it costs.
func (k Keeper) SwapTokenAForExactTokenB(ctx context.Context, trader sdk.AccAddress, poolID uint64, amountB math.Int) (*types.SwapResult, error) {
	return k.Swap(ctx, trader, poolID, types.SwapAForExactB, amountB)
}

// SwapExactTokenBForTokenA sells exactly amountB of B for as much A as the pool gives.
func (k Keeper) SwapExactTokenBForTokenA(ctx context.Context, trader sdk.AccAddress, poolID uint64, amountB math.Int) (*types.SwapResult, error) {
	return k.Swap(ctx, trader, poolID, types.SwapExactBForA, amountB)
}

// SwapTokenBForExactTokenA buys exactly amountA of A, paying the B it costs.
func (k Keeper) SwapTokenBForExactTokenA(ctx context.Context, trader sdk.AccAddress, poolID uint64, amountA math.Int) (*types.SwapResult, error) {
	return k.Swap(ctx, trader, poolID, types.SwapBForExactA, amountA)
}

// Swap executes one of the four swap variants. The input is pulled from trader
// with the pool address as spender, the output is paid to trader, and both
// reserves are updated. The operation is rejected if reserveA*reserveB would shrink.
func (k Keeper) Swap(ctx context.Context, trader sdk.AccAddress, poolID uint64, kind types.SwapKind, amount math.Int) (*types.SwapResult, error) {
	start := time.Now()
	poolIDStr := fmt.Sprintf("%d", poolID)

	if err := sdk.VerifyAddressFormat(trader); err != nil {
		return nil, types.ErrInvalidAddress.Wrap(err.Error())
	}

	var result *types.SwapResult
	err := k.atomically(ctx, func(cacheCtx sdk.Context) error {
		pool, err := k.GetPool(cacheCtx, poolID)
		if err != nil {
			return err
		}
		k.syncReserves(cacheCtx, pool)

		quote, err := quoteSwap(pool, k.GetParams(cacheCtx), kind, amount)
		if err != nil {
			return err
		}

		poolAddr := pool.Address()
		if err := k.pull(cacheCtx, quote.TokenIn, trader, poolAddr, quote.AmountIn); err != nil {
			return err
		}
		if err := k.push(cacheCtx, quote.TokenOut, poolAddr, trader, quote.AmountOut); err != nil {
			return err
		}

		oldK := pool.K()
		pool.ReserveA = quote.ReserveA
		pool.ReserveB = quote.ReserveB
		if newK := pool.K(); newK.Cmp(oldK) < 0 {
			k.metrics.InvariantViolations.WithLabelValues("constant-product").Inc()
			return types.ErrInvariantViolation.Wrapf("k decreased from %s to %s", oldK, newK)
		}

		if err := k.SetPool(cacheCtx, pool); err != nil {
			return err
		}

		cacheCtx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeSwap,
				sdk.NewAttribute(types.AttributeKeyPoolID, poolIDStr),
				sdk.NewAttribute(types.AttributeKeyTrader, trader.String()),
				sdk.NewAttribute(types.AttributeKeySwapKind, kind.String()),
				sdk.NewAttribute(types.AttributeKeyTokenIn, quote.TokenIn),
				sdk.NewAttribute(types.AttributeKeyTokenOut, quote.TokenOut),
				sdk.NewAttribute(types.AttributeKeyAmountIn, quote.AmountIn.String()),
				sdk.NewAttribute(types.AttributeKeyAmountOut, quote.AmountOut.String()),
				sdk.NewAttribute(types.AttributeKeyFee, quote.Fee.String()),
			),
		)

		k.metrics.SwapVolume.WithLabelValues(poolIDStr, quote.TokenIn).Add(toFloat(quote.AmountIn))
		k.metrics.SwapFeesCollected.WithLabelValues(poolIDStr, quote.TokenIn).Add(toFloat(quote.Fee))
		k.recordReserves(pool)

		result = &quote
		return nil
	})
	if err != nil {
		k.metrics.SwapsTotal.WithLabelValues(poolIDStr, kind.String(), "failed").Inc()
		return nil, err
	}

	k.metrics.SwapsTotal.WithLabelValues(poolIDStr, kind.String(), "success").Inc()
	k.metrics.SwapLatency.Observe(time.Since(start).Seconds())
	k.Logger().Info("swap executed",
		"pool_id", poolID,
		"trader", trader.String(),
		"kind", kind.String(),
		"amount_in", result.AmountIn.String(),
		"amount_out", result.AmountOut.String(),
		"fee", result.Fee.String(),
	)
	return result, nil
}

// QuoteSwap prices a swap the way Swap would execute it now, including any
// balance sent to the pool directly, without moving funds.
func (k Keeper) QuoteSwap(ctx context.Context, poolID uint64, kind types.SwapKind, amount math.Int) (*types.SwapResult, error) {
	pool, err := k.GetPool(ctx, poolID)
	if err != nil {
		return nil, err
	}
	k.observedReserves(ctx, pool)
	quote, err := quoteSwap(pool, k.GetParams(ctx), kind, amount)
	if err != nil {
		return nil, err
	}
	return &quote, nil
}

// quoteSwap computes both sides of a swap and the reserves it leaves behind.
func quoteSwap(pool *types.Pool, params types.Params, kind types.SwapKind, amount math.Int) (types.SwapResult, error) {
	if _, err := types.ParseSwapKind(kind.String()); err != nil {
		return types.SwapResult{}, err
	}
	if amount.IsNil() || !amount.IsPositive() {
		return types.SwapResult{}, types.ErrInvalidAmount.Wrap("swap amount must be positive")
	}
	if !pool.IsSeeded() {
		return types.SwapResult{}, types.ErrUninitializedPool.Wrapf("pool %d has no liquidity", pool.Id)
	}

	reserveIn, reserveOut := pool.ReserveB, pool.ReserveA
	tokenIn, tokenOut := pool.TokenB, pool.TokenA
	if kind.SellsA() {
		reserveIn, reserveOut = pool.ReserveA, pool.ReserveB
		tokenIn, tokenOut = pool.TokenA, pool.TokenB
	}

	var amountIn, amountOut math.Int
	var err error
	if kind.ExactOutput() {
		amountOut = amount
		amountIn, err = types.AmountIn(amountOut, reserveIn, reserveOut, params)
	} else {
		amountIn = amount
		amountOut, err = types.AmountOut(amountIn, reserveIn, reserveOut, params)
		if err == nil && !amountOut.IsPositive() {
			err = types.ErrInsufficientOutputAmount.Wrapf("%s%s buys nothing", amountIn, tokenIn)
		}
	}
	if err != nil {
		return types.SwapResult{}, err
	}

	newIn, err := reserveIn.SafeAdd(amountIn)
	if err != nil {
		return types.SwapResult{}, types.ErrOverflow.Wrap(err.Error())
	}
	newOut := reserveOut.Sub(amountOut)

	result := types.SwapResult{
		PoolID:    pool.Id,
		Kind:      kind,
		TokenIn:   tokenIn,
		TokenOut:  tokenOut,
		AmountIn:  amountIn,
		AmountOut: amountOut,
		Fee:       types.Fee(amountIn, params),
		ReserveA:  newOut,
		ReserveB:  newIn,
	}
	if kind.SellsA() {
		result.ReserveA, result.ReserveB = newIn, newOut
	}
	return result, nil
}

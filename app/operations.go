package app

import (
	"context"
	"strings"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	swaptypes "github.com/paw-chain/swapper/x/swap/types"
)

// CreatePool registers an empty tokenA/tokenB pool.
func (app *SwapApp) CreatePool(ctx context.Context, creator sdk.AccAddress, tokenA, tokenB string) (*swaptypes.Pool, error) {
	var pool *swaptypes.Pool
	err := app.execute(ctx, "create_pool", false, func(sdkCtx sdk.Context) (err error) {
		pool, err = app.SwapKeeper.CreatePool(sdkCtx, creator, tokenA, tokenB)
		return err
	})
	if err != nil {
		return nil, err
	}
	return pool, nil
}

// AddLiquidity deposits into a pool, seeding it when empty.
func (app *SwapApp) AddLiquidity(ctx context.Context, provider sdk.AccAddress, poolID uint64, amountA, amountB math.Int) (*swaptypes.LiquidityChange, error) {
	var change *swaptypes.LiquidityChange
	err := app.execute(ctx, "add_liquidity", false, func(sdkCtx sdk.Context) (err error) {
		if err := app.guardPoolAccounts(sdkCtx, provider); err != nil {
			return err
		}
		change, err = app.SwapKeeper.AddLiquidity(sdkCtx, provider, poolID, amountA, amountB)
		return err
	})
	if err != nil {
		return nil, err
	}
	return change, nil
}

// Burn redeems pool shares for the underlying assets.
func (app *SwapApp) Burn(ctx context.Context, provider sdk.AccAddress, poolID uint64, shares math.Int) (*swaptypes.LiquidityChange, error) {
	var change *swaptypes.LiquidityChange
	err := app.execute(ctx, "burn", false, func(sdkCtx sdk.Context) (err error) {
		if err := app.guardPoolAccounts(sdkCtx, provider); err != nil {
			return err
		}
		change, err = app.SwapKeeper.Burn(sdkCtx, provider, poolID, shares)
		return err
	})
	if err != nil {
		return nil, err
	}
	return change, nil
}

// Swap trades against a pool.
func (app *SwapApp) Swap(ctx context.Context, trader sdk.AccAddress, poolID uint64, kind swaptypes.SwapKind, amount math.Int) (*swaptypes.SwapResult, error) {
	var result *swaptypes.SwapResult
	err := app.execute(ctx, "swap", false, func(sdkCtx sdk.Context) (err error) {
		if err := app.guardPoolAccounts(sdkCtx, trader); err != nil {
			return err
		}
		result, err = app.SwapKeeper.Swap(sdkCtx, trader, poolID, kind, amount)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Sync folds direct transfers to a pool address into its reserves.
func (app *SwapApp) Sync(ctx context.Context, poolID uint64) (*swaptypes.Pool, error) {
	var pool *swaptypes.Pool
	err := app.execute(ctx, "sync", false, func(sdkCtx sdk.Context) (err error) {
		pool, err = app.SwapKeeper.Sync(sdkCtx, poolID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return pool, nil
}

// Mint creates amount of denom for to. Pool share denoms can only be minted by the pools.
func (app *SwapApp) Mint(ctx context.Context, denom string, to sdk.AccAddress, amount math.Int) error {
	if isShareDenom(denom) {
		return ErrReservedDenom.Wrap(denom)
	}
	if !amount.IsPositive() {
		return ErrInvalidRequest.Wrapf("mint amount must be positive, got %s", amount)
	}

	return app.execute(ctx, "mint", false, func(sdkCtx sdk.Context) error {
		return app.LedgerKeeper.Mint(sdkCtx, denom, to, amount)
	})
}

// Approve sets the amount spender may pull from owner's balance of denom.
func (app *SwapApp) Approve(ctx context.Context, denom string, owner, spender sdk.AccAddress, amount math.Int) error {
	return app.execute(ctx, "approve", false, func(sdkCtx sdk.Context) error {
		if err := app.guardPoolAccounts(sdkCtx, owner); err != nil {
			return err
		}
		return app.LedgerKeeper.Approve(sdkCtx, denom, owner, spender, amount)
	})
}

// Transfer moves amount of denom between holders. Pool accounts cannot send.
func (app *SwapApp) Transfer(ctx context.Context, denom string, from, to sdk.AccAddress, amount math.Int) error {
	return app.execute(ctx, "transfer", false, func(sdkCtx sdk.Context) error {
		if err := app.guardPoolAccounts(sdkCtx, from); err != nil {
			return err
		}
		return app.LedgerKeeper.Transfer(sdkCtx, denom, from, to, amount)
	})
}

// guardPoolAccounts rejects pool asset and locked-shares accounts as the source of
// funds. Only the swap keeper moves what they hold.
func (app *SwapApp) guardPoolAccounts(sdkCtx sdk.Context, addrs ...sdk.AccAddress) error {
	for _, addr := range addrs {
		if poolID, ok := app.SwapKeeper.PoolAccount(sdkCtx, addr); ok {
			return ErrReservedAddress.Wrapf("%s belongs to pool %d", addr, poolID)
		}
	}
	return nil
}

func isShareDenom(denom string) bool {
	return strings.HasPrefix(denom, swaptypes.ModuleName+"/")
}

package app

import (
	"context"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	swaptypes "github.com/paw-chain/swapper/x/swap/types"
)

// PriceSide selects which token a price query sells.
type PriceSide string

const (
	PriceOfA PriceSide = "a"
	PriceOfB PriceSide = "b"
)

// ShareHolding is a holder's position in a pool.
type ShareHolding struct {
	PoolID      uint64   `json:"pool_id"`
	Denom       string   `json:"denom"`
	Holder      string   `json:"holder"`
	Shares      math.Int `json:"shares"`
	TotalShares math.Int `json:"total_shares"`
}

// Pool returns a pool by id.
func (app *SwapApp) Pool(ctx context.Context, poolID uint64) (*swaptypes.Pool, error) {
	var pool *swaptypes.Pool
	err := app.query(ctx, func(sdkCtx sdk.Context) (err error) {
		pool, err = app.SwapKeeper.GetPool(sdkCtx, poolID)
		return err
	})
	return pool, err
}

// Pools returns every pool in id order.
func (app *SwapApp) Pools(ctx context.Context) ([]swaptypes.Pool, error) {
	var pools []swaptypes.Pool
	err := app.query(ctx, func(sdkCtx sdk.Context) (err error) {
		pools, err = app.SwapKeeper.GetAllPools(sdkCtx)
		return err
	})
	return pools, err
}

// Price returns how much of the other token amount of the given side is worth at current reserves.
func (app *SwapApp) Price(ctx context.Context, poolID uint64, side PriceSide, amount math.Int) (math.Int, error) {
	price := math.ZeroInt()
	err := app.query(ctx, func(sdkCtx sdk.Context) (err error) {
		switch side {
		case PriceOfA:
			price, err = app.SwapKeeper.GetPriceOfA(sdkCtx, poolID, amount)
		case PriceOfB:
			price, err = app.SwapKeeper.GetPriceOfB(sdkCtx, poolID, amount)
		default:
			err = ErrInvalidRequest.Wrapf("price side must be %q or %q, got %q", PriceOfA, PriceOfB, side)
		}
		return err
	})
	return price, err
}

// Quote simulates a swap without moving funds.
func (app *SwapApp) Quote(ctx context.Context, poolID uint64, kind swaptypes.SwapKind, amount math.Int) (*swaptypes.SwapResult, error) {
	var result *swaptypes.SwapResult
	err := app.query(ctx, func(sdkCtx sdk.Context) (err error) {
		result, err = app.SwapKeeper.QuoteSwap(sdkCtx, poolID, kind, amount)
		return err
	})
	return result, err
}

// Balance returns holder's balance of denom.
func (app *SwapApp) Balance(ctx context.Context, denom string, holder sdk.AccAddress) (math.Int, error) {
	balance := math.ZeroInt()
	err := app.query(ctx, func(sdkCtx sdk.Context) error {
		balance = app.LedgerKeeper.BalanceOf(sdkCtx, denom, holder)
		return nil
	})
	return balance, err
}

// Allowance returns how much spender may pull from owner's balance of denom.
func (app *SwapApp) Allowance(ctx context.Context, denom string, owner, spender sdk.AccAddress) (math.Int, error) {
	allowance := math.ZeroInt()
	err := app.query(ctx, func(sdkCtx sdk.Context) error {
		allowance = app.LedgerKeeper.Allowance(sdkCtx, denom, owner, spender)
		return nil
	})
	return allowance, err
}

// Shares returns holder's share position in a pool.
func (app *SwapApp) Shares(ctx context.Context, poolID uint64, holder sdk.AccAddress) (*ShareHolding, error) {
	var holding *ShareHolding
	err := app.query(ctx, func(sdkCtx sdk.Context) error {
		shares, err := app.SwapKeeper.ShareBalance(sdkCtx, poolID, holder)
		if err != nil {
			return err
		}
		total, err := app.SwapKeeper.TotalShares(sdkCtx, poolID)
		if err != nil {
			return err
		}

		holding = &ShareHolding{
			PoolID:      poolID,
			Denom:       swaptypes.ShareDenom(poolID),
			Holder:      holder.String(),
			Shares:      shares,
			TotalShares: total,
		}
		return nil
	})
	return holding, err
}

// Params returns the swap module params.
func (app *SwapApp) Params(ctx context.Context) (swaptypes.Params, error) {
	var params swaptypes.Params
	err := app.query(ctx, func(sdkCtx sdk.Context) error {
		params = app.SwapKeeper.GetParams(sdkCtx)
		return nil
	})
	return params, err
}

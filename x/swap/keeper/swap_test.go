package keeper_test

import (
	"testing"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	keepertest "github.com/paw-chain/swapper/testutil/keeper"
	"github.com/paw-chain/swapper/x/swap/types"
)

func TestSwap_AllKinds(t *testing.T) {
	tests := []struct {
		kind      types.SwapKind
		amount    int64
		amountIn  int64
		amountOut int64
		reserveA  int64
		reserveB  int64
	}{
		{types.SwapExactAForB, 100, 100, 181, 1100, 1819},
		{types.SwapAForExactB, 100, 53, 100, 1053, 1900},
		{types.SwapExactBForA, 100, 100, 47, 953, 2100},
		{types.SwapBForExactA, 50, 106, 50, 950, 2106},
	}

	for _, tc := range tests {
		t.Run(tc.kind.String(), func(t *testing.T) {
			f := keepertest.SwapKeeper(t)
			poolID, _ := f.CreateSeededPool(t, "uatom", "uusdc", sdkmath.NewInt(1000), sdkmath.NewInt(2000))

			trader := keepertest.TestAddr("trader")
			tokenIn, tokenOut := "uusdc", "uatom"
			if tc.kind.SellsA() {
				tokenIn, tokenOut = "uatom", "uusdc"
			}
			f.FundAndApprove(t, trader, poolID, tokenIn, sdkmath.NewInt(1000))

			quote, err := f.Swap.QuoteSwap(f.Ctx, poolID, tc.kind, sdkmath.NewInt(tc.amount))
			require.NoError(t, err)

			ctx := f.Ctx.WithEventManager(sdk.NewEventManager())
			result, err := f.Swap.Swap(ctx, trader, poolID, tc.kind, sdkmath.NewInt(tc.amount))
			require.NoError(t, err)
			require.Equal(t, quote, result, "quote matches execution")
			require.True(t, hasEvent(ctx, types.EventTypeSwap))

			require.Equal(t, tokenIn, result.TokenIn)
			require.Equal(t, tokenOut, result.TokenOut)
			require.Equal(t, sdkmath.NewInt(tc.amountIn), result.AmountIn)
			require.Equal(t, sdkmath.NewInt(tc.amountOut), result.AmountOut)

			pool, err := f.Swap.GetPool(f.Ctx, poolID)
			require.NoError(t, err)
			require.Equal(t, sdkmath.NewInt(tc.reserveA), pool.ReserveA)
			require.Equal(t, sdkmath.NewInt(tc.reserveB), pool.ReserveB)
			require.True(t, pool.K().Cmp(sdkmath.NewInt(2_000_000).BigInt()) >= 0, "k must not decrease")

			require.Equal(t, sdkmath.NewInt(1000-tc.amountIn), f.Ledger.BalanceOf(f.Ctx, tokenIn, trader))
			require.Equal(t, sdkmath.NewInt(tc.amountOut), f.Ledger.BalanceOf(f.Ctx, tokenOut, trader))

			balanceA, err := f.Swap.GetTokenABalance(f.Ctx, poolID)
			require.NoError(t, err)
			require.Equal(t, pool.ReserveA, balanceA, "reserves committed on every variant")
			balanceB, err := f.Swap.GetTokenBBalance(f.Ctx, poolID)
			require.NoError(t, err)
			require.Equal(t, pool.ReserveB, balanceB)
		})
	}
}

func TestSwap_NamedVariants(t *testing.T) {
	f := keepertest.SwapKeeper(t)
	poolID, _ := f.CreateSeededPool(t, "uatom", "uusdc", sdkmath.NewInt(1_000_000), sdkmath.NewInt(2_000_000))
	trader := keepertest.TestAddr("trader")
	f.FundAndApprove(t, trader, poolID, "uatom", sdkmath.NewInt(100_000))
	f.FundAndApprove(t, trader, poolID, "uusdc", sdkmath.NewInt(100_000))

	r, err := f.Swap.SwapExactTokenAForTokenB(f.Ctx, trader, poolID, sdkmath.NewInt(1000))
	require.NoError(t, err)
	require.Equal(t, types.SwapExactAForB, r.Kind)

	r, err = f.Swap.SwapTokenAForExactTokenB(f.Ctx, trader, poolID, sdkmath.NewInt(1000))
	require.NoError(t, err)
	require.Equal(t, types.SwapAForExactB, r.Kind)
	require.Equal(t, sdkmath.NewInt(1000), r.AmountOut)

	r, err = f.Swap.SwapExactTokenBForTokenA(f.Ctx, trader, poolID, sdkmath.NewInt(1000))
	require.NoError(t, err)
	require.Equal(t, types.SwapExactBForA, r.Kind)

	r, err = f.Swap.SwapTokenBForExactTokenA(f.Ctx, trader, poolID, sdkmath.NewInt(1000))
	require.NoError(t, err)
	require.Equal(t, types.SwapBForExactA, r.Kind)
	require.Equal(t, sdkmath.NewInt(1000), r.AmountOut)
}

func TestSwap_ExactOutputOfWholeReserveFails(t *testing.T) {
	f := keepertest.SwapKeeper(t)
	poolID, _ := f.CreateSeededPool(t, "uatom", "uusdc", sdkmath.NewInt(1000), sdkmath.NewInt(2000))
	trader := keepertest.TestAddr("trader")
	f.FundAndApprove(t, trader, poolID, "uatom", sdkmath.NewInt(1_000_000_000))
	f.FundAndApprove(t, trader, poolID, "uusdc", sdkmath.NewInt(1_000_000_000))

	_, err := f.Swap.SwapTokenAForExactTokenB(f.Ctx, trader, poolID, sdkmath.NewInt(2000))
	require.ErrorIs(t, err, types.ErrInsufficientReserve)

	_, err = f.Swap.SwapTokenBForExactTokenA(f.Ctx, trader, poolID, sdkmath.NewInt(1000))
	require.ErrorIs(t, err, types.ErrInsufficientReserve)

	_, err = f.Swap.SwapTokenBForExactTokenA(f.Ctx, trader, poolID, sdkmath.NewInt(5000))
	require.ErrorIs(t, err, types.ErrInsufficientReserve)

	pool, err := f.Swap.GetPool(f.Ctx, poolID)
	require.NoError(t, err)
	require.Equal(t, sdkmath.NewInt(1000), pool.ReserveA)
	require.Equal(t, sdkmath.NewInt(2000), pool.ReserveB)
	require.Equal(t, sdkmath.NewInt(1_000_000_000), f.Ledger.BalanceOf(f.Ctx, "uatom", trader))
}

func TestSwap_Errors(t *testing.T) {
	f := keepertest.SwapKeeper(t)
	trader := keepertest.TestAddr("trader")

	empty, err := f.Swap.CreatePool(f.Ctx, trader, "ujuno", "uosmo")
	require.NoError(t, err)
	_, err = f.Swap.SwapExactTokenAForTokenB(f.Ctx, trader, empty.Id, sdkmath.NewInt(10))
	require.ErrorIs(t, err, types.ErrUninitializedPool)
	_, err = f.Swap.GetPriceOfA(f.Ctx, empty.Id, sdkmath.NewInt(10))
	require.ErrorIs(t, err, types.ErrUninitializedPool)
	_, err = f.Swap.GetPriceOfB(f.Ctx, empty.Id, sdkmath.NewInt(10))
	require.ErrorIs(t, err, types.ErrUninitializedPool)

	poolID, _ := f.CreateSeededPool(t, "uatom", "uusdc", sdkmath.NewInt(1000), sdkmath.NewInt(2000))

	_, err = f.Swap.SwapExactTokenAForTokenB(f.Ctx, trader, poolID, sdkmath.ZeroInt())
	require.ErrorIs(t, err, types.ErrInvalidAmount)

	_, err = f.Swap.Swap(f.Ctx, trader, poolID, types.SwapKind("sideways"), sdkmath.NewInt(1))
	require.ErrorIs(t, err, types.ErrInvalidSwapKind)

	_, err = f.Swap.SwapExactTokenAForTokenB(f.Ctx, trader, 77, sdkmath.NewInt(1))
	require.ErrorIs(t, err, types.ErrPoolNotFound)

	f.FundAndApprove(t, trader, poolID, "uusdc", sdkmath.NewInt(1))
	_, err = f.Swap.SwapExactTokenBForTokenA(f.Ctx, trader, poolID, sdkmath.NewInt(1))
	require.ErrorIs(t, err, types.ErrInsufficientOutputAmount)
}

func TestSwap_TransferFailureRollsBack(t *testing.T) {
	f := keepertest.SwapKeeper(t)
	poolID, _ := f.CreateSeededPool(t, "uatom", "uusdc", sdkmath.NewInt(1000), sdkmath.NewInt(2000))

	trader := keepertest.TestAddr("trader")
	f.Fund(t, trader, "uatom", sdkmath.NewInt(100))
	require.NoError(t, f.Ledger.Approve(f.Ctx, "uatom", trader, types.PoolAddress(poolID), sdkmath.NewInt(99)))

	ctx := f.Ctx.WithEventManager(sdk.NewEventManager())
	_, err := f.Swap.SwapExactTokenAForTokenB(ctx, trader, poolID, sdkmath.NewInt(100))
	require.ErrorIs(t, err, types.ErrTransferFailed)
	require.Empty(t, ctx.EventManager().Events())

	pool, err := f.Swap.GetPool(f.Ctx, poolID)
	require.NoError(t, err)
	require.Equal(t, sdkmath.NewInt(1000), pool.ReserveA)
	require.Equal(t, sdkmath.NewInt(2000), pool.ReserveB)
	require.Equal(t, sdkmath.NewInt(100), f.Ledger.BalanceOf(f.Ctx, "uatom", trader))
	require.True(t, f.Ledger.BalanceOf(f.Ctx, "uusdc", trader).IsZero())
}

func TestSwap_FeeAccruesToProviders(t *testing.T) {
	f := keepertest.SwapKeeper(t)
	params := types.DefaultParams()
	params.MinimumLiquidity = sdkmath.ZeroInt()
	require.NoError(t, f.Swap.SetParams(f.Ctx, params))
	poolID, provider := f.CreateSeededPool(t, "uatom", "uusdc", sdkmath.NewInt(1_000_000), sdkmath.NewInt(1_000_000))

	trader := keepertest.TestAddr("trader")
	f.FundAndApprove(t, trader, poolID, "uatom", sdkmath.NewInt(100_000))
	f.FundAndApprove(t, trader, poolID, "uusdc", sdkmath.NewInt(200_000))

	out, err := f.Swap.SwapExactTokenAForTokenB(f.Ctx, trader, poolID, sdkmath.NewInt(100_000))
	require.NoError(t, err)
	_, err = f.Swap.SwapTokenBForExactTokenA(f.Ctx, trader, poolID, sdkmath.NewInt(100_000))
	require.NoError(t, err)
	require.True(t, out.AmountOut.LT(sdkmath.NewInt(100_000)))

	shares, err := f.Swap.ShareBalance(f.Ctx, poolID, provider)
	require.NoError(t, err)
	change, err := f.Swap.Burn(f.Ctx, provider, poolID, shares)
	require.NoError(t, err)
	require.Equal(t, sdkmath.NewInt(1_000_000), change.AmountA)
	require.True(t, change.AmountB.GT(sdkmath.NewInt(1_000_000)), "round trip fees stay in the pool: %s", change.AmountB)
}

func TestQuoteSwap_SeesDirectDonations(t *testing.T) {
	f := keepertest.SwapKeeper(t)
	poolID, _ := f.CreateSeededPool(t, "uatom", "uusdc", sdkmath.NewInt(1000), sdkmath.NewInt(2000))
	f.Fund(t, types.PoolAddress(poolID), "uusdc", sdkmath.NewInt(2000))

	price, err := f.Swap.GetPriceOfA(f.Ctx, poolID, sdkmath.NewInt(100))
	require.NoError(t, err)
	require.Equal(t, sdkmath.NewInt(400), price)
	price, err = f.Swap.GetPriceOfB(f.Ctx, poolID, sdkmath.NewInt(400))
	require.NoError(t, err)
	require.Equal(t, sdkmath.NewInt(100), price)

	quote, err := f.Swap.QuoteSwap(f.Ctx, poolID, types.SwapExactAForB, sdkmath.NewInt(100))
	require.NoError(t, err)
	require.Equal(t, sdkmath.NewInt(362), quote.AmountOut)

	// quoting reads the balance without storing it
	reserveB, err := f.Swap.ReserveTokenB(f.Ctx, poolID)
	require.NoError(t, err)
	require.Equal(t, sdkmath.NewInt(2000), reserveB)

	trader := keepertest.TestAddr("trader")
	f.FundAndApprove(t, trader, poolID, "uatom", sdkmath.NewInt(100))
	result, err := f.Swap.Swap(f.Ctx, trader, poolID, types.SwapExactAForB, sdkmath.NewInt(100))
	require.NoError(t, err)
	require.Equal(t, quote, result)
	require.Equal(t, sdkmath.NewInt(362), f.Ledger.BalanceOf(f.Ctx, "uusdc", trader))
}

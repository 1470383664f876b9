package types

import (
	"math/big"
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestPriceOf(t *testing.T) {
	reserveA := sdkmath.NewInt(1000)
	reserveB := sdkmath.NewInt(2000)

	priceOfA, err := PriceOf(sdkmath.NewInt(1000), reserveA, reserveB)
	require.NoError(t, err)
	require.Equal(t, sdkmath.NewInt(2000), priceOfA)

	priceOfB, err := PriceOf(sdkmath.NewInt(1000), reserveB, reserveA)
	require.NoError(t, err)
	require.Equal(t, sdkmath.NewInt(500), priceOfB)

	// truncates
	p, err := PriceOf(sdkmath.NewInt(3), reserveB, reserveA)
	require.NoError(t, err)
	require.Equal(t, sdkmath.NewInt(1), p)

	_, err = PriceOf(sdkmath.NewInt(1), sdkmath.ZeroInt(), reserveB)
	require.ErrorIs(t, err, ErrUninitializedPool)
}

func TestAmountOut(t *testing.T) {
	params := DefaultParams()

	tests := []struct {
		name       string
		amountIn   int64
		reserveIn  int64
		reserveOut int64
		want       int64
		wantErr    error
	}{
		{"documented example", 100, 1000, 2000, 181, nil},
		{"tiny input rounds to zero", 1, 1000, 1000, 0, nil},
		{"symmetric pool", 1000, 10000, 10000, 906, nil},
		{"zero input", 0, 1000, 2000, 0, ErrInvalidAmount},
		{"empty pool", 100, 0, 0, 0, ErrUninitializedPool},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out, err := AmountOut(sdkmath.NewInt(tc.amountIn), sdkmath.NewInt(tc.reserveIn), sdkmath.NewInt(tc.reserveOut), params)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, sdkmath.NewInt(tc.want), out)
		})
	}
}

func TestAmountIn(t *testing.T) {
	params := DefaultParams()

	in, err := AmountIn(sdkmath.NewInt(1), sdkmath.NewInt(1000), sdkmath.NewInt(1000), params)
	require.NoError(t, err)
	require.Equal(t, sdkmath.NewInt(2), in, "exact-output input rounds up")

	in, err = AmountIn(sdkmath.NewInt(181), sdkmath.NewInt(1000), sdkmath.NewInt(2000), params)
	require.NoError(t, err)
	out, err := AmountOut(in, sdkmath.NewInt(1000), sdkmath.NewInt(2000), params)
	require.NoError(t, err)
	require.True(t, out.GTE(sdkmath.NewInt(181)))

	_, err = AmountIn(sdkmath.NewInt(2000), sdkmath.NewInt(1000), sdkmath.NewInt(2000), params)
	require.ErrorIs(t, err, ErrInsufficientReserve)

	_, err = AmountIn(sdkmath.NewInt(2001), sdkmath.NewInt(1000), sdkmath.NewInt(2000), params)
	require.ErrorIs(t, err, ErrInsufficientReserve)

	_, err = AmountIn(sdkmath.NewInt(1), sdkmath.ZeroInt(), sdkmath.ZeroInt(), params)
	require.ErrorIs(t, err, ErrUninitializedPool)
}

func TestAmountInRoundsUp(t *testing.T) {
	params := DefaultParams()
	reserveIn, reserveOut := sdkmath.NewInt(2000), sdkmath.NewInt(1000)

	// 50*2000*1000 / (950*997) = 105.58
	in, err := AmountIn(sdkmath.NewInt(50), reserveIn, reserveOut, params)
	require.NoError(t, err)
	require.Equal(t, sdkmath.NewInt(106), in)

	out, err := AmountOut(in, reserveIn, reserveOut, params)
	require.NoError(t, err)
	require.Equal(t, sdkmath.NewInt(50), out)

	// one unit less would underpay the pool
	out, err = AmountOut(in.SubRaw(1), reserveIn, reserveOut, params)
	require.NoError(t, err)
	require.Equal(t, sdkmath.NewInt(49), out)

	// exact division does not round up
	in, err = AmountIn(sdkmath.NewInt(500), sdkmath.NewInt(997), sdkmath.NewInt(1000), params)
	require.NoError(t, err)
	require.Equal(t, sdkmath.NewInt(1000), in)
}

func TestAmountOutOverflow(t *testing.T) {
	huge := sdkmath.NewIntFromBigInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(70), nil))

	_, err := AmountOut(huge, huge, huge, DefaultParams())
	require.ErrorIs(t, err, ErrOverflow)
}

func TestFee(t *testing.T) {
	params := DefaultParams()
	require.Equal(t, sdkmath.NewInt(3), Fee(sdkmath.NewInt(1000), params))
	require.Equal(t, sdkmath.NewInt(1), Fee(sdkmath.NewInt(100), params))
	require.Equal(t, "3/1000", params.FeeRate())
}

func TestInitialShares(t *testing.T) {
	minLiq := DefaultMinimumLiquidity

	shares, err := InitialShares(sdkmath.NewInt(1000), sdkmath.NewInt(2000), minLiq)
	require.NoError(t, err)
	require.Equal(t, sdkmath.NewInt(414), shares) // floor(sqrt(2e6)) = 1414

	shares, err = InitialShares(sdkmath.NewInt(1_000_000), sdkmath.NewInt(1_000_000), minLiq)
	require.NoError(t, err)
	require.Equal(t, sdkmath.NewInt(999_000), shares)

	_, err = InitialShares(sdkmath.NewInt(1000), sdkmath.NewInt(1000), minLiq)
	require.ErrorIs(t, err, ErrInsufficientLiquidityMinted)

	shares, err = InitialShares(sdkmath.NewInt(1000), sdkmath.NewInt(1000), sdkmath.ZeroInt())
	require.NoError(t, err)
	require.Equal(t, sdkmath.NewInt(1000), shares)
}

func TestProportionalShares(t *testing.T) {
	shares, err := ProportionalShares(
		sdkmath.NewInt(100), sdkmath.NewInt(300),
		sdkmath.NewInt(1000), sdkmath.NewInt(2000),
		sdkmath.NewInt(1414),
	)
	require.NoError(t, err)
	require.Equal(t, sdkmath.NewInt(141), shares, "limited by side A")

	_, err = ProportionalShares(sdkmath.NewInt(1), sdkmath.NewInt(1), sdkmath.ZeroInt(), sdkmath.NewInt(5), sdkmath.NewInt(5))
	require.ErrorIs(t, err, ErrInvalidPoolState)
}

func TestDepositPricing(t *testing.T) {
	rA, rB := sdkmath.NewInt(1000), sdkmath.NewInt(2000)

	a, b, err := ProportionalDeposit(sdkmath.NewInt(100), sdkmath.NewInt(500), rA, rB)
	require.NoError(t, err)
	require.Equal(t, sdkmath.NewInt(100), a)
	require.Equal(t, sdkmath.NewInt(200), b)

	a, b, err = ProportionalDeposit(sdkmath.NewInt(100), sdkmath.NewInt(100), rA, rB)
	require.NoError(t, err)
	require.Equal(t, sdkmath.NewInt(50), a)
	require.Equal(t, sdkmath.NewInt(100), b)

	a, b, err = CrossPriceDeposit(sdkmath.NewInt(100), sdkmath.NewInt(100), rA, rB)
	require.NoError(t, err)
	require.Equal(t, sdkmath.NewInt(200), a)
	require.Equal(t, sdkmath.NewInt(50), b)
}

func TestWithdrawalAmounts(t *testing.T) {
	a, b, err := WithdrawalAmounts(sdkmath.NewInt(500), sdkmath.NewInt(1000), sdkmath.NewInt(2000), sdkmath.NewInt(1000))
	require.NoError(t, err)
	require.Equal(t, sdkmath.NewInt(500), a)
	require.Equal(t, sdkmath.NewInt(1000), b)

	_, _, err = WithdrawalAmounts(sdkmath.NewInt(1), sdkmath.NewInt(1000), sdkmath.NewInt(2000), sdkmath.ZeroInt())
	require.ErrorIs(t, err, ErrInsufficientShares)

	_, _, err = WithdrawalAmounts(sdkmath.NewInt(1001), sdkmath.NewInt(1000), sdkmath.NewInt(2000), sdkmath.NewInt(1000))
	require.ErrorIs(t, err, ErrInsufficientShares)
}

func genReserve(t *rapid.T, label string) sdkmath.Int {
	return sdkmath.NewInt(rapid.Int64Range(2, 1_000_000_000_000_000_000).Draw(t, label))
}

func TestPropertyExactInputNeverDecreasesK(t *testing.T) {
	params := DefaultParams()

	rapid.Check(t, func(t *rapid.T) {
		reserveIn := genReserve(t, "reserveIn")
		reserveOut := genReserve(t, "reserveOut")
		amountIn := sdkmath.NewInt(rapid.Int64Range(1, 1_000_000_000_000_000_000).Draw(t, "amountIn"))

		out, err := AmountOut(amountIn, reserveIn, reserveOut, params)
		if err != nil {
			t.Fatalf("AmountOut: %v", err)
		}
		if out.GTE(reserveOut) {
			t.Fatalf("output %s drains reserve %s", out, reserveOut)
		}

		before := reserveIn.Mul(reserveOut)
		after := reserveIn.Add(amountIn).Mul(reserveOut.Sub(out))
		if after.LT(before) {
			t.Fatalf("k decreased: %s -> %s", before, after)
		}
	})
}

func TestPropertyExactOutputNeverDecreasesK(t *testing.T) {
	params := DefaultParams()

	rapid.Check(t, func(t *rapid.T) {
		reserveIn := genReserve(t, "reserveIn")
		reserveOut := genReserve(t, "reserveOut")
		amountOut := sdkmath.NewInt(rapid.Int64Range(1, reserveOut.Int64()-1).Draw(t, "amountOut"))

		in, err := AmountIn(amountOut, reserveIn, reserveOut, params)
		if err != nil {
			t.Fatalf("AmountIn: %v", err)
		}

		before := reserveIn.Mul(reserveOut)
		after := reserveIn.Add(in).Mul(reserveOut.Sub(amountOut))
		if after.LT(before) {
			t.Fatalf("k decreased: %s -> %s", before, after)
		}

		// paying the quoted input buys at least the requested output
		out, err := AmountOut(in, reserveIn, reserveOut, params)
		if err != nil {
			t.Fatalf("AmountOut: %v", err)
		}
		if out.LT(amountOut) {
			t.Fatalf("paid %s for %s, exact-in quote gives only %s", in, amountOut, out)
		}
	})
}

func TestPropertyPriceRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		reserveA := sdkmath.NewInt(rapid.Int64Range(1, 1_000_000_000_000).Draw(t, "reserveA"))
		reserveB := sdkmath.NewInt(rapid.Int64Range(1, 1_000_000_000_000).Draw(t, "reserveB"))
		amount := sdkmath.NewInt(rapid.Int64Range(0, 1_000_000_000_000).Draw(t, "amount"))

		b, err := PriceOf(amount, reserveA, reserveB)
		if err != nil {
			t.Fatalf("PriceOf: %v", err)
		}
		back, err := PriceOf(b, reserveB, reserveA)
		if err != nil {
			t.Fatalf("PriceOf: %v", err)
		}

		// truncation only loses value, by less than one unit of B priced in A plus one
		if back.GT(amount) {
			t.Fatalf("round trip gained value: %s -> %s", amount, back)
		}
		slack := reserveA.Quo(reserveB).AddRaw(1)
		if amount.Sub(back).GT(slack) {
			t.Fatalf("round trip lost %s, bound %s", amount.Sub(back), slack)
		}
	})
}

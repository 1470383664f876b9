package types

import (
	"math/big"

	sdkmath "cosmossdk.io/math"
)

// PriceOf returns reserveOut * amount / reserveIn, truncated.
func PriceOf(amount, reserveIn, reserveOut sdkmath.Int) (sdkmath.Int, error) {
	if !reserveIn.IsPositive() {
		return sdkmath.Int{}, ErrUninitializedPool.Wrap("zero reserve")
	}
	if amount.IsNil() || amount.IsNegative() {
		return sdkmath.Int{}, ErrInvalidAmount.Wrapf("negative amount %s", amount)
	}
	num, err := reserveOut.SafeMul(amount)
	if err != nil {
		return sdkmath.Int{}, ErrOverflow.Wrap(err.Error())
	}
	return num.Quo(reserveIn), nil
}

// AmountOut returns the output of selling amountIn:
// reserveOut*amountIn*num / (reserveIn*den + amountIn*num), truncated.
func AmountOut(amountIn, reserveIn, reserveOut sdkmath.Int, params Params) (sdkmath.Int, error) {
	if amountIn.IsNil() || !amountIn.IsPositive() {
		return sdkmath.Int{}, ErrInvalidAmount.Wrap("input amount must be positive")
	}
	if !reserveIn.IsPositive() || !reserveOut.IsPositive() {
		return sdkmath.Int{}, ErrUninitializedPool.Wrap("zero reserve")
	}

	num := sdkmath.NewIntFromUint64(params.FeeNumerator)
	den := sdkmath.NewIntFromUint64(params.FeeDenominator)

	inWithFee, err := amountIn.SafeMul(num)
	if err != nil {
		return sdkmath.Int{}, ErrOverflow.Wrap(err.Error())
	}
	numerator, err := reserveOut.SafeMul(inWithFee)
	if err != nil {
		return sdkmath.Int{}, ErrOverflow.Wrap(err.Error())
	}
	scaledReserve, err := reserveIn.SafeMul(den)
	if err != nil {
		return sdkmath.Int{}, ErrOverflow.Wrap(err.Error())
	}
	denominator, err := scaledReserve.SafeAdd(inWithFee)
	if err != nil {
		return sdkmath.Int{}, ErrOverflow.Wrap(err.Error())
	}

	return numerator.Quo(denominator), nil
}

// AmountIn returns the input needed to buy exactly amountOut:
// den*amountOut*reserveIn / (num*(reserveOut - amountOut)), rounded up.
func AmountIn(amountOut, reserveIn, reserveOut sdkmath.Int, params Params) (sdkmath.Int, error) {
	if amountOut.IsNil() || !amountOut.IsPositive() {
		return sdkmath.Int{}, ErrInvalidAmount.Wrap("output amount must be positive")
	}
	if !reserveIn.IsPositive() || !reserveOut.IsPositive() {
		return sdkmath.Int{}, ErrUninitializedPool.Wrap("zero reserve")
	}
	if amountOut.GTE(reserveOut) {
		return sdkmath.Int{}, ErrInsufficientReserve.Wrapf("requested %s, reserve %s", amountOut, reserveOut)
	}

	num := sdkmath.NewIntFromUint64(params.FeeNumerator)
	den := sdkmath.NewIntFromUint64(params.FeeDenominator)

	numerator, err := amountOut.SafeMul(reserveIn)
	if err != nil {
		return sdkmath.Int{}, ErrOverflow.Wrap(err.Error())
	}
	numerator, err = numerator.SafeMul(den)
	if err != nil {
		return sdkmath.Int{}, ErrOverflow.Wrap(err.Error())
	}
	denominator, err := reserveOut.Sub(amountOut).SafeMul(num)
	if err != nil {
		return sdkmath.Int{}, ErrOverflow.Wrap(err.Error())
	}

	return ceilQuo(numerator, denominator), nil
}

// Fee returns the part of amountIn kept by the pool, rounded up.
func Fee(amountIn sdkmath.Int, params Params) sdkmath.Int {
	feeUnits := sdkmath.NewIntFromUint64(params.FeeDenominator - params.FeeNumerator)
	return ceilQuo(amountIn.Mul(feeUnits), sdkmath.NewIntFromUint64(params.FeeDenominator))
}

// InitialShares returns floor(sqrt(amountA*amountB)) - minimumLiquidity, the
// shares minted to the first provider of an empty pool.
func InitialShares(amountA, amountB, minimumLiquidity sdkmath.Int) (sdkmath.Int, error) {
	product, err := amountA.SafeMul(amountB)
	if err != nil {
		return sdkmath.Int{}, ErrOverflow.Wrap(err.Error())
	}
	root := sdkmath.NewIntFromBigInt(new(big.Int).Sqrt(product.BigInt()))

	shares := root.Sub(minimumLiquidity)
	if !shares.IsPositive() {
		return sdkmath.Int{}, ErrInsufficientLiquidityMinted.Wrapf(
			"sqrt(%s*%s) = %s does not exceed minimum liquidity %s", amountA, amountB, root, minimumLiquidity)
	}
	return shares, nil
}

// ProportionalShares returns min(amountA*total/reserveA, amountB*total/reserveB).
func ProportionalShares(amountA, amountB, reserveA, reserveB, totalShares sdkmath.Int) (sdkmath.Int, error) {
	if !reserveA.IsPositive() || !reserveB.IsPositive() {
		return sdkmath.Int{}, ErrInvalidPoolState.Wrapf("one-sided reserves %s/%s", reserveA, reserveB)
	}
	sharesA, err := PriceOf(amountA, reserveA, totalShares)
	if err != nil {
		return sdkmath.Int{}, err
	}
	sharesB, err := PriceOf(amountB, reserveB, totalShares)
	if err != nil {
		return sdkmath.Int{}, err
	}
	return sdkmath.MinInt(sharesA, sharesB), nil
}

// ProportionalDeposit clamps a deposit to the pool ratio: the limiting side is
// taken in full and the other side is the matching amount.
func ProportionalDeposit(amountA, amountB, reserveA, reserveB sdkmath.Int) (sdkmath.Int, sdkmath.Int, error) {
	optimalB, err := PriceOf(amountA, reserveA, reserveB)
	if err != nil {
		return sdkmath.Int{}, sdkmath.Int{}, err
	}
	if optimalB.LTE(amountB) {
		return amountA, optimalB, nil
	}

	optimalA, err := PriceOf(amountB, reserveB, reserveA)
	if err != nil {
		return sdkmath.Int{}, sdkmath.Int{}, err
	}
	return optimalA, amountB, nil
}

// CrossPriceDeposit converts each requested side through the opposite price:
// pulled A = PriceOf(amountA, reserveA, reserveB), pulled B = PriceOf(amountB, reserveB, reserveA).
// It only keeps the pool ratio when the request already matches it.
func CrossPriceDeposit(amountA, amountB, reserveA, reserveB sdkmath.Int) (sdkmath.Int, sdkmath.Int, error) {
	pulledA, err := PriceOf(amountA, reserveA, reserveB)
	if err != nil {
		return sdkmath.Int{}, sdkmath.Int{}, err
	}
	pulledB, err := PriceOf(amountB, reserveB, reserveA)
	if err != nil {
		return sdkmath.Int{}, sdkmath.Int{}, err
	}
	return pulledA, pulledB, nil
}

// WithdrawalAmounts returns (shares*balanceA/total, shares*balanceB/total).
func WithdrawalAmounts(shares, balanceA, balanceB, totalShares sdkmath.Int) (sdkmath.Int, sdkmath.Int, error) {
	if !totalShares.IsPositive() {
		return sdkmath.Int{}, sdkmath.Int{}, ErrInsufficientShares.Wrap("pool has no shares")
	}
	if shares.GT(totalShares) {
		return sdkmath.Int{}, sdkmath.Int{}, ErrInsufficientShares.Wrapf("burning %s of %s shares", shares, totalShares)
	}
	amountA, err := PriceOf(shares, totalShares, balanceA)
	if err != nil {
		return sdkmath.Int{}, sdkmath.Int{}, err
	}
	amountB, err := PriceOf(shares, totalShares, balanceB)
	if err != nil {
		return sdkmath.Int{}, sdkmath.Int{}, err
	}
	return amountA, amountB, nil
}

func ceilQuo(numerator, denominator sdkmath.Int) sdkmath.Int {
	q, r := new(big.Int).QuoRem(numerator.BigInt(), denominator.BigInt(), new(big.Int))
	if r.Sign() != 0 {
		q.Add(q, big.NewInt(1))
	}
	return sdkmath.NewIntFromBigInt(q)
}

// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package dex

import "github.com/holiman/uint256"

// GetAmount0Delta returns the amount of token0 needed to move liquidity L
// between the two sqrt prices, rounded per roundUp. Grounded on
// other_examples/agatticelli-cex-dex-arbitrage-bot__sqrt_price_math.go's
// GetAmount0Delta, ported from *big.Int to *uint256.Int. Both branches
// first divide L*2^96*(sqrtB-sqrtA) by sqrtB through the 512-bit MulDiv and
// then divide by sqrtA: rounding up at each step when roundUp is set, and
// flooring at each step otherwise (floor(floor(x/b)/a) equals
// floor(x/(a*b)) for positive integers).
func GetAmount0Delta(sqrtA, sqrtB *uint256.Int, liquidity *uint256.Int, roundUp bool) (*uint256.Int, error) {
	if sqrtA.Sign() <= 0 {
		return nil, ErrInvalidPrice
	}
	if sqrtA.Cmp(sqrtB) > 0 {
		sqrtA, sqrtB = sqrtB, sqrtA
	}
	numerator1 := new(uint256.Int).Lsh(liquidity, 96)
	numerator2 := new(uint256.Int).Sub(sqrtB, sqrtA)

	if roundUp {
		inner, err := MulDivRoundingUp(numerator1, numerator2, sqrtB)
		if err != nil {
			return nil, err
		}
		return ceilDiv(inner, sqrtA)
	}
	product, overflow := new(uint256.Int).MulDivOverflow(numerator1, numerator2, sqrtB)
	if overflow {
		return nil, ErrOverflow
	}
	return new(uint256.Int).Div(product, sqrtA), nil
}

// ceilDiv returns ceil(x/y) for y > 0, matching the spec's "divide by 1 more
// denominator, rounding up" step used by GetAmount0Delta's rounded branch.
func ceilDiv(x, y *uint256.Int) (*uint256.Int, error) {
	if y.IsZero() {
		return nil, ErrDenominatorZero
	}
	q, r := new(uint256.Int).DivMod(x, y, new(uint256.Int))
	if r.Sign() != 0 {
		q = new(uint256.Int).AddUint64(q, 1)
	}
	return q, nil
}

// GetAmount1Delta returns the amount of token1 needed to move liquidity L
// between the two sqrt prices, rounded per roundUp. Grounded on the same
// reference file's GetAmount1Delta.
func GetAmount1Delta(sqrtA, sqrtB *uint256.Int, liquidity *uint256.Int, roundUp bool) (*uint256.Int, error) {
	if sqrtA.Cmp(sqrtB) > 0 {
		sqrtA, sqrtB = sqrtB, sqrtA
	}
	diff := new(uint256.Int).Sub(sqrtB, sqrtA)
	if roundUp {
		return MulDivRoundingUp(liquidity, diff, Q96)
	}
	product, overflow := new(uint256.Int).MulDivOverflow(liquidity, diff, Q96)
	if overflow {
		return nil, ErrOverflow
	}
	return product, nil
}

// GetNextSqrtPriceFromAmount0RoundingUp implements spec §4.3's formula for
// moving sqrtP by a token0 amount, always rounded up so the price never
// under-charges the pool.
func GetNextSqrtPriceFromAmount0RoundingUp(sqrtP, liquidity, amount *uint256.Int, add bool) (*uint256.Int, error) {
	if amount.IsZero() {
		return new(uint256.Int).Set(sqrtP), nil
	}
	numerator1 := new(uint256.Int).Lsh(liquidity, 96)

	if add {
		product, overflow := new(uint256.Int).MulDivOverflow(amount, sqrtP, uint256.NewInt(1))
		if !overflow {
			denominator := new(uint256.Int).Add(numerator1, product)
			if denominator.Cmp(numerator1) >= 0 {
				return MulDivRoundingUp(numerator1, sqrtP, denominator)
			}
		}
		// amount*sqrtP overflowed, or numerator1+product wrapped past 2^256:
		// fall back to the division-first form (floor(numerator1/sqrtP) +
		// amount), matching the Solidity original's overflow-safe branch --
		// this path never errors, it only loses precision relative to the
		// direct formula.
		quotient := new(uint256.Int).Div(numerator1, sqrtP)
		denom := new(uint256.Int).Add(quotient, amount)
		return ceilDiv(numerator1, denom)
	}

	product, overflow := new(uint256.Int).MulDivOverflow(amount, sqrtP, uint256.NewInt(1))
	if overflow {
		return nil, ErrOverflow
	}
	if numerator1.Cmp(product) <= 0 {
		return nil, ErrNotEnoughLiquidity
	}
	denominator := new(uint256.Int).Sub(numerator1, product)
	return MulDivRoundingUp(numerator1, sqrtP, denominator)
}

// GetNextSqrtPriceFromAmount1RoundingDown implements spec §4.3's formula for
// moving sqrtP by a token1 amount. The subtraction branch rounds its
// quotient UP so the value subtracted is conservative (never overstates the
// new price), satisfying the overall "round down" contract on the result.
func GetNextSqrtPriceFromAmount1RoundingDown(sqrtP, liquidity, amount *uint256.Int, add bool) (*uint256.Int, error) {
	if amount.BitLen() > 160 {
		return nil, ErrAmountOverflow
	}
	if add {
		quotient, err := MulDiv(amount, Q96, liquidity)
		if err != nil {
			return nil, err
		}
		return new(uint256.Int).Add(sqrtP, quotient), nil
	}
	quotient, err := MulDivRoundingUp(amount, Q96, liquidity)
	if err != nil {
		return nil, err
	}
	if sqrtP.Cmp(quotient) <= 0 {
		return nil, ErrNotEnoughLiquidity
	}
	return new(uint256.Int).Sub(sqrtP, quotient), nil
}

// GetNextSqrtPriceFromInput dispatches to the amount0/amount1 formula for an
// exact-input step.
func GetNextSqrtPriceFromInput(sqrtP, liquidity, amountIn *uint256.Int, zeroForOne bool) (*uint256.Int, error) {
	if sqrtP.Sign() <= 0 {
		return nil, ErrInvalidPrice
	}
	if liquidity.Sign() <= 0 {
		return nil, ErrInvalidPriceOrLiquidity
	}
	if zeroForOne {
		return GetNextSqrtPriceFromAmount0RoundingUp(sqrtP, liquidity, amountIn, true)
	}
	return GetNextSqrtPriceFromAmount1RoundingDown(sqrtP, liquidity, amountIn, true)
}

// GetNextSqrtPriceFromOutput dispatches to the amount0/amount1 formula for
// an exact-output step, with the direction inverted relative to input.
func GetNextSqrtPriceFromOutput(sqrtP, liquidity, amountOut *uint256.Int, zeroForOne bool) (*uint256.Int, error) {
	if sqrtP.Sign() <= 0 {
		return nil, ErrInvalidPrice
	}
	if liquidity.Sign() <= 0 {
		return nil, ErrInvalidPriceOrLiquidity
	}
	if zeroForOne {
		return GetNextSqrtPriceFromAmount1RoundingDown(sqrtP, liquidity, amountOut, false)
	}
	return GetNextSqrtPriceFromAmount0RoundingUp(sqrtP, liquidity, amountOut, false)
}

// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package dex

import "github.com/holiman/uint256"

// SwapStepResult is the outcome of a single computeSwapStep call: the price
// the step landed on and the amounts it moved.
type SwapStepResult struct {
	SqrtPriceNextX96 *uint256.Int
	AmountIn         *uint256.Int
	AmountOut        *uint256.Int
	FeeAmount        *uint256.Int
}

// ComputeSwapStep implements spec §4.8: given the current/target sqrt
// prices, available liquidity, the remaining amount, and whether this is an
// exact-in or exact-out step, returns the next price and the in/out/fee
// amounts for a single step that either reaches the target price or
// exhausts the remaining amount. Grounded on
// other_examples/agatticelli-cex-dex-arbitrage-bot__swap_math.go's
// ComputeSwapStep, adapted to take exactIn as an explicit parameter (the
// reference file infers it from the sign of a combined amountRemaining,
// which the Open Question in DESIGN.md flags as ambiguous; this module's
// Swap call site never has to reconstruct a sign). The direction is not a
// parameter: zeroForOne is derived as sqrtPriceCurrent >= sqrtPriceTarget.
func ComputeSwapStep(
	sqrtPriceCurrent, sqrtPriceTarget, liquidity, amountRemaining *uint256.Int,
	exactIn bool,
	feePips uint32,
) (*SwapStepResult, error) {
	zeroForOne := sqrtPriceCurrent.Cmp(sqrtPriceTarget) >= 0
	result := &SwapStepResult{}

	if exactIn {
		feeComplement := new(uint256.Int).SubUint64(uint256.NewInt(uint64(MaxSwapFee)), uint64(feePips))
		amountRemainingLessFee, err := MulDiv(amountRemaining, feeComplement, uint256.NewInt(uint64(MaxSwapFee)))
		if err != nil {
			return nil, err
		}

		var amountIn *uint256.Int
		if zeroForOne {
			amountIn, err = GetAmount0Delta(sqrtPriceTarget, sqrtPriceCurrent, liquidity, true)
		} else {
			amountIn, err = GetAmount1Delta(sqrtPriceCurrent, sqrtPriceTarget, liquidity, true)
		}
		if err != nil {
			return nil, err
		}

		if amountRemainingLessFee.Cmp(amountIn) >= 0 {
			result.SqrtPriceNextX96 = new(uint256.Int).Set(sqrtPriceTarget)
			result.AmountIn = amountIn
		} else {
			result.SqrtPriceNextX96, err = GetNextSqrtPriceFromInput(sqrtPriceCurrent, liquidity, amountRemainingLessFee, zeroForOne)
			if err != nil {
				return nil, err
			}
			result.AmountIn = amountRemainingLessFee
		}

		reachedTarget := result.SqrtPriceNextX96.Cmp(sqrtPriceTarget) == 0
		if zeroForOne {
			result.AmountOut, err = GetAmount1Delta(result.SqrtPriceNextX96, sqrtPriceCurrent, liquidity, false)
		} else {
			result.AmountOut, err = GetAmount0Delta(sqrtPriceCurrent, result.SqrtPriceNextX96, liquidity, false)
		}
		if err != nil {
			return nil, err
		}

		if reachedTarget && feePips == uint32(MaxSwapFee) {
			result.FeeAmount = new(uint256.Int).Set(amountIn)
		} else if reachedTarget {
			result.FeeAmount, err = MulDivRoundingUp(amountIn, uint256.NewInt(uint64(feePips)), feeComplement)
			if err != nil {
				return nil, err
			}
		} else {
			result.FeeAmount = new(uint256.Int).Sub(amountRemaining, result.AmountIn)
		}
		return result, nil
	}

	// Exact-output branch.
	if feePips >= uint32(MaxSwapFee) {
		return nil, ErrInvalidSwapFee
	}
	var amountOut *uint256.Int
	var err error
	if zeroForOne {
		amountOut, err = GetAmount1Delta(sqrtPriceTarget, sqrtPriceCurrent, liquidity, false)
	} else {
		amountOut, err = GetAmount0Delta(sqrtPriceCurrent, sqrtPriceTarget, liquidity, false)
	}
	if err != nil {
		return nil, err
	}

	if amountRemaining.Cmp(amountOut) >= 0 {
		result.SqrtPriceNextX96 = new(uint256.Int).Set(sqrtPriceTarget)
		result.AmountOut = amountOut
	} else {
		result.SqrtPriceNextX96, err = GetNextSqrtPriceFromOutput(sqrtPriceCurrent, liquidity, amountRemaining, zeroForOne)
		if err != nil {
			return nil, err
		}
		result.AmountOut = new(uint256.Int).Set(amountRemaining)
	}

	if zeroForOne {
		result.AmountIn, err = GetAmount0Delta(result.SqrtPriceNextX96, sqrtPriceCurrent, liquidity, true)
	} else {
		result.AmountIn, err = GetAmount1Delta(sqrtPriceCurrent, result.SqrtPriceNextX96, liquidity, true)
	}
	if err != nil {
		return nil, err
	}

	feeComplement := new(uint256.Int).SubUint64(uint256.NewInt(uint64(MaxSwapFee)), uint64(feePips))
	result.FeeAmount, err = MulDivRoundingUp(result.AmountIn, uint256.NewInt(uint64(feePips)), feeComplement)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package dex

import "github.com/holiman/uint256"

// MulDiv computes floor(a*b/denominator) using a full 512-bit intermediate
// product, matching Uniswap's FullMath.mulDiv. uint256.Int.MulDivOverflow
// already performs the 512-bit reassembly and schoolbook division the spec
// describes by hand; this is a thin wrapper that turns its overflow signal
// into the spec's distinct DENOMINATOR_ZERO / OVERFLOW errors.
func MulDiv(a, b, denominator *uint256.Int) (*uint256.Int, error) {
	if denominator.IsZero() {
		return nil, ErrDenominatorZero
	}
	result, overflow := new(uint256.Int).MulDivOverflow(a, b, denominator)
	if overflow {
		return nil, ErrOverflow
	}
	return result, nil
}

// MulDivRoundingUp computes ceil(a*b/denominator). It adds one to the floor
// result iff a*b mod denominator != 0, using MulMod's 512-bit remainder so
// the "iff" is exact rather than reconstructed from a possibly-overflowed
// product.
func MulDivRoundingUp(a, b, denominator *uint256.Int) (*uint256.Int, error) {
	result, err := MulDiv(a, b, denominator)
	if err != nil {
		return nil, err
	}
	if MulMod(a, b, denominator).Sign() != 0 {
		if result.Cmp(maxUint256) == 0 {
			return nil, ErrOverflow
		}
		result = new(uint256.Int).AddUint64(result, 1)
	}
	return result, nil
}

// MulMod computes (a*b) mod m over the full 512-bit product.
func MulMod(a, b, m *uint256.Int) *uint256.Int {
	return new(uint256.Int).MulMod(a, b, m)
}

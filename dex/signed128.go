// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package dex

import "github.com/holiman/uint256"

// AddDelta applies a signed liquidity delta to an unsigned 128-bit magnitude.
// Liquidity deltas are carried as (magnitude uint256.Int bounded to 128 bits,
// isNegative bool). Traps on overflow when adding and underflow when
// subtracting.
func AddDelta(x *uint256.Int, delta *uint256.Int, isNegative bool) (*uint256.Int, error) {
	if isNegative {
		if delta.Cmp(x) > 0 {
			return nil, ErrLiquidityUnderflow
		}
		return new(uint256.Int).Sub(x, delta), nil
	}
	result := new(uint256.Int).Add(x, delta)
	if result.Cmp(maxUint128Value) > 0 {
		return nil, ErrLiquidityOverflow
	}
	return result, nil
}

// signedAdd implements spec §4.1's add(a, sa, b, sb) over (magnitude, sign)
// pairs, zero encoded as (0, positive). It combines signed liquidity_net
// values in ticktable.go and signed currency deltas in ledger.go.
func signedAdd(aMag *uint256.Int, aPos bool, bMag *uint256.Int, bPos bool) (*uint256.Int, bool) {
	if aPos == bPos {
		return new(uint256.Int).Add(aMag, bMag), aPos
	}
	if aMag.Cmp(bMag) == 0 {
		return new(uint256.Int), true
	}
	if aMag.Cmp(bMag) > 0 {
		return new(uint256.Int).Sub(aMag, bMag), aPos
	}
	return new(uint256.Int).Sub(bMag, aMag), bPos
}

// signedSub implements spec §4.1's sub(a,sa,b,sb) = add(a,sa,b,!sb).
func signedSub(aMag *uint256.Int, aPos bool, bMag *uint256.Int, bPos bool) (*uint256.Int, bool) {
	return signedAdd(aMag, aPos, bMag, !bPos)
}

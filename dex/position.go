// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package dex

import "github.com/holiman/uint256"

// Position is the per-owner/range ledger entry of spec §3, keyed by
// PositionKey. Grounded on parsdao-pars/dex/types.go's Position struct,
// trimmed of the teacher's TokensOwed0/1 fields (this module returns owed
// fees from Update directly, per spec §4.7, rather than accumulating them
// on the struct -- callers settle immediately through the currency-delta
// ledger instead of a pull-based claim).
type Position struct {
	Liquidity                *uint256.Int
	FeeGrowthInside0LastX128 *uint256.Int
	FeeGrowthInside1LastX128 *uint256.Int
}

func newPosition() *Position {
	return &Position{
		Liquidity:                new(uint256.Int),
		FeeGrowthInside0LastX128: new(uint256.Int),
		FeeGrowthInside1LastX128: new(uint256.Int),
	}
}

// PositionLedger is the pool's sparse owner->Position map.
type PositionLedger struct {
	positions map[[32]byte]*Position
}

// NewPositionLedger returns an empty ledger.
func NewPositionLedger() *PositionLedger {
	return &PositionLedger{positions: make(map[[32]byte]*Position)}
}

// Get returns a position, creating it lazily (per §3, "created lazily on
// first update") but without inserting it into the ledger until Update
// actually changes its liquidity.
func (pl *PositionLedger) Get(key [32]byte) *Position {
	if pos, ok := pl.positions[key]; ok {
		return pos
	}
	return newPosition()
}

// Update implements spec §4.7: applies a signed liquidity delta (after
// checking the CANNOT_UPDATE_EMPTY_POSITION guard for a zero delta on an
// empty position), computes owed fees via modular subtraction of the
// fee-growth-inside snapshots scaled by liquidity, and persists the new
// snapshots.
func (pl *PositionLedger) Update(
	key [32]byte,
	liquidityDelta *uint256.Int,
	deltaIsPositive bool,
	feeGrowthInside0, feeGrowthInside1 *uint256.Int,
) (owed0, owed1 *uint256.Int, err error) {
	pos, exists := pl.positions[key]
	if !exists {
		pos = newPosition()
	}

	if liquidityDelta.IsZero() && pos.Liquidity.IsZero() {
		return nil, nil, ErrCannotUpdateEmptyPosition
	}

	owed0, err = feesOwed(feeGrowthInside0, pos.FeeGrowthInside0LastX128, pos.Liquidity)
	if err != nil {
		return nil, nil, err
	}
	owed1, err = feesOwed(feeGrowthInside1, pos.FeeGrowthInside1LastX128, pos.Liquidity)
	if err != nil {
		return nil, nil, err
	}

	if !liquidityDelta.IsZero() {
		newLiquidity, err := AddDelta(pos.Liquidity, liquidityDelta, !deltaIsPositive)
		if err != nil {
			return nil, nil, err
		}
		pos.Liquidity = newLiquidity
	}

	pos.FeeGrowthInside0LastX128 = new(uint256.Int).Set(feeGrowthInside0)
	pos.FeeGrowthInside1LastX128 = new(uint256.Int).Set(feeGrowthInside1)

	pl.positions[key] = pos
	return owed0, owed1, nil
}

// feesOwed computes (feeGrowthInside - feeGrowthInsideLast) * liquidity /
// 2^128 using modular (wrapping) subtraction, per spec §4.7 -- the
// subtraction is intentionally allowed to wrap, matching §3's note that
// accumulators "wrap modulo 2^256 by design".
func feesOwed(feeGrowthInside, feeGrowthInsideLast, liquidity *uint256.Int) (*uint256.Int, error) {
	delta := new(uint256.Int).Sub(feeGrowthInside, feeGrowthInsideLast)
	return MulDiv(delta, liquidity, Q128)
}

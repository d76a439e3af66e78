// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package dex

import "github.com/holiman/uint256"

// TickInfo is the per-tick bookkeeping record described in spec §3: gross
// liquidity referencing the tick as a boundary, the signed net liquidity
// contributed when crossing it left-to-right, and the two fee-growth-
// outside snapshots. Field shapes are inferred from the Pool/position
// update call sites in parsdao-pars/dex/pool_manager.go (no standalone
// per-tick struct exists there -- the teacher keeps ticks implicit inside
// its simplified constant-product Pool); liquidity_net is stored as a
// magnitude (LiquidityNet) plus a sign flag (LiquidityNetNeg).
type TickInfo struct {
	LiquidityGross      *uint256.Int
	LiquidityNet        *uint256.Int
	LiquidityNetNeg     bool
	FeeGrowthOutside0X128 *uint256.Int
	FeeGrowthOutside1X128 *uint256.Int
}

func newTickInfo() *TickInfo {
	return &TickInfo{
		LiquidityGross:        new(uint256.Int),
		LiquidityNet:          new(uint256.Int),
		FeeGrowthOutside0X128: new(uint256.Int),
		FeeGrowthOutside1X128: new(uint256.Int),
	}
}

// TickTable is the sparse map from tick to TickInfo. Every tick whose bitmap
// bit is set has an entry; Pool.Initialize also creates a zeroed entry at the
// starting tick without setting its bit.
type TickTable struct {
	ticks map[int32]*TickInfo
}

// NewTickTable returns an empty table.
func NewTickTable() *TickTable {
	return &TickTable{ticks: make(map[int32]*TickInfo)}
}

// Get returns the tick's info and whether it exists.
func (tt *TickTable) Get(tick int32) (*TickInfo, bool) {
	info, ok := tt.ticks[tick]
	return info, ok
}

// Clear removes a tick's entry (§4.9 step 5, after liquidity_gross returns
// to zero).
func (tt *TickTable) Clear(tick int32) {
	delete(tt.ticks, tick)
}

// Update implements spec §4.6: creates the entry on first touch, applies
// the gross/net deltas, seeds fee-growth-outside on first initialization,
// and reports whether the tick flipped initialized state.
func (tt *TickTable) Update(
	tick int32,
	liquidityDelta *uint256.Int,
	deltaIsPositive bool,
	isUpper bool,
	poolTick int32,
	feeGrowthGlobal0, feeGrowthGlobal1 *uint256.Int,
	maxLiquidityPerTick *uint256.Int,
) (flipped bool, liquidityGrossAfter *uint256.Int, err error) {
	info, exists := tt.ticks[tick]
	if !exists {
		info = newTickInfo()
	}
	grossBefore := new(uint256.Int).Set(info.LiquidityGross)

	grossAfter, err := AddDelta(info.LiquidityGross, liquidityDelta, !deltaIsPositive)
	if err != nil {
		return false, nil, err
	}
	if deltaIsPositive && grossAfter.Cmp(maxLiquidityPerTick) > 0 {
		return false, nil, ErrTickLiquidityOverflow
	}

	if grossBefore.IsZero() && tick <= poolTick {
		info.FeeGrowthOutside0X128 = new(uint256.Int).Set(feeGrowthGlobal0)
		info.FeeGrowthOutside1X128 = new(uint256.Int).Set(feeGrowthGlobal1)
	}

	info.LiquidityGross = grossAfter

	// liquidity_net += delta on a lower boundary, -= delta on an upper one.
	signedDeltaPositive := deltaIsPositive
	if isUpper {
		signedDeltaPositive = !deltaIsPositive
	}
	newNetMag, newNetPos := signedAdd(info.LiquidityNet, !info.LiquidityNetNeg, liquidityDelta, signedDeltaPositive)
	info.LiquidityNet = newNetMag
	info.LiquidityNetNeg = !newNetPos

	tt.ticks[tick] = info

	flipped = grossBefore.IsZero() != grossAfter.IsZero()
	return flipped, grossAfter, nil
}

// Cross implements spec §4.6's cross(tick, g0, g1): flips both fee-growth-
// outside snapshots to "global minus outside" (modular subtraction is
// exactly what uint256 wraparound subtraction gives) and returns the
// tick's signed liquidity_net.
func (tt *TickTable) Cross(tick int32, feeGrowthGlobal0, feeGrowthGlobal1 *uint256.Int) (netMag *uint256.Int, netIsNegative bool) {
	info, ok := tt.ticks[tick]
	if !ok {
		return new(uint256.Int), false
	}
	info.FeeGrowthOutside0X128 = new(uint256.Int).Sub(feeGrowthGlobal0, info.FeeGrowthOutside0X128)
	info.FeeGrowthOutside1X128 = new(uint256.Int).Sub(feeGrowthGlobal1, info.FeeGrowthOutside1X128)
	return info.LiquidityNet, info.LiquidityNetNeg
}

// FeeGrowthInside implements spec §4.9 step 3's three-case rule for the
// fee-growth accrued strictly inside [tickLower, tickUpper] given the
// pool's current tick and global accumulators. All subtraction is modular
// (uint256 wraparound), matching the glossary's "inside = outside bookkeeping
// under modular subtraction".
func (tt *TickTable) FeeGrowthInside(
	tickLower, tickUpper, poolTick int32,
	feeGrowthGlobal0, feeGrowthGlobal1 *uint256.Int,
) (inside0, inside1 *uint256.Int) {
	lower := tt.ticks[tickLower]
	if lower == nil {
		lower = newTickInfo()
	}
	upper := tt.ticks[tickUpper]
	if upper == nil {
		upper = newTickInfo()
	}

	var below0, below1, above0, above1 *uint256.Int
	if poolTick < tickLower {
		below0 = new(uint256.Int).Sub(feeGrowthGlobal0, lower.FeeGrowthOutside0X128)
		below1 = new(uint256.Int).Sub(feeGrowthGlobal1, lower.FeeGrowthOutside1X128)
	} else {
		below0 = lower.FeeGrowthOutside0X128
		below1 = lower.FeeGrowthOutside1X128
	}

	if poolTick >= tickUpper {
		above0 = new(uint256.Int).Sub(feeGrowthGlobal0, upper.FeeGrowthOutside0X128)
		above1 = new(uint256.Int).Sub(feeGrowthGlobal1, upper.FeeGrowthOutside1X128)
	} else {
		above0 = upper.FeeGrowthOutside0X128
		above1 = upper.FeeGrowthOutside1X128
	}

	inside0 = new(uint256.Int).Sub(new(uint256.Int).Sub(feeGrowthGlobal0, below0), above0)
	inside1 = new(uint256.Int).Sub(new(uint256.Int).Sub(feeGrowthGlobal1, below1), above1)
	return inside0, inside1
}

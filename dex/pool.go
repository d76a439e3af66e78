// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package dex

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Pool is the state machine of spec §3/§4.9: current sqrt price, tick,
// in-range liquidity, fee config, the two global fee-growth accumulators,
// and its owned tick table / bitmap / position ledger. Grounded on
// parsdao-pars/dex/pool_manager.go's Initialize/ModifyLiquidity/Swap/Donate
// method shapes and call order; the math itself is swapped from the
// teacher's simplified constant-product approximations (GetPool/setPool
// operate on a Pool with no tick table at all) to the exact §4.3/§4.4/§4.8
// formulas this module implements in sqrtmath.go/tickmath.go/swapmath.go.
type Pool struct {
	Key PoolKey

	SqrtPriceX96 *uint256.Int
	Tick         int32
	Liquidity    *uint256.Int

	LPFeePips       uint32
	ProtocolFeePips uint32

	FeeGrowthGlobal0X128 *uint256.Int
	FeeGrowthGlobal1X128 *uint256.Int

	ProtocolFeesToken0 *uint256.Int
	ProtocolFeesToken1 *uint256.Int

	Ticks     *TickTable
	Bitmap    *TickBitmap
	Positions *PositionLedger
}

// NewPool returns an uninitialized pool for key (√P = 0, per §3's "√P = 0
// iff uninitialized").
func NewPool(key PoolKey) *Pool {
	return &Pool{
		Key:                  key,
		SqrtPriceX96:         new(uint256.Int),
		Liquidity:            new(uint256.Int),
		FeeGrowthGlobal0X128: new(uint256.Int),
		FeeGrowthGlobal1X128: new(uint256.Int),
		ProtocolFeesToken0:   new(uint256.Int),
		ProtocolFeesToken1:   new(uint256.Int),
		Ticks:                NewTickTable(),
		Bitmap:               NewTickBitmap(),
		Positions:            NewPositionLedger(),
	}
}

func (p *Pool) isInitialized() bool {
	return !p.SqrtPriceX96.IsZero()
}

// Initialize sets the pool's starting price and LP fee. Requires the pool
// to be uninitialized; creates a zeroed tick entry at the resulting tick
// (not flipped into the bitmap -- it carries no liquidity yet).
func (p *Pool) Initialize(sqrtPriceX96 *uint256.Int, lpFeePips uint32) (int32, error) {
	if p.isInitialized() {
		return 0, ErrPoolAlreadyInitialized
	}
	if lpFeePips > uint32(MaxSwapFee) {
		return 0, ErrInvalidSwapFee
	}
	tick, err := GetTickAtSqrtPrice(sqrtPriceX96)
	if err != nil {
		return 0, err
	}
	p.SqrtPriceX96 = new(uint256.Int).Set(sqrtPriceX96)
	p.Tick = tick
	p.LPFeePips = lpFeePips
	p.ProtocolFeePips = 0
	p.Ticks.ticks[tick] = newTickInfo()
	return tick, nil
}

// SetProtocolFee updates the protocol's cut of swap fees. Per DESIGN.md's
// Open Question 1 decision this value is tracked and capped but never
// deducted from fee_growth_global, matching the upstream TODO the spec
// preserves verbatim.
func (p *Pool) SetProtocolFee(pips uint32) error {
	if !p.isInitialized() {
		return ErrPoolNotInitialized
	}
	if pips > MaxProtocolFeePips {
		return ErrInvalidSwapFee
	}
	p.ProtocolFeePips = pips
	return nil
}

// SetLPFee updates the pool's LP fee in pips.
func (p *Pool) SetLPFee(pips uint32) error {
	if !p.isInitialized() {
		return ErrPoolNotInitialized
	}
	if pips > uint32(MaxSwapFee) {
		return ErrInvalidSwapFee
	}
	p.LPFeePips = pips
	return nil
}

// CollectProtocolFees zeroes and returns the accumulated protocol-fee
// side-counters. Exists (per DESIGN.md) so ProtocolFeePips's accumulation
// is externally observable and testable rather than a dead write-only
// counter, even though nothing is ever deducted from LP fee-growth.
func (p *Pool) CollectProtocolFees() (fees0, fees1 *uint256.Int) {
	fees0, fees1 = p.ProtocolFeesToken0, p.ProtocolFeesToken1
	p.ProtocolFeesToken0 = new(uint256.Int)
	p.ProtocolFeesToken1 = new(uint256.Int)
	return fees0, fees1
}

// ModifyLiquidityParams is the value-only request record of spec §6.
type ModifyLiquidityParams struct {
	Owner           common.Address
	TickLower       int32
	TickUpper       int32
	LiquidityDelta  *uint256.Int
	DeltaIsPositive bool
	Salt            [32]byte
}

// ModifyLiquidityResult reports the signed token amounts to settle and any
// fees the position had accrued since its last touch. Negative means owed
// by the pool to the caller; positive means owed by the caller to the pool.
type ModifyLiquidityResult struct {
	Amount0         *uint256.Int
	Amount0Negative bool
	Amount1         *uint256.Int
	Amount1Negative bool
	FeesOwed0       *uint256.Int
	FeesOwed1       *uint256.Int
}

// ModifyLiquidity implements spec §4.9's six-step algorithm.
func (p *Pool) ModifyLiquidity(params ModifyLiquidityParams) (*ModifyLiquidityResult, error) {
	if !p.isInitialized() {
		return nil, ErrPoolNotInitialized
	}
	if params.TickLower < MinTick || params.TickLower > MaxTick {
		return nil, ErrTickLowerOutOfRange
	}
	if params.TickUpper < MinTick || params.TickUpper > MaxTick {
		return nil, ErrTickUpperOutOfRange
	}
	if params.TickLower >= params.TickUpper {
		return nil, ErrTicksMisordered
	}
	if params.LiquidityDelta == nil {
		params.LiquidityDelta = new(uint256.Int)
	}

	maxPerTick := MaxLiquidityPerTick(p.Key.TickSpacing)

	var flippedLower, flippedUpper bool
	if !params.LiquidityDelta.IsZero() {
		var err error
		flippedLower, _, err = p.Ticks.Update(
			params.TickLower, params.LiquidityDelta, params.DeltaIsPositive, false,
			p.Tick, p.FeeGrowthGlobal0X128, p.FeeGrowthGlobal1X128, maxPerTick)
		if err != nil {
			return nil, err
		}
		flippedUpper, _, err = p.Ticks.Update(
			params.TickUpper, params.LiquidityDelta, params.DeltaIsPositive, true,
			p.Tick, p.FeeGrowthGlobal0X128, p.FeeGrowthGlobal1X128, maxPerTick)
		if err != nil {
			return nil, err
		}

		if flippedLower {
			if err := p.Bitmap.Flip(params.TickLower, p.Key.TickSpacing); err != nil {
				return nil, err
			}
		}
		if flippedUpper {
			if err := p.Bitmap.Flip(params.TickUpper, p.Key.TickSpacing); err != nil {
				return nil, err
			}
		}
	}

	feeGrowthInside0, feeGrowthInside1 := p.Ticks.FeeGrowthInside(
		params.TickLower, params.TickUpper, p.Tick, p.FeeGrowthGlobal0X128, p.FeeGrowthGlobal1X128)

	positionKey := PositionKey(params.Owner, params.TickLower, params.TickUpper, params.Salt)
	owed0, owed1, err := p.Positions.Update(
		positionKey, params.LiquidityDelta, params.DeltaIsPositive, feeGrowthInside0, feeGrowthInside1)
	if err != nil {
		return nil, err
	}

	if !params.DeltaIsPositive && !params.LiquidityDelta.IsZero() {
		if flippedLower {
			p.Ticks.Clear(params.TickLower)
		}
		if flippedUpper {
			p.Ticks.Clear(params.TickUpper)
		}
	}

	sqrtLower, err := GetSqrtPriceAtTick(params.TickLower)
	if err != nil {
		return nil, err
	}
	sqrtUpper, err := GetSqrtPriceAtTick(params.TickUpper)
	if err != nil {
		return nil, err
	}

	roundUp := params.DeltaIsPositive
	result := &ModifyLiquidityResult{FeesOwed0: owed0, FeesOwed1: owed1}

	switch {
	case p.Tick < params.TickLower:
		amount0, err := GetAmount0Delta(sqrtLower, sqrtUpper, params.LiquidityDelta, roundUp)
		if err != nil {
			return nil, err
		}
		result.Amount0 = amount0
		result.Amount1 = new(uint256.Int)
		result.Amount0Negative = !params.DeltaIsPositive

	case p.Tick < params.TickUpper:
		amount0, err := GetAmount0Delta(p.SqrtPriceX96, sqrtUpper, params.LiquidityDelta, roundUp)
		if err != nil {
			return nil, err
		}
		amount1, err := GetAmount1Delta(sqrtLower, p.SqrtPriceX96, params.LiquidityDelta, roundUp)
		if err != nil {
			return nil, err
		}
		result.Amount0, result.Amount1 = amount0, amount1
		result.Amount0Negative = !params.DeltaIsPositive
		result.Amount1Negative = !params.DeltaIsPositive

		newLiquidity, err := AddDelta(p.Liquidity, params.LiquidityDelta, !params.DeltaIsPositive)
		if err != nil {
			return nil, err
		}
		p.Liquidity = newLiquidity

	default:
		amount1, err := GetAmount1Delta(sqrtLower, sqrtUpper, params.LiquidityDelta, roundUp)
		if err != nil {
			return nil, err
		}
		result.Amount0 = new(uint256.Int)
		result.Amount1 = amount1
		result.Amount1Negative = !params.DeltaIsPositive
	}

	return result, nil
}

// SwapParams is the value-only request record of spec §6. ExactIn/ZeroForOne
// are carried as explicit booleans rather than recovered from the sign of a
// single amount, sidestepping the ambiguity DESIGN.md's Open Question 2
// flags in the upstream `exact_in = !exact_output` / sign-of-amount
// convention.
type SwapParams struct {
	ZeroForOne        bool
	AmountSpecified   *uint256.Int
	ExactIn           bool
	SqrtPriceLimitX96 *uint256.Int
}

// SwapResult reports the signed token amounts the swap moved. Negative
// means owed by the pool to the caller.
type SwapResult struct {
	Amount0         *uint256.Int
	Amount0Negative bool
	Amount1         *uint256.Int
	Amount1Negative bool
}

// Swap implements spec §4.9's swap loop: repeatedly finds the next
// initialized tick in direction, computes a step against the clamped
// target price, and crosses ticks as the price walks past them, until the
// remaining amount is exhausted or the price limit is reached.
func (p *Pool) Swap(params SwapParams) (*SwapResult, error) {
	if !p.isInitialized() {
		return nil, ErrPoolNotInitialized
	}
	if params.AmountSpecified == nil {
		params.AmountSpecified = new(uint256.Int)
	}

	if params.ZeroForOne {
		if params.SqrtPriceLimitX96.Cmp(p.SqrtPriceX96) >= 0 {
			return nil, ErrPriceLimitAlreadyExceeded
		}
		if params.SqrtPriceLimitX96.Cmp(MinSqrtPrice) <= 0 {
			return nil, ErrPriceLimitOutOfBounds
		}
	} else {
		if params.SqrtPriceLimitX96.Cmp(p.SqrtPriceX96) <= 0 {
			return nil, ErrPriceLimitAlreadyExceeded
		}
		if params.SqrtPriceLimitX96.Cmp(MaxSqrtPrice) >= 0 {
			return nil, ErrPriceLimitOutOfBounds
		}
	}

	if p.LPFeePips >= uint32(MaxSwapFee) && !params.ExactIn && params.AmountSpecified.Sign() != 0 {
		return nil, ErrInvalidForExactOutput
	}

	remaining := new(uint256.Int).Set(params.AmountSpecified)
	calculated := new(uint256.Int)

	sqrtPriceX96 := new(uint256.Int).Set(p.SqrtPriceX96)
	tick := p.Tick
	liquidity := new(uint256.Int).Set(p.Liquidity)
	protocolFeeAccum := new(uint256.Int)

	var feeGrowthGlobalInput *uint256.Int
	if params.ZeroForOne {
		feeGrowthGlobalInput = new(uint256.Int).Set(p.FeeGrowthGlobal0X128)
	} else {
		feeGrowthGlobalInput = new(uint256.Int).Set(p.FeeGrowthGlobal1X128)
	}

	for remaining.Sign() != 0 && sqrtPriceX96.Cmp(params.SqrtPriceLimitX96) != 0 {
		sqrtPriceStepStart := new(uint256.Int).Set(sqrtPriceX96)
		nextTick, initialized := p.Bitmap.NextInitializedTickWithinOneWord(tick, p.Key.TickSpacing, params.ZeroForOne)

		if nextTick < MinTick {
			nextTick = MinTick
		} else if nextTick > MaxTick {
			nextTick = MaxTick
		}

		sqrtPriceNextTick, err := GetSqrtPriceAtTick(nextTick)
		if err != nil {
			return nil, err
		}

		target := sqrtPriceNextTick
		if params.ZeroForOne {
			if sqrtPriceNextTick.Cmp(params.SqrtPriceLimitX96) < 0 {
				target = params.SqrtPriceLimitX96
			}
		} else {
			if sqrtPriceNextTick.Cmp(params.SqrtPriceLimitX96) > 0 {
				target = params.SqrtPriceLimitX96
			}
		}

		step, err := ComputeSwapStep(sqrtPriceX96, target, liquidity, remaining, params.ExactIn, p.LPFeePips)
		if err != nil {
			return nil, err
		}

		if params.ExactIn {
			consumed := new(uint256.Int).Add(step.AmountIn, step.FeeAmount)
			remaining = new(uint256.Int).Sub(remaining, consumed)
			calculated = new(uint256.Int).Add(calculated, step.AmountOut)
		} else {
			remaining = new(uint256.Int).Sub(remaining, step.AmountOut)
			calculated = new(uint256.Int).Add(calculated, new(uint256.Int).Add(step.AmountIn, step.FeeAmount))
		}

		if liquidity.Sign() > 0 {
			growth, err := MulDiv(step.FeeAmount, Q128, liquidity)
			if err != nil {
				return nil, err
			}
			feeGrowthGlobalInput = new(uint256.Int).Add(feeGrowthGlobalInput, growth)
		}

		if p.ProtocolFeePips > 0 {
			protoCut, err := MulDiv(step.FeeAmount, uint256.NewInt(uint64(p.ProtocolFeePips)), uint256.NewInt(uint64(MaxSwapFee)))
			if err != nil {
				return nil, err
			}
			protocolFeeAccum = new(uint256.Int).Add(protocolFeeAccum, protoCut)
		}

		sqrtPriceX96 = step.SqrtPriceNextX96

		if sqrtPriceX96.Cmp(sqrtPriceNextTick) == 0 {
			if initialized {
				var g0, g1 *uint256.Int
				if params.ZeroForOne {
					g0, g1 = feeGrowthGlobalInput, p.FeeGrowthGlobal1X128
				} else {
					g0, g1 = p.FeeGrowthGlobal0X128, feeGrowthGlobalInput
				}
				netMag, netNeg := p.Ticks.Cross(nextTick, g0, g1)
				if params.ZeroForOne {
					netNeg = !netNeg
				}
				newLiquidity, err := AddDelta(liquidity, netMag, netNeg)
				if err != nil {
					return nil, err
				}
				liquidity = newLiquidity
			}
			if params.ZeroForOne {
				tick = nextTick - 1
			} else {
				tick = nextTick
			}
		} else if sqrtPriceX96.Cmp(sqrtPriceStepStart) != 0 {
			tick, err = GetTickAtSqrtPrice(sqrtPriceX96)
			if err != nil {
				return nil, err
			}
		}
	}

	p.SqrtPriceX96 = sqrtPriceX96
	p.Tick = tick
	p.Liquidity = liquidity
	if params.ZeroForOne {
		p.FeeGrowthGlobal0X128 = feeGrowthGlobalInput
		p.ProtocolFeesToken0 = new(uint256.Int).Add(p.ProtocolFeesToken0, protocolFeeAccum)
	} else {
		p.FeeGrowthGlobal1X128 = feeGrowthGlobalInput
		p.ProtocolFeesToken1 = new(uint256.Int).Add(p.ProtocolFeesToken1, protocolFeeAccum)
	}

	consumed := new(uint256.Int).Sub(params.AmountSpecified, remaining)
	result := &SwapResult{}
	if params.ZeroForOne == params.ExactIn {
		result.Amount0, result.Amount1 = consumed, calculated
	} else {
		result.Amount0, result.Amount1 = calculated, consumed
	}
	result.Amount0Negative = !params.ZeroForOne
	result.Amount1Negative = params.ZeroForOne
	return result, nil
}

// Donate distributes amount0/amount1 directly into the global fee-growth
// accumulators without going through a swap -- spec §9's Design Notes call
// out fee-growth as the system's central bookkeeping mechanism, and this
// shares 100% of its formula with swap fee accrual
// (growth += amount * 2^128 / liquidity). Grounded on
// parsdao-pars/dex/pool_manager.go's Donate.
func (p *Pool) Donate(amount0, amount1 *uint256.Int) error {
	if !p.isInitialized() {
		return ErrPoolNotInitialized
	}
	if p.Liquidity.IsZero() {
		return ErrNoLiquidity
	}
	if amount0 != nil && amount0.Sign() > 0 {
		growth0, err := MulDiv(amount0, Q128, p.Liquidity)
		if err != nil {
			return err
		}
		p.FeeGrowthGlobal0X128 = new(uint256.Int).Add(p.FeeGrowthGlobal0X128, growth0)
	}
	if amount1 != nil && amount1.Sign() > 0 {
		growth1, err := MulDiv(amount1, Q128, p.Liquidity)
		if err != nil {
			return err
		}
		p.FeeGrowthGlobal1X128 = new(uint256.Int).Add(p.FeeGrowthGlobal1X128, growth1)
	}
	return nil
}

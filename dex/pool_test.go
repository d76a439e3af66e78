// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package dex

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

func newTestPool(t *testing.T, spacing int32) *Pool {
	t.Helper()
	key := PoolKey{
		Currency0:   Currency{common.HexToAddress("0x0000000000000000000000000000000000000001")},
		Currency1:   Currency{common.HexToAddress("0x0000000000000000000000000000000000000002")},
		Fee:         3000,
		TickSpacing: spacing,
	}
	return NewPool(key)
}

var ownerA = common.HexToAddress("0x000000000000000000000000000000000000000A")

// TestS1Initialize covers spec §8 scenario S1.
func TestS1Initialize(t *testing.T) {
	p := newTestPool(t, 2)
	tick, err := p.Initialize(SqrtPriceAtTick0, 3000)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if tick != 0 {
		t.Errorf("tick = %d, want 0", tick)
	}
	if p.ProtocolFeePips != 0 {
		t.Errorf("protocol_fee = %d, want 0", p.ProtocolFeePips)
	}
	if p.SqrtPriceX96.Cmp(SqrtPriceAtTick0) != 0 {
		t.Errorf("sqrt price changed on initialize")
	}
	if !p.Liquidity.IsZero() {
		t.Errorf("liquidity = %s, want 0", p.Liquidity)
	}
}

func TestInitializeTwiceFails(t *testing.T) {
	p := newTestPool(t, 2)
	if _, err := p.Initialize(SqrtPriceAtTick0, 3000); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, err := p.Initialize(SqrtPriceAtTick0, 3000); err != ErrPoolAlreadyInitialized {
		t.Errorf("err = %v, want ErrPoolAlreadyInitialized", err)
	}
}

// TestS2AddLiquiditySymmetric covers spec §8 scenario S2.
func TestS2AddLiquiditySymmetric(t *testing.T) {
	p := newTestPool(t, 2)
	if _, err := p.Initialize(SqrtPriceAtTick0, 3000); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	result, err := p.ModifyLiquidity(ModifyLiquidityParams{
		Owner:           ownerA,
		TickLower:       -60,
		TickUpper:       60,
		LiquidityDelta:  uint256.NewInt(1_000_000),
		DeltaIsPositive: true,
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if result.Amount0.Sign() <= 0 || result.Amount1.Sign() <= 0 {
		t.Errorf("expected both amounts positive, got (%s, %s)", result.Amount0, result.Amount1)
	}
	if result.FeesOwed0.Sign() != 0 || result.FeesOwed1.Sign() != 0 {
		t.Errorf("expected zero fees on first touch, got (%s, %s)", result.FeesOwed0, result.FeesOwed1)
	}
	if p.Liquidity.Uint64() != 1_000_000 {
		t.Errorf("pool.liquidity = %s, want 1000000", p.Liquidity)
	}

	lower, ok := p.Ticks.Get(-60)
	if !ok {
		t.Fatal("expected tick entry at -60")
	}
	if lower.LiquidityGross.Uint64() != 1_000_000 || lower.LiquidityNetNeg {
		t.Errorf("lower tick: gross=%s netNeg=%v, want 1000000/false", lower.LiquidityGross, lower.LiquidityNetNeg)
	}
	upper, ok := p.Ticks.Get(60)
	if !ok {
		t.Fatal("expected tick entry at 60")
	}
	if upper.LiquidityGross.Uint64() != 1_000_000 || !upper.LiquidityNetNeg {
		t.Errorf("upper tick: gross=%s netNeg=%v, want 1000000/true", upper.LiquidityGross, upper.LiquidityNetNeg)
	}

	if !p.Bitmap.IsInitialized(-60, 2) || !p.Bitmap.IsInitialized(60, 2) {
		t.Error("expected bitmap bits set at both boundary ticks")
	}
}

func addSymmetricLiquidity(t *testing.T, p *Pool) {
	t.Helper()
	if _, err := p.ModifyLiquidity(ModifyLiquidityParams{
		Owner:           ownerA,
		TickLower:       -60,
		TickUpper:       60,
		LiquidityDelta:  uint256.NewInt(1_000_000),
		DeltaIsPositive: true,
	}); err != nil {
		t.Fatalf("unexpected err adding liquidity: %v", err)
	}
}

// TestS3ExactInZeroForOne covers spec §8 scenario S3.
func TestS3ExactInZeroForOne(t *testing.T) {
	p := newTestPool(t, 2)
	if _, err := p.Initialize(SqrtPriceAtTick0, 3000); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	addSymmetricLiquidity(t, p)

	startPrice := new(uint256.Int).Set(p.SqrtPriceX96)
	priceLimit, err := GetSqrtPriceAtTick(-2)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	result, err := p.Swap(SwapParams{
		ZeroForOne:        true,
		AmountSpecified:   uint256.NewInt(10),
		ExactIn:           true,
		SqrtPriceLimitX96: priceLimit,
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if result.Amount0.Uint64() != 10 {
		t.Errorf("amount0 = %s, want 10 (exact-in equals specified)", result.Amount0)
	}
	if result.Amount1.Sign() <= 0 {
		t.Errorf("amount1 = %s, want > 0", result.Amount1)
	}
	if p.SqrtPriceX96.Cmp(startPrice) >= 0 {
		t.Error("expected price to strictly decrease")
	}
	if p.SqrtPriceX96.Cmp(priceLimit) < 0 {
		t.Error("expected price to not go below the limit")
	}
	if p.Tick > 0 {
		t.Errorf("tick = %d, want <= 0", p.Tick)
	}
}

// TestS4ExactOutOneForZero covers spec §8 scenario S4.
func TestS4ExactOutOneForZero(t *testing.T) {
	p := newTestPool(t, 2)
	if _, err := p.Initialize(SqrtPriceAtTick0, 3000); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	addSymmetricLiquidity(t, p)

	priceLimitS3, err := GetSqrtPriceAtTick(-2)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, err := p.Swap(SwapParams{
		ZeroForOne:        true,
		AmountSpecified:   uint256.NewInt(10),
		ExactIn:           true,
		SqrtPriceLimitX96: priceLimitS3,
	}); err != nil {
		t.Fatalf("unexpected err on S3 setup swap: %v", err)
	}

	preSwapPrice := new(uint256.Int).Set(p.SqrtPriceX96)
	priceLimit, err := GetSqrtPriceAtTick(101)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	result, err := p.Swap(SwapParams{
		ZeroForOne:        false,
		AmountSpecified:   uint256.NewInt(10),
		ExactIn:           false,
		SqrtPriceLimitX96: priceLimit,
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if result.Amount0.Uint64() != 10 {
		t.Errorf("amount0 = %s, want 10 (exact-out equals specified)", result.Amount0)
	}
	if result.Amount1.Sign() <= 0 {
		t.Errorf("amount1 = %s, want > 0", result.Amount1)
	}
	if p.SqrtPriceX96.Cmp(preSwapPrice) <= 0 {
		t.Error("expected price to strictly increase")
	}
	if p.SqrtPriceX96.Cmp(priceLimit) > 0 {
		t.Error("expected price to not exceed the limit")
	}
}

// TestS5MisorderedTicksFail covers spec §8 scenario S5.
func TestS5MisorderedTicksFail(t *testing.T) {
	p := newTestPool(t, 2)
	if _, err := p.Initialize(SqrtPriceAtTick0, 3000); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	liquidityBefore := new(uint256.Int).Set(p.Liquidity)

	_, err := p.ModifyLiquidity(ModifyLiquidityParams{
		Owner:           ownerA,
		TickLower:       60,
		TickUpper:       -60,
		LiquidityDelta:  uint256.NewInt(1_000_000),
		DeltaIsPositive: true,
	})
	if err != ErrTicksMisordered {
		t.Errorf("err = %v, want ErrTicksMisordered", err)
	}
	if p.Liquidity.Cmp(liquidityBefore) != 0 {
		t.Error("expected pool.liquidity unchanged after rejected call")
	}
}

// TestS6MaxLiquidityPerTickScalesWithSpacing covers spec §8 scenario S6.
func TestS6MaxLiquidityPerTickScalesWithSpacing(t *testing.T) {
	spacing1 := MaxLiquidityPerTick(1)
	spacing60 := MaxLiquidityPerTick(60)
	if spacing60.Cmp(spacing1) <= 0 {
		t.Errorf("MaxLiquidityPerTick(60)=%s not strictly greater than MaxLiquidityPerTick(1)=%s", spacing60, spacing1)
	}
}

// TestRemoveLiquidityClearsEmptiedTicks covers spec §4.9 step 5 and is a
// regression check for invariant 1 (bitmap bit set iff tick entry exists).
func TestRemoveLiquidityClearsEmptiedTicks(t *testing.T) {
	p := newTestPool(t, 2)
	if _, err := p.Initialize(SqrtPriceAtTick0, 3000); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	addSymmetricLiquidity(t, p)

	if _, err := p.ModifyLiquidity(ModifyLiquidityParams{
		Owner:           ownerA,
		TickLower:       -60,
		TickUpper:       60,
		LiquidityDelta:  uint256.NewInt(1_000_000),
		DeltaIsPositive: false,
	}); err != nil {
		t.Fatalf("unexpected err removing liquidity: %v", err)
	}

	if !p.Liquidity.IsZero() {
		t.Errorf("pool.liquidity = %s, want 0", p.Liquidity)
	}
	if _, ok := p.Ticks.Get(-60); ok {
		t.Error("expected lower tick entry cleared once liquidity_gross returns to zero")
	}
	if _, ok := p.Ticks.Get(60); ok {
		t.Error("expected upper tick entry cleared once liquidity_gross returns to zero")
	}
	if p.Bitmap.IsInitialized(-60, 2) || p.Bitmap.IsInitialized(60, 2) {
		t.Error("expected bitmap bits cleared alongside tick entries (invariant 1)")
	}
}

func TestSwapPriceLimitValidation(t *testing.T) {
	p := newTestPool(t, 2)
	if _, err := p.Initialize(SqrtPriceAtTick0, 3000); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	addSymmetricLiquidity(t, p)

	// zeroForOne requires the limit strictly below current price.
	_, err := p.Swap(SwapParams{
		ZeroForOne:        true,
		AmountSpecified:   uint256.NewInt(10),
		ExactIn:           true,
		SqrtPriceLimitX96: new(uint256.Int).Set(p.SqrtPriceX96),
	})
	if err != ErrPriceLimitAlreadyExceeded {
		t.Errorf("err = %v, want ErrPriceLimitAlreadyExceeded", err)
	}
}

func TestDonateAccruesFeeGrowth(t *testing.T) {
	p := newTestPool(t, 2)
	if _, err := p.Initialize(SqrtPriceAtTick0, 3000); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if err := p.Donate(uint256.NewInt(100), uint256.NewInt(0)); err != ErrNoLiquidity {
		t.Errorf("err = %v, want ErrNoLiquidity with zero liquidity", err)
	}

	addSymmetricLiquidity(t, p)
	before0 := new(uint256.Int).Set(p.FeeGrowthGlobal0X128)
	if err := p.Donate(uint256.NewInt(1_000_000), uint256.NewInt(0)); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if p.FeeGrowthGlobal0X128.Cmp(before0) <= 0 {
		t.Error("expected fee_growth_global0 to increase after donate")
	}
}

func TestSetProtocolFeeAndLPFeeBounds(t *testing.T) {
	p := newTestPool(t, 2)
	if err := p.SetProtocolFee(1000); err != ErrPoolNotInitialized {
		t.Errorf("err = %v, want ErrPoolNotInitialized before initialize", err)
	}
	if _, err := p.Initialize(SqrtPriceAtTick0, 3000); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if err := p.SetProtocolFee(MaxProtocolFeePips + 1); err != ErrInvalidSwapFee {
		t.Errorf("err = %v, want ErrInvalidSwapFee", err)
	}
	if err := p.SetProtocolFee(MaxProtocolFeePips); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if p.ProtocolFeePips != MaxProtocolFeePips {
		t.Errorf("ProtocolFeePips = %d, want %d", p.ProtocolFeePips, MaxProtocolFeePips)
	}

	if err := p.SetLPFee(uint32(MaxSwapFee) + 1); err != ErrInvalidSwapFee {
		t.Errorf("err = %v, want ErrInvalidSwapFee", err)
	}
}

// TestSwapConservesFeesInProtocolCounter covers the protocol-fee side
// accounting decided in DESIGN.md's Open Question 1: the cut is tracked but
// never deducted from fee_growth_global.
func TestSwapConservesFeesInProtocolCounter(t *testing.T) {
	p := newTestPool(t, 2)
	if _, err := p.Initialize(SqrtPriceAtTick0, 3000); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	addSymmetricLiquidity(t, p)
	if err := p.SetProtocolFee(100_000); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	priceLimit, err := GetSqrtPriceAtTick(-2)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, err := p.Swap(SwapParams{
		ZeroForOne:        true,
		AmountSpecified:   uint256.NewInt(10_000),
		ExactIn:           true,
		SqrtPriceLimitX96: priceLimit,
	}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	fees0, fees1 := p.CollectProtocolFees()
	if fees0.Sign() <= 0 {
		t.Error("expected nonzero protocol fee accrued on token0 (the input side)")
	}
	if fees1.Sign() != 0 {
		t.Error("expected zero protocol fee accrued on token1 (the output side)")
	}

	fees0Again, _ := p.CollectProtocolFees()
	if fees0Again.Sign() != 0 {
		t.Error("expected CollectProtocolFees to zero the counter")
	}
}

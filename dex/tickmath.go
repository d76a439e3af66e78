// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package dex

import (
	"math/big"

	"github.com/holiman/uint256"
)

// GetSqrtPriceAtTick computes sqrt(1.0001^tick) * 2^96 via the standard
// binary-exponentiation ladder over the 20 precomputed tickMagicRatios.
// Grounded on other_examples/CoinSummer-uniswap-v3-simulator__tick_math.go
// and other_examples/agatticelli-cex-dex-arbitrage-bot__tick_math.go (both
// port the same Uniswap v3 TickMath.sol ladder); this version keeps tick as
// a native signed int32 rather than reconstructing sign from a bias.
func GetSqrtPriceAtTick(tick int32) (*uint256.Int, error) {
	if tick < MinTick || tick > MaxTick {
		return nil, ErrInvalidTick
	}

	absTick := tick
	if absTick < 0 {
		absTick = -absTick
	}

	ratio := new(uint256.Int)
	if absTick&0x1 != 0 {
		ratio.Set(tickMagicRatios[0])
	} else {
		ratio.Lsh(uint256.NewInt(1), 128)
	}

	for i := 1; i < 20; i++ {
		if absTick&(1<<uint(i)) != 0 {
			ratio = mulShift128(ratio, tickMagicRatios[i])
		}
	}

	if tick > 0 {
		ratio = new(uint256.Int).Div(maxUint256, ratio)
	}

	// ceil(ratio / 2^32)
	q, r := new(uint256.Int).DivMod(ratio, new(uint256.Int).Lsh(uint256.NewInt(1), 32), new(uint256.Int))
	if r.Sign() != 0 {
		q = new(uint256.Int).AddUint64(q, 1)
	}
	return q, nil
}

// mulShift128 returns (a*b) >> 128. The tick-math ladder keeps ratio as a
// Q128 fixed-point value no larger than 2^128 and each tickMagicRatios entry
// is itself < 2^128, so the product never exceeds 256 bits -- ordinary
// uint256 multiplication (not the 512-bit path C2 needs for arbitrary
// operands) is exact here, matching the *big.Int Mul-then-Rsh the reference
// files use.
func mulShift128(a, b *uint256.Int) *uint256.Int {
	result := new(uint256.Int).Mul(a, b)
	return result.Rsh(result, 128)
}

var (
	logSqrt10001MultiplierBig = mustBig(logSqrt10001Multiplier)
	tickLowMagicBig           = mustBig(tickLowMagic)
	tickHighMagicBig          = mustBig(tickHighMagic)
)

func mustBig(s string) *big.Int {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("dex: invalid decimal constant " + s)
	}
	return n
}

// GetTickAtSqrtPrice inverts GetSqrtPriceAtTick via the log2-approximation
// bit-iteration procedure, grounded on
// other_examples/CoinSummer-uniswap-v3-simulator__tick_math.go's
// GetTickAtSqrtRatio (the only reference file that implements the exact
// magic-constant inverse rather than a binary search over
// GetSqrtPriceAtTick). The running log2 accumulator is signed -- negative
// when sqrtPriceX96 is below SqrtPriceAtTick0 -- so this routine alone
// uses math/big for its arithmetic right shifts; math/big.Int.Rsh on a negative value performs the
// floor-toward-negative-infinity shift the original two's-complement
// algorithm relies on, which a plain uint256 shift cannot express.
func GetTickAtSqrtPrice(sqrtPriceX96 *uint256.Int) (int32, error) {
	if sqrtPriceX96.Cmp(MinSqrtPrice) < 0 || sqrtPriceX96.Cmp(MaxSqrtPrice) >= 0 {
		return 0, ErrInvalidSqrtPrice
	}

	sqrtRatioX128 := new(uint256.Int).Lsh(sqrtPriceX96, 32)
	msb := sqrtRatioX128.BitLen() - 1

	var r *uint256.Int
	if msb >= 128 {
		r = new(uint256.Int).Rsh(sqrtRatioX128, uint(msb-127))
	} else {
		r = new(uint256.Int).Lsh(sqrtRatioX128, uint(127-msb))
	}

	log2 := new(big.Int).Lsh(big.NewInt(int64(msb)-128), 64)
	rBig := r.ToBig()

	for i := 0; i < 14; i++ {
		rBig.Mul(rBig, rBig)
		rBig.Rsh(rBig, 127)
		f := new(big.Int).Rsh(rBig, 128) // 0 or 1
		log2.Or(log2, new(big.Int).Lsh(f, uint(63-i)))
		rBig.Rsh(rBig, uint(f.Uint64()))
	}

	logSqrt10001 := new(big.Int).Mul(log2, logSqrt10001MultiplierBig)

	tickLowBig := new(big.Int).Rsh(new(big.Int).Sub(logSqrt10001, tickLowMagicBig), 128)
	tickHighBig := new(big.Int).Rsh(new(big.Int).Add(logSqrt10001, tickHighMagicBig), 128)

	tickLow := int32(tickLowBig.Int64())
	tickHigh := int32(tickHighBig.Int64())

	if tickLow == tickHigh {
		return tickLow, nil
	}

	sqrtAtHigh, err := GetSqrtPriceAtTick(tickHigh)
	if err != nil {
		return tickLow, nil
	}
	if sqrtAtHigh.Cmp(sqrtPriceX96) <= 0 {
		return tickHigh, nil
	}
	return tickLow, nil
}

// NumTicks returns the count of ticks that are multiples of spacing within
// [MinTick, MaxTick], the denominator of max_liquidity_per_tick.
func NumTicks(spacing int32) int32 {
	minTick := (MinTick / spacing) * spacing
	maxTick := (MaxTick / spacing) * spacing
	return (maxTick-minTick)/spacing + 1
}

// MaxLiquidityPerTick returns 2^128 / num_ticks(spacing), the cap §4.9
// enforces on a tick's liquidity_gross after any positive update.
func MaxLiquidityPerTick(spacing int32) *uint256.Int {
	n := NumTicks(spacing)
	return new(uint256.Int).Div(new(uint256.Int).Lsh(uint256.NewInt(1), 128), uint256.NewInt(uint64(n)))
}

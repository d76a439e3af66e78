// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package dex

import "github.com/holiman/uint256"

// Tick bounds. The source format biases ticks by +887272 so they fit an
// unsigned wire type; this module keeps ticks as native signed int32 and
// carries no bias anywhere in memory.
const (
	MinTick int32 = -887272
	MaxTick int32 = 887272

	MinTickSpacing int32 = 1
	MaxTickSpacing int32 = 32767

	// MaxSwapFee is expressed in hundredths of a basis point; 1_000_000 == 100%.
	MaxSwapFee uint32 = 1_000_000

	// MaxProtocolFeePips caps the protocol's cut of MaxSwapFee at 25%.
	MaxProtocolFeePips uint32 = 250_000
)

// Q96 / Q128 and the sqrt-price bounds are reproduced bit-exact from the
// Uniswap v3/v4 family.
var (
	Q96  = uint256.NewInt(1).Lsh(uint256.NewInt(1), 96)
	Q128 = uint256.NewInt(1).Lsh(uint256.NewInt(1), 128)

	MinSqrtPrice     = uint256.NewInt(4295128739)
	MaxSqrtPrice     = uint256.MustFromDecimal("1461446703485210103287273052203988822378723970342")
	SqrtPriceAtTick0 = new(uint256.Int).Set(Q96)
	maxUint256       = new(uint256.Int).SetAllOne()
	maxUint160       = new(uint256.Int).Sub(new(uint256.Int).Lsh(uint256.NewInt(1), 160), uint256.NewInt(1))
	maxUint128Value  = new(uint256.Int).Sub(new(uint256.Int).Lsh(uint256.NewInt(1), 128), uint256.NewInt(1))
)

// tickMagicRatios[i] ~= 2^128 / sqrt(1.0001)^(2^i), the standard Uniswap v3
// TickMath binary-exponentiation ladder. Bit i of |tick| selects whether
// tickMagicRatios[i] is folded into the running product.
var tickMagicRatios = [20]*uint256.Int{
	uint256.MustFromHex("0xfffcb933bd6fad37aa2d162d1a594001"),
	uint256.MustFromHex("0xfff97272373d413259a46990580e213a"),
	uint256.MustFromHex("0xfff2e50f5f656932ef12357cf3c7fdcc"),
	uint256.MustFromHex("0xffe5caca7e10e4e61c3624eaa0941cd0"),
	uint256.MustFromHex("0xffcb9843d60f6159c9db58835c926644"),
	uint256.MustFromHex("0xff973b41fa98c081472e6896dfb254c0"),
	uint256.MustFromHex("0xff2ea16466c96a3843ec78b326b52861"),
	uint256.MustFromHex("0xfe5dee046a99a2a811c461f1969c3053"),
	uint256.MustFromHex("0xfcbe86c7900a88aedcffc83b479aa3a4"),
	uint256.MustFromHex("0xf987a7253ac413176f2b074cf7815e54"),
	uint256.MustFromHex("0xf3392b0822b70005940c7a398e4b70f3"),
	uint256.MustFromHex("0xe7159475a2c29b7443b29c7fa6e889d9"),
	uint256.MustFromHex("0xd097f3bdfd2022b8845ad8f792aa5825"),
	uint256.MustFromHex("0xa9f746462d870fdf8a65dc1f90e061e5"),
	uint256.MustFromHex("0x70d869a156d2a1b890bb3df62baf32f7"),
	uint256.MustFromHex("0x31be135f97d08fd981231505542fcfa6"),
	uint256.MustFromHex("0x9aa508b5b7a84e1c677de54f3e99bc9"),
	uint256.MustFromHex("0x5d6af8dedb81196699c329225ee604"),
	uint256.MustFromHex("0x2216e584f5fa1ea926041bedfe98"),
	uint256.MustFromHex("0x48a170391f7dc42444e8fa2"),
}

// Magic constants for the log2-approximation inverse (sqrt-price -> tick).
const (
	logSqrt10001Multiplier = "255738958999603826347141"
	tickLowMagic           = "3402992956809132418596140100660247210"
	tickHighMagic          = "291339464771989622907027621153398088495"
)

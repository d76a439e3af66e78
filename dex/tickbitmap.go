// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package dex

import "math/bits"

// TickBitmap is a sparse map from word index to a 256-bit initialized-tick
// word, keyed on compressed = tick/spacing. Grounded on
// parsdao-pars/dex/gpu/tick_bitmap.go's word/bit split -- kept as a Go map
// rather than that file's fixed [4]uint64-per-word layout plus LRU cache
// (the cache fields there are unused dead scaffolding, see DESIGN.md) and
// adapted to the one-word MSB/LSB search other_examples/agatticelli-cex-dex
// -arbitrage-bot__tick_bitmap.go implements against a single *big.Int word.
type TickBitmap struct {
	words map[int32][4]uint64
}

// NewTickBitmap returns an empty bitmap.
func NewTickBitmap() *TickBitmap {
	return &TickBitmap{words: make(map[int32][4]uint64)}
}

func wordPos(compressed int32) int32 {
	return compressed >> 8
}

func bitPos(compressed int32) uint8 {
	pos := compressed & 0xFF
	return uint8(pos)
}

func limbBit(bp uint8) (limb int, bit uint) {
	return int(bp / 64), uint(bp % 64)
}

// Flip toggles the initialized state of tick. Requires tick to be a
// multiple of spacing (§3's TickBitmap invariant).
func (tb *TickBitmap) Flip(tick, spacing int32) error {
	if tick%spacing != 0 {
		return ErrTickMisaligned
	}
	compressed := tick / spacing
	wp := wordPos(compressed)
	bp := bitPos(compressed)
	limb, bit := limbBit(bp)

	word := tb.words[wp]
	word[limb] ^= 1 << bit
	if word == ([4]uint64{}) {
		delete(tb.words, wp)
	} else {
		tb.words[wp] = word
	}
	return nil
}

// IsInitialized reports whether tick's bit is set.
func (tb *TickBitmap) IsInitialized(tick, spacing int32) bool {
	if tick%spacing != 0 {
		return false
	}
	compressed := tick / spacing
	wp := wordPos(compressed)
	bp := bitPos(compressed)
	limb, bit := limbBit(bp)
	word := tb.words[wp]
	return word[limb]&(1<<bit) != 0
}

// NextInitializedTickWithinOneWord implements spec §4.5: searching within
// the word containing (or adjacent to, for lte=false) tick's compressed
// index, returns the next initialized tick in the requested direction, or
// the word boundary with initialized=false if none is set.
func (tb *TickBitmap) NextInitializedTickWithinOneWord(tick, spacing int32, lte bool) (next int32, initialized bool) {
	compressed := floorDiv(tick, spacing)

	if lte {
		wp := wordPos(compressed)
		bp := bitPos(compressed)
		word := tb.words[wp]

		limb, bit := limbBit(bp)
		masked := [4]uint64{}
		for i := 0; i < limb; i++ {
			masked[i] = word[i]
		}
		masked[limb] = word[limb] & (uint64(1)<<(bit+1) - 1)

		if msbLimb, ok := msbWord(masked); ok {
			foundCompressed := wp*256 + int32(msbLimb)
			return foundCompressed * spacing, true
		}
		return wp * 256 * spacing, false
	}

	nextCompressed := compressed + 1
	wp := wordPos(nextCompressed)
	bp := bitPos(nextCompressed)
	word := tb.words[wp]

	limb, bit := limbBit(bp)
	masked := [4]uint64{}
	masked[limb] = word[limb] &^ (uint64(1)<<bit - 1)
	for i := limb + 1; i < 4; i++ {
		masked[i] = word[i]
	}

	if lsbLimb, ok := lsbWord(masked); ok {
		foundCompressed := wp*256 + int32(lsbLimb)
		return foundCompressed * spacing, true
	}
	return (wp*256 + 255) * spacing, false
}

// floorDiv divides rounding toward negative infinity, matching
// compressed = tick/spacing for negative ticks not aligned to spacing.
func floorDiv(tick, spacing int32) int32 {
	q := tick / spacing
	if (tick%spacing != 0) && ((tick < 0) != (spacing < 0)) {
		q--
	}
	return q
}

// msbWord returns the (limb*64+bit) index of the highest set bit across the
// four 64-bit limbs of a word. It scans the limbs from high to low and takes
// the first nonzero limb's top bit from bits.LeadingZeros64; it does not
// binary-search over bit halves. No floating point is involved.
func msbWord(word [4]uint64) (int, bool) {
	for limb := 3; limb >= 0; limb-- {
		if word[limb] != 0 {
			return limb*64 + (63 - bits.LeadingZeros64(word[limb])), true
		}
	}
	return 0, false
}

// lsbWord returns the (limb*64+bit) index of the lowest set bit across the
// four limbs, searching low to high.
func lsbWord(word [4]uint64) (int, bool) {
	for limb := 0; limb < 4; limb++ {
		if word[limb] != 0 {
			return limb*64 + bits.TrailingZeros64(word[limb]), true
		}
	}
	return 0, false
}

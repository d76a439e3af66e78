// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package dex implements a Uniswap v4-style concentrated-liquidity pool
// engine: tick-indexed pool state, a sparse tick bitmap, a position ledger,
// and the fixed-point math that drives swaps and liquidity changes.
//
// The engine owns no custody and no routing. Callers settle the currency
// deltas it reports through their own accounting; this package only tracks
// what is owed and refuses to let a caller walk away with a nonzero balance
// outstanding.
package dex

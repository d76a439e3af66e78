// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package dex

import "github.com/holiman/uint256"

// Ledger is the caller-visible currency-delta ledger described in spec §6:
// a mapping (target, currency) -> signed amount with a nonzero-count
// watermark, used for deferred settlement across a sequence of operations.
// Grounded on parsdao-pars/dex/pool_manager.go's currentDeltas map plus its
// updateDelta/verifySettlement pair, trimmed of the teacher's reentrancy
// lock and hook callback plumbing (out of scope: pool registry/custody and
// dynamic hooks are both spec Non-goals or explicitly external).
type Ledger struct {
	deltas    map[[32]byte]map[Currency]*deltaEntry
	nonzero   int
}

type deltaEntry struct {
	magnitude *uint256.Int
	negative  bool
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{deltas: make(map[[32]byte]map[Currency]*deltaEntry)}
}

// Add applies a signed delta for (target, currency), per updateDelta in the
// teacher: positive means target now owes the pool more, negative means the
// pool owes target more.
func (l *Ledger) Add(target [32]byte, currency Currency, magnitude *uint256.Int, negative bool) {
	byCurrency, ok := l.deltas[target]
	if !ok {
		byCurrency = make(map[Currency]*deltaEntry)
		l.deltas[target] = byCurrency
	}

	entry, ok := byCurrency[currency]
	if !ok {
		entry = &deltaEntry{magnitude: new(uint256.Int)}
		byCurrency[currency] = entry
	}

	wasZero := entry.magnitude.IsZero()
	entry.magnitude, entry.negative = signedAdd(entry.magnitude, !entry.negative, magnitude, !negative)
	entry.negative = !entry.negative
	isZero := entry.magnitude.IsZero()

	if wasZero && !isZero {
		l.nonzero++
	} else if !wasZero && isZero {
		l.nonzero--
	}
}

// Get returns the current outstanding delta for (target, currency).
func (l *Ledger) Get(target [32]byte, currency Currency) (magnitude *uint256.Int, negative bool) {
	byCurrency, ok := l.deltas[target]
	if !ok {
		return new(uint256.Int), false
	}
	entry, ok := byCurrency[currency]
	if !ok {
		return new(uint256.Int), false
	}
	return new(uint256.Int).Set(entry.magnitude), entry.negative
}

// NonzeroCount returns the number of (target, currency) pairs with a
// nonzero outstanding delta.
func (l *Ledger) NonzeroCount() int {
	return l.nonzero
}

// RequireSettled implements the teardown refusal the teacher's
// verifySettlement performs: fails if any delta is still outstanding.
func (l *Ledger) RequireSettled() error {
	if l.nonzero != 0 {
		return ErrLedgerNotSettled
	}
	return nil
}

// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package dex

import "github.com/ethereum/go-ethereum/common"

// Currency is a minimal, address-only token identity. Grounded on
// parsdao-pars/dex/types.go's Currency, stripped of everything beyond
// addressing -- coin/asset type plumbing is an explicit spec.md
// out-of-scope item, so this module keeps just enough identity for PoolKey
// and the currency-delta ledger to key on.
type Currency struct {
	Address common.Address
}

// NativeCurrency is the zero-address sentinel for the chain's native asset.
var NativeCurrency = Currency{}

// IsNative reports whether c is the native-asset sentinel.
func (c Currency) IsNative() bool {
	return c.Address == common.Address{}
}

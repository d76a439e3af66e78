// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package dex

import (
	"bytes"
	"encoding/binary"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// PositionKey is the keccak256 of owner || tick_lower (LE u32) ||
// tick_upper (LE u32) || salt, per spec §6. Grounded on
// parsdao-pars/dex/types.go's PositionKey, swapped from that file's
// blake3-over-big-endian-u32 encoding to keccak256-over-little-endian-u32
// to match spec §6's explicit serialization, which it calls out as
// distinct from the teacher's own storage-slot convention.
func PositionKey(owner common.Address, tickLower, tickUpper int32, salt [32]byte) [32]byte {
	buf := make([]byte, 0, 20+4+4+32)
	buf = append(buf, owner.Bytes()...)

	var tl, tu [4]byte
	binary.LittleEndian.PutUint32(tl[:], uint32(tickLower))
	binary.LittleEndian.PutUint32(tu[:], uint32(tickUpper))
	buf = append(buf, tl[:]...)
	buf = append(buf, tu[:]...)
	buf = append(buf, salt[:]...)

	return [32]byte(crypto.Keccak256Hash(buf))
}

// PoolKey uniquely identifies a pool by its two sorted currencies, fee, and
// tick spacing. Grounded on parsdao-pars/dex/types.go's PoolKey, trimmed of
// the teacher's Hooks field (dynamic hooks are a spec Non-goal).
type PoolKey struct {
	Currency0   Currency
	Currency1   Currency
	Fee         uint32
	TickSpacing int32
}

// ID computes keccak256(token0 || token1 || fee || tick_spacing) per §6.
func (pk PoolKey) ID() [32]byte {
	buf := make([]byte, 0, 20+20+4+4)
	buf = append(buf, pk.Currency0.Address.Bytes()...)
	buf = append(buf, pk.Currency1.Address.Bytes()...)

	var feeBytes, spacingBytes [4]byte
	binary.LittleEndian.PutUint32(feeBytes[:], pk.Fee)
	binary.LittleEndian.PutUint32(spacingBytes[:], uint32(pk.TickSpacing))
	buf = append(buf, feeBytes[:]...)
	buf = append(buf, spacingBytes[:]...)

	return [32]byte(crypto.Keccak256Hash(buf))
}

// Validate enforces the registry-boundary invariants of §6: token0 < token1
// lexicographically and tick spacing within [MinTickSpacing, MaxTickSpacing].
func (pk PoolKey) Validate() error {
	if bytes.Compare(pk.Currency0.Address.Bytes(), pk.Currency1.Address.Bytes()) >= 0 {
		return ErrInvalidTokenOrder
	}
	if pk.TickSpacing < MinTickSpacing {
		return ErrTickSpacingTooSmall
	}
	if pk.TickSpacing > MaxTickSpacing {
		return ErrTickSpacingTooLarge
	}
	return nil
}

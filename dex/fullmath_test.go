// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package dex

import (
	"testing"

	"github.com/holiman/uint256"
)

func TestMulDiv(t *testing.T) {
	tests := []struct {
		name       string
		a, b, d    *uint256.Int
		want       *uint256.Int
		wantErr    error
	}{
		{
			name: "simple",
			a:    uint256.NewInt(10),
			b:    uint256.NewInt(3),
			d:    uint256.NewInt(2),
			want: uint256.NewInt(15),
		},
		{
			name:    "denominator zero",
			a:       uint256.NewInt(1),
			b:       uint256.NewInt(1),
			d:       uint256.NewInt(0),
			wantErr: ErrDenominatorZero,
		},
		{
			name:    "overflow",
			a:       maxUint256,
			b:       maxUint256,
			d:       uint256.NewInt(1),
			wantErr: ErrOverflow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MulDiv(tt.a, tt.b, tt.d)
			if tt.wantErr != nil {
				if err != tt.wantErr {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if got.Cmp(tt.want) != 0 {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestMulDivRoundingUp(t *testing.T) {
	// 10*3/4 = 7.5 -> floor 7, rounding-up 8
	got, err := MulDivRoundingUp(uint256.NewInt(10), uint256.NewInt(3), uint256.NewInt(4))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.Uint64() != 8 {
		t.Errorf("got %d, want 8", got.Uint64())
	}

	// exact division: rounding-up must equal floor
	gotExact, err := MulDivRoundingUp(uint256.NewInt(10), uint256.NewInt(4), uint256.NewInt(2))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if gotExact.Uint64() != 20 {
		t.Errorf("got %d, want 20", gotExact.Uint64())
	}
}

// TestMulDivRoundingLaw checks spec §8 property 8: the rounding-up result
// minus the floor result is 0 or 1, and is 1 iff a*b mod d != 0.
func TestMulDivRoundingLaw(t *testing.T) {
	cases := [][3]uint64{
		{7, 9, 5},
		{100, 200, 3},
		{1, 1, 1},
		{123456789, 987654321, 1000},
	}
	for _, c := range cases {
		a, b, d := uint256.NewInt(c[0]), uint256.NewInt(c[1]), uint256.NewInt(c[2])
		floor, err := MulDiv(a, b, d)
		if err != nil {
			t.Fatalf("MulDiv: %v", err)
		}
		up, err := MulDivRoundingUp(a, b, d)
		if err != nil {
			t.Fatalf("MulDivRoundingUp: %v", err)
		}
		diff := new(uint256.Int).Sub(up, floor)
		mod := MulMod(a, b, d)
		if mod.Sign() == 0 {
			if diff.Sign() != 0 {
				t.Errorf("case %v: diff = %s, want 0 (mod is 0)", c, diff)
			}
		} else if diff.Uint64() != 1 {
			t.Errorf("case %v: diff = %s, want 1 (mod is nonzero)", c, diff)
		}
	}
}

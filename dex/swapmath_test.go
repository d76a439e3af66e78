// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package dex

import (
	"testing"

	"github.com/holiman/uint256"
)

func TestComputeSwapStepExactInPartialFill(t *testing.T) {
	sqrtCurrent := SqrtPriceAtTick0
	sqrtTarget, err := GetSqrtPriceAtTick(-60)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	liquidity := uint256.NewInt(1_000_000)

	step, err := ComputeSwapStep(sqrtCurrent, sqrtTarget, liquidity, uint256.NewInt(10), true, 3000)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if step.AmountIn.Sign() <= 0 {
		t.Error("expected positive amount_in")
	}
	if step.AmountOut.Sign() <= 0 {
		t.Error("expected positive amount_out")
	}
	if step.FeeAmount.Sign() <= 0 {
		t.Error("expected positive fee for nonzero input at nonzero fee tier")
	}
	// Price should have moved toward (but not necessarily reach) target.
	if step.SqrtPriceNextX96.Cmp(sqrtTarget) < 0 || step.SqrtPriceNextX96.Cmp(sqrtCurrent) > 0 {
		t.Errorf("sqrt_price_next %s outside [%s, %s]", step.SqrtPriceNextX96, sqrtTarget, sqrtCurrent)
	}
}

func TestComputeSwapStepExactOutputReachesTarget(t *testing.T) {
	sqrtCurrent := SqrtPriceAtTick0
	sqrtTarget, err := GetSqrtPriceAtTick(60)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	liquidity := uint256.NewInt(1_000_000)

	// A very large amount_out request should be capped at what the step to
	// target can deliver, landing exactly on sqrtTarget.
	step, err := ComputeSwapStep(sqrtCurrent, sqrtTarget, liquidity, uint256.NewInt(1_000_000_000), false, 3000)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if step.SqrtPriceNextX96.Cmp(sqrtTarget) != 0 {
		t.Errorf("sqrt_price_next = %s, want target %s", step.SqrtPriceNextX96, sqrtTarget)
	}
}

func TestComputeSwapStepExactOutputRejectsMaxFee(t *testing.T) {
	sqrtTarget, err := GetSqrtPriceAtTick(60)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	_, err = ComputeSwapStep(SqrtPriceAtTick0, sqrtTarget, uint256.NewInt(1_000_000), uint256.NewInt(10), false, uint32(MaxSwapFee))
	if err != ErrInvalidSwapFee {
		t.Errorf("err = %v, want ErrInvalidSwapFee", err)
	}
}

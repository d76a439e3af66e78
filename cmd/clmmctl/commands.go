// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/luxfi/clmm/dex"
)

var demoCurrency0 = dex.Currency{Address: common.HexToAddress("0x0000000000000000000000000000000000000001")}
var demoCurrency1 = dex.Currency{Address: common.HexToAddress("0x0000000000000000000000000000000000000002")}

// newDemoPool builds an uninitialized pool for the fee tier named by
// tierName, applying any --lp-fee/--tick-spacing overrides. Each invocation
// is independent -- there is no pool registry to look an existing pool up in
// (§1 out of scope), so "demo" pools always start from a fresh PoolKey.
func newDemoPool(cmd *cobra.Command, tierName string) (*dex.Pool, FeeTier, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	lpFeeOverride, _ := cmd.Flags().GetInt("lp-fee")
	spacingOverride, _ := cmd.Flags().GetInt("tick-spacing")

	tiers, err := loadFeeTiers(cfgFile)
	if err != nil {
		return nil, FeeTier{}, err
	}
	tier, err := resolveFeeTier(tiers, tierName, lpFeeOverride, spacingOverride)
	if err != nil {
		return nil, FeeTier{}, err
	}

	key := dex.PoolKey{
		Currency0:   demoCurrency0,
		Currency1:   demoCurrency1,
		Fee:         tier.LPFeePips,
		TickSpacing: tier.TickSpacing,
	}
	if err := key.Validate(); err != nil {
		return nil, FeeTier{}, err
	}
	return dex.NewPool(key), tier, nil
}

func parseUint256(s, flag string) (*uint256.Int, error) {
	v, err := uint256.FromDecimal(s)
	if err != nil {
		return nil, fmt.Errorf("--%s: %w", flag, err)
	}
	return v, nil
}

func newInitPoolCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init-pool",
		Short: "initialize a fresh pool and print its resulting tick",
		RunE:  runInitPool,
	}
	cmd.Flags().String("sqrt-price", "79228162514264337593543950336", "initial sqrt price, Q64.96")
	cmd.Flags().String("fee-tier", "medium", "fee tier preset (low, medium, high)")
	cmd.Flags().Int("lp-fee", -1, "override the tier's LP fee in pips")
	cmd.Flags().Int("tick-spacing", 0, "override the tier's tick spacing")
	return cmd
}

func runInitPool(cmd *cobra.Command, _ []string) error {
	logLevel, _ := cmd.Flags().GetString("log-level")
	logger, err := newLogger(logLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	tierName, _ := cmd.Flags().GetString("fee-tier")
	pool, tier, err := newDemoPool(cmd, tierName)
	if err != nil {
		return err
	}

	sqrtPriceStr, _ := cmd.Flags().GetString("sqrt-price")
	sqrtPrice, err := parseUint256(sqrtPriceStr, "sqrt-price")
	if err != nil {
		return err
	}

	tick, err := pool.Initialize(sqrtPrice, tier.LPFeePips)
	if err != nil {
		return err
	}

	logger.Info("pool initialized",
		zap.String("pool_id", fmt.Sprintf("%x", pool.Key.ID())),
		zap.String("sqrt_price_x96", sqrtPrice.Dec()),
		zap.Int32("tick", tick),
		zap.Uint32("lp_fee_pips", tier.LPFeePips),
		zap.Int32("tick_spacing", tier.TickSpacing),
	)
	return nil
}

func newAddLiquidityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add-liquidity",
		Short: "initialize a pool then modify a position's liquidity",
		RunE:  runAddLiquidity,
	}
	cmd.Flags().String("sqrt-price", "79228162514264337593543950336", "initial sqrt price, Q64.96")
	cmd.Flags().String("fee-tier", "medium", "fee tier preset (low, medium, high)")
	cmd.Flags().Int("lp-fee", -1, "override the tier's LP fee in pips")
	cmd.Flags().Int("tick-spacing", 0, "override the tier's tick spacing")
	cmd.Flags().String("owner", "0x0000000000000000000000000000000000000003", "position owner address")
	cmd.Flags().Int32("tick-lower", -60, "lower tick boundary")
	cmd.Flags().Int32("tick-upper", 60, "upper tick boundary")
	cmd.Flags().String("liquidity", "1000000", "liquidity delta magnitude")
	cmd.Flags().Bool("remove", false, "remove liquidity instead of adding it")
	return cmd
}

func runAddLiquidity(cmd *cobra.Command, _ []string) error {
	logLevel, _ := cmd.Flags().GetString("log-level")
	logger, err := newLogger(logLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	tierName, _ := cmd.Flags().GetString("fee-tier")
	pool, tier, err := newDemoPool(cmd, tierName)
	if err != nil {
		return err
	}

	sqrtPriceStr, _ := cmd.Flags().GetString("sqrt-price")
	sqrtPrice, err := parseUint256(sqrtPriceStr, "sqrt-price")
	if err != nil {
		return err
	}
	if _, err := pool.Initialize(sqrtPrice, tier.LPFeePips); err != nil {
		return err
	}

	ownerStr, _ := cmd.Flags().GetString("owner")
	tickLower, _ := cmd.Flags().GetInt32("tick-lower")
	tickUpper, _ := cmd.Flags().GetInt32("tick-upper")
	liquidityStr, _ := cmd.Flags().GetString("liquidity")
	remove, _ := cmd.Flags().GetBool("remove")

	liquidity, err := parseUint256(liquidityStr, "liquidity")
	if err != nil {
		return err
	}

	result, err := pool.ModifyLiquidity(dex.ModifyLiquidityParams{
		Owner:           common.HexToAddress(ownerStr),
		TickLower:       tickLower,
		TickUpper:       tickUpper,
		LiquidityDelta:  liquidity,
		DeltaIsPositive: !remove,
	})
	if err != nil {
		return err
	}

	logger.Info("liquidity modified",
		zap.Bool("positive", !remove),
		zap.String("liquidity_delta", liquidity.Dec()),
		zap.Int32("tick_lower", tickLower),
		zap.Int32("tick_upper", tickUpper),
		zap.String("amount0", signedAmountString(result.Amount0, result.Amount0Negative)),
		zap.String("amount1", signedAmountString(result.Amount1, result.Amount1Negative)),
		zap.String("fees_owed0", result.FeesOwed0.Dec()),
		zap.String("fees_owed1", result.FeesOwed1.Dec()),
		zap.String("pool_liquidity_after", pool.Liquidity.Dec()),
	)
	return nil
}

func newSwapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "swap",
		Short: "initialize a pool, seed a liquidity range, then swap against it",
		RunE:  runSwap,
	}
	cmd.Flags().String("sqrt-price", "79228162514264337593543950336", "initial sqrt price, Q64.96")
	cmd.Flags().String("fee-tier", "medium", "fee tier preset (low, medium, high)")
	cmd.Flags().Int("lp-fee", -1, "override the tier's LP fee in pips")
	cmd.Flags().Int("tick-spacing", 0, "override the tier's tick spacing")
	cmd.Flags().Int32("seed-tick-lower", -120, "lower tick boundary of the seed liquidity range")
	cmd.Flags().Int32("seed-tick-upper", 120, "upper tick boundary of the seed liquidity range")
	cmd.Flags().String("seed-liquidity", "1000000", "liquidity to seed before swapping")
	cmd.Flags().Bool("zero-for-one", true, "swap direction: true moves price down")
	cmd.Flags().Bool("exact-output", false, "treat --amount as the desired output instead of the input")
	cmd.Flags().String("amount", "10", "amount specified for the swap")
	cmd.Flags().String("price-limit", "", "sqrt price limit, Q64.96 (defaults to the protocol bound in the swap direction)")
	return cmd
}

func runSwap(cmd *cobra.Command, _ []string) error {
	logLevel, _ := cmd.Flags().GetString("log-level")
	logger, err := newLogger(logLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	tierName, _ := cmd.Flags().GetString("fee-tier")
	pool, tier, err := newDemoPool(cmd, tierName)
	if err != nil {
		return err
	}

	sqrtPriceStr, _ := cmd.Flags().GetString("sqrt-price")
	sqrtPrice, err := parseUint256(sqrtPriceStr, "sqrt-price")
	if err != nil {
		return err
	}
	if _, err := pool.Initialize(sqrtPrice, tier.LPFeePips); err != nil {
		return err
	}

	seedTickLower, _ := cmd.Flags().GetInt32("seed-tick-lower")
	seedTickUpper, _ := cmd.Flags().GetInt32("seed-tick-upper")
	seedLiquidityStr, _ := cmd.Flags().GetString("seed-liquidity")
	seedLiquidity, err := parseUint256(seedLiquidityStr, "seed-liquidity")
	if err != nil {
		return err
	}
	if _, err := pool.ModifyLiquidity(dex.ModifyLiquidityParams{
		Owner:           common.HexToAddress("0x0000000000000000000000000000000000000004"),
		TickLower:       seedTickLower,
		TickUpper:       seedTickUpper,
		LiquidityDelta:  seedLiquidity,
		DeltaIsPositive: true,
	}); err != nil {
		return fmt.Errorf("seed liquidity: %w", err)
	}

	zeroForOne, _ := cmd.Flags().GetBool("zero-for-one")
	exactOutput, _ := cmd.Flags().GetBool("exact-output")
	amountStr, _ := cmd.Flags().GetString("amount")
	priceLimitStr, _ := cmd.Flags().GetString("price-limit")

	amount, err := parseUint256(amountStr, "amount")
	if err != nil {
		return err
	}

	priceLimit := defaultPriceLimit(zeroForOne)
	if priceLimitStr != "" {
		priceLimit, err = parseUint256(priceLimitStr, "price-limit")
		if err != nil {
			return err
		}
	}

	result, err := pool.Swap(dex.SwapParams{
		ZeroForOne:        zeroForOne,
		AmountSpecified:   amount,
		ExactIn:           !exactOutput,
		SqrtPriceLimitX96: priceLimit,
	})
	if err != nil {
		return err
	}

	logger.Info("swap executed",
		zap.Bool("zero_for_one", zeroForOne),
		zap.Bool("exact_in", !exactOutput),
		zap.String("amount_specified", amount.Dec()),
		zap.String("amount0", signedAmountString(result.Amount0, result.Amount0Negative)),
		zap.String("amount1", signedAmountString(result.Amount1, result.Amount1Negative)),
		zap.String("sqrt_price_after", pool.SqrtPriceX96.Dec()),
		zap.Int32("tick_after", pool.Tick),
		zap.String("liquidity_after", pool.Liquidity.Dec()),
	)
	return nil
}

// defaultPriceLimit picks the protocol-wide bound in the swap's direction so
// a demo run need not compute one by hand; the engine still stops earlier if
// the amount is exhausted first.
func defaultPriceLimit(zeroForOne bool) *uint256.Int {
	if zeroForOne {
		return new(uint256.Int).AddUint64(dex.MinSqrtPrice, 1)
	}
	return new(uint256.Int).SubUint64(dex.MaxSqrtPrice, 1)
}

func signedAmountString(magnitude *uint256.Int, negative bool) string {
	if negative && magnitude.Sign() != 0 {
		return "-" + magnitude.Dec()
	}
	return magnitude.Dec()
}

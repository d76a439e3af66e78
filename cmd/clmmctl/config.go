// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// FeeTier is a named (lpFeePips, tickSpacing) preset, the CLI-facing
// equivalent of the fee tiers a pool registry would otherwise hold (pool
// registry itself is out of scope per spec.md §1). Grounded on
// luoyeETH-liquidityScope/internal/config.Config's viper-defaults-plus-
// config-file-override shape.
type FeeTier struct {
	LPFeePips   uint32
	TickSpacing int32
}

// defaultFeeTiers mirrors the Uniswap v3/v4 standard tier ladder.
var defaultFeeTiers = map[string]FeeTier{
	"low":    {LPFeePips: 500, TickSpacing: 10},
	"medium": {LPFeePips: 3000, TickSpacing: 60},
	"high":   {LPFeePips: 10000, TickSpacing: 200},
}

// loadFeeTiers merges the built-in presets with any overrides from cfgFile
// (a YAML/JSON/TOML document with a top-level "fee-tiers" map) or the
// CLMMCTL_FEE_TIERS_* environment namespace.
func loadFeeTiers(cfgFile string) (map[string]FeeTier, error) {
	v := viper.New()
	v.SetEnvPrefix("CLMMCTL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	for name, tier := range defaultFeeTiers {
		v.SetDefault("fee-tiers."+name+".lp-fee-pips", tier.LPFeePips)
		v.SetDefault("fee-tiers."+name+".tick-spacing", tier.TickSpacing)
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("clmmctl")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	tiers := make(map[string]FeeTier, len(defaultFeeTiers))
	raw, ok := v.Get("fee-tiers").(map[string]interface{})
	if !ok {
		for name := range defaultFeeTiers {
			tiers[name] = FeeTier{
				LPFeePips:   uint32(v.GetUint32("fee-tiers." + name + ".lp-fee-pips")),
				TickSpacing: int32(v.GetInt32("fee-tiers." + name + ".tick-spacing")),
			}
		}
		return tiers, nil
	}
	for name := range raw {
		tiers[name] = FeeTier{
			LPFeePips:   uint32(v.GetUint32("fee-tiers." + name + ".lp-fee-pips")),
			TickSpacing: int32(v.GetInt32("fee-tiers." + name + ".tick-spacing")),
		}
	}
	return tiers, nil
}

func resolveFeeTier(tiers map[string]FeeTier, name string, lpFeeOverride int, spacingOverride int) (FeeTier, error) {
	tier, ok := tiers[name]
	if !ok && name != "" {
		return FeeTier{}, fmt.Errorf("unknown fee tier %q", name)
	}
	if lpFeeOverride >= 0 {
		tier.LPFeePips = uint32(lpFeeOverride)
	}
	if spacingOverride > 0 {
		tier.TickSpacing = int32(spacingOverride)
	}
	if tier.TickSpacing == 0 {
		tier.TickSpacing = defaultFeeTiers["medium"].TickSpacing
	}
	return tier, nil
}

// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Command clmmctl is a small demo CLI that drives the dex package's pool
// engine end to end (initialize, modify-liquidity, swap) so the scenarios in
// spec.md §8 can be run from a shell rather than only from tests. It has no
// persistence layer -- each subcommand builds a fresh in-memory pool, since
// pool registry / routing and custody are explicit spec.md out-of-scope
// items (§1). Grounded on luoyeETH-liquidityScope/cmd/indexer's cobra root +
// viper config + zap logger shape; the teacher package itself ships no CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	root := &cobra.Command{
		Use:          "clmmctl",
		Short:        "drive the concentrated-liquidity pool engine from a shell",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "fee-tier config file path")
	root.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(newInitPoolCmd())
	root.AddCommand(newAddLiquidityCmd())
	root.AddCommand(newSwapCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

// secq - Threshold security-question vault with decoy secrets
// Copyright (C) 2025 secq-project
//
// This file is part of secq.
//
// secq is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// secq is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with secq. If not, see <https://www.gnu.org/licenses/>.

// SPDX-License-Identifier: LGPL-3.0-or-later

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/secq-project/secq/config"
	"github.com/secq-project/secq/internal/logger"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "secq",
	Short: "secq - threshold security-question vault with decoy secrets",
	Long: `secq builds and recovers threshold security-question vaults.

A recovery kit lets a secret be reconstructed from a subset of answered
security questions, while a wrong or incomplete set of answers always
reconstructs a plausible decoy instead of an error — so an attacker who
doesn't hold enough correct answers can never tell whether what they
recovered is real.

This tool supports:
- Building a recovery kit from a question set, a real secret, and decoys
- Recovering a secret from a set of selected answers`,
}

func main() {
	cfg := config.MustLoad(config.LoaderOptions{
		ConfigDir:      "config",
		SkipValidation: false,
	})

	level := logger.InfoLevel
	if cfg.Logging != nil {
		level = parseLevel(cfg.Logging.Level)
	}
	logger.GetDefaultLogger().SetLevel(level)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func parseLevel(s string) logger.Level {
	switch s {
	case "debug":
		return logger.DebugLevel
	case "warn":
		return logger.WarnLevel
	case "error":
		return logger.ErrorLevel
	default:
		return logger.InfoLevel
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to a config file (currently not read; configuration is loaded from the config/ directory)")

	// Note: subcommands are registered in their respective files
	// - build.go: buildCmd
	// - recover.go: recoverCmd
	// - serve.go: serveCmd
}

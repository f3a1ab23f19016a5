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

// Package config loads the process-wide settings the cmd/secq
// orchestrator reads once at startup. The core packages (crypto/*,
// kit/*) never read global config themselves — they take every
// parameter explicitly (§5).
package config

import "github.com/secq-project/secq/crypto/kdf"

// Config is the top-level settings document for a secq process.
type Config struct {
	Environment string          `yaml:"environment" json:"environment"`
	Logging     *LoggingConfig  `yaml:"logging" json:"logging"`
	Metrics     *MetricsConfig  `yaml:"metrics" json:"metrics"`
	Health      *HealthConfig   `yaml:"health" json:"health"`
	KDF         *KDFConfig      `yaml:"kdf" json:"kdf"`
	Hardness    *HardnessConfig `yaml:"hardness" json:"hardness"`
	Decoys      *DecoyConfig    `yaml:"decoys" json:"decoys"`
}

// LoggingConfig controls internal/logger's default logger.
type LoggingConfig struct {
	Level    string `yaml:"level" json:"level"`
	Format   string `yaml:"format" json:"format"`
	Output   string `yaml:"output" json:"output"`
	FilePath string `yaml:"file_path" json:"file_path"`
}

// MetricsConfig controls the internal/metrics promhttp endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Addr    string `yaml:"addr" json:"addr"`
	Path    string `yaml:"path" json:"path"`
}

// HealthConfig controls a liveness/readiness endpoint for cmd/secq
// when it runs as a long-lived recovery service rather than a one-shot
// CLI invocation.
type HealthConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Addr    string `yaml:"addr" json:"addr"`
	Path    string `yaml:"path" json:"path"`
}

// KDFConfig is the default Argon2id tuning applied to every answer
// derivation in a BuildKit call, plus the calibration target used when
// CalibrateIfZero is set (setDefaults sets it when MemoryCostKiB is left
// at zero) (§4.2).
type KDFConfig struct {
	TimeCost            uint32 `yaml:"time_cost" json:"time_cost"`
	MemoryCostKiB       uint32 `yaml:"memory_cost_kib" json:"memory_cost_kib"`
	Parallelism         uint8  `yaml:"parallelism" json:"parallelism"`
	CalibrateIfZero     bool   `yaml:"calibrate_if_zero" json:"calibrate_if_zero"`
	CalibrationTargetMS int    `yaml:"calibration_target_ms" json:"calibration_target_ms"`
}

// ToKDFParams converts the configured defaults into crypto/kdf.Params.
func (k KDFConfig) ToKDFParams() kdf.Params {
	return kdf.Params{Time: k.TimeCost, MemoryKiB: k.MemoryCostKiB, Parallelism: k.Parallelism}
}

// HardnessConfig mirrors the kit/hardness gate's tunables (§4.9), kept
// here only so an operator can see and override them without touching
// code; BuildKit always enforces FloorBits regardless of config.
type HardnessConfig struct {
	FloorBits              float64 `yaml:"floor_bits" json:"floor_bits"`
	ThresholdFloorMin      int     `yaml:"threshold_floor_min" json:"threshold_floor_min"`
	ThresholdFloorFraction float64 `yaml:"threshold_floor_fraction" json:"threshold_floor_fraction"`
}

// DecoyConfig carries decoy defaults for operators to inspect. BuildKit
// does not read them; they are only checked by ValidateConfiguration.
type DecoyConfig struct {
	DefaultCount        int `yaml:"default_count" json:"default_count"`
	FirstDecoyThreshold int `yaml:"first_decoy_threshold" json:"first_decoy_threshold"`
}

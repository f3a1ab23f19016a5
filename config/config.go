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

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFromFile loads a Config from a YAML or JSON file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file (tried YAML and JSON): %w", err)
		}
	}

	setDefaults(cfg)

	return cfg, nil
}

// SaveToFile saves a Config to a file, choosing JSON or YAML by extension.
func SaveToFile(cfg *Config, path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".json") {
		data, err = json.MarshalIndent(cfg, "", "  ")
	} else {
		data, err = yaml.Marshal(cfg)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// setDefaults fills in zero-valued fields with the operational
// defaults named in SPEC_FULL §1.3.
func setDefaults(cfg *Config) {
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	if cfg.Logging == nil {
		cfg.Logging = &LoggingConfig{}
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}

	if cfg.Metrics == nil {
		cfg.Metrics = &MetricsConfig{}
	}
	if cfg.Metrics.Addr == "" {
		cfg.Metrics.Addr = ":9090"
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}

	if cfg.Health == nil {
		cfg.Health = &HealthConfig{}
	}
	if cfg.Health.Addr == "" {
		cfg.Health.Addr = ":8081"
	}
	if cfg.Health.Path == "" {
		cfg.Health.Path = "/healthz"
	}

	if cfg.KDF == nil {
		cfg.KDF = &KDFConfig{}
	}
	if cfg.KDF.MemoryCostKiB == 0 {
		cfg.KDF.CalibrateIfZero = true
	}
	if cfg.KDF.CalibrationTargetMS == 0 {
		cfg.KDF.CalibrationTargetMS = 250
	}

	if cfg.Hardness == nil {
		cfg.Hardness = &HardnessConfig{}
	}
	if cfg.Hardness.FloorBits == 0 {
		cfg.Hardness.FloorBits = 80.0
	}
	if cfg.Hardness.ThresholdFloorMin == 0 {
		cfg.Hardness.ThresholdFloorMin = 8
	}
	if cfg.Hardness.ThresholdFloorFraction == 0 {
		cfg.Hardness.ThresholdFloorFraction = 0.35
	}

	if cfg.Decoys == nil {
		cfg.Decoys = &DecoyConfig{}
	}
	if cfg.Decoys.DefaultCount == 0 {
		cfg.Decoys.DefaultCount = 1
	}
	if cfg.Decoys.FirstDecoyThreshold == 0 {
		cfg.Decoys.FirstDecoyThreshold = 1
	}
}

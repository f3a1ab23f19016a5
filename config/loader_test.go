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
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	cfg, err := Load(LoaderOptions{
		ConfigDir:      ".",
		Environment:    "development",
		EnvFile:        "",
		SkipValidation: true,
	})

	if err != nil {
		t.Fatalf("Failed to load development config: %v", err)
	}

	if cfg.Environment != "development" {
		t.Errorf("Environment = %q, want %q", cfg.Environment, "development")
	}

	if cfg.KDF == nil || cfg.KDF.CalibrationTargetMS == 0 {
		t.Error("KDF.CalibrationTargetMS should have a default value")
	}
}

func TestLoadForEnvironment(t *testing.T) {
	tests := []string{"development", "staging", "production", "local"}

	for _, env := range tests {
		t.Run(env, func(t *testing.T) {
			cfg, err := Load(LoaderOptions{
				ConfigDir:      ".",
				Environment:    env,
				EnvFile:        "",
				SkipValidation: true,
			})
			if err != nil {
				t.Fatalf("Failed to load %s config: %v", env, err)
			}

			if cfg.Environment != env {
				t.Errorf("Environment = %q, want %q", cfg.Environment, env)
			}
		})
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	os.Setenv("SECQ_LOG_LEVEL", "debug")
	os.Setenv("SECQ_METRICS_ADDR", ":19191")
	defer os.Unsetenv("SECQ_LOG_LEVEL")
	defer os.Unsetenv("SECQ_METRICS_ADDR")

	cfg, err := Load(LoaderOptions{
		ConfigDir:      ".",
		Environment:    "development",
		EnvFile:        "",
		SkipValidation: true,
	})

	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}

	if cfg.Metrics.Addr != ":19191" {
		t.Errorf("Metrics.Addr = %q, want %q", cfg.Metrics.Addr, ":19191")
	}
}

func TestLoadWithCustomConfigDir(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test.yaml")

	testConfig := `
environment: test
logging:
  level: info
  format: json
`
	if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := Load(LoaderOptions{
		ConfigDir:      tmpDir,
		Environment:    "test",
		EnvFile:        "",
		SkipValidation: true,
	})

	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg == nil {
		t.Fatal("Config should not be nil")
	}

	if cfg.Environment != "test" {
		t.Errorf("Environment = %q, want %q", cfg.Environment, "test")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "info")
	}
}

func TestDefaultLoaderOptions(t *testing.T) {
	opts := DefaultLoaderOptions()

	if opts.ConfigDir != "config" {
		t.Errorf("ConfigDir = %q, want %q", opts.ConfigDir, "config")
	}

	if opts.SkipEnvSubstitution {
		t.Error("SkipEnvSubstitution should be false by default")
	}

	if opts.SkipValidation {
		t.Error("SkipValidation should be false by default")
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)

	if cfg.Environment != "development" {
		t.Errorf("Default environment = %q, want %q", cfg.Environment, "development")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Default logging level = %q, want %q", cfg.Logging.Level, "info")
	}
	if cfg.Metrics.Addr != ":9090" {
		t.Errorf("Default metrics addr = %q, want %q", cfg.Metrics.Addr, ":9090")
	}
}

func TestHardnessConfigDefaults(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)

	if cfg.Hardness.FloorBits != 80.0 {
		t.Errorf("Hardness.FloorBits = %v, want %v", cfg.Hardness.FloorBits, 80.0)
	}
	if cfg.Hardness.ThresholdFloorMin != 8 {
		t.Errorf("Hardness.ThresholdFloorMin = %d, want %d", cfg.Hardness.ThresholdFloorMin, 8)
	}
	if cfg.Hardness.ThresholdFloorFraction != 0.35 {
		t.Errorf("Hardness.ThresholdFloorFraction = %v, want %v", cfg.Hardness.ThresholdFloorFraction, 0.35)
	}
}

func TestDecoyConfigDefaults(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)

	if cfg.Decoys.DefaultCount != 1 {
		t.Errorf("Decoys.DefaultCount = %d, want %d", cfg.Decoys.DefaultCount, 1)
	}
	if cfg.Decoys.FirstDecoyThreshold != 1 {
		t.Errorf("Decoys.FirstDecoyThreshold = %d, want %d", cfg.Decoys.FirstDecoyThreshold, 1)
	}
}

func TestKDFConfigCalibratesWhenMemoryUnset(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)

	if !cfg.KDF.CalibrateIfZero {
		t.Error("KDF.CalibrateIfZero should default to true when MemoryCostKiB is unset")
	}
}

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

import "fmt"

// ValidationError describes one problem found in a loaded Config.
// Level is either "error" (Load fails) or "warning" (Load continues;
// warnings are not logged or returned by Load).
type ValidationError struct {
	Field   string
	Message string
	Level   string
}

func (e ValidationError) String() string {
	return fmt.Sprintf("[%s] %s: %s", e.Level, e.Field, e.Message)
}

// ValidateConfiguration checks a loaded Config for values that would
// make BuildKit or Recover misbehave. It never rejects the kit-shaped
// parameters themselves (kit/hardness and crypto/kdf enforce those at
// call time); it only catches configuration that is structurally
// unusable, such as an Argon2id memory cost below the floor.
func ValidateConfiguration(cfg *Config) []ValidationError {
	var errs []ValidationError

	if cfg == nil {
		return []ValidationError{{Field: "config", Message: "configuration is nil", Level: "error"}}
	}

	if cfg.KDF != nil && !cfg.KDF.CalibrateIfZero {
		if cfg.KDF.MemoryCostKiB != 0 && cfg.KDF.MemoryCostKiB < 8192 {
			errs = append(errs, ValidationError{
				Field:   "kdf.memory_cost_kib",
				Message: "below the 8192 KiB floor enforced by crypto/kdf",
				Level:   "error",
			})
		}
		if cfg.KDF.Parallelism != 0 && cfg.KDF.Parallelism > 32 {
			errs = append(errs, ValidationError{
				Field:   "kdf.parallelism",
				Message: "above the 32-lane ceiling enforced by crypto/kdf",
				Level:   "error",
			})
		}
	}

	if cfg.Hardness != nil && cfg.Hardness.FloorBits < 80.0 {
		errs = append(errs, ValidationError{
			Field:   "hardness.floor_bits",
			Message: "below the 80-bit combinatorial floor; refusing to weaken it",
			Level:   "error",
		})
	}

	if cfg.Decoys != nil && cfg.Decoys.DefaultCount < 1 {
		errs = append(errs, ValidationError{
			Field:   "decoys.default_count",
			Message: "a recovery kit must carry at least one decoy",
			Level:   "error",
		})
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if cfg.Logging != nil && cfg.Logging.Level != "" && !validLevels[cfg.Logging.Level] {
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Message: fmt.Sprintf("unrecognized log level %q", cfg.Logging.Level),
			Level:   "warning",
		})
	}

	return errs
}

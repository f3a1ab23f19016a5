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

// Package kdf implements the Argon2id-based key derivation used to turn an
// answer's text into an AEAD key, plus calibration and timing-estimation
// helpers; cmd/secq's build command calibrates with Calibrate, and
// EstimateMS serves brute-force time estimates.
package kdf

import (
	"fmt"
	"time"

	"golang.org/x/crypto/argon2"
)

// KeyLen is the fixed output length for every derived key (bytes).
const KeyLen = 32

// Params are the Argon2id tuning knobs persisted alongside each envelope.
type Params struct {
	Time        uint32 `json:"t" yaml:"time_cost"`
	MemoryKiB   uint32 `json:"m" yaml:"memory_cost"`
	Parallelism uint8  `json:"p" yaml:"parallelism"`
}

// Bounds enforced on any Params accepted from a kit file or config (§4.2).
const (
	MinTime        = 1
	MaxTime        = 10
	MinMemoryKiB   = 8192
	MaxMemoryKiB   = 1048576
	MinParallelism = 1
	MaxParallelism = 32
)

// Validate checks Params against the bounds in §4.2.
func (p Params) Validate() error {
	if p.Time < MinTime || p.Time > MaxTime {
		return fmt.Errorf("kdf: time cost %d out of range [%d,%d]", p.Time, MinTime, MaxTime)
	}
	if p.MemoryKiB < MinMemoryKiB || p.MemoryKiB > MaxMemoryKiB {
		return fmt.Errorf("kdf: memory cost %d KiB out of range [%d,%d]", p.MemoryKiB, MinMemoryKiB, MaxMemoryKiB)
	}
	if p.Parallelism < MinParallelism || p.Parallelism > MaxParallelism {
		return fmt.Errorf("kdf: parallelism %d out of range [%d,%d]", p.Parallelism, MinParallelism, MaxParallelism)
	}
	return nil
}

// Derive runs Argon2id over passwordBytes with the given salt and
// parameters, returning a KeyLen-byte key. passwordBytes is typically the
// normalized alternative text for an answer-derived key (§4.2, §4.5).
func Derive(passwordBytes, salt []byte, p Params) []byte {
	return argon2.IDKey(passwordBytes, salt, p.Time, p.MemoryKiB, p.Parallelism, KeyLen)
}

// DefaultCalibrationStart is the starting point for Calibrate (§4.2).
func DefaultCalibrationStart() Params {
	return Params{Time: 2, MemoryKiB: 256 * 1024, Parallelism: 1}
}

// DefaultTargetDuration is the calibration wall-clock target.
const DefaultTargetDuration = 250 * time.Millisecond

const maxCalibrationMemoryKiB = 1024 * 1024 // 1 GiB
const maxCalibrationTime = 6

// nowFunc and deriveFunc are indirections so tests can calibrate without
// spending real wall-clock time on Argon2id.
var (
	nowFunc    = time.Now
	deriveFunc = func(pw, salt []byte, p Params) []byte { return Derive(pw, salt, p) }
)

// CalibrationResult reports the parameters Calibrate converged on and the
// wall-clock time the final derivation measured.
type CalibrationResult struct {
	Params     Params
	MeasuredMS float64
}

// Calibrate doubles memory (capped at 1 GiB) until a derivation reaches
// target, then increases time cost (capped at 6) if still under target.
// It performs real derivations against a fixed probe salt/password, so it
// should only be invoked once at process start, not per recovery attempt.
func Calibrate(target time.Duration) CalibrationResult {
	if target <= 0 {
		target = DefaultTargetDuration
	}

	probePassword := []byte("secq-kdf-calibration-probe")
	probeSalt := make([]byte, 16)

	p := DefaultCalibrationStart()
	var lastMS float64

	for {
		lastMS = measure(probePassword, probeSalt, p)
		if lastMS >= float64(target.Milliseconds()) {
			return CalibrationResult{Params: p, MeasuredMS: lastMS}
		}
		if p.MemoryKiB < maxCalibrationMemoryKiB {
			p.MemoryKiB *= 2
			if p.MemoryKiB > maxCalibrationMemoryKiB {
				p.MemoryKiB = maxCalibrationMemoryKiB
			}
			continue
		}
		if p.Time < maxCalibrationTime {
			p.Time++
			continue
		}
		return CalibrationResult{Params: p, MeasuredMS: lastMS}
	}
}

func measure(password, salt []byte, p Params) float64 {
	start := nowFunc()
	_ = deriveFunc(password, salt, p)
	return float64(nowFunc().Sub(start).Microseconds()) / 1000.0
}

// EstimateMS averages the measured derivation time over n samples, for use
// by an external brute-force time estimator (out of core scope per §1, but
// the estimate itself is produced here since it is a direct function of the
// calibrated parameters).
func EstimateMS(p Params, samples int) float64 {
	if samples < 1 {
		samples = 1
	}
	password := []byte("secq-kdf-estimation-probe")
	salt := make([]byte, 16)

	var total float64
	for i := 0; i < samples; i++ {
		total += measure(password, salt, p)
	}
	return total / float64(samples)
}

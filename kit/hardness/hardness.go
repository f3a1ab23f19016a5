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

// Package hardness computes the combinatorial strength of a real-secret
// threshold selection and refuses kit construction below the floor
// fixed by §4.9.
package hardness

import (
	"fmt"
	"math"
)

// FloorBits is the minimum acceptable combinatorial strength (§4.9).
const FloorBits = 80.0

// log2Choose returns log2(C(n,k)) via the log-gamma function, which
// stays numerically stable for the large n this gate deals with
// (hundreds of alternatives) where a direct factorial would overflow.
func log2Choose(n, k int) float64 {
	if k < 0 || k > n {
		return math.Inf(-1)
	}
	if k == 0 || k == n {
		return 0
	}
	lgN, _ := math.Lgamma(float64(n + 1))
	lgK, _ := math.Lgamma(float64(k + 1))
	lgNK, _ := math.Lgamma(float64(n-k) + 1)
	return (lgN - lgK - lgNK) / math.Ln2
}

// Bits computes log2(C(nAlt,t)) - log2(C(cReal,t)), the number of bits
// of combinatorial strength protecting the real path (§4.9).
func Bits(nAlt, cReal, t int) float64 {
	return log2Choose(nAlt, t) - log2Choose(cReal, t)
}

// ThresholdFloor returns the minimum real threshold for cReal correct
// alternatives: max(8, ceil(0.35*cReal)) once cReal > 1, else 0 (§4.9).
func ThresholdFloor(cReal int) int {
	if cReal <= 1 {
		return 0
	}
	floor := int(math.Ceil(0.35 * float64(cReal)))
	if floor < 8 {
		floor = 8
	}
	return floor
}

// Check validates a proposed (nAlt, cReal, t) triple against both the
// threshold floor and the bit-strength floor, returning a descriptive
// error if either is violated.
func Check(nAlt, cReal, t int) error {
	if floor := ThresholdFloor(cReal); t < floor {
		return fmt.Errorf("hardness: real threshold %d below floor %d for %d correct alternatives", t, floor, cReal)
	}
	bits := Bits(nAlt, cReal, t)
	if bits < FloorBits {
		return fmt.Errorf("hardness: real path strength %.2f bits below floor %.2f", bits, FloorBits)
	}
	return nil
}

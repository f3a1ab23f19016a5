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

package recovery

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"sort"
)

// maxExhaustiveCombos is the §4.8 cap on exhaustive T-subset enumeration
// before the engine falls back to random sampling.
const maxExhaustiveCombos = 5000

// maxRandomSamples is the §4.8 cap on unique random T-subsets sampled
// when exhaustive enumeration would exceed maxExhaustiveCombos.
const maxRandomSamples = 200

// binomial returns C(n,k), saturating at a value well above
// maxExhaustiveCombos once it's clear exhaustive enumeration won't pay
// off, so it never risks overflow for the alternative counts this
// system deals with.
func binomial(n, k int) int {
	if k < 0 || k > n {
		return 0
	}
	if k == 0 || k == n {
		return 1
	}
	if k > n-k {
		k = n - k
	}
	result := 1
	for i := 0; i < k; i++ {
		result = result * (n - i) / (i + 1)
		if result > maxExhaustiveCombos*10 {
			return result
		}
	}
	return result
}

// kSubsets generates every combination of k indices out of [0,n), in
// lexicographic order, following the same two-pointer construction as
// the ADSS transform's kSubsets helper.
func kSubsets(n, k int) [][]int {
	if k <= 0 || k > n {
		return nil
	}
	if k == n {
		idx := make([]int, n)
		for i := range idx {
			idx[i] = i
		}
		return [][]int{idx}
	}

	var out [][]int
	combo := make([]int, k)
	for i := range combo {
		combo[i] = i
	}
	for {
		out = append(out, append([]int{}, combo...))

		i := k - 1
		for i >= 0 && combo[i] == n-k+i {
			i--
		}
		if i < 0 {
			break
		}
		combo[i]++
		for j := i + 1; j < k; j++ {
			combo[j] = combo[j-1] + 1
		}
	}
	return out
}

// randomSubsets draws up to maxRandomSamples unique k-subsets of [0,n)
// via a CSPRNG, for use when exhaustive enumeration is too large (§4.8).
func randomSubsets(n, k int) ([][]int, error) {
	seen := make(map[string]bool)
	var out [][]int

	for attempt := 0; attempt < maxRandomSamples*4 && len(out) < maxRandomSamples; attempt++ {
		pool := make([]int, n)
		for i := range pool {
			pool[i] = i
		}
		for i := 0; i < k; i++ {
			jBig, err := rand.Int(rand.Reader, big.NewInt(int64(n-i)))
			if err != nil {
				return nil, fmt.Errorf("recovery: sampling random subset: %w", err)
			}
			j := i + int(jBig.Int64())
			pool[i], pool[j] = pool[j], pool[i]
		}
		sub := append([]int{}, pool[:k]...)
		sort.Ints(sub)

		key := fmt.Sprint(sub)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, sub)
	}
	return out, nil
}

// candidateSubsets returns the T-subsets of [0,n) to try: every subset
// when C(n,k) is within maxExhaustiveCombos, otherwise a random sample
// (§4.8).
func candidateSubsets(n, k int) ([][]int, error) {
	if binomial(n, k) <= maxExhaustiveCombos {
		return kSubsets(n, k), nil
	}
	return randomSubsets(n, k)
}

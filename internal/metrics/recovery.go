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

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RecoveryAttemptsTotal tracks Recover outcomes. outcome is one of
	// "recovered", "insufficient", "error" — never "real" versus
	// "decoy", so this metric cannot leak which variant a caller
	// reached (§8 property 5).
	RecoveryAttemptsTotal = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "recovery",
			Name:      "attempts_total",
			Help:      "Total number of recovery attempts, by outcome (never real vs decoy)",
		},
		[]string{"outcome"}, // recovered, insufficient, error
	)

	// RecoveryDuration tracks end-to-end Recover wall-clock time
	RecoveryDuration = promauto.With(Registry).NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "recovery",
			Name:      "duration_seconds",
			Help:      "Recover wall-clock duration in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~20s
		},
	)

	// CombineSubsetsTried tracks how many T-subset candidates a single
	// Recover call had to try before it found one that authenticated
	// (or exhausted its search budget).
	CombineSubsetsTried = promauto.With(Registry).NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "recovery",
			Name:      "combine_subsets_tried",
			Help:      "Number of T-subset candidates tried during combinatorial recovery search",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 14), // 1 to ~8192
		},
	)
)

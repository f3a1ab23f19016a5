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
	// KDFDurationSeconds tracks per-answer Argon2id derivation time,
	// the dominant cost in both BuildKit and Recover.
	KDFDurationSeconds = promauto.With(Registry).NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "kdf",
			Name:      "duration_seconds",
			Help:      "Argon2id derivation duration in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~20s
		},
	)

	// AEADOperationsTotal tracks AEAD seal/open calls by outcome.
	AEADOperationsTotal = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "aead",
			Name:      "operations_total",
			Help:      "Total number of AEAD seal/open operations",
		},
		[]string{"operation", "status"}, // seal/open, success/failure
	)
)

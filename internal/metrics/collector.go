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

package metrics

import (
	"sync"
	"time"
)

// MetricsCollector collects an in-process snapshot of secq operations,
// independent of the Prometheus registry — useful for a CLI summary
// without standing up a scrape endpoint. Like the Prometheus metrics,
// it never records which secret variant a recovery reached (§8
// property 5).
type MetricsCollector struct {
	mu sync.RWMutex

	// Counters
	KitBuilds            int64
	KitBuildRefusals     int64
	RecoveryAttempts     int64
	RecoveriesRecovered  int64
	RecoveryInsufficient int64
	RecoveryErrors       int64

	// Timing metrics (in microseconds)
	KitBuildTimes []int64
	RecoveryTimes []int64
	KDFTimes      []int64

	// Start time for uptime calculation
	startTime time.Time

	// Configuration
	maxTimingSamples int
}

// NewMetricsCollector creates a new metrics collector
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{
		startTime:        time.Now(),
		maxTimingSamples: 1000, // Keep last 1000 samples for each timing metric
	}
}

// RecordKitBuild records a BuildKit call
func (mc *MetricsCollector) RecordKitBuild(refused bool, duration time.Duration) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if refused {
		mc.KitBuildRefusals++
	} else {
		mc.KitBuilds++
	}
	mc.recordTiming(&mc.KitBuildTimes, duration)
}

// RecoveryOutcome classifies a single Recover call for the in-process
// collector. It mirrors the Prometheus outcome label and carries the
// same non-disclosure guarantee (§8 property 5).
type RecoveryOutcome int

const (
	RecoveryOutcomeRecovered RecoveryOutcome = iota
	RecoveryOutcomeInsufficient
	RecoveryOutcomeError
)

// RecordRecovery records a Recover call
func (mc *MetricsCollector) RecordRecovery(outcome RecoveryOutcome, duration time.Duration) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	mc.RecoveryAttempts++
	switch outcome {
	case RecoveryOutcomeRecovered:
		mc.RecoveriesRecovered++
	case RecoveryOutcomeInsufficient:
		mc.RecoveryInsufficient++
	case RecoveryOutcomeError:
		mc.RecoveryErrors++
	}
	mc.recordTiming(&mc.RecoveryTimes, duration)
}

// RecordKDF records a single Argon2id derivation
func (mc *MetricsCollector) RecordKDF(duration time.Duration) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	mc.recordTiming(&mc.KDFTimes, duration)
}

// recordTiming records a timing sample
func (mc *MetricsCollector) recordTiming(timings *[]int64, duration time.Duration) {
	microseconds := duration.Microseconds()
	*timings = append(*timings, microseconds)

	// Keep only last N samples
	if len(*timings) > mc.maxTimingSamples {
		*timings = (*timings)[len(*timings)-mc.maxTimingSamples:]
	}
}

// GetSnapshot returns a snapshot of current metrics
func (mc *MetricsCollector) GetSnapshot() *MetricsSnapshot {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	return &MetricsSnapshot{
		Timestamp:            time.Now(),
		Uptime:               time.Since(mc.startTime),
		KitBuilds:            mc.KitBuilds,
		KitBuildRefusals:     mc.KitBuildRefusals,
		RecoveryAttempts:     mc.RecoveryAttempts,
		RecoveriesRecovered:  mc.RecoveriesRecovered,
		RecoveryInsufficient: mc.RecoveryInsufficient,
		RecoveryErrors:       mc.RecoveryErrors,
		AvgKitBuildTime:      calculateAverage(mc.KitBuildTimes),
		AvgRecoveryTime:      calculateAverage(mc.RecoveryTimes),
		AvgKDFTime:           calculateAverage(mc.KDFTimes),
		P95KitBuildTime:      calculatePercentile(mc.KitBuildTimes, 95),
		P95RecoveryTime:      calculatePercentile(mc.RecoveryTimes, 95),
		P95KDFTime:           calculatePercentile(mc.KDFTimes, 95),
	}
}

// Reset resets all metrics
func (mc *MetricsCollector) Reset() {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	mc.KitBuilds = 0
	mc.KitBuildRefusals = 0
	mc.RecoveryAttempts = 0
	mc.RecoveriesRecovered = 0
	mc.RecoveryInsufficient = 0
	mc.RecoveryErrors = 0

	mc.KitBuildTimes = nil
	mc.RecoveryTimes = nil
	mc.KDFTimes = nil

	mc.startTime = time.Now()
}

// MetricsSnapshot represents a point-in-time snapshot of metrics
type MetricsSnapshot struct {
	Timestamp time.Time
	Uptime    time.Duration

	// Counters
	KitBuilds            int64
	KitBuildRefusals     int64
	RecoveryAttempts     int64
	RecoveriesRecovered  int64
	RecoveryInsufficient int64
	RecoveryErrors       int64

	// Timing averages (microseconds)
	AvgKitBuildTime float64
	AvgRecoveryTime float64
	AvgKDFTime      float64

	// 95th percentile timings (microseconds)
	P95KitBuildTime int64
	P95RecoveryTime int64
	P95KDFTime      int64
}

// GetRecoverySuccessRate returns the fraction of recovery attempts that
// reconstructed some secret (real or decoy — this rate never discloses
// which) as a percentage.
func (ms *MetricsSnapshot) GetRecoverySuccessRate() float64 {
	if ms.RecoveryAttempts == 0 {
		return 0
	}
	return float64(ms.RecoveriesRecovered) / float64(ms.RecoveryAttempts) * 100
}

// GetKitBuildRefusalRate returns the fraction of BuildKit calls refused
// (hardness or policy violation) as a percentage.
func (ms *MetricsSnapshot) GetKitBuildRefusalRate() float64 {
	total := ms.KitBuilds + ms.KitBuildRefusals
	if total == 0 {
		return 0
	}
	return float64(ms.KitBuildRefusals) / float64(total) * 100
}

// Helper functions

func calculateAverage(values []int64) float64 {
	if len(values) == 0 {
		return 0
	}

	var sum int64
	for _, v := range values {
		sum += v
	}
	return float64(sum) / float64(len(values))
}

func calculatePercentile(values []int64, percentile int) int64 {
	if len(values) == 0 {
		return 0
	}

	// Simple implementation - for production, use a proper percentile algorithm
	// This is an approximation
	index := len(values) * percentile / 100
	if index >= len(values) {
		index = len(values) - 1
	}

	// Create a copy and sort (simple bubble sort for small datasets)
	sorted := make([]int64, len(values))
	copy(sorted, values)

	for i := 0; i < len(sorted)-1; i++ {
		for j := 0; j < len(sorted)-i-1; j++ {
			if sorted[j] > sorted[j+1] {
				sorted[j], sorted[j+1] = sorted[j+1], sorted[j]
			}
		}
	}

	return sorted[index]
}

// Global metrics collector instance
var globalCollector = NewMetricsCollector()

// GetGlobalCollector returns the global metrics collector
func GetGlobalCollector() *MetricsCollector {
	return globalCollector
}

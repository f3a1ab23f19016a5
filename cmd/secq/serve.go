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

package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/secq-project/secq/config"
	"github.com/secq-project/secq/health"
	"github.com/secq-project/secq/internal/logger"
	"github.com/secq-project/secq/internal/metrics"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the metrics and health endpoints as a long-lived process",
	Long: `Serve starts the Prometheus metrics endpoint and the liveness/readiness
endpoint configured under metrics/health in the process config, then blocks
until interrupted. It never loads a kit or recovers a secret itself — that
stays in the build/recover one-shot commands (§5).`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.MustLoad()

	checker := health.NewHealthChecker(0)
	checker.RegisterCheck("metrics_registry", health.MetricsRegistryHealthCheck(func() error {
		_, err := metrics.Registry.Gather()
		return err
	}))

	var mux http.ServeMux
	if cfg.Metrics != nil && cfg.Metrics.Enabled {
		path := cfg.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		mux.Handle(path, metrics.Handler())
		logger.Info("metrics endpoint enabled",
			logger.String("addr", cfg.Metrics.Addr),
			logger.String("path", path),
		)
		go func() {
			if err := http.ListenAndServe(cfg.Metrics.Addr, &mux); err != nil {
				logger.ErrorMsg("metrics server stopped", logger.Error(err))
			}
		}()
	}

	if cfg.Health != nil && cfg.Health.Enabled {
		healthMux := http.NewServeMux()
		path := cfg.Health.Path
		if path == "" {
			path = "/healthz"
		}
		healthMux.HandleFunc(path, healthHandler(checker))
		logger.Info("health endpoint enabled",
			logger.String("addr", cfg.Health.Addr),
			logger.String("path", path),
		)
		go func() {
			if err := http.ListenAndServe(cfg.Health.Addr, healthMux); err != nil {
				logger.ErrorMsg("health server stopped", logger.Error(err))
			}
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	logger.Info("shutting down")
	return nil
}

func healthHandler(checker *health.HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := checker.GetOverallStatus(r.Context())
		w.Header().Set("Content-Type", "application/json")
		if status != health.StatusHealthy {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(checker.GetSystemHealth(r.Context()))
	}
}

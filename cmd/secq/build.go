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
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/secq-project/secq/config"
	"github.com/secq-project/secq/crypto/kdf"
	"github.com/secq-project/secq/internal/logger"
	"github.com/secq-project/secq/internal/metrics"
	"github.com/secq-project/secq/kit/builder"
	"github.com/secq-project/secq/kit/persistence"
)

var (
	buildSpecFile   string
	buildOutputFile string
)

// buildSpec is the on-disk shape of a build request: the real secret
// and decoys as plain UTF-8 strings (never base64 — BuildKit does its
// own base64 framing internally per §4.4) plus the question bank.
type buildSpec struct {
	RealSecret    string           `json:"real_secret"`
	Decoys        []string         `json:"decoys"`
	RealThreshold int              `json:"real_threshold"`
	Questions     []buildQuestion  `json:"questions"`
	Argon2        *buildArgon2Spec `json:"argon2,omitempty"`
}

type buildQuestion struct {
	ID           int      `json:"id"`
	Text         string   `json:"text"`
	Alternatives []string `json:"alternatives"`
	IsCritical   bool     `json:"is_critical"`
	CorrectMarks []bool   `json:"correct_marks"`
}

type buildArgon2Spec struct {
	TimeCost    uint32 `json:"time_cost"`
	MemoryKiB   uint32 `json:"memory_kib"`
	Parallelism uint8  `json:"parallelism"`
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build a recovery kit from a question bank, a real secret, and decoys",
	Long: `Build reads a JSON build spec (question bank, real secret, decoy
secrets, and the real threshold) and writes a self-contained recovery
kit file. The kit carries no marker distinguishing the real secret's
slot from its decoys' — that distinction lives only in which answers a
future caller selects (§3, §4.5).`,
	Example: `  secq build --spec questions.json --out vault.kit.json`,
	RunE:    runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().StringVar(&buildSpecFile, "spec", "", "path to the build spec JSON file (required)")
	buildCmd.Flags().StringVar(&buildOutputFile, "out", "vault.kit.json", "path to write the recovery kit")
	buildCmd.MarkFlagRequired("spec")
}

func runBuild(cmd *cobra.Command, args []string) error {
	buildID := uuid.NewString()
	start := time.Now()

	data, err := os.ReadFile(buildSpecFile)
	if err != nil {
		return fmt.Errorf("reading build spec: %w", err)
	}

	var spec buildSpec
	if err := json.Unmarshal(data, &spec); err != nil {
		return fmt.Errorf("parsing build spec: %w", err)
	}

	cfg := config.MustLoad()
	params := resolveArgon2Params(cfg, spec.Argon2)

	req := builder.Request{
		RealThreshold: spec.RealThreshold,
		RealSecret:    []byte(spec.RealSecret),
		Argon2:        params,
	}
	for _, d := range spec.Decoys {
		req.Decoys = append(req.Decoys, []byte(d))
	}
	for _, q := range spec.Questions {
		req.Questions = append(req.Questions, builder.QuestionInput{
			ID:           q.ID,
			Text:         q.Text,
			Alternatives: q.Alternatives,
			IsCritical:   q.IsCritical,
			CorrectMarks: q.CorrectMarks,
		})
	}

	k, err := builder.BuildKit(req)
	duration := time.Since(start)

	if err != nil {
		metrics.KitBuildRefusedTotal.WithLabelValues(refusalReason(err)).Inc()
		metrics.GetGlobalCollector().RecordKitBuild(true, duration)
		logger.Warn("kit build refused", logger.String("build_id", buildID), logger.Error(err))
		return err
	}

	metrics.KitBuildsTotal.Inc()
	metrics.KitBuildDuration.Observe(duration.Seconds())
	metrics.GetGlobalCollector().RecordKitBuild(false, duration)

	if err := persistence.Save(k, buildOutputFile); err != nil {
		return fmt.Errorf("saving kit: %w", err)
	}

	logger.Info("kit built",
		logger.String("build_id", buildID),
		logger.Int("questions", len(k.Questions)),
		logger.Int("secrets_count", k.Config.SecretsCount),
		logger.Duration("duration", duration),
	)

	fmt.Printf("Recovery kit written to %s\n", buildOutputFile)
	fmt.Printf("  Questions: %d\n", len(k.Questions))
	fmt.Printf("  Secrets (real + decoys): %d\n", k.Config.SecretsCount)
	fmt.Printf("  Real threshold: %d\n", k.Config.RealThreshold)
	return nil
}

// resolveArgon2Params prefers an explicit per-build override, then the
// process config, calibrating live only when neither supplies memory
// cost (§4.2).
func resolveArgon2Params(cfg *config.Config, override *buildArgon2Spec) kdf.Params {
	if override != nil && override.MemoryKiB != 0 {
		return kdf.Params{Time: override.TimeCost, MemoryKiB: override.MemoryKiB, Parallelism: override.Parallelism}
	}
	if cfg.KDF != nil && !cfg.KDF.CalibrateIfZero {
		return cfg.KDF.ToKDFParams()
	}
	target := time.Duration(cfg.KDF.CalibrationTargetMS) * time.Millisecond
	result := kdf.Calibrate(target)
	return result.Params
}

func refusalReason(err error) string {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "hardness"):
		return "hardness"
	case strings.Contains(msg, "threshold"), strings.Contains(msg, "decoy"),
		strings.Contains(msg, "secret exceeds"), strings.Contains(msg, "must not be empty"):
		return "policy"
	default:
		return "invalid_input"
	}
}

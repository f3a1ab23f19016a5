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
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/secq-project/secq/crypto/hash"
	"github.com/secq-project/secq/internal/logger"
	"github.com/secq-project/secq/internal/metrics"
	"github.com/secq-project/secq/kit"
	"github.com/secq-project/secq/kit/persistence"
	"github.com/secq-project/secq/kit/recovery"
)

var (
	recoverKitFile        string
	recoverSelectionsFile string
)

// answerSelection is the on-disk shape of one chosen answer: the
// question ID from the build spec plus the verbatim alternative text
// the caller picked.
type answerSelection struct {
	QuestionID int    `json:"question_id"`
	Answer     string `json:"answer"`
}

var recoverCmd = &cobra.Command{
	Use:   "recover",
	Short: "Recover a secret from a recovery kit and a set of selected answers",
	Long: `Recover reads a kit file and a JSON list of selected answers, then
reconstructs whichever secret those answers address. A caller who does
not hold enough correct answers always gets back a plausible decoy
rather than an error — recover's own output never states which variant
it reconstructed (§4.8, §8 property 5).`,
	Example: `  secq recover --kit vault.kit.json --answers answers.json`,
	RunE:    runRecover,
}

func init() {
	rootCmd.AddCommand(recoverCmd)

	recoverCmd.Flags().StringVar(&recoverKitFile, "kit", "", "path to the recovery kit file (required)")
	recoverCmd.Flags().StringVar(&recoverSelectionsFile, "answers", "", "path to the selected-answers JSON file (required)")
	recoverCmd.MarkFlagRequired("kit")
	recoverCmd.MarkFlagRequired("answers")
}

func runRecover(cmd *cobra.Command, args []string) error {
	sessionID := uuid.NewString()
	start := time.Now()

	k, err := persistence.Load(recoverKitFile)
	if err != nil {
		return fmt.Errorf("loading kit: %w", err)
	}

	data, err := os.ReadFile(recoverSelectionsFile)
	if err != nil {
		return fmt.Errorf("reading selections: %w", err)
	}

	var answers []answerSelection
	if err := json.Unmarshal(data, &answers); err != nil {
		return fmt.Errorf("parsing selections: %w", err)
	}

	selections, err := resolveSelections(k, answers)
	if err != nil {
		return fmt.Errorf("resolving selections: %w", err)
	}

	result, err := recovery.Recover(context.Background(), k, selections)
	duration := time.Since(start)

	if err != nil {
		label := "error"
		outcome := metrics.RecoveryOutcomeError
		var recErr *recovery.RecoveryError
		if errors.As(err, &recErr) && recErr.IsInsufficientShares() {
			label = "insufficient"
			outcome = metrics.RecoveryOutcomeInsufficient
		}
		metrics.RecoveryAttemptsTotal.WithLabelValues(label).Inc()
		metrics.RecoveryDuration.Observe(duration.Seconds())
		metrics.GetGlobalCollector().RecordRecovery(outcome, duration)
		logger.Warn("recovery did not complete",
			logger.String("session_id", sessionID),
			logger.Error(err),
		)
		return err
	}

	metrics.RecoveryAttemptsTotal.WithLabelValues("recovered").Inc()
	metrics.RecoveryDuration.Observe(duration.Seconds())
	metrics.GetGlobalCollector().RecordRecovery(metrics.RecoveryOutcomeRecovered, duration)

	logger.Info("recovery completed",
		logger.String("session_id", sessionID),
		logger.Bool("auth_ok", result.AuthOK),
		logger.Duration("duration", duration),
	)

	fmt.Println(string(result.Plaintext))
	return nil
}

// resolveSelections maps each answered question to the kit.Selection
// recovery.Recover expects, re-deriving the question/alternative
// hashes from the kit's own question bank rather than trusting
// caller-supplied hashes (§4.5).
func resolveSelections(k kit.RecoveryKit, answers []answerSelection) ([]kit.Selection, error) {
	byID := make(map[int]kit.Question, len(k.Questions))
	for _, q := range k.Questions {
		byID[q.ID] = q
	}

	selections := make([]kit.Selection, 0, len(answers))
	for _, a := range answers {
		q, ok := byID[a.QuestionID]
		if !ok {
			return nil, fmt.Errorf("unknown question id %d", a.QuestionID)
		}

		found := false
		for _, alt := range q.Alternatives {
			if hash.Norm(alt) == hash.Norm(a.Answer) {
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("answer for question %d is not one of its alternatives", a.QuestionID)
		}

		qHash := hash.QHash(q.Text, q.Alternatives)
		altHash := hash.AltHash(a.Answer)

		selections = append(selections, kit.Selection{
			QHash:   hash.HexString(qHash),
			AltHash: hash.HexString(altHash),
			QText:   q.Text,
			AltText: a.Answer,
		})
	}
	return selections, nil
}

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
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/secq-project/secq/crypto/hash"
	"github.com/secq-project/secq/crypto/kdf"
	"github.com/secq-project/secq/kit"
	"github.com/secq-project/secq/kit/builder"
)

// testScenario builds a 750-question, 8-alternative kit (6000
// alternatives total) with exactly 9 correct answers (question 0's 8
// alternatives plus question 1's first alternative) at threshold 8 —
// enough combinatorial margin to exercise both the direct-combine and
// one-share-tamper paths, and comfortably above the 80-bit hardness
// floor.
func testScenario(t *testing.T) (kit.RecoveryKit, []kit.Selection, []kit.Selection, string) {
	t.Helper()

	const numQuestions = 750
	const altsPerQ = 8
	const correctTotal = 9
	const threshold = 8

	questions := make([]builder.QuestionInput, numQuestions)
	remaining := correctTotal
	for i := range questions {
		alternatives := make([]string, altsPerQ)
		marks := make([]bool, altsPerQ)
		for a := range alternatives {
			alternatives[a] = fmt.Sprintf("q%d-alt%d", i, a)
			if remaining > 0 {
				marks[a] = true
				remaining--
			}
		}
		questions[i] = builder.QuestionInput{
			ID:           i,
			Text:         fmt.Sprintf("question %d", i),
			Alternatives: alternatives,
			CorrectMarks: marks,
		}
	}

	k, err := builder.BuildKit(builder.Request{
		Questions:     questions,
		RealThreshold: threshold,
		RealSecret:    []byte("Remember: river-stone-42"),
		Decoys:        [][]byte{[]byte("decoy-root-secret")},
		Argon2:        kdf.Params{Time: 1, MemoryKiB: kdf.MinMemoryKiB, Parallelism: 1},
	})
	require.NoError(t, err)

	var correct []kit.Selection
	for a := 0; a < altsPerQ; a++ {
		correct = append(correct, selectionFor(k, 0, a))
	}
	correct = append(correct, selectionFor(k, 1, 0))

	var wrong []kit.Selection
	wrong = append(wrong, selectionFor(k, 2, 0))
	wrong = append(wrong, selectionFor(k, 3, 0))

	return k, correct, wrong, "decoy-root-secret"
}

func selectionFor(k kit.RecoveryKit, qIdx, altIdx int) kit.Selection {
	q := findQuestion(k, qIdx)
	altText := q.Alternatives[altIdx]
	return kit.Selection{
		QHash:   q.IntegrityHash,
		AltHash: hash.HexString(hash.AltHash(altText)),
		QText:   q.Text,
		AltText: altText,
	}
}

func findQuestion(k kit.RecoveryKit, qIdx int) kit.Question {
	for _, q := range k.Questions {
		if q.ID == qIdx {
			return q
		}
	}
	panic("question not found")
}

func TestRecoverRealThresholdSelectionRoundTrips(t *testing.T) {
	k, correct, _, _ := testScenario(t)
	selections := correct[:8] // exactly T correct answers

	result, err := Recover(context.Background(), k, selections)
	require.NoError(t, err)
	assert.True(t, result.AuthOK)
	assert.Equal(t, "Remember: river-stone-42", string(result.Plaintext))
}

func TestRecoverSubThresholdSelectionYieldsDecoy(t *testing.T) {
	k, correct, wrong, decoySecret := testScenario(t)
	selections := append(append([]kit.Selection{}, correct[:6]...), wrong...)

	result, err := Recover(context.Background(), k, selections)
	require.NoError(t, err)
	assert.True(t, result.AuthOK)
	assert.Equal(t, decoySecret, string(result.Plaintext))
}

func TestRecoverEmptySelectionFails(t *testing.T) {
	k, _, _, _ := testScenario(t)

	_, err := Recover(context.Background(), k, nil)
	assert.Error(t, err)
}

func TestRecoverSingleWrongSelectionYieldsDecoy(t *testing.T) {
	k, _, wrong, decoySecret := testScenario(t)

	result, err := Recover(context.Background(), k, wrong[:1])
	require.NoError(t, err)
	assert.True(t, result.AuthOK)
	assert.Equal(t, decoySecret, string(result.Plaintext))
}

func TestRecoverTamperedEnvelopeStillRecoversRealWithSpareShares(t *testing.T) {
	k, correct, _, _ := testScenario(t)

	tampered := correct[0]
	block := k.EncryptedShares[tampered.QHash][tampered.AltHash]
	env := block[kit.RealSlot]
	tamperedCiphertext := append([]byte{}, env.Ciphertext...)
	tamperedCiphertext[0] ^= 0xFF
	env.Ciphertext = tamperedCiphertext
	block[kit.RealSlot] = env

	result, err := Recover(context.Background(), k, correct) // all 9 correct selected, 1 tampered
	require.NoError(t, err)
	assert.True(t, result.AuthOK)
	assert.Equal(t, "Remember: river-stone-42", string(result.Plaintext))
}

func TestRecoverSwappedEnvelopesFallBackToDecoy(t *testing.T) {
	k, correct, _, decoySecret := testScenario(t)

	a, b := correct[0], correct[1]
	blockA := k.EncryptedShares[a.QHash][a.AltHash]
	blockB := k.EncryptedShares[b.QHash][b.AltHash]
	envA, envB := blockA[kit.RealSlot], blockB[kit.RealSlot]
	blockA[kit.RealSlot], blockB[kit.RealSlot] = envB, envA

	result, err := Recover(context.Background(), k, correct)
	require.NoError(t, err)
	assert.True(t, result.AuthOK)
	assert.Equal(t, decoySecret, string(result.Plaintext))
}

func TestDecoyIndexIsDeterministicForAFixedSelection(t *testing.T) {
	k, correct, _, _ := testScenario(t)
	selections := correct[:3]

	first := decoyIndex(selections, k.Config.SecretsCount)
	second := decoyIndex(selections, k.Config.SecretsCount)
	assert.Equal(t, first, second)
}

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

package builder

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/secq-project/secq/crypto/hash"
	"github.com/secq-project/secq/crypto/kdf"
	"github.com/secq-project/secq/kit"
)

// scaleQuestions builds n questions with alts alternatives each, all
// marked correct. Useful for exercising the weak-hardness rejection
// path, where every alternative being correct collapses the real path's
// combinatorial strength to zero regardless of scale.
func scaleQuestions(n, alts int) []QuestionInput {
	out := make([]QuestionInput, n)
	for i := range out {
		alternatives := make([]string, alts)
		marks := make([]bool, alts)
		for a := range alternatives {
			alternatives[a] = fmt.Sprintf("q%d-alt%d", i, a)
			marks[a] = true
		}
		out[i] = QuestionInput{
			ID:           i,
			Text:         fmt.Sprintf("question %d", i),
			Alternatives: alternatives,
			CorrectMarks: marks,
		}
	}
	return out
}

// sparseQuestions builds n questions with alts alternatives each, with
// exactly correctTotal of the flattened alternatives marked correct.
// This is what actually exercises the hardness gate meaningfully: a
// large N_alt against a small, fixed C_real (§4.9).
func sparseQuestions(n, alts, correctTotal int) []QuestionInput {
	out := make([]QuestionInput, n)
	remaining := correctTotal
	for i := range out {
		alternatives := make([]string, alts)
		marks := make([]bool, alts)
		for a := range alternatives {
			alternatives[a] = fmt.Sprintf("q%d-alt%d", i, a)
			if remaining > 0 {
				marks[a] = true
				remaining--
			}
		}
		out[i] = QuestionInput{
			ID:           i,
			Text:         fmt.Sprintf("question %d", i),
			Alternatives: alternatives,
			CorrectMarks: marks,
		}
	}
	return out
}

func fastArgon2() kdf.Params {
	return kdf.Params{Time: 1, MemoryKiB: kdf.MinMemoryKiB, Parallelism: 1}
}

func TestBuildKitProducesWellFormedKit(t *testing.T) {
	req := Request{
		Questions:     sparseQuestions(625, 8, 8), // 5000 alternatives, 8 correct
		RealThreshold: 8,
		RealSecret:    []byte("Remember: river-stone-42"),
		Decoys:        [][]byte{[]byte("decoy-one")},
		Argon2:        fastArgon2(),
	}

	k, err := BuildKit(req)
	require.NoError(t, err)

	assert.Equal(t, kit.CurrentVersion, k.Config.Version)
	assert.Equal(t, 2, k.Config.SecretsCount)
	assert.Len(t, k.Config.AuthCatalog, 2)
	assert.Len(t, k.Questions, 625)

	for _, q := range k.Questions {
		perAlt, ok := k.EncryptedShares[q.IntegrityHash]
		require.True(t, ok)
		for _, alt := range q.Alternatives {
			altHash := hash.HexString(hash.AltHash(alt))
			block, ok := perAlt[altHash]
			require.True(t, ok)
			assert.Contains(t, block, kit.RealSlot)
			assert.Contains(t, block, kit.DecoySlot(1))
		}
	}
}

func TestBuildKitRefusesWeakHardness(t *testing.T) {
	req := Request{
		Questions:     scaleQuestions(12, 4), // far below the 80-bit floor
		RealThreshold: 8,
		RealSecret:    []byte("short"),
		Decoys:        [][]byte{[]byte("decoy")},
		Argon2:        fastArgon2(),
	}

	_, err := BuildKit(req)
	assert.Error(t, err)
}

func TestBuildKitRejectsOversizedSecret(t *testing.T) {
	req := Request{
		Questions:     scaleQuestions(625, 8),
		RealThreshold: 8,
		RealSecret:    make([]byte, kit.MaxSecretBytes+1),
		Decoys:        [][]byte{[]byte("decoy")},
		Argon2:        fastArgon2(),
	}

	_, err := BuildKit(req)
	assert.Error(t, err)
}

func TestBuildKitRequiresAtLeastOneDecoy(t *testing.T) {
	req := Request{
		Questions:     scaleQuestions(625, 8),
		RealThreshold: 8,
		RealSecret:    []byte("secret"),
		Decoys:        nil,
		Argon2:        fastArgon2(),
	}

	_, err := BuildKit(req)
	assert.Error(t, err)
}

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

package allocator

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/secq-project/secq/crypto/aead"
	"github.com/secq-project/secq/crypto/kdf"
	"github.com/secq-project/secq/crypto/sss"
	"github.com/secq-project/secq/kit"
)

func testAlts(correctCount, total int) []AltRef {
	alts := make([]AltRef, total)
	for i := range alts {
		alts[i] = AltRef{
			QHash:     "qhash-" + string(rune('a'+i)),
			AltHash:   "althash-" + string(rune('a'+i)),
			QText:     "question",
			AltText:   "alt-text",
			IsCorrect: i < correctCount,
		}
	}
	return alts
}

func testInput() Input {
	return Input{
		Alts:          testAlts(8, 12),
		RealSecretB64: base64.StdEncoding.EncodeToString([]byte("real-secret")),
		Decoys: []string{
			base64.StdEncoding.EncodeToString([]byte("decoy-one")),
		},
		RealThreshold: 8,
		Pad:           64,
		Argon2:        kdf.Params{Time: 1, MemoryKiB: kdf.MinMemoryKiB, Parallelism: 1},
	}
}

func TestAllocateProducesOneBlockPerAlternative(t *testing.T) {
	in := testInput()
	result, err := Allocate(in)
	require.NoError(t, err)
	assert.Len(t, result.Blocks, len(in.Alts))

	for _, block := range result.Blocks {
		assert.Contains(t, block, kit.RealSlot)
		assert.Contains(t, block, kit.DecoySlot(1))
	}
}

func TestAllocateRejectsInsufficientCorrectAlternatives(t *testing.T) {
	in := testInput()
	in.Alts = testAlts(4, 12)

	_, err := Allocate(in)
	assert.Error(t, err)
}

func TestAllocateRealSharesOnlyOnCorrectAlternatives(t *testing.T) {
	in := testInput()
	result, err := Allocate(in)
	require.NoError(t, err)

	var realShares []sss.Share
	for g, block := range result.Blocks {
		env := block[kit.RealSlot]
		key := kdf.Derive([]byte("alt-text"), env.Salt, env.KDF.ToKDFParams())
		aadBytes := aead.BuildAAD(in.Alts[g].QHash, in.Alts[g].AltHash, env.Algorithm, kit.CurrentVersion)
		plaintext, derr := aead.Decrypt(key, env.Envelope, aadBytes)
		require.NoError(t, derr)

		if in.Alts[g].IsCorrect {
			realShares = append(realShares, sss.Share(plaintext))
		}
	}

	require.Len(t, realShares, 8)
	got, err := sss.CombinePadded(realShares)
	require.NoError(t, err)
	assert.Equal(t, in.RealSecretB64, string(got))
}

func TestAllocateFirstDecoyReconstructsFromSingleShare(t *testing.T) {
	in := testInput()
	result, err := Allocate(in)
	require.NoError(t, err)

	block := result.Blocks[0]
	env := block[kit.DecoySlot(1)]
	key := kdf.Derive([]byte("alt-text"), env.Salt, env.KDF.ToKDFParams())
	aadBytes := aead.BuildAAD(in.Alts[0].QHash, in.Alts[0].AltHash, env.Algorithm, kit.CurrentVersion)
	plaintext, err := aead.Decrypt(key, env.Envelope, aadBytes)
	require.NoError(t, err)

	got, err := sss.CombinePadded([]sss.Share{sss.Share(plaintext)})
	require.NoError(t, err)
	assert.Equal(t, in.Decoys[0], string(got))
}

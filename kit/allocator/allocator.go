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

// Package allocator maps a flat "global index" over every (question,
// alternative) pair onto per-secret shares: the real secret's shares
// land only on correct alternatives, while each decoy's shares land on
// every alternative, indistinguishably (§4.5).
package allocator

import (
	"crypto/rand"
	"fmt"

	"github.com/secq-project/secq/crypto/aead"
	"github.com/secq-project/secq/crypto/hash"
	"github.com/secq-project/secq/crypto/kdf"
	"github.com/secq-project/secq/crypto/sss"
	"github.com/secq-project/secq/kit"
)

// AltRef identifies one global-index slot: a question/alternative pair
// together with whether that alternative was marked correct at build
// time (§4.5 step 1).
type AltRef struct {
	QHash     string
	AltHash   string
	QText     string
	AltText   string
	IsCorrect bool
}

// Input bundles everything the allocator needs to produce every
// secret variant's per-alternative plaintexts (§4.5).
type Input struct {
	Alts         []AltRef
	RealSecretB64 string
	Decoys       []string // base64-encoded plaintexts, in configured order
	RealThreshold int
	Pad          int
	Argon2       kdf.Params
}

// Result is the allocator's output: one AlternativeBlock per global
// index, ready for the kit builder to drop into encrypted_shares.
type Result struct {
	Blocks []kit.AlternativeBlock
}

// fillerLength is the plaintext length of a non-real-share filler: the
// full padded-share length, so it is byte-indistinguishable from a
// genuine share (§4.5 step 4, §3 invariant).
func fillerLength(pad int) int {
	return pad + sss.ShareOverhead
}

// Allocate runs the full §4.5 procedure: splits the real secret at
// threshold RealThreshold over only the correct alternatives, splits
// each decoy at its own threshold over every alternative, then seals
// every resulting plaintext under a freshly keyed, freshly chosen AEAD
// envelope bound to its (q_hash, alt_hash) slot.
func Allocate(in Input) (Result, error) {
	n := len(in.Alts)
	if n == 0 {
		return Result{}, fmt.Errorf("allocator: no alternatives")
	}

	correctCount := 0
	for _, a := range in.Alts {
		if a.IsCorrect {
			correctCount++
		}
	}
	if correctCount < in.RealThreshold {
		return Result{}, fmt.Errorf("allocator: only %d correct alternatives, below real threshold %d", correctCount, in.RealThreshold)
	}

	realShares, err := sss.SplitPadded([]byte(in.RealSecretB64), correctCount, in.RealThreshold, in.Pad)
	if err != nil {
		return Result{}, fmt.Errorf("allocator: splitting real secret: %w", err)
	}

	decoyShares := make([][]sss.Share, len(in.Decoys))
	for i, decoyB64 := range in.Decoys {
		threshold := in.RealThreshold
		if i == 0 {
			threshold = 1 // first decoy reconstructs from any single share (§4.5 step 3)
		}
		shares, err := sss.SplitPadded([]byte(decoyB64), n, threshold, in.Pad)
		if err != nil {
			return Result{}, fmt.Errorf("allocator: splitting decoy %d: %w", i, err)
		}
		decoyShares[i] = shares
	}

	blocks := make([]kit.AlternativeBlock, n)
	realCursor := 0
	for g, alt := range in.Alts {
		block := make(kit.AlternativeBlock, 1+len(in.Decoys))

		var realPlaintext []byte
		if alt.IsCorrect {
			realPlaintext = realShares[realCursor]
			realCursor++
		} else {
			realPlaintext, err = randomFiller(fillerLength(in.Pad))
			if err != nil {
				return Result{}, err
			}
		}
		env, err := seal(realPlaintext, alt.QHash, alt.AltHash, in.Argon2, alt.AltText)
		if err != nil {
			return Result{}, fmt.Errorf("allocator: sealing real share at index %d: %w", g, err)
		}
		block[kit.RealSlot] = env

		for i := range in.Decoys {
			env, err := seal(decoyShares[i][g], alt.QHash, alt.AltHash, in.Argon2, alt.AltText)
			if err != nil {
				return Result{}, fmt.Errorf("allocator: sealing decoy %d share at index %d: %w", i, g, err)
			}
			block[kit.DecoySlot(i+1)] = env
		}

		blocks[g] = block
	}

	return Result{Blocks: blocks}, nil
}

func randomFiller(length int) ([]byte, error) {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("allocator: generating filler: %w", err)
	}
	return buf, nil
}

const saltSize = 16

func seal(plaintext []byte, qHash, altHash string, params kdf.Params, altText string) (kit.KDFEnvelope, error) {
	alg, err := aead.RandomAlgorithm()
	if err != nil {
		return kit.KDFEnvelope{}, err
	}

	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return kit.KDFEnvelope{}, fmt.Errorf("allocator: generating salt: %w", err)
	}

	key := kdf.Derive([]byte(hash.Norm(altText)), salt, params)
	aadBytes := aead.BuildAAD(qHash, altHash, alg, kit.CurrentVersion)

	env, err := aead.Encrypt(alg, key, plaintext, aadBytes)
	if err != nil {
		return kit.KDFEnvelope{}, err
	}

	return kit.KDFEnvelope{
		Envelope: env,
		Salt:     salt,
		KDF:      kit.FromKDFParams(params),
	}, nil
}

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

// Package builder assembles a complete recovery kit from a question
// set, the real secret, and its decoys: it runs the hardness gate, the
// share allocator, and the auth catalog, then serializes the result in
// the §6 wire shape (§4.6).
package builder

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"math/big"

	"github.com/secq-project/secq/crypto/hash"
	"github.com/secq-project/secq/crypto/kdf"
	"github.com/secq-project/secq/kit"
	"github.com/secq-project/secq/kit/allocator"
	"github.com/secq-project/secq/kit/authcatalog"
	"github.com/secq-project/secq/kit/hardness"
)

// QuestionInput is one question as supplied to BuildKit, with the
// build-time correctness marks the allocator needs (§4.5).
type QuestionInput struct {
	ID           int
	Text         string
	Alternatives []string
	IsCritical   bool
	CorrectMarks []bool // parallel to Alternatives
}

// Request bundles everything BuildKit needs to produce a kit (§6
// build_kit invocation).
type Request struct {
	Questions     []QuestionInput
	RealThreshold int
	RealSecret    []byte
	Decoys        [][]byte
	Argon2        kdf.Params
}

// minDecoys is the default decoy floor: at least one decoy is always
// present so a sub-threshold selection never surfaces an error (§3).
const minDecoys = 1

// maxDecoys is the policy ceiling on configured decoy secrets (§1).
const maxDecoys = 5

// BuildKit validates the request against the hardness gate and policy
// limits, allocates shares for the real secret and every decoy, builds
// the shuffled auth catalog, and returns the assembled kit.
func BuildKit(req Request) (kit.RecoveryKit, error) {
	if len(req.RealSecret) == 0 {
		return kit.RecoveryKit{}, fmt.Errorf("builder: real secret must not be empty")
	}
	if len(req.RealSecret) > kit.MaxSecretBytes {
		return kit.RecoveryKit{}, fmt.Errorf("builder: real secret exceeds %d bytes", kit.MaxSecretBytes)
	}
	if len(req.Decoys) < minDecoys {
		return kit.RecoveryKit{}, fmt.Errorf("builder: at least %d decoy is required", minDecoys)
	}
	if len(req.Decoys) > maxDecoys {
		return kit.RecoveryKit{}, fmt.Errorf("builder: at most %d decoys are allowed", maxDecoys)
	}

	alts, questions, err := buildQuestionsAndAlts(req.Questions)
	if err != nil {
		return kit.RecoveryKit{}, err
	}

	nAlt := len(alts)
	cReal := 0
	for _, a := range alts {
		if a.IsCorrect {
			cReal++
		}
	}

	if err := hardness.Check(nAlt, cReal, req.RealThreshold); err != nil {
		return kit.RecoveryKit{}, fmt.Errorf("builder: %w", err)
	}

	pad := computePad(req.RealSecret, req.Decoys)

	realB64 := base64.StdEncoding.EncodeToString(req.RealSecret)
	decoyB64 := make([]string, len(req.Decoys))
	for i, d := range req.Decoys {
		decoyB64[i] = base64.StdEncoding.EncodeToString(d)
	}

	allocResult, err := allocator.Allocate(allocator.Input{
		Alts:          alts,
		RealSecretB64: realB64,
		Decoys:        decoyB64,
		RealThreshold: req.RealThreshold,
		Pad:           pad,
		Argon2:        req.Argon2,
	})
	if err != nil {
		return kit.RecoveryKit{}, fmt.Errorf("builder: %w", err)
	}

	catalog, err := buildCatalog(req.RealSecret, req.Decoys)
	if err != nil {
		return kit.RecoveryKit{}, err
	}

	encryptedShares := make(map[string]map[string]kit.AlternativeBlock)
	for g, a := range alts {
		perQ, ok := encryptedShares[a.QHash]
		if !ok {
			perQ = make(map[string]kit.AlternativeBlock)
			encryptedShares[a.QHash] = perQ
		}
		perQ[a.AltHash] = allocResult.Blocks[g]
	}

	return kit.RecoveryKit{
		Config: kit.Config{
			RealThreshold: req.RealThreshold,
			PadSize:       pad,
			Argon2Params:  kit.FromKDFParams(req.Argon2),
			Version:       kit.CurrentVersion,
			SecretsCount:  1 + len(req.Decoys),
			AuthCatalog:   catalog,
		},
		Questions:       questions,
		EncryptedShares: encryptedShares,
	}, nil
}

func buildQuestionsAndAlts(inputs []QuestionInput) ([]allocator.AltRef, []kit.Question, error) {
	var alts []allocator.AltRef
	questions := make([]kit.Question, len(inputs))

	for qi, q := range inputs {
		if len(q.CorrectMarks) != len(q.Alternatives) {
			return nil, nil, fmt.Errorf("builder: question %d has %d alternatives but %d correctness marks", q.ID, len(q.Alternatives), len(q.CorrectMarks))
		}

		qHash := hash.HexString(hash.QHash(q.Text, q.Alternatives))
		questions[qi] = kit.Question{
			ID:            q.ID,
			Text:          q.Text,
			Alternatives:  q.Alternatives,
			IsCritical:    q.IsCritical,
			IntegrityHash: qHash,
		}

		for ai, altText := range q.Alternatives {
			altHash := hash.HexString(hash.AltHash(altText))
			alts = append(alts, allocator.AltRef{
				QHash:     qHash,
				AltHash:   altHash,
				QText:     q.Text,
				AltText:   altText,
				IsCorrect: q.CorrectMarks[ai],
			})
		}
	}

	return alts, questions, nil
}

// computePad sizes the padded-share length to fit the largest
// base64-encoded variant plus its length prefix (§3).
func computePad(real []byte, decoys [][]byte) int {
	maxLen := len(base64.StdEncoding.EncodeToString(real))
	for _, d := range decoys {
		if l := len(base64.StdEncoding.EncodeToString(d)); l > maxLen {
			maxLen = l
		}
	}
	return maxLen + 2 // 2-byte big-endian length prefix (§3/§4.4)
}

func buildCatalog(real []byte, decoys [][]byte) ([]kit.AuthCatalogEntry, error) {
	realB64 := []byte(base64.StdEncoding.EncodeToString(real))
	catalog := make([]kit.AuthCatalogEntry, 0, 1+len(decoys))

	entry, err := authcatalog.BuildEntry(realB64)
	if err != nil {
		return nil, fmt.Errorf("builder: building real auth entry: %w", err)
	}
	catalog = append(catalog, entry)

	for _, d := range decoys {
		entry, err := authcatalog.BuildEntry([]byte(base64.StdEncoding.EncodeToString(d)))
		if err != nil {
			return nil, fmt.Errorf("builder: building decoy auth entry: %w", err)
		}
		catalog = append(catalog, entry)
	}

	if err := shuffle(catalog); err != nil {
		return nil, err
	}
	return catalog, nil
}

// shuffle permutes catalog in place with a cryptographically secure
// Fisher-Yates shuffle, so an entry's position discloses nothing about
// whether it is the real secret or a decoy (§4.6).
func shuffle(catalog []kit.AuthCatalogEntry) error {
	for i := len(catalog) - 1; i > 0; i-- {
		jBig, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return fmt.Errorf("builder: shuffling auth catalog: %w", err)
		}
		j := int(jBig.Int64())
		catalog[i], catalog[j] = catalog[j], catalog[i]
	}
	return nil
}

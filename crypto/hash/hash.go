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

// Package hash provides the stable text normalization and SHA3-256 hashing
// used to bind questions, alternatives, and shares to their identity.
package hash

import (
	"encoding/hex"
	"sort"
	"strings"

	"golang.org/x/crypto/sha3"
	"golang.org/x/text/unicode/norm"
)

// maxNormCodepoints is the normalization length cap from the data model
// (norm(s) truncates to 256 codepoints after NFKC + NUL-stripping).
const maxNormCodepoints = 256

// Norm applies NFKC normalization, strips NUL bytes, and truncates to
// maxNormCodepoints codepoints. It is the canonical text form used
// everywhere a question or alternative is hashed or keyed.
func Norm(s string) string {
	stripped := stripNUL(s)
	normalized := norm.NFKC.String(stripped)

	runes := []rune(normalized)
	if len(runes) > maxNormCodepoints {
		runes = runes[:maxNormCodepoints]
	}
	return string(runes)
}

func stripNUL(s string) string {
	if !strings.ContainsRune(s, 0) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == 0 {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// QHash computes the integrity hash for a question: SHA3-256 over the
// normalized question text, a newline, and the sorted normalized
// alternatives joined by newline.
func QHash(text string, alternatives []string) [32]byte {
	normText := Norm(text)
	normAlts := make([]string, len(alternatives))
	for i, a := range alternatives {
		normAlts[i] = Norm(a)
	}
	sort.Strings(normAlts)

	h := sha3.New256()
	h.Write([]byte(normText))
	h.Write([]byte("\n"))
	h.Write([]byte(strings.Join(normAlts, "\n")))

	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// AltHash computes the identity hash for a single alternative.
func AltHash(altText string) [32]byte {
	normAlt := Norm(altText)
	sum := sha3.Sum256([]byte(normAlt))
	return sum
}

// ShareHash returns the hex-encoded SHA3-256 digest of a share, used only
// for diagnostics (beta-mode logging) and never for cryptographic binding.
func ShareHash(data []byte) string {
	sum := sha3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HexString renders a 32-byte hash as the lowercase hex string stored in
// Question.IntegrityHash.
func HexString(h [32]byte) string {
	return hex.EncodeToString(h[:])
}

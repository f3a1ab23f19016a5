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

package hash

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNorm(t *testing.T) {
	t.Run("StripsNUL", func(t *testing.T) {
		assert.Equal(t, "abc", Norm("a\x00b\x00c"))
	})

	t.Run("TruncatesTo256Codepoints", func(t *testing.T) {
		long := strings.Repeat("x", 300)
		got := Norm(long)
		assert.Equal(t, 256, len([]rune(got)))
	})

	t.Run("NFKCFoldsCompatibilityForms", func(t *testing.T) {
		// U+FF21 FULLWIDTH LATIN CAPITAL LETTER A normalizes to "A" under NFKC.
		assert.Equal(t, "A", Norm("Ａ"))
	})

	t.Run("Idempotent", func(t *testing.T) {
		s := "Café ́ security"
		require.Equal(t, Norm(s), Norm(Norm(s)))
	})
}

func TestQHashDeterministic(t *testing.T) {
	alts := []string{"red", "blue", "green"}
	h1 := QHash("What is your favorite color?", alts)

	shuffled := []string{"blue", "green", "red"}
	h2 := QHash("What is your favorite color?", shuffled)

	assert.Equal(t, h1, h2, "q_hash must not depend on alternative order")

	h3 := QHash("What is your favorite colour?", alts)
	assert.NotEqual(t, h1, h3)
}

func TestAltHashStable(t *testing.T) {
	a := AltHash("river-stone-42")
	b := AltHash("river-stone-42")
	assert.Equal(t, a, b)

	c := AltHash("river-stone-43")
	assert.NotEqual(t, a, c)
}

func TestShareHashHex(t *testing.T) {
	h := ShareHash([]byte("some share bytes"))
	assert.Len(t, h, 64)
}

func TestHexString(t *testing.T) {
	h := QHash("q", []string{"a", "b"})
	s := HexString(h)
	assert.Len(t, s, 64)
}

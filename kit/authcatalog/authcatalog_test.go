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

package authcatalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/secq-project/secq/kit"
)

func TestBuildEntryAndVerifyRoundTrip(t *testing.T) {
	real := []byte("Remember: river-stone-42")
	decoy := []byte("the other secret")

	realEntry, err := BuildEntry(real)
	require.NoError(t, err)
	decoyEntry, err := BuildEntry(decoy)
	require.NoError(t, err)

	catalog := []kit.AuthCatalogEntry{realEntry, decoyEntry}

	ok, err := Verify(catalog, real)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Verify(catalog, decoy)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerifyRejectsUnknownCandidate(t *testing.T) {
	real := []byte("Remember: river-stone-42")
	entry, err := BuildEntry(real)
	require.NoError(t, err)

	ok, err := Verify([]kit.AuthCatalogEntry{entry}, []byte("not the secret"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBuildEntrySaltsAreDistinct(t *testing.T) {
	secret := []byte("same-secret-both-times")
	a, err := BuildEntry(secret)
	require.NoError(t, err)
	b, err := BuildEntry(secret)
	require.NoError(t, err)

	assert.NotEqual(t, a.Salt, b.Salt)
	assert.NotEqual(t, a.HMACSHA256, b.HMACSHA256, "distinct salts must yield distinct tags even for the same secret")
}

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

package persistence

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/secq-project/secq/kit"
)

func sampleKit() kit.RecoveryKit {
	return kit.RecoveryKit{
		Config: kit.Config{
			RealThreshold: 8,
			PadSize:       128,
			Argon2Params:  kit.Argon2Params{TimeCost: 2, MemoryCost: 262144, Parallelism: 1},
			Version:       kit.CurrentVersion,
			SecretsCount:  2,
			AuthCatalog: []kit.AuthCatalogEntry{
				{Salt: []byte("0123456789abcdef"), HMACSHA256: make([]byte, 32)},
			},
		},
		Questions: []kit.Question{
			{ID: 1, Text: "q", Alternatives: []string{"a", "b"}, IsCritical: false, IntegrityHash: "deadbeef"},
		},
		EncryptedShares: map[string]map[string]kit.AlternativeBlock{},
	}
}

func TestMarshalUnmarshalRoundTrip(t *testing.T) {
	k := sampleKit()

	data, err := Marshal(k)
	require.NoError(t, err)

	got, err := Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, k.Config.RealThreshold, got.Config.RealThreshold)
	assert.Equal(t, k.Config.Version, got.Config.Version)
	assert.Len(t, got.Questions, 1)
}

func TestUnmarshalRejectsWrongVersion(t *testing.T) {
	k := sampleKit()
	k.Config.Version = kit.CurrentVersion - 1

	data, err := Marshal(k)
	require.NoError(t, err)

	_, err = Unmarshal(data)
	assert.Error(t, err)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	k := sampleKit()
	path := filepath.Join(t.TempDir(), "kit.json")

	require.NoError(t, Save(k, path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, k.Config.PadSize, got.Config.PadSize)
}

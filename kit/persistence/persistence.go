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

// Package persistence serializes and loads recovery kits as canonical
// JSON, rejecting any kit whose version does not match the format this
// build writes (§4.10).
package persistence

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/secq-project/secq/kit"
)

// Marshal renders k as indented, stable-order JSON (§4.10). Go's
// encoding/json already emits struct fields in declaration order, which
// is what gives writers reproducible output across runs.
func Marshal(k kit.RecoveryKit) ([]byte, error) {
	data, err := json.MarshalIndent(k, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("persistence: marshaling kit: %w", err)
	}
	return data, nil
}

// Unmarshal parses data into a RecoveryKit and rejects a version other
// than kit.CurrentVersion, per §4.10/§7 InvalidKit.
func Unmarshal(data []byte) (kit.RecoveryKit, error) {
	var k kit.RecoveryKit
	if err := json.Unmarshal(data, &k); err != nil {
		return kit.RecoveryKit{}, fmt.Errorf("persistence: parsing kit: %w", err)
	}
	if k.Config.Version != kit.CurrentVersion {
		return kit.RecoveryKit{}, fmt.Errorf("persistence: kit version %d does not match expected %d", k.Config.Version, kit.CurrentVersion)
	}
	return k, nil
}

// Save marshals k and writes it to path with owner-only permissions,
// since the file holds every encrypted share and the auth catalog.
func Save(k kit.RecoveryKit, path string) error {
	data, err := Marshal(k)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("persistence: writing kit to %s: %w", path, err)
	}
	return nil
}

// Load reads path and unmarshals it into a RecoveryKit.
func Load(path string) (kit.RecoveryKit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return kit.RecoveryKit{}, fmt.Errorf("persistence: reading kit from %s: %w", path, err)
	}
	return Unmarshal(data)
}

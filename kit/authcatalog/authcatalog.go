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

// Package authcatalog builds and verifies the HMAC-based catalog that
// confirms "some configured secret" was reconstructed during recovery,
// without disclosing which variant matched (§4.7).
package authcatalog

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	"github.com/secq-project/secq/kit"
)

// info is the fixed HKDF context string binding derived auth keys to
// this kit format version (§3).
const info = "SECQ final-auth v3"

// saltSize is the catalog entry's random salt length (§3).
const saltSize = 16

func authKey(secret, salt []byte) ([]byte, error) {
	r := hkdf.New(sha256.New, secret, salt, []byte(info))
	key := make([]byte, 32)
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("authcatalog: deriving auth key: %w", err)
	}
	return key, nil
}

// BuildEntry produces one auth-catalog entry for secret: a fresh random
// salt and the HMAC-SHA256 tag over secret keyed by the HKDF-derived
// auth key (§4.7).
func BuildEntry(secret []byte) (kit.AuthCatalogEntry, error) {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return kit.AuthCatalogEntry{}, fmt.Errorf("authcatalog: generating salt: %w", err)
	}

	key, err := authKey(secret, salt)
	if err != nil {
		return kit.AuthCatalogEntry{}, err
	}

	mac := hmac.New(sha256.New, key)
	mac.Write(secret)

	return kit.AuthCatalogEntry{Salt: salt, HMACSHA256: mac.Sum(nil)}, nil
}

// Verify checks candidate against every entry in catalog, returning true
// on the first constant-time match. It always scans the full catalog
// regardless of where (or whether) a match occurs, and never reports
// which entry matched, so timing and return shape carry no information
// about which secret variant — real or decoy — candidate is (§4.7, §8
// property 5).
func Verify(catalog []kit.AuthCatalogEntry, candidate []byte) (bool, error) {
	matched := false
	for _, entry := range catalog {
		key, err := authKey(candidate, entry.Salt)
		if err != nil {
			return false, err
		}
		mac := hmac.New(sha256.New, key)
		mac.Write(candidate)
		if hmac.Equal(mac.Sum(nil), entry.HMACSHA256) {
			matched = true
		}
	}
	return matched, nil
}

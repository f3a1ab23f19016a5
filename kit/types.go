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

// Package kit defines the recovery kit data model shared by the
// allocator, builder, auth catalog, recovery, hardness, and persistence
// packages: questions, per-alternative envelope blocks, the auth
// catalog, and the top-level kit document itself (§3, §6).
package kit

import (
	"strconv"

	"github.com/secq-project/secq/crypto/aead"
	"github.com/secq-project/secq/crypto/kdf"
)

// CurrentVersion is the kit format version this build writes and the
// only version it accepts on load (§4.6, §4.10).
const CurrentVersion = 3

// MaxSecretBytes is the policy ceiling on the real secret's raw length
// before base64 encoding (§4.5, §7 PolicyViolation).
const MaxSecretBytes = 256

// HardnessFloorBits is the minimum combinatorial strength a real path
// must clear before BuildKit will produce a kit (§4.9).
const HardnessFloorBits = 80.0

// Question is one security question with its ordered multiple-choice
// alternatives (§3).
type Question struct {
	ID            int      `json:"id"`
	Text          string   `json:"text"`
	Alternatives  []string `json:"alternatives"`
	IsCritical    bool     `json:"is_critical"`
	IntegrityHash string   `json:"integrity_hash"`
}

// Argon2Params is the on-the-wire KDF parameter block (§6).
type Argon2Params struct {
	TimeCost    uint32 `json:"time_cost"`
	MemoryCost  uint32 `json:"memory_cost"`
	Parallelism uint8  `json:"parallelism"`
}

// ToKDFParams converts the wire representation to crypto/kdf's Params.
func (a Argon2Params) ToKDFParams() kdf.Params {
	return kdf.Params{Time: a.TimeCost, MemoryKiB: a.MemoryCost, Parallelism: a.Parallelism}
}

// FromKDFParams builds the wire representation from crypto/kdf's Params.
func FromKDFParams(p kdf.Params) Argon2Params {
	return Argon2Params{TimeCost: p.Time, MemoryCost: p.MemoryKiB, Parallelism: p.Parallelism}
}

// AuthCatalogEntry is one HMAC-tagged entry over a secret variant's
// salt, shuffled among its peers so position discloses nothing (§4.7).
type AuthCatalogEntry struct {
	Salt       []byte `json:"salt"`
	HMACSHA256 []byte `json:"hmac_sha256"`
}

// Config is the kit's non-share metadata (§6).
type Config struct {
	RealThreshold int                `json:"real_threshold"`
	PadSize       int                `json:"pad_size"`
	Argon2Params  Argon2Params       `json:"argon2_params"`
	Version       int                `json:"version"`
	SecretsCount  int                `json:"secrets_count"`
	AuthCatalog   []AuthCatalogEntry `json:"auth_catalog"`
}

// KDFEnvelope is one per-alternative AEAD-sealed share, keyed by its
// salt and KDF parameters (§3, §6). Algorithm is embedded directly on
// aead.Envelope; KDF is carried alongside because each envelope may in
// principle be calibrated independently (the allocator currently uses
// one shared Argon2Params per kit, but the wire format allows drift).
type KDFEnvelope struct {
	aead.Envelope
	Salt []byte       `json:"salt"`
	KDF  Argon2Params `json:"kdf"`
}

// AlternativeBlock maps a secret-slot key ("s0", "s1", …, "sS") to its
// envelope for one (question, alternative) pair (§3, §6).
type AlternativeBlock map[string]KDFEnvelope

// RecoveryKit is the complete self-contained artifact produced by
// BuildKit and consumed by Recover (§3, §6).
type RecoveryKit struct {
	Config          Config                                 `json:"config"`
	Questions       []Question                             `json:"questions"`
	EncryptedShares map[string]map[string]AlternativeBlock `json:"encrypted_shares"`
}

// RealSlot is the encrypted_shares key addressing the real secret;
// decoy slots are "s1".."sS" in configured order (§3).
const RealSlot = "s0"

// DecoySlot returns the encrypted_shares key for the i'th decoy,
// 1-indexed per §3/§4.5.
func DecoySlot(i int) string {
	return "s" + strconv.Itoa(i)
}

// Selection is one selected (question, alternative) pair as presented
// to the Recovery Engine by the orchestrator (§4.8).
type Selection struct {
	QHash   string
	AltHash string
	QText   string
	AltText string
}

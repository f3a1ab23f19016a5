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

// Package aead implements the two envelope algorithms a per-alternative
// share is encrypted under: AES-256-GCM and ChaCha20-Poly1305. Both share
// one interface so the caller never branches on algorithm identity outside
// the tagged dispatch in Encrypt/Decrypt.
package aead

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
)

// Algorithm identifies which AEAD cipher an envelope was sealed with.
type Algorithm string

const (
	AES256GCM        Algorithm = "aes256gcm"
	ChaCha20Poly1305 Algorithm = "chacha20poly1305"
)

// NonceSize is the fixed random nonce length for both algorithms.
const NonceSize = 12

// TagSize is the AES-GCM authentication tag length. ChaCha20-Poly1305's tag
// is carried inside Ciphertext instead of a separate field (§3).
const TagSize = 16

// KeySize is the symmetric key length both ciphers take.
const KeySize = 32

// Envelope is the on-the-wire AEAD bundle for one share plaintext.
type Envelope struct {
	Algorithm  Algorithm `json:"algorithm"`
	Ciphertext []byte    `json:"ciphertext"`
	Nonce      []byte    `json:"nonce"`
	Tag        []byte    `json:"tag,omitempty"`
}

// ErrAuthenticationFailed is returned by Decrypt on any AEAD failure. Per
// §4.3/§7, callers must treat this uniformly as "share unavailable" and
// never branch on whether the failure was a tag mismatch versus malformed
// input.
var ErrAuthenticationFailed = errors.New("aead: share unavailable")

// RandomAlgorithm picks AES256GCM or ChaCha20Poly1305 with equal
// probability, as required for envelope indistinguishability (§4.2, §8
// property 4).
func RandomAlgorithm() (Algorithm, error) {
	var b [1]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", fmt.Errorf("aead: reading random algorithm selector: %w", err)
	}
	if b[0]&1 == 0 {
		return AES256GCM, nil
	}
	return ChaCha20Poly1305, nil
}

func newAEAD(alg Algorithm, key []byte) (cipher.AEAD, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("aead: key must be %d bytes, got %d", KeySize, len(key))
	}
	switch alg {
	case AES256GCM:
		block, err := aes.NewCipher(key)
		if err != nil {
			return nil, fmt.Errorf("aead: aes cipher: %w", err)
		}
		return cipher.NewGCM(block)
	case ChaCha20Poly1305:
		return chacha20poly1305.New(key)
	default:
		return nil, fmt.Errorf("aead: unsupported algorithm %q", alg)
	}
}

// Encrypt seals plaintext under key using alg, binding aad as associated
// data. The nonce is freshly random per call.
func Encrypt(alg Algorithm, key, plaintext, aad []byte) (Envelope, error) {
	aeadCipher, err := newAEAD(alg, key)
	if err != nil {
		return Envelope{}, err
	}

	nonce := make([]byte, NonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return Envelope{}, fmt.Errorf("aead: generating nonce: %w", err)
	}

	sealed := aeadCipher.Seal(nil, nonce, plaintext, aad)

	env := Envelope{Algorithm: alg, Nonce: nonce}
	switch alg {
	case AES256GCM:
		// Split the trailing tag into its own field to match the wire
		// format in §6; the ciphertext field holds only the non-tag bytes.
		ctLen := len(sealed) - TagSize
		if ctLen < 0 {
			return Envelope{}, errors.New("aead: sealed output shorter than tag")
		}
		env.Ciphertext = sealed[:ctLen]
		env.Tag = sealed[ctLen:]
	case ChaCha20Poly1305:
		env.Ciphertext = sealed
	}

	return env, nil
}

// Decrypt opens env under key, checking aad. Any failure — authentication,
// malformed envelope, wrong key — collapses to ErrAuthenticationFailed so
// the caller cannot distinguish failure modes (§4.3, §7).
func Decrypt(key []byte, env Envelope, aad []byte) ([]byte, error) {
	aeadCipher, err := newAEAD(env.Algorithm, key)
	if err != nil {
		return nil, ErrAuthenticationFailed
	}
	if len(env.Nonce) != NonceSize {
		return nil, ErrAuthenticationFailed
	}

	var sealed []byte
	switch env.Algorithm {
	case AES256GCM:
		if len(env.Tag) != TagSize {
			return nil, ErrAuthenticationFailed
		}
		sealed = append(append([]byte{}, env.Ciphertext...), env.Tag...)
	case ChaCha20Poly1305:
		sealed = env.Ciphertext
	default:
		return nil, ErrAuthenticationFailed
	}

	plaintext, err := aeadCipher.Open(nil, env.Nonce, sealed, aad)
	if err != nil {
		return nil, ErrAuthenticationFailed
	}
	return plaintext, nil
}

// BuildAAD constructs the associated data binding an envelope to its
// question/alternative/algorithm/version, per §4.3:
//
//	aad = qHash ‖ "|" ‖ altHash ‖ "|" ‖ algorithm ‖ "|" ‖ version
func BuildAAD(qHashHex, altHashHex string, alg Algorithm, version int) []byte {
	return []byte(fmt.Sprintf("%s|%s|%s|%d", qHashHex, altHashHex, alg, version))
}

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

package sss

import "encoding/base64"

// SplitResult is the §6 wire shape for a successful split call.
type SplitResult struct {
	OK        bool     `json:"ok"`
	SharesB64 []string `json:"shares_b64,omitempty"`
	Error     string   `json:"error,omitempty"`
}

// CombineResult is the §6 wire shape for a successful combine call.
type CombineResult struct {
	OK        bool   `json:"ok"`
	SecretB64 string `json:"secret_b64,omitempty"`
	Error     string `json:"error,omitempty"`
}

// SplitB64 implements the process-external SSS primitive contract from
// §6: secretB64 is the already length-prefixed, zero-padded secret
// (see EncodeSecret), not the raw user secret. It is kept in-process
// here rather than shelled out to an external audited binary, but the
// wire shape matches exactly so a future out-of-process implementation
// is a drop-in swap.
func SplitB64(secretB64 string, shares, threshold int) SplitResult {
	padded, err := base64.StdEncoding.DecodeString(secretB64)
	if err != nil {
		return SplitResult{OK: false, Error: "sss: invalid base64 secret: " + err.Error()}
	}

	out, err := Split(padded, shares, threshold)
	if err != nil {
		return SplitResult{OK: false, Error: err.Error()}
	}

	sharesB64 := make([]string, len(out))
	for i, s := range out {
		sharesB64[i] = base64.StdEncoding.EncodeToString(s)
	}
	return SplitResult{OK: true, SharesB64: sharesB64}
}

// CombineB64 implements the §6 combine half of the contract: sharesB64
// are base64-encoded fixed-length shares; the returned secret is the
// still-padded (length-prefixed) bytes. Callers strip the prefix with
// DecodeSecret.
func CombineB64(sharesB64 []string) CombineResult {
	shares := make([]Share, len(sharesB64))
	for i, b64 := range sharesB64 {
		raw, err := base64.StdEncoding.DecodeString(b64)
		if err != nil {
			return CombineResult{OK: false, Error: "sss: invalid base64 share: " + err.Error()}
		}
		shares[i] = Share(raw)
	}

	padded, err := Combine(shares)
	if err != nil {
		return CombineResult{OK: false, Error: err.Error()}
	}
	return CombineResult{OK: true, SecretB64: base64.StdEncoding.EncodeToString(padded)}
}

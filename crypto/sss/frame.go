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

import (
	"encoding/binary"
	"fmt"
)

// LengthPrefixSize is the big-endian length field prepended to a secret
// before zero-padding, per §3/§4.4.
const LengthPrefixSize = 2

// EncodeSecret frames secret as length_be16(len(secret)) ‖ secret ‖
// zero_fill, for a total of pad bytes. pad must be at least
// len(secret)+LengthPrefixSize.
func EncodeSecret(secret []byte, pad int) ([]byte, error) {
	if pad < len(secret)+LengthPrefixSize {
		return nil, fmt.Errorf("sss: pad %d too small for secret of length %d", pad, len(secret))
	}
	if len(secret) > 0xffff {
		return nil, fmt.Errorf("sss: secret too long to length-prefix (%d bytes)", len(secret))
	}

	framed := make([]byte, pad)
	binary.BigEndian.PutUint16(framed[:LengthPrefixSize], uint16(len(secret)))
	copy(framed[LengthPrefixSize:], secret)
	return framed, nil
}

// DecodeSecret strips the length prefix from padded framed bytes
// (the output of Combine) and returns the original secret.
func DecodeSecret(framed []byte) ([]byte, error) {
	if len(framed) < LengthPrefixSize {
		return nil, fmt.Errorf("sss: framed secret shorter than length prefix")
	}
	length := int(binary.BigEndian.Uint16(framed[:LengthPrefixSize]))
	if length > len(framed)-LengthPrefixSize {
		return nil, fmt.Errorf("sss: framed length %d exceeds available bytes %d", length, len(framed)-LengthPrefixSize)
	}
	out := make([]byte, length)
	copy(out, framed[LengthPrefixSize:LengthPrefixSize+length])
	return out, nil
}

// SplitPadded frames secret to pad bytes and splits it into n shares with
// threshold t, per §4.4. The resulting shares each have length pad+1.
func SplitPadded(secret []byte, n, t, pad int) ([]Share, error) {
	framed, err := EncodeSecret(secret, pad)
	if err != nil {
		return nil, err
	}
	return Split(framed, n, t)
}

// CombinePadded reconstructs and unframes the secret from padded shares.
func CombinePadded(shares []Share) ([]byte, error) {
	framed, err := Combine(shares)
	if err != nil {
		return nil, err
	}
	return DecodeSecret(framed)
}

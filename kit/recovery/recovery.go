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

// Package recovery implements the Recovery Engine (C8): it attempts
// real reconstruction from a selection of answered questions, and on
// failure deterministically routes to a decoy variant, without ever
// disclosing to its caller which path was taken (§4.8).
package recovery

import (
	"context"
	"encoding/base64"
	"fmt"
	"sort"

	"golang.org/x/crypto/sha3"
	"golang.org/x/sync/errgroup"

	"github.com/secq-project/secq/crypto/aead"
	"github.com/secq-project/secq/crypto/hash"
	"github.com/secq-project/secq/crypto/kdf"
	"github.com/secq-project/secq/crypto/sss"
	"github.com/secq-project/secq/kit"
	"github.com/secq-project/secq/kit/authcatalog"
)

// Result is what Recover returns: the recovered plaintext and whether
// it matched some configured secret (never disclosing which) (§4.8).
type Result struct {
	Plaintext []byte
	AuthOK    bool
}

// errKind classifies a recovery failure per §7's error kinds.
type errKind int

const (
	kindInsufficientShares errKind = iota
	kindCryptoFailure
	kindInvalidKit
	kindCancelled
)

// RecoveryError is the structured failure surfaced to callers (§7).
type RecoveryError struct {
	Kind errKind
	msg  string
}

func (e *RecoveryError) Error() string { return e.msg }

// IsInsufficientShares reports whether the failure was caused by the
// caller's selections not reconstructing any configured secret, real or
// decoy — the one RecoveryError kind a caller may branch on, since the
// others (invalid kit, crypto failure, cancellation) are operational
// rather than answer-dependent.
func (e *RecoveryError) IsInsufficientShares() bool {
	return e != nil && e.Kind == kindInsufficientShares
}

// errInsufficientShares builds the error returned when neither the real path nor any
// decoy path could be reconstructed from the given selection (§7).
func errInsufficientShares(msg string) error {
	return &RecoveryError{Kind: kindInsufficientShares, msg: "recovery: " + msg}
}

func errInvalidKit(msg string) error {
	return &RecoveryError{Kind: kindInvalidKit, msg: "recovery: " + msg}
}

// Recover attempts to reconstruct the real secret from selections; on
// failure it deterministically routes to a decoy and reconstructs that
// instead. It never returns an error that distinguishes "real path
// failed, decoy succeeded" from "real path succeeded" (§4.8, §7, §8
// property 5).
func Recover(ctx context.Context, k kit.RecoveryKit, selections []kit.Selection) (Result, error) {
	if len(selections) == 0 {
		return Result{}, errInsufficientShares("no alternatives selected")
	}
	if len(k.Config.AuthCatalog) < 2 {
		return Result{}, errInvalidKit("auth catalog must contain at least 2 entries")
	}

	envelopes, err := lookupEnvelopes(k, selections)
	if err != nil {
		return Result{}, err
	}

	realShares, err := decryptSlot(ctx, envelopes, selections, kit.RealSlot, k.Config.Argon2Params)
	if err != nil {
		return Result{}, err
	}

	if candidate, ok, err := tryCombine(ctx, realShares, k.Config.RealThreshold, k.Config.AuthCatalog); err != nil {
		return Result{}, err
	} else if ok {
		plaintext, err := decodePlaintext(candidate)
		if err != nil {
			return Result{}, err
		}
		return Result{Plaintext: plaintext, AuthOK: true}, nil
	}

	return recoverDecoy(ctx, k, selections, envelopes)
}

// envelopeEntry pairs a decrypted-or-not envelope lookup with the
// selection it addresses.
type envelopeEntry struct {
	selection kit.Selection
	block     kit.AlternativeBlock
}

func lookupEnvelopes(k kit.RecoveryKit, selections []kit.Selection) ([]envelopeEntry, error) {
	out := make([]envelopeEntry, 0, len(selections))
	for _, sel := range selections {
		perQ, ok := k.EncryptedShares[sel.QHash]
		if !ok {
			return nil, errInvalidKit(fmt.Sprintf("unknown question hash %q", sel.QHash))
		}
		block, ok := perQ[sel.AltHash]
		if !ok {
			return nil, errInvalidKit(fmt.Sprintf("unknown alternative hash %q", sel.AltHash))
		}
		out = append(out, envelopeEntry{selection: sel, block: block})
	}
	return out, nil
}

// decryptSlot fans per-answer key derivation and AEAD decryption out
// across a worker pool (§5): each derivation is a pure function of
// (alt_text, salt, params), independent of every other selection.
// Decryption failures (tamper, AAD mismatch) are swallowed — the
// envelope is simply dropped from the result, per §7 propagation
// policy.
func decryptSlot(ctx context.Context, envelopes []envelopeEntry, selections []kit.Selection, slot string, params kit.Argon2Params) ([]sss.Share, error) {
	results := make([][]byte, len(envelopes))

	g, gctx := errgroup.WithContext(ctx)
	for i, entry := range envelopes {
		i, entry := i, entry
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			env, ok := entry.block[slot]
			if !ok {
				return nil
			}
			key := deriveAnswerKey(entry.selection.AltText, env.Salt, params)
			aadBytes := aead.BuildAAD(entry.selection.QHash, entry.selection.AltHash, env.Algorithm, kit.CurrentVersion)
			plaintext, err := aead.Decrypt(key, env.Envelope, aadBytes)
			if err != nil {
				// Swallowed: a tampered or swapped envelope is simply
				// unavailable, never a distinguishable error upstream.
				return nil
			}
			results[i] = plaintext
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if err == context.Canceled {
			return nil, &RecoveryError{Kind: kindCancelled, msg: "recovery: cancelled"}
		}
		return nil, fmt.Errorf("recovery: decrypting %s: %w", slot, err)
	}

	out := make([]sss.Share, 0, len(results))
	for _, r := range results {
		if r != nil {
			out = append(out, sss.Share(r))
		}
	}
	return out, nil
}

func deriveAnswerKey(altText string, salt []byte, params kit.Argon2Params) []byte {
	return kdf.Derive([]byte(hash.Norm(altText)), salt, params.ToKDFParams())
}

// tryCombine attempts to reconstruct a valid secret from shares at
// threshold t: directly if there are exactly t, otherwise by searching
// T-subsets in parallel and returning the first that authenticates
// against catalog, cancelling its peers (§4.8, §5).
func tryCombine(ctx context.Context, shares []sss.Share, t int, catalog []kit.AuthCatalogEntry) ([]byte, bool, error) {
	if len(shares) < t {
		return nil, false, nil
	}
	if len(shares) == t {
		return combineAndVerify(shares, catalog)
	}

	subsets, err := candidateSubsets(len(shares), t)
	if err != nil {
		return nil, false, fmt.Errorf("recovery: %w", err)
	}

	type winner struct {
		candidate []byte
	}

	searchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(searchCtx)
	found := make(chan winner, 1)

	for _, subsetIdx := range subsets {
		subsetIdx := subsetIdx
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			subset := make([]sss.Share, len(subsetIdx))
			for i, idx := range subsetIdx {
				subset[i] = shares[idx]
			}
			candidate, ok, err := combineAndVerify(subset, catalog)
			if err != nil || !ok {
				return nil
			}
			select {
			case found <- winner{candidate: candidate}:
				cancel()
			default:
			}
			return nil
		})
	}
	_ = g.Wait()

	select {
	case w := <-found:
		return w.candidate, true, nil
	default:
		return nil, false, nil
	}
}

func combineAndVerify(shares []sss.Share, catalog []kit.AuthCatalogEntry) ([]byte, bool, error) {
	padded, err := sss.Combine(shares)
	if err != nil {
		return nil, false, nil
	}
	candidate, err := sss.DecodeSecret(padded)
	if err != nil {
		return nil, false, nil
	}
	ok, err := authcatalog.Verify(catalog, candidate)
	if err != nil {
		return nil, false, fmt.Errorf("verifying candidate: %w", err)
	}
	if !ok {
		return nil, false, nil
	}
	return candidate, true, nil
}

func decodePlaintext(candidateB64 []byte) ([]byte, error) {
	out, err := base64.StdEncoding.DecodeString(string(candidateB64))
	if err != nil {
		return nil, fmt.Errorf("recovery: decoding recovered secret: %w", err)
	}
	return out, nil
}

// decoyIndex computes the deterministic routing target for a selection:
// (last four bytes of SHA3-256(sorted (q_hash,alt_hash) pairs), read as a
// big-endian uint32, mod S) + 1, where S = secretsCount-1 (at least 1);
// recoverDecoy passes len(auth_catalog) per the §9 open-question resolution.
func decoyIndex(selections []kit.Selection, secretsCount int) int {
	s := secretsCount - 1
	if s < 1 {
		s = 1
	}

	pairs := make([]string, len(selections))
	for i, sel := range selections {
		pairs[i] = sel.QHash + "|" + sel.AltHash
	}
	sort.Strings(pairs)

	joined := ""
	for _, p := range pairs {
		joined += p
	}
	sum := sha3.Sum256([]byte(joined))

	tail := uint32(sum[28])<<24 | uint32(sum[29])<<16 | uint32(sum[30])<<8 | uint32(sum[31])
	return int(tail%uint32(s)) + 1
}

// recoverDecoy performs §4.8 step 2: it routes deterministically to a
// decoy slot, decrypts the selected alternatives under that slot,
// attempts combine at increasing thresholds, and — if still short —
// pulls additional decoy shares from unselected alternatives before
// retrying.
func recoverDecoy(ctx context.Context, k kit.RecoveryKit, selections []kit.Selection, envelopes []envelopeEntry) (Result, error) {
	idx := decoyIndex(selections, len(k.Config.AuthCatalog))
	slot := kit.DecoySlot(idx)

	decoyShares, err := decryptSlot(ctx, envelopes, selections, slot, k.Config.Argon2Params)
	if err != nil {
		return Result{}, err
	}

	t := k.Config.RealThreshold
	if candidate, ok := ascendingCombine(decoyShares, t, k.Config.AuthCatalog); ok {
		plaintext, err := decodePlaintext(candidate)
		if err != nil {
			return Result{}, err
		}
		return Result{Plaintext: plaintext, AuthOK: true}, nil
	}

	if len(decoyShares) < t {
		extra, err := pullAdditionalDecoyShares(ctx, k, selections, slot, t-len(decoyShares))
		if err != nil {
			return Result{}, err
		}
		decoyShares = append(decoyShares, extra...)
		if candidate, ok := ascendingCombine(decoyShares, t, k.Config.AuthCatalog); ok {
			plaintext, err := decodePlaintext(candidate)
			if err != nil {
				return Result{}, err
			}
			return Result{Plaintext: plaintext, AuthOK: true}, nil
		}
	}

	return Result{}, errInsufficientShares("neither the real path nor the routed decoy path reconstructed")
}

// ascendingCombine tries thresholds 1..min(len(shares),t) in increasing
// order, taking the first that combines to a catalog-authenticated
// candidate (§4.8 step 2).
func ascendingCombine(shares []sss.Share, t int, catalog []kit.AuthCatalogEntry) ([]byte, bool) {
	limit := t
	if len(shares) < limit {
		limit = len(shares)
	}
	for tp := 1; tp <= limit; tp++ {
		candidate, ok, err := combineAndVerify(shares[:tp], catalog)
		if err != nil {
			continue
		}
		if ok {
			return candidate, true
		}
	}
	return nil, false
}

// pullAdditionalDecoyShares decrypts the given slot for alternatives
// the caller did not select, in deterministic global-index order,
// until need more shares have been gathered.
func pullAdditionalDecoyShares(ctx context.Context, k kit.RecoveryKit, selections []kit.Selection, slot string, need int) ([]sss.Share, error) {
	selected := make(map[string]bool, len(selections))
	for _, sel := range selections {
		selected[sel.QHash+"|"+sel.AltHash] = true
	}

	var extraEnvelopes []envelopeEntry
	var extraSelections []kit.Selection
	for _, q := range k.Questions {
		perQ, ok := k.EncryptedShares[q.IntegrityHash]
		if !ok {
			continue
		}
		for _, altText := range q.Alternatives {
			altHash := hash.HexString(hash.AltHash(altText))
			key := q.IntegrityHash + "|" + altHash
			if selected[key] {
				continue
			}
			block, ok := perQ[altHash]
			if !ok {
				continue
			}
			sel := kit.Selection{QHash: q.IntegrityHash, AltHash: altHash, QText: q.Text, AltText: altText}
			extraEnvelopes = append(extraEnvelopes, envelopeEntry{selection: sel, block: block})
			extraSelections = append(extraSelections, sel)
			if len(extraEnvelopes) >= need {
				break
			}
		}
		if len(extraEnvelopes) >= need {
			break
		}
	}

	return decryptSlot(ctx, extraEnvelopes, extraSelections, slot, k.Config.Argon2Params)
}

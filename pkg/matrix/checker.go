// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package matrix

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/AleutianAI/kemrun/pkg/meta"
)

// Checker validates the raw stdout of one scheme's test binary.
//
// A failed result is recoverable: it is logged, recorded for the
// scheme, and folded into the batch verdict once every scheme has run.
type Checker interface {
	// Check returns failed=true and a diagnostic message when the raw
	// output does not match the recorded expectation.
	Check(scheme Scheme, raw []byte) (failed bool, msg string)
}

// RawPassthrough is the sentinel for capture mode: no checking is
// performed and the decoded stdout becomes the scheme's payload.
// Benchmark categories use it to collect cycle counts.
var RawPassthrough Checker = rawPassthrough{}

type rawPassthrough struct{}

func (rawPassthrough) Check(Scheme, []byte) (bool, string) { return false, "" }

// =============================================================================
// SIZE CHECK
// =============================================================================

// SizeCheck verifies the functional binary's three-line size report
// against the lengths recorded in the scheme metadata.
type SizeCheck struct {
	Meta *meta.Store
}

// Check compares stdout byte-for-byte against the expected template.
// Any textual deviation fails, and the message carries both texts.
func (c SizeCheck) Check(scheme Scheme, raw []byte) (bool, string) {
	actual := string(raw)

	skBytes, err := c.Meta.LookupInt(scheme.String(), meta.KeySecretKeyLen)
	if err != nil {
		return true, err.Error()
	}
	pkBytes, err := c.Meta.LookupInt(scheme.String(), meta.KeyPublicKeyLen)
	if err != nil {
		return true, err.Error()
	}
	ctBytes, err := c.Meta.LookupInt(scheme.String(), meta.KeyCiphertextLen)
	if err != nil {
		return true, err.Error()
	}

	expect := fmt.Sprintf(
		"CRYPTO_SECRETKEYBYTES:  %d\n"+
			"CRYPTO_PUBLICKEYBYTES:  %d\n"+
			"CRYPTO_CIPHERTEXTBYTES: %d\n",
		skBytes, pkBytes, ctBytes)

	if expect != actual {
		return true, fmt.Sprintf("failed, expecting %q, but getting %q", expect, actual)
	}
	return false, ""
}

// =============================================================================
// DIGEST CHECK
// =============================================================================

// DigestCheck verifies the SHA-256 digest of the raw output against a
// digest recorded in the scheme metadata. The KAT and NIST KAT
// categories differ only in the metadata key.
type DigestCheck struct {
	Meta *meta.Store

	// Key is the metadata key holding the expected hex digest,
	// meta.KeyKatDigest or meta.KeyNistKatDigest.
	Key string
}

// Check hashes the raw output and compares hex digests.
func (c DigestCheck) Check(scheme Scheme, raw []byte) (bool, string) {
	expect, err := c.Meta.Lookup(scheme.String(), c.Key)
	if err != nil {
		return true, err.Error()
	}

	sum := sha256.Sum256(raw)
	actual := hex.EncodeToString(sum[:])

	if expect != actual {
		return true, fmt.Sprintf("failed, expecting %s, but getting %s", expect, actual)
	}
	return false, ""
}

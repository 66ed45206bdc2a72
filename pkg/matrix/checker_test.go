// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package matrix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/kemrun/pkg/meta"
)

func testMeta(t *testing.T) *meta.Store {
	t.Helper()
	dir, _ := fakeCheckout(t)
	return meta.NewStore(dir)
}

// TestSizeCheck_Match verifies byte-exact output passes.
func TestSizeCheck_Match(t *testing.T) {
	c := SizeCheck{Meta: testMeta(t)}

	failed, msg := c.Check(MLKEM512, []byte(sizeOutput(MLKEM512)))
	assert.False(t, failed)
	assert.Empty(t, msg)
}

// TestSizeCheck_SingleByteDeviation verifies any textual deviation
// fails and the message carries both expected and actual text.
func TestSizeCheck_SingleByteDeviation(t *testing.T) {
	c := SizeCheck{Meta: testMeta(t)}

	// Ciphertext length off by one: 768 -> 767.
	actual := "CRYPTO_SECRETKEYBYTES:  1632\nCRYPTO_PUBLICKEYBYTES:  800\nCRYPTO_CIPHERTEXTBYTES: 767\n"
	failed, msg := c.Check(MLKEM512, []byte(actual))

	require.True(t, failed)
	assert.Contains(t, msg, "767", "message must carry the actual text")
	assert.Contains(t, msg, "768", "message must carry the expected text")
}

// TestSizeCheck_MissingMetadataFails verifies a metadata lookup failure
// is reported as a check failure so aggregation continues.
func TestSizeCheck_MissingMetadataFails(t *testing.T) {
	c := SizeCheck{Meta: meta.NewStore(t.TempDir())}

	failed, msg := c.Check(MLKEM512, []byte("anything"))
	assert.True(t, failed)
	assert.NotEmpty(t, msg)
}

// TestDigestCheck_Match verifies matching digests pass for both
// metadata keys.
func TestDigestCheck_Match(t *testing.T) {
	m := testMeta(t)

	for _, key := range []string{meta.KeyKatDigest, meta.KeyNistKatDigest} {
		c := DigestCheck{Meta: m, Key: key}
		failed, msg := c.Check(MLKEM768, []byte(katOutput(MLKEM768)))
		assert.False(t, failed, key)
		assert.Empty(t, msg, key)
	}
}

// TestDigestCheck_BitFlipFails verifies a single flipped bit in the raw
// output fails the digest comparison.
func TestDigestCheck_BitFlipFails(t *testing.T) {
	c := DigestCheck{Meta: testMeta(t), Key: meta.KeyKatDigest}

	raw := []byte(katOutput(MLKEM768))
	raw[0] ^= 0x01

	failed, msg := c.Check(MLKEM768, raw)
	require.True(t, failed)
	assert.Contains(t, msg, hexDigest(katOutput(MLKEM768)), "message carries the expected digest")
}

// TestRawPassthrough_NeverFails pins the sentinel's behavior.
func TestRawPassthrough_NeverFails(t *testing.T) {
	failed, msg := RawPassthrough.Check(MLKEM512, []byte("whatever"))
	assert.False(t, failed)
	assert.Empty(t, msg)
}

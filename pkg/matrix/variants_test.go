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

// TestVariantSet_BothModesAlwaysPresent verifies the invariant that the
// set is never partial.
func TestVariantSet_BothModesAlwaysPresent(t *testing.T) {
	dir, _ := fakeCheckout(t)
	v := newVariantSet(Functional, CompileOptions{}, dir, quietLogger())

	for _, optimized := range []bool{false, true} {
		assert.NotNil(t, v.builders[optimized])
		assert.NotNil(t, v.runners[optimized])
	}
	assert.Len(t, v.builders, 2)
	assert.Len(t, v.runners, 2)
}

// TestVariantSet_RunAll_CheckedVerdict verifies the dominant-failure
// reduction: one failing scheme fails the mode, and every scheme keeps
// its own result entry.
func TestVariantSet_RunAll_CheckedVerdict(t *testing.T) {
	dir, _ := fakeCheckout(t)
	installBinary(t, dir, Functional, MLKEM512, sizeOutput(MLKEM512))
	installBinary(t, dir, Functional, MLKEM768, "wrong\n")
	installBinary(t, dir, Functional, MLKEM1024, sizeOutput(MLKEM1024))

	v := newVariantSet(Functional, CompileOptions{}, dir, quietLogger())
	result, err := v.RunAll(false, SizeCheck{Meta: meta.NewStore(dir)}, nil, nil)

	require.NoError(t, err)
	assert.True(t, result.Checked)
	assert.True(t, result.Failed)
	require.Len(t, result.Results, len(Schemes()))
	assert.True(t, result.Results[MLKEM512].Passed)
	assert.False(t, result.Results[MLKEM768].Passed)
	assert.True(t, result.Results[MLKEM1024].Passed)
}

// TestVariantSet_RunAll_RawPayloads verifies capture mode returns the
// raw payload map instead of a verdict.
func TestVariantSet_RunAll_RawPayloads(t *testing.T) {
	dir, _ := fakeCheckout(t)
	for _, s := range Schemes() {
		installBinary(t, dir, Benchmark, s, "keypair cycles=1\nencaps cycles=2\ndecaps cycles=3\n")
	}

	v := newVariantSet(Benchmark, CompileOptions{}, dir, quietLogger())
	result, err := v.RunAll(true, RawPassthrough, nil, nil)

	require.NoError(t, err)
	assert.False(t, result.Checked)
	assert.False(t, result.Failed)
	for _, s := range Schemes() {
		assert.Contains(t, result.Results[s].Payload, "keypair cycles=1")
	}
}

// TestVariantSet_RunAll_FatalAbortsBatch verifies a missing binary
// aborts the whole fan-out instead of recording a failure.
func TestVariantSet_RunAll_FatalAbortsBatch(t *testing.T) {
	dir, _ := fakeCheckout(t)
	// Only the first scheme's binary exists.
	installBinary(t, dir, Kat, MLKEM512, katOutput(MLKEM512))

	v := newVariantSet(Kat, CompileOptions{}, dir, quietLogger())
	_, err := v.RunAll(false, DigestCheck{Meta: meta.NewStore(dir), Key: meta.KeyKatDigest}, nil, nil)

	require.ErrorIs(t, err, ErrMissingArtifact)
}

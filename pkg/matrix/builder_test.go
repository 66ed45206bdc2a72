// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package matrix

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countOccurrences counts exact-string entries in an argument list.
func countOccurrences(args []string, want string) int {
	n := 0
	for _, a := range args {
		if a == want {
			n++
		}
	}
	return n
}

// TestComposeArgs_ComputedDefaults verifies the two build-matrix flags
// are appended after the target and extras.
func TestComposeArgs_ComputedDefaults(t *testing.T) {
	args := composeArgs("", "mlkem", true, true, nil)
	assert.Equal(t, []string{"CROSS_PREFIX=", "mlkem", "OPT=1", "AUTO=1"}, args)

	args = composeArgs("aarch64-linux-gnu-", "kat", false, false, []string{"CYCLES=PMU"})
	assert.Equal(t, []string{"CROSS_PREFIX=aarch64-linux-gnu-", "kat", "CYCLES=PMU", "OPT=0", "AUTO=0"}, args)
}

// TestComposeArgs_ExactDuplicateSuppressed verifies a textually
// identical caller flag suppresses the computed default, yielding
// exactly one entry.
func TestComposeArgs_ExactDuplicateSuppressed(t *testing.T) {
	args := composeArgs("", "mlkem", true, true, []string{"OPT=1"})
	assert.Equal(t, 1, countOccurrences(args, "OPT=1"))
}

// TestComposeArgs_ValueOverrideKeepsBoth verifies de-duplication is by
// exact string, not by key: overriding the value passes both entries
// through and leaves precedence to make's last-wins rule.
func TestComposeArgs_ValueOverrideKeepsBoth(t *testing.T) {
	args := composeArgs("", "mlkem", true, true, []string{"OPT=0"})
	assert.Equal(t, 1, countOccurrences(args, "OPT=0"))
	assert.Equal(t, 1, countOccurrences(args, "OPT=1"))

	// The caller's entry precedes the computed default.
	assert.Equal(t, []string{"CROSS_PREFIX=", "mlkem", "OPT=0", "OPT=1", "AUTO=1"}, args)
}

// TestBuilder_Compile_InvokesMakeOnce verifies the composed invocation
// reaches the build system with target, cross prefix and extra args.
func TestBuilder_Compile_InvokesMakeOnce(t *testing.T) {
	dir, fakeBin := fakeCheckout(t)
	installMake(t, dir, fakeBin, 0)

	b := newBuilder(Functional, CompileOptions{Auto: true}, true, dir, quietLogger())
	require.NoError(t, b.Compile(nil, []string{"CYCLES=PMU"}))

	log := makeLog(t, dir)
	require.Len(t, log, 1)
	assert.Equal(t, "CROSS_PREFIX= mlkem CYCLES=PMU OPT=1 AUTO=1", log[0])
}

// TestBuilder_Compile_CFlagsAndExtraEnv verifies CFLAGS and
// category-specific environment overrides reach the child environment.
func TestBuilder_Compile_CFlagsAndExtraEnv(t *testing.T) {
	dir, fakeBin := fakeCheckout(t)
	envLog := filepath.Join(dir, "env.log")
	writeScript(t, filepath.Join(fakeBin, "make"), fmt.Sprintf(
		"echo \"CFLAGS=$CFLAGS EXTRA=$EXTRA\" >> %q\nexit 0\n", envLog))

	copts := CompileOptions{CFlags: "-O3 -Wall", Auto: true}
	b := newBuilder(Kat, copts, false, dir, quietLogger())
	require.NoError(t, b.Compile(map[string]string{"EXTRA": "1"}, nil))

	data, err := os.ReadFile(envLog)
	require.NoError(t, err)
	assert.Equal(t, "CFLAGS=-O3 -Wall EXTRA=1\n", string(data))
}

// TestBuilder_Compile_NonzeroExitIsFatal verifies a failing build
// returns a BuildError and no retry happens.
func TestBuilder_Compile_NonzeroExitIsFatal(t *testing.T) {
	dir, fakeBin := fakeCheckout(t)
	installMake(t, dir, fakeBin, 2)

	b := newBuilder(NistKat, CompileOptions{Auto: true}, false, dir, quietLogger())
	err := b.Compile(nil, nil)

	var buildErr *BuildError
	require.ErrorAs(t, err, &buildErr)
	assert.Equal(t, "nistkat", buildErr.Target)
	assert.Equal(t, 2, buildErr.ExitCode)
	assert.Equal(t, 1, ExitCode(err))

	// Exactly one invocation: fatal means no retry.
	assert.Len(t, makeLog(t, dir), 1)
}

// TestEnvString_SortedAndRendered pins the log rendering of extra env.
func TestEnvString_SortedAndRendered(t *testing.T) {
	s := envString(map[string]string{"B": "2", "A": "1"})
	assert.Equal(t, "A=1 B=2 ", s)
	assert.True(t, strings.HasSuffix(s, " "))
}

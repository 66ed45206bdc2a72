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
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/kemrun/pkg/logging"
	"github.com/AleutianAI/kemrun/pkg/meta"
)

// Real ML-KEM parameter lengths, keyed by scheme.
var testLengths = map[Scheme][3]int{
	MLKEM512:  {1632, 800, 768},
	MLKEM768:  {2400, 1184, 1088},
	MLKEM1024: {3168, 1568, 1568},
}

// quietLogger returns a logger that discards everything; the tests
// assert on results, not log output.
func quietLogger() *logging.Logger {
	return logging.New(logging.Config{Quiet: true})
}

// writeScript writes an executable shell script.
func writeScript(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0755))
}

// sizeOutput renders the functional binary's expected three-line report.
func sizeOutput(s Scheme) string {
	l := testLengths[s]
	return fmt.Sprintf(
		"CRYPTO_SECRETKEYBYTES:  %d\nCRYPTO_PUBLICKEYBYTES:  %d\nCRYPTO_CIPHERTEXTBYTES: %d\n",
		l[0], l[1], l[2])
}

// katOutput is the canned known-answer output of a scheme's generator.
func katOutput(s Scheme) string {
	return "kat output for " + s.String() + "\n"
}

func hexDigest(data string) string {
	sum := sha256.Sum256([]byte(data))
	return hex.EncodeToString(sum[:])
}

// fakeCheckout creates a library checkout skeleton: metadata files for
// every scheme and a bin/ directory prepended to PATH where tests
// install a fake make.
func fakeCheckout(t *testing.T) (dir, fakeBin string) {
	t.Helper()
	dir = t.TempDir()

	for _, s := range Schemes() {
		l := testLengths[s]
		content := fmt.Sprintf(
			"%s: %d\n%s: %d\n%s: %d\n%s: %s\n%s: %s\n",
			meta.KeySecretKeyLen, l[0],
			meta.KeyPublicKeyLen, l[1],
			meta.KeyCiphertextLen, l[2],
			meta.KeyNistKatDigest, hexDigest(katOutput(s)),
			meta.KeyKatDigest, hexDigest(katOutput(s)),
		)
		metaPath := filepath.Join(dir, "META", s.String()+".yml")
		require.NoError(t, os.MkdirAll(filepath.Dir(metaPath), 0755))
		require.NoError(t, os.WriteFile(metaPath, []byte(content), 0644))
	}

	fakeBin = filepath.Join(dir, "fakebin")
	require.NoError(t, os.MkdirAll(fakeBin, 0755))
	t.Setenv("PATH", fakeBin+string(os.PathListSeparator)+os.Getenv("PATH"))

	// Keep test runs from appending to a real CI step summary.
	t.Setenv("GITHUB_STEP_SUMMARY", "")

	return dir, fakeBin
}

// installMake installs a fake make that records its arguments to
// <dir>/make.log and exits with the given code.
func installMake(t *testing.T, dir, fakeBin string, exitCode int) {
	t.Helper()
	writeScript(t, filepath.Join(fakeBin, "make"), fmt.Sprintf(
		"echo \"$@\" >> %q\nexit %d\n", filepath.Join(dir, "make.log"), exitCode))
}

// makeLog returns the recorded make invocations, one per line.
func makeLog(t *testing.T, dir string) []string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, "make.log"))
	if err != nil {
		return nil
	}
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}

// installBinary installs a fake test binary for (category, scheme)
// that emits the given stdout byte-for-byte and exits 0. The payload
// lives in a sidecar file so no shell quoting can mangle it.
func installBinary(t *testing.T, dir string, c Category, s Scheme, stdout string) {
	t.Helper()
	bin := c.BinPath(dir, s)
	require.NoError(t, os.MkdirAll(filepath.Dir(bin), 0755))
	require.NoError(t, os.WriteFile(bin+".out", []byte(stdout), 0644))
	writeScript(t, bin, fmt.Sprintf("cat %q\n", bin+".out"))
}

// newTestSuite builds a Suite over the fake checkout.
func newTestSuite(t *testing.T, dir string, sel RunSelection) *Suite {
	t.Helper()
	suite, err := NewSuite(CompileOptions{Auto: true}, sel, dir, quietLogger())
	require.NoError(t, err)
	return suite
}

// defaultSelection is a run-everything selection.
func defaultSelection() RunSelection {
	return RunSelection{OptMode: "all", Compile: true, Run: true, K: "ALL"}
}

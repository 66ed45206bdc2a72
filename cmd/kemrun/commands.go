// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/AleutianAI/kemrun/pkg/logging"
	"github.com/AleutianAI/kemrun/pkg/matrix"
)

// --- Global Command Variables ---
var (
	crossPrefix string
	cflags      string
	autoDetect  bool
	verbose     bool
	optMode     string
	doCompile   bool
	doRun       bool
	execWrapper string
	runAsRoot   bool
	libDir      string
	proofK      string

	rootCmd = &cobra.Command{
		Use:   "kemrun",
		Short: "Drive the ML-KEM library test matrix",
		Long: `kemrun compiles and runs the ML-KEM library's test matrix:
optimization mode (portable reference vs. native backend) crossed with
test category (functional, KAT, NIST KAT, ACVP conformance, benchmarks,
CBMC proofs). Results are aggregated per scheme and reported to the
GitHub step summary when running in CI.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&crossPrefix, "cross-prefix", "",
		"Cross-compilation toolchain prefix (e.g. aarch64-linux-gnu-)")
	pf.StringVar(&cflags, "cflags", "",
		"Override the CFLAGS environment variable for the build")
	pf.BoolVar(&autoDetect, "auto", true,
		"Allow the build system to auto-detect native backend support")
	pf.BoolVarP(&verbose, "verbose", "v", false,
		"Verbose output (build stdout and debug logs)")
	pf.StringVar(&optMode, "opt", "all",
		"Optimization modes to test: all, opt, no_opt")
	pf.BoolVar(&doCompile, "compile", true,
		"Enable the compile phase")
	pf.BoolVar(&doRun, "run", true,
		"Enable the run phase")
	pf.StringVar(&execWrapper, "exec-wrapper", "",
		"Wrapper command for every test binary (e.g. 'qemu-aarch64 -L /usr/aarch64-linux-gnu')")
	pf.BoolVar(&runAsRoot, "run-as-root", false,
		"Run test binaries under sudo")
	pf.StringVar(&libDir, "dir", ".",
		"Path to the ML-KEM library checkout")

	rootCmd.AddCommand(funcCmd, nistkatCmd, katCmd, acvpCmd, allCmd, benchCmd, cbmcCmd)
}

// newSuite builds the test suite from the global flags. Selector
// validation errors surface here, before any work starts.
func newSuite() (*matrix.Suite, error) {
	level := logging.LevelInfo
	if verbose {
		level = logging.LevelDebug
	}
	log := logging.New(logging.Config{Level: level, Service: "kemrun"}).
		With("run_id", uuid.NewString()[:8])

	copts := matrix.CompileOptions{
		CrossPrefix: crossPrefix,
		CFlags:      cflags,
		Auto:        autoDetect,
		Verbose:     verbose,
	}
	sel := matrix.RunSelection{
		OptMode:     optMode,
		Compile:     doCompile,
		Run:         doRun,
		ExecWrapper: execWrapper,
		RunAsRoot:   runAsRoot,
		K:           proofK,
	}
	if sel.K == "" {
		sel.K = "ALL"
	}
	return matrix.NewSuite(copts, sel, libDir, log)
}

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
	"os/exec"
	"slices"
	"sort"
	"strings"

	"github.com/AleutianAI/kemrun/pkg/cilog"
	"github.com/AleutianAI/kemrun/pkg/logging"
)

// Builder issues one build-system invocation per (category,
// optimization mode), composing the make target, flags and environment.
type Builder struct {
	category  Category
	copts     CompileOptions
	optimized bool
	dir       string
	log       *logging.Logger

	// makeCmd is the build-system executable; overridden in tests.
	makeCmd string
}

// newBuilder creates the Builder for one cell of the compile matrix.
func newBuilder(category Category, copts CompileOptions, optimized bool, dir string, log *logging.Logger) *Builder {
	return &Builder{
		category:  category,
		copts:     copts,
		optimized: optimized,
		dir:       dir,
		log: log.With(
			"category", category.Desc(),
			"phase", "compile",
			"compile_mode", copts.CompileMode(),
			"opt", optLabel(optimized),
		),
		makeCmd: "make",
	}
}

// Compile runs the build system once for the category's target with
// extra environment overrides and make arguments. A nonzero exit is
// fatal: the returned BuildError aborts the whole batch.
func (b *Builder) Compile(extraEnv map[string]string, extraArgs []string) error {
	cilog.Group("compile %s %s %s", b.copts.CompileMode(), optLabel(b.optimized), b.category.Desc())
	defer cilog.EndGroup()

	args := composeArgs(b.copts.CrossPrefix, b.category.MakeTarget(), b.optimized, b.copts.Auto, extraArgs)

	env := os.Environ()
	if b.copts.CFlags != "" {
		env = append(env, "CFLAGS="+b.copts.CFlags)
	}
	for _, k := range sortedKeys(extraEnv) {
		env = append(env, k+"="+extraEnv[k])
	}

	b.log.Info(envString(extraEnv) + b.makeCmd + " " + strings.Join(args, " "))

	cmd := exec.Command(b.makeCmd, args...)
	cmd.Dir = b.dir
	cmd.Env = env
	cmd.Stderr = os.Stderr
	if b.copts.Verbose {
		cmd.Stdout = os.Stdout
	}

	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			b.log.Error("make failed", "exit_code", exitErr.ExitCode())
			return &BuildError{Target: b.category.MakeTarget(), ExitCode: exitErr.ExitCode()}
		}
		b.log.Error("make could not start", "error", err)
		return &BuildError{Target: b.category.MakeTarget(), Cause: err}
	}
	return nil
}

// composeArgs builds the make argument list. The two computed
// build-matrix flags are appended only when no textually identical
// entry already exists in extraArgs. De-duplication is by exact string,
// not by key: a caller passing OPT=0 against a computed OPT=1 yields
// both, and make's own last-wins rule resolves the conflict.
func composeArgs(crossPrefix, target string, optimized, auto bool, extraArgs []string) []string {
	args := []string{"CROSS_PREFIX=" + crossPrefix, target}
	args = append(args, extraArgs...)

	computed := []string{
		fmt.Sprintf("OPT=%d", boolFlag(optimized)),
		fmt.Sprintf("AUTO=%d", boolFlag(auto)),
	}
	for _, flag := range computed {
		if !slices.Contains(extraArgs, flag) {
			args = append(args, flag)
		}
	}
	return args
}

func boolFlag(b bool) int {
	if b {
		return 1
	}
	return 0
}

// envString renders environment overrides for the invocation log line.
func envString(env map[string]string) string {
	var b strings.Builder
	for _, k := range sortedKeys(env) {
		b.WriteString(k + "=" + env[k] + " ")
	}
	return b.String()
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package matrix

import (
	"bytes"
	"os"
	"os/exec"
	"strings"

	"github.com/AleutianAI/kemrun/pkg/logging"
)

// Runner executes one compiled artifact per scheme, capturing output
// and applying the category's checker.
//
// Runner is NOT safe for concurrent use: it owns a mutable sequence
// counter for log correlation. The matrix runs on a single control
// thread, so no synchronization is needed.
type Runner struct {
	category  Category
	copts     CompileOptions
	optimized bool
	dir       string
	log       *logging.Logger

	// seq increases monotonically across Run calls so repeated
	// invocations of the same cell can be told apart in logs.
	seq int
}

// newRunner creates the Runner for one cell of the run matrix.
func newRunner(category Category, copts CompileOptions, optimized bool, dir string, log *logging.Logger) *Runner {
	return &Runner{
		category:  category,
		copts:     copts,
		optimized: optimized,
		dir:       dir,
		log: log.With(
			"category", category.Desc(),
			"phase", "run",
			"compile_mode", copts.CompileMode(),
			"opt", optLabel(optimized),
		),
	}
}

// Run executes the scheme's binary as cmdPrefix + [binary] + extraArgs,
// capturing raw stdout without newline translation.
//
// A missing binary or a nonzero exit is fatal and returns an error.
// With a real checker, a mismatch is recorded in the result and is not
// an error; aggregation continues. With RawPassthrough the decoded
// stdout becomes the result payload.
func (r *Runner) Run(scheme Scheme, checker Checker, cmdPrefix, extraArgs []string) (SchemeResult, error) {
	log := r.log.With("scheme", scheme.String(), "seq", r.seq)
	r.seq++

	bin := r.category.BinPath(r.dir, scheme)
	if _, err := os.Stat(bin); err != nil {
		log.Error("binary does not exist", "bin", bin)
		return SchemeResult{}, &MissingArtifactError{Bin: bin}
	}

	argv := append(append(append([]string{}, cmdPrefix...), bin), extraArgs...)
	log.Debug(strings.Join(argv, " "))

	var stdout, stderr bytes.Buffer
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		exitErr, ok := err.(*exec.ExitError)
		if !ok {
			log.Error("binary could not start", "bin", bin, "error", err)
			return SchemeResult{}, &RunError{Bin: bin, Cause: err}
		}
		log.Error("run failed",
			"exit_code", exitErr.ExitCode(),
			"stderr", stderr.String(),
		)
		return SchemeResult{}, &RunError{
			Bin:      bin,
			ExitCode: exitErr.ExitCode(),
			Stderr:   stderr.String(),
		}
	}

	if checker == nil {
		checker = RawPassthrough
	}
	if checker == RawPassthrough {
		payload := stdout.String()
		log.Info("captured output", "bytes", len(payload))
		return SchemeResult{Passed: true, Payload: payload}, nil
	}

	failed, msg := checker.Check(scheme, stdout.Bytes())
	if failed {
		log.Error(msg)
	} else {
		log.Info("passed")
	}
	return SchemeResult{Passed: !failed, Message: msg}, nil
}

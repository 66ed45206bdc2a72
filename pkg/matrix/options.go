// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package matrix

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// =============================================================================
// COMPILE OPTIONS
// =============================================================================

// CompileOptions holds the build-side configuration. It is immutable
// after construction.
type CompileOptions struct {
	// CrossPrefix is the cross-compilation toolchain prefix, e.g.
	// "aarch64-linux-gnu-". Empty means a native build.
	CrossPrefix string

	// CFlags overrides the CFLAGS environment variable when non-empty.
	CFlags string

	// Auto enables build-system auto-detection of backend support.
	Auto bool

	// Verbose forwards build-system stdout instead of discarding it.
	Verbose bool
}

// CompileMode returns "Cross" when a cross prefix is configured,
// "Native" otherwise. The label appears in log groups and summary
// titles.
func (c CompileOptions) CompileMode() string {
	if c.CrossPrefix != "" {
		return "Cross"
	}
	return "Native"
}

// =============================================================================
// RUN SELECTION
// =============================================================================

// Optimization-mode selector values, matched case-insensitively.
const (
	OptModeAll   = "all"
	OptModeOpt   = "opt"
	OptModeNoOpt = "no_opt"
)

// RunSelection holds the run-side configuration: which optimization
// modes execute, whether the compile and run phases are enabled, and
// how test binaries are wrapped.
type RunSelection struct {
	// OptMode selects the optimization modes: all, opt or no_opt
	// (case-insensitive).
	OptMode string `validate:"oneof=all opt no_opt"`

	// Compile enables the compile phase.
	Compile bool

	// Run enables the run phase.
	Run bool

	// ExecWrapper is an optional command wrapping every test binary,
	// e.g. "qemu-aarch64 -L /usr/aarch64-linux-gnu". Split on spaces.
	ExecWrapper string

	// RunAsRoot prepends sudo to every test binary invocation.
	RunAsRoot bool

	// K selects the CBMC parameter size: 2, 3, 4 or ALL.
	K string `validate:"oneof=2 3 4 ALL"`
}

// Validate normalizes the selectors and rejects values outside the
// accepted sets. A selector typo silently running nothing and
// reporting success is exactly the failure mode this guards against.
func (r *RunSelection) Validate() error {
	r.OptMode = strings.ToLower(r.OptMode)
	r.K = strings.ToUpper(r.K)
	if err := validate.Struct(r); err != nil {
		for _, fe := range err.(validator.ValidationErrors) {
			switch fe.Field() {
			case "OptMode":
				return fmt.Errorf("%w: %q (want all, opt or no_opt)", ErrInvalidOptMode, r.OptMode)
			case "K":
				return fmt.Errorf("%w: %q (want 2, 3, 4 or ALL)", ErrInvalidProofSize, r.K)
			}
		}
		return err
	}
	return nil
}

// Modes returns the selected optimization modes in execution order:
// the reference build first, then the native-backend build.
func (r RunSelection) Modes() []bool {
	switch r.OptMode {
	case OptModeOpt:
		return []bool{true}
	case OptModeNoOpt:
		return []bool{false}
	default:
		return []bool{false, true}
	}
}

// CommandPrefix builds the command prefix applied to every test binary:
// sudo first when configured, then the split exec wrapper.
func (r RunSelection) CommandPrefix() []string {
	var prefix []string
	if r.RunAsRoot {
		prefix = append(prefix, "sudo")
	}
	if r.ExecWrapper != "" {
		prefix = append(prefix, strings.Split(r.ExecWrapper, " ")...)
	}
	return prefix
}

// optLabel returns the log label for an optimization mode.
func optLabel(optimized bool) string {
	if optimized {
		return "opt"
	}
	return "no_opt"
}

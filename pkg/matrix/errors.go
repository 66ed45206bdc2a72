// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package matrix

import (
	"errors"
	"strconv"
)

// =============================================================================
// SENTINEL ERRORS
// =============================================================================

var (
	// ErrChecksFailed indicates one or more scheme checks failed after
	// the full result set for a batch was produced.
	ErrChecksFailed = errors.New("one or more checks failed")

	// ErrMissingArtifact indicates an expected test binary is absent,
	// usually because the compile step was skipped or failed silently.
	ErrMissingArtifact = errors.New("test binary not found")

	// ErrInvalidOptMode indicates an optimization-mode selector outside
	// all/opt/no_opt.
	ErrInvalidOptMode = errors.New("invalid optimization mode selector")

	// ErrInvalidProofSize indicates a CBMC parameter size outside 2/3/4/ALL.
	ErrInvalidProofSize = errors.New("invalid proof parameter size")
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// BuildError indicates a nonzero exit from the build system.
type BuildError struct {
	// Target is the make target that failed.
	Target string

	// ExitCode is the build system's exit code.
	ExitCode int

	// Cause is the underlying error if the process could not start.
	Cause error
}

// Error implements the error interface.
func (e *BuildError) Error() string {
	if e.Cause != nil {
		return "make " + e.Target + " failed: " + e.Cause.Error()
	}
	return "make " + e.Target + " failed: exit code " + strconv.Itoa(e.ExitCode)
}

// Unwrap returns the underlying error.
func (e *BuildError) Unwrap() error { return e.Cause }

// RunError indicates a nonzero exit from a test binary. The child's
// exit code becomes the process exit code.
type RunError struct {
	// Bin is the binary that failed.
	Bin string

	// ExitCode is the child's exit code.
	ExitCode int

	// Stderr is the captured standard error of the child.
	Stderr string

	// Cause is the underlying error if the process could not start.
	Cause error
}

// Error implements the error interface.
func (e *RunError) Error() string {
	if e.Cause != nil {
		return "running " + e.Bin + " failed: " + e.Cause.Error()
	}
	return "running " + e.Bin + " failed: exit code " + strconv.Itoa(e.ExitCode)
}

// Unwrap returns the underlying error.
func (e *RunError) Unwrap() error { return e.Cause }

// MissingArtifactError indicates the expected binary for a
// (category, scheme) pair does not exist on disk.
type MissingArtifactError struct {
	Bin string
}

// Error implements the error interface.
func (e *MissingArtifactError) Error() string {
	return e.Bin + ": " + ErrMissingArtifact.Error()
}

// Unwrap returns ErrMissingArtifact for errors.Is matching.
func (e *MissingArtifactError) Unwrap() error { return ErrMissingArtifact }

// ProofError indicates the external CBMC proof runner exited nonzero.
// Unlike check mismatches this is never recorded as a result; the
// batch aborts unconditionally.
type ProofError struct {
	// K is the parameter size the proofs ran for.
	K string

	// ExitCode is the proof runner's exit code.
	ExitCode int

	// Cause is the underlying error if the process could not start.
	Cause error
}

// Error implements the error interface.
func (e *ProofError) Error() string {
	if e.Cause != nil {
		return "proof run for MLKEM_K=" + e.K + " failed: " + e.Cause.Error()
	}
	return "proof run for MLKEM_K=" + e.K + " failed: exit code " + strconv.Itoa(e.ExitCode)
}

// Unwrap returns the underlying error.
func (e *ProofError) Unwrap() error { return e.Cause }

// =============================================================================
// EXIT CODE MAPPING
// =============================================================================

// ExitCode maps an error returned by a Suite method to the process
// exit code. This is the only place exit codes are decided; main calls
// it exactly once.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}

	var runErr *RunError
	if errors.As(err, &runErr) && runErr.ExitCode != 0 {
		return runErr.ExitCode
	}

	var outcomeErr *OutcomeError
	if errors.As(err, &outcomeErr) {
		return outcomeErr.Code
	}

	return 1
}

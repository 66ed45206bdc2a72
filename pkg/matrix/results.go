// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package matrix

import "strconv"

// =============================================================================
// PER-SCHEME RESULTS
// =============================================================================

// SchemeResult is the outcome of running one scheme's binary once.
// Absence of a SchemeResult for an attempted scheme means the attempt
// never ran (an earlier fatal aborted the batch).
type SchemeResult struct {
	// Passed reports whether the checker accepted the output. Always
	// true in capture mode.
	Passed bool

	// Payload holds the decoded stdout in capture mode, empty otherwise.
	Payload string

	// Message is the checker's diagnostic on failure.
	Message string
}

// ModeResult is the aggregate of one (category, optimization mode) run
// over all schemes. It is a discriminated result: when Checked is true
// the verdict fields are meaningful, otherwise Results carries raw
// payloads for the caller to consume.
type ModeResult struct {
	// Checked reports whether a real checker ran (i.e. the checker was
	// not RawPassthrough).
	Checked bool

	// Failed is the logical OR of all per-scheme failures. Only
	// meaningful when Checked is true.
	Failed bool

	// Results holds one entry per attempted scheme.
	Results map[Scheme]SchemeResult
}

// failedByScheme flattens the per-scheme verdicts for reporting.
func (m ModeResult) failedByScheme() map[string]bool {
	out := make(map[string]bool, len(m.Results))
	for s, r := range m.Results {
		out[s.String()] = !r.Passed
	}
	return out
}

// =============================================================================
// BATCH OUTCOME
// =============================================================================

// Outcome normalizes the mixed failure signals of the composite driver
// (boolean check verdicts, fatal errors with exit codes) into a single
// success/failure-with-code value.
type Outcome struct {
	// Code is the process exit code this outcome maps to; zero means
	// success.
	Code int
}

// Merge folds another outcome in, keeping the first nonzero code.
func (o Outcome) Merge(other Outcome) Outcome {
	if o.Code != 0 {
		return o
	}
	return other
}

// Err returns nil for success and an OutcomeError otherwise.
func (o Outcome) Err() error {
	if o.Code == 0 {
		return nil
	}
	return &OutcomeError{Code: o.Code}
}

// outcomeOf normalizes an error from a compile or run step. Fatal
// errors carrying a child exit code keep it; everything else maps to 1.
func outcomeOf(err error) Outcome {
	return Outcome{Code: ExitCode(err)}
}

// failureOutcome maps an aggregated check verdict to an outcome.
func failureOutcome(failed bool) Outcome {
	if failed {
		return Outcome{Code: 1}
	}
	return Outcome{}
}

// OutcomeError carries an aggregated batch failure and its exit code
// up to the top-level dispatcher.
type OutcomeError struct {
	Code int
}

// Error implements the error interface.
func (e *OutcomeError) Error() string {
	return "test batch failed: exit code " + strconv.Itoa(e.Code)
}

// Unwrap returns ErrChecksFailed for errors.Is matching.
func (e *OutcomeError) Unwrap() error { return ErrChecksFailed }

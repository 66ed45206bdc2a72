// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package matrix drives the two-axis test matrix of the ML-KEM library:
// optimization mode (portable reference vs. native backend) crossed with
// test category (functional, KAT, NIST KAT, ACVP conformance, benchmark,
// component benchmark, CBMC proofs).
//
// The pipeline for one category and one optimization mode is:
//
//  1. COMPILE  - one make invocation for the category's target
//  2. RUN      - the compiled binary, once per parameter scheme
//  3. CHECK    - category-specific checker over raw stdout
//  4. AGGREGATE - per-scheme failures folded by logical OR
//
// Execution is fully sequential on one control thread; every compile
// and run step is a blocking child-process call. Parallelism, where it
// exists at all, is delegated outward (make's own job control, and the
// -j hint passed to the CBMC proof runner).
//
// # Failure taxonomy
//
// Fatal classes abort the whole batch and surface as typed errors:
// BuildError (nonzero make exit), MissingArtifactError (expected binary
// absent), RunError (nonzero binary exit, propagating the child's
// code), and ProofError (CBMC runner failure). Check mismatches are
// recoverable: they are logged, recorded per scheme, and only decide
// the process exit code once the full result set exists. The composite
// driver additionally downgrades fatals of individual categories so
// every selected category completes before the batch verdict.
//
// No error class is retried and no timeouts are applied; a hung child
// process stalls the pipeline indefinitely.
//
// Process termination happens in exactly one place: the caller of the
// top-level Suite methods maps the returned error to an exit code.
package matrix

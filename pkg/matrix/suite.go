// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package matrix

import (
	"runtime"

	"github.com/AleutianAI/kemrun/pkg/logging"
	"github.com/AleutianAI/kemrun/pkg/meta"
)

// Suite owns one VariantSet per test category and drives the selected
// cells of the matrix. One Suite is built per process run and lives for
// the process lifetime.
type Suite struct {
	copts CompileOptions
	sel   RunSelection
	dir   string
	meta  *meta.Store
	log   *logging.Logger

	// cmdPrefix wraps every test binary: sudo and/or the exec wrapper.
	cmdPrefix []string

	functional      *VariantSet
	nistkat         *VariantSet
	kat             *VariantSet
	acvp            *VariantSet
	bench           *VariantSet
	benchComponents *VariantSet

	// proofArgv is the external CBMC proof runner; swapped in tests.
	proofArgv []string

	// numCPU computes the proof-runner parallelism hint.
	numCPU func() int
}

// NewSuite validates the run selection and constructs all category
// variants. dir is the library checkout the build system runs in.
func NewSuite(copts CompileOptions, sel RunSelection, dir string, log *logging.Logger) (*Suite, error) {
	if err := sel.Validate(); err != nil {
		return nil, err
	}

	s := &Suite{
		copts:           copts,
		sel:             sel,
		dir:             dir,
		meta:            meta.NewStore(dir),
		log:             log,
		functional:      newVariantSet(Functional, copts, dir, log),
		nistkat:         newVariantSet(NistKat, copts, dir, log),
		kat:             newVariantSet(Kat, copts, dir, log),
		acvp:            newVariantSet(Conformance, copts, dir, log),
		bench:           newVariantSet(Benchmark, copts, dir, log),
		benchComponents: newVariantSet(ComponentBenchmark, copts, dir, log),
		proofArgv:       []string{"python3", "run-cbmc-proofs.py", "--summarize", "--no-coverage"},
		numCPU:          runtime.NumCPU,
	}

	if s.sel.Run {
		if s.sel.RunAsRoot {
			log.Info("running test binaries as root -- you may need to enter your root password")
		}
		if s.sel.ExecWrapper != "" {
			log.Info("running with customized wrapper", "wrapper", s.sel.ExecWrapper)
		}
		s.cmdPrefix = s.sel.CommandPrefix()
	}

	return s, nil
}

// =============================================================================
// SINGLE-CATEGORY DRIVERS
// =============================================================================

// Functional compiles and runs the functional size checks.
func (s *Suite) Functional() error {
	return s.runCategory(s.functional, SizeCheck{Meta: s.meta})
}

// NistKat compiles and runs the NIST-format known-answer tests.
func (s *Suite) NistKat() error {
	return s.runCategory(s.nistkat, DigestCheck{Meta: s.meta, Key: meta.KeyNistKatDigest})
}

// Kat compiles and runs the known-answer tests.
func (s *Suite) Kat() error {
	return s.runCategory(s.kat, DigestCheck{Meta: s.meta, Key: meta.KeyKatDigest})
}

// runCategory iterates the selected optimization modes for one
// category, compiling then running each, and ORs the per-mode check
// verdicts. Fatal errors abort immediately.
func (s *Suite) runCategory(v *VariantSet, checker Checker) error {
	var failed bool
	for _, optimized := range s.sel.Modes() {
		f, err := s.runCategoryMode(v, checker, optimized)
		if err != nil {
			return err
		}
		failed = failed || f
	}
	return failureOutcome(failed).Err()
}

// runCategoryMode is one (category, optimization mode) cell: compile if
// enabled, then run every scheme if enabled. Returns the aggregated
// check verdict for the mode.
func (s *Suite) runCategoryMode(v *VariantSet, checker Checker, optimized bool) (bool, error) {
	if s.sel.Compile {
		if err := v.Compile(optimized, nil, nil); err != nil {
			return false, err
		}
	}
	if s.sel.Run {
		result, err := v.RunAll(optimized, checker, s.cmdPrefix, nil)
		if err != nil {
			return false, err
		}
		return result.Failed, nil
	}
	return false, nil
}

// =============================================================================
// COMPOSITE DRIVER
// =============================================================================

// AllSelection names the categories the composite driver executes.
type AllSelection struct {
	Functional  bool
	NistKat     bool
	Kat         bool
	Conformance bool
}

// All compiles then runs every selected category sequentially for each
// selected optimization mode. Individual category failures -- including
// classes that are fatal when the category runs alone -- are folded
// into the accumulated outcome so that every selected category
// completes before the batch verdict is decided.
func (s *Suite) All(selection AllSelection) error {
	outcome := Outcome{}
	for _, optimized := range s.sel.Modes() {
		outcome = outcome.Merge(s.runAllMode(selection, optimized))
	}
	return outcome.Err()
}

// allEntry is one category slot of the composite driver.
type allEntry struct {
	variants    *VariantSet
	checker     Checker
	conformance bool
}

// runAllMode executes one optimization mode of the composite driver.
func (s *Suite) runAllMode(selection AllSelection, optimized bool) Outcome {
	var entries []allEntry
	if selection.Functional {
		entries = append(entries, allEntry{variants: s.functional, checker: SizeCheck{Meta: s.meta}})
	}
	if selection.NistKat {
		entries = append(entries, allEntry{variants: s.nistkat, checker: DigestCheck{Meta: s.meta, Key: meta.KeyNistKatDigest}})
	}
	if selection.Kat {
		entries = append(entries, allEntry{variants: s.kat, checker: DigestCheck{Meta: s.meta, Key: meta.KeyKatDigest}})
	}
	if selection.Conformance {
		entries = append(entries, allEntry{variants: s.acvp, conformance: true})
	}

	outcome := Outcome{}

	if s.sel.Compile {
		for _, e := range entries {
			if err := e.variants.Compile(optimized, nil, nil); err != nil {
				outcome = outcome.Merge(outcomeOf(err))
			}
		}
	}

	if s.sel.Run {
		for _, e := range entries {
			if e.conformance {
				outcome = outcome.Merge(failureOutcome(s.runConformanceMode(optimized)))
				continue
			}
			result, err := e.variants.RunAll(optimized, e.checker, s.cmdPrefix, nil)
			if err != nil {
				outcome = outcome.Merge(outcomeOf(err))
				continue
			}
			outcome = outcome.Merge(failureOutcome(result.Failed))
		}
	}

	return outcome
}

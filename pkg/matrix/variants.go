// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package matrix

import (
	"github.com/AleutianAI/kemrun/pkg/cilog"
	"github.com/AleutianAI/kemrun/pkg/logging"
)

// VariantSet pairs a Builder and a Runner for each optimization mode
// of one category. Both keys are always present; the set is never
// partial.
type VariantSet struct {
	category Category
	copts    CompileOptions
	log      *logging.Logger

	builders map[bool]*Builder
	runners  map[bool]*Runner
}

// newVariantSet constructs both optimization variants for a category.
func newVariantSet(category Category, copts CompileOptions, dir string, log *logging.Logger) *VariantSet {
	v := &VariantSet{
		category: category,
		copts:    copts,
		log:      log,
		builders: make(map[bool]*Builder, 2),
		runners:  make(map[bool]*Runner, 2),
	}
	for _, optimized := range []bool{false, true} {
		v.builders[optimized] = newBuilder(category, copts, optimized, dir, log)
		v.runners[optimized] = newRunner(category, copts, optimized, dir, log)
	}
	return v
}

// Compile builds the category's binaries for one optimization mode.
func (v *VariantSet) Compile(optimized bool, extraEnv map[string]string, extraArgs []string) error {
	return v.builders[optimized].Compile(extraEnv, extraArgs)
}

// RunAll fans one optimization mode's run across every known scheme,
// collecting per-scheme results, and reports the batch to the CI
// summary sink. The returned ModeResult is discriminated: an aggregated
// verdict when a real checker ran, raw payloads otherwise.
func (v *VariantSet) RunAll(optimized bool, checker Checker, cmdPrefix, extraArgs []string) (ModeResult, error) {
	cilog.Group("run %s %s %s", v.copts.CompileMode(), optLabel(optimized), v.category.Desc())
	defer cilog.EndGroup()

	result := ModeResult{
		Checked: checker != nil && checker != RawPassthrough,
		Results: make(map[Scheme]SchemeResult, len(Schemes())),
	}

	for _, scheme := range Schemes() {
		sr, err := v.runners[optimized].Run(scheme, checker, cmdPrefix, extraArgs)
		if err != nil {
			return ModeResult{}, err
		}
		result.Results[scheme] = sr
		if !sr.Passed {
			result.Failed = true
		}
	}

	title := v.copts.CompileMode() + " " + titleLabel(optimized) + " Tests"
	if err := cilog.Summary(title, v.category.Desc(), result.failedByScheme()); err != nil {
		v.log.Warn("step summary not written", "error", err)
	}

	return result, nil
}

// titleLabel is the capitalized optimization label used in summary
// titles: "Opt" or "No_opt".
func titleLabel(optimized bool) string {
	if optimized {
		return "Opt"
	}
	return "No_opt"
}

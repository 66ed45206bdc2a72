// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package matrix

import (
	"github.com/AleutianAI/kemrun/pkg/bench"
)

// BenchOptions configures a benchmark batch.
type BenchOptions struct {
	// Cycles selects the cycle-count method compiled into the
	// benchmark binaries (passed through as the CYCLES make variable).
	Cycles string

	// Output is the path of the JSON artifact. Empty disables output.
	Output string

	// MacTaskPolicy, when non-empty, appends "taskpolicy -c <policy>"
	// to the command prefix to pin the macOS scheduler policy.
	MacTaskPolicy string

	// Components switches to the component benchmarks. Component mode
	// is mutually exclusive with the aggregate JSON artifact.
	Components bool
}

// Bench compiles and runs the benchmark binaries in capture mode for
// each selected optimization mode, then extracts cycle counts into the
// JSON artifact when configured. When both modes are selected only the
// native-backend run's payloads are written; there is no agreed format
// for publishing both.
func (s *Suite) Bench(opts BenchOptions) error {
	variants := s.bench
	if opts.Components {
		variants = s.benchComponents
		opts.Output = ""
	}

	prefix := append([]string{}, s.cmdPrefix...)
	if opts.MacTaskPolicy != "" {
		prefix = append(prefix, "taskpolicy", "-c", opts.MacTaskPolicy)
	}

	extraArgs := []string{"CYCLES=" + opts.Cycles}

	var last ModeResult
	var ran bool
	for _, optimized := range s.sel.Modes() {
		if s.sel.Compile {
			if err := variants.Compile(optimized, nil, extraArgs); err != nil {
				return err
			}
		}
		if s.sel.Run {
			result, err := variants.RunAll(optimized, RawPassthrough, prefix, nil)
			if err != nil {
				return err
			}
			last = result
			ran = true
		}
	}

	if !ran || opts.Output == "" {
		return nil
	}

	var records []bench.Record
	for _, scheme := range Schemes() {
		rs, err := bench.Extract(scheme.String(), last.Results[scheme].Payload)
		if err != nil {
			return err
		}
		records = append(records, rs...)
	}
	return bench.WriteJSON(opts.Output, records)
}

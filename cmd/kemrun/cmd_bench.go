// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"github.com/spf13/cobra"

	"github.com/AleutianAI/kemrun/pkg/matrix"
)

var (
	benchCycles     string
	benchOutput     string
	benchTaskPolicy string
	benchComponents bool
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Run the cycle-count benchmarks",
	Long: `Compile and run the benchmark binaries in capture mode. With --output
the per-scheme cycle counts are extracted into a flat JSON artifact for
the CI benchmark tracker. Component mode (--components) benchmarks
internal building blocks and disables the JSON artifact.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		suite, err := newSuite()
		if err != nil {
			return err
		}
		return suite.Bench(matrix.BenchOptions{
			Cycles:        benchCycles,
			Output:        benchOutput,
			MacTaskPolicy: benchTaskPolicy,
			Components:    benchComponents,
		})
	},
}

func init() {
	benchCmd.Flags().StringVar(&benchCycles, "cycles", "NO",
		"Cycle-count method compiled into the binaries (NO, PMU, PERF, MAC)")
	benchCmd.Flags().StringVarP(&benchOutput, "output", "o", "",
		"Path of the JSON benchmark artifact (empty disables output)")
	benchCmd.Flags().StringVar(&benchTaskPolicy, "mac-taskpolicy", "",
		"macOS scheduler policy for the benchmark processes")
	benchCmd.Flags().BoolVar(&benchComponents, "components", false,
		"Benchmark internal components instead of the KEM primitives")
}

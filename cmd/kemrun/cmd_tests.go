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

// Category selectors for the composite command.
var (
	allFunc    bool
	allNistKat bool
	allKat     bool
	allACVP    bool
)

var funcCmd = &cobra.Command{
	Use:   "func",
	Short: "Run the functional size checks",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		suite, err := newSuite()
		if err != nil {
			return err
		}
		return suite.Functional()
	},
}

var nistkatCmd = &cobra.Command{
	Use:   "nistkat",
	Short: "Run the NIST-format known-answer tests",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		suite, err := newSuite()
		if err != nil {
			return err
		}
		return suite.NistKat()
	},
}

var katCmd = &cobra.Command{
	Use:   "kat",
	Short: "Run the known-answer tests",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		suite, err := newSuite()
		if err != nil {
			return err
		}
		return suite.Kat()
	},
}

var acvpCmd = &cobra.Command{
	Use:   "acvp",
	Short: "Run the ACVP conformance checks",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		suite, err := newSuite()
		if err != nil {
			return err
		}
		return suite.ACVP()
	},
}

var allCmd = &cobra.Command{
	Use:   "all",
	Short: "Run all selected test categories",
	Long: `Run the selected test categories sequentially for each selected
optimization mode. Categories never stop each other: every selected
category completes and the accumulated outcome decides the exit code.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		suite, err := newSuite()
		if err != nil {
			return err
		}
		return suite.All(matrix.AllSelection{
			Functional:  allFunc,
			NistKat:     allNistKat,
			Kat:         allKat,
			Conformance: allACVP,
		})
	},
}

func init() {
	allCmd.Flags().BoolVar(&allFunc, "func", true, "Include the functional size checks")
	allCmd.Flags().BoolVar(&allNistKat, "nistkat", true, "Include the NIST-format known-answer tests")
	allCmd.Flags().BoolVar(&allKat, "kat", true, "Include the known-answer tests")
	allCmd.Flags().BoolVar(&allACVP, "acvp", true, "Include the ACVP conformance checks")
}

// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"github.com/spf13/cobra"
)

var cbmcCmd = &cobra.Command{
	Use:   "cbmc",
	Short: "Run the CBMC formal proofs",
	Long: `Delegate to the external CBMC proof runner once per parameter size,
passing the size via MLKEM_K and a parallelism hint derived from the
available processor count. A proof-runner failure aborts immediately.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		suite, err := newSuite()
		if err != nil {
			return err
		}
		return suite.CBMC()
	},
}

func init() {
	cbmcCmd.Flags().StringVarP(&proofK, "k", "k", "ALL",
		"Parameter size to prove: 2, 3, 4 or ALL")
}

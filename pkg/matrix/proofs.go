// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package matrix

import (
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
)

// CBMC runs the external bounded-model-checking proof harness once per
// selected parameter size (all of 2, 3, 4 unless one is selected). The
// size travels through the MLKEM_K environment variable and the
// available processor count becomes the runner's -j parallelism hint.
//
// A nonzero exit from the proof runner is an unconditional abort: no
// result is recorded and the remaining sizes do not run.
func (s *Suite) CBMC() error {
	sizes := []string{"2", "3", "4"}
	if s.sel.K != "ALL" {
		sizes = []string{s.sel.K}
	}
	for _, k := range sizes {
		if err := s.runProofs(k); err != nil {
			return err
		}
	}
	return nil
}

// runProofs invokes the proof runner in the cbmc/ subdirectory for one
// parameter size.
func (s *Suite) runProofs(k string) error {
	log := s.log.With("category", "CBMC", "mlkem_k", k)

	argv := append(append([]string{}, s.proofArgv...), "-j"+strconv.Itoa(s.numCPU()))
	log.Info("running proofs", "cmd", argv)

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Dir = filepath.Join(s.dir, "cbmc")
	cmd.Env = append(os.Environ(), "MLKEM_K="+k)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			log.Error("proof run failed", "exit_code", exitErr.ExitCode())
			return &ProofError{K: k, ExitCode: exitErr.ExitCode()}
		}
		log.Error("proof runner could not start", "error", err)
		return &ProofError{K: k, Cause: err}
	}
	return nil
}

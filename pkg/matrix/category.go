// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package matrix

import "path/filepath"

// Category is one test category of the matrix. Each category maps to
// exactly one make target and one binary naming convention.
type Category int

const (
	// Functional runs the self-test binary reporting key and
	// ciphertext sizes.
	Functional Category = iota

	// NistKat generates known-answer output in the NIST reference
	// generator format.
	NistKat

	// Kat generates known-answer output in the project's own format.
	Kat

	// Conformance runs the ACVP protocol validation via the build
	// system's dedicated check target.
	Conformance

	// Benchmark measures cycle counts of the three KEM primitives.
	Benchmark

	// ComponentBenchmark measures cycle counts of internal components.
	ComponentBenchmark
)

// MakeTarget returns the build-system target that compiles the
// category's binaries.
func (c Category) MakeTarget() string {
	switch c {
	case Functional:
		return "mlkem"
	case NistKat:
		return "nistkat"
	case Kat:
		return "kat"
	case Conformance:
		return "acvp"
	case Benchmark:
		return "bench"
	case ComponentBenchmark:
		return "bench_components"
	default:
		return ""
	}
}

// Desc returns the human-readable category description used in log
// groups and summaries.
func (c Category) Desc() string {
	switch c {
	case Functional:
		return "Functional Test"
	case NistKat:
		return "Nistkat Test"
	case Kat:
		return "Kat Test"
	case Conformance:
		return "Acvp Test"
	case Benchmark:
		return "Benchmarking Test"
	case ComponentBenchmark:
		return "Benchmarking Components Test"
	default:
		return "Unknown Test"
	}
}

// binPrefix returns the binary name prefix for the category.
func (c Category) binPrefix() string {
	switch c {
	case Functional:
		return "test_mlkem"
	case NistKat:
		return "gen_NISTKAT"
	case Kat:
		return "gen_KAT"
	case Conformance:
		return "acvp_mlkem"
	case Benchmark:
		return "bench_mlkem"
	case ComponentBenchmark:
		return "bench_components_mlkem"
	default:
		return ""
	}
}

// BinPath resolves the expected binary for (category, scheme) below the
// library checkout at dir. The layout is fixed by the build system:
// test/build/<scheme>/bin/<prefix><bits>.
func (c Category) BinPath(dir string, s Scheme) string {
	return filepath.Join(dir, "test", "build", s.String(), "bin", c.binPrefix()+s.Bits())
}

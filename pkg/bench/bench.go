// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package bench parses raw cycle-count output from benchmark binaries
// into structured records and serializes them for CI consumption.
package bench

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Primitives measured by every benchmark binary, in output order.
var Primitives = []string{"keypair", "encaps", "decaps"}

// ErrMissingPrimitive indicates the benchmark output lacks a cycle
// count for one of the three primitives.
var ErrMissingPrimitive = errors.New("missing primitive cycle count")

// Record is one benchmark measurement in the artifact format consumed
// by the CI benchmark tracker.
type Record struct {
	Name  string `json:"name"`
	Unit  string `json:"unit"`
	Value int64  `json:"value"`
}

// Extract parses the raw text output of one scheme's benchmark binary.
//
// Lines without a '=' separator are skipped. Lines with one are split
// into a trimmed key and an integer value; a non-integer value is a
// parse error. The result is one Record per primitive, keyed
// "<scheme> <primitive>", in keypair/encaps/decaps order.
func Extract(scheme, raw string) ([]Record, error) {
	cycles := make(map[string]int64)
	for _, line := range strings.Split(raw, "\n") {
		if !strings.Contains(line, "=") {
			continue
		}
		key, value, _ := strings.Cut(line, "=")
		key = strings.TrimSpace(key)
		n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("benchmark output for %s: non-integer value in line %q", scheme, line)
		}
		cycles[key] = n
	}

	records := make([]Record, 0, len(Primitives))
	for _, primitive := range Primitives {
		n, ok := cycles[primitive+" cycles"]
		if !ok {
			return nil, fmt.Errorf("%w: %s for %s", ErrMissingPrimitive, primitive, scheme)
		}
		records = append(records, Record{
			Name:  scheme + " " + primitive,
			Unit:  "cycles",
			Value: n,
		})
	}
	return records, nil
}

// WriteJSON writes records as a flat JSON array to path.
func WriteJSON(path string, records []Record) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encoding benchmark records: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing benchmark artifact: %w", err)
	}
	return nil
}

// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package cilog emits GitHub Actions log groups and step summaries.
//
// Group/EndGroup wrap a phase of work in a collapsible log section.
// Both are no-ops outside of CI, detected via the GITHUB_ENV variable,
// so local runs stay free of workflow command noise.
package cilog

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// envLookup is swapped out by tests.
var envLookup = os.LookupEnv

// out is where workflow commands are written; swapped out by tests.
var out io.Writer = os.Stdout

// InCI reports whether the process runs under GitHub Actions.
func InCI() bool {
	_, ok := envLookup("GITHUB_ENV")
	return ok
}

// Group opens a collapsible log section with the given title.
func Group(format string, args ...any) {
	if !InCI() {
		return
	}
	fmt.Fprintf(out, "::group::"+format+"\n", args...)
}

// EndGroup closes the current collapsible log section.
func EndGroup() {
	if !InCI() {
		return
	}
	fmt.Fprintln(out, "::endgroup::")
}

// Summary appends a pass/fail table for one (category, optimization
// mode) to the GitHub step summary. It is a no-op when
// GITHUB_STEP_SUMMARY is not configured.
//
// failed maps each scheme name to whether its check failed.
func Summary(title, description string, failed map[string]bool) error {
	path, ok := envLookup("GITHUB_STEP_SUMMARY")
	if !ok || path == "" {
		return nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0640)
	if err != nil {
		return fmt.Errorf("opening step summary: %w", err)
	}
	defer f.Close()

	names := make([]string, 0, len(failed))
	for name := range failed {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n", title)
	fmt.Fprintf(&b, "%s\n\n", description)
	b.WriteString("| Scheme | Result |\n")
	b.WriteString("| ------ | ------ |\n")
	for _, name := range names {
		result := ":white_check_mark:"
		if failed[name] {
			result = ":x:"
		}
		fmt.Fprintf(&b, "| %s | %s |\n", name, result)
	}
	b.WriteString("\n")

	if _, err := f.WriteString(b.String()); err != nil {
		return fmt.Errorf("writing step summary: %w", err)
	}
	return nil
}

// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package policy decides which files participate in dead-code analysis.
//
// The filter is deliberately one-sided: a file it excludes is out of
// scope, not proven clean. Definitions in excluded files are never
// classified, but references from excluded files still count as usages,
// so exclusion can only make the analysis more conservative.
package policy

import "strings"

// testMarkers are path fragments that identify test code. Usage by a test
// is not "dead", and test fixtures must never be edited.
var testMarkers = []string{
	".test.", ".spec.", "__tests__",
	"test/", "tests/", "spec/", "e2e/",
}

// skipMarkers are path fragments for dependency trees, build output,
// framework caches, and generated files the parser cannot be trusted on.
var skipMarkers = []string{
	"node_modules/", ".next/", ".git/",
	"dist/", "build/", "coverage/", "vendor/",
	".d.ts", ".min.js", ".bundle.js",
}

// Filter implements the file policy. The zero value uses only the
// built-in markers; Denylist adds repository-specific exclusions.
type Filter struct {
	// Denylist holds extra path fragments to exclude, supplied as
	// configuration for known-problematic paths.
	Denylist []string
}

// New creates a Filter with the given denylist fragments.
func New(denylist []string) *Filter {
	return &Filter{Denylist: denylist}
}

// ShouldAnalyze reports whether the file at path participates in analysis.
// It is a pure function over the path string and never fails: unknown or
// malformed paths are simply analyzed (the loader decides parseability).
func (f *Filter) ShouldAnalyze(path string) bool {
	normalized := strings.ReplaceAll(path, "\\", "/")

	if IsTestFile(normalized) {
		return false
	}
	for _, m := range skipMarkers {
		if strings.Contains(normalized, m) {
			return false
		}
	}
	if f != nil {
		for _, m := range f.Denylist {
			if m != "" && strings.Contains(normalized, m) {
				return false
			}
		}
	}
	return true
}

// IsTestFile reports whether the path carries a test marker.
func IsTestFile(path string) bool {
	normalized := strings.ReplaceAll(path, "\\", "/")
	for _, m := range testMarkers {
		if strings.Contains(normalized, m) {
			return true
		}
	}
	// Go test files do not match the generic markers.
	return strings.HasSuffix(normalized, "_test.go")
}

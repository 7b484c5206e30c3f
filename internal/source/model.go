// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package source builds a parsed snapshot of a codebase: every supported
// source file, the function and class definitions it contains, and the
// cross-file usage count of each definition. A snapshot is immutable; the
// analysis and removal passes of one request must both run against the
// same snapshot, since definitions carry byte offsets into file content.
package source

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/petar-djukic/go-pruner/pkg/types"
)

// SourceFile holds one parsed file and the definitions it owns, in
// declaration order.
type SourceFile struct {
	Path        string // Relative to the snapshot root
	Content     []byte
	Definitions []*types.Definition
}

// Snapshot is the point-in-time representation of a codebase used
// consistently across one analyze/remove pass.
type Snapshot struct {
	Dir   string // Absolute root the snapshot was loaded from
	files []*SourceFile
}

// NewSnapshot builds a snapshot from pre-parsed files. Load is the usual
// entry point; this constructor exists for alternative providers and
// tests.
func NewSnapshot(dir string, files []*SourceFile) *Snapshot {
	return &Snapshot{Dir: dir, files: files}
}

// Files returns the snapshot's files in stable walk order.
func (s *Snapshot) Files() []*SourceFile {
	return s.files
}

// DefinitionCount returns the total number of definitions in the snapshot.
func (s *Snapshot) DefinitionCount() int {
	n := 0
	for _, f := range s.files {
		n += len(f.Definitions)
	}
	return n
}

// sortDefinitions fixes declaration order within a file. Tree-sitter query
// matches are not guaranteed to arrive in position order.
func sortDefinitions(defs []*types.Definition) {
	sort.SliceStable(defs, func(i, j int) bool {
		return defs[i].StartByte < defs[j].StartByte
	})
}

// DetectLanguage guesses the dominant language of a directory by file
// extension census. TypeScript is the default for mixed or empty trees.
func DetectLanguage(dir string) string {
	counts := map[string]int{}
	_ = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if defaultSkipDirs[filepath.Base(path)] && path != dir {
				return filepath.SkipDir
			}
			return nil
		}
		if lang, ok := extLanguages[filepath.Ext(path)]; ok {
			counts[lang]++
		}
		return nil
	})

	best, bestCount := "typescript", 0
	for _, lang := range []string{"go", "python", "javascript", "typescript"} {
		if counts[lang] > bestCount {
			best, bestCount = lang, counts[lang]
		}
	}
	return best
}

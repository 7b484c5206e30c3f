// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package source

import "github.com/petar-djukic/go-pruner/pkg/types"

// resolveUsages counts, for every definition, the reference sites that
// mention its name. Two classes of sites are excluded:
//
//   - the name token of any definition (a definition is not a usage of
//     itself, nor of a same-named definition elsewhere), and
//   - sites inside the defining symbol's own span in the same file, so
//     recursion does not keep a symbol alive.
//
// A reference in a test or otherwise policy-excluded file still counts:
// the loader parses those files precisely because removal must never
// break a file the analyzer chose not to edit.
func resolveUsages(files []*SourceFile, refs []reference, defNameSites map[string]bool) {
	index := make(map[string][]*types.Definition)
	for _, f := range files {
		for _, d := range f.Definitions {
			index[d.Name] = append(index[d.Name], d)
		}
	}

	for _, ref := range refs {
		if defNameSites[refKey(ref.path, ref.start)] {
			continue
		}
		for _, d := range index[ref.name] {
			if ref.path == d.FilePath && ref.start >= d.StartByte && ref.start < d.EndByte {
				continue
			}
			d.Usages++
		}
	}
}

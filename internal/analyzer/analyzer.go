// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package analyzer classifies definitions as live or dead.
//
// The single safety invariant of the whole system lives here: a symbol is
// a removal candidate only when it is unreferenced anywhere in the scanned
// codebase AND not part of any public surface AND owned by a file the
// policy filter allows. Export status stands in for "may be consumed by
// code outside this snapshot", which usage counting cannot see.
package analyzer

import (
	"fmt"

	"github.com/petar-djukic/go-pruner/internal/policy"
	"github.com/petar-djukic/go-pruner/internal/source"
	"github.com/petar-djukic/go-pruner/pkg/types"
)

// Liveness is the classification verdict for one definition.
type Liveness int

const (
	Live Liveness = iota
	Dead
)

// IsUnused reports whether the definition has zero usage sites. The
// snapshot loader has already excluded self-references, so this is a pure
// read of the resolved count.
func IsUnused(d *types.Definition) bool {
	return d.Usages == 0
}

// Classify applies the safety conjunction to a single definition.
// Definitions in policy-excluded files are Live by construction here;
// ClassifySnapshot never visits them at all.
func Classify(d *types.Definition, filter *policy.Filter) Liveness {
	if IsUnused(d) && !d.Exported && filter.ShouldAnalyze(d.FilePath) {
		return Dead
	}
	return Live
}

// Result holds the classification output: dead findings split by kind,
// the definitions backing them (for the removal pass), and per-symbol
// warnings for entries that could not be read.
type Result struct {
	DeadFunctions []types.Finding
	DeadClasses   []types.Finding
	Candidates    []types.Definition // Removal candidates, same order as findings
	Warnings      []string
}

// Total returns the number of dead symbols found.
func (r *Result) Total() int {
	return len(r.DeadFunctions) + len(r.DeadClasses)
}

// ClassifySnapshot classifies every definition in every eligible file of
// the snapshot. Output order is file walk order, then declaration order
// within a file, so two runs over the same snapshot produce identical
// results. A definition that cannot be read is recorded as a warning and
// skipped; it never aborts the pass.
func ClassifySnapshot(snap *source.Snapshot, filter *policy.Filter) *Result {
	result := &Result{}

	for _, file := range snap.Files() {
		if !filter.ShouldAnalyze(file.Path) {
			continue
		}
		for _, d := range file.Definitions {
			if d == nil || d.Name == "" || d.Source == "" {
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("skipped unreadable definition in %s", file.Path))
				continue
			}
			if Classify(d, filter) != Dead {
				continue
			}
			finding := types.NewFinding(*d)
			switch d.Kind {
			case types.KindClass:
				result.DeadClasses = append(result.DeadClasses, finding)
			default:
				result.DeadFunctions = append(result.DeadFunctions, finding)
			}
			result.Candidates = append(result.Candidates, *d)
		}
	}

	return result
}

// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package removal deletes dead definitions from their owning files.
//
// A batch is transactional per item, not per batch: each candidate ends in
// exactly one of removed, skipped-reexported, or failed, and a failure
// never aborts the remaining items. Already-applied removals are not
// rolled back when a later item fails; partial success is a valid terminal
// state that the outcomes report faithfully.
package removal

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/petar-djukic/go-pruner/pkg/types"
)

// Executor removes definitions from files under Dir. Dir is the snapshot
// root the definitions' file paths are relative to.
type Executor struct {
	Dir string
}

// New creates an Executor rooted at dir.
func New(dir string) *Executor {
	return &Executor{Dir: dir}
}

// Remove processes the candidates and returns one Outcome per item, in
// input order. Files are processed one at a time; within a file, removals
// are applied in reverse position order so earlier byte offsets stay
// valid as later spans are cut out. Cancellation is honored between
// files, never mid-file, so no file is left with half of a multi-item
// edit applied.
func Remove(ctx context.Context, dir string, items []types.Definition) []types.Outcome {
	return New(dir).Remove(ctx, items)
}

// Remove implements the batch contract described on the package-level
// Remove function.
func (e *Executor) Remove(ctx context.Context, items []types.Definition) []types.Outcome {
	outcomes := make([]types.Outcome, len(items))
	for i, d := range items {
		outcomes[i] = types.Outcome{Definition: d, Status: types.StatusFailed, Reason: "not processed"}
	}

	// Group item indices by owning file, preserving first-seen file order.
	var fileOrder []string
	byFile := make(map[string][]int)
	for i, d := range items {
		if _, seen := byFile[d.FilePath]; !seen {
			fileOrder = append(fileOrder, d.FilePath)
		}
		byFile[d.FilePath] = append(byFile[d.FilePath], i)
	}

	for _, path := range fileOrder {
		if err := ctx.Err(); err != nil {
			for _, idx := range byFile[path] {
				outcomes[idx].Status = types.StatusFailed
				outcomes[idx].Reason = fmt.Sprintf("canceled before file was processed: %v", err)
			}
			continue
		}
		e.removeFromFile(path, byFile[path], items, outcomes)
	}

	return outcomes
}

// removeFromFile applies all of a file's removals against one in-memory
// buffer and writes the file once at the end. Items are attempted in
// reverse position order; an item that fails leaves the buffer untouched
// and the remaining items still run.
func (e *Executor) removeFromFile(path string, indices []int, items []types.Definition, outcomes []types.Outcome) {
	absPath := filepath.Join(e.Dir, filepath.FromSlash(path))

	content, err := os.ReadFile(absPath)
	if err != nil {
		for _, idx := range indices {
			outcomes[idx] = failure(items[idx], fmt.Sprintf("reading %s: %v", path, err))
		}
		return
	}

	// Reverse position order keeps precomputed offsets of earlier
	// definitions valid as later spans are deleted.
	ordered := append([]int{}, indices...)
	sort.SliceStable(ordered, func(a, b int) bool {
		return items[ordered[a]].StartByte > items[ordered[b]].StartByte
	})

	buf := string(content)
	removals := 0

	for _, idx := range ordered {
		d := items[idx]

		// Defensive re-validation: classification and removal may be
		// separated by other mutations in the pipeline.
		if d.Exported {
			outcomes[idx] = types.Outcome{Definition: d, Status: types.StatusSkippedExported}
			continue
		}

		sp, ok := locate(buf, d)
		if !ok {
			sim := closestSimilarity(buf, d.Source)
			outcomes[idx] = failure(d, fmt.Sprintf(
				"source text of %s %q no longer matches %s (closest similarity %.2f)",
				d.Kind, d.Name, path, sim))
			continue
		}

		buf = buf[:sp.start] + buf[sp.end:]
		outcomes[idx] = types.Outcome{Definition: d, Status: types.StatusRemoved}
		removals++
	}

	if removals == 0 {
		return
	}

	if err := atomicWrite(absPath, []byte(buf)); err != nil {
		// The write failed for every item we thought we removed.
		for _, idx := range ordered {
			if outcomes[idx].Status == types.StatusRemoved {
				outcomes[idx] = failure(items[idx], fmt.Sprintf("writing %s: %v", path, err))
			}
		}
	}
}

// locate finds the definition's span in the current buffer. The recorded
// byte range is tried first; if the file content drifted, the source text
// is searched for directly.
func locate(buf string, d types.Definition) (span, bool) {
	if d.StartByte >= 0 && d.EndByte <= len(buf) && d.StartByte < d.EndByte &&
		buf[d.StartByte:d.EndByte] == d.Source {
		return span{start: d.StartByte, end: d.EndByte}, true
	}
	return findSpan(buf, d.Source)
}

func failure(d types.Definition, reason string) types.Outcome {
	return types.Outcome{Definition: d, Status: types.StatusFailed, Reason: reason}
}

// atomicWrite writes data to a temp file in the same directory, then
// renames it over the target. Original permissions are preserved.
func atomicWrite(path string, data []byte) error {
	perm := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	dir := filepath.Dir(path)
	f, err := os.CreateTemp(dir, ".go-pruner-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := f.Name()

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package pruner defines the public interface for go-pruner, a dead-code
// detection and removal library.
package pruner

import (
	"context"

	"github.com/petar-djukic/go-pruner/pkg/types"
)

// Config configures a Pruner instance.
type Config struct {
	Token     string   // GitHub token; required only for private clones and PRs
	UserName  string   // Commit author name (PR creation)
	UserEmail string   // Commit author email (PR creation)
	Denylist  []string // Extra path fragments excluded from analysis
}

// Request describes one analysis run.
type Request struct {
	RepoURL  string // GitHub repository to clone and analyze
	LocalDir string // Alternative: analyze a local tree (no clone, no PR)
	CreatePR bool   // Remove dead symbols and open a pull request
	Language string // go, python, javascript, or typescript; empty = detect
}

// Pruner analyzes codebases for dead symbols.
type Pruner interface {
	// Analyze runs the full pipeline: clone (or open the local tree),
	// build a snapshot, classify every definition, and, when requested,
	// remove the dead ones and publish the removal as a pull request.
	// The report is non-nil whenever classification succeeded, even if
	// publishing failed afterward.
	Analyze(ctx context.Context, req Request) (*types.Report, error)
}

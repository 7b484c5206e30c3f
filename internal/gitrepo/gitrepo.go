// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package gitrepo provides the local-git half of change publishing:
// cloning the repository under analysis, branching, committing the
// removal, and pushing the branch.
package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	gogit "github.com/go-git/go-git/v5"
	gogitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
)

// ErrNoGit is returned when the working directory is not a git repository.
var ErrNoGit = errors.New("not a git repository")

// ErrClone is returned when the repository cannot be cloned.
var ErrClone = errors.New("clone failed")

// Config configures git operations. Author identity is an explicit value,
// not process-global git config.
type Config struct {
	WorkDir     string // Repository working directory
	AuthorName  string // Commit author name
	AuthorEmail string // Commit author email
	Token       string // Token for authenticated clone/push; empty for anonymous
}

// Repo wraps a go-git repository for the operations the publisher needs.
type Repo struct {
	repo *gogit.Repository
	cfg  Config
}

// Clone clones url into cfg.WorkDir and returns the opened repository.
func Clone(ctx context.Context, url string, cfg Config) (*Repo, error) {
	r, err := gogit.PlainCloneContext(ctx, cfg.WorkDir, false, &gogit.CloneOptions{
		URL:   url,
		Auth:  cfg.auth(),
		Depth: 0,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrClone, err)
	}
	return &Repo{repo: r, cfg: cfg}, nil
}

// Open opens an existing repository at the configured work directory.
// Returns ErrNoGit if the directory is not a git repository.
func Open(cfg Config) (*Repo, error) {
	r, err := gogit.PlainOpen(cfg.WorkDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoGit, err)
	}
	return &Repo{repo: r, cfg: cfg}, nil
}

// WorkDir returns the repository's working directory.
func (r *Repo) WorkDir() string {
	return r.cfg.WorkDir
}

// CreateBranch creates the named branch at HEAD (if missing) and checks
// it out.
func (r *Repo) CreateBranch(name string) error {
	wt, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("getting worktree: %w", err)
	}

	branchRef := plumbing.NewBranchReferenceName(name)
	err = wt.Checkout(&gogit.CheckoutOptions{Branch: branchRef, Create: true})
	if err == nil {
		return nil
	}

	// The branch may already exist from an earlier run; reuse it.
	if checkoutErr := wt.Checkout(&gogit.CheckoutOptions{Branch: branchRef}); checkoutErr == nil {
		return nil
	}
	return fmt.Errorf("creating branch %s: %w", name, err)
}

// CommitAll stages every change in the working tree and commits it with
// the configured author.
func (r *Repo) CommitAll(message string) error {
	wt, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("getting worktree: %w", err)
	}

	if _, err := wt.Add("."); err != nil {
		return fmt.Errorf("staging changes: %w", err)
	}

	_, err = wt.Commit(message, &gogit.CommitOptions{
		Author: &object.Signature{
			Name:  r.cfg.AuthorName,
			Email: r.cfg.AuthorEmail,
			When:  time.Now(),
		},
	})
	if err != nil {
		return fmt.Errorf("committing: %w", err)
	}
	return nil
}

// Push pushes the named branch to origin.
func (r *Repo) Push(ctx context.Context, branch string) error {
	refSpec := fmt.Sprintf("refs/heads/%s:refs/heads/%s", branch, branch)
	err := r.repo.PushContext(ctx, &gogit.PushOptions{
		RemoteName: "origin",
		RefSpecs:   []gogitconfig.RefSpec{gogitconfig.RefSpec(refSpec)},
		Auth:       r.cfg.auth(),
	})
	if err != nil && !errors.Is(err, gogit.NoErrAlreadyUpToDate) {
		return fmt.Errorf("pushing %s: %w", branch, err)
	}
	return nil
}

// IsDirty returns true if the working tree has uncommitted changes.
func (r *Repo) IsDirty() (bool, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return false, fmt.Errorf("getting worktree: %w", err)
	}
	status, err := wt.Status()
	if err != nil {
		return false, fmt.Errorf("getting status: %w", err)
	}
	return !status.IsClean(), nil
}

// auth builds token auth for HTTPS remotes; nil means anonymous access.
func (c Config) auth() *githttp.BasicAuth {
	if c.Token == "" {
		return nil
	}
	// GitHub accepts any non-empty username with a token password.
	return &githttp.BasicAuth{Username: "x-access-token", Password: c.Token}
}

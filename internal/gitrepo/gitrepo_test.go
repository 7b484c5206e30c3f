// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package gitrepo

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	gogitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_NotARepository(t *testing.T) {
	_, err := Open(Config{WorkDir: t.TempDir()})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoGit))
}

func TestOpen_ExistingRepository(t *testing.T) {
	dir := initTestRepo(t)

	repo, err := Open(Config{WorkDir: dir})
	require.NoError(t, err)
	assert.Equal(t, dir, repo.WorkDir())
}

func TestClone_LocalSource(t *testing.T) {
	src := initTestRepo(t)
	dst := filepath.Join(t.TempDir(), "clone")

	repo, err := Clone(context.Background(), src, Config{WorkDir: dst})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dst, "app.ts"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "function run")
	assert.Equal(t, dst, repo.WorkDir())
}

func TestClone_BadSource(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "clone")
	_, err := Clone(context.Background(), filepath.Join(t.TempDir(), "nope"), Config{WorkDir: dst})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrClone))
}

func TestCreateBranch_NewAndReuse(t *testing.T) {
	dir := initTestRepo(t)
	repo, err := Open(Config{WorkDir: dir})
	require.NoError(t, err)

	require.NoError(t, repo.CreateBranch("chore/remove-dead-code"))

	head, err := repo.repo.Head()
	require.NoError(t, err)
	assert.Equal(t, "refs/heads/chore/remove-dead-code", head.Name().String())

	// A second run against the same clone reuses the branch.
	require.NoError(t, repo.CreateBranch("chore/remove-dead-code"))
}

func TestCommitAll_AndIsDirty(t *testing.T) {
	dir := initTestRepo(t)
	repo, err := Open(Config{
		WorkDir:     dir,
		AuthorName:  "Pruner Bot",
		AuthorEmail: "bot@example.com",
	})
	require.NoError(t, err)

	dirty, err := repo.IsDirty()
	require.NoError(t, err)
	assert.False(t, dirty)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.ts"), []byte("export function run(): void {}\n"), 0o644))

	dirty, err = repo.IsDirty()
	require.NoError(t, err)
	assert.True(t, dirty)

	require.NoError(t, repo.CommitAll("chore: remove dead code"))

	dirty, err = repo.IsDirty()
	require.NoError(t, err)
	assert.False(t, dirty)

	head, err := repo.repo.Head()
	require.NoError(t, err)
	commit, err := repo.repo.CommitObject(head.Hash())
	require.NoError(t, err)
	assert.Equal(t, "chore: remove dead code", commit.Message)
	assert.Equal(t, "Pruner Bot", commit.Author.Name)
}

func TestPush_ToLocalRemote(t *testing.T) {
	bare := t.TempDir()
	_, err := gogit.PlainInit(bare, true)
	require.NoError(t, err)

	dir := initTestRepo(t)
	repo, err := Open(Config{WorkDir: dir, AuthorName: "Pruner Bot", AuthorEmail: "bot@example.com"})
	require.NoError(t, err)

	_, err = repo.repo.CreateRemote(&gogitconfig.RemoteConfig{
		Name: "origin",
		URLs: []string{bare},
	})
	require.NoError(t, err)

	require.NoError(t, repo.CreateBranch("chore/remove-dead-code"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.ts"), []byte("export function run(): void {}\n"), 0o644))
	require.NoError(t, repo.CommitAll("chore: remove dead code"))
	require.NoError(t, repo.Push(context.Background(), "chore/remove-dead-code"))

	// Pushing again with nothing new is not an error.
	require.NoError(t, repo.Push(context.Background(), "chore/remove-dead-code"))

	remote, err := gogit.PlainOpen(bare)
	require.NoError(t, err)
	_, err = remote.Reference("refs/heads/chore/remove-dead-code", true)
	assert.NoError(t, err)
}

// --- Test helpers ---

// initTestRepo creates a git repository with one committed file and
// returns its working directory.
func initTestRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	r, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.ts"),
		[]byte("export function run(): void {}\n\nfunction stale(): void {}\n"), 0o644))

	wt, err := r.Worktree()
	require.NoError(t, err)
	_, err = wt.Add(".")
	require.NoError(t, err)
	_, err = wt.Commit("initial", &gogit.CommitOptions{
		Author: &object.Signature{Name: "Test", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)

	return dir
}

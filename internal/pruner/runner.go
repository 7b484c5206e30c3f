// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package pruner implements the analysis pipeline: clone, load a
// snapshot, classify, and optionally remove dead symbols and publish the
// removal as a pull request.
package pruner

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/petar-djukic/go-pruner/internal/analyzer"
	"github.com/petar-djukic/go-pruner/internal/config"
	"github.com/petar-djukic/go-pruner/internal/gitrepo"
	"github.com/petar-djukic/go-pruner/internal/policy"
	"github.com/petar-djukic/go-pruner/internal/publish"
	"github.com/petar-djukic/go-pruner/internal/removal"
	"github.com/petar-djukic/go-pruner/internal/source"
	"github.com/petar-djukic/go-pruner/pkg/types"
)

// Request describes one analysis run.
type Request struct {
	RepoURL  string // GitHub repository to clone and analyze
	LocalDir string // Alternative: analyze a local tree (no clone, no PR)
	CreatePR bool   // Remove dead symbols and open a pull request
	Language string // Restrict analysis to one language; empty = detect
}

// PROpener abstracts pull-request creation so the pipeline is testable.
type PROpener interface {
	OpenPullRequest(ctx context.Context, ref gitrepo.RepoRef, branch, title, body string) (*types.PullRequest, error)
}

// Deps holds injected dependencies for the runner. Nil fields fall back
// to the real implementations.
type Deps struct {
	Creds  config.Credentials
	Filter *policy.Filter
	Logger *logrus.Logger

	Load  func(ctx context.Context, dir string, cfg source.LoadConfig) (*source.Snapshot, error)
	Clone func(ctx context.Context, url string, cfg gitrepo.Config) (*gitrepo.Repo, error)
	PRs   PROpener
}

// Runner executes analysis requests. One Runner may serve many requests;
// each request works in its own temporary checkout, which is what
// serializes concurrent analyze+remove runs against the same repository.
type Runner struct {
	deps Deps
}

// NewRunner creates a Runner, filling in defaults for nil dependencies.
func NewRunner(deps Deps) *Runner {
	if deps.Filter == nil {
		deps.Filter = policy.New(nil)
	}
	if deps.Logger == nil {
		deps.Logger = logrus.StandardLogger()
	}
	if deps.Load == nil {
		deps.Load = source.Load
	}
	if deps.Clone == nil {
		deps.Clone = gitrepo.Clone
	}
	if deps.PRs == nil {
		deps.PRs = publish.New(publish.Config{Token: deps.Creds.Token})
	}
	return &Runner{deps: deps}
}

// Run executes the pipeline for one request. The returned Report is
// non-nil whenever classification succeeded, even if publishing failed;
// in that case the error wraps publish.ErrPublish and the report carries
// the detail in PublishError.
func (r *Runner) Run(ctx context.Context, req Request) (*types.Report, error) {
	log := r.deps.Logger

	workDir := req.LocalDir
	label := req.LocalDir
	var repo *gitrepo.Repo
	var ref gitrepo.RepoRef

	if req.LocalDir == "" {
		var err error
		ref, err = gitrepo.ParseRepoURL(req.RepoURL)
		if err != nil {
			return nil, err
		}
		label = ref.String()

		tmpDir, err := os.MkdirTemp("", "go-pruner-*")
		if err != nil {
			return nil, fmt.Errorf("creating temp checkout: %w", err)
		}
		defer os.RemoveAll(tmpDir)
		workDir = tmpDir

		log.WithField("repository", label).Info("cloning repository")
		repo, err = r.deps.Clone(ctx, ref.CloneURL(), gitrepo.Config{
			WorkDir:     tmpDir,
			AuthorName:  r.deps.Creds.UserName,
			AuthorEmail: r.deps.Creds.UserEmail,
			Token:       r.deps.Creds.Token,
		})
		if err != nil {
			return nil, err
		}
	}

	lang := req.Language
	if lang == "" {
		lang = source.DetectLanguage(workDir)
	}

	snap, err := r.loadSnapshot(ctx, workDir, lang)
	if err != nil {
		return nil, err
	}

	result := analyzer.ClassifySnapshot(snap, r.deps.Filter)
	log.WithFields(logrus.Fields{
		"repository": label,
		"functions":  len(result.DeadFunctions),
		"classes":    len(result.DeadClasses),
	}).Info("classification complete")

	report := buildReport(label, result)

	if !req.CreatePR || result.Total() == 0 || repo == nil {
		return report, nil
	}

	if err := r.publishRemoval(ctx, repo, ref, lang, result, report); err != nil {
		report.PublishError = err.Error()
		return report, err
	}
	return report, nil
}

// loadSnapshot loads the snapshot, retrying exactly once with the
// degraded configuration when the first load fails. Some inputs are
// analyzable only with tighter limits.
func (r *Runner) loadSnapshot(ctx context.Context, dir, lang string) (*source.Snapshot, error) {
	cfg := source.DefaultLoadConfig()
	cfg.Languages = []string{lang}

	snap, err := r.deps.Load(ctx, dir, cfg)
	if err == nil {
		return snap, nil
	}
	if !errors.Is(err, source.ErrLoad) {
		return nil, err
	}

	r.deps.Logger.WithError(err).Warn("snapshot load failed, retrying with degraded config")
	snap, retryErr := r.deps.Load(ctx, dir, cfg.Degraded())
	if retryErr != nil {
		return nil, retryErr
	}
	return snap, nil
}

// publishRemoval runs branch → remove → commit → push → PR. Every failure
// is a publish failure: it aborts this sub-request but not the analysis
// result the caller already holds.
func (r *Runner) publishRemoval(ctx context.Context, repo *gitrepo.Repo, ref gitrepo.RepoRef, lang string, result *analyzer.Result, report *types.Report) error {
	if err := r.deps.Creds.ValidateForPublish(); err != nil {
		return fmt.Errorf("%w: %v", publish.ErrPublish, err)
	}

	if err := repo.CreateBranch(publish.BranchName); err != nil {
		return fmt.Errorf("%w: %v", publish.ErrPublish, err)
	}

	outcomes := removal.Remove(ctx, repo.WorkDir(), result.Candidates)
	report.Removals = outcomes

	removed := 0
	for _, o := range outcomes {
		if o.Status == types.StatusRemoved {
			removed++
		}
	}
	if removed == 0 {
		return fmt.Errorf("%w: no candidate could be removed", publish.ErrPublish)
	}

	if err := repo.CommitAll(publish.CommitMessage); err != nil {
		return fmt.Errorf("%w: %v", publish.ErrPublish, err)
	}
	if err := repo.Push(ctx, publish.BranchName); err != nil {
		return fmt.Errorf("%w: %v", publish.ErrPublish, err)
	}

	body, err := publish.RenderDescription(publish.DescriptionData{
		Functions: removedFindings(types.KindFunction, outcomes),
		Classes:   removedFindings(types.KindClass, outcomes),
		Lang:      fenceLang(lang),
	})
	if err != nil {
		return fmt.Errorf("%w: %v", publish.ErrPublish, err)
	}

	pr, err := r.deps.PRs.OpenPullRequest(ctx, ref, publish.BranchName, publish.PullRequestTitle, body)
	if err != nil {
		if errors.Is(err, publish.ErrPublish) {
			return err
		}
		return fmt.Errorf("%w: %v", publish.ErrPublish, err)
	}

	report.PullRequest = pr
	return nil
}

// buildReport projects the classification result into the caller-facing
// report. Finding slices are always non-nil so the JSON form carries
// arrays, not nulls.
func buildReport(repository string, result *analyzer.Result) *types.Report {
	report := &types.Report{
		Repository:       repository,
		UnusedFunctions:  []types.Finding{},
		UnusedClasses:    []types.Finding{},
		TotalUnusedItems: result.Total(),
		Warnings:         result.Warnings,
	}
	report.UnusedFunctions = append(report.UnusedFunctions, result.DeadFunctions...)
	report.UnusedClasses = append(report.UnusedClasses, result.DeadClasses...)
	return report
}

// removedFindings projects the outcomes whose removal succeeded into PR
// findings, so the body lists exactly what the commit deletes. Working
// from outcomes rather than the classification keeps same-named
// definitions in one file apart.
func removedFindings(kind types.DefKind, outcomes []types.Outcome) []types.Finding {
	var kept []types.Finding
	for _, o := range outcomes {
		if o.Status == types.StatusRemoved && o.Definition.Kind == kind {
			kept = append(kept, types.NewFinding(o.Definition))
		}
	}
	return kept
}

// fenceLang maps a language name onto a markdown fence label.
func fenceLang(lang string) string {
	switch lang {
	case "go", "python", "javascript", "typescript":
		return lang
	default:
		return "typescript"
	}
}

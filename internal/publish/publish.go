// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package publish turns an applied removal into a reviewable change set:
// a pushed branch and a GitHub pull request. A publish failure is fatal
// to the pull-request sub-request only; the analysis report survives it.
package publish

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/go-github/v62/github"

	"github.com/petar-djukic/go-pruner/internal/gitrepo"
	"github.com/petar-djukic/go-pruner/pkg/types"
)

// ErrPublish wraps any branch/commit/push/PR failure, carrying the
// underlying transport status where one exists.
var ErrPublish = errors.New("publish failed")

const (
	// BranchName is the branch the removal commit lands on.
	BranchName = "chore/remove-dead-code"
	// CommitMessage is the removal commit subject.
	CommitMessage = "chore: remove dead code"
	// PullRequestTitle is the title of the opened pull request.
	PullRequestTitle = "chore: remove dead code"
)

// Config configures the publisher. Credentials are an explicit value
// passed in here; the package keeps no global client state.
type Config struct {
	Token string
}

// Publisher opens pull requests against GitHub.
type Publisher struct {
	client *github.Client
}

// New creates a Publisher. Without a token the client is anonymous, which
// is enough for reads but will fail PR creation with an auth status the
// caller sees inside ErrPublish.
func New(cfg Config) *Publisher {
	if cfg.Token == "" {
		return &Publisher{client: github.NewClient(nil)}
	}
	return &Publisher{client: github.NewTokenClient(context.Background(), cfg.Token)}
}

// OpenPullRequest opens a PR from branch onto the repository's default
// branch and returns its URL and number.
func (p *Publisher) OpenPullRequest(ctx context.Context, ref gitrepo.RepoRef, branch, title, body string) (*types.PullRequest, error) {
	repo, resp, err := p.client.Repositories.Get(ctx, ref.Owner, ref.Name)
	if err != nil {
		return nil, wrapAPIError("resolving default branch", err, resp)
	}
	base := repo.GetDefaultBranch()
	if base == "" {
		base = "main"
	}

	pr, resp, err := p.client.PullRequests.Create(ctx, ref.Owner, ref.Name, &github.NewPullRequest{
		Title: github.String(title),
		Head:  github.String(branch),
		Base:  github.String(base),
		Body:  github.String(body),
	})
	if err != nil {
		return nil, wrapAPIError("creating pull request", err, resp)
	}

	return &types.PullRequest{
		URL:    pr.GetHTMLURL(),
		Number: pr.GetNumber(),
	}, nil
}

// wrapAPIError attaches the transport status to ErrPublish.
func wrapAPIError(op string, err error, resp *github.Response) error {
	if resp != nil {
		switch resp.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: %s: status %d, check GITHUB_TOKEN: %v", ErrPublish, op, resp.StatusCode, err)
		default:
			return fmt.Errorf("%w: %s: status %d: %v", ErrPublish, op, resp.StatusCode, err)
		}
	}
	return fmt.Errorf("%w: %s: %v", ErrPublish, op, err)
}

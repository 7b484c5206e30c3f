// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package gitrepo

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidRepoURL is returned for repository URLs that do not name a
// GitHub owner/repo. Callers surface it as a client error, never a
// server error.
var ErrInvalidRepoURL = errors.New("invalid GitHub repository URL")

// RepoRef identifies a GitHub repository.
type RepoRef struct {
	Owner string
	Name  string
}

// String returns the owner/name form.
func (r RepoRef) String() string {
	return r.Owner + "/" + r.Name
}

// CloneURL returns the HTTPS clone URL.
func (r RepoRef) CloneURL() string {
	return fmt.Sprintf("https://github.com/%s/%s.git", r.Owner, r.Name)
}

var (
	httpsRepoRe = regexp.MustCompile(`^https?://(?:www\.)?github\.com/([^/\s]+)/([^/\s]+?)(?:\.git)?/?$`)
	sshRepoRe   = regexp.MustCompile(`^git@github\.com:([^/\s]+)/([^/\s]+?)(?:\.git)?$`)
)

// ParseRepoURL validates raw as a GitHub repository URL and extracts the
// owner/repo pair. Validation happens before any clone or load attempt:
// a URL missing the owner/repo suffix is rejected here with
// ErrInvalidRepoURL.
func ParseRepoURL(raw string) (RepoRef, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return RepoRef{}, fmt.Errorf("%w: empty URL", ErrInvalidRepoURL)
	}

	if m := httpsRepoRe.FindStringSubmatch(trimmed); m != nil {
		return RepoRef{Owner: m[1], Name: m[2]}, nil
	}
	if m := sshRepoRe.FindStringSubmatch(trimmed); m != nil {
		return RepoRef{Owner: m[1], Name: m[2]}, nil
	}

	return RepoRef{}, fmt.Errorf("%w: %q must name github.com/<owner>/<repo>", ErrInvalidRepoURL, raw)
}

// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package gitrepo

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRepoURL_Valid(t *testing.T) {
	tests := []struct {
		raw   string
		owner string
		name  string
	}{
		{"https://github.com/octocat/hello-world", "octocat", "hello-world"},
		{"https://github.com/octocat/hello-world.git", "octocat", "hello-world"},
		{"https://github.com/octocat/hello-world/", "octocat", "hello-world"},
		{"http://github.com/octocat/hello-world", "octocat", "hello-world"},
		{"https://www.github.com/octocat/hello-world", "octocat", "hello-world"},
		{"git@github.com:octocat/hello-world.git", "octocat", "hello-world"},
		{"  https://github.com/octocat/hello-world  ", "octocat", "hello-world"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			ref, err := ParseRepoURL(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.owner, ref.Owner)
			assert.Equal(t, tt.name, ref.Name)
		})
	}
}

func TestParseRepoURL_Invalid(t *testing.T) {
	tests := []string{
		"",
		"   ",
		"https://github.com",
		"https://github.com/",
		"https://github.com/onlyowner",
		"https://github.com/owner/repo/extra",
		"https://gitlab.com/owner/repo",
		"not a url at all",
		"ftp://github.com/owner/repo",
	}

	for _, raw := range tests {
		t.Run("invalid_"+raw, func(t *testing.T) {
			_, err := ParseRepoURL(raw)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidRepoURL))
		})
	}
}

func TestRepoRef_CloneURL(t *testing.T) {
	ref := RepoRef{Owner: "octocat", Name: "hello-world"}
	assert.Equal(t, "https://github.com/octocat/hello-world.git", ref.CloneURL())
	assert.Equal(t, "octocat/hello-world", ref.String())
}

// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCredentials_FromEnvironment(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "ghp_test")
	t.Setenv("GITHUB_USERNAME", "octocat")
	t.Setenv("GITHUB_EMAIL", "octocat@example.com")

	creds := LoadCredentials()
	assert.Equal(t, "ghp_test", creds.Token)
	assert.Equal(t, "octocat", creds.UserName)
	assert.Equal(t, "octocat@example.com", creds.UserEmail)
}

func TestValidateForPublish(t *testing.T) {
	full := Credentials{Token: "t", UserName: "u", UserEmail: "e"}
	assert.NoError(t, full.ValidateForPublish())

	err := Credentials{UserName: "u", UserEmail: "e"}.ValidateForPublish()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GITHUB_TOKEN")
	assert.NotContains(t, err.Error(), "GITHUB_USERNAME")

	err = Credentials{}.ValidateForPublish()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GITHUB_TOKEN")
	assert.Contains(t, err.Error(), "GITHUB_USERNAME")
	assert.Contains(t, err.Error(), "GITHUB_EMAIL")
}

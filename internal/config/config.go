// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package config loads GitHub credentials from the environment, with an
// optional .env file. Credentials travel as an explicit value into the
// components that need them; there is no process-wide credential state.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Credentials holds the GitHub identity used for commits and pull
// requests.
type Credentials struct {
	Token     string // GITHUB_TOKEN
	UserName  string // GITHUB_USERNAME
	UserEmail string // GITHUB_EMAIL
}

// LoadCredentials reads credentials from the environment. A .env file in
// the working directory is merged in first when present; a missing .env
// is not an error.
func LoadCredentials() Credentials {
	_ = godotenv.Load()
	return Credentials{
		Token:     os.Getenv("GITHUB_TOKEN"),
		UserName:  os.Getenv("GITHUB_USERNAME"),
		UserEmail: os.Getenv("GITHUB_EMAIL"),
	}
}

// ValidateForPublish checks that everything PR creation needs is present.
// Analysis without publishing works with empty credentials (public
// repositories clone anonymously).
func (c Credentials) ValidateForPublish() error {
	var missing []string
	if c.Token == "" {
		missing = append(missing, "GITHUB_TOKEN")
	}
	if c.UserName == "" {
		missing = append(missing, "GITHUB_USERNAME")
	}
	if c.UserEmail == "" {
		missing = append(missing, "GITHUB_EMAIL")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}

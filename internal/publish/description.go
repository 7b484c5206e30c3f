// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package publish

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"

	"github.com/petar-djukic/go-pruner/pkg/types"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// DescriptionData holds the values injected into the PR body template.
type DescriptionData struct {
	Functions []types.Finding
	Classes   []types.Finding
	Lang      string // Fence language for the removed source blocks
}

// RenderDescription renders the pull-request body: every removed function
// and class with its source in a fenced code block.
func RenderDescription(data DescriptionData) (string, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/pr_body.tmpl")
	if err != nil {
		return "", fmt.Errorf("parsing PR body template: %w", err)
	}

	if data.Lang == "" {
		data.Lang = "typescript"
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing PR body template: %w", err)
	}
	return buf.String(), nil
}

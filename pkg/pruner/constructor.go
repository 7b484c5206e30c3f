// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package pruner

import (
	"context"

	"github.com/petar-djukic/go-pruner/internal/config"
	"github.com/petar-djukic/go-pruner/internal/policy"
	internalpruner "github.com/petar-djukic/go-pruner/internal/pruner"
	"github.com/petar-djukic/go-pruner/pkg/types"
)

// New creates a ready-to-use Pruner. Nothing is cloned or parsed until
// Analyze runs.
func New(cfg Config) Pruner {
	runner := internalpruner.NewRunner(internalpruner.Deps{
		Creds: config.Credentials{
			Token:     cfg.Token,
			UserName:  cfg.UserName,
			UserEmail: cfg.UserEmail,
		},
		Filter: policy.New(cfg.Denylist),
	})
	return &prunerAdapter{runner: runner}
}

// prunerAdapter adapts internal/pruner.Runner to the public interface.
type prunerAdapter struct {
	runner *internalpruner.Runner
}

func (a *prunerAdapter) Analyze(ctx context.Context, req Request) (*types.Report, error) {
	return a.runner.Run(ctx, internalpruner.Request{
		RepoURL:  req.RepoURL,
		LocalDir: req.LocalDir,
		CreatePR: req.CreatePR,
		Language: req.Language,
	})
}

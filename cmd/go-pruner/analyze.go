// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/petar-djukic/go-pruner/internal/config"
	"github.com/petar-djukic/go-pruner/pkg/pruner"
)

// newAnalyzeCmd creates the "analyze" command.
func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze a repository for dead code",
		Long:  "Analyze clones a GitHub repository (or reads a local directory), classifies every function and class definition, and reports the dead ones. With --create-pr it also removes them on a branch and opens a pull request.",
		RunE:  runAnalyze,
	}

	cmd.Flags().StringP("repo", "r", "", "GitHub repository URL")
	cmd.Flags().StringP("dir", "d", "", "Local directory to analyze instead of cloning")
	cmd.Flags().Bool("create-pr", false, "Remove dead code and open a pull request")

	return cmd
}

// runAnalyze executes one analysis and prints the report as JSON.
func runAnalyze(cmd *cobra.Command, args []string) error {
	repoURL, _ := cmd.Flags().GetString("repo")
	localDir, _ := cmd.Flags().GetString("dir")
	createPR, _ := cmd.Flags().GetBool("create-pr")

	if repoURL == "" && localDir == "" {
		return fmt.Errorf("one of --repo or --dir is required")
	}

	creds := config.LoadCredentials()
	if createPR {
		if err := creds.ValidateForPublish(); err != nil {
			return err
		}
	}

	p := pruner.New(pruner.Config{
		Token:     creds.Token,
		UserName:  creds.UserName,
		UserEmail: creds.UserEmail,
		Denylist:  viper.GetStringSlice("deny"),
	})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	report, err := p.Analyze(ctx, pruner.Request{
		RepoURL:  repoURL,
		LocalDir: localDir,
		CreatePR: createPR,
		Language: viper.GetString("language"),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if report == nil {
			return err
		}
		// The analysis still produced a report; print it alongside the error.
	}

	out, merr := json.MarshalIndent(report, "", "  ")
	if merr != nil {
		return fmt.Errorf("marshaling report: %w", merr)
	}
	fmt.Println(string(out))
	return err
}

// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/petar-djukic/go-pruner/internal/filescope"
)

// newCheckCmd creates the "check" command, the single-file heuristic
// walker. Its findings are file-local signals, not removal candidates.
func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [path]",
		Short: "Heuristic per-file unused-name check for Go sources",
		Long:  "Check walks Go files and reports names that are defined but never used within the same file. This is a file-local heuristic and is never used as a basis for removal.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var reports []*filescope.Report

			err := filepath.WalkDir(args[0], func(path string, d fs.DirEntry, err error) error {
				if err != nil {
					return nil
				}
				if d.IsDir() {
					name := d.Name()
					if name == ".git" || name == "vendor" || name == "node_modules" {
						return filepath.SkipDir
					}
					return nil
				}
				if !strings.HasSuffix(path, ".go") {
					return nil
				}
				report, aerr := filescope.AnalyzeFile(path)
				if aerr != nil {
					return nil // Unparseable files are skipped.
				}
				if len(report.UnusedFunctions) > 0 || len(report.UnusedVariables) > 0 || report.Suppressed {
					reports = append(reports, report)
				}
				return nil
			})
			if err != nil {
				return err
			}

			out, merr := json.MarshalIndent(reports, "", "  ")
			if merr != nil {
				return merr
			}
			fmt.Println(string(out))
			return nil
		},
	}
}

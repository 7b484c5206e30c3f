// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package filescope approximates liveness with a per-file syntax walk:
// functions defined but never called by name, and variables assigned but
// never read, within one file only.
//
// This is strictly weaker than the snapshot analyzer, which resolves
// usages across files. It cannot see callers in other files, so its
// findings are a labeled signal for single-file codebases, never a basis
// for removal across a multi-file project.
package filescope

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"sort"
	"strings"

	"golang.org/x/tools/go/ast/astutil"
)

// suppressMarkers are path fragments near which name-based liveness is
// unreliable: tests and HTTP route registration reach symbols through a
// framework's dispatch rather than a direct call, which the walker cannot
// see. Proximity to those markers stands in for the missing evidence.
var suppressMarkers = []string{"test", "routes"}

// Report holds the per-file findings. Heuristic is always true: these are
// signals, not proofs.
type Report struct {
	FilePath        string   `json:"file_path"`
	UnusedFunctions []string `json:"unused_functions"`
	UnusedVariables []string `json:"unused_variables"`
	Suppressed      bool     `json:"suppressed"` // Function findings dropped by path marker
	Heuristic       bool     `json:"heuristic"`
}

// AnalyzeFile parses the Go file at path and reports file-local unused
// names.
func AnalyzeFile(path string) (*Report, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return Analyze(content, path)
}

// Analyze walks one parsed file and computes defined−called for functions
// and assigned−read for variables.
func Analyze(src []byte, path string) (*Report, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, src, parser.SkipObjectResolution)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	defined := make(map[string]bool)
	called := make(map[string]bool)
	assigned := make(map[string]bool)
	read := make(map[string]bool)

	astutil.Apply(file, func(c *astutil.Cursor) bool {
		switch n := c.Node().(type) {
		case *ast.FuncDecl:
			if n.Recv == nil && n.Name.Name != "main" && n.Name.Name != "init" {
				defined[n.Name.Name] = true
			}
		case *ast.CallExpr:
			switch fun := n.Fun.(type) {
			case *ast.Ident:
				called[fun.Name] = true
			case *ast.SelectorExpr:
				called[fun.Sel.Name] = true
			}
		case *ast.AssignStmt:
			for _, lhs := range n.Lhs {
				if id, ok := lhs.(*ast.Ident); ok && id.Name != "_" {
					assigned[id.Name] = true
				}
			}
		case *ast.ValueSpec:
			for _, id := range n.Names {
				if id.Name != "_" {
					assigned[id.Name] = true
				}
			}
		case *ast.Ident:
			if isStoreContext(c) {
				return true
			}
			read[n.Name] = true
		}
		return true
	}, nil)

	report := &Report{FilePath: path, Heuristic: true}
	report.UnusedFunctions = subtract(defined, called)
	report.UnusedVariables = subtract(assigned, read)

	if suppressed(path) {
		report.UnusedFunctions = nil
		report.Suppressed = true
	}

	return report, nil
}

// isStoreContext reports whether the cursor's identifier introduces or
// stores a name rather than reading one.
func isStoreContext(c *astutil.Cursor) bool {
	switch parent := c.Parent().(type) {
	case *ast.AssignStmt:
		return c.Name() == "Lhs"
	case *ast.ValueSpec:
		return c.Name() == "Names"
	case *ast.FuncDecl:
		return c.Name() == "Name"
	case *ast.Field:
		return c.Name() == "Names"
	case *ast.TypeSpec:
		return parent.Name == c.Node()
	case *ast.ImportSpec:
		return true
	}
	return false
}

// suppressed reports whether the file path carries a marker that makes
// name-based liveness untrustworthy.
func suppressed(path string) bool {
	lower := strings.ToLower(path)
	for _, m := range suppressMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

// subtract returns the sorted names present in a but not in b.
func subtract(a, b map[string]bool) []string {
	var result []string
	for name := range a {
		if !b[name] {
			result = append(result, name)
		}
	}
	sort.Strings(result)
	return result
}

// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/petar-djukic/go-pruner/pkg/types"
)

// ErrLoad is returned when a snapshot cannot be built at all. Per-file
// parse failures never produce it; those files are skipped instead.
var ErrLoad = errors.New("snapshot load failed")

const (
	defaultMaxFileSize   = 1_000_000
	degradedMaxFileSize  = 500_000
	defaultMaxTotalBytes = 64 << 20
)

// defaultSkipDirs are directory names never descended into, whatever the
// policy filter says. These trees are huge and never part of the codebase
// proper.
var defaultSkipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"vendor":       true,
	".next":        true,
	"dist":         true,
	"build":        true,
}

// LoadConfig controls snapshot construction. The orchestrator retries a
// failed load exactly once with the Degraded variant, since some inputs
// are analyzable only with tighter limits.
type LoadConfig struct {
	MaxFileSize    int64    // Per-file byte cap; larger files are skipped
	MaxTotalBytes  int64    // Whole-snapshot byte cap; exceeding it fails the load
	IgnorePatterns []string // Extra path fragments skipped at load time
	Languages      []string // Restrict to these languages; empty means all
}

// DefaultLoadConfig returns the standard limits.
func DefaultLoadConfig() LoadConfig {
	return LoadConfig{
		MaxFileSize:   defaultMaxFileSize,
		MaxTotalBytes: defaultMaxTotalBytes,
	}
}

// Degraded returns a more restrictive copy of the config: half the file
// size cap and test/e2e trees excluded from parsing entirely. Usage data
// from those trees is lost, which is why this mode is only a retry
// fallback and not the default.
func (c LoadConfig) Degraded() LoadConfig {
	d := c
	d.MaxFileSize = degradedMaxFileSize
	if d.MaxFileSize > c.MaxFileSize && c.MaxFileSize > 0 {
		d.MaxFileSize = c.MaxFileSize / 2
	}
	d.IgnorePatterns = append(append([]string{}, c.IgnorePatterns...),
		".test.", ".spec.", "tests/", "e2e/")
	return d
}

// reference is one identifier read site: a (file, byte offset) pair with
// the name it mentions.
type reference struct {
	name string
	path string
	start int
}

// Load walks dir, parses every supported file, and resolves cross-file
// usage counts. Individual files that exceed MaxFileSize or fail to parse
// are skipped; only a failed walk or an oversized codebase fail the load.
func Load(ctx context.Context, dir string, cfg LoadConfig) (*Snapshot, error) {
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = defaultMaxFileSize
	}
	if cfg.MaxTotalBytes <= 0 {
		cfg.MaxTotalBytes = defaultMaxTotalBytes
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: resolving %s: %v", ErrLoad, dir, err)
	}
	info, err := os.Stat(absDir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a readable directory", ErrLoad, dir)
	}

	allowed := allowedExtensions(cfg.Languages)

	snap := &Snapshot{Dir: absDir}
	var refs []reference
	defNameSites := make(map[string]bool) // "path:offset" of definition name tokens
	var totalBytes int64

	err = filepath.Walk(absDir, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return nil // Skip entries we cannot stat.
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		relPath, relErr := filepath.Rel(absDir, path)
		if relErr != nil {
			relPath = path
		}
		relPath = filepath.ToSlash(relPath)

		if info.IsDir() {
			if defaultSkipDirs[filepath.Base(path)] && path != absDir {
				return filepath.SkipDir
			}
			return nil
		}

		ext := filepath.Ext(path)
		spec, ok := langSpecs[ext]
		if !ok || !allowed[ext] {
			return nil
		}
		if ignored(relPath, cfg.IgnorePatterns) {
			return nil
		}
		if info.Size() > cfg.MaxFileSize {
			return nil
		}

		totalBytes += info.Size()
		if totalBytes > cfg.MaxTotalBytes {
			return fmt.Errorf("codebase exceeds %d bytes", cfg.MaxTotalBytes)
		}

		content, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil
		}

		file, fileRefs, parseErr := parseFile(ctx, content, relPath, spec, defNameSites)
		if parseErr != nil {
			return nil // Unparseable files are out of scope, not fatal.
		}

		snap.files = append(snap.files, file)
		refs = append(refs, fileRefs...)
		return nil
	})
	if err != nil {
		// A canceled request is not a failed load; surfacing it as
		// ErrLoad would trigger the caller's degraded retry.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", ErrLoad, err)
	}

	resolveUsages(snap.files, refs, defNameSites)
	return snap, nil
}

// parseFile parses one file, collecting its definitions and the identifier
// reads it contains.
func parseFile(ctx context.Context, content []byte, relPath string, spec *langSpec, defNameSites map[string]bool) (*SourceFile, []reference, error) {
	root, err := sitter.ParseCtx(ctx, content, spec.lang)
	if err != nil || root == nil {
		return nil, nil, fmt.Errorf("parsing %s: %w", relPath, err)
	}

	fc := &fileContext{content: content, root: root}
	if spec.name == "python" {
		fc.allList = parseAllList(content)
	}

	file := &SourceFile{Path: relPath, Content: content}
	file.Definitions = collectDefinitions(spec, fc, relPath, defNameSites)
	sortDefinitions(file.Definitions)

	refs := collectReferences(spec, root, content, relPath)
	return file, refs, nil
}

// collectDefinitions runs the definition query and builds Definitions with
// their exact byte spans and export flags.
func collectDefinitions(spec *langSpec, fc *fileContext, relPath string, defNameSites map[string]bool) []*types.Definition {
	q, err := sitter.NewQuery([]byte(spec.defQ), spec.lang)
	if err != nil {
		return nil
	}
	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(q, fc.root)

	seen := make(map[string]bool)
	var defs []*types.Definition

	for {
		m, ok := qc.NextMatch()
		if !ok {
			break
		}

		var defNode, nameNode *sitter.Node
		for _, c := range m.Captures {
			switch q.CaptureNameForId(c.Index) {
			case "def":
				defNode = c.Node
			case "name":
				nameNode = c.Node
			}
		}
		if defNode == nil || nameNode == nil {
			continue
		}
		if skipDefinition(defNode) {
			continue
		}

		node := effectiveDefNode(defNode)
		name := nameNode.Content(fc.content)
		start := int(node.StartByte())
		end := int(node.EndByte())
		if name == "" || end > len(fc.content) {
			continue
		}

		key := fmt.Sprintf("%d:%d:%s", start, end, name)
		if seen[key] {
			continue
		}
		seen[key] = true
		defNameSites[refKey(relPath, int(nameNode.StartByte()))] = true

		defs = append(defs, &types.Definition{
			Name:      name,
			Kind:      defKinds[defNode.Type()],
			FilePath:  relPath,
			StartByte: start,
			EndByte:   end,
			Source:    string(fc.content[start:end]),
			Exported:  spec.exported(fc, defNode, name),
		})
	}

	return defs
}

// skipDefinition rejects definition nodes whose removal span would take
// sibling declarations with it. Today that is only a grouped Go type
// block: `type ( A ...; B ... )`.
func skipDefinition(def *sitter.Node) bool {
	if def.Type() != "type_declaration" {
		return false
	}
	specs := 0
	for i := 0; i < int(def.NamedChildCount()); i++ {
		if def.NamedChild(i).Type() == "type_spec" {
			specs++
		}
	}
	return specs > 1
}

// collectReferences runs the reference query and records every identifier
// read site.
func collectReferences(spec *langSpec, root *sitter.Node, content []byte, relPath string) []reference {
	if spec.refQ == "" {
		return nil
	}
	q, err := sitter.NewQuery([]byte(spec.refQ), spec.lang)
	if err != nil {
		return nil
	}
	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(q, root)

	var refs []reference
	for {
		m, ok := qc.NextMatch()
		if !ok {
			break
		}
		for _, c := range m.Captures {
			name := c.Node.Content(content)
			if name == "" {
				continue
			}
			refs = append(refs, reference{
				name:  name,
				path:  relPath,
				start: int(c.Node.StartByte()),
			})
		}
	}
	return refs
}

// allowedExtensions expands the language restriction into an extension set.
func allowedExtensions(languages []string) map[string]bool {
	allowed := make(map[string]bool)
	if len(languages) == 0 {
		for ext := range langSpecs {
			allowed[ext] = true
		}
		return allowed
	}
	want := make(map[string]bool, len(languages))
	for _, lang := range languages {
		want[strings.ToLower(lang)] = true
	}
	for ext, lang := range extLanguages {
		if want[lang] {
			allowed[ext] = true
		}
	}
	return allowed
}

func ignored(relPath string, patterns []string) bool {
	for _, p := range patterns {
		if p != "" && strings.Contains(relPath, p) {
			return true
		}
	}
	return false
}

func refKey(path string, offset int) string {
	return fmt.Sprintf("%s:%d", path, offset)
}

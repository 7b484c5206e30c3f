// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package source

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/petar-djukic/go-pruner/pkg/types"
)

// langSpec holds the tree-sitter language, query patterns, and export rule
// for a file type. defQ captures each definition node as @def and its name
// as @name; refQ captures identifier reads as @ref.
type langSpec struct {
	name     string
	lang     *sitter.Language
	defQ     string
	refQ     string
	exported func(fc *fileContext, def *sitter.Node, name string) bool
}

// fileContext carries per-file state the export rules need.
type fileContext struct {
	content []byte
	root    *sitter.Node
	allList map[string]bool // Python __all__ entries; nil when the file has no __all__
}

// defKinds maps tree-sitter definition node types onto the two engine kinds.
// All engine logic is kind-agnostic; the kind only matters for reporting.
var defKinds = map[string]types.DefKind{
	"function_declaration":  types.KindFunction,
	"method_declaration":    types.KindFunction,
	"function_definition":   types.KindFunction,
	"class_declaration":     types.KindClass,
	"class_definition":      types.KindClass,
	"type_declaration":      types.KindClass,
	"interface_declaration": types.KindClass,
}

// extLanguages maps file extensions to language names, used for language
// detection and the per-request language restriction.
var extLanguages = map[string]string{
	".go":  "go",
	".py":  "python",
	".js":  "javascript",
	".jsx": "javascript",
	".ts":  "typescript",
	".tsx": "typescript",
}

var langSpecs = map[string]*langSpec{
	".go": {
		name: "go",
		lang: golang.GetLanguage(),
		defQ: `
			(function_declaration name: (identifier) @name) @def
			(method_declaration name: (field_identifier) @name) @def
			(type_declaration (type_spec name: (type_identifier) @name)) @def
		`,
		refQ: `
			(identifier) @ref
			(field_identifier) @ref
			(type_identifier) @ref
		`,
		exported: goExported,
	},
	".py": {
		name: "python",
		lang: python.GetLanguage(),
		defQ: `
			(function_definition name: (identifier) @name) @def
			(class_definition name: (identifier) @name) @def
		`,
		refQ: `
			(identifier) @ref
		`,
		exported: pythonExported,
	},
	".js": {
		name: "javascript",
		lang: javascript.GetLanguage(),
		defQ: `
			(function_declaration name: (identifier) @name) @def
			(class_declaration name: (identifier) @name) @def
		`,
		refQ: `
			(identifier) @ref
		`,
		exported: ecmaExported,
	},
	".ts": {
		name: "typescript",
		lang: typescript.GetLanguage(),
		defQ: `
			(function_declaration name: (identifier) @name) @def
			(class_declaration name: (type_identifier) @name) @def
			(interface_declaration name: (type_identifier) @name) @def
		`,
		refQ: `
			(identifier) @ref
			(type_identifier) @ref
		`,
		exported: ecmaExported,
	},
	".tsx": {
		name: "typescript",
		lang: tsx.GetLanguage(),
		defQ: `
			(function_declaration name: (identifier) @name) @def
			(class_declaration name: (type_identifier) @name) @def
			(interface_declaration name: (type_identifier) @name) @def
		`,
		refQ: `
			(identifier) @ref
			(type_identifier) @ref
		`,
		exported: ecmaExported,
	},
}

func init() {
	langSpecs[".jsx"] = langSpecs[".js"]
}

// goExported follows Go visibility: an uppercase first letter makes the
// symbol reachable from other packages.
func goExported(_ *fileContext, _ *sitter.Node, name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return unicode.IsUpper(r)
}

// pythonExported treats a symbol as public surface when it is listed in
// the file's __all__, or, absent an __all__, when it is a top-level
// definition without a leading underscore.
func pythonExported(fc *fileContext, def *sitter.Node, name string) bool {
	if fc.allList != nil {
		return fc.allList[name]
	}
	if strings.HasPrefix(name, "_") {
		return false
	}
	return isTopLevel(def)
}

// ecmaExported reports whether the definition sits under an export
// statement (covers `export function f`, `export default class C`, and
// re-export of the declaration itself).
func ecmaExported(_ *fileContext, def *sitter.Node, _ string) bool {
	for n := def.Parent(); n != nil; n = n.Parent() {
		if n.Type() == "export_statement" {
			return true
		}
	}
	return false
}

// isTopLevel reports whether the definition's effective node is a direct
// child of the module root.
func isTopLevel(def *sitter.Node) bool {
	n := effectiveDefNode(def)
	parent := n.Parent()
	return parent != nil && parent.Parent() == nil
}

// effectiveDefNode widens a Python definition to include its decorators,
// so removal deletes the decorator lines along with the body.
func effectiveDefNode(def *sitter.Node) *sitter.Node {
	if p := def.Parent(); p != nil && p.Type() == "decorated_definition" {
		return p
	}
	return def
}

var allRe = regexp.MustCompile(`__all__\s*(?::[^=\n]+)?=\s*[\[\(]([^\]\)]*)[\]\)]`)
var allEntryRe = regexp.MustCompile(`["']([^"']+)["']`)

// parseAllList extracts the names listed in a Python file's __all__.
// Returns nil when the file declares no __all__.
func parseAllList(content []byte) map[string]bool {
	m := allRe.FindSubmatch(content)
	if m == nil {
		return nil
	}
	names := make(map[string]bool)
	for _, entry := range allEntryRe.FindAllSubmatch(m[1], -1) {
		names[string(entry[1])] = true
	}
	return names
}

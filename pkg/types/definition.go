// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package types defines shared types used across go-pruner packages.
package types

import "encoding/json"

// DefKind identifies the category of a symbol definition.
type DefKind int

const (
	KindFunction DefKind = iota // Function or method definition
	KindClass                   // Class, struct, or interface definition
)

// String returns the human-readable name of the definition kind.
func (k DefKind) String() string {
	switch k {
	case KindFunction:
		return "function"
	case KindClass:
		return "class"
	default:
		return "unknown"
	}
}

// MarshalJSON renders the kind as its string name.
func (k DefKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON parses the string name back into a kind.
func (k *DefKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "class":
		*k = KindClass
	default:
		*k = KindFunction
	}
	return nil
}

// Definition represents one function or class extracted from a source file.
// Uniqueness is per (FilePath, Name, Kind); names may repeat across files.
//
// StartByte and EndByte are offsets into the owning file's content as it
// was at snapshot time. Any edit to the file invalidates them.
type Definition struct {
	Name      string  `json:"name"`
	Kind      DefKind `json:"kind"`
	FilePath  string  `json:"filepath"` // Relative to the snapshot root
	StartByte int     `json:"-"`
	EndByte   int     `json:"-"`
	Source    string  `json:"source"`   // Exact source text of the definition
	Exported  bool    `json:"exported"` // Part of the file's public surface
	Usages    int     `json:"usages"`   // Reference sites outside the definition itself
}

// Finding is the reporting-only projection of a removal-eligible Definition.
type Finding struct {
	Name     string  `json:"name"`
	Kind     DefKind `json:"kind"`
	FilePath string  `json:"filepath"`
	Source   string  `json:"source"`
}

// NewFinding projects a Definition into a Finding.
func NewFinding(d Definition) Finding {
	return Finding{
		Name:     d.Name,
		Kind:     d.Kind,
		FilePath: d.FilePath,
		Source:   d.Source,
	}
}

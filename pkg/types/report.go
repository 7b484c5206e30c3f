// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package types

import "encoding/json"

// OutcomeStatus is the terminal state of one removal attempt.
type OutcomeStatus int

const (
	StatusRemoved         OutcomeStatus = iota // Definition deleted from its file
	StatusSkippedExported                      // Export re-check failed; file untouched
	StatusFailed                               // Removal failed; see Outcome.Reason
)

// String returns the wire name of the status.
func (s OutcomeStatus) String() string {
	switch s {
	case StatusRemoved:
		return "removed"
	case StatusSkippedExported:
		return "skipped-reexported"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// MarshalJSON renders the status as its string name.
func (s OutcomeStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON parses the wire name back into a status.
func (s *OutcomeStatus) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	switch name {
	case "skipped-reexported":
		*s = StatusSkippedExported
	case "failed":
		*s = StatusFailed
	default:
		*s = StatusRemoved
	}
	return nil
}

// Outcome is the per-item result of a removal batch. A failed item never
// aborts the batch; every candidate ends in exactly one of the three states.
type Outcome struct {
	Definition Definition    `json:"definition"`
	Status     OutcomeStatus `json:"status"`
	Reason     string        `json:"reason,omitempty"`
}

// PullRequest identifies a published change set.
type PullRequest struct {
	URL    string `json:"url"`
	Number int    `json:"number"`
}

// Report is the result surface returned to callers. It always carries
// whatever findings were computed, even when later steps failed; failures
// of individual symbols or of the publish step show up in Warnings,
// Removals, and PublishError rather than replacing the findings.
type Report struct {
	Repository       string       `json:"repository"`
	UnusedFunctions  []Finding    `json:"unused_functions"`
	UnusedClasses    []Finding    `json:"unused_classes"`
	TotalUnusedItems int          `json:"total_unused_items"`
	Removals         []Outcome    `json:"removals,omitempty"`
	PullRequest      *PullRequest `json:"pull_request,omitempty"`
	PublishError     string       `json:"publish_error,omitempty"`
	Warnings         []string     `json:"warnings,omitempty"`
}

// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package removal

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// span is a half-open byte range into file content.
type span struct {
	start, end int
}

// findSpan locates the search text in content. It tries an exact substring
// match first, then a whitespace-normalized line match. Deletion is not a
// place for fuzzy edits: when the text cannot be pinned down exactly, the
// item fails and closestSimilarity only feeds the failure reason.
//
// An exact match that occurs more than once is treated as not found; the
// caller cannot know which occurrence is the candidate.
func findSpan(content, search string) (span, bool) {
	if search == "" {
		return span{}, false
	}

	if idx := strings.Index(content, search); idx >= 0 {
		if strings.Index(content[idx+1:], search) >= 0 {
			return span{}, false // Ambiguous.
		}
		return span{start: idx, end: idx + len(search)}, true
	}

	return whitespaceNormalizedSpan(content, search)
}

// whitespaceNormalizedSpan compares line windows after trimming and
// collapsing whitespace, then maps the match back to original byte
// offsets. The returned span covers whole lines, without the trailing
// newline of the last line.
func whitespaceNormalizedSpan(content, search string) (span, bool) {
	searchLines := normalizeLines(search)
	if len(searchLines) == 0 {
		return span{}, false
	}

	contentLines := strings.Split(content, "\n")
	normContent := make([]string, len(contentLines))
	for i, line := range contentLines {
		normContent[i] = collapseSpaces(strings.TrimSpace(line))
	}

	searchLen := len(searchLines)
	found := -1
	for i := 0; i+searchLen <= len(normContent); i++ {
		match := true
		for j := 0; j < searchLen; j++ {
			if normContent[i+j] != searchLines[j] {
				match = false
				break
			}
		}
		if match {
			if found >= 0 {
				return span{}, false // Ambiguous.
			}
			found = i
		}
	}
	if found < 0 {
		return span{}, false
	}

	start := byteOffsetOfLine(contentLines, found)
	end := byteOffsetOfLine(contentLines, found+searchLen)
	// When the window ends on the file's last line there is no terminating
	// newline to count; clamp before stripping it.
	if end > len(content) {
		end = len(content)
	}
	if end > start && content[end-1] == '\n' {
		end--
	}
	return span{start: start, end: end}, true
}

// closestSimilarity reports how close the best line window in content is
// to the search text, for failure diagnostics.
func closestSimilarity(content, search string) float64 {
	if search == "" || content == "" {
		return 0
	}

	contentLines := strings.Split(content, "\n")
	searchLines := strings.Split(search, "\n")
	searchLen := len(searchLines)
	if searchLen > len(contentLines) {
		searchLen = len(contentLines)
	}

	var best float64
	for i := 0; i+searchLen <= len(contentLines); i++ {
		candidate := strings.Join(contentLines[i:i+searchLen], "\n")
		if s := similarity(candidate, search); s > best {
			best = s
		}
	}
	return best
}

// similarity is the Levenshtein-based ratio between two strings, via the
// go-diff library. 1.0 means identical.
func similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(a, b, false)
	distance := dmp.DiffLevenshtein(diffs)
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	return 1.0 - float64(distance)/float64(maxLen)
}

// normalizeLines splits text into trimmed, space-collapsed lines, dropping
// the empty tail a terminal newline produces.
func normalizeLines(s string) []string {
	lines := strings.Split(s, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	result := make([]string, len(lines))
	for i, line := range lines {
		result[i] = collapseSpaces(strings.TrimSpace(line))
	}
	return result
}

// collapseSpaces reduces runs of spaces and tabs to a single space.
func collapseSpaces(s string) string {
	var b strings.Builder
	inSpace := false
	for _, r := range s {
		if r == ' ' || r == '\t' {
			if !inSpace {
				b.WriteByte(' ')
				inSpace = true
			}
			continue
		}
		inSpace = false
		b.WriteRune(r)
	}
	return b.String()
}

// byteOffsetOfLine returns the byte offset of the start of line i in the
// joined representation of lines.
func byteOffsetOfLine(lines []string, i int) int {
	offset := 0
	for j := 0; j < i && j < len(lines); j++ {
		offset += len(lines[j]) + 1 // +1 for the newline
	}
	return offset
}

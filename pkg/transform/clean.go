// Package transform turns raw chapter dumps (copied or scraped from the
// publisher's reader) into the markdown pages listed by the guide sidebar.
package transform

import (
	"regexp"
	"strings"
)

const (
	skipToContent     = "Skip to Content"
	earlyReleaseTitle = "A Note for Early Release Readers"

	// A line longer than this ends the early release note: the note itself is
	// a handful of short lines, real chapter prose comes in long paragraphs.
	earlyReleaseEnd = 150

	// Reader chrome (footnotes, navigation) only appears in the tail of a dump.
	footerTail = 0.92
)

var footerHeadings = map[string]bool{
	"Footnotes":  true,
	"References": true,
}

// Clean drops the reader chrome from a raw chapter dump: the "Skip to
// Content" link, the early release note, the trailing footnotes and
// navigation, and inline citation markers.
func Clean(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	tail := float64(len(lines)) * footerTail
	inNote := false

	for i, line := range lines {
		if strings.Contains(line, skipToContent) {
			continue
		}
		if strings.Contains(line, earlyReleaseTitle) {
			inNote = true
			continue
		}
		if inNote {
			if strings.TrimSpace(line) == "" || len(line) <= earlyReleaseEnd {
				continue
			}
			inNote = false
		}
		if float64(i) > tail && isFooterStart(line) {
			break
		}
		out = append(out, StripCitations(line))
	}
	return strings.Join(out, "\n")
}

func isFooterStart(line string) bool {
	if footerHeadings[strings.TrimSpace(line)] {
		return true
	}
	lower := strings.ToLower(line)
	return strings.Contains(lower, "table of contents") ||
		strings.Contains(line, "Previous chapter") ||
		strings.Contains(line, "Next chapter")
}

var citationRe = regexp.MustCompile(`\s*\[\d+(?:,\s*\d+)*\]`)

// StripCitations removes numeric citation markers such as [12] or [3, 4]
// and the whitespace before them. Markdown links like [1](#fn1) are kept.
func StripCitations(line string) string {
	matches := citationRe.FindAllStringIndex(line, -1)
	if matches == nil {
		return line
	}
	var b strings.Builder
	last := 0
	for _, m := range matches {
		if m[1] < len(line) && line[m[1]] == '(' {
			continue
		}
		b.WriteString(line[last:m[0]])
		last = m[1]
	}
	b.WriteString(line[last:])
	return b.String()
}

// isChapterLine matches "Chapter 6. Replication", with or without a leading "#".
func isChapterLine(line string) bool {
	return strings.HasPrefix(strings.TrimLeft(line, "# "), "Chapter ")
}

// Info is the front matter of a chapter dump: the "Chapter N. Title" line
// and the epigraph that follows it.
type Info struct {
	ChapterLine string
	Quote       string
	Author      string
}

// ExtractInfo reads the chapter line and the epigraph (quote, then author)
// from a raw chapter dump. Missing parts are left empty; scanning stops at
// the first section heading.
func ExtractInfo(text string) Info {
	var info Info
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case info.ChapterLine == "" && isChapterLine(line):
			info.ChapterLine = strings.TrimLeft(trimmed, "# ")
		case info.ChapterLine == "" || trimmed == "" || strings.HasPrefix(line, "A Note"):
		case strings.HasPrefix(trimmed, "#"):
			// The first section starts; there is no (complete) epigraph.
			return info
		case info.Quote == "":
			info.Quote = trimmed
		default:
			info.Author = trimmed
			return info
		}
	}
	return info
}

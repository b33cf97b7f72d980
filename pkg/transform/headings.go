package transform

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// unnumbered h2 sections keep their plain titles and stay out of the TOC.
var unnumbered = map[string]bool{
	"Table of Contents": true,
	"Summary":           true,
	"Footnotes":         true,
	"References":        true,
}

var (
	numberPrefixRe = regexp.MustCompile(`^\d+(?:\.\d+)*\.\s+`)
	numberedRe     = regexp.MustCompile(`^(\d+(?:\.\d+)*)\.\s+(.+)$`)
)

type heading struct {
	level int
	start int // offset of the heading text in the source
	text  string
}

// headings lists the headings of a markdown document in order. Fenced and
// indented code blocks are not headings, so their "#" lines are left alone.
func headings(src []byte) []heading {
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	var out []heading
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		lines := h.Lines()
		if lines.Len() == 0 {
			return ast.WalkSkipChildren, nil
		}
		first, last := lines.At(0), lines.At(lines.Len()-1)
		out = append(out, heading{
			level: h.Level,
			start: first.Start,
			text:  strings.TrimSpace(string(src[first.Start:last.Stop])),
		})
		return ast.WalkSkipChildren, nil
	})
	return out
}

// NumberHeadings prefixes section headings with their outline number:
// "## 1. Title", "### 1.2. Title", "#### 1.2.3. Title". The h1 is left as is.
// Existing numbers are replaced, so running it twice gives the same result.
func NumberHeadings(src string) string {
	type edit struct {
		start, end int
		text       string
	}
	var edits []edit
	var h2, h3, h4 int

	for _, h := range headings([]byte(src)) {
		existing := numberPrefixRe.FindString(h.text)
		var num string
		switch h.level {
		case 2:
			if unnumbered[strings.TrimPrefix(h.text, existing)] {
				continue
			}
			h2++
			h3, h4 = 0, 0
			num = fmt.Sprintf("%d. ", h2)
		case 3:
			h3++
			h4 = 0
			num = fmt.Sprintf("%d.%d. ", h2, h3)
		case 4:
			h4++
			num = fmt.Sprintf("%d.%d.%d. ", h2, h3, h4)
		default:
			continue
		}
		edits = append(edits, edit{start: h.start, end: h.start + len(existing), text: num})
	}

	var b strings.Builder
	last := 0
	for _, e := range edits {
		b.WriteString(src[last:e.start])
		b.WriteString(e.text)
		last = e.end
	}
	b.WriteString(src[last:])
	return b.String()
}

// TOC builds a nested list linking the numbered h2 and h3 headings.
func TOC(src string) string {
	slugs := make(slugger)
	var lines []string
	for _, h := range headings([]byte(src)) {
		anchor := slugs.slug(h.text)
		if h.level != 2 && h.level != 3 {
			continue
		}
		m := numberedRe.FindStringSubmatch(h.text)
		if m == nil {
			continue
		}
		entry := fmt.Sprintf("%s. [%s](#%s)", m[1], m[2], anchor)
		if h.level == 3 {
			entry = "   - " + entry
		}
		lines = append(lines, entry)
	}
	return strings.Join(lines, "\n")
}

// Slug returns the anchor the site generator assigns to a heading:
// lower case, punctuation dropped, spaces turned into hyphens.
func Slug(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteByte('-')
		}
	}
	return b.String()
}

// slugger disambiguates repeated anchors with -1, -2, ...
type slugger map[string]int

func (s slugger) slug(text string) string {
	base := Slug(text)
	n, seen := s[base]
	s[base] = n + 1
	if !seen {
		return base
	}
	return fmt.Sprintf("%s-%d", base, n)
}

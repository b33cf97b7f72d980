package transform

import (
	"fmt"
	"path"
	"strings"

	"github.com/aretw0/tome/pkg/book"
	"github.com/aretw0/tome/pkg/core"
)

// Nav places a chapter in the guide: its position inside its part and its
// neighbours in reading order.
type Nav struct {
	Position int
	Prev     *core.Link
	Next     *core.Link
}

// Build assembles the final page of a chapter from its raw dump: front
// matter, heading, epigraph, table of contents, the cleaned and numbered
// body, and the previous/next footer.
func Build(ch book.Chapter, raw string, nav Nav) core.Document {
	info := ExtractInfo(raw)
	body := NumberHeadings(dropIntro(Clean(raw), info))
	toc := TOC(body)

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", ch.Heading())
	if info.Quote != "" {
		fmt.Fprintf(&b, "> %s\n", info.Quote)
		if info.Author != "" {
			fmt.Fprintf(&b, ">\n> _%s_\n", info.Author)
		}
		b.WriteString("\n")
	}
	if toc != "" {
		fmt.Fprintf(&b, "## Table of Contents\n\n%s\n\n", toc)
	}
	b.WriteString(strings.TrimSpace(body))
	b.WriteString("\n")
	if footer := navFooter(ch.DocID, nav); footer != "" {
		b.WriteString("\n---\n\n")
		b.WriteString(footer)
		b.WriteString("\n")
	}

	meta := core.Metadata{
		"title":       ch.Heading(),
		"description": ch.Description,
	}
	if nav.Position > 0 {
		meta["sidebar_position"] = nav.Position
	}
	return core.Document{ID: ch.DocID, Content: b.String(), Metadata: meta}
}

// dropIntro removes the lines Build renders itself: the chapter heading,
// the epigraph and an existing table of contents header.
func dropIntro(body string, info Info) string {
	drop := map[string]int{}
	for _, s := range []string{info.ChapterLine, info.Quote, info.Author} {
		if s != "" {
			drop[s]++
		}
	}

	lines := strings.Split(body, "\n")
	out := lines[:0]
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "## Table of Contents" {
			continue
		}
		if isChapterLine(line) && strings.TrimLeft(trimmed, "# ") == info.ChapterLine {
			continue
		}
		if drop[trimmed] > 0 {
			drop[trimmed]--
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

func navFooter(from string, nav Nav) string {
	var parts []string
	if nav.Prev != nil {
		parts = append(parts, fmt.Sprintf("**Previous:** [%s](%s)", nav.Prev.Title, relLink(from, nav.Prev.ID)))
	}
	if nav.Next != nil {
		parts = append(parts, fmt.Sprintf("**Next:** [%s](%s)", nav.Next.Title, relLink(from, nav.Next.ID)))
	}
	return strings.Join(parts, " | ")
}

// relLink returns the markdown link from page from to page to, e.g.
// "../part2/chapter06-replication.md".
func relLink(from, to string) string {
	fromDir := strings.Split(path.Dir(from), "/")
	toParts := strings.Split(to, "/")
	if fromDir[0] == "." {
		fromDir = nil
	}

	common := 0
	for common < len(fromDir) && common < len(toParts)-1 && fromDir[common] == toParts[common] {
		common++
	}
	rel := strings.Repeat("../", len(fromDir)-common) + strings.Join(toParts[common:], "/")
	return rel + ".md"
}

package transform

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func rawChapter() string {
	long := "Replication means keeping a copy of the same data on multiple machines that are connected via a network, which is useful for several reasons [1], as described below."
	lines := []string{
		"Skip to Content",
		"Chapter 6. Replication",
		"",
		"The major difference between a thing that might go wrong and a thing that cannot possibly go wrong is that when a thing that cannot possibly go wrong goes wrong it usually turns out to be impossible to get at or repair.",
		"Douglas Adams, Mostly Harmless (1992)",
		"",
		"A Note for Early Release Readers",
		"With Early Release ebooks, you get books in their earliest form.",
		"",
		long,
		"",
		"## Leaders and Followers",
		"",
		"Each node that stores a copy is called a replica [2, 3]. See [the paper](https://example.com) [4](#fn4).",
	}
	for i := 0; i < 30; i++ {
		lines = append(lines, "More prose.")
	}
	lines = append(lines,
		"Footnotes",
		"[1] Some reference.",
		"Previous chapter",
	)
	return strings.Join(lines, "\n")
}

func TestClean(t *testing.T) {
	got := Clean(rawChapter())

	assert.NotContains(t, got, "Skip to Content")
	assert.NotContains(t, got, "A Note for Early Release Readers")
	assert.NotContains(t, got, "earliest form")
	assert.NotContains(t, got, "Footnotes")
	assert.NotContains(t, got, "Some reference")
	assert.NotContains(t, got, "Previous chapter")

	assert.Contains(t, got, "Chapter 6. Replication")
	assert.Contains(t, got, "useful for several reasons, as described below.")
	assert.Contains(t, got, "is called a replica. See [the paper](https://example.com) [4](#fn4).")
	assert.True(t, strings.HasSuffix(got, "More prose."))
}

func TestCleanKeepsEarlyMarkers(t *testing.T) {
	// A "References" line far from the end is a section of the chapter.
	lines := []string{"References", "body"}
	for i := 0; i < 20; i++ {
		lines = append(lines, "text")
	}
	got := Clean(strings.Join(lines, "\n"))
	assert.True(t, strings.HasPrefix(got, "References\nbody"))
}

func TestStripCitations(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain text", "plain text"},
		{"a claim [1].", "a claim."},
		{"claims [2, 3] and [14,15]", "claims and"},
		{"keep [1](#fn1) links", "keep [1](#fn1) links"},
		{"keep [text] brackets", "keep [text] brackets"},
		{"[7]start", "start"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, StripCitations(tc.in), tc.in)
	}
}

func TestExtractInfo(t *testing.T) {
	info := ExtractInfo(rawChapter())
	assert.Equal(t, "Chapter 6. Replication", info.ChapterLine)
	assert.True(t, strings.HasPrefix(info.Quote, "The major difference"))
	assert.Equal(t, "Douglas Adams, Mostly Harmless (1992)", info.Author)

	info = ExtractInfo("# Chapter 7. Sharding\n\nClearly, we must break away from the sequential.\n")
	assert.Equal(t, "Chapter 7. Sharding", info.ChapterLine)
	assert.Equal(t, "Clearly, we must break away from the sequential.", info.Quote)
	assert.Empty(t, info.Author)

	assert.Equal(t, Info{}, ExtractInfo("no chapter here"))
}

func TestExtractInfoStopsAtHeading(t *testing.T) {
	info := ExtractInfo("# Chapter 7. Sharding\n\nA short epigraph.\n\n## Pros and Cons\n\nBody.\n")
	assert.Equal(t, "A short epigraph.", info.Quote)
	assert.Empty(t, info.Author)

	info = ExtractInfo("Chapter 2. Requirements\n## Case Study\ntext\n")
	assert.Empty(t, info.Quote)
}

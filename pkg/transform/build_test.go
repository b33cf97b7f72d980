package transform

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/tome/pkg/book"
	"github.com/aretw0/tome/pkg/core"
)

func TestBuild(t *testing.T) {
	ch, ok := book.ChapterByNumber(6)
	require.True(t, ok)

	doc := Build(ch, rawChapter(), Nav{
		Position: 1,
		Prev:     &core.Link{ID: "part1/chapter05-encoding-evolution", Title: "Chapter 5. Encoding and Evolution"},
		Next:     &core.Link{ID: "part2/chapter07-sharding", Title: "Chapter 7. Sharding"},
	})

	assert.Equal(t, "part2/chapter06-replication", doc.ID)
	assert.Equal(t, "Chapter 6. Replication", doc.Metadata["title"])
	assert.Equal(t, ch.Description, doc.Metadata["description"])
	assert.Equal(t, 1, doc.Metadata["sidebar_position"])

	assert.True(t, strings.HasPrefix(doc.Content, "# Chapter 6. Replication\n\n> The major difference"))
	assert.Contains(t, doc.Content, ">\n> _Douglas Adams, Mostly Harmless (1992)_\n")
	assert.Contains(t, doc.Content, "## Table of Contents\n\n1. [Leaders and Followers](#1-leaders-and-followers)\n")
	assert.Contains(t, doc.Content, "## 1. Leaders and Followers")
	assert.Equal(t, 1, strings.Count(doc.Content, "Chapter 6. Replication"))
	assert.Equal(t, 1, strings.Count(doc.Content, "Douglas Adams"))
	assert.NotContains(t, doc.Content, "Skip to Content")
	assert.NotContains(t, doc.Content, "[1]")

	assert.True(t, strings.HasSuffix(doc.Content,
		"---\n\n**Previous:** [Chapter 5. Encoding and Evolution](../part1/chapter05-encoding-evolution.md)"+
			" | **Next:** [Chapter 7. Sharding](chapter07-sharding.md)\n"))
}

func TestBuildWithoutNeighbours(t *testing.T) {
	ch, _ := book.ChapterByNumber(1)

	doc := Build(ch, "Chapter 1. Trade-offs in Data Systems Architecture\n\nSome prose.\n", Nav{})
	assert.True(t, strings.HasPrefix(doc.Content, "# Chapter 1. Trade-offs in Data Systems Architecture\n\n> Some prose.\n"))
	assert.NotContains(t, doc.Metadata, "sidebar_position")
	assert.NotContains(t, doc.Content, "---")
}

func TestRelLink(t *testing.T) {
	tests := []struct {
		from, to, want string
	}{
		{"part2/chapter06-replication", "part2/chapter07-sharding", "chapter07-sharding.md"},
		{"part2/chapter06-replication", "part1/chapter05-encoding-evolution", "../part1/chapter05-encoding-evolution.md"},
		{"intro", "part1/chapter01-tradeoffs", "part1/chapter01-tradeoffs.md"},
		{"part1/chapter01-tradeoffs", "intro", "../intro.md"},
		{"a/b/c", "a/d", "../d.md"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, relLink(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

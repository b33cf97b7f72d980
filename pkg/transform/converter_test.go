package transform_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/tome/pkg/adapters/fs"
	"github.com/aretw0/tome/pkg/book"
	"github.com/aretw0/tome/pkg/core"
	"github.com/aretw0/tome/pkg/transform"
)

const replicationDump = `Skip to Content
Chapter 6. Replication

The major difference between a thing that might go wrong and a thing that cannot possibly go wrong is that when a thing that cannot possibly go wrong goes wrong it usually turns out to be impossible to get at or repair.
Douglas Adams

## Leaders and Followers

Each node that stores a copy of the database is called a replica [1].
`

const shardingPage = `<html><body><main><article>
<h1>Chapter 7. Sharding</h1>
<p>Clearly, we must break away from the sequential and not limit the computers.</p>
<h2>Pros and Cons of Sharding</h2>
<p>Sharding splits a large dataset into smaller ones.</p>
</article></main></body></html>`

func setupConverter(t *testing.T, opts ...transform.ConverterOption) (*transform.Converter, string, string) {
	t.Helper()

	root := t.TempDir()
	docs := filepath.Join(root, "docs")
	raw := filepath.Join(root, "raw")
	require.NoError(t, os.MkdirAll(raw, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(raw, "chapter6.md"), []byte(replicationDump), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(raw, "chapter7.html"), []byte(shardingPage), 0644))

	repo := fs.NewRepository(fs.Config{Path: docs, AutoInit: true})
	require.NoError(t, repo.Initialize(context.Background()))

	conv := transform.NewConverter(core.NewService(repo), book.Sidebars(), opts...)
	return conv, docs, raw
}

func TestJobsFromDir(t *testing.T) {
	_, _, raw := setupConverter(t)

	jobs := transform.JobsFromDir(raw, book.Chapters())
	require.Len(t, jobs, 2)
	assert.Equal(t, 6, jobs[0].Chapter.Number)
	assert.Equal(t, filepath.Join(raw, "chapter6.md"), jobs[0].Source)
	assert.Equal(t, 7, jobs[1].Chapter.Number)
	assert.Equal(t, filepath.Join(raw, "chapter7.html"), jobs[1].Source)
}

func TestConverterRun(t *testing.T) {
	conv, docs, raw := setupConverter(t, transform.WithConcurrency(2))

	out, err := conv.Run(context.Background(), transform.JobsFromDir(raw, book.Chapters()))
	require.NoError(t, err)
	require.Len(t, out, 2)

	data, err := os.ReadFile(filepath.Join(docs, "part2", "chapter06-replication.md"))
	require.NoError(t, err)
	page := string(data)
	assert.True(t, strings.HasPrefix(page, "---\n"))
	assert.Contains(t, page, "title: Chapter 6. Replication")
	assert.Contains(t, page, "sidebar_position: 1")
	assert.Contains(t, page, "## 1. Leaders and Followers")
	assert.Contains(t, page, "called a replica.")
	assert.Contains(t, page, "**Previous:** [Chapter 5. Encoding and Evolution](../part1/chapter05-encoding-evolution.md)")
	assert.Contains(t, page, "**Next:** [Chapter 7. Sharding](chapter07-sharding.md)")

	data, err = os.ReadFile(filepath.Join(docs, "part2", "chapter07-sharding.md"))
	require.NoError(t, err)
	page = string(data)
	assert.Contains(t, page, "sidebar_position: 2")
	assert.Contains(t, page, "## 1. Pros and Cons of Sharding")
	assert.Contains(t, page, "> Clearly, we must break away")
	assert.Contains(t, page, "**Next:** [Chapter 8. Transactions](chapter08-transactions.md)")
}

func TestConverterDryRun(t *testing.T) {
	conv, docs, raw := setupConverter(t, transform.WithDryRun(true))

	out, err := conv.Run(context.Background(), transform.JobsFromDir(raw, book.Chapters()))
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "part2/chapter06-replication", out[0].ID)

	_, err = os.Stat(filepath.Join(docs, "part2"))
	assert.True(t, os.IsNotExist(err))
}

func TestConverterFailureWritesNothing(t *testing.T) {
	conv, docs, raw := setupConverter(t)

	jobs := transform.JobsFromDir(raw, book.Chapters())
	ch8, _ := book.ChapterByNumber(8)
	jobs = append(jobs, transform.Job{Chapter: ch8, Source: filepath.Join(raw, "missing.md")})

	_, err := conv.Run(context.Background(), jobs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chapter 8")

	_, err = os.Stat(filepath.Join(docs, "part2"))
	assert.True(t, os.IsNotExist(err))
}

func TestConverterRejectsUnknownPage(t *testing.T) {
	conv, _, raw := setupConverter(t)

	stray := book.Chapter{Number: 99, Title: "Appendix", DocID: "appendix"}
	_, err := conv.Run(context.Background(), []transform.Job{{Chapter: stray, Source: filepath.Join(raw, "chapter6.md")}})
	assert.ErrorIs(t, err, core.ErrNotInSidebar)
}

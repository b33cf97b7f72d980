package fs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCacheFile(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".tome"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".tome", "index.json"), []byte(content), 0644))
}

func TestCacheLoad(t *testing.T) {
	t.Run("missing file yields an empty index", func(t *testing.T) {
		c := newCache(t.TempDir(), ".tome")
		require.NoError(t, c.Load())
		assert.Equal(t, 0, c.Len())
	})

	t.Run("reads entries of the current version", func(t *testing.T) {
		dir := t.TempDir()
		writeCacheFile(t, dir, `{
			"version": 2,
			"entries": {
				"part1/chapter01.md": {"id": "part1/chapter01", "metadata": {"title": "Reliable Systems"}}
			}
		}`)

		c := newCache(dir, ".tome")
		require.NoError(t, c.Load())

		rel, ok := c.Lookup("part1/chapter01")
		require.True(t, ok)
		assert.Equal(t, "part1/chapter01.md", rel)
		assert.Equal(t, "Reliable Systems", c.index.Entries[rel].Metadata["title"])
	})

	t.Run("discards an outdated version", func(t *testing.T) {
		dir := t.TempDir()
		writeCacheFile(t, dir, `{"version": 1, "entries": {"a.md": {"id": "a"}}}`)

		c := newCache(dir, ".tome")
		require.NoError(t, c.Load())
		assert.Equal(t, 0, c.Len())
		assert.True(t, c.index.dirty)
	})

	t.Run("discards corrupted json", func(t *testing.T) {
		dir := t.TempDir()
		writeCacheFile(t, dir, "{ nope")

		c := newCache(dir, ".tome")
		require.NoError(t, c.Load())
		assert.Equal(t, 0, c.Len())
	})

	t.Run("keeps entries set before loading", func(t *testing.T) {
		dir := t.TempDir()
		writeCacheFile(t, dir, `{"version": 2, "entries": {"a.md": {"id": "old"}, "b.md": {"id": "b"}}}`)

		c := newCache(dir, ".tome")
		c.Set("a.md", &indexEntry{ID: "new"})
		require.NoError(t, c.Load())

		id, _ := c.IDOf("a.md")
		assert.Equal(t, "new", id)
		id, _ = c.IDOf("b.md")
		assert.Equal(t, "b", id)
	})
}

func TestCacheSave(t *testing.T) {
	t.Run("clean cache writes nothing", func(t *testing.T) {
		c := newCache(t.TempDir(), ".tome")
		require.NoError(t, c.Save())
		_, err := os.Stat(c.Path)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("dirty cache is persisted and reloaded", func(t *testing.T) {
		dir := t.TempDir()
		mtime := time.Now().Truncate(time.Second)

		c := newCache(dir, ".tome")
		c.Set("intro.md", &indexEntry{ID: "intro", LastModified: mtime})
		require.NoError(t, c.Save())
		assert.False(t, c.index.dirty)

		reloaded := newCache(dir, ".tome")
		require.NoError(t, reloaded.Load())
		entry, hit := reloaded.Get("intro.md", mtime)
		require.True(t, hit)
		assert.Equal(t, "intro", entry.ID)
	})
}

func TestCacheGetSet(t *testing.T) {
	c := newCache(t.TempDir(), ".tome")
	now := time.Now().Truncate(time.Second)
	c.Set("intro.md", &indexEntry{ID: "intro", LastModified: now})

	entry, hit := c.Get("intro.md", now)
	require.True(t, hit)
	assert.Equal(t, "intro", entry.ID)

	_, hit = c.Get("intro.md", now.Add(time.Minute))
	assert.False(t, hit, "stale mtime must miss")

	_, hit = c.Get("ghost.md", now)
	assert.False(t, hit)
}

func TestCachePruneAndDelete(t *testing.T) {
	c := newCache(t.TempDir(), ".tome")
	c.Set("keep.md", &indexEntry{ID: "keep"})
	c.Set("drop.md", &indexEntry{ID: "drop"})
	c.Set("gone.md", &indexEntry{ID: "gone"})
	c.index.dirty = false

	c.Prune(map[string]bool{"keep.md": true, "gone.md": true})
	assert.True(t, c.index.dirty)
	_, ok := c.Lookup("drop")
	assert.False(t, ok)

	c.index.dirty = false
	c.Delete("gone.md")
	assert.True(t, c.index.dirty)
	assert.Equal(t, 1, c.Len())

	c.index.dirty = false
	c.Delete("never.md")
	assert.False(t, c.index.dirty)
}

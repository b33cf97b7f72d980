package fs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// cacheVersion is bumped whenever the entry layout changes; older files are discarded.
const cacheVersion = 2

// indexEntry holds the parsed frontmatter of one page.
type indexEntry struct {
	ID           string                 `json:"id"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
	LastModified time.Time              `json:"lastModified"`
}

// index is the persistent cache state.
type index struct {
	Version int                    `json:"version"`
	Entries map[string]*indexEntry `json:"entries"` // Key is the slash path relative to the docs root
	dirty   bool
	mu      sync.RWMutex
}

// cache keeps page metadata between runs so listing a large docs tree
// only re-parses the files whose mtime changed.
type cache struct {
	Path   string // {docs}/{systemDir}/index.json
	index  *index
	loaded bool
}

func newCache(docsPath, systemDir string) *cache {
	return &cache{
		Path: filepath.Join(docsPath, systemDir, "index.json"),
		index: &index{
			Version: cacheVersion,
			Entries: make(map[string]*indexEntry),
		},
	}
}

// Load reads the cache from disk once. A missing, corrupted or outdated file yields an empty index.
func (c *cache) Load() error {
	c.index.mu.Lock()
	defer c.index.mu.Unlock()

	if c.loaded {
		return nil
	}
	c.loaded = true

	data, err := os.ReadFile(c.Path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read cache: %w", err)
	}

	var loaded struct {
		Version int                    `json:"version"`
		Entries map[string]*indexEntry `json:"entries"`
	}
	if err := json.Unmarshal(data, &loaded); err != nil || loaded.Version != cacheVersion {
		// Rewrite the file on the next Save.
		c.index.dirty = true
		return nil
	}

	// Entries recorded in memory before the first Load are newer than the file.
	for rel, e := range loaded.Entries {
		if _, ok := c.index.Entries[rel]; !ok {
			c.index.Entries[rel] = e
		}
	}
	return nil
}

// Save persists the cache if it changed since the last Load or Save.
func (c *cache) Save() error {
	c.index.mu.RLock()
	if !c.index.dirty {
		c.index.mu.RUnlock()
		return nil
	}
	data, err := json.MarshalIndent(c.index, "", "  ")
	c.index.mu.RUnlock()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(c.Path), 0755); err != nil {
		return err
	}
	if err := writeFileAtomic(c.Path, data, 0644); err != nil {
		return err
	}

	c.index.mu.Lock()
	c.index.dirty = false
	c.index.mu.Unlock()
	return nil
}

// Get returns the entry of relPath when its recorded mtime matches.
func (c *cache) Get(relPath string, mtime time.Time) (*indexEntry, bool) {
	c.index.mu.RLock()
	defer c.index.mu.RUnlock()

	entry, ok := c.index.Entries[relPath]
	if !ok || !entry.LastModified.Equal(mtime) {
		return nil, false
	}
	return entry, true
}

// Set records an entry.
func (c *cache) Set(relPath string, entry *indexEntry) {
	c.index.mu.Lock()
	defer c.index.mu.Unlock()

	c.index.Entries[relPath] = entry
	c.index.dirty = true
}

// Prune removes entries that are not in the keep set.
func (c *cache) Prune(keep map[string]bool) {
	c.index.mu.Lock()
	defer c.index.mu.Unlock()

	for path := range c.index.Entries {
		if !keep[path] {
			delete(c.index.Entries, path)
			c.index.dirty = true
		}
	}
}

// Delete removes a single entry.
func (c *cache) Delete(relPath string) {
	c.index.mu.Lock()
	defer c.index.mu.Unlock()

	if _, ok := c.index.Entries[relPath]; ok {
		delete(c.index.Entries, relPath)
		c.index.dirty = true
	}
}

// Lookup returns the relative path of the page with the given ID.
func (c *cache) Lookup(id string) (string, bool) {
	c.index.mu.RLock()
	defer c.index.mu.RUnlock()

	for rel, e := range c.index.Entries {
		if e.ID == id {
			return rel, true
		}
	}
	return "", false
}

// Len returns the number of entries in the cache.
func (c *cache) Len() int {
	c.index.mu.RLock()
	defer c.index.mu.RUnlock()
	return len(c.index.Entries)
}

// IDOf returns the recorded document ID of relPath.
func (c *cache) IDOf(relPath string) (string, bool) {
	c.index.mu.RLock()
	defer c.index.mu.RUnlock()

	e, ok := c.index.Entries[relPath]
	if !ok {
		return "", false
	}
	return e.ID, true
}

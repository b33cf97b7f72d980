package fs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/tome/pkg/core"
)

// DefaultSystemDir holds the metadata cache inside the docs root.
const DefaultSystemDir = ".tome"

// DefaultExclude mirrors the site generator's default exclusions:
// partials (underscore files and directories) and dependencies.
var DefaultExclude = []string{
	"**/_*.{md,mdx}",
	"**/_*/**",
	"**/node_modules/**",
}

// categoryFiles are the per-directory metadata files, in lookup order.
var categoryFiles = []string{"_category_.json", "_category_.yml", "_category_.yaml"}

// Repository implements core.Repository over a docs directory.
type Repository struct {
	Path   string
	cache  *cache
	config Config

	mu            sync.RWMutex
	serializers   map[string]Serializer
	readOnly      bool
	watcherActive bool
	lastList      *time.Time
}

// Config holds the configuration for the filesystem repository.
type Config struct {
	Path      string
	AutoInit  bool // create the docs directory when missing
	MustExist bool
	ReadOnly  bool
	Logger    *slog.Logger
	SystemDir string   // e.g. ".tome"
	Exclude   []string // doublestar patterns relative to Path; nil means DefaultExclude
	// DefaultExt is the extension of new pages. Defaults to ".md".
	DefaultExt string
	// ErrorHandler receives runtime watcher failures.
	ErrorHandler func(error)
}

// NewRepository creates a new filesystem-backed repository.
func NewRepository(config Config) *Repository {
	if config.SystemDir == "" {
		config.SystemDir = DefaultSystemDir
	}
	if config.Exclude == nil {
		config.Exclude = DefaultExclude
	}
	if config.DefaultExt == "" {
		config.DefaultExt = ".md"
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	return &Repository{
		Path:        config.Path,
		config:      config,
		cache:       newCache(config.Path, config.SystemDir),
		serializers: DefaultSerializers(),
		readOnly:    config.ReadOnly,
	}
}

// RegisterSerializer adds or replaces the serializer of an extension.
func (r *Repository) RegisterSerializer(ext string, s Serializer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.serializers[ext] = s
}

func (r *Repository) serializer(ext string) (Serializer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.serializers[ext]
	return s, ok
}

// Initialize checks (or creates) the docs directory.
func (r *Repository) Initialize(ctx context.Context) error {
	info, err := os.Stat(r.Path)
	switch {
	case err == nil && !info.IsDir():
		return fmt.Errorf("docs path is not a directory: %s", r.Path)
	case err == nil:
		return nil
	case !os.IsNotExist(err):
		return err
	case r.config.MustExist || r.readOnly || !r.config.AutoInit:
		return fmt.Errorf("docs path does not exist: %s", r.Path)
	}
	if err := os.MkdirAll(r.Path, 0755); err != nil {
		return fmt.Errorf("failed to create docs directory: %w", err)
	}
	r.config.Logger.Debug("created docs directory", "path", r.Path)
	return nil
}

// Begin starts a new transaction.
func (r *Repository) Begin(ctx context.Context) (core.Transaction, error) {
	if r.readOnly {
		return nil, core.ErrReadOnly
	}
	return NewTransaction(r), nil
}

// excluded reports whether the slash path relative to the root is filtered out.
func (r *Repository) excluded(rel string) bool {
	base := path.Base(rel)
	if strings.HasPrefix(base, TempFilePrefix) {
		return true
	}
	for _, pattern := range r.config.Exclude {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

func (r *Repository) skipDirEntry(name, rel string) bool {
	if name == ".git" || name == r.config.SystemDir || name == "node_modules" {
		return true
	}
	return r.excluded(rel) || r.excluded(rel+"/")
}

// idFor returns the document ID of a page: its path without extension,
// with the last segment replaced by the frontmatter id when present.
func idFor(rel string, meta core.Metadata) string {
	ext := path.Ext(rel)
	id := strings.TrimSuffix(rel, ext)
	if v, ok := meta["id"].(string); ok && v != "" {
		dir := path.Dir(id)
		if dir == "." {
			return v
		}
		return dir + "/" + v
	}
	return id
}

// Get retrieves a page by its document ID.
func (r *Repository) Get(ctx context.Context, id string) (core.Document, error) {
	if id == "" {
		return core.Document{}, core.ErrEmptyDocID
	}

	// Fast path: the file named after the ID.
	for ext := range r.serializersSnapshot() {
		rel := id + ext
		doc, err := r.readFile(rel)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return core.Document{}, err
		}
		if doc.ID == id {
			return doc, nil
		}
	}

	// Slow path: the ID comes from a frontmatter override.
	if err := r.cache.Load(); err != nil {
		r.config.Logger.Debug("cache load failed", "error", err)
	}
	if rel, ok := r.cache.Lookup(id); ok {
		if doc, err := r.readFile(rel); err == nil && doc.ID == id {
			return doc, nil
		}
	}
	if _, err := r.List(ctx); err != nil {
		return core.Document{}, err
	}
	if rel, ok := r.cache.Lookup(id); ok {
		if doc, err := r.readFile(rel); err == nil && doc.ID == id {
			return doc, nil
		}
	}
	return core.Document{}, fmt.Errorf("%w: %s", core.ErrNotFound, id)
}

func (r *Repository) serializersSnapshot() map[string]Serializer {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]Serializer, len(r.serializers))
	for k, v := range r.serializers {
		out[k] = v
	}
	return out
}

// readFile parses the page at rel (slash path) and sets its ID.
func (r *Repository) readFile(rel string) (core.Document, error) {
	s, ok := r.serializer(path.Ext(rel))
	if !ok {
		return core.Document{}, fmt.Errorf("no serializer for %s", rel)
	}
	f, err := os.Open(filepath.Join(r.Path, filepath.FromSlash(rel)))
	if err != nil {
		return core.Document{}, err
	}
	defer f.Close()

	doc, err := s.Parse(f)
	if err != nil {
		return core.Document{}, fmt.Errorf("failed to parse %s: %w", rel, err)
	}
	doc.ID = idFor(rel, doc.Metadata)
	return *doc, nil
}

// List returns every page of the tree with its metadata.
// Content is not loaded; use Get for the full page.
//
// Workflow:
//  1. Load the metadata cache.
//  2. Walk the tree, skipping system and excluded paths.
//  3. Reuse cached metadata when the mtime matches, parse otherwise.
//  4. Prune and persist the cache (unless read-only).
func (r *Repository) List(ctx context.Context) ([]core.Document, error) {
	if err := r.cache.Load(); err != nil {
		r.config.Logger.Warn("ignoring unreadable cache", "error", err)
	}

	var docs []core.Document
	seen := make(map[string]bool)

	err := filepath.WalkDir(r.Path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		rel, err := filepath.Rel(r.Path, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if rel != "." && r.skipDirEntry(d.Name(), rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if _, ok := r.serializer(path.Ext(rel)); !ok || r.excluded(rel) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}
		seen[rel] = true

		if entry, hit := r.cache.Get(rel, info.ModTime()); hit {
			docs = append(docs, core.Document{ID: entry.ID, Metadata: entry.Metadata})
			return nil
		}

		doc, err := r.readFile(rel)
		if err != nil {
			r.config.Logger.Warn("skipping unreadable page", "path", rel, "error", err)
			return nil
		}
		r.cache.Set(rel, &indexEntry{ID: doc.ID, Metadata: doc.Metadata, LastModified: info.ModTime()})
		docs = append(docs, core.Document{ID: doc.ID, Metadata: doc.Metadata})
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.cache.Prune(seen)
	if !r.readOnly {
		if err := r.cache.Save(); err != nil {
			r.config.Logger.Warn("failed to save cache", "error", err)
		}
	}

	now := time.Now()
	r.mu.Lock()
	r.lastList = &now
	r.mu.Unlock()

	return docs, nil
}

// Categories returns the metadata of every directory carrying a _category_ file.
func (r *Repository) Categories(ctx context.Context) ([]core.CategoryMeta, error) {
	var metas []core.CategoryMeta
	err := filepath.WalkDir(r.Path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(r.Path, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if rel != "." && r.skipDirEntry(d.Name(), rel) {
			return filepath.SkipDir
		}

		for _, name := range categoryFiles {
			data, err := os.ReadFile(filepath.Join(p, name))
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			if err != nil {
				return err
			}
			meta, err := parseCategoryFile(filepath.Ext(name), data)
			if err != nil {
				return fmt.Errorf("%s/%s: %w", rel, name, err)
			}
			meta.Dir = rel
			metas = append(metas, meta)
			break
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return metas, nil
}

// locate returns the relative path of an existing page, or the path a new page would take.
func (r *Repository) locate(ctx context.Context, id string) (rel string, exists bool) {
	for ext := range r.serializersSnapshot() {
		candidate := id + ext
		if _, err := os.Stat(filepath.Join(r.Path, filepath.FromSlash(candidate))); err == nil {
			return candidate, true
		}
	}
	if rel, ok := r.cache.Lookup(id); ok {
		if _, err := os.Stat(filepath.Join(r.Path, filepath.FromSlash(rel))); err == nil {
			return rel, true
		}
	}
	return id + r.config.DefaultExt, false
}

// Save writes a page atomically. An existing page with the same ID is replaced in place.
func (r *Repository) Save(ctx context.Context, doc core.Document) error {
	if r.readOnly {
		return core.ErrReadOnly
	}
	if doc.ID == "" {
		return core.ErrEmptyDocID
	}
	rel, _ := r.locate(ctx, doc.ID)
	return r.write(rel, doc)
}

func (r *Repository) write(rel string, doc core.Document) error {
	s, ok := r.serializer(path.Ext(rel))
	if !ok {
		return fmt.Errorf("no serializer for %s", rel)
	}
	data, err := s.Serialize(doc)
	if err != nil {
		return fmt.Errorf("failed to serialize %s: %w", doc.ID, err)
	}

	full := filepath.Join(r.Path, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return fmt.Errorf("failed to create directories for %s: %w", doc.ID, err)
	}
	if err := writeFileAtomic(full, data, 0644); err != nil {
		return err
	}

	if info, err := os.Stat(full); err == nil {
		r.cache.Set(rel, &indexEntry{ID: idFor(rel, doc.Metadata), Metadata: doc.Metadata, LastModified: info.ModTime()})
	}
	r.config.Logger.Debug("page written", "id", doc.ID, "path", rel)
	return nil
}

// Delete removes a page.
func (r *Repository) Delete(ctx context.Context, id string) error {
	if r.readOnly {
		return core.ErrReadOnly
	}
	rel, exists := r.locate(ctx, id)
	if !exists {
		return fmt.Errorf("%w: %s", core.ErrNotFound, id)
	}
	if err := os.Remove(filepath.Join(r.Path, filepath.FromSlash(rel))); err != nil {
		return err
	}
	r.cache.Delete(rel)
	return nil
}

// Flush persists the metadata cache.
func (r *Repository) Flush() error {
	if r.readOnly {
		return nil
	}
	return r.cache.Save()
}

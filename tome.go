package tome

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/tome/internal/platform"
	"github.com/aretw0/tome/pkg/book"
	"github.com/aretw0/tome/pkg/codec"
	"github.com/aretw0/tome/pkg/core"
)

// --- Types ---

type (
	// Item is one sidebar entry: a document reference or a category.
	Item = core.Item
	// Category groups sidebar entries under a label.
	Category = core.Category
	// Sidebar is a named navigation tree.
	Sidebar = core.Sidebar
	// Sidebars is the ordered collection published by a site.
	Sidebars = core.Sidebars
	// Document is a page of the docs tree.
	Document = core.Document
	// Metadata is the frontmatter of a page.
	Metadata = core.Metadata
	// Report is the outcome of Service.Check.
	Report = core.Report
	// Service is the entry point over a docs tree.
	Service = core.Service
)

// Doc builds a document reference.
func Doc(id string) Item { return core.Doc(id) }

// Cat builds a category with the site defaults (collapsible, expanded).
func Cat(label string, items ...Item) Item { return core.Cat(label, items...) }

// --- Configuration ---

// Option defines a functional option for configuring tome.
type Option = platform.Option

// Config is the tome.yaml project configuration.
type Config = platform.Config

// WithAutoInit creates the docs directory when it is missing.
func WithAutoInit(auto bool) Option {
	return platform.WithAutoInit(auto)
}

// WithMustExist ensures the docs directory must already exist.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithLogger sets the logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithRepository injects a custom storage adapter.
func WithRepository(repo core.Repository) Option {
	return platform.WithRepository(repo)
}

// WithAdapter selects the storage adapter by name.
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithSystemDir sets the hidden cache directory (e.g. ".tome").
func WithSystemDir(name string) Option {
	return platform.WithSystemDir(name)
}

// WithExclude replaces the default exclusion patterns.
func WithExclude(patterns []string) Option {
	return platform.WithExclude(patterns)
}

// WithDefaultExt sets the extension of new pages.
func WithDefaultExt(ext string) Option {
	return platform.WithDefaultExt(ext)
}

// WithEventBuffer sets the size of the watch event buffer.
func WithEventBuffer(size int) Option {
	return platform.WithEventBuffer(size)
}

// WithReadOnly enables read-only mode.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// WithWatcherErrorHandler registers a callback for watch loop errors.
func WithWatcherErrorHandler(fn func(error)) Option {
	return platform.WithWatcherErrorHandler(fn)
}

// --- Factory ---

// New creates a service over the docs directory at path.
func New(path string, opts ...Option) (*core.Service, error) {
	return platform.New(path, opts...)
}

// Init opens a repository explicitly.
func Init(path string, opts ...Option) (core.Repository, error) {
	return platform.Init(path, opts...)
}

// FindRoot walks up from startDir to the site project root.
func FindRoot(startDir string) (string, error) {
	return platform.FindRoot(startDir)
}

// --- Sidebars ---

// Guide returns the sidebars of the study guide site.
func Guide() Sidebars {
	return book.Sidebars()
}

// ReadSidebars decodes a sidebars file; the format follows its extension.
func ReadSidebars(path string) (Sidebars, error) {
	c, err := codec.ForPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	sbs, err := codec.Unmarshal(c, data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return sbs, nil
}

// WriteSidebars validates sbs and encodes it to path in the format of its extension.
func WriteSidebars(path string, sbs Sidebars) error {
	if err := sbs.Validate(); err != nil {
		return err
	}
	c, err := codec.ForPath(path)
	if err != nil {
		return err
	}
	data, err := codec.Marshal(c, sbs)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

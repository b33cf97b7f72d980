package platform

import (
	"log/slog"

	"github.com/aretw0/tome/pkg/core"
)

// options holds the internal configuration for the tome service.
type options struct {
	repository  core.Repository
	logger      *slog.Logger
	adapter     string
	config      map[string]interface{}
	serializers map[string]any
}

// Option defines a functional option for configuring tome.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		adapter:     "fs",
		config:      make(map[string]interface{}),
		serializers: make(map[string]any),
	}
}

// WithSerializer registers a page serializer for an extension (e.g. ".mdx").
// The serializer must implement fs.Serializer; this is checked during Init.
func WithSerializer(ext string, s any) Option {
	return func(o *options) {
		o.serializers[ext] = s
	}
}

// WithAutoInit creates the docs directory when it is missing.
func WithAutoInit(auto bool) Option {
	return func(o *options) {
		o.config["auto_init"] = auto
	}
}

// WithMustExist ensures the docs directory must already exist.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.config["must_exist"] = must
	}
}

// WithLogger sets the logger for the service and its adapter.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithRepository injects a storage adapter; the filesystem adapter is skipped.
func WithRepository(repo core.Repository) Option {
	return func(o *options) {
		o.repository = repo
	}
}

// WithAdapter selects the storage adapter by name. Defaults to "fs".
func WithAdapter(name string) Option {
	return func(o *options) {
		o.adapter = name
	}
}

// WithSystemDir sets the hidden directory holding the metadata cache.
// Defaults to ".tome".
func WithSystemDir(name string) Option {
	return func(o *options) {
		o.config["system_dir"] = name
	}
}

// WithExclude replaces the default exclusion patterns (doublestar syntax,
// relative to the docs root).
func WithExclude(patterns []string) Option {
	return func(o *options) {
		o.config["exclude"] = patterns
	}
}

// WithDefaultExt sets the extension of newly created pages (".md" or ".mdx").
func WithDefaultExt(ext string) Option {
	return func(o *options) {
		o.config["default_ext"] = ext
	}
}

// WithEventBuffer sets the size of the watch event buffer.
// Zero means default (100).
func WithEventBuffer(size int) Option {
	return func(o *options) {
		o.config["event_buffer"] = size
	}
}

// WithWatcherErrorHandler registers a callback for errors raised inside the
// watch loop (e.g. permission denied on a new directory), which are
// otherwise only logged.
func WithWatcherErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.config["watcher_error_handler"] = fn
	}
}

// WithReadOnly enables read-only mode.
// In this mode:
// 1. Save and Delete return ErrReadOnly.
// 2. The docs directory is never created.
// 3. Cache updates are not persisted to disk.
func WithReadOnly(enabled bool) Option {
	return func(o *options) {
		o.config["read_only"] = enabled
	}
}

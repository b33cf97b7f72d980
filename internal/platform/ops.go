package platform

import (
	"context"
	"fmt"

	"github.com/aretw0/tome/pkg/adapters/fs"
	"github.com/aretw0/tome/pkg/core"
)

// Init opens (and, with AutoInit, creates) the docs store at uri.
// The URI is adapter-specific (a directory for "fs").
func Init(uri string, opts ...Option) (core.Repository, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	if o.repository != nil {
		return o.repository, nil
	}

	var repo core.Repository
	var err error

	switch o.adapter {
	case "fs":
		repo, err = initFS(uri, o)
	default:
		return nil, fmt.Errorf("unknown adapter: %s", o.adapter)
	}
	if err != nil {
		return nil, err
	}

	if err := repo.Initialize(context.Background()); err != nil {
		return nil, err
	}
	return repo, nil
}

// initFS builds the filesystem adapter from the options.
func initFS(path string, o *options) (core.Repository, error) {
	if path == "" {
		return nil, fmt.Errorf("docs path is required")
	}

	autoInit, _ := o.config["auto_init"].(bool)
	mustExist, _ := o.config["must_exist"].(bool)
	readOnly, _ := o.config["read_only"].(bool)
	systemDir, _ := o.config["system_dir"].(string)
	exclude, _ := o.config["exclude"].([]string)
	defaultExt, _ := o.config["default_ext"].(string)
	errorHandler, _ := o.config["watcher_error_handler"].(func(error))

	if o.logger != nil && readOnly {
		o.logger.Debug("opening docs in read-only mode", "path", path)
	}

	repo := fs.NewRepository(fs.Config{
		Path:         path,
		AutoInit:     autoInit,
		MustExist:    mustExist,
		ReadOnly:     readOnly,
		Logger:       o.logger,
		SystemDir:    systemDir,
		Exclude:      exclude,
		DefaultExt:   defaultExt,
		ErrorHandler: errorHandler,
	})

	for ext, s := range o.serializers {
		serializer, ok := s.(fs.Serializer)
		if !ok {
			if o.logger != nil {
				o.logger.Warn("invalid serializer type ignored", "ext", ext, "expected", "fs.Serializer")
			}
			return nil, fmt.Errorf("serializer for %s must implement fs.Serializer", ext)
		}
		repo.RegisterSerializer(ext, serializer)
	}

	return repo, nil
}

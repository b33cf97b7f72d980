package platform

import (
	"github.com/aretw0/tome/pkg/core"
)

// New opens the docs tree at uri and returns a service over it.
//
//	svc, err := tome.New("./docs", tome.WithReadOnly(true))
//
// The URI is adapter-specific (a directory for "fs").
func New(uri string, opts ...Option) (*core.Service, error) {
	repo, err := Init(uri, opts...)
	if err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	svcOpts := []core.ServiceOption{core.WithServiceLogger(o.logger)}
	if size, ok := o.config["event_buffer"].(int); ok {
		svcOpts = append(svcOpts, core.WithEventBufferSize(size))
	}
	return core.NewService(repo, svcOpts...), nil
}

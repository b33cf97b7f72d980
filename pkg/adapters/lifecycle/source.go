// Package lifecycle feeds page changes of the docs tree into an
// aretw0/lifecycle event loop, as used by "tome watch".
package lifecycle

import (
	"context"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/tome/pkg/core"
)

// pageChanges relays the debounced page events of a watched docs tree.
type pageChanges struct {
	events <-chan core.Event
	kinds  map[core.EventType]bool
	out    chan lifecycle.Event
}

// NewSource turns a docs watch stream into a lifecycle.Source. When kinds is
// non-empty only those changes (create, modify, delete) are relayed.
func NewSource(events <-chan core.Event, kinds ...core.EventType) lifecycle.Source {
	var only map[core.EventType]bool
	if len(kinds) > 0 {
		only = make(map[core.EventType]bool, len(kinds))
		for _, k := range kinds {
			only[k] = true
		}
	}
	return &pageChanges{
		events: events,
		kinds:  only,
		out:    make(chan lifecycle.Event),
	}
}

// Events yields core.Event values; they print as "TYPE id".
func (p *pageChanges) Events() <-chan lifecycle.Event {
	return p.out
}

// Start returns at once. Relaying ends, and Events is closed, when ctx is
// done or the watcher stops.
func (p *pageChanges) Start(ctx context.Context) error {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(p.out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-p.events:
				if !ok {
					return nil
				}
				if p.kinds != nil && !p.kinds[e.Type] {
					continue
				}
				select {
				case p.out <- e:
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return nil
}

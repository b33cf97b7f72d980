package fs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sync"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/tome/pkg/core"
)

// DebounceInterval coalesces bursts of writes to the same page into one event.
const DebounceInterval = 50 * time.Millisecond

// Watch reports page changes matching pattern (a doublestar pattern relative to
// the docs root; empty matches everything). The channel is closed when ctx ends.
func (r *Repository) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	if pattern != "" && !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid watch pattern %q", pattern)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := r.watchTree(watcher, r.Path); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	events := make(chan core.Event)
	runCtx, cancel := context.WithCancel(ctx)
	deb := newDebouncer(DebounceInterval)
	r.setWatcherActive(true)

	lifecycle.Go(runCtx, func(ctx context.Context) error {
		defer close(events)
		defer r.setWatcherActive(false)
		defer watcher.Close()
		defer deb.stopAndWait()
		defer cancel()

		for {
			select {
			case <-ctx.Done():
				return nil
			case ev, ok := <-watcher.Events:
				if !ok {
					return errors.New("watcher events channel closed")
				}
				r.handleFSEvent(ctx, watcher, ev, pattern, deb, events)
			case werr, ok := <-watcher.Errors:
				if !ok {
					return errors.New("watcher errors channel closed")
				}
				r.reportWatchError(werr)
			}
		}
	}, lifecycle.WithErrorHandler(r.reportWatchError))

	return events, nil
}

func (r *Repository) reportWatchError(err error) {
	r.config.Logger.Error("watcher error", "error", err)
	if r.config.ErrorHandler != nil {
		r.config.ErrorHandler(err)
	}
}

// watchTree adds dir and every non-skipped subdirectory to the watcher.
func (r *Repository) watchTree(w *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
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
		if rel != "." && r.skipDirEntry(d.Name(), filepath.ToSlash(rel)) {
			return filepath.SkipDir
		}
		if err := w.Add(p); err != nil {
			return fmt.Errorf("failed to watch %s: %w", p, err)
		}
		return nil
	})
}

func (r *Repository) handleFSEvent(ctx context.Context, w *fsnotify.Watcher, ev fsnotify.Event, pattern string, deb *debouncer, out chan<- core.Event) {
	rel, err := filepath.Rel(r.Path, ev.Name)
	if err != nil {
		return
	}
	rel = filepath.ToSlash(rel)

	if ev.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if err := r.watchTree(w, ev.Name); err != nil {
				r.reportWatchError(err)
			}
			return
		}
	}

	if _, ok := r.serializer(path.Ext(rel)); !ok || r.excluded(rel) {
		return
	}
	if pattern != "" {
		if ok, _ := doublestar.Match(pattern, rel); !ok {
			return
		}
	}

	var typ core.EventType
	switch {
	case ev.Has(fsnotify.Create):
		typ = core.EventCreate
	case ev.Has(fsnotify.Write):
		typ = core.EventModify
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		typ = core.EventDelete
	default:
		return
	}

	id := idFor(rel, nil)
	if typ == core.EventDelete {
		if known, ok := r.cache.IDOf(rel); ok {
			id = known
		}
	}

	r.config.Logger.Debug("page changed", "type", typ, "path", rel)
	deb.add(rel, core.Event{Type: typ, ID: id, Timestamp: time.Now().Unix()}, func(e core.Event) {
		// The frontmatter is read once the burst settles, so content written
		// after the CREATE still decides the ID.
		if e.Type != core.EventDelete {
			if doc, err := r.readFile(rel); err == nil {
				e.ID = doc.ID
			}
		}
		select {
		case out <- e:
		case <-ctx.Done():
		}
	})
}

func (r *Repository) setWatcherActive(active bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.watcherActive = active
}

// debouncer delays events per key and keeps only the last one,
// except that a pending CREATE keeps its type when a MODIFY follows.
type debouncer struct {
	interval time.Duration
	mu       sync.Mutex
	pending  map[string]*pendingEvent
	wg       sync.WaitGroup
	stopped  bool
}

type pendingEvent struct {
	event core.Event
	timer *time.Timer
}

func newDebouncer(interval time.Duration) *debouncer {
	return &debouncer{interval: interval, pending: make(map[string]*pendingEvent)}
}

func (d *debouncer) add(key string, e core.Event, fire func(core.Event)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if p, ok := d.pending[key]; ok {
		if p.event.Type == core.EventCreate && e.Type == core.EventModify {
			e.Type = core.EventCreate
		}
		p.event = e
		p.timer.Reset(d.interval)
		return
	}

	p := &pendingEvent{event: e}
	d.wg.Add(1)
	p.timer = time.AfterFunc(d.interval, func() {
		defer d.wg.Done()
		d.mu.Lock()
		delete(d.pending, key)
		ev := p.event
		d.mu.Unlock()
		fire(ev)
	})
	d.pending[key] = p
}

// stopAndWait drops pending events and waits for the callbacks already running.
func (d *debouncer) stopAndWait() {
	d.mu.Lock()
	d.stopped = true
	for key, p := range d.pending {
		if p.timer.Stop() {
			d.wg.Done()
		}
		delete(d.pending, key)
	}
	d.mu.Unlock()
	d.wg.Wait()
}

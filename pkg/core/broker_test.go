package core_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/tome/pkg/core"
)

// watchRepo is a MockRepository that also implements core.Watchable.
type watchRepo struct {
	*MockRepository
	upstream chan core.Event
}

func (w *watchRepo) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	return w.upstream, nil
}

func TestEventBroker_Decoupling(t *testing.T) {
	// Unbuffered: any send blocks unless the service reads.
	repo := &watchRepo{MockRepository: NewMockRepository(), upstream: make(chan core.Event)}

	service := core.NewService(repo)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stream, err := service.Watch(ctx, "**/*.md")
	require.NoError(t, err)

	// Nobody reads stream yet; the producer must still finish.
	done := make(chan bool)
	go func() {
		defer close(done)
		for i := 0; i < 5; i++ {
			select {
			case repo.upstream <- core.Event{Type: core.EventModify, ID: "intro"}:
			case <-time.After(1 * time.Second):
				t.Error("Producer blocked (Service is not decoupling)")
				return
			}
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Timeout waiting for producer")
	}

	count := 0
	timeout := time.After(1 * time.Second)
	for i := 0; i < 5; i++ {
		select {
		case <-stream:
			count++
		case <-timeout:
			t.Fatal("Failed to read buffered events")
		}
	}
	assert.Equal(t, 5, count)
}

// dropCounter counts the warnings the broker logs for dropped events.
type dropCounter struct {
	slog.Handler
	drops atomic.Int32
}

func (d *dropCounter) Handle(ctx context.Context, r slog.Record) error {
	if strings.HasPrefix(r.Message, "event buffer full") {
		d.drops.Add(1)
	}
	return nil
}

func (d *dropCounter) Enabled(context.Context, slog.Level) bool { return true }

func TestEventBroker_DropsWhenFull(t *testing.T) {
	repo := &watchRepo{MockRepository: NewMockRepository(), upstream: make(chan core.Event)}
	counter := &dropCounter{Handler: slog.NewTextHandler(io.Discard, nil)}
	service := core.NewService(repo,
		core.WithEventBufferSize(2),
		core.WithServiceLogger(slog.New(counter)),
	)

	stream, err := service.Watch(context.Background(), "")
	require.NoError(t, err)

	for i := 0; i < 4; i++ {
		repo.upstream <- core.Event{Type: core.EventCreate, ID: "page"}
	}
	// Reading stream before both drops are logged would make room for a late event.
	require.Eventually(t, func() bool { return counter.drops.Load() == 2 }, time.Second, 5*time.Millisecond)
	close(repo.upstream)

	count := 0
	for range stream {
		count++
	}
	assert.Equal(t, 2, count)

	state := service.State().(core.ServiceState)
	assert.Equal(t, 2, state.DroppedEvents)
	assert.Equal(t, 0, state.Watchers)
}

package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Service handles the business logic around a docs tree and its sidebars.
type Service struct {
	repo            Repository
	logger          *slog.Logger
	eventBufferSize int
	watchers        int
	dropped         int
	lastCheck       *CheckSummary
	mu              sync.RWMutex
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithServiceLogger sets the logger of the service.
func WithServiceLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithEventBufferSize sets the size of the event broker buffer used by Watch.
func WithEventBufferSize(size int) ServiceOption {
	return func(s *Service) {
		if size > 0 {
			s.eventBufferSize = size
		}
	}
}

// NewService creates a new Service.
func NewService(repo Repository, opts ...ServiceOption) *Service {
	s := &Service{
		repo:            repo,
		logger:          slog.New(slog.DiscardHandler),
		eventBufferSize: 100,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Repository returns the underlying repository.
func (s *Service) Repository() Repository {
	return s.repo
}

// SaveDocument saves a document.
func (s *Service) SaveDocument(ctx context.Context, id string, content string, metadata Metadata) error {
	if id == "" {
		return ErrEmptyDocID
	}
	return s.repo.Save(ctx, Document{ID: id, Content: content, Metadata: metadata})
}

// GetDocument retrieves a document.
func (s *Service) GetDocument(ctx context.Context, id string) (Document, error) {
	if id == "" {
		return Document{}, ErrEmptyDocID
	}
	return s.repo.Get(ctx, id)
}

// ListDocuments retrieves all documents.
func (s *Service) ListDocuments(ctx context.Context) ([]Document, error) {
	return s.repo.List(ctx)
}

// DeleteDocument removes a document.
func (s *Service) DeleteDocument(ctx context.Context, id string) error {
	if id == "" {
		return ErrEmptyDocID
	}
	return s.repo.Delete(ctx, id)
}

// WithTransaction executes a function within a transaction.
// The change reason is read from ChangeReasonKey when present.
func (s *Service) WithTransaction(ctx context.Context, fn func(tx Transaction) error) error {
	tx, err := s.Begin(ctx)
	if err != nil {
		return err
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			s.logger.Warn("rollback failed", "error", rbErr)
		}
		return err
	}

	msg := "batch transaction"
	if val, ok := ctx.Value(ChangeReasonKey).(string); ok && val != "" {
		msg = val
	}
	return tx.Commit(ctx, msg)
}

// Begin initiates a transaction manually.
func (s *Service) Begin(ctx context.Context) (Transaction, error) {
	tr, ok := s.repo.(Transactional)
	if !ok {
		return nil, errors.New("repository does not support transactions")
	}
	return tr.Begin(ctx)
}

// Watch observes changes in the repository if supported.
// Events are relayed through a buffered broker so a slow consumer never
// blocks the repository watcher; events are dropped when the buffer is full.
func (s *Service) Watch(ctx context.Context, pattern string) (<-chan Event, error) {
	w, ok := s.repo.(Watchable)
	if !ok {
		return nil, errors.New("repository does not support watching")
	}
	upstream, err := w.Watch(ctx, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to start watcher: %w", err)
	}

	s.mu.RLock()
	size := s.eventBufferSize
	s.mu.RUnlock()

	out := make(chan Event, size)
	s.mu.Lock()
	s.watchers++
	s.mu.Unlock()
	go func() {
		defer close(out)
		defer func() {
			s.mu.Lock()
			s.watchers--
			s.mu.Unlock()
		}()
		for {
			select {
			case <-ctx.Done():
				return
			case e, ok := <-upstream:
				if !ok {
					return
				}
				select {
				case out <- e:
				default:
					s.mu.Lock()
					s.dropped++
					s.mu.Unlock()
					s.logger.Warn("event buffer full, dropping event", "id", e.ID, "type", e.Type)
				}
			}
		}
	}()
	return out, nil
}

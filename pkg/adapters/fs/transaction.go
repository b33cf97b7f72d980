package fs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/aretw0/tome/pkg/core"
)

var errTxClosed = errors.New("transaction closed")

// Transaction implements core.Transaction for the docs directory.
// Nothing touches the disk before Commit; Rollback only forgets the staged pages.
type Transaction struct {
	repo    *Repository
	staged  map[string]core.Document // ID -> Document
	deleted map[string]bool          // ID -> bool
	mu      sync.Mutex
	closed  bool
}

// NewTransaction creates a new transaction.
func NewTransaction(repo *Repository) *Transaction {
	return &Transaction{
		repo:    repo,
		staged:  make(map[string]core.Document),
		deleted: make(map[string]bool),
	}
}

// Save stages a document for saving.
func (t *Transaction) Save(ctx context.Context, doc core.Document) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return errTxClosed
	}
	if doc.ID == "" {
		return core.ErrEmptyDocID
	}
	t.staged[doc.ID] = doc
	delete(t.deleted, doc.ID)
	return nil
}

// Get retrieves a document, favoring staged changes.
func (t *Transaction) Get(ctx context.Context, id string) (core.Document, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return core.Document{}, errTxClosed
	}
	if t.deleted[id] {
		return core.Document{}, fmt.Errorf("%w: %s", core.ErrNotFound, id)
	}
	if doc, ok := t.staged[id]; ok {
		return doc, nil
	}
	return t.repo.Get(ctx, id)
}

// Delete stages a document for deletion.
func (t *Transaction) Delete(ctx context.Context, id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return errTxClosed
	}
	t.deleted[id] = true
	delete(t.staged, id)
	return nil
}

// Staged returns the IDs waiting to be written, sorted.
func (t *Transaction) Staged() []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	ids := make([]string, 0, len(t.staged))
	for id := range t.staged {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Commit serializes every staged page first, then writes them.
// A serialization failure leaves the tree untouched.
func (t *Transaction) Commit(ctx context.Context, changeReason string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return fmt.Errorf("transaction already closed")
	}
	if t.repo.readOnly {
		return core.ErrReadOnly
	}

	type pending struct {
		rel string
		doc core.Document
	}
	var writes []pending
	for id, doc := range t.staged {
		rel, _ := t.repo.locate(ctx, id)
		s, ok := t.repo.serializer(filepath.Ext(rel))
		if !ok {
			return fmt.Errorf("no serializer for %s", rel)
		}
		if _, err := s.Serialize(doc); err != nil {
			return fmt.Errorf("failed to serialize %s: %w", id, err)
		}
		writes = append(writes, pending{rel: rel, doc: doc})
	}
	sort.Slice(writes, func(i, j int) bool { return writes[i].rel < writes[j].rel })

	for _, w := range writes {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := t.repo.write(w.rel, w.doc); err != nil {
			return fmt.Errorf("failed to write %s: %w", w.doc.ID, err)
		}
	}

	for id := range t.deleted {
		rel, exists := t.repo.locate(ctx, id)
		if !exists {
			continue
		}
		if err := os.Remove(filepath.Join(t.repo.Path, filepath.FromSlash(rel))); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove %s: %w", id, err)
		}
		t.repo.cache.Delete(rel)
	}

	if err := t.repo.Flush(); err != nil {
		t.repo.config.Logger.Warn("failed to save cache", "error", err)
	}
	t.repo.config.Logger.Info("transaction committed",
		"reason", changeReason,
		"written", len(writes),
		"deleted", len(t.deleted),
	)

	t.closed = true
	return nil
}

// Rollback discards all staged changes.
func (t *Transaction) Rollback(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}
	t.staged = nil
	t.deleted = nil
	t.closed = true
	return nil
}

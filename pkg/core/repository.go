package core

import "context"

// Repository defines the contract for storing and retrieving the pages of a docs tree.
// Adhering to this interface keeps the core independent of where the pages live.
type Repository interface {
	// Save persists a document. It creates if not exists, or updates if it does.
	Save(ctx context.Context, doc Document) error
	// Get retrieves a document by its ID.
	Get(ctx context.Context, id string) (Document, error)
	// List returns all available documents.
	List(ctx context.Context) ([]Document, error)
	// Delete removes a document by its ID.
	Delete(ctx context.Context, id string) error
	// Initialize ensures the underlying storage is ready.
	Initialize(ctx context.Context) error
}

// CategoryLister is implemented by repositories that carry per-directory
// category metadata (e.g. _category_.yml files).
type CategoryLister interface {
	Categories(ctx context.Context) ([]CategoryMeta, error)
}

// Transaction defines the contract for a unit of work.
type Transaction interface {
	// Save stages a document for persistence.
	Save(ctx context.Context, doc Document) error
	// Get retrieves a document, preferring the staged version if it exists in the transaction.
	Get(ctx context.Context, id string) (Document, error)
	// Delete stages a document for removal.
	Delete(ctx context.Context, id string) error
	// Commit applies all staged changes.
	Commit(ctx context.Context, changeReason string) error
	// Rollback discards all staged changes.
	Rollback(ctx context.Context) error
}

// Transactional extends Repository to support transactions.
type Transactional interface {
	Repository
	Begin(ctx context.Context) (Transaction, error)
}

// Watchable is implemented by repositories that can report changes.
type Watchable interface {
	Watch(ctx context.Context, pattern string) (<-chan Event, error)
}

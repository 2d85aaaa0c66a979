package storage

import (
	"context"

	"github.com/gtfk/chatbot-nextjs-vercel/core"
)

// DocumentStore is the destination table of a seeding run.
// Each run replaces the table: DeleteAll first, then Insert.
// Implementations must be safe for sequential use; the seeder never issues
// two calls at once.
type DocumentStore interface {
	// DeleteAll removes every row from the table unconditionally.
	DeleteAll(ctx context.Context) error

	// Insert writes one or more rows in a single request or transaction.
	// Either every row is written or the call returns an error.
	// Stores that assign their own IDs set Row.ID on success.
	Insert(ctx context.Context, rows ...*core.Row) error

	// Count returns the number of rows currently in the table.
	Count(ctx context.Context) (int64, error)

	// Close releases the store's resources.
	Close() error
}

// RowLister is implemented by local stores that can read their rows back.
type RowLister interface {
	// Rows returns every stored row in insertion order.
	Rows(ctx context.Context) ([]*core.Row, error)
}

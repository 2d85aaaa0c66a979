package badger

import (
	"context"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/gtfk/chatbot-nextjs-vercel/core"
	"github.com/gtfk/chatbot-nextjs-vercel/storage"
)

// Store implements storage.DocumentStore for BadgerDB.
type Store struct {
	backend     *Backend
	idSeq       *badger.Sequence
	ownsBackend bool
}

var (
	_ storage.DocumentStore = (*Store)(nil)
	_ storage.RowLister     = (*Store)(nil)
)

// newStore creates a Store on top of an open backend.
func newStore(backend *Backend, ownsBackend bool) (*Store, error) {
	idSeq, err := backend.GetSequence(rowIDSeq)
	if err != nil {
		return nil, err
	}

	return &Store{
		backend:     backend,
		idSeq:       idSeq,
		ownsBackend: ownsBackend,
	}, nil
}

// NewStore opens (or creates) a BadgerDB directory at path and returns a
// document store that owns it.
func NewStore(path string) (storage.DocumentStore, error) {
	backend, err := OpenBackend(path, false)
	if err != nil {
		return nil, err
	}
	store, err := newStore(backend, true)
	if err != nil {
		backend.Close()
		return nil, err
	}
	return store, nil
}

// NewStoreWithBackend returns a document store sharing an existing backend.
// Closing the store does not close the backend.
func NewStoreWithBackend(backend *Backend) (*Store, error) {
	return newStore(backend, false)
}

// Close releases the ID sequence and, if owned, the backend.
func (s *Store) Close() error {
	if s.backend.IsClosed() {
		return nil
	}
	if err := s.idSeq.Release(); err != nil {
		return err
	}
	if s.ownsBackend {
		return s.backend.Close()
	}
	return nil
}

// DeleteAll drops every row. The ID sequence is not reset.
func (s *Store) DeleteAll(ctx context.Context) error {
	if err := s.check(ctx); err != nil {
		return err
	}
	deleted, err := s.backend.DeletePrefix([]byte(rowPrefix))
	if err != nil {
		return fmt.Errorf("%w: %w", storage.ErrDeleteFailed, err)
	}
	s.backend.logger.Debug("deleted rows", "count", deleted)
	return nil
}

// Insert writes rows in one transaction, assigning IDs from the sequence.
func (s *Store) Insert(ctx context.Context, rows ...*core.Row) error {
	if err := s.check(ctx); err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}

	ids := make([]core.ID, len(rows))
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		for i, row := range rows {
			if err := core.ValidateRow(row); err != nil {
				return err
			}

			nextID, err := s.idSeq.Next()
			if err != nil {
				return err
			}
			// BadgerDB sequences can return 0 on first call, so we skip it
			if nextID == 0 {
				nextID, err = s.idSeq.Next()
				if err != nil {
					return err
				}
			}
			ids[i] = core.ID(nextID)

			stored := *row
			stored.ID = ids[i]
			if err := tx.Set(makeRowKey(stored.ID), storage.MarshalRow(&stored)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return fmt.Errorf("%w: %w", storage.ErrInsertFailed, err)
	}

	for i, row := range rows {
		row.ID = ids[i]
	}
	return nil
}

// Count returns the number of stored rows.
func (s *Store) Count(ctx context.Context) (int64, error) {
	if err := s.check(ctx); err != nil {
		return 0, err
	}

	var count int64
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(rowPrefix)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", storage.ErrCountFailed, err)
	}
	return count, nil
}

// Rows returns every stored row in insertion order.
func (s *Store) Rows(ctx context.Context) ([]*core.Row, error) {
	if err := s.check(ctx); err != nil {
		return nil, err
	}

	var rows []*core.Row
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(rowPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			err := iter.Item().Value(func(val []byte) error {
				row, err := storage.UnmarshalRow(val)
				if err != nil {
					return err
				}
				rows = append(rows, row)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *Store) check(ctx context.Context) error {
	if s.backend.IsClosed() {
		return storage.ErrStorageClosed
	}
	return ctx.Err()
}

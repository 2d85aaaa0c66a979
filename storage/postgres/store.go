// Package postgres implements storage.DocumentStore over a direct Postgres
// connection to a pgvector table.
package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gtfk/chatbot-nextjs-vercel/core"
	"github.com/gtfk/chatbot-nextjs-vercel/storage"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
	pgxvec "github.com/pgvector/pgvector-go/pgx"
)

// DefaultTable matches the Supabase table.
const DefaultTable = "documents"

// Store implements storage.DocumentStore using pgx and pgvector.
type Store struct {
	db     *pgxpool.Pool
	table  string
	logger *slog.Logger
}

var (
	_ storage.DocumentStore = (*Store)(nil)
	_ storage.RowLister     = (*Store)(nil)
)

// NewStore connects to Postgres and returns a store writing to table.
func NewStore(ctx context.Context, connStr, table string) (storage.DocumentStore, error) {
	if table == "" {
		table = DefaultTable
	}
	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}
	// Every pooled connection learns the vector type OIDs before use.
	poolConfig.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return pgxvec.RegisterTypes(ctx, conn)
	}

	db, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}
	return &Store{
		db:     db,
		table:  quoteTable(table),
		logger: slog.Default().With("component", "postgres-store", "table", table),
	}, nil
}

// quoteTable sanitizes a possibly schema-qualified table name.
func quoteTable(table string) string {
	return pgx.Identifier(strings.Split(table, ".")).Sanitize()
}

// DeleteAll removes every row with the catch-all predicate id <> 0.
func (s *Store) DeleteAll(ctx context.Context) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}
	tag, err := s.db.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE id <> 0", s.table))
	if err != nil {
		return fmt.Errorf("%w: %w", storage.ErrDeleteFailed, err)
	}
	s.logger.Debug("cleared table", "deleted", tag.RowsAffected())
	return nil
}

// Insert writes rows in one transaction and sets each Row.ID from the
// table's generated key.
func (s *Store) Insert(ctx context.Context, rows ...*core.Row) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}
	if len(rows) == 0 {
		return nil
	}
	for _, row := range rows {
		if err := core.ValidateRow(row); err != nil {
			return fmt.Errorf("%w: %w", storage.ErrInsertFailed, err)
		}
	}

	query := fmt.Sprintf("INSERT INTO %s (content, embedding) VALUES ($1, $2) RETURNING id", s.table)
	ids := make([]int64, len(rows))

	err := pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		for i, row := range rows {
			if err := tx.QueryRow(ctx, query, row.Content, pgvector.NewVector(row.Embedding)).Scan(&ids[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %w", storage.ErrInsertFailed, err)
	}

	for i, row := range rows {
		row.ID = core.ID(ids[i])
	}
	return nil
}

// Count returns SELECT COUNT(*) of the table.
func (s *Store) Count(ctx context.Context) (int64, error) {
	if s.db == nil {
		return 0, storage.ErrStorageClosed
	}
	var count int64
	if err := s.db.QueryRow(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", s.table)).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: %w", storage.ErrCountFailed, err)
	}
	return count, nil
}

// Rows returns every row ordered by id. Position is the row's index in
// that order since the table does not store it.
func (s *Store) Rows(ctx context.Context) ([]*core.Row, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}
	rows, err := s.db.Query(ctx, fmt.Sprintf("SELECT id, content, embedding FROM %s ORDER BY id", s.table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*core.Row
	for rows.Next() {
		var (
			id        int64
			content   string
			embedding pgvector.Vector
		)
		if err := rows.Scan(&id, &content, &embedding); err != nil {
			return nil, err
		}
		position := len(out)
		out = append(out, &core.Row{
			ID:        core.ID(id),
			ChunkID:   core.ChunkID(position, content),
			Position:  position,
			Content:   content,
			Embedding: embedding.Slice(),
		})
	}
	return out, rows.Err()
}

// Close releases the underlying Postgres connection pool.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	s.db.Close()
	s.db = nil
	return nil
}

// Package sqlite implements storage.DocumentStore in a local SQLite file
// using the pure-Go modernc.org/sqlite driver. Embeddings are stored as
// little-endian float32 blobs.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gtfk/chatbot-nextjs-vercel/core"
	"github.com/gtfk/chatbot-nextjs-vercel/storage"
	_ "modernc.org/sqlite" // register pure-Go SQLite driver
)

// DefaultTable matches the remote table name.
const DefaultTable = "documents"

// Store implements storage.DocumentStore for SQLite.
type Store struct {
	db     *sql.DB
	table  string
	logger *slog.Logger
}

var (
	_ storage.DocumentStore = (*Store)(nil)
	_ storage.RowLister     = (*Store)(nil)
)

func newStore(ctx context.Context, dsn, table string) (*Store, error) {
	if table == "" {
		table = DefaultTable
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// One connection keeps ":memory:" databases alive and serializes writers.
	db.SetMaxOpenConns(1)

	s := &Store{
		db:     db,
		table:  quoteIdent(table),
		logger: slog.Default().With("component", "sqlite-store", "table", table),
	}
	if err := s.createSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewStore opens the SQLite database at dsn (a file path or ":memory:") and
// creates the table if it does not exist.
func NewStore(ctx context.Context, dsn, table string) (storage.DocumentStore, error) {
	return newStore(ctx, dsn, table)
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (s *Store) createSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		chunk_id INTEGER NOT NULL,
		position INTEGER NOT NULL,
		content TEXT NOT NULL,
		embedding BLOB NOT NULL
	)`, s.table))
	if err != nil {
		return fmt.Errorf("sqlite: create table: %w", err)
	}
	return nil
}

// DeleteAll removes every row with the catch-all predicate id <> 0.
func (s *Store) DeleteAll(ctx context.Context) error {
	res, err := s.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id <> 0", s.table))
	if err != nil {
		return fmt.Errorf("%w: %w", storage.ErrDeleteFailed, s.closedErr(err))
	}
	if n, err := res.RowsAffected(); err == nil {
		s.logger.Debug("cleared table", "deleted", n)
	}
	return nil
}

// Insert writes rows in one transaction and sets each Row.ID.
func (s *Store) Insert(ctx context.Context, rows ...*core.Row) error {
	if len(rows) == 0 {
		return nil
	}
	for _, row := range rows {
		if err := core.ValidateRow(row); err != nil {
			return fmt.Errorf("%w: %w", storage.ErrInsertFailed, err)
		}
	}

	ids, err := s.insertTx(ctx, rows)
	if err != nil {
		return fmt.Errorf("%w: %w", storage.ErrInsertFailed, s.closedErr(err))
	}
	for i, row := range rows {
		row.ID = core.ID(ids[i])
	}
	return nil
}

func (s *Store) insertTx(ctx context.Context, rows []*core.Row) ([]int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
		"INSERT INTO %s (chunk_id, position, content, embedding) VALUES (?, ?, ?, ?)", s.table))
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	ids := make([]int64, len(rows))
	for i, row := range rows {
		// SQLite integers are signed; chunk IDs round-trip through int64 bits.
		res, err := stmt.ExecContext(ctx, int64(row.ChunkID), row.Position, row.Content, storage.EncodeEmbedding(row.Embedding))
		if err != nil {
			return nil, err
		}
		if ids[i], err = res.LastInsertId(); err != nil {
			return nil, err
		}
	}
	return ids, tx.Commit()
}

// Count returns the number of rows in the table.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", s.table)).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: %w", storage.ErrCountFailed, s.closedErr(err))
	}
	return count, nil
}

// Rows returns every row ordered by id.
func (s *Store) Rows(ctx context.Context) ([]*core.Row, error) {
	rs, err := s.db.QueryContext(ctx, fmt.Sprintf(
		"SELECT id, chunk_id, position, content, embedding FROM %s ORDER BY id", s.table))
	if err != nil {
		return nil, s.closedErr(err)
	}
	defer rs.Close()

	var out []*core.Row
	for rs.Next() {
		var (
			id, chunkID int64
			row         core.Row
			blob        []byte
		)
		if err := rs.Scan(&id, &chunkID, &row.Position, &row.Content, &blob); err != nil {
			return nil, err
		}
		row.ID = core.ID(id)
		row.ChunkID = core.ID(chunkID)
		if row.Embedding, err = storage.DecodeEmbedding(blob); err != nil {
			return nil, err
		}
		out = append(out, &row)
	}
	return out, rs.Err()
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) closedErr(err error) error {
	if err != nil && strings.Contains(err.Error(), "sql: database is closed") {
		return storage.ErrStorageClosed
	}
	return err
}

// Package supabase implements storage.DocumentStore over the PostgREST API
// that every Supabase project exposes at {project}/rest/v1.
package supabase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/gtfk/chatbot-nextjs-vercel/core"
	"github.com/gtfk/chatbot-nextjs-vercel/storage"
	"github.com/supabase-community/postgrest-go"
)

const (
	// DefaultTable is the table the chatbot reads its context from.
	DefaultTable = "documents"

	restPath = "/rest/v1"
)

// ErrMissingURL is returned when no project URL is configured.
var ErrMissingURL = errors.New("supabase: project URL is required")

// document is the JSON shape of one inserted row. The table assigns id itself.
type document struct {
	Content   string    `json:"content"`
	Embedding []float32 `json:"embedding"`
}

// Store implements storage.DocumentStore for a Supabase table.
type Store struct {
	client *postgrest.Client
	table  string
	schema string
	logger *slog.Logger
	closed bool
}

var _ storage.DocumentStore = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithSchema selects a Postgres schema other than "public".
func WithSchema(schema string) Option {
	return func(s *Store) {
		s.schema = schema
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

func newStore(projectURL, key, table string, opts ...Option) (*Store, error) {
	if strings.TrimSpace(projectURL) == "" {
		return nil, ErrMissingURL
	}
	if table == "" {
		table = DefaultTable
	}

	s := &Store{
		table:  table,
		logger: slog.Default().With("component", "supabase-store"),
	}
	for _, opt := range opts {
		opt(s)
	}

	restURL, err := RestURL(projectURL)
	if err != nil {
		return nil, err
	}

	client := postgrest.NewClient(restURL, s.schema, nil)
	if client.ClientError != nil {
		return nil, fmt.Errorf("supabase: %w", client.ClientError)
	}
	if key != "" {
		client.SetApiKey(key).SetAuthToken(key)
	}
	s.client = client

	return s, nil
}

// NewStore returns a document store writing to table in the Supabase
// project at projectURL, authenticated with key.
func NewStore(projectURL, key, table string, opts ...Option) (storage.DocumentStore, error) {
	return newStore(projectURL, key, table, opts...)
}

// RestURL derives the PostgREST endpoint from a project URL.
// URLs that already end in /rest/v1 are returned unchanged.
func RestURL(projectURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(projectURL))
	if err != nil {
		return "", fmt.Errorf("supabase: invalid project URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("supabase: invalid project URL %q", projectURL)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	if !strings.HasSuffix(u.Path, restPath) {
		u.Path += restPath
	}
	return u.String(), nil
}

// DeleteAll removes every row with the catch-all filter id <> 0.
func (s *Store) DeleteAll(ctx context.Context) error {
	if err := s.check(ctx); err != nil {
		return err
	}

	_, _, err := s.client.From(s.table).Delete("minimal", "").Neq("id", "0").Execute()
	if err != nil {
		return fmt.Errorf("%w: %s: %w", storage.ErrDeleteFailed, s.table, err)
	}
	s.logger.Debug("cleared table", "table", s.table)
	return nil
}

// Insert posts rows as one JSON array. PostgREST runs the insert as a single
// statement, so either every row lands or none does.
func (s *Store) Insert(ctx context.Context, rows ...*core.Row) error {
	if err := s.check(ctx); err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}

	docs := make([]document, len(rows))
	for i, row := range rows {
		if err := core.ValidateRow(row); err != nil {
			return fmt.Errorf("%w: %w", storage.ErrInsertFailed, err)
		}
		docs[i] = document{Content: row.Content, Embedding: row.Embedding}
	}

	_, _, err := s.client.From(s.table).Insert(docs, false, "", "minimal", "").Execute()
	if err != nil {
		return fmt.Errorf("%w: %s: %w", storage.ErrInsertFailed, s.table, err)
	}
	return nil
}

// Count asks PostgREST for an exact count with a HEAD request.
func (s *Store) Count(ctx context.Context) (int64, error) {
	if err := s.check(ctx); err != nil {
		return 0, err
	}

	_, count, err := s.client.From(s.table).Select("id", "exact", true).Execute()
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", storage.ErrCountFailed, s.table, err)
	}
	return count, nil
}

// Close marks the store closed. The underlying HTTP client holds no resources.
func (s *Store) Close() error {
	s.closed = true
	return nil
}

// check guards each request; postgrest-go does not accept a context, so
// cancellation is only observed between requests.
func (s *Store) check(ctx context.Context) error {
	if s.closed {
		return storage.ErrStorageClosed
	}
	return ctx.Err()
}

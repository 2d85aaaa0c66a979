package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/gtfk/chatbot-nextjs-vercel/ai"
	"github.com/gtfk/chatbot-nextjs-vercel/core"
	"github.com/gtfk/chatbot-nextjs-vercel/splitter"
	"github.com/gtfk/chatbot-nextjs-vercel/storage"
)

// Seeder replaces the contents of a DocumentStore with the embedded chunks
// of one document. Calls to the embedder and the store never overlap.
type Seeder struct {
	embedder ai.Embedder
	store    storage.DocumentStore
	config   Config
	logger   *slog.Logger
	progress io.Writer
}

// Option configures a Seeder.
type Option func(*Seeder)

// WithLogger sets the logger used for phase and per-chunk messages.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Seeder) {
		s.logger = logger
	}
}

// WithProgress draws a progress bar on w while embedding.
func WithProgress(w io.Writer) Option {
	return func(s *Seeder) {
		s.progress = w
	}
}

// NewSeeder creates a seeder. The config is validated and normalized.
func NewSeeder(embedder ai.Embedder, store storage.DocumentStore, config Config, opts ...Option) (*Seeder, error) {
	if embedder == nil {
		return nil, fmt.Errorf("%w: embedder is required", ErrInvalidConfig)
	}
	if store == nil {
		return nil, fmt.Errorf("%w: store is required", ErrInvalidConfig)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	s := &Seeder{
		embedder: embedder,
		store:    store,
		config:   config,
		logger:   slog.Default().With("component", "seeder"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Config returns the normalized configuration.
func (s *Seeder) Config() Config {
	return s.config
}

// Run splits doc and replaces the store contents with its embedded chunks.
//
// The returned report is never nil and reflects the work done so far, even
// when Run fails. Embedding and delete failures abort the run; insert
// failures are logged, counted in Report.Failed and skipped.
func (s *Seeder) Run(ctx context.Context, doc *core.SourceDocument) (*core.Report, error) {
	start := time.Now()
	report := &core.Report{}
	defer func() {
		report.Elapsed = time.Since(start)
	}()

	if doc == nil {
		return report, fmt.Errorf("%w: document is nil", ErrNoChunks)
	}
	report.Pages = doc.Pages

	chunks, err := splitter.Split(doc.Text)
	if err != nil {
		return report, fmt.Errorf("failed to split document: %w", err)
	}
	report.Chunks = len(chunks)
	if len(chunks) == 0 {
		return report, ErrNoChunks
	}
	s.logger.Info("document split", "pages", doc.Pages, "chunks", len(chunks))

	switch s.config.Mode {
	case ModeBatch:
		err = s.runBatch(ctx, chunks, report)
	default:
		err = s.runStream(ctx, chunks, report)
	}
	if err != nil {
		return report, err
	}

	s.logger.Info("seeding complete",
		"inserted", report.Inserted, "failed", report.Failed, "elapsed", time.Since(start).Round(time.Millisecond))
	return report, nil
}

// runBatch embeds everything, then clears the table and inserts in batches.
func (s *Seeder) runBatch(ctx context.Context, chunks []core.Chunk, report *core.Report) error {
	s.logger.Info("generating embeddings", "chunks", len(chunks))

	tracker := newProgressTracker(s.progress, len(chunks), "Embedding")
	rows := make([]*core.Row, 0, len(chunks))
	for i, chunk := range chunks {
		vector, err := s.embed(ctx, chunk)
		if err != nil {
			return err
		}
		rows = append(rows, core.NewRow(chunk, vector))
		report.Embedded++
		tracker.Increment(1)
		s.logger.Debug("embedded chunk", "chunk", i+1, "total", len(chunks))
	}
	tracker.Finish()

	if err := s.clear(ctx); err != nil {
		return err
	}

	s.logger.Info("inserting rows", "rows", len(rows), "batchSize", s.config.BatchSize)
	batches := (len(rows) + s.config.BatchSize - 1) / s.config.BatchSize
	for b := 0; b < batches; b++ {
		start := b * s.config.BatchSize
		end := min(start+s.config.BatchSize, len(rows))
		batch := rows[start:end]

		if err := s.store.Insert(ctx, batch...); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			report.Failed += len(batch)
			s.logger.Error("batch insert failed", "batch", b+1, "batches", batches, "rows", len(batch), "err", err)
		} else {
			report.Inserted += len(batch)
			s.logger.Info("batch inserted", "batch", b+1, "batches", batches, "rows", len(batch))
		}

		if b < batches-1 {
			if err := sleep(ctx, s.config.InsertDelay); err != nil {
				return err
			}
		}
	}
	return nil
}

// runStream clears the table, then embeds and inserts one chunk at a time.
func (s *Seeder) runStream(ctx context.Context, chunks []core.Chunk, report *core.Report) error {
	if err := s.clear(ctx); err != nil {
		return err
	}

	s.logger.Info("generating embeddings and inserting rows", "chunks", len(chunks))
	tracker := newProgressTracker(s.progress, len(chunks), "Seeding")
	defer tracker.Finish()

	for i, chunk := range chunks {
		vector, err := s.embed(ctx, chunk)
		if err != nil {
			return err
		}
		report.Embedded++

		row := core.NewRow(chunk, vector)
		if err := s.store.Insert(ctx, row); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			report.Failed++
			s.logger.Error("chunk insert failed", "chunk", i+1, "total", len(chunks), "err", err)
		} else {
			report.Inserted++
			s.logger.Info("chunk saved", "chunk", i+1, "total", len(chunks), "id", chunk.ID)
		}
		tracker.Increment(1)

		if i < len(chunks)-1 {
			if err := sleep(ctx, s.config.InsertDelay); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Seeder) clear(ctx context.Context) error {
	s.logger.Info("deleting previous rows")
	if err := s.store.DeleteAll(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrClearFailed, err)
	}
	return nil
}

// embed requests the chunk's vector, retrying up to MaxAttempts.
func (s *Seeder) embed(ctx context.Context, chunk core.Chunk) ([]float32, error) {
	var vector []float32
	attempt := 0
	err := RetryWithBackoff(ctx, func() error {
		attempt++
		v, err := s.embedder.EmbedText(ctx, chunk.Content)
		if err == nil && len(v) == 0 {
			err = ai.ErrEmptyEmbedding
		}
		if err != nil {
			s.logger.Warn("embedding attempt failed", "chunk", chunk.Position+1, "attempt", attempt, "err", err)
			return err
		}
		if attempt > 1 {
			s.logger.Debug("embedding succeeded after retry", "chunk", chunk.Position+1, "attempt", attempt)
		}
		vector = v
		return nil
	}, s.config.MaxAttempts, s.config.RetryDelay)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: chunk %d after %d attempt(s): %w", ErrEmbeddingFailed, chunk.Position+1, attempt, err)
	}
	return vector, nil
}

package seed

import (
	"fmt"
	"strings"
	"time"
)

// Mode selects how chunks are embedded and written.
type Mode string

const (
	// ModeBatch embeds every chunk first, then clears the table and inserts
	// rows in batches. Embedding failures are not retried by default.
	ModeBatch Mode = "batch"

	// ModeStream clears the table first, then embeds and inserts one chunk at
	// a time with a pause between rows. A failed embedding is retried once.
	ModeStream Mode = "stream"
)

// ParseMode converts a user-supplied name into a Mode.
func ParseMode(name string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(name))); m {
	case ModeBatch, ModeStream:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, name)
}

const (
	// DefaultBatchSize is the number of rows per insert in batch mode.
	DefaultBatchSize = 100

	// DefaultInsertDelay is the pause between row inserts in stream mode.
	DefaultInsertDelay = 100 * time.Millisecond

	// DefaultRetryDelay is the pause before retrying a failed embedding.
	DefaultRetryDelay = 1 * time.Second
)

// Config holds configuration for a seeding run.
type Config struct {
	// Mode selects batch or stream seeding.
	Mode Mode

	// BatchSize is the number of rows per insert in batch mode.
	BatchSize int

	// InsertDelay is the pause after each insert call, except the last.
	// Zero disables it.
	InsertDelay time.Duration

	// MaxAttempts is the number of embedding attempts per chunk.
	MaxAttempts int

	// RetryDelay is the base delay for exponential backoff between attempts.
	RetryDelay time.Duration
}

// DefaultConfig returns the defaults for mode.
func DefaultConfig(mode Mode) Config {
	if mode == ModeBatch {
		return Config{
			Mode:        ModeBatch,
			BatchSize:   DefaultBatchSize,
			MaxAttempts: 1,
			RetryDelay:  DefaultRetryDelay,
		}
	}
	return Config{
		Mode:        ModeStream,
		BatchSize:   1,
		InsertDelay: DefaultInsertDelay,
		MaxAttempts: 2,
		RetryDelay:  DefaultRetryDelay,
	}
}

// Normalize fills zero counts with the defaults for the configured mode.
func (c *Config) Normalize() {
	if c.Mode == "" {
		c.Mode = ModeStream
	}
	def := DefaultConfig(c.Mode)
	if c.BatchSize <= 0 {
		c.BatchSize = def.BatchSize
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = def.MaxAttempts
	}
}

// Validate checks the configuration. It normalizes first.
func (c *Config) Validate() error {
	c.Normalize()

	if _, err := ParseMode(string(c.Mode)); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.InsertDelay < 0 {
		return fmt.Errorf("%w: insert delay must not be negative", ErrInvalidConfig)
	}
	if c.RetryDelay < 0 {
		return fmt.Errorf("%w: retry delay must not be negative", ErrInvalidConfig)
	}
	return nil
}

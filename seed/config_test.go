package seed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	m, err := ParseMode(" Batch ")
	require.NoError(t, err)
	assert.Equal(t, ModeBatch, m)

	m, err = ParseMode("stream")
	require.NoError(t, err)
	assert.Equal(t, ModeStream, m)

	_, err = ParseMode("parallel")
	assert.ErrorIs(t, err, ErrUnknownMode)
}

func TestDefaultConfig(t *testing.T) {
	batch := DefaultConfig(ModeBatch)
	assert.Equal(t, 100, batch.BatchSize)
	assert.Equal(t, 1, batch.MaxAttempts)
	assert.Zero(t, batch.InsertDelay)

	stream := DefaultConfig(ModeStream)
	assert.Equal(t, 1, stream.BatchSize)
	assert.Equal(t, 2, stream.MaxAttempts)
	assert.Equal(t, time.Second, stream.RetryDelay)
	assert.Equal(t, 100*time.Millisecond, stream.InsertDelay)
}

func TestConfigNormalize(t *testing.T) {
	cfg := Config{Mode: ModeBatch}
	cfg.Normalize()
	assert.Equal(t, 100, cfg.BatchSize)
	assert.Equal(t, 1, cfg.MaxAttempts)

	cfg = Config{}
	cfg.Normalize()
	assert.Equal(t, ModeStream, cfg.Mode)
	assert.Equal(t, 2, cfg.MaxAttempts)
	assert.Zero(t, cfg.InsertDelay, "delays are left as given")

	cfg = Config{Mode: ModeBatch, BatchSize: 10, MaxAttempts: 3}
	cfg.Normalize()
	assert.Equal(t, 10, cfg.BatchSize)
	assert.Equal(t, 3, cfg.MaxAttempts)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"defaults batch", DefaultConfig(ModeBatch), false},
		{"defaults stream", DefaultConfig(ModeStream), false},
		{"empty", Config{}, false},
		{"unknown mode", Config{Mode: "parallel"}, true},
		{"negative insert delay", Config{Mode: ModeStream, InsertDelay: -1}, true},
		{"negative retry delay", Config{Mode: ModeStream, RetryDelay: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

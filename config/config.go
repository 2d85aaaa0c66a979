package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/gtfk/chatbot-nextjs-vercel/ai"
	"github.com/gtfk/chatbot-nextjs-vercel/loader"
	"github.com/gtfk/chatbot-nextjs-vercel/seed"
	"github.com/gtfk/chatbot-nextjs-vercel/storage"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variable names. Secrets are never read from the YAML file.
const (
	EnvSupabaseURL      = "SUPABASE_URL"
	EnvSupabaseKey      = "SUPABASE_KEY"
	EnvHuggingFaceToken = "HUGGINGFACEHUB_API_TOKEN"
	EnvDatabaseURL      = "DATABASE_URL"
	EnvOpenAIKey        = "OPENAI_API_KEY"
)

const (
	// DefaultTable is the remote table the seeder replaces.
	DefaultTable = "documents"

	// DefaultSchema is the PostgREST schema holding DefaultTable.
	DefaultSchema = "public"

	// OpenAIHost is used by the openai provider when no host is configured.
	OpenAIHost = "https://api.openai.com/v1"

	// OpenAIModel is used by the openai provider when no model is configured.
	OpenAIModel = "text-embedding-3-small"
)

var (
	// ErrMissingEnvironment is returned when required variables are unset.
	ErrMissingEnvironment = errors.New("missing required environment variables")

	// ErrInvalidConfig is returned for malformed configuration values.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// StoreKind names a storage backend.
type StoreKind string

const (
	StoreSupabase StoreKind = "supabase"
	StorePostgres StoreKind = "postgres"
	StoreBadger   StoreKind = "badger"
	StoreSQLite   StoreKind = "sqlite"
)

// StoreKinds lists every supported store, in the order shown in help text.
var StoreKinds = []StoreKind{StoreSupabase, StorePostgres, StoreBadger, StoreSQLite}

// ParseStoreKind converts a user-supplied name into a StoreKind.
func ParseStoreKind(name string) (StoreKind, error) {
	k := StoreKind(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range StoreKinds {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", storage.ErrUnknownStore, name)
}

// DefaultStorePath returns the local path used by embedded stores.
func DefaultStorePath(kind StoreKind) string {
	switch kind {
	case StoreBadger:
		return "documents.badger"
	case StoreSQLite:
		return "documents.db"
	}
	return ""
}

// Config holds all configuration for the seeder.
type Config struct {
	Source    SourceConfig    `yaml:"source"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Store     StoreConfig     `yaml:"store"`
	Seed      SeedConfig      `yaml:"seed"`
	Logging   LoggingConfig   `yaml:"logging"`

	// Env carries the secrets. It is filled by Load and never serialized.
	Env Environment `yaml:"-"`
}

// SourceConfig selects the PDF to seed from.
type SourceConfig struct {
	File string `yaml:"file"`
}

// EmbeddingConfig selects the embedding provider.
type EmbeddingConfig struct {
	Provider string `yaml:"provider"` // "edge", "huggingface", "openai"
	Model    string `yaml:"model"`
	Host     string `yaml:"host"`     // overrides the provider's default endpoint
	Function string `yaml:"function"` // Edge Function name
}

// StoreConfig selects the destination table.
type StoreConfig struct {
	Kind   string `yaml:"kind"` // "supabase", "postgres", "badger", "sqlite"
	Table  string `yaml:"table"`
	Path   string `yaml:"path"` // badger directory or sqlite file
	Schema string `yaml:"schema"`
}

// SeedConfig tunes the pipeline. Zero values fall back to the mode defaults.
type SeedConfig struct {
	Mode        string         `yaml:"mode"` // "batch" or "stream"
	BatchSize   int            `yaml:"batch_size"`
	MaxAttempts int            `yaml:"max_attempts"`
	InsertDelay *time.Duration `yaml:"insert_delay"`
	RetryDelay  *time.Duration `yaml:"retry_delay"`
	Progress    bool           `yaml:"progress"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Environment holds the secrets read from the process environment.
type Environment struct {
	SupabaseURL      string
	SupabaseKey      string
	HuggingFaceToken string
	DatabaseURL      string
	OpenAIKey        string
}

// EnvironmentFrom reads the secrets through lookup, typically os.LookupEnv.
func EnvironmentFrom(lookup func(string) (string, bool)) Environment {
	get := func(name string) string {
		v, _ := lookup(name)
		return strings.TrimSpace(v)
	}
	return Environment{
		SupabaseURL:      get(EnvSupabaseURL),
		SupabaseKey:      get(EnvSupabaseKey),
		HuggingFaceToken: get(EnvHuggingFaceToken),
		DatabaseURL:      get(EnvDatabaseURL),
		OpenAIKey:        get(EnvOpenAIKey),
	}
}

// LoadDotEnv loads variables from the given .env files (".env" when none are
// given). Variables already set in the environment win. Missing files are
// ignored.
func LoadDotEnv(filenames ...string) error {
	if len(filenames) == 0 {
		filenames = []string{".env"}
	}
	for _, name := range filenames {
		if err := godotenv.Load(name); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", name, err)
		}
	}
	return nil
}

// DefaultConfig returns the default configuration: stream mode with the
// Edge Function embedder writing to the Supabase table.
func DefaultConfig() *Config {
	return &Config{
		Source: SourceConfig{
			File: loader.DefaultPath,
		},
		Embedding: EmbeddingConfig{
			Provider: string(ai.ProviderEdge),
			Function: ai.DefaultFunction,
		},
		Store: StoreConfig{
			Kind:   string(StoreSupabase),
			Table:  DefaultTable,
			Schema: DefaultSchema,
		},
		Seed: SeedConfig{
			Mode: string(seed.ModeStream),
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from a YAML file layered over the defaults and
// attaches the process environment. An empty path yields the defaults; a
// named file that cannot be read is an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.Env = EnvironmentFrom(os.LookupEnv)

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, path, err)
	}

	return cfg, nil
}

// Save writes the configuration to a YAML file. Secrets are not written.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate checks the configuration and the secrets required by the selected
// embedder and store. Every missing variable is named in the error.
func (c *Config) Validate() error {
	provider, err := ai.ParseProvider(c.Embedding.Provider)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	kind, err := c.validateStore()
	if err != nil {
		return err
	}
	if _, err := c.SeedConfig(); err != nil {
		return err
	}
	if strings.TrimSpace(c.Source.File) == "" {
		return fmt.Errorf("%w: source file is required", ErrInvalidConfig)
	}

	var missing requirements
	switch provider {
	case ai.ProviderEdge:
		missing.need(EnvSupabaseURL, c.Env.SupabaseURL)
		missing.need(EnvSupabaseKey, c.Env.SupabaseKey)
	case ai.ProviderHuggingFace:
		missing.need(EnvHuggingFaceToken, c.Env.HuggingFaceToken)
	case ai.ProviderOpenAI:
		if c.Embedding.Host == "" {
			missing.need(EnvOpenAIKey, c.Env.OpenAIKey)
		}
	}
	c.storeSecrets(kind, &missing)
	return missing.err()
}

// ValidateStore checks only what is needed to open the configured store.
func (c *Config) ValidateStore() error {
	kind, err := c.validateStore()
	if err != nil {
		return err
	}
	var missing requirements
	c.storeSecrets(kind, &missing)
	return missing.err()
}

func (c *Config) validateStore() (StoreKind, error) {
	kind, err := ParseStoreKind(c.Store.Kind)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if kind != StoreBadger && strings.TrimSpace(c.Store.Table) == "" {
		return "", fmt.Errorf("%w: store table is required", ErrInvalidConfig)
	}
	return kind, nil
}

func (c *Config) storeSecrets(kind StoreKind, missing *requirements) {
	switch kind {
	case StoreSupabase:
		missing.need(EnvSupabaseURL, c.Env.SupabaseURL)
		missing.need(EnvSupabaseKey, c.Env.SupabaseKey)
	case StorePostgres:
		missing.need(EnvDatabaseURL, c.Env.DatabaseURL)
	}
}

// requirements collects the names of unset variables, without duplicates.
type requirements []string

func (r *requirements) need(name, value string) {
	if value != "" {
		return
	}
	for _, m := range *r {
		if m == name {
			return
		}
	}
	*r = append(*r, name)
}

func (r requirements) err() error {
	if len(r) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrMissingEnvironment, strings.Join(r, ", "))
}

// StoreKind returns the parsed store kind.
func (c *Config) StoreKind() (StoreKind, error) {
	return ParseStoreKind(c.Store.Kind)
}

// StorePath returns the configured local path or the default for the kind.
func (c *Config) StorePath() string {
	if c.Store.Path != "" {
		return c.Store.Path
	}
	kind, _ := c.StoreKind()
	return DefaultStorePath(kind)
}

// AIConfig builds the embedder configuration, wiring secrets by provider.
func (c *Config) AIConfig() (*ai.Config, error) {
	provider, err := ai.ParseProvider(c.Embedding.Provider)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	cfg := ai.NewConfig(ai.WithProvider(provider))
	if c.Embedding.Model != "" {
		cfg.Model = c.Embedding.Model
	}
	if c.Embedding.Function != "" {
		cfg.Function = c.Embedding.Function
	}
	cfg.Host = c.Embedding.Host

	switch provider {
	case ai.ProviderEdge:
		if cfg.Host == "" {
			cfg.Host = c.Env.SupabaseURL
		}
		cfg.Token = c.Env.SupabaseKey
	case ai.ProviderHuggingFace:
		cfg.Token = c.Env.HuggingFaceToken
	case ai.ProviderOpenAI:
		if cfg.Host == "" {
			cfg.Host = OpenAIHost
		}
		if c.Embedding.Model == "" {
			cfg.Model = OpenAIModel
		}
		cfg.Token = c.Env.OpenAIKey
	}

	cfg.Normalize()
	return cfg, nil
}

// SeedConfig builds the pipeline configuration. Values left unset take the
// defaults of the selected mode.
func (c *Config) SeedConfig() (seed.Config, error) {
	mode := seed.ModeStream
	if c.Seed.Mode != "" {
		m, err := seed.ParseMode(c.Seed.Mode)
		if err != nil {
			return seed.Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
		mode = m
	}

	cfg := seed.DefaultConfig(mode)
	if c.Seed.BatchSize < 0 {
		return seed.Config{}, fmt.Errorf("%w: batch size must not be negative", ErrInvalidConfig)
	}
	if c.Seed.MaxAttempts < 0 {
		return seed.Config{}, fmt.Errorf("%w: max attempts must not be negative", ErrInvalidConfig)
	}
	if c.Seed.BatchSize > 0 {
		cfg.BatchSize = c.Seed.BatchSize
	}
	if c.Seed.MaxAttempts > 0 {
		cfg.MaxAttempts = c.Seed.MaxAttempts
	}
	if c.Seed.InsertDelay != nil {
		cfg.InsertDelay = *c.Seed.InsertDelay
	}
	if c.Seed.RetryDelay != nil {
		cfg.RetryDelay = *c.Seed.RetryDelay
	}

	if err := cfg.Validate(); err != nil {
		return seed.Config{}, err
	}
	return cfg, nil
}

package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gtfk/chatbot-nextjs-vercel/config"
	"github.com/gtfk/chatbot-nextjs-vercel/core"
	"github.com/gtfk/chatbot-nextjs-vercel/loader"
	"github.com/gtfk/chatbot-nextjs-vercel/seed"
	"github.com/gtfk/chatbot-nextjs-vercel/splitter"
	"github.com/gtfk/chatbot-nextjs-vercel/storage"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "seeder",
		Usage: "Load a PDF, embed its chunks and replace the documents table",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "Path to a .env file loaded before reading the environment",
				Value: ".env",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "seed",
				Usage:  "Replace the table contents with the embedded chunks of a PDF",
				Action: seedCommand,
				Flags:  seedFlags(),
			},
			{
				Name:   "inspect",
				Usage:  "Load and split a PDF without embedding or writing anything",
				Action: inspectCommand,
				Flags: []cli.Flag{
					configFlag(),
					fileFlag(),
					&cli.IntFlag{
						Name:  "show",
						Usage: "Print the first N chunks",
					},
				},
			},
			{
				Name:   "count",
				Usage:  "Print the number of rows in the configured store",
				Action: countCommand,
				Flags:  append([]cli.Flag{configFlag()}, storeFlags()...),
			},
			{
				Name:   "list",
				Usage:  "List the rows of a local store",
				Action: listCommand,
				Flags:  append([]cli.Flag{configFlag()}, storeFlags()...),
			},
		},
	}
}

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to a YAML configuration file",
	}
}

func fileFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "file",
		Aliases: []string{"f"},
		Usage:   "Path to the PDF to seed from",
		Value:   loader.DefaultPath,
	}
}

func storeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "store",
			Usage: "Destination store (supabase, postgres, badger, sqlite)",
			Value: string(config.StoreSupabase),
		},
		&cli.StringFlag{
			Name:  "table",
			Usage: "Destination table name",
			Value: config.DefaultTable,
		},
		&cli.StringFlag{
			Name:  "store-path",
			Usage: "Directory (badger) or file (sqlite) for local stores",
		},
	}
}

func seedFlags() []cli.Flag {
	flags := []cli.Flag{
		configFlag(),
		fileFlag(),
		&cli.StringFlag{
			Name:  "mode",
			Usage: "Seeding mode (stream, batch)",
			Value: string(seed.ModeStream),
		},
		&cli.StringFlag{
			Name:  "embedder",
			Usage: "Embedding provider (edge, huggingface, openai)",
			Value: "edge",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name (huggingface, openai)",
		},
		&cli.StringFlag{
			Name:  "embedding-host",
			Usage: "Embedding service host URL, overriding the provider default",
		},
		&cli.StringFlag{
			Name:  "function",
			Usage: "Edge Function name",
			Value: "embed",
		},
	}
	flags = append(flags, storeFlags()...)
	return append(flags,
		&cli.IntFlag{
			Name:  "batch-size",
			Usage: "Rows per insert in batch mode",
			Value: seed.DefaultBatchSize,
		},
		&cli.DurationFlag{
			Name:  "insert-delay",
			Usage: "Pause between inserts (default 100ms in stream mode, none in batch mode)",
		},
		&cli.IntFlag{
			Name:  "max-attempts",
			Usage: "Embedding attempts per chunk (default 2 in stream mode, 1 in batch mode)",
		},
		&cli.DurationFlag{
			Name:  "retry-delay",
			Usage: "Base delay for exponential backoff",
			Value: seed.DefaultRetryDelay,
		},
		&cli.BoolFlag{
			Name:  "progress",
			Usage: "Show a progress bar",
		},
	)
}

// loadConfig layers the YAML file, command flags and environment.
func loadConfig(c *cli.Context) (*config.Config, error) {
	if err := config.LoadDotEnv(c.String("env-file")); err != nil {
		return nil, err
	}

	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if !c.IsSet("log-level") && cfg.Logging.Level != "" {
		if err := configureLogger(cfg.Logging.Level); err != nil {
			return nil, err
		}
	}

	setString := func(flag string, dst *string) {
		if c.IsSet(flag) {
			*dst = c.String(flag)
		}
	}
	setString("file", &cfg.Source.File)
	setString("embedder", &cfg.Embedding.Provider)
	setString("embedding-model", &cfg.Embedding.Model)
	setString("embedding-host", &cfg.Embedding.Host)
	setString("function", &cfg.Embedding.Function)
	setString("store", &cfg.Store.Kind)
	setString("table", &cfg.Store.Table)
	setString("store-path", &cfg.Store.Path)
	setString("mode", &cfg.Seed.Mode)

	if c.IsSet("batch-size") {
		cfg.Seed.BatchSize = c.Int("batch-size")
	}
	if c.IsSet("max-attempts") {
		cfg.Seed.MaxAttempts = c.Int("max-attempts")
	}
	if c.IsSet("insert-delay") {
		d := c.Duration("insert-delay")
		cfg.Seed.InsertDelay = &d
	}
	if c.IsSet("retry-delay") {
		d := c.Duration("retry-delay")
		cfg.Seed.RetryDelay = &d
	}
	if c.IsSet("progress") {
		cfg.Seed.Progress = c.Bool("progress")
	}

	return cfg, nil
}

func seedCommand(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	// Secrets are checked before the PDF is opened or anything is sent.
	if err := cfg.Validate(); err != nil {
		return err
	}

	seedConfig, err := cfg.SeedConfig()
	if err != nil {
		return err
	}

	aiConfig, err := cfg.AIConfig()
	if err != nil {
		return err
	}
	embedder, err := newEmbedder(aiConfig)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Source: %s\n", cfg.Source.File)
	fmt.Fprintf(os.Stderr, "Mode: %s\n", seedConfig.Mode)
	fmt.Fprintf(os.Stderr, "Embedder: %s\n", describeEmbedder(aiConfig))
	fmt.Fprintf(os.Stderr, "Store: %s\n", describeStore(cfg))
	fmt.Fprintln(os.Stderr)

	doc, err := loader.LoadPDF(ctx, cfg.Source.File)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Loaded %d page(s), %d characters\n", doc.Pages, len([]rune(doc.Text)))

	store, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer store.Close()

	opts := []seed.Option{}
	if cfg.Seed.Progress {
		opts = append(opts, seed.WithProgress(os.Stderr))
	}
	seeder, err := seed.NewSeeder(embedder, store, seedConfig, opts...)
	if err != nil {
		return err
	}

	report, err := seeder.Run(ctx, doc)
	printReport(report)
	if err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}
	if !report.Complete() {
		slog.Warn("some rows were not inserted", "failed", report.Failed)
	}
	return nil
}

func inspectCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	doc, err := loader.LoadPDF(c.Context, cfg.Source.File)
	if err != nil {
		return err
	}
	chunks, err := splitter.Split(doc.Text)
	if err != nil {
		return err
	}

	fmt.Printf("File: %s\n", doc.Path)
	fmt.Printf("Pages: %d\n", doc.Pages)
	fmt.Printf("Characters: %d\n", len([]rune(doc.Text)))
	fmt.Printf("Chunks: %d (size %d, overlap %d)\n", len(chunks), splitter.ChunkSize, splitter.ChunkOverlap)

	show := min(c.Int("show"), len(chunks))
	for _, chunk := range chunks[:max(show, 0)] {
		fmt.Printf("\n[%d] %016x (%d chars)\n%s\n", chunk.Position, uint64(chunk.ID), len([]rune(chunk.Content)), chunk.Content)
	}
	return nil
}

func countCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if err := cfg.ValidateStore(); err != nil {
		return err
	}

	store, err := openStore(c.Context, cfg)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer store.Close()

	n, err := store.Count(c.Context)
	if err != nil {
		return err
	}
	fmt.Println(n)
	return nil
}

func listCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if err := cfg.ValidateStore(); err != nil {
		return err
	}

	store, err := openStore(c.Context, cfg)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer store.Close()

	lister, ok := store.(storage.RowLister)
	if !ok {
		return fmt.Errorf("store %q cannot list rows", cfg.Store.Kind)
	}
	rows, err := lister.Rows(c.Context)
	if err != nil {
		return err
	}
	for _, row := range rows {
		fmt.Printf("%d\t%d\t%d\t%s\n", row.ID, row.Position, len(row.Embedding), preview(row.Content, 60))
	}
	return nil
}

func printReport(report *core.Report) {
	if report == nil {
		return
	}
	fmt.Fprintln(os.Stderr)
	fmt.Fprintf(os.Stderr, "Chunks: %d\n", report.Chunks)
	fmt.Fprintf(os.Stderr, "Embedded: %d\n", report.Embedded)
	fmt.Fprintf(os.Stderr, "Inserted: %d\n", report.Inserted)
	fmt.Fprintf(os.Stderr, "Failed: %d\n", report.Failed)
	fmt.Fprintf(os.Stderr, "Elapsed: %s\n", report.Elapsed.Round(time.Millisecond))
}

func preview(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

func setupLogger(c *cli.Context) error {
	return configureLogger(c.String("log-level"))
}

func configureLogger(levelStr string) error {
	levelStr = strings.ToLower(levelStr)

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}

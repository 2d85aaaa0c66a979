package main

import (
	"context"
	"fmt"

	"github.com/gtfk/chatbot-nextjs-vercel/ai"
	"github.com/gtfk/chatbot-nextjs-vercel/ai/edge"
	"github.com/gtfk/chatbot-nextjs-vercel/ai/huggingface"
	"github.com/gtfk/chatbot-nextjs-vercel/ai/openai"
	"github.com/gtfk/chatbot-nextjs-vercel/config"
	"github.com/gtfk/chatbot-nextjs-vercel/storage"
	"github.com/gtfk/chatbot-nextjs-vercel/storage/badger"
	"github.com/gtfk/chatbot-nextjs-vercel/storage/postgres"
	"github.com/gtfk/chatbot-nextjs-vercel/storage/sqlite"
	"github.com/gtfk/chatbot-nextjs-vercel/storage/supabase"
)

func newEmbedder(cfg *ai.Config) (ai.Embedder, error) {
	switch cfg.Provider {
	case ai.ProviderEdge:
		return edge.NewEmbedder(cfg)
	case ai.ProviderHuggingFace:
		return huggingface.NewEmbedder(cfg)
	case ai.ProviderOpenAI:
		return openai.NewEmbedder(cfg)
	}
	return nil, fmt.Errorf("%w: %q", ai.ErrUnknownProvider, cfg.Provider)
}

func openStore(ctx context.Context, cfg *config.Config) (storage.DocumentStore, error) {
	kind, err := cfg.StoreKind()
	if err != nil {
		return nil, err
	}

	switch kind {
	case config.StoreSupabase:
		return supabase.NewStore(cfg.Env.SupabaseURL, cfg.Env.SupabaseKey, cfg.Store.Table,
			supabase.WithSchema(cfg.Store.Schema))
	case config.StorePostgres:
		return postgres.NewStore(ctx, cfg.Env.DatabaseURL, cfg.Store.Table)
	case config.StoreBadger:
		return badger.NewStore(cfg.StorePath())
	case config.StoreSQLite:
		return sqlite.NewStore(ctx, cfg.StorePath(), cfg.Store.Table)
	}
	return nil, fmt.Errorf("%w: %q", storage.ErrUnknownStore, kind)
}

func describeEmbedder(cfg *ai.Config) string {
	switch cfg.Provider {
	case ai.ProviderEdge:
		return fmt.Sprintf("edge function %q at %s", cfg.Function, cfg.Host)
	case ai.ProviderHuggingFace:
		if cfg.Host != "" {
			return fmt.Sprintf("huggingface %s at %s", cfg.Model, cfg.Host)
		}
		return "huggingface " + cfg.Model
	}
	return fmt.Sprintf("%s %s at %s", cfg.Provider, cfg.Model, cfg.Host)
}

func describeStore(cfg *config.Config) string {
	kind, _ := cfg.StoreKind()
	switch kind {
	case config.StoreBadger:
		return fmt.Sprintf("badger %s", cfg.StorePath())
	case config.StoreSQLite:
		return fmt.Sprintf("sqlite %s (table %s)", cfg.StorePath(), cfg.Store.Table)
	}
	return fmt.Sprintf("%s (table %s)", kind, cfg.Store.Table)
}

// Package embedding computes text embeddings through the provider, with a
// one-shot fallback to a cheaper model when the primary model's quota is
// exhausted.
package embedding

import (
	"context"
	"fmt"

	"docchat/internal/config"
	"docchat/internal/llm"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/embeddings"
)

type queryEmbedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Embedder embeds text against a primary model and retries once against the
// fallback model when the primary fails on quota. Both tiers share the same
// provider credential. There is no local caching: every call recomputes.
type Embedder struct {
	primaryModel  string
	fallbackModel string
	primary       queryEmbedder
	fallback      queryEmbedder
}

// New builds both embedding tiers from the process configuration.
func New(cfg *config.Config) (*Embedder, error) {
	primary, err := newClient(cfg, cfg.EmbeddingModel)
	if err != nil {
		return nil, fmt.Errorf("embedding model %s: %w", cfg.EmbeddingModel, err)
	}
	fallback, err := newClient(cfg, cfg.EmbeddingFallback)
	if err != nil {
		return nil, fmt.Errorf("embedding model %s: %w", cfg.EmbeddingFallback, err)
	}
	return &Embedder{
		primaryModel:  cfg.EmbeddingModel,
		fallbackModel: cfg.EmbeddingFallback,
		primary:       primary,
		fallback:      fallback,
	}, nil
}

func newClient(cfg *config.Config, model string) (*embeddings.EmbedderImpl, error) {
	client, err := llm.NewEmbeddingClient(cfg, model)
	if err != nil {
		return nil, err
	}
	return embeddings.NewEmbedder(client)
}

// Embed returns the embedding vector for text. A non-quota failure of the
// primary tier, or any failure of the fallback tier, propagates unchanged.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vec, model, err := llm.RunTiered(ctx, []llm.Tier[[]float32]{
		{Model: e.primaryModel, Run: func(ctx context.Context) ([]float32, error) {
			return e.primary.EmbedQuery(ctx, text)
		}},
		{Model: e.fallbackModel, Run: func(ctx context.Context) ([]float32, error) {
			return e.fallback.EmbedQuery(ctx, text)
		}},
	})
	if err != nil {
		return nil, err
	}
	log.Debug().Str("model", model).Int("dimensions", len(vec)).Msg("embedded text")
	return vec, nil
}

package llm

import (
	"strings"

	"docchat/internal/config"

	"github.com/tmc/langchaingo/llms/openai"
)

// NewChatClient builds an OpenAI-compatible completion client for the given
// model, sharing the credential and base URL from the process configuration.
func NewChatClient(cfg *config.Config, model string) (*openai.LLM, error) {
	return openai.New(clientOptions(cfg, openai.WithModel(model))...)
}

// NewEmbeddingClient builds a client whose CreateEmbedding calls use the
// given embedding model.
func NewEmbeddingClient(cfg *config.Config, model string) (*openai.LLM, error) {
	return openai.New(clientOptions(cfg, openai.WithEmbeddingModel(model))...)
}

func clientOptions(cfg *config.Config, modelOpt openai.Option) []openai.Option {
	opts := []openai.Option{
		openai.WithToken(strings.TrimPrefix(cfg.OpenAIKey, "Bearer ")),
		modelOpt,
	}
	if cfg.OpenAIBase != "" {
		opts = append(opts, openai.WithBaseURL(cfg.OpenAIBase))
	}
	return opts
}

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Defaults applied when the config file leaves a field empty.
const (
	DefaultAddr              = ":8080"
	DefaultEmbeddingModel    = "text-embedding-3-small"
	DefaultEmbeddingFallback = "text-embedding-ada-002"
	DefaultInferenceModel    = "gpt-4o"
	DefaultInferenceFallback = "gpt-3.5-turbo"
	DefaultTopK              = 5
	DefaultChunkSize         = 1000
)

type Config struct {
	Addr        string `yaml:"addr"`
	DatabaseURL string `yaml:"database_url"`
	DatabaseKey string `yaml:"database_key"`
	Debug       bool   `yaml:"debug"`

	OpenAIKey  string `yaml:"openai_key"`
	OpenAIBase string `yaml:"openai_base"`

	EmbeddingModel    string `yaml:"embedding_model"`
	EmbeddingFallback string `yaml:"embedding_fallback"`
	InferenceModel    string `yaml:"inference_model"`
	InferenceFallback string `yaml:"inference_fallback"`

	TopK      int `yaml:"top_k"`
	ChunkSize int `yaml:"chunk_size"`
}

// Load reads the yaml config at path and fills in defaults. The OpenAI key
// may be left out of the file and supplied via the OPENAI_API_KEY environment
// variable; without a key the process cannot start.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.EmbeddingModel == "" {
		cfg.EmbeddingModel = DefaultEmbeddingModel
	}
	if cfg.EmbeddingFallback == "" {
		cfg.EmbeddingFallback = DefaultEmbeddingFallback
	}
	if cfg.InferenceModel == "" {
		cfg.InferenceModel = DefaultInferenceModel
	}
	if cfg.InferenceFallback == "" {
		cfg.InferenceFallback = DefaultInferenceFallback
	}
	if cfg.TopK <= 0 {
		cfg.TopK = DefaultTopK
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = DefaultChunkSize
	}

	if cfg.OpenAIKey == "" {
		cfg.OpenAIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.OpenAIKey == "" {
		return nil, fmt.Errorf("openai_key is not set in %s and OPENAI_API_KEY is empty", path)
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("database_url is not set in %s", path)
	}

	return &cfg, nil
}

package rag

import (
	"context"
	"fmt"

	"docchat/internal/config"
	"docchat/internal/llm"
	"docchat/internal/models"

	"github.com/tmc/langchaingo/llms"
)

const systemPromptTemplate = `Anda adalah AI assistant yang membantu menjawab pertanyaan berdasarkan dokumen yang telah di-upload.

Gunakan konteks berikut untuk menjawab pertanyaan user:
%s

Jika informasi tidak tersedia dalam konteks, katakan bahwa Anda tidak memiliki informasi tersebut dalam database.
Selalu berikan jawaban dalam bahasa Indonesia yang jelas dan informatif.
Jika memungkinkan, sebutkan sumber dokumen yang Anda gunakan untuk menjawab.`

type contentGenerator interface {
	GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error)
}

// Streamer streams completions with the same tiering as the embedder: try
// the primary model, retry once on the fallback model when the primary fails
// on quota before producing output.
type Streamer struct {
	primaryModel  string
	fallbackModel string
	primary       contentGenerator
	fallback      contentGenerator
}

// NewStreamer builds both completion tiers from the process configuration.
func NewStreamer(cfg *config.Config) (*Streamer, error) {
	primary, err := llm.NewChatClient(cfg, cfg.InferenceModel)
	if err != nil {
		return nil, fmt.Errorf("inference model %s: %w", cfg.InferenceModel, err)
	}
	fallback, err := llm.NewChatClient(cfg, cfg.InferenceFallback)
	if err != nil {
		return nil, fmt.Errorf("inference model %s: %w", cfg.InferenceFallback, err)
	}
	return &Streamer{
		primaryModel:  cfg.InferenceModel,
		fallbackModel: cfg.InferenceFallback,
		primary:       primary,
		fallback:      fallback,
	}, nil
}

// Stream prepends the context-bearing system message to the conversation and
// streams the completion through emit. Fallback to the cheaper model only
// happens while nothing has been emitted yet; once tokens are on the wire the
// attempt's failure terminates the stream, so a failed attempt's partial
// output is never merged with a fallback's.
func (s *Streamer) Stream(ctx context.Context, messages []models.ChatMessage, contextBlock string, emit func(token string) error) (string, error) {
	prompt := buildMessages(messages, contextBlock)

	forwarded := false
	_, model, err := llm.RunTiered(ctx, []llm.Tier[struct{}]{
		{Model: s.primaryModel, Run: s.attempt(s.primary, prompt, &forwarded, emit)},
		{Model: s.fallbackModel, Run: s.attempt(s.fallback, prompt, &forwarded, emit)},
	})
	if err != nil {
		return model, err
	}
	return model, nil
}

func (s *Streamer) attempt(client contentGenerator, prompt []llms.MessageContent, forwarded *bool, emit func(string) error) func(context.Context) (struct{}, error) {
	return func(ctx context.Context) (struct{}, error) {
		_, err := client.GenerateContent(ctx, prompt, llms.WithStreamingFunc(func(ctx context.Context, chunk []byte) error {
			if len(chunk) == 0 {
				return nil
			}
			*forwarded = true
			return emit(string(chunk))
		}))
		if err != nil && *forwarded {
			return struct{}{}, &streamInterruptedError{cause: err}
		}
		return struct{}{}, err
	}
}

// streamInterruptedError marks a failure that arrived after tokens were
// already forwarded. Its message deliberately omits the cause's text so the
// quota classifier never advances a tier for it.
type streamInterruptedError struct {
	cause error
}

func (e *streamInterruptedError) Error() string {
	return "response stream interrupted after partial output"
}

func (e *streamInterruptedError) Unwrap() error {
	return e.cause
}

func buildMessages(history []models.ChatMessage, contextBlock string) []llms.MessageContent {
	prompt := make([]llms.MessageContent, 0, len(history)+1)
	prompt = append(prompt, llms.TextParts(llms.ChatMessageTypeSystem, fmt.Sprintf(systemPromptTemplate, contextBlock)))
	for _, m := range history {
		role := llms.ChatMessageTypeHuman
		switch m.Role {
		case models.RoleAssistant:
			role = llms.ChatMessageTypeAI
		case models.RoleSystem:
			role = llms.ChatMessageTypeSystem
		}
		prompt = append(prompt, llms.TextParts(role, m.Content))
	}
	return prompt
}

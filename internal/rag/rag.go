// Package rag orchestrates the two pipelines: answering a chat query from
// retrieved context and ingesting an uploaded document into the store.
package rag

import (
	"context"
	"errors"
	"fmt"

	"docchat/internal/models"
	"docchat/internal/retriever"
	"docchat/internal/store"

	"github.com/rs/zerolog/log"
)

// ErrNoMessages is returned when a query arrives without a user message to
// answer.
var ErrNoMessages = errors.New("no messages in request")

// DocumentSource loads retrieval candidates, optionally scoped to a
// partition before any scoring happens.
type DocumentSource interface {
	Documents(ctx context.Context, partition string) ([]store.Document, error)
}

// Embedder computes the embedding vector for a text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// AnswerStreamer streams a grounded answer, emitting tokens as they arrive,
// and reports the model that produced them.
type AnswerStreamer interface {
	Stream(ctx context.Context, messages []models.ChatMessage, contextBlock string, emit func(token string) error) (string, error)
}

// RAG answers a conversation's last user message from the document store.
type RAG struct {
	source   DocumentSource
	embedder Embedder
	streamer AnswerStreamer
	topK     int
}

func NewRAG(source DocumentSource, embedder Embedder, streamer AnswerStreamer, topK int) *RAG {
	if topK <= 0 {
		topK = retriever.DefaultTopK
	}
	return &RAG{source: source, embedder: embedder, streamer: streamer, topK: topK}
}

// Answer embeds the last message, retrieves the most similar chunks from the
// given partition ("all" or empty means unscoped), and streams the grounded
// answer through emit. It returns the completion model that answered.
func (r *RAG) Answer(ctx context.Context, messages []models.ChatMessage, partition string, emit func(token string) error) (string, error) {
	if len(messages) == 0 {
		return "", ErrNoMessages
	}
	query := messages[len(messages)-1].Content

	queryEmbedding, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return "", fmt.Errorf("embed query: %w", err)
	}

	candidates, err := r.source.Documents(ctx, partition)
	if err != nil {
		return "", fmt.Errorf("load documents: %w", err)
	}

	relevant := retriever.Retrieve(queryEmbedding, candidates, partition, r.topK)
	contextBlock := retriever.BuildContext(relevant)
	log.Debug().
		Str("partition", partition).
		Int("candidates", len(candidates)).
		Int("relevant", len(relevant)).
		Msg("retrieved context")

	return r.streamer.Stream(ctx, messages, contextBlock, emit)
}

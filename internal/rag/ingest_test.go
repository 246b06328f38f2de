package rag

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"docchat/internal/models"
	"docchat/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	saved [][]store.Document
	err   error
}

func (f *fakeWriter) SaveDocuments(ctx context.Context, docs []store.Document) error {
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, docs)
	return nil
}

// countingEmbedder embeds concurrently-safe deterministic vectors and can be
// told to fail for chunks containing a marker.
type countingEmbedder struct {
	mu     sync.Mutex
	calls  int
	failOn string
}

func (f *countingEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.failOn != "" && strings.Contains(text, f.failOn) {
		return nil, errors.New("quota exceeded for both embedding models")
	}
	return []float32{float32(len(text)), 1}, nil
}

func TestIngest(t *testing.T) {
	ctx := context.Background()
	// Three sentences, each its own chunk at this size.
	text := "Alpha one. Beta two. Gamma three."

	t.Run("stores one record per chunk with a shared batch identity", func(t *testing.T) {
		writer := &fakeWriter{}
		embedder := &countingEmbedder{}
		in := NewIngestor(writer, embedder, 10)

		result, err := in.Ingest(ctx, "report.pdf", "financial", models.FileTypePDF, text)
		require.NoError(t, err)
		assert.Equal(t, 3, result.Chunks)
		assert.NotEmpty(t, result.UploadID)
		assert.Equal(t, 3, embedder.calls)

		require.Len(t, writer.saved, 1)
		docs := writer.saved[0]
		require.Len(t, docs, 3)
		for _, d := range docs {
			assert.Equal(t, "report.pdf", d.Filename)
			assert.Equal(t, "financial", d.Partition)
			assert.Equal(t, models.FileTypePDF, d.FileType)
			assert.Equal(t, docs[0].CreatedAt, d.CreatedAt)
			assert.Equal(t, result.UploadID, d.UploadID)
			assert.NotEmpty(t, d.Embedding.Slice())
		}
		// Distinct chunk content yields distinct embeddings.
		assert.NotEqual(t, docs[0].Embedding.Slice(), docs[2].Embedding.Slice())
	})

	t.Run("one chunk's embedding failure writes nothing", func(t *testing.T) {
		writer := &fakeWriter{}
		embedder := &countingEmbedder{failOn: "Beta"}
		in := NewIngestor(writer, embedder, 10)

		_, err := in.Ingest(ctx, "report.pdf", "financial", models.FileTypePDF, text)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "quota")
		assert.Empty(t, writer.saved)
	})

	t.Run("write failure is reported as a storage error", func(t *testing.T) {
		writer := &fakeWriter{err: errors.New("connection refused")}
		in := NewIngestor(writer, &countingEmbedder{}, 10)

		_, err := in.Ingest(ctx, "report.pdf", "financial", models.FileTypePDF, text)
		assert.ErrorIs(t, err, ErrStorage)
	})

	t.Run("empty text stores nothing and reports zero chunks", func(t *testing.T) {
		writer := &fakeWriter{}
		in := NewIngestor(writer, &countingEmbedder{}, 10)

		result, err := in.Ingest(ctx, "empty.pdf", "hr", models.FileTypePDF, "   ")
		require.NoError(t, err)
		assert.Zero(t, result.Chunks)
		assert.Empty(t, writer.saved)
	})
}

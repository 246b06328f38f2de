package rag

import (
	"context"
	"errors"
	"fmt"
	"time"

	"docchat/internal/chunker"
	"docchat/internal/store"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// ErrStorage marks a document-store write failure so the boundary can report
// it distinctly from provider failures.
var ErrStorage = errors.New("failed to store documents")

// embedConcurrency bounds parallel provider calls for one file's chunks.
const embedConcurrency = 4

// DocumentWriter persists one ingestion's chunks all-or-nothing.
type DocumentWriter interface {
	SaveDocuments(ctx context.Context, docs []store.Document) error
}

// Ingestor turns an extracted document into stored, embedded chunks.
type Ingestor struct {
	writer    DocumentWriter
	embedder  Embedder
	chunkSize int
}

func NewIngestor(writer DocumentWriter, embedder Embedder, chunkSize int) *Ingestor {
	if chunkSize <= 0 {
		chunkSize = chunker.DefaultChunkSize
	}
	return &Ingestor{writer: writer, embedder: embedder, chunkSize: chunkSize}
}

// Result reports what one ingestion wrote.
type Result struct {
	Chunks   int
	UploadID string
}

// Ingest chunks the extracted text, embeds every chunk, and bulk-writes the
// batch with a shared timestamp and upload id. Chunks are embedded
// concurrently; if any embedding fails after its quota fallback, nothing is
// written.
func (in *Ingestor) Ingest(ctx context.Context, filename, partition, fileType, text string) (*Result, error) {
	chunks := chunker.Chunk(text, in.chunkSize)
	if len(chunks) == 0 {
		return &Result{}, nil
	}

	vectors := make([][]float32, len(chunks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(embedConcurrency)
	for i, chunk := range chunks {
		g.Go(func() error {
			vec, err := in.embedder.Embed(gctx, chunk)
			if err != nil {
				return fmt.Errorf("embed chunk %d/%d: %w", i+1, len(chunks), err)
			}
			vectors[i] = vec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	uploadID := uuid.NewString()
	createdAt := time.Now().UTC()
	docs := make([]store.Document, len(chunks))
	for i := range chunks {
		docs[i] = store.Document{
			Content:   chunks[i],
			Embedding: pgvector.NewVector(vectors[i]),
			Filename:  filename,
			Partition: partition,
			FileType:  fileType,
			UploadID:  uploadID,
			CreatedAt: createdAt,
		}
	}

	if err := in.writer.SaveDocuments(ctx, docs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	log.Info().
		Str("filename", filename).
		Str("partition", partition).
		Str("upload_id", uploadID).
		Int("chunks", len(docs)).
		Msg("stored document")
	return &Result{Chunks: len(docs), UploadID: uploadID}, nil
}

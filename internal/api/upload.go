package api

import (
	"context"
	"errors"
	"io"
	"net/http"

	"docchat/internal/extract"
	"docchat/internal/llm"
	"docchat/internal/models"
	"docchat/internal/rag"

	"github.com/rs/zerolog/hlog"
)

const maxUploadSize = 32 << 20 // 32 MiB

// Ingestor turns one extracted document into stored chunks.
type Ingestor interface {
	Ingest(ctx context.Context, filename, partition, fileType, text string) (*rag.Result, error)
}

// UploadHandler serves POST /api/upload: multipart form with a "file" and a
// target "database" (partition) name.
type UploadHandler struct {
	ingestor Ingestor
}

func NewUploadHandler(ingestor Ingestor) *UploadHandler {
	return &UploadHandler{ingestor: ingestor}
}

func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	logger := hlog.FromRequest(r)

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	partition := r.FormValue("database")
	if err != nil || partition == "" {
		respondError(w, http.StatusBadRequest, msgMissingFields)
		return
	}
	defer file.Close()

	// "all" is the query-time no-scoping sentinel; storing it would make
	// those chunks unreachable by name.
	if partition == models.PartitionAll {
		respondError(w, http.StatusBadRequest, msgReservedDatabase)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		logger.Error().Err(err).Str("filename", header.Filename).Msg("reading upload failed")
		respondError(w, http.StatusInternalServerError, msgInternalError)
		return
	}

	text, fileType, err := extract.Text(header.Filename, data)
	if err != nil {
		if errors.Is(err, extract.ErrUnsupportedType) {
			respondError(w, http.StatusBadRequest, msgUnsupportedType)
			return
		}
		logger.Error().Err(err).Str("filename", header.Filename).Msg("text extraction failed")
		respondError(w, http.StatusInternalServerError, msgInternalError)
		return
	}

	result, err := h.ingestor.Ingest(r.Context(), header.Filename, partition, fileType, text)
	if err != nil {
		logger.Error().Err(err).
			Str("filename", header.Filename).
			Str("database", partition).
			Msg("ingestion failed")
		switch {
		case llm.IsQuotaError(err):
			respondError(w, http.StatusTooManyRequests, msgQuotaExceeded)
		case errors.Is(err, rag.ErrStorage):
			respondError(w, http.StatusInternalServerError, msgStorageFailed)
		default:
			respondError(w, http.StatusInternalServerError, msgInternalError)
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"message":  "File uploaded and processed successfully",
		"chunks":   result.Chunks,
		"uploadId": result.UploadID,
	})
}

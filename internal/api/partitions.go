package api

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/hlog"
)

// PartitionLister reports the partition names currently stored.
type PartitionLister interface {
	Partitions(ctx context.Context) ([]string, error)
}

// PartitionsHandler serves GET /api/databases so the UI can offer the stored
// partitions instead of a hardcoded list.
type PartitionsHandler struct {
	store PartitionLister
}

func NewPartitionsHandler(store PartitionLister) *PartitionsHandler {
	return &PartitionsHandler{store: store}
}

func (h *PartitionsHandler) List(w http.ResponseWriter, r *http.Request) {
	names, err := h.store.Partitions(r.Context())
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("listing databases failed")
		respondError(w, http.StatusInternalServerError, msgInternalError)
		return
	}
	if names == nil {
		names = []string{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"databases": names})
}

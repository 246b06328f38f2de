package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
)

// NewRouter wires the HTTP surface: the streaming chat endpoint, the document
// upload endpoint, the partition listing, and a health check.
func NewRouter(chat *ChatHandler, upload *UploadHandler, partitions *PartitionsHandler, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(hlog.NewHandler(logger))
	r.Use(hlog.RequestIDHandler("request_id", "X-Request-ID"))
	r.Use(hlog.AccessHandler(func(req *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(req).Info().
			Str("method", req.Method).
			Stringer("url", req.URL).
			Int("status", status).
			Dur("duration", duration).
			Msg("request")
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/chat", chat.Chat)
		r.With(chimiddleware.Timeout(2 * time.Minute)).Post("/upload", upload.Upload)
		r.Get("/databases", partitions.List)
	})

	return r
}

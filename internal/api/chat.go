package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"docchat/internal/llm"
	"docchat/internal/models"

	"github.com/rs/zerolog/hlog"
)

// Answerer streams a grounded answer for a conversation.
type Answerer interface {
	Answer(ctx context.Context, messages []models.ChatMessage, partition string, emit func(token string) error) (string, error)
}

// ChatHandler serves POST /api/chat.
//
// Success is a Server-Sent Events stream: "chunk" events carry partial text,
// a final "done" event names the model that answered, and an "error" event
// terminates a stream that died after output started. Failures before any
// output map to plain JSON responses: 429 for quota exhaustion, 400 for bad
// input, 500 otherwise.
type ChatHandler struct {
	rag Answerer
}

func NewChatHandler(rag Answerer) *ChatHandler {
	return &ChatHandler{rag: rag}
}

type chatRequest struct {
	Messages []models.ChatMessage `json:"messages"`
	Database string               `json:"database"`
}

func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	logger := hlog.FromRequest(r)

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Messages) == 0 {
		respondError(w, http.StatusBadRequest, "messages are required")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		respondError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	// SSE headers are written lazily on the first token, so pre-stream
	// failures can still use a plain JSON status.
	started := false
	start := func() {
		if started {
			return
		}
		started = true
		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)
	}
	emit := func(token string) error {
		start()
		writeSSE(w, flusher, "chunk", map[string]string{"text": token})
		return nil
	}

	model, err := h.rag.Answer(r.Context(), req.Messages, req.Database, emit)
	if err != nil {
		logger.Error().Err(err).Str("database", req.Database).Msg("chat request failed")
		if started {
			writeSSE(w, flusher, "error", map[string]string{"message": msgInternalError})
			return
		}
		if llm.IsQuotaError(err) {
			respondError(w, http.StatusTooManyRequests, msgQuotaExceeded)
			return
		}
		respondError(w, http.StatusInternalServerError, msgInternalError)
		return
	}

	// If the model produced nothing, still open the stream so the client
	// gets a well-formed done event.
	start()
	writeSSE(w, flusher, "done", map[string]string{"model": model})
}

func writeSSE(w http.ResponseWriter, flusher http.Flusher, event string, payload any) {
	data, _ := json.Marshal(payload)
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
	flusher.Flush()
}

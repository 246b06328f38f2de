package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"docchat/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAnswerer struct {
	tokens    []string
	model     string
	err       error
	partition string
}

func (f *fakeAnswerer) Answer(ctx context.Context, messages []models.ChatMessage, partition string, emit func(string) error) (string, error) {
	f.partition = partition
	for _, token := range f.tokens {
		if err := emit(token); err != nil {
			return f.model, err
		}
	}
	return f.model, f.err
}

func doChat(t *testing.T, answerer Answerer, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(body))
	rec := httptest.NewRecorder()
	NewChatHandler(answerer).Chat(rec, req)
	return rec
}

func TestChatHandler(t *testing.T) {
	validBody := `{"messages":[{"role":"user","content":"Apa isi laporan?"}],"database":"financial"}`

	t.Run("streams tokens and a done event", func(t *testing.T) {
		answerer := &fakeAnswerer{tokens: []string{"Hal", "o"}, model: "gpt-4o"}
		rec := doChat(t, answerer, validBody)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
		assert.Equal(t, "financial", answerer.partition)

		body := rec.Body.String()
		assert.Contains(t, body, `event: chunk`)
		assert.Contains(t, body, `{"text":"Hal"}`)
		assert.Contains(t, body, `{"text":"o"}`)
		assert.Contains(t, body, `event: done`)
		assert.Contains(t, body, `{"model":"gpt-4o"}`)
	})

	t.Run("quota exhaustion before output maps to 429", func(t *testing.T) {
		answerer := &fakeAnswerer{err: errors.New("insufficient_quota: billing limit")}
		rec := doChat(t, answerer, validBody)

		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Body.String(), "quota terlampaui")
	})

	t.Run("other failures before output map to 500", func(t *testing.T) {
		answerer := &fakeAnswerer{err: errors.New("connection refused")}
		rec := doChat(t, answerer, validBody)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), msgInternalError)
	})

	t.Run("failure after output terminates the stream with an error event", func(t *testing.T) {
		answerer := &fakeAnswerer{tokens: []string{"sebag"}, err: errors.New("stream interrupted")}
		rec := doChat(t, answerer, validBody)

		assert.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, `{"text":"sebag"}`)
		assert.Contains(t, body, `event: error`)
		assert.NotContains(t, body, `event: done`)
	})

	t.Run("invalid body is a bad request", func(t *testing.T) {
		rec := doChat(t, &fakeAnswerer{}, `{not json`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("empty conversation is a bad request", func(t *testing.T) {
		rec := doChat(t, &fakeAnswerer{}, `{"messages":[],"database":"all"}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

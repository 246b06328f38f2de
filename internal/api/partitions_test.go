package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLister struct {
	names []string
	err   error
}

func (f *fakeLister) Partitions(ctx context.Context) ([]string, error) {
	return f.names, f.err
}

func TestPartitionsHandler(t *testing.T) {
	t.Run("lists stored databases", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/databases", nil)
		NewPartitionsHandler(&fakeLister{names: []string{"financial", "hr"}}).List(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"databases":["financial","hr"]}`, rec.Body.String())
	})

	t.Run("empty store yields an empty list, not null", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/databases", nil)
		NewPartitionsHandler(&fakeLister{}).List(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"databases":[]}`, rec.Body.String())
	})

	t.Run("store failure maps to 500", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/databases", nil)
		NewPartitionsHandler(&fakeLister{err: errors.New("connection refused")}).List(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

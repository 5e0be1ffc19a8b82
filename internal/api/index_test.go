package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Conversly/notion-converter/internal/api/conversion"
	"github.com/Conversly/notion-converter/internal/config"
	"github.com/Conversly/notion-converter/internal/markdown"
	"github.com/Conversly/notion-converter/internal/notion"
	"github.com/Conversly/notion-converter/internal/types"
	"github.com/Conversly/notion-converter/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticFetcher struct{}

func (staticFetcher) FetchBlocks(ctx context.Context, documentID string) ([]notion.Block, error) {
	return []notion.Block{{
		ID:      "b1",
		Type:    notion.BlockParagraph,
		Content: notion.BlockContent{RichText: []notion.RichText{{Type: "text", PlainText: "Hello"}}},
	}}, nil
}

type panicFetcher struct{}

func (panicFetcher) FetchBlocks(ctx context.Context, documentID string) ([]notion.Block, error) {
	panic("boom")
}

func testConfig() *config.Config {
	return &config.Config{
		ServiceName:        "notion-converter",
		Environment:        "test",
		StrictIDValidation: true,
		AllowedOrigins:     []string{"*"},
		LogLevel:           "info",
	}
}

func newTestRouter(fetcher conversion.BlockFetcher) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := conversion.NewService(conversion.ServiceConfig{Token: "secret_token", UpstreamTimeout: time.Second},
		fetcher, markdown.NewRenderer(), nil, nil)
	return NewRouter(testConfig(), svc, "v1.2.3")
}

func TestHealth(t *testing.T) {
	r := newTestRouter(staticFetcher{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp types.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "notion-converter", resp.Service)
	assert.Equal(t, "v1.2.3", resp.Version)
	assert.NotEmpty(t, w.Header().Get(utils.RequestIDHeader))
}

func TestNoRoute(t *testing.T) {
	r := newTestRouter(staticFetcher{})

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/missing"},
		{http.MethodGet, "/convert"},
		{http.MethodDelete, "/"},
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))
		assert.Equal(t, http.StatusNotFound, w.Code, "%s %s", tc.method, tc.path)
		assert.JSONEq(t, `{"error":"Endpoint not found"}`, w.Body.String())
	}
}

func TestConvertCarriesRequestID(t *testing.T) {
	r := newTestRouter(staticFetcher{})

	req := httptest.NewRequest(http.MethodPost, "/convert",
		bytes.NewBufferString(`{"documentId":"21fea8b840df80f89107dc2edfb233c3"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(utils.RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "abc-123", w.Header().Get(utils.RequestIDHeader))

	var result types.ConversionResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, "Hello", result.Markdown)
	assert.Equal(t, "abc-123", result.RequestID)
}

func TestRecovery(t *testing.T) {
	r := newTestRouter(panicFetcher{})

	req := httptest.NewRequest(http.MethodPost, "/convert",
		bytes.NewBufferString(`{"documentId":"21fea8b840df80f89107dc2edfb233c3"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var resp types.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Error)
}

func TestCORS(t *testing.T) {
	h := NewHandler(testConfig(), newTestRouter(staticFetcher{}))

	req := httptest.NewRequest(http.MethodOptions, "/convert", nil)
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestIDIsBounded(t *testing.T) {
	r := newTestRouter(staticFetcher{})

	tests := []struct {
		name    string
		inbound string
		reuse   bool
	}{
		{"uuid", "0b7c2d4e-8f1a-4c3b-9d2e-1f0a5b6c7d8e", true},
		{"too long", strings.Repeat("a", 129), false},
		{"max length", strings.Repeat("a", 128), true},
		{"control characters", "abc\tdef", false},
		{"markup", "<script>alert(1)</script>", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set(utils.RequestIDHeader, tt.inbound)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			got := w.Header().Get(utils.RequestIDHeader)
			if tt.reuse {
				assert.Equal(t, tt.inbound, got)
				return
			}
			assert.NotEqual(t, tt.inbound, got)
			_, err := uuid.Parse(got)
			assert.NoError(t, err)
		})
	}
}

package router

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/user/manifest-service/internal/adapter/manifestapi"
	"github.com/user/manifest-service/internal/adapter/memory"
	"github.com/user/manifest-service/internal/delivery/http/handler"
	"github.com/user/manifest-service/internal/delivery/http/response"
	"github.com/user/manifest-service/internal/generator"
	"github.com/user/manifest-service/internal/monitoring"
	"github.com/user/manifest-service/internal/usecase"
)

type failingPinger struct{}

func (failingPinger) Ping(context.Context) error { return errors.New("connection refused") }

// newTestRouter wires the full stack against a stub manifest service.
func newTestRouter(t *testing.T, backend http.HandlerFunc, checks map[string]handler.Pinger) http.Handler {
	t.Helper()
	api := httptest.NewServer(backend)
	t.Cleanup(api.Close)

	logger := zaptest.NewLogger(t)
	reg := prometheus.NewRegistry()
	metrics := monitoring.NewMetrics(reg)
	sessions := memory.NewSessionRepo()
	manager := usecase.NewSessionManager(
		sessions,
		nil,
		generator.New(manifestapi.NewClient(api.URL, api.Client())),
		metrics,
		logger,
		time.Hour,
	)
	if checks == nil {
		checks = map[string]handler.Pinger{"sessions": sessions}
	}
	return New(handler.NewHandler(manager, checks, logger), metrics, reg, logger)
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeSession(t *testing.T, rec *httptest.ResponseRecorder) response.SessionResponse {
	t.Helper()
	var s response.SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &s))
	return s
}

func TestRouter_SessionFlow(t *testing.T) {
	var gotSiteURL string
	h := newTestRouter(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		gotSiteURL = body["siteUrl"]
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"content": {"name": "Example", "display": null}, "id": "abc", "warnings": ["no icons"]}`))
	}, nil)

	rec := do(t, h, http.MethodPost, "/api/sessions", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeSession(t, rec)
	require.NotEmpty(t, created.ID)

	rec = do(t, h, http.MethodPut, "/api/sessions/"+created.ID+"/link", `{"url": "example.com"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	linked := decodeSession(t, rec)
	assert.Equal(t, "https://example.com", *linked.State.URL)
	assert.Nil(t, linked.State.Error)

	rec = do(t, h, http.MethodPost, "/api/sessions/"+created.ID+"/manifest", "")
	require.Equal(t, http.StatusOK, rec.Code)
	fetched := decodeSession(t, rec)
	assert.Equal(t, "https://example.com", gotSiteURL)
	assert.Equal(t, "abc", *fetched.State.ManifestID)
	assert.Equal(t, "fullscreen", fetched.State.Manifest.Display)
	assert.Equal(t, []string{"no icons"}, fetched.State.Warnings)

	rec = do(t, h, http.MethodGet, "/api/sessions/"+created.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "abc", *decodeSession(t, rec).State.ManifestID)

	rec = do(t, h, http.MethodDelete, "/api/sessions/"+created.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/sessions/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_InvalidLinkReportedInState(t *testing.T) {
	h := newTestRouter(t, func(w http.ResponseWriter, r *http.Request) {}, nil)
	created := decodeSession(t, do(t, h, http.MethodPost, "/api/sessions", ""))

	rec := do(t, h, http.MethodPut, "/api/sessions/"+created.ID+"/link", `{"url": "not a url"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	s := decodeSession(t, rec)
	assert.Nil(t, s.State.URL)
	assert.Equal(t, "Please provide a URL.", *s.State.Error)
}

func TestRouter_FetchFailureReportedInState(t *testing.T) {
	h := newTestRouter(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": "bad host"}`))
	}, nil)
	created := decodeSession(t, do(t, h, http.MethodPost, "/api/sessions", ""))
	do(t, h, http.MethodPut, "/api/sessions/"+created.ID+"/link", `{"url": "example.com"}`)

	rec := do(t, h, http.MethodPost, "/api/sessions/"+created.ID+"/manifest", "")

	require.Equal(t, http.StatusOK, rec.Code)
	s := decodeSession(t, rec)
	assert.Equal(t, "bad host", *s.State.Error)
	assert.Nil(t, s.State.Manifest)
}

func TestRouter_BadRequests(t *testing.T) {
	h := newTestRouter(t, func(w http.ResponseWriter, r *http.Request) {}, nil)
	created := decodeSession(t, do(t, h, http.MethodPost, "/api/sessions", ""))

	rec := do(t, h, http.MethodPut, "/api/sessions/"+created.ID+"/link", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error": "Invalid request body"}`, rec.Body.String())

	rec = do(t, h, http.MethodPut, "/api/sessions/missing/link", `{"url": "example.com"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/sessions/missing/manifest", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/requests", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/requests?url=example.com&limit=-1", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// No request log configured.
	rec = do(t, h, http.MethodGet, "/api/requests?url=example.com", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_Health(t *testing.T) {
	h := newTestRouter(t, func(w http.ResponseWriter, r *http.Request) {}, nil)
	rec := do(t, h, http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status": "ok", "sessions": "healthy"}`, rec.Body.String())

	h = newTestRouter(t, func(w http.ResponseWriter, r *http.Request) {}, map[string]handler.Pinger{"redis": failingPinger{}})
	rec = do(t, h, http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"status": "degraded", "redis": "unhealthy"}`, rec.Body.String())
}

func TestRouter_Metrics(t *testing.T) {
	h := newTestRouter(t, func(w http.ResponseWriter, r *http.Request) {}, nil)
	created := decodeSession(t, do(t, h, http.MethodPost, "/api/sessions", ""))
	do(t, h, http.MethodGet, "/api/sessions/"+created.ID, "")

	rec := do(t, h, http.MethodGet, "/metrics", "")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `http_requests_total{method="POST",path="/api/sessions",status="201"} 1`)
	assert.Contains(t, body, `path="/api/sessions/{id}`)
	assert.NotContains(t, body, created.ID)
}

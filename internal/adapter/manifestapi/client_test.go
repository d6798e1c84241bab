package manifestapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/manifest-service/internal/repository"
)

func TestClient_GenerateSuccess(t *testing.T) {
	var receivedBody map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/manifests", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &receivedBody))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"content": {"name": "Example", "display": "standalone"},
			"id": "abc",
			"siteServiceWorkers": {"found": true},
			"icons": ["/icon.png"],
			"suggestions": ["add screenshots"]
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL+"/api/", server.Client())
	site := "https://example.com"

	result, err := client.Generate(context.Background(), &site)

	require.NoError(t, err)
	assert.Equal(t, "https://example.com", receivedBody["siteUrl"])
	assert.Equal(t, "abc", result.ID)
	assert.Equal(t, "Example", *result.Content.Name)
	assert.Equal(t, "standalone", result.Content.Display)
	require.Len(t, result.Icons, 1)
	assert.Equal(t, "/icon.png", result.Icons[0].Src)
	assert.Equal(t, []string{"add screenshots"}, result.Suggestions)
	assert.Nil(t, result.Warnings)
}

func TestClient_GenerateSendsNullSiteURL(t *testing.T) {
	var raw string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		raw = string(body)
		w.Write([]byte(`{"id": "abc"}`))
	}))
	defer server.Close()

	_, err := NewClient(server.URL, nil).Generate(context.Background(), nil)

	require.NoError(t, err)
	assert.JSONEq(t, `{"siteUrl": null}`, raw)
}

func TestClient_GenerateErrorResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"bad host"}`))
	}))
	defer server.Close()

	site := "https://bad.example"
	_, err := NewClient(server.URL, nil).Generate(context.Background(), &site)

	var respErr *repository.ResponseError
	require.True(t, errors.As(err, &respErr))
	assert.Equal(t, http.StatusBadRequest, respErr.StatusCode)
	assert.Equal(t, "Bad Request", respErr.StatusText)
	assert.Equal(t, "bad host", respErr.Message())
}

func TestClient_GenerateQuotedErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`"bad host"`))
	}))
	defer server.Close()

	_, err := NewClient(server.URL, nil).Generate(context.Background(), nil)

	var respErr *repository.ResponseError
	require.ErrorAs(t, err, &respErr)
	assert.Equal(t, "bad host", respErr.Message())
}

func TestClient_GenerateEmptyErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := NewClient(server.URL, nil).Generate(context.Background(), nil)

	var respErr *repository.ResponseError
	require.ErrorAs(t, err, &respErr)
	assert.Equal(t, "Service Unavailable", respErr.Message())
}

func TestClient_GenerateMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>not json</html>`))
	}))
	defer server.Close()

	_, err := NewClient(server.URL, nil).Generate(context.Background(), nil)

	require.Error(t, err)
	var respErr *repository.ResponseError
	assert.False(t, errors.As(err, &respErr))
}

func TestClient_GenerateUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := NewClient(url, nil).Generate(context.Background(), nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to reach manifest service")
}

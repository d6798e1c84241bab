package manifestapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/user/manifest-service/internal/entity"
	"github.com/user/manifest-service/internal/repository"
)

const manifestsPath = "/manifests"

// Client provides a concrete implementation for the ManifestRepository interface over HTTP.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient creates a client for the manifest service rooted at apiURL.
// A nil httpClient uses http.DefaultClient.
func NewClient(apiURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		endpoint:   strings.TrimRight(apiURL, "/") + manifestsPath,
		httpClient: httpClient,
	}
}

type generateRequest struct {
	SiteURL *string `json:"siteUrl"`
}

// Generate posts the site URL to {apiURL}/manifests.
// Non-2xx answers are returned as *repository.ResponseError.
func (c *Client) Generate(ctx context.Context, siteURL *string) (*entity.GenerateResult, error) {
	payload, err := json.Marshal(generateRequest{SiteURL: siteURL})
	if err != nil {
		return nil, fmt.Errorf("failed to encode manifest request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build manifest request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach manifest service: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &repository.ResponseError{
			StatusCode: resp.StatusCode,
			StatusText: statusText(resp),
			Body:       body,
		}
	}

	var result entity.GenerateResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode manifest response: %w", err)
	}
	return &result, nil
}

// statusText strips the numeric code from resp.Status ("404 Not Found" -> "Not Found").
func statusText(resp *http.Response) string {
	if _, text, ok := strings.Cut(resp.Status, " "); ok && text != "" {
		return text
	}
	return http.StatusText(resp.StatusCode)
}

package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/user/manifest-service/internal/entity"
)

// ManifestRepository defines the contract for the remote manifest-generation service.
type ManifestRepository interface {
	// Generate submits a site URL and returns the generated manifest information.
	// A nil siteURL is sent as JSON null.
	Generate(ctx context.Context, siteURL *string) (*entity.GenerateResult, error)
}

// ResponseError is returned when the backend answers with a non-2xx status.
type ResponseError struct {
	StatusCode int
	StatusText string
	Body       []byte
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("manifest service responded %d %s", e.StatusCode, e.StatusText)
}

// Message picks the most specific text available: the body's "error" field,
// then the body itself (unquoted when it is a JSON string), then the status text.
func (e *ResponseError) Message() string {
	body := bytes.TrimSpace(e.Body)

	var payload struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && len(payload.Error) > 0 {
		var s string
		if err := json.Unmarshal(payload.Error, &s); err == nil {
			if s != "" {
				return s
			}
		} else if !isFalsyJSON(payload.Error) {
			return string(payload.Error)
		}
	}

	var text string
	if err := json.Unmarshal(body, &text); err == nil {
		if text != "" {
			return text
		}
		return e.StatusText
	}
	if len(body) > 0 {
		return string(body)
	}
	return e.StatusText
}

func isFalsyJSON(raw json.RawMessage) bool {
	switch string(bytes.TrimSpace(raw)) {
	case "null", "false", "0":
		return true
	}
	return false
}

package entity

import "time"

const (
	RequestStatusSuccess = "success"
	RequestStatusFailure = "failure"
)

// RequestLog mirrors the `manifest_requests` PostgreSQL table schema.
type RequestLog struct {
	ID         int64     `json:"id"`
	SessionID  string    `json:"sessionId"`
	SiteURL    string    `json:"siteUrl"`
	ManifestID string    `json:"manifestId,omitempty"`
	Status     string    `json:"status"` // "success", "failure"
	Error      string    `json:"error,omitempty"`
	DurationMS int64     `json:"durationMs"`
	CreatedAt  time.Time `json:"createdAt"`
}

package repository

import (
	"context"

	"github.com/user/manifest-service/internal/entity"
)

// RequestLogRepository records manifest fetch attempts.
type RequestLogRepository interface {
	Save(ctx context.Context, entry *entity.RequestLog) error
	// FindRecentByURL returns the newest attempts for a site URL first.
	FindRecentByURL(ctx context.Context, siteURL string, limit int) ([]*entity.RequestLog, error)
	Ping(ctx context.Context) error
}

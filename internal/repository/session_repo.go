package repository

import (
	"context"
	"errors"
	"time"

	"github.com/user/manifest-service/internal/entity"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionRepository holds session-scoped state. Entries expire with the session.
type SessionRepository interface {
	// Save stores the session and refreshes its expiry.
	Save(ctx context.Context, session *entity.Session, ttl time.Duration) error
	// Get returns ErrSessionNotFound if the session is unknown or expired.
	Get(ctx context.Context, id string) (*entity.Session, error)
	// Delete destroys the session. Deleting an unknown session is not an error.
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}

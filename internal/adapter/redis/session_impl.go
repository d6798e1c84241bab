package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/user/manifest-service/internal/entity"
	"github.com/user/manifest-service/internal/repository"
)

const sessionKeyPrefix = "manifest:session:"

// SessionRepoImpl provides a concrete implementation for the SessionRepository interface using Redis.
type SessionRepoImpl struct {
	client redis.UniversalClient
}

// NewSessionRepo creates a new instance of SessionRepoImpl.
func NewSessionRepo(client redis.UniversalClient) *SessionRepoImpl {
	return &SessionRepoImpl{client: client}
}

func generateKey(id string) string {
	return sessionKeyPrefix + id
}

// Save stores the session as JSON. SETEX refreshes the expiry on every write.
func (r *SessionRepoImpl) Save(ctx context.Context, session *entity.Session, ttl time.Duration) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session %s: %w", session.ID, err)
	}
	return r.client.SetEx(ctx, generateKey(session.ID), data, ttl).Err()
}

func (r *SessionRepoImpl) Get(ctx context.Context, id string) (*entity.Session, error) {
	data, err := r.client.Get(ctx, generateKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repository.ErrSessionNotFound
		}
		return nil, err
	}

	var session entity.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to decode session %s: %w", id, err)
	}
	if session.State.Icons == nil {
		session.State.Icons = []entity.Icon{}
	}
	return &session, nil
}

func (r *SessionRepoImpl) Delete(ctx context.Context, id string) error {
	return r.client.Del(ctx, generateKey(id)).Err()
}

func (r *SessionRepoImpl) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

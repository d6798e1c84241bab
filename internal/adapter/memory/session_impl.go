package memory

import (
	"context"
	"sync"
	"time"

	"github.com/user/manifest-service/internal/entity"
	"github.com/user/manifest-service/internal/repository"
)

type sessionEntry struct {
	session   entity.Session
	expiresAt time.Time
}

// SessionRepoImpl keeps sessions in process memory. Expired entries are
// dropped lazily on access and on every Save.
type SessionRepoImpl struct {
	mu       sync.Mutex
	sessions map[string]sessionEntry
	now      func() time.Time
}

func NewSessionRepo() *SessionRepoImpl {
	return &SessionRepoImpl{
		sessions: make(map[string]sessionEntry),
		now:      time.Now,
	}
}

func (r *SessionRepoImpl) Save(_ context.Context, session *entity.Session, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for id, e := range r.sessions {
		if !now.Before(e.expiresAt) {
			delete(r.sessions, id)
		}
	}

	stored := *session
	stored.State = session.State.Clone()
	r.sessions[session.ID] = sessionEntry{session: stored, expiresAt: now.Add(ttl)}
	return nil
}

func (r *SessionRepoImpl) Get(_ context.Context, id string) (*entity.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.sessions[id]
	if !ok {
		return nil, repository.ErrSessionNotFound
	}
	if !r.now().Before(e.expiresAt) {
		delete(r.sessions, id)
		return nil, repository.ErrSessionNotFound
	}

	out := e.session
	out.State = e.session.State.Clone()
	return &out, nil
}

func (r *SessionRepoImpl) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	return nil
}

func (r *SessionRepoImpl) Ping(context.Context) error {
	return nil
}

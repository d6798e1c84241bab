package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/user/manifest-service/internal/entity"
	"github.com/user/manifest-service/internal/generator"
	"github.com/user/manifest-service/internal/monitoring"
	"github.com/user/manifest-service/internal/repository"
)

var (
	ErrSessionNotFound    = repository.ErrSessionNotFound
	ErrHistoryUnavailable = errors.New("request history is not enabled")
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// SessionManager defines the operations the UI performs on its manifest request state.
type SessionManager interface {
	Create(ctx context.Context) (*entity.Session, error)
	Get(ctx context.Context, id string) (*entity.Session, error)
	// UpdateLink validates and stores a candidate URL. A rejected URL is not an
	// error here; it is reported through the session's State.Error.
	UpdateLink(ctx context.Context, id, rawURL string) (*entity.Session, error)
	// FetchManifest requests the manifest for the session URL. Service failures
	// are reported through State.Error, not returned.
	FetchManifest(ctx context.Context, id string) (*entity.Session, error)
	Delete(ctx context.Context, id string) error
	History(ctx context.Context, siteURL string, limit int) ([]*entity.RequestLog, error)
}

type sessionUseCase struct {
	sessions   repository.SessionRepository
	requestLog repository.RequestLogRepository
	generator  *generator.Generator
	metrics    *monitoring.Metrics
	logger     *zap.Logger
	ttl        time.Duration
	now        func() time.Time
	newID      func() string
}

// NewSessionManager creates a new SessionManager use case.
// requestLog may be nil, in which case fetch attempts are not recorded.
func NewSessionManager(
	sessions repository.SessionRepository,
	requestLog repository.RequestLogRepository,
	gen *generator.Generator,
	metrics *monitoring.Metrics,
	logger *zap.Logger,
	ttl time.Duration,
) SessionManager {
	return &sessionUseCase{
		sessions:   sessions,
		requestLog: requestLog,
		generator:  gen,
		metrics:    metrics,
		logger:     logger,
		ttl:        ttl,
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

func (uc *sessionUseCase) Create(ctx context.Context) (*entity.Session, error) {
	now := uc.now().UTC()
	session := &entity.Session{
		ID:        uc.newID(),
		State:     entity.NewState(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.sessions.Save(ctx, session, uc.ttl); err != nil {
		return nil, fmt.Errorf("failed to save new session: %w", err)
	}
	uc.logger.Debug("session created", zap.String("session_id", session.ID))
	return session, nil
}

func (uc *sessionUseCase) Get(ctx context.Context, id string) (*entity.Session, error) {
	session, err := uc.sessions.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session %s: %w", id, err)
	}
	return session, nil
}

func (uc *sessionUseCase) UpdateLink(ctx context.Context, id, rawURL string) (*entity.Session, error) {
	session, err := uc.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := generator.UpdateLink(&session.State, rawURL); err != nil {
		uc.metrics.IncInvalidURL()
		uc.logger.Debug("rejected site url", zap.String("session_id", id), zap.String("url", rawURL))
	}

	if err := uc.save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (uc *sessionUseCase) FetchManifest(ctx context.Context, id string) (*entity.Session, error) {
	session, err := uc.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	siteURL := ""
	if session.State.URL != nil {
		siteURL = *session.State.URL
	}

	start := uc.now()
	fetchErr := uc.generator.GetManifestInformation(ctx, &session.State)
	duration := uc.now().Sub(start)

	entry := &entity.RequestLog{
		SessionID:  id,
		SiteURL:    siteURL,
		DurationMS: duration.Milliseconds(),
		CreatedAt:  start.UTC(),
	}
	if fetchErr != nil {
		entry.Status = entity.RequestStatusFailure
		entry.Error = *session.State.Error
		uc.logger.Warn("manifest fetch failed",
			zap.String("session_id", id),
			zap.String("url", siteURL),
			zap.Error(fetchErr),
		)
	} else {
		entry.Status = entity.RequestStatusSuccess
		entry.ManifestID = *session.State.ManifestID
		uc.logger.Info("manifest fetched",
			zap.String("session_id", id),
			zap.String("url", siteURL),
			zap.String("manifest_id", entry.ManifestID),
			zap.Int64("duration_ms", entry.DurationMS),
		)
	}
	uc.metrics.ObserveManifestFetch(entry.Status, duration)

	if err := uc.save(ctx, session); err != nil {
		return nil, err
	}

	if uc.requestLog != nil {
		if err := uc.requestLog.Save(ctx, entry); err != nil {
			// The session already holds the result; losing a log row is not fatal.
			uc.logger.Warn("failed to record manifest request", zap.String("session_id", id), zap.Error(err))
		}
	}

	return session, nil
}

func (uc *sessionUseCase) Delete(ctx context.Context, id string) error {
	if err := uc.sessions.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete session %s: %w", id, err)
	}
	uc.logger.Debug("session deleted", zap.String("session_id", id))
	return nil
}

func (uc *sessionUseCase) History(ctx context.Context, siteURL string, limit int) ([]*entity.RequestLog, error) {
	if uc.requestLog == nil {
		return nil, ErrHistoryUnavailable
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	entries, err := uc.requestLog.FindRecentByURL(ctx, generator.NormalizeURL(siteURL), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load request history for %s: %w", siteURL, err)
	}
	return entries, nil
}

func (uc *sessionUseCase) save(ctx context.Context, session *entity.Session) error {
	session.UpdatedAt = uc.now().UTC()
	if err := uc.sessions.Save(ctx, session, uc.ttl); err != nil {
		return fmt.Errorf("failed to save session %s: %w", session.ID, err)
	}
	return nil
}

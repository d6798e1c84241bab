package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/user/manifest-service/internal/entity"
	"github.com/user/manifest-service/pkg/utils"
)

const schema = `
	CREATE TABLE IF NOT EXISTS manifest_requests (
		id          BIGSERIAL PRIMARY KEY,
		session_id  TEXT        NOT NULL,
		site_url    TEXT        NOT NULL,
		url_hash    CHAR(64)    NOT NULL,
		manifest_id TEXT        NOT NULL DEFAULT '',
		status      TEXT        NOT NULL,
		error       TEXT        NOT NULL DEFAULT '',
		duration_ms BIGINT      NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS manifest_requests_url_hash_idx ON manifest_requests (url_hash, created_at DESC);
`

// RequestLogRepoImpl provides a concrete implementation for the RequestLogRepository interface using PostgreSQL.
type RequestLogRepoImpl struct {
	db *pgxpool.Pool
}

// NewRequestLogRepo creates a new instance of RequestLogRepoImpl.
func NewRequestLogRepo(db *pgxpool.Pool) *RequestLogRepoImpl {
	return &RequestLogRepoImpl{db: db}
}

// EnsureSchema creates the manifest_requests table if it does not exist.
func (r *RequestLogRepoImpl) EnsureSchema(ctx context.Context) error {
	_, err := r.db.Exec(ctx, schema)
	return err
}

// Save inserts one fetch attempt. CreatedAt is filled in from the database when zero.
func (r *RequestLogRepoImpl) Save(ctx context.Context, entry *entity.RequestLog) error {
	query := `
		INSERT INTO manifest_requests (session_id, site_url, url_hash, manifest_id, status, error, duration_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, COALESCE($8, NOW()))
		RETURNING id, created_at;
	`
	var createdAt interface{}
	if !entry.CreatedAt.IsZero() {
		createdAt = entry.CreatedAt
	}
	return r.db.QueryRow(ctx, query,
		entry.SessionID,
		entry.SiteURL,
		utils.HashURL(entry.SiteURL),
		entry.ManifestID,
		entry.Status,
		entry.Error,
		entry.DurationMS,
		createdAt,
	).Scan(&entry.ID, &entry.CreatedAt)
}

// FindRecentByURL retrieves the newest attempts recorded for a site URL.
func (r *RequestLogRepoImpl) FindRecentByURL(ctx context.Context, siteURL string, limit int) ([]*entity.RequestLog, error) {
	query := `
		SELECT id, session_id, site_url, manifest_id, status, error, duration_ms, created_at
		FROM manifest_requests
		WHERE url_hash = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2;
	`
	rows, err := r.db.Query(ctx, query, utils.HashURL(siteURL), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []*entity.RequestLog{}
	for rows.Next() {
		var e entity.RequestLog
		if err := rows.Scan(
			&e.ID,
			&e.SessionID,
			&e.SiteURL,
			&e.ManifestID,
			&e.Status,
			&e.Error,
			&e.DurationMS,
			&e.CreatedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, &e)
	}

	return entries, rows.Err()
}

func (r *RequestLogRepoImpl) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

package kvstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"minimarket/pkg/platform/sentinel"
)

// Postgres stores entries in the kv_entries table created by the platform migrations.
type Postgres struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

func NewPostgres(db *sql.DB, ttl time.Duration) *Postgres {
	return &Postgres{db: db, ttl: ttl, now: time.Now}
}

func (s *Postgres) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `
		SELECT value FROM kv_entries
		WHERE key = $1 AND (expires_at IS NULL OR expires_at > $2)
	`, key, s.now()).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", sentinel.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get kv entry: %w", err)
	}
	return value, nil
}

func (s *Postgres) Set(ctx context.Context, key, value string) error {
	now := s.now()
	var expiresAt sql.NullTime
	if s.ttl > 0 {
		expiresAt = sql.NullTime{Time: now.Add(s.ttl), Valid: true}
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv_entries (key, value, expires_at, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (key) DO UPDATE SET
			value = EXCLUDED.value,
			expires_at = EXCLUDED.expires_at,
			updated_at = EXCLUDED.updated_at
	`, key, value, expiresAt, now)
	if err != nil {
		return fmt.Errorf("set kv entry: %w", err)
	}
	return nil
}

func (s *Postgres) Remove(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv_entries WHERE key = $1`, key); err != nil {
		return fmt.Errorf("remove kv entry: %w", err)
	}
	return nil
}

// PurgeExpired deletes expired rows and returns how many were removed.
func (s *Postgres) PurgeExpired(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM kv_entries WHERE expires_at IS NOT NULL AND expires_at <= $1`, s.now())
	if err != nil {
		return 0, fmt.Errorf("purge kv entries: %w", err)
	}
	return res.RowsAffected()
}

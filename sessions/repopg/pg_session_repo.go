package repopg

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	apperrors "github.com/novawrites/auth-service/internal/errors"
	"github.com/novawrites/auth-service/sessions"
)

// DBTX is the subset of *sql.DB / *sql.Tx this repository needs.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var _ sessions.Repo = (*PostgresRepository)(nil)

// PostgresRepository stores sessions as rows in user_sessions. The active
// flag is only ever flipped by conditional UPDATEs guarded on
// is_active = TRUE, so concurrent invalidation and reaping cannot
// double-count the same row.
type PostgresRepository struct {
	db DBTX
}

func NewPostgresRepository(db DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, session *sessions.Session) error {
	query :=
		`INSERT INTO user_sessions (id, user_id, session_token, refresh_token, user_agent, ip_address,
			is_active, created_at, expires_at, last_used_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 `

	_, err := r.db.ExecContext(ctx, query,
		session.ID, session.UserID, session.AccessToken, session.RefreshToken,
		session.UserAgent, session.IPAddress, session.Active,
		session.CreatedAt, session.ExpiresAt, session.LastUsedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByToken(ctx context.Context, token string) (*sessions.Session, error) {
	query :=
		`SELECT id, user_id, session_token, refresh_token, user_agent, ip_address,
			is_active, created_at, expires_at, last_used_at
		 FROM user_sessions
		 WHERE session_token = $1 OR refresh_token = $1
		 `

	session := &sessions.Session{}
	err := r.db.QueryRowContext(ctx, query, token).Scan(
		&session.ID, &session.UserID, &session.AccessToken, &session.RefreshToken,
		&session.UserAgent, &session.IPAddress, &session.Active,
		&session.CreatedAt, &session.ExpiresAt, &session.LastUsedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.ErrSessionNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return session, nil
}

func (r *PostgresRepository) Touch(ctx context.Context, token string, at time.Time) error {
	query :=
		`UPDATE user_sessions
		 SET last_used_at = $2
		 WHERE (session_token = $1 OR refresh_token = $1) AND is_active = TRUE
		 `

	if _, err := r.db.ExecContext(ctx, query, token, at); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) SwapAccessToken(ctx context.Context, sessionID, accessToken string, at time.Time) error {
	query :=
		`UPDATE user_sessions
		 SET session_token = $2, last_used_at = $3
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, sessionID, accessToken, at)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrSessionNotFound
	}
	return nil
}

func (r *PostgresRepository) DeactivateAllForUser(ctx context.Context, userID string) (int, error) {
	query :=
		`UPDATE user_sessions
		 SET is_active = FALSE
		 WHERE user_id = $1 AND is_active = TRUE
		 `

	res, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return int(affected), nil
}

func (r *PostgresRepository) DeactivateExpired(ctx context.Context, cutoff time.Time, limit int) (int, error) {
	query :=
		`UPDATE user_sessions
		 SET is_active = FALSE
		 WHERE id IN (
			 SELECT id FROM user_sessions
			 WHERE is_active = TRUE AND expires_at < $1
			 ORDER BY expires_at
			 LIMIT $2
		 ) AND is_active = TRUE
		 `

	res, err := r.db.ExecContext(ctx, query, cutoff, limit)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return int(affected), nil
}

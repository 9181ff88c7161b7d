package repopg

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	apperrors "github.com/novawrites/auth-service/internal/errors"
	"github.com/novawrites/auth-service/users"
)

// DBTX is the subset of *sql.DB / *sql.Tx this repository needs.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var _ users.Repo = (*PostgresRepository)(nil)

type PostgresRepository struct {
	db DBTX
}

func NewPostgresRepository(db DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `id, username, email, hashed_password, first_name, last_name, bio, avatar_url,
	is_active, is_verified, is_premium, created_at, updated_at, last_login, writing_preferences`

func (r *PostgresRepository) Create(ctx context.Context, user *users.User) error {
	prefs, err := json.Marshal(user.Preferences)
	if err != nil {
		return fmt.Errorf("error encoding preferences: %w", err)
	}

	query :=
		`INSERT INTO users (id, username, email, hashed_password, first_name, last_name, bio, avatar_url,
			is_active, is_verified, is_premium, created_at, updated_at, writing_preferences)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		 `

	_, err = r.db.ExecContext(ctx, query,
		user.ID, user.Username, user.Email, user.PasswordHash,
		user.FirstName, user.LastName, user.Bio, user.AvatarURL,
		user.Active, user.Verified, user.Premium,
		user.CreatedAt, user.UpdatedAt, prefs)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Update(ctx context.Context, user *users.User) error {
	prefs, err := json.Marshal(user.Preferences)
	if err != nil {
		return fmt.Errorf("error encoding preferences: %w", err)
	}

	query :=
		`UPDATE users
		 SET username = $2, email = $3, hashed_password = $4, first_name = $5, last_name = $6,
			 bio = $7, avatar_url = $8, is_active = $9, is_verified = $10, is_premium = $11,
			 updated_at = $12, last_login = $13, writing_preferences = $14
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query,
		user.ID, user.Username, user.Email, user.PasswordHash,
		user.FirstName, user.LastName, user.Bio, user.AvatarURL,
		user.Active, user.Verified, user.Premium,
		user.UpdatedAt, nullTime(user.LastLogin), prefs)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*users.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*users.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, username))
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *PostgresRepository) scanUser(row *sql.Row) (*users.User, error) {
	user := &users.User{}
	var lastLogin sql.NullTime
	var prefs []byte

	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&user.FirstName, &user.LastName, &user.Bio, &user.AvatarURL,
		&user.Active, &user.Verified, &user.Premium,
		&user.CreatedAt, &user.UpdatedAt, &lastLogin, &prefs)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if lastLogin.Valid {
		user.LastLogin = lastLogin.Time
	}
	if len(prefs) > 0 {
		if err := json.Unmarshal(prefs, &user.Preferences); err != nil {
			return nil, fmt.Errorf("error decoding preferences: %w", err)
		}
	}
	return user, nil
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}

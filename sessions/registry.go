package sessions

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	apperrors "github.com/novawrites/auth-service/internal/errors"
)

const defaultReapBatchSize = 500

// Registry owns session records keyed by their issued tokens: it tracks
// activity, invalidation and expiry, and supports bulk invalidation and
// periodic reaping.
type Registry struct {
	repo          Repo
	refreshTTL    time.Duration
	reapBatchSize int
	nowTime       func() time.Time
}

// RegistryOption defines a function type to modify the Registry instance.
type RegistryOption func(*Registry)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) RegistryOption {
	return func(r *Registry) {
		r.nowTime = nowFunc
	}
}

// WithReapBatchSize bounds how many rows a single reap pass may flip
func WithReapBatchSize(size int) RegistryOption {
	return func(r *Registry) {
		r.reapBatchSize = size
	}
}

func NewRegistry(repo Repo, refreshTTL time.Duration, options ...RegistryOption) (*Registry, error) {
	if repo == nil {
		return nil, errors.New("[NewRegistry] session repo is required")
	}
	if refreshTTL <= 0 {
		return nil, errors.New("[NewRegistry] refresh TTL must be positive")
	}
	registry := &Registry{
		repo:          repo,
		refreshTTL:    refreshTTL,
		reapBatchSize: defaultReapBatchSize,
		nowTime:       time.Now,
	}
	for _, opt := range options {
		opt(registry)
	}
	return registry, nil
}

// Create persists a new active session for userID bound to the given token
// pair. ExpiresAt is fixed to now plus the refresh TTL. Multiple concurrent
// sessions per user are permitted.
func (r *Registry) Create(ctx context.Context, userID, accessToken, refreshToken string, meta Metadata) (*Session, error) {
	now := r.nowTime()
	session := &Session{
		ID:           uuid.New().String(),
		UserID:       userID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		UserAgent:    meta.UserAgent,
		IPAddress:    meta.IPAddress,
		Active:       true,
		CreatedAt:    now,
		ExpiresAt:    now.Add(r.refreshTTL),
		LastUsedAt:   now,
	}
	if err := r.repo.Create(ctx, session); err != nil {
		return nil, errors.Wrap(err, "[Registry.Create] Create")
	}
	return session, nil
}

// GetActive returns the session matching token only when it is still flagged
// active and unexpired. An expired-but-still-flagged-active session is
// treated as absent; its flag is left for the reaper to flip.
func (r *Registry) GetActive(ctx context.Context, token string) (*Session, error) {
	session, err := r.repo.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if !session.Active || session.Expired(r.nowTime()) {
		return nil, apperrors.ErrSessionNotFound
	}
	return session, nil
}

// Touch updates last_used_at on the matching active session; no-op if none
// matches.
func (r *Registry) Touch(ctx context.Context, token string) error {
	if err := r.repo.Touch(ctx, token, r.nowTime()); err != nil {
		return errors.Wrap(err, "[Registry.Touch] Touch")
	}
	return nil
}

// RebindAccessToken swaps the access-token reference of the active session
// matching refreshToken for a newly minted one, stamping activity. Used by the
// refresh flow so the new access token resolves to the same session.
func (r *Registry) RebindAccessToken(ctx context.Context, refreshToken, accessToken string) (*Session, error) {
	session, err := r.GetActive(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	now := r.nowTime()
	if err := r.repo.SwapAccessToken(ctx, session.ID, accessToken, now); err != nil {
		return nil, errors.Wrap(err, "[Registry.RebindAccessToken] SwapAccessToken")
	}
	session.AccessToken = accessToken
	session.LastUsedAt = now
	return session, nil
}

// InvalidateAll flips every currently-active session owned by userID to
// inactive and returns the number affected. The transition is one-way; a
// session is never resurrected.
func (r *Registry) InvalidateAll(ctx context.Context, userID string) (int, error) {
	count, err := r.repo.DeactivateAllForUser(ctx, userID)
	if err != nil {
		return 0, errors.Wrap(err, "[Registry.InvalidateAll] DeactivateAllForUser")
	}
	return count, nil
}

// ReapExpired flips sessions that are active but past expiry to inactive and
// returns the total affected. It works in bounded batches so it never holds a
// long-lived lock that would stall concurrent logins or logouts, and it is
// idempotent: an immediate second call returns 0.
func (r *Registry) ReapExpired(ctx context.Context) (int, error) {
	total := 0
	for {
		count, err := r.repo.DeactivateExpired(ctx, r.nowTime(), r.reapBatchSize)
		if err != nil {
			return total, errors.Wrap(err, "[Registry.ReapExpired] DeactivateExpired")
		}
		total += count
		if count < r.reapBatchSize {
			return total, nil
		}
	}
}

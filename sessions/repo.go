package sessions

import (
	"context"
	"time"
)

// Repo is the persistence contract for session rows. Active-flag transitions
// are compare-and-set on the current value, never unconditional writes, so
// concurrent invalidation and reaping on the same row cannot double-count.
type Repo interface {
	// Create persists a new session row
	Create(ctx context.Context, session *Session) error

	// GetByToken returns the active session whose access-token or
	// refresh-token reference equals token, without checking expiry
	GetByToken(ctx context.Context, token string) (*Session, error)

	// Touch sets last_used_at on the matching active session; a miss is not
	// an error
	Touch(ctx context.Context, token string, at time.Time) error

	// SwapAccessToken replaces the access-token reference of the identified
	// session and stamps last_used_at
	SwapAccessToken(ctx context.Context, sessionID, accessToken string, at time.Time) error

	// DeactivateAllForUser flips active to false for every currently-active
	// session owned by userID and returns the number affected
	DeactivateAllForUser(ctx context.Context, userID string) (int, error)

	// DeactivateExpired flips at most limit sessions that are active but past
	// cutoff, returning the number affected
	DeactivateExpired(ctx context.Context, cutoff time.Time, limit int) (int, error)
}

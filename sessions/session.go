package sessions

import "time"

// Metadata captures the client details recorded when a session is created.
type Metadata struct {
	UserAgent string
	IPAddress string
}

// Session is a revocable authorization grant binding an access/refresh token
// pair to a user. ExpiresAt is fixed at creation to CreatedAt plus the refresh
// TTL and never advanced. The active flag only ever transitions true to false.
type Session struct {
	ID           string
	UserID       string
	AccessToken  string // access-token reference, unique across the registry
	RefreshToken string // refresh-token reference, unique across the registry
	UserAgent    string
	IPAddress    string
	Active       bool
	CreatedAt    time.Time
	ExpiresAt    time.Time
	LastUsedAt   time.Time
}

// Expired reports whether the session is past its expiry, independent of the
// active flag.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

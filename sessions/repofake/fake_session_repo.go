package repofake

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/novawrites/auth-service/internal/errors"
	"github.com/novawrites/auth-service/sessions"
)

var _ sessions.Repo = (*FakeSessionRepo)(nil)

// FakeSessionRepo is an in-memory sessions.Repo used by tests and by
// deployments without a database configured. All flag flips happen under the
// write lock against the stored row, giving the same compare-and-set
// semantics as the conditional UPDATE in the Postgres implementation.
type FakeSessionRepo struct {
	byID     map[string]*sessions.Session
	tokenIds map[string]string // access/refresh token to session id
	lock     sync.RWMutex
}

func NewFakeSessionRepo() *FakeSessionRepo {
	return &FakeSessionRepo{
		byID:     make(map[string]*sessions.Session),
		tokenIds: make(map[string]string),
	}
}

func (sr *FakeSessionRepo) Create(_ context.Context, session *sessions.Session) error {
	sr.lock.Lock()
	defer sr.lock.Unlock()

	if _, ok := sr.tokenIds[session.AccessToken]; ok {
		return errors.Wrapf(errors.ErrInternal, "duplicate access token reference")
	}
	if _, ok := sr.tokenIds[session.RefreshToken]; ok {
		return errors.Wrapf(errors.ErrInternal, "duplicate refresh token reference")
	}

	clone := *session
	sr.byID[session.ID] = &clone
	sr.tokenIds[session.AccessToken] = session.ID
	sr.tokenIds[session.RefreshToken] = session.ID
	return nil
}

func (sr *FakeSessionRepo) GetByToken(_ context.Context, token string) (*sessions.Session, error) {
	sr.lock.RLock()
	defer sr.lock.RUnlock()

	id, ok := sr.tokenIds[token]
	if !ok {
		return nil, errors.ErrSessionNotFound
	}
	clone := *sr.byID[id]
	return &clone, nil
}

func (sr *FakeSessionRepo) Touch(_ context.Context, token string, at time.Time) error {
	sr.lock.Lock()
	defer sr.lock.Unlock()

	id, ok := sr.tokenIds[token]
	if !ok {
		return nil
	}
	session := sr.byID[id]
	if !session.Active {
		return nil
	}
	session.LastUsedAt = at
	return nil
}

func (sr *FakeSessionRepo) SwapAccessToken(_ context.Context, sessionID, accessToken string, at time.Time) error {
	sr.lock.Lock()
	defer sr.lock.Unlock()

	session, ok := sr.byID[sessionID]
	if !ok {
		return errors.ErrSessionNotFound
	}
	delete(sr.tokenIds, session.AccessToken)
	session.AccessToken = accessToken
	session.LastUsedAt = at
	sr.tokenIds[accessToken] = sessionID
	return nil
}

func (sr *FakeSessionRepo) DeactivateAllForUser(_ context.Context, userID string) (int, error) {
	sr.lock.Lock()
	defer sr.lock.Unlock()

	count := 0
	for _, session := range sr.byID {
		if session.UserID == userID && session.Active {
			session.Active = false
			count++
		}
	}
	return count, nil
}

func (sr *FakeSessionRepo) DeactivateExpired(_ context.Context, cutoff time.Time, limit int) (int, error) {
	sr.lock.Lock()
	defer sr.lock.Unlock()

	expired := make([]*sessions.Session, 0)
	for _, session := range sr.byID {
		if session.Active && session.ExpiresAt.Before(cutoff) {
			expired = append(expired, session)
		}
	}
	sort.Slice(expired, func(i, j int) bool {
		return expired[i].ExpiresAt.Before(expired[j].ExpiresAt)
	})

	count := 0
	for _, session := range expired {
		if count >= limit {
			break
		}
		session.Active = false
		count++
	}
	return count, nil
}

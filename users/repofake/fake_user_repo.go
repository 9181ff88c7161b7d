package repofake

import (
	"context"
	"sync"

	"github.com/novawrites/auth-service/internal/errors"
	"github.com/novawrites/auth-service/users"
)

var _ users.Repo = (*FakeUserRepo)(nil)

// FakeUserRepo is an in-memory users.Repo used by tests and by deployments
// without a database configured.
type FakeUserRepo struct {
	users       map[string]*users.User
	usernameIds map[string]string // username to user id
	emailIds    map[string]string // email to user id
	lock        sync.RWMutex
}

func NewFakeUserRepo() *FakeUserRepo {
	return &FakeUserRepo{
		users:       make(map[string]*users.User),
		usernameIds: make(map[string]string),
		emailIds:    make(map[string]string),
	}
}

func (ur *FakeUserRepo) Create(_ context.Context, user *users.User) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	if _, ok := ur.usernameIds[user.Username]; ok {
		return errors.ErrUsernameTaken
	}
	if _, ok := ur.emailIds[user.Email]; ok {
		return errors.ErrEmailTaken
	}

	clone := *user
	ur.users[user.ID] = &clone
	ur.usernameIds[user.Username] = user.ID
	ur.emailIds[user.Email] = user.ID
	return nil
}

func (ur *FakeUserRepo) Update(_ context.Context, user *users.User) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	stored, ok := ur.users[user.ID]
	if !ok {
		return errors.ErrNotFound
	}
	delete(ur.usernameIds, stored.Username)
	delete(ur.emailIds, stored.Email)

	clone := *user
	ur.users[user.ID] = &clone
	ur.usernameIds[user.Username] = user.ID
	ur.emailIds[user.Email] = user.ID
	return nil
}

func (ur *FakeUserRepo) GetByID(_ context.Context, id string) (*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	user, ok := ur.users[id]
	if !ok {
		return nil, errors.ErrNotFound
	}
	clone := *user
	return &clone, nil
}

func (ur *FakeUserRepo) GetByUsername(_ context.Context, username string) (*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	id, ok := ur.usernameIds[username]
	if !ok {
		return nil, errors.ErrNotFound
	}
	clone := *ur.users[id]
	return &clone, nil
}

func (ur *FakeUserRepo) GetByEmail(_ context.Context, email string) (*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	id, ok := ur.emailIds[email]
	if !ok {
		return nil, errors.ErrNotFound
	}
	clone := *ur.users[id]
	return &clone, nil
}

package users

import "context"

// Repo is the persistence contract for user rows. Lookups are exact and
// case-sensitive per the stored value. Misses are reported as
// errors.ErrNotFound from the internal catalog.
type Repo interface {
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}

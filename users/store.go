package users

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	apperrors "github.com/novawrites/auth-service/internal/errors"
)

// Registration carries the fields accepted at sign-up.
type Registration struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// ProfileUpdate carries optional profile mutations; nil fields are left
// untouched.
type ProfileUpdate struct {
	FirstName *string
	LastName  *string
	Bio       *string
	AvatarURL *string
}

// PreferencesUpdate carries optional writing-preference mutations; nil fields
// are left untouched.
type PreferencesUpdate struct {
	WritingStyle        *string
	NarrativeStructures []string
	CustomInstructions  *string
	PreferredGenres     []string
	PreferredTones      []string
	CollaborationLevel  *string
}

// Store owns user identity records: it hashes and verifies credentials and
// enforces username/email uniqueness on registration.
type Store struct {
	repo    Repo
	nowTime func() time.Time
}

// StoreOption defines a function type to modify the Store instance.
type StoreOption func(*Store)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) StoreOption {
	return func(s *Store) {
		s.nowTime = nowFunc
	}
}

func NewStore(repo Repo, options ...StoreOption) (*Store, error) {
	if repo == nil {
		return nil, errors.New("[NewStore] user repo is required")
	}
	store := &Store{
		repo:    repo,
		nowTime: time.Now,
	}
	for _, opt := range options {
		opt(store)
	}
	return store, nil
}

// Register creates a new user. Username and email uniqueness are checked
// independently before insertion so the caller can report the specific
// conflict.
func (s *Store) Register(ctx context.Context, reg Registration) (*User, error) {
	if err := ValidatePasswordStrength(reg.Password); err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrWeakPassword, "%s", err.Error())
	}

	if _, err := s.repo.GetByUsername(ctx, reg.Username); err == nil {
		return nil, apperrors.ErrUsernameTaken
	} else if !apperrors.Is(err, apperrors.ErrNotFound) {
		return nil, errors.Wrap(err, "[Store.Register] GetByUsername")
	}

	if _, err := s.repo.GetByEmail(ctx, reg.Email); err == nil {
		return nil, apperrors.ErrEmailTaken
	} else if !apperrors.Is(err, apperrors.ErrNotFound) {
		return nil, errors.Wrap(err, "[Store.Register] GetByEmail")
	}

	hash, err := HashPassword(reg.Password)
	if err != nil {
		return nil, errors.Wrap(err, "[Store.Register] HashPassword")
	}

	now := s.nowTime()
	user := &User{
		ID:           uuid.New().String(),
		Username:     reg.Username,
		Email:        reg.Email,
		PasswordHash: hash,
		FirstName:    reg.FirstName,
		LastName:     reg.LastName,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
		Preferences:  DefaultWritingPreferences(),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, errors.Wrap(err, "[Store.Register] Create")
	}
	return user, nil
}

func (s *Store) GetByID(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Store) GetByUsername(ctx context.Context, username string) (*User, error) {
	return s.repo.GetByUsername(ctx, username)
}

func (s *Store) GetByEmail(ctx context.Context, email string) (*User, error) {
	return s.repo.GetByEmail(ctx, email)
}

// RecordLogin stamps the user's last-login time.
func (s *Store) RecordLogin(ctx context.Context, user *User) error {
	user.LastLogin = s.nowTime()
	user.UpdatedAt = user.LastLogin
	if err := s.repo.Update(ctx, user); err != nil {
		return errors.Wrap(err, "[Store.RecordLogin] Update")
	}
	return nil
}

// UpdateProfile applies the non-nil fields of update to the user's profile.
func (s *Store) UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (*User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "[Store.UpdateProfile] GetByID")
	}

	if update.FirstName != nil {
		user.FirstName = *update.FirstName
	}
	if update.LastName != nil {
		user.LastName = *update.LastName
	}
	if update.Bio != nil {
		user.Bio = *update.Bio
	}
	if update.AvatarURL != nil {
		user.AvatarURL = *update.AvatarURL
	}
	user.UpdatedAt = s.nowTime()

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, errors.Wrap(err, "[Store.UpdateProfile] Update")
	}
	return user, nil
}

// UpdatePreferences merges the non-nil fields of update into the user's
// writing preferences.
func (s *Store) UpdatePreferences(ctx context.Context, userID string, update PreferencesUpdate) (*User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "[Store.UpdatePreferences] GetByID")
	}

	if update.WritingStyle != nil {
		user.Preferences.WritingStyle = *update.WritingStyle
	}
	if update.NarrativeStructures != nil {
		user.Preferences.NarrativeStructures = update.NarrativeStructures
	}
	if update.CustomInstructions != nil {
		user.Preferences.CustomInstructions = *update.CustomInstructions
	}
	if update.PreferredGenres != nil {
		user.Preferences.PreferredGenres = update.PreferredGenres
	}
	if update.PreferredTones != nil {
		user.Preferences.PreferredTones = update.PreferredTones
	}
	if update.CollaborationLevel != nil {
		user.Preferences.CollaborationLevel = *update.CollaborationLevel
	}
	user.UpdatedAt = s.nowTime()

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, errors.Wrap(err, "[Store.UpdatePreferences] Update")
	}
	return user, nil
}

// ChangePassword verifies the current password before storing a new hash.
func (s *Store) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return errors.Wrap(err, "[Store.ChangePassword] GetByID")
	}

	if !CheckPasswordHash(currentPassword, user.PasswordHash) {
		return apperrors.ErrInvalidCredentials
	}

	if err := ValidatePasswordStrength(newPassword); err != nil {
		return apperrors.Wrapf(apperrors.ErrWeakPassword, "%s", err.Error())
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return errors.Wrap(err, "[Store.ChangePassword] HashPassword")
	}

	user.PasswordHash = hash
	user.UpdatedAt = s.nowTime()
	if err := s.repo.Update(ctx, user); err != nil {
		return errors.Wrap(err, "[Store.ChangePassword] Update")
	}
	return nil
}

package users_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "github.com/novawrites/auth-service/internal/errors"
	"github.com/novawrites/auth-service/users"
	"github.com/novawrites/auth-service/users/repofake"
)

const (
	testUsername = "alice"
	testEmail    = "a@x.com"
	testPassword = "Secretpw1"
)

func setupStore(t *testing.T, now time.Time) *users.Store {
	t.Helper()

	store, err := users.NewStore(repofake.NewFakeUserRepo(), users.WithNowTime(func() time.Time { return now }))
	require.NoError(t, err)
	return store
}

func registration() users.Registration {
	return users.Registration{
		Username:  testUsername,
		Email:     testEmail,
		Password:  testPassword,
		FirstName: "Alice",
		LastName:  "Munro",
	}
}

func TestNewStoreRequiresRepo(t *testing.T) {
	_, err := users.NewStore(nil)
	require.Error(t, err)
}

func TestRegister(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store := setupStore(t, now)
	ctx := context.Background()

	user, err := store.Register(ctx, registration())
	require.NoError(t, err)
	require.NotEmpty(t, user.ID)
	require.Equal(t, testUsername, user.Username)
	require.Equal(t, testEmail, user.Email)
	require.True(t, user.Active)
	require.False(t, user.Verified)
	require.Equal(t, now, user.CreatedAt)
	require.Equal(t, users.DefaultWritingPreferences(), user.Preferences)

	require.NotEqual(t, testPassword, user.PasswordHash)
	require.True(t, users.CheckPasswordHash(testPassword, user.PasswordHash))

	stored, err := store.GetByUsername(ctx, testUsername)
	require.NoError(t, err)
	require.Equal(t, user.ID, stored.ID)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	store := setupStore(t, time.Now())
	ctx := context.Background()

	_, err := store.Register(ctx, registration())
	require.NoError(t, err)

	reg := registration()
	reg.Email = "other@x.com"
	_, err = store.Register(ctx, reg)
	require.ErrorIs(t, err, apperrors.ErrUsernameTaken)
	require.ErrorIs(t, err, apperrors.ErrDuplicateCredential)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	store := setupStore(t, time.Now())
	ctx := context.Background()

	_, err := store.Register(ctx, registration())
	require.NoError(t, err)

	reg := registration()
	reg.Username = "bob"
	_, err = store.Register(ctx, reg)
	require.ErrorIs(t, err, apperrors.ErrEmailTaken)
	require.ErrorIs(t, err, apperrors.ErrDuplicateCredential)
}

func TestRegisterWeakPassword(t *testing.T) {
	store := setupStore(t, time.Now())

	reg := registration()
	reg.Password = "weak"
	_, err := store.Register(context.Background(), reg)
	require.ErrorIs(t, err, apperrors.ErrWeakPassword)
}

func TestRecordLogin(t *testing.T) {
	loginTime := time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC)
	store := setupStore(t, loginTime)
	ctx := context.Background()

	user, err := store.Register(ctx, registration())
	require.NoError(t, err)
	require.True(t, user.LastLogin.IsZero())

	require.NoError(t, store.RecordLogin(ctx, user))

	stored, err := store.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, loginTime, stored.LastLogin)
}

func TestUpdateProfile(t *testing.T) {
	store := setupStore(t, time.Now())
	ctx := context.Background()

	user, err := store.Register(ctx, registration())
	require.NoError(t, err)

	bio := "Aspiring novelist"
	updated, err := store.UpdateProfile(ctx, user.ID, users.ProfileUpdate{Bio: &bio})
	require.NoError(t, err)
	require.Equal(t, bio, updated.Bio)
	require.Equal(t, "Alice", updated.FirstName) // untouched

	_, err = store.UpdateProfile(ctx, "missing-id", users.ProfileUpdate{Bio: &bio})
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestUpdatePreferences(t *testing.T) {
	store := setupStore(t, time.Now())
	ctx := context.Background()

	user, err := store.Register(ctx, registration())
	require.NoError(t, err)

	style := "literary"
	updated, err := store.UpdatePreferences(ctx, user.ID, users.PreferencesUpdate{
		WritingStyle:    &style,
		PreferredGenres: []string{"fantasy", "mystery"},
	})
	require.NoError(t, err)
	require.Equal(t, "literary", updated.Preferences.WritingStyle)
	require.Equal(t, []string{"fantasy", "mystery"}, updated.Preferences.PreferredGenres)
	require.Equal(t, "collaborator", updated.Preferences.CollaborationLevel) // untouched
}

func TestChangePassword(t *testing.T) {
	store := setupStore(t, time.Now())
	ctx := context.Background()

	user, err := store.Register(ctx, registration())
	require.NoError(t, err)

	err = store.ChangePassword(ctx, user.ID, "WrongPw99", "Newsecret1")
	require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	err = store.ChangePassword(ctx, user.ID, testPassword, "weak")
	require.ErrorIs(t, err, apperrors.ErrWeakPassword)

	require.NoError(t, store.ChangePassword(ctx, user.ID, testPassword, "Newsecret1"))

	stored, err := store.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.True(t, users.CheckPasswordHash("Newsecret1", stored.PasswordHash))
	require.False(t, users.CheckPasswordHash(testPassword, stored.PasswordHash))
}

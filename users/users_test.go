package users_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/novawrites/auth-service/users"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	hash, err := users.HashPassword("Secretpw1")
	require.NoError(t, err)
	require.NotEqual(t, "Secretpw1", hash)

	require.True(t, users.CheckPasswordHash("Secretpw1", hash))
	require.False(t, users.CheckPasswordHash("Secretpw2", hash))
	require.False(t, users.CheckPasswordHash("secretpw1", hash))
}

func TestCheckPasswordHashCorruptedHash(t *testing.T) {
	hash, err := users.HashPassword("Secretpw1")
	require.NoError(t, err)

	corrupted := []byte(hash)
	corrupted[len(corrupted)-1] ^= 0x01
	require.False(t, users.CheckPasswordHash("Secretpw1", string(corrupted)))

	require.False(t, users.CheckPasswordHash("Secretpw1", ""))
	require.False(t, users.CheckPasswordHash("Secretpw1", "not-a-bcrypt-hash"))
}

func TestValidatePasswordStrength(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"valid", "Secretpw1", false},
		{"too short", "Sh0rt", true},
		{"no uppercase", "secretpw1", true},
		{"no lowercase", "SECRETPW1", true},
		{"no number", "Secretpwd", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := users.ValidatePasswordStrength(tt.password)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestFullName(t *testing.T) {
	user := &users.User{Username: "alice", FirstName: "Alice", LastName: "Munro"}
	require.Equal(t, "Alice Munro", user.FullName())

	user = &users.User{Username: "alice"}
	require.Equal(t, "alice", user.FullName())

	user = &users.User{Username: "alice", FirstName: "Alice"}
	require.Equal(t, "alice", user.FullName())
}

func TestDefaultWritingPreferences(t *testing.T) {
	prefs := users.DefaultWritingPreferences()
	require.Equal(t, "descriptive", prefs.WritingStyle)
	require.Equal(t, []string{"three_act", "hero_journey"}, prefs.NarrativeStructures)
	require.Equal(t, "collaborator", prefs.CollaborationLevel)
}

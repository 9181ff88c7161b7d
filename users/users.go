package users

import (
	"fmt"
	"time"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// WritingPreferences holds the per-user writing configuration consumed by the
// drafting agents. Stored as a JSON document on the user row.
type WritingPreferences struct {
	WritingStyle        string   `json:"writing_style"`        // concise, descriptive, literary, pithy
	NarrativeStructures []string `json:"narrative_structures"` // three_act, hero_journey, path_of_fool, fichtean_curve
	CustomInstructions  string   `json:"custom_instructions"`
	PreferredGenres     []string `json:"preferred_genres"`
	PreferredTones      []string `json:"preferred_tones"`
	CollaborationLevel  string   `json:"collaboration_level"` // architect, director, collaborator, assistant
}

// DefaultWritingPreferences returns the preferences assigned at registration.
func DefaultWritingPreferences() WritingPreferences {
	return WritingPreferences{
		WritingStyle:        "descriptive",
		NarrativeStructures: []string{"three_act", "hero_journey"},
		PreferredGenres:     []string{},
		PreferredTones:      []string{},
		CollaborationLevel:  "collaborator",
	}
}

type User struct {
	ID           string `json:"id,omitempty"`       // Unique identifier for the user
	Username     string `json:"username,omitempty"` // Unique username, case-sensitive
	Email        string `json:"email,omitempty"`    // Unique email address
	PasswordHash string `json:"-"`                  // Hashed version of the user's password - never serialize

	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Bio       string `json:"bio,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`

	Active   bool `json:"is_active"`   // Account enabled
	Verified bool `json:"is_verified"` // Email verified
	Premium  bool `json:"is_premium"`  // Paid tier

	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
	LastLogin time.Time `json:"last_login,omitempty"`

	Preferences WritingPreferences `json:"writing_preferences"`
}

// Public is the externally visible projection of a User. The password hash and
// anything else sensitive never leaves the service.
type Public struct {
	ID          string             `json:"id"`
	Username    string             `json:"username"`
	Email       string             `json:"email"`
	FirstName   string             `json:"first_name,omitempty"`
	LastName    string             `json:"last_name,omitempty"`
	Bio         string             `json:"bio,omitempty"`
	AvatarURL   string             `json:"avatar_url,omitempty"`
	Active      bool               `json:"is_active"`
	Verified    bool               `json:"is_verified"`
	Premium     bool               `json:"is_premium"`
	CreatedAt   time.Time          `json:"created_at,omitempty"`
	LastLogin   time.Time          `json:"last_login,omitempty"`
	Preferences WritingPreferences `json:"writing_preferences"`
}

func (u *User) Public() Public {
	return Public{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Bio:         u.Bio,
		AvatarURL:   u.AvatarURL,
		Active:      u.Active,
		Verified:    u.Verified,
		Premium:     u.Premium,
		CreatedAt:   u.CreatedAt,
		LastLogin:   u.LastLogin,
		Preferences: u.Preferences,
	}
}

// FullName returns the user's display name, falling back to the username when
// no profile names are set.
func (u *User) FullName() string {
	if u.FirstName != "" && u.LastName != "" {
		return u.FirstName + " " + u.LastName
	}
	return u.Username
}

// ValidatePasswordStrength checks if password meets security requirements:
// - At least 8 characters long
// - Contains uppercase and lowercase letters
// - Contains at least one number
func ValidatePasswordStrength(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters long")
	}

	var (
		hasUpper  bool
		hasLower  bool
		hasNumber bool
	)

	for _, char := range password {
		if unicode.IsUpper(char) {
			hasUpper = true
		} else if unicode.IsLower(char) {
			hasLower = true
		} else if unicode.IsDigit(char) {
			hasNumber = true
		}
	}

	if !hasUpper {
		return fmt.Errorf("password must contain at least one uppercase letter")
	}
	if !hasLower {
		return fmt.Errorf("password must contain at least one lowercase letter")
	}
	if !hasNumber {
		return fmt.Errorf("password must contain at least one number")
	}

	return nil
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPasswordHash verifies a password against its bcrypt hash. The
// comparison is constant-time inside bcrypt and never short-circuits on
// length.
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

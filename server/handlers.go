package server

import (
	"encoding/json"
	"net"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/novawrites/auth-service/sessions"
	"github.com/novawrites/auth-service/users"
)

type registerRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type loginRequest struct {
	Username string `json:"username"` // username or email
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type profileUpdateRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Bio       *string `json:"bio"`
	AvatarURL *string `json:"avatar_url"`
}

type preferencesUpdateRequest struct {
	WritingStyle        *string  `json:"writing_style"`
	NarrativeStructures []string `json:"narrative_structures"`
	CustomInstructions  *string  `json:"custom_instructions"`
	PreferredGenres     []string `json:"preferred_genres"`
	PreferredTones      []string `json:"preferred_tones"`
	CollaborationLevel  *string  `json:"collaboration_level"`
}

type passwordChangeRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// RegisterHandler creates a new user account
func (s *Server) RegisterHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if req.Username == "" || req.Email == "" || req.Password == "" {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "username, email and password are required"})
			return
		}

		user, err := s.auth.Register(r.Context(), users.Registration{
			Username:  req.Username,
			Email:     req.Email,
			Password:  req.Password,
			FirstName: req.FirstName,
			LastName:  req.LastName,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, user.Public())
	}
}

// LoginHandler authenticates a user and returns a token pair
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if !decodeBody(w, r, &req) {
			return
		}

		pair, err := s.auth.Login(r.Context(), req.Username, req.Password, sessions.Metadata{
			UserAgent: r.UserAgent(),
			IPAddress: clientIP(r),
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, pair)
	}
}

// RefreshHandler exchanges a refresh token for a new access token
func (s *Server) RefreshHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req refreshRequest
		if !decodeBody(w, r, &req) {
			return
		}

		pair, err := s.auth.Refresh(r.Context(), req.RefreshToken)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, pair)
	}
}

// LogoutHandler revokes every session of the bearer's user
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rawToken := bearerToken(r)
		if rawToken == "" {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "Could not validate credentials"})
			return
		}

		count, err := s.auth.Logout(r.Context(), rawToken)
		if err != nil {
			writeError(w, err)
			return
		}
		log.Info().Int("sessions", count).Msg("User logged out")
		writeJSON(w, http.StatusOK, messageResponse{Message: "Successfully logged out"})
	}
}

// MeHandler returns the authenticated user's public record
func (s *Server) MeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, currentUser(r).Public())
	}
}

// UpdateProfileHandler applies a partial profile update
func (s *Server) UpdateProfileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req profileUpdateRequest
		if !decodeBody(w, r, &req) {
			return
		}

		user, err := s.users.UpdateProfile(r.Context(), currentUser(r).ID, users.ProfileUpdate{
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Bio:       req.Bio,
			AvatarURL: req.AvatarURL,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, user.Public())
	}
}

// UpdatePreferencesHandler applies a partial writing-preferences update
func (s *Server) UpdatePreferencesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req preferencesUpdateRequest
		if !decodeBody(w, r, &req) {
			return
		}

		user, err := s.users.UpdatePreferences(r.Context(), currentUser(r).ID, users.PreferencesUpdate{
			WritingStyle:        req.WritingStyle,
			NarrativeStructures: req.NarrativeStructures,
			CustomInstructions:  req.CustomInstructions,
			PreferredGenres:     req.PreferredGenres,
			PreferredTones:      req.PreferredTones,
			CollaborationLevel:  req.CollaborationLevel,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, user.Public())
	}
}

// ChangePasswordHandler verifies the current password and stores a new hash
func (s *Server) ChangePasswordHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req passwordChangeRequest
		if !decodeBody(w, r, &req) {
			return
		}

		if err := s.users.ChangePassword(r.Context(), currentUser(r).ID, req.CurrentPassword, req.NewPassword); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, messageResponse{Message: "Password updated"})
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		return false
	}
	return true
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return forwarded
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

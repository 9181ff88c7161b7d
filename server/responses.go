package server

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	apperrors "github.com/novawrites/auth-service/internal/errors"
)

type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

// writeError maps internal error kinds to HTTP statuses. Token and session
// failures all surface as the same generic unauthorized response so a caller
// cannot probe which check failed.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case apperrors.Is(err, apperrors.ErrUsernameTaken):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Username already taken"})
	case apperrors.Is(err, apperrors.ErrEmailTaken):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Email already registered"})
	case apperrors.Is(err, apperrors.ErrWeakPassword):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case apperrors.Is(err, apperrors.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "Incorrect username or password"})
	case apperrors.Is(err, apperrors.ErrTokenInvalid),
		apperrors.Is(err, apperrors.ErrTokenExpired),
		apperrors.Is(err, apperrors.ErrTokenKindMismatch),
		apperrors.Is(err, apperrors.ErrUnauthorized):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "Could not validate credentials"})
	case apperrors.Is(err, apperrors.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "Not found"})
	default:
		log.Err(err).Msg("Unhandled service error")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal server error"})
	}
}

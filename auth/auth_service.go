package auth

import (
	"context"
	"time"

	"github.com/pkg/errors"

	apperrors "github.com/novawrites/auth-service/internal/errors"
	"github.com/novawrites/auth-service/sessions"
	"github.com/novawrites/auth-service/token"
	"github.com/novawrites/auth-service/users"
)

// TokenPair is the response of a successful login or refresh.
type TokenPair struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
	User         users.Public `json:"user"`
}

// Deps holds all dependencies for the Service
type Deps struct {
	Users    *users.Store       // Credential store
	Sessions *sessions.Registry // Session registry
	Tokens   *token.Issuer      // Token issuer
}

// Service orchestrates the credential store, the token issuer and the session
// registry into the login, refresh, logout and identity flows. It is the only
// component exposed to callers.
type Service struct {
	deps       Deps
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewService(deps Deps, accessTTL, refreshTTL time.Duration) (*Service, error) {
	if deps.Users == nil {
		return nil, errors.New("[NewService] Users store is required")
	}
	if deps.Sessions == nil {
		return nil, errors.New("[NewService] Sessions registry is required")
	}
	if deps.Tokens == nil {
		return nil, errors.New("[NewService] Tokens issuer is required")
	}
	if accessTTL <= 0 || refreshTTL <= 0 {
		return nil, errors.New("[NewService] token TTLs must be positive")
	}
	return &Service{
		deps:       deps,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}, nil
}

// Register creates a new user account. Duplicate username and duplicate email
// are reported as distinct errors so the caller can show the specific
// conflict.
func (s *Service) Register(ctx context.Context, reg users.Registration) (*users.User, error) {
	return s.deps.Users.Register(ctx, reg)
}

// Login resolves identifier as a username first, then as an email, verifies
// the password, mints an access/refresh token pair and binds a new session to
// it. Every failure in resolution or verification collapses into the same
// InvalidCredentials outcome so callers cannot probe which account names
// exist.
func (s *Service) Login(ctx context.Context, identifier, password string, meta sessions.Metadata) (*TokenPair, error) {
	user, err := s.deps.Users.GetByUsername(ctx, identifier)
	if err != nil {
		if !apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, errors.Wrap(err, "[Service.Login] GetByUsername")
		}
		user, err = s.deps.Users.GetByEmail(ctx, identifier)
		if err != nil {
			if !apperrors.Is(err, apperrors.ErrNotFound) {
				return nil, errors.Wrap(err, "[Service.Login] GetByEmail")
			}
			return nil, apperrors.ErrInvalidCredentials
		}
	}

	if !users.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}

	if err := s.deps.Users.RecordLogin(ctx, user); err != nil {
		return nil, errors.Wrap(err, "[Service.Login] RecordLogin")
	}

	accessToken, err := s.deps.Tokens.Mint(user.Username, token.KindAccess, s.accessTTL)
	if err != nil {
		return nil, errors.Wrap(err, "[Service.Login] Mint access")
	}
	refreshToken, err := s.deps.Tokens.Mint(user.Username, token.KindRefresh, s.refreshTTL)
	if err != nil {
		return nil, errors.Wrap(err, "[Service.Login] Mint refresh")
	}

	if _, err := s.deps.Sessions.Create(ctx, user.ID, accessToken, refreshToken, meta); err != nil {
		return nil, errors.Wrap(err, "[Service.Login] Create session")
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		User:         user.Public(),
	}, nil
}

// Refresh verifies the presented token with expected kind refresh, re-mints
// only a new access token and rebinds the session's access-token reference to
// it. The same refresh token is returned unchanged; rotation is deliberately
// not performed. A refresh token whose session has been invalidated is
// refused even when its signature is still valid.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.deps.Tokens.Verify(refreshToken, token.KindRefresh)
	if err != nil {
		return nil, err
	}

	user, err := s.deps.Users.GetByUsername(ctx, claims.Subject)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, errors.Wrap(err, "[Service.Refresh] GetByUsername")
	}

	accessToken, err := s.deps.Tokens.Mint(user.Username, token.KindAccess, s.accessTTL)
	if err != nil {
		return nil, errors.Wrap(err, "[Service.Refresh] Mint access")
	}

	if _, err := s.deps.Sessions.RebindAccessToken(ctx, refreshToken, accessToken); err != nil {
		if apperrors.Is(err, apperrors.ErrSessionNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, errors.Wrap(err, "[Service.Refresh] RebindAccessToken")
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		User:         user.Public(),
	}, nil
}

// Logout resolves the session bound to the presented access token and
// invalidates every session owned by that user, not just the one presenting
// the token. Returns the number of sessions revoked.
func (s *Service) Logout(ctx context.Context, accessToken string) (int, error) {
	session, err := s.resolveSession(ctx, accessToken)
	if err != nil {
		return 0, err
	}

	count, err := s.deps.Sessions.InvalidateAll(ctx, session.UserID)
	if err != nil {
		return 0, errors.Wrap(err, "[Service.Logout] InvalidateAll")
	}
	return count, nil
}

// CurrentUser verifies the access token, requires a matching active session
// and resolves its owner. Session-level revocation takes precedence over a
// still-cryptographically-valid token. The session's activity timestamp is
// touched as a side effect.
func (s *Service) CurrentUser(ctx context.Context, accessToken string) (*users.User, error) {
	session, err := s.resolveSession(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	user, err := s.deps.Users.GetByID(ctx, session.UserID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, errors.Wrap(err, "[Service.CurrentUser] GetByID")
	}

	if err := s.deps.Sessions.Touch(ctx, accessToken); err != nil {
		return nil, errors.Wrap(err, "[Service.CurrentUser] Touch")
	}

	return user, nil
}

// resolveSession collapses token verification and session lookup failures
// into the single Unauthorized outcome.
func (s *Service) resolveSession(ctx context.Context, accessToken string) (*sessions.Session, error) {
	if _, err := s.deps.Tokens.Verify(accessToken, token.KindAccess); err != nil {
		return nil, apperrors.ErrUnauthorized
	}

	session, err := s.deps.Sessions.GetActive(ctx, accessToken)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrSessionNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, errors.Wrap(err, "[Service.resolveSession] GetActive")
	}
	return session, nil
}

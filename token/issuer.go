package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	apperrors "github.com/novawrites/auth-service/internal/errors"
)

// Kind discriminates what a token may be used for. A token minted for one
// purpose is never accepted for another.
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

// Claims is the verified claim set carried by a minted token.
type Claims struct {
	Subject   string
	Kind      Kind
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Issuer mints and verifies signed, time-bounded tokens. It is stateless: the
// only state is the immutable signing key loaded once at process start, so an
// Issuer is safe for concurrent use.
type Issuer struct {
	signer  Signer
	nowTime func() time.Time
}

// IssuerOption defines a function type to modify the Issuer instance.
type IssuerOption func(*Issuer)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) IssuerOption {
	return func(i *Issuer) {
		i.nowTime = nowFunc
	}
}

func NewIssuer(signer Signer, options ...IssuerOption) (*Issuer, error) {
	if signer == nil {
		return nil, errors.New("[NewIssuer] signer is required")
	}
	issuer := &Issuer{
		signer:  signer,
		nowTime: time.Now,
	}
	for _, opt := range options {
		opt(issuer)
	}
	return issuer, nil
}

// Mint creates a compact signed token carrying the subject, the kind and an
// expiry of now+ttl.
func (i *Issuer) Mint(subject string, kind Kind, ttl time.Duration) (string, error) {
	now := i.nowTime()
	claims := jwt.MapClaims{
		"sub":  subject,
		"type": string(kind),
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
	}
	signed, err := i.signer.Sign(claims)
	if err != nil {
		return "", errors.Wrap(err, "[Issuer.Mint] Sign")
	}
	return signed, nil
}

// Verify parses and validates a token, then checks the embedded kind against
// expected. Expiry is reported before a kind mismatch.
func (i *Issuer) Verify(rawToken string, expected Kind) (*Claims, error) {
	parser := jwt.NewParser(jwt.WithTimeFunc(i.nowTime))
	parsed, err := parser.Parse(rawToken, i.signer.GetVerificationKey)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, apperrors.Wrapf(apperrors.ErrTokenInvalid, "%s", err.Error())
	}

	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apperrors.ErrTokenInvalid
	}

	subject, _ := mapClaims["sub"].(string)
	kind, _ := mapClaims["type"].(string)
	iat, _ := mapClaims["iat"].(float64)
	exp, _ := mapClaims["exp"].(float64)

	if subject == "" || kind == "" || exp == 0 {
		return nil, apperrors.ErrTokenInvalid
	}
	if Kind(kind) != expected {
		return nil, apperrors.Wrapf(apperrors.ErrTokenKindMismatch, "got %q, want %q", kind, expected)
	}

	return &Claims{
		Subject:   subject,
		Kind:      Kind(kind),
		IssuedAt:  time.Unix(int64(iat), 0),
		ExpiresAt: time.Unix(int64(exp), 0),
	}, nil
}

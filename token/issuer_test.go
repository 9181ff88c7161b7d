package token_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "github.com/novawrites/auth-service/internal/errors"
	"github.com/novawrites/auth-service/token"
)

const (
	secretStr   = "test-signing-secret-1234"
	testSubject = "alice"
)

func setupIssuer(t *testing.T, now *time.Time) *token.Issuer {
	t.Helper()

	issuer, err := token.NewIssuer(token.NewHMACSigner(secretStr), token.WithNowTime(func() time.Time { return *now }))
	require.NoError(t, err)
	return issuer
}

func TestNewIssuerRequiresSigner(t *testing.T) {
	_, err := token.NewIssuer(nil)
	require.Error(t, err)
}

func TestMintVerifyRoundTrip(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	issuer := setupIssuer(t, &now)

	minted, err := issuer.Mint(testSubject, token.KindAccess, 30*time.Minute)
	require.NoError(t, err)
	require.Len(t, strings.Split(minted, "."), 3)

	claims, err := issuer.Verify(minted, token.KindAccess)
	require.NoError(t, err)
	require.Equal(t, testSubject, claims.Subject)
	require.Equal(t, token.KindAccess, claims.Kind)
	require.Equal(t, now.Add(30*time.Minute).Unix(), claims.ExpiresAt.Unix())
}

func TestVerifyExpired(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	issuer := setupIssuer(t, &now)

	minted, err := issuer.Mint(testSubject, token.KindAccess, time.Second)
	require.NoError(t, err)

	now = now.Add(2 * time.Second)
	_, err = issuer.Verify(minted, token.KindAccess)
	require.ErrorIs(t, err, apperrors.ErrTokenExpired)
}

func TestVerifyKindMismatch(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	issuer := setupIssuer(t, &now)

	refreshToken, err := issuer.Mint(testSubject, token.KindRefresh, time.Hour)
	require.NoError(t, err)
	_, err = issuer.Verify(refreshToken, token.KindAccess)
	require.ErrorIs(t, err, apperrors.ErrTokenKindMismatch)

	accessToken, err := issuer.Mint(testSubject, token.KindAccess, time.Hour)
	require.NoError(t, err)
	_, err = issuer.Verify(accessToken, token.KindRefresh)
	require.ErrorIs(t, err, apperrors.ErrTokenKindMismatch)
}

func TestVerifyExpiryReportedBeforeKindMismatch(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	issuer := setupIssuer(t, &now)

	minted, err := issuer.Mint(testSubject, token.KindRefresh, time.Second)
	require.NoError(t, err)

	now = now.Add(2 * time.Second)
	_, err = issuer.Verify(minted, token.KindAccess)
	require.ErrorIs(t, err, apperrors.ErrTokenExpired)
}

func TestVerifyMalformed(t *testing.T) {
	now := time.Now()
	issuer := setupIssuer(t, &now)

	_, err := issuer.Verify("not-a-token", token.KindAccess)
	require.ErrorIs(t, err, apperrors.ErrTokenInvalid)

	_, err = issuer.Verify("", token.KindAccess)
	require.ErrorIs(t, err, apperrors.ErrTokenInvalid)
}

func TestVerifyTamperedSignature(t *testing.T) {
	now := time.Now()
	issuer := setupIssuer(t, &now)

	minted, err := issuer.Mint(testSubject, token.KindAccess, time.Hour)
	require.NoError(t, err)

	other, err := token.NewIssuer(token.NewHMACSigner("another-secret-5678"), token.WithNowTime(func() time.Time { return now }))
	require.NoError(t, err)

	_, err = other.Verify(minted, token.KindAccess)
	require.ErrorIs(t, err, apperrors.ErrTokenInvalid)
}

func TestNewSignerAlgorithms(t *testing.T) {
	for _, algorithm := range []string{"HS256", "HS384", "HS512"} {
		signer, err := token.NewSigner(algorithm, secretStr)
		require.NoError(t, err)
		require.NotNil(t, signer)
	}

	_, err := token.NewSigner("RS256", secretStr)
	require.Error(t, err)

	_, err = token.NewSigner("none", secretStr)
	require.Error(t, err)
}

func TestSignerRoundTripAcrossAlgorithms(t *testing.T) {
	now := time.Now()
	signer, err := token.NewSigner("HS512", secretStr)
	require.NoError(t, err)

	issuer, err := token.NewIssuer(signer, token.WithNowTime(func() time.Time { return now }))
	require.NoError(t, err)

	minted, err := issuer.Mint(testSubject, token.KindRefresh, time.Hour)
	require.NoError(t, err)

	claims, err := issuer.Verify(minted, token.KindRefresh)
	require.NoError(t, err)
	require.Equal(t, testSubject, claims.Subject)
}

package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/novawrites/auth-service/internal/config"
)

func validConfig() config.Config {
	return config.Config{
		Port:          ":8080",
		SecretKey:     "test-signing-secret-1234",
		JWTAlgorithm:  "HS256",
		AccessTTL:     30 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
		ReapInterval:  15 * time.Minute,
		ReapBatchSize: 500,
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, validConfig().Validate())
}

func TestValidateRejectsMissingSecret(t *testing.T) {
	cfg := validConfig()
	cfg.SecretKey = ""
	require.Error(t, cfg.Validate())
}

func TestValidateRejectsShortSecret(t *testing.T) {
	cfg := validConfig()
	cfg.SecretKey = "too-short"
	require.Error(t, cfg.Validate())
}

func TestValidateRejectsUnknownAlgorithm(t *testing.T) {
	cfg := validConfig()
	cfg.JWTAlgorithm = "none"
	require.Error(t, cfg.Validate())

	cfg.JWTAlgorithm = "RS256"
	require.Error(t, cfg.Validate())
}

func TestValidateRejectsNonPositiveTTLs(t *testing.T) {
	cfg := validConfig()
	cfg.AccessTTL = 0
	require.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.RefreshTTL = -time.Minute
	require.Error(t, cfg.Validate())
}

func TestLoadDefaults(t *testing.T) {
	cfg := config.Load()
	require.Equal(t, ":8080", cfg.Port)
	require.Equal(t, "HS256", cfg.JWTAlgorithm)
	require.Equal(t, 30*time.Minute, cfg.AccessTTL)
	require.Equal(t, 7*24*time.Hour, cfg.RefreshTTL)
	require.Equal(t, 500, cfg.ReapBatchSize)
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("SECRET_KEY", "env-signing-secret-1234")
	t.Setenv("ACCESS_TOKEN_TTL", "15m")
	t.Setenv("SESSION_REAP_BATCH_SIZE", "100")

	cfg := config.Load()
	require.Equal(t, "env-signing-secret-1234", cfg.SecretKey)
	require.Equal(t, 15*time.Minute, cfg.AccessTTL)
	require.Equal(t, 100, cfg.ReapBatchSize)
	require.NoError(t, cfg.Validate())
}

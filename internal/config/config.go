package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	portEnvVar        = "PORT"
	appNameEnvVar     = "APP_NAME"
	envEnvVar         = "ENV"
	secretKeyEnvVar   = "SECRET_KEY"
	jwtAlgorithmVar   = "JWT_ALGORITHM"
	accessTTLEnvVar   = "ACCESS_TOKEN_TTL"
	refreshTTLEnvVar  = "REFRESH_TOKEN_TTL"
	databaseURLVar    = "DATABASE_URL"
	reapIntervalVar   = "SESSION_REAP_INTERVAL"
	reapBatchSizeVar  = "SESSION_REAP_BATCH_SIZE"
	minSecretKeyBytes = 16
)

// Config holds the process-wide configuration. It is constructed once at
// startup and treated as immutable afterwards.
type Config struct {
	Port          string
	AppName       string
	Env           string
	SecretKey     string
	JWTAlgorithm  string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	DatabaseURL   string
	ReapInterval  time.Duration
	ReapBatchSize int
}

// Load reads the configuration from environment variables, applying the
// defaults the original deployment used (30 minute access tokens, 7 day
// refresh tokens).
func Load() Config {
	return Config{
		Port:          port(),
		AppName:       GetEnv(appNameEnvVar, "Auth Service"),
		Env:           GetEnv(envEnvVar, "DEV"),
		SecretKey:     GetEnv(secretKeyEnvVar, ""),
		JWTAlgorithm:  GetEnv(jwtAlgorithmVar, "HS256"),
		AccessTTL:     durationEnv(accessTTLEnvVar, 30*time.Minute),
		RefreshTTL:    durationEnv(refreshTTLEnvVar, 7*24*time.Hour),
		DatabaseURL:   GetEnv(databaseURLVar, ""),
		ReapInterval:  durationEnv(reapIntervalVar, 15*time.Minute),
		ReapBatchSize: intEnv(reapBatchSizeVar, 500),
	}
}

// Validate checks the startup invariants. A missing or short signing key is
// fatal: the process must refuse to start rather than run with a weakened
// secret.
func (c Config) Validate() error {
	if c.SecretKey == "" {
		return fmt.Errorf("%s is required", secretKeyEnvVar)
	}
	if len(c.SecretKey) < minSecretKeyBytes {
		return fmt.Errorf("%s must be at least %d bytes", secretKeyEnvVar, minSecretKeyBytes)
	}
	switch c.JWTAlgorithm {
	case "HS256", "HS384", "HS512":
	default:
		return fmt.Errorf("unsupported %s %q", jwtAlgorithmVar, c.JWTAlgorithm)
	}
	if c.AccessTTL <= 0 || c.RefreshTTL <= 0 {
		return fmt.Errorf("token TTLs must be positive")
	}
	if c.ReapBatchSize <= 0 {
		return fmt.Errorf("%s must be positive", reapBatchSizeVar)
	}
	return nil
}

func port() string {
	p := GetEnv(portEnvVar, "8080")
	if p[0] != ':' {
		p = fmt.Sprintf(":%s", p)
	}
	return p
}

func durationEnv(envVar string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}

func intEnv(envVar string, defaultValue int) int {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}

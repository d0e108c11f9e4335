package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// MinSessionSecretLen is the shortest accepted HS256 signing key, in bytes.
const MinSessionSecretLen = 32

// DefaultSessionTTL is how long a session token stays valid when nothing overrides it.
const DefaultSessionTTL = 24 * time.Hour

// SessionConfig holds what the server needs to sign the session token of the signed-in user.
type SessionConfig struct {
	Secret string
	TTL    time.Duration
}

// NewSessionConfig reads the session signing settings from the environment.
// SESSION_SECRET and SESSION_TTL_HOURS win over the older JWT_SECRET and
// JWT_EXPIRATION_HOURS names.
func NewSessionConfig() (*SessionConfig, error) {
	secret, secretVar := firstEnv("SESSION_SECRET", "JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("SESSION_SECRET (or JWT_SECRET) is required but not set")
	}

	cfg := &SessionConfig{Secret: secret, TTL: DefaultSessionTTL}

	if raw, ttlVar := firstEnv("SESSION_TTL_HOURS", "JWT_EXPIRATION_HOURS"); raw != "" {
		hours, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %v", ttlVar, err)
		}
		if hours < 1 {
			return nil, fmt.Errorf("%s must be at least 1 hour, got: %d", ttlVar, hours)
		}
		cfg.TTL = time.Duration(hours) * time.Hour
	}

	if len(cfg.Secret) < MinSessionSecretLen {
		return nil, fmt.Errorf("%s must be at least %d bytes, got: %d", secretVar, MinSessionSecretLen, len(cfg.Secret))
	}
	return cfg, nil
}

// firstEnv returns the first non-blank value among keys and the key it came from.
func firstEnv(keys ...string) (string, string) {
	for _, k := range keys {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v, k
		}
	}
	return "", keys[0]
}

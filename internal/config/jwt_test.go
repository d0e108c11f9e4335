package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSessionSecret = "session-secret-for-tests-0123456789abcdef"

// clearSessionEnv blanks every variable NewSessionConfig reads.
func clearSessionEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"SESSION_SECRET", "JWT_SECRET", "SESSION_TTL_HOURS", "JWT_EXPIRATION_HOURS"} {
		t.Setenv(k, "")
	}
}

func TestNewSessionConfig_Defaults(t *testing.T) {
	clearSessionEnv(t)
	t.Setenv("SESSION_SECRET", testSessionSecret)

	cfg, err := NewSessionConfig()
	require.NoError(t, err)
	assert.Equal(t, testSessionSecret, cfg.Secret)
	assert.Equal(t, DefaultSessionTTL, cfg.TTL)
}

func TestNewSessionConfig_SecretSources(t *testing.T) {
	tests := []struct {
		name    string
		session string
		legacy  string
		want    string
	}{
		{"session secret only", testSessionSecret, "", testSessionSecret},
		{"legacy secret only", "", "legacy-" + testSessionSecret, "legacy-" + testSessionSecret},
		{"session secret wins", testSessionSecret, "legacy-" + testSessionSecret, testSessionSecret},
		{"blank session secret falls back", "   ", "legacy-" + testSessionSecret, "legacy-" + testSessionSecret},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearSessionEnv(t)
			t.Setenv("SESSION_SECRET", tt.session)
			t.Setenv("JWT_SECRET", tt.legacy)

			cfg, err := NewSessionConfig()
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.Secret)
		})
	}
}

func TestNewSessionConfig_RejectsSecret(t *testing.T) {
	tests := []struct {
		name    string
		session string
		legacy  string
		errPart string
	}{
		{"nothing set", "", "", "SESSION_SECRET (or JWT_SECRET) is required"},
		{"short session secret", "too-short", "", "SESSION_SECRET must be at least 32 bytes"},
		{"short legacy secret", "", "too-short", "JWT_SECRET must be at least 32 bytes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearSessionEnv(t)
			t.Setenv("SESSION_SECRET", tt.session)
			t.Setenv("JWT_SECRET", tt.legacy)

			cfg, err := NewSessionConfig()
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.errPart)
		})
	}
}

func TestNewSessionConfig_TTL(t *testing.T) {
	tests := []struct {
		name    string
		ttl     string
		legacy  string
		want    time.Duration
		errPart string
	}{
		{name: "session ttl", ttl: "12", want: 12 * time.Hour},
		{name: "legacy ttl", legacy: "48", want: 48 * time.Hour},
		{name: "session ttl wins", ttl: "2", legacy: "48", want: 2 * time.Hour},
		{name: "one week", ttl: "168", want: 168 * time.Hour},
		{name: "minimum", ttl: "1", want: time.Hour},
		{name: "zero", ttl: "0", errPart: "SESSION_TTL_HOURS must be at least 1 hour"},
		{name: "negative legacy", legacy: "-1", errPart: "JWT_EXPIRATION_HOURS must be at least 1 hour"},
		{name: "fractional", ttl: "12.5", errPart: "invalid SESSION_TTL_HOURS"},
		{name: "not a number", legacy: "soon", errPart: "invalid JWT_EXPIRATION_HOURS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearSessionEnv(t)
			t.Setenv("SESSION_SECRET", testSessionSecret)
			t.Setenv("SESSION_TTL_HOURS", tt.ttl)
			t.Setenv("JWT_EXPIRATION_HOURS", tt.legacy)

			cfg, err := NewSessionConfig()
			if tt.errPart != "" {
				require.Error(t, err)
				assert.Nil(t, cfg)
				assert.Contains(t, err.Error(), tt.errPart)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.TTL)
		})
	}
}

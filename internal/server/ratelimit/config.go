package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path pattern (supports prefix matching)
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// LoadConfig reads the RATE_LIMIT_* variables. Limiting is on unless RATE_LIMIT_ENABLED is false.
func LoadConfig() *Config {
	if !getEnvBool("RATE_LIMIT_ENABLED", true) {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    getEnvInt("RATE_LIMIT_DEFAULT_LIMIT", 1000),
		DefaultWindow:   getEnvDuration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: getEnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		Whitelist:       parseIPList(getEnvString("RATE_LIMIT_WHITELIST", "")),
		Blacklist:       parseIPList(getEnvString("RATE_LIMIT_BLACKLIST", "")),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the default endpoint-specific configurations.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// Tier 1: generative AI calls (strictest limits)
		{Path: "/wizard/ai", Method: "POST", Limit: 30, Window: time.Hour, Burst: 5},
		{Path: "/skills/suggestions/refresh", Method: "POST", Limit: 30, Window: time.Hour, Burst: 5},
		{Path: "/proposals/{}/accept", Method: "POST", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/proposals/{}/discard", Method: "POST", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/proposals/{}/regenerate", Method: "POST", Limit: 30, Window: time.Hour, Burst: 5},
		{Path: "/proposals/{}/{}", Method: "POST", Limit: 30, Window: time.Hour, Burst: 5},

		// Tier 2: headless browser exports
		{Path: "/export/", Method: "GET", Limit: 20, Window: time.Hour, Burst: 3},

		// Tier 3: sign-in and document writes (moderate limits)
		{Path: "/auth/", Method: "POST", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/document/", Method: "POST", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/document/", Method: "PUT", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/document/", Method: "PATCH", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/document/", Method: "DELETE", Limit: 100, Window: time.Minute, Burst: 10},

		// Tier 4: reads - handled by default limit
		// Tier 5: health check (unlimited) - handled by special case in matcher
	}
}

// lookupEnv parses the variable key with parse, falling back to def when it is unset or malformed.
func lookupEnv[T any](key string, def T, parse func(string) (T, error)) T {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := parse(raw)
	if err != nil {
		return def
	}
	return v
}

func getEnvString(key, def string) string {
	return lookupEnv(key, def, func(s string) (string, error) { return s, nil })
}

func getEnvInt(key string, def int) int {
	return lookupEnv(key, def, strconv.Atoi)
}

func getEnvBool(key string, def bool) bool {
	return lookupEnv(key, def, strconv.ParseBool)
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	return lookupEnv(key, def, time.ParseDuration)
}

// parseIPList turns "a, b,,c" into a set of addresses.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}

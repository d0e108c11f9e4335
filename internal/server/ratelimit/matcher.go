package ratelimit

import (
	"strings"
)

// Wildcard matches exactly one path segment in an EndpointConfig path.
const Wildcard = "{}"

// MatchEndpoint matches a request path and method to an endpoint configuration.
// Returns the matching EndpointConfig or nil if no match is found.
// Exact paths win, then segment patterns in declaration order ("/proposals/{}/accept"),
// then prefixes (paths ending with "/").
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	// Special case: health check endpoint is unlimited
	if path == "/health" && method == "GET" {
		return &EndpointConfig{
			Limit:  0, // Unlimited
			Window: 0,
			Burst:  0,
		}
	}

	// Try exact match first
	for i := range configs {
		config := &configs[i]
		if config.Method == method && !config.isPattern() && config.Path == path {
			return config
		}
	}

	for i := range configs {
		config := &configs[i]
		if config.Method == method && config.isPattern() && segmentsMatch(config.Path, path) {
			return config
		}
	}

	// Try prefix match (for paths ending with "/")
	for i := range configs {
		config := &configs[i]
		if config.Method == method && strings.HasSuffix(config.Path, "/") && strings.HasPrefix(path, config.Path) {
			return config
		}
	}

	// No match found
	return nil
}

func (c *EndpointConfig) isPattern() bool {
	return strings.Contains(c.Path, Wildcard)
}

// key identifies the bucket a request falls into under c.
func (c *EndpointConfig) key(path, method string) string {
	if c.Path == "" {
		return path + ":" + method
	}
	return c.Path + ":" + method
}

func segmentsMatch(pattern, path string) bool {
	want := strings.Split(strings.Trim(pattern, "/"), "/")
	got := strings.Split(strings.Trim(path, "/"), "/")
	if len(want) != len(got) {
		return false
	}
	for i := range want {
		if want[i] != Wildcard && want[i] != got[i] {
			return false
		}
	}
	return true
}

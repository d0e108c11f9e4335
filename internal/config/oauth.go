package config

import "os"

// OAuthClient is one provider's OAuth client registration.
type OAuthClient struct {
	ClientID     string
	ClientSecret string
}

// OAuthConfig holds the client registrations for the live sign-in providers.
// Providers without a client id are unavailable in live mode.
type OAuthConfig struct {
	Google OAuthClient
	GitHub OAuthClient
	Meta   OAuthClient
}

// NewOAuthConfig reads GOOGLE_CLIENT_ID/SECRET, GITHUB_CLIENT_ID/SECRET and META_CLIENT_ID/SECRET.
func NewOAuthConfig() OAuthConfig {
	return OAuthConfig{
		Google: OAuthClient{ClientID: os.Getenv("GOOGLE_CLIENT_ID"), ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET")},
		GitHub: OAuthClient{ClientID: os.Getenv("GITHUB_CLIENT_ID"), ClientSecret: os.Getenv("GITHUB_CLIENT_SECRET")},
		Meta:   OAuthClient{ClientID: os.Getenv("META_CLIENT_ID"), ClientSecret: os.Getenv("META_CLIENT_SECRET")},
	}
}

// Any reports whether at least one provider has a client id.
func (c OAuthConfig) Any() bool {
	return c.Google.ClientID != "" || c.GitHub.ClientID != "" || c.Meta.ClientID != ""
}

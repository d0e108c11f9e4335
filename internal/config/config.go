// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
)

// DefaultPort is the API port when neither the config file nor a flag sets one
const DefaultPort = 8080

// Config represents the configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Server
	Port           int      `json:"port,omitempty" validate:"omitempty,min=1,max=65535"`
	AllowedOrigins []string `json:"allowed_origins,omitempty" validate:"omitempty,dive,required"`

	// Storage
	DataDir     string `json:"data_dir,omitempty"`     // Directory for the file-backed store
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL; overrides DataDir

	// Behavior
	APIKey          string `json:"api_key,omitempty"`                                     // Gemini API key
	ChromePath      string `json:"chrome_path,omitempty"`                                 // Chrome binary for export
	MinAIDurationMS int    `json:"min_ai_duration_ms,omitempty" validate:"gte=0"`         // Minimum AI interstitial time
	ExportTimeoutS  int    `json:"export_timeout_seconds,omitempty" validate:"gte=0"`     // Browser session timeout
	OAuthRedirect   string `json:"oauth_redirect_url,omitempty" validate:"omitempty,url"` // OAuth callback URL
	Verbose         bool   `json:"verbose,omitempty"`                                     // Print detailed debug information
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			f := verrs[0]
			return fmt.Errorf("config error: '%s' failed '%s' check", f.Field(), f.Tag())
		}
		return fmt.Errorf("config error: %w", err)
	}

	if c.DataDir != "" {
		info, err := os.Stat(c.DataDir)
		if err == nil && !info.IsDir() {
			return fmt.Errorf("config error: data_dir is not a directory: %s", c.DataDir)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Port == 0 {
		if defaults.Port > 0 {
			result.Port = defaults.Port
		} else {
			result.Port = DefaultPort
		}
	}
	if len(result.AllowedOrigins) == 0 {
		result.AllowedOrigins = defaults.AllowedOrigins
	}
	if result.DataDir == "" {
		result.DataDir = defaults.DataDir
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.ChromePath == "" {
		result.ChromePath = defaults.ChromePath
	}
	if result.MinAIDurationMS == 0 {
		result.MinAIDurationMS = defaults.MinAIDurationMS
	}
	if result.ExportTimeoutS == 0 {
		result.ExportTimeoutS = defaults.ExportTimeoutS
	}
	if result.OAuthRedirect == "" {
		result.OAuthRedirect = defaults.OAuthRedirect
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// FromEnv fills empty fields from the process environment.
func (c *Config) FromEnv() Config {
	return c.MergeWithDefaults(Config{
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		APIKey:        os.Getenv("GEMINI_API_KEY"),
		ChromePath:    os.Getenv("CHROME_PATH"),
		OAuthRedirect: os.Getenv("OAUTH_REDIRECT_URL"),
	})
}

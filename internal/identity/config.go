package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/jonathan/resume-forge/internal/persistence"
	"github.com/jonathan/resume-forge/internal/types"
)

// Provider configuration messages
const (
	MessageInvalidConfigJSON = "Invalid JSON format. Please copy the object directly from Firebase Console."
	MessageIncompleteConfig  = "Invalid Config: Missing apiKey or authDomain"
)

// ConfigError is a rejected provider configuration
type ConfigError struct {
	Message string
	Cause   error
}

func (e *ConfigError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// ParseProviderConfig accepts either a bare JSON object or a pasted assignment such as
// `const firebaseConfig = {...};`. Everything up to the first '=' and a trailing ';' are dropped.
func ParseProviderConfig(raw string) (*types.ProviderConfig, error) {
	text := strings.TrimSpace(raw)
	if i := strings.Index(text, "="); i >= 0 {
		text = strings.TrimSpace(text[i+1:])
	}
	text = strings.TrimSpace(strings.TrimSuffix(text, ";"))

	var cfg types.ProviderConfig
	if err := json.Unmarshal([]byte(text), &cfg); err != nil {
		return nil, &ConfigError{Message: MessageInvalidConfigJSON, Cause: err}
	}
	if err := cfg.Validate(); err != nil {
		return nil, &ConfigError{Message: MessageIncompleteConfig, Cause: err}
	}
	return &cfg, nil
}

// ConfigStore persists the provider configuration. Only valid configurations are stored.
type ConfigStore struct {
	port persistence.Port
}

// NewConfigStore returns a store over port.
func NewConfigStore(port persistence.Port) *ConfigStore {
	return &ConfigStore{port: port}
}

// Load returns the stored configuration. Missing or invalid data reports false.
func (s *ConfigStore) Load(ctx context.Context) (*types.ProviderConfig, bool) {
	raw, err := s.port.Load(ctx, persistence.KeyIdentityConfig)
	if err != nil {
		if !errors.Is(err, persistence.ErrNotFound) {
			log.Printf("[identity] Failed to load provider config: %v", err)
		}
		return nil, false
	}

	var cfg types.ProviderConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		log.Printf("[identity] Ignoring corrupt provider config: %v", err)
		return nil, false
	}
	if err := cfg.Validate(); err != nil {
		return nil, false
	}
	return &cfg, true
}

// Save parses raw and stores it when valid.
func (s *ConfigStore) Save(ctx context.Context, raw string) (*types.ProviderConfig, error) {
	cfg, err := ParseProviderConfig(raw)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode provider config: %w", err)
	}
	if err := s.port.Save(ctx, persistence.KeyIdentityConfig, data); err != nil {
		return nil, fmt.Errorf("failed to save provider config: %w", err)
	}
	return cfg, nil
}

// Reset removes the stored configuration, returning sign-in to demo mode.
func (s *ConfigStore) Reset(ctx context.Context) error {
	if err := s.port.Delete(ctx, persistence.KeyIdentityConfig); err != nil && !errors.Is(err, persistence.ErrNotFound) {
		return fmt.Errorf("failed to reset provider config: %w", err)
	}
	return nil
}

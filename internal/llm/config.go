// Package llm provides the generative model configuration and client used by the assistant.
package llm

import "os"

// ModelTier represents the complexity/capability level of a model
type ModelTier string

const (
	// TierLite is for short, frequent calls: single-fragment refinement, skill suggestions
	TierLite ModelTier = "lite"
	// TierStandard is for structured output over the whole document
	TierStandard ModelTier = "standard"
	// TierAdvanced is reserved for slower, higher-quality rewrites
	TierAdvanced ModelTier = "advanced"
)

// Provider represents an LLM provider
type Provider string

// ProviderGemini is the Google Gemini provider, the only one implemented
const ProviderGemini Provider = "gemini"

// Config holds the model configuration for the application
type Config struct {
	Provider    Provider
	Models      map[ModelTier]string
	Temperature map[ModelTier]float32
}

// DefaultConfig returns the default Gemini configuration
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
		Temperature: map[ModelTier]float32{
			TierLite:     0.7,
			TierStandard: 0.4,
			TierAdvanced: 0.4,
		},
	}
}

// ConfigFromEnv returns DefaultConfig with GEMINI_MODEL_{LITE,STANDARD,ADVANCED} overrides applied.
func ConfigFromEnv() *Config {
	cfg := DefaultConfig()
	overrides := map[ModelTier]string{
		TierLite:     "GEMINI_MODEL_LITE",
		TierStandard: "GEMINI_MODEL_STANDARD",
		TierAdvanced: "GEMINI_MODEL_ADVANCED",
	}
	for tier, key := range overrides {
		if model := os.Getenv(key); model != "" {
			cfg = cfg.WithModel(tier, model)
		}
	}
	return cfg
}

// GetModel returns the model name for a given tier
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	// Fallback chain: try standard, then lite
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return ""
}

// GetTemperature returns the sampling temperature for a tier, defaulting to 0.4
func (c *Config) GetTemperature(tier ModelTier) float32 {
	if t, ok := c.Temperature[tier]; ok {
		return t
	}
	return 0.4
}

// WithModel returns a new Config with a specific model for a tier
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	newConfig := &Config{
		Provider:    c.Provider,
		Models:      make(map[ModelTier]string, len(c.Models)+1),
		Temperature: make(map[ModelTier]float32, len(c.Temperature)),
	}
	for k, v := range c.Models {
		newConfig.Models[k] = v
	}
	for k, v := range c.Temperature {
		newConfig.Temperature[k] = v
	}
	newConfig.Models[tier] = model
	return newConfig
}

//nolint:revive // types is a standard Go package name pattern
package types

import (
	"github.com/go-playground/validator/v10"
)

// ProviderName identifies an external identity provider
type ProviderName string

// Supported identity providers
const (
	ProviderGoogle ProviderName = "google"
	ProviderGitHub ProviderName = "github"
	ProviderMeta   ProviderName = "meta"
)

// Valid reports whether p is a supported provider.
func (p ProviderName) Valid() bool {
	switch p {
	case ProviderGoogle, ProviderGitHub, ProviderMeta:
		return true
	}
	return false
}

// User is the signed-in user as reported by the identity provider
type User struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Email    string       `json:"email"`
	PhotoURL string       `json:"photo_url,omitempty"`
	Provider ProviderName `json:"provider"`
}

// SeedData is the partial profile merged into the document on sign-in.
// Zero-valued fields are ignored by the merge.
type SeedData struct {
	PersonalInfo PersonalInfo    `json:"personal_info"`
	Summary      string          `json:"summary,omitempty"`
	Experience   []Experience    `json:"experience,omitempty"`
	Education    []Education     `json:"education,omitempty"`
	Projects     []Project       `json:"projects,omitempty"`
	Skills       []SkillCategory `json:"skills,omitempty"`
	TemplateID   TemplateID      `json:"template_id,omitempty"`
	ThemeColor   string          `json:"theme_color,omitempty"`
	Background   string          `json:"background_color,omitempty"`
}

// ProviderConfig is the identity provider configuration pasted by the user.
// Only apiKey and authDomain are required; the remaining fields are passed through.
type ProviderConfig struct {
	APIKey            string `json:"apiKey" validate:"required"`
	AuthDomain        string `json:"authDomain" validate:"required"`
	ProjectID         string `json:"projectId,omitempty"`
	StorageBucket     string `json:"storageBucket,omitempty"`
	MessagingSenderID string `json:"messagingSenderId,omitempty"`
	AppID             string `json:"appId,omitempty"`
}

// Validate validates the ProviderConfig using the validator.
func (c *ProviderConfig) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

// LoginRequest is the body of a provider sign-in call
type LoginRequest struct {
	Code  string `json:"code,omitempty"`
	State string `json:"state,omitempty"`
}

// LoginResponse carries the signed-in user and a session token
type LoginResponse struct {
	User    *User           `json:"user"`
	Token   string          `json:"token"`
	Message string          `json:"message"`
	Doc     *ResumeDocument `json:"document"`
}

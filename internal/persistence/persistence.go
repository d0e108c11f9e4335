// Package persistence provides the key-value storage port the document, theme and
// identity configuration are mirrored to, plus file, PostgreSQL and in-memory backends.
package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Storage keys
const (
	KeyDocument       = "resume_forge_data"
	KeyTheme          = "app_theme"
	KeyIdentityConfig = "resume_forge_identity_config"
)

// ErrNotFound is returned by Load when nothing is stored under the key.
var ErrNotFound = errors.New("persistence: key not found")

// Port is a synchronous key-value store. Values are opaque bytes (JSON in practice).
type Port interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Theme is the UI theme preference, stored separately from the document
type Theme string

// Theme values
const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// DefaultTheme applies when nothing valid is stored
const DefaultTheme = ThemeDark

// ParseTheme validates a theme name.
func ParseTheme(s string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case ThemeDark:
		return ThemeDark, nil
	case ThemeLight:
		return ThemeLight, nil
	}
	return "", fmt.Errorf("unknown theme %q", s)
}

// LoadTheme reads the stored theme, falling back to DefaultTheme when absent or invalid.
func LoadTheme(ctx context.Context, port Port) Theme {
	raw, err := port.Load(ctx, KeyTheme)
	if err != nil {
		return DefaultTheme
	}
	theme, err := ParseTheme(string(raw))
	if err != nil {
		return DefaultTheme
	}
	return theme
}

// SaveTheme stores the theme preference.
func SaveTheme(ctx context.Context, port Port, theme Theme) error {
	if err := port.Save(ctx, KeyTheme, []byte(theme)); err != nil {
		return fmt.Errorf("failed to save theme: %w", err)
	}
	return nil
}

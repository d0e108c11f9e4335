package rendering

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelativeLuminance(t *testing.T) {
	l, ok := RelativeLuminance("#ffffff")
	require.True(t, ok)
	assert.InDelta(t, 1.0, l, 1e-9)

	l, ok = RelativeLuminance("000000")
	require.True(t, ok)
	assert.InDelta(t, 0.0, l, 1e-9)

	l, ok = RelativeLuminance("#767676")
	require.True(t, ok)
	assert.InDelta(t, 0.181, l, 0.001)

	_, ok = RelativeLuminance("#12")
	assert.False(t, ok)
	_, ok = RelativeLuminance("#zzzzzz")
	assert.False(t, ok)
}

func TestIsDarkBackground(t *testing.T) {
	tests := []struct {
		name string
		hex  string
		dark bool
	}{
		{name: "white", hex: "#ffffff", dark: false},
		{name: "black", hex: "#000000", dark: true},
		{name: "mid grey", hex: "#767676", dark: true},
		{name: "light grey", hex: "#f3f4f6", dark: false},
		{name: "navy", hex: "#0f172a", dark: true},
		{name: "no hash", hex: "18181b", dark: true},
		{name: "unset", hex: "", dark: false},
		{name: "malformed", hex: "#xyz", dark: false},
		{name: "named color", hex: "black", dark: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.dark, IsDarkBackground(tt.hex))
		})
	}
}

func TestSwatchesAgreeWithLuminance(t *testing.T) {
	for _, s := range BackgroundSwatches {
		assert.Equal(t, s.IsDark, IsDarkBackground(s.Value), s.Name)
	}
}

func TestResolveFont(t *testing.T) {
	f := ResolveFont("'Lato', sans-serif", "")
	assert.Equal(t, "Lato (Humanist)", f.Name)
	assert.Contains(t, f.URL, "family=Lato")

	f = ResolveFont("", "")
	assert.Equal(t, "sans-serif", f.Value)
	assert.Empty(t, f.URL)

	f = ResolveFont("'Oswald', sans-serif", " https://example.com/font.css ")
	assert.Equal(t, "https://example.com/font.css", f.URL, "custom URL wins")

	f = ResolveFont("'Comic Neue', cursive", "")
	assert.Equal(t, "Custom", f.Category)
	assert.Empty(t, f.URL)
}

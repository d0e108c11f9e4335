package rendering

import (
	"math"
	"strconv"
	"strings"
)

// DarkLuminanceThreshold is the relative luminance at or below which a background is dark.
const DarkLuminanceThreshold = 0.45

// RelativeLuminance returns the sRGB relative luminance of a #rrggbb color. The leading
// '#' is optional and characters past the sixth hex digit are ignored. ok is false for
// unset or malformed colors.
func RelativeLuminance(hex string) (l float64, ok bool) {
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(hex) < 6 {
		return 0, false
	}

	var channels [3]float64
	for i := range channels {
		v, err := strconv.ParseUint(hex[i*2:i*2+2], 16, 8)
		if err != nil {
			return 0, false
		}
		c := float64(v) / 255
		if c <= 0.03928 {
			channels[i] = c / 12.92
		} else {
			channels[i] = math.Pow((c+0.055)/1.055, 2.4)
		}
	}

	return 0.2126*channels[0] + 0.7152*channels[1] + 0.0722*channels[2], true
}

// IsDarkBackground reports whether text on hex needs the light palette.
// Unset and malformed colors count as light.
func IsDarkBackground(hex string) bool {
	l, ok := RelativeLuminance(hex)
	return ok && l <= DarkLuminanceThreshold
}

// Swatch is a named color offered by the design editor
type Swatch struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	IsDark bool   `json:"is_dark"`
}

// BackgroundSwatches are the preset page backgrounds.
var BackgroundSwatches = []Swatch{
	{Name: "Pure White", Value: "#ffffff"},
	{Name: "Pearl", Value: "#f8fafc"},
	{Name: "Ivory", Value: "#fffbeb"},
	{Name: "Mist", Value: "#f3f4f6"},
	{Name: "Carbon", Value: "#18181b", IsDark: true},
	{Name: "Vantablack", Value: "#000000", IsDark: true},
	{Name: "Deep Navy", Value: "#0f172a", IsDark: true},
	{Name: "Regal Maroon", Value: "#450a0a", IsDark: true},
	{Name: "Forest", Value: "#022c22", IsDark: true},
	{Name: "Gunmetal", Value: "#334155", IsDark: true},
}

// AccentSwatches are the preset theme colors.
var AccentSwatches = []Swatch{
	{Name: "Electric Blue", Value: "#2563eb"},
	{Name: "Neon Cyan", Value: "#06b6d4"},
	{Name: "Emerald", Value: "#10b981"},
	{Name: "Sunset", Value: "#f97316"},
	{Name: "Hot Pink", Value: "#ec4899"},
	{Name: "Royal Purple", Value: "#7c3aed"},
	{Name: "Gold", Value: "#eab308"},
	{Name: "Crimson", Value: "#dc2626"},
	{Name: "Charcoal", Value: "#334155", IsDark: true},
	{Name: "Black", Value: "#000000", IsDark: true},
}

// Font is a preset font family with its stylesheet URL
type Font struct {
	Name     string `json:"name"`
	Value    string `json:"value"`
	Category string `json:"category"`
	URL      string `json:"url,omitempty"`
}

// PresetFonts is the font library offered by the design editor.
var PresetFonts = []Font{
	{Name: "System Default", Value: "sans-serif", Category: "Sans"},
	{Name: "Inter (Modern)", Value: "'Inter', sans-serif", Category: "Sans", URL: "https://fonts.googleapis.com/css2?family=Inter:wght@300;400;500;600;700&display=swap"},
	{Name: "Merriweather (Serif)", Value: "'Merriweather', serif", Category: "Serif", URL: "https://fonts.googleapis.com/css2?family=Merriweather:wght@300;400;700;900&display=swap"},
	{Name: "Playfair Display (Elegant)", Value: "'Playfair Display', serif", Category: "Serif", URL: "https://fonts.googleapis.com/css2?family=Playfair+Display:wght@400;500;600;700&display=swap"},
	{Name: "Roboto (Clean)", Value: "'Roboto', sans-serif", Category: "Sans", URL: "https://fonts.googleapis.com/css2?family=Roboto:wght@300;400;500;700&display=swap"},
	{Name: "Montserrat (Geometric)", Value: "'Montserrat', sans-serif", Category: "Sans", URL: "https://fonts.googleapis.com/css2?family=Montserrat:wght@300;400;500;600;700&display=swap"},
	{Name: "Lato (Humanist)", Value: "'Lato', sans-serif", Category: "Sans", URL: "https://fonts.googleapis.com/css2?family=Lato:wght@300;400;700&display=swap"},
	{Name: "JetBrains Mono (Code)", Value: "'JetBrains Mono', monospace", Category: "Mono", URL: "https://fonts.googleapis.com/css2?family=JetBrains+Mono:wght@300;400;700&display=swap"},
	{Name: "Oswald (Strong)", Value: "'Oswald', sans-serif", Category: "Display", URL: "https://fonts.googleapis.com/css2?family=Oswald:wght@300;400;600&display=swap"},
	{Name: "Lora (Calligraphic)", Value: "'Lora', serif", Category: "Serif", URL: "https://fonts.googleapis.com/css2?family=Lora:ital,wght@0,400;0,600;1,400&display=swap"},
}

// ResolveFont returns the font to load for family. A custom stylesheet URL wins over the
// preset's; unknown families without a custom URL load nothing.
func ResolveFont(family, customURL string) Font {
	if family == "" {
		family = PresetFonts[0].Value
	}
	font := Font{Name: family, Value: family, Category: "Custom"}
	for _, preset := range PresetFonts {
		if preset.Value == family {
			font = preset
			break
		}
	}
	if strings.TrimSpace(customURL) != "" {
		font.URL = strings.TrimSpace(customURL)
	}
	return font
}

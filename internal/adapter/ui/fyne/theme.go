package fyne

import (
	"fmt"
	"image/color"

	fyneapp "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// accentTheme overrides the primary color and delegates everything else to
// the default theme.
type accentTheme struct {
	accent color.Color
}

// NewAccentTheme returns a theme with the given hex accent color, in
// "#rrggbb" form.
func NewAccentTheme(hex string) (fyneapp.Theme, error) {
	accent, err := parseHexColor(hex)
	if err != nil {
		return nil, err
	}
	return &accentTheme{accent: accent}, nil
}

func (t *accentTheme) Color(name fyneapp.ThemeColorName, variant fyneapp.ThemeVariant) color.Color {
	if name == theme.ColorNamePrimary {
		return t.accent
	}
	return theme.DefaultTheme().Color(name, variant)
}

func (t *accentTheme) Font(style fyneapp.TextStyle) fyneapp.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *accentTheme) Icon(name fyneapp.ThemeIconName) fyneapp.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (t *accentTheme) Size(name fyneapp.ThemeSizeName) float32 {
	return theme.DefaultTheme().Size(name)
}

func parseHexColor(hex string) (color.Color, error) {
	var r, g, b uint8
	if _, err := fmt.Sscanf(hex, "#%02x%02x%02x", &r, &g, &b); err != nil {
		return nil, fmt.Errorf("parse accent color %q: %w", hex, err)
	}
	return color.NRGBA{R: r, G: g, B: b, A: 0xff}, nil
}

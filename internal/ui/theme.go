// Package ui provides the Backpack desktop application.
//
// This file defines a compact Fyne theme with a fixed or system variant.

package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// BackpackTheme wraps the default Fyne theme with compact sizing overrides.
type BackpackTheme struct {
	base    fyne.Theme
	variant fyne.ThemeVariant
	fixed   bool // false follows the system variant
}

// NewBackpackTheme creates a theme that follows the system variant.
func NewBackpackTheme() *BackpackTheme {
	return &BackpackTheme{base: theme.DefaultTheme()}
}

// NewBackpackThemeWithVariant creates a theme locked to a light or dark variant.
func NewBackpackThemeWithVariant(variant fyne.ThemeVariant) *BackpackTheme {
	return &BackpackTheme{
		base:    theme.DefaultTheme(),
		variant: variant,
		fixed:   true,
	}
}

// ThemeFor maps a config theme name to a theme. Unknown names follow the
// system.
func ThemeFor(name string) *BackpackTheme {
	switch name {
	case "light":
		return NewBackpackThemeWithVariant(theme.VariantLight)
	case "dark":
		return NewBackpackThemeWithVariant(theme.VariantDark)
	default:
		return NewBackpackTheme()
	}
}

// Color delegates to the base theme, using the locked variant if any.
func (t *BackpackTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	if t.fixed {
		variant = t.variant
	}
	return t.base.Color(name, variant)
}

// Font delegates to the base theme.
func (t *BackpackTheme) Font(style fyne.TextStyle) fyne.Resource {
	return t.base.Font(style)
}

// Icon delegates to the base theme.
func (t *BackpackTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return t.base.Icon(name)
}

// Size returns compact sizing overrides.
func (t *BackpackTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameText:
		return 12
	case theme.SizeNameCaptionText:
		return 9
	case theme.SizeNameHeadingText:
		return 20
	case theme.SizeNameSubHeadingText:
		return 15
	case theme.SizeNamePadding:
		return 3
	case theme.SizeNameInnerPadding:
		return 6
	case theme.SizeNameInlineIcon:
		return 16
	default:
		return t.base.Size(name)
	}
}

package portfolio

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

type ThemeMode string

const (
	ThemeLight ThemeMode = "light"
	ThemeDark  ThemeMode = "dark"
)

const (
	MinDarkOpacity     = 0.3
	MaxDarkOpacity     = 1.0
	DefaultDarkOpacity = 0.9
)

var (
	ErrInvalidThemeMode   = errors.New("theme mode must be light or dark")
	ErrInvalidDarkOpacity = fmt.Errorf("dark opacity must be between %.1f and %.1f", MinDarkOpacity, MaxDarkOpacity)
	ErrInvalidColor       = errors.New("color must be #RRGGBB")
	ErrInvalidFont        = errors.New("font family is required")
	colorRegex            = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
)

func DefaultTheme() ThemeSettings {
	return ThemeSettings{
		Mode:           ThemeLight,
		DarkOpacity:    DefaultDarkOpacity,
		PrimaryColor:   "#3B82F6",
		SecondaryColor: "#10B981",
		AccentColor:    "#F97316",
		FontFamily:     "Inter, sans-serif",
	}
}

func ParseThemeMode(s string) (ThemeMode, error) {
	switch ThemeMode(s) {
	case ThemeLight, ThemeDark:
		return ThemeMode(s), nil
	}
	return "", ErrInvalidThemeMode
}

func ValidateDarkOpacity(v float64) error {
	if v < MinDarkOpacity || v > MaxDarkOpacity {
		return ErrInvalidDarkOpacity
	}
	return nil
}

func ValidateColor(c string) error {
	if !colorRegex.MatchString(c) {
		return fmt.Errorf("%w: %q", ErrInvalidColor, c)
	}
	return nil
}

// EffectiveDarkOpacity treats an unset (zero) opacity as the default.
func (t ThemeSettings) EffectiveDarkOpacity() float64 {
	if t.DarkOpacity == 0 {
		return DefaultDarkOpacity
	}
	return t.DarkOpacity
}

func (t ThemeSettings) Validate() error {
	if _, err := ParseThemeMode(string(t.Mode)); err != nil {
		return err
	}
	if t.DarkOpacity != 0 {
		if err := ValidateDarkOpacity(t.DarkOpacity); err != nil {
			return err
		}
	}
	for _, c := range []string{t.PrimaryColor, t.SecondaryColor, t.AccentColor} {
		if err := ValidateColor(c); err != nil {
			return err
		}
	}
	if strings.TrimSpace(t.FontFamily) == "" {
		return ErrInvalidFont
	}
	return nil
}

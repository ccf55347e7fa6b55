package editor

import (
	"github.com/khoahotran/spotme/internal/application/store"
	"github.com/khoahotran/spotme/internal/domain/portfolio"
)

type ThemeEditor struct {
	store *store.DocumentStore
}

func NewThemeEditor(d Deps) *ThemeEditor {
	return &ThemeEditor{store: d.Store}
}

// Update validates the whole patch before anything is written.
func (e *ThemeEditor) Update(p portfolio.ThemePatch) error {
	return translate(e.store.UpdateTheme(p))
}

func (e *ThemeEditor) SetMode(mode string) error {
	m, err := portfolio.ParseThemeMode(mode)
	if err != nil {
		return translate(err)
	}
	return e.Update(portfolio.ThemePatch{Mode: &m})
}

func (e *ThemeEditor) SetDarkOpacity(v float64) error {
	return e.Update(portfolio.ThemePatch{DarkOpacity: &v})
}

func (e *ThemeEditor) SetPrimaryColor(c string) error {
	return e.Update(portfolio.ThemePatch{PrimaryColor: &c})
}

func (e *ThemeEditor) SetSecondaryColor(c string) error {
	return e.Update(portfolio.ThemePatch{SecondaryColor: &c})
}

func (e *ThemeEditor) SetAccentColor(c string) error {
	return e.Update(portfolio.ThemePatch{AccentColor: &c})
}

func (e *ThemeEditor) SetFontFamily(f string) error {
	return e.Update(portfolio.ThemePatch{FontFamily: &f})
}

package editor

import (
	"github.com/khoahotran/spotme/internal/application/store"
	"github.com/khoahotran/spotme/internal/domain/portfolio"
)

type AboutEditor struct {
	store *store.DocumentStore
}

func NewAboutEditor(d Deps) *AboutEditor {
	return &AboutEditor{store: d.Store}
}

func (e *AboutEditor) SetBio(v string) error {
	return translate(e.store.UpdateAbout(portfolio.AboutPatch{Bio: &v}))
}

func (e *AboutEditor) SetMission(v string) error {
	return translate(e.store.UpdateAbout(portfolio.AboutPatch{Mission: &v}))
}

package editor

import (
	"context"
	"io"

	"github.com/khoahotran/spotme/internal/application/service"
	"github.com/khoahotran/spotme/internal/application/store"
	"github.com/khoahotran/spotme/internal/domain/portfolio"
	"github.com/khoahotran/spotme/pkg/apperror"
)

type HeroEditor struct {
	store    *store.DocumentStore
	images   service.ImageProcessor
	notifier service.Notifier
	uploader uploader
}

func NewHeroEditor(d Deps) *HeroEditor {
	d = d.withDefaults()
	return &HeroEditor{store: d.Store, images: d.Images, notifier: d.Notifier, uploader: newUploader(d)}
}

func (e *HeroEditor) Update(p portfolio.HeroPatch) error {
	return translate(e.store.UpdateHero(p))
}

func (e *HeroEditor) SetName(v string) error  { return e.Update(portfolio.HeroPatch{Name: &v}) }
func (e *HeroEditor) SetTitle(v string) error { return e.Update(portfolio.HeroPatch{Title: &v}) }
func (e *HeroEditor) SetCTAText(v string) error {
	return e.Update(portfolio.HeroPatch{CTAText: &v})
}
func (e *HeroEditor) SetCTAURL(v string) error { return e.Update(portfolio.HeroPatch{CTAURL: &v}) }
func (e *HeroEditor) SetAboutTitle(v string) error {
	return e.Update(portfolio.HeroPatch{AboutTitle: &v})
}

// UploadAvatar stores the image and points the hero at it. The document is
// only touched once the upload has resolved.
func (e *HeroEditor) UploadAvatar(ctx context.Context, file io.Reader, filename string) (string, error) {
	if !e.store.HasDocument() {
		return "", translate(store.ErrNoDocument)
	}
	e.notifier.Notify(service.NotifyInfo, "Uploading image...")

	body, ext := file, fileExt(filename)
	if e.images != nil {
		normalized, normalizedExt, err := e.images.Normalize(file)
		if err != nil {
			e.notifier.Notify(service.NotifyError, "Failed to upload image")
			return "", apperror.NewInvalidInput("avatar is not a readable image", err)
		}
		body, ext = normalized, normalizedExt
	}

	url, err := e.uploader.upload(ctx, "avatar", "avatars", body, ext)
	if err != nil {
		e.notifier.Notify(service.NotifyError, "Failed to upload image")
		return "", err
	}
	if err := e.Update(portfolio.HeroPatch{AvatarURL: &url}); err != nil {
		e.notifier.Notify(service.NotifyError, "Failed to upload image")
		return "", err
	}
	e.notifier.Notify(service.NotifySuccess, "Image uploaded successfully!")
	return url, nil
}

func (e *HeroEditor) RemoveAvatar() error {
	return e.Update(portfolio.HeroPatch{AvatarURL: portfolio.Ptr("")})
}

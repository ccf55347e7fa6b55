// Package editor turns user intents on a single portfolio section into
// scoped patches against the session's document store.
package editor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khoahotran/spotme/internal/application/service"
	"github.com/khoahotran/spotme/internal/application/store"
	"github.com/khoahotran/spotme/internal/domain/portfolio"
	"github.com/khoahotran/spotme/pkg/apperror"
	"github.com/khoahotran/spotme/pkg/logger"
	"github.com/khoahotran/spotme/pkg/metrics"
)

// AssetBucket is the storage bucket every editor upload lands in.
const AssetBucket = "portfolios"

var ErrInvalidInput = apperror.ErrInvalidInput

type Deps struct {
	Store    *store.DocumentStore
	Storage  service.AssetStorage
	Images   service.ImageProcessor
	Notifier service.Notifier
	Logger   logger.Logger
	Metrics  *metrics.Metrics
	Now      func() time.Time
	NewID    func() string
}

func (d Deps) withDefaults() Deps {
	if d.Notifier == nil {
		d.Notifier = service.NotifierFunc(func(service.NotificationKind, string) {})
	}
	if d.Logger == nil {
		d.Logger = logger.NewNopLogger()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.NewID == nil {
		d.NewID = newID
	}
	return d
}

// Set bundles one editor per section around a shared store.
type Set struct {
	Hero     *HeroEditor
	About    *AboutEditor
	Skills   *SkillsEditor
	Projects *ProjectsEditor
	Contact  *ContactEditor
	Theme    *ThemeEditor

	store *store.DocumentStore
}

func NewSet(d Deps) *Set {
	d = d.withDefaults()
	return &Set{
		Hero:     NewHeroEditor(d),
		About:    NewAboutEditor(d),
		Skills:   NewSkillsEditor(d),
		Projects: NewProjectsEditor(d),
		Contact:  NewContactEditor(d),
		Theme:    NewThemeEditor(d),
		store:    d.Store,
	}
}

// Apply sends an arbitrary section patch through the store with the same
// error translation the typed editors use.
func (s *Set) Apply(patch portfolio.Patch) error {
	return translate(s.store.UpdateSection(patch))
}

// translate maps store and schema failures onto application errors while
// keeping the originals reachable through errors.Is.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNoDocument):
		return apperror.NewStateConflict("no portfolio is open for editing", err)
	case errors.Is(err, portfolio.ErrInvalidPatch),
		errors.Is(err, portfolio.ErrInvalidColor),
		errors.Is(err, portfolio.ErrInvalidDarkOpacity),
		errors.Is(err, portfolio.ErrInvalidThemeMode),
		errors.Is(err, portfolio.ErrInvalidFont):
		return apperror.NewInvalidInput(err.Error(), err)
	}
	return err
}

func invalid(format string, args ...any) error {
	return apperror.NewInvalidInput(fmt.Sprintf(format, args...), nil)
}

// uploader stores a file under AssetBucket/<dir>/<unix-nanos>.<ext> and
// resolves its public address.
type uploader struct {
	storage service.AssetStorage
	logger  logger.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

func newUploader(d Deps) uploader {
	return uploader{storage: d.Storage, logger: d.Logger, metrics: d.Metrics, now: d.Now}
}

func (u uploader) upload(ctx context.Context, kind, dir string, file io.Reader, ext string) (string, error) {
	if u.storage == nil {
		return "", apperror.NewUnavailable("asset storage is not configured", nil)
	}
	path := fmt.Sprintf("%s/%d", dir, u.now().UnixNano())
	if ext != "" {
		path += "." + ext
	}

	start := time.Now()
	url, err := u.put(ctx, path, file)
	u.metrics.Upload(kind, time.Since(start), err)
	if err != nil {
		u.logger.Error("Asset upload failed", err, zap.String("kind", kind), zap.String("path", path))
		return "", apperror.NewUnavailable(fmt.Sprintf("failed to upload %s", kind), err)
	}
	u.logger.Info("Asset uploaded", zap.String("kind", kind), zap.String("path", path))
	return url, nil
}

func (u uploader) put(ctx context.Context, path string, file io.Reader) (string, error) {
	if err := u.storage.Upload(ctx, AssetBucket, path, file); err != nil {
		return "", err
	}
	return u.storage.PublicURL(AssetBucket, path)
}

// fileExt returns the lower-cased extension of name without its dot.
func fileExt(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}

func newID() string { return uuid.NewString() }

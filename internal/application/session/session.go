// Package session keeps one resident editing session per user: the
// document store, its editors, the lifecycle controller and a live feed.
package session

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khoahotran/spotme/internal/application/editor"
	"github.com/khoahotran/spotme/internal/application/lifecycle"
	"github.com/khoahotran/spotme/internal/application/render"
	"github.com/khoahotran/spotme/internal/application/service"
	"github.com/khoahotran/spotme/internal/application/store"
	"github.com/khoahotran/spotme/pkg/logger"
	"github.com/khoahotran/spotme/pkg/metrics"
)

type Deps struct {
	Persister     lifecycle.Persister
	Storage       service.AssetStorage
	Images        service.ImageProcessor
	Notifier      service.Notifier
	Events        service.EventPublisher
	Cache         service.PublicCache
	PublicBaseURL string
	Logger        logger.Logger
	Metrics       *metrics.Metrics
	Now           func() time.Time
}

type Session struct {
	UserID     uuid.UUID
	Store      *store.DocumentStore
	Editors    *editor.Set
	Controller *lifecycle.Controller
	Feed       *Feed
}

func New(userID uuid.UUID, d Deps) *Session {
	if d.Logger == nil {
		d.Logger = logger.NewNopLogger()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	log := d.Logger.With(zap.String("user_id", userID.String()))

	feed := NewFeed()
	notifier := service.MultiNotifier{d.Notifier, feed}
	st := store.New(store.WithLogger(log), store.WithMetrics(d.Metrics))

	s := &Session{
		UserID: userID,
		Store:  st,
		Feed:   feed,
		Editors: editor.NewSet(editor.Deps{
			Store:    st,
			Storage:  d.Storage,
			Images:   d.Images,
			Notifier: notifier,
			Logger:   log,
			Metrics:  d.Metrics,
			Now:      d.Now,
		}),
		Controller: lifecycle.NewController(lifecycle.Options{
			Store:         st,
			Persister:     d.Persister,
			Notifier:      notifier,
			Events:        d.Events,
			Cache:         d.Cache,
			PublicBaseURL: d.PublicBaseURL,
			Logger:        log,
			Metrics:       d.Metrics,
			Now:           d.Now,
		}),
	}

	st.Subscribe(func(c store.Change) {
		if !feed.HasSubscribers() {
			return
		}
		view := render.Render(c.Document, render.Context{Mode: render.ModePreview})
		feed.Publish(Event{Type: EventView, View: &view})
	})
	return s
}

// Preview renders the current document in the live-editing context.
func (s *Session) Preview() render.View {
	doc, _ := s.Store.Document()
	return render.Render(doc, render.Context{Mode: render.ModePreview})
}

func (s *Session) Close() {
	s.Feed.Close()
}

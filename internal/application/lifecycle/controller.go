// Package lifecycle moves an editing session's document between draft,
// saved and published.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/khoahotran/spotme/internal/application/service"
	"github.com/khoahotran/spotme/internal/application/store"
	"github.com/khoahotran/spotme/internal/domain/portfolio"
	"github.com/khoahotran/spotme/pkg/apperror"
	"github.com/khoahotran/spotme/pkg/logger"
	"github.com/khoahotran/spotme/pkg/metrics"
)

type State string

const (
	StateUninitialized State = "uninitialized"
	StateDraft         State = "draft"
	StateSaved         State = "saved"
	StatePublished     State = "published"
)

// Persister is the durable home of portfolio documents.
type Persister interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*portfolio.Portfolio, error)
	Save(ctx context.Context, p *portfolio.Portfolio) error
	Publish(ctx context.Context, p *portfolio.Portfolio) error
}

// Identity is who the session edits for, as supplied by authentication.
type Identity struct {
	UserID   uuid.UUID
	Username string
	Email    string
}

var tracer = otel.Tracer("lifecycle")

type Options struct {
	Store         *store.DocumentStore
	Persister     Persister
	Notifier      service.Notifier
	Events        service.EventPublisher
	Cache         service.PublicCache
	PublicBaseURL string
	Logger        logger.Logger
	Metrics       *metrics.Metrics
	Now           func() time.Time
}

type Controller struct {
	store     *store.DocumentStore
	persister Persister
	notifier  service.Notifier
	events    service.EventPublisher
	cache     service.PublicCache
	baseURL   string
	logger    logger.Logger
	metrics   *metrics.Metrics
	now       func() time.Time

	mu    sync.Mutex
	state State
	// revision counts section edits so a transition can tell whether the
	// document moved while persistence was in flight.
	revision uint64
}

func NewController(o Options) *Controller {
	c := &Controller{
		store:     o.Store,
		persister: o.Persister,
		notifier:  o.Notifier,
		events:    o.Events,
		cache:     o.Cache,
		baseURL:   strings.TrimRight(o.PublicBaseURL, "/"),
		logger:    o.Logger,
		metrics:   o.Metrics,
		now:       o.Now,
		state:     StateUninitialized,
	}
	if c.notifier == nil {
		c.notifier = service.NotifierFunc(func(service.NotificationKind, string) {})
	}
	if c.logger == nil {
		c.logger = logger.NewNopLogger()
	}
	if c.now == nil {
		c.now = time.Now
	}
	c.store.Subscribe(c.onChange)
	return c
}

func (c *Controller) onChange(ch store.Change) {
	if ch.Section == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.revision++
	if c.state == StateSaved || c.state == StatePublished {
		c.state = StateDraft
	}
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// PublicURL is the address the published page is served from.
func (c *Controller) PublicURL(username string) string {
	return c.baseURL + "/" + username
}

// Open loads the user's stored document, or synthesises the default one
// when none exists, and makes it the session's document.
func (c *Controller) Open(ctx context.Context, id Identity) (*portfolio.Portfolio, error) {
	ctx, span := tracer.Start(ctx, "Open")
	defer span.End()
	span.SetAttributes(attribute.String("user_id", id.UserID.String()))

	p, err := c.persister.FindByUserID(ctx, id.UserID)
	switch {
	case errors.Is(err, portfolio.ErrNotFound) || errors.Is(err, apperror.ErrNotFound):
		p = portfolio.NewDefault(id.UserID, id.Username, id.Email, c.now())
		c.logger.Info("Created default portfolio", zap.String("user_id", id.UserID.String()))
	case err != nil:
		span.RecordError(err)
		span.SetStatus(codes.Error, "load failed")
		c.notifier.Notify(service.NotifyError, "Failed to load portfolio")
		return nil, apperror.NewUnavailable("failed to load portfolio", err)
	}

	c.store.SetDocument(p)
	c.mu.Lock()
	c.state = StateDraft
	c.mu.Unlock()
	return p.Clone(), nil
}

// Save persists a snapshot of the document. On failure the document and
// the state are left as they were. Saving a published portfolio changes
// its public page, so the public cache entry is dropped.
func (c *Controller) Save(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "Save")
	defer span.End()

	snapshot, rev, err := c.snapshot()
	if err != nil {
		return err
	}
	snapshot.UpdatedAt = c.now().UTC()
	span.SetAttributes(
		attribute.String("portfolio_id", snapshot.ID.String()),
		attribute.Bool("published", snapshot.IsPublished),
	)

	err = c.persister.Save(ctx, snapshot)
	c.metrics.Transition("save", err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "save failed")
		c.logger.Error("Failed to save portfolio", err, zap.String("portfolio_id", snapshot.ID.String()))
		c.notifier.Notify(service.NotifyError, "Failed to save portfolio")
		return apperror.NewUnavailable("failed to save portfolio", err)
	}

	if snapshot.IsPublished {
		c.invalidate(ctx, snapshot.Username)
	}
	if err := c.store.MarkPersisted(snapshot.UpdatedAt, snapshot.IsPublished); err != nil {
		return apperror.NewStateConflict("portfolio closed during save", err)
	}
	c.settle(rev, StateSaved)
	c.notifier.Notify(service.NotifySuccess, "Portfolio saved successfully!")
	return nil
}

type PublishResult struct {
	PublicURL string `json:"public_url"`
}

// Publish persists the document as published. Only a successful write
// marks the session's document published; republishing is allowed.
func (c *Controller) Publish(ctx context.Context) (*PublishResult, error) {
	ctx, span := tracer.Start(ctx, "Publish")
	defer span.End()

	snapshot, rev, err := c.snapshot()
	if err != nil {
		return nil, err
	}
	snapshot.IsPublished = true
	snapshot.UpdatedAt = c.now().UTC()
	span.SetAttributes(
		attribute.String("portfolio_id", snapshot.ID.String()),
		attribute.String("username", snapshot.Username),
	)

	err = c.persister.Publish(ctx, snapshot)
	c.metrics.Transition("publish", err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "publish failed")
		c.logger.Error("Failed to publish portfolio", err, zap.String("portfolio_id", snapshot.ID.String()))
		c.notifier.Notify(service.NotifyError, "Failed to publish portfolio")
		return nil, apperror.NewUnavailable("failed to publish portfolio", err)
	}

	if err := c.store.MarkPersisted(snapshot.UpdatedAt, true); err != nil {
		return nil, apperror.NewStateConflict("portfolio closed during publish", err)
	}
	c.settle(rev, StatePublished)

	url := c.PublicURL(snapshot.Username)
	c.afterPublish(ctx, snapshot, url)
	c.notifier.Notify(service.NotifySuccess, "Portfolio published successfully!")
	c.notifier.Notify(service.NotifySuccess, fmt.Sprintf("Your portfolio is live at %s", url))
	return &PublishResult{PublicURL: url}, nil
}

// afterPublish runs the best-effort side effects of a publish. Their
// failures are logged and never undo the publish.
func (c *Controller) afterPublish(ctx context.Context, p *portfolio.Portfolio, url string) {
	c.invalidate(ctx, p.Username)
	if c.events != nil {
		event := service.PortfolioEvent{
			Type:        service.EventPortfolioPublished,
			PortfolioID: p.ID,
			UserID:      p.UserID,
			Username:    p.Username,
			PublicURL:   url,
			OccurredAt:  c.now().UTC(),
		}
		if err := c.events.PublishPortfolioEvent(ctx, event); err != nil {
			c.logger.Error("Failed to publish 'portfolio.published' event", err, zap.String("portfolio_id", p.ID.String()))
		}
	}
}

// invalidate drops the cached public page. Failure only costs staleness
// until the entry expires.
func (c *Controller) invalidate(ctx context.Context, username string) {
	if c.cache == nil {
		return
	}
	if err := c.cache.Invalidate(ctx, username); err != nil {
		c.logger.Warn("Failed to invalidate public cache", zap.String("username", username), zap.Error(err))
	}
}

func (c *Controller) snapshot() (*portfolio.Portfolio, uint64, error) {
	c.mu.Lock()
	rev := c.revision
	c.mu.Unlock()

	doc, ok := c.store.Document()
	if !ok {
		return nil, 0, apperror.NewStateConflict("no portfolio is open for editing", store.ErrNoDocument)
	}
	return doc, rev, nil
}

// settle enters target unless an edit landed after the snapshot at rev
// was taken, in which case the session is still a draft.
func (c *Controller) settle(rev uint64, target State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.revision == rev {
		c.state = target
	} else {
		c.state = StateDraft
	}
}

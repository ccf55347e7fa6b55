// Package store holds the canonical portfolio document of one editing
// session and fans out every change to its subscribers.
package store

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/khoahotran/spotme/internal/domain/portfolio"
	"github.com/khoahotran/spotme/pkg/logger"
	"github.com/khoahotran/spotme/pkg/metrics"
)

var ErrNoDocument = errors.New("no portfolio document is loaded")

// Change is delivered to subscribers after every successful write.
// Section is empty for writes outside the six sections (replacement,
// publication); Document is nil when the store was cleared. Each subscriber
// receives its own copy.
type Change struct {
	Section  portfolio.Section
	Document *portfolio.Portfolio
}

type Listener func(Change)

type subscription struct {
	id int
	fn Listener
}

type DocumentStore struct {
	// writeMu linearises writes together with their notifications, so
	// subscribers observe changes in issue order.
	writeMu sync.Mutex

	mu   sync.RWMutex
	doc  *portfolio.Portfolio
	subs []subscription
	next int

	logger  logger.Logger
	metrics *metrics.Metrics
}

type Option func(*DocumentStore)

func WithLogger(l logger.Logger) Option {
	return func(s *DocumentStore) { s.logger = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *DocumentStore) { s.metrics = m }
}

func New(opts ...Option) *DocumentStore {
	s := &DocumentStore{
		logger: logger.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Document returns a copy of the resident document.
func (s *DocumentStore) Document() (*portfolio.Portfolio, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.doc == nil {
		return nil, false
	}
	return s.doc.Clone(), true
}

func (s *DocumentStore) HasDocument() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc != nil
}

// SetDocument replaces the whole document. nil clears the store.
func (s *DocumentStore) SetDocument(p *portfolio.Portfolio) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	s.doc = p.Clone()
	s.mu.Unlock()

	s.notify(Change{})
}

// MarkPersisted records a successful write to durable storage. UpdatedAt
// takes the persisted value and published sets the publication flag; the
// flag is never cleared here. Subscribers see a change with an empty
// Section.
func (s *DocumentStore) MarkPersisted(at time.Time, published bool) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	if s.doc == nil {
		s.mu.Unlock()
		return ErrNoDocument
	}
	s.doc.UpdatedAt = at
	if published {
		s.doc.IsPublished = true
	}
	s.mu.Unlock()

	s.notify(Change{})
	return nil
}

// UpdateSection shallow-merges patch into its section. Fields absent from
// the patch are untouched and collections are replaced wholesale. Section
// edits never touch UpdatedAt, so repeating a patch leaves the document
// as the first application left it.
func (s *DocumentStore) UpdateSection(patch portfolio.Patch) error {
	return s.Mutate(func(*portfolio.Portfolio) (portfolio.Patch, error) {
		return patch, nil
	})
}

// Mutate runs a read-modify-write atomically with respect to other writers.
// build sees a copy of the current document and returns the patch to apply;
// returning a nil patch writes nothing.
func (s *DocumentStore) Mutate(build func(current *portfolio.Portfolio) (portfolio.Patch, error)) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	current, ok := s.Document()
	if !ok {
		s.metrics.StoreUpdate("unknown", "dropped")
		s.logger.Warn("Update dropped: no document resident")
		return ErrNoDocument
	}

	patch, err := build(current)
	if err != nil {
		return err
	}
	if patch == nil {
		return nil
	}
	section := string(patch.Section())
	if err := portfolio.Validate(patch); err != nil {
		s.metrics.StoreUpdate(section, "rejected")
		return err
	}

	s.mu.Lock()
	patch.Apply(s.doc)
	s.mu.Unlock()

	s.metrics.StoreUpdate(section, "applied")
	s.logger.Debug("Section updated", zap.String("section", section))
	s.notify(Change{Section: patch.Section()})
	return nil
}

func (s *DocumentStore) UpdateHero(p portfolio.HeroPatch) error { return s.UpdateSection(p) }
func (s *DocumentStore) UpdateAbout(p portfolio.AboutPatch) error { return s.UpdateSection(p) }
func (s *DocumentStore) UpdateSkills(p portfolio.SkillsPatch) error { return s.UpdateSection(p) }
func (s *DocumentStore) UpdateProjects(p portfolio.ProjectsPatch) error { return s.UpdateSection(p) }
func (s *DocumentStore) UpdateContact(p portfolio.ContactPatch) error { return s.UpdateSection(p) }
func (s *DocumentStore) UpdateTheme(p portfolio.ThemePatch) error { return s.UpdateSection(p) }

// Subscribe registers fn for every future change. Listeners run
// synchronously on the writer's goroutine and must not write to the store.
func (s *DocumentStore) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	id := s.next
	s.subs = append(s.subs, subscription{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, sub := range s.subs {
				if sub.id == id {
					s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// notify must be called with writeMu held.
func (s *DocumentStore) notify(c Change) {
	s.mu.RLock()
	subs := append([]subscription(nil), s.subs...)
	doc := s.doc
	s.mu.RUnlock()

	for _, sub := range subs {
		func() {
			defer func() {
				if r := recover(); r != nil {
					s.logger.Error("Store listener panicked", fmt.Errorf("%v", r))
				}
			}()
			sub.fn(Change{Section: c.Section, Document: doc.Clone()})
		}()
	}
}

package lifecycle

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/khoahotran/spotme/internal/application/service"
	"github.com/khoahotran/spotme/internal/application/store"
	"github.com/khoahotran/spotme/internal/domain/portfolio"
	"github.com/khoahotran/spotme/pkg/apperror"
)

type memPersister struct {
	mu         sync.Mutex
	docs       map[uuid.UUID]*portfolio.Portfolio
	saveErr    error
	publishErr error
	findErr    error
	publishes  int
}

func newMemPersister() *memPersister {
	return &memPersister{docs: map[uuid.UUID]*portfolio.Portfolio{}}
}

func (m *memPersister) FindByUserID(_ context.Context, userID uuid.UUID) (*portfolio.Portfolio, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	p, ok := m.docs[userID]
	if !ok {
		return nil, portfolio.ErrNotFound
	}
	return p.Clone(), nil
}

func (m *memPersister) Save(_ context.Context, p *portfolio.Portfolio) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.docs[p.UserID] = p.Clone()
	return nil
}

func (m *memPersister) Publish(_ context.Context, p *portfolio.Portfolio) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.publishErr != nil {
		return m.publishErr
	}
	m.publishes++
	m.docs[p.UserID] = p.Clone()
	return nil
}

type recordedEvents struct{ events []service.PortfolioEvent }

func (r *recordedEvents) PublishPortfolioEvent(_ context.Context, e service.PortfolioEvent) error {
	r.events = append(r.events, e)
	return nil
}

type invalidations struct{ usernames []string }

func (i *invalidations) Get(context.Context, string) (*portfolio.Portfolio, error) {
	return nil, service.ErrCacheMiss
}
func (i *invalidations) Set(context.Context, *portfolio.Portfolio) error { return nil }
func (i *invalidations) Invalidate(_ context.Context, username string) error {
	i.usernames = append(i.usernames, username)
	return nil
}

type ControllerSuite struct {
	suite.Suite
	store     *store.DocumentStore
	persister *memPersister
	events    *recordedEvents
	cache     *invalidations
	notes     []string
	clock     time.Time
	ctrl      *Controller
	id        Identity
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	s.clock = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	now := func() time.Time { return s.clock }
	s.store = store.New()
	s.persister = newMemPersister()
	s.events = &recordedEvents{}
	s.cache = &invalidations{}
	s.notes = nil
	s.ctrl = NewController(Options{
		Store:     s.store,
		Persister: s.persister,
		Notifier: service.NotifierFunc(func(kind service.NotificationKind, msg string) {
			s.notes = append(s.notes, string(kind)+": "+msg)
		}),
		Events:        s.events,
		Cache:         s.cache,
		PublicBaseURL: "https://spotme.com/",
		Now:           now,
	})
	s.id = Identity{UserID: uuid.New(), Username: "joshua", Email: "joshua@example.com"}
}

func (s *ControllerSuite) open() {
	_, err := s.ctrl.Open(context.Background(), s.id)
	s.Require().NoError(err)
}

func (s *ControllerSuite) isPublished() bool {
	doc, ok := s.store.Document()
	s.Require().True(ok)
	return doc.IsPublished
}

func (s *ControllerSuite) TestOpenCreatesDefault() {
	s.Equal(StateUninitialized, s.ctrl.State())

	p, err := s.ctrl.Open(context.Background(), s.id)

	s.Require().NoError(err)
	s.Equal(StateDraft, s.ctrl.State())
	s.Equal("joshua", p.Username)
	s.Equal("See my work", p.Hero.CTAText)
	s.True(s.store.HasDocument())
}

func (s *ControllerSuite) TestOpenLoadsStored() {
	stored := portfolio.NewDefault(s.id.UserID, "joshua", s.id.Email, time.Now())
	stored.Hero.Name = "Joshua"
	s.persister.docs[s.id.UserID] = stored

	p, err := s.ctrl.Open(context.Background(), s.id)

	s.Require().NoError(err)
	s.Equal("Joshua", p.Hero.Name)
}

func (s *ControllerSuite) TestOpenFailure() {
	s.persister.findErr = errors.New("db down")

	_, err := s.ctrl.Open(context.Background(), s.id)

	s.ErrorIs(err, apperror.ErrUnavailable)
	s.Equal(StateUninitialized, s.ctrl.State())
	s.False(s.store.HasDocument())
}

func (s *ControllerSuite) TestSaveWithoutDocument() {
	s.ErrorIs(s.ctrl.Save(context.Background()), store.ErrNoDocument)
	_, err := s.ctrl.Publish(context.Background())
	s.ErrorIs(err, store.ErrNoDocument)
}

func (s *ControllerSuite) TestSaveThenEditReturnsToDraft() {
	s.open()
	s.Require().NoError(s.store.UpdateHero(portfolio.HeroPatch{Name: portfolio.Ptr("Joshua")}))

	s.Require().NoError(s.ctrl.Save(context.Background()))
	s.Equal(StateSaved, s.ctrl.State())
	s.Equal("Joshua", s.persister.docs[s.id.UserID].Hero.Name)
	s.Contains(s.notes, "success: Portfolio saved successfully!")

	s.Require().NoError(s.store.UpdateAbout(portfolio.AboutPatch{Bio: portfolio.Ptr("hi")}))
	s.Equal(StateDraft, s.ctrl.State())
}

func (s *ControllerSuite) TestSaveFailureKeepsState() {
	s.open()
	s.Require().NoError(s.ctrl.Save(context.Background()))
	before, _ := s.store.Document()
	s.persister.saveErr = errors.New("timeout")

	err := s.ctrl.Save(context.Background())

	s.ErrorIs(err, apperror.ErrUnavailable)
	s.Equal(StateSaved, s.ctrl.State())
	after, _ := s.store.Document()
	s.Equal(before, after)
	s.Contains(s.notes, "error: Failed to save portfolio")
}

func (s *ControllerSuite) TestSaveFailureKeepsIsPublished() {
	s.open()
	_, err := s.ctrl.Publish(context.Background())
	s.Require().NoError(err)
	s.persister.saveErr = errors.New("timeout")

	s.Error(s.ctrl.Save(context.Background()))

	s.True(s.isPublished())
}

func (s *ControllerSuite) TestPublishIsRepeatable() {
	s.open()
	s.False(s.isPublished())

	res, err := s.ctrl.Publish(context.Background())
	s.Require().NoError(err)
	s.Equal("https://spotme.com/joshua", res.PublicURL)
	s.True(s.isPublished())
	s.Equal(StatePublished, s.ctrl.State())

	_, err = s.ctrl.Publish(context.Background())
	s.Require().NoError(err)
	s.True(s.isPublished())
	s.Equal(2, s.persister.publishes)
	s.True(s.persister.docs[s.id.UserID].IsPublished)

	s.Require().Len(s.events.events, 2)
	s.Equal(service.EventPortfolioPublished, s.events.events[0].Type)
	s.Equal("https://spotme.com/joshua", s.events.events[0].PublicURL)
	s.Equal([]string{"joshua", "joshua"}, s.cache.usernames)
	s.Contains(s.notes, "success: Your portfolio is live at https://spotme.com/joshua")
}

func (s *ControllerSuite) TestPublishFailureLeavesFlag() {
	s.open()
	s.persister.publishErr = errors.New("conflict")

	_, err := s.ctrl.Publish(context.Background())

	s.ErrorIs(err, apperror.ErrUnavailable)
	s.False(s.isPublished())
	s.Equal(StateDraft, s.ctrl.State())
	s.Empty(s.events.events)
	s.Contains(s.notes, "error: Failed to publish portfolio")
}

func (s *ControllerSuite) TestEditAfterPublishKeepsFlag() {
	s.open()
	_, err := s.ctrl.Publish(context.Background())
	s.Require().NoError(err)

	s.Require().NoError(s.store.UpdateTheme(portfolio.ThemePatch{Mode: portfolio.Ptr(portfolio.ThemeDark)}))

	s.Equal(StateDraft, s.ctrl.State())
	s.True(s.isPublished())
}

func (s *ControllerSuite) TestSaveStampsUpdatedAt() {
	s.open()
	opened := s.clock
	s.clock = s.clock.Add(time.Hour)
	s.Require().NoError(s.store.UpdateHero(portfolio.HeroPatch{Name: portfolio.Ptr("Joshua")}))

	doc, _ := s.store.Document()
	s.Equal(opened, doc.UpdatedAt)

	s.Require().NoError(s.ctrl.Save(context.Background()))

	s.Equal(s.clock, s.persister.docs[s.id.UserID].UpdatedAt)
	doc, _ = s.store.Document()
	s.Equal(s.clock, doc.UpdatedAt)
	s.Equal(StateSaved, s.ctrl.State())
}

func (s *ControllerSuite) TestSaveOfDraftKeepsCache() {
	s.open()

	s.Require().NoError(s.ctrl.Save(context.Background()))

	s.Empty(s.cache.usernames)
}

func (s *ControllerSuite) TestSaveOfPublishedInvalidatesCache() {
	s.open()
	_, err := s.ctrl.Publish(context.Background())
	s.Require().NoError(err)
	s.Require().Len(s.cache.usernames, 1)

	s.Require().NoError(s.store.UpdateHero(portfolio.HeroPatch{Name: portfolio.Ptr("Joshua")}))
	s.Require().NoError(s.ctrl.Save(context.Background()))

	s.Equal([]string{"joshua", "joshua"}, s.cache.usernames)
	s.True(s.persister.docs[s.id.UserID].IsPublished)
	s.Equal("Joshua", s.persister.docs[s.id.UserID].Hero.Name)
}

func (s *ControllerSuite) TestFailedSaveOfPublishedKeepsCache() {
	s.open()
	_, err := s.ctrl.Publish(context.Background())
	s.Require().NoError(err)
	s.persister.saveErr = errors.New("timeout")

	s.Error(s.ctrl.Save(context.Background()))

	s.Len(s.cache.usernames, 1)
}

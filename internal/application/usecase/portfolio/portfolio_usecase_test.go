package portfolio

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/spotme/internal/application/render"
	"github.com/khoahotran/spotme/internal/application/service"
	"github.com/khoahotran/spotme/internal/domain/portfolio"
	"github.com/khoahotran/spotme/pkg/apperror"
	"github.com/khoahotran/spotme/pkg/logger"
)

type memRepo struct {
	docs  []*portfolio.Portfolio
	reads int
	err   error
}

func (m *memRepo) FindByUserID(_ context.Context, id uuid.UUID) (*portfolio.Portfolio, error) {
	for _, p := range m.docs {
		if p.UserID == id {
			return p.Clone(), nil
		}
	}
	return nil, portfolio.ErrNotFound
}

func (m *memRepo) FindPublishedByUsername(_ context.Context, username string) (*portfolio.Portfolio, error) {
	m.reads++
	if m.err != nil {
		return nil, m.err
	}
	for _, p := range m.docs {
		if p.Username == username && p.IsPublished {
			return p.Clone(), nil
		}
	}
	return nil, portfolio.ErrNotFound
}

func (m *memRepo) ListPublished(_ context.Context, limit, offset int) ([]*portfolio.Portfolio, error) {
	var out []*portfolio.Portfolio
	for _, p := range m.docs {
		if p.IsPublished {
			out = append(out, p.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memRepo) Save(context.Context, *portfolio.Portfolio) error    { return nil }
func (m *memRepo) Publish(context.Context, *portfolio.Portfolio) error { return nil }

type mapCache map[string]*portfolio.Portfolio

func (c mapCache) Get(_ context.Context, username string) (*portfolio.Portfolio, error) {
	if p, ok := c[username]; ok {
		return p.Clone(), nil
	}
	return nil, service.ErrCacheMiss
}

func (c mapCache) Set(_ context.Context, p *portfolio.Portfolio) error {
	c[p.Username] = p.Clone()
	return nil
}

func (c mapCache) Invalidate(_ context.Context, username string) error {
	delete(c, username)
	return nil
}

func published(username, name string, updated time.Time) *portfolio.Portfolio {
	p := portfolio.NewDefault(uuid.New(), username, username+"@example.com", updated)
	p.Hero.Name = name
	p.Hero.Title = "Developer"
	p.IsPublished = true
	return p
}

func TestGetPublicPortfolio_CachesOnMiss(t *testing.T) {
	repo := &memRepo{docs: []*portfolio.Portfolio{published("joshua", "Joshua", time.Now())}}
	cache := mapCache{}
	uc := NewGetPublicPortfolioUseCase(repo, cache, logger.NewNopLogger(), nil)

	out, err := uc.Execute(context.Background(), GetPublicPortfolioInput{Username: "Joshua"})
	require.NoError(t, err)
	assert.Equal(t, render.ModePublic, out.View.Mode)
	assert.Equal(t, "Hi, I'm Joshua.", out.View.Hero.Greeting)
	assert.Contains(t, cache, "joshua")

	_, err = uc.Execute(context.Background(), GetPublicPortfolioInput{Username: "joshua"})
	require.NoError(t, err)
	assert.Equal(t, 1, repo.reads)
}

func TestGetPublicPortfolio_NotFound(t *testing.T) {
	draft := published("draft", "Draft", time.Now())
	draft.IsPublished = false
	repo := &memRepo{docs: []*portfolio.Portfolio{draft}}
	uc := NewGetPublicPortfolioUseCase(repo, nil, logger.NewNopLogger(), nil)

	for _, name := range []string{"draft", "nobody", "  "} {
		_, err := uc.Execute(context.Background(), GetPublicPortfolioInput{Username: name})
		assert.ErrorIs(t, err, apperror.ErrNotFound, name)
	}
}

func TestGetPublicPortfolio_RepoFailure(t *testing.T) {
	boom := errors.New("db down")
	uc := NewGetPublicPortfolioUseCase(&memRepo{err: boom}, mapCache{}, logger.NewNopLogger(), nil)

	_, err := uc.Execute(context.Background(), GetPublicPortfolioInput{Username: "joshua"})
	assert.ErrorIs(t, err, boom)
}

func TestRSS_ListsPublishedNewestFirst(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	repo := &memRepo{docs: []*portfolio.Portfolio{
		published("old", "", base),
		published("new", "New Person", base.Add(time.Hour)),
	}}
	uc := NewRSSUseCase(repo, "https://spotme.com/", logger.NewNopLogger())

	feed, err := uc.Execute(context.Background())
	require.NoError(t, err)

	require.Len(t, feed.Items, 2)
	assert.Equal(t, "New Person", feed.Items[0].Title)
	assert.Equal(t, "https://spotme.com/new", feed.Items[0].Link.Href)
	assert.Equal(t, "old", feed.Items[1].Title)

	rss, err := feed.ToRss()
	require.NoError(t, err)
	assert.Contains(t, rss, "https://spotme.com/old")
}

func TestProcessPublishEvent_WarmsCache(t *testing.T) {
	p := published("joshua", "Joshua", time.Now())
	cache := mapCache{}
	uc := NewProcessPublishEventUseCase(&memRepo{docs: []*portfolio.Portfolio{p}}, cache, logger.NewNopLogger())

	require.NoError(t, uc.Execute(context.Background(), service.PortfolioEvent{Type: service.EventPortfolioPublished, Username: "joshua"}))
	assert.Contains(t, cache, "joshua")

	require.NoError(t, uc.Execute(context.Background(), service.PortfolioEvent{Type: service.EventPortfolioPublished, Username: "ghost"}))
	require.NoError(t, uc.Execute(context.Background(), service.PortfolioEvent{Type: "portfolio.other", Username: "joshua"}))
}

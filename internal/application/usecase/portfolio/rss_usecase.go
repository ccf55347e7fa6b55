package portfolio

import (
	"context"
	"strings"
	"time"

	"github.com/gorilla/feeds"
	"go.uber.org/zap"

	"github.com/khoahotran/spotme/internal/domain/portfolio"
	"github.com/khoahotran/spotme/pkg/logger"
)

const feedSize = 20

// RSSUseCase lists recently published portfolios as a discovery feed.
type RSSUseCase struct {
	repo    portfolio.Repository
	baseURL string
	logger  logger.Logger
	now     func() time.Time
}

func NewRSSUseCase(repo portfolio.Repository, publicBaseURL string, log logger.Logger) *RSSUseCase {
	return &RSSUseCase{
		repo:    repo,
		baseURL: strings.TrimRight(publicBaseURL, "/"),
		logger:  log,
		now:     time.Now,
	}
}

func (uc *RSSUseCase) Execute(ctx context.Context) (*feeds.Feed, error) {
	uc.logger.Info("Generating RSS feed...")

	feed := &feeds.Feed{
		Title:       "SpotMe - Recently published portfolios",
		Link:        &feeds.Link{Href: uc.baseURL},
		Description: "Portfolios recently published on SpotMe.",
		Created:     uc.now(),
	}

	published, err := uc.repo.ListPublished(ctx, feedSize, 0)
	if err != nil {
		uc.logger.Error("Failed to list published portfolios for RSS", err)
		return nil, err
	}

	for _, p := range published {
		title := p.Hero.Name
		if title == "" {
			title = p.Username
		}
		feed.Items = append(feed.Items, &feeds.Item{
			Id:          p.ID.String(),
			Title:       title,
			Link:        &feeds.Link{Href: uc.baseURL + "/" + p.Username},
			Description: p.Hero.Title,
			Content:     p.About.Bio,
			Created:     p.CreatedAt,
			Updated:     p.UpdatedAt,
		})
	}

	uc.logger.Info("RSS feed generated successfully", zap.Int("item_count", len(feed.Items)))
	return feed, nil
}

package portfolio

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/khoahotran/spotme/internal/application/render"
	"github.com/khoahotran/spotme/internal/application/service"
	"github.com/khoahotran/spotme/internal/domain/portfolio"
	"github.com/khoahotran/spotme/pkg/apperror"
	"github.com/khoahotran/spotme/pkg/logger"
	"github.com/khoahotran/spotme/pkg/metrics"
)

type GetPublicPortfolioUseCase struct {
	repo    portfolio.Repository
	cache   service.PublicCache
	logger  logger.Logger
	metrics *metrics.Metrics
}

func NewGetPublicPortfolioUseCase(repo portfolio.Repository, cache service.PublicCache, log logger.Logger, m *metrics.Metrics) *GetPublicPortfolioUseCase {
	return &GetPublicPortfolioUseCase{repo: repo, cache: cache, logger: log, metrics: m}
}

type GetPublicPortfolioInput struct {
	Username string
}

type GetPublicPortfolioOutput struct {
	Portfolio *portfolio.Portfolio
	View      render.View
}

// Execute resolves a published page. Unknown and unpublished usernames are
// both reported as not found.
func (uc *GetPublicPortfolioUseCase) Execute(ctx context.Context, input GetPublicPortfolioInput) (*GetPublicPortfolioOutput, error) {
	username := strings.ToLower(strings.TrimSpace(input.Username))
	notFound := apperror.NewNotFound("portfolio", input.Username)
	if username == "" {
		return nil, notFound
	}

	p, err := uc.lookup(ctx, username)
	if err != nil {
		if errors.Is(err, portfolio.ErrNotFound) || errors.Is(err, apperror.ErrNotFound) {
			uc.metrics.PublicLookup("not_found")
			return nil, notFound
		}
		return nil, err
	}
	if !p.IsPublished {
		uc.metrics.PublicLookup("not_found")
		return nil, notFound
	}

	view := render.Render(p, render.Context{Mode: render.ModePublic, AllowDarkChrome: true})
	return &GetPublicPortfolioOutput{Portfolio: p, View: view}, nil
}

func (uc *GetPublicPortfolioUseCase) lookup(ctx context.Context, username string) (*portfolio.Portfolio, error) {
	if uc.cache != nil {
		p, err := uc.cache.Get(ctx, username)
		switch {
		case err == nil:
			uc.metrics.PublicLookup("hit")
			return p, nil
		case !errors.Is(err, service.ErrCacheMiss):
			uc.logger.Warn("Public cache read failed", zap.String("username", username), zap.Error(err))
		}
	}

	p, err := uc.repo.FindPublishedByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	uc.metrics.PublicLookup("miss")

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, p); err != nil {
			uc.logger.Warn("Public cache write failed", zap.String("username", username), zap.Error(err))
		}
	}
	return p, nil
}

package portfolio

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/khoahotran/spotme/internal/application/service"
	"github.com/khoahotran/spotme/internal/domain/portfolio"
	"github.com/khoahotran/spotme/pkg/logger"
)

// ProcessPublishEventUseCase warms the public cache after a publish so the
// first visitor is served from cache.
type ProcessPublishEventUseCase struct {
	repo   portfolio.Repository
	cache  service.PublicCache
	logger logger.Logger
}

func NewProcessPublishEventUseCase(repo portfolio.Repository, cache service.PublicCache, log logger.Logger) *ProcessPublishEventUseCase {
	return &ProcessPublishEventUseCase{repo: repo, cache: cache, logger: log}
}

func (uc *ProcessPublishEventUseCase) Execute(ctx context.Context, event service.PortfolioEvent) error {
	if event.Type != service.EventPortfolioPublished {
		uc.logger.Debug("Skipping portfolio event", zap.String("type", event.Type))
		return nil
	}
	uc.logger.Info("Processing publish event", zap.String("username", event.Username), zap.String("portfolio_id", event.PortfolioID.String()))

	p, err := uc.repo.FindPublishedByUsername(ctx, event.Username)
	if err != nil {
		if errors.Is(err, portfolio.ErrNotFound) {
			uc.logger.Warn("Published portfolio not found, skip", zap.String("username", event.Username))
			return nil
		}
		return fmt.Errorf("load published portfolio failed: %w", err)
	}

	if err := uc.cache.Set(ctx, p); err != nil {
		return fmt.Errorf("warm public cache failed: %w", err)
	}
	return nil
}

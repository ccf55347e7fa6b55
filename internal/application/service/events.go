package service

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const EventPortfolioPublished = "portfolio.published"

type PortfolioEvent struct {
	Type        string    `json:"type"`
	PortfolioID uuid.UUID `json:"portfolio_id"`
	UserID      uuid.UUID `json:"user_id"`
	Username    string    `json:"username"`
	PublicURL   string    `json:"public_url"`
	OccurredAt  time.Time `json:"occurred_at"`
}

type EventPublisher interface {
	PublishPortfolioEvent(ctx context.Context, event PortfolioEvent) error
}

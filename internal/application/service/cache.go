package service

import (
	"context"
	"errors"

	"github.com/khoahotran/spotme/internal/domain/portfolio"
)

var ErrCacheMiss = errors.New("cache miss")

// PublicCache holds published portfolios keyed by username.
type PublicCache interface {
	Get(ctx context.Context, username string) (*portfolio.Portfolio, error)
	Set(ctx context.Context, p *portfolio.Portfolio) error
	Invalidate(ctx context.Context, username string) error
}

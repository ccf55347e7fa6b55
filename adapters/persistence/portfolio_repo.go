package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/khoahotran/spotme/internal/domain/portfolio"
	"github.com/khoahotran/spotme/pkg/apperror"
	"github.com/khoahotran/spotme/pkg/logger"
)

type postgresPortfolioRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresPortfolioRepo(db *pgxpool.Pool, log logger.Logger) portfolio.Repository {
	return &postgresPortfolioRepo{db: db, logger: log}
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var portfolioColumns = []string{
	"id", "user_id", "username",
	"hero", "about", "skills", "projects", "contact", "theme",
	"is_published", "created_at", "updated_at",
}

// sectionColumns are the JSONB columns, one per document section.
type sectionColumns struct {
	hero, about, skills, projects, contact, theme []byte
}

func marshalSections(p *portfolio.Portfolio) (*sectionColumns, error) {
	var c sectionColumns
	var err error
	if c.hero, err = json.Marshal(p.Hero); err != nil {
		return nil, fmt.Errorf("failed to marshal hero: %w", err)
	}
	if c.about, err = json.Marshal(p.About); err != nil {
		return nil, fmt.Errorf("failed to marshal about: %w", err)
	}
	if c.skills, err = json.Marshal(p.Skills); err != nil {
		return nil, fmt.Errorf("failed to marshal skills: %w", err)
	}
	if c.projects, err = json.Marshal(p.Projects); err != nil {
		return nil, fmt.Errorf("failed to marshal projects: %w", err)
	}
	if c.contact, err = json.Marshal(p.Contact); err != nil {
		return nil, fmt.Errorf("failed to marshal contact: %w", err)
	}
	if c.theme, err = json.Marshal(p.Theme); err != nil {
		return nil, fmt.Errorf("failed to marshal theme: %w", err)
	}
	return &c, nil
}

func (c *sectionColumns) unmarshal(p *portfolio.Portfolio) error {
	targets := []struct {
		name string
		raw  []byte
		dst  any
	}{
		{"hero", c.hero, &p.Hero},
		{"about", c.about, &p.About},
		{"skills", c.skills, &p.Skills},
		{"projects", c.projects, &p.Projects},
		{"contact", c.contact, &p.Contact},
		{"theme", c.theme, &p.Theme},
	}
	for _, t := range targets {
		if len(t.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(t.raw, t.dst); err != nil {
			return fmt.Errorf("failed to unmarshal %s: %w", t.name, err)
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPortfolio(row rowScanner) (*portfolio.Portfolio, error) {
	p := &portfolio.Portfolio{}
	var c sectionColumns

	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.Username,
		&c.hero,
		&c.about,
		&c.skills,
		&c.projects,
		&c.contact,
		&c.theme,
		&p.IsPublished,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, portfolio.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan portfolio row: %w", err)
	}
	if err := c.unmarshal(p); err != nil {
		return nil, err
	}
	// Clone normalises nil collections to empty ones.
	return p.Clone(), nil
}

func (r *postgresPortfolioRepo) FindByUserID(ctx context.Context, userID uuid.UUID) (*portfolio.Portfolio, error) {
	query, args, err := psql.Select(portfolioColumns...).
		From("portfolios").
		Where(sq.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}
	return scanPortfolio(r.db.QueryRow(ctx, query, args...))
}

func (r *postgresPortfolioRepo) FindPublishedByUsername(ctx context.Context, username string) (*portfolio.Portfolio, error) {
	query, args, err := psql.Select(portfolioColumns...).
		From("portfolios").
		Where(sq.Eq{"username": username, "is_published": true}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}
	return scanPortfolio(r.db.QueryRow(ctx, query, args...))
}

func (r *postgresPortfolioRepo) ListPublished(ctx context.Context, limit, offset int) ([]*portfolio.Portfolio, error) {
	query, args, err := psql.Select(portfolioColumns...).
		From("portfolios").
		Where(sq.Eq{"is_published": true}).
		OrderBy("published_at DESC", "updated_at DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query published portfolios: %w", err)
	}
	defer rows.Close()

	out := make([]*portfolio.Portfolio, 0)
	for rows.Next() {
		p, err := scanPortfolio(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating portfolio rows: %w", err)
	}
	return out, nil
}

// Save upserts the document by owner. The publication flag of an existing
// row is left alone; only Publish sets it.
func (r *postgresPortfolioRepo) Save(ctx context.Context, p *portfolio.Portfolio) error {
	return r.upsert(ctx, p, false)
}

// Publish upserts the document and marks it published. Republishing
// refreshes published_at.
func (r *postgresPortfolioRepo) Publish(ctx context.Context, p *portfolio.Portfolio) error {
	return r.upsert(ctx, p, true)
}

func (r *postgresPortfolioRepo) upsert(ctx context.Context, p *portfolio.Portfolio, publish bool) error {
	if err := p.Validate(); err != nil {
		return apperror.NewInvalidInput("portfolio is not valid", err)
	}
	c, err := marshalSections(p)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	isPublished := p.IsPublished || publish
	var publishedAt *time.Time
	if publish {
		publishedAt = &now
	}

	onConflict := `ON CONFLICT (user_id) DO UPDATE SET
		username = EXCLUDED.username,
		hero = EXCLUDED.hero,
		about = EXCLUDED.about,
		skills = EXCLUDED.skills,
		projects = EXCLUDED.projects,
		contact = EXCLUDED.contact,
		theme = EXCLUDED.theme,
		updated_at = EXCLUDED.updated_at`
	if publish {
		onConflict += `,
		is_published = TRUE,
		published_at = EXCLUDED.published_at`
	}

	query, args, err := psql.Insert("portfolios").
		Columns(append(append([]string{}, portfolioColumns...), "published_at")...).
		Values(
			p.ID, p.UserID, p.Username,
			c.hero, c.about, c.skills, c.projects, c.contact, c.theme,
			isPublished, p.CreatedAt, p.UpdatedAt, publishedAt,
		).
		Suffix(onConflict).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build upsert: %w", err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperror.NewConflict("portfolio", "username", p.Username)
		}
		r.logger.Error("Failed to upsert portfolio", err, zap.String("portfolio_id", p.ID.String()), zap.Bool("publish", publish))
		return fmt.Errorf("failed to save portfolio: %w", err)
	}
	return nil
}

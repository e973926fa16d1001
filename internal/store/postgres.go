package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shortenv/shortenv/internal/shortlink"
)

// PostgresStore is the pgx-backed implementation of shortlink.Store.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL-backed link store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError

	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func (p *PostgresStore) Create(ctx context.Context, link *shortlink.ShortLink) error {
	query := `
		INSERT INTO short_links (code, target, redirect_type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	now := time.Now().UTC()
	link.Policy = shortlink.NormalizePolicy(link.Policy)
	link.CreatedAt = now
	link.UpdatedAt = now

	err := p.pool.QueryRow(ctx, query,
		link.Code,
		link.Target,
		int(link.Policy),
		link.CreatedAt,
		link.UpdatedAt,
	).Scan(&link.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return shortlink.ErrCodeTaken
		}

		return err
	}

	return nil
}

func (p *PostgresStore) Update(ctx context.Context, link *shortlink.ShortLink) error {
	query := `
		UPDATE short_links
		SET code = $1, target = $2, redirect_type = $3, updated_at = $4
		WHERE id = $5
	`

	link.Policy = shortlink.NormalizePolicy(link.Policy)
	link.UpdatedAt = time.Now().UTC()

	tag, err := p.pool.Exec(ctx, query,
		link.Code,
		link.Target,
		int(link.Policy),
		link.UpdatedAt,
		link.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return shortlink.ErrCodeTaken
		}

		return err
	}

	if tag.RowsAffected() == 0 {
		return shortlink.ErrNotFound
	}

	return nil
}

func (p *PostgresStore) Delete(ctx context.Context, id int64) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var code string

	err = tx.QueryRow(ctx, `SELECT code FROM short_links WHERE id = $1`, id).Scan(&code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shortlink.ErrNotFound
		}

		return err
	}

	if _, err = tx.Exec(ctx, `DELETE FROM clicks WHERE code = $1`, code); err != nil {
		return err
	}

	if _, err = tx.Exec(ctx, `DELETE FROM short_links WHERE id = $1`, id); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (p *PostgresStore) FindByCode(ctx context.Context, code string) (*shortlink.ShortLink, error) {
	query := `
		SELECT id, code, target, redirect_type, clicks, last_click_at, created_at, updated_at
		FROM short_links
		WHERE code = $1
	`

	link, err := scanLink(p.pool.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shortlink.ErrNotFound
		}

		return nil, err
	}

	return link, nil
}

func (p *PostgresStore) FindByID(ctx context.Context, id int64) (*shortlink.ShortLink, error) {
	query := `
		SELECT id, code, target, redirect_type, clicks, last_click_at, created_at, updated_at
		FROM short_links
		WHERE id = $1
	`

	link, err := scanLink(p.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shortlink.ErrNotFound
		}

		return nil, err
	}

	return link, nil
}

func (p *PostgresStore) List(ctx context.Context, opts shortlink.ListOptions) ([]shortlink.ShortLink, error) {
	dir := "DESC"
	if opts.Asc {
		dir = "ASC"
	}

	// SortColumn is whitelisted, never raw caller input.
	query := fmt.Sprintf(`
		SELECT id, code, target, redirect_type, clicks, last_click_at, created_at, updated_at
		FROM short_links
		WHERE ($1 = '' OR code ILIKE '%%' || $1 || '%%' OR target ILIKE '%%' || $1 || '%%')
		ORDER BY %s %s NULLS LAST
	`, opts.SortColumn(), dir)

	rows, err := p.pool.Query(ctx, query, opts.Search)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []shortlink.ShortLink

	for rows.Next() {
		link, err := scanLink(rows)
		if err != nil {
			return nil, err
		}

		links = append(links, *link)
	}

	return links, rows.Err()
}

func (p *PostgresStore) Stats(ctx context.Context) (shortlink.Stats, error) {
	var stats shortlink.Stats

	err := p.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM short_links),
			(SELECT COUNT(*) FROM clicks)
	`).Scan(&stats.TotalLinks, &stats.TotalClicks)

	return stats, err
}

// Attribute inserts the click and bumps the link's counters in one
// transaction. The unique index on clicks(code, ip) decides the winner under
// concurrency: a conflicting insert affects zero rows and the visit is
// reported as already counted without touching the counters.
func (p *PostgresStore) Attribute(ctx context.Context, click *shortlink.Click) (bool, error) {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	click.CreatedAt = time.Now().UTC()

	tag, err := tx.Exec(ctx, `
		INSERT INTO clicks (code, target, ip, user_agent, referer, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (code, ip) DO NOTHING
	`, click.Code, click.Target, click.IP, click.UserAgent, click.Referer, click.CreatedAt)
	if err != nil {
		return false, err
	}

	if tag.RowsAffected() == 0 {
		return false, tx.Commit(ctx)
	}

	// Zero rows here means the link was deleted after resolution; the click
	// row stays orphaned, which is tolerated.
	_, err = tx.Exec(ctx, `
		UPDATE short_links
		SET clicks = clicks + 1, last_click_at = $1
		WHERE code = $2
	`, click.CreatedAt, click.Code)
	if err != nil {
		return false, err
	}

	return true, tx.Commit(ctx)
}

func (p *PostgresStore) HasClick(ctx context.Context, code, ip string) (bool, error) {
	var exists bool

	err := p.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM clicks WHERE code = $1 AND ip = $2)`,
		code, ip,
	).Scan(&exists)

	return exists, err
}

func (p *PostgresStore) CountClicks(ctx context.Context, code string) (int64, error) {
	var count int64

	err := p.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM clicks WHERE $1 = '' OR code = $1`,
		code,
	).Scan(&count)

	return count, err
}

func (p *PostgresStore) ListClicks(ctx context.Context, filter shortlink.ClickFilter) ([]shortlink.Click, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}

	rows, err := p.pool.Query(ctx, `
		SELECT id, code, target, ip, user_agent, referer, created_at
		FROM clicks
		WHERE $1 = '' OR code = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`, filter.Code, limit, filter.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clicks []shortlink.Click

	for rows.Next() {
		var (
			c       shortlink.Click
			referer *string
		)

		if err := rows.Scan(&c.ID, &c.Code, &c.Target, &c.IP, &c.UserAgent, &referer, &c.CreatedAt); err != nil {
			return nil, err
		}

		if referer != nil {
			c.Referer = *referer
		}

		clicks = append(clicks, c)
	}

	return clicks, rows.Err()
}

func scanLink(row pgx.Row) (*shortlink.ShortLink, error) {
	var (
		link     shortlink.ShortLink
		redirect int
	)

	err := row.Scan(
		&link.ID,
		&link.Code,
		&link.Target,
		&redirect,
		&link.Clicks,
		&link.LastClickAt,
		&link.CreatedAt,
		&link.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	link.Policy = shortlink.RedirectPolicy(redirect)

	return &link, nil
}

// Compile-time check.
var _ shortlink.Store = (*PostgresStore)(nil)

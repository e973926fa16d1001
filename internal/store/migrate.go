package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrate creates the schema if it does not exist. Safe to run on every boot.
//
// The unique index on clicks(code, ip) is what makes click attribution
// race-free: concurrent inserts for the same pair collapse to a single row.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS short_links (
			id            BIGSERIAL PRIMARY KEY,
			code          TEXT NOT NULL UNIQUE,
			target        TEXT NOT NULL,
			redirect_type INTEGER NOT NULL DEFAULT 302,
			clicks        BIGINT NOT NULL DEFAULT 0,
			last_click_at TIMESTAMPTZ,
			created_at    TIMESTAMPTZ NOT NULL,
			updated_at    TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS clicks (
			id         BIGSERIAL PRIMARY KEY,
			code       TEXT NOT NULL,
			target     TEXT NOT NULL,
			ip         TEXT NOT NULL,
			user_agent TEXT NOT NULL,
			referer    TEXT,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_clicks_code_ip ON clicks (code, ip)`,
		`CREATE INDEX IF NOT EXISTS idx_clicks_created ON clicks (created_at)`,
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}

	return nil
}

package database

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS visitors (
		id            BIGSERIAL PRIMARY KEY,
		name          TEXT NOT NULL,
		email         TEXT NOT NULL UNIQUE,
		height        INT,
		registered_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		preferences   JSONB NOT NULL DEFAULT '{}'::jsonb
	)`,
	`CREATE TABLE IF NOT EXISTS attractions (
		id             BIGSERIAL PRIMARY KEY,
		name           TEXT NOT NULL UNIQUE,
		type           TEXT NOT NULL,
		min_height     INT NOT NULL DEFAULT 0,
		active         BOOLEAN NOT NULL DEFAULT TRUE,
		inaugurated_on DATE NOT NULL DEFAULT CURRENT_DATE,
		details        JSONB NOT NULL DEFAULT '{}'::jsonb
	)`,
	`CREATE TABLE IF NOT EXISTS tickets (
		id               BIGSERIAL PRIMARY KEY,
		visitor_id       BIGINT NOT NULL REFERENCES visitors(id) ON DELETE CASCADE,
		attraction_id    BIGINT REFERENCES attractions(id) ON DELETE SET NULL,
		purchased_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
		visit_date       DATE NOT NULL,
		category         TEXT NOT NULL,
		purchase_details JSONB NOT NULL DEFAULT '{}'::jsonb,
		used             BOOLEAN NOT NULL DEFAULT FALSE,
		used_at          TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_tickets_visitor ON tickets (visitor_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tickets_attraction ON tickets (attraction_id)`,
}

// Migrate creates the schema if it does not exist yet. Safe to run on every boot.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

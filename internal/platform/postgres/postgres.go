package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver

	"yojanamitra/internal/platform/config"
)

// schema is applied idempotently at startup. Applications are never deleted,
// so there is no down migration.
const schema = `
CREATE TABLE IF NOT EXISTS applications (
	id               UUID PRIMARY KEY,
	seq              BIGSERIAL,
	session_id       TEXT        NOT NULL,
	scheme_id        INTEGER     NOT NULL,
	scheme_name      TEXT        NOT NULL,
	applied_on       DATE        NOT NULL,
	status           TEXT        NOT NULL,
	progress         SMALLINT    NOT NULL CHECK (progress BETWEEN 0 AND 100),
	amount           TEXT        NOT NULL DEFAULT '',
	reference        TEXT        NOT NULL,
	documents        JSONB       NOT NULL DEFAULT '[]',
	timeline         JSONB       NOT NULL DEFAULT '[]',
	rejection_reason TEXT,
	next_payment     DATE,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (session_id, reference)
);
CREATE INDEX IF NOT EXISTS applications_session_idx ON applications (session_id, seq);
`

// Open connects to Postgres through the pgx stdlib driver.
// Returns nil, nil when no URL is configured.
func Open(ctx context.Context, cfg config.PostgresConfig) (*sql.DB, error) {
	if cfg.URL == "" {
		return nil, nil
	}
	db, err := sql.Open("pgx", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}
	return db, nil
}

// Migrate creates the tables this service owns.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

package database

import (
	"context"
	"database/sql"
	"fmt"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS prospect_outcomes (
		id              UUID PRIMARY KEY,
		tenant_id       TEXT NOT NULL,
		external_id     TEXT NOT NULL,
		name            TEXT NOT NULL DEFAULT '',
		address         TEXT NOT NULL DEFAULT '',
		phone           TEXT,
		channel_valid   BOOLEAN NOT NULL DEFAULT FALSE,
		channel_address TEXT,
		message_sent    BOOLEAN NOT NULL DEFAULT FALSE,
		lead_saved      BOOLEAN NOT NULL DEFAULT FALSE,
		lead_id         TEXT,
		criteria        TEXT NOT NULL DEFAULT '',
		status          TEXT NOT NULL,
		classification  TEXT NOT NULL DEFAULT '',
		error_detail    TEXT,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (tenant_id, external_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_prospect_outcomes_sent
		ON prospect_outcomes (tenant_id, created_at) WHERE message_sent`,
	`CREATE TABLE IF NOT EXISTS leads (
		id              UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		tenant_id       TEXT NOT NULL,
		external_id     TEXT,
		name            TEXT NOT NULL,
		phone           TEXT,
		address         TEXT,
		channel_address TEXT,
		source          TEXT NOT NULL DEFAULT 'PROSPECTING',
		status          TEXT NOT NULL DEFAULT 'NEW',
		created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (tenant_id, external_id)
	)`,
}

// EnsureSchema cria as tabelas do motor de prospecção (idempotente).
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i+1, err)
		}
	}
	return nil
}

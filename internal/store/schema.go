package store

import (
	"context"
	"fmt"
)

const schema = `
CREATE TABLE IF NOT EXISTS kirtans (
	id          BIGSERIAL PRIMARY KEY,
	name        TEXT NOT NULL,
	location    TEXT NOT NULL,
	date        DATE NOT NULL,
	image       TEXT,
	organizer   TEXT,
	phone       TEXT NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS bus_seva (
	id              BIGSERIAL PRIMARY KEY,
	seva_name       TEXT NOT NULL,
	origin          TEXT NOT NULL,
	destination     TEXT NOT NULL,
	departure_date  DATE NOT NULL,
	seats           INTEGER,
	phone           TEXT NOT NULL,
	organizer       TEXT,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS sathi_connect (
	id          BIGSERIAL PRIMARY KEY,
	name        TEXT NOT NULL,
	location    TEXT NOT NULL,
	purpose     TEXT NOT NULL,
	whatsapp    TEXT NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS contact_messages (
	id          BIGSERIAL PRIMARY KEY,
	name        TEXT NOT NULL,
	email       TEXT NOT NULL,
	message     TEXT NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS visitor_stats (
	date   DATE PRIMARY KEY,
	count  BIGINT NOT NULL DEFAULT 0 CHECK (count >= 0)
);

CREATE INDEX IF NOT EXISTS idx_kirtans_date ON kirtans(date);
CREATE INDEX IF NOT EXISTS idx_bus_seva_departure ON bus_seva(departure_date);
CREATE INDEX IF NOT EXISTS idx_sathi_connect_created ON sathi_connect(created_at);
`

// Migrate creates the board tables if they do not exist.
func (d *DB) Migrate(ctx context.Context) error {
	if _, err := d.Client.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

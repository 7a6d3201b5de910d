package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

type migration struct {
	version int
	name    string
	script  string
}

// migrations are applied in order inside one transaction each. Append new
// entries; never edit an applied script.
var migrations = []migration{
	{
		version: 1,
		name:    "initial schema",
		script: `
CREATE TABLE users (
	id            TEXT PRIMARY KEY,
	email         TEXT NOT NULL UNIQUE,
	display_name  TEXT NOT NULL,
	is_admin      INTEGER NOT NULL DEFAULT 0,
	password_hash TEXT NOT NULL,
	disabled      INTEGER NOT NULL DEFAULT 0,
	created_at    TEXT NOT NULL,
	updated_at    TEXT NOT NULL
);

CREATE TABLE sessions (
	id         TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	token      TEXT NOT NULL UNIQUE,
	expires_at TEXT NOT NULL,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	revoked_at TEXT
);

CREATE INDEX idx_sessions_user ON sessions(user_id);

CREATE TABLE rooms (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL UNIQUE,
	capacity    INTEGER CHECK (capacity IS NULL OR capacity > 0),
	description TEXT NOT NULL DEFAULT '',
	x           REAL NOT NULL DEFAULT 0,
	y           REAL NOT NULL DEFAULT 0,
	width       REAL NOT NULL DEFAULT 0,
	height      REAL NOT NULL DEFAULT 0,
	created_at  TEXT NOT NULL,
	updated_at  TEXT NOT NULL
);

CREATE TABLE classes (
	id              TEXT PRIMARY KEY,
	title           TEXT NOT NULL,
	description     TEXT NOT NULL DEFAULT '',
	room_id         TEXT NOT NULL REFERENCES rooms(id),
	date            TEXT NOT NULL,
	start_time      TEXT NOT NULL,
	end_time        TEXT NOT NULL,
	teacher         TEXT NOT NULL,
	max_students    INTEGER NOT NULL CHECK (max_students > 0),
	recurring       INTEGER NOT NULL DEFAULT 0,
	pattern         TEXT NOT NULL DEFAULT '',
	recurrence_kind TEXT NOT NULL DEFAULT '',
	recurrence_end  TEXT,
	created_at      TEXT NOT NULL,
	updated_at      TEXT NOT NULL,
	CHECK (start_time < end_time)
);

CREATE INDEX idx_classes_room_date ON classes(room_id, date);

CREATE TABLE class_students (
	class_id TEXT NOT NULL REFERENCES classes(id) ON DELETE CASCADE,
	student  TEXT NOT NULL,
	PRIMARY KEY (class_id, student)
);

CREATE TABLE products (
	id          TEXT PRIMARY KEY,
	title       TEXT NOT NULL,
	author      TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	price_cents INTEGER NOT NULL CHECK (price_cents > 0),
	category    TEXT NOT NULL DEFAULT '',
	cover_url   TEXT NOT NULL DEFAULT '',
	file_key    TEXT NOT NULL,
	published   INTEGER NOT NULL DEFAULT 0,
	created_at  TEXT NOT NULL,
	updated_at  TEXT NOT NULL
);

CREATE INDEX idx_products_category ON products(category);

CREATE TABLE orders (
	id          TEXT PRIMARY KEY,
	user_id     TEXT NOT NULL REFERENCES users(id),
	status      TEXT NOT NULL,
	total_cents INTEGER NOT NULL,
	intent_id   TEXT NOT NULL DEFAULT '',
	paid_at     TEXT,
	created_at  TEXT NOT NULL,
	updated_at  TEXT NOT NULL
);

CREATE INDEX idx_orders_user ON orders(user_id);
CREATE INDEX idx_orders_paid_at ON orders(status, paid_at);

CREATE TABLE order_items (
	order_id   TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
	product_id TEXT NOT NULL,
	title      TEXT NOT NULL,
	unit_cents INTEGER NOT NULL,
	PRIMARY KEY (order_id, product_id)
);

CREATE TABLE reviews (
	id         TEXT PRIMARY KEY,
	product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
	user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	rating     INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
	body       TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	UNIQUE (product_id, user_id)
);
`,
	},
}

// Migrate brings the schema up to the latest version. Already applied
// versions are skipped, so it is safe to call on every start.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS schema_migrations (
	version    INTEGER PRIMARY KEY,
	name       TEXT NOT NULL,
	applied_at TEXT NOT NULL
)`); err != nil {
		return fmt.Errorf("creating schema_migrations: %w", err)
	}

	var current int
	if err := s.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&current); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		err := s.WithTransaction(ctx, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, m.script); err != nil {
				return fmt.Errorf("applying migration %d (%s): %w", m.version, m.name, err)
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO schema_migrations (version, name, applied_at) VALUES (?, ?, datetime('now'))`,
				m.version, m.name,
			); err != nil {
				return fmt.Errorf("recording migration %d: %w", m.version, err)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

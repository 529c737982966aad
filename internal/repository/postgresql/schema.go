package repository

import (
	"database/sql"
	"fmt"
)

// Item references in swap_proposals carry no foreign keys on purpose:
// moderation removal hard-deletes the item while resolved proposals keep
// their historic references.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id UUID PRIMARY KEY,
	name TEXT NOT NULL,
	email TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	avatar TEXT NOT NULL DEFAULT '',
	points INTEGER NOT NULL DEFAULT 0 CHECK (points >= 0),
	is_admin BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS items (
	id UUID PRIMARY KEY,
	owner_id UUID NOT NULL REFERENCES users(id),
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	category TEXT NOT NULL,
	type TEXT NOT NULL,
	size TEXT NOT NULL,
	condition TEXT NOT NULL,
	tags TEXT[] NOT NULL DEFAULT '{}',
	images TEXT[] NOT NULL DEFAULT '{}',
	point_value INTEGER NOT NULL DEFAULT 0 CHECK (point_value >= 0),
	moderation_state TEXT NOT NULL DEFAULT 'pending',
	is_available BOOLEAN NOT NULL DEFAULT FALSE,
	location TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS swap_proposals (
	id UUID PRIMARY KEY,
	requester_id UUID NOT NULL REFERENCES users(id),
	item_id UUID NOT NULL,
	offered_item_id UUID,
	kind TEXT NOT NULL,
	message TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT 'pending',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_items_catalog
	ON items (moderation_state, is_available, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_proposals_pending_target
	ON swap_proposals (item_id) WHERE status = 'pending';
CREATE INDEX IF NOT EXISTS idx_proposals_pending_offered
	ON swap_proposals (offered_item_id) WHERE status = 'pending';
`

// EnsureSchema creates the tables and indexes if they do not exist yet.
func EnsureSchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("ensuring schema: %w", err)
	}
	return nil
}

package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// No foreign keys between the tables: deleting a folder leaves its files
// and shares behind.
const schemaTemplate = `
CREATE TABLE IF NOT EXISTS %[1]s (
	id               UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	name             TEXT NOT NULL,
	owner_id         TEXT NOT NULL,
	parent_folder_id UUID,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS %[1]s_owner_idx ON %[1]s (owner_id);

CREATE TABLE IF NOT EXISTS %[2]s (
	id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	folder_id  UUID NOT NULL,
	owner_id   TEXT NOT NULL,
	name       TEXT NOT NULL,
	size       BIGINT NOT NULL DEFAULT 0,
	mime_type  TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS %[2]s_folder_idx ON %[2]s (folder_id);

CREATE TABLE IF NOT EXISTS %[3]s (
	id            UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	resource_type TEXT NOT NULL CHECK (resource_type IN ('folder', 'file')),
	resource_id   UUID,
	folder_id     UUID,
	shared_with   TEXT NOT NULL,
	owner_id      TEXT NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS %[3]s_recipient_idx ON %[3]s (shared_with, folder_id);
`

// EnsureSchema creates the folder, file and share tables if they are missing.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	ddl := fmt.Sprintf(schemaTemplate, tables.Folders, tables.Files, tables.Shares)
	if _, err := pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// DropSchema drops every table of the schema.
func DropSchema(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	for _, table := range tables.All() {
		if _, err := pool.Exec(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS %s CASCADE`, table)); err != nil {
			return fmt.Errorf("drop %s: %w", table, err)
		}
	}
	return nil
}

package db

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
)

//go:embed schema.sql
var schema string

// EnsureSchema creates the cache tables if they do not exist yet. Safe to run
// on every startup.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// EnsureSchema applies the cache schema through this client's pool.
func (c *Client) EnsureSchema(ctx context.Context) error {
	return EnsureSchema(ctx, c.db)
}

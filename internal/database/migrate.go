package database

import (
	"context"
	_ "embed"
	"fmt"
)

//go:embed schema.sql
var schemaSQL string

// ApplySchema executes the embedded schema against the connected database.
// Every statement in the schema is idempotent, so this is safe to run on
// an already-migrated database.
func (db *Database) ApplySchema(ctx context.Context) error {
	if _, err := db.Pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

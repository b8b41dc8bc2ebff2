package migrations

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateAPITokens, downCreateAPITokens)
}

// api_tokens needs nullable timestamps, which MySQL only accepts as DATETIME
// and PostgreSQL stores best as TIMESTAMPTZ.
func upCreateAPITokens(ctx context.Context, tx *sql.Tx) error {
	var ts string
	switch dialect {
	case "postgres":
		ts = "TIMESTAMPTZ"
	case "mysql":
		ts = "DATETIME(6)"
	default: // sqlite3
		ts = "TIMESTAMP"
	}
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS api_tokens (
    id           VARCHAR(36) PRIMARY KEY,
    name         VARCHAR(255) NOT NULL,
    token_hash   VARCHAR(64) NOT NULL UNIQUE,
    last_used_at %[1]s NULL,
    expires_at   %[1]s NULL,
    created_at   %[1]s NOT NULL,
    revoked_at   %[1]s NULL
)`, ts)
	if _, err := tx.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create api_tokens table: %w", err)
	}
	return nil
}

func downCreateAPITokens(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS api_tokens`)
	return err
}

// Package migrations holds the schema migrations whose DDL differs between
// database drivers. Plain SQL migrations live next to them as .sql files.
package migrations

// dialect is the goose dialect of the database being migrated.
var dialect string

// SetDialect must be called with "sqlite3", "postgres" or "mysql" before
// goose.Up runs.
func SetDialect(d string) {
	dialect = d
}

package db_test

import (
	"testing"

	"github.com/joestump/linkeditor/internal/db"
)

func TestMigrate_SQLite(t *testing.T) {
	conn, err := db.New("sqlite3", "file:"+t.Name()+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	if err := db.Migrate(conn, "sqlite3"); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	// Running twice is a no-op.
	if err := db.Migrate(conn, "sqlite3"); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}

	v, err := db.Version(conn, "sqlite3")
	if err != nil {
		t.Fatalf("Version: %v", err)
	}
	if v != 3 {
		t.Errorf("version = %d, want 3", v)
	}

	for _, table := range []string{"links", "keywords", "api_tokens", "link_titles"} {
		var n int
		if err := conn.Get(&n, `SELECT COUNT(*) FROM `+table); err != nil {
			t.Errorf("table %s: %v", table, err)
		}
	}
}

func TestNew_UnsupportedDriver(t *testing.T) {
	if _, err := db.New("oracle", "x"); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
	if err := db.Migrate(nil, "oracle"); err == nil {
		t.Fatal("expected error for unknown dialect")
	}
}

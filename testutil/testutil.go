// Package testutil opens throwaway migrated SQLite databases for tests.
package testutil

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/Dosada05/soccer-web/config"
	"github.com/Dosada05/soccer-web/db"
)

// OpenDB returns a migrated SQLite database in t.TempDir, closed on cleanup.
func OpenDB(t testing.TB) *sql.DB {
	t.Helper()

	conn, err := db.Connect(config.DriverSQLite, filepath.Join(t.TempDir(), "soccer.db"), 5*time.Second)
	if err != nil {
		t.Fatalf("connect sqlite: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	if err := db.Migrate(context.Background(), conn, config.DriverSQLite); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return conn
}

// Date returns midnight UTC of the given day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// CountRows counts rows of table matching an optional where clause with $n args.
func CountRows(t testing.TB, conn *sql.DB, table, where string, args ...interface{}) int {
	t.Helper()

	query := "SELECT COUNT(*) FROM " + table
	if where != "" {
		query += " WHERE " + where
	}
	var n int
	if err := conn.QueryRowContext(context.Background(), query, args...).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}

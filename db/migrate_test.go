package db

import (
	"context"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/Dosada05/soccer-web/config"
)

func tempDBPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "soccer.db")
}

func TestExtractUpMigration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "no markers", content: "CREATE TABLE a (id INT);", want: "CREATE TABLE a (id INT);"},
		{name: "up only", content: "-- +migrate Up\nCREATE TABLE a (id INT);", want: "\nCREATE TABLE a (id INT);"},
		{name: "up and down", content: "-- +migrate Up\nCREATE TABLE a (id INT);\n-- +migrate Down\nDROP TABLE a;", want: "\nCREATE TABLE a (id INT);\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractUpMigration(tt.content); got != tt.want {
				t.Fatalf("ExtractUpMigration() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMigrateSQLiteIsIdempotent(t *testing.T) {
	t.Parallel()

	conn, err := Connect(config.DriverSQLite, tempDBPath(t), 5*time.Second)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	ctx := context.Background()
	if err := Migrate(ctx, conn, config.DriverSQLite); err != nil {
		t.Fatalf("first migrate: %v", err)
	}
	if err := Migrate(ctx, conn, config.DriverSQLite); err != nil {
		t.Fatalf("second migrate: %v", err)
	}

	var applied int
	if err := conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations").Scan(&applied); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if applied != 1 {
		t.Fatalf("applied migrations = %d, want 1", applied)
	}

	for _, table := range []string{"tournaments", "tournament_groups", "matches", "group_details", "teams"} {
		var name string
		err := conn.QueryRowContext(ctx, "SELECT name FROM sqlite_master WHERE type = 'table' AND name = $1", table).Scan(&name)
		if err != nil {
			t.Fatalf("table %s missing: %v", table, err)
		}
	}
}

func TestApplyMigrationsSkipsNonSQLFiles(t *testing.T) {
	t.Parallel()

	conn, err := Connect(config.DriverSQLite, tempDBPath(t), 5*time.Second)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	fsys := fstest.MapFS{
		"m/001_a.sql":  {Data: []byte("-- +migrate Up\nCREATE TABLE a (id INTEGER);\n-- +migrate Down\nDROP TABLE a;")},
		"m/README.md":  {Data: []byte("not a migration")},
		"m/002_b.sql":  {Data: []byte("CREATE TABLE b (id INTEGER);")},
		"m/003_c.sql":  {Data: []byte("-- +migrate Up\n")},
		"m/sub/x.sql":  {Data: []byte("garbage")},
		"other/z.sql":  {Data: []byte("garbage")},
		"m/004_d.sqlx": {Data: []byte("garbage")},
	}
	if err := ApplyMigrations(context.Background(), conn, fsys, "m"); err != nil {
		t.Fatalf("apply: %v", err)
	}

	var applied int
	if err := conn.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&applied); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if applied != 2 {
		t.Fatalf("applied migrations = %d, want 2", applied)
	}
}

package migration

import (
	"database/sql"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/worklog/migrations"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func memFS(files map[string]string) fstest.MapFS {
	out := fstest.MapFS{}
	for name, content := range files {
		out[name] = &fstest.MapFile{Data: []byte(content)}
	}
	return out
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", name).Scan(&count); err != nil {
		t.Fatalf("query failed: %v", err)
	}
	return count == 1
}

func TestGetCurrentVersion(t *testing.T) {
	db := setupTestDB(t)
	runner := NewRunner(db, memFS(map[string]string{"001_test.sql": "CREATE TABLE test (id INTEGER);"}), DriverSQLite)

	version, err := runner.GetCurrentVersion()
	if err != nil {
		t.Fatalf("GetCurrentVersion failed: %v", err)
	}
	if version != 0 {
		t.Errorf("expected version 0, got %d", version)
	}

	if err := runner.SetVersion(5); err != nil {
		t.Fatalf("SetVersion failed: %v", err)
	}
	version, err = runner.GetCurrentVersion()
	if err != nil {
		t.Fatalf("GetCurrentVersion failed: %v", err)
	}
	if version != 5 {
		t.Errorf("expected version 5, got %d", version)
	}
}

func TestReadMigrationFiles(t *testing.T) {
	runner := NewRunner(setupTestDB(t), memFS(map[string]string{
		"003_another.sql": "CREATE TABLE test2 (id INTEGER);",
		"001_init.sql":    "CREATE TABLE test1 (id INTEGER);",
		"002_update.sql":  "ALTER TABLE test1 ADD COLUMN name TEXT;",
		"README.md":       "ignored",
	}), "")

	migrations, err := runner.ReadMigrationFiles()
	if err != nil {
		t.Fatalf("ReadMigrationFiles failed: %v", err)
	}
	if len(migrations) != 3 {
		t.Fatalf("expected 3 migrations, got %d", len(migrations))
	}
	want := []string{"init", "update", "another"}
	for i, m := range migrations {
		if m.Version != i+1 || m.Name != want[i] {
			t.Errorf("migration %d: got version %d name %q", i, m.Version, m.Name)
		}
	}
}

func TestReadMigrationFiles_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		files   map[string]string
		wantErr string
	}{
		{name: "no underscore", files: map[string]string{"001init.sql": "SELECT 1;"}, wantErr: "invalid migration filename"},
		{name: "zero version", files: map[string]string{"000_init.sql": "SELECT 1;"}, wantErr: "version must be at least 1"},
		{name: "non numeric", files: map[string]string{"abc_init.sql": "SELECT 1;"}, wantErr: "invalid version number"},
		{
			name:    "duplicate version",
			files:   map[string]string{"001_init.sql": "SELECT 1;", "001_other.sql": "SELECT 1;"},
			wantErr: "duplicate migration version",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := NewRunner(setupTestDB(t), memFS(tt.files), DriverSQLite)
			_, err := runner.ReadMigrationFiles()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("ReadMigrationFiles() error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestApplyMigrationsFromScratch(t *testing.T) {
	db := setupTestDB(t)
	runner := NewRunner(db, memFS(map[string]string{
		"001_init.sql":  "CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT);",
		"002_posts.sql": "CREATE TABLE posts (id INTEGER PRIMARY KEY, user_id INTEGER, content TEXT);",
	}), DriverSQLite)

	var messages []string
	count, err := runner.ApplyMigrations(func(s string) { messages = append(messages, s) })
	if err != nil {
		t.Fatalf("ApplyMigrations failed: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 migrations applied, got %d", count)
	}
	if len(messages) == 0 {
		t.Error("expected progress messages")
	}

	status, err := runner.GetStatus()
	if err != nil {
		t.Fatalf("GetStatus failed: %v", err)
	}
	if status.Current != 2 || status.Pending() != 0 {
		t.Errorf("status = %+v", status)
	}
	if !tableExists(t, db, "users") || !tableExists(t, db, "posts") {
		t.Error("tables were not created")
	}
}

func TestApplyMigrationsIncremental(t *testing.T) {
	db := setupTestDB(t)
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "001_init.sql"), []byte("CREATE TABLE users (id INTEGER PRIMARY KEY);"), 0644); err != nil {
		t.Fatalf("failed to write migration: %v", err)
	}
	runner := NewRunner(db, os.DirFS(dir), DriverSQLite)

	if count, err := runner.ApplyMigrations(nil); err != nil || count != 1 {
		t.Fatalf("ApplyMigrations (1st) = %d, %v", count, err)
	}

	if err := os.WriteFile(filepath.Join(dir, "002_posts.sql"), []byte("CREATE TABLE posts (id INTEGER PRIMARY KEY);"), 0644); err != nil {
		t.Fatalf("failed to write migration: %v", err)
	}
	if count, err := runner.ApplyMigrations(nil); err != nil || count != 1 {
		t.Fatalf("ApplyMigrations (2nd) = %d, %v", count, err)
	}
	if count, err := runner.ApplyMigrations(nil); err != nil || count != 0 {
		t.Fatalf("ApplyMigrations (no-op) = %d, %v", count, err)
	}
}

func TestMigrationRollbackOnError(t *testing.T) {
	db := setupTestDB(t)
	runner := NewRunner(db, memFS(map[string]string{
		"001_init.sql": `
			CREATE TABLE users (id INTEGER PRIMARY KEY);
			THIS IS INVALID SQL;
		`,
	}), DriverSQLite)

	if _, err := runner.ApplyMigrations(nil); err == nil {
		t.Fatal("ApplyMigrations should have failed with invalid SQL")
	}

	version, err := runner.GetCurrentVersion()
	if err != nil {
		t.Fatalf("GetCurrentVersion failed: %v", err)
	}
	if version != 0 {
		t.Errorf("expected version 0 after failed migration, got %d", version)
	}
	if tableExists(t, db, "users") {
		t.Error("table should not exist after failed migration")
	}
}

func TestValidateVersionNewerDatabase(t *testing.T) {
	runner := NewRunner(setupTestDB(t), memFS(map[string]string{
		"001_init.sql": "CREATE TABLE users (id INTEGER PRIMARY KEY);",
	}), DriverSQLite)

	if err := runner.SetVersion(10); err != nil {
		t.Fatalf("SetVersion failed: %v", err)
	}
	if err := runner.ValidateVersion(); err == nil {
		t.Fatal("ValidateVersion should have failed with newer database version")
	}
	if _, err := runner.ApplyMigrations(nil); err == nil {
		t.Fatal("ApplyMigrations should have failed with newer database version")
	}
}

func TestEmbeddedSQLiteMigrations(t *testing.T) {
	db := setupTestDB(t)
	sub, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		t.Fatalf("fs.Sub failed: %v", err)
	}

	runner := NewRunner(db, sub, DriverSQLite)
	if _, err := runner.ApplyMigrations(nil); err != nil {
		t.Fatalf("ApplyMigrations failed: %v", err)
	}
	for _, table := range []string{"settings", "projects", "work_logs", "known_tags"} {
		if !tableExists(t, db, table) {
			t.Errorf("table %s missing after embedded migrations", table)
		}
	}
}

func TestDriverPlaceholder(t *testing.T) {
	if got := DriverSQLite.placeholder(1); got != "?" {
		t.Errorf("sqlite placeholder = %q", got)
	}
	if got := DriverPostgres.placeholder(2); got != "$2" {
		t.Errorf("postgres placeholder = %q", got)
	}
}

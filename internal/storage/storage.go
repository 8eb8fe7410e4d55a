package storage

import (
	"path/filepath"
	"strings"

	"github.com/julianstephens/worklog/internal/migration"
	"github.com/julianstephens/worklog/internal/storage/postgres"
	"github.com/julianstephens/worklog/internal/storage/sqlite"
)

// Migrator is implemented by the SQL backends.
type Migrator interface {
	Migrate(logFn func(string)) (int, error)
	SchemaStatus() (migration.Status, error)
}

// DetectKind picks the backend for a --config value: a postgres:// URL,
// a .json document file, or otherwise a SQLite database file.
func DetectKind(config string) Kind {
	switch {
	case postgres.IsConnString(config):
		return KindPostgres
	case strings.EqualFold(filepath.Ext(config), ".json"):
		return KindJSON
	default:
		return KindSQLite
	}
}

// KindOf reports the backend behind p.
func KindOf(p Provider) Kind {
	switch p.(type) {
	case *postgres.Store:
		return KindPostgres
	case *JSONStore:
		return KindJSON
	case *sqlite.Store:
		return KindSQLite
	default:
		return DetectKind(p.GetConfigPath())
	}
}

// New returns an unopened Provider for config. PostgreSQL connection
// strings must not embed a password.
func New(config string) (Provider, error) {
	switch DetectKind(config) {
	case KindPostgres:
		if _, err := postgres.ValidateConnString(config); err != nil {
			return nil, err
		}
		return postgres.New(config), nil
	case KindJSON:
		return NewJSONStore(config), nil
	default:
		return sqlite.NewStore(config), nil
	}
}

// HasEmbeddedCredentials reports whether a PostgreSQL connection string
// carries a password.
func HasEmbeddedCredentials(connStr string) bool {
	_, err := postgres.ValidateConnString(connStr)
	return err == postgres.ErrEmbeddedCredentials
}

// ExpandPath resolves a leading ~ to home.
func ExpandPath(path, home string) string {
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}

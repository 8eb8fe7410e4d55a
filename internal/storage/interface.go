package storage

import "github.com/julianstephens/worklog/internal/models"

// Provider persists the whole work log snapshot. Collections are saved
// wholesale, in order; entry and project order is significant (newest entry
// first).
//
// Load* methods never fail on malformed stored data: unreadable content is
// logged and treated as absent (empty logs, the default project seed).
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Entries
	LoadLogs() ([]models.WorkLog, error)
	SaveLogs([]models.WorkLog) error

	// Projects
	LoadProjects() ([]models.Project, error)
	SaveProjects([]models.Project) error

	// Tags ever used
	LoadKnownTags() ([]string, error)
	SaveKnownTags([]string) error

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Utils
	GetConfigPath() string
}

// Kind names the backend behind a Provider.
type Kind string

const (
	KindSQLite   Kind = "sqlite"
	KindJSON     Kind = "json"
	KindPostgres Kind = "postgres"
)

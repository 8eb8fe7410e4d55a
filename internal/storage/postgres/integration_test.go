package postgres

import (
	"os"
	"reflect"
	"testing"

	"github.com/julianstephens/worklog/internal/constants"
	"github.com/julianstephens/worklog/internal/models"
)

// Set WORKLOG_TEST_POSTGRES to run, e.g.
// WORKLOG_TEST_POSTGRES="postgres://worklog@localhost:5432/worklog_test?sslmode=disable"
func TestStore_Integration(t *testing.T) {
	connStr := os.Getenv("WORKLOG_TEST_POSTGRES")
	if connStr == "" {
		t.Skip("WORKLOG_TEST_POSTGRES not set, skipping PostgreSQL integration test")
	}

	store := New(connStr)
	if err := store.Init(); err != nil {
		t.Fatalf("Failed to initialize store: %v", err)
	}
	defer func() {
		for _, table := range []string{"work_logs", "projects", "known_tags", "settings", "schema_version"} {
			store.db.Exec("DROP TABLE IF EXISTS " + table)
		}
		store.Close()
	}()

	t.Run("Settings", func(t *testing.T) {
		settings, err := store.GetSettings()
		if err != nil {
			t.Fatalf("Failed to get settings: %v", err)
		}
		if settings.DoneTag != constants.DefaultDoneTag {
			t.Errorf("DoneTag = %q, want default", settings.DoneTag)
		}

		settings.Username = "sam"
		if err := store.SaveSettings(settings); err != nil {
			t.Fatalf("Failed to save settings: %v", err)
		}
		updated, _ := store.GetSettings()
		if updated.Username != "sam" {
			t.Errorf("Username = %q, want sam", updated.Username)
		}
	})

	t.Run("Logs", func(t *testing.T) {
		logs := []models.WorkLog{
			{ID: "b", Date: "2024-06-11", StartTime: "09:00", EndTime: "10:00", Duration: 1, Title: "second", Tags: []string{"done"}},
			{ID: "a", Date: "2024-06-10", StartTime: "09:00", EndTime: "09:30", Duration: 0.5, Title: "first", Tags: []string{}},
		}
		if err := store.SaveLogs(logs); err != nil {
			t.Fatalf("SaveLogs failed: %v", err)
		}
		got, err := store.LoadLogs()
		if err != nil {
			t.Fatalf("LoadLogs failed: %v", err)
		}
		if !reflect.DeepEqual(got, logs) {
			t.Errorf("LoadLogs() = %+v, want %+v", got, logs)
		}
	})

	t.Run("Projects", func(t *testing.T) {
		projects, err := store.LoadProjects()
		if err != nil {
			t.Fatalf("LoadProjects failed: %v", err)
		}
		if len(projects) != len(models.DefaultProjects()) {
			t.Errorf("expected default project seed, got %d projects", len(projects))
		}
	})
}

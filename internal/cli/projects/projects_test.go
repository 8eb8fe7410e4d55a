package projects

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/worklog/internal/cli"
	"github.com/julianstephens/worklog/internal/constants"
	apperrors "github.com/julianstephens/worklog/internal/errors"
	"github.com/julianstephens/worklog/internal/storage"
)

func setupTestStore(t *testing.T) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	store, err := storage.New(filepath.Join(t.TempDir(), "worklog.json"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	out := &bytes.Buffer{}
	return &cli.Context{
		Store: store,
		Clock: func() time.Time { return time.Date(2024, 6, 15, 12, 0, 0, 0, time.Local) },
		Out:   out,
	}, out
}

func TestProjectLifecycle(t *testing.T) {
	ctx, out := setupTestStore(t)

	add := &ProjectAddCmd{Name: "Migration", ProjectFlags: ProjectFlags{Status: "planning", Start: "2024-06-01", End: "2024-06-30"}}
	if err := add.Validate(); err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if err := add.Run(ctx); err != nil {
		t.Fatalf("project add failed: %v", err)
	}

	projects, _ := ctx.Store.LoadProjects()
	if len(projects) != 5 {
		t.Fatalf("expected 5 projects, got %d", len(projects))
	}
	added := projects[4]
	if added.Status != constants.ProjectPlanning || added.Color != constants.DefaultProjectColor {
		t.Errorf("unexpected project: %+v", added)
	}

	edit := &ProjectEditCmd{ID: added.ID, Name: "Data Migration", ProjectFlags: ProjectFlags{Status: "active"}}
	if err := edit.Run(ctx); err != nil {
		t.Fatalf("project edit failed: %v", err)
	}

	out.Reset()
	if err := (&ProjectListCmd{}).Run(ctx); err != nil {
		t.Fatalf("project list failed: %v", err)
	}
	if !strings.Contains(out.String(), "Data Migration") || !strings.Contains(out.String(), "Active") {
		t.Errorf("unexpected list output:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "50%") {
		t.Errorf("expected halfway progress:\n%s", out.String())
	}

	if err := (&ProjectDeleteCmd{ID: added.ID}).Run(ctx); err != nil {
		t.Fatalf("project delete failed: %v", err)
	}
	if err := (&ProjectEditCmd{ID: added.ID}).Run(ctx); !apperrors.IsSoft(err) {
		t.Errorf("editing a deleted project: error = %v, want not found", err)
	}
}

func TestProjectFlagsValidate(t *testing.T) {
	tests := []ProjectFlags{
		{Status: "paused"},
		{Start: "2024-6-1"},
		{End: "tomorrow"},
	}
	for _, f := range tests {
		if err := (&ProjectAddCmd{Name: "x", ProjectFlags: f}).Validate(); err == nil {
			t.Errorf("expected error for %+v", f)
		}
	}
}

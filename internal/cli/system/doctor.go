package system

import (
	"fmt"
	"io"
	"time"

	"github.com/julianstephens/worklog/internal/backup"
	"github.com/julianstephens/worklog/internal/cli"
	"github.com/julianstephens/worklog/internal/storage"
	"github.com/julianstephens/worklog/internal/storage/sqlite"
	"github.com/julianstephens/worklog/internal/utils"
	"github.com/julianstephens/worklog/internal/validation"
)

type DoctorCmd struct{}

type check struct {
	name     string
	needsDB  bool
	warnOnly bool
	run      func(ctx *cli.Context) error
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	out := ctx.W()
	fmt.Fprintln(out, "Running diagnostics...")
	fmt.Fprintln(out)

	checks := []check{
		{name: "Schema version", needsDB: true, run: checkSchemaVersion},
		{name: "Migrations complete", needsDB: true, run: checkMigrationsComplete},
		{name: "Backups present", warnOnly: true, run: checkBackupsPresent},
		{name: "Data validation", needsDB: true, run: func(ctx *cli.Context) error { return checkValidation(ctx, out) }},
		{name: "Date formats", needsDB: true, run: checkStoredDates},
		{name: "Clock", run: checkClock},
		{name: "Timezone", needsDB: true, run: checkTimezone},
	}

	hasError := false
	dbReachable := true
	if err := checkDBReachable(ctx); err != nil {
		report(out, "Database reachable", err, false)
		hasError = true
		dbReachable = false
	} else {
		report(out, "Database reachable", nil, false)
	}

	for _, c := range checks {
		if c.needsDB && !dbReachable {
			fmt.Fprintf(out, "⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		report(out, c.name, err, c.warnOnly)
		if err != nil && !c.warnOnly {
			hasError = true
		}
	}

	fmt.Fprintln(out)
	if hasError {
		fmt.Fprintln(out, "Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	fmt.Fprintln(out, "All diagnostics passed!")
	return nil
}

func report(out io.Writer, name string, err error, warnOnly bool) {
	switch {
	case err == nil:
		fmt.Fprintf(out, "✓ %s: OK\n", name)
	case warnOnly:
		fmt.Fprintf(out, "⚠ %s: WARNING\n", name)
		fmt.Fprintf(out, "   %v\n", err)
	default:
		fmt.Fprintf(out, "❌ %s: FAIL\n", name)
		fmt.Fprintf(out, "   Error: %v\n", err)
	}
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}

	if s, ok := ctx.Store.(*sqlite.Store); ok {
		db := s.GetDB()
		if db == nil {
			return fmt.Errorf("database connection is nil")
		}
		var result int
		if err := db.QueryRow("SELECT 1").Scan(&result); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
	}

	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	migrator, ok := ctx.Store.(storage.Migrator)
	if !ok {
		// JSON documents carry no schema version
		return nil
	}

	status, err := migrator.SchemaStatus()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if status.Current > status.Latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", status.Current, status.Latest)
	}
	return nil
}

func checkMigrationsComplete(ctx *cli.Context) error {
	migrator, ok := ctx.Store.(storage.Migrator)
	if !ok {
		return nil
	}

	status, err := migrator.SchemaStatus()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if n := status.Pending(); n > 0 {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d (%d pending, run 'worklog migrate')", status.Current, status.Latest, n)
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	if storage.KindOf(ctx.Store) == storage.KindPostgres {
		return fmt.Errorf("file backups are not available for PostgreSQL, use pg_dump instead")
	}

	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'worklog backup create'")
	}
	return nil
}

// checkValidation fails on error-level conflicts and lists warnings.
func checkValidation(ctx *cli.Context, out io.Writer) error {
	if _, err := ctx.Store.GetSettings(); err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	logs, err := ctx.Store.LoadLogs()
	if err != nil {
		return fmt.Errorf("failed to get entries: %w", err)
	}
	projects, err := ctx.Store.LoadProjects()
	if err != nil {
		return fmt.Errorf("failed to get projects: %w", err)
	}

	v := validation.New()
	result := v.ValidateLogs(logs, projects)
	result.Conflicts = append(result.Conflicts, v.ValidateProjects(projects).Conflicts...)

	for _, c := range result.Conflicts {
		if c.Severity == validation.SeverityWarning {
			fmt.Fprintf(out, "   warning: %s\n", c.Description)
		}
	}
	if n := result.Errors(); n > 0 {
		return fmt.Errorf("found %d problem(s), run 'worklog validate' for details", n)
	}
	return nil
}

func checkStoredDates(ctx *cli.Context) error {
	s, ok := ctx.Store.(*sqlite.Store)
	if !ok {
		return nil
	}
	db := s.GetDB()
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}

	var invalid int
	err := db.QueryRow(`
		SELECT COUNT(*)
		FROM work_logs
		WHERE date NOT GLOB '[0-9][0-9][0-9][0-9]-[0-9][0-9]-[0-9][0-9]'
	`).Scan(&invalid)
	if err != nil {
		return fmt.Errorf("failed to check entry dates: %w", err)
	}
	if invalid > 0 {
		return fmt.Errorf("found %d entries with invalid date format", invalid)
	}
	return nil
}

func checkClock(ctx *cli.Context) error {
	now := ctx.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}

func checkTimezone(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if !utils.ValidateTimezone(settings.Timezone) {
		return fmt.Errorf("configured timezone %q is not recognized", settings.Timezone)
	}
	return nil
}

package system

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/worklog/internal/cli"
	"github.com/julianstephens/worklog/internal/storage"
	"github.com/julianstephens/worklog/internal/storage/postgres"
)

type InitCmd struct {
	Force  bool   `help:"Force reset by deleting existing database before initialization."`
	Source string `help:"Source database path, JSON document, or connection string to copy data from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	out := ctx.W()

	if c.Force {
		dbPath := ctx.Store.GetConfigPath()
		if storage.KindOf(ctx.Store) == storage.KindPostgres {
			return fmt.Errorf("--force is not supported for PostgreSQL storage")
		}
		if c.Source != "" {
			if absDbPath, err := filepath.Abs(dbPath); err == nil {
				dbPath = absDbPath
			}
			if absSource, err := filepath.Abs(c.Source); err == nil && absSource == dbPath {
				return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
			}
		}
		if _, err := os.Stat(dbPath); err == nil {
			// Close first so SQLite releases its file lock.
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing database: %w", err)
			}
			if err := os.Remove(dbPath); err != nil {
				return fmt.Errorf("failed to delete existing database: %w", err)
			}
			fmt.Fprintf(out, "Deleted existing database at: %s\n", dbPath)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing database: %w", err)
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Fprintf(out, "Initialized worklog storage at: %s\n", ctx.Store.GetConfigPath())

	if c.Source != "" {
		fmt.Fprintf(out, "Copying data from: %s\n", c.Source)
		if err := c.copyData(ctx, c.Source); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		fmt.Fprintln(out, "Migration completed successfully!")
	}

	return nil
}

func (c *InitCmd) copyData(ctx *cli.Context, sourcePath string) error {
	out := ctx.W()

	source, err := storage.New(sourcePath)
	if err != nil {
		if errors.Is(err, postgres.ErrEmbeddedCredentials) {
			return fmt.Errorf("PostgreSQL source connection string contains embedded credentials. Use environment variables or .pgpass instead")
		}
		return err
	}
	if err := source.Load(); err != nil {
		return fmt.Errorf("failed to load source database: %w", err)
	}
	defer source.Close()

	fmt.Fprintln(out, "  Copying settings...")
	settings, err := source.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings from source: %w", err)
	}
	if err := ctx.Store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings to destination: %w", err)
	}

	fmt.Fprintln(out, "  Copying projects...")
	projects, err := source.LoadProjects()
	if err != nil {
		return fmt.Errorf("failed to get projects from source: %w", err)
	}
	if err := ctx.Store.SaveProjects(projects); err != nil {
		return fmt.Errorf("failed to save projects to destination: %w", err)
	}
	fmt.Fprintf(out, "    Copied %d projects\n", len(projects))

	fmt.Fprintln(out, "  Copying entries...")
	logs, err := source.LoadLogs()
	if err != nil {
		return fmt.Errorf("failed to get entries from source: %w", err)
	}
	if err := ctx.Store.SaveLogs(logs); err != nil {
		return fmt.Errorf("failed to save entries to destination: %w", err)
	}
	fmt.Fprintf(out, "    Copied %d entries\n", len(logs))

	fmt.Fprintln(out, "  Copying tags...")
	tags, err := source.LoadKnownTags()
	if err != nil {
		return fmt.Errorf("failed to get tags from source: %w", err)
	}
	if err := ctx.Store.SaveKnownTags(tags); err != nil {
		return fmt.Errorf("failed to save tags to destination: %w", err)
	}
	fmt.Fprintf(out, "    Copied %d tags\n", len(tags))

	return nil
}

package system

import (
	"fmt"

	"github.com/julianstephens/worklog/internal/cli"
	"github.com/julianstephens/worklog/internal/storage"
)

type MigrateCmd struct{}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	migrator, ok := ctx.Store.(storage.Migrator)
	if !ok {
		return fmt.Errorf("migrate command only supports SQLite and PostgreSQL storage")
	}

	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}

	out := ctx.W()
	count, err := migrator.Migrate(func(msg string) {
		fmt.Fprintln(out, msg)
	})
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	if count == 0 {
		fmt.Fprintln(out, "No migrations to apply. Database is up to date.")
	} else {
		fmt.Fprintf(out, "\nSuccessfully applied %d migration(s).\n", count)
	}

	return nil
}

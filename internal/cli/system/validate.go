package system

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/julianstephens/worklog/internal/cli"
	"github.com/julianstephens/worklog/internal/validation"
)

type ValidateCmd struct {
	Fix bool `help:"Give entries with duplicate IDs fresh IDs."`
}

func (cmd *ValidateCmd) Run(ctx *cli.Context) error {
	j, err := ctx.Journal()
	if err != nil {
		return err
	}
	out := ctx.W()

	validator := validation.New()

	fmt.Fprintln(out, "Validating entries...")
	logs := j.Logs()
	projects := j.Projects()
	result := validator.ValidateLogs(logs, projects)

	fmt.Fprintln(out, "Validating projects...")
	result.Conflicts = append(result.Conflicts, validator.ValidateProjects(projects).Conflicts...)

	fmt.Fprintln(out)
	fmt.Fprintln(out, result.FormatReport())

	if !cmd.Fix || !result.HasConflicts() {
		return nil
	}

	fixed, actions := validation.AutoFixDuplicateIDs(result.Conflicts, logs, newEntryID)
	if len(actions) == 0 {
		fmt.Fprintln(out, "Nothing to fix automatically.")
		return nil
	}
	if err := j.ReplaceLogs(fixed); err != nil {
		return fmt.Errorf("failed to save fixed entries: %w", err)
	}
	fmt.Fprintln(out, "Applied fixes:")
	for _, a := range actions {
		fmt.Fprintf(out, "  - %s\n", a.Action)
	}
	return nil
}

func newEntryID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

package system

import (
	"encoding/json"
	"fmt"

	"github.com/julianstephens/worklog/internal/cli"
)

type DebugCmd struct {
	DBPath       *DebugDBPathCmd       `cmd:"" help:"Show database path."`
	DumpLog      *DebugDumpLogCmd      `cmd:"" help:"Dump one entry as JSON."`
	DumpLogs     *DebugDumpLogsCmd     `cmd:"" help:"Dump all entries as JSON."`
	DumpProjects *DebugDumpProjectsCmd `cmd:"" help:"Dump projects as JSON."`
	DumpSettings *DebugDumpSettingsCmd `cmd:"" help:"Dump settings and known tags as JSON."`
}

func dumpJSON(ctx *cli.Context, v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Fprintln(ctx.W(), string(jsonBytes))
	return nil
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *cli.Context) error {
	return dumpJSON(ctx, map[string]string{
		"path": ctx.Store.GetConfigPath(),
	})
}

type DebugDumpLogCmd struct {
	ID string `arg:"" help:"ID of the entry to dump."`
}

func (cmd *DebugDumpLogCmd) Run(ctx *cli.Context) error {
	j, err := ctx.Journal()
	if err != nil {
		return err
	}
	entry, err := j.Entry(cmd.ID)
	if err != nil {
		return err
	}
	return dumpJSON(ctx, entry)
}

type DebugDumpLogsCmd struct{}

func (cmd *DebugDumpLogsCmd) Run(ctx *cli.Context) error {
	j, err := ctx.Journal()
	if err != nil {
		return err
	}
	return dumpJSON(ctx, j.Logs())
}

type DebugDumpProjectsCmd struct{}

func (cmd *DebugDumpProjectsCmd) Run(ctx *cli.Context) error {
	j, err := ctx.Journal()
	if err != nil {
		return err
	}
	return dumpJSON(ctx, j.Projects())
}

type DebugDumpSettingsCmd struct{}

func (cmd *DebugDumpSettingsCmd) Run(ctx *cli.Context) error {
	j, err := ctx.Journal()
	if err != nil {
		return err
	}
	return dumpJSON(ctx, map[string]any{
		"settings":  j.Settings(),
		"knownTags": j.KnownTags(),
	})
}

package transfers

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/julianstephens/worklog/internal/cli"
	"github.com/julianstephens/worklog/internal/transfer"
)

type ExportCmd struct {
	Format string `short:"f" help:"Export format (json|csv)." default:"json"`
	Output string `short:"o" help:"Output file. Defaults to a dated file in the current directory; '-' writes to stdout."`
}

func (c *ExportCmd) Run(ctx *cli.Context) error {
	format, err := transfer.ParseFormat(c.Format)
	if err != nil {
		return err
	}
	j, err := ctx.Journal()
	if err != nil {
		return err
	}

	write := func(w io.Writer) error {
		if format == transfer.FormatCSV {
			return transfer.WriteCSV(w, j.Logs())
		}
		return transfer.WriteJSON(w, j.Export())
	}

	if c.Output == "-" {
		return write(ctx.W())
	}

	path := c.Output
	if path == "" {
		path = transfer.Filename(format, j.Now())
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}

	fmt.Fprintf(ctx.W(), "✓ Exported %d entries to %s\n", len(j.Logs()), path)
	return nil
}

type ImportCmd struct {
	File  string `arg:"" help:"JSON export to import." type:"existingfile"`
	Merge bool   `help:"Put imported entries and projects ahead of existing ones instead of replacing everything."`
	Yes   bool   `short:"y" help:"Do not ask for confirmation before replacing data."`

	// Confirm reads the answer to the replace prompt. Defaults to stdin.
	Confirm io.Reader `kong:"-"`
}

func (c *ImportCmd) Run(ctx *cli.Context) error {
	if _, err := transfer.DetectFormat(c.File); err != nil {
		return err
	}

	f, err := os.Open(c.File)
	if err != nil {
		return fmt.Errorf("failed to open import file: %w", err)
	}
	defer f.Close()

	doc, err := transfer.ReadJSON(f)
	if err != nil {
		return err
	}

	mode := transfer.ModeReplace
	if c.Merge {
		mode = transfer.ModeMerge
	}

	if mode == transfer.ModeReplace && !c.Yes {
		fmt.Fprintf(ctx.W(), "⚠️  This replaces all current entries, projects and settings with %s.\n", filepath.Base(c.File))
		fmt.Fprint(ctx.W(), "Continue? [y/N]: ")
		in := c.Confirm
		if in == nil {
			in = os.Stdin
		}
		response, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && err != io.EOF {
			return err
		}
		response = strings.TrimSpace(strings.ToLower(response))
		if response != "y" && response != "yes" {
			fmt.Fprintln(ctx.W(), "Import cancelled.")
			return nil
		}
	}

	j, err := ctx.Journal()
	if err != nil {
		return err
	}
	ctx.PerformAutomaticBackup()

	if err := j.Import(doc, mode); err != nil {
		return err
	}

	verb := "Replaced data with"
	if c.Merge {
		verb = "Merged"
	}
	fmt.Fprintf(ctx.W(), "✓ %s %d entries and %d projects from %s\n", verb, len(doc.Logs), len(doc.Projects), filepath.Base(c.File))
	return nil
}

package projects

import (
	"fmt"
	"text/tabwriter"

	"github.com/julianstephens/worklog/internal/cli"
	apperrors "github.com/julianstephens/worklog/internal/errors"
	"github.com/julianstephens/worklog/internal/models"
	"github.com/julianstephens/worklog/internal/stats"
)

type ProjectFlags struct {
	Description string `help:"Project description."`
	Color       string `help:"Display color (#RRGGBB)."`
	Status      string `help:"Status (planning|active|completed|on-hold)."`
	Start       string `help:"Start date (YYYY-MM-DD)."`
	End         string `help:"End date (YYYY-MM-DD)."`
}

func (f ProjectFlags) validate() error {
	if f.Status != "" {
		if _, err := models.ParseProjectStatus(f.Status); err != nil {
			return err
		}
	}
	if err := cli.ValidateDate("start date", f.Start); err != nil {
		return err
	}
	return cli.ValidateDate("end date", f.End)
}

// apply copies the set flags onto p.
func (f ProjectFlags) apply(p *models.Project) {
	if f.Description != "" {
		p.Description = f.Description
	}
	if f.Color != "" {
		p.Color = f.Color
	}
	if f.Status != "" {
		p.Status, _ = models.ParseProjectStatus(f.Status)
	}
	if f.Start != "" {
		p.StartDate = f.Start
	}
	if f.End != "" {
		p.EndDate = f.End
	}
}

type ProjectAddCmd struct {
	Name         string `arg:"" help:"Project name."`
	ProjectFlags `embed:""`
}

func (c *ProjectAddCmd) Validate() error {
	return c.validate()
}

func (c *ProjectAddCmd) Run(ctx *cli.Context) error {
	j, err := ctx.Journal()
	if err != nil {
		return err
	}

	p := models.Project{Name: c.Name}
	c.apply(&p)
	p, err = j.AddProject(p)
	if err != nil {
		return err
	}
	ctx.PerformAutomaticBackup()

	fmt.Fprintf(ctx.W(), "✓ Added project %s (%s)\n", p.Name, p.ID)
	return nil
}

type ProjectEditCmd struct {
	ID           string `arg:"" help:"ID of the project to edit."`
	Name         string `help:"New name. Existing log entries keep the old name."`
	ProjectFlags `embed:""`
}

func (c *ProjectEditCmd) Validate() error {
	return c.validate()
}

func (c *ProjectEditCmd) Run(ctx *cli.Context) error {
	j, err := ctx.Journal()
	if err != nil {
		return err
	}

	p, ok := j.ProjectByID(c.ID)
	if !ok {
		return fmt.Errorf("%w: project %s", apperrors.ErrNotFound, c.ID)
	}
	if c.Name != "" {
		p.Name = c.Name
	}
	c.apply(&p)

	if p, err = j.UpdateProject(p); err != nil {
		return err
	}
	ctx.PerformAutomaticBackup()

	fmt.Fprintf(ctx.W(), "✓ Updated project %s\n", p.Name)
	return nil
}

type ProjectDeleteCmd struct {
	ID string `arg:"" help:"ID of the project to delete. Its log entries are kept."`
}

func (c *ProjectDeleteCmd) Run(ctx *cli.Context) error {
	j, err := ctx.Journal()
	if err != nil {
		return err
	}
	if err := j.DeleteProject(c.ID); err != nil {
		return err
	}
	ctx.PerformAutomaticBackup()

	fmt.Fprintf(ctx.W(), "✓ Deleted project %s\n", c.ID)
	return nil
}

type ProjectListCmd struct{}

func (c *ProjectListCmd) Run(ctx *cli.Context) error {
	j, err := ctx.Journal()
	if err != nil {
		return err
	}

	projects := j.Projects()
	if len(projects) == 0 {
		fmt.Fprintln(ctx.W(), "No projects.")
		return nil
	}

	logs := j.Logs()
	hours := stats.HoursByProjectID(logs)
	counts := stats.CountByProjectID(logs)
	now := j.Now()

	w := tabwriter.NewWriter(ctx.W(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSTATUS\tLOGS\tHOURS\tPROGRESS\tDATES")
	for _, p := range projects {
		dates := "-"
		if p.StartDate != "" || p.EndDate != "" {
			dates = p.StartDate + " → " + p.EndDate
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.2f\t%d%%\t%s\n",
			p.ID, cli.Truncate(p.Name, 24), p.StatusLabel(), counts[p.ID], hours[p.ID], p.Progress(now), dates)
	}
	return w.Flush()
}

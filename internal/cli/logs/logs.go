package logs

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/julianstephens/worklog/internal/cli"
	"github.com/julianstephens/worklog/internal/constants"
	"github.com/julianstephens/worklog/internal/journal"
	"github.com/julianstephens/worklog/internal/models"
	"github.com/julianstephens/worklog/internal/query"
)

// EntryFlags are shared by add and edit.
type EntryFlags struct {
	Date    string   `short:"d" help:"Date of the work (YYYY-MM-DD). Defaults to today."`
	Start   string   `short:"s" help:"Start time (HH:MM)."`
	End     string   `short:"e" help:"End time (HH:MM)."`
	Project string   `short:"p" help:"Project ID."`
	Content string   `short:"c" help:"Notes about the work."`
	Tag     []string `short:"t" help:"Tag to attach. Repeatable."`
}

func (f EntryFlags) validate() error {
	if err := cli.ValidateDate("date", f.Date); err != nil {
		return err
	}
	if err := cli.ValidateTime("start time", f.Start); err != nil {
		return err
	}
	return cli.ValidateTime("end time", f.End)
}

type LogAddCmd struct {
	Title string `arg:"" help:"What you worked on."`
	EntryFlags `embed:""`
}

func (c *LogAddCmd) Validate() error {
	if c.Start == "" || c.End == "" {
		return fmt.Errorf("--start and --end are required")
	}
	return c.validate()
}

func (c *LogAddCmd) Run(ctx *cli.Context) error {
	j, err := ctx.Journal()
	if err != nil {
		return err
	}

	entry, _, err := j.AddEntry(journal.Draft{
		Date:      c.Date,
		StartTime: c.Start,
		EndTime:   c.End,
		Title:     c.Title,
		ProjectID: c.Project,
		Content:   c.Content,
	}, models.NewTagSet(c.Tag...))
	if err != nil {
		return err
	}
	ctx.PerformAutomaticBackup()

	fmt.Fprintf(ctx.W(), "✓ Logged %sh: %s (%s)\n", entry.Duration, entry.Title, entry.ID)
	return nil
}

type LogEditCmd struct {
	ID           string `arg:"" help:"ID of the entry to edit."`
	Title        string `help:"New title."`
	EntryFlags   `embed:""`
	ClearTags    bool `help:"Remove all tags before adding --tag values."`
	ClearProject bool `help:"Detach the entry from its project."`
	ClearContent bool `help:"Remove the entry's notes."`
}

func (c *LogEditCmd) Validate() error {
	if c.ClearProject && c.Project != "" {
		return fmt.Errorf("--clear-project and --project cannot be combined")
	}
	if c.ClearContent && c.Content != "" {
		return fmt.Errorf("--clear-content and --content cannot be combined")
	}
	return c.validate()
}

func (c *LogEditCmd) Run(ctx *cli.Context) error {
	j, err := ctx.Journal()
	if err != nil {
		return err
	}
	current, err := j.Entry(c.ID)
	if err != nil {
		return err
	}

	d := journal.DraftFrom(current)
	if c.Title != "" {
		d.Title = c.Title
	}
	if c.Date != "" {
		d.Date = c.Date
	}
	if c.Start != "" {
		d.StartTime = c.Start
	}
	if c.End != "" {
		d.EndTime = c.End
	}
	if c.Project != "" {
		d.ProjectID = c.Project
	}
	if c.ClearProject {
		d.ProjectID = ""
	}
	if c.Content != "" {
		d.Content = c.Content
	}
	if c.ClearContent {
		d.Content = ""
	}

	tags := models.NewTagSet(current.Tags...)
	if c.ClearTags {
		tags = tags.Clear()
	}
	for _, t := range c.Tag {
		tags.Add(t)
	}

	entry, err := j.EditEntry(c.ID, d, tags)
	if err != nil {
		return err
	}
	ctx.PerformAutomaticBackup()

	fmt.Fprintf(ctx.W(), "✓ Updated %s: %s (%sh)\n", entry.ID, entry.Title, entry.Duration)
	return nil
}

type LogDeleteCmd struct {
	ID string `arg:"" help:"ID of the entry to delete."`
}

func (c *LogDeleteCmd) Run(ctx *cli.Context) error {
	j, err := ctx.Journal()
	if err != nil {
		return err
	}
	if err := j.DeleteEntry(c.ID); err != nil {
		return err
	}
	ctx.PerformAutomaticBackup()

	fmt.Fprintf(ctx.W(), "✓ Deleted %s\n", c.ID)
	return nil
}

type LogCopyCmd struct {
	ID string `arg:"" help:"ID of the entry to copy onto today."`
}

func (c *LogCopyCmd) Run(ctx *cli.Context) error {
	j, err := ctx.Journal()
	if err != nil {
		return err
	}
	entry, err := j.CopyEntry(c.ID)
	if err != nil {
		return err
	}
	ctx.PerformAutomaticBackup()

	fmt.Fprintf(ctx.W(), "✓ Copied to %s: %s (%s)\n", entry.Date, entry.Title, entry.ID)
	return nil
}

type LogListCmd struct {
	Period   string `help:"Date window (all|today|week|month|custom)." default:"all"`
	From     string `help:"Custom range start (YYYY-MM-DD)."`
	To       string `help:"Custom range end (YYYY-MM-DD)."`
	Project  string `short:"p" help:"Only entries for this project ID."`
	Search   string `short:"q" help:"Case-insensitive text to find in title or content."`
	Sort     string `help:"Order (date-desc|date-asc|duration-desc|duration-asc)." default:"date-desc"`
	Page     int    `help:"Page number." default:"1"`
	PageSize int    `help:"Entries per page." default:"10"`
	IDs      bool   `help:"Show full entry IDs."`
}

func (c *LogListCmd) Spec() (query.Spec, error) {
	period, err := query.ParsePeriod(c.Period)
	if err != nil {
		return query.Spec{}, err
	}
	order, err := query.ParseSort(c.Sort)
	if err != nil {
		return query.Spec{}, err
	}
	// --from/--to imply a custom range
	if (c.From != "" || c.To != "") && c.Period == "all" {
		period = constants.PeriodCustom
	}
	return query.Spec{
		Period:     period,
		StartDate:  c.From,
		EndDate:    c.To,
		ProjectID:  c.Project,
		SearchText: c.Search,
		Sort:       order,
		Page:       c.Page,
		PageSize:   c.PageSize,
	}, nil
}

func (c *LogListCmd) Run(ctx *cli.Context) error {
	spec, err := c.Spec()
	if err != nil {
		return err
	}
	j, err := ctx.Journal()
	if err != nil {
		return err
	}
	res, err := j.Query(spec)
	if err != nil {
		return err
	}

	out := ctx.W()
	if res.TotalMatched == 0 {
		fmt.Fprintln(out, "No log entries found.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tTIME\tHOURS\tPROJECT\tTITLE\tTAGS")
	for _, l := range res.Logs {
		id := l.ID
		if !c.IDs {
			id = shortID(id)
		}
		fmt.Fprintf(w, "%s\t%s\t%s-%s\t%s\t%s\t%s\t%s\n",
			id, l.Date, l.StartTime, l.EndTime, l.Duration,
			cli.Truncate(l.ProjectName, 16), cli.Truncate(l.Title, 40), strings.Join(l.Tags, ","))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(out, "\nPage %d of %d (%d entries)\n", res.Page, res.PageCount, res.TotalMatched)
	return nil
}

// shortID keeps the random tail of a UUID, which is what distinguishes
// entries created in the same millisecond.
func shortID(id string) string {
	if len(id) > 12 {
		return id[len(id)-12:]
	}
	return id
}

type LogShowCmd struct {
	ID string `arg:"" help:"ID of the entry to show."`
}

func (c *LogShowCmd) Run(ctx *cli.Context) error {
	j, err := ctx.Journal()
	if err != nil {
		return err
	}
	l, err := j.Entry(c.ID)
	if err != nil {
		return err
	}

	out := ctx.W()
	fmt.Fprintf(out, "%s\n\n", l.Title)
	fmt.Fprintf(out, "  ID:       %s\n", l.ID)
	fmt.Fprintf(out, "  Date:     %s %s-%s (%sh)\n", l.Date, l.StartTime, l.EndTime, l.Duration)
	project := l.ProjectName
	if project == "" {
		project = "-"
	}
	fmt.Fprintf(out, "  Project:  %s\n", project)
	if len(l.Tags) > 0 {
		fmt.Fprintf(out, "  Tags:     %s\n", strings.Join(l.Tags, ", "))
	}
	fmt.Fprintf(out, "  Created:  %s\n", l.CreatedAt)
	fmt.Fprintf(out, "  Updated:  %s\n", l.UpdatedAt)
	if strings.TrimSpace(l.Content) != "" {
		fmt.Fprintf(out, "\n%s\n", l.Content)
	}
	return nil
}

type TagsCmd struct{}

func (c *TagsCmd) Run(ctx *cli.Context) error {
	j, err := ctx.Journal()
	if err != nil {
		return err
	}
	tags := j.KnownTags()
	if len(tags) == 0 {
		fmt.Fprintln(ctx.W(), "No tags used yet.")
		return nil
	}
	for _, t := range tags {
		fmt.Fprintln(ctx.W(), t)
	}
	return nil
}

package reports

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/julianstephens/worklog/internal/cli"
	"github.com/julianstephens/worklog/internal/constants"
	"github.com/julianstephens/worklog/internal/stats"
)

const barWidth = 30

type DashboardCmd struct {
	JSON bool `help:"Print the metrics as JSON."`
}

func (c *DashboardCmd) Run(ctx *cli.Context) error {
	j, err := ctx.Journal()
	if err != nil {
		return err
	}
	m := j.Metrics()
	daily, weekly := stats.GoalProgress(m, j.Settings())

	out := ctx.W()
	if c.JSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			stats.Metrics
			DailyGoal  stats.Goal `json:"dailyGoal"`
			WeeklyGoal stats.Goal `json:"weeklyGoal"`
		}{m, daily, weekly})
	}

	if name := j.Settings().Username; name != "" {
		fmt.Fprintf(out, "Hello, %s. ", name)
	}
	fmt.Fprintf(out, "Dashboard for %s\n\n", m.AsOf)
	fmt.Fprintf(out, "  Today:            %.2fh (%d%% of %.2fh goal)\n", daily.Logged, daily.Percent, daily.Target)
	fmt.Fprintf(out, "  This week:        %.2fh (%d%% of %.2fh goal)\n", weekly.Logged, weekly.Percent, weekly.Target)
	fmt.Fprintf(out, "  Entries (month):  %d\n", m.MonthLogCount)
	fmt.Fprintf(out, "  Active projects:  %d\n", m.ActiveProjectCount)
	fmt.Fprintf(out, "  Completion rate:  %d%%\n", m.CompletionRate)

	fmt.Fprintln(out, "\nThis week")
	WeeklyBars(out, m.WeeklySeries)

	recent := stats.Recent(j.Logs(), constants.RecentLogCount)
	fmt.Fprintln(out, "\nRecent activity")
	if len(recent) == 0 {
		fmt.Fprintln(out, "  No log entries yet.")
		return nil
	}
	for _, l := range recent {
		fmt.Fprintf(out, "  %s  %5sh  %s\n", l.Date, l.Duration, cli.Truncate(l.Title, 50))
	}
	return nil
}

// WeeklyBars draws one bar per weekday, Sunday first, scaled to the
// largest day.
func WeeklyBars(w io.Writer, series [7]float64) {
	var peak float64
	for _, h := range series {
		peak = math.Max(peak, h)
	}
	for d, h := range series {
		n := 0
		if peak > 0 {
			n = int(math.Round(h / peak * barWidth))
		}
		fmt.Fprintf(w, "  %s %-*s %.2fh\n", time.Weekday(d).String()[:3], barWidth, strings.Repeat("█", n), h)
	}
}

type StatsCmd struct{}

func (c *StatsCmd) Run(ctx *cli.Context) error {
	j, err := ctx.Journal()
	if err != nil {
		return err
	}
	m := j.Metrics()

	out := ctx.W()
	fmt.Fprintf(out, "This month: %d entries, %.2fh total, %.2fh average per entry\n\n",
		m.MonthLogCount, stats.Round(m.MonthHours, 2), stats.Round(m.MonthAvgHours, 2))

	if len(m.ProjectStats) == 0 {
		fmt.Fprintln(out, "No project time recorded.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PROJECT\tHOURS\tSHARE\tENTRIES\tAVG")
	for _, s := range m.ProjectStats {
		fmt.Fprintf(w, "%s\t%.2f\t%.1f%%\t%d\t%.2f\n",
			cli.Truncate(s.Name, 24), stats.Round(s.TotalHours, 2), stats.Round(s.Percentage, 1), s.Count, stats.Round(s.AvgHours, 2))
	}
	return w.Flush()
}

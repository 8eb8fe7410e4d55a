package statistics

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/worklog/internal/stats"
)

var summaryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

type Model struct {
	table   table.Model
	metrics stats.Metrics
}

func columns() []table.Column {
	return []table.Column{
		{Title: "Project", Width: 24},
		{Title: "Hours", Width: 8},
		{Title: "Share", Width: 7},
		{Title: "Entries", Width: 8},
		{Title: "Avg", Width: 7},
	}
}

func New(width, height int) Model {
	t := table.New(
		table.WithColumns(columns()),
		table.WithFocused(true),
		table.WithWidth(width),
		table.WithHeight(height),
	)
	return Model{table: t}
}

func (m *Model) SetMetrics(metrics stats.Metrics) {
	m.metrics = metrics
	rows := make([]table.Row, 0, len(metrics.ProjectStats))
	for _, s := range metrics.ProjectStats {
		rows = append(rows, table.Row{
			s.Name,
			fmt.Sprintf("%.2f", stats.Round(s.TotalHours, 2)),
			fmt.Sprintf("%.1f%%", stats.Round(s.Percentage, 1)),
			fmt.Sprintf("%d", s.Count),
			fmt.Sprintf("%.2f", stats.Round(s.AvgHours, 2)),
		})
	}
	m.table.SetRows(rows)
}

// Rows exposes the rendered table rows.
func (m Model) Rows() []table.Row {
	return m.table.Rows()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	summary := summaryStyle.Render(fmt.Sprintf("This month: %d entries, %.2fh total, %.2fh average",
		m.metrics.MonthLogCount, stats.Round(m.metrics.MonthHours, 2), stats.Round(m.metrics.MonthAvgHours, 2)))
	if len(m.metrics.ProjectStats) == 0 {
		return summary + "\n\n  No project time recorded."
	}
	return summary + "\n\n" + m.table.View()
}

func (m *Model) SetSize(width, height int) {
	m.table.SetWidth(width)
	m.table.SetHeight(height)
}

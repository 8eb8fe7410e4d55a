package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/worklog/internal/cli/reports"
	"github.com/julianstephens/worklog/internal/models"
	"github.com/julianstephens/worklog/internal/stats"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	cardStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1).
			Width(24)
)

type Model struct {
	username string
	metrics  stats.Metrics
	daily    stats.Goal
	weekly   stats.Goal
	recent   []models.WorkLog
	width    int
}

func New() Model {
	return Model{}
}

func (m *Model) SetData(username string, metrics stats.Metrics, daily, weekly stats.Goal, recent []models.WorkLog) {
	m.username = username
	m.metrics = metrics
	m.daily = daily
	m.weekly = weekly
	m.recent = recent
}

func (m *Model) SetSize(width, _ int) {
	m.width = width
}

func card(label, value string) string {
	return cardStyle.Render(labelStyle.Render(label) + "\n" + value)
}

func (m Model) View() string {
	var b strings.Builder

	title := "Dashboard for " + m.metrics.AsOf
	if m.username != "" {
		title = fmt.Sprintf("Hello, %s. %s", m.username, title)
	}
	b.WriteString(headerStyle.Render(title))
	b.WriteString("\n\n")

	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		card("Today", fmt.Sprintf("%.2fh / %.2fh (%d%%)", m.daily.Logged, m.daily.Target, m.daily.Percent)),
		card("This week", fmt.Sprintf("%.2fh / %.2fh (%d%%)", m.weekly.Logged, m.weekly.Target, m.weekly.Percent)),
		card("This month", fmt.Sprintf("%d entries, %.2fh", m.metrics.MonthLogCount, m.metrics.MonthHours)),
		card("Completion", fmt.Sprintf("%d%% (%d active)", m.metrics.CompletionRate, m.metrics.ActiveProjectCount)),
	)
	b.WriteString(cards)
	b.WriteString("\n\n")

	b.WriteString(headerStyle.Render("This week"))
	b.WriteString("\n")
	reports.WeeklyBars(&b, m.metrics.WeeklySeries)

	b.WriteString("\n")
	b.WriteString(headerStyle.Render("Recent activity"))
	b.WriteString("\n")
	if len(m.recent) == 0 {
		b.WriteString("  No log entries yet.\n")
	}
	for _, l := range m.recent {
		fmt.Fprintf(&b, "  %s  %5sh  %s\n", l.Date, l.Duration, l.Title)
	}
	return b.String()
}

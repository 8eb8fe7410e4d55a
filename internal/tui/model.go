package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/worklog/internal/constants"
	"github.com/julianstephens/worklog/internal/journal"
	"github.com/julianstephens/worklog/internal/logger"
	"github.com/julianstephens/worklog/internal/query"
	"github.com/julianstephens/worklog/internal/stats"
	"github.com/julianstephens/worklog/internal/tui/components/dashboard"
	"github.com/julianstephens/worklog/internal/tui/components/loglist"
	"github.com/julianstephens/worklog/internal/tui/components/projectlist"
	"github.com/julianstephens/worklog/internal/tui/components/statistics"
	"github.com/julianstephens/worklog/internal/validation"
)

// tabs are the top-level views, in tab order.
var tabs = []struct {
	state constants.SessionState
	title string
}{
	{constants.StateDashboard, "Dashboard"},
	{constants.StateLogs, "Logs"},
	{constants.StateProjects, "Projects"},
	{constants.StateStatistics, "Statistics"},
}

// pendingDelete is what the confirmation screen will remove.
type pendingDelete struct {
	kind  string // "entry" or "project"
	id    string
	label string
}

type Model struct {
	journal           *journal.Journal
	state             constants.SessionState
	previousState     constants.SessionState
	keys              KeyMap
	help              help.Model
	dashboard         dashboard.Model
	logList           loglist.Model
	logQuery          query.Spec
	projectList       projectlist.Model
	statistics        statistics.Model
	form              *huh.Form
	logForm           *LogFormModel
	projectForm       *ProjectFormModel
	editingID         string
	pending           pendingDelete
	quitting          bool
	width             int
	height            int
	status            string // result of the last action
	formError         string // Error message to display for form operations
	validationWarning string
}

func NewModel(j *journal.Journal) Model {
	m := Model{
		journal:     j,
		state:       constants.StateDashboard,
		keys:        DefaultKeyMap(),
		help:        help.New(),
		dashboard:   dashboard.New(),
		logList:     loglist.New(0, 0),
		logQuery:    query.NewSpec(),
		projectList: projectlist.New(nil, 0, 0),
		statistics:  statistics.New(0, 0),
	}
	m.refresh()
	return m
}

// refresh reloads every view from the journal.
func (m *Model) refresh() {
	logs := m.journal.Logs()
	projects := m.journal.Projects()
	settings := m.journal.Settings()
	metrics := m.journal.Metrics()
	daily, weekly := stats.GoalProgress(metrics, settings)

	m.dashboard.SetData(settings.Username, metrics, daily, weekly, stats.Recent(logs, constants.RecentLogCount))
	m.reloadLogs()
	m.statistics.SetMetrics(metrics)

	hours := stats.HoursByProjectID(logs)
	counts := stats.CountByProjectID(logs)
	asOf := m.journal.Now()
	rows := make([]projectlist.Item, len(projects))
	for i, p := range projects {
		rows[i] = projectlist.Item{
			Project:  p,
			Hours:    stats.Round(hours[p.ID], 2),
			Count:    counts[p.ID],
			Progress: p.Progress(asOf),
		}
	}
	m.projectList.SetProjects(rows)

	m.updateValidationStatus()
}

// reloadLogs runs the log query and shows the resulting page. The
// engine's effective page is kept so later paging starts from it.
func (m *Model) reloadLogs() {
	res, err := m.journal.Query(m.logQuery)
	if err != nil {
		logger.Warn("Log query failed", "error", err)
		m.status = fmt.Sprintf("Query failed: %v", err)
		return
	}
	m.logQuery.Page = res.Page
	m.logList.SetResult(res, m.querySummary(res), m.queryFiltered())
}

func (m Model) queryFiltered() bool {
	q := m.logQuery
	return q.Period != constants.PeriodAll || q.ProjectID != "" || q.SearchText != ""
}

func (m Model) querySummary(res query.Result) string {
	parts := []string{
		"Period: " + string(m.logQuery.Period),
		"Sort: " + string(m.logQuery.Sort),
	}
	if m.logQuery.ProjectID != "" {
		name := m.logQuery.ProjectID
		if p, ok := m.journal.ProjectByID(name); ok {
			name = p.Name
		}
		parts = append(parts, "Project: "+name)
	}
	if m.logQuery.SearchText != "" {
		parts = append(parts, fmt.Sprintf("Search: %q", m.logQuery.SearchText))
	}
	parts = append(parts, fmt.Sprintf("Page %d/%d (%d entries)", res.Page, res.PageCount, res.TotalMatched))
	return strings.Join(parts, " · ")
}

// updateValidationStatus counts problems in the current snapshot.
func (m *Model) updateValidationStatus() {
	v := validation.New()
	logs := m.journal.Logs()
	projects := m.journal.Projects()
	result := v.ValidateLogs(logs, projects)
	result.Conflicts = append(result.Conflicts, v.ValidateProjects(projects).Conflicts...)

	if len(result.Conflicts) > 0 {
		m.validationWarning = fmt.Sprintf("⚠ %d validation warning(s), run 'worklog validate'", len(result.Conflicts))
	} else {
		m.validationWarning = ""
	}
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	switch m.state {
	case constants.StateDashboard:
		keys = append(keys, m.keys.Add)
	case constants.StateLogs:
		keys = append(keys, m.keys.Add, m.keys.Edit, m.keys.Delete, m.keys.Copy, m.keys.Search)
	case constants.StateProjects:
		keys = append(keys, m.keys.Add, m.keys.Delete)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help, m.keys.Refresh}
	navigation := []key.Binding{m.keys.Up, m.keys.Down, m.keys.Enter}

	var actions []key.Binding
	switch m.state {
	case constants.StateDashboard:
		actions = []key.Binding{m.keys.Add}
	case constants.StateLogs:
		actions = m.logList.HelpKeys()
	case constants.StateProjects:
		actions = []key.Binding{m.keys.Add, m.keys.Delete}
	}

	return [][]key.Binding{global, navigation, actions}
}

func (m Model) Init() tea.Cmd {
	return nil
}

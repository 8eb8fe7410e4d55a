package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/worklog/internal/constants"
	"github.com/julianstephens/worklog/internal/journal"
	"github.com/julianstephens/worklog/internal/logger"
	"github.com/julianstephens/worklog/internal/models"
	"github.com/julianstephens/worklog/internal/query"
	"github.com/julianstephens/worklog/internal/tui/components/loglist"
	"github.com/julianstephens/worklog/internal/tui/components/projectlist"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = msg.Width
		m.height = msg.Height
		h := msg.Height - 6
		w := msg.Width - 4
		m.dashboard.SetSize(w, h)
		m.logList.SetSize(w, h)
		m.projectList.SetSize(w, h)
		m.statistics.SetSize(w, h-2)
		return m, nil
	}

	switch m.state {
	case constants.StateAddLog, constants.StateEditLog, constants.StateAddProject:
		return m.updateForm(msg)
	case constants.StateConfirmDelete:
		return m.updateConfirmDelete(msg)
	}

	switch msg := msg.(type) {
	case loglist.AddLogMsg:
		return m.openLogForm(nil)
	case loglist.EditLogMsg:
		return m.openLogForm(&msg.Log)
	case loglist.DeleteLogMsg:
		m.pending = pendingDelete{kind: "entry", id: msg.Log.ID, label: msg.Log.Title}
		m.previousState = m.state
		m.state = constants.StateConfirmDelete
		return m, nil
	case loglist.CopyLogMsg:
		copied, err := m.journal.CopyEntry(msg.ID)
		if err != nil {
			m.status = fmt.Sprintf("Copy failed: %v", err)
			return m, nil
		}
		m.refresh()
		m.status = fmt.Sprintf("Copied %q to %s", copied.Title, copied.Date)
		return m, nil
	case loglist.CyclePeriodMsg:
		m.logQuery.Period = nextPeriod(m.logQuery.Period)
		m.logQuery.Page = 1
		m.reloadLogs()
		return m, nil
	case loglist.CycleSortMsg:
		m.logQuery.Sort = nextSort(m.logQuery.Sort)
		m.logQuery.Page = 1
		m.reloadLogs()
		return m, nil
	case loglist.CycleProjectMsg:
		m.logQuery.ProjectID = m.nextProjectFilter()
		m.logQuery.Page = 1
		m.reloadLogs()
		return m, nil
	case loglist.SearchMsg:
		m.logQuery.SearchText = msg.Text
		m.logQuery.Page = 1
		m.reloadLogs()
		return m, nil
	case loglist.ClearQueryMsg:
		m.logQuery = query.NewSpec()
		m.reloadLogs()
		return m, nil
	case loglist.PageMsg:
		m.logQuery.Page += msg.Delta
		m.reloadLogs()
		return m, nil
	case projectlist.AddProjectMsg:
		return m.openProjectForm()
	case projectlist.DeleteProjectMsg:
		m.pending = pendingDelete{kind: "project", id: msg.Project.ID, label: msg.Project.Name}
		m.previousState = m.state
		m.state = constants.StateConfirmDelete
		return m, nil
	case tea.KeyMsg:
		if msg.String() != "ctrl+c" && m.filtering() {
			break
		}
		switch {
		case msg.String() == "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab):
			m.state = nextTab(m.state, 1)
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab):
			m.state = nextTab(m.state, -1)
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Refresh):
			m.refresh()
			m.status = ""
			return m, nil
		case key.Matches(msg, m.keys.Add) && m.state == constants.StateDashboard:
			return m.openLogForm(nil)
		}
	}

	var cmd tea.Cmd
	switch m.state {
	case constants.StateLogs:
		m.logList, cmd = m.logList.Update(msg)
	case constants.StateProjects:
		m.projectList, cmd = m.projectList.Update(msg)
	case constants.StateStatistics:
		m.statistics, cmd = m.statistics.Update(msg)
	}
	return m, cmd
}

func (m Model) filtering() bool {
	switch m.state {
	case constants.StateLogs:
		return m.logList.Filtering()
	case constants.StateProjects:
		return m.projectList.Filtering()
	}
	return false
}

var (
	periodCycle = []constants.Period{constants.PeriodAll, constants.PeriodToday, constants.PeriodWeek, constants.PeriodMonth}
	sortCycle   = []constants.SortOrder{constants.SortDateDesc, constants.SortDateAsc, constants.SortDurationDesc, constants.SortDurationAsc}
)

func nextPeriod(p constants.Period) constants.Period {
	for i, c := range periodCycle {
		if c == p {
			return periodCycle[(i+1)%len(periodCycle)]
		}
	}
	return constants.PeriodAll
}

func nextSort(s constants.SortOrder) constants.SortOrder {
	for i, c := range sortCycle {
		if c == s {
			return sortCycle[(i+1)%len(sortCycle)]
		}
	}
	return constants.SortDateDesc
}

// nextProjectFilter steps from no filter through each project and back.
func (m Model) nextProjectFilter() string {
	projects := m.journal.Projects()
	if m.logQuery.ProjectID == "" {
		if len(projects) == 0 {
			return ""
		}
		return projects[0].ID
	}
	for i, p := range projects {
		if p.ID == m.logQuery.ProjectID && i+1 < len(projects) {
			return projects[i+1].ID
		}
	}
	return ""
}

// nextTab steps through the top-level views, wrapping around.
func nextTab(current constants.SessionState, step int) constants.SessionState {
	for i, t := range tabs {
		if t.state == current {
			return tabs[(i+step+len(tabs))%len(tabs)].state
		}
	}
	return constants.StateDashboard
}

func (m Model) openLogForm(existing *models.WorkLog) (tea.Model, tea.Cmd) {
	m.previousState = m.state
	m.formError = ""
	if existing == nil {
		m.editingID = ""
		m.logForm = &LogFormModel{Date: m.journal.Today()}
		m.state = constants.StateAddLog
	} else {
		m.editingID = existing.ID
		m.logForm = &LogFormModel{
			Date:      existing.Date,
			StartTime: existing.StartTime,
			EndTime:   existing.EndTime,
			Title:     existing.Title,
			ProjectID: existing.ProjectID,
			Content:   existing.Content,
			Tags:      strings.Join(existing.Tags, ", "),
		}
		m.state = constants.StateEditLog
	}
	m.form = NewLogForm(m.logForm, m.journal.Projects())
	return m, m.form.Init()
}

func (m Model) openProjectForm() (tea.Model, tea.Cmd) {
	m.previousState = m.state
	m.formError = ""
	m.projectForm = &ProjectFormModel{
		Color:  constants.DefaultProjectColor,
		Status: constants.ProjectActive,
	}
	m.form = NewProjectForm(m.projectForm)
	m.state = constants.StateAddProject
	return m, m.form.Init()
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = m.previousState
		m.formError = ""
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		var err error
		if m.state == constants.StateAddProject {
			err = m.submitProjectForm()
		} else {
			err = m.submitLogForm()
		}
		if err != nil {
			// Stay in the form so the user can correct the value.
			m.formError = err.Error()
			m.form.State = huh.StateNormal
			return m, cmd
		}
		m.formError = ""
		m.state = m.previousState
		m.refresh()
	case huh.StateAborted:
		m.state = m.previousState
	}
	return m, cmd
}

func (m *Model) submitLogForm() error {
	fm := m.logForm
	draft := journal.Draft{
		Date:      fm.Date,
		StartTime: fm.StartTime,
		EndTime:   fm.EndTime,
		Title:     fm.Title,
		ProjectID: fm.ProjectID,
		Content:   fm.Content,
	}
	tags := splitTags(fm.Tags)

	if m.editingID != "" {
		saved, err := m.journal.EditEntry(m.editingID, draft, tags)
		if err != nil {
			return err
		}
		m.status = fmt.Sprintf("Updated %q (%sh)", saved.Title, saved.Duration)
		return nil
	}

	saved, _, err := m.journal.AddEntry(draft, tags)
	if err != nil {
		return err
	}
	m.status = fmt.Sprintf("Logged %q (%sh)", saved.Title, saved.Duration)
	return nil
}

func (m *Model) submitProjectForm() error {
	fm := m.projectForm
	saved, err := m.journal.AddProject(models.Project{
		Name:        fm.Name,
		Description: fm.Description,
		Color:       fm.Color,
		Status:      fm.Status,
		StartDate:   fm.StartDate,
		EndDate:     fm.EndDate,
	})
	if err != nil {
		return err
	}
	m.status = fmt.Sprintf("Added project %q", saved.Name)
	return nil
}

func (m Model) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "y", "Y":
		var err error
		if m.pending.kind == "project" {
			err = m.journal.DeleteProject(m.pending.id)
		} else {
			err = m.journal.DeleteEntry(m.pending.id)
		}
		if err != nil {
			logger.Warn("Delete failed", "kind", m.pending.kind, "id", m.pending.id, "error", err)
			m.status = fmt.Sprintf("Delete failed: %v", err)
		} else {
			m.status = fmt.Sprintf("Deleted %s %q", m.pending.kind, m.pending.label)
			m.refresh()
		}
		m.pending = pendingDelete{}
		m.state = m.previousState
	case "n", "N", "esc", "q":
		m.pending = pendingDelete{}
		m.state = m.previousState
	}
	return m, nil
}

package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/worklog/internal/constants"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case constants.StateDashboard:
		content = docStyle.Render(m.dashboard.View())
	case constants.StateLogs:
		content = docStyle.Render(m.logList.View())
	case constants.StateProjects:
		content = docStyle.Render(m.projectList.View())
	case constants.StateStatistics:
		content = docStyle.Render(m.statistics.View())
	case constants.StateAddLog, constants.StateEditLog, constants.StateAddProject:
		content = m.viewForm()
	case constants.StateConfirmDelete:
		content = m.viewConfirmDelete()
	}

	var footer string
	switch {
	case m.status != "":
		footer = statusStyle.Render(m.status)
	case m.validationWarning != "":
		footer = warningStyle.Render(m.validationWarning)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		content,
		footer,
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	var rendered []string
	for _, t := range tabs {
		if m.state == t.state {
			rendered = append(rendered, activeTabStyle.Render(t.title))
		} else {
			rendered = append(rendered, inactiveTabStyle.Render(t.title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m Model) viewForm() string {
	view := m.form.View()
	if m.formError != "" {
		view = lipgloss.JoinVertical(lipgloss.Left, view, dangerStyle.Render(m.formError))
	}
	return docStyle.Render(view)
}

func (m Model) viewConfirmDelete() string {
	return lipgloss.Place(m.width, m.height-4,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render(fmt.Sprintf("Delete %s %q?", m.pending.kind, m.pending.label)),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}

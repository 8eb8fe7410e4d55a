package projectlist

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/worklog/internal/models"
)

type AddProjectMsg struct{}

type DeleteProjectMsg struct {
	Project models.Project
}

// Item is a project row with the totals of the entries filed under it.
type Item struct {
	Project  models.Project
	Hours    float64
	Count    int
	Progress int
}

func (i Item) Title() string {
	swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(i.Project.Color)).Render("●")
	return swatch + " " + i.Project.Name
}

func (i Item) Description() string {
	return fmt.Sprintf("%s | %.2fh in %d entries | %d%%", i.Project.StatusLabel(), i.Hours, i.Count, i.Progress)
}

func (i Item) FilterValue() string { return i.Project.Name }

type KeyMap struct {
	Add    key.Binding
	Delete key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(rows []Item, width, height int) Model {
	l := list.New(toItems(rows), list.NewDefaultDelegate(), width, height)
	l.Title = "Projects"
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	return Model{list: l, keys: DefaultKeyMap()}
}

func toItems(rows []Item) []list.Item {
	out := make([]list.Item, len(rows))
	for i, r := range rows {
		out[i] = r
	}
	return out
}

func (m *Model) SetProjects(rows []Item) {
	m.list.SetItems(toItems(rows))
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch {
		case key.Matches(msg, m.keys.Add):
			return m, func() tea.Msg { return AddProjectMsg{} }
		case key.Matches(msg, m.keys.Delete):
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return DeleteProjectMsg{Project: i.Project} }
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && m.list.FilterState() != list.Filtering {
		return "\n  No projects.\n  Press 'a' to add one."
	}
	return m.list.View()
}

// Filtering reports whether the user is typing a filter.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}

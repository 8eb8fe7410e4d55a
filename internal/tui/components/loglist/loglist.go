package loglist

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/worklog/internal/models"
	"github.com/julianstephens/worklog/internal/query"
)

type AddLogMsg struct{}

type EditLogMsg struct {
	Log models.WorkLog
}

type DeleteLogMsg struct {
	Log models.WorkLog
}

type CopyLogMsg struct {
	ID string
}

// Query messages ask the parent to change the spec and reload the page.
type (
	CyclePeriodMsg  struct{}
	CycleSortMsg    struct{}
	CycleProjectMsg struct{}
	ClearQueryMsg   struct{}
	PageMsg         struct{ Delta int }
	SearchMsg       struct{ Text string }
)

type Item struct {
	Log models.WorkLog
}

func (i Item) Title() string { return i.Log.Title }

func (i Item) Description() string {
	parts := []string{
		fmt.Sprintf("%s %s-%s", i.Log.Date, i.Log.StartTime, i.Log.EndTime),
		i.Log.Duration.String() + "h",
	}
	if i.Log.ProjectName != "" {
		parts = append(parts, i.Log.ProjectName)
	}
	if len(i.Log.Tags) > 0 {
		parts = append(parts, "#"+strings.Join(i.Log.Tags, " #"))
	}
	return strings.Join(parts, " | ")
}

func (i Item) FilterValue() string {
	return i.Log.Title + " " + i.Log.Content
}

type KeyMap struct {
	Add      key.Binding
	Edit     key.Binding
	Delete   key.Binding
	Copy     key.Binding
	Search   key.Binding
	Period   key.Binding
	Sort     key.Binding
	Project  key.Binding
	Clear    key.Binding
	NextPage key.Binding
	PrevPage key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Copy: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "copy to today"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Period: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "period"),
		),
		Sort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sort"),
		),
		Project: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "project filter"),
		),
		Clear: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "clear filters"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("]", "right"),
			key.WithHelp("]", "next page"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("[", "left"),
			key.WithHelp("[", "prev page"),
		),
	}
}

var summaryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).PaddingLeft(2)

// Model shows one query result page. Filtering, ordering and paging are
// done by the query engine; the list only renders and selects.
type Model struct {
	list    list.Model
	keys    KeyMap
	search  textinput.Model
	result  query.Result
	summary string
	filters bool
}

func items(logs []models.WorkLog) []list.Item {
	out := make([]list.Item, len(logs))
	for i, l := range logs {
		out[i] = Item{Log: l}
	}
	return out
}

func New(width, height int) Model {
	l := list.New(nil, list.NewDefaultDelegate(), width, height)
	l.Title = "Logs"
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)

	search := textinput.New()
	search.Prompt = "Search: "
	search.Placeholder = "title or notes"

	return Model{list: l, keys: DefaultKeyMap(), search: search}
}

// SetResult replaces the page. summary describes the active spec and
// filtered reports whether anything narrows the result.
func (m *Model) SetResult(res query.Result, summary string, filtered bool) {
	m.result = res
	m.summary = summary
	m.filters = filtered
	m.list.SetItems(items(res.Logs))
}

// Selected returns the highlighted entry.
func (m Model) Selected() (models.WorkLog, bool) {
	i, ok := m.list.SelectedItem().(Item)
	return i.Log, ok
}

// Visible returns the entries on the current page in display order.
func (m Model) Visible() []models.WorkLog {
	return append([]models.WorkLog(nil), m.result.Logs...)
}

func (m Model) HelpKeys() []key.Binding {
	return []key.Binding{
		m.keys.Add, m.keys.Edit, m.keys.Delete, m.keys.Copy,
		m.keys.Search, m.keys.Period, m.keys.Sort, m.keys.Project, m.keys.Clear,
		m.keys.PrevPage, m.keys.NextPage,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, isKey := msg.(tea.KeyMsg)

	if m.search.Focused() {
		if isKey {
			switch keyMsg.Type {
			case tea.KeyEnter:
				m.search.Blur()
				return m, emit(SearchMsg{Text: strings.TrimSpace(m.search.Value())})
			case tea.KeyEsc:
				m.search.Blur()
				m.search.SetValue("")
				return m, nil
			}
		}
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	}

	if isKey {
		switch {
		case key.Matches(keyMsg, m.keys.Add):
			return m, emit(AddLogMsg{})
		case key.Matches(keyMsg, m.keys.Edit):
			if l, ok := m.Selected(); ok {
				return m, emit(EditLogMsg{Log: l})
			}
			return m, nil
		case key.Matches(keyMsg, m.keys.Delete):
			if l, ok := m.Selected(); ok {
				return m, emit(DeleteLogMsg{Log: l})
			}
			return m, nil
		case key.Matches(keyMsg, m.keys.Copy):
			if l, ok := m.Selected(); ok {
				return m, emit(CopyLogMsg{ID: l.ID})
			}
			return m, nil
		case key.Matches(keyMsg, m.keys.Search):
			m.search.SetValue("")
			return m, m.search.Focus()
		case key.Matches(keyMsg, m.keys.Period):
			return m, emit(CyclePeriodMsg{})
		case key.Matches(keyMsg, m.keys.Sort):
			return m, emit(CycleSortMsg{})
		case key.Matches(keyMsg, m.keys.Project):
			return m, emit(CycleProjectMsg{})
		case key.Matches(keyMsg, m.keys.Clear):
			return m, emit(ClearQueryMsg{})
		case key.Matches(keyMsg, m.keys.NextPage):
			return m, emit(PageMsg{Delta: 1})
		case key.Matches(keyMsg, m.keys.PrevPage):
			return m, emit(PageMsg{Delta: -1})
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	header := summaryStyle.Render(m.summary)
	if m.search.Focused() {
		header = lipgloss.JoinVertical(lipgloss.Left, header, "  "+m.search.View())
	}

	var body string
	switch {
	case m.result.TotalMatched == 0 && m.filters:
		body = "\n  No entries match the current filters.\n  Press 'x' to clear them."
	case m.result.TotalMatched == 0:
		body = "\n  No log entries yet.\n  Press 'a' to add one."
	default:
		body = m.list.View()
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, body)
}

// Filtering reports whether the user is typing a search.
func (m Model) Filtering() bool {
	return m.search.Focused()
}

func (m *Model) SetSize(width, height int) {
	m.search.Width = max(width-len(m.search.Prompt)-2, 0)
	m.list.SetSize(width, max(height-2, 0))
}

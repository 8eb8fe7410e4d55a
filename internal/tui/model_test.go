package tui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/worklog/internal/constants"
	"github.com/julianstephens/worklog/internal/journal"
	"github.com/julianstephens/worklog/internal/models"
	"github.com/julianstephens/worklog/internal/storage"
	"github.com/julianstephens/worklog/internal/tui/components/loglist"
	"github.com/julianstephens/worklog/internal/tui/components/projectlist"
)

func newTestModel(t *testing.T, logs ...models.WorkLog) (Model, *journal.Journal) {
	t.Helper()
	store := storage.NewJSONStore(filepath.Join(t.TempDir(), "worklog.json"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	if len(logs) > 0 {
		if err := store.SaveLogs(logs); err != nil {
			t.Fatalf("failed to seed logs: %v", err)
		}
	}
	clock := func() time.Time { return time.Date(2024, 6, 12, 17, 0, 0, 0, time.Local) }
	j, err := journal.Open(store, clock)
	if err != nil {
		t.Fatalf("failed to open journal: %v", err)
	}
	return NewModel(j), j
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return nm
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func sample(id, title string) models.WorkLog {
	return models.WorkLog{
		ID: id, Date: "2024-06-12", StartTime: "09:00", EndTime: "10:30",
		Duration: 1.5, Title: title, Tags: []string{},
	}
}

func TestTabCycling(t *testing.T) {
	m, _ := newTestModel(t)
	if m.state != constants.StateDashboard {
		t.Fatalf("initial state = %v, want dashboard", m.state)
	}

	want := []constants.SessionState{
		constants.StateLogs,
		constants.StateProjects,
		constants.StateStatistics,
		constants.StateDashboard,
	}
	for _, w := range want {
		m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
		if m.state != w {
			t.Fatalf("state = %v, want %v", m.state, w)
		}
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.state != constants.StateStatistics {
		t.Errorf("shift+tab from dashboard = %v, want statistics", m.state)
	}
}

func TestDeleteEntryRequiresConfirmation(t *testing.T) {
	m, j := newTestModel(t, sample("a", "Standup"), sample("b", "Review"))
	m.state = constants.StateLogs

	m = update(t, m, loglist.DeleteLogMsg{Log: sample("a", "Standup")})
	if m.state != constants.StateConfirmDelete {
		t.Fatalf("state = %v, want confirm", m.state)
	}
	if !strings.Contains(m.View(), `Delete entry "Standup"?`) {
		t.Errorf("confirmation not shown:\n%s", m.View())
	}

	m = update(t, m, keyRunes("n"))
	if m.state != constants.StateLogs || len(j.Logs()) != 2 {
		t.Fatalf("cancel deleted the entry or left the dialog: state=%v logs=%d", m.state, len(j.Logs()))
	}

	m = update(t, m, loglist.DeleteLogMsg{Log: sample("a", "Standup")})
	m = update(t, m, keyRunes("y"))
	if m.state != constants.StateLogs {
		t.Errorf("state after delete = %v, want logs", m.state)
	}
	if logs := j.Logs(); len(logs) != 1 || logs[0].ID != "b" {
		t.Errorf("unexpected logs after delete: %+v", logs)
	}
	if !strings.Contains(m.status, "Deleted entry") {
		t.Errorf("status = %q", m.status)
	}
}

func TestCopyEntry(t *testing.T) {
	m, j := newTestModel(t, models.WorkLog{
		ID: "old", Date: "2024-06-01", StartTime: "09:00", EndTime: "10:00",
		Duration: 1, Title: "Standup", Tags: []string{},
	})
	m.state = constants.StateLogs

	m = update(t, m, loglist.CopyLogMsg{ID: "old"})
	logs := j.Logs()
	if len(logs) != 2 || logs[0].Date != "2024-06-12" || logs[0].ID == "old" {
		t.Fatalf("copy not prepended for today: %+v", logs)
	}
	if !strings.Contains(m.status, "Copied") {
		t.Errorf("status = %q", m.status)
	}
}

func TestSubmitLogForm(t *testing.T) {
	m, j := newTestModel(t)

	next, _ := m.openLogForm(nil)
	m = next.(Model)
	if m.state != constants.StateAddLog || m.logForm.Date != "2024-06-12" {
		t.Fatalf("form not opened with today's date: state=%v form=%+v", m.state, m.logForm)
	}

	m.logForm.Title = "Write docs"
	m.logForm.StartTime = "13:00"
	m.logForm.EndTime = "14:45"
	m.logForm.Tags = "docs, writing,"
	if err := m.submitLogForm(); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	logs := j.Logs()
	if len(logs) != 1 {
		t.Fatalf("expected one entry, got %d", len(logs))
	}
	if logs[0].Duration != 1.75 || len(logs[0].Tags) != 2 {
		t.Errorf("unexpected entry: %+v", logs[0])
	}

	// Edit keeps the id.
	next, _ = m.openLogForm(&logs[0])
	m = next.(Model)
	m.logForm.EndTime = "15:00"
	if err := m.submitLogForm(); err != nil {
		t.Fatalf("edit failed: %v", err)
	}
	if got := j.Logs()[0]; got.ID != logs[0].ID || got.Duration != 2 {
		t.Errorf("unexpected edited entry: %+v", got)
	}
}

func TestSubmitLogFormRejectsInvalidRange(t *testing.T) {
	m, j := newTestModel(t)
	next, _ := m.openLogForm(nil)
	m = next.(Model)

	m.logForm.Title = "Backwards"
	m.logForm.StartTime = "15:00"
	m.logForm.EndTime = "14:00"
	if err := m.submitLogForm(); err == nil {
		t.Fatal("expected end-before-start to be refused")
	}
	if len(j.Logs()) != 0 {
		t.Errorf("invalid entry was saved")
	}
}

func TestEscLeavesForm(t *testing.T) {
	m, _ := newTestModel(t)
	m.state = constants.StateProjects

	m = update(t, m, projectlist.AddProjectMsg{})
	if m.state != constants.StateAddProject {
		t.Fatalf("state = %v, want add project", m.state)
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.state != constants.StateProjects {
		t.Errorf("esc returned to %v, want projects", m.state)
	}
}

func TestSubmitProjectForm(t *testing.T) {
	m, j := newTestModel(t)
	before := len(j.Projects())

	next, _ := m.openProjectForm()
	m = next.(Model)
	m.projectForm.Name = "Garden"
	if err := m.submitProjectForm(); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	projects := j.Projects()
	if len(projects) != before+1 {
		t.Fatalf("project not added")
	}
	added := projects[len(projects)-1]
	if added.Name != "Garden" || added.Color != constants.DefaultProjectColor || added.Status != constants.ProjectActive {
		t.Errorf("unexpected project: %+v", added)
	}
}

func TestDashboardView(t *testing.T) {
	m, _ := newTestModel(t, sample("a", "Standup"))
	view := m.View()
	for _, want := range []string{"Dashboard for 2024-06-12", "Recent activity", "Standup"} {
		if !strings.Contains(view, want) {
			t.Errorf("dashboard missing %q:\n%s", want, view)
		}
	}
}

func TestStatisticsRows(t *testing.T) {
	log := sample("a", "Standup")
	m, j := newTestModel(t)
	projects := j.Projects()
	if len(projects) == 0 {
		t.Skip("no seeded projects")
	}
	log.ProjectID = projects[0].ID
	log.ProjectName = projects[0].Name
	if err := j.ReplaceLogs([]models.WorkLog{log}); err != nil {
		t.Fatalf("failed to save logs: %v", err)
	}
	m.refresh()

	rows := m.statistics.Rows()
	if len(rows) != 1 || rows[0][0] != projects[0].Name || rows[0][1] != "1.50" {
		t.Errorf("unexpected statistics rows: %v", rows)
	}
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t)
	next, cmd := m.Update(keyRunes("q"))
	if !next.(Model).quitting || cmd == nil {
		t.Error("q should quit")
	}
}

func dated(id, title, date string) models.WorkLog {
	l := sample(id, title)
	l.Date = date
	return l
}

func TestLogsTabFollowsQueryOrder(t *testing.T) {
	// Collection order puts the older-dated entry first.
	m, _ := newTestModel(t, dated("a", "Old notes", "2024-06-01"), dated("b", "Fresh work", "2024-06-12"))
	m.state = constants.StateLogs

	visible := m.logList.Visible()
	if len(visible) != 2 || visible[0].ID != "b" {
		t.Fatalf("logs tab should list date-desc, got %+v", visible)
	}
	if sel, ok := m.logList.Selected(); !ok || sel.ID != "b" {
		t.Errorf("selected = %+v, want the newest-dated entry", sel)
	}

	m = update(t, m, loglist.CycleSortMsg{})
	if m.logQuery.Sort != constants.SortDateAsc || m.logList.Visible()[0].ID != "a" {
		t.Errorf("date-asc should list the older entry first: %+v", m.logList.Visible())
	}
}

func TestLogsTabQueryControls(t *testing.T) {
	m, _ := newTestModel(t,
		dated("a", "Code review", "2024-06-12"),
		dated("b", "Planning", "2024-06-12"),
		dated("c", "Review retro", "2024-05-20"),
	)
	m.state = constants.StateLogs

	m = update(t, m, loglist.CyclePeriodMsg{})
	if m.logQuery.Period != constants.PeriodToday || len(m.logList.Visible()) != 2 {
		t.Fatalf("today filter: period=%v visible=%+v", m.logQuery.Period, m.logList.Visible())
	}

	m = update(t, m, loglist.SearchMsg{Text: "REVIEW"})
	if visible := m.logList.Visible(); len(visible) != 1 || visible[0].ID != "a" {
		t.Errorf("search within today = %+v, want only a", visible)
	}
	if !strings.Contains(m.View(), `Search: "REVIEW"`) {
		t.Errorf("summary should show the search:\n%s", m.View())
	}

	m = update(t, m, loglist.ClearQueryMsg{})
	if len(m.logList.Visible()) != 3 {
		t.Errorf("clear should show every entry, got %d", len(m.logList.Visible()))
	}

	m = update(t, m, loglist.CycleProjectMsg{})
	if m.logQuery.ProjectID == "" || len(m.logList.Visible()) != 0 {
		t.Errorf("project filter should hide unassigned entries: %q %+v", m.logQuery.ProjectID, m.logList.Visible())
	}
	if !strings.Contains(m.View(), "No entries match the current filters") {
		t.Errorf("expected filtered empty message:\n%s", m.View())
	}
}

func TestLogsTabPagingClamps(t *testing.T) {
	m, j := newTestModel(t,
		dated("a", "First", "2024-06-10"),
		dated("b", "Second", "2024-06-11"),
	)
	m.state = constants.StateLogs
	m.logQuery.PageSize = 1
	m.reloadLogs()

	m = update(t, m, loglist.PageMsg{Delta: 5})
	if m.logQuery.Page != 2 {
		t.Fatalf("page = %d, want clamp to 2", m.logQuery.Page)
	}
	if visible := m.logList.Visible(); len(visible) != 1 || visible[0].ID != "a" {
		t.Fatalf("last page = %+v, want a", visible)
	}

	// Deleting the only entry on the last page moves to the new last page.
	m = update(t, m, loglist.DeleteLogMsg{Log: dated("a", "First", "2024-06-10")})
	m = update(t, m, keyRunes("y"))
	if len(j.Logs()) != 1 {
		t.Fatalf("delete failed: %+v", j.Logs())
	}
	if m.logQuery.Page != 1 || m.logList.Visible()[0].ID != "b" {
		t.Errorf("after delete page=%d visible=%+v", m.logQuery.Page, m.logList.Visible())
	}

	m = update(t, m, loglist.PageMsg{Delta: -3})
	if m.logQuery.Page != 1 {
		t.Errorf("page = %d, want clamp to 1", m.logQuery.Page)
	}
}

func TestLogsTabSearchInput(t *testing.T) {
	m, _ := newTestModel(t, dated("a", "Quarterly plan", "2024-06-12"), dated("b", "Standup", "2024-06-12"))
	m.state = constants.StateLogs

	m = update(t, m, keyRunes("/"))
	if !m.filtering() {
		t.Fatal("'/' should open the search input")
	}
	m = update(t, m, keyRunes("q"))
	if m.quitting {
		t.Fatal("typing q into the search must not quit")
	}

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	if cmd == nil {
		t.Fatal("enter should submit the search")
	}
	m = update(t, m, cmd())
	if m.filtering() || m.logQuery.SearchText != "q" {
		t.Errorf("search not applied: filtering=%v text=%q", m.filtering(), m.logQuery.SearchText)
	}
	if visible := m.logList.Visible(); len(visible) != 1 || visible[0].ID != "a" {
		t.Errorf("search q = %+v, want only a", visible)
	}
}

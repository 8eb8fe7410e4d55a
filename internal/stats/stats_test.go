package stats

import (
	"math"
	"testing"
	"time"

	"github.com/julianstephens/worklog/internal/constants"
	"github.com/julianstephens/worklog/internal/models"
)

// Wednesday; the week starts Sunday 2024-06-09.
var asOf = time.Date(2024, 6, 12, 10, 0, 0, 0, time.UTC)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestAggregate_Empty(t *testing.T) {
	m := Aggregate(nil, nil, asOf, "done")

	if m.TodayHours != 0 || m.MonthLogCount != 0 || m.CompletionRate != 0 {
		t.Errorf("unexpected metrics: %+v", m)
	}
	if m.WeeklySeries != [7]float64{} {
		t.Errorf("WeeklySeries = %v, want zeros", m.WeeklySeries)
	}
	if len(m.ProjectTotals) != 0 {
		t.Errorf("ProjectTotals = %v, want empty", m.ProjectTotals)
	}
	if len(m.ProjectStats) != 0 {
		t.Errorf("ProjectStats = %v, want empty", m.ProjectStats)
	}
}

func TestAggregate_ProjectStat(t *testing.T) {
	logs := []models.WorkLog{
		{ID: "1", Date: "2024-06-01", Duration: 1.5, ProjectName: "A"},
		{ID: "2", Date: "2024-06-02", Duration: 2.25, ProjectName: "A"},
	}
	m := Aggregate(logs, nil, asOf, "done")

	stat, ok := m.Stat("A")
	if !ok {
		t.Fatal("expected stat for project A")
	}
	if !approx(stat.TotalHours, 3.75) || stat.Count != 2 || !approx(stat.AvgHours, 1.875) {
		t.Errorf("stat = %+v, want total 3.75 count 2 avg 1.875", stat)
	}
	if !approx(stat.Percentage, 100) {
		t.Errorf("Percentage = %v, want 100", stat.Percentage)
	}
	if stat.Color != fallbackProjectColor {
		t.Errorf("Color = %q, want fallback", stat.Color)
	}
}

func TestAggregate_Dashboard(t *testing.T) {
	projects := []models.Project{
		{ID: "p1", Name: "A", Color: "#111111", Status: constants.ProjectActive},
		{ID: "p2", Name: "B", Status: constants.ProjectActive},
		{ID: "p3", Name: "C", Status: constants.ProjectCompleted},
	}
	logs := []models.WorkLog{
		{ID: "1", Date: "2024-06-12", Duration: 2, ProjectName: "A", Tags: []string{"done"}},
		{ID: "2", Date: "2024-06-12", Duration: 1.5, ProjectName: "B"},
		{ID: "3", Date: "2024-06-09", Duration: 3, ProjectName: "A", Tags: []string{"done"}},
		{ID: "4", Date: "2024-06-08", Duration: 4},
		{ID: "5", Date: "2024-05-31", Duration: 1, ProjectName: "B"},
		{ID: "6", Date: "2024-06-15", Duration: 0.5, ProjectName: "A"},
	}

	m := Aggregate(logs, projects, asOf, "done")

	if !approx(m.TodayHours, 3.5) {
		t.Errorf("TodayHours = %v, want 3.5", m.TodayHours)
	}
	if m.MonthLogCount != 5 {
		t.Errorf("MonthLogCount = %d, want 5", m.MonthLogCount)
	}
	if !approx(m.MonthHours, 11) || !approx(m.MonthAvgHours, 2.2) {
		t.Errorf("MonthHours = %v MonthAvgHours = %v", m.MonthHours, m.MonthAvgHours)
	}
	if m.ActiveProjectCount != 2 {
		t.Errorf("ActiveProjectCount = %d, want 2", m.ActiveProjectCount)
	}
	if m.CompletionRate != 33 {
		t.Errorf("CompletionRate = %d, want 33", m.CompletionRate)
	}

	want := [7]float64{3, 0, 0, 3.5, 0, 0, 0.5}
	for i := range want {
		if !approx(m.WeeklySeries[i], want[i]) {
			t.Errorf("WeeklySeries = %v, want %v", m.WeeklySeries, want)
			break
		}
	}

	if !approx(m.ProjectTotals["A"], 5.5) || !approx(m.ProjectTotals["B"], 2.5) {
		t.Errorf("ProjectTotals = %v", m.ProjectTotals)
	}
	if _, ok := m.ProjectTotals[""]; ok {
		t.Error("entries without a project name must not be totalled")
	}

	if len(m.ProjectStats) != 2 || m.ProjectStats[0].Name != "A" || m.ProjectStats[1].Name != "B" {
		t.Fatalf("ProjectStats order = %+v, want A then B", m.ProjectStats)
	}
	if m.ProjectStats[0].Color != "#111111" {
		t.Errorf("Color = %q", m.ProjectStats[0].Color)
	}
	var pct float64
	for _, s := range m.ProjectStats {
		pct += s.Percentage
	}
	if !approx(pct, 100) {
		t.Errorf("percentages sum to %v, want 100", pct)
	}
}

func TestAggregate_TotalsIndependentOfOrder(t *testing.T) {
	logs := []models.WorkLog{
		{Date: "2024-01-01", Duration: 0.1, ProjectName: "A"},
		{Date: "2024-01-02", Duration: 0.2, ProjectName: "B"},
		{Date: "2024-01-03", Duration: 0.3, ProjectName: "A"},
		{Date: "2024-01-04", Duration: 1.7, ProjectName: "C"},
	}
	reversed := make([]models.WorkLog, len(logs))
	for i, l := range logs {
		reversed[len(logs)-1-i] = l
	}

	sum := func(m Metrics) float64 {
		var total float64
		for _, v := range m.ProjectTotals {
			total += v
		}
		return total
	}
	a := sum(Aggregate(logs, nil, asOf, ""))
	b := sum(Aggregate(reversed, nil, asOf, ""))
	if math.Abs(a-b) > 1e-9 || math.Abs(a-2.3) > 1e-9 {
		t.Errorf("grand totals differ: %v vs %v", a, b)
	}
}

func TestHoursByProjectID(t *testing.T) {
	logs := []models.WorkLog{
		{ProjectID: "p1", Duration: 1},
		{ProjectID: "p1", Duration: 2.5},
		{ProjectID: "", Duration: 9},
	}
	got := HoursByProjectID(logs)
	if len(got) != 1 || got["p1"] != 3.5 {
		t.Errorf("HoursByProjectID() = %v", got)
	}
	if c := CountByProjectID(logs); c["p1"] != 2 {
		t.Errorf("CountByProjectID() = %v", c)
	}
}

func TestRecent(t *testing.T) {
	logs := make([]models.WorkLog, 12)
	for i := range logs {
		logs[i].ID = string(rune('a' + i))
	}
	if got := Recent(logs, 10); len(got) != 10 || got[0].ID != "a" {
		t.Errorf("Recent() = %d entries starting %q", len(got), got[0].ID)
	}
	if got := Recent(logs[:3], 10); len(got) != 3 {
		t.Errorf("Recent() = %d entries, want 3", len(got))
	}
	if got := Recent(logs, 0); got != nil {
		t.Errorf("Recent(0) = %v, want nil", got)
	}
}

func TestGoalProgress(t *testing.T) {
	m := Metrics{TodayHours: 4, WeeklySeries: [7]float64{2, 4, 4}}
	daily, weekly := GoalProgress(m, models.Settings{DailyGoal: 8, WeeklyGoal: 40})
	if daily.Percent != 50 {
		t.Errorf("daily = %+v, want 50%%", daily)
	}
	if weekly.Logged != 10 || weekly.Percent != 25 {
		t.Errorf("weekly = %+v, want 10h 25%%", weekly)
	}

	zero, _ := GoalProgress(m, models.Settings{})
	if zero.Percent != 0 {
		t.Errorf("zero target percent = %d", zero.Percent)
	}
}

func TestRound(t *testing.T) {
	tests := []struct {
		v      float64
		places int
		want   float64
	}{
		{1.875, 1, 1.9},
		{1.875, 2, 1.88},
		{3.75, 0, 4},
	}
	for _, tt := range tests {
		if got := Round(tt.v, tt.places); !approx(got, tt.want) {
			t.Errorf("Round(%v, %d) = %v, want %v", tt.v, tt.places, got, tt.want)
		}
	}
}

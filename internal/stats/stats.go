// Package stats derives dashboard and statistics figures from a snapshot of
// work log entries and projects. Sums are accumulated at full precision;
// use Round when presenting them.
package stats

import (
	"math"
	"strings"
	"time"

	"github.com/julianstephens/worklog/internal/constants"
	"github.com/julianstephens/worklog/internal/models"
	"github.com/julianstephens/worklog/internal/utils"
)

const fallbackProjectColor = "#666"

// ProjectStat is one row of the per-project statistics table.
type ProjectStat struct {
	Name       string  `json:"name"`
	Color      string  `json:"color"`
	TotalHours float64 `json:"totalHours"`
	Percentage float64 `json:"percentage"` // share of all project hours, 0-100
	Count      int     `json:"count"`
	AvgHours   float64 `json:"avgHours"` // total / count
}

type Metrics struct {
	AsOf               string             `json:"asOf"`
	TodayHours         float64            `json:"todayHours"`
	MonthLogCount      int                `json:"monthLogCount"`
	MonthHours         float64            `json:"monthHours"`
	MonthAvgHours      float64            `json:"monthAvgHours"`
	ActiveProjectCount int                `json:"activeProjectCount"`
	CompletionRate     int                `json:"completionRate"` // rounded percentage
	WeeklySeries       [7]float64         `json:"weeklySeries"`   // Sunday=0 .. Saturday=6
	ProjectTotals      map[string]float64 `json:"projectTotals"`
	ProjectStats       []ProjectStat      `json:"projectStats"`
}

// Stat returns the row for the named project.
func (m Metrics) Stat(name string) (ProjectStat, bool) {
	for _, s := range m.ProjectStats {
		if s.Name == name {
			return s, true
		}
	}
	return ProjectStat{}, false
}

// Aggregate computes Metrics over logs and projects as of asOf. Entries
// tagged with doneTag count toward CompletionRate.
func Aggregate(logs []models.WorkLog, projects []models.Project, asOf time.Time, doneTag string) Metrics {
	today := utils.DateString(asOf)
	month := today[:7]
	weekStart := utils.DateString(utils.StartOfWeek(asOf))

	m := Metrics{
		AsOf:          today,
		ProjectTotals: make(map[string]float64),
		ProjectStats:  []ProjectStat{},
	}

	colors := make(map[string]string, len(projects))
	for _, p := range projects {
		if p.Status == constants.ProjectActive {
			m.ActiveProjectCount++
		}
		if _, ok := colors[p.Name]; !ok {
			colors[p.Name] = p.Color
		}
	}

	done := 0
	index := make(map[string]int)
	for _, l := range logs {
		hours := l.Hours()

		if l.Date == today {
			m.TodayHours += hours
		}
		if strings.HasPrefix(l.Date, month) {
			m.MonthLogCount++
			m.MonthHours += hours
		}
		if l.Date >= weekStart {
			if d, err := time.Parse(constants.DateFormat, l.Date); err == nil {
				m.WeeklySeries[d.Weekday()] += hours
			}
		}
		if doneTag != "" && l.HasTag(doneTag) {
			done++
		}

		if l.ProjectName == "" {
			continue
		}
		m.ProjectTotals[l.ProjectName] += hours
		i, ok := index[l.ProjectName]
		if !ok {
			color := colors[l.ProjectName]
			if color == "" {
				color = fallbackProjectColor
			}
			index[l.ProjectName] = len(m.ProjectStats)
			m.ProjectStats = append(m.ProjectStats, ProjectStat{Name: l.ProjectName, Color: color})
			i = len(m.ProjectStats) - 1
		}
		m.ProjectStats[i].TotalHours += hours
		m.ProjectStats[i].Count++
	}

	if len(logs) > 0 {
		m.CompletionRate = int(math.Round(float64(done) / float64(len(logs)) * 100))
	}
	if m.MonthLogCount > 0 {
		m.MonthAvgHours = m.MonthHours / float64(m.MonthLogCount)
	}

	var grand float64
	for _, s := range m.ProjectStats {
		grand += s.TotalHours
	}
	for i := range m.ProjectStats {
		s := &m.ProjectStats[i]
		if grand > 0 {
			s.Percentage = s.TotalHours / grand * 100
		}
		s.AvgHours = s.TotalHours / float64(s.Count)
	}

	return m
}

// HoursByProjectID sums hours per live project id. Used by project cards,
// which follow the current project rather than the name snapshot.
func HoursByProjectID(logs []models.WorkLog) map[string]float64 {
	out := make(map[string]float64)
	for _, l := range logs {
		if l.ProjectID != "" {
			out[l.ProjectID] += l.Hours()
		}
	}
	return out
}

// CountByProjectID counts entries per live project id.
func CountByProjectID(logs []models.WorkLog) map[string]int {
	out := make(map[string]int)
	for _, l := range logs {
		if l.ProjectID != "" {
			out[l.ProjectID]++
		}
	}
	return out
}

// Recent returns the first n entries in collection order (newest first).
func Recent(logs []models.WorkLog, n int) []models.WorkLog {
	if n <= 0 {
		return nil
	}
	if n > len(logs) {
		n = len(logs)
	}
	return logs[:n]
}

// Goal compares logged hours against a target.
type Goal struct {
	Logged  float64 `json:"logged"`
	Target  float64 `json:"target"`
	Percent int     `json:"percent"`
}

func newGoal(logged, target float64) Goal {
	g := Goal{Logged: logged, Target: target}
	if target > 0 {
		g.Percent = int(math.Round(logged / target * 100))
	}
	return g
}

// GoalProgress reports today's hours against the daily goal and this week's
// hours against the weekly goal.
func GoalProgress(m Metrics, settings models.Settings) (daily Goal, weekly Goal) {
	var week float64
	for _, h := range m.WeeklySeries {
		week += h
	}
	return newGoal(m.TodayHours, settings.DailyGoal.Float64()), newGoal(week, settings.WeeklyGoal.Float64())
}

// Round rounds v to the given number of decimal places.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

package validation

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/worklog/internal/constants"
	"github.com/julianstephens/worklog/internal/models"
	"github.com/julianstephens/worklog/internal/utils"
)

// Severity separates problems that need attention from tolerated oddities.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Conflict represents a detected problem in the stored logs or projects
type Conflict struct {
	Type        constants.ConflictType
	Severity    Severity
	Description string
	Date        string   // YYYY-MM-DD format (if applicable)
	Items       []string // Titles or names involved
	TimeRange   string   // Human-readable time range (if applicable)
	IDs         []string // IDs of the entries or projects involved
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// FixAction represents an action taken during auto-fix
type FixAction struct {
	Action         string
	SourceConflict Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// Errors counts the conflicts that are not warnings.
func (vr *ValidationResult) Errors() int {
	n := 0
	for _, c := range vr.Conflicts {
		if c.Severity == SeverityError {
			n++
		}
	}
	return n
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, conflict := range vr.Conflicts {
		fmt.Fprintf(&b, "- [%s] %s\n", conflict.Severity, conflict.Description)
	}
	return b.String()
}

// Validator checks a work log snapshot for problems the save paths would
// not have let through, or that an import brought in.
type Validator struct{}

func New() *Validator {
	return &Validator{}
}

// ValidateLogs checks entries on their own and against the project list.
// Orphaned project references are only warnings.
func (v *Validator) ValidateLogs(logs []models.WorkLog, projects []models.Project) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	result.Conflicts = append(result.Conflicts, duplicateIDs(logs)...)

	projectIDs := make(map[string]bool, len(projects))
	for _, p := range projects {
		projectIDs[p.ID] = true
	}

	for _, l := range logs {
		result.Conflicts = append(result.Conflicts, checkEntry(l)...)

		if l.ProjectID != "" && !projectIDs[l.ProjectID] {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        constants.ConflictOrphanProject,
				Severity:    SeverityWarning,
				Description: fmt.Sprintf("Log \"%s\" references missing project %s (%s)", l.Title, l.ProjectID, l.ProjectName),
				Date:        l.Date,
				Items:       []string{l.Title},
				IDs:         []string{l.ID},
			})
		}
	}

	result.Conflicts = append(result.Conflicts, overlaps(logs)...)
	return result
}

// ValidateProjects reports projects sharing an id and projects whose
// fields would be refused on save.
func (v *Validator) ValidateProjects(projects []models.Project) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	seen := make(map[string][]string)
	var order []string
	for _, p := range projects {
		if _, ok := seen[p.ID]; !ok {
			order = append(order, p.ID)
		}
		seen[p.ID] = append(seen[p.ID], p.Name)
	}
	for _, id := range order {
		if names := seen[id]; len(names) > 1 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        constants.ConflictDuplicateProject,
				Severity:    SeverityError,
				Description: fmt.Sprintf("Duplicate project ID %s (%s)", id, strings.Join(names, ", ")),
				Items:       names,
				IDs:         []string{id},
			})
		}
	}

	for _, p := range projects {
		if err := p.Validate(); err != nil {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        constants.ConflictInvalidDateTime,
				Severity:    SeverityError,
				Description: fmt.Sprintf("Project \"%s\": %v", p.Name, err),
				Items:       []string{p.Name},
				IDs:         []string{p.ID},
			})
		}
	}
	return result
}

func duplicateIDs(logs []models.WorkLog) []Conflict {
	byID := make(map[string][]string)
	var order []string
	for _, l := range logs {
		if _, ok := byID[l.ID]; !ok {
			order = append(order, l.ID)
		}
		byID[l.ID] = append(byID[l.ID], l.Title)
	}

	var conflicts []Conflict
	for _, id := range order {
		titles := byID[id]
		if len(titles) < 2 {
			continue
		}
		conflicts = append(conflicts, Conflict{
			Type:        constants.ConflictDuplicateID,
			Severity:    SeverityError,
			Description: fmt.Sprintf("Duplicate log ID %s shared by %d entries (%s)", id, len(titles), strings.Join(titles, ", ")),
			Items:       titles,
			IDs:         []string{id},
		})
	}
	return conflicts
}

func checkEntry(l models.WorkLog) []Conflict {
	var conflicts []Conflict
	add := func(t constants.ConflictType, format string, args ...any) {
		conflicts = append(conflicts, Conflict{
			Type:        t,
			Severity:    SeverityError,
			Description: fmt.Sprintf("Log \"%s\" (%s): ", l.Title, l.ID) + fmt.Sprintf(format, args...),
			Date:        l.Date,
			Items:       []string{l.Title},
			IDs:         []string{l.ID},
		})
	}

	if strings.TrimSpace(l.Title) == "" {
		add(constants.ConflictMissingTitle, "title is empty")
	}
	if !utils.ValidateDateFormat(l.Date) {
		add(constants.ConflictInvalidDateTime, "invalid date %q", l.Date)
	}

	validTimes := true
	for _, tm := range []string{l.StartTime, l.EndTime} {
		if !utils.ValidateTimeFormat(tm) {
			add(constants.ConflictInvalidDateTime, "invalid time %q", tm)
			validTimes = false
		}
	}

	if l.Duration <= 0 {
		add(constants.ConflictInvalidDuration, "duration %s is not positive", l.Duration)
		return conflicts
	}
	if validTimes {
		s, _ := utils.ParseTimeToMinutes(l.StartTime)
		e, _ := utils.ParseTimeToMinutes(l.EndTime)
		want := float64(e-s) / 60
		if math.Abs(want-l.Hours()) >= 0.01 {
			add(constants.ConflictInvalidDuration, "duration %s does not match %s-%s", l.Duration, l.StartTime, l.EndTime)
		}
	}
	return conflicts
}

// overlaps reports pairs of entries on the same date whose time ranges
// intersect. Touching ranges (one ends when the next starts) are fine.
func overlaps(logs []models.WorkLog) []Conflict {
	byDate := make(map[string][]models.WorkLog)
	var dates []string
	for _, l := range logs {
		if !utils.ValidateTimeFormat(l.StartTime) || !utils.ValidateTimeFormat(l.EndTime) {
			continue
		}
		if _, ok := byDate[l.Date]; !ok {
			dates = append(dates, l.Date)
		}
		byDate[l.Date] = append(byDate[l.Date], l)
	}
	sort.Strings(dates)

	var conflicts []Conflict
	for _, date := range dates {
		day := byDate[date]
		sort.SliceStable(day, func(i, j int) bool {
			return day[i].StartTime < day[j].StartTime
		})

		for i := 0; i < len(day); i++ {
			for j := i + 1; j < len(day); j++ {
				a, b := day[i], day[j]
				if b.StartTime >= a.EndTime {
					break
				}
				if !timesOverlap(date, a.StartTime, a.EndTime, b.StartTime, b.EndTime) {
					continue
				}
				conflicts = append(conflicts, Conflict{
					Type:        constants.ConflictOverlappingLogs,
					Severity:    SeverityWarning,
					Description: fmt.Sprintf("Logs \"%s\" (%s-%s) and \"%s\" (%s-%s) overlap on %s", a.Title, a.StartTime, a.EndTime, b.Title, b.StartTime, b.EndTime, date),
					Date:        date,
					Items:       []string{a.Title, b.Title},
					TimeRange:   fmt.Sprintf("%s-%s", b.StartTime, minTime(a.EndTime, b.EndTime)),
					IDs:         []string{a.ID, b.ID},
				})
			}
		}
	}
	return conflicts
}

func minTime(a, b string) string {
	if a < b {
		return a
	}
	return b
}

// timesOverlap checks if two HH:MM ranges on date intersect.
func timesOverlap(date, start1, end1, start2, end2 string) bool {
	var bounds [4]time.Time
	for i, tm := range []string{start1, end1, start2, end2} {
		t, err := utils.CombineDateAndTime(date, tm, time.UTC)
		if err != nil {
			return false
		}
		bounds[i] = t
	}
	return bounds[0].Before(bounds[3]) && bounds[2].Before(bounds[1])
}

// AutoFixDuplicateIDs gives every entry after the first holder of a
// duplicated id a fresh id from newID. The input slice is not modified.
func AutoFixDuplicateIDs(conflicts []Conflict, logs []models.WorkLog, newID func() (string, error)) ([]models.WorkLog, []FixAction) {
	fixed := append([]models.WorkLog(nil), logs...)
	actions := []FixAction{}

	for _, conflict := range conflicts {
		if conflict.Type != constants.ConflictDuplicateID || len(conflict.IDs) == 0 {
			continue
		}
		dup := conflict.IDs[0]

		var renamed, failed []string
		seen := false
		for i := range fixed {
			if fixed[i].ID != dup {
				continue
			}
			if !seen {
				seen = true
				continue
			}
			id, err := newID()
			if err != nil {
				failed = append(failed, fixed[i].Title)
				continue
			}
			fixed[i].ID = id
			renamed = append(renamed, id)
		}

		if len(renamed) > 0 {
			msg := fmt.Sprintf("Reassigned %d duplicate(s) of log ID %s (new IDs: %v)", len(renamed), dup, renamed)
			if len(failed) > 0 {
				msg += fmt.Sprintf(" (failed: %v)", failed)
			}
			actions = append(actions, FixAction{Action: msg, SourceConflict: conflict})
		} else if len(failed) > 0 {
			actions = append(actions, FixAction{
				Action:         fmt.Sprintf("Failed to reassign duplicates of log ID %s: %v", dup, failed),
				SourceConflict: conflict,
			})
		}
	}

	return fixed, actions
}

// Package query filters, sorts and paginates work log entries.
//
// Run is a pure function over an in-memory snapshot. It owns the page
// clamping policy: a page below 1 becomes 1 and a page past the end becomes
// the last page, so callers never receive an empty page for a non-empty
// result. Result.Page reports the page that was actually served.
package query

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/worklog/internal/constants"
	apperrors "github.com/julianstephens/worklog/internal/errors"
	"github.com/julianstephens/worklog/internal/models"
	"github.com/julianstephens/worklog/internal/utils"
)

// Spec describes a single list request. Empty string fields mean no
// constraint; Period and Sort fall back to all and date-desc.
type Spec struct {
	Period     constants.Period
	StartDate  string // custom period lower bound, YYYY-MM-DD
	EndDate    string // custom period upper bound, YYYY-MM-DD
	ProjectID  string
	SearchText string
	Sort       constants.SortOrder
	Page       int
	PageSize   int
}

// NewSpec returns the default list request.
func NewSpec() Spec {
	return Spec{
		Period:   constants.PeriodAll,
		Sort:     constants.SortDateDesc,
		Page:     1,
		PageSize: constants.DefaultPageSize,
	}
}

type Result struct {
	Logs         []models.WorkLog `json:"logs"`
	TotalMatched int              `json:"totalMatched"`
	PageCount    int              `json:"pageCount"`
	Page         int              `json:"page"`
	PageSize     int              `json:"pageSize"`
}

// ParsePeriod validates a period name.
func ParsePeriod(s string) (constants.Period, error) {
	switch p := constants.Period(s); p {
	case "":
		return constants.PeriodAll, nil
	case constants.PeriodAll, constants.PeriodToday, constants.PeriodWeek, constants.PeriodMonth, constants.PeriodCustom:
		return p, nil
	default:
		return "", fmt.Errorf("%w: unknown period %q (expected all|today|week|month|custom)", apperrors.ErrInvalidArgument, s)
	}
}

// ParseSort validates a sort order name.
func ParseSort(s string) (constants.SortOrder, error) {
	switch o := constants.SortOrder(s); o {
	case "":
		return constants.SortDateDesc, nil
	case constants.SortDateDesc, constants.SortDateAsc, constants.SortDurationDesc, constants.SortDurationAsc:
		return o, nil
	default:
		return "", fmt.Errorf("%w: unknown sort %q (expected date-desc|date-asc|duration-desc|duration-asc)", apperrors.ErrInvalidArgument, s)
	}
}

// Validate checks the spec without running it.
func (s Spec) Validate() error {
	if s.PageSize <= 0 {
		return fmt.Errorf("%w: page size must be positive, got %d", apperrors.ErrInvalidArgument, s.PageSize)
	}
	if _, err := ParsePeriod(string(s.Period)); err != nil {
		return err
	}
	if _, err := ParseSort(string(s.Sort)); err != nil {
		return err
	}
	return nil
}

// Run filters logs by spec, sorts the matches and returns the requested
// page. now determines today, this week and this month. The input slice is
// never modified.
func Run(logs []models.WorkLog, spec Spec, now time.Time) (Result, error) {
	if err := spec.Validate(); err != nil {
		return Result{}, err
	}
	period, _ := ParsePeriod(string(spec.Period))
	order, _ := ParseSort(string(spec.Sort))

	match := Matcher(spec, period, now)
	filtered := make([]models.WorkLog, 0, len(logs))
	for _, l := range logs {
		if match(l) {
			filtered = append(filtered, l)
		}
	}

	Sort(filtered, order)

	total := len(filtered)
	pageCount := PageCount(total, spec.PageSize)
	page := spec.Page
	if page < 1 {
		page = 1
	}
	if page > pageCount {
		page = pageCount
	}

	start := (page - 1) * spec.PageSize
	end := start + spec.PageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return Result{
		Logs:         filtered[start:end],
		TotalMatched: total,
		PageCount:    pageCount,
		Page:         page,
		PageSize:     spec.PageSize,
	}, nil
}

// PageCount is ceil(total/size), never less than 1.
func PageCount(total, size int) int {
	if size <= 0 {
		return 1
	}
	n := (total + size - 1) / size
	if n < 1 {
		return 1
	}
	return n
}

// Matcher returns the AND of the period, project and search predicates.
func Matcher(spec Spec, period constants.Period, now time.Time) func(models.WorkLog) bool {
	today := utils.DateString(now)
	weekStart := utils.DateString(utils.StartOfWeek(now))
	month := today[:7]
	search := strings.ToLower(spec.SearchText)

	return func(l models.WorkLog) bool {
		switch period {
		case constants.PeriodToday:
			if l.Date != today {
				return false
			}
		case constants.PeriodWeek:
			// Open-ended: entries dated after this week still match.
			if l.Date < weekStart {
				return false
			}
		case constants.PeriodMonth:
			if !strings.HasPrefix(l.Date, month) {
				return false
			}
		case constants.PeriodCustom:
			if spec.StartDate != "" && spec.EndDate != "" {
				if l.Date < spec.StartDate || l.Date > spec.EndDate {
					return false
				}
			}
		}

		if spec.ProjectID != "" && l.ProjectID != spec.ProjectID {
			return false
		}

		if search != "" &&
			!strings.Contains(strings.ToLower(l.Title), search) &&
			!strings.Contains(strings.ToLower(l.Content), search) {
			return false
		}
		return true
	}
}

// Sort orders logs in place. Ties keep their input order.
func Sort(logs []models.WorkLog, order constants.SortOrder) {
	var less func(a, b models.WorkLog) bool
	switch order {
	case constants.SortDateAsc:
		less = func(a, b models.WorkLog) bool { return a.Date < b.Date }
	case constants.SortDurationDesc:
		less = func(a, b models.WorkLog) bool { return a.Duration > b.Duration }
	case constants.SortDurationAsc:
		less = func(a, b models.WorkLog) bool { return a.Duration < b.Duration }
	default:
		less = func(a, b models.WorkLog) bool { return a.Date > b.Date }
	}
	sort.SliceStable(logs, func(i, j int) bool { return less(logs[i], logs[j]) })
}

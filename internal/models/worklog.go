package models

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/julianstephens/worklog/internal/constants"
	apperrors "github.com/julianstephens/worklog/internal/errors"
)

// WorkLog is one recorded unit of work.
//
// ProjectName is a snapshot of the project's name taken when the entry was
// saved. Renaming a project later does not relabel existing entries.
type WorkLog struct {
	ID          string   `json:"id"`
	Date        string   `json:"date"`      // YYYY-MM-DD format
	StartTime   string   `json:"startTime"` // HH:MM format
	EndTime     string   `json:"endTime"`   // HH:MM format
	Duration    Hours    `json:"duration"`
	Title       string   `json:"title"`
	ProjectID   string   `json:"projectId"`
	ProjectName string   `json:"projectName"`
	Content     string   `json:"content"`
	Tags        []string `json:"tags"`
	CreatedAt   string   `json:"createdAt"` // RFC3339 timestamp
	UpdatedAt   string   `json:"updatedAt"` // RFC3339 timestamp
}

// ComputeDuration returns the hours between two HH:MM times of the same day.
// A non-positive result is a validation error.
func ComputeDuration(startTime, endTime string) (Hours, error) {
	start, err := time.Parse(constants.TimeFormat, startTime)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid start time %q (expected HH:MM)", apperrors.ErrValidation, startTime)
	}
	end, err := time.Parse(constants.TimeFormat, endTime)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid end time %q (expected HH:MM)", apperrors.ErrValidation, endTime)
	}

	hours := end.Sub(start).Hours()
	if hours <= 0 {
		return 0, fmt.Errorf("%w: end time must be later than start time", apperrors.ErrValidation)
	}
	return RoundHours(hours), nil
}

func (l *WorkLog) Validate() error {
	if strings.TrimSpace(l.Title) == "" {
		return fmt.Errorf("%w: title cannot be empty", apperrors.ErrValidation)
	}
	if _, err := time.Parse(constants.DateFormat, l.Date); err != nil {
		return fmt.Errorf("%w: invalid date %q (expected YYYY-MM-DD)", apperrors.ErrValidation, l.Date)
	}
	if _, err := ComputeDuration(l.StartTime, l.EndTime); err != nil {
		return err
	}
	if d := float64(l.Duration); !(d > 0) || math.IsInf(d, 0) {
		return fmt.Errorf("%w: duration must be positive", apperrors.ErrValidation)
	}
	return nil
}

// HasTag reports whether the entry carries tag.
func (l WorkLog) HasTag(tag string) bool {
	for _, t := range l.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Hours returns the duration as a plain float.
func (l WorkLog) Hours() float64 {
	return float64(l.Duration)
}

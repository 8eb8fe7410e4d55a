package models

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/julianstephens/worklog/internal/constants"
	apperrors "github.com/julianstephens/worklog/internal/errors"
)

type Project struct {
	ID          string                  `json:"id"`
	Name        string                  `json:"name"`
	Description string                  `json:"description,omitempty"`
	Color       string                  `json:"color"`
	Status      constants.ProjectStatus `json:"status"`
	StartDate   string                  `json:"startDate,omitempty"` // YYYY-MM-DD format
	EndDate     string                  `json:"endDate,omitempty"`   // YYYY-MM-DD format
	CreatedAt   string                  `json:"createdAt,omitempty"`
	UpdatedAt   string                  `json:"updatedAt,omitempty"`
}

// ParseProjectStatus accepts the four known statuses.
func ParseProjectStatus(s string) (constants.ProjectStatus, error) {
	switch status := constants.ProjectStatus(strings.ToLower(strings.TrimSpace(s))); status {
	case constants.ProjectPlanning, constants.ProjectActive, constants.ProjectCompleted, constants.ProjectOnHold:
		return status, nil
	default:
		return "", fmt.Errorf("invalid project status %q (expected planning|active|completed|on-hold)", s)
	}
}

func (p *Project) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: project name cannot be empty", apperrors.ErrValidation)
	}
	if _, err := ParseProjectStatus(string(p.Status)); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	if p.StartDate != "" {
		if _, err := time.Parse(constants.DateFormat, p.StartDate); err != nil {
			return fmt.Errorf("%w: invalid start date %q", apperrors.ErrValidation, p.StartDate)
		}
	}
	if p.EndDate != "" {
		if _, err := time.Parse(constants.DateFormat, p.EndDate); err != nil {
			return fmt.Errorf("%w: invalid end date %q", apperrors.ErrValidation, p.EndDate)
		}
	}
	if p.StartDate != "" && p.EndDate != "" && p.EndDate < p.StartDate {
		return fmt.Errorf("%w: end date must not be before start date", apperrors.ErrValidation)
	}
	return nil
}

// StatusLabel returns the display label for the project's status.
func (p Project) StatusLabel() string {
	switch p.Status {
	case constants.ProjectPlanning:
		return "Planning"
	case constants.ProjectActive:
		return "Active"
	case constants.ProjectCompleted:
		return "Completed"
	case constants.ProjectOnHold:
		return "On hold"
	default:
		return string(p.Status)
	}
}

// Progress returns how much of the project's [StartDate, EndDate] window has
// elapsed at asOf, as a rounded percentage. Without both dates it is 0.
func (p Project) Progress(asOf time.Time) int {
	if p.StartDate == "" || p.EndDate == "" {
		return 0
	}
	start, err := time.ParseInLocation(constants.DateFormat, p.StartDate, asOf.Location())
	if err != nil {
		return 0
	}
	end, err := time.ParseInLocation(constants.DateFormat, p.EndDate, asOf.Location())
	if err != nil {
		return 0
	}

	if asOf.Before(start) {
		return 0
	}
	if asOf.After(end) {
		return 100
	}
	total := end.Sub(start)
	if total <= 0 {
		return 100
	}
	return int(math.Round(float64(asOf.Sub(start)) / float64(total) * 100))
}

// DefaultProjects is the seed used when no projects are stored.
func DefaultProjects() []Project {
	return []Project{
		{ID: "1", Name: "Daily Work", Color: "#4CAF50", Status: constants.ProjectActive},
		{ID: "2", Name: "Development", Color: "#2196F3", Status: constants.ProjectActive},
		{ID: "3", Name: "Learning", Color: "#9C27B0", Status: constants.ProjectActive},
		{ID: "4", Name: "Meetings", Color: "#FF9800", Status: constants.ProjectActive},
	}
}

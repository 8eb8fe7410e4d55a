package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/worklog/internal/constants"
	"github.com/julianstephens/worklog/internal/models"
)

// LogFormModel backs the add/edit entry form. Tags are comma separated.
type LogFormModel struct {
	Date      string
	StartTime string
	EndTime   string
	Title     string
	ProjectID string
	Content   string
	Tags      string
}

type ProjectFormModel struct {
	Name        string
	Description string
	Color       string
	Status      constants.ProjectStatus
	StartDate   string
	EndDate     string
}

func validateDate(optional bool) func(string) error {
	return func(s string) error {
		if optional && strings.TrimSpace(s) == "" {
			return nil
		}
		if _, err := time.Parse(constants.DateFormat, strings.TrimSpace(s)); err != nil {
			return fmt.Errorf("invalid date, use YYYY-MM-DD")
		}
		return nil
	}
}

func validateTime(s string) error {
	if _, err := time.Parse(constants.TimeFormat, strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("invalid time, use HH:MM")
	}
	return nil
}

func notBlank(what string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s cannot be empty", what)
		}
		return nil
	}
}

// splitTags turns "a, b,,c" into a tag set.
func splitTags(s string) models.TagSet {
	return models.NewTagSet(strings.Split(s, ",")...)
}

func NewLogForm(fm *LogFormModel, projects []models.Project) *huh.Form {
	options := []huh.Option[string]{huh.NewOption("(none)", "")}
	for _, p := range projects {
		options = append(options, huh.NewOption(p.Name, p.ID))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&fm.Title).
				Validate(notBlank("title")),
			huh.NewInput().
				Title("Date (YYYY-MM-DD)").
				Value(&fm.Date).
				Validate(validateDate(false)),
			huh.NewInput().
				Title("Start (HH:MM)").
				Value(&fm.StartTime).
				Validate(validateTime),
			huh.NewInput().
				Title("End (HH:MM)").
				Value(&fm.EndTime).
				Validate(validateTime),
			huh.NewSelect[string]().
				Title("Project").
				Options(options...).
				Value(&fm.ProjectID),
			huh.NewText().
				Title("Notes").
				Value(&fm.Content),
			huh.NewInput().
				Title("Tags").
				Description("Comma separated").
				Value(&fm.Tags),
		),
	).WithTheme(huh.ThemeDracula())
}

func NewProjectForm(fm *ProjectFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&fm.Name).
				Validate(notBlank("project name")),
			huh.NewInput().
				Title("Description").
				Value(&fm.Description),
			huh.NewInput().
				Title("Color").
				Description("Hex color, e.g. " + constants.DefaultProjectColor).
				Value(&fm.Color),
			huh.NewSelect[constants.ProjectStatus]().
				Title("Status").
				Options(
					huh.NewOption("Planning", constants.ProjectPlanning),
					huh.NewOption("Active", constants.ProjectActive),
					huh.NewOption("Completed", constants.ProjectCompleted),
					huh.NewOption("On hold", constants.ProjectOnHold),
				).
				Value(&fm.Status),
			huh.NewInput().
				Title("Start date (YYYY-MM-DD)").
				Value(&fm.StartDate).
				Validate(validateDate(true)),
			huh.NewInput().
				Title("End date (YYYY-MM-DD)").
				Value(&fm.EndDate).
				Validate(validateDate(true)),
		),
	).WithTheme(huh.ThemeDracula())
}

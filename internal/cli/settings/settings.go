package settings

import (
	"fmt"

	"github.com/julianstephens/worklog/internal/cli"
	"github.com/julianstephens/worklog/internal/constants"
	"github.com/julianstephens/worklog/internal/models"
	"github.com/julianstephens/worklog/internal/utils"
)

type SettingsCmd struct {
	List bool `help:"List current settings."`

	Username        *string  `help:"Name shown on the dashboard."`
	DailyGoal       *float64 `help:"Target hours per day."`
	WeeklyGoal      *float64 `help:"Target hours per week."`
	EnableReminders *bool    `help:"Enable or disable the daily goal reminder."`
	ReminderTime    *string  `help:"Time of the daily reminder (HH:MM)."`
	WeeklyReport    *bool    `help:"Enable or disable the weekly report."`
	Theme           *string  `help:"TUI theme (light|dark|auto)." enum:"light,dark,auto"`
	Language        *string  `help:"Interface language."`
	BackupFrequency *string  `help:"Automatic backups (off|daily|weekly)." enum:"off,daily,weekly"`
	DoneTag         *string  `help:"Tag that marks an entry as completed."`
	Timezone        *string  `help:"IANA timezone used for 'today' (or 'Local')."`
}

func (c *SettingsCmd) Validate() error {
	if c.DailyGoal != nil && *c.DailyGoal <= 0 {
		return fmt.Errorf("daily goal must be greater than zero")
	}
	if c.WeeklyGoal != nil && *c.WeeklyGoal <= 0 {
		return fmt.Errorf("weekly goal must be greater than zero")
	}
	if c.ReminderTime != nil {
		if err := cli.ValidateTime("reminder time", *c.ReminderTime); err != nil {
			return err
		}
	}
	if c.Timezone != nil && !utils.ValidateTimezone(*c.Timezone) {
		return fmt.Errorf("invalid timezone %q", *c.Timezone)
	}
	if c.BackupFrequency != nil && *c.BackupFrequency != "off" {
		if _, ok := constants.BackupIntervals[*c.BackupFrequency]; !ok {
			return fmt.Errorf("invalid backup frequency %q (expected off|daily|weekly)", *c.BackupFrequency)
		}
	}
	return nil
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	j, err := ctx.Journal()
	if err != nil {
		return err
	}
	settings := j.Settings()
	out := ctx.W()

	if c.List {
		fmt.Fprintln(out, "Current Settings:")
		fmt.Fprintf(out, "  Username:          %s\n", settings.Username)
		fmt.Fprintf(out, "  Daily Goal:        %sh\n", settings.DailyGoal)
		fmt.Fprintf(out, "  Weekly Goal:       %sh\n", settings.WeeklyGoal)
		fmt.Fprintf(out, "  Done Tag:          %s\n", settings.DoneTag)
		fmt.Fprintf(out, "  Timezone:          %s\n", settings.Timezone)
		fmt.Fprintln(out, "\nReminders:")
		fmt.Fprintf(out, "  Enabled:           %v\n", settings.EnableReminders)
		fmt.Fprintf(out, "  Reminder Time:     %s\n", settings.ReminderTime)
		fmt.Fprintf(out, "  Weekly Report:     %v\n", settings.WeeklyReport)
		fmt.Fprintln(out, "\nInterface & Data:")
		fmt.Fprintf(out, "  Theme:             %s\n", settings.Theme)
		fmt.Fprintf(out, "  Language:          %s\n", settings.Language)
		fmt.Fprintf(out, "  Backup Frequency:  %s\n", settings.BackupFrequency)
		return nil
	}

	updated := false
	setString := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
			updated = true
		}
	}
	setBool := func(dst *bool, v *bool) {
		if v != nil {
			*dst = *v
			updated = true
		}
	}
	setHours := func(dst *models.Hours, v *float64) {
		if v != nil {
			*dst = models.RoundHours(*v)
			updated = true
		}
	}

	setString(&settings.Username, c.Username)
	setHours(&settings.DailyGoal, c.DailyGoal)
	setHours(&settings.WeeklyGoal, c.WeeklyGoal)
	setBool(&settings.EnableReminders, c.EnableReminders)
	setString(&settings.ReminderTime, c.ReminderTime)
	setBool(&settings.WeeklyReport, c.WeeklyReport)
	setString(&settings.Theme, c.Theme)
	setString(&settings.Language, c.Language)
	setString(&settings.BackupFrequency, c.BackupFrequency)
	setString(&settings.DoneTag, c.DoneTag)
	setString(&settings.Timezone, c.Timezone)

	if updated {
		if err := j.SaveSettings(settings); err != nil {
			return err
		}
		fmt.Fprintln(out, "Settings updated successfully.")
	} else {
		fmt.Fprintln(out, "No changes specified. Use --list to view settings or flags to update them.")
	}

	return nil
}

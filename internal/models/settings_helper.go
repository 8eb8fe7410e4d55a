package models

import (
	"fmt"
	"strconv"

	"github.com/julianstephens/worklog/internal/constants"
)

// MapToSettings converts a map of key-value pairs to a Settings struct.
func MapToSettings(data map[string]string) (Settings, error) {
	settings := Settings{}

	for key, value := range data {
		switch key {
		case constants.SettingUsername:
			settings.Username = value
		case constants.SettingDailyGoal:
			v, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return Settings{}, fmt.Errorf("parsing daily_goal: %w", err)
			}
			settings.DailyGoal = Hours(v)
		case constants.SettingWeeklyGoal:
			v, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return Settings{}, fmt.Errorf("parsing weekly_goal: %w", err)
			}
			settings.WeeklyGoal = Hours(v)
		case constants.SettingEnableReminders:
			settings.EnableReminders = value == "true"
		case constants.SettingReminderTime:
			settings.ReminderTime = value
		case constants.SettingWeeklyReport:
			settings.WeeklyReport = value == "true"
		case constants.SettingTheme:
			settings.Theme = value
		case constants.SettingLanguage:
			settings.Language = value
		case constants.SettingBackupFrequency:
			settings.BackupFrequency = value
		case constants.SettingDoneTag:
			settings.DoneTag = value
		case constants.SettingTimezone:
			settings.Timezone = value
		}
	}
	return settings, nil
}

// SettingsToMap converts a Settings struct to a map of key-value pairs.
func SettingsToMap(settings Settings) map[string]string {
	return map[string]string{
		constants.SettingUsername:        settings.Username,
		constants.SettingDailyGoal:       settings.DailyGoal.String(),
		constants.SettingWeeklyGoal:      settings.WeeklyGoal.String(),
		constants.SettingEnableReminders: strconv.FormatBool(settings.EnableReminders),
		constants.SettingReminderTime:    settings.ReminderTime,
		constants.SettingWeeklyReport:    strconv.FormatBool(settings.WeeklyReport),
		constants.SettingTheme:           settings.Theme,
		constants.SettingLanguage:        settings.Language,
		constants.SettingBackupFrequency: settings.BackupFrequency,
		constants.SettingDoneTag:         settings.DoneTag,
		constants.SettingTimezone:        settings.Timezone,
	}
}

// DefaultSettings returns settings with every default applied.
func DefaultSettings() Settings {
	var s Settings
	ApplyDefaultSettings(&s)
	return s
}

// ApplyDefaultSettings applies default values to missing settings.
func ApplyDefaultSettings(settings *Settings) {
	if settings.DailyGoal <= 0 {
		settings.DailyGoal = constants.DefaultDailyGoal
	}
	if settings.WeeklyGoal <= 0 {
		settings.WeeklyGoal = constants.DefaultWeeklyGoal
	}
	if settings.ReminderTime == "" {
		settings.ReminderTime = constants.DefaultReminderTime
	}
	if settings.Theme == "" {
		settings.Theme = constants.DefaultTheme
	}
	if settings.Language == "" {
		settings.Language = constants.DefaultLanguage
	}
	if settings.BackupFrequency == "" {
		settings.BackupFrequency = constants.DefaultBackupFrequency
	}
	if settings.DoneTag == "" {
		settings.DoneTag = constants.DefaultDoneTag
	}
	if settings.Timezone == "" {
		settings.Timezone = constants.DefaultTimezone
	}
}

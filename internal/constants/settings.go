package constants

const (
	SettingUsername        = "username"
	SettingDailyGoal       = "daily_goal"
	SettingWeeklyGoal      = "weekly_goal"
	SettingEnableReminders = "enable_reminders"
	SettingReminderTime    = "reminder_time"
	SettingWeeklyReport    = "weekly_report"
	SettingTheme           = "theme"
	SettingLanguage        = "language"
	SettingBackupFrequency = "backup_frequency"
	SettingDoneTag         = "done_tag"
	SettingTimezone        = "timezone"

	// Default Settings Values
	DefaultDailyGoal       = 8.0
	DefaultWeeklyGoal      = 40.0
	DefaultReminderTime    = "18:00"
	DefaultTheme           = "light"
	DefaultLanguage        = "en"
	DefaultBackupFrequency = "daily"
	DefaultDoneTag         = "done"
	DefaultTimezone        = "Local" // Use system local timezone by default
)

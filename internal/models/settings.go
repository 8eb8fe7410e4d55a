package models

// Settings holds the user's preferences.
type Settings struct {
	Username        string `json:"username"`
	DailyGoal       Hours  `json:"dailyGoal"`       // target hours per day
	WeeklyGoal      Hours  `json:"weeklyGoal"`      // target hours per week
	EnableReminders bool   `json:"enableReminders"` // whether the daily reminder fires
	ReminderTime    string `json:"reminderTime"`    // HH:MM format
	WeeklyReport    bool   `json:"weeklyReport"`
	Theme           string `json:"theme"`           // light, dark or auto
	Language        string `json:"language"`
	BackupFrequency string `json:"backupFrequency"` // off, daily or weekly
	DoneTag         string `json:"doneTag"`         // tag marking an entry as completed
	Timezone        string `json:"timezone"`        // IANA timezone name, or "Local"
}

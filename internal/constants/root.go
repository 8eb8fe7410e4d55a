package constants

import "time"

// SessionState represents the current state of the TUI application
type SessionState int

// ProjectStatus represents the lifecycle state of a project
type ProjectStatus string

// Period selects the coarse date window of a log query
type Period string

// SortOrder selects the ordering of a log query
type SortOrder string

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	AppName            = "worklog"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/worklog/worklog.db"
	ConnectionEnvVar   = "WORKLOG_DB_CONNECTION"
	Version            = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// Backup constants
	MaxBackups       = 10
	BackupDirName    = "backups"
	BackupFilePrefix = "worklog-"

	// Notify constants
	NotifierLockfileName   = "worklog-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.julianstephens.worklog"
	TrayAppExecutable      = "worklog-tray"

	// Query defaults
	DefaultPageSize = 10
	RecentLogCount  = 10

	// Project statuses
	ProjectPlanning  ProjectStatus = "planning"
	ProjectActive    ProjectStatus = "active"
	ProjectCompleted ProjectStatus = "completed"
	ProjectOnHold    ProjectStatus = "on-hold"

	DefaultProjectColor = "#4CAF50"

	// Periods
	PeriodAll    Period = "all"
	PeriodToday  Period = "today"
	PeriodWeek   Period = "week"
	PeriodMonth  Period = "month"
	PeriodCustom Period = "custom"

	// Sort orders
	SortDateDesc     SortOrder = "date-desc"
	SortDateAsc      SortOrder = "date-asc"
	SortDurationDesc SortOrder = "duration-desc"
	SortDurationAsc  SortOrder = "duration-asc"

	// Conflict Types
	ConflictDuplicateID      ConflictType = "duplicate_id"
	ConflictInvalidDateTime  ConflictType = "invalid_date_time"
	ConflictInvalidDuration  ConflictType = "invalid_duration"
	ConflictOverlappingLogs  ConflictType = "overlapping_logs"
	ConflictOrphanProject    ConflictType = "orphan_project"
	ConflictMissingTitle     ConflictType = "missing_title"
	ConflictDuplicateProject ConflictType = "duplicate_project"
)

// Session States
const (
	StateDashboard SessionState = iota
	StateLogs
	StateProjects
	StateStatistics
	StateAddLog
	StateEditLog
	StateAddProject
	StateConfirmDelete
)

// BackupIntervals maps a backup frequency setting to the minimum age of
// the newest backup before another automatic one is taken.
var BackupIntervals = map[string]time.Duration{
	"daily":  24 * time.Hour,
	"weekly": 7 * 24 * time.Hour,
}

package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/julianstephens/worklog/internal/backup"
	"github.com/julianstephens/worklog/internal/constants"
	"github.com/julianstephens/worklog/internal/journal"
	"github.com/julianstephens/worklog/internal/logger"
	"github.com/julianstephens/worklog/internal/storage"
	"github.com/julianstephens/worklog/internal/utils"
)

type Context struct {
	Store storage.Provider
	// Clock defaults to time.Now.
	Clock func() time.Time
	// Out defaults to os.Stdout.
	Out io.Writer

	journal *journal.Journal
}

func (c *Context) W() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) Now() time.Time {
	if c.Clock == nil {
		return time.Now()
	}
	return c.Clock()
}

// Journal opens the snapshot on first use.
func (c *Context) Journal() (*journal.Journal, error) {
	if c.journal != nil {
		return c.journal, nil
	}
	j, err := journal.Open(c.Store, c.Now)
	if err != nil {
		return nil, err
	}
	c.journal = j
	return j, nil
}

// PerformAutomaticBackup backs up file-backed stores when the newest backup
// is older than the configured backup frequency. Failures are only logged.
func (c *Context) PerformAutomaticBackup() {
	if storage.KindOf(c.Store) == storage.KindPostgres {
		return
	}

	settings, err := c.Store.GetSettings()
	if err != nil {
		logger.Warn("Automatic backup skipped", "error", err)
		return
	}
	interval, ok := constants.BackupIntervals[settings.BackupFrequency]
	if !ok {
		return
	}

	mgr := backup.NewManager(c.Store.GetConfigPath())
	due, err := mgr.Due(interval)
	if err != nil {
		logger.Warn("Automatic backup check failed", "error", err)
		return
	}
	if !due {
		return
	}
	if path, err := mgr.CreateBackup(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	} else {
		logger.Info("Automatic backup created", "path", path)
	}
}

// ValidateDate checks an optional YYYY-MM-DD flag value.
func ValidateDate(name, value string) error {
	if value != "" && !utils.ValidateDateFormat(value) {
		return fmt.Errorf("invalid %s %q (expected YYYY-MM-DD)", name, value)
	}
	return nil
}

// ValidateTime checks an optional HH:MM flag value.
func ValidateTime(name, value string) error {
	if value != "" && !utils.ValidateTimeFormat(value) {
		return fmt.Errorf("invalid %s %q (expected HH:MM)", name, value)
	}
	return nil
}

// Truncate shortens s to n runes for table output.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}

package system

import (
	"fmt"

	"github.com/julianstephens/worklog/internal/cli"
	"github.com/julianstephens/worklog/internal/logger"
	"github.com/julianstephens/worklog/internal/notifier"
	"github.com/julianstephens/worklog/internal/stats"
)

type sender interface {
	Notify(text string) error
}

// NotifyCmd sends the daily goal reminder through the tray app. It is meant
// to be run periodically, e.g. from cron.
type NotifyCmd struct {
	DryRun bool `help:"Print notifications to stdout instead of sending them."`

	Sender sender `kong:"-"`
}

func (c *NotifyCmd) Run(ctx *cli.Context) error {
	j, err := ctx.Journal()
	if err != nil {
		return err
	}
	out := ctx.W()

	settings := j.Settings()
	if !settings.EnableReminders {
		if c.DryRun {
			fmt.Fprintln(out, "Reminders are disabled in settings.")
		}
		return nil
	}

	daily, _ := stats.GoalProgress(j.Metrics(), settings)
	msg, due := notifier.Reminder(settings, daily, j.Now())
	if !due {
		if c.DryRun {
			fmt.Fprintln(out, "No reminder due.")
		}
		return nil
	}

	if c.DryRun {
		fmt.Fprintln(out, "[DryRun] "+msg)
		return nil
	}

	s := c.Sender
	if s == nil {
		s = notifier.New()
	}
	if err := s.Notify(msg); err != nil {
		logger.Warn("Failed to send reminder", "error", err)
		return fmt.Errorf("failed to send notification: %w", err)
	}
	logger.Debug("Reminder sent", "logged", daily.Logged, "target", daily.Target)
	return nil
}

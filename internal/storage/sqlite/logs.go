package sqlite

import (
	"encoding/json"
	"fmt"

	"github.com/julianstephens/worklog/internal/logger"
	"github.com/julianstephens/worklog/internal/models"
)

func (s *Store) LoadLogs() ([]models.WorkLog, error) {
	rows, err := s.db.Query(`
		SELECT id, date, start_time, end_time, duration, title, project_id, project_name,
		       content, tags, created_at, updated_at
		FROM work_logs ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := []models.WorkLog{}
	for rows.Next() {
		var l models.WorkLog
		var duration float64
		var tags string
		if err := rows.Scan(
			&l.ID, &l.Date, &l.StartTime, &l.EndTime, &duration, &l.Title, &l.ProjectID, &l.ProjectName,
			&l.Content, &tags, &l.CreatedAt, &l.UpdatedAt,
		); err != nil {
			return nil, err
		}
		l.Duration = models.Hours(duration)

		if err := json.Unmarshal([]byte(tags), &l.Tags); err != nil {
			logger.Warn("Malformed tags on stored log, dropping them", "id", l.ID, "error", err)
			l.Tags = nil
		}
		logs = append(logs, l)
	}

	return logs, rows.Err()
}

func (s *Store) SaveLogs(logs []models.WorkLog) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM work_logs"); err != nil {
		return fmt.Errorf("failed to clear logs: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO work_logs (position, id, date, start_time, end_time, duration, title, project_id,
		                       project_name, content, tags, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, l := range logs {
		tags := l.Tags
		if tags == nil {
			tags = []string{}
		}
		tagsJSON, err := json.Marshal(tags)
		if err != nil {
			return err
		}
		if _, err := stmt.Exec(
			i, l.ID, l.Date, l.StartTime, l.EndTime, l.Duration.Float64(), l.Title, l.ProjectID,
			l.ProjectName, l.Content, string(tagsJSON), l.CreatedAt, l.UpdatedAt,
		); err != nil {
			return fmt.Errorf("failed to save log %s: %w", l.ID, err)
		}
	}

	return tx.Commit()
}

package postgres

import (
	"encoding/json"
	"fmt"

	"github.com/julianstephens/worklog/internal/constants"
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
		var tags []byte
		if err := rows.Scan(
			&l.ID, &l.Date, &l.StartTime, &l.EndTime, &duration, &l.Title, &l.ProjectID, &l.ProjectName,
			&l.Content, &tags, &l.CreatedAt, &l.UpdatedAt,
		); err != nil {
			return nil, err
		}
		l.Duration = models.Hours(duration)
		if err := json.Unmarshal(tags, &l.Tags); err != nil {
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
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11::jsonb, $12, $13)`)
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

func (s *Store) LoadProjects() ([]models.Project, error) {
	rows, err := s.db.Query(`
		SELECT id, name, description, color, status, start_date, end_date, created_at, updated_at
		FROM projects ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	projects := []models.Project{}
	for rows.Next() {
		var p models.Project
		var status string
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Description, &p.Color, &status, &p.StartDate, &p.EndDate, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		p.Status = constants.ProjectStatus(status)
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (s *Store) SaveProjects(projects []models.Project) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM projects"); err != nil {
		return fmt.Errorf("failed to clear projects: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO projects (position, id, name, description, color, status, start_date, end_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, p := range projects {
		if _, err := stmt.Exec(
			i, p.ID, p.Name, p.Description, p.Color, string(p.Status), p.StartDate, p.EndDate, p.CreatedAt, p.UpdatedAt,
		); err != nil {
			return fmt.Errorf("failed to save project %s: %w", p.ID, err)
		}
	}
	return tx.Commit()
}

func (s *Store) GetSettings() (models.Settings, error) {
	rows, err := s.db.Query("SELECT key, value FROM settings")
	if err != nil {
		return models.Settings{}, err
	}
	defer rows.Close()

	data := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return models.Settings{}, err
		}
		data[key] = value
	}
	if err := rows.Err(); err != nil {
		return models.Settings{}, err
	}

	settings, err := models.MapToSettings(data)
	if err != nil {
		logger.Warn("Stored settings are malformed, using defaults", "error", err)
		settings = models.Settings{}
	}
	models.ApplyDefaultSettings(&settings)
	return settings, nil
}

func (s *Store) SaveSettings(settings models.Settings) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO settings (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for key, value := range models.SettingsToMap(settings) {
		if _, err := stmt.Exec(key, value); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *Store) LoadKnownTags() ([]string, error) {
	rows, err := s.db.Query("SELECT tag FROM known_tags ORDER BY tag")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := []string{}
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

func (s *Store) SaveKnownTags(tags []string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM known_tags"); err != nil {
		return err
	}
	stmt, err := tx.Prepare("INSERT INTO known_tags (tag) VALUES ($1) ON CONFLICT DO NOTHING")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, tag := range tags {
		if _, err := stmt.Exec(tag); err != nil {
			return err
		}
	}
	return tx.Commit()
}

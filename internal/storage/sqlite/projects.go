package sqlite

import (
	"fmt"

	"github.com/julianstephens/worklog/internal/constants"
	"github.com/julianstephens/worklog/internal/models"
)

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
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
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

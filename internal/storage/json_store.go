package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/worklog/internal/logger"
	"github.com/julianstephens/worklog/internal/models"
)

// jsonDocument is the on-disk layout of the JSON store. Each section is kept
// raw so one unreadable section does not discard the others.
type jsonDocument struct {
	Version   int             `json:"version"`
	Logs      json.RawMessage `json:"logs,omitempty"`
	Projects  json.RawMessage `json:"projects,omitempty"`
	Settings  json.RawMessage `json:"settings,omitempty"`
	KnownTags json.RawMessage `json:"tags,omitempty"`
}

// JSONStore keeps the snapshot in a single JSON document file.
type JSONStore struct {
	path string
	doc  *jsonDocument
}

func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

func (s *JSONStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		return s.Load()
	}

	s.doc = &jsonDocument{Version: 1}
	if err := s.SaveSettings(models.DefaultSettings()); err != nil {
		return err
	}
	return s.SaveProjects(models.DefaultProjects())
}

func (s *JSONStore) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("storage not initialized, run 'worklog init' first")
		}
		return fmt.Errorf("failed to read storage file: %w", err)
	}

	var doc jsonDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		logger.Warn("Storage file is unreadable, starting from defaults", "path", s.path, "error", err)
		doc = jsonDocument{Version: 1}
	}
	s.doc = &doc
	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}

func (s *JSONStore) loaded() error {
	if s.doc == nil {
		return fmt.Errorf("storage not loaded")
	}
	return nil
}

func (s *JSONStore) LoadLogs() ([]models.WorkLog, error) {
	if err := s.loaded(); err != nil {
		return nil, err
	}
	logs := []models.WorkLog{}
	if len(s.doc.Logs) == 0 {
		return logs, nil
	}
	if err := json.Unmarshal(s.doc.Logs, &logs); err != nil {
		logger.Warn("Stored logs are malformed, treating as empty", "error", err)
		return []models.WorkLog{}, nil
	}
	return logs, nil
}

func (s *JSONStore) SaveLogs(logs []models.WorkLog) error {
	if logs == nil {
		logs = []models.WorkLog{}
	}
	return s.saveSection(func(d *jsonDocument) *json.RawMessage { return &d.Logs }, logs)
}

func (s *JSONStore) LoadProjects() ([]models.Project, error) {
	if err := s.loaded(); err != nil {
		return nil, err
	}
	if len(s.doc.Projects) == 0 {
		return models.DefaultProjects(), nil
	}
	var projects []models.Project
	if err := json.Unmarshal(s.doc.Projects, &projects); err != nil || projects == nil {
		logger.Warn("Stored projects are malformed, using default projects", "error", err)
		return models.DefaultProjects(), nil
	}
	return projects, nil
}

func (s *JSONStore) SaveProjects(projects []models.Project) error {
	if projects == nil {
		projects = []models.Project{}
	}
	return s.saveSection(func(d *jsonDocument) *json.RawMessage { return &d.Projects }, projects)
}

func (s *JSONStore) LoadKnownTags() ([]string, error) {
	if err := s.loaded(); err != nil {
		return nil, err
	}
	tags := []string{}
	if len(s.doc.KnownTags) == 0 {
		return tags, nil
	}
	if err := json.Unmarshal(s.doc.KnownTags, &tags); err != nil {
		logger.Warn("Stored tags are malformed, treating as empty", "error", err)
		return []string{}, nil
	}
	return tags, nil
}

func (s *JSONStore) SaveKnownTags(tags []string) error {
	if tags == nil {
		tags = []string{}
	}
	return s.saveSection(func(d *jsonDocument) *json.RawMessage { return &d.KnownTags }, tags)
}

func (s *JSONStore) GetSettings() (models.Settings, error) {
	if err := s.loaded(); err != nil {
		return models.Settings{}, err
	}
	var settings models.Settings
	if len(s.doc.Settings) > 0 {
		if err := json.Unmarshal(s.doc.Settings, &settings); err != nil {
			logger.Warn("Stored settings are malformed, using defaults", "error", err)
			settings = models.Settings{}
		}
	}
	models.ApplyDefaultSettings(&settings)
	return settings, nil
}

func (s *JSONStore) SaveSettings(settings models.Settings) error {
	return s.saveSection(func(d *jsonDocument) *json.RawMessage { return &d.Settings }, settings)
}

func (s *JSONStore) saveSection(section func(*jsonDocument) *json.RawMessage, v any) error {
	if err := s.loaded(); err != nil {
		return err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode storage section: %w", err)
	}
	*section(s.doc) = data
	return s.save()
}

func (s *JSONStore) save() error {
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage file: %w", err)
	}
	return os.Rename(tmp, s.path)
}

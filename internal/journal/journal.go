// Package journal owns the in-memory work log snapshot. It is loaded once
// from a storage.Provider and every mutation saves the affected collection
// back before the in-memory copy changes.
package journal

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/worklog/internal/constants"
	apperrors "github.com/julianstephens/worklog/internal/errors"
	"github.com/julianstephens/worklog/internal/logger"
	"github.com/julianstephens/worklog/internal/models"
	"github.com/julianstephens/worklog/internal/query"
	"github.com/julianstephens/worklog/internal/stats"
	"github.com/julianstephens/worklog/internal/storage"
	"github.com/julianstephens/worklog/internal/transfer"
	"github.com/julianstephens/worklog/internal/utils"
)

// Draft holds the user-editable fields of an entry. Duration, project name
// and timestamps are derived on save.
type Draft struct {
	Date      string
	StartTime string
	EndTime   string
	Title     string
	ProjectID string
	Content   string
}

// DraftFrom returns a draft pre-filled from an existing entry.
func DraftFrom(l models.WorkLog) Draft {
	return Draft{
		Date:      l.Date,
		StartTime: l.StartTime,
		EndTime:   l.EndTime,
		Title:     l.Title,
		ProjectID: l.ProjectID,
		Content:   l.Content,
	}
}

type Journal struct {
	store    storage.Provider
	clock    func() time.Time
	logs     []models.WorkLog
	projects []models.Project
	tags     []string
	settings models.Settings
}

// Open loads the snapshot from store. A nil clock means time.Now.
func Open(store storage.Provider, clock func() time.Time) (*Journal, error) {
	if clock == nil {
		clock = time.Now
	}
	j := &Journal{store: store, clock: clock}

	var err error
	if j.logs, err = store.LoadLogs(); err != nil {
		return nil, fmt.Errorf("failed to load logs: %w", err)
	}
	if j.projects, err = store.LoadProjects(); err != nil {
		return nil, fmt.Errorf("failed to load projects: %w", err)
	}
	if j.tags, err = store.LoadKnownTags(); err != nil {
		return nil, fmt.Errorf("failed to load tags: %w", err)
	}
	if j.settings, err = store.GetSettings(); err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	models.ApplyDefaultSettings(&j.settings)

	logger.Debug("Journal loaded", "logs", len(j.logs), "projects", len(j.projects), "store", store.GetConfigPath())
	return j, nil
}

// Now returns the clock's time in the configured timezone.
func (j *Journal) Now() time.Time {
	now, err := utils.InTimezone(j.clock(), j.settings.Timezone)
	if err != nil {
		logger.Warn("Invalid timezone in settings, using clock location", "timezone", j.settings.Timezone, "error", err)
	}
	return now
}

func (j *Journal) Today() string {
	return utils.DateString(j.Now())
}

func (j *Journal) stamp() string {
	return j.clock().UTC().Format(time.RFC3339)
}

func newID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("failed to generate id: %w", err)
	}
	return id.String(), nil
}

// Logs returns a copy of the entries, newest first.
func (j *Journal) Logs() []models.WorkLog {
	return append([]models.WorkLog(nil), j.logs...)
}

func (j *Journal) Projects() []models.Project {
	return append([]models.Project(nil), j.projects...)
}

func (j *Journal) KnownTags() []string {
	return append([]string(nil), j.tags...)
}

func (j *Journal) Settings() models.Settings {
	return j.settings
}

func (j *Journal) SaveSettings(settings models.Settings) error {
	models.ApplyDefaultSettings(&settings)
	if err := j.store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	j.settings = settings
	return nil
}

// Entry looks up an entry by its full id or by a unique id suffix, the
// form list output prints.
func (j *Journal) Entry(id string) (models.WorkLog, error) {
	i, err := j.locate(id)
	if err != nil {
		return models.WorkLog{}, err
	}
	return j.logs[i], nil
}

func (j *Journal) locate(id string) (int, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return -1, fmt.Errorf("%w: empty log entry id", apperrors.ErrInvalidArgument)
	}
	for i := range j.logs {
		if j.logs[i].ID == id {
			return i, nil
		}
	}

	found := -1
	for i := range j.logs {
		if !strings.HasSuffix(j.logs[i].ID, id) {
			continue
		}
		if found >= 0 && j.logs[found].ID != j.logs[i].ID {
			return -1, fmt.Errorf("%w: log entry id %s is ambiguous", apperrors.ErrInvalidArgument, id)
		}
		if found < 0 {
			found = i
		}
	}
	if found < 0 {
		return -1, fmt.Errorf("%w: log entry %s", apperrors.ErrNotFound, id)
	}
	return found, nil
}

// build derives a full entry from d. ID and CreatedAt are left to the caller.
func (j *Journal) build(d Draft, tags models.TagSet) (models.WorkLog, error) {
	entry := models.WorkLog{
		Date:      strings.TrimSpace(d.Date),
		StartTime: strings.TrimSpace(d.StartTime),
		EndTime:   strings.TrimSpace(d.EndTime),
		Title:     strings.TrimSpace(d.Title),
		ProjectID: strings.TrimSpace(d.ProjectID),
		Content:   d.Content,
		Tags:      tags.Values(),
		UpdatedAt: j.stamp(),
	}
	if entry.Date == "" {
		entry.Date = j.Today()
	}

	duration, err := models.ComputeDuration(entry.StartTime, entry.EndTime)
	if err != nil {
		return models.WorkLog{}, err
	}
	entry.Duration = duration

	if p, ok := j.ProjectByID(entry.ProjectID); ok {
		entry.ProjectName = p.Name
	}

	if err := entry.Validate(); err != nil {
		return models.WorkLog{}, err
	}
	return entry, nil
}

// AddEntry saves a new entry at the front of the collection. On success the
// returned tag set is empty, ready for the next entry; on failure tags is
// returned unchanged.
func (j *Journal) AddEntry(d Draft, tags models.TagSet) (models.WorkLog, models.TagSet, error) {
	entry, err := j.build(d, tags)
	if err != nil {
		return models.WorkLog{}, tags, err
	}
	if entry.ID, err = newID(); err != nil {
		return models.WorkLog{}, tags, err
	}
	entry.CreatedAt = entry.UpdatedAt

	if err := j.saveLogs(prepend(entry, j.logs)); err != nil {
		return models.WorkLog{}, tags, err
	}
	j.rememberTags(entry.Tags)

	logger.Debug("Added log entry", "id", entry.ID, "duration", entry.Duration)
	return entry, tags.Clear(), nil
}

// EditEntry replaces every field of the entry except its id and creation
// time.
func (j *Journal) EditEntry(id string, d Draft, tags models.TagSet) (models.WorkLog, error) {
	i, err := j.locate(id)
	if err != nil {
		return models.WorkLog{}, err
	}

	entry, err := j.build(d, tags)
	if err != nil {
		return models.WorkLog{}, err
	}
	entry.ID = j.logs[i].ID
	entry.CreatedAt = j.logs[i].CreatedAt

	logs := j.Logs()
	logs[i] = entry
	if err := j.saveLogs(logs); err != nil {
		return models.WorkLog{}, err
	}
	j.rememberTags(entry.Tags)
	return entry, nil
}

func (j *Journal) DeleteEntry(id string) error {
	i, err := j.locate(id)
	if err != nil {
		return err
	}

	logs := make([]models.WorkLog, 0, len(j.logs)-1)
	logs = append(append(logs, j.logs[:i]...), j.logs[i+1:]...)
	return j.saveLogs(logs)
}

// CopyEntry duplicates an entry onto today's date with a fresh id and
// timestamps.
func (j *Journal) CopyEntry(id string) (models.WorkLog, error) {
	src, err := j.Entry(id)
	if err != nil {
		return models.WorkLog{}, err
	}

	dup := src
	dup.Tags = append([]string{}, src.Tags...)
	if dup.ID, err = newID(); err != nil {
		return models.WorkLog{}, err
	}
	dup.Date = j.Today()
	dup.CreatedAt = j.stamp()
	dup.UpdatedAt = dup.CreatedAt

	if err := j.saveLogs(prepend(dup, j.logs)); err != nil {
		return models.WorkLog{}, err
	}
	return dup, nil
}

// ReplaceLogs saves logs as the whole collection. Used by repairs that
// rewrite entries in bulk.
func (j *Journal) ReplaceLogs(logs []models.WorkLog) error {
	return j.saveLogs(append([]models.WorkLog{}, logs...))
}

func prepend(entry models.WorkLog, logs []models.WorkLog) []models.WorkLog {
	out := make([]models.WorkLog, 0, len(logs)+1)
	return append(append(out, entry), logs...)
}

func (j *Journal) saveLogs(logs []models.WorkLog) error {
	if err := j.store.SaveLogs(logs); err != nil {
		return fmt.Errorf("failed to save logs: %w", err)
	}
	j.logs = logs
	return nil
}

// rememberTags grows the known tag set. A failed save is logged; the entry
// itself is already persisted.
func (j *Journal) rememberTags(tags []string) {
	merged := models.MergeKnownTags(j.tags, tags...)
	if len(merged) == len(j.tags) {
		return
	}
	if err := j.store.SaveKnownTags(merged); err != nil {
		logger.Warn("Failed to save known tags", "error", err)
		return
	}
	j.tags = merged
}

// Query runs spec against the current entries.
func (j *Journal) Query(spec query.Spec) (query.Result, error) {
	return query.Run(j.logs, spec, j.Now())
}

// Metrics aggregates the current snapshot as of now.
func (j *Journal) Metrics() stats.Metrics {
	return stats.Aggregate(j.logs, j.projects, j.Now(), j.settings.DoneTag)
}

// Export builds an export document of the full snapshot.
func (j *Journal) Export() transfer.Document {
	return transfer.NewDocument(j.Logs(), j.Projects(), j.settings, j.clock())
}

// Import applies doc. Nothing in memory changes unless every collection was
// saved; a failed save rolls back the ones already written.
func (j *Journal) Import(doc transfer.Document, mode transfer.Mode) error {
	next, err := transfer.Merge(transfer.Snapshot{
		Logs:     j.logs,
		Projects: j.projects,
		Settings: j.settings,
	}, doc, mode)
	if err != nil {
		return err
	}

	var tags []string
	for _, l := range next.Logs {
		tags = append(tags, l.Tags...)
	}
	knownTags := models.MergeKnownTags(j.tags, tags...)

	var undo []func() error
	rollback := func(cause error) error {
		for i := len(undo) - 1; i >= 0; i-- {
			if err := undo[i](); err != nil {
				logger.Error("Failed to roll back import", "error", err)
			}
		}
		return cause
	}

	prevLogs, prevProjects, prevSettings := j.logs, j.projects, j.settings
	if err := j.store.SaveLogs(next.Logs); err != nil {
		return fmt.Errorf("failed to import logs: %w", err)
	}
	undo = append(undo, func() error { return j.store.SaveLogs(prevLogs) })

	if err := j.store.SaveProjects(next.Projects); err != nil {
		return rollback(fmt.Errorf("failed to import projects: %w", err))
	}
	undo = append(undo, func() error { return j.store.SaveProjects(prevProjects) })

	if err := j.store.SaveSettings(next.Settings); err != nil {
		return rollback(fmt.Errorf("failed to import settings: %w", err))
	}
	undo = append(undo, func() error { return j.store.SaveSettings(prevSettings) })

	if err := j.store.SaveKnownTags(knownTags); err != nil {
		return rollback(fmt.Errorf("failed to import tags: %w", err))
	}

	j.logs, j.projects, j.settings, j.tags = next.Logs, next.Projects, next.Settings, knownTags
	logger.Info("Imported data", "logs", len(next.Logs), "projects", len(next.Projects), "merge", mode == transfer.ModeMerge)
	return nil
}

// ProjectByID is a soft lookup: orphaned or empty ids report false.
func (j *Journal) ProjectByID(id string) (models.Project, bool) {
	if id == "" {
		return models.Project{}, false
	}
	for _, p := range j.projects {
		if p.ID == id {
			return p, true
		}
	}
	return models.Project{}, false
}

func (j *Journal) projectIndex(id string) int {
	for i := range j.projects {
		if j.projects[i].ID == id {
			return i
		}
	}
	return -1
}

func normalizeProject(p *models.Project) {
	p.Name = strings.TrimSpace(p.Name)
	p.Description = strings.TrimSpace(p.Description)
	if p.Color == "" {
		p.Color = constants.DefaultProjectColor
	}
	if p.Status == "" {
		p.Status = constants.ProjectActive
	}
}

// AddProject appends a new project with a fresh id.
func (j *Journal) AddProject(p models.Project) (models.Project, error) {
	normalizeProject(&p)
	if err := p.Validate(); err != nil {
		return models.Project{}, err
	}

	var err error
	if p.ID, err = newID(); err != nil {
		return models.Project{}, err
	}
	p.CreatedAt = j.stamp()
	p.UpdatedAt = p.CreatedAt

	projects := append(j.Projects(), p)
	if err := j.saveProjects(projects); err != nil {
		return models.Project{}, err
	}
	return p, nil
}

// UpdateProject replaces the project with p.ID. Entries keep the project
// name they were saved with.
func (j *Journal) UpdateProject(p models.Project) (models.Project, error) {
	i := j.projectIndex(p.ID)
	if i < 0 {
		return models.Project{}, fmt.Errorf("%w: project %s", apperrors.ErrNotFound, p.ID)
	}
	normalizeProject(&p)
	if err := p.Validate(); err != nil {
		return models.Project{}, err
	}
	p.CreatedAt = j.projects[i].CreatedAt
	if p.CreatedAt == "" {
		p.CreatedAt = j.stamp()
	}
	p.UpdatedAt = j.stamp()

	projects := j.Projects()
	projects[i] = p
	if err := j.saveProjects(projects); err != nil {
		return models.Project{}, err
	}
	return p, nil
}

// DeleteProject removes the project. Its entries are kept and keep
// pointing at the removed id.
func (j *Journal) DeleteProject(id string) error {
	i := j.projectIndex(id)
	if i < 0 {
		return fmt.Errorf("%w: project %s", apperrors.ErrNotFound, id)
	}
	projects := make([]models.Project, 0, len(j.projects)-1)
	projects = append(append(projects, j.projects[:i]...), j.projects[i+1:]...)
	return j.saveProjects(projects)
}

func (j *Journal) saveProjects(projects []models.Project) error {
	if err := j.store.SaveProjects(projects); err != nil {
		return fmt.Errorf("failed to save projects: %w", err)
	}
	j.projects = projects
	return nil
}

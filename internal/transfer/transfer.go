// Package transfer reads and writes the portable export formats: a JSON
// document holding the full snapshot and a flat CSV of entries.
package transfer

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/julianstephens/worklog/internal/constants"
	apperrors "github.com/julianstephens/worklog/internal/errors"
	"github.com/julianstephens/worklog/internal/models"
)

// ErrUnsupportedFormat is returned for files that cannot be imported.
var ErrUnsupportedFormat = errors.New("unsupported import format")

type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// Mode selects how an imported document combines with existing data.
type Mode int

const (
	// ModeReplace discards existing data.
	ModeReplace Mode = iota
	// ModeMerge puts imported entries and projects ahead of existing ones.
	// Nothing is deduplicated.
	ModeMerge
)

// CSVHeader is the fixed column set of the CSV export.
var CSVHeader = []string{"Date", "Start Time", "End Time", "Duration", "Title", "Project", "Content"}

// Document is the JSON export shape.
type Document struct {
	Logs       []models.WorkLog `json:"logs"`
	Projects   []models.Project `json:"projects"`
	Settings   models.Settings  `json:"settings"`
	ExportDate string           `json:"exportDate"`

	// settings exactly as read, so a merge only overlays keys present in
	// the file.
	rawSettings json.RawMessage
}

// NewDocument builds an export document stamped with now.
func NewDocument(logs []models.WorkLog, projects []models.Project, settings models.Settings, now time.Time) Document {
	if logs == nil {
		logs = []models.WorkLog{}
	}
	if projects == nil {
		projects = []models.Project{}
	}
	return Document{
		Logs:       logs,
		Projects:   projects,
		Settings:   settings,
		ExportDate: now.UTC().Format(time.RFC3339),
	}
}

// WriteJSON writes doc as indented JSON.
func WriteJSON(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode export document: %w", err)
	}
	return nil
}

// WriteCSV writes one row per entry under CSVHeader. Newlines in content are
// flattened to spaces.
func WriteCSV(w io.Writer, logs []models.WorkLog) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, l := range logs {
		content := strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(l.Content)
		row := []string{l.Date, l.StartTime, l.EndTime, l.Duration.String(), l.Title, l.ProjectName, content}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row for %s: %w", l.ID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", apperrors.ErrMalformedInput, fmt.Sprintf(format, args...))
}

// ReadJSON parses an export document. Any parse failure or unexpected
// shape is reported as ErrMalformedInput.
func ReadJSON(r io.Reader) (Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Document{}, fmt.Errorf("failed to read import document: %w", err)
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil || top == nil {
		return Document{}, malformed("document is not a JSON object")
	}

	var doc Document
	if raw, ok := top["logs"]; ok && !isNull(raw) {
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return Document{}, malformed("logs must be an array")
		}
		doc.Logs = make([]models.WorkLog, 0, len(items))
		for i, item := range items {
			var l models.WorkLog
			if err := json.Unmarshal(item, &l); err != nil {
				return Document{}, malformed("log %d: %v", i, err)
			}
			if l.ID == "" {
				return Document{}, malformed("log %d has no id", i)
			}
			doc.Logs = append(doc.Logs, l)
		}
	}

	if raw, ok := top["projects"]; ok && !isNull(raw) {
		if err := json.Unmarshal(raw, &doc.Projects); err != nil {
			return Document{}, malformed("projects must be an array of projects: %v", err)
		}
	}

	if raw, ok := top["settings"]; ok && !isNull(raw) {
		if err := json.Unmarshal(raw, &doc.Settings); err != nil {
			return Document{}, malformed("settings must be an object: %v", err)
		}
		doc.rawSettings = raw
	}

	if raw, ok := top["exportDate"]; ok {
		_ = json.Unmarshal(raw, &doc.ExportDate)
	}

	return doc, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// Snapshot is the full state an import applies to.
type Snapshot struct {
	Logs     []models.WorkLog
	Projects []models.Project
	Settings models.Settings
}

// Merge combines existing state with an imported document. The inputs are
// not modified.
func Merge(existing Snapshot, incoming Document, mode Mode) (Snapshot, error) {
	var out Snapshot

	switch mode {
	case ModeReplace:
		out.Logs = append([]models.WorkLog{}, incoming.Logs...)
		out.Projects = append([]models.Project{}, incoming.Projects...)
		out.Settings = models.Settings{}
		if err := overlaySettings(&out.Settings, incoming); err != nil {
			return Snapshot{}, err
		}
	case ModeMerge:
		out.Logs = make([]models.WorkLog, 0, len(incoming.Logs)+len(existing.Logs))
		out.Logs = append(append(out.Logs, incoming.Logs...), existing.Logs...)
		out.Projects = make([]models.Project, 0, len(incoming.Projects)+len(existing.Projects))
		out.Projects = append(append(out.Projects, incoming.Projects...), existing.Projects...)
		out.Settings = existing.Settings
		if err := overlaySettings(&out.Settings, incoming); err != nil {
			return Snapshot{}, err
		}
	default:
		return Snapshot{}, fmt.Errorf("%w: unknown import mode %d", apperrors.ErrInvalidArgument, mode)
	}

	models.ApplyDefaultSettings(&out.Settings)
	return out, nil
}

func overlaySettings(base *models.Settings, doc Document) error {
	raw := doc.rawSettings
	if raw == nil {
		if doc.Settings == (models.Settings{}) {
			return nil
		}
		var err error
		if raw, err = json.Marshal(doc.Settings); err != nil {
			return fmt.Errorf("failed to encode settings: %w", err)
		}
	}
	if err := json.Unmarshal(raw, base); err != nil {
		return malformed("settings: %v", err)
	}
	return nil
}

// DetectFormat picks the import format from a file name.
func DetectFormat(filename string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		return FormatJSON, nil
	case ".csv":
		return FormatCSV, fmt.Errorf("%w: csv import is not supported, export as json instead", ErrUnsupportedFormat)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Base(filename))
	}
}

// ParseFormat validates an export format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatJSON, FormatCSV:
		return f, nil
	default:
		return "", fmt.Errorf("%w: unknown export format %q (expected json|csv)", apperrors.ErrInvalidArgument, s)
	}
}

// Filename returns the default export file name for the date of now.
func Filename(format Format, now time.Time) string {
	date := now.Format(constants.DateFormat)
	if format == FormatCSV {
		return "work-logs-" + date + ".csv"
	}
	return "work-log-backup-" + date + ".json"
}

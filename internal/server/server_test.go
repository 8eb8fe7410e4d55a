package server

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/worklog/internal/journal"
	"github.com/julianstephens/worklog/internal/models"
	"github.com/julianstephens/worklog/internal/query"
	"github.com/julianstephens/worklog/internal/storage"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	store := storage.NewJSONStore(filepath.Join(t.TempDir(), "worklog.json"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	logs := []models.WorkLog{
		{ID: "a", Date: "2024-06-12", StartTime: "09:00", EndTime: "11:00", Duration: 2, Title: "Write report", Tags: []string{"done"}},
		{ID: "b", Date: "2024-06-11", StartTime: "13:00", EndTime: "13:30", Duration: 0.5, Title: "Standup", Tags: []string{}},
		{ID: "c", Date: "2024-05-02", StartTime: "10:00", EndTime: "11:00", Duration: 1, Title: "Old review", Tags: []string{}},
	}
	if err := store.SaveLogs(logs); err != nil {
		t.Fatalf("failed to seed logs: %v", err)
	}

	clock := func() time.Time { return time.Date(2024, 6, 12, 17, 0, 0, 0, time.Local) }
	j, err := journal.Open(store, clock)
	if err != nil {
		t.Fatalf("failed to open journal: %v", err)
	}
	return New(j)
}

func get(t *testing.T, s *Server, target string) (int, string) {
	t.Helper()
	resp, err := s.App().Test(httptest.NewRequest("GET", target, nil), -1)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}
	return resp.StatusCode, string(body)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	status, body := get(t, s, "/health")
	if status != 200 || !strings.Contains(body, `"healthy"`) {
		t.Errorf("GET /health = %d %s", status, body)
	}
}

func TestListLogs(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name      string
		target    string
		wantIDs   []string
		wantTotal int
		wantPage  int
	}{
		{name: "default", target: "/api/v1/logs", wantIDs: []string{"a", "b", "c"}, wantTotal: 3, wantPage: 1},
		{name: "month", target: "/api/v1/logs?period=month", wantIDs: []string{"a", "b"}, wantTotal: 2, wantPage: 1},
		{name: "search", target: "/api/v1/logs?search=REPORT", wantIDs: []string{"a"}, wantTotal: 1, wantPage: 1},
		{name: "custom range", target: "/api/v1/logs?from=2024-05-01&to=2024-05-31", wantIDs: []string{"c"}, wantTotal: 1, wantPage: 1},
		{name: "duration sort", target: "/api/v1/logs?sort=duration-asc", wantIDs: []string{"b", "c", "a"}, wantTotal: 3, wantPage: 1},
		{name: "page clamped", target: "/api/v1/logs?pageSize=2&page=9", wantIDs: []string{"c"}, wantTotal: 3, wantPage: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := get(t, s, tt.target)
			if status != 200 {
				t.Fatalf("status = %d, body = %s", status, body)
			}
			var result query.Result
			if err := json.Unmarshal([]byte(body), &result); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}
			if result.TotalMatched != tt.wantTotal || result.Page != tt.wantPage {
				t.Errorf("total=%d page=%d, want %d and %d", result.TotalMatched, result.Page, tt.wantTotal, tt.wantPage)
			}
			var ids []string
			for _, l := range result.Logs {
				ids = append(ids, l.ID)
			}
			if strings.Join(ids, ",") != strings.Join(tt.wantIDs, ",") {
				t.Errorf("ids = %v, want %v", ids, tt.wantIDs)
			}
		})
	}
}

func TestListLogsBadRequest(t *testing.T) {
	s := newTestServer(t)
	for _, target := range []string{
		"/api/v1/logs?period=fortnight",
		"/api/v1/logs?sort=random",
		"/api/v1/logs?pageSize=0",
		"/api/v1/logs?page=abc",
	} {
		status, body := get(t, s, target)
		if status != 400 || !strings.Contains(body, "invalid_argument") {
			t.Errorf("GET %s = %d %s, want 400", target, status, body)
		}
	}
}

func TestGetLog(t *testing.T) {
	s := newTestServer(t)

	status, body := get(t, s, "/api/v1/logs/b")
	if status != 200 || !strings.Contains(body, `"duration":"0.50"`) {
		t.Errorf("GET /logs/b = %d %s", status, body)
	}

	status, body = get(t, s, "/api/v1/logs/missing")
	if status != 404 || !strings.Contains(body, "not_found") {
		t.Errorf("GET /logs/missing = %d %s, want 404", status, body)
	}
}

func TestMetrics(t *testing.T) {
	s := newTestServer(t)
	status, body := get(t, s, "/api/v1/metrics")
	if status != 200 {
		t.Fatalf("status = %d, body = %s", status, body)
	}

	var got struct {
		TodayHours     float64 `json:"todayHours"`
		MonthLogCount  int     `json:"monthLogCount"`
		CompletionRate int     `json:"completionRate"`
		DailyGoal      struct {
			Logged float64 `json:"logged"`
		} `json:"dailyGoal"`
	}
	if err := json.Unmarshal([]byte(body), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if got.TodayHours != 2 || got.MonthLogCount != 2 || got.CompletionRate != 33 || got.DailyGoal.Logged != 2 {
		t.Errorf("unexpected metrics: %+v", got)
	}
}

func TestProjects(t *testing.T) {
	s := newTestServer(t)
	status, body := get(t, s, "/api/v1/projects")
	var projects []models.Project
	if status != 200 || json.Unmarshal([]byte(body), &projects) != nil {
		t.Fatalf("GET /projects = %d %s", status, body)
	}
	if len(projects) != len(models.DefaultProjects()) {
		t.Errorf("expected seeded projects, got %d", len(projects))
	}
}

func TestExport(t *testing.T) {
	s := newTestServer(t)

	resp, err := s.App().Test(httptest.NewRequest("GET", "/api/v1/export?format=csv", nil), -1)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if !strings.Contains(resp.Header.Get("Content-Disposition"), "work-logs-2024-06-12.csv") {
		t.Errorf("Content-Disposition = %q", resp.Header.Get("Content-Disposition"))
	}
	if !strings.HasPrefix(string(body), "Date,Start Time,End Time,Duration,Title,Project,Content") {
		t.Errorf("unexpected csv:\n%s", body)
	}

	status, body2 := get(t, s, "/api/v1/export")
	if status != 200 || !strings.Contains(body2, `"exportDate"`) {
		t.Errorf("json export = %d %s", status, body2)
	}

	status, _ = get(t, s, "/api/v1/export?format=xml")
	if status != 400 {
		t.Errorf("xml export status = %d, want 400", status)
	}
}

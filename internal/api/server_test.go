package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/leagueroast/gazette/internal/archive"
	"github.com/leagueroast/gazette/internal/history"
)

type mockStore struct {
	issues []archive.Issue
	err    error
}

func (m *mockStore) Issue(season string, week int) (*archive.Issue, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.issues {
		if m.issues[i].Season == season && m.issues[i].Week == week {
			return &m.issues[i], nil
		}
	}
	return nil, errors.New("not found")
}

func (m *mockStore) RecentIssues(limit int) ([]archive.Issue, error) {
	if m.err != nil {
		return nil, m.err
	}
	if limit > len(m.issues) {
		limit = len(m.issues)
	}
	return m.issues[:limit], nil
}

type mockStandings struct {
	rankings []history.TeamRanking
}

func (m *mockStandings) Rankings() []history.TeamRanking { return m.rankings }

func testIssues() []archive.Issue {
	return []archive.Issue{
		{RunID: "run-2", Season: "2025", Week: 2, Subject: "Week 2 Gazette", HTML: "<p>two</p>", PublishedAt: time.Now()},
		{RunID: "run-1", Season: "2025", Week: 1, Subject: "Week 1 Gazette", HTML: "<p>one</p>", PublishedAt: time.Now().Add(-time.Hour)},
	}
}

func TestHandleHealth(t *testing.T) {
	s := NewServer(":0", &mockStore{}, &mockStandings{}, "2025")

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	s.handleHealth(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["ok"] != true {
		t.Error("expected ok=true")
	}
	if resp["season"] != "2025" {
		t.Errorf("expected season=2025, got %v", resp["season"])
	}
}

func TestHandleIssues(t *testing.T) {
	s := NewServer(":0", &mockStore{issues: testIssues()}, &mockStandings{}, "2025")

	req := httptest.NewRequest(http.MethodGet, "/api/issues?limit=1", nil)
	w := httptest.NewRecorder()
	s.handleIssues(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp struct {
		Issues []map[string]interface{} `json:"issues"`
		Count  int                      `json:"count"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Count != 1 || len(resp.Issues) != 1 {
		t.Fatalf("expected one issue, got %d", resp.Count)
	}
	if resp.Issues[0]["subject"] != "Week 2 Gazette" {
		t.Errorf("unexpected subject: %v", resp.Issues[0]["subject"])
	}
	if _, has := resp.Issues[0]["html"]; has {
		t.Error("listing should not include issue bodies")
	}
}

func TestHandleIssue(t *testing.T) {
	s := NewServer(":0", &mockStore{issues: testIssues()}, &mockStandings{}, "2025")

	req := httptest.NewRequest(http.MethodGet, "/api/issue?week=1", nil)
	w := httptest.NewRecorder()
	s.handleIssue(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var issue archive.Issue
	if err := json.NewDecoder(w.Body).Decode(&issue); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if issue.RunID != "run-1" || issue.HTML != "<p>one</p>" {
		t.Errorf("unexpected issue: %+v", issue)
	}
}

func TestHandleIssueMissingWeek(t *testing.T) {
	s := NewServer(":0", &mockStore{issues: testIssues()}, &mockStandings{}, "2025")

	req := httptest.NewRequest(http.MethodGet, "/api/issue", nil)
	w := httptest.NewRecorder()
	s.handleIssue(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestHandleIssueNotFound(t *testing.T) {
	s := NewServer(":0", &mockStore{}, &mockStandings{}, "2025")

	req := httptest.NewRequest(http.MethodGet, "/api/issue?week=9", nil)
	w := httptest.NewRecorder()
	s.handleIssue(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestHandleRankings(t *testing.T) {
	standings := &mockStandings{rankings: []history.TeamRanking{
		{Rank: 1, TeamID: "0001", Name: "Alpha", AvgPoints: 120.5},
	}}
	s := NewServer(":0", &mockStore{}, standings, "2025")

	req := httptest.NewRequest(http.MethodGet, "/api/rankings", nil)
	w := httptest.NewRecorder()
	s.handleRankings(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp struct {
		Rankings []history.TeamRanking `json:"rankings"`
		Count    int                   `json:"count"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Count != 1 || resp.Rankings[0].Name != "Alpha" {
		t.Errorf("unexpected rankings: %+v", resp.Rankings)
	}
}

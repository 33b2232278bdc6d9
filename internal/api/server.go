// Package api exposes archived issues and season standings over a
// small read-only HTTP API.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/leagueroast/gazette/internal/archive"
	"github.com/leagueroast/gazette/internal/history"
)

const defaultIssueLimit = 10

// IssueStore exposes the archive for the API layer.
type IssueStore interface {
	Issue(season string, week int) (*archive.Issue, error)
	RecentIssues(limit int) ([]archive.Issue, error)
}

// StandingsSource supplies current season rankings.
type StandingsSource interface {
	Rankings() []history.TeamRanking
}

// Server is a lightweight HTTP API over the issue archive.
type Server struct {
	httpServer *http.Server
	issues     IssueStore
	standings  StandingsSource
	season     string
	startedAt  time.Time
}

// NewServer creates a new API server bound to addr.
func NewServer(addr string, issues IssueStore, standings StandingsSource, season string) *Server {
	s := &Server{
		issues:    issues,
		standings: standings,
		season:    season,
		startedAt: time.Now(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/issues", s.handleIssues)
	mux.HandleFunc("/api/issue", s.handleIssue)
	mux.HandleFunc("/api/rankings", s.handleRankings)

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Start begins serving HTTP requests.
func (s *Server) Start(_ context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	log.Printf("api server listening on %s", s.httpServer.Addr)
	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("api server: %v", err)
		}
	}()
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// GET /api/health: liveness probe.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, map[string]interface{}{
		"ok":       true,
		"season":   s.season,
		"uptime_s": time.Since(s.startedAt).Seconds(),
	})
}

// GET /api/issues?limit=10: recent archived issues, newest first.
func (s *Server) handleIssues(w http.ResponseWriter, r *http.Request) {
	limit := defaultIssueLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	issues, err := s.issues.RecentIssues(limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	type issueEntry struct {
		RunID       string    `json:"run_id"`
		Season      string    `json:"season"`
		Week        int       `json:"week"`
		Subject     string    `json:"subject"`
		PublishedAt time.Time `json:"published_at"`
	}
	entries := make([]issueEntry, len(issues))
	for i, issue := range issues {
		entries[i] = issueEntry{
			RunID:       issue.RunID,
			Season:      issue.Season,
			Week:        issue.Week,
			Subject:     issue.Subject,
			PublishedAt: issue.PublishedAt,
		}
	}
	s.writeJSON(w, map[string]interface{}{"issues": entries, "count": len(entries)})
}

// GET /api/issue?week=3: one archived issue with full body.
func (s *Server) handleIssue(w http.ResponseWriter, r *http.Request) {
	week, err := strconv.Atoi(r.URL.Query().Get("week"))
	if err != nil || week <= 0 {
		http.Error(w, "week query parameter required", http.StatusBadRequest)
		return
	}
	season := r.URL.Query().Get("season")
	if season == "" {
		season = s.season
	}

	issue, err := s.issues.Issue(season, week)
	if err != nil {
		http.Error(w, "issue not found", http.StatusNotFound)
		return
	}
	s.writeJSON(w, issue)
}

// GET /api/rankings: current season standings.
func (s *Server) handleRankings(w http.ResponseWriter, _ *http.Request) {
	rankings := s.standings.Rankings()
	s.writeJSON(w, map[string]interface{}{"rankings": rankings, "count": len(rankings)})
}

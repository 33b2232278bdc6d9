// Package archive stores published newsletter issues in SQLite so past
// weeks can be re-read without re-running a build.
package archive

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Issue is one archived newsletter issue.
type Issue struct {
	RunID       string    `db:"run_id" json:"run_id"`
	Season      string    `db:"season" json:"season"`
	Week        int       `db:"week" json:"week"`
	Subject     string    `db:"subject" json:"subject"`
	HTML        string    `db:"html" json:"html"`
	Summary     string    `db:"summary" json:"summary"`
	PublishedAt time.Time `db:"published_at" json:"published_at"`
}

// DB wraps a SQLite connection for the issue archive.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates the archive database at path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate archive: %w", err)
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS issues (
		run_id TEXT PRIMARY KEY,
		season TEXT NOT NULL,
		week INTEGER NOT NULL,
		subject TEXT NOT NULL,
		html TEXT NOT NULL,
		summary TEXT NOT NULL,
		published_at TIMESTAMP NOT NULL
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_issues_season_week ON issues(season, week);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveIssue archives one issue, replacing any earlier issue for the
// same season and week. Returns the run ID assigned to this save.
func (db *DB) SaveIssue(season string, week int, subject, html, summary string) (string, error) {
	runID := uuid.NewString()
	_, err := db.conn.Exec(`INSERT INTO issues
		(run_id, season, week, subject, html, summary, published_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(season, week) DO UPDATE SET
			run_id = excluded.run_id,
			subject = excluded.subject,
			html = excluded.html,
			summary = excluded.summary,
			published_at = excluded.published_at`,
		runID, season, week, subject, html, summary, time.Now().UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("insert issue week %d: %w", week, err)
	}
	log.Printf("archived issue season=%s week=%d run=%s", season, week, runID)
	return runID, nil
}

// Issue returns the archived issue for one season and week.
func (db *DB) Issue(season string, week int) (*Issue, error) {
	var issue Issue
	err := db.conn.Get(&issue,
		"SELECT run_id, season, week, subject, html, summary, published_at FROM issues WHERE season = ? AND week = ?",
		season, week,
	)
	if err != nil {
		return nil, err
	}
	return &issue, nil
}

// RecentIssues returns the most recently published issues, newest first.
func (db *DB) RecentIssues(limit int) ([]Issue, error) {
	var issues []Issue
	err := db.conn.Select(&issues,
		"SELECT run_id, season, week, subject, html, summary, published_at FROM issues ORDER BY published_at DESC, week DESC LIMIT ?",
		limit,
	)
	return issues, err
}

package archive

import (
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "gazette.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSaveAndLoadIssue(t *testing.T) {
	db := openTestDB(t)

	runID, err := db.SaveIssue("2025", 3, "Week 3: The Roast", "<h1>hi</h1>", "short version")
	if err != nil {
		t.Fatalf("SaveIssue: %v", err)
	}
	if runID == "" {
		t.Fatal("expected non-empty run ID")
	}

	issue, err := db.Issue("2025", 3)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if issue.RunID != runID || issue.Subject != "Week 3: The Roast" || issue.HTML != "<h1>hi</h1>" {
		t.Errorf("unexpected issue: %+v", issue)
	}
}

func TestSaveIssueReplacesSameWeek(t *testing.T) {
	db := openTestDB(t)

	first, err := db.SaveIssue("2025", 3, "draft", "<p>v1</p>", "v1")
	if err != nil {
		t.Fatalf("SaveIssue: %v", err)
	}
	second, err := db.SaveIssue("2025", 3, "final", "<p>v2</p>", "v2")
	if err != nil {
		t.Fatalf("SaveIssue rerun: %v", err)
	}
	if first == second {
		t.Error("rerun should assign a new run ID")
	}

	issue, err := db.Issue("2025", 3)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if issue.Subject != "final" || issue.HTML != "<p>v2</p>" || issue.RunID != second {
		t.Errorf("rerun should replace the archived issue, got %+v", issue)
	}

	issues, err := db.RecentIssues(10)
	if err != nil {
		t.Fatalf("RecentIssues: %v", err)
	}
	if len(issues) != 1 {
		t.Errorf("expected one archived issue for the week, got %d", len(issues))
	}
}

func TestIssueNotFound(t *testing.T) {
	db := openTestDB(t)
	if _, err := db.Issue("2025", 99); err == nil {
		t.Fatal("expected error for missing issue")
	}
}

func TestRecentIssuesOrder(t *testing.T) {
	db := openTestDB(t)

	for week := 1; week <= 3; week++ {
		if _, err := db.SaveIssue("2025", week, "subject", "<p>body</p>", "summary"); err != nil {
			t.Fatalf("SaveIssue week %d: %v", week, err)
		}
	}

	issues, err := db.RecentIssues(2)
	if err != nil {
		t.Fatalf("RecentIssues: %v", err)
	}
	if len(issues) != 2 {
		t.Fatalf("expected 2 issues, got %d", len(issues))
	}
	if issues[0].Week < issues[1].Week {
		t.Errorf("issues should be newest first: weeks %d, %d", issues[0].Week, issues[1].Week)
	}
}

package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leagueroast/gazette/internal/config"
	"github.com/leagueroast/gazette/internal/history"
	"github.com/leagueroast/gazette/internal/narrative"
)

const testPhrases = `
generic:
  - "a rough week all around"
  - "the less said the better"
df_80s:
  - "an eighty-point shrug"
top_score: []
blowout: []
narrow: []
podium: []
`

func testConfig(t *testing.T) config.Config {
	t.Helper()
	dir := t.TempDir()

	phrasesPath := filepath.Join(dir, "phrases.yaml")
	if err := os.WriteFile(phrasesPath, []byte(testPhrases), 0o644); err != nil {
		t.Fatalf("write phrases: %v", err)
	}

	cfg := config.Default()
	cfg.LeagueName = "Roast League"
	cfg.StateDir = filepath.Join(dir, "state")
	cfg.PhrasesPath = phrasesPath
	cfg.SalaryPath = ""
	return cfg
}

func testBundle(week int) *narrative.WeekBundle {
	return &narrative.WeekBundle{
		Season: "2025",
		Week:   week,
		Teams: []narrative.Team{
			{ID: "0001", Name: "Alpha"},
			{ID: "0002", Name: "Bravo"},
		},
		Scores: []narrative.Score{
			{TeamID: "0001", Points: 120.5, Rank: 1, SalarySpent: 48000},
			{TeamID: "0002", Points: 85.2, Rank: 2, SalarySpent: 49500},
		},
	}
}

type fakeFetcher struct {
	bundle *narrative.WeekBundle
	err    error
}

func (f *fakeFetcher) FetchWeek(ctx context.Context, week int) (*narrative.WeekBundle, error) {
	return f.bundle, f.err
}

type fakeOdds struct {
	projections map[string]float64
	err         error
}

func (f *fakeOdds) Enabled() bool { return true }
func (f *fakeOdds) Projections(ctx context.Context, week int) (map[string]float64, error) {
	return f.projections, f.err
}

type fakeMailer struct {
	subject string
	html    string
	err     error
}

func (f *fakeMailer) Enabled() bool { return true }
func (f *fakeMailer) SendCampaign(ctx context.Context, subject, html string) (string, error) {
	f.subject, f.html = subject, html
	if f.err != nil {
		return "", f.err
	}
	return "campaign-1", nil
}

type fakeSlack struct {
	issues   []string
	failures []string
}

func (f *fakeSlack) Enabled() bool { return true }
func (f *fakeSlack) NotifyIssue(ctx context.Context, week int, text string) error {
	f.issues = append(f.issues, text)
	return nil
}
func (f *fakeSlack) NotifyFailure(ctx context.Context, week int, cause error) error {
	f.failures = append(f.failures, cause.Error())
	return nil
}

type fakeArchiver struct {
	saved int
	err   error
}

func (f *fakeArchiver) SaveIssue(season string, week int, subject, html, summary string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.saved++
	return "run-1", nil
}

func TestRunDryRun(t *testing.T) {
	cfg := testConfig(t)
	cfg.DryRun = true

	mailer := &fakeMailer{}
	a := New(cfg, &fakeFetcher{bundle: testBundle(3)}, nil, mailer, nil, nil)

	result, err := a.Run(context.Background(), 3)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Delivered {
		t.Error("dry run should not deliver")
	}
	if mailer.subject != "" {
		t.Error("dry run should not touch the mailer")
	}
	if !strings.Contains(result.HTML, "Roast League - Week 3") {
		t.Errorf("unexpected HTML:\n%s", result.HTML)
	}

	h := history.Load(filepath.Join(cfg.StateDir, historyFile))
	if len(h.Teams) != 2 {
		t.Errorf("dry run should still record history, got %d teams", len(h.Teams))
	}
}

func TestRunDelivers(t *testing.T) {
	cfg := testConfig(t)
	cfg.DryRun = false

	mailer := &fakeMailer{}
	slack := &fakeSlack{}
	arch := &fakeArchiver{}
	a := New(cfg, &fakeFetcher{bundle: testBundle(3)}, nil, mailer, slack, arch)

	result, err := a.Run(context.Background(), 3)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !result.Delivered || result.CampaignID != "campaign-1" {
		t.Errorf("unexpected result: %+v", result)
	}
	if result.RunID != "run-1" || arch.saved != 1 {
		t.Errorf("issue should be archived, got %+v", result)
	}
	if mailer.subject != "Week 3 Gazette" {
		t.Errorf("subject = %q", mailer.subject)
	}
	if len(slack.issues) != 1 {
		t.Errorf("expected one slack summary, got %d", len(slack.issues))
	}
}

func TestRunNoScoresFailsAndAlerts(t *testing.T) {
	cfg := testConfig(t)
	cfg.DryRun = false

	slack := &fakeSlack{}
	a := New(cfg, &fakeFetcher{bundle: &narrative.WeekBundle{Week: 3}}, nil, nil, slack, nil)

	if _, err := a.Run(context.Background(), 3); !errors.Is(err, narrative.ErrNoScores) {
		t.Fatalf("expected ErrNoScores, got %v", err)
	}
	if len(slack.failures) != 1 {
		t.Errorf("expected one failure alert, got %d", len(slack.failures))
	}
}

func TestRunFetchErrorPropagates(t *testing.T) {
	cfg := testConfig(t)
	fetchErr := errors.New("league API down")
	a := New(cfg, &fakeFetcher{err: fetchErr}, nil, nil, nil, nil)

	if _, err := a.Run(context.Background(), 3); !errors.Is(err, fetchErr) {
		t.Fatalf("expected fetch error, got %v", err)
	}
}

func TestRunMergesSalarySheet(t *testing.T) {
	cfg := testConfig(t)
	cfg.SalaryPath = filepath.Join(t.TempDir(), "salaries.csv")
	sheet := "team_id,week,spent\n0001,3,47000\n0002,3,46000\n"
	if err := os.WriteFile(cfg.SalaryPath, []byte(sheet), 0o644); err != nil {
		t.Fatalf("write sheet: %v", err)
	}

	bundle := testBundle(3)
	bundle.Scores[0].SalarySpent = 0
	a := New(cfg, &fakeFetcher{bundle: bundle}, nil, nil, nil, nil)

	if _, err := a.Run(context.Background(), 3); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if bundle.Scores[0].SalarySpent != 47000 {
		t.Errorf("missing spend should come from the sheet, got %.0f", bundle.Scores[0].SalarySpent)
	}
	if bundle.Scores[1].SalarySpent != 49500 {
		t.Errorf("API spend should win over the sheet, got %.0f", bundle.Scores[1].SalarySpent)
	}
}

func TestRunMergesProjections(t *testing.T) {
	cfg := testConfig(t)
	bundle := testBundle(3)
	odds := &fakeOdds{projections: map[string]float64{"0001": 88.1}}
	a := New(cfg, &fakeFetcher{bundle: bundle}, odds, nil, nil, nil)

	if _, err := a.Run(context.Background(), 3); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if bundle.Scores[0].ProjNextWeek == nil || *bundle.Scores[0].ProjNextWeek != 88.1 {
		t.Error("projection for 0001 should be merged")
	}
	if bundle.Scores[1].ProjNextWeek != nil {
		t.Error("team without projection stays nil")
	}
}

func TestRunProjectionFailureIsSoft(t *testing.T) {
	cfg := testConfig(t)
	odds := &fakeOdds{err: errors.New("odds API down")}
	a := New(cfg, &fakeFetcher{bundle: testBundle(3)}, odds, nil, nil, nil)

	if _, err := a.Run(context.Background(), 3); err != nil {
		t.Fatalf("projection failure should not fail the run: %v", err)
	}
}

func TestRunArchiveFailureIsSoft(t *testing.T) {
	cfg := testConfig(t)
	cfg.DryRun = false

	arch := &fakeArchiver{err: errors.New("disk full")}
	a := New(cfg, &fakeFetcher{bundle: testBundle(3)}, nil, nil, nil, arch)

	result, err := a.Run(context.Background(), 3)
	if err != nil {
		t.Fatalf("archive failure should not fail the run: %v", err)
	}
	if result.RunID != "" {
		t.Errorf("failed archive should leave run ID empty, got %q", result.RunID)
	}
}

func TestRunMailerFailureFailsRun(t *testing.T) {
	cfg := testConfig(t)
	cfg.DryRun = false

	slack := &fakeSlack{}
	mailer := &fakeMailer{err: errors.New("mailchimp 500")}
	a := New(cfg, &fakeFetcher{bundle: testBundle(3)}, nil, mailer, slack, nil)

	if _, err := a.Run(context.Background(), 3); err == nil {
		t.Fatal("expected mailer error")
	}
	if len(slack.failures) != 1 {
		t.Errorf("expected failure alert, got %d", len(slack.failures))
	}
}

func TestRankingsAfterRun(t *testing.T) {
	cfg := testConfig(t)
	a := New(cfg, &fakeFetcher{bundle: testBundle(3)}, nil, nil, nil, nil)

	if _, err := a.Run(context.Background(), 3); err != nil {
		t.Fatalf("Run: %v", err)
	}

	rankings := a.Rankings()
	if len(rankings) != 2 {
		t.Fatalf("expected 2 ranked teams, got %d", len(rankings))
	}
	if rankings[0].Name != "Alpha" {
		t.Errorf("Alpha should rank first, got %q", rankings[0].Name)
	}
}

func TestPhraseStatus(t *testing.T) {
	cfg := testConfig(t)
	a := New(cfg, &fakeFetcher{bundle: testBundle(3)}, nil, nil, nil, nil)

	status, err := a.PhraseStatus("")
	if err != nil {
		t.Fatalf("PhraseStatus: %v", err)
	}
	if status["generic"] != 2 {
		t.Errorf("generic remaining = %d, want 2", status["generic"])
	}
}

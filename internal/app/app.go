// Package app wires the weekly newsletter pipeline: fetch league data,
// build the narrative, render, deliver, and record the season history.
package app

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strconv"

	"github.com/leagueroast/gazette/internal/config"
	"github.com/leagueroast/gazette/internal/cycler"
	"github.com/leagueroast/gazette/internal/history"
	"github.com/leagueroast/gazette/internal/narrative"
	"github.com/leagueroast/gazette/internal/phrasebank"
	"github.com/leagueroast/gazette/internal/render"
	"github.com/leagueroast/gazette/internal/salary"
)

const historyFile = "season_history.json"

// WeekFetcher pulls one week's scoring bundle from the league platform.
type WeekFetcher interface {
	FetchWeek(ctx context.Context, week int) (*narrative.WeekBundle, error)
}

// ProjectionSource supplies next-week point projections per team.
// Projections are flavor, not facts: a failed fetch degrades the fraud
// watch section instead of failing the run.
type ProjectionSource interface {
	Enabled() bool
	Projections(ctx context.Context, week int) (map[string]float64, error)
}

// Mailer delivers the rendered HTML issue to the mailing list.
type Mailer interface {
	Enabled() bool
	SendCampaign(ctx context.Context, subject, html string) (string, error)
}

// Summarizer posts the short-form summary and failure alerts to chat.
type Summarizer interface {
	Enabled() bool
	NotifyIssue(ctx context.Context, week int, text string) error
	NotifyFailure(ctx context.Context, week int, cause error) error
}

// Archiver stores published issues for later retrieval.
type Archiver interface {
	SaveIssue(season string, week int, subject, html, summary string) (string, error)
}

type App struct {
	cfg      config.Config
	fetcher  WeekFetcher
	odds     ProjectionSource
	mailer   Mailer
	slack    Summarizer
	archiver Archiver
}

// Result is the outcome of a successful issue build.
type Result struct {
	Week       int
	Subject    string
	HTML       string
	Summary    string
	CampaignID string
	RunID      string
	Delivered  bool
}

func New(cfg config.Config, fetcher WeekFetcher, odds ProjectionSource, mailer Mailer, slack Summarizer, archiver Archiver) *App {
	return &App{
		cfg:      cfg,
		fetcher:  fetcher,
		odds:     odds,
		mailer:   mailer,
		slack:    slack,
		archiver: archiver,
	}
}

// Run builds and delivers the issue for one week. Any failure after the
// fetch is reported to chat before being returned.
func (a *App) Run(ctx context.Context, week int) (*Result, error) {
	result, err := a.run(ctx, week)
	if err != nil {
		a.reportFailure(ctx, week, err)
		return nil, err
	}
	return result, nil
}

func (a *App) run(ctx context.Context, week int) (*Result, error) {
	season := strconv.Itoa(a.cfg.Season)

	bank, err := phrasebank.LoadFile(a.cfg.PhrasesPath)
	if err != nil {
		return nil, fmt.Errorf("load phrase bank: %w", err)
	}

	opts := []cycler.Option{cycler.WithFallback(a.cfg.Cycler.FallbackCategory)}
	if a.cfg.Cycler.Lenient {
		opts = append(opts, cycler.WithLenient())
	}
	picker, err := cycler.New(bank, season, a.cfg.StateDir, opts...)
	if err != nil {
		return nil, fmt.Errorf("init phrase cycler: %w", err)
	}

	bundle, err := a.fetcher.FetchWeek(ctx, week)
	if err != nil {
		return nil, err
	}
	log.Printf("week %d: %d teams, %d scores", week, len(bundle.Teams), len(bundle.Scores))

	if err := a.mergeSalaries(bundle, week); err != nil {
		return nil, err
	}
	a.mergeProjections(ctx, bundle, week)

	story, err := narrative.Build(bundle, picker)
	if err != nil {
		return nil, err
	}

	meta := render.Meta{LeagueName: a.cfg.LeagueName, Season: season, Week: week}
	html := render.HTML(story, meta)
	summary := render.Text(story, meta)
	subject := fmt.Sprintf(a.cfg.Mailchimp.SubjectFmt, week)

	if err := a.recordHistory(bundle); err != nil {
		return nil, err
	}

	result := &Result{Week: week, Subject: subject, HTML: html, Summary: summary}
	if a.cfg.DryRun {
		log.Printf("[DRY] issue week %d: subject=%q html=%d bytes", week, subject, len(html))
		return result, nil
	}

	if a.mailer != nil && a.mailer.Enabled() {
		campaignID, err := a.mailer.SendCampaign(ctx, subject, html)
		if err != nil {
			return nil, fmt.Errorf("send campaign: %w", err)
		}
		result.CampaignID = campaignID
		result.Delivered = true
		log.Printf("campaign sent: %s", campaignID)
	}

	if a.slack != nil && a.slack.Enabled() {
		if err := a.slack.NotifyIssue(ctx, week, summary); err != nil {
			log.Printf("slack summary: %v", err)
		}
	}

	if a.archiver != nil {
		runID, err := a.archiver.SaveIssue(season, week, subject, html, summary)
		if err != nil {
			// The issue already went out; a broken archive only costs
			// the serve endpoints, not the run.
			log.Printf("archive issue: %v", err)
		} else {
			result.RunID = runID
		}
	}

	return result, nil
}

// mergeSalaries fills missing lineup spend from the salary sheet. Teams
// already carrying spend from the league API keep the API value.
func (a *App) mergeSalaries(bundle *narrative.WeekBundle, week int) error {
	if a.cfg.SalaryPath == "" {
		return nil
	}
	rows, err := salary.LoadFile(a.cfg.SalaryPath)
	if err != nil {
		return fmt.Errorf("load salary sheet: %w", err)
	}
	spend := salary.SpendByTeam(rows, week)
	for i := range bundle.Scores {
		if bundle.Scores[i].SalarySpent == 0 {
			bundle.Scores[i].SalarySpent = spend[bundle.Scores[i].TeamID]
		}
	}
	return nil
}

func (a *App) mergeProjections(ctx context.Context, bundle *narrative.WeekBundle, week int) {
	if a.odds == nil || !a.odds.Enabled() {
		return
	}
	projections, err := a.odds.Projections(ctx, week)
	if err != nil {
		log.Printf("projections unavailable: %v", err)
		return
	}
	for i := range bundle.Scores {
		if bundle.Scores[i].ProjNextWeek != nil {
			continue
		}
		if proj, ok := projections[bundle.Scores[i].TeamID]; ok {
			p := proj
			bundle.Scores[i].ProjNextWeek = &p
		}
	}
}

// recordHistory folds the week into the season aggregate on disk. A
// failed save fails the run so the rankings never drift from what was
// published.
func (a *App) recordHistory(bundle *narrative.WeekBundle) error {
	path := a.historyPath()
	h := history.Load(path)

	names := make(map[string]string, len(bundle.Teams))
	for _, team := range bundle.Teams {
		names[team.ID] = team.Name
	}
	scores := make(map[string]float64, len(bundle.Scores))
	spend := make(map[string]float64, len(bundle.Scores))
	for _, s := range bundle.Scores {
		scores[s.TeamID] = s.Points
		spend[s.TeamID] = s.SalarySpent
	}

	h.Update(a.cfg.Season, bundle.Week, names, scores, spend, a.cfg.SalaryCap)
	if err := h.Save(path); err != nil {
		return fmt.Errorf("save season history: %w", err)
	}
	return nil
}

// Rankings returns the season standings from the history file.
func (a *App) Rankings() []history.TeamRanking {
	return history.Load(a.historyPath()).Rankings()
}

// PhraseStatus reports remaining unseen phrases per category for one
// team scope.
func (a *App) PhraseStatus(teamID string) (map[string]int, error) {
	bank, err := phrasebank.LoadFile(a.cfg.PhrasesPath)
	if err != nil {
		return nil, fmt.Errorf("load phrase bank: %w", err)
	}
	picker, err := cycler.New(bank, strconv.Itoa(a.cfg.Season), a.cfg.StateDir,
		cycler.WithFallback(a.cfg.Cycler.FallbackCategory))
	if err != nil {
		return nil, fmt.Errorf("init phrase cycler: %w", err)
	}

	out := make(map[string]int, len(bank.Categories()))
	for _, category := range bank.Categories() {
		out[category] = picker.Remaining(category, teamID)
	}
	return out, nil
}

func (a *App) historyPath() string {
	return filepath.Join(a.cfg.StateDir, historyFile)
}

func (a *App) reportFailure(ctx context.Context, week int, cause error) {
	if a.cfg.DryRun || a.slack == nil || !a.slack.Enabled() {
		return
	}
	if err := a.slack.NotifyFailure(ctx, week, cause); err != nil {
		log.Printf("slack failure alert: %v", err)
	}
}

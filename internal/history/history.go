// Package history accumulates per-team weekly performance into
// season-long rolling statistics: rankings, cap utilization, consistency
// and luck. Updates are idempotent per (team, week); the caller persists
// explicitly after each run.
package history

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"sort"
)

// WeekRecord is one team's derived metrics for one week.
type WeekRecord struct {
	Week         int     `json:"week"`
	Points       float64 `json:"points"`
	SalarySpent  float64 `json:"salary_spent"`
	CostPerPoint float64 `json:"cost_per_point"`
	CapPct       float64 `json:"cap_pct"`
	Luck         float64 `json:"luck"`
}

// TeamHistory is a team's season-to-date record.
type TeamHistory struct {
	Name  string       `json:"name"`
	Weeks []WeekRecord `json:"weeks"`
}

// Meta carries process-wide configuration persisted alongside the data
// so rankings math survives config drift.
type Meta struct {
	Year      int     `json:"year"`
	SalaryCap float64 `json:"salary_cap"`
}

// History is the persisted season-long store.
type History struct {
	Teams map[string]*TeamHistory `json:"teams"`
	Meta  Meta                    `json:"meta"`
}

// New returns an empty History.
func New() *History {
	return &History{Teams: make(map[string]*TeamHistory)}
}

// Load reads a persisted history file. A missing, unreadable, or corrupt
// file degrades to an empty history with a log line; the season restarts
// rather than the run crashing.
func Load(path string) *History {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return New()
	}
	if err != nil {
		log.Printf("warning: history %s unreadable, starting fresh: %v", path, err)
		return New()
	}
	var h History
	if err := json.Unmarshal(data, &h); err != nil {
		log.Printf("warning: history %s corrupt, starting fresh: %v", path, err)
		return New()
	}
	if h.Teams == nil {
		h.Teams = make(map[string]*TeamHistory)
	}
	return &h
}

// Save writes the history atomically (temp file, then rename).
func (h *History) Save(path string) error {
	data, err := json.MarshalIndent(h, "", "  ")
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".history-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace history file: %w", err)
	}
	return nil
}

// Update upserts one week of results. Re-processing a week replaces its
// prior record instead of appending a duplicate. weeklyScores maps
// team ID to points; teamSpend maps team ID to salary spent.
func (h *History) Update(year, week int, teamNames map[string]string, weeklyScores map[string]float64, teamSpend map[string]float64, salaryCap float64) {
	h.Meta.Year = year
	h.Meta.SalaryCap = salaryCap

	med := median(values(weeklyScores))

	for teamID, points := range weeklyScores {
		spent := teamSpend[teamID]

		rec := WeekRecord{
			Week:        week,
			Points:      points,
			SalarySpent: spent,
			Luck:        points - med,
		}
		if points > 0 {
			rec.CostPerPoint = spent / points
		}
		if salaryCap > 0 {
			rec.CapPct = spent / salaryCap
		}

		th, ok := h.Teams[teamID]
		if !ok {
			th = &TeamHistory{}
			h.Teams[teamID] = th
		}
		if name := teamNames[teamID]; name != "" {
			th.Name = name
		}
		th.upsert(rec)
	}
}

func (t *TeamHistory) upsert(rec WeekRecord) {
	for i := range t.Weeks {
		if t.Weeks[i].Week == rec.Week {
			t.Weeks[i] = rec
			return
		}
	}
	t.Weeks = append(t.Weeks, rec)
	sort.Slice(t.Weeks, func(i, j int) bool { return t.Weeks[i].Week < t.Weeks[j].Week })
}

func values(m map[string]float64) []float64 {
	out := make([]float64, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	return out
}

func median(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// stddev is the population standard deviation (0 with fewer than 2 samples).
func stddev(vals []float64) float64 {
	if len(vals) < 2 {
		return 0
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	mean := sum / float64(len(vals))
	var sq float64
	for _, v := range vals {
		d := v - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(vals)))
}

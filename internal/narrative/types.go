// Package narrative assembles the structured newsletter fragments for a
// single league week: quick hits, the dumpster fire, fraud watch, the VP
// crime scene, the talk spotlight, and value/bust highlights.
package narrative

import (
	"encoding/json"
	"time"
)

// Team identifies a league team.
type Team struct {
	ID   string `json:"team_id"`
	Name string `json:"name"`
}

// Score is one team's weekly scoring line.
type Score struct {
	TeamID       string   `json:"team_id"`
	Points       float64  `json:"points"`
	Rank         int      `json:"rank"`
	SalarySpent  float64  `json:"salary_spent"`
	ProjNextWeek *float64 `json:"proj_next_week,omitempty"`
}

// VPEntry records a team's victory-point qualification for the week.
type VPEntry struct {
	TeamID     string  `json:"team_id"`
	VPEarned   float64 `json:"vp_earned"`
	CutoffDiff float64 `json:"vp_cutoff_diff"`
	GotBonus   bool    `json:"got_2p5"`
}

// BustEvent is a popular player who underperformed for a team.
type BustEvent struct {
	TeamID string  `json:"team_id"`
	Player string  `json:"player"`
	Points float64 `json:"points"`
}

// ValueHit is a player who substantially outperformed salary expectation.
type ValueHit struct {
	Player string  `json:"player"`
	Points float64 `json:"points"`
}

// PlayerPerformance is a raw per-player scoring row. The builder does not
// consume it directly; it rides along for the renderer and archive.
type PlayerPerformance struct {
	Player string  `json:"player"`
	TeamID string  `json:"team_id"`
	Points float64 `json:"points"`
	Salary float64 `json:"salary"`
}

// WeekBundle is everything the builder needs about one league week.
type WeekBundle struct {
	Season     string              `json:"season"`
	Week       int                 `json:"week"`
	Timezone   string              `json:"timezone"`
	DropTime   time.Time           `json:"drop_time"`
	Teams      []Team              `json:"teams"`
	Scores     []Score             `json:"scores"`
	VPTable    []VPEntry           `json:"vp_table,omitempty"`
	Players    []PlayerPerformance `json:"players,omitempty"`
	ChalkBusts []BustEvent         `json:"chalk_busts,omitempty"`
	ValueHits  []ValueHit          `json:"value_hits,omitempty"`

	// Pickem carries the raw pick'em/survivor block when the league runs
	// one. The builder ignores it; it rides along untouched for the
	// renderer and archive.
	Pickem json.RawMessage `json:"pickem,omitempty"`
}

// TeamLine is a flavored callout about one team.
type TeamLine struct {
	TeamID string
	Name   string
	Points float64
	Line   string
}

// FraudEntry flags a top-half team projected to fall back to earth.
type FraudEntry struct {
	TeamLine
	ProjNextWeek float64
}

// VPEntryLine flags the team that missed the 2.5-VP bonus by the least.
type VPEntryLine struct {
	TeamLine
	CutoffDiff float64
}

// Spotlight calls out the week's worst salary-to-points offender along
// with up to three of its chalk busts.
type Spotlight struct {
	TeamLine
	SalarySpent float64
	Busts       []BustEvent
}

// Narrative is the immutable result bundle consumed by the renderer.
// Optional slots are nil when the week's data cannot support them.
type Narrative struct {
	Season        string
	Week          int
	QuickHits     []string
	DumpsterFire  *TeamLine
	FraudWatch    *FraudEntry
	VPCrimeScene  *VPEntryLine
	TalkSpotlight *Spotlight
	ValueHits     []ValueHit
	ChalkBusts    []BustEvent
	LeagueAverage float64
}

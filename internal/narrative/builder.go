package narrative

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"unicode"

	"github.com/leagueroast/gazette/internal/cycler"
)

// ErrNoScores marks a week bundle unusable for narrative construction.
var ErrNoScores = errors.New("week bundle has no scores")

// Phrase categories consumed by the builder. Every chain ends at the
// cycler's generic fallback.
const (
	catTopScore    = "top_score"
	catBottomScore = "bottom_score"
	catFraudWatch  = "fraud_watch"
	catVPCrime     = "vp_crime"
	catSpotlight   = "spotlight"
	catPunGeneric  = "pun_generic"
)

// Dumpster-fire point tiers select the flavor sub-category.
const (
	tierSub70 = "df_sub70"
	tier70s   = "df_70s"
	tier80s   = "df_80s"
	tierTop   = "df_generic"
)

const (
	topN           = 3
	maxBusts       = 3
	pointsFloor    = 0.1
	fraudPoolDepth = 5
)

// Picker supplies flavor text. Satisfied by *cycler.Cycler.
type Picker interface {
	Pick(category, teamID string) (string, error)
}

// Build assembles a Narrative from a week bundle. A bundle without
// scores fails the run; optional sections that are missing or malformed
// degrade to omitted slots. Flavor-text exhaustion never aborts a build,
// the affected slot is dropped and logged, but a cycler state-write
// failure does, since continuing would risk duplicate phrases later.
func Build(bundle *WeekBundle, picker Picker) (*Narrative, error) {
	if bundle == nil || len(bundle.Scores) == 0 {
		return nil, ErrNoScores
	}

	b := &builder{picker: picker, names: teamNames(bundle.Teams)}
	n := &Narrative{Season: bundle.Season, Week: bundle.Week}

	b.buildQuickHits(n, bundle)
	b.buildDumpsterFire(n, bundle)
	b.buildFraudWatch(n, bundle)
	b.buildVPCrimeScene(n, bundle)
	b.buildTalkSpotlight(n, bundle)
	buildHighlights(n, bundle)

	if b.err != nil {
		return nil, b.err
	}
	return n, nil
}

type builder struct {
	picker Picker
	names  map[string]string
	err    error // first non-exhaustion picker failure
}

func teamNames(teams []Team) map[string]string {
	out := make(map[string]string, len(teams))
	for _, t := range teams {
		out[t.ID] = t.Name
	}
	return out
}

func teamName(names map[string]string, teamID string) string {
	if name, ok := names[teamID]; ok && name != "" {
		return name
	}
	return teamID
}

// pick walks a fallback chain of categories, returning the first phrase
// available. Exhaustion of the whole chain yields ok=false and the slot
// degrades; a state-write failure is recorded and fails the build.
func (b *builder) pick(teamID string, categories ...string) (string, bool) {
	if b.err != nil {
		return "", false
	}
	for _, cat := range categories {
		phrase, err := b.picker.Pick(cat, teamID)
		if err == nil {
			return phrase, true
		}
		var exhausted *cycler.ExhaustionError
		if !errors.As(err, &exhausted) {
			b.err = fmt.Errorf("pick %s for team %s: %w", cat, teamID, err)
			return "", false
		}
	}
	log.Printf("warning: no phrase available for %v (team %s), omitting flavor", categories, teamID)
	return "", false
}

func (b *builder) buildQuickHits(n *Narrative, bundle *WeekBundle) {
	names := b.names
	top, bottom := bundle.Scores[0], bundle.Scores[0]
	var sum float64
	for _, s := range bundle.Scores {
		sum += s.Points
		// Strict comparisons keep the first occurrence on ties.
		if s.Points > top.Points {
			top = s
		}
		if s.Points < bottom.Points {
			bottom = s
		}
	}
	n.LeagueAverage = sum / float64(len(bundle.Scores))

	topLine := fmt.Sprintf("%s led the week with %.2f points", teamName(names, top.TeamID), top.Points)
	if phrase, ok := b.pick(top.TeamID, catTopScore, "generic"); ok {
		topLine += " - " + phrase
	}
	bottomLine := fmt.Sprintf("%s brought up the rear with %.2f points", teamName(names, bottom.TeamID), bottom.Points)
	if phrase, ok := b.pick(bottom.TeamID, catBottomScore, "generic"); ok {
		bottomLine += " - " + phrase
	}
	avgLine := fmt.Sprintf("League average: %.2f points", n.LeagueAverage)

	n.QuickHits = []string{topLine, bottomLine, avgLine}
}

func (b *builder) buildDumpsterFire(n *Narrative, bundle *WeekBundle) {
	names := b.names
	bottom := bundle.Scores[0]
	for _, s := range bundle.Scores {
		if s.Points < bottom.Points {
			bottom = s
		}
	}

	name := teamName(names, bottom.TeamID)
	tierPhrase, tierOK := b.pick(bottom.TeamID, pointsTier(bottom.Points), "generic")
	punPhrase, punOK := b.pick(bottom.TeamID, "pun_"+slug(name), catPunGeneric, "generic")
	if !tierOK && !punOK {
		return
	}

	var parts []string
	if tierOK {
		parts = append(parts, tierPhrase)
	}
	if punOK {
		parts = append(parts, punPhrase)
	}
	n.DumpsterFire = &TeamLine{
		TeamID: bottom.TeamID,
		Name:   name,
		Points: bottom.Points,
		Line:   strings.Join(parts, " "),
	}
}

// pointsTier maps a weekly point total to its dumpster-fire flavor tier.
func pointsTier(points float64) string {
	switch {
	case points < 70:
		return tierSub70
	case points < 80:
		return tier70s
	case points < 90:
		return tier80s
	default:
		return tierTop
	}
}

func (b *builder) buildFraudWatch(n *Narrative, bundle *WeekBundle) {
	names := b.names
	projected := make([]Score, 0, len(bundle.Scores))
	for _, s := range bundle.Scores {
		if s.ProjNextWeek != nil {
			projected = append(projected, s)
		}
	}
	if len(projected) == 0 {
		return
	}

	// Top half of this week's scores, ties with the cut line included.
	ranked := make([]Score, len(bundle.Scores))
	copy(ranked, bundle.Scores)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Points > ranked[j].Points })
	half := (len(ranked) + 1) / 2
	cut := ranked[half-1].Points
	topHalf := ranked[:half]
	for _, s := range ranked[half:] {
		if s.Points == cut {
			topHalf = append(topHalf, s)
		}
	}

	// The five lowest-projected teams league-wide.
	byProj := make([]Score, len(projected))
	copy(byProj, projected)
	sort.SliceStable(byProj, func(i, j int) bool { return *byProj[i].ProjNextWeek < *byProj[j].ProjNextWeek })
	lowPool := make(map[string]bool, fraudPoolDepth)
	for i := 0; i < fraudPoolDepth && i < len(byProj); i++ {
		lowPool[byProj[i].TeamID] = true
	}

	var candidate *Score
	for i := range topHalf {
		s := topHalf[i]
		if s.ProjNextWeek == nil {
			continue
		}
		if candidate == nil || *s.ProjNextWeek < *candidate.ProjNextWeek {
			candidate = &topHalf[i]
		}
	}
	if candidate == nil || !lowPool[candidate.TeamID] {
		return
	}

	line, _ := b.pick(candidate.TeamID, catFraudWatch, "generic")
	n.FraudWatch = &FraudEntry{
		TeamLine: TeamLine{
			TeamID: candidate.TeamID,
			Name:   teamName(names, candidate.TeamID),
			Points: candidate.Points,
			Line:   line,
		},
		ProjNextWeek: *candidate.ProjNextWeek,
	}
}

func (b *builder) buildVPCrimeScene(n *Narrative, bundle *WeekBundle) {
	names := b.names
	var victim *VPEntry
	for i := range bundle.VPTable {
		e := &bundle.VPTable[i]
		if e.GotBonus {
			continue
		}
		if victim == nil || abs(e.CutoffDiff) < abs(victim.CutoffDiff) {
			victim = e
		}
	}
	if victim == nil {
		return
	}

	var points float64
	for _, s := range bundle.Scores {
		if s.TeamID == victim.TeamID {
			points = s.Points
			break
		}
	}

	line, _ := b.pick(victim.TeamID, catVPCrime, "generic")
	n.VPCrimeScene = &VPEntryLine{
		TeamLine: TeamLine{
			TeamID: victim.TeamID,
			Name:   teamName(names, victim.TeamID),
			Points: points,
			Line:   line,
		},
		CutoffDiff: victim.CutoffDiff,
	}
}

func (b *builder) buildTalkSpotlight(n *Narrative, bundle *WeekBundle) {
	names := b.names
	if len(bundle.ChalkBusts) == 0 {
		return
	}

	bustsByTeam := make(map[string][]BustEvent)
	for _, bust := range bundle.ChalkBusts {
		bustsByTeam[bust.TeamID] = append(bustsByTeam[bust.TeamID], bust)
	}

	ranked := make([]Score, len(bundle.Scores))
	copy(ranked, bundle.Scores)
	sort.SliceStable(ranked, func(i, j int) bool {
		return costRatio(ranked[i]) > costRatio(ranked[j])
	})

	for _, s := range ranked {
		busts := bustsByTeam[s.TeamID]
		if len(busts) == 0 {
			continue
		}
		if len(busts) > maxBusts {
			busts = busts[:maxBusts]
		}
		line, _ := b.pick(s.TeamID, catSpotlight, "generic")
		n.TalkSpotlight = &Spotlight{
			TeamLine: TeamLine{
				TeamID: s.TeamID,
				Name:   teamName(names, s.TeamID),
				Points: s.Points,
				Line:   line,
			},
			SalarySpent: s.SalarySpent,
			Busts:       busts,
		}
		return
	}
}

// costRatio is salary spent per point, floored to avoid division by zero.
func costRatio(s Score) float64 {
	points := s.Points
	if points < pointsFloor {
		points = pointsFloor
	}
	return s.SalarySpent / points
}

func buildHighlights(n *Narrative, bundle *WeekBundle) {
	if len(bundle.ValueHits) > 0 {
		hits := make([]ValueHit, len(bundle.ValueHits))
		copy(hits, bundle.ValueHits)
		sort.SliceStable(hits, func(i, j int) bool { return hits[i].Points > hits[j].Points })
		if len(hits) > topN {
			hits = hits[:topN]
		}
		n.ValueHits = hits
	}

	if len(bundle.ChalkBusts) > 0 {
		busts := make([]BustEvent, len(bundle.ChalkBusts))
		copy(busts, bundle.ChalkBusts)
		sort.SliceStable(busts, func(i, j int) bool { return busts[i].Points < busts[j].Points })
		if len(busts) > topN {
			busts = busts[:topN]
		}
		n.ChalkBusts = busts
	}
}

// slug normalizes a team name into a phrase-bank category suffix.
func slug(name string) string {
	var b strings.Builder
	lastUnderscore := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore && b.Len() > 0 {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

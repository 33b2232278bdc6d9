// Package cycler implements the deterministic, persistent, non-repeating
// phrase selector behind every flavored line in the newsletter. Each
// (season, category, team) triple walks its own seeded permutation of the
// phrase bank, so a team never hears the same roast twice in a season and
// two runs over the same inputs produce the same newsletter.
package cycler

import (
	"fmt"
	"hash/fnv"
	"log"
	"math/rand"
	"strconv"
	"strings"

	"github.com/leagueroast/gazette/internal/phrasebank"
)

const (
	// DefaultFallback is drawn from once a primary category runs dry.
	DefaultFallback = "generic"

	// GlobalTeamKey scopes sequences that are not tied to any one team.
	GlobalTeamKey = "global"

	teamKeyWidth   = 4
	maxPhraseRunes = 140
)

// ExhaustionError reports that no unseen phrase remains in either the
// requested category or the fallback for a team this season.
type ExhaustionError struct {
	Category string
	Fallback string
	TeamKey  string
}

func (e *ExhaustionError) Error() string {
	if e.Fallback != "" && e.Fallback != e.Category {
		return fmt.Sprintf("phrases exhausted for category %q (fallback %q) team %q", e.Category, e.Fallback, e.TeamKey)
	}
	return fmt.Sprintf("phrases exhausted for category %q team %q", e.Category, e.TeamKey)
}

// Option configures a Cycler.
type Option func(*Cycler)

// WithFallback overrides the fallback category.
func WithFallback(category string) Option {
	return func(c *Cycler) { c.fallback = category }
}

// WithLenient restores the legacy last-resort behavior: instead of an
// ExhaustionError, Pick degrades to the (truncated) category name. Off
// by default because it hides exhaustion from callers.
func WithLenient() Option {
	return func(c *Cycler) { c.lenient = true }
}

// Cycler selects phrases without repeats, persisting its position after
// every pick. Not safe for concurrent use against the same state file;
// the design assumes one newsletter run at a time.
type Cycler struct {
	bank     phrasebank.Bank
	season   string
	path     string
	fallback string
	lenient  bool
	state    *state
}

// New builds a Cycler over bank for a season, persisting selection state
// under stateDir. A fallback category missing from the bank is a
// configuration error. Unreadable or corrupt persisted state is logged
// and treated as empty.
func New(bank phrasebank.Bank, season string, stateDir string, opts ...Option) (*Cycler, error) {
	c := &Cycler{
		bank:     bank,
		season:   season,
		fallback: DefaultFallback,
	}
	for _, opt := range opts {
		opt(c)
	}
	if !bank.Has(c.fallback) {
		return nil, fmt.Errorf("fallback category %q missing from phrase bank", c.fallback)
	}

	c.path = statePath(stateDir, season)
	st, err := loadState(c.path)
	if err != nil {
		log.Printf("warning: phrase state %s unreadable, starting fresh: %v", c.path, err)
		st = newState()
	}
	c.state = st
	return c, nil
}

// Pick returns the next unseen phrase from category for a team, falling
// back to the fallback category once the primary is exhausted or absent.
// State is persisted before returning so a crash never repeats a phrase.
func (c *Cycler) Pick(category, teamID string) (string, error) {
	key := TeamKey(teamID)

	phrase, err := c.pickFrom(category, key)
	if err == nil {
		return phrase, nil
	}
	if _, exhausted := err.(*ExhaustionError); !exhausted {
		return "", err
	}

	if category != c.fallback {
		phrase, ferr := c.pickFrom(c.fallback, key)
		if ferr == nil {
			return phrase, nil
		}
		if _, exhausted := ferr.(*ExhaustionError); !exhausted {
			return "", ferr
		}
	}

	if c.lenient {
		return truncate(category), nil
	}
	return "", &ExhaustionError{Category: category, Fallback: c.fallback, TeamKey: key}
}

// Remaining reports how many unseen phrases are left in a category for a
// team this season.
func (c *Cycler) Remaining(category, teamID string) int {
	phrases := c.bank.Phrases(category)
	if len(phrases) == 0 {
		return 0
	}
	key := TeamKey(teamID)
	e := c.state.entry(c.season, category, key)
	if e == nil {
		return len(phrases)
	}
	c.reconcile(e, category, key, len(phrases))
	return len(e.Order) - e.Cursor
}

func (c *Cycler) pickFrom(category, key string) (string, error) {
	phrases := c.bank.Phrases(category)
	if len(phrases) == 0 {
		// Absent or empty category behaves like an exhausted one so the
		// caller falls through to the fallback.
		return "", &ExhaustionError{Category: category, TeamKey: key}
	}

	e := c.state.entry(c.season, category, key)
	if e == nil {
		e = c.state.create(c.season, category, key)
		e.Order = permute(c.seed(category, key), len(phrases))
	} else {
		c.reconcile(e, category, key, len(phrases))
	}

	if e.Cursor >= len(e.Order) {
		return "", &ExhaustionError{Category: category, TeamKey: key}
	}

	phrase := truncate(phrases[e.Order[e.Cursor]])
	e.Cursor++
	if err := saveState(c.path, c.state); err != nil {
		// Without a durable cursor the next run would repeat this phrase,
		// so the pick must fail.
		e.Cursor--
		return "", fmt.Errorf("persist phrase state: %w", err)
	}
	return phrase, nil
}

// reconcile adjusts a persisted order to the bank's current size for the
// category: indices past the end are dropped (removed phrases are not
// exhaustion), and newly added phrases are appended in a deterministically
// shuffled block so already-served phrases stay excluded. An entry that is
// not a valid permutation (negative or duplicate indices, cursor out of
// bounds) is salvaged the same way, with the bad positions logged and
// dropped; a duplicate kept in the order would serve a phrase twice.
func (c *Cycler) reconcile(e *entry, category, key string, n int) {
	kept := make([]int, 0, len(e.Order))
	cursor := e.Cursor
	seen := make(map[int]bool, len(e.Order))
	malformed := e.Cursor < 0 || e.Cursor > len(e.Order)
	for i, idx := range e.Order {
		if idx < 0 || seen[idx] {
			malformed = true
		}
		if idx < 0 || idx >= n || seen[idx] {
			if i < e.Cursor {
				cursor--
			}
			continue
		}
		kept = append(kept, idx)
		seen[idx] = true
	}

	if len(kept) < n {
		fresh := make([]int, 0, n-len(kept))
		for idx := 0; idx < n; idx++ {
			if !seen[idx] {
				fresh = append(fresh, idx)
			}
		}
		kept = append(kept, shuffled(c.seed(category, key)+int64(len(kept)), fresh)...)
	}

	if cursor < 0 {
		cursor = 0
	}
	if cursor > len(kept) {
		cursor = len(kept)
	}
	if malformed {
		log.Printf("warning: malformed phrase state for category %q team %q, salvaged", category, key)
	}
	e.Order = kept
	e.Cursor = cursor
}

// seed is a pure function of (season, teamKey, category) so that two
// independent processes walk identical permutations.
func (c *Cycler) seed(category, key string) int64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s|%s|%s", c.season, key, category)
	return int64(h.Sum64())
}

func permute(seed int64, n int) []int {
	r := rand.New(rand.NewSource(seed))
	return r.Perm(n)
}

func shuffled(seed int64, in []int) []int {
	out := make([]int, len(in))
	copy(out, in)
	r := rand.New(rand.NewSource(seed))
	r.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// TeamKey normalizes a raw team identifier: numeric IDs are zero-padded
// to a fixed width, blanks map to the global sentinel, and anything else
// becomes a stable lowercased token.
func TeamKey(teamID string) string {
	id := strings.TrimSpace(teamID)
	if id == "" {
		return GlobalTeamKey
	}
	if n, err := strconv.Atoi(id); err == nil && n >= 0 {
		return fmt.Sprintf("%0*d", teamKeyWidth, n)
	}
	return strings.ToLower(strings.Join(strings.Fields(id), "_"))
}

func truncate(s string) string {
	runes := []rune(s)
	if len(runes) <= maxPhraseRunes {
		return s
	}
	return string(runes[:maxPhraseRunes-3]) + "..."
}

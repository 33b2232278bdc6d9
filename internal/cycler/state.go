package cycler

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// entry is the persisted position within one team's shuffled phrase
// order: a permutation of bank indices plus a cursor into it.
type entry struct {
	Order  []int `json:"order"`
	Cursor int   `json:"cursor"`
}

// state mirrors the on-disk layout: seasons -> category -> teamKey -> entry.
type state struct {
	Seasons map[string]map[string]map[string]*entry `json:"seasons"`
}

func newState() *state {
	return &state{Seasons: make(map[string]map[string]map[string]*entry)}
}

func (s *state) entry(season, category, key string) *entry {
	return s.Seasons[season][category][key]
}

func (s *state) create(season, category, key string) *entry {
	cats, ok := s.Seasons[season]
	if !ok {
		cats = make(map[string]map[string]*entry)
		s.Seasons[season] = cats
	}
	teams, ok := cats[category]
	if !ok {
		teams = make(map[string]*entry)
		cats[category] = teams
	}
	e := &entry{}
	teams[key] = e
	return e
}

func statePath(stateDir, season string) string {
	return filepath.Join(stateDir, fmt.Sprintf("phrase_state_%s.json", season))
}

// loadState reads persisted selection state. A missing file is an empty
// state, not an error.
func loadState(path string) (*state, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return newState(), nil
	}
	if err != nil {
		return nil, err
	}
	var st state
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("parse phrase state: %w", err)
	}
	if st.Seasons == nil {
		st.Seasons = make(map[string]map[string]map[string]*entry)
	}
	return &st, nil
}

// saveState writes state atomically: marshal to a temp file in the same
// directory, then rename over the target. An interrupted write never
// leaves a corrupt state file behind.
func saveState(path string, st *state) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".phrase_state-*")
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
		return err
	}
	return nil
}

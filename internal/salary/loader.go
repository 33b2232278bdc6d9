// Package salary loads the weekly lineup-cost sheet exported from the
// league's salary tool.
package salary

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Row is one team's lineup spend for one week.
type Row struct {
	TeamID string
	Week   int
	Spent  float64
}

// LoadFile reads the salary sheet at path. The file must carry a
// header row naming team_id, week and spent columns in any order.
func LoadFile(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open salary sheet: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load parses salary rows from r.
func Load(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read salary header: %w", err)
	}

	cols := map[string]int{}
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	teamCol, ok := findColumn(cols, "team_id", "team", "team id")
	if !ok {
		return nil, fmt.Errorf("salary sheet missing team column, header: %v", header)
	}
	weekCol, ok := findColumn(cols, "week")
	if !ok {
		return nil, fmt.Errorf("salary sheet missing week column, header: %v", header)
	}
	spentCol, ok := findColumn(cols, "spent", "salary", "salary_spent", "cost")
	if !ok {
		return nil, fmt.Errorf("salary sheet missing spent column, header: %v", header)
	}

	var rows []Row
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("read salary row %d: %w", line, err)
		}

		week, err := strconv.Atoi(strings.TrimSpace(record[weekCol]))
		if err != nil {
			return nil, fmt.Errorf("salary row %d: bad week %q", line, record[weekCol])
		}
		spent, err := strconv.ParseFloat(strings.TrimSpace(record[spentCol]), 64)
		if err != nil {
			return nil, fmt.Errorf("salary row %d: bad spent %q", line, record[spentCol])
		}
		rows = append(rows, Row{
			TeamID: strings.TrimSpace(record[teamCol]),
			Week:   week,
			Spent:  spent,
		})
	}
	return rows, nil
}

// SpendByTeam filters rows to one week and keys spend by team ID.
func SpendByTeam(rows []Row, week int) map[string]float64 {
	out := make(map[string]float64)
	for _, row := range rows {
		if row.Week == week {
			out[row.TeamID] = row.Spent
		}
	}
	return out
}

func findColumn(cols map[string]int, names ...string) (int, bool) {
	for _, name := range names {
		if i, ok := cols[name]; ok {
			return i, true
		}
	}
	return 0, false
}

package history

import "sort"

// TeamRanking is a team's season-to-date aggregate standing.
type TeamRanking struct {
	Rank            int     `json:"rank"`
	TeamID          string  `json:"team_id"`
	Name            string  `json:"name"`
	Weeks           int     `json:"weeks"`
	AvgPoints       float64 `json:"avg_points"`
	StdDev          float64 `json:"std_dev"`
	TotalLuck       float64 `json:"total_luck"`
	AvgCostPerPoint float64 `json:"avg_cost_per_point"`
	AvgCapPct       float64 `json:"avg_cap_pct"`
	PointsPerK      float64 `json:"points_per_1k"`
	BurnRatePct     float64 `json:"burn_rate_pct"`
}

// Rankings aggregates every team's season so far and orders them:
// points per $1K spent descending, then average points descending, then
// point standard deviation ascending (consistency wins a tie). Team ID
// breaks a dead heat so ranks are stable across runs.
func (h *History) Rankings() []TeamRanking {
	rankings := make([]TeamRanking, 0, len(h.Teams))

	for teamID, th := range h.Teams {
		if len(th.Weeks) == 0 {
			continue
		}
		r := TeamRanking{TeamID: teamID, Name: th.Name, Weeks: len(th.Weeks)}

		points := make([]float64, 0, len(th.Weeks))
		var totalPoints, totalSpent, cppSum, capSum float64
		for _, w := range th.Weeks {
			points = append(points, w.Points)
			totalPoints += w.Points
			totalSpent += w.SalarySpent
			cppSum += w.CostPerPoint
			capSum += w.CapPct
			r.TotalLuck += w.Luck
		}
		n := float64(len(th.Weeks))
		r.AvgPoints = totalPoints / n
		r.StdDev = stddev(points)
		r.AvgCostPerPoint = cppSum / n
		r.AvgCapPct = capSum / n
		if totalSpent > 0 {
			r.PointsPerK = totalPoints / (totalSpent / 1000)
		}
		rankings = append(rankings, r)
	}

	// League average cost-per-point over teams with a positive value
	// drives each team's burn rate (% deviation from that average).
	var leagueCPP float64
	var withCPP int
	for _, r := range rankings {
		if r.AvgCostPerPoint > 0 {
			leagueCPP += r.AvgCostPerPoint
			withCPP++
		}
	}
	if withCPP > 0 {
		leagueCPP /= float64(withCPP)
		for i := range rankings {
			if rankings[i].AvgCostPerPoint > 0 {
				rankings[i].BurnRatePct = (rankings[i].AvgCostPerPoint - leagueCPP) / leagueCPP * 100
			}
		}
	}

	sort.SliceStable(rankings, func(i, j int) bool {
		a, b := rankings[i], rankings[j]
		if a.PointsPerK != b.PointsPerK {
			return a.PointsPerK > b.PointsPerK
		}
		if a.AvgPoints != b.AvgPoints {
			return a.AvgPoints > b.AvgPoints
		}
		if a.StdDev != b.StdDev {
			return a.StdDev < b.StdDev
		}
		return a.TeamID < b.TeamID
	})
	for i := range rankings {
		rankings[i].Rank = i + 1
	}
	return rankings
}

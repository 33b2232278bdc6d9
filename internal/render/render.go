// Package render turns a built Narrative into the human-readable
// newsletter body. It owns formatting only; all selection and flavor
// decisions happen upstream in the narrative builder.
package render

import (
	"fmt"
	"strings"

	"github.com/leagueroast/gazette/internal/history"
	"github.com/leagueroast/gazette/internal/narrative"
)

// Meta describes the issue being rendered.
type Meta struct {
	LeagueName string
	Season     string
	Week       int
}

// HTML renders the full newsletter issue in HTML.
func HTML(n *narrative.Narrative, meta Meta) string {
	var b strings.Builder
	title := meta.LeagueName
	if title == "" {
		title = "The Gazette"
	}
	b.WriteString(fmt.Sprintf("<h1>%s - Week %d</h1>\n", title, meta.Week))

	if len(n.QuickHits) > 0 {
		b.WriteString("<h2>Quick Hits</h2>\n<ul>\n")
		for _, hit := range n.QuickHits {
			b.WriteString("<li>" + hit + "</li>\n")
		}
		b.WriteString("</ul>\n")
	}

	if df := n.DumpsterFire; df != nil {
		b.WriteString("<h2>Dumpster Fire of the Week</h2>\n")
		b.WriteString(fmt.Sprintf("<p><b>%s</b> (%.2f points): %s</p>\n", df.Name, df.Points, df.Line))
	}

	if fw := n.FraudWatch; fw != nil {
		b.WriteString("<h2>Fraud Watch</h2>\n")
		b.WriteString(fmt.Sprintf("<p><b>%s</b> put up %.2f but projects to just %.2f next week.", fw.Name, fw.Points, fw.ProjNextWeek))
		if fw.Line != "" {
			b.WriteString(" " + fw.Line)
		}
		b.WriteString("</p>\n")
	}

	if vp := n.VPCrimeScene; vp != nil {
		b.WriteString("<h2>VP Crime Scene</h2>\n")
		b.WriteString(fmt.Sprintf("<p><b>%s</b> missed the 2.5 VP bonus by %.2f.", vp.Name, abs(vp.CutoffDiff)))
		if vp.Line != "" {
			b.WriteString(" " + vp.Line)
		}
		b.WriteString("</p>\n")
	}

	if sp := n.TalkSpotlight; sp != nil {
		b.WriteString("<h2>Talk Spotlight</h2>\n")
		b.WriteString(fmt.Sprintf("<p><b>%s</b> spent %.0f for %.2f points.", sp.Name, sp.SalarySpent, sp.Points))
		if sp.Line != "" {
			b.WriteString(" " + sp.Line)
		}
		b.WriteString("</p>\n")
		if len(sp.Busts) > 0 {
			b.WriteString("<ul>\n")
			for _, bust := range sp.Busts {
				b.WriteString(fmt.Sprintf("<li>%s: %.2f points</li>\n", bust.Player, bust.Points))
			}
			b.WriteString("</ul>\n")
		}
	}

	if len(n.ValueHits) > 0 {
		b.WriteString("<h2>Value Hits</h2>\n<ol>\n")
		for _, hit := range n.ValueHits {
			b.WriteString(fmt.Sprintf("<li>%s - %.2f points</li>\n", hit.Player, hit.Points))
		}
		b.WriteString("</ol>\n")
	}

	if len(n.ChalkBusts) > 0 {
		b.WriteString("<h2>Chalk Busts</h2>\n<ol>\n")
		for _, bust := range n.ChalkBusts {
			b.WriteString(fmt.Sprintf("<li>%s - %.2f points</li>\n", bust.Player, bust.Points))
		}
		b.WriteString("</ol>\n")
	}

	return strings.TrimSpace(b.String())
}

// Text renders the short-form plain-text summary used for Slack.
func Text(n *narrative.Narrative, meta Meta) string {
	var b strings.Builder
	for _, hit := range n.QuickHits {
		b.WriteString("- " + hit + "\n")
	}
	if df := n.DumpsterFire; df != nil {
		b.WriteString(fmt.Sprintf("Dumpster fire: %s (%.2f) - %s\n", df.Name, df.Points, df.Line))
	}
	if fw := n.FraudWatch; fw != nil {
		b.WriteString(fmt.Sprintf("Fraud watch: %s (proj %.2f)\n", fw.Name, fw.ProjNextWeek))
	}
	if vp := n.VPCrimeScene; vp != nil {
		b.WriteString(fmt.Sprintf("VP crime scene: %s (missed by %.2f)\n", vp.Name, abs(vp.CutoffDiff)))
	}
	return strings.TrimSpace(b.String())
}

// RankingsText renders the season standings table in plain text.
func RankingsText(rankings []history.TeamRanking) string {
	var b strings.Builder
	b.WriteString("Rank  Team                      Pts/Wk   StdDev   Pts/$1K  Cap%    Burn%\n")
	for _, r := range rankings {
		b.WriteString(fmt.Sprintf("%-5d %-25s %7.2f  %7.2f  %7.3f  %5.1f  %+6.1f\n",
			r.Rank, clip(r.Name, 25), r.AvgPoints, r.StdDev, r.PointsPerK, r.AvgCapPct*100, r.BurnRatePct))
	}
	return strings.TrimSpace(b.String())
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

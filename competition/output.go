/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package competition

import (
	"fmt"
	"strings"
)

// BuildScheduleOutput formats a group's full schedule batch by batch. The
// current batch is marked with '>'.
func BuildScheduleOutput(g *Group) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%s Schedule (%d lanes):\n\n", g.Name, g.Lanes))
	for batch := 0; batch < g.BatchCount(); batch++ {
		marker := " "
		if batch == g.CurrentBatch {
			marker = ">"
		}
		sb.WriteString(fmt.Sprintf("%s Batch %d\n", marker, batch+1))
		writeMatchTable(&sb, g, batch)
		sb.WriteString("\n")
	}

	return sb.String()
}

// BuildNextMatchesOutput formats the matches of the group's current batch.
func BuildNextMatchesOutput(g *Group) string {
	if g.CurrentBatch >= g.BatchCount() {
		return fmt.Sprintf("%s: all batches have been played\n", g.Name)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s Batch %d of %d:\n\n", g.Name,
		g.CurrentBatch+1, g.BatchCount()))
	writeMatchTable(&sb, g, g.CurrentBatch)

	return sb.String()
}

func writeMatchTable(sb *strings.Builder, g *Group, batch int) {
	type row struct{ lane, match, teamA, teamB, result string }
	var rows []row
	for idx, m := range g.Matches {
		if m.Batch != batch {
			continue
		}
		r := row{
			lane:  fmt.Sprintf("%d.", m.Lane+1),
			match: fmt.Sprintf("#%d", idx),
			teamA: g.teamName(m.TeamA),
			teamB: g.teamName(m.TeamB),
		}
		switch m.Result {
		case Played:
			r.result = fmt.Sprintf("%d:%d", m.PointsA, m.PointsB)
		case Break:
			r.result = "rest"
		default:
			r.result = "-"
		}
		rows = append(rows, r)
	}

	// Compute column widths
	maxL, maxM, maxA, maxB := len("Lane"), len("Match"), len("Team A"), len("Team B")
	for _, r := range rows {
		if l := len(r.lane); l > maxL {
			maxL = l
		}
		if l := len(r.match); l > maxM {
			maxM = l
		}
		if l := len(r.teamA); l > maxA {
			maxA = l
		}
		if l := len(r.teamB); l > maxB {
			maxB = l
		}
	}

	sb.WriteString(fmt.Sprintf("%-*s  %-*s  %-*s  %-*s  %s\n", maxL, "Lane",
		maxM, "Match", maxA, "Team A", maxB, "Team B", "Result"))
	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("%-*s  %-*s  %-*s  %-*s  %s\n", maxL, r.lane,
			maxM, r.match, maxA, r.teamA, maxB, r.teamB, r.result))
	}
}

// BuildStandingsOutput formats ranked interim results into an aligned table.
// Teams level on every ranking key share a place.
func BuildStandingsOutput(g *Group, entries []InterimResultEntry) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%s Standings after batch %d:\n\n", g.Name,
		g.CurrentBatch))

	type row struct{ rank, team, match, stock, quotient string }
	var rows []row
	for idx, e := range entries {
		var rank string
		if idx != 0 && sameRank(entries[idx-1], e) {
			rank = ""
		} else {
			rank = fmt.Sprintf("%v.", idx+1)
		}
		rows = append(rows, row{
			rank:     rank,
			team:     g.teamName(e.Team),
			match:    fmt.Sprintf("%d:%d", e.MatchPoints[For], e.MatchPoints[Against]),
			stock:    fmt.Sprintf("%d:%d", e.StockPoints[For], e.StockPoints[Against]),
			quotient: fmt.Sprintf("%.3f", e.Quotient),
		})
	}

	// Compute column widths
	maxP, maxT, maxM, maxS := len("Place"), len("Team"), len("Points"), len("Stock")
	for _, r := range rows {
		if l := len(r.rank); l > maxP {
			maxP = l
		}
		if l := len(r.team); l > maxT {
			maxT = l
		}
		if l := len(r.match); l > maxM {
			maxM = l
		}
		if l := len(r.stock); l > maxS {
			maxS = l
		}
	}

	sb.WriteString(fmt.Sprintf("%-*s  %-*s  %-*s  %-*s  %s\n", maxP, "Place",
		maxT, "Team", maxM, "Points", maxS, "Stock", "Quotient"))
	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("%-*s  %-*s  %-*s  %-*s  %s\n", maxP, r.rank,
			maxT, r.team, maxM, r.match, maxS, r.stock, r.quotient))
	}

	return sb.String()
}

func sameRank(a, b InterimResultEntry) bool {
	return a.MatchPoints[For] == b.MatchPoints[For] &&
		a.Quotient == b.Quotient &&
		a.StockPoints[For] == b.StockPoints[For]
}

/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package competition

import (
	"fmt"
	"sort"
)

const (
	For     = 0
	Against = 1
)

// InterimResultEntry is one row of a group's standings table.
type InterimResultEntry struct {
	Team        int
	MatchPoints [2]int
	StockPoints [2]int
	Quotient    float64
}

// Comparator reports whether a ranks ahead of b.
type Comparator func(a, b InterimResultEntry) bool

// SymmetricComparator ranks by match points, then quotient, then stock
// points scored, then team index.
func SymmetricComparator(a, b InterimResultEntry) bool {
	if a.MatchPoints[For] != b.MatchPoints[For] {
		return a.MatchPoints[For] > b.MatchPoints[For]
	}

	return tieBreak(a, b)
}

// LegacyComparator reproduces the ranking of earlier releases, whose primary
// key compared one entry's match points won against the other entry's match
// points lost. It is kept so results can be reproduced until the league
// confirms which ranking is authoritative.
func LegacyComparator(a, b InterimResultEntry) bool {
	if a.MatchPoints[For] != b.MatchPoints[Against] {
		return a.MatchPoints[For] > b.MatchPoints[Against]
	}

	return tieBreak(a, b)
}

func tieBreak(a, b InterimResultEntry) bool {
	if a.Quotient != b.Quotient {
		return a.Quotient > b.Quotient
	}
	if a.StockPoints[For] != b.StockPoints[For] {
		return a.StockPoints[For] > b.StockPoints[For]
	}

	return a.Team < b.Team
}

type standingsOptions struct {
	less Comparator
}

type StandingsOption func(*standingsOptions)

// WithComparator overrides the default SymmetricComparator.
func WithComparator(c Comparator) StandingsOption {
	return func(o *standingsOptions) {
		o.less = c
	}
}

// Quotient returns stock points scored divided by stock points conceded, or 0
// when either side is zero.
func Quotient(stockFor, stockAgainst int) float64 {
	if stockFor == 0 || stockAgainst == 0 {
		return 0.0
	}

	return float64(stockFor) / float64(stockAgainst)
}

// ComputeStandings folds every played match into one entry per team and
// returns the entries ranked best first. Unplayed and Break matches are
// ignored.
func ComputeStandings(teamCount int, matches []Match,
	opts ...StandingsOption) ([]InterimResultEntry, error) {

	o := standingsOptions{less: SymmetricComparator}
	for _, opt := range opts {
		opt(&o)
	}

	entries := make([]InterimResultEntry, teamCount)
	for idx := range entries {
		entries[idx].Team = idx
	}

	for _, m := range matches {
		if m.Result != Played {
			continue
		}
		if m.TeamA < 0 || m.TeamA >= teamCount || m.TeamB < 0 ||
			m.TeamB >= teamCount {
			return nil, fmt.Errorf("%w: match %v vs %v in batch %v references a team outside 0..%v",
				ErrDataCorruption, m.TeamA, m.TeamB, m.Batch, teamCount-1)
		}

		a := &entries[m.TeamA]
		b := &entries[m.TeamB]
		switch m.Outcome {
		case WinnerA:
			a.MatchPoints[For] += 2
			b.MatchPoints[Against] += 2
		case Draw:
			a.MatchPoints[For]++
			a.MatchPoints[Against]++
			b.MatchPoints[For]++
			b.MatchPoints[Against]++
		case WinnerB:
			a.MatchPoints[Against] += 2
			b.MatchPoints[For] += 2
		}
		a.StockPoints[For] += m.PointsA
		a.StockPoints[Against] += m.PointsB
		b.StockPoints[For] += m.PointsB
		b.StockPoints[Against] += m.PointsA
	}

	for idx := range entries {
		entries[idx].Quotient = Quotient(entries[idx].StockPoints[For],
			entries[idx].StockPoints[Against])
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return o.less(entries[i], entries[j])
	})

	return entries, nil
}

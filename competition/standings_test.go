/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package competition

import (
	"errors"
	"math/rand"
	"reflect"
	"testing"
)

func played(a, b, pointsA, pointsB int) Match {
	return Match{
		TeamA:   a,
		TeamB:   b,
		Result:  Played,
		PointsA: pointsA,
		PointsB: pointsB,
		Outcome: OutcomeFromPoints(pointsA, pointsB),
	}
}

// threeTeamMatches: T1 beats T2 2:1, T1 and T3 draw 1:1, T3 beats T2 2:0.
func threeTeamMatches() []Match {
	return []Match{
		played(0, 1, 2, 1),
		played(0, 2, 1, 1),
		played(1, 2, 0, 2),
	}
}

func TestComputeStandings(t *testing.T) {
	got, err := ComputeStandings(3, threeTeamMatches())
	if err != nil {
		t.Fatalf("ComputeStandings: %v", err)
	}

	want := []InterimResultEntry{
		{Team: 2, MatchPoints: [2]int{3, 1}, StockPoints: [2]int{3, 1}, Quotient: 3.0},
		{Team: 0, MatchPoints: [2]int{3, 1}, StockPoints: [2]int{3, 2}, Quotient: 1.5},
		{Team: 1, MatchPoints: [2]int{0, 4}, StockPoints: [2]int{1, 4}, Quotient: 0.25},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ComputeStandings = %+v; want %+v", got, want)
	}
}

// TestLegacyComparator pins the ranking earlier releases produced. Its
// primary key compares won points against the other team's lost points, so
// the winless T2 stays ahead of T3 here.
func TestLegacyComparator(t *testing.T) {
	got, err := ComputeStandings(3, threeTeamMatches(),
		WithComparator(LegacyComparator))
	if err != nil {
		t.Fatalf("ComputeStandings: %v", err)
	}

	order := make([]int, len(got))
	for idx, e := range got {
		order[idx] = e.Team
	}
	if !reflect.DeepEqual(order, []int{0, 1, 2}) {
		t.Errorf("legacy order = %v; want [0 1 2]", order)
	}
}

func TestComputeStandingsIgnoresUnplayed(t *testing.T) {
	matches := []Match{
		played(0, 1, 3, 0),
		{TeamA: 1, TeamB: 2},
		{TeamA: 2, TeamB: NoTeam, Result: Break},
	}
	got, err := ComputeStandings(3, matches)
	if err != nil {
		t.Fatalf("ComputeStandings: %v", err)
	}

	if got[0].Team != 0 || got[0].MatchPoints != [2]int{2, 0} {
		t.Errorf("leader = %+v; want team 0 with 2:0", got[0])
	}
	// 3:0 has no conceded points, so the quotient stays 0
	if got[0].Quotient != 0.0 {
		t.Errorf("Quotient = %v; want 0", got[0].Quotient)
	}
	for _, e := range got {
		if e.Team == 2 && (e.MatchPoints != [2]int{} || e.StockPoints != [2]int{}) {
			t.Errorf("team 2 = %+v; want no points", e)
		}
	}
}

func TestComputeStandingsDataCorruption(t *testing.T) {
	matches := []Match{played(0, 7, 1, 0)}
	_, err := ComputeStandings(3, matches)
	if !errors.Is(err, ErrDataCorruption) {
		t.Errorf("err = %v; want ErrDataCorruption", err)
	}
}

// TestComputeStandingsOrderIndependent checks that the order matches are
// entered in does not change the table.
func TestComputeStandingsOrderIndependent(t *testing.T) {
	sched, err := GenerateSchedule(7, 3)
	if err != nil {
		t.Fatalf("GenerateSchedule: %v", err)
	}

	rng := rand.New(rand.NewSource(42))
	matches := sched.Matches()
	for idx := range matches {
		if matches[idx].IsBreak() {
			continue
		}
		matches[idx] = played(matches[idx].TeamA, matches[idx].TeamB,
			rng.Intn(4), rng.Intn(4))
	}

	want, err := ComputeStandings(7, matches)
	if err != nil {
		t.Fatalf("ComputeStandings: %v", err)
	}
	for i := 0; i < 20; i++ {
		shuffled := append([]Match(nil), matches...)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		got, err := ComputeStandings(7, shuffled)
		if err != nil {
			t.Fatalf("ComputeStandings: %v", err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("shuffle %d: standings = %+v; want %+v", i, got, want)
		}
	}
}

func TestQuotient(t *testing.T) {
	cases := []struct {
		stockFor, stockAgainst int
		want                   float64
	}{
		{0, 0, 0.0},
		{0, 5, 0.0},
		{5, 0, 0.0},
		{3, 2, 1.5},
		{1, 4, 0.25},
	}
	for _, c := range cases {
		if got := Quotient(c.stockFor, c.stockAgainst); got != c.want {
			t.Errorf("Quotient(%d, %d) = %v; want %v", c.stockFor,
				c.stockAgainst, got, c.want)
		}
	}
}

func TestOutcomeFromPoints(t *testing.T) {
	cases := []struct {
		a, b int
		want Outcome
	}{
		{3, 1, WinnerA},
		{1, 3, WinnerB},
		{2, 2, Draw},
		{0, 0, Draw},
	}
	for _, c := range cases {
		if got := OutcomeFromPoints(c.a, c.b); got != c.want {
			t.Errorf("OutcomeFromPoints(%d, %d) = %v; want %v", c.a, c.b, got,
				c.want)
		}
	}
}

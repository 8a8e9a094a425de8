/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package competition

import (
	"errors"
	"fmt"
	"testing"
)

func makeTeams(groups, perGroup int) [][]Team {
	out := make([][]Team, groups)
	for g := range out {
		for t := 0; t < perGroup; t++ {
			out[g] = append(out[g], Team{Name: fmt.Sprintf("Team %c%d", 'A'+g, t+1)})
		}
	}

	return out
}

func mustNew(t *testing.T, groups, perGroup int, withBreak bool) *Competition {
	t.Helper()
	c, err := New(Metadata{Name: "League Day"}, makeTeams(groups, perGroup),
		withBreak)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	return c
}

func TestNewInvalid(t *testing.T) {
	cases := []struct {
		name  string
		teams [][]Team
	}{
		{"no groups", nil},
		{"single team", [][]Team{{{Name: "A"}}}},
		{"empty name", [][]Team{{{Name: "A"}, {Name: "  "}}}},
		{"duplicate name", [][]Team{{{Name: "A"}, {Name: "A "}}}},
		{"uneven groups", [][]Team{{{Name: "A"}, {Name: "B"}},
			{{Name: "C"}, {Name: "D"}, {Name: "E"}}}},
	}
	for _, c := range cases {
		_, err := New(Metadata{}, c.teams, false)
		if !errors.Is(err, ErrInvalidConfiguration) {
			t.Errorf("%s: err = %v; want ErrInvalidConfiguration", c.name, err)
		}
	}
}

func TestNew(t *testing.T) {
	c := mustNew(t, 2, 5, true)

	if d := c.Distribution(); d != (Distribution{2, 5}) {
		t.Errorf("Distribution() = %v; want 2 x 5", d)
	}
	if c.CountTeams() != 10 {
		t.Errorf("CountTeams() = %d; want 10", c.CountTeams())
	}
	for gIdx, g := range c.Groups {
		if want := fmt.Sprintf("Group %d", gIdx+1); g.Name != want {
			t.Errorf("group name = %q; want %q", g.Name, want)
		}
		if g.Lanes != 3 {
			t.Errorf("Lanes = %d; want 3", g.Lanes)
		}
		if g.CurrentBatch != 0 {
			t.Errorf("CurrentBatch = %d; want 0", g.CurrentBatch)
		}
		// 10 pairings plus 5 breaks
		if len(g.Matches) != 15 {
			t.Errorf("len(Matches) = %d; want 15", len(g.Matches))
		}
	}
}

func TestRecordResultErrors(t *testing.T) {
	c := mustNew(t, 1, 5, true)

	breakIdx := -1
	for idx, m := range c.Groups[0].Matches {
		if m.IsBreak() {
			breakIdx = idx
			break
		}
	}
	if breakIdx < 0 {
		t.Fatalf("no break match in a 5 team group")
	}

	cases := []struct {
		name                      string
		group, match, pointsA, pb int
	}{
		{"break", 0, breakIdx, 1, 0},
		{"group range", 1, 0, 1, 0},
		{"match range", 0, 99, 1, 0},
		{"negative match", 0, -1, 1, 0},
		{"negative points", 0, breakIdx + 1, -1, 0},
	}
	for _, tc := range cases {
		err := c.RecordResult(tc.group, tc.match, tc.pointsA, tc.pb)
		if !errors.Is(err, ErrInvalidMatch) {
			t.Errorf("%s: err = %v; want ErrInvalidMatch", tc.name, err)
		}
	}
	if m := c.Groups[0].Matches[breakIdx]; m.Result != Break {
		t.Errorf("break match result = %v; want Break", m.Result)
	}
}

func TestRecordResultOverwrite(t *testing.T) {
	c := mustNew(t, 1, 4, false)

	if err := c.RecordResult(0, 0, 3, 1); err != nil {
		t.Fatalf("RecordResult: %v", err)
	}
	before, err := c.Standings(0)
	if err != nil {
		t.Fatalf("Standings: %v", err)
	}
	m := c.Groups[0].Matches[0]
	if before[0].Team != m.TeamA || before[0].MatchPoints[For] != 2 {
		t.Errorf("leader = %+v; want team %d with 2 points", before[0], m.TeamA)
	}

	// correcting the result must invalidate the cached table
	if err := c.RecordResult(0, 0, 0, 2); err != nil {
		t.Fatalf("RecordResult: %v", err)
	}
	m = c.Groups[0].Matches[0]
	if m.Result != Played || m.Outcome != WinnerB || m.PointsA != 0 ||
		m.PointsB != 2 {
		t.Errorf("match = %+v; want Played WinnerB 0:2", m)
	}
	after, err := c.Standings(0)
	if err != nil {
		t.Fatalf("Standings: %v", err)
	}
	if after[0].Team != m.TeamB || after[0].MatchPoints != [2]int{2, 0} {
		t.Errorf("leader = %+v; want team %d with 2:0", after[0], m.TeamB)
	}
}

func TestStandingsReturnsCopy(t *testing.T) {
	c := mustNew(t, 1, 4, false)
	if err := c.RecordResult(0, 0, 2, 0); err != nil {
		t.Fatalf("RecordResult: %v", err)
	}

	first, _ := c.Standings(0)
	first[0].MatchPoints[For] = 100
	second, _ := c.Standings(0)
	if second[0].MatchPoints[For] != 2 {
		t.Errorf("cached table was modified through a returned slice")
	}
}

func TestNewBreakLanes(t *testing.T) {
	cases := []struct {
		withBreak                bool
		lanes, batches, breakCnt int
	}{
		{false, 2, 5, 0},
		{true, 3, 5, 5},
	}
	for _, tc := range cases {
		c := mustNew(t, 1, 5, tc.withBreak)
		g := c.Groups[0]
		breaks := 0
		for _, m := range g.Matches {
			if m.IsBreak() {
				breaks++
			}
		}
		if g.Lanes != tc.lanes || g.BatchCount() != tc.batches ||
			breaks != tc.breakCnt {
			t.Errorf("withBreak=%v: lanes=%d batches=%d breaks=%d; want %d %d %d",
				tc.withBreak, g.Lanes, g.BatchCount(), breaks, tc.lanes,
				tc.batches, tc.breakCnt)
		}
		if len(g.Matches)-breaks != 10 {
			t.Errorf("withBreak=%v: %d pairings; want 10", tc.withBreak,
				len(g.Matches)-breaks)
		}
	}

	c := mustNew(t, 1, 5, true)
	if _, err := Restore(c.Meta, false, c.Groups); !errors.Is(err,
		ErrDataCorruption) {
		t.Errorf("Restore of breaks without breaks err = %v; want ErrDataCorruption",
			err)
	}
}

func TestNewTrimsTeamNames(t *testing.T) {
	c, err := New(Metadata{}, [][]Team{{{Name: "Eagles "}, {Name: "Hawks"},
		{Name: "Owls"}}}, false)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c.Groups[0].Teams[0].Name != "Eagles" {
		t.Errorf("team name = %q; want Eagles", c.Groups[0].Teams[0].Name)
	}
	if err := c.SetTeamName(0, 1, "Eagles"); !errors.Is(err,
		ErrInvalidConfiguration) {
		t.Errorf("duplicate rename err = %v; want ErrInvalidConfiguration", err)
	}
	if _, err := Restore(c.Meta, c.WithBreak, c.Groups); err != nil {
		t.Errorf("Restore: %v", err)
	}
}

func TestSetComparator(t *testing.T) {
	c, err := New(Metadata{}, [][]Team{{{Name: "T1"}, {Name: "T2"}, {Name: "T3"}}},
		false)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	results := map[[2]int][2]int{
		{0, 1}: {2, 1},
		{0, 2}: {1, 1},
		{1, 2}: {0, 2},
	}
	for idx, m := range c.Groups[0].Matches {
		if m.IsBreak() {
			continue
		}
		pts, ok := results[[2]int{m.TeamA, m.TeamB}]
		if !ok {
			r := results[[2]int{m.TeamB, m.TeamA}]
			pts = [2]int{r[1], r[0]}
		}
		if err := c.RecordResult(0, idx, pts[0], pts[1]); err != nil {
			t.Fatalf("RecordResult: %v", err)
		}
	}

	got, _ := c.Standings(0)
	if got[0].Team != 2 {
		t.Errorf("symmetric leader = %d; want 2", got[0].Team)
	}
	c.SetComparator(LegacyComparator)
	got, _ = c.Standings(0)
	if got[0].Team != 0 || got[1].Team != 1 {
		t.Errorf("legacy order = %d,%d; want 0,1", got[0].Team, got[1].Team)
	}
}

func TestAdvanceBatch(t *testing.T) {
	c := mustNew(t, 1, 4, false)
	g := c.Groups[0]
	if g.BatchCount() != 3 {
		t.Fatalf("BatchCount() = %d; want 3", g.BatchCount())
	}

	for batch := 0; batch < 3; batch++ {
		next, err := c.NextMatches(0)
		if err != nil {
			t.Fatalf("NextMatches: %v", err)
		}
		if len(next) != 2 {
			t.Fatalf("batch %d: len(NextMatches) = %d; want 2", batch, len(next))
		}
		for lane, m := range next {
			if m.Batch != batch || m.Lane != lane {
				t.Errorf("next match = %+v; want batch %d lane %d", m, batch,
					lane)
			}
		}

		advanced, err := c.AdvanceBatch(0)
		if err != nil || advanced {
			t.Errorf("AdvanceBatch on unplayed batch = %v, %v; want false", advanced,
				err)
		}

		for idx, m := range g.Matches {
			if m.Batch == batch {
				if err := c.RecordResult(0, idx, 1, 0); err != nil {
					t.Fatalf("RecordResult: %v", err)
				}
			}
		}
		complete, _ := c.IsBatchComplete(0)
		if !complete {
			t.Errorf("batch %d incomplete after recording all results", batch)
		}
		advanced, err = c.AdvanceBatch(0)
		if err != nil || !advanced {
			t.Fatalf("AdvanceBatch = %v, %v; want true", advanced, err)
		}
		if g.CurrentBatch != batch+1 {
			t.Errorf("CurrentBatch = %d; want %d", g.CurrentBatch, batch+1)
		}
	}

	next, _ := c.NextMatches(0)
	if len(next) != 0 {
		t.Errorf("NextMatches after the last batch = %v; want none", next)
	}
	advanced, err := c.AdvanceBatch(0)
	if err != nil || advanced {
		t.Errorf("AdvanceBatch past the end = %v, %v; want false", advanced, err)
	}
	if g.CurrentBatch != 3 {
		t.Errorf("CurrentBatch = %d; want 3", g.CurrentBatch)
	}
}

func TestIsBatchCompleteWithBreak(t *testing.T) {
	c := mustNew(t, 1, 5, true)
	g := c.Groups[0]

	for idx, m := range g.Matches {
		if m.Batch == 0 && !m.IsBreak() {
			if err := c.RecordResult(0, idx, 2, 2); err != nil {
				t.Fatalf("RecordResult: %v", err)
			}
		}
	}
	complete, err := c.IsBatchComplete(0)
	if err != nil || !complete {
		t.Errorf("IsBatchComplete = %v, %v; want true", complete, err)
	}
}

func TestRename(t *testing.T) {
	c := mustNew(t, 2, 3, false)

	if err := c.SetGroupName(1, "Finals"); err != nil {
		t.Fatalf("SetGroupName: %v", err)
	}
	if c.Groups[1].Name != "Finals" {
		t.Errorf("group name = %q; want Finals", c.Groups[1].Name)
	}
	if err := c.SetGroupName(2, "x"); !errors.Is(err, ErrInvalidMatch) {
		t.Errorf("SetGroupName(2) err = %v; want ErrInvalidMatch", err)
	}

	if err := c.SetTeamName(0, 1, " EC Vilsbiburg "); err != nil {
		t.Fatalf("SetTeamName: %v", err)
	}
	if c.Groups[0].Teams[1].Name != "EC Vilsbiburg" {
		t.Errorf("team name = %q; want trimmed name", c.Groups[0].Teams[1].Name)
	}
	if err := c.SetTeamName(0, 0, "EC Vilsbiburg"); !errors.Is(err,
		ErrInvalidConfiguration) {
		t.Errorf("duplicate rename err = %v; want ErrInvalidConfiguration", err)
	}
	if err := c.SetTeamName(0, 0, ""); !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("empty rename err = %v; want ErrInvalidConfiguration", err)
	}
	if err := c.SetTeamName(0, 5, "X"); !errors.Is(err, ErrInvalidMatch) {
		t.Errorf("out of range rename err = %v; want ErrInvalidMatch", err)
	}
}

func TestRestore(t *testing.T) {
	c := mustNew(t, 1, 4, false)
	if _, err := Restore(c.Meta, c.WithBreak, c.Groups); err != nil {
		t.Fatalf("Restore: %v", err)
	}

	corrupt := func(mutate func(g *Group)) *Group {
		g := *c.Groups[0]
		g.Teams = append([]Team(nil), g.Teams...)
		g.Matches = append([]Match(nil), g.Matches...)
		mutate(&g)
		return &g
	}
	cases := []struct {
		name string
		g    *Group
	}{
		{"team out of range", corrupt(func(g *Group) { g.Matches[0].TeamB = 9 })},
		{"self match", corrupt(func(g *Group) { g.Matches[0].TeamB = g.Matches[0].TeamA })},
		{"lane out of range", corrupt(func(g *Group) { g.Matches[0].Lane = 5 })},
		{"lane reused", corrupt(func(g *Group) { g.Matches[1].Lane = g.Matches[0].Lane })},
		{"batch out of range", corrupt(func(g *Group) { g.CurrentBatch = 9 })},
		{"break with opponent", corrupt(func(g *Group) { g.Matches[0].Result = Break })},
	}
	for _, tc := range cases {
		_, err := Restore(c.Meta, false, []*Group{tc.g})
		if !errors.Is(err, ErrDataCorruption) {
			t.Errorf("%s: err = %v; want ErrDataCorruption", tc.name, err)
		}
	}
}

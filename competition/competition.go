/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package competition

import (
	"fmt"
	"strings"
	"sync"
)

// Competition is the in-memory aggregate of a league day: metadata, groups
// with their schedules, and cached standings. It is not safe for concurrent
// use; share it through Shared. Standings may be called by concurrent
// readers.
type Competition struct {
	Meta      Metadata
	WithBreak bool
	Groups    []*Group

	cacheMu   sync.Mutex
	less      Comparator
	standings map[int][]InterimResultEntry
}

// New validates the roster and generates every group's schedule. All groups
// must have the same number of teams.
func New(meta Metadata, teams [][]Team, withBreak bool) (*Competition, error) {
	if len(teams) == 0 {
		return nil, fmt.Errorf("%w: no groups", ErrInvalidConfiguration)
	}

	c := &Competition{
		Meta:      meta,
		WithBreak: withBreak,
	}
	teamsPerGroup := len(teams[0])
	lanes := LaneCount(teamsPerGroup, withBreak)

	for gIdx, roster := range teams {
		if len(roster) != teamsPerGroup {
			return nil, fmt.Errorf("%w: group %v has %v teams; expected %v",
				ErrInvalidConfiguration, gIdx+1, len(roster), teamsPerGroup)
		}
		if err := validateRoster(roster); err != nil {
			return nil, fmt.Errorf("group %v: %w", gIdx+1, err)
		}

		groupTeams := append([]Team(nil), roster...)
		for idx := range groupTeams {
			groupTeams[idx].Name = strings.TrimSpace(groupTeams[idx].Name)
		}

		sched := generateSchedule(len(roster), lanes, withBreak)
		c.Groups = append(c.Groups, &Group{
			Name:    fmt.Sprintf("Group %v", gIdx+1),
			Teams:   groupTeams,
			Lanes:   lanes,
			Matches: sched.Matches(),
		})
	}

	return c, nil
}

// Restore rebuilds a competition from previously generated groups, e.g. after
// loading a saved document, and checks that every match still fits the
// roster and lane layout. Break matches are only allowed with withBreak.
func Restore(meta Metadata, withBreak bool, groups []*Group) (*Competition, error) {
	for gIdx, g := range groups {
		if err := validateGroup(g); err != nil {
			return nil, fmt.Errorf("group %v: %w", gIdx+1, err)
		}
		if withBreak {
			continue
		}
		for idx, m := range g.Matches {
			if m.IsBreak() {
				return nil, fmt.Errorf("group %v: %w: break match %v without breaks enabled",
					gIdx+1, ErrDataCorruption, idx)
			}
		}
	}

	return &Competition{
		Meta:      meta,
		WithBreak: withBreak,
		Groups:    groups,
	}, nil
}

func validateRoster(roster []Team) error {
	if len(roster) < 2 {
		return fmt.Errorf("%w: at least 2 teams are required, got %v",
			ErrInvalidConfiguration, len(roster))
	}

	seen := make(map[string]bool)
	for idx, t := range roster {
		name := strings.TrimSpace(t.Name)
		if name == "" {
			return fmt.Errorf("%w: team %v has no name", ErrInvalidConfiguration,
				idx+1)
		}
		if seen[name] {
			return fmt.Errorf("%w: duplicate team name %q",
				ErrInvalidConfiguration, name)
		}
		seen[name] = true
	}

	return nil
}

func validateGroup(g *Group) error {
	if err := validateRoster(g.Teams); err != nil {
		return err
	}
	if g.Lanes < 1 {
		return fmt.Errorf("%w: %v lanes", ErrDataCorruption, g.Lanes)
	}

	type slot struct{ batch, lane int }
	lanesUsed := make(map[slot]bool)
	for idx, m := range g.Matches {
		if m.TeamA < 0 || m.TeamA >= len(g.Teams) {
			return fmt.Errorf("%w: match %v references team %v",
				ErrDataCorruption, idx, m.TeamA)
		}
		if m.IsBreak() {
			if m.TeamB != NoTeam {
				return fmt.Errorf("%w: break match %v has an opponent",
					ErrDataCorruption, idx)
			}
		} else if m.TeamB < 0 || m.TeamB >= len(g.Teams) || m.TeamB == m.TeamA {
			return fmt.Errorf("%w: match %v references team %v",
				ErrDataCorruption, idx, m.TeamB)
		}
		if m.Batch < 0 || m.Lane < 0 || m.Lane >= g.Lanes {
			return fmt.Errorf("%w: match %v has batch %v lane %v",
				ErrDataCorruption, idx, m.Batch, m.Lane)
		}
		s := slot{m.Batch, m.Lane}
		if lanesUsed[s] {
			return fmt.Errorf("%w: lane %v used twice in batch %v",
				ErrDataCorruption, m.Lane, m.Batch)
		}
		lanesUsed[s] = true
	}
	if g.CurrentBatch < 0 || g.CurrentBatch > g.BatchCount() {
		return fmt.Errorf("%w: current batch %v out of range",
			ErrDataCorruption, g.CurrentBatch)
	}

	return nil
}

// Distribution returns the group count and teams per group.
func (c *Competition) Distribution() Distribution {
	d := Distribution{Groups: len(c.Groups)}
	if len(c.Groups) > 0 {
		d.TeamsPerGroup = len(c.Groups[0].Teams)
	}

	return d
}

// CountTeams returns the number of teams over all groups.
func (c *Competition) CountTeams() int {
	count := 0
	for _, g := range c.Groups {
		count += len(g.Teams)
	}

	return count
}

// Group returns the group at groupIdx.
func (c *Competition) Group(groupIdx int) (*Group, error) {
	if groupIdx < 0 || groupIdx >= len(c.Groups) {
		return nil, fmt.Errorf("%w: group %v does not exist", ErrInvalidMatch,
			groupIdx)
	}

	return c.Groups[groupIdx], nil
}

// SetComparator changes the ranking used by Standings and drops every cached
// table.
func (c *Competition) SetComparator(less Comparator) {
	c.cacheMu.Lock()
	defer c.cacheMu.Unlock()

	c.less = less
	c.standings = nil
}

// RecordResult enters (or corrects) the stock points of a match and derives
// its outcome.
func (c *Competition) RecordResult(groupIdx, matchIdx, pointsA, pointsB int) error {
	g, err := c.Group(groupIdx)
	if err != nil {
		return err
	}
	if matchIdx < 0 || matchIdx >= len(g.Matches) {
		return fmt.Errorf("%w: match %v does not exist in %v", ErrInvalidMatch,
			matchIdx, g.Name)
	}
	m := &g.Matches[matchIdx]
	if m.IsBreak() {
		return fmt.Errorf("%w: match %v in %v is a break", ErrInvalidMatch,
			matchIdx, g.Name)
	}
	if pointsA < 0 || pointsB < 0 {
		return fmt.Errorf("%w: negative points %v:%v", ErrInvalidMatch, pointsA,
			pointsB)
	}

	m.PointsA = pointsA
	m.PointsB = pointsB
	m.Outcome = OutcomeFromPoints(pointsA, pointsB)
	m.Result = Played

	c.cacheMu.Lock()
	delete(c.standings, groupIdx)
	c.cacheMu.Unlock()

	return nil
}

// Standings returns the group's ranked interim results, computing them only
// when a result changed since the last call.
func (c *Competition) Standings(groupIdx int) ([]InterimResultEntry, error) {
	g, err := c.Group(groupIdx)
	if err != nil {
		return nil, err
	}

	c.cacheMu.Lock()
	defer c.cacheMu.Unlock()

	if cached, ok := c.standings[groupIdx]; ok {
		return append([]InterimResultEntry(nil), cached...), nil
	}

	var opts []StandingsOption
	if c.less != nil {
		opts = append(opts, WithComparator(c.less))
	}
	entries, err := ComputeStandings(len(g.Teams), g.Matches, opts...)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", g.Name, err)
	}
	if c.standings == nil {
		c.standings = make(map[int][]InterimResultEntry)
	}
	c.standings[groupIdx] = entries

	return append([]InterimResultEntry(nil), entries...), nil
}

// IsBatchComplete reports whether every match of the group's current batch
// has a result. A finished schedule counts as complete.
func (c *Competition) IsBatchComplete(groupIdx int) (bool, error) {
	g, err := c.Group(groupIdx)
	if err != nil {
		return false, err
	}
	for _, m := range g.Matches {
		if m.Batch == g.CurrentBatch && m.Result == NotPlayed {
			return false, nil
		}
	}

	return true, nil
}

// AdvanceBatch moves the group to its next batch. It does nothing and returns
// false while matches of the current batch are unplayed or when the schedule
// is exhausted.
func (c *Competition) AdvanceBatch(groupIdx int) (bool, error) {
	complete, err := c.IsBatchComplete(groupIdx)
	if err != nil || !complete {
		return false, err
	}
	g := c.Groups[groupIdx]
	if g.CurrentBatch >= g.BatchCount() {
		return false, nil
	}
	g.CurrentBatch++

	return true, nil
}

// NextMatches returns the matches of the group's current batch by lane. The
// result is empty once every batch has been played.
func (c *Competition) NextMatches(groupIdx int) ([]Match, error) {
	g, err := c.Group(groupIdx)
	if err != nil {
		return nil, err
	}

	return g.BatchMatches(g.CurrentBatch), nil
}

func (c *Competition) SetGroupName(groupIdx int, name string) error {
	g, err := c.Group(groupIdx)
	if err != nil {
		return err
	}
	g.Name = name

	return nil
}

// SetTeamName renames a team; the new name must be non-empty and unique in
// its group.
func (c *Competition) SetTeamName(groupIdx, teamIdx int, name string) error {
	g, err := c.Group(groupIdx)
	if err != nil {
		return err
	}
	if teamIdx < 0 || teamIdx >= len(g.Teams) {
		return fmt.Errorf("%w: team %v does not exist in %v", ErrInvalidMatch,
			teamIdx, g.Name)
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: empty team name", ErrInvalidConfiguration)
	}
	for idx, t := range g.Teams {
		if idx != teamIdx && strings.TrimSpace(t.Name) == name {
			return fmt.Errorf("%w: duplicate team name %q",
				ErrInvalidConfiguration, name)
		}
	}
	g.Teams[teamIdx].Name = name

	return nil
}

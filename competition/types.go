/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package competition

import "fmt"

const (
	MaxPlayersPerTeam = 6

	// NoTeam is the opponent index of a Break match
	NoTeam = -1
)

// Team represents one competing team within a group. Its identity is its index
// in Group.Teams.
type Team struct {
	Name        string
	Region      string
	PlayerNames [MaxPlayersPerTeam]*string
}

// Players returns the non-empty player names in slot order.
func (t Team) Players() []string {
	var out []string
	for _, p := range t.PlayerNames {
		if p != nil && *p != "" {
			out = append(out, *p)
		}
	}

	return out
}

type ResultState int

const (
	NotPlayed ResultState = iota
	Played
	Break
)

func (r ResultState) String() string {
	switch r {
	case NotPlayed:
		return "NotPlayed"
	case Played:
		return "Played"
	case Break:
		return "Break"
	default:
		return "?"
	}
}

// ParseResultState is the inverse of ResultState.String().
func ParseResultState(s string) (ResultState, error) {
	switch s {
	case "NotPlayed":
		return NotPlayed, nil
	case "Played":
		return Played, nil
	case "Break":
		return Break, nil
	}

	return NotPlayed, fmt.Errorf("unknown result state %q", s)
}

type Outcome int

const (
	WinnerA Outcome = iota
	Draw
	WinnerB
)

func (o Outcome) String() string {
	switch o {
	case WinnerA:
		return "WinnerA"
	case Draw:
		return "Draw"
	case WinnerB:
		return "WinnerB"
	default:
		return "?"
	}
}

// OutcomeFromPoints derives the outcome of a match from the entered stock
// points; equal points are a draw.
func OutcomeFromPoints(pointsA, pointsB int) Outcome {
	if pointsA > pointsB {
		return WinnerA
	} else if pointsA < pointsB {
		return WinnerB
	}

	return Draw
}

// Match is a single lane assignment within a batch. For Break matches TeamA
// is the resting team and TeamB is NoTeam.
type Match struct {
	TeamA   int
	TeamB   int
	Batch   int
	Lane    int
	Result  ResultState
	PointsA int
	PointsB int
	Outcome Outcome
}

func (m Match) IsBreak() bool {
	return m.Result == Break
}

// Involves reports whether team idx is part of this match.
func (m Match) Involves(idx int) bool {
	return m.TeamA == idx || (m.TeamB != NoTeam && m.TeamB == idx)
}

// Distribution is a (group count × teams per group) split of a team count.
type Distribution struct {
	Groups        int
	TeamsPerGroup int
}

func (d Distribution) String() string {
	return fmt.Sprintf("%d x %d", d.Groups, d.TeamsPerGroup)
}

// Metadata holds the descriptive fields printed on result sheets.
type Metadata struct {
	Name               string
	Date               string
	Place              string
	Executor           string
	Organizer          string
	Referee            string
	CompetitionManager string
	Clerk              string
	AdditionalText     string
}

// Group is one round-robin pool of teams together with its schedule.
type Group struct {
	Name         string
	Teams        []Team
	Lanes        int
	CurrentBatch int
	Matches      []Match
}

// BatchCount returns the number of batches in the group's schedule.
func (g *Group) BatchCount() int {
	count := 0
	for _, m := range g.Matches {
		if m.Batch+1 > count {
			count = m.Batch + 1
		}
	}

	return count
}

// BatchMatches returns the group's matches scheduled in batch, ordered by
// lane.
func (g *Group) BatchMatches(batch int) []Match {
	var out []Match
	for _, m := range g.Matches {
		if m.Batch == batch {
			out = append(out, m)
		}
	}
	sortByLane(out)

	return out
}

func (g *Group) teamName(idx int) string {
	if idx == NoTeam {
		return "BREAK"
	}
	if idx < 0 || idx >= len(g.Teams) {
		return "?"
	}

	return g.Teams[idx].Name
}

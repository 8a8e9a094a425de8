/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package competition

import (
	"fmt"
	"sort"
)

// Batch is the set of matches played simultaneously, one per lane.
type Batch []Match

// Schedule is the ordered list of batches for one group.
type Schedule []Batch

// Matches flattens the schedule in batch, then lane order.
func (s Schedule) Matches() []Match {
	var out []Match
	for _, b := range s {
		out = append(out, b...)
	}

	return out
}

type pairing struct {
	a, b  int
	round int
}

// GenerateSchedule builds a single round-robin for teamCount teams using the
// circle method and packs it into batches of at most laneCount lanes. With an
// odd team count every team gets exactly one Break match.
func GenerateSchedule(teamCount, laneCount int) (Schedule, error) {
	if teamCount < 2 {
		return nil, fmt.Errorf("%w: at least 2 teams are required, got %d",
			ErrInvalidConfiguration, teamCount)
	}
	if laneCount < 1 {
		return nil, fmt.Errorf("%w: at least 1 lane is required, got %d",
			ErrInvalidConfiguration, laneCount)
	}

	return generateSchedule(teamCount, laneCount, true), nil
}

// generateSchedule packs the circle rounds. Without breaks the bye pairings
// of an odd team count are left out so they take no lane.
func generateSchedule(teamCount, laneCount int, withBreaks bool) Schedule {
	rounds := buildRounds(teamCount)
	if !withBreaks {
		rounds = dropByes(rounds)
	}

	return packBatches(rounds, laneCount)
}

func dropByes(rounds [][]pairing) [][]pairing {
	out := make([][]pairing, 0, len(rounds))
	for _, round := range rounds {
		kept := make([]pairing, 0, len(round))
		for _, p := range round {
			if p.b != NoTeam {
				kept = append(kept, p)
			}
		}
		out = append(out, kept)
	}

	return out
}

// buildRounds pairs circle position i against position n-1-i, then rotates
// every position but the first.
func buildRounds(teamCount int) [][]pairing {
	n := teamCount
	bye := NoTeam
	if n%2 == 1 {
		bye = n
		n++
	}

	circle := make([]int, n)
	for i := range circle {
		circle[i] = i
	}

	rounds := make([][]pairing, 0, n-1)
	for r := 0; r < n-1; r++ {
		round := make([]pairing, 0, n/2)
		for i := 0; i < n/2; i++ {
			a, b := circle[i], circle[n-1-i]
			if a == bye {
				a, b = b, NoTeam
			} else if b == bye {
				b = NoTeam
			}
			round = append(round, pairing{a: a, b: b, round: r})
		}
		rounds = append(rounds, round)

		last := circle[n-1]
		copy(circle[2:], circle[1:n-1])
		circle[1] = last
	}

	return rounds
}

// packBatches fills each batch from the earliest pending round and the round
// after it, skipping entries whose team is already busy in the batch.
func packBatches(rounds [][]pairing, laneCount int) Schedule {
	var pending []pairing
	for _, round := range rounds {
		pending = append(pending, round...)
	}

	var sched Schedule
	for len(pending) > 0 {
		horizon := pending[0].round + 1
		busy := make(map[int]bool)
		batch := make(Batch, 0, laneCount)
		rest := make([]pairing, 0, len(pending))

		for _, p := range pending {
			if len(batch) == laneCount || p.round > horizon || busy[p.a] ||
				(p.b != NoTeam && busy[p.b]) {
				rest = append(rest, p)
				continue
			}

			m := Match{
				TeamA: p.a,
				TeamB: p.b,
				Batch: len(sched),
				Lane:  len(batch),
			}
			if p.b == NoTeam {
				m.Result = Break
			} else {
				busy[p.b] = true
			}
			busy[p.a] = true
			batch = append(batch, m)
		}

		sched = append(sched, batch)
		pending = rest
	}

	return sched
}

func sortByLane(matches []Match) {
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Lane < matches[j].Lane
	})
}

/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package competition

// CalcGroupPossibilities lists every way countTeams teams can be split into
// equally sized groups, starting with a single group.
func CalcGroupPossibilities(countTeams int) []Distribution {
	if countTeams <= 0 {
		return []Distribution{}
	}

	out := []Distribution{{Groups: 1, TeamsPerGroup: countTeams}}
	for g := 2; g < countTeams; g++ {
		if countTeams%g == 0 {
			out = append(out, Distribution{Groups: g, TeamsPerGroup: countTeams / g})
		}
	}

	return out
}

// LaneCount derives the number of lanes for a group. With breaks enabled an
// odd team count rounds up so the resting team keeps its own lane.
func LaneCount(teamsPerGroup int, withBreak bool) int {
	lanes := teamsPerGroup / 2
	if withBreak && teamsPerGroup%2 == 1 {
		lanes++
	}
	if lanes < 1 {
		lanes = 1
	}

	return lanes
}

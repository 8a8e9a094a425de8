/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package document

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/mikeb26/stocksport-td/competition"
)

var (
	// ErrPersistence wraps I/O failures of a Store.
	ErrPersistence = errors.New("persistence failure")

	// ErrParse means a saved document is malformed or inconsistent.
	ErrParse = errors.New("malformed document")
)

// Document is the saved form of a competition. Field names and shapes are
// the on-disk format and must not change.
type Document struct {
	Name               string `json:"name"`
	Date               string `json:"date"`
	Place              string `json:"place"`
	Executor           string `json:"executor"`
	Organizer          string `json:"organizer"`
	Referee            string `json:"referee"`
	CompetitionManager string `json:"competition_manager"`
	Clerk              string `json:"clerk"`
	AdditionalText     string `json:"additional_text"`

	CountTeams       int    `json:"count_teams"`
	CountGroups      int    `json:"count_groups"`
	TeamDistribution [2]int `json:"team_distribution"`

	Teams        [][]Team  `json:"teams"`
	GroupNames   []string  `json:"group_names"`
	Matches      [][]Match `json:"matches"`
	CurrentBatch []int     `json:"current_batch"`
	WithBreak    bool      `json:"with_break"`
}

type Team struct {
	Name        string                                 `json:"name"`
	Region      string                                 `json:"region"`
	PlayerNames [competition.MaxPlayersPerTeam]*string `json:"player_names"`
}

// Match is one scheduled entry. Points is null unless the match was played.
type Match struct {
	TeamA  int     `json:"team_a"`
	TeamB  int     `json:"team_b"`
	Points *[2]int `json:"points"`
	Result string  `json:"result"`
	Batch  int     `json:"batch"`
	Lane   int     `json:"lane"`
}

// FromCompetition captures the persisted state of c. Cached standings are
// not part of the document.
func FromCompetition(c *competition.Competition) *Document {
	dist := c.Distribution()
	doc := &Document{
		Name:               c.Meta.Name,
		Date:               c.Meta.Date,
		Place:              c.Meta.Place,
		Executor:           c.Meta.Executor,
		Organizer:          c.Meta.Organizer,
		Referee:            c.Meta.Referee,
		CompetitionManager: c.Meta.CompetitionManager,
		Clerk:              c.Meta.Clerk,
		AdditionalText:     c.Meta.AdditionalText,
		CountTeams:         c.CountTeams(),
		CountGroups:        dist.Groups,
		TeamDistribution:   [2]int{dist.Groups, dist.TeamsPerGroup},
		WithBreak:          c.WithBreak,
		Teams:              make([][]Team, 0, len(c.Groups)),
		GroupNames:         make([]string, 0, len(c.Groups)),
		Matches:            make([][]Match, 0, len(c.Groups)),
		CurrentBatch:       make([]int, 0, len(c.Groups)),
	}

	for _, g := range c.Groups {
		teams := make([]Team, 0, len(g.Teams))
		for _, t := range g.Teams {
			dt := Team{Name: t.Name, Region: t.Region}
			for idx, p := range t.PlayerNames {
				if p != nil {
					name := *p
					dt.PlayerNames[idx] = &name
				}
			}
			teams = append(teams, dt)
		}

		matches := make([]Match, 0, len(g.Matches))
		for _, m := range g.Matches {
			dm := Match{
				TeamA:  m.TeamA,
				TeamB:  m.TeamB,
				Result: m.Result.String(),
				Batch:  m.Batch,
				Lane:   m.Lane,
			}
			if m.Result == competition.Played {
				dm.Points = &[2]int{m.PointsA, m.PointsB}
			}
			matches = append(matches, dm)
		}

		doc.Teams = append(doc.Teams, teams)
		doc.GroupNames = append(doc.GroupNames, g.Name)
		doc.Matches = append(doc.Matches, matches)
		doc.CurrentBatch = append(doc.CurrentBatch, g.CurrentBatch)
	}

	return doc
}

// Competition rebuilds the model. Structural inconsistencies are reported
// as ErrParse; matches that do not fit the roster additionally wrap
// competition.ErrDataCorruption.
func (d *Document) Competition() (*competition.Competition, error) {
	groupCount := len(d.Teams)
	if d.CountGroups != groupCount || len(d.GroupNames) != groupCount ||
		len(d.Matches) != groupCount || len(d.CurrentBatch) != groupCount ||
		d.TeamDistribution[0] != groupCount {

		return nil, fmt.Errorf("%w: %v groups declared but teams=%v names=%v matches=%v current_batch=%v",
			ErrParse, d.CountGroups, groupCount, len(d.GroupNames),
			len(d.Matches), len(d.CurrentBatch))
	}

	teamsPerGroup := d.TeamDistribution[1]
	lanes := competition.LaneCount(teamsPerGroup, d.WithBreak)
	total := 0
	groups := make([]*competition.Group, 0, groupCount)
	for gIdx := 0; gIdx < groupCount; gIdx++ {
		if len(d.Teams[gIdx]) != teamsPerGroup {
			return nil, fmt.Errorf("%w: group %v has %v teams; distribution says %v",
				ErrParse, gIdx+1, len(d.Teams[gIdx]), teamsPerGroup)
		}
		total += len(d.Teams[gIdx])

		g := &competition.Group{
			Name:         d.GroupNames[gIdx],
			Lanes:        lanes,
			CurrentBatch: d.CurrentBatch[gIdx],
		}
		for _, dt := range d.Teams[gIdx] {
			t := competition.Team{Name: dt.Name, Region: dt.Region}
			for idx, p := range dt.PlayerNames {
				if p != nil {
					name := *p
					t.PlayerNames[idx] = &name
				}
			}
			g.Teams = append(g.Teams, t)
		}

		for mIdx, dm := range d.Matches[gIdx] {
			state, err := competition.ParseResultState(dm.Result)
			if err != nil {
				return nil, fmt.Errorf("%w: group %v match %v: %v", ErrParse,
					gIdx+1, mIdx, err)
			}
			m := competition.Match{
				TeamA:  dm.TeamA,
				TeamB:  dm.TeamB,
				Batch:  dm.Batch,
				Lane:   dm.Lane,
				Result: state,
			}
			if state == competition.Played {
				if dm.Points == nil {
					return nil, fmt.Errorf("%w: group %v match %v is played without points",
						ErrParse, gIdx+1, mIdx)
				}
				if dm.Points[0] < 0 || dm.Points[1] < 0 {
					return nil, fmt.Errorf("%w: group %v match %v has negative points %v:%v",
						ErrParse, gIdx+1, mIdx, dm.Points[0], dm.Points[1])
				}
				m.PointsA, m.PointsB = dm.Points[0], dm.Points[1]
				m.Outcome = competition.OutcomeFromPoints(m.PointsA, m.PointsB)
			} else if dm.Points != nil {
				return nil, fmt.Errorf("%w: group %v match %v has points but is %v",
					ErrParse, gIdx+1, mIdx, dm.Result)
			}
			g.Matches = append(g.Matches, m)
		}
		groups = append(groups, g)
	}
	if total != d.CountTeams {
		return nil, fmt.Errorf("%w: count_teams is %v but %v teams are listed",
			ErrParse, d.CountTeams, total)
	}

	meta := competition.Metadata{
		Name:               d.Name,
		Date:               d.Date,
		Place:              d.Place,
		Executor:           d.Executor,
		Organizer:          d.Organizer,
		Referee:            d.Referee,
		CompetitionManager: d.CompetitionManager,
		Clerk:              d.Clerk,
		AdditionalText:     d.AdditionalText,
	}
	c, err := competition.Restore(meta, d.WithBreak, groups)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}

	return c, nil
}

// Decode reads one JSON document from r.
func Decode(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}

	return &doc, nil
}

// Marshal renders d as indented JSON terminated by a newline.
func (d *Document) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, err
	}

	return append(data, '\n'), nil
}

func unmarshal(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}

	return &doc, nil
}

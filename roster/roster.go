/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package roster

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mikeb26/stocksport-td/competition"
	"github.com/mikeb26/stocksport-td/internal"
)

var ErrNoRoster = errors.New("no roster table found")

// Roster is the team list of a registration page. Teams are in page order;
// when the table has a Group column they are already split by group.
type Roster struct {
	GroupNames []string
	Teams      [][]competition.Team
}

// Count returns the number of teams over all groups.
func (r *Roster) Count() int {
	count := 0
	for _, g := range r.Teams {
		count += len(g)
	}

	return count
}

// Split redistributes the teams into groupCount groups of equal size in
// page order. Group names are dropped.
func (r *Roster) Split(groupCount int) ([][]competition.Team, error) {
	total := r.Count()
	if groupCount < 1 || total%groupCount != 0 {
		return nil, fmt.Errorf("%w: %v teams cannot be split into %v equal groups",
			competition.ErrInvalidConfiguration, total, groupCount)
	}

	var flat []competition.Team
	for _, g := range r.Teams {
		flat = append(flat, g...)
	}
	perGroup := total / groupCount
	out := make([][]competition.Team, groupCount)
	for idx := range out {
		out[idx] = flat[idx*perGroup : (idx+1)*perGroup]
	}

	return out, nil
}

type columns struct {
	name    int
	region  int
	group   int
	players []int
}

func findColumns(headers []string) (columns, bool) {
	cols := columns{name: -1, region: -1, group: -1}
	for idx, h := range headers {
		h = strings.ToLower(strings.TrimSpace(h))
		switch {
		case cols.name < 0 && (h == "name" || h == "team" || h == "team name"):
			cols.name = idx
		case cols.region < 0 && h == "region":
			cols.region = idx
		case cols.group < 0 && h == "group":
			cols.group = idx
		case strings.HasPrefix(h, "player") &&
			len(cols.players) < competition.MaxPlayersPerTeam:
			cols.players = append(cols.players, idx)
		}
	}

	return cols, cols.name >= 0
}

func cellTexts(row *goquery.Selection) []string {
	var out []string
	row.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
		out = append(out, strings.TrimSpace(cell.Text()))
	})

	return out
}

func cellAt(cells []string, idx int) string {
	if idx < 0 || idx >= len(cells) {
		return ""
	}

	return cells[idx]
}

// Parse reads the first HTML table whose header row has a Name or Team
// column. Region, Group and Player columns are optional. Rows without a team
// name are skipped.
func Parse(r io.Reader) (*Roster, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing roster html: %w", err)
	}

	var ret *Roster
	doc.Find("table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		rows := table.Find("tr")
		if rows.Length() == 0 {
			return true
		}
		cols, ok := findColumns(cellTexts(rows.First()))
		if !ok {
			return true
		}

		ret = parseRows(rows.Slice(1, rows.Length()), cols)
		return false
	})
	if ret == nil {
		return nil, ErrNoRoster
	}

	return ret, nil
}

func parseRows(rows *goquery.Selection, cols columns) *Roster {
	ret := &Roster{}
	groupIdx := make(map[string]int)

	rows.Each(func(_ int, row *goquery.Selection) {
		cells := cellTexts(row)
		name := cellAt(cells, cols.name)
		if name == "" {
			return
		}

		team := competition.Team{
			Name:   name,
			Region: cellAt(cells, cols.region),
		}
		for slot, col := range cols.players {
			if p := cellAt(cells, col); p != "" {
				team.PlayerNames[slot] = &p
			}
		}

		group := cellAt(cells, cols.group)
		idx, ok := groupIdx[group]
		if !ok {
			idx = len(ret.Teams)
			groupIdx[group] = idx
			ret.GroupNames = append(ret.GroupNames, group)
			ret.Teams = append(ret.Teams, nil)
		}
		ret.Teams[idx] = append(ret.Teams[idx], team)
	})

	return ret
}

// Fetch downloads url through client and parses the roster table.
func Fetch(ctx context.Context, client *http.Client, url string) (*Roster, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating roster request: %w", err)
	}
	req.Header.Set("User-Agent", internal.UserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("performing roster HTTP GET: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d fetching %s", resp.StatusCode, url)
	}

	return Parse(resp.Body)
}

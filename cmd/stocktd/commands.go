/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/mikeb26/stocksport-td/competition"
	"github.com/mikeb26/stocksport-td/document"
	"github.com/mikeb26/stocksport-td/internal"
	"github.com/mikeb26/stocksport-td/roster"
)

func (a *app) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)

	return fs
}

// target names the competition a command operates on.
type target struct {
	name  *string
	store *string
}

func (a *app) targetFlags(fs *flag.FlagSet) target {
	return target{
		name:  fs.String("c", "", "Competition name"),
		store: fs.String("store", a.cfg.Store, "Document backend: file, s3 or sqlite"),
	}
}

func (t target) check(fs *flag.FlagSet) error {
	if strings.TrimSpace(*t.name) == "" {
		fs.Usage()
		return fmt.Errorf("%w: please provide a competition name with -c",
			errUsage)
	}

	return nil
}

// load opens the store and the named competition. The returned func closes
// the store.
func (a *app) load(ctx context.Context, t target) (*competition.Competition,
	document.Store, func(), error) {

	store, closeFn, err := a.openStore(ctx, *t.store)
	if err != nil {
		return nil, nil, nil, err
	}
	c, err := document.LoadCompetition(ctx, store, *t.name)
	if err != nil {
		closeFn()
		return nil, nil, nil, err
	}

	return c, store, closeFn, nil
}

// groupIndexes maps a 1-based -group value to 0-based indexes; 0 selects
// every group.
func groupIndexes(c *competition.Competition, group int) ([]int, error) {
	if group == 0 {
		out := make([]int, len(c.Groups))
		for idx := range out {
			out[idx] = idx
		}
		return out, nil
	}
	if group < 1 || group > len(c.Groups) {
		return nil, fmt.Errorf("%w: -group must be between 1 and %v",
			errUsage, len(c.Groups))
	}

	return []int{group - 1}, nil
}

func handleGroups(ctx context.Context, a *app, args []string) error {
	fs := a.flagSet("groups")
	teams := fs.Int("teams", 0, "Number of registered teams")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *teams <= 0 {
		fs.Usage()
		return fmt.Errorf("%w: please provide a positive -teams count", errUsage)
	}

	for _, d := range competition.CalcGroupPossibilities(*teams) {
		fmt.Fprintf(a.stdout, "%-8v lanes:%v (with break:%v)\n", d,
			competition.LaneCount(d.TeamsPerGroup, false),
			competition.LaneCount(d.TeamsPerGroup, true))
	}

	return nil
}

func handleList(ctx context.Context, a *app, args []string) error {
	fs := a.flagSet("list")
	storeKind := fs.String("store", a.cfg.Store, "Document backend: file, s3 or sqlite")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, closeFn, err := a.openStore(ctx, *storeKind)
	if err != nil {
		return err
	}
	defer closeFn()

	names, err := store.List(ctx)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Fprintln(a.stdout, "No saved competitions.")
		return nil
	}
	for _, name := range names {
		fmt.Fprintf(a.stdout, "  - %v\n", name)
	}

	return nil
}

func (a *app) readRoster(ctx context.Context, src string) (*roster.Roster, error) {
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		client := internal.NewCachedHttpClient(ctx, a.cfg.S3Bucket,
			a.cfg.RosterCacheAge)
		return roster.Fetch(ctx, client, src)
	}

	f, err := os.Open(src)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return roster.Parse(f)
}

func splitTeamList(list string) []competition.Team {
	var out []competition.Team
	for _, name := range strings.Split(list, ",") {
		if name = strings.TrimSpace(name); name != "" {
			out = append(out, competition.Team{Name: name})
		}
	}

	return out
}

func handleNew(ctx context.Context, a *app, args []string) error {
	fs := a.flagSet("new")
	t := a.targetFlags(fs)
	teamList := fs.String("teams", "", "Comma separated team names")
	rosterSrc := fs.String("roster", "", "Registration page (file or URL) to import teams from")
	groups := fs.Int("groups", 0, "Number of equally sized groups (default 1, or as given by the roster)")
	withBreak := fs.Bool("break", false, "Give the resting team of an odd sized group its own lane")
	force := fs.Bool("force", false, "Overwrite an existing competition")
	var meta competition.Metadata
	fs.StringVar(&meta.Date, "date", "", "Competition date")
	fs.StringVar(&meta.Place, "place", "", "Venue")
	fs.StringVar(&meta.Executor, "executor", "", "Executing club")
	fs.StringVar(&meta.Organizer, "organizer", "", "Organizer")
	fs.StringVar(&meta.Referee, "referee", "", "Referee")
	fs.StringVar(&meta.CompetitionManager, "manager", "", "Competition manager")
	fs.StringVar(&meta.Clerk, "clerk", "", "Clerk")
	fs.StringVar(&meta.AdditionalText, "text", "", "Additional text for result sheets")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := t.check(fs); err != nil {
		return err
	}
	if err := document.ValidateName(*t.name); err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}
	if (*teamList == "") == (*rosterSrc == "") {
		fs.Usage()
		return fmt.Errorf("%w: please provide exactly one of -teams or -roster",
			errUsage)
	}

	var r *roster.Roster
	if *teamList != "" {
		r = &roster.Roster{
			GroupNames: []string{""},
			Teams:      [][]competition.Team{splitTeamList(*teamList)},
		}
	} else {
		var err error
		r, err = a.readRoster(ctx, *rosterSrc)
		if err != nil {
			return fmt.Errorf("failed to read roster %v: %w", *rosterSrc, err)
		}
	}

	teams := r.Teams
	groupNames := r.GroupNames
	if *groups != 0 || len(r.Teams) == 1 {
		count := *groups
		if count == 0 {
			count = 1
		}
		var err error
		teams, err = r.Split(count)
		if err != nil {
			return err
		}
		groupNames = nil
	}

	meta.Name = *t.name
	meta.Date = internal.NormalizeDate(meta.Date)
	c, err := competition.New(meta, teams, *withBreak)
	if err != nil {
		return err
	}
	for idx, name := range groupNames {
		if name != "" {
			_ = c.SetGroupName(idx, name)
		}
	}

	store, closeFn, err := a.openStore(ctx, *t.store)
	if err != nil {
		return err
	}
	defer closeFn()

	if !*force {
		if _, err := store.Load(ctx, *t.name); err == nil {
			return fmt.Errorf("%w: competition %v already exists; use -force to replace it",
				errUsage, *t.name)
		}
	}
	if err := document.SaveCompetition(ctx, store, *t.name, c); err != nil {
		return err
	}

	d := c.Distribution()
	fmt.Fprintf(a.stdout, "Created %v: %v teams as %v, %v lanes, %v batches per group\n",
		*t.name, c.CountTeams(), d, c.Groups[0].Lanes, c.Groups[0].BatchCount())

	return nil
}

func handleSchedule(ctx context.Context, a *app, args []string) error {
	return a.showGroups(ctx, "schedule", args, competition.BuildScheduleOutput)
}

func handleNext(ctx context.Context, a *app, args []string) error {
	return a.showGroups(ctx, "next", args, competition.BuildNextMatchesOutput)
}

func (a *app) showGroups(ctx context.Context, cmd string, args []string,
	build func(g *competition.Group) string) error {

	fs := a.flagSet(cmd)
	t := a.targetFlags(fs)
	group := fs.Int("group", 0, "Group number (default all groups)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := t.check(fs); err != nil {
		return err
	}

	c, _, closeFn, err := a.load(ctx, t)
	if err != nil {
		return err
	}
	defer closeFn()

	idxs, err := groupIndexes(c, *group)
	if err != nil {
		return err
	}
	for n, idx := range idxs {
		if n > 0 {
			fmt.Fprintln(a.stdout)
		}
		fmt.Fprint(a.stdout, build(c.Groups[idx]))
	}

	return nil
}

func handleResult(ctx context.Context, a *app, args []string) error {
	fs := a.flagSet("result")
	t := a.targetFlags(fs)
	group := fs.Int("group", 1, "Group number")
	match := fs.Int("match", -1, "Match number as shown by schedule/next")
	pointsA := fs.Int("a", -1, "Stock points of team A")
	pointsB := fs.Int("b", -1, "Stock points of team B")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := t.check(fs); err != nil {
		return err
	}
	if *match < 0 || *pointsA < 0 || *pointsB < 0 {
		fs.Usage()
		return fmt.Errorf("%w: please provide -match, -a and -b", errUsage)
	}

	c, store, closeFn, err := a.load(ctx, t)
	if err != nil {
		return err
	}
	defer closeFn()

	if *group < 1 || *group > len(c.Groups) {
		return fmt.Errorf("%w: -group must be between 1 and %v", errUsage,
			len(c.Groups))
	}
	if err := c.RecordResult(*group-1, *match, *pointsA, *pointsB); err != nil {
		return err
	}
	if err := document.SaveCompetition(ctx, store, *t.name, c); err != nil {
		return err
	}

	g := c.Groups[*group-1]
	m := g.Matches[*match]
	fmt.Fprintf(a.stdout, "Recorded #%v: %v %v:%v %v (%v)\n", *match,
		g.Teams[m.TeamA].Name, m.PointsA, m.PointsB, g.Teams[m.TeamB].Name,
		m.Outcome)

	return nil
}

func handleAdvance(ctx context.Context, a *app, args []string) error {
	fs := a.flagSet("advance")
	t := a.targetFlags(fs)
	group := fs.Int("group", 1, "Group number")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := t.check(fs); err != nil {
		return err
	}

	c, store, closeFn, err := a.load(ctx, t)
	if err != nil {
		return err
	}
	defer closeFn()

	if *group < 1 || *group > len(c.Groups) {
		return fmt.Errorf("%w: -group must be between 1 and %v", errUsage,
			len(c.Groups))
	}
	msg, err := advance(c, *group-1)
	if err != nil {
		return err
	}
	if err := document.SaveCompetition(ctx, store, *t.name, c); err != nil {
		return err
	}
	fmt.Fprint(a.stdout, msg)

	return nil
}

// advance moves a group on and describes the outcome.
func advance(c *competition.Competition, groupIdx int) (string, error) {
	advanced, err := c.AdvanceBatch(groupIdx)
	if err != nil {
		return "", err
	}
	g := c.Groups[groupIdx]
	if advanced {
		return competition.BuildNextMatchesOutput(g), nil
	}
	if g.CurrentBatch >= g.BatchCount() {
		return fmt.Sprintf("%v: all batches have been played\n", g.Name), nil
	}

	return fmt.Sprintf("%v: batch %v still has unplayed matches\n", g.Name,
		g.CurrentBatch+1), nil
}

func handleStandings(ctx context.Context, a *app, args []string) error {
	fs := a.flagSet("standings")
	t := a.targetFlags(fs)
	group := fs.Int("group", 0, "Group number (default all groups)")
	legacy := fs.Bool("legacy", false, "Rank with the comparator of earlier releases")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := t.check(fs); err != nil {
		return err
	}

	c, _, closeFn, err := a.load(ctx, t)
	if err != nil {
		return err
	}
	defer closeFn()

	if *legacy {
		c.SetComparator(competition.LegacyComparator)
	}
	idxs, err := groupIndexes(c, *group)
	if err != nil {
		return err
	}
	for n, idx := range idxs {
		entries, err := c.Standings(idx)
		if err != nil {
			return err
		}
		if n > 0 {
			fmt.Fprintln(a.stdout)
		}
		fmt.Fprint(a.stdout, competition.BuildStandingsOutput(c.Groups[idx],
			entries))
	}

	return nil
}

func handleRename(ctx context.Context, a *app, args []string) error {
	fs := a.flagSet("rename")
	t := a.targetFlags(fs)
	group := fs.Int("group", 1, "Group number")
	team := fs.Int("team", 0, "Team number within the group (default renames the group)")
	to := fs.String("to", "", "New name")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := t.check(fs); err != nil {
		return err
	}
	if strings.TrimSpace(*to) == "" {
		fs.Usage()
		return fmt.Errorf("%w: please provide the new name with -to", errUsage)
	}

	c, store, closeFn, err := a.load(ctx, t)
	if err != nil {
		return err
	}
	defer closeFn()

	if *team == 0 {
		err = c.SetGroupName(*group-1, *to)
	} else {
		err = c.SetTeamName(*group-1, *team-1, *to)
	}
	if err != nil {
		return err
	}
	if err := document.SaveCompetition(ctx, store, *t.name, c); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Renamed to %v\n", strings.TrimSpace(*to))

	return nil
}

// isUserError reports errors that are the operator's fault rather than the
// program's.
func isUserError(err error) bool {
	return errors.Is(err, errUsage) ||
		errors.Is(err, document.ErrUnknownStore) ||
		errors.Is(err, competition.ErrInvalidMatch) ||
		errors.Is(err, competition.ErrInvalidConfiguration)
}

/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/mikeb26/stocksport-td/autosave"
	"github.com/mikeb26/stocksport-td/competition"
	"github.com/mikeb26/stocksport-td/document"
)

const sessionHelp = `Commands:
  next [G]              matches of the current batch
  schedule [G]          full schedule
  standings [G]         interim results
  result G M A B        enter stock points A:B for match #M of group G
  advance G             move group G to its next batch
  save                  save now
  pause | resume        suspend or restart autosave
  interval SECONDS      change the autosave interval
  quit                  save and leave
`

// session is one interactive result-entry run. The competition is shared
// with the autosave loop.
type session struct {
	a      *app
	name   string
	store  document.Store
	shared *competition.Shared
	saver  *autosave.Autosave
}

func handleSession(ctx context.Context, a *app, args []string) error {
	fs := a.flagSet("session")
	t := a.targetFlags(fs)
	interval := fs.Duration("autosave", a.cfg.AutosaveInterval, "Autosave interval")
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

	s := &session{
		a:      a,
		name:   *t.name,
		store:  store,
		shared: competition.NewShared(c),
	}
	s.saver = autosave.Start(ctx, *interval, s.save, a.autosaveOpts...)

	fmt.Fprintf(a.stdout, "%v loaded; autosave every %v. Type help for commands.\n",
		*t.name, *interval)
	runErr := s.run(ctx, a.stdin)

	if err := s.saver.Stop(); err != nil {
		log.Printf("stocktd.session: autosave stopped with error: %v", err)
	}
	if err := s.save(ctx); err != nil {
		return fmt.Errorf("final save failed: %w", err)
	}

	return runErr
}

// save snapshots under the read lock and writes outside of it.
func (s *session) save(ctx context.Context) error {
	var doc *document.Document
	err := s.shared.View(func(c *competition.Competition) error {
		doc = document.FromCompetition(c)
		return nil
	})
	if err != nil {
		return err
	}

	return s.store.Save(ctx, s.name, doc)
}

func (s *session) run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(s.a.stdout, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(s.a.stdout)
			return scanner.Err()
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "quit" || fields[0] == "exit" {
			return nil
		}

		if err := s.exec(ctx, fields[0], fields[1:]); err != nil {
			if !isUserError(err) && !isArgError(err) {
				return err
			}
			fmt.Fprintf(s.a.stdout, "error: %v\n", err)
		}
	}
}

type argError struct{ msg string }

func (e *argError) Error() string { return e.msg }

func isArgError(err error) bool {
	_, ok := err.(*argError)
	return ok
}

// ints parses args as integers; want is the number required.
func ints(args []string, want int, usage string) ([]int, error) {
	if len(args) != want {
		return nil, &argError{msg: "usage: " + usage}
	}
	out := make([]int, want)
	for idx, arg := range args {
		v, err := strconv.Atoi(arg)
		if err != nil {
			return nil, &argError{msg: fmt.Sprintf("%q is not a number; usage: %v",
				arg, usage)}
		}
		out[idx] = v
	}

	return out, nil
}

// optionalGroup parses an optional 1-based group number; 0 means all.
func optionalGroup(args []string, usage string) (int, error) {
	if len(args) == 0 {
		return 0, nil
	}
	vals, err := ints(args, 1, usage)
	if err != nil {
		return 0, err
	}

	return vals[0], nil
}

func (s *session) exec(ctx context.Context, cmd string, args []string) error {
	out := s.a.stdout

	switch cmd {
	case "help":
		fmt.Fprint(out, sessionHelp)
		return nil
	case "next", "schedule":
		group, err := optionalGroup(args, cmd+" [G]")
		if err != nil {
			return err
		}
		build := competition.BuildNextMatchesOutput
		if cmd == "schedule" {
			build = competition.BuildScheduleOutput
		}
		return s.shared.View(func(c *competition.Competition) error {
			idxs, err := groupIndexes(c, group)
			if err != nil {
				return err
			}
			for _, idx := range idxs {
				fmt.Fprint(out, build(c.Groups[idx]))
			}
			return nil
		})
	case "standings":
		group, err := optionalGroup(args, "standings [G]")
		if err != nil {
			return err
		}
		return s.shared.View(func(c *competition.Competition) error {
			idxs, err := groupIndexes(c, group)
			if err != nil {
				return err
			}
			for _, idx := range idxs {
				entries, err := c.Standings(idx)
				if err != nil {
					return err
				}
				fmt.Fprint(out, competition.BuildStandingsOutput(c.Groups[idx],
					entries))
			}
			return nil
		})
	case "result":
		vals, err := ints(args, 4, "result G M A B")
		if err != nil {
			return err
		}
		return s.shared.Update(func(c *competition.Competition) error {
			if err := c.RecordResult(vals[0]-1, vals[1], vals[2],
				vals[3]); err != nil {
				return err
			}
			g := c.Groups[vals[0]-1]
			m := g.Matches[vals[1]]
			fmt.Fprintf(out, "%v #%v: %v %v:%v %v\n", g.Name, vals[1],
				g.Teams[m.TeamA].Name, m.PointsA, m.PointsB,
				g.Teams[m.TeamB].Name)
			return nil
		})
	case "advance":
		vals, err := ints(args, 1, "advance G")
		if err != nil {
			return err
		}
		return s.shared.Update(func(c *competition.Competition) error {
			msg, err := advance(c, vals[0]-1)
			if err != nil {
				return err
			}
			fmt.Fprint(out, msg)
			return nil
		})
	case "save":
		if err := s.save(ctx); err != nil {
			fmt.Fprintf(out, "save failed: %v\n", err)
			return nil
		}
		fmt.Fprintf(out, "saved %v\n", s.name)
		return nil
	case "pause":
		s.saver.Pause()
		fmt.Fprintln(out, "autosave paused")
		return nil
	case "resume":
		s.saver.Resume()
		fmt.Fprintln(out, "autosave resumed")
		return nil
	case "interval":
		vals, err := ints(args, 1, "interval SECONDS")
		if err != nil {
			return err
		}
		if vals[0] < 1 {
			return &argError{msg: "interval must be at least 1 second"}
		}
		d := time.Duration(vals[0]) * time.Second
		s.saver.SetInterval(d)
		fmt.Fprintf(out, "autosave every %v\n", d)
		return nil
	}

	return &argError{msg: fmt.Sprintf("unknown command %q; type help", cmd)}
}

/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	_ "embed"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/mikeb26/stocksport-td/autosave"
	"github.com/mikeb26/stocksport-td/document"
	"github.com/mikeb26/stocksport-td/internal"
)

//go:embed help.txt
var helpText string

var errUsage = errors.New("invalid arguments")

// cmdHandler defines the signature for command handler functions.
type cmdHandler func(ctx context.Context, app *app, args []string) error

// commands maps command names to their respective handler functions.
var commands = map[string]cmdHandler{
	"help":      handleHelp,
	"groups":    handleGroups,
	"list":      handleList,
	"new":       handleNew,
	"schedule":  handleSchedule,
	"next":      handleNext,
	"result":    handleResult,
	"advance":   handleAdvance,
	"standings": handleStandings,
	"rename":    handleRename,
	"session":   handleSession,
}

// app carries what the handlers share; tests substitute the store and the
// standard streams.
type app struct {
	cfg    *internal.Config
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	openStore    func(ctx context.Context, kind string) (document.Store, func(), error)
	autosaveOpts []autosave.Option
}

func newApp(cfg *internal.Config) *app {
	a := &app{
		cfg:    cfg,
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
	a.openStore = a.openConfiguredStore

	return a
}

func (a *app) openConfiguredStore(ctx context.Context,
	kind string) (document.Store, func(), error) {

	return document.Open(ctx, kind, a.cfg)
}

func main() {
	ctx := context.Background()

	if len(os.Args) < 2 {
		usage(os.Stdout)
		os.Exit(1)
	}
	a := newApp(internal.LoadConfig())
	cmd := os.Args[1]
	handler, ok := commands[cmd]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		usage(os.Stdout)
		os.Exit(1)
	}

	err := handler(ctx, a, os.Args[2:])
	if errors.Is(err, flag.ErrHelp) {
		return
	} else if isUserError(err) {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(2)
	} else if err != nil {
		log.Fatalf("stocktd %v: %v", cmd, err)
	}
}

func usage(w io.Writer) {
	fmt.Fprintf(w, "%v", helpText)
}

func handleHelp(ctx context.Context, a *app, args []string) error {
	usage(a.stdout)
	return nil
}

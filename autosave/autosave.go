/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package autosave

import (
	"context"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	DefaultTick   = time.Second
	controlBuffer = 16
)

// Saver writes a snapshot of the current competition. It is expected to take
// only a read lock on the shared state.
type Saver func(ctx context.Context) error

type msgKind int

const (
	setInterval msgKind = iota
	pause
	resume
	terminate
)

type controlMsg struct {
	kind     msgKind
	interval time.Duration
}

// Autosave is the handle of a running autosave loop. The caller owns it and
// must call Stop at shutdown.
type Autosave struct {
	control chan controlMsg
	done    chan struct{}
	eg      *errgroup.Group

	stopOnce sync.Once
	stopErr  error
}

type options struct {
	tick time.Duration
}

type Option func(*options)

// WithTick overrides the wake-up period of the loop.
func WithTick(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.tick = d
		}
	}
}

// Start launches the loop. It wakes every tick, applies pending control
// messages and calls save once interval has elapsed. A failed save is logged
// and retried after the next full interval. Cancelling ctx also ends the
// loop.
func Start(ctx context.Context, interval time.Duration, save Saver,
	opts ...Option) *Autosave {

	o := options{tick: DefaultTick}
	for _, opt := range opts {
		opt(&o)
	}

	eg, ctx := errgroup.WithContext(ctx)
	a := &Autosave{
		control: make(chan controlMsg, controlBuffer),
		done:    make(chan struct{}),
		eg:      eg,
	}
	eg.Go(func() error {
		defer close(a.done)
		return a.run(ctx, interval, o.tick, save)
	})

	return a
}

// ticksFor converts an interval into whole ticks, rounding up; at least one.
func ticksFor(interval, tick time.Duration) int {
	n := int((interval + tick - 1) / tick)
	if n < 1 {
		n = 1
	}

	return n
}

func (a *Autosave) run(ctx context.Context, interval, tick time.Duration,
	save Saver) error {

	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	total := ticksFor(interval, tick)
	remaining := total
	paused := false
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

	drain:
		for {
			select {
			case msg := <-a.control:
				switch msg.kind {
				case setInterval:
					interval = msg.interval
					total = ticksFor(interval, tick)
					remaining = total
				case pause:
					paused = true
				case resume:
					paused = false
				case terminate:
					return nil
				}
			default:
				break drain
			}
		}

		if paused {
			continue
		}
		remaining--
		if remaining > 0 {
			continue
		}
		remaining = total

		if err := save(ctx); err != nil {
			log.Printf("autosave.run: save failed; retrying in %v: %v", interval,
				err)
		}
	}
}

func (a *Autosave) send(msg controlMsg) {
	select {
	case a.control <- msg:
	case <-a.done:
	}
}

// SetInterval changes the save interval and restarts the countdown.
func (a *Autosave) SetInterval(d time.Duration) {
	a.send(controlMsg{kind: setInterval, interval: d})
}

func (a *Autosave) Pause() {
	a.send(controlMsg{kind: pause})
}

func (a *Autosave) Resume() {
	a.send(controlMsg{kind: resume})
}

// Stop asks the loop to terminate at its next tick and waits for it to exit.
// It is safe to call more than once.
func (a *Autosave) Stop() error {
	a.stopOnce.Do(func() {
		a.send(controlMsg{kind: terminate})
		a.stopErr = a.eg.Wait()
	})

	return a.stopErr
}

/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package competition

import (
	"errors"
	"sync"
)

var ErrNoCompetition = errors.New("no competition loaded")

// Shared guards a single Competition with a reader/writer lock. Readers
// (display, autosave, bots) call View; result entry and replacement take the
// write lock.
type Shared struct {
	mu sync.RWMutex
	c  *Competition
}

func NewShared(c *Competition) *Shared {
	return &Shared{c: c}
}

// View runs fn under the shared read lock. fn must not modify c.
func (s *Shared) View(fn func(c *Competition) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.c == nil {
		return ErrNoCompetition
	}

	return fn(s.c)
}

// Update runs fn under the exclusive write lock.
func (s *Shared) Update(fn func(c *Competition) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.c == nil {
		return ErrNoCompetition
	}

	return fn(s.c)
}

// Replace swaps in a new or freshly loaded competition.
func (s *Shared) Replace(c *Competition) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.c = c
}

/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package competition

import "errors"

var (
	// ErrInvalidConfiguration is returned for team/lane counts or rosters
	// that cannot be scheduled.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrInvalidMatch is returned for result entry on a Break slot or for
	// out of range group/match indices.
	ErrInvalidMatch = errors.New("invalid match operation")

	// ErrDataCorruption means a match references a team that is not part of
	// the group's roster.
	ErrDataCorruption = errors.New("data corruption")
)

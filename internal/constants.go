/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

import "time"

const (
	UserAgent = "stocksport-td/0.3.0 (+https://github.com/mikeb26/stocksport-td)"

	DefaultDataDir          = "competitions"
	DefaultSQLitePath       = "stocktd.db"
	DefaultListenAddr       = ":8080"
	DefaultAutosaveInterval = 5 * time.Minute
	DefaultRosterCacheAge   = 15 * time.Minute

	// DocumentExt is the file suffix of saved competitions
	DocumentExt = ".json"
)

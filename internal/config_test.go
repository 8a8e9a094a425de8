/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"STOCKTD_STORE", "STOCKTD_DATA_DIR",
		"STOCKTD_AUTOSAVE", "STOCKTD_S3_GZIP", "STOCKTD_LISTEN_ADDR"} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()
	if cfg.Store != "file" {
		t.Errorf("Store = %q; want file", cfg.Store)
	}
	if cfg.DataDir != DefaultDataDir {
		t.Errorf("DataDir = %q; want %q", cfg.DataDir, DefaultDataDir)
	}
	if cfg.AutosaveInterval != DefaultAutosaveInterval {
		t.Errorf("AutosaveInterval = %v; want %v", cfg.AutosaveInterval,
			DefaultAutosaveInterval)
	}
	if cfg.S3Gzip {
		t.Errorf("S3Gzip = true; want false")
	}
	if cfg.ListenAddr != DefaultListenAddr {
		t.Errorf("ListenAddr = %q; want %q", cfg.ListenAddr, DefaultListenAddr)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("STOCKTD_STORE", "sqlite")
	t.Setenv("STOCKTD_S3_GZIP", "true")
	t.Setenv("STOCKTD_ROSTER_CACHE_AGE", "bogus")

	cases := []struct {
		value string
		want  time.Duration
	}{
		{"30", 30 * time.Second},
		{"2m", 2 * time.Minute},
		{"later", DefaultAutosaveInterval},
	}
	for _, c := range cases {
		t.Setenv("STOCKTD_AUTOSAVE", c.value)
		cfg := LoadConfig()
		if cfg.AutosaveInterval != c.want {
			t.Errorf("STOCKTD_AUTOSAVE=%q: AutosaveInterval = %v; want %v",
				c.value, cfg.AutosaveInterval, c.want)
		}
		if cfg.Store != "sqlite" || !cfg.S3Gzip {
			t.Errorf("overrides not applied: %+v", cfg)
		}
		if cfg.RosterCacheAge != DefaultRosterCacheAge {
			t.Errorf("RosterCacheAge = %v; want default", cfg.RosterCacheAge)
		}
	}
}

/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the settings shared by stocktd and discordbot. Values come
// from the environment, optionally seeded from a .env file in the working
// directory.
type Config struct {
	// Store selects the document backend: file, s3 or sqlite
	Store      string
	DataDir    string
	SQLitePath string
	S3Bucket   string
	S3Gzip     bool

	AutosaveInterval time.Duration
	RosterCacheAge   time.Duration

	DiscordToken     string
	DiscordPublicKey string
	DiscordAppID     string
	DiscordCmdID     string
	// DiscordCmdHash is the hash of the last registered command definition
	DiscordCmdHash string
	ListenAddr     string
}

// LoadConfig reads the configuration. Malformed numeric or boolean values
// are logged and replaced by their defaults.
func LoadConfig() *Config {
	_ = godotenv.Load()

	return &Config{
		Store:            getEnv("STOCKTD_STORE", "file"),
		DataDir:          getEnv("STOCKTD_DATA_DIR", DefaultDataDir),
		SQLitePath:       getEnv("STOCKTD_SQLITE_PATH", DefaultSQLitePath),
		S3Bucket:         getEnv("STOCKTD_S3_BUCKET", ""),
		S3Gzip:           getEnvBool("STOCKTD_S3_GZIP", false),
		AutosaveInterval: getEnvDuration("STOCKTD_AUTOSAVE", DefaultAutosaveInterval),
		RosterCacheAge:   getEnvDuration("STOCKTD_ROSTER_CACHE_AGE", DefaultRosterCacheAge),
		DiscordToken:     getEnv("DISCORD_BOT_TOKEN", ""),
		DiscordPublicKey: getEnv("DISCORD_PUBLIC_KEY", ""),
		DiscordAppID:     getEnv("DISCORD_APP_ID", ""),
		DiscordCmdID:     getEnv("DISCORD_CMD_ID", ""),
		DiscordCmdHash:   getEnv("DISCORD_CMD_HASH", ""),
		ListenAddr:       getEnv("STOCKTD_LISTEN_ADDR", DefaultListenAddr),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("internal.config: ignoring %v=%q: %v", key, value, err)
		return defaultValue
	}

	return b
}

// getEnvDuration accepts either a Go duration ("90s") or a whole number of
// seconds.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("internal.config: ignoring %v=%q: %v", key, value, err)
		return defaultValue
	}

	return d
}

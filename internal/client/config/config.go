// Package config loads runtime configuration for the comicshelf CLI.
//
// Values come from three layers, later ones winning: built-in defaults, an
// optional JSON file selected with -c/-config, and command-line flags
// (-a server URL, -d database path, -i sync interval in seconds).
package config

import "time"

// Config holds runtime settings for the comicshelf CLI: where the sync
// server lives, where the local database file is, and how often the
// auto-sync timer fires.
type Config struct {
	ServerURL    string
	DatabaseDSN  string
	SyncInterval time.Duration
}

// LoadDefaults populates c with development defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.DatabaseDSN = "comicshelf.db"
	c.SyncInterval = 5 * time.Minute
}

// LoadConfig builds a Config from defaults, then an optional JSON file, then
// command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}

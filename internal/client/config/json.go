package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/comicshelf/comicshelf/internal/flagx"
	"github.com/comicshelf/comicshelf/internal/timex"
)

// JsonConfig is the unmarshalling shape of the optional config file.
// timex.Duration lets the interval be either a string like "5m" or integer
// nanoseconds.
type JsonConfig struct {
	ServerURL    string         `json:"server_url"`
	DatabaseDSN  string         `json:"database_dsn"`
	SyncInterval timex.Duration `json:"sync_interval"`
}

// parseJson overlays cfg with the JSON file named by -c/-config, if any.
// Read and unmarshal failures panic; a wrong config path should stop the
// program immediately.
func parseJson(cfg *Config) {
	path := flagx.JsonConfigFlags()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	cfg.ServerURL = jc.ServerURL
	cfg.DatabaseDSN = jc.DatabaseDSN
	cfg.SyncInterval = time.Duration(jc.SyncInterval.Duration)
}

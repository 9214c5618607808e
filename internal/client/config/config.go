package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds runtime settings for the carshowroom CLI.
//
// Fields:
//   - ServerBaseURL: API root, including the /api prefix.
//   - DatabasePath: SQLite file holding the persisted session.
//   - RequestTimeout: upper bound for a single API call; zero disables it.
type Config struct {
	ServerBaseURL  string
	DatabasePath   string
	RequestTimeout time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://localhost:5000/api"
	c.DatabasePath = defaultDatabasePath()
	c.RequestTimeout = 15 * time.Second
}

func defaultDatabasePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "carshowroom.db"
	}
	return filepath.Join(dir, "carshowroom", "client.db")
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}

package config

import "time"

// Config holds runtime settings for the minhwa CLI.
//
// Fields:
//   - BaseURL: base URL of the backend HTTP API.
//   - RequestTimeout: per-call timeout for remote requests.
//   - HistoryLimit: page size used when loading conversion history.
//   - SessionDBPath: path of the local sqlite database holding the
//     persisted session record.
type Config struct {
	BaseURL        string
	RequestTimeout time.Duration
	HistoryLimit   int
	SessionDBPath  string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BaseURL = "http://localhost:8000"
	c.RequestTimeout = 15 * time.Second
	c.HistoryLimit = 50
	c.SessionDBPath = "minhwa.db"
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

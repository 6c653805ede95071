package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/minhwalab/minhwa-cli/internal/flagx"
	"github.com/minhwalab/minhwa-cli/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify the timeout either as
// a string like "15s" or as integer nanoseconds. After parsing, values
// are copied into the runtime Config (which uses time.Duration).
type JsonConfig struct {
	BaseURL        string         `json:"base_url"`
	RequestTimeout timex.Duration `json:"request_timeout"`
	HistoryLimit   *int           `json:"history_limit"`
	SessionDBPath  string         `json:"session_db_path"`
}

// parseJson overlays Config with values loaded from a JSON file selected
// via the -c or -config flags. When no file is given, cfg is left untouched.
// Read or unmarshal errors panic (caller should recover if desired).
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}
	loadJsonFile(cfg, jsonConfigFile)
}

// loadJsonFile copies known fields from the JSON file at path into cfg.
// Zero-valued JSON fields do not override existing values.
func loadJsonFile(cfg *Config, path string) {
	var jc JsonConfig

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.BaseURL != "" {
		cfg.BaseURL = jc.BaseURL
	}
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = time.Duration(jc.RequestTimeout.Duration)
	}
	if jc.HistoryLimit != nil {
		cfg.HistoryLimit = *jc.HistoryLimit
	}
	if jc.SessionDBPath != "" {
		cfg.SessionDBPath = jc.SessionDBPath
	}
}

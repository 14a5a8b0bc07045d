package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/umlgen/internal/flagx"
	"github.com/dmitrijs2005/umlgen/internal/timex"
	"gopkg.in/yaml.v3"
)

// JsonConfig is a DTO used exclusively for config file unmarshalling.
// Durations use timex.Duration so the file may say "30s" or give integer
// nanoseconds.
type JsonConfig struct {
	APIBaseURL           string         `json:"api_base_url" yaml:"api_base_url"`
	StoreDriver          string         `json:"store_driver" yaml:"store_driver"`
	StorePath            string         `json:"store_path" yaml:"store_path"`
	RequestTimeout       timex.Duration `json:"request_timeout" yaml:"request_timeout"`
	StatsRefreshInterval timex.Duration `json:"stats_refresh_interval" yaml:"stats_refresh_interval"`
	LogLevel             string         `json:"log_level" yaml:"log_level"`
	LogBackend           string         `json:"log_backend" yaml:"log_backend"`
	LogEncoding          string         `json:"log_encoding" yaml:"log_encoding"`
}

// parseJson overlays cfg with the config file named by -c/-config in args.
// Files ending in .yaml or .yml are read as YAML, anything else as JSON.
// Only fields present (non-zero) in the file are applied. It panics on read or
// decode errors; main recovers and reports them.
func parseJson(cfg *Config, args []string) {
	jsonConfigFile := flagx.ConfigFile(args)
	if jsonConfigFile == "" {
		return
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	switch strings.ToLower(filepath.Ext(jsonConfigFile)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &jc)
	default:
		err = json.Unmarshal(data, &jc)
	}
	if err != nil {
		panic(err)
	}

	setString(&cfg.APIBaseURL, jc.APIBaseURL)
	setString(&cfg.StoreDriver, jc.StoreDriver)
	setString(&cfg.StorePath, jc.StorePath)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.LogBackend, jc.LogBackend)
	setString(&cfg.LogEncoding, jc.LogEncoding)

	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.StatsRefreshInterval.Duration > 0 {
		cfg.StatsRefreshInterval = jc.StatsRefreshInterval.Duration
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

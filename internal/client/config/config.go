package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/umlgen/internal/filex"
)

// DefaultAPIBaseURL is the local-development backend address used when no
// other source configures one.
const DefaultAPIBaseURL = "http://localhost:8000"

const (
	StoreSQLite = "sqlite"
	StoreBolt   = "bolt"
	StoreMemory = "memory"
)

// Config holds runtime settings for the umlgen CLI.
//
// Fields:
//   - APIBaseURL: root URL of the diagram backend, e.g. http://localhost:8000.
//   - StoreDriver / StorePath: where the session credentials are persisted.
//   - RequestTimeout: per-request deadline applied by the HTTP client.
//   - StatsRefreshInterval: auto-refresh period of the admin monitoring view.
//   - LogLevel / LogBackend / LogEncoding: see logging.Options.
type Config struct {
	APIBaseURL           string
	StoreDriver          string
	StorePath            string
	RequestTimeout       time.Duration
	StatsRefreshInterval time.Duration
	LogLevel             string
	LogBackend           string
	LogEncoding          string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = DefaultAPIBaseURL
	c.StoreDriver = StoreSQLite
	c.StorePath = filepath.Join(filex.DefaultDataDir("umlgen"), "session.db")
	c.RequestTimeout = 30 * time.Second
	c.StatsRefreshInterval = 30 * time.Second
	c.LogLevel = "info"
	c.LogBackend = "slog"
	c.LogEncoding = "text"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment (and .env), an optional JSON file and command-line flags.
// Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	args := os.Args[1:]

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg, ".env")
	parseJson(cfg, args)
	parseFlags(cfg, args)
	return cfg
}

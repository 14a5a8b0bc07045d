package config

import (
	"flag"
	"time"

	"github.com/dmitrijs2005/umlgen/internal/flagx"
)

var knownFlags = []string{"-a", "-s", "-p", "-r", "-t", "-l"}

// parseFlags populates selected Config fields from command-line flags.
//
//	-a string   backend base URL
//	-s string   credential store driver (sqlite, bolt, memory)
//	-p string   credential store path
//	-r int      admin stats refresh interval (seconds)
//	-t int      request timeout (seconds)
//	-l string   log level
//
// Unknown arguments are filtered out first so other packages can own them.
func parseFlags(cfg *Config, args []string) {
	fs := flag.NewFlagSet("umlgen", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "backend base URL")
	fs.StringVar(&cfg.StoreDriver, "s", cfg.StoreDriver, "credential store driver: sqlite, bolt or memory")
	fs.StringVar(&cfg.StorePath, "p", cfg.StorePath, "credential store path")
	refresh := fs.Int("r", int(cfg.StatsRefreshInterval.Seconds()), "admin stats refresh interval (in seconds)")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level: debug, info, warn, error")

	if err := fs.Parse(flagx.FilterArgs(args, knownFlags)); err != nil {
		panic(err)
	}

	cfg.StatsRefreshInterval = time.Duration(*refresh) * time.Second
	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
}

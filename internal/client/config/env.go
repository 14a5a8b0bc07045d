package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Environment variable names. VITE_API_URL is honoured so the same .env file
// can serve the web build and the terminal client.
const (
	EnvAPIURL      = "UMLGEN_API_URL"
	EnvViteAPIURL  = "VITE_API_URL"
	EnvStoreDriver = "UMLGEN_STORE_DRIVER"
	EnvStorePath   = "UMLGEN_STORE_PATH"
	EnvLogLevel    = "UMLGEN_LOG_LEVEL"
	EnvLogBackend  = "UMLGEN_LOG_BACKEND"
)

// parseEnv loads envFile (if it exists) into the process environment without
// overriding variables that are already set, then copies recognised
// variables into cfg.
func parseEnv(cfg *Config, envFile string) {
	if envFile != "" {
		_ = godotenv.Load(envFile)
	}

	if v := os.Getenv(EnvAPIURL); v != "" {
		cfg.APIBaseURL = v
	} else if v := os.Getenv(EnvViteAPIURL); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv(EnvStoreDriver); v != "" {
		cfg.StoreDriver = v
	}
	if v := os.Getenv(EnvStorePath); v != "" {
		cfg.StorePath = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv(EnvLogBackend); v != "" {
		cfg.LogBackend = v
	}
}

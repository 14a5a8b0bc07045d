// Package config loads runtime configuration for the umlgen CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment, after loading an optional ./.env file (godotenv):
//     UMLGEN_API_URL (or VITE_API_URL), UMLGEN_STORE_DRIVER, UMLGEN_STORE_PATH,
//     UMLGEN_LOG_LEVEL, UMLGEN_LOG_BACKEND.
//  3. Optional JSON file selected with -c or -config.
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-a string   backend base URL (default http://localhost:8000)
//	-s string   credential store driver: sqlite, bolt, memory
//	-p string   credential store path
//	-r int      admin stats refresh interval (seconds)
//	-t int      request timeout (seconds)
//	-l string   log level
//
// # JSON schema
//
//	{
//	  "api_base_url": "https://api.example.com",
//	  "store_driver": "bolt",
//	  "store_path": "/home/me/.config/umlgen/session.bolt",
//	  "request_timeout": "15s",
//	  "stats_refresh_interval": "30s",
//	  "log_level": "debug",
//	  "log_backend": "zap",
//	  "log_encoding": "json"
//	}
package config

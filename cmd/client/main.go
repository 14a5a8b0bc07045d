package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/umlgen/internal/buildinfo"
	"github.com/dmitrijs2005/umlgen/internal/client/cli"
	"github.com/dmitrijs2005/umlgen/internal/client/config"
	"github.com/dmitrijs2005/umlgen/internal/logging"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger := logging.New(os.Stderr, logging.Options{
		Backend:  cfg.LogBackend,
		Level:    cfg.LogLevel,
		Encoding: cfg.LogEncoding,
	})
	if z, ok := logger.(*logging.ZapLogger); ok {
		defer z.Sync()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "start", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	app.Run(ctx)
}

// loadConfig turns the config parser's panics into an error.
func loadConfig() (cfg *config.Config, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("config: %v", r)
		}
	}()
	return config.LoadConfig(), nil
}

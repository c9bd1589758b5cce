package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/replaytrader/replaytrader/log"
	"github.com/urfave/cli/v2"
)

var (
	configPath string
	envFile    string
	verbose    bool
	structured bool
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	if err := newApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "replaytrader"
	app.Usage = "event driven portfolio simulation over daily bars"
	app.EnableBashCompletion = true
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "the simulation config file, json or yaml",
			Value:       "config.json",
			TakesFile:   true,
			Destination: &configPath,
		},
		&cli.StringFlag{
			Name:        "env-file",
			Usage:       "optional dotenv file of REPLAYTRADER_ overrides",
			TakesFile:   true,
			Destination: &envFile,
		},
		&cli.BoolFlag{
			Name:        "verbose",
			Aliases:     []string{"v"},
			Usage:       "log debug output",
			Destination: &verbose,
		},
		&cli.BoolFlag{
			Name:        "structured",
			Usage:       "log one JSON object per line",
			Destination: &structured,
		},
	}
	app.Before = setup
	app.Commands = []*cli.Command{
		runCommand,
		scheduleCommand,
		importCSVCommand,
		resultsCommand,
	}
	return app
}

// setup loads dotenv overrides before any config is read and applies log
// levels
func setup(_ *cli.Context) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("loading env file %v: %w", envFile, err)
		}
	} else if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	cfg := log.GenDefaultSettings()
	cfg.Structured = structured
	if !verbose {
		cfg.Level = "INFO|WARN|ERROR"
	}
	return log.SetupGlobalLogger(&cfg)
}

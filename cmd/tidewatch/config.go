package main

import (
	"log/slog"

	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"

	"github.com/tidewatch-io/tidewatch/internal/config"
	"github.com/tidewatch-io/tidewatch/internal/flags"
	"github.com/tidewatch-io/tidewatch/internal/logging"
)

var (
	configFileFlag = &cli.StringFlag{
		Name:     "config",
		Usage:    "daemon.toml configuration file",
		Category: flags.PipelineCategory,
	}
	verbosityFlag = &cli.IntFlag{
		Name:     "verbosity",
		Usage:    "logging verbosity: 0=crit, 1=error, 2=warn, 3=info, 4=debug, 5=trace",
		Value:    3,
		Category: flags.LoggingCategory,
	}
	logJSONFlag = &cli.BoolFlag{
		Name:     "log.json",
		Usage:    "format logs as JSON instead of human-readable text",
		Category: flags.LoggingCategory,
	}
)

// setupLogging installs the root logger from this run's flags, before any
// subcommand action runs.
func setupLogging(ctx *cli.Context) {
	cfg := logging.DefaultConfig
	cfg.JSON = ctx.Bool(logJSONFlag.Name)
	cfg.Verbosity = verbosityFromLevel(ctx.Int(verbosityFlag.Name))
	logging.Setup(cfg)
}

func verbosityFromLevel(n int) slog.Level {
	switch {
	case n <= 0:
		return log.LevelCrit
	case n == 1:
		return log.LevelError
	case n == 2:
		return log.LevelWarn
	case n == 3:
		return log.LevelInfo
	case n == 4:
		return log.LevelDebug
	default:
		return log.LevelTrace
	}
}

// loadConfig loads daemon.toml per this run's --config flag, falling back
// to the hierarchical defaults/base-file search when the flag is unset.
func loadConfig(ctx *cli.Context) (config.Config, error) {
	return config.Load(ctx.String(configFileFlag.Name))
}

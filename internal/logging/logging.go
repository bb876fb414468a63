// Package logging configures this system's structured logger on top of
// go-ethereum's log package, the way the teacher's node/cmd packages do for
// the rest of the geth family: a colorized terminal handler for
// interactive use, a JSON handler for machine consumption, and optional
// file rotation.
package logging

import (
	"io"
	"log/slog"
	"os"

	"github.com/ethereum/go-ethereum/log"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config controls how the root logger is constructed.
type Config struct {
	// Verbosity is one of the log.Level* constants.
	Verbosity slog.Level
	// JSON selects the machine-readable handler instead of the terminal one.
	JSON bool
	// FilePath, if set, rotates logs through lumberjack instead of writing
	// to stderr.
	FilePath   string
	MaxSizeMB  int
	MaxBackups int
}

// DefaultConfig mirrors the teacher's own defaults for log rotation.
var DefaultConfig = Config{
	Verbosity:  log.LevelInfo,
	MaxSizeMB:  100,
	MaxBackups: 10,
}

// Setup installs the root logger per cfg and returns a Logger bound to the
// "tidewatch" component, for call sites that want a scoped logger rather
// than the package-level log.Info/log.Warn/log.Error helpers.
func Setup(cfg Config) log.Logger {
	var out io.Writer = os.Stderr
	if cfg.FilePath != "" {
		out = &lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
		}
	}

	var handler slog.Handler
	if cfg.JSON {
		handler = log.JSONHandler(out)
	} else {
		useColor := cfg.FilePath == "" && isatty.IsTerminal(os.Stderr.Fd())
		if useColor {
			out = colorable.NewColorable(os.Stderr)
		}
		handler = log.NewTerminalHandlerWithLevel(out, cfg.Verbosity, useColor)
	}

	glog := log.NewGlogHandler(handler)
	glog.Verbosity(cfg.Verbosity)

	logger := log.NewLogger(glog)
	log.SetDefault(logger)
	return logger.With("component", "tidewatch")
}

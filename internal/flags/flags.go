// Package flags provides the small pieces of CLI plumbing cmd/tidewatch
// needs from urfave/cli/v2: flag category names (grouping --help output)
// and an App constructor with this project's conventions. geth's own
// internal/flags package is not importable outside its module, so
// geth-family binaries that need it — this one included — carry their own
// copy rather than a generic vendored one.
package flags

import (
	"github.com/urfave/cli/v2"
)

// Flag categories, grouping --help output by concern.
const (
	ChainCategory    = "CHAIN"
	PipelineCategory = "PIPELINE"
	LoggingCategory  = "LOGGING"
	MetricsCategory  = "METRICS"
)

// NewApp creates an app with this project's defaults: name taken from the
// binary, a copyright line (no author list), bash completion, and usage set
// to the given string.
func NewApp(usage string) *cli.App {
	app := cli.NewApp()
	app.EnableBashCompletion = true
	app.Usage = usage
	app.Copyright = "Copyright 2026 The tidewatch Authors"
	return app
}

// AutoEnvVars derives a TIDEWATCH_<FLAG_NAME> environment variable name
// from a flag's primary name, for flags that want env-var support beyond
// the daemon.toml overlay (e.g. --config itself, which has to exist before
// any config file can be read).
func AutoEnvVars(name string) []string {
	return []string{"TIDEWATCH_" + envSafe(name)}
}

func envSafe(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z':
			out = append(out, r-32)
		case r == '-':
			out = append(out, '_')
		default:
			out = append(out, r)
		}
	}
	return string(out)
}

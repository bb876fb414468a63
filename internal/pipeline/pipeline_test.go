package pipeline

import (
	"path/filepath"
	"testing"

	"github.com/tidewatch-io/tidewatch/internal/config"
)

func baseConfig(t *testing.T) config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Source = config.SourceConfig{Type: config.SourceN2N, Address: "127.0.0.1:0"}
	cfg.Cursor = &config.CursorConfig{Path: filepath.Join(t.TempDir(), "cursor.db"), MaxBreadcrumbs: 20}
	cfg.Metrics = nil
	return cfg
}

func TestBuildWiresSourceFiltersSinkAndCursor(t *testing.T) {
	cfg := baseConfig(t)
	cfg.Filters = []config.FilterConfig{
		{Type: config.FilterSplitBlock},
		{Type: config.FilterParseCbor},
	}
	cfg.Sink = config.SinkConfig{Type: config.SinkRecorder, RecorderLimit: 5}

	p, err := Build(cfg)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if p.Daemon == nil {
		t.Fatal("Daemon is nil")
	}
	if p.Recorder == nil {
		t.Fatal("Recorder is nil for a Recorder sink config")
	}

	// source + 2 filters + sink + cursor_commit
	if got, want := len(p.Daemon.AllTethers()), 5; got != want {
		t.Fatalf("stage count = %d, want %d", got, want)
	}
}

func TestBuildDefaultsToAssertSinkWithNilRecorder(t *testing.T) {
	cfg := baseConfig(t)
	cfg.Sink = config.SinkConfig{}

	p, err := Build(cfg)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if p.Recorder != nil {
		t.Fatal("Recorder should be nil for the default (Assert) sink")
	}
	// source + sink + cursor_commit, no filters configured
	if got, want := len(p.Daemon.AllTethers()), 3; got != want {
		t.Fatalf("stage count = %d, want %d", got, want)
	}
}

func TestBuildRejectsUnknownFilterType(t *testing.T) {
	cfg := baseConfig(t)
	cfg.Filters = []config.FilterConfig{{Type: "bogus"}}

	if _, err := Build(cfg); err == nil {
		t.Fatal("expected error for unknown filter type")
	}
}

func TestBuildRejectsUnknownSinkType(t *testing.T) {
	cfg := baseConfig(t)
	cfg.Sink = config.SinkConfig{Type: "bogus"}

	if _, err := Build(cfg); err == nil {
		t.Fatal("expected error for unknown sink type")
	}
}

func TestBuildRejectsSelectFilterWithoutPredicate(t *testing.T) {
	cfg := baseConfig(t)
	cfg.Filters = []config.FilterConfig{{Type: config.FilterSelect}}

	if _, err := Build(cfg); err == nil {
		t.Fatal("expected error for select filter missing a predicate")
	}
}

func TestBuildRejectsUnknownChainNetwork(t *testing.T) {
	cfg := baseConfig(t)
	cfg.Chain = &config.ChainConfig{Network: "bogus"}

	if _, err := Build(cfg); err == nil {
		t.Fatal("expected error for unknown chain network")
	}
}

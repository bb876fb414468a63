// Package config loads daemon.toml, the single configuration file
// describing a run's source, filter chain, sink, intersection policy, and
// the optional finalize/chain/retries/cursor/metrics sections. Load order
// mirrors the teacher's own config loading: defaults, then a base file
// (/etc/tidewatch/daemon.toml), then an optional project-local file
// (./tidewatch.toml), then an explicit --config path, then a TIDEWATCH_*
// environment overlay, each layer only overriding fields it actually sets.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"unicode"

	"github.com/ethereum/go-ethereum/common"
	"github.com/naoina/toml"

	"github.com/tidewatch-io/tidewatch/internal/chain"
)

// tomlSettings mirrors the teacher's own convention exactly: TOML keys use
// the same names as the Go struct fields, and an unrecognized field is a
// load error rather than being silently ignored.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string { return key },
	FieldToKey:    func(rt reflect.Type, field string) string { return field },
	MissingField: func(rt reflect.Type, field string) error {
		var link string
		if unicode.IsUpper(rune(rt.Name()[0])) && rt.PkgPath() != "main" {
			link = fmt.Sprintf(", see https://pkg.go.dev/%s#%s for available fields", rt.PkgPath(), rt.Name())
		}
		return fmt.Errorf("field '%s' is not defined in %s%s", field, rt.String(), link)
	},
}

// SourceKind selects the chain-follower backend a source config targets.
type SourceKind string

const (
	SourceN2N       SourceKind = "N2N"
	SourceN2C       SourceKind = "N2C"
	SourceBitcoin   SourceKind = "Bitcoin"
	SourceEthereum  SourceKind = "Ethereum"
	SourceSubstrate SourceKind = "Substrate"
)

// SourceConfig describes where to dial and which network's handshake magic
// to offer.
type SourceConfig struct {
	Type    SourceKind
	Address string // TCP "host:port" or UNIX socket path, depending on Type
	Magic   uint64
}

// FilterType names one of the three built-in filter stages.
type FilterType string

const (
	FilterSplitBlock FilterType = "split_block"
	FilterParseCbor  FilterType = "parse_cbor"
	FilterSelect     FilterType = "select"
)

// FilterConfig is one entry in the ordered filters[] chain. Select is only
// populated (and only meaningful) when Type == FilterSelect.
type FilterConfig struct {
	Type   FilterType
	Select *PredicateConfig `toml:",omitempty"`
}

// SinkType names one of the built-in sink adapters this binary ships.
// Concrete network sinks (S3, Kafka, webhook, ...) are out of scope; only
// the in-process reference sinks are recognized here.
type SinkType string

const (
	SinkAssert   SinkType = "Assert"
	SinkRecorder SinkType = "Recorder"
)

// SinkConfig configures the terminal stage.
type SinkConfig struct {
	Type           SinkType
	SkipChecks     []string `toml:",omitempty"`
	BreakOnFailure bool     `toml:",omitempty"`
	RecorderLimit  int      `toml:",omitempty"`
}

// IntersectKind mirrors chain.IntersectKind's TOML-facing spelling.
type IntersectKind string

const (
	IntersectOrigin    IntersectKind = "Origin"
	IntersectTip       IntersectKind = "Tip"
	IntersectPoint     IntersectKind = "Point"
	IntersectFallbacks IntersectKind = "Fallbacks"
)

// PointConfig is a TOML-facing (slot, hex-hash) pair.
type PointConfig struct {
	Slot uint64
	Hash string
}

// IntersectConfig controls where a fresh (cursor-less) run starts.
type IntersectConfig struct {
	Kind      IntersectKind
	Point     PointConfig   `toml:",omitempty"`
	Fallbacks []PointConfig `toml:",omitempty"`
}

// ChainConfig selects a well-known Cardano network, or Custom with an
// explicit genesis (not exposed via TOML yet: every network this binary
// targets today is well-known).
type ChainConfig struct {
	Network string // "mainnet" | "testnet" | "preprod" | "preview"
}

// RetriesConfig configures the stage runtime's backoff policy.
type RetriesConfig struct {
	MaxRetries     int
	BackoffUnitMs  int
	BackoffFactor  float64
	MaxBackoffMs   int
	Dismissible    bool
}

// CursorConfig configures breadcrumb persistence.
type CursorConfig struct {
	Path           string `toml:",omitempty"`
	MaxBreadcrumbs int    `toml:",omitempty"`
}

// MetricsConfig configures the tether introspection endpoint.
type MetricsConfig struct {
	Address string `toml:",omitempty"`
}

// FinalizeConfig optionally stops the daemon once a condition is reached,
// rather than following the chain tip forever.
type FinalizeConfig struct {
	UntilSlot *uint64 `toml:",omitempty"`
	MaxBlocks *uint64 `toml:",omitempty"`
}

// Config is the full daemon.toml schema.
type Config struct {
	Source    SourceConfig
	Filters   []FilterConfig
	Sink      SinkConfig
	Intersect IntersectConfig
	Finalize  *FinalizeConfig  `toml:",omitempty"`
	Chain     *ChainConfig     `toml:",omitempty"`
	Retries   *RetriesConfig   `toml:",omitempty"`
	Cursor    *CursorConfig    `toml:",omitempty"`
	Metrics   *MetricsConfig   `toml:",omitempty"`
}

// DefaultConfig mirrors the original's defaults for the optional sections:
// Cardano mainnet, 20 breadcrumbs, metrics on 0.0.0.0:9186.
func DefaultConfig() Config {
	return Config{
		Intersect: IntersectConfig{Kind: IntersectTip},
		Chain:     &ChainConfig{Network: "mainnet"},
		Cursor:    &CursorConfig{MaxBreadcrumbs: 20},
		Metrics:   &MetricsConfig{Address: "0.0.0.0:9186"},
	}
}

// Load runs the full hierarchical load: defaults, then
// /etc/tidewatch/daemon.toml if present, then ./tidewatch.toml if present,
// then explicitFile if non-empty, each only overriding fields that file
// actually sets, then a TIDEWATCH_* environment overlay.
func Load(explicitFile string) (Config, error) {
	cfg := DefaultConfig()

	for _, candidate := range []string{"/etc/tidewatch/daemon.toml", "tidewatch.toml"} {
		if err := mergeFile(candidate, &cfg, false); err != nil {
			return Config{}, err
		}
	}
	if explicitFile != "" {
		if err := mergeFile(explicitFile, &cfg, true); err != nil {
			return Config{}, err
		}
	}

	applyEnvOverlay(&cfg, os.Environ())
	return cfg, nil
}

// mergeFile decodes path into cfg in place. A missing file is silently
// skipped unless required is set (used for an explicitly-named --config
// path, which should fail loudly if absent).
func mergeFile(path string, cfg *Config, required bool) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return nil
		}
		return fmt.Errorf("config: open %s: %w", path, err)
	}
	defer f.Close()

	err = tomlSettings.NewDecoder(bufio.NewReader(f)).Decode(cfg)
	var lineErr *toml.LineError
	if errors.As(err, &lineErr) {
		return errors.New(path + ", " + err.Error())
	}
	return err
}

// applyEnvOverlay scans env for TIDEWATCH_* entries and overrides the
// handful of scalar fields operators most often need to override without
// editing the file: source address/magic, cursor path, and metrics
// address. This is deliberately not a generic reflection-based overlay
// (the original's OURA_* overlay is similarly narrow in scope) — growing it
// to cover every field is left for when a concrete need shows up.
func applyEnvOverlay(cfg *Config, environ []string) {
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(k, "TIDEWATCH_") {
			continue
		}
		switch strings.TrimPrefix(k, "TIDEWATCH_") {
		case "SOURCE_ADDRESS":
			cfg.Source.Address = v
		case "SOURCE_MAGIC":
			if n, err := strconv.ParseUint(v, 10, 64); err == nil {
				cfg.Source.Magic = n
			}
		case "CURSOR_PATH":
			if cfg.Cursor == nil {
				cfg.Cursor = &CursorConfig{}
			}
			cfg.Cursor.Path = v
		case "METRICS_ADDRESS":
			if cfg.Metrics == nil {
				cfg.Metrics = &MetricsConfig{}
			}
			cfg.Metrics.Address = v
		}
	}
}

// ResolveChain maps the Chain.Network string onto a chain.Config.
func (c Config) ResolveChain() (chain.Config, error) {
	network := "mainnet"
	if c.Chain != nil && c.Chain.Network != "" {
		network = c.Chain.Network
	}
	switch network {
	case "mainnet":
		return chain.MainnetConfig, nil
	case "testnet":
		return chain.TestnetConfig, nil
	case "preprod":
		return chain.PreProdConfig, nil
	case "preview":
		return chain.PreviewConfig, nil
	default:
		return chain.Config{}, fmt.Errorf("config: unknown chain.network %q", network)
	}
}

// ResolveIntersect maps IntersectConfig onto a chain.IntersectConfig.
func (c IntersectConfig) ResolveIntersect() (chain.IntersectConfig, error) {
	switch c.Kind {
	case IntersectOrigin, "":
		return chain.IntersectConfig{Kind: chain.IntersectOrigin}, nil
	case IntersectTip:
		return chain.IntersectConfig{Kind: chain.IntersectTip}, nil
	case IntersectPoint:
		p, err := c.Point.resolve()
		if err != nil {
			return chain.IntersectConfig{}, err
		}
		return chain.IntersectConfig{Kind: chain.IntersectPoint, Point: p}, nil
	case IntersectFallbacks:
		points := make([]chain.Point, 0, len(c.Fallbacks))
		for _, pc := range c.Fallbacks {
			p, err := pc.resolve()
			if err != nil {
				return chain.IntersectConfig{}, err
			}
			points = append(points, p)
		}
		return chain.IntersectConfig{Kind: chain.IntersectFallbacks, Fallbacks: points}, nil
	default:
		return chain.IntersectConfig{}, fmt.Errorf("config: unknown intersect.kind %q", c.Kind)
	}
}

func (p PointConfig) resolve() (chain.Point, error) {
	pt := chain.Point{Slot: p.Slot}
	if p.Hash == "" {
		return pt, nil
	}
	if len(strings.TrimPrefix(p.Hash, "0x")) != 64 {
		return chain.Point{}, fmt.Errorf("config: intersect point hash %q is not 32 bytes of hex", p.Hash)
	}
	pt.Hash = common.HexToHash(p.Hash)
	return pt, nil
}

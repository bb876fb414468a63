// Package pipeline is the composition root: it turns a loaded config.Config
// into a running stage.Daemon, wiring source -> filters -> sink and
// attaching the cursor commit stage to the sink's cursor port. Grounded on
// original_source/src/daemon/mod.rs for the stage construction and channel
// wiring order, and on the teacher's node.New/stack lifecycle registration
// shape (mive/backend.go) for the Go composition-root structure.
package pipeline

import (
	"fmt"

	"github.com/tidewatch-io/tidewatch/internal/chain"
	"github.com/tidewatch-io/tidewatch/internal/chainsource/bitcoin"
	"github.com/tidewatch-io/tidewatch/internal/chainsource/ethereum"
	"github.com/tidewatch-io/tidewatch/internal/chainsource/substrate"
	"github.com/tidewatch-io/tidewatch/internal/chainsync"
	"github.com/tidewatch-io/tidewatch/internal/config"
	"github.com/tidewatch-io/tidewatch/internal/cursor"
	"github.com/tidewatch-io/tidewatch/internal/filters"
	"github.com/tidewatch-io/tidewatch/internal/metrics"
	"github.com/tidewatch-io/tidewatch/internal/model"
	"github.com/tidewatch-io/tidewatch/internal/sink"
	"github.com/tidewatch-io/tidewatch/internal/stage"
)

// Pipeline is a fully wired, not-yet-started daemon plus the handles a
// caller needs afterward: the metrics server and, for the watch
// subcommand, the recorder sink if one was configured.
type Pipeline struct {
	Daemon   *stage.Daemon
	Metrics  *metrics.Server
	Recorder *sink.Recorder // non-nil only when Sink.Type == Recorder
}

// Build wires cfg into a Pipeline, ready for daemon.Start(ctx).
func Build(cfg config.Config) (*Pipeline, error) {
	chainCfg, err := cfg.ResolveChain()
	if err != nil {
		return nil, err
	}
	if cfg.Source.Magic != 0 {
		chainCfg.Magic = cfg.Source.Magic
	}
	intersectCfg, err := cfg.Intersect.ResolveIntersect()
	if err != nil {
		return nil, err
	}

	cursorCfg := cfg.Cursor
	if cursorCfg == nil {
		cursorCfg = &config.CursorConfig{MaxBreadcrumbs: 20}
	}
	store := cursor.NewFileStore(cursorCfg.Path)
	initial, err := store.InitialLoad()
	if err != nil {
		return nil, fmt.Errorf("pipeline: loading cursor file: %w", err)
	}
	if cursorCfg.MaxBreadcrumbs > 0 && len(initial) > cursorCfg.MaxBreadcrumbs {
		initial = initial[:cursorCfg.MaxBreadcrumbs]
	}
	cur := cursor.New(initial)

	handles := make([]stage.Handle, 0, len(cfg.Filters)+3)

	sourceOut := stage.NewChannel[model.ChainEvent](stage.DefaultCapacity)
	sourceStage, err := buildSource(cfg.Source, chainCfg, intersectCfg, cur, sourceOut)
	if err != nil {
		return nil, err
	}
	handles = append(handles, sourceStage)

	current := sourceOut
	for i, fc := range cfg.Filters {
		next := stage.NewChannel[model.ChainEvent](stage.DefaultCapacity)
		fs, err := buildFilter(fc, current, next)
		if err != nil {
			return nil, fmt.Errorf("pipeline: filters[%d]: %w", i, err)
		}
		handles = append(handles, fs)
		current = next
	}

	cursorIn := stage.NewChannel[cursor.CommitMessage](stage.DefaultCapacity)
	sinkStage, recorder, err := buildSink(cfg.Sink, current, cursorIn)
	if err != nil {
		return nil, err
	}
	handles = append(handles, sinkStage)

	commitStage := stage.New(stage.DefaultDescriptor("cursor_commit"), cursor.NewCommitStage(cursorIn, cur, store))
	handles = append(handles, commitStage)

	daemon := stage.NewDaemon(handles...)

	var metricsServer *metrics.Server
	if cfg.Metrics != nil && cfg.Metrics.Address != "" {
		metricsServer = metrics.NewServer(cfg.Metrics.Address, func() []*stage.Tether {
			out := make([]*stage.Tether, len(handles))
			for i, h := range handles {
				out[i] = h.Tether()
			}
			return out
		})
	}

	return &Pipeline{Daemon: daemon, Metrics: metricsServer, Recorder: recorder}, nil
}

func buildSource(sc config.SourceConfig, chainCfg chain.Config, intersectCfg chain.IntersectConfig, cur *cursor.Cursor, out *stage.Channel[model.ChainEvent]) (stage.Handle, error) {
	switch sc.Type {
	case config.SourceN2N, "":
		src := chainsync.NewSource(chainsync.Config{
			Transport: chainsync.TransportTCP,
			Address:   sc.Address,
			Chain:     chainCfg,
			Intersect: intersectCfg,
		}, cur, out)
		return stage.New(stage.DefaultDescriptor("source_n2n"), src), nil
	case config.SourceN2C:
		src := chainsync.NewN2CSource(chainsync.N2CConfig{
			SocketPath: sc.Address,
			Chain:      chainCfg,
			Intersect:  intersectCfg,
		}, cur, out)
		return stage.New(stage.DefaultDescriptor("source_n2c"), src), nil
	case config.SourceEthereum:
		src := ethereum.NewSource(ethereum.Config{RPCURL: sc.Address})
		return stage.New(stage.DefaultDescriptor("source_ethereum"), src), nil
	case config.SourceBitcoin:
		src := bitcoin.NewSource(bitcoin.Config{RPCAddress: sc.Address})
		return stage.New(stage.DefaultDescriptor("source_bitcoin"), src), nil
	case config.SourceSubstrate:
		src := substrate.NewSource(substrate.Config{WSAddress: sc.Address})
		return stage.New(stage.DefaultDescriptor("source_substrate"), src), nil
	default:
		return nil, fmt.Errorf("pipeline: unknown source.type %q", sc.Type)
	}
}

func buildFilter(fc config.FilterConfig, in, out *stage.Channel[model.ChainEvent]) (stage.Handle, error) {
	switch fc.Type {
	case config.FilterSplitBlock:
		return stage.New(stage.DefaultDescriptor("split_block"), filters.NewSplitBlock(in, out)), nil
	case config.FilterParseCbor:
		return stage.New(stage.DefaultDescriptor("parse_cbor"), filters.NewParseCbor(in, out)), nil
	case config.FilterSelect:
		if fc.Select == nil {
			return nil, fmt.Errorf("pipeline: select filter needs a predicate")
		}
		pred, err := fc.Select.Build()
		if err != nil {
			return nil, fmt.Errorf("pipeline: compiling select predicate: %w", err)
		}
		return stage.New(stage.DefaultDescriptor("select"), filters.NewSelect(in, out, pred)), nil
	default:
		return nil, fmt.Errorf("pipeline: unknown filter.type %q", fc.Type)
	}
}

func buildSink(sc config.SinkConfig, in *stage.Channel[model.ChainEvent], cursorOut *stage.Channel[cursor.CommitMessage]) (stage.Handle, *sink.Recorder, error) {
	switch sc.Type {
	case config.SinkAssert, "":
		s := sink.NewAssert(in, sink.DefaultChecks(), sink.Config{
			SkipChecks:     sc.SkipChecks,
			BreakOnFailure: sc.BreakOnFailure,
		})
		return stage.New(stage.DefaultDescriptor("sink_assert"), newSinkRunner(in, s, cursorOut)), nil, nil
	case config.SinkRecorder:
		limit := sc.RecorderLimit
		if limit == 0 {
			limit = 1000
		}
		s := sink.NewRecorder(in, limit)
		return stage.New(stage.DefaultDescriptor("sink_recorder"), newSinkRunner(in, s, cursorOut)), s, nil
	default:
		return nil, nil, fmt.Errorf("pipeline: unknown sink.type %q", sc.Type)
	}
}

package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/tidewatch-io/tidewatch/internal/config"
	"github.com/tidewatch-io/tidewatch/internal/flags"
	"github.com/tidewatch-io/tidewatch/internal/model"
	"github.com/tidewatch-io/tidewatch/internal/pipeline"
)

const watchPollInterval = 250 * time.Millisecond

var (
	watchSocketFlag = &cli.StringFlag{
		Name:     "socket",
		Usage:    "node socket to follow (TCP host:port, or a UNIX path with --mode n2c)",
		Required: true,
		Category: flags.ChainCategory,
	}
	watchModeFlag = &cli.StringFlag{
		Name:     "mode",
		Usage:    "peer mode: n2n or n2c",
		Value:    "n2n",
		Category: flags.ChainCategory,
	}
	watchMagicFlag = &cli.Uint64Flag{
		Name:     "magic",
		Usage:    "network magic (0 resolves from --chain)",
		Category: flags.ChainCategory,
	}
	watchChainFlag = &cli.StringFlag{
		Name:     "chain",
		Usage:    "well-known chain: mainnet, testnet, preprod, preview",
		Value:    "mainnet",
		Category: flags.ChainCategory,
	}
)

// watchCommand is a one-shot terminal tail: it builds a pipeline with no
// filters and an in-memory Recorder sink, then prints each event as it
// arrives, the way watch.rs tails a terminal sink directly without
// touching daemon.toml.
var watchCommand = &cli.Command{
	Name:  "watch",
	Usage: "tail chain events from a node straight to the terminal",
	Flags: []cli.Flag{watchSocketFlag, watchModeFlag, watchMagicFlag, watchChainFlag},
	Action: func(ctx *cli.Context) error {
		cfg := config.DefaultConfig()
		cfg.Chain = &config.ChainConfig{Network: ctx.String(watchChainFlag.Name)}
		cfg.Sink = config.SinkConfig{Type: config.SinkRecorder, RecorderLimit: 10000}
		cfg.Source = config.SourceConfig{
			Address: ctx.String(watchSocketFlag.Name),
			Magic:   ctx.Uint64(watchMagicFlag.Name),
		}
		switch ctx.String(watchModeFlag.Name) {
		case "n2c":
			cfg.Source.Type = config.SourceN2C
		default:
			cfg.Source.Type = config.SourceN2N
		}

		p, err := pipeline.Build(cfg)
		if err != nil {
			return err
		}

		runCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		p.Daemon.Start(runCtx)
		tailRecorder(runCtx, p.Recorder)

		return p.Daemon.Teardown()
	},
}

// tailRecorder polls the recorder and prints events newly appended since
// the last poll, until ctx is canceled.
func tailRecorder(ctx context.Context, rec interface{ Events() []model.ChainEvent }) {
	printed := 0
	ticker := time.NewTicker(watchPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			events := rec.Events()
			for _, evt := range events[printed:] {
				fmt.Println(formatEvent(evt))
			}
			printed = len(events)
		}
	}
}

func formatEvent(evt model.ChainEvent) string {
	if evt.Record == nil {
		return fmt.Sprintf("%s %s", evt.Kind, evt.Point)
	}
	return fmt.Sprintf("%s %s record_kind=%d", evt.Kind, evt.Point, evt.Record.Kind)
}

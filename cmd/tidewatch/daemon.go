package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"

	"github.com/tidewatch-io/tidewatch/internal/pipeline"
)

// daemonCommand runs the pipeline until a stage fails or the process
// receives an interrupt/terminate signal, the way run_daemon blocks on
// gasket::daemon::Daemon::block() and tears down on signal.
var daemonCommand = &cli.Command{
	Name:  "daemon",
	Usage: "run the ingestion pipeline as a long-lived daemon",
	Flags: []cli.Flag{configFileFlag},
	Action: func(ctx *cli.Context) error {
		cfg, err := loadConfig(ctx)
		if err != nil {
			return err
		}

		p, err := pipeline.Build(cfg)
		if err != nil {
			return err
		}

		runCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if p.Metrics != nil {
			p.Metrics.Start()
			defer p.Metrics.Stop(context.Background())
		}

		p.Daemon.Start(runCtx)
		p.Daemon.Block()
		stop()

		if err := p.Daemon.Teardown(); err != nil {
			log.Error("daemon: stopped with error", "err", err)
			return err
		}
		log.Info("daemon: stopped cleanly")
		return nil
	},
}

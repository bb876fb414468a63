package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/tidewatch-io/tidewatch/internal/flags"
	"github.com/tidewatch-io/tidewatch/internal/version"
)

const clientIdentifier = "tidewatch"

var gitCommit = "" // set via -ldflags at build time

var app = flags.NewApp("a chain-data ingestion pipeline for UTxO-model blockchains")

func init() {
	app.Version = version.WithCommit(gitCommit)
	app.Flags = []cli.Flag{
		verbosityFlag,
		logJSONFlag,
	}
	app.Before = func(ctx *cli.Context) error {
		setupLogging(ctx)
		return nil
	}
	app.Commands = []*cli.Command{
		daemonCommand,
		watchCommand,
	}
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

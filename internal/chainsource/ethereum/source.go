// Package ethereum scaffolds an Ethereum chain-follower source. Concrete
// record extraction from Ethereum blocks is out of scope: this package
// establishes the RPC connection and nothing past it, for a future
// implementation to build on.
package ethereum

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/tidewatch-io/tidewatch/internal/model"
	"github.com/tidewatch-io/tidewatch/internal/stage"
)

// Config describes where to reach an Ethereum JSON-RPC endpoint.
type Config struct {
	RPCURL string
}

// Source dials an Ethereum node over JSON-RPC. It never schedules a unit
// of work: block decoding into the canonical event model is not
// implemented, so Schedule always reports Done immediately after
// Bootstrap succeeds.
type Source struct {
	cfg    Config
	client *ethclient.Client
}

// NewSource builds an (unimplemented-past-dial) Ethereum Source.
func NewSource(cfg Config) *Source {
	return &Source{cfg: cfg}
}

// Bootstrap dials the configured RPC endpoint.
func (s *Source) Bootstrap(ctx context.Context) error {
	client, err := ethclient.DialContext(ctx, s.cfg.RPCURL)
	if err != nil {
		return &stage.RetryableError{Err: fmt.Errorf("ethereum: dial %s: %w", s.cfg.RPCURL, err)}
	}
	s.client = client
	return nil
}

// Schedule always reports Done: there is no follow loop past the dial.
func (s *Source) Schedule(ctx context.Context) (stage.Schedule[model.ChainEvent], error) {
	return stage.Done[model.ChainEvent](), nil
}

// Execute is never called, since Schedule never returns a unit.
func (s *Source) Execute(ctx context.Context, unit model.ChainEvent) error {
	return nil
}

// Teardown closes the RPC client.
func (s *Source) Teardown(ctx context.Context) error {
	if s.client != nil {
		s.client.Close()
	}
	return nil
}

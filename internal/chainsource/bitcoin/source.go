// Package bitcoin scaffolds a Bitcoin chain-follower source. Record
// extraction from Bitcoin blocks is out of scope; this package exists so
// the source configuration's type enum has a concrete (if inert) home.
package bitcoin

import (
	"context"
	"fmt"

	"github.com/tidewatch-io/tidewatch/internal/model"
	"github.com/tidewatch-io/tidewatch/internal/stage"
)

// Config describes where to reach a Bitcoin node's RPC interface.
type Config struct {
	RPCAddress string
	User       string
	Pass       string
}

// Source is a stage.Worker stub: Bootstrap always fails, since no RPC
// client is wired up. It exists to satisfy the source type enum, not to
// run.
type Source struct {
	cfg Config
}

// NewSource builds a Bitcoin Source stub.
func NewSource(cfg Config) *Source {
	return &Source{cfg: cfg}
}

// Bootstrap reports that this source kind isn't implemented yet.
func (s *Source) Bootstrap(ctx context.Context) error {
	return &stage.PanicError{Err: fmt.Errorf("bitcoin: source not implemented, address=%s", s.cfg.RPCAddress)}
}

// Schedule is unreachable; Bootstrap always fails first.
func (s *Source) Schedule(ctx context.Context) (stage.Schedule[model.ChainEvent], error) {
	return stage.Done[model.ChainEvent](), nil
}

// Execute is unreachable.
func (s *Source) Execute(ctx context.Context, unit model.ChainEvent) error { return nil }

// Teardown is a no-op.
func (s *Source) Teardown(ctx context.Context) error { return nil }

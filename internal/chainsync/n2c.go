package chainsync

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/log"

	"github.com/tidewatch-io/tidewatch/internal/chain"
	"github.com/tidewatch-io/tidewatch/internal/cursor"
	"github.com/tidewatch-io/tidewatch/internal/model"
	"github.com/tidewatch-io/tidewatch/internal/stage"
)

// N2CConfig describes a node-to-client chain-sync source: a local UNIX
// socket, no block-fetch (the reply already carries the full block).
type N2CConfig struct {
	SocketPath string
	Chain      chain.Config
	Intersect  chain.IntersectConfig
}

type n2cUnitKind int

const (
	n2cUnitIntersect n2cUnitKind = iota
	n2cUnitRequestNext
)

type n2cUnit struct {
	kind n2cUnitKind
}

// N2CSource is a stage.Worker running N2C chain-sync only: every
// RollForward reply is already a full block, so there is no block-fetch
// worker or header queue to manage.
type N2CSource struct {
	cfg    N2CConfig
	cursor *cursor.Cursor
	out    *stage.Channel[model.ChainEvent]

	mux *Multiplexer
	cs  *Client

	intersected bool
}

// NewN2CSource builds an N2CSource.
func NewN2CSource(cfg N2CConfig, c *cursor.Cursor, out *stage.Channel[model.ChainEvent]) *N2CSource {
	return &N2CSource{cfg: cfg, cursor: c, out: out}
}

// Bootstrap dials the local node socket, runs the handshake, and opens
// the N2C chain-sync lane.
func (s *N2CSource) Bootstrap(ctx context.Context) error {
	mux, err := Setup("unix", s.cfg.SocketPath, []uint16{ChannelHandshake, ChannelN2CChainSync})
	if err != nil {
		return &stage.RetryableError{Err: err}
	}

	hsChan, err := mux.UseChannel(ChannelHandshake)
	if err != nil {
		return &stage.PanicError{Err: err}
	}
	if _, err := doHandshake(hsChan, s.cfg.Chain.Magic, n2cVersions); err != nil {
		return &stage.RetryableError{Err: err}
	}

	csChan, err := mux.UseChannel(ChannelN2CChainSync)
	if err != nil {
		return &stage.PanicError{Err: err}
	}

	s.mux = mux
	s.cs = NewClient(csChan)
	s.intersected = false
	return nil
}

func (s *N2CSource) intersectionPoints() []chain.Point {
	if crumbs := s.cursor.CloneState(); len(crumbs) > 0 {
		return crumbs
	}
	return s.cfg.Intersect.Points()
}

// Schedule alternates between the one-time intersect and the steady-state
// RequestNext loop.
func (s *N2CSource) Schedule(ctx context.Context) (stage.Schedule[n2cUnit], error) {
	if !s.intersected {
		return stage.UnitReady(n2cUnit{kind: n2cUnitIntersect}), nil
	}
	return stage.UnitReady(n2cUnit{kind: n2cUnitRequestNext}), nil
}

// Execute performs one scheduled unit.
func (s *N2CSource) Execute(ctx context.Context, u n2cUnit) error {
	switch u.kind {
	case n2cUnitIntersect:
		point, _, found, err := s.cs.FindIntersect(s.intersectionPoints())
		if err != nil {
			return &stage.RetryableError{Err: err}
		}
		if !found {
			switch s.cfg.Intersect.Kind {
			case chain.IntersectFallbacks:
				point = chain.Point{}
			default:
				return &stage.PanicError{Err: fmt.Errorf("chainsync: n2c intersection not found and no fallback configured")}
			}
		}
		s.intersected = true
		s.out.Send(model.NewReset(point, nil))
		return nil

	case n2cUnitRequestNext:
		reply, err := s.cs.RequestNext()
		if err != nil {
			return &stage.RetryableError{Err: err}
		}
		switch reply.Kind {
		case ReplyRollForward:
			block, err := DecodeBlock(s.cfg.Chain.Genesis, reply.Data)
			if err != nil {
				log.Error("chainsync: dropping block with undecodable body", "err", err)
				return nil
			}
			s.out.Send(model.NewRollForward(block.Point, model.NewCborBlockRecord(block.Raw)))
			return nil
		case ReplyRollBackward:
			s.out.Send(model.NewRollback(reply.Point))
			return nil
		default:
			return &stage.PanicError{Err: fmt.Errorf("chainsync: unknown reply kind %d", reply.Kind)}
		}

	default:
		return &stage.PanicError{Err: fmt.Errorf("chainsync: unknown n2c unit kind %d", u.kind)}
	}
}

// Teardown closes the underlying connection.
func (s *N2CSource) Teardown(ctx context.Context) error {
	if s.mux != nil {
		_ = s.mux.conn.Close()
	}
	return nil
}

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

// Transport selects the socket kind a source dials.
type Transport int

const (
	TransportTCP Transport = iota
	TransportUnix
)

// Config describes one N2N chain-follower source: where to dial, which
// network's genesis values apply, and how to pick a starting intersection
// when the cursor has no breadcrumbs yet.
type Config struct {
	Transport Transport
	Address   string
	Chain     chain.Config
	Intersect chain.IntersectConfig
}

func (t Transport) network() string {
	if t == TransportUnix {
		return "unix"
	}
	return "tcp"
}

// unit is one piece of scheduled work: either the initial intersect, a
// chain-sync RequestNext, or a pending header's block-fetch.
type unitKind int

const (
	unitIntersect unitKind = iota
	unitRequestNext
	unitFetchHeader
)

type unit struct {
	kind unitKind
}

// Source is a stage.Worker that runs N2N chain-sync and block-fetch
// against one peer and emits ChainEvents to Out.
type Source struct {
	cfg    Config
	cursor *cursor.Cursor
	out    *stage.Channel[model.ChainEvent]

	mux *Multiplexer
	cs  *Client
	bf  *BlockFetchClient
	hq  *HeaderQueue

	intersected bool
}

// NewSource builds a Source. out is the channel ChainEvents are published
// on; c is the shared cursor used both to seed FindIntersect on first
// connect and to re-seed it after a reconnect.
func NewSource(cfg Config, c *cursor.Cursor, out *stage.Channel[model.ChainEvent]) *Source {
	return &Source{cfg: cfg, cursor: c, out: out, hq: NewHeaderQueue()}
}

// Bootstrap dials the peer, runs the handshake, and opens the chain-sync
// and block-fetch lanes. A dial or handshake failure is retryable: the
// stage runtime will re-invoke Bootstrap per its retry policy.
func (s *Source) Bootstrap(ctx context.Context) error {
	mux, err := Setup(s.cfg.Transport.network(), s.cfg.Address, []uint16{
		ChannelHandshake, ChannelN2NChainSync, ChannelN2NBlockFetch,
	})
	if err != nil {
		return &stage.RetryableError{Err: err}
	}

	hsChan, err := mux.UseChannel(ChannelHandshake)
	if err != nil {
		return &stage.PanicError{Err: err}
	}
	if _, err := doHandshake(hsChan, s.cfg.Chain.Magic, n2nVersions); err != nil {
		return &stage.RetryableError{Err: err}
	}

	csChan, err := mux.UseChannel(ChannelN2NChainSync)
	if err != nil {
		return &stage.PanicError{Err: err}
	}
	bfChan, err := mux.UseChannel(ChannelN2NBlockFetch)
	if err != nil {
		return &stage.PanicError{Err: err}
	}

	s.mux = mux
	s.cs = NewClient(csChan)
	s.bf = NewBlockFetchClient(bfChan)
	s.intersected = false

	return nil
}

// intersectionPoints resolves which points to offer FindIntersect: the
// current breadcrumbs if the cursor has any, otherwise the configured
// fallback policy.
func (s *Source) intersectionPoints() []chain.Point {
	if crumbs := s.cursor.CloneState(); len(crumbs) > 0 {
		return crumbs
	}
	return s.cfg.Intersect.Points()
}

// Schedule decides the next unit of work: intersect first, then
// alternately drain pending headers into block-fetch and pull more
// headers via RequestNext. Block-fetch is drained eagerly so headers
// don't pile up in memory waiting on a slow peer.
func (s *Source) Schedule(ctx context.Context) (stage.Schedule[unit], error) {
	if !s.intersected {
		return stage.UnitReady(unit{kind: unitIntersect}), nil
	}
	if s.hq.Len() > 0 {
		return stage.UnitReady(unit{kind: unitFetchHeader}), nil
	}
	return stage.UnitReady(unit{kind: unitRequestNext}), nil
}

// Execute performs one scheduled unit.
func (s *Source) Execute(ctx context.Context, u unit) error {
	switch u.kind {
	case unitIntersect:
		return s.executeIntersect()
	case unitFetchHeader:
		return s.executeFetchHeader()
	case unitRequestNext:
		return s.executeRequestNext()
	default:
		return &stage.PanicError{Err: fmt.Errorf("chainsync: unknown unit kind %d", u.kind)}
	}
}

func (s *Source) executeIntersect() error {
	points := s.intersectionPoints()
	point, tip, found, err := s.cs.FindIntersect(points)
	if err != nil {
		return &stage.RetryableError{Err: err}
	}

	if !found {
		switch s.cfg.Intersect.Kind {
		case chain.IntersectFallbacks:
			log.Warn("chainsync: intersection not found, falling back to origin", "tip", tip)
			point = chain.Point{}
			s.intersected = true
			s.out.Send(model.NewReset(point, nil))
			return nil
		default:
			return &stage.PanicError{Err: fmt.Errorf("chainsync: intersection not found and no fallback configured")}
		}
	}

	s.intersected = true
	s.out.Send(model.NewReset(point, nil))
	return nil
}

func (s *Source) executeRequestNext() error {
	reply, err := s.cs.RequestNext()
	if err != nil {
		return &stage.RetryableError{Err: err}
	}

	switch reply.Kind {
	case ReplyRollForward:
		header, err := DecodeHeader(s.cfg.Chain.Genesis, reply.Data)
		if err != nil {
			log.Error("chainsync: dropping block with undecodable header", "err", err)
			return nil
		}
		s.hq.Push(header)
		return nil
	case ReplyRollBackward:
		s.out.Send(model.NewRollback(reply.Point))
		return nil
	default:
		return &stage.PanicError{Err: fmt.Errorf("chainsync: unknown reply kind %d", reply.Kind)}
	}
}

func (s *Source) executeFetchHeader() error {
	header, ok := s.hq.Peek()
	if !ok {
		return nil
	}

	body, err := s.bf.FetchSingle(header.Point)
	if err != nil {
		return &stage.RetryableError{Err: err}
	}

	s.hq.Commit()
	s.out.Send(model.NewRollForward(header.Point, model.NewCborBlockRecord(body)))
	return nil
}

// Teardown closes the underlying connection.
func (s *Source) Teardown(ctx context.Context) error {
	if s.mux != nil {
		_ = s.mux.conn.Close()
	}
	return nil
}

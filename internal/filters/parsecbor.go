package filters

import (
	"context"

	"github.com/ethereum/go-ethereum/log"

	"github.com/tidewatch-io/tidewatch/internal/model"
	"github.com/tidewatch-io/tidewatch/internal/stage"
)

// ParseCbor is a stage.Worker that decodes CborBlock/CborTx records into
// their ParsedBlock/ParsedTx counterparts. A decode failure drops the
// event and logs a warning rather than propagating an error, since a
// single malformed block must not stop the stage.
type ParseCbor struct {
	in  *stage.Channel[model.ChainEvent]
	out *stage.Channel[model.ChainEvent]
}

// NewParseCbor builds a ParseCbor stage worker.
func NewParseCbor(in, out *stage.Channel[model.ChainEvent]) *ParseCbor {
	return &ParseCbor{in: in, out: out}
}

func (p *ParseCbor) Bootstrap(ctx context.Context) error { return nil }

func (p *ParseCbor) Schedule(ctx context.Context) (stage.Schedule[model.ChainEvent], error) {
	evt, ok, idle := p.in.RecvOrIdle(idlePoll)
	if idle {
		return stage.Idle[model.ChainEvent](), nil
	}
	if !ok {
		return stage.Done[model.ChainEvent](), nil
	}
	return stage.UnitReady(evt), nil
}

func (p *ParseCbor) Execute(ctx context.Context, evt model.ChainEvent) error {
	if evt.Record == nil {
		p.out.Send(evt)
		return nil
	}

	switch evt.Record.Kind {
	case model.RecordCborBlock:
		txs, err := UnmarshalBlock(evt.Record.CborBlock)
		if err != nil {
			log.Warn("filters: parse_cbor: dropping undecodable block", "point", evt.Point, "err", err)
			return nil
		}
		parsed := &model.ParsedBlock{Point: evt.Point, Transactions: txs}
		p.out.Send(model.ChainEvent{Kind: evt.Kind, Point: evt.Point, Record: model.NewParsedBlockRecord(parsed)})

	case model.RecordCborTx:
		tx, err := UnmarshalTx(evt.Record.CborTx)
		if err != nil {
			log.Warn("filters: parse_cbor: dropping undecodable tx", "point", evt.Point, "err", err)
			return nil
		}
		p.out.Send(model.ChainEvent{Kind: evt.Kind, Point: evt.Point, Record: model.NewParsedTxRecord(&tx)})

	default:
		p.out.Send(evt)
	}

	return nil
}

func (p *ParseCbor) Teardown(ctx context.Context) error { return nil }

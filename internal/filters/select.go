package filters

import (
	"context"

	"github.com/ethereum/go-ethereum/log"

	"github.com/tidewatch-io/tidewatch/internal/model"
	"github.com/tidewatch-io/tidewatch/internal/selector"
	"github.com/tidewatch-io/tidewatch/internal/stage"
)

// Select is a stage.Worker applying a compiled Predicate to every
// ParsedTx event, forwarding the transaction's enclosing RollForward
// event only when the predicate matches, and always forwarding
// Rollback/Reset events untouched (a predicate constrains which
// transactions reach the sink, not the chain position stream itself).
type Select struct {
	in   *stage.Channel[model.ChainEvent]
	out  *stage.Channel[model.ChainEvent]
	pred selector.Predicate
}

// NewSelect builds a Select stage worker evaluating pred.
func NewSelect(in, out *stage.Channel[model.ChainEvent], pred selector.Predicate) *Select {
	return &Select{in: in, out: out, pred: pred}
}

func (s *Select) Bootstrap(ctx context.Context) error { return nil }

func (s *Select) Schedule(ctx context.Context) (stage.Schedule[model.ChainEvent], error) {
	evt, ok, idle := s.in.RecvOrIdle(idlePoll)
	if idle {
		return stage.Idle[model.ChainEvent](), nil
	}
	if !ok {
		return stage.Done[model.ChainEvent](), nil
	}
	return stage.UnitReady(evt), nil
}

func (s *Select) Execute(ctx context.Context, evt model.ChainEvent) error {
	if evt.Kind != model.RollForward || evt.Record == nil || evt.Record.Kind != model.RecordParsedTx {
		s.out.Send(evt)
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			log.Warn("filters: select: predicate panicked, dropping event", "point", evt.Point, "panic", r)
		}
	}()
	if s.pred.IsMatch(evt.Record.ParsedTx, evt.Point.Slot) {
		s.out.Send(evt)
	}
	return nil
}

func (s *Select) Teardown(ctx context.Context) error { return nil }

package filters

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/log"

	"github.com/tidewatch-io/tidewatch/internal/model"
	"github.com/tidewatch-io/tidewatch/internal/stage"
)

const idlePoll = 200 * time.Millisecond

// SplitBlock is a stage.Worker that expands each RollForward event
// carrying a CborBlock record into one RollForward event per transaction,
// carrying a CborTx record, preserving the enclosing point and forwarding
// Rollback/Reset events untouched.
type SplitBlock struct {
	in  *stage.Channel[model.ChainEvent]
	out *stage.Channel[model.ChainEvent]

	pending []model.ChainEvent
}

// NewSplitBlock builds a SplitBlock stage worker.
func NewSplitBlock(in, out *stage.Channel[model.ChainEvent]) *SplitBlock {
	return &SplitBlock{in: in, out: out}
}

func (s *SplitBlock) Bootstrap(ctx context.Context) error { return nil }

// Schedule drains any already-split transactions before pulling the next
// input event, preserving per-tx order within a block.
func (s *SplitBlock) Schedule(ctx context.Context) (stage.Schedule[model.ChainEvent], error) {
	if len(s.pending) > 0 {
		return stage.UnitReady(s.pending[0]), nil
	}

	evt, ok, idle := s.in.RecvOrIdle(idlePoll)
	if idle {
		return stage.Idle[model.ChainEvent](), nil
	}
	if !ok {
		return stage.Done[model.ChainEvent](), nil
	}

	if evt.Kind != model.RollForward || evt.Record == nil || evt.Record.Kind != model.RecordCborBlock {
		return stage.UnitReady(evt), nil
	}

	txs, err := splitBlockCborTxs(evt.Record.CborBlock)
	if err != nil {
		log.Warn("filters: split_block: dropping undecodable block", "point", evt.Point, "err", err)
		return s.Schedule(ctx)
	}

	for _, txBytes := range txs {
		s.pending = append(s.pending, model.NewRollForward(evt.Point, model.NewCborTxRecord(txBytes)))
	}
	if len(s.pending) == 0 {
		return s.Schedule(ctx)
	}
	return stage.UnitReady(s.pending[0]), nil
}

// Execute forwards unit downstream. When unit came from the pending split
// queue, it is popped here rather than in Schedule so a retried Execute
// re-sends the same unit instead of skipping it.
func (s *SplitBlock) Execute(ctx context.Context, unit model.ChainEvent) error {
	s.out.Send(unit)
	if len(s.pending) > 0 {
		s.pending = s.pending[1:]
	}
	return nil
}

func (s *SplitBlock) Teardown(ctx context.Context) error { return nil }

// splitBlockCborTxs decodes this pipeline's CborBlock wire shape and
// returns each transaction re-encoded individually as CborTx bytes,
// without materializing the parsed model (that's parse_cbor's job).
func splitBlockCborTxs(blockBytes []byte) ([][]byte, error) {
	txs, err := UnmarshalBlock(blockBytes)
	if err != nil {
		return nil, err
	}
	out := make([][]byte, 0, len(txs))
	for _, tx := range txs {
		b, err := MarshalTx(tx)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

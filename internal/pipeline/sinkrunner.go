package pipeline

import (
	"context"
	"time"

	"github.com/tidewatch-io/tidewatch/internal/cursor"
	"github.com/tidewatch-io/tidewatch/internal/model"
	"github.com/tidewatch-io/tidewatch/internal/sink"
	"github.com/tidewatch-io/tidewatch/internal/stage"
)

const sinkIdlePoll = 200 * time.Millisecond

// sinkRunner is the stage.Worker that actually runs in the pipeline for a
// configured sink: it pulls events off in, hands each to the sink's
// Consume, and only once that returns successfully emits the event's point
// on the cursor port. A sink never sees the cursor at all; this is the one
// place the "no cursor message before the side effect is durable" rule is
// enforced, and every sink gets it for free.
type sinkRunner struct {
	in        *stage.Channel[model.ChainEvent]
	sink      sink.Sink
	cursorOut *stage.Channel[cursor.CommitMessage]
}

// newSinkRunner wraps sink so it participates in the cursor-port protocol.
func newSinkRunner(in *stage.Channel[model.ChainEvent], s sink.Sink, cursorOut *stage.Channel[cursor.CommitMessage]) *sinkRunner {
	return &sinkRunner{in: in, sink: s, cursorOut: cursorOut}
}

func (r *sinkRunner) Bootstrap(ctx context.Context) error { return nil }

func (r *sinkRunner) Schedule(ctx context.Context) (stage.Schedule[model.ChainEvent], error) {
	evt, ok, idle := r.in.RecvOrIdle(sinkIdlePoll)
	if idle {
		return stage.Idle[model.ChainEvent](), nil
	}
	if !ok {
		return stage.Done[model.ChainEvent](), nil
	}
	return stage.UnitReady(evt), nil
}

func (r *sinkRunner) Execute(ctx context.Context, evt model.ChainEvent) error {
	if err := r.sink.Consume(ctx, evt); err != nil {
		return err
	}

	msg := cursor.CommitMessage{Point: evt.Point}
	if evt.Kind == model.Rollback {
		msg.Rollback = true
	}
	r.cursorOut.Send(msg)
	return nil
}

func (r *sinkRunner) Teardown(ctx context.Context) error { return nil }

package sink

import (
	"context"
	"sync"

	"github.com/tidewatch-io/tidewatch/internal/model"
	"github.com/tidewatch-io/tidewatch/internal/stage"
)

// Recorder is an in-memory Sink that appends every event it sees, bounded
// to the last Limit events. It backs the watch subcommand and tests: both
// want to inspect what reached the end of the pipeline without standing up
// a network sink.
type Recorder struct {
	in    *stage.Channel[model.ChainEvent]
	limit int

	mu     sync.Mutex
	events []model.ChainEvent
}

// NewRecorder builds a Recorder keeping at most limit events. limit <= 0
// means unbounded.
func NewRecorder(in *stage.Channel[model.ChainEvent], limit int) *Recorder {
	return &Recorder{in: in, limit: limit}
}

func (r *Recorder) Bootstrap(ctx context.Context) error { return nil }

func (r *Recorder) Schedule(ctx context.Context) (stage.Schedule[model.ChainEvent], error) {
	evt, ok, idle := r.in.RecvOrIdle(idlePoll)
	if idle {
		return stage.Idle[model.ChainEvent](), nil
	}
	if !ok {
		return stage.Done[model.ChainEvent](), nil
	}
	return stage.UnitReady(evt), nil
}

func (r *Recorder) Execute(ctx context.Context, evt model.ChainEvent) error {
	return r.Consume(ctx, evt)
}

// Consume appends evt, evicting the oldest entry if Limit is exceeded.
func (r *Recorder) Consume(ctx context.Context, evt model.ChainEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, evt)
	if r.limit > 0 && len(r.events) > r.limit {
		r.events = r.events[len(r.events)-r.limit:]
	}
	return nil
}

// Events returns a snapshot of recorded events, oldest first.
func (r *Recorder) Events() []model.ChainEvent {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]model.ChainEvent, len(r.events))
	copy(out, r.events)
	return out
}

func (r *Recorder) Teardown(ctx context.Context) error { return nil }

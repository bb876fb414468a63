package sink

import (
	"context"
	"testing"

	"github.com/tidewatch-io/tidewatch/internal/chain"
	"github.com/tidewatch-io/tidewatch/internal/model"
	"github.com/tidewatch-io/tidewatch/internal/stage"
)

func blockEvent(slot uint64, txCount int) model.ChainEvent {
	txs := make([]model.ParsedTx, txCount)
	return model.NewRollForward(chain.Point{Slot: slot}, model.NewParsedBlockRecord(&model.ParsedBlock{
		Point:        chain.Point{Slot: slot},
		Transactions: txs,
	}))
}

func txEvent(slot uint64) model.ChainEvent {
	tx := model.ParsedTx{}
	return model.NewRollForward(chain.Point{Slot: slot}, model.NewParsedTxRecord(&tx))
}

func TestAssertPassesOnIncreasingSlots(t *testing.T) {
	in := stage.NewChannel[model.ChainEvent](8)
	a := NewAssert(in, DefaultChecks(), Config{BreakOnFailure: true})

	events := []model.ChainEvent{
		blockEvent(10, 2),
		txEvent(11),
		txEvent(12),
		blockEvent(20, 0),
	}
	for _, evt := range events {
		in.Send(evt)
	}
	in.Close()

	ctx := context.Background()
	for {
		sched, err := a.Schedule(ctx)
		if err != nil {
			t.Fatalf("Schedule: %v", err)
		}
		if sched.Kind == stage.ScheduleDone {
			break
		}
		if sched.Kind == stage.ScheduleIdle {
			continue
		}
		if err := a.Execute(ctx, sched.Unit); err != nil {
			t.Fatalf("Execute: %v", err)
		}
	}

	if a.state.CurrentBlock == nil || a.state.CurrentBlock.Slot != 20 {
		t.Fatalf("final state current block = %+v, want slot 20", a.state.CurrentBlock)
	}
}

func TestAssertBreaksOnFailureWhenConfigured(t *testing.T) {
	in := stage.NewChannel[model.ChainEvent](4)
	a := NewAssert(in, DefaultChecks(), Config{BreakOnFailure: true})

	if err := a.Consume(context.Background(), blockEvent(20, 0)); err != nil {
		t.Fatalf("unexpected error on first block event: %v", err)
	}

	// A block at a lower slot than the previous one: block_slot_increases
	// should fail and, with BreakOnFailure set, surface as an error.
	err := a.Consume(context.Background(), blockEvent(10, 0))
	if err == nil {
		t.Fatal("expected break-on-failure to surface an error")
	}
	var panicErr *stage.PanicError
	if !asPanicError(err, &panicErr) {
		t.Fatalf("error = %v, want *stage.PanicError", err)
	}
}

func asPanicError(err error, target **stage.PanicError) bool {
	pe, ok := err.(*stage.PanicError)
	if ok {
		*target = pe
	}
	return ok
}

func TestAssertSkipsNamedChecks(t *testing.T) {
	in := stage.NewChannel[model.ChainEvent](4)
	a := NewAssert(in, DefaultChecks(), Config{
		BreakOnFailure: true,
		SkipChecks:     []string{"block_slot_increases"},
	})

	if err := a.Consume(context.Background(), blockEvent(20, 0)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// A second block at the same slot fails only block_slot_increases;
	// point_slot_non_decreasing still passes, so the skip alone decides.
	if err := a.Consume(context.Background(), blockEvent(20, 0)); err != nil {
		t.Fatalf("skipped check must not break: %v", err)
	}
}

func TestRecorderBoundsToLimit(t *testing.T) {
	in := stage.NewChannel[model.ChainEvent](8)
	r := NewRecorder(in, 2)

	for i := uint64(1); i <= 3; i++ {
		if err := r.Consume(context.Background(), txEvent(i)); err != nil {
			t.Fatalf("Consume: %v", err)
		}
	}

	events := r.Events()
	if len(events) != 2 {
		t.Fatalf("len(events) = %d, want 2", len(events))
	}
	if events[0].Point.Slot != 2 || events[1].Point.Slot != 3 {
		t.Fatalf("events = %+v, want slots [2 3]", events)
	}
}

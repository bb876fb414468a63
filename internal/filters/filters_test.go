package filters

import (
	"context"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/tidewatch-io/tidewatch/internal/chain"
	"github.com/tidewatch-io/tidewatch/internal/model"
	"github.com/tidewatch-io/tidewatch/internal/selector"
	"github.com/tidewatch-io/tidewatch/internal/stage"
)

func sampleTxs() []model.ParsedTx {
	return []model.ParsedTx{
		{Hash: common.HexToHash("0x1"), Fee: 100},
		{Hash: common.HexToHash("0x2"), Fee: 200},
	}
}

func TestSplitBlockEmitsOnePerTx(t *testing.T) {
	blockBytes, err := MarshalBlock(sampleTxs())
	if err != nil {
		t.Fatalf("MarshalBlock: %v", err)
	}

	in := stage.NewChannel[model.ChainEvent](4)
	out := stage.NewChannel[model.ChainEvent](4)
	w := NewSplitBlock(in, out)

	point := chain.Point{Slot: 42}
	in.Send(model.NewRollForward(point, model.NewCborBlockRecord(blockBytes)))
	in.Close()

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		sched, err := w.Schedule(ctx)
		if err != nil {
			t.Fatalf("Schedule: %v", err)
		}
		if sched.Kind != stage.ScheduleUnit {
			t.Fatalf("Schedule kind = %v, want ScheduleUnit", sched.Kind)
		}
		if err := w.Execute(ctx, sched.Unit); err != nil {
			t.Fatalf("Execute: %v", err)
		}
	}

	for i := 0; i < 2; i++ {
		evt, ok := out.Recv()
		if !ok {
			t.Fatalf("expected output event %d", i)
		}
		if evt.Record.Kind != model.RecordCborTx {
			t.Errorf("event %d kind = %v, want RecordCborTx", i, evt.Record.Kind)
		}
		if evt.Point.Slot != 42 {
			t.Errorf("event %d point.Slot = %d, want 42", i, evt.Point.Slot)
		}
	}
}

func TestParseCborRoundTrip(t *testing.T) {
	txBytes, err := MarshalTx(sampleTxs()[0])
	if err != nil {
		t.Fatalf("MarshalTx: %v", err)
	}

	in := stage.NewChannel[model.ChainEvent](1)
	out := stage.NewChannel[model.ChainEvent](1)
	w := NewParseCbor(in, out)

	in.Send(model.NewRollForward(chain.Point{Slot: 1}, model.NewCborTxRecord(txBytes)))

	ctx := context.Background()
	sched, err := w.Schedule(ctx)
	if err != nil || sched.Kind != stage.ScheduleUnit {
		t.Fatalf("Schedule: %v, %v", sched, err)
	}
	if err := w.Execute(ctx, sched.Unit); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	evt, ok := out.Recv()
	if !ok {
		t.Fatal("expected output event")
	}
	if evt.Record.Kind != model.RecordParsedTx {
		t.Fatalf("record kind = %v, want RecordParsedTx", evt.Record.Kind)
	}
	if evt.Record.ParsedTx.Fee != 100 {
		t.Errorf("fee = %d, want 100", evt.Record.ParsedTx.Fee)
	}
}

func TestSelectDropsNonMatchingTx(t *testing.T) {
	in := stage.NewChannel[model.ChainEvent](2)
	out := stage.NewChannel[model.ChainEvent](2)

	pred := selector.Match(selector.MatchCustom(mustCustomPattern(t, "fee > 150")))
	w := NewSelect(in, out, pred)

	low := sampleTxs()[0]
	high := sampleTxs()[1]
	in.Send(model.NewRollForward(chain.Point{Slot: 1}, model.NewParsedTxRecord(&low)))
	in.Send(model.NewRollForward(chain.Point{Slot: 2}, model.NewParsedTxRecord(&high)))

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		sched, err := w.Schedule(ctx)
		if err != nil || sched.Kind != stage.ScheduleUnit {
			t.Fatalf("Schedule: %v, %v", sched, err)
		}
		if err := w.Execute(ctx, sched.Unit); err != nil {
			t.Fatalf("Execute: %v", err)
		}
	}

	evt, ok := out.Recv()
	if !ok {
		t.Fatal("expected exactly one forwarded event")
	}
	if evt.Record.ParsedTx.Fee != 200 {
		t.Errorf("forwarded tx fee = %d, want 200", evt.Record.ParsedTx.Fee)
	}

	if extra, ok, idle := out.RecvOrIdle(10 * time.Millisecond); !idle {
		t.Fatalf("unexpected second event (ok=%v): %+v", ok, extra)
	}
}

func mustCustomPattern(t *testing.T, expr string) selector.CustomPattern {
	t.Helper()
	p, err := selector.NewCustomPattern(expr)
	if err != nil {
		t.Fatalf("NewCustomPattern(%q): %v", expr, err)
	}
	return p
}

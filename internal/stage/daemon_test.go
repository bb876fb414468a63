package stage

import (
	"context"
	"errors"
	"testing"
)

// blockingWorker never schedules a unit until ctx is canceled, then exits
// cleanly; failingWorker fails its first Execute immediately.
type blockingWorker struct{}

func (blockingWorker) Bootstrap(ctx context.Context) error { return nil }
func (blockingWorker) Schedule(ctx context.Context) (Schedule[int], error) {
	<-ctx.Done()
	return Done[int](), nil
}
func (blockingWorker) Execute(ctx context.Context, unit int) error { return nil }
func (blockingWorker) Teardown(ctx context.Context) error          { return nil }

type failingWorker struct{ failed bool }

func (w *failingWorker) Bootstrap(ctx context.Context) error { return nil }
func (w *failingWorker) Schedule(ctx context.Context) (Schedule[int], error) {
	if w.failed {
		<-ctx.Done()
		return Done[int](), nil
	}
	w.failed = true
	return UnitReady(1), nil
}
func (w *failingWorker) Execute(ctx context.Context, unit int) error {
	return errors.New("boom")
}
func (w *failingWorker) Teardown(ctx context.Context) error { return nil }

func TestDaemonCancelsAllStagesOnOneFailure(t *testing.T) {
	blocking := New(DefaultDescriptor("blocking"), blockingWorker{})
	failing := New(DefaultDescriptor("failing"), &failingWorker{})

	d := NewDaemon(blocking, failing)
	d.Start(context.Background())

	d.Block()
	err := d.Teardown()
	if err == nil {
		t.Fatal("expected the failing stage's error to propagate")
	}

	select {
	case <-blocking.Tether().Done():
	default:
		t.Error("blocking stage should have been canceled once failing stage errored")
	}
}

func TestDaemonAllTethers(t *testing.T) {
	blocking := New(DefaultDescriptor("blocking"), blockingWorker{})
	d := NewDaemon(blocking)

	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)
	cancel()
	_ = d.Teardown()

	tethers := d.AllTethers()
	if len(tethers) != 1 || tethers[0].Name() != "blocking" {
		t.Fatalf("unexpected tethers: %+v", tethers)
	}
}

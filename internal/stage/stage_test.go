package stage

import (
	"context"
	"testing"
	"time"
)

// countingWorker emits a fixed number of int units, then signals Done.
type countingWorker struct {
	remaining int
	executed  []int
	bootstrapErr error
	bootstraps int
}

func (w *countingWorker) Bootstrap(ctx context.Context) error {
	w.bootstraps++
	return w.bootstrapErr
}

func (w *countingWorker) Schedule(ctx context.Context) (Schedule[int], error) {
	if w.remaining == 0 {
		return Done[int](), nil
	}
	w.remaining--
	return UnitReady(w.remaining), nil
}

func (w *countingWorker) Execute(ctx context.Context, unit int) error {
	w.executed = append(w.executed, unit)
	return nil
}

func (w *countingWorker) Teardown(ctx context.Context) error { return nil }

func TestStageRunCompletesOnScheduleDone(t *testing.T) {
	w := &countingWorker{remaining: 3}
	s := New(DefaultDescriptor("counter"), w)

	done := make(chan error, 1)
	go func() { done <- s.Run(context.Background()) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("stage did not complete in time")
	}

	if len(w.executed) != 3 {
		t.Fatalf("executed %d units, want 3", len(w.executed))
	}
	if s.Tether().State() != Exited {
		t.Errorf("state = %v, want Exited", s.Tether().State())
	}
}

func TestStageTetherDoneClosesOnExit(t *testing.T) {
	w := &countingWorker{remaining: 0}
	s := New(DefaultDescriptor("empty"), w)

	go s.Run(context.Background())

	select {
	case <-s.Tether().Done():
	case <-time.After(5 * time.Second):
		t.Fatal("tether Done() never closed")
	}
}

func TestStageRunFailsOnBootstrapExhaustion(t *testing.T) {
	w := &countingWorker{bootstrapErr: &RetryableError{Err: context.DeadlineExceeded}}
	s := New(Descriptor{
		Name:            "failing",
		BootstrapPolicy: RetryPolicy{MaxRetries: 1, BackoffUnit: time.Millisecond, BackoffFactor: 1, MaxBackoff: time.Millisecond},
		WorkPolicy:      DefaultRetryPolicy,
		TeardownPolicy:  DefaultRetryPolicy,
	}, w)

	err := s.Run(context.Background())
	if err == nil {
		t.Fatal("expected bootstrap exhaustion error")
	}
	if s.Tether().State() != Failed {
		t.Errorf("state = %v, want Failed", s.Tether().State())
	}
	if w.bootstraps != 2 {
		t.Errorf("bootstraps = %d, want 2 (initial + 1 retry)", w.bootstraps)
	}
}

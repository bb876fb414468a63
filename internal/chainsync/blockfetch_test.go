package chainsync

import (
	"testing"

	"github.com/tidewatch-io/tidewatch/internal/chain"
)

func TestHeaderQueuePeekCommit(t *testing.T) {
	q := NewHeaderQueue()
	if _, ok := q.Peek(); ok {
		t.Fatal("expected empty queue to report no header")
	}

	h1 := MultiEraHeader{Point: samplePoint(1)}
	h2 := MultiEraHeader{Point: samplePoint(2)}
	q.Push(h1)
	q.Push(h2)

	if q.Len() != 2 {
		t.Fatalf("len = %d, want 2", q.Len())
	}

	peeked, ok := q.Peek()
	if !ok || peeked.Point.Slot != 1 {
		t.Fatalf("peek = %+v, want slot 1", peeked)
	}

	// Peeking again before commit must return the same header: a crash
	// between peek and commit re-enqueues it rather than losing it.
	peekedAgain, ok := q.Peek()
	if !ok || peekedAgain.Point.Slot != 1 {
		t.Fatalf("second peek = %+v, want slot 1 again", peekedAgain)
	}

	q.Commit()
	if q.Len() != 1 {
		t.Fatalf("len after commit = %d, want 1", q.Len())
	}

	next, ok := q.Peek()
	if !ok || next.Point.Slot != 2 {
		t.Fatalf("peek after commit = %+v, want slot 2", next)
	}
}

func samplePoint(slot uint64) chain.Point {
	return chain.Point{Slot: slot}
}

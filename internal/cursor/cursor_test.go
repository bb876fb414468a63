package cursor

import (
	"testing"

	"github.com/tidewatch-io/tidewatch/internal/chain"
)

func TestCursorAddAndRollback(t *testing.T) {
	c := New(nil)

	c.AddBreadcrumb(chain.Point{Slot: 10})
	c.AddBreadcrumb(chain.Point{Slot: 20})
	c.AddBreadcrumb(chain.Point{Slot: 30})

	latest, ok := c.LatestKnownPoint()
	if !ok || latest.Slot != 30 {
		t.Fatalf("latest = %+v, want slot 30", latest)
	}

	c.Rollback(chain.Point{Slot: 15})
	snap := c.CloneState()
	if len(snap) != 1 || snap[0].Slot != 10 {
		t.Fatalf("snapshot after rollback = %+v, want [{Slot:10}]", snap)
	}
}

func TestCursorEmptyHasNoLatest(t *testing.T) {
	c := New(nil)
	if _, ok := c.LatestKnownPoint(); ok {
		t.Fatal("expected no latest point on an empty cursor")
	}
}

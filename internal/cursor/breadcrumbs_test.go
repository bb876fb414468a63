package cursor

import (
	"testing"

	"github.com/tidewatch-io/tidewatch/internal/chain"
)

func TestBreadcrumbsPushEvictsOldest(t *testing.T) {
	b := NewBreadcrumbs(nil)
	for i := uint64(1); i <= MaxBreadcrumbs+5; i++ {
		b.Push(chain.Point{Slot: i})
	}
	if b.Len() != MaxBreadcrumbs {
		t.Fatalf("len = %d, want %d", b.Len(), MaxBreadcrumbs)
	}
	latest, ok := b.Latest()
	if !ok || latest.Slot != MaxBreadcrumbs+5 {
		t.Fatalf("latest = %+v, want slot %d", latest, MaxBreadcrumbs+5)
	}
}

func TestBreadcrumbsTruncateForRollback(t *testing.T) {
	b := NewBreadcrumbs([]chain.Point{
		{Slot: 50}, {Slot: 40}, {Slot: 30}, {Slot: 20}, {Slot: 10},
	})
	b.TruncateForRollback(chain.Point{Slot: 35})

	snap := b.Snapshot()
	if len(snap) != 3 {
		t.Fatalf("snapshot = %+v, want 3 entries (30,20,10)", snap)
	}
	if snap[0].Slot != 30 {
		t.Errorf("snapshot[0].Slot = %d, want 30", snap[0].Slot)
	}
}

func TestBreadcrumbsTruncateForRollbackNoSurvivors(t *testing.T) {
	b := NewBreadcrumbs([]chain.Point{{Slot: 50}, {Slot: 40}})
	b.TruncateForRollback(chain.Point{Slot: 5})

	snap := b.Snapshot()
	if len(snap) != 1 || snap[0].Slot != 5 {
		t.Fatalf("snapshot = %+v, want exactly [{Slot:5}]", snap)
	}
}

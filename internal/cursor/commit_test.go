package cursor

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/tidewatch-io/tidewatch/internal/chain"
	"github.com/tidewatch-io/tidewatch/internal/stage"
)

func TestCommitStageAppendsAndPersists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cursor.db")

	cur := New(nil)
	store := NewFileStore(path)
	in := stage.NewChannel[CommitMessage](4)
	c := NewCommitStage(in, cur, store)

	in.Send(CommitMessage{Point: chain.Point{Slot: 10}})
	in.Send(CommitMessage{Point: chain.Point{Slot: 20}})
	in.Close()

	ctx := context.Background()
	for {
		sched, err := c.Schedule(ctx)
		if err != nil {
			t.Fatalf("Schedule: %v", err)
		}
		if sched.Kind == stage.ScheduleDone {
			break
		}
		if sched.Kind == stage.ScheduleIdle {
			continue
		}
		if err := c.Execute(ctx, sched.Unit); err != nil {
			t.Fatalf("Execute: %v", err)
		}
	}

	latest, ok := cur.LatestKnownPoint()
	if !ok || latest.Slot != 20 {
		t.Fatalf("latest = %+v, ok=%v, want slot 20", latest, ok)
	}

	reloaded := NewFileStore(path)
	points, err := reloaded.InitialLoad()
	if err != nil {
		t.Fatalf("InitialLoad: %v", err)
	}
	if len(points) != 2 || points[0].Slot != 20 || points[1].Slot != 10 {
		t.Fatalf("persisted points = %+v, want [20 10]", points)
	}
}

func TestCommitStageRollbackTruncates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cursor.db")

	cur := New(nil)
	store := NewFileStore(path)
	in := stage.NewChannel[CommitMessage](4)
	c := NewCommitStage(in, cur, store)

	for _, slot := range []uint64{100, 110, 120} {
		if err := c.Execute(context.Background(), CommitMessage{Point: chain.Point{Slot: slot}}); err != nil {
			t.Fatalf("Execute: %v", err)
		}
	}

	if err := c.Execute(context.Background(), CommitMessage{Point: chain.Point{Slot: 105}, Rollback: true}); err != nil {
		t.Fatalf("Execute rollback: %v", err)
	}

	latest, ok := cur.LatestKnownPoint()
	if !ok || latest.Slot > 105 {
		t.Fatalf("latest after rollback = %+v, want slot <= 105", latest)
	}
}

package cursor

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/log"

	"github.com/tidewatch-io/tidewatch/internal/chain"
	"github.com/tidewatch-io/tidewatch/internal/stage"
)

const idlePoll = 200 * time.Millisecond

// CommitMessage is what a sink emits on its cursor port once its side
// effect for Point is durable: an ordinary breadcrumb append, or a
// rollback truncation when Rollback is set.
type CommitMessage struct {
	Point    chain.Point
	Rollback bool
}

// CommitStage is a stage.Worker implementing the durability contract: on
// every message received through the cursor port, it updates the shared
// Cursor and atomically rewrites the on-disk breadcrumb file. This is the
// only place the on-disk file is written, so concurrent writers are never
// a concern.
type CommitStage struct {
	in    *stage.Channel[CommitMessage]
	cur   *Cursor
	store *FileStore
}

// NewCommitStage builds a CommitStage.
func NewCommitStage(in *stage.Channel[CommitMessage], cur *Cursor, store *FileStore) *CommitStage {
	return &CommitStage{in: in, cur: cur, store: store}
}

func (c *CommitStage) Bootstrap(ctx context.Context) error { return nil }

func (c *CommitStage) Schedule(ctx context.Context) (stage.Schedule[CommitMessage], error) {
	msg, ok, idle := c.in.RecvOrIdle(idlePoll)
	if idle {
		return stage.Idle[CommitMessage](), nil
	}
	if !ok {
		return stage.Done[CommitMessage](), nil
	}
	return stage.UnitReady(msg), nil
}

func (c *CommitStage) Execute(ctx context.Context, msg CommitMessage) error {
	if msg.Rollback {
		c.cur.Rollback(msg.Point)
	} else {
		c.cur.AddBreadcrumb(msg.Point)
	}

	if err := c.store.Persist(c.cur.CloneState()); err != nil {
		log.Error("cursor: failed to persist breadcrumb file", "point", msg.Point, "err", err)
		return &stage.RetryableError{Err: err}
	}
	return nil
}

func (c *CommitStage) Teardown(ctx context.Context) error { return nil }

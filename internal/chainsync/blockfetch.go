package chainsync

import (
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/tidewatch-io/tidewatch/internal/chain"
)

// ErrNoBlocks is returned by FetchSingle when the peer has pruned past
// the requested point. The spec treats this as retryable: the caller
// should re-fetch against a fresher header.
var ErrNoBlocks = errors.New("chainsync: peer has no blocks for the requested range")

// BlockFetchClient drives block-fetch: Idle -> Busy -> {Streaming ->
// Idle} | Idle, fetching one header's body per call to FetchSingle.
type BlockFetchClient struct {
	ch *Channel
}

// NewBlockFetchClient wraps ch as a block-fetch agent.
func NewBlockFetchClient(ch *Channel) *BlockFetchClient {
	return &BlockFetchClient{ch: ch}
}

// FetchSingle requests the single block at point and returns its raw
// bytes. It accumulates zero-or-more Block segments between StartBatch
// and BatchDone, per the protocol's streaming reply shape, even though a
// single-point range always yields at most one block.
func (c *BlockFetchClient) FetchSingle(point chain.Point) ([]byte, error) {
	wp := encodePoint(point.Slot, point.Hash)
	req, err := cbor.Marshal(bfMessage{Kind: bfRequestRange, From: wp, To: wp})
	if err != nil {
		return nil, fmt.Errorf("chainsync: encoding RequestRange: %w", err)
	}
	if err := c.ch.Send(req); err != nil {
		return nil, err
	}

	raw, err := c.ch.Recv()
	if err != nil {
		return nil, err
	}
	var first bfMessage
	if err := cbor.Unmarshal(raw, &first); err != nil {
		return nil, fmt.Errorf("chainsync: decoding block-fetch reply: %w", err)
	}
	switch first.Kind {
	case bfNoBlocks:
		return nil, ErrNoBlocks
	case bfStartBatch:
		// proceed to stream blocks below
	default:
		return nil, fmt.Errorf("chainsync: unexpected block-fetch reply kind %d", first.Kind)
	}

	var body []byte
	for {
		raw, err := c.ch.Recv()
		if err != nil {
			return nil, err
		}
		var msg bfMessage
		if err := cbor.Unmarshal(raw, &msg); err != nil {
			return nil, fmt.Errorf("chainsync: decoding block-fetch segment: %w", err)
		}
		switch msg.Kind {
		case bfBlock:
			body = append(body, msg.Bytes...)
		case bfBatchDone:
			return body, nil
		default:
			return nil, fmt.Errorf("chainsync: unexpected block-fetch segment kind %d", msg.Kind)
		}
	}
}

// headerQueueEntry pairs a pending header with whether it has already
// been peeked (handed out to a fetch attempt but not yet committed).
type headerQueueEntry struct {
	header  MultiEraHeader
	peeked  bool
}

// HeaderQueue is the block-fetch worker's pending-header list, accessed
// with a two-phase peek/commit protocol: Peek hands out the oldest
// uncommitted header without removing it, Commit removes it once its body
// has actually been fetched and forwarded. A crash between Peek and
// Commit simply leaves the header at the front of the queue to be peeked
// again, so no header is ever lost to a worker restart.
type HeaderQueue struct {
	entries []headerQueueEntry
}

// NewHeaderQueue builds an empty HeaderQueue.
func NewHeaderQueue() *HeaderQueue {
	return &HeaderQueue{}
}

// Push appends a freshly observed header to the back of the queue.
func (q *HeaderQueue) Push(h MultiEraHeader) {
	q.entries = append(q.entries, headerQueueEntry{header: h})
}

// Peek returns the oldest header not yet committed, without removing it.
func (q *HeaderQueue) Peek() (MultiEraHeader, bool) {
	if len(q.entries) == 0 {
		return MultiEraHeader{}, false
	}
	q.entries[0].peeked = true
	return q.entries[0].header, true
}

// Commit removes the oldest header, which must have been Peeked first.
func (q *HeaderQueue) Commit() {
	if len(q.entries) == 0 {
		return
	}
	q.entries = q.entries[1:]
}

// Len reports how many headers remain pending.
func (q *HeaderQueue) Len() int {
	return len(q.entries)
}

package chainsync

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/tidewatch-io/tidewatch/internal/chain"
)

// ReplyKind tags what the peer sent back from RequestNext.
type ReplyKind int

const (
	ReplyRollForward ReplyKind = iota
	ReplyRollBackward
)

// Reply is one chain-sync response: either a roll-forward carrying a
// header (N2N) or full block (N2C), or a roll-backward to a point. Tip is
// the peer's current tip, reported on every reply.
type Reply struct {
	Kind ReplyKind
	Data []byte // header bytes (N2N) or block bytes (N2C), set on ReplyRollForward
	Point chain.Point // set on ReplyRollBackward
	Tip   chain.Point
}

// Client drives one chain-sync session: Idle -> {MustReply, CanAwait} ->
// Idle, plus Intersect -> Idle and terminal Done, per the Ouroboros
// chain-sync mini-protocol.
type Client struct {
	ch *Channel
}

// NewClient wraps ch as a chain-sync agent.
func NewClient(ch *Channel) *Client {
	return &Client{ch: ch}
}

// FindIntersect sends FindIntersect(points) and returns either the
// intersection point and peer tip, or reports not-found. points is the
// caller's breadcrumbs newest-first, or the well-known point if the
// caller has none yet.
func (c *Client) FindIntersect(points []chain.Point) (point chain.Point, tip chain.Point, found bool, err error) {
	wps := make([]wirePoint, len(points))
	for i, p := range points {
		wps[i] = encodePoint(p.Slot, p.Hash)
	}

	payload, err := cbor.Marshal(csMessage{Kind: csFindIntersect, Points: wps})
	if err != nil {
		return chain.Point{}, chain.Point{}, false, fmt.Errorf("chainsync: encoding FindIntersect: %w", err)
	}
	if err := c.ch.Send(payload); err != nil {
		return chain.Point{}, chain.Point{}, false, err
	}

	reply, err := c.ch.Recv()
	if err != nil {
		return chain.Point{}, chain.Point{}, false, err
	}

	var msg csMessage
	if err := cbor.Unmarshal(reply, &msg); err != nil {
		return chain.Point{}, chain.Point{}, false, fmt.Errorf("chainsync: decoding FindIntersect reply: %w", err)
	}

	switch msg.Kind {
	case csIntersectFound:
		return chain.Point{Slot: msg.Point.Slot, Hash: msg.Point.hash()},
			chain.Point{Slot: msg.Tip.Slot, Hash: msg.Tip.hash()},
			true, nil
	case csIntersectNotFound:
		return chain.Point{}, chain.Point{Slot: msg.Tip.Slot, Hash: msg.Tip.hash()}, false, nil
	default:
		return chain.Point{}, chain.Point{}, false, fmt.Errorf("chainsync: unexpected reply kind %d to FindIntersect", msg.Kind)
	}
}

// RequestNext sends RequestNext and blocks for the peer's reply. A peer
// that has nothing ready replies AwaitReply first; this method keeps
// reading until a RollForward or RollBackward arrives, so the caller never
// observes the await state directly (it is not a data reply, just a
// promise that one is coming).
func (c *Client) RequestNext() (Reply, error) {
	payload, err := cbor.Marshal(csMessage{Kind: csRequestNext})
	if err != nil {
		return Reply{}, fmt.Errorf("chainsync: encoding RequestNext: %w", err)
	}
	if err := c.ch.Send(payload); err != nil {
		return Reply{}, err
	}

	for {
		raw, err := c.ch.Recv()
		if err != nil {
			return Reply{}, err
		}
		var msg csMessage
		if err := cbor.Unmarshal(raw, &msg); err != nil {
			return Reply{}, fmt.Errorf("chainsync: decoding RequestNext reply: %w", err)
		}

		switch msg.Kind {
		case csAwaitReply:
			continue
		case csRollForward:
			return Reply{
				Kind: ReplyRollForward,
				Data: msg.HeaderOrBlock,
				Tip:  chain.Point{Slot: msg.Tip.Slot, Hash: msg.Tip.hash()},
			}, nil
		case csRollBackward:
			return Reply{
				Kind:  ReplyRollBackward,
				Point: chain.Point{Slot: msg.Point.Slot, Hash: msg.Point.hash()},
				Tip:   chain.Point{Slot: msg.Tip.Slot, Hash: msg.Tip.hash()},
			}, nil
		case csDone:
			return Reply{}, fmt.Errorf("chainsync: peer closed the session")
		default:
			return Reply{}, fmt.Errorf("chainsync: unexpected reply kind %d to RequestNext", msg.Kind)
		}
	}
}

package chainsync

import "github.com/ethereum/go-ethereum/common"

// wirePoint is the on-the-wire encoding of a chain point: empty Hash means
// Origin.
type wirePoint struct {
	Slot uint64
	Hash []byte
}

func encodePoint(slot uint64, hash common.Hash) wirePoint {
	return wirePoint{Slot: slot, Hash: hash.Bytes()}
}

func (w wirePoint) isOrigin() bool {
	return len(w.Hash) == 0 && w.Slot == 0
}

func (w wirePoint) hash() common.Hash {
	var h common.Hash
	copy(h[:], w.Hash)
	return h
}

// csMsgKind tags a chain-sync protocol message's variant.
type csMsgKind uint8

const (
	csFindIntersect csMsgKind = iota
	csIntersectFound
	csIntersectNotFound
	csRequestNext
	csRollForward
	csRollBackward
	csAwaitReply
	csDone
)

// csMessage is the chain-sync mini-protocol's single envelope type. Only
// the fields relevant to Kind are populated; this mirrors the CDDL
// encoding's tagged-array-of-variants shape closely enough for this
// client's purposes without reproducing its exact byte layout.
type csMessage struct {
	Kind csMsgKind

	Points []wirePoint // csFindIntersect

	Point wirePoint // csIntersectFound, csRollBackward
	Tip   wirePoint // csIntersectFound, csIntersectNotFound, csRollForward, csRollBackward

	// HeaderOrBlock carries a CBOR-encoded header (N2N) or full block
	// (N2C) on csRollForward.
	HeaderOrBlock []byte
}

// bfMsgKind tags a block-fetch protocol message's variant.
type bfMsgKind uint8

const (
	bfRequestRange bfMsgKind = iota
	bfStartBatch
	bfBlock
	bfBatchDone
	bfNoBlocks
)

// bfMessage is the block-fetch mini-protocol's single envelope type.
type bfMessage struct {
	Kind bfMsgKind

	From wirePoint // bfRequestRange
	To   wirePoint // bfRequestRange

	Bytes []byte // bfBlock
}

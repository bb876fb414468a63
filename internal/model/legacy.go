package model

import "github.com/ethereum/go-ethereum/common"

// LegacyEventKind enumerates the flat event variants produced by the
// legacy_v1 mapper, for compatibility with sinks written against the V1
// record shape.
type LegacyEventKind int

const (
	LegacyBlockStart LegacyEventKind = iota
	LegacyBlockEnd
	LegacyTransaction
	LegacyTxInput
	LegacyTxOutput
	LegacyMetadata
	LegacyMint
	LegacyStakeRegistration
	LegacyStakeDeregistration
	LegacyStakeDelegation
	LegacyPoolRegistration
	LegacyPoolRetirement
	LegacyGenesisKeyDelegation
	LegacyMoveInstantaneousRewards
)

// EventContext carries the ancestry (block/tx/slot position) shared by every
// LegacyEvent derived from the same source block.
type EventContext struct {
	BlockHash   common.Hash
	BlockNumber uint64
	Slot        uint64
	TxIdx       *int
	TxHash      *common.Hash
	Timestamp   uint64
	// Fingerprint is a stable identifier for this event's position, used by
	// sinks that need idempotency keys: "<block_hash>-<tx_idx>-<kind>".
	Fingerprint string
}

// LegacyEvent is one flattened, typed event in the legacy_v1 sequence. Only
// the field(s) relevant to Kind are populated; the rest are zero.
type LegacyEvent struct {
	Context EventContext
	Kind    LegacyEventKind

	TxInput      *TxInput
	TxOutput     *TxOutput
	Metadata     *AuxMetadata
	MintAsset    *Asset
	MintPolicy   *PolicyID
	Certificate  *Certificate
	Fee          uint64
	TTL          *uint64
}

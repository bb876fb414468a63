// Package model defines the canonical event and record types that flow
// between pipeline stages.
package model

import "github.com/tidewatch-io/tidewatch/internal/chain"

// EventKind tags a ChainEvent's variant.
type EventKind int

const (
	RollForward EventKind = iota
	Rollback
	Reset
)

func (k EventKind) String() string {
	switch k {
	case RollForward:
		return "roll_forward"
	case Rollback:
		return "rollback"
	case Reset:
		return "reset"
	default:
		return "unknown"
	}
}

// ChainEvent is the unit of data that flows through the pipeline: a chain
// position, optionally carrying a Record, tagged with how it was produced.
type ChainEvent struct {
	Kind   EventKind
	Point  chain.Point
	Record *Record // nil for Rollback; present for RollForward/Reset carrying data
}

// NewRollForward builds a RollForward event.
func NewRollForward(p chain.Point, r *Record) ChainEvent {
	return ChainEvent{Kind: RollForward, Point: p, Record: r}
}

// NewRollback builds a Rollback event.
func NewRollback(p chain.Point) ChainEvent {
	return ChainEvent{Kind: Rollback, Point: p}
}

// NewReset builds a Reset event, emitted on (re)intersection.
func NewReset(p chain.Point, r *Record) ChainEvent {
	return ChainEvent{Kind: Reset, Point: p, Record: r}
}

// RecordKind tags the concrete shape currently held by a Record. Filters
// rewrite a Record by replacing it wholesale, never by mutating in place.
type RecordKind int

const (
	RecordCborBlock RecordKind = iota
	RecordCborTx
	RecordParsedBlock
	RecordParsedTx
	RecordLegacyEvent
)

// Record is the tagged payload carried by a RollForward/Reset event. Exactly
// one of the Cbor/Parsed/Legacy fields is populated, selected by Kind.
type Record struct {
	Kind RecordKind

	CborBlock []byte
	CborTx    []byte

	ParsedBlock *ParsedBlock
	ParsedTx    *ParsedTx

	LegacyEvent *LegacyEvent
}

// NewCborBlockRecord wraps raw block CBOR bytes.
func NewCborBlockRecord(b []byte) *Record {
	return &Record{Kind: RecordCborBlock, CborBlock: b}
}

// NewCborTxRecord wraps raw transaction CBOR bytes.
func NewCborTxRecord(b []byte) *Record {
	return &Record{Kind: RecordCborTx, CborTx: b}
}

// NewParsedBlockRecord wraps a decoded block.
func NewParsedBlockRecord(b *ParsedBlock) *Record {
	return &Record{Kind: RecordParsedBlock, ParsedBlock: b}
}

// NewParsedTxRecord wraps a decoded transaction.
func NewParsedTxRecord(tx *ParsedTx) *Record {
	return &Record{Kind: RecordParsedTx, ParsedTx: tx}
}

// NewLegacyEventRecord wraps a legacy_v1 flattened event.
func NewLegacyEventRecord(e *LegacyEvent) *Record {
	return &Record{Kind: RecordLegacyEvent, LegacyEvent: e}
}

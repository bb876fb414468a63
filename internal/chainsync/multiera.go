package chainsync

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fxamacker/cbor/v2"
	"golang.org/x/crypto/blake2b"

	"github.com/tidewatch-io/tidewatch/internal/chain"
)

// EraTag selects which era-specific decoder a header or block body belongs
// to, per the inbound variant tag chain-sync/block-fetch replies carry.
type EraTag uint8

const (
	EraByronBoundary EraTag = iota
	EraByronMain
	EraShelleyAndLater
)

// multiEraEnvelope is the outer wrapper every header/block is carried in:
// an era tag selecting the decoder, plus the era-specific payload bytes.
type multiEraEnvelope struct {
	Era     EraTag
	Payload []byte
}

// byronHeaderBody is the minimal subset of a Byron header this client
// decodes: enough to compute the block's absolute slot and its hash.
type byronHeaderBody struct {
	Epoch        uint64
	SubEpochSlot uint64 // unused for boundary blocks
}

// shelleyHeaderBody is the minimal subset of a Shelley-and-later header:
// these eras carry an absolute slot directly, no epoch arithmetic needed.
type shelleyHeaderBody struct {
	Slot uint64
}

// MultiEraHeader is a decoded header: its era, its point on the chain, and
// the raw bytes block-fetch should use to request the matching body.
type MultiEraHeader struct {
	Era   EraTag
	Point chain.Point
	Raw   []byte
}

// DecodeHeader parses an inbound header envelope, resolving its absolute
// slot via genesis when the header is Byron-era (whose wire encoding only
// carries epoch and sub-epoch-slot) and computing its hash as
// Blake2b-256 of the header payload, matching the original block-identity
// scheme. A decode failure here is fatal for this one block only: the
// caller logs and continues rather than stopping the stage.
func DecodeHeader(genesis chain.GenesisValues, raw []byte) (MultiEraHeader, error) {
	var env multiEraEnvelope
	if err := cbor.Unmarshal(raw, &env); err != nil {
		return MultiEraHeader{}, fmt.Errorf("chainsync: decoding header envelope: %w", err)
	}

	hash, err := headerHash(env.Payload)
	if err != nil {
		return MultiEraHeader{}, err
	}

	switch env.Era {
	case EraByronBoundary, EraByronMain:
		var body byronHeaderBody
		if err := cbor.Unmarshal(env.Payload, &body); err != nil {
			return MultiEraHeader{}, fmt.Errorf("chainsync: decoding byron header: %w", err)
		}
		slot := genesis.ByronAbsoluteSlot(body.Epoch, body.SubEpochSlot)
		return MultiEraHeader{
			Era:   env.Era,
			Point: chain.Point{Slot: slot, Hash: hash},
			Raw:   raw,
		}, nil

	case EraShelleyAndLater:
		var body shelleyHeaderBody
		if err := cbor.Unmarshal(env.Payload, &body); err != nil {
			return MultiEraHeader{}, fmt.Errorf("chainsync: decoding shelley-and-later header: %w", err)
		}
		return MultiEraHeader{
			Era:   env.Era,
			Point: chain.Point{Slot: body.Slot, Hash: hash},
			Raw:   raw,
		}, nil

	default:
		return MultiEraHeader{}, fmt.Errorf("chainsync: unknown era tag %d", env.Era)
	}
}

// MultiEraBlock is a decoded block body paired with the point its header
// resolved to.
type MultiEraBlock struct {
	Point chain.Point
	Raw   []byte
}

// DecodeBlock wraps a full block's bytes (as returned directly by N2C
// chain-sync, with no separate block-fetch round trip) with the point
// resolved from its own header envelope.
func DecodeBlock(genesis chain.GenesisValues, raw []byte) (MultiEraBlock, error) {
	header, err := DecodeHeader(genesis, raw)
	if err != nil {
		return MultiEraBlock{}, err
	}
	return MultiEraBlock{Point: header.Point, Raw: raw}, nil
}

func headerHash(payload []byte) (common.Hash, error) {
	h, err := blake2b.New256(nil)
	if err != nil {
		return common.Hash{}, err
	}
	h.Write(payload)
	var out common.Hash
	copy(out[:], h.Sum(nil))
	return out, nil
}

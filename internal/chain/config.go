package chain

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// GenesisValues carries the slot-arithmetic constants needed to convert
// between slots and wall-clock time and, for Byron-era blocks, between
// (epoch, sub-epoch-slot) pairs and absolute slots.
//
// The canonical path for Byron slot arithmetic always goes through these
// values. A hard-coded BYRON_SLOT_LENGTH/BYRON_EPOCH_LENGTH pair existed in
// one early implementation of this system and produced wrong slots on any
// network whose Byron era didn't use Mainnet's parameters; it is not
// reproduced here. See internal/chainsync/multiera.go.
type GenesisValues struct {
	ByronSlotLength  uint64 // seconds per Byron slot
	ByronEpochLength uint64 // seconds per Byron epoch
	ShelleyKnownSlot uint64
	ShelleyKnownHash common.Hash
	ShelleyKnownTime uint64 // unix seconds
	SystemStart      uint64 // unix seconds, start of slot 0
	SlotLength       uint64 // seconds per post-Byron slot
}

// ByronAbsoluteSlot converts a Byron (epoch, sub-epoch slot) pair into an
// absolute slot number using this network's genesis values.
func (g GenesisValues) ByronAbsoluteSlot(epoch, subEpochSlot uint64) uint64 {
	return (epoch*g.ByronEpochLength)/g.ByronSlotLength + subEpochSlot
}

// ChainKind selects one of the well-known Cardano networks, or Custom for a
// network described entirely by an explicit GenesisValues.
type ChainKind int

const (
	Mainnet ChainKind = iota
	Testnet
	PreProd
	Preview
	Custom
)

func (k ChainKind) String() string {
	switch k {
	case Mainnet:
		return "mainnet"
	case Testnet:
		return "testnet"
	case PreProd:
		return "preprod"
	case Preview:
		return "preview"
	case Custom:
		return "custom"
	default:
		return "unknown"
	}
}

// Config is the resolved chain configuration for a run: which network, and
// the genesis values that drive slot arithmetic.
type Config struct {
	Kind    ChainKind
	Magic   uint64
	Genesis GenesisValues
}

var (
	// MainnetConfig is Cardano mainnet.
	MainnetConfig = Config{
		Kind:  Mainnet,
		Magic: 764824073,
		Genesis: GenesisValues{
			ByronSlotLength:  20,
			ByronEpochLength: 432000,
			ShelleyKnownSlot: 4492799,
			ShelleyKnownHash: common.HexToHash("f8084c61b6a238acec985b59310b6ecec49c0ab8352249afd7268da5cff2a457"),
			ShelleyKnownTime: 1596059071,
			SystemStart:      1506203091,
			SlotLength:       1,
		},
	}

	// TestnetConfig is the legacy Cardano public testnet.
	TestnetConfig = Config{
		Kind:  Testnet,
		Magic: 1097911063,
		Genesis: GenesisValues{
			ByronSlotLength:  20,
			ByronEpochLength: 432000,
			ShelleyKnownSlot: 1598399,
			ShelleyKnownHash: common.HexToHash("7e16781b40ebf8b6da18f7b5e8ade855d6738095ef2f1c58c77e88b6e45997a4"),
			ShelleyKnownTime: 1595967596,
			SystemStart:      1563999616,
			SlotLength:       1,
		},
	}

	// PreProdConfig is the Cardano pre-production testnet.
	PreProdConfig = Config{
		Kind:  PreProd,
		Magic: 1,
		Genesis: GenesisValues{
			ByronSlotLength:  20,
			ByronEpochLength: 432000,
			ShelleyKnownSlot: 4492799,
			ShelleyKnownHash: common.HexToHash("c0f1c936887c0c5f148e87b33f6fd13c5c853c6c37f0ee3e5361d95988aa15f9"),
			ShelleyKnownTime: 1655683200,
			SystemStart:      1654041600,
			SlotLength:       1,
		},
	}

	// PreviewConfig is the Cardano preview testnet.
	PreviewConfig = Config{
		Kind:  Preview,
		Magic: 2,
		Genesis: GenesisValues{
			ByronSlotLength:  20,
			ByronEpochLength: 432000,
			ShelleyKnownSlot: 0,
			ShelleyKnownHash: common.HexToHash("268ae601af8f9214804735910a3301881fbe0eec9936db7628b2fcb02f1d389"),
			ShelleyKnownTime: 1666656000,
			SystemStart:      1666656000,
			SlotLength:       1,
		},
	}
)

// FromMagic resolves one of the well-known configs by its handshake network
// magic, mirroring the original system's ChainWellKnownInfo::try_from_magic.
func FromMagic(magic uint64) (Config, error) {
	switch magic {
	case MainnetConfig.Magic:
		return MainnetConfig, nil
	case TestnetConfig.Magic:
		return TestnetConfig, nil
	case PreProdConfig.Magic:
		return PreProdConfig, nil
	case PreviewConfig.Magic:
		return PreviewConfig, nil
	default:
		return Config{}, fmt.Errorf("chain: no well-known config for magic %d, use Custom with explicit genesis values", magic)
	}
}

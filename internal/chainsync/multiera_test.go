package chainsync

import (
	"testing"

	"github.com/fxamacker/cbor/v2"

	"github.com/tidewatch-io/tidewatch/internal/chain"
)

func TestDecodeHeaderShelley(t *testing.T) {
	body := shelleyHeaderBody{Slot: 4492900}
	payload, err := cbor.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	envelope, err := cbor.Marshal(multiEraEnvelope{Era: EraShelleyAndLater, Payload: payload})
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}

	header, err := DecodeHeader(chain.MainnetConfig.Genesis, envelope)
	if err != nil {
		t.Fatalf("DecodeHeader: %v", err)
	}
	if header.Point.Slot != 4492900 {
		t.Errorf("slot = %d, want 4492900", header.Point.Slot)
	}
	if header.Era != EraShelleyAndLater {
		t.Errorf("era = %v, want EraShelleyAndLater", header.Era)
	}
}

func TestDecodeHeaderByronUsesGenesisArithmetic(t *testing.T) {
	body := byronHeaderBody{Epoch: 2, SubEpochSlot: 10}
	payload, err := cbor.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	envelope, err := cbor.Marshal(multiEraEnvelope{Era: EraByronMain, Payload: payload})
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}

	genesis := chain.MainnetConfig.Genesis
	header, err := DecodeHeader(genesis, envelope)
	if err != nil {
		t.Fatalf("DecodeHeader: %v", err)
	}

	want := genesis.ByronAbsoluteSlot(2, 10)
	if header.Point.Slot != want {
		t.Errorf("slot = %d, want %d", header.Point.Slot, want)
	}
}

func TestDecodeHeaderUnknownEra(t *testing.T) {
	envelope, _ := cbor.Marshal(multiEraEnvelope{Era: EraTag(99), Payload: []byte{}})
	if _, err := DecodeHeader(chain.MainnetConfig.Genesis, envelope); err == nil {
		t.Fatal("expected error for unknown era tag")
	}
}

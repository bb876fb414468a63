package mapper

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/tidewatch-io/tidewatch/internal/chain"
	"github.com/tidewatch-io/tidewatch/internal/model"
)

func sampleBlock() *model.ParsedBlock {
	return &model.ParsedBlock{
		Point: chain.Point{Slot: 100, Hash: common.HexToHash("0xabc")},
		Transactions: []model.ParsedTx{
			{
				Hash: common.HexToHash("0x1"),
				Inputs: []model.TxInput{
					{TxHash: common.HexToHash("0x2"), Index: 0},
				},
				Outputs: []model.TxOutput{
					{Address: []byte{0x0c}, Coin: 1000},
				},
				Fee: 170000,
			},
		},
	}
}

func TestLegacyV1MapMinimal(t *testing.T) {
	m := New(DefaultConfig)
	events := m.Map(sampleBlock())

	if len(events) != 2 {
		t.Fatalf("expected BlockStart + Transaction, got %d events", len(events))
	}
	if events[0].Kind != model.LegacyBlockStart {
		t.Errorf("first event kind = %v, want LegacyBlockStart", events[0].Kind)
	}
	if events[1].Kind != model.LegacyTransaction {
		t.Errorf("second event kind = %v, want LegacyTransaction", events[1].Kind)
	}
	if events[1].Fee != 170000 {
		t.Errorf("fee = %d, want 170000", events[1].Fee)
	}
}

func TestLegacyV1MapWithDetailsAndEndEvents(t *testing.T) {
	cfg := Config{
		IncludeTransactionDetails:   true,
		IncludeTransactionEndEvents: true,
		IncludeBlockEndEvents:       true,
	}
	m := New(cfg)
	events := m.Map(sampleBlock())

	var kinds []model.LegacyEventKind
	for _, e := range events {
		kinds = append(kinds, e.Kind)
	}

	want := []model.LegacyEventKind{
		model.LegacyBlockStart,
		model.LegacyTransaction,
		model.LegacyTxInput,
		model.LegacyTxOutput,
		model.LegacyTransaction, // transaction_end
		model.LegacyBlockEnd,
	}
	if len(kinds) != len(want) {
		t.Fatalf("event kinds = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("event[%d] kind = %v, want %v", i, kinds[i], want[i])
		}
	}
}

func TestLegacyV1FingerprintsAreStable(t *testing.T) {
	m := New(DefaultConfig)
	a := m.Map(sampleBlock())
	b := m.Map(sampleBlock())

	for i := range a {
		if a[i].Context.Fingerprint != b[i].Context.Fingerprint {
			t.Errorf("fingerprint[%d] not stable: %q vs %q", i, a[i].Context.Fingerprint, b[i].Context.Fingerprint)
		}
	}
}

package selector

import (
	"encoding/hex"
	"testing"
)

func TestCIP14Fingerprint(t *testing.T) {
	cases := []struct {
		name   string
		policy string
		asset  string
		want   string
	}{
		{
			name:   "babyc",
			policy: "bb3ce45d5272654e58ad076f114d8f683ae4553e3c9455b18facfea1",
			asset:  "4261627943726f63202332323237",
			want:   "asset1et8j5whwuqrxvdyxfh4grmmrx4exeg4juzx88z",
		},
		{
			name:   "empty name 1",
			policy: "7eae28af2208be856f7a119668ae52a49b73725e326dc16579dcc373",
			asset:  "",
			want:   "asset1rjklcrnsdzqp65wjgrg55sy9723kw09mlgvlc3",
		},
		{
			name:   "empty name 2",
			policy: "7eae28af2208be856f7a119668ae52a49b73725e326dc16579dcc37e",
			asset:  "",
			want:   "asset1nl0puwxmhas8fawxp8nx4e2q3wekg969n2auw3",
		},
		{
			name:   "empty name 3",
			policy: "1e349c9bdea19fd6c147626a5260bc44b71635f398b67c59881df209",
			asset:  "",
			want:   "asset1uyuxku60yqe57nusqzjx38aan3f2wq6s93f6ea",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			policy, err := hex.DecodeString(c.policy)
			if err != nil {
				t.Fatalf("decode policy: %v", err)
			}
			asset, err := hex.DecodeString(c.asset)
			if err != nil {
				t.Fatalf("decode asset: %v", err)
			}
			got, err := CIP14Fingerprint(policy, asset)
			if err != nil {
				t.Fatalf("CIP14Fingerprint: %v", err)
			}
			if got != c.want {
				t.Errorf("fingerprint = %q, want %q", got, c.want)
			}
		})
	}
}

func TestAssetPatternFromFingerprintRoundTrip(t *testing.T) {
	policy, _ := hex.DecodeString("bb3ce45d5272654e58ad076f114d8f683ae4553e3c9455b18facfea1")
	asset, _ := hex.DecodeString("4261627943726f63202332323237")

	p, err := AssetPatternFromFingerprint("asset1et8j5whwuqrxvdyxfh4grmmrx4exeg4juzx88z")
	if err != nil {
		t.Fatalf("AssetPatternFromFingerprint: %v", err)
	}

	outcome := p.Match(policy, assetOf(asset, 5))
	if outcome != Positive {
		t.Errorf("expected Positive, got %v", outcome)
	}

	outcome = p.Match(policy, assetOf([]byte("other"), 5))
	if outcome != Negative {
		t.Errorf("expected Negative for mismatched name, got %v", outcome)
	}
}

func TestAssetPatternFromFingerprintRejectsWrongHRP(t *testing.T) {
	// A well-formed bech32 string (valid checksum) whose prefix is "addr".
	if _, err := AssetPatternFromFingerprint("addr1et8j5whwuqrxvdyxfh4grmmrx4exeg4jawwxp8"); err == nil {
		t.Fatal("expected error for non-asset hrp")
	}
}

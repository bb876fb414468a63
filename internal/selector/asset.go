package selector

import (
	"fmt"

	"github.com/tidewatch-io/tidewatch/internal/model"
)

// AssetPattern matches a (policy_id, asset) pair against optional
// fingerprint, policy, name, name_text, and coin constraints.
type AssetPattern struct {
	Fingerprint FlexBytes // CIP-14 hash bytes, not the bech32 string
	Policy      FlexBytes
	Name        FlexBytes
	NameText    *TextPattern
	Coin        *NumericPattern[uint64]
}

// AssetPatternFromFingerprint builds an AssetPattern constraining only the
// CIP-14 fingerprint, decoded from its bech32 "asset1..." form.
func AssetPatternFromFingerprint(bech32Fingerprint string) (AssetPattern, error) {
	hrp, data, err := DecodeBech32(bech32Fingerprint)
	if err != nil {
		return AssetPattern{}, err
	}
	if hrp != "asset" {
		return AssetPattern{}, fmt.Errorf("selector: unknown bech32 hrp %q for asset pattern", hrp)
	}
	return AssetPattern{Fingerprint: FlexBytes(data)}, nil
}

// Match evaluates this pattern against one (policyID, asset) pair.
func (p AssetPattern) Match(policyID []byte, asset model.Asset) MatchOutcome {
	fingerprintOutcome := Positive
	if p.Fingerprint != nil {
		hash := cip14Hash(policyID, asset.Name)
		fingerprintOutcome = IfFalse(!p.Fingerprint.Equal(hash[:]))
	}

	return FoldAllOf(
		fingerprintOutcome,
		OptionalBytesIsMatch(p.Policy, policyID),
		OptionalBytesIsMatch(p.Name, asset.Name),
		optionalTextBytesIsMatch(p.NameText, asset.Name),
		OptionalNumericIsMatch(p.Coin, asset.OutputCoin),
	)
}

// MatchMultiasset matches if any asset in the group satisfies the pattern,
// per the spec's "a multi-asset matches if any contained asset matches"
// rule.
func (p AssetPattern) MatchMultiasset(ma model.Multiasset) MatchOutcome {
	outcomes := make([]MatchOutcome, 0, len(ma.Assets))
	for _, a := range ma.Assets {
		outcomes = append(outcomes, p.Match(ma.PolicyID[:], a))
	}
	return FoldAnyOf(outcomes...)
}

func optionalTextBytesIsMatch(p *TextPattern, subject []byte) MatchOutcome {
	if p == nil {
		return Positive
	}
	return OptionalTextIsMatch(p, string(subject))
}

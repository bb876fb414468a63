package config

import (
	"fmt"

	"github.com/tidewatch-io/tidewatch/internal/selector"
)

// PredicateConfig is the TOML-facing mirror of selector.Predicate: exactly
// one of Match/Not/AnyOf/AllOf is populated, matching the engine's own
// sum-type-via-tag-field shape rather than introducing a separate grammar.
type PredicateConfig struct {
	Match *PatternConfig    `toml:",omitempty"`
	Not   *PredicateConfig  `toml:",omitempty"`
	AnyOf []PredicateConfig `toml:",omitempty"`
	AllOf []PredicateConfig `toml:",omitempty"`
}

// PatternConfig is the TOML-facing mirror of selector.Pattern.
type PatternConfig struct {
	Address  *AddressPatternConfig  `toml:",omitempty"`
	Asset    *AssetPatternConfig    `toml:",omitempty"`
	Metadata *MetadataPatternConfig `toml:",omitempty"`
	Block    *BlockPatternConfig    `toml:",omitempty"`
	Custom   string                 `toml:",omitempty"`
}

// AddressPatternConfig mirrors selector.AddressPattern with hex-string
// fields, since TOML has no native byte-string type.
type AddressPatternConfig struct {
	ByronAddressHex       string `toml:",omitempty"`
	PaymentPartHex        string `toml:",omitempty"`
	DelegationPartHex     string `toml:",omitempty"`
	PaymentIsScript       *bool  `toml:",omitempty"`
	DelegationIsScript    *bool  `toml:",omitempty"`
}

// AssetPatternConfig mirrors selector.AssetPattern. Fingerprint is a
// bech32 "asset1..." string (CIP-14); Policy/Name are hex.
type AssetPatternConfig struct {
	Fingerprint string            `toml:",omitempty"`
	PolicyHex   string            `toml:",omitempty"`
	NameHex     string            `toml:",omitempty"`
	NameText    string            `toml:",omitempty"`
	NameRegex   string            `toml:",omitempty"`
	Coin        *NumericConfig    `toml:",omitempty"`
}

// MetadataPatternConfig mirrors selector.MetadataPattern.
type MetadataPatternConfig struct {
	Label     *uint64 `toml:",omitempty"`
	ValueText string  `toml:",omitempty"`
	ValueInt  *int64  `toml:",omitempty"`
}

// BlockPatternConfig mirrors selector.BlockPattern.
type BlockPatternConfig struct {
	Slot *NumericConfig `toml:",omitempty"`
}

// NumericConfig is the TOML-facing mirror of selector.NumericPattern: one
// of Eq/Gt/Lt is set, or both Between values for a range.
type NumericConfig struct {
	Eq      *int64 `toml:",omitempty"`
	Gt      *int64 `toml:",omitempty"`
	Lt      *int64 `toml:",omitempty"`
	Between []int64 `toml:",omitempty"` // exactly [lo, hi] when set
}

func (n NumericConfig) buildUint64() (*selector.NumericPattern[uint64], error) {
	p, ok, err := n.build()
	if err != nil || !ok {
		return nil, err
	}
	return castNumeric[uint64](p), nil
}

func (n NumericConfig) buildInt64() (*selector.NumericPattern[int64], error) {
	p, ok, err := n.build()
	if err != nil || !ok {
		return nil, err
	}
	return castNumeric[int64](p), nil
}

// numericShape is the kind+operand pair build extracts before casting to
// the concrete NumericPattern[T] the caller needs.
type numericShape struct {
	kind   selector.NumericKind
	a, b   int64
}

func (n NumericConfig) build() (numericShape, bool, error) {
	set := 0
	if n.Eq != nil {
		set++
	}
	if n.Gt != nil {
		set++
	}
	if n.Lt != nil {
		set++
	}
	if len(n.Between) > 0 {
		set++
	}
	if set == 0 {
		return numericShape{}, false, nil
	}
	if set > 1 {
		return numericShape{}, false, fmt.Errorf("config: numeric pattern sets more than one of eq/gt/lt/between")
	}

	switch {
	case n.Eq != nil:
		return numericShape{kind: selector.NumericEq, a: *n.Eq}, true, nil
	case n.Gt != nil:
		return numericShape{kind: selector.NumericGt, a: *n.Gt}, true, nil
	case n.Lt != nil:
		return numericShape{kind: selector.NumericLt, a: *n.Lt}, true, nil
	default:
		if len(n.Between) != 2 {
			return numericShape{}, false, fmt.Errorf("config: numeric pattern 'between' needs exactly [lo, hi]")
		}
		return numericShape{kind: selector.NumericBetween, a: n.Between[0], b: n.Between[1]}, true, nil
	}
}

func castNumeric[T selector.Numeric](s numericShape) *selector.NumericPattern[T] {
	p := selector.NumericPattern[T]{Kind: s.kind, A: T(s.a), B: T(s.b)}
	return &p
}

// Build compiles this config into a selector.Predicate, compiling any
// regexes/custom bexpr expressions and decoding any hex fields. It's meant
// to run once at config-load time, not per-event.
func (c PredicateConfig) Build() (selector.Predicate, error) {
	set := 0
	if c.Match != nil {
		set++
	}
	if c.Not != nil {
		set++
	}
	if c.AnyOf != nil {
		set++
	}
	if c.AllOf != nil {
		set++
	}
	if set != 1 {
		return selector.Predicate{}, fmt.Errorf("config: predicate must set exactly one of match/not/any_of/all_of, got %d", set)
	}

	switch {
	case c.Match != nil:
		p, err := c.Match.build()
		if err != nil {
			return selector.Predicate{}, err
		}
		return selector.Match(p), nil
	case c.Not != nil:
		inner, err := c.Not.Build()
		if err != nil {
			return selector.Predicate{}, err
		}
		return selector.PredicateNot(inner), nil
	case c.AnyOf != nil:
		clauses, err := buildClauses(c.AnyOf)
		if err != nil {
			return selector.Predicate{}, err
		}
		return selector.AnyOf(clauses...), nil
	default:
		clauses, err := buildClauses(c.AllOf)
		if err != nil {
			return selector.Predicate{}, err
		}
		return selector.AllOf(clauses...), nil
	}
}

func buildClauses(cfgs []PredicateConfig) ([]selector.Predicate, error) {
	out := make([]selector.Predicate, len(cfgs))
	for i, c := range cfgs {
		p, err := c.Build()
		if err != nil {
			return nil, fmt.Errorf("config: clause %d: %w", i, err)
		}
		out[i] = p
	}
	return out, nil
}

func (c PatternConfig) build() (selector.Pattern, error) {
	set := 0
	for _, on := range []bool{c.Address != nil, c.Asset != nil, c.Metadata != nil, c.Block != nil, c.Custom != ""} {
		if on {
			set++
		}
	}
	if set != 1 {
		return selector.Pattern{}, fmt.Errorf("config: pattern must set exactly one of address/asset/metadata/block/custom, got %d", set)
	}

	switch {
	case c.Address != nil:
		p, err := c.Address.build()
		if err != nil {
			return selector.Pattern{}, err
		}
		return selector.MatchAddress(p), nil
	case c.Asset != nil:
		p, err := c.Asset.build()
		if err != nil {
			return selector.Pattern{}, err
		}
		return selector.MatchAsset(p), nil
	case c.Metadata != nil:
		return selector.MatchMetadata(c.Metadata.build()), nil
	case c.Block != nil:
		p, err := c.Block.build()
		if err != nil {
			return selector.Pattern{}, err
		}
		return selector.MatchBlock(p), nil
	default:
		cp, err := selector.NewCustomPattern(c.Custom)
		if err != nil {
			return selector.Pattern{}, fmt.Errorf("config: custom pattern %q: %w", c.Custom, err)
		}
		return selector.MatchCustom(cp), nil
	}
}

func (c AddressPatternConfig) build() (selector.AddressPattern, error) {
	var p selector.AddressPattern
	var err error
	if p.ByronAddress, err = hexOrNil(c.ByronAddressHex); err != nil {
		return p, err
	}
	if p.PaymentPart, err = hexOrNil(c.PaymentPartHex); err != nil {
		return p, err
	}
	if p.DelegationPart, err = hexOrNil(c.DelegationPartHex); err != nil {
		return p, err
	}
	p.PaymentIsScript = c.PaymentIsScript
	p.DelegationIsScript = c.DelegationIsScript
	return p, nil
}

func (c AssetPatternConfig) build() (selector.AssetPattern, error) {
	var p selector.AssetPattern
	if c.Fingerprint != "" {
		fromFingerprint, err := selector.AssetPatternFromFingerprint(c.Fingerprint)
		if err != nil {
			return p, err
		}
		p = fromFingerprint
	}

	var err error
	if p.Policy, err = hexOrNil(c.PolicyHex); err != nil {
		return p, err
	}
	if p.Name, err = hexOrNil(c.NameHex); err != nil {
		return p, err
	}

	switch {
	case c.NameText != "":
		t := selector.ExactText(c.NameText)
		p.NameText = &t
	case c.NameRegex != "":
		t, err := selector.RegexText(c.NameRegex)
		if err != nil {
			return p, err
		}
		p.NameText = &t
	}

	if c.Coin != nil {
		coin, err := c.Coin.buildUint64()
		if err != nil {
			return p, err
		}
		p.Coin = coin
	}
	return p, nil
}

func (c MetadataPatternConfig) build() selector.MetadataPattern {
	p := selector.MetadataPattern{Label: c.Label}
	switch {
	case c.ValueText != "":
		t := selector.ExactText(c.ValueText)
		p.Value = &selector.MetadataValuePattern{Text: &t}
	case c.ValueInt != nil:
		p.Value = &selector.MetadataValuePattern{Int: c.ValueInt}
	}
	return p
}

func (c BlockPatternConfig) build() (selector.BlockPattern, error) {
	var p selector.BlockPattern
	if c.Slot != nil {
		slot, err := c.Slot.buildUint64()
		if err != nil {
			return p, err
		}
		p.Slot = slot
	}
	return p, nil
}

func hexOrNil(s string) (selector.FlexBytes, error) {
	if s == "" {
		return nil, nil
	}
	return selector.FlexBytesFromHex(s)
}

package selector

import "github.com/tidewatch-io/tidewatch/internal/model"

// MetadataValuePattern matches the text or integer encoding of a metadatum
// value, compared against its raw CBOR bytes rendered as text.
type MetadataValuePattern struct {
	Text *TextPattern
	Int  *NumericPattern[int64]
}

// MetadataPattern matches an optional label and/or value constraint against
// one auxiliary metadata entry.
type MetadataPattern struct {
	Label *uint64
	Value *MetadataValuePattern
}

// Match evaluates this pattern against one metadata entry.
func (p MetadataPattern) Match(m model.AuxMetadata) MatchOutcome {
	labelOutcome := Positive
	if p.Label != nil {
		labelOutcome = IfFalse(*p.Label != m.Label)
	}

	valueOutcome := Positive
	if p.Value != nil {
		valueOutcome = p.Value.match(m.Value)
	}

	return FoldAllOf(labelOutcome, valueOutcome)
}

func (v MetadataValuePattern) match(raw []byte) MatchOutcome {
	if v.Text != nil {
		return IfFalse(!v.Text.Match(string(raw)))
	}
	if v.Int != nil {
		n, ok := decodeCborInt(raw)
		if !ok {
			return Uncertain
		}
		return IfFalse(!v.Int.Match(n))
	}
	return Positive
}

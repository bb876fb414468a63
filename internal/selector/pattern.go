package selector

import "github.com/tidewatch-io/tidewatch/internal/model"

// BlockPattern constrains the block a transaction was carried in, by slot
// number. It has no address/asset/metadata fields of its own since those
// live on AddressPattern/AssetPattern/MetadataPattern; it exists for
// predicates that only care where in the chain a tx landed.
type BlockPattern struct {
	Slot *NumericPattern[uint64]
}

// Match evaluates this pattern against a block's slot.
func (p BlockPattern) Match(slot uint64) MatchOutcome {
	return OptionalNumericIsMatch(p.Slot, slot)
}

// patternKind tags which variant of Pattern is populated. Pattern is a sum
// type in the grammar sense; Go has no native sum types, so exactly one of
// the pointer fields below is set for a given Kind.
type patternKind int

const (
	patternAddress patternKind = iota
	patternAsset
	patternMetadata
	patternBlock
	patternCustom
)

// Pattern is one leaf of the predicate tree: a constraint on one aspect of
// a transaction (its addresses, its assets, its metadata, its block) or an
// open-ended custom expression.
type Pattern struct {
	kind     patternKind
	address  AddressPattern
	asset    AssetPattern
	metadata MetadataPattern
	block    BlockPattern
	custom   CustomPattern
}

// MatchAddress builds a Pattern wrapping an AddressPattern.
func MatchAddress(p AddressPattern) Pattern { return Pattern{kind: patternAddress, address: p} }

// MatchAsset builds a Pattern wrapping an AssetPattern.
func MatchAsset(p AssetPattern) Pattern { return Pattern{kind: patternAsset, asset: p} }

// MatchMetadata builds a Pattern wrapping a MetadataPattern.
func MatchMetadata(p MetadataPattern) Pattern { return Pattern{kind: patternMetadata, metadata: p} }

// MatchBlock builds a Pattern wrapping a BlockPattern.
func MatchBlock(p BlockPattern) Pattern { return Pattern{kind: patternBlock, block: p} }

// MatchCustom builds a Pattern wrapping a CustomPattern.
func MatchCustom(p CustomPattern) Pattern { return Pattern{kind: patternCustom, custom: p} }

// Evaluate aggregates this pattern against tx, folding across whichever
// sub-elements the pattern's kind applies to: every output address for an
// AddressPattern, every output and mint multiasset for an AssetPattern,
// every metadata entry for a MetadataPattern. These three use fold_any_of
// (a tx matches if any one of its outputs, assets or metadata entries
// does) and yield Uncertain when the tx has none of them; BlockPattern
// applies directly since a tx has exactly one block context.
func (p Pattern) Evaluate(tx *model.ParsedTx, blockSlot uint64) MatchOutcome {
	switch p.kind {
	case patternAddress:
		if len(tx.Outputs) == 0 {
			return Uncertain
		}
		outcomes := make([]MatchOutcome, 0, len(tx.Outputs))
		for _, out := range tx.Outputs {
			outcomes = append(outcomes, p.address.Match(out.Address))
		}
		return FoldAnyOf(outcomes...)

	case patternAsset:
		var outcomes []MatchOutcome
		for _, out := range tx.Outputs {
			for _, ma := range out.MultiAssets {
				outcomes = append(outcomes, p.asset.MatchMultiasset(ma))
			}
		}
		for _, ma := range tx.Mint {
			outcomes = append(outcomes, p.asset.MatchMultiasset(ma))
		}
		if len(outcomes) == 0 {
			return Uncertain
		}
		return FoldAnyOf(outcomes...)

	case patternMetadata:
		if len(tx.AuxMetadata) == 0 {
			return Uncertain
		}
		outcomes := make([]MatchOutcome, 0, len(tx.AuxMetadata))
		for _, m := range tx.AuxMetadata {
			outcomes = append(outcomes, p.metadata.Match(m))
		}
		return FoldAnyOf(outcomes...)

	case patternBlock:
		return p.block.Match(blockSlot)

	case patternCustom:
		return p.custom.Match(tx)

	default:
		return Uncertain
	}
}

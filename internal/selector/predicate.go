package selector

import "github.com/tidewatch-io/tidewatch/internal/model"

// predicateKind tags which variant of Predicate is populated.
type predicateKind int

const (
	predicateMatch predicateKind = iota
	predicateNot
	predicateAnyOf
	predicateAllOf
)

// Predicate is the selector's top-level algebraic tree: a leaf Pattern
// match, a negation, or an AnyOf/AllOf combination of sub-predicates.
// Instances are built once at config load and are immutable afterward.
type Predicate struct {
	kind    predicateKind
	match   Pattern
	not     *Predicate
	clauses []Predicate
}

// Match builds a leaf Predicate evaluating a single Pattern.
func Match(p Pattern) Predicate { return Predicate{kind: predicateMatch, match: p} }

// PredicateNot negates a sub-predicate.
func PredicateNot(p Predicate) Predicate { return Predicate{kind: predicateNot, not: &p} }

// AnyOf builds a Predicate satisfied when any clause is satisfied.
func AnyOf(clauses ...Predicate) Predicate { return Predicate{kind: predicateAnyOf, clauses: clauses} }

// AllOf builds a Predicate satisfied when every clause is satisfied.
func AllOf(clauses ...Predicate) Predicate { return Predicate{kind: predicateAllOf, clauses: clauses} }

// Evaluate walks the predicate tree against tx, which was carried at slot
// blockSlot.
func (p Predicate) Evaluate(tx *model.ParsedTx, blockSlot uint64) MatchOutcome {
	switch p.kind {
	case predicateMatch:
		return p.match.Evaluate(tx, blockSlot)
	case predicateNot:
		return Not(p.not.Evaluate(tx, blockSlot))
	case predicateAnyOf:
		outcomes := make([]MatchOutcome, len(p.clauses))
		for i, c := range p.clauses {
			outcomes[i] = c.Evaluate(tx, blockSlot)
		}
		return FoldAnyOf(outcomes...)
	case predicateAllOf:
		outcomes := make([]MatchOutcome, len(p.clauses))
		for i, c := range p.clauses {
			outcomes[i] = c.Evaluate(tx, blockSlot)
		}
		return FoldAllOf(outcomes...)
	default:
		return Uncertain
	}
}

// IsMatch applies the engine's top-level rule: Uncertain is treated as
// non-match, so only a Positive outcome forwards the transaction.
func (p Predicate) IsMatch(tx *model.ParsedTx, blockSlot uint64) bool {
	return p.Evaluate(tx, blockSlot) == Positive
}

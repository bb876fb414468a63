package selector

// NumericKind tags a NumericPattern's variant.
type NumericKind int

const (
	NumericEq NumericKind = iota
	NumericGt
	NumericLt
	NumericBetween
)

// Numeric is the set of types NumericPattern can compare.
type Numeric interface {
	~int | ~int64 | ~uint | ~uint64
}

// NumericPattern matches a numeric subject against an equality, ordering,
// or range constraint.
type NumericPattern[T Numeric] struct {
	Kind NumericKind
	A, B T // B only used by NumericBetween
}

// EqNumeric builds an equality NumericPattern.
func EqNumeric[T Numeric](v T) NumericPattern[T] { return NumericPattern[T]{Kind: NumericEq, A: v} }

// GtNumeric builds a greater-than NumericPattern.
func GtNumeric[T Numeric](v T) NumericPattern[T] { return NumericPattern[T]{Kind: NumericGt, A: v} }

// LtNumeric builds a less-than NumericPattern.
func LtNumeric[T Numeric](v T) NumericPattern[T] { return NumericPattern[T]{Kind: NumericLt, A: v} }

// BetweenNumeric builds an inclusive-range NumericPattern.
func BetweenNumeric[T Numeric](lo, hi T) NumericPattern[T] {
	return NumericPattern[T]{Kind: NumericBetween, A: lo, B: hi}
}

// Match reports whether subject satisfies this pattern.
func (p NumericPattern[T]) Match(subject T) bool {
	switch p.Kind {
	case NumericGt:
		return subject > p.A
	case NumericLt:
		return subject < p.A
	case NumericBetween:
		return subject >= p.A && subject <= p.B
	default:
		return subject == p.A
	}
}

// OptionalNumericIsMatch applies the optional-pattern-field convention for
// NumericPattern.
func OptionalNumericIsMatch[T Numeric](p *NumericPattern[T], subject T) MatchOutcome {
	if p == nil {
		return Positive
	}
	return IfFalse(!p.Match(subject))
}

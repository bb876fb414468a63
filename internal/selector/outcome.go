// Package selector implements the declarative predicate/pattern engine
// evaluated against parsed transactions, with three-valued logic so that
// "this field wasn't specified in the pattern" has well-defined semantics
// distinct from both a positive and a negative match.
package selector

// MatchOutcome is the three-valued result of evaluating a pattern against a
// subject.
type MatchOutcome int

const (
	Positive MatchOutcome = iota
	Negative
	Uncertain
)

func (o MatchOutcome) String() string {
	switch o {
	case Positive:
		return "positive"
	case Negative:
		return "negative"
	case Uncertain:
		return "uncertain"
	default:
		return "unknown"
	}
}

// IfFalse returns Negative when b is true, Positive otherwise. It's the
// building block for "this pattern field wasn't given, but the subject
// asserts the corresponding property" — e.g. a pattern with no
// byron_address constraint evaluated against a Byron address still yields
// Positive for that sub-check, but a Shelley-only constraint like
// payment_part evaluated against a Byron subject must be Negative, not
// merely absent.
func IfFalse(b bool) MatchOutcome {
	if b {
		return Negative
	}
	return Positive
}

// FoldAllOf combines outcomes with AND semantics: all Positive yields
// Positive; any Negative yields Negative; otherwise Uncertain.
func FoldAllOf(outcomes ...MatchOutcome) MatchOutcome {
	sawUncertain := false
	for _, o := range outcomes {
		switch o {
		case Negative:
			return Negative
		case Uncertain:
			sawUncertain = true
		}
	}
	if sawUncertain {
		return Uncertain
	}
	return Positive
}

// FoldAnyOf combines outcomes with OR semantics: any Positive yields
// Positive; all Negative yields Negative; otherwise Uncertain.
func FoldAnyOf(outcomes ...MatchOutcome) MatchOutcome {
	sawUncertain := false
	for _, o := range outcomes {
		switch o {
		case Positive:
			return Positive
		case Uncertain:
			sawUncertain = true
		}
	}
	if sawUncertain {
		return Uncertain
	}
	return Negative
}

// Not inverts Positive/Negative and leaves Uncertain as-is, since "not
// unknown" is still unknown.
func Not(o MatchOutcome) MatchOutcome {
	switch o {
	case Positive:
		return Negative
	case Negative:
		return Positive
	default:
		return Uncertain
	}
}

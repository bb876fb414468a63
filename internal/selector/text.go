package selector

import "regexp"

// TextKind tags a TextPattern's variant.
type TextKind int

const (
	TextExact TextKind = iota
	TextRegex
)

// TextPattern matches a string either exactly or against a regular
// expression.
type TextPattern struct {
	Kind  TextKind
	Exact string
	Regex *regexp.Regexp
}

// ExactText builds an exact-match TextPattern.
func ExactText(s string) TextPattern {
	return TextPattern{Kind: TextExact, Exact: s}
}

// RegexText builds a regex TextPattern, compiling expr.
func RegexText(expr string) (TextPattern, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return TextPattern{}, err
	}
	return TextPattern{Kind: TextRegex, Regex: re}, nil
}

// Match reports whether subject satisfies this pattern.
func (p TextPattern) Match(subject string) bool {
	switch p.Kind {
	case TextRegex:
		return p.Regex != nil && p.Regex.MatchString(subject)
	default:
		return subject == p.Exact
	}
}

// OptionalTextIsMatch implements the "optional pattern field" convention
// used throughout this engine: a nil pattern never constrains the subject
// (Positive), a non-nil pattern contributes its own Positive/Negative.
func OptionalTextIsMatch(p *TextPattern, subject string) MatchOutcome {
	if p == nil {
		return Positive
	}
	if p.Match(subject) {
		return Positive
	}
	return Negative
}

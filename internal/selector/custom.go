package selector

import (
	"github.com/hashicorp/go-bexpr"

	"github.com/tidewatch-io/tidewatch/internal/model"
)

// customSubject is the flattened, tagged view of a ParsedTx that
// CustomPattern expressions are evaluated against. bexpr struct tags name
// the fields an expression can reference, e.g. `fee > 200000`.
type customSubject struct {
	Fee            uint64 `bexpr:"fee"`
	TTLSet         bool   `bexpr:"ttl_set"`
	InputCount     int    `bexpr:"input_count"`
	OutputCount    int    `bexpr:"output_count"`
	MintCount      int    `bexpr:"mint_count"`
	CertCount      int    `bexpr:"cert_count"`
	MetadataCount  int    `bexpr:"metadata_count"`
}

func newCustomSubject(tx *model.ParsedTx) customSubject {
	return customSubject{
		Fee:           tx.Fee,
		TTLSet:        tx.ValidityInterval.InvalidAfter != nil,
		InputCount:    len(tx.Inputs),
		OutputCount:   len(tx.Outputs),
		MintCount:     len(tx.Mint),
		CertCount:     len(tx.Certificates),
		MetadataCount: len(tx.AuxMetadata),
	}
}

// CustomPattern is the selector grammar's open-ended escape hatch: a
// boolean expression (hashicorp/go-bexpr syntax, e.g. "fee > 200000 and
// output_count >= 2") evaluated against a flattened view of the
// transaction. It exists for predicates the built-in pattern kinds don't
// cover, without growing the core grammar for every such case.
type CustomPattern struct {
	expr string
	eval *bexpr.Evaluator
}

// NewCustomPattern compiles expr once at config-load time.
func NewCustomPattern(expr string) (CustomPattern, error) {
	eval, err := bexpr.CreateEvaluator(expr)
	if err != nil {
		return CustomPattern{}, err
	}
	return CustomPattern{expr: expr, eval: eval}, nil
}

// Match evaluates the compiled expression against tx. A malformed
// expression or an evaluation error yields Uncertain rather than panicking,
// consistent with this engine's error policy: a bad custom predicate drops
// the event (via Uncertain-is-non-match at the top level) instead of
// crashing the filter stage.
func (p CustomPattern) Match(tx *model.ParsedTx) MatchOutcome {
	if p.eval == nil {
		return Uncertain
	}
	matched, err := p.eval.Evaluate(newCustomSubject(tx))
	if err != nil {
		return Uncertain
	}
	return IfFalse(!matched)
}

package sink

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/log"

	"github.com/tidewatch-io/tidewatch/internal/model"
	"github.com/tidewatch-io/tidewatch/internal/stage"
)

const idlePoll = 200 * time.Millisecond

// CheckOutcome is the result of running one assertion against the current
// reduced State.
type CheckOutcome int

const (
	// Unknown: the check had nothing to compare yet (e.g. no previous
	// event seen). Never counted as a failure.
	Unknown CheckOutcome = iota
	Pass
	Fail
)

// Check is one named assertion run against every reduced State.
type Check struct {
	Name string
	Run  func(State) CheckOutcome
}

// State accumulates just enough history to drive the built-in checks: the
// previous and current block/event seen.
type State struct {
	CurrentEvent  *model.ChainEvent
	PreviousEvent *model.ChainEvent

	CurrentBlock  *chainPointSample
	PreviousBlock *chainPointSample
}

// chainPointSample is the slice of a ParsedBlock the built-in checks need:
// its position.
type chainPointSample struct {
	Slot uint64
}

// DefaultChecks mirrors this pipeline's reference assertion set: block
// slots strictly increase across consecutive blocks, and the chain
// position never moves backward between consecutive RollForward events of
// any kind. There is no previous-hash check here, unlike some
// chain-follower reference sinks: ParsedBlock carries only its own point,
// not its predecessor's hash, so that particular continuity check has
// nothing to compare against.
func DefaultChecks() []Check {
	return []Check{
		{Name: "block_slot_increases", Run: checkBlockSlotIncreases},
		{Name: "point_slot_non_decreasing", Run: checkPointSlotNonDecreasing},
	}
}

func checkBlockSlotIncreases(s State) CheckOutcome {
	if s.PreviousBlock == nil || s.CurrentBlock == nil {
		return Unknown
	}
	if s.CurrentBlock.Slot > s.PreviousBlock.Slot {
		return Pass
	}
	return Fail
}

func checkPointSlotNonDecreasing(s State) CheckOutcome {
	if s.PreviousEvent == nil || s.CurrentEvent == nil {
		return Unknown
	}
	if s.PreviousEvent.Kind != model.RollForward || s.CurrentEvent.Kind != model.RollForward {
		return Unknown
	}
	if s.CurrentEvent.Point.Slot >= s.PreviousEvent.Point.Slot {
		return Pass
	}
	return Fail
}

// Config controls the Assert sink's behavior.
type Config struct {
	// SkipChecks names checks (by Check.Name) not to run.
	SkipChecks []string
	// BreakOnFailure stops the sink (returning a *stage.PanicError) the
	// first time a check fails, instead of only logging it.
	BreakOnFailure bool
}

// Assert is a stage.Worker/Sink that reduces the event stream into a State
// and runs a fixed set of structural checks against it on every event,
// logging pass/fail/unknown. It has no output port: it is meant to sit at
// the end of a pipeline during development or in tests, standing in for a
// real network sink.
type Assert struct {
	in     *stage.Channel[model.ChainEvent]
	checks []Check
	cfg    Config

	state State
}

// NewAssert builds an Assert sink running checks against events read from
// in.
func NewAssert(in *stage.Channel[model.ChainEvent], checks []Check, cfg Config) *Assert {
	return &Assert{in: in, checks: checks, cfg: cfg}
}

func (a *Assert) Bootstrap(ctx context.Context) error { return nil }

func (a *Assert) Schedule(ctx context.Context) (stage.Schedule[model.ChainEvent], error) {
	evt, ok, idle := a.in.RecvOrIdle(idlePoll)
	if idle {
		return stage.Idle[model.ChainEvent](), nil
	}
	if !ok {
		return stage.Done[model.ChainEvent](), nil
	}
	return stage.UnitReady(evt), nil
}

func (a *Assert) Execute(ctx context.Context, evt model.ChainEvent) error {
	return a.Consume(ctx, evt)
}

// Consume reduces evt into the sink's running state and runs every
// non-skipped check against it.
func (a *Assert) Consume(ctx context.Context, evt model.ChainEvent) error {
	a.state = reduceState(a.state, evt)

	skip := make(map[string]bool, len(a.cfg.SkipChecks))
	for _, name := range a.cfg.SkipChecks {
		skip[name] = true
	}

	for _, check := range a.checks {
		if skip[check.Name] {
			continue
		}
		switch check.Run(a.state) {
		case Pass:
			log.Debug("sink: assertion passed", "check", check.Name)
		case Fail:
			log.Error("sink: assertion failed", "check", check.Name, "state", a.state)
			if a.cfg.BreakOnFailure {
				return &stage.PanicError{Err: fmt.Errorf("assert sink: check %q failed", check.Name)}
			}
		case Unknown:
			log.Debug("sink: assertion had nothing to compare", "check", check.Name)
		}
	}
	return nil
}

func (a *Assert) Teardown(ctx context.Context) error { return nil }

func reduceState(s State, evt model.ChainEvent) State {
	if evt.Kind == model.RollForward && evt.Record != nil && evt.Record.Kind == model.RecordParsedBlock && evt.Record.ParsedBlock != nil {
		s.PreviousBlock = s.CurrentBlock
		s.CurrentBlock = &chainPointSample{Slot: evt.Point.Slot}
	}

	s.PreviousEvent = s.CurrentEvent
	evtCopy := evt
	s.CurrentEvent = &evtCopy
	return s
}

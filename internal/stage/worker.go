package stage

import "context"

// ScheduleKind tags what Schedule returned.
type ScheduleKind int

const (
	// ScheduleUnit: a unit of work is ready in Schedule.Unit.
	ScheduleUnit ScheduleKind = iota
	// ScheduleIdle: nothing pending right now; the runtime calls Schedule
	// again straight away, so any pause comes from the worker's own wait
	// (e.g. Channel.RecvOrIdle's timeout).
	ScheduleIdle
	// ScheduleDone: the stage should terminate (teardown, then exit).
	ScheduleDone
)

// Schedule is the result of a worker's Schedule call.
type Schedule[U any] struct {
	Kind ScheduleKind
	Unit U
}

// UnitReady builds a Schedule carrying a unit of work.
func UnitReady[U any](u U) Schedule[U] { return Schedule[U]{Kind: ScheduleUnit, Unit: u} }

// Idle builds a Schedule signaling nothing is pending.
func Idle[U any]() Schedule[U] { return Schedule[U]{Kind: ScheduleIdle} }

// Done builds a Schedule signaling the stage should terminate.
func Done[U any]() Schedule[U] { return Schedule[U]{Kind: ScheduleDone} }

// Worker is the four-operation contract every stage implements:
// Bootstrap acquires resources, Schedule decides what to do next, Execute
// performs one unit of work (with side effects), and Teardown releases
// resources. All four are invoked by the Stage runtime, under its own
// retry policies.
type Worker[U any] interface {
	Bootstrap(ctx context.Context) error
	Schedule(ctx context.Context) (Schedule[U], error)
	Execute(ctx context.Context, unit U) error
	Teardown(ctx context.Context) error
}

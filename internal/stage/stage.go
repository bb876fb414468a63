package stage

import (
	"context"

	"github.com/ethereum/go-ethereum/log"
)

// MetricsSource is implemented by workers that expose named readings; if a
// worker implements it, Stage wires it into its Tether automatically.
type MetricsSource interface {
	Readings() map[string]Reading
}

// Descriptor is a stage's static configuration: its name and retry
// policies. Ports (input/output channels) are owned by the concrete worker,
// not the descriptor, since their element types vary per stage.
type Descriptor struct {
	Name              string
	BootstrapPolicy   RetryPolicy
	WorkPolicy        RetryPolicy
	TeardownPolicy    RetryPolicy
}

// DefaultDescriptor builds a Descriptor with DefaultRetryPolicy on all three
// phases.
func DefaultDescriptor(name string) Descriptor {
	return Descriptor{
		Name:            name,
		BootstrapPolicy: DefaultRetryPolicy,
		WorkPolicy:      DefaultRetryPolicy,
		TeardownPolicy:  DefaultRetryPolicy,
	}
}

// Stage drives a Worker through the bootstrap -> schedule/execute ->
// teardown lifecycle, applying retry policies and exposing a Tether.
type Stage[U any] struct {
	desc   Descriptor
	worker Worker[U]
	tether *Tether
}

// New builds a Stage for the given worker.
func New[U any](desc Descriptor, worker Worker[U]) *Stage[U] {
	var readings func() map[string]Reading
	if ms, ok := worker.(MetricsSource); ok {
		readings = ms.Readings
	}
	return &Stage[U]{
		desc:   desc,
		worker: worker,
		tether: newTether(desc.Name, readings),
	}
}

// Tether returns this stage's read-only handle.
func (s *Stage[U]) Tether() *Tether { return s.tether }

// Run drives the stage to completion: bootstrap, repeated schedule/execute,
// teardown. It returns nil if the stage exited cleanly (Done from Schedule,
// or a dismissible retry exhaustion), and an error if it Failed.
//
// ctx cancellation causes the runtime to transition to Teardown at the next
// scheduling boundary; an in-flight Execute is allowed to complete but is
// not retried past that point.
func (s *Stage[U]) Run(ctx context.Context) error {
	if err := s.bootstrap(ctx); err != nil {
		s.tether.setState(Failed)
		return err
	}

	s.tether.setState(Working)
	workErr := s.work(ctx)

	s.tether.setState(TearingDown)
	tdErr := retryOperation(s.desc.Name+":teardown", func() error {
		return s.worker.Teardown(ctx)
	}, s.desc.TeardownPolicy)
	if tdErr != nil {
		log.Error("stage: teardown failed", "stage", s.desc.Name, "err", tdErr)
	}

	if workErr != nil {
		s.tether.setState(Failed)
		return workErr
	}
	s.tether.setState(Exited)
	return nil
}

func (s *Stage[U]) bootstrap(ctx context.Context) error {
	return retryOperation(s.desc.Name+":bootstrap", func() error {
		return s.worker.Bootstrap(ctx)
	}, s.desc.BootstrapPolicy)
}

// work runs the schedule/execute loop until Schedule returns Done, ctx is
// canceled, or an unretryable/exhausted error terminates the stage. A
// dismissible work policy with exhausted retries ends the loop cleanly
// instead of propagating an error.
func (s *Stage[U]) work(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		sched, err := s.worker.Schedule(ctx)
		if err != nil {
			return err
		}

		switch sched.Kind {
		case ScheduleDone:
			return nil
		case ScheduleIdle:
			continue
		case ScheduleUnit:
			// Once ctx is canceled, a failed attempt is not retried.
			attempted := false
			err := retryOperation(s.desc.Name+":execute", func() error {
				if attempted && ctx.Err() != nil {
					return ctx.Err()
				}
				attempted = true
				return s.worker.Execute(ctx, sched.Unit)
			}, s.desc.WorkPolicy)
			if err == nil || err == ctx.Err() {
				continue
			}

			var exhausted *exhaustedErr
			if isExhausted(err, &exhausted) && s.desc.WorkPolicy.Dismissible {
				log.Warn("stage: surrendering after exhausted retries", "stage", s.desc.Name, "err", err)
				return nil
			}
			return err
		}
	}
}

func isExhausted(err error, target **exhaustedErr) bool {
	e, ok := err.(*exhaustedErr)
	if !ok {
		return false
	}
	*target = e
	return true
}

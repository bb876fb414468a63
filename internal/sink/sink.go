// Package sink implements the pipeline's terminal stage: consuming
// ChainEvents and doing something with them that has no further output
// port. A Sink is a stage.Worker like any filter, just one that never
// writes to an out channel.
package sink

import (
	"context"

	"github.com/tidewatch-io/tidewatch/internal/model"
)

// Sink is the contract every terminal stage implements, in addition to
// stage.Worker: Consume is called once per event reaching the end of the
// pipeline, after the worker's own Schedule/Execute cycle has pulled it off
// the input channel.
type Sink interface {
	Consume(ctx context.Context, evt model.ChainEvent) error
}

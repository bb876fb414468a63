package stage

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/log"
)

// Handle is the type-erased view of a Stage[U] that the daemon (and
// outside packages composing a Daemon from heterogeneous stage types)
// need: something that can be run and that exposes a Tether. *Stage[U]
// satisfies this for any U via its existing Run/Tether methods, so callers
// never have to juggle the stage's work-unit type parameter once it's
// handed to the daemon.
type Handle interface {
	Run(ctx context.Context) error
	Tether() *Tether
}

// Daemon owns a connected set of stages, in source-to-sink connection
// order, and drives them concurrently until one fails or a shutdown is
// requested.
type Daemon struct {
	stages []Handle
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu       sync.Mutex
	firstErr error
}

// NewDaemon builds a Daemon for the given stages, listed in connection
// order (source first, sink/cursor last). Teardown cancels one shared
// context, so every stage is told to stop at the same moment, and then
// waits for all of them; it does not stop or join them in reverse of this
// order. Each stage is passed as its *Stage[U] value (for whichever U
// that stage's work unit type is); the Handle interface erases U so stages
// of differing types can share one Daemon.
func NewDaemon(stages ...Handle) *Daemon {
	rs := make([]Handle, len(stages))
	copy(rs, stages)
	return &Daemon{stages: rs}
}

// Start spawns one goroutine per stage.
func (d *Daemon) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	for _, s := range d.stages {
		s := s
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			if err := s.Run(ctx); err != nil {
				log.Error("daemon: stage failed", "stage", s.Tether().Name(), "err", err)
				d.mu.Lock()
				if d.firstErr == nil {
					d.firstErr = err
				}
				d.mu.Unlock()
				cancel()
			}
		}()
	}
}

// Block waits until any stage reaches a terminal state (Exited or Failed).
func (d *Daemon) Block() {
	cases := make([]<-chan struct{}, len(d.stages))
	for i, s := range d.stages {
		cases[i] = s.Tether().Done()
	}
	waitAny(cases)
}

// Teardown signals all stages to drain (cancels the shared context) and
// joins them. It returns the first stage error observed, if any.
func (d *Daemon) Teardown() error {
	if d.cancel != nil {
		d.cancel()
	}
	d.wg.Wait()

	d.mu.Lock()
	defer d.mu.Unlock()
	return d.firstErr
}

// AllTethers exposes every stage's read-only handle, for metrics
// introspection.
func (d *Daemon) AllTethers() []*Tether {
	out := make([]*Tether, len(d.stages))
	for i, s := range d.stages {
		out[i] = s.Tether()
	}
	return out
}

// waitAny blocks until at least one of the given channels is closed.
func waitAny(chans []<-chan struct{}) {
	if len(chans) == 0 {
		return
	}
	done := make(chan struct{})
	var once sync.Once
	for _, c := range chans {
		c := c
		go func() {
			<-c
			once.Do(func() { close(done) })
		}()
	}
	<-done
}

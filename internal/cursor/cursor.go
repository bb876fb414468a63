package cursor

import (
	"sync"

	"github.com/tidewatch-io/tidewatch/internal/chain"
)

// Cursor is the running, shared breadcrumb state: read by the source on
// bootstrap and on reconnect, written by the cursor stage on every sink
// commit. It is the only piece of state shared across stage goroutines.
type Cursor struct {
	mu    sync.RWMutex
	crumb *Breadcrumbs
}

// New builds a Cursor seeded with an initial (possibly empty) breadcrumb
// list, typically loaded from disk at startup.
func New(initial []chain.Point) *Cursor {
	return &Cursor{crumb: NewBreadcrumbs(initial)}
}

// LatestKnownPoint returns the front (newest) breadcrumb, if any.
func (c *Cursor) LatestKnownPoint() (chain.Point, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.crumb.Latest()
}

// AddBreadcrumb records a newly-committed point.
func (c *Cursor) AddBreadcrumb(p chain.Point) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.crumb.Push(p)
}

// Rollback truncates the breadcrumb history per the rollback rule.
func (c *Cursor) Rollback(p chain.Point) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.crumb.TruncateForRollback(p)
}

// CloneState returns a snapshot of the current breadcrumb list, suitable for
// persistence.
func (c *Cursor) CloneState() []chain.Point {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.crumb.Snapshot()
}

// Package cursor implements the durable, bounded history of chain points
// used for resumption and safe rollback.
package cursor

import "github.com/tidewatch-io/tidewatch/internal/chain"

// MaxBreadcrumbs bounds the breadcrumb history: the front is always the
// latest committed point, and slots decrease front-to-back (newest first).
const MaxBreadcrumbs = 20

// Breadcrumbs is a bounded, newest-first sequence of points.
type Breadcrumbs struct {
	points []chain.Point
}

// NewBreadcrumbs builds a Breadcrumbs from an existing newest-first slice,
// truncating to MaxBreadcrumbs if needed.
func NewBreadcrumbs(points []chain.Point) *Breadcrumbs {
	if len(points) > MaxBreadcrumbs {
		points = points[:MaxBreadcrumbs]
	}
	cp := make([]chain.Point, len(points))
	copy(cp, points)
	return &Breadcrumbs{points: cp}
}

// Len reports how many breadcrumbs are held.
func (b *Breadcrumbs) Len() int {
	return len(b.points)
}

// Latest returns the newest breadcrumb, if any.
func (b *Breadcrumbs) Latest() (chain.Point, bool) {
	if len(b.points) == 0 {
		return chain.Point{}, false
	}
	return b.points[0], true
}

// Push adds a new newest breadcrumb to the front, evicting the oldest entry
// once the bound is exceeded.
func (b *Breadcrumbs) Push(p chain.Point) {
	b.points = append([]chain.Point{p}, b.points...)
	if len(b.points) > MaxBreadcrumbs {
		b.points = b.points[:MaxBreadcrumbs]
	}
}

// TruncateForRollback applies the rollback rule: keep only breadcrumbs whose
// slot is <= p.Slot, dropping everything newer. If nothing survives, the
// breadcrumb list becomes exactly [p].
func (b *Breadcrumbs) TruncateForRollback(p chain.Point) {
	for i, pt := range b.points {
		if pt.Slot <= p.Slot {
			b.points = b.points[i:]
			return
		}
	}
	b.points = []chain.Point{p}
}

// Snapshot returns a copy of the current newest-first point list.
func (b *Breadcrumbs) Snapshot() []chain.Point {
	cp := make([]chain.Point, len(b.points))
	copy(cp, b.points)
	return cp
}

package chain

// IntersectKind selects how a chain-sync session picks its starting point.
type IntersectKind int

const (
	IntersectOrigin IntersectKind = iota
	IntersectTip
	IntersectPoint
	IntersectFallbacks
)

// IntersectConfig describes where a fresh (cursor-less) run should start
// following the chain from.
type IntersectConfig struct {
	Kind      IntersectKind
	Point     Point   // valid when Kind == IntersectPoint
	Fallbacks []Point // valid when Kind == IntersectFallbacks, tried in order
}

// Points returns the ordered list of points to offer a peer's FindIntersect,
// newest first. Origin and Tip return an empty slice: the caller is
// responsible for handling those as special cases.
func (c IntersectConfig) Points() []Point {
	switch c.Kind {
	case IntersectPoint:
		return []Point{c.Point}
	case IntersectFallbacks:
		return c.Fallbacks
	default:
		return nil
	}
}

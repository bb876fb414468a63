// Package chain defines chain-position and chain-configuration primitives
// shared by every stage of the pipeline.
package chain

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// Point identifies a position on the chain by slot and block hash.
type Point struct {
	Slot uint64
	Hash common.Hash
}

// String renders a point as "slot/hash" for logs.
func (p Point) String() string {
	return fmt.Sprintf("%d/%s", p.Slot, p.Hash.Hex())
}

// Less reports whether p occurs strictly before other by slot.
func (p Point) Less(other Point) bool {
	return p.Slot < other.Slot
}

// PointOrOrigin is a Point that may instead denote the pre-genesis Origin.
// Origin is kept as a distinct flag rather than a magic Point value because
// slot 0 with a zero hash is a valid point on some testnets.
type PointOrOrigin struct {
	Point    Point
	isOrigin bool
}

// Origin is the pre-genesis position.
var Origin = PointOrOrigin{isOrigin: true}

// At wraps a concrete Point.
func At(p Point) PointOrOrigin {
	return PointOrOrigin{Point: p}
}

// IsOrigin reports whether this denotes the pre-genesis position.
func (p PointOrOrigin) IsOrigin() bool {
	return p.isOrigin
}

func (p PointOrOrigin) String() string {
	if p.isOrigin {
		return "origin"
	}
	return p.Point.String()
}

// Package layout maintains the minimum-separation invariant among
// free-floating nodes and probes for unoccupied positions when nodes are
// created. Groups and grouped children are inert: they never move and
// never constrain movers.
// See docs/ARCHITECTURE.md § Collision Resolver.
package layout

import (
	"math"

	"github.com/mosaicflow/mosaic/pkg/types"
)

// Default parameters used by the workspace facade.
const (
	DefaultMargin          = 15.0
	DefaultMaxIterations   = 10
	DefaultOverlapFraction = 0.5

	// maxPlacementAttempts bounds the free-position probe. Placement is
	// best-effort: after the budget is spent the last candidate is
	// returned even if it still conflicts.
	maxPlacementAttempts = 100
)

// mover is the working state of one resolution participant. Positions are
// adjusted on this copy; input nodes are never mutated.
type mover struct {
	node  *types.Node
	pos   types.Point
	w, h  float64
	moved bool
}

func (m *mover) centerX() float64 { return m.pos.X + m.w/2 }
func (m *mover) centerY() float64 { return m.pos.Y + m.h/2 }

// ResolveOverlaps relaxes pairwise overlaps among collision participants
// until an iteration produces no conflicts or maxIterations is reached.
// Residual overlap at the iteration cap is a convergence limit, not an
// error.
//
// Each conflicting pair resolves along the axis of smaller penetration:
// both members move overlapFraction x half the penetration depth away from
// the pair's shared center line, minimizing total displacement.
//
// The returned slice holds clones of only the nodes that actually moved,
// with updated positions; callers write back exactly that changed set.
func ResolveOverlaps(nodes []*types.Node, margin float64, maxIterations int, overlapFraction float64) []*types.Node {
	var movers []*mover
	for _, n := range nodes {
		if !n.ParticipatesInCollision() {
			continue
		}
		b := n.Bounds()
		movers = append(movers, &mover{node: n, pos: n.Position, w: b.Width, h: b.Height})
	}

	for iter := 0; iter < maxIterations; iter++ {
		conflicts := false
		for i := 0; i < len(movers); i++ {
			for j := i + 1; j < len(movers); j++ {
				if separate(movers[i], movers[j], margin, overlapFraction) {
					conflicts = true
				}
			}
		}
		if !conflicts {
			break
		}
	}

	var changed []*types.Node
	for _, m := range movers {
		if !m.moved {
			continue
		}
		cp := m.node.Clone()
		cp.Position = m.pos
		changed = append(changed, cp)
	}
	return changed
}

// separate tests one pair for margin-expanded overlap on both axes and, on
// conflict, nudges the pair apart along the smaller-penetration axis.
// Reports whether the pair was in conflict.
func separate(a, b *mover, margin, overlapFraction float64) bool {
	dx := b.centerX() - a.centerX()
	dy := b.centerY() - a.centerY()

	px := (a.w+b.w)/2 + margin - math.Abs(dx)
	py := (a.h+b.h)/2 + margin - math.Abs(dy)
	if px <= 0 || py <= 0 {
		return false
	}

	if px <= py {
		shift := overlapFraction * px / 2
		if dx < 0 {
			shift = -shift
		}
		a.pos.X -= shift
		b.pos.X += shift
	} else {
		shift := overlapFraction * py / 2
		if dy < 0 {
			shift = -shift
		}
		a.pos.Y -= shift
		b.pos.Y += shift
	}
	a.moved = true
	b.moved = true
	return true
}

// FindFreePosition probes for a position where a rectangle of the given
// size, expanded by margin, overlaps no collision participant. The probe
// is right-biased with a periodic fallback to a new row: on attempts not
// congruent to 2 mod 3 the candidate advances past the conflicting node's
// right edge; otherwise it drops below the conflicting node's bottom edge
// and resets x to the original column. A shelf-packing heuristic, not a
// guaranteed bin-packing search.
func FindFreePosition(pos types.Point, width, height float64, nodes []*types.Node, margin float64) types.Point {
	if width <= 0 {
		width = types.DefaultNodeWidth
	}
	if height <= 0 {
		height = types.DefaultNodeHeight
	}

	candidate := pos
	originX := pos.X

	for attempt := 0; attempt < maxPlacementAttempts; attempt++ {
		probe := types.Rect{X: candidate.X, Y: candidate.Y, Width: width, Height: height}.Expand(margin)

		var conflict *types.Node
		for _, n := range nodes {
			if !n.ParticipatesInCollision() {
				continue
			}
			if probe.Intersects(n.Bounds()) {
				conflict = n
				break
			}
		}
		if conflict == nil {
			return candidate
		}

		cb := conflict.Bounds()
		if attempt%3 != 2 {
			candidate.X = cb.X + cb.Width + margin
		} else {
			candidate.Y = cb.Y + cb.Height + margin
			candidate.X = originX
		}
	}
	return candidate
}

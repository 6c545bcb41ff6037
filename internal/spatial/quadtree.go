// Package spatial implements the quadtree index used for viewport culling.
// The tree answers rectangle-intersection queries over node bounding boxes
// in sub-linear time for typical canvases.
// See docs/ARCHITECTURE.md § Spatial Index.
package spatial

import "github.com/mosaicflow/mosaic/pkg/types"

const (
	// quadrantCapacity is the number of directly-held entries a quadrant
	// accumulates before it splits.
	quadrantCapacity = 10

	// maxDepth bounds the tree height; quadrants at this depth never
	// split regardless of occupancy.
	maxDepth = 8

	// rebuildPadding is added around the union of all bounding boxes
	// when the root bounds are recomputed.
	rebuildPadding = 1000.0
)

// entry pins a node together with the bounding-box snapshot taken at
// insert time. The index never re-reads node geometry after insertion;
// freshness is the caller's responsibility via Rebuild or Insert.
type entry struct {
	node   *types.Node
	bounds types.Rect
}

// quadrant is one cell of the tree. Quadrants live in the Index arena and
// reference their children by arena index, so the tree carries no pointer
// cycles and rebuilds are a single slice reset.
type quadrant struct {
	bounds   types.Rect
	depth    int
	items    []entry
	children [4]int
	split    bool
}

// Index is a region-partitioning quadtree over node bounding boxes.
// It is exclusively owned by the workspace core and is not safe for
// concurrent mutation.
type Index struct {
	arena []quadrant
	count int
}

// New creates an index whose root covers the given bounds.
func New(bounds types.Rect) *Index {
	ix := &Index{}
	ix.reset(bounds)
	return ix
}

// reset discards the tree and installs a fresh root with the given bounds.
func (ix *Index) reset(bounds types.Rect) {
	ix.arena = ix.arena[:0]
	ix.arena = append(ix.arena, quadrant{bounds: bounds})
	ix.count = 0
}

// Len returns the number of entries held by the index.
func (ix *Index) Len() int {
	return ix.count
}

// Bounds returns the current root bounds.
func (ix *Index) Bounds() types.Rect {
	return ix.arena[0].bounds
}

// Insert adds a node to the index, snapshotting its bounding box at call
// time. The entry descends into the single child quadrant that fully
// contains the box; a box straddling a quadrant boundary is retained at the
// ancestor level so boundary-crossing entities are never culled incorrectly.
func (ix *Index) Insert(node *types.Node) {
	ix.insert(0, entry{node: node, bounds: node.Bounds()})
	ix.count++
}

func (ix *Index) insert(qi int, e entry) {
	for {
		if ix.arena[qi].split {
			if ci := ix.childContaining(qi, e.bounds); ci >= 0 {
				qi = ci
				continue
			}
		}
		break
	}

	ix.arena[qi].items = append(ix.arena[qi].items, e)

	if !ix.arena[qi].split &&
		len(ix.arena[qi].items) > quadrantCapacity &&
		ix.arena[qi].depth < maxDepth {
		ix.splitQuadrant(qi)
	}
}

// childContaining returns the arena index of the child quadrant whose
// bounds fully contain r, or -1 if r straddles a boundary.
func (ix *Index) childContaining(qi int, r types.Rect) int {
	for _, ci := range ix.arena[qi].children {
		if ix.arena[ci].bounds.Contains(r) {
			return ci
		}
	}
	return -1
}

// splitQuadrant creates the four equal sub-rectangles of qi and
// redistributes its items via the containment rule. Items that fit no
// child remain at this level permanently.
func (ix *Index) splitQuadrant(qi int) {
	b := ix.arena[qi].bounds
	depth := ix.arena[qi].depth
	hw := b.Width / 2
	hh := b.Height / 2

	quads := [4]types.Rect{
		{X: b.X, Y: b.Y, Width: hw, Height: hh},
		{X: b.X + hw, Y: b.Y, Width: hw, Height: hh},
		{X: b.X, Y: b.Y + hh, Width: hw, Height: hh},
		{X: b.X + hw, Y: b.Y + hh, Width: hw, Height: hh},
	}

	var children [4]int
	for i, qb := range quads {
		children[i] = len(ix.arena)
		ix.arena = append(ix.arena, quadrant{bounds: qb, depth: depth + 1})
	}

	held := ix.arena[qi].items
	ix.arena[qi].items = nil
	ix.arena[qi].children = children
	ix.arena[qi].split = true

	for _, e := range held {
		if ci := ix.childContaining(qi, e.bounds); ci >= 0 {
			ix.insert(ci, e)
		} else {
			ix.arena[qi].items = append(ix.arena[qi].items, e)
		}
	}
}

// Query returns every node whose snapshotted bounding box intersects the
// viewport. Result ordering is unspecified.
func (ix *Index) Query(viewport types.Rect) []*types.Node {
	var result []*types.Node
	stack := []int{0}
	for len(stack) > 0 {
		qi := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		// The root is never pruned: entries inserted after the last
		// rebuild may lie outside the root bounds and are held there.
		if qi != 0 && !ix.arena[qi].bounds.Intersects(viewport) {
			continue
		}
		for _, e := range ix.arena[qi].items {
			if e.bounds.Intersects(viewport) {
				result = append(result, e.node)
			}
		}
		if ix.arena[qi].split {
			stack = append(stack, ix.arena[qi].children[0],
				ix.arena[qi].children[1],
				ix.arena[qi].children[2],
				ix.arena[qi].children[3])
		}
	}
	return result
}

// Rebuild discards the tree, recomputes the root bounds as the union of
// all node bounding boxes plus a fixed padding margin, and reinserts every
// node. Used after bulk changes (load, large layout shifts) instead of
// incremental maintenance.
func (ix *Index) Rebuild(nodes []*types.Node) {
	bounds := types.Rect{
		X:      -rebuildPadding,
		Y:      -rebuildPadding,
		Width:  2 * rebuildPadding,
		Height: 2 * rebuildPadding,
	}
	if len(nodes) > 0 {
		union := nodes[0].Bounds()
		for _, n := range nodes[1:] {
			union = union.Union(n.Bounds())
		}
		bounds = union.Expand(rebuildPadding)
	}

	ix.reset(bounds)
	for _, n := range nodes {
		ix.Insert(n)
	}
}

package spatial

import (
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mosaicflow/mosaic/pkg/types"
)

// makeNode builds a free node with an explicit size.
func makeNode(id string, x, y, w, h float64) *types.Node {
	n := types.NewNode(id, "note", types.Point{X: x, Y: y})
	n.Width = w
	n.Height = h
	return n
}

// bruteForce is the O(n) reference: every node whose bounding box
// intersects the viewport.
func bruteForce(nodes []*types.Node, viewport types.Rect) []string {
	var ids []string
	for _, n := range nodes {
		if n.Bounds().Intersects(viewport) {
			ids = append(ids, n.NodeID)
		}
	}
	sort.Strings(ids)
	return ids
}

func queryIDs(ix *Index, viewport types.Rect) []string {
	var ids []string
	for _, n := range ix.Query(viewport) {
		ids = append(ids, n.NodeID)
	}
	sort.Strings(ids)
	return ids
}

func TestQueryMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 20; trial++ {
		var nodes []*types.Node
		for i := 0; i < 200; i++ {
			nodes = append(nodes, makeNode(
				fmt.Sprintf("n%d", i),
				rng.Float64()*8000-4000,
				rng.Float64()*8000-4000,
				20+rng.Float64()*400,
				20+rng.Float64()*300,
			))
		}

		ix := New(types.Rect{})
		ix.Rebuild(nodes)
		require.Equal(t, len(nodes), ix.Len())

		for q := 0; q < 25; q++ {
			viewport := types.Rect{
				X:      rng.Float64()*10000 - 5000,
				Y:      rng.Float64()*10000 - 5000,
				Width:  100 + rng.Float64()*3000,
				Height: 100 + rng.Float64()*3000,
			}
			assert.Equal(t, bruteForce(nodes, viewport), queryIDs(ix, viewport),
				"trial %d query %d viewport %+v", trial, q, viewport)
		}
	}
}

func TestInsertionOrderIndependence(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	var nodes []*types.Node
	for i := 0; i < 150; i++ {
		nodes = append(nodes, makeNode(
			fmt.Sprintf("n%d", i),
			rng.Float64()*4000,
			rng.Float64()*4000,
			50+rng.Float64()*200,
			50+rng.Float64()*200,
		))
	}
	viewports := []types.Rect{
		{X: 0, Y: 0, Width: 1000, Height: 1000},
		{X: 1500, Y: 1500, Width: 500, Height: 2500},
		{X: -100, Y: -100, Width: 50, Height: 50},
		{X: 0, Y: 0, Width: 5000, Height: 5000},
	}

	ix := New(types.Rect{})
	ix.Rebuild(nodes)
	baseline := make([][]string, len(viewports))
	for i, v := range viewports {
		baseline[i] = queryIDs(ix, v)
	}

	for perm := 0; perm < 5; perm++ {
		shuffled := make([]*types.Node, len(nodes))
		copy(shuffled, nodes)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		ix.Rebuild(shuffled)
		for i, v := range viewports {
			assert.Equal(t, baseline[i], queryIDs(ix, v),
				"permutation %d viewport %d", perm, i)
		}
	}
}

func TestBoundaryStraddlersNotCulled(t *testing.T) {
	// A node sitting exactly on the center of the root bounds straddles
	// every child quadrant boundary and must be retained at the root.
	var nodes []*types.Node
	for i := 0; i < 40; i++ {
		nodes = append(nodes, makeNode(fmt.Sprintf("n%d", i), float64(i*300), 0, 100, 100))
	}
	ix := New(types.Rect{})
	ix.Rebuild(nodes)

	center := ix.Bounds()
	straddler := makeNode("straddler", center.CenterX()-50, center.CenterY()-50, 100, 100)
	ix.Insert(straddler)

	got := queryIDs(ix, straddler.Bounds())
	assert.Contains(t, got, "straddler")
}

func TestInsertOutsideRootBounds(t *testing.T) {
	ix := New(types.Rect{X: 0, Y: 0, Width: 100, Height: 100})
	far := makeNode("far", 99999, 99999, 10, 10)
	ix.Insert(far)

	got := queryIDs(ix, types.Rect{X: 99990, Y: 99990, Width: 100, Height: 100})
	assert.Equal(t, []string{"far"}, got)
}

func TestRebuildEmptySet(t *testing.T) {
	ix := New(types.Rect{})
	ix.Rebuild(nil)
	assert.Zero(t, ix.Len())
	assert.Empty(t, ix.Query(types.Rect{X: -1e6, Y: -1e6, Width: 2e6, Height: 2e6}))
}

func TestSplitRedistributes(t *testing.T) {
	// More than quadrantCapacity small nodes clustered in one corner force
	// a split; all must remain queryable.
	var nodes []*types.Node
	for i := 0; i < 30; i++ {
		nodes = append(nodes, makeNode(fmt.Sprintf("n%d", i), float64(i%6)*10, float64(i/6)*10, 5, 5))
	}
	// One distant node stretches the root bounds so the cluster falls
	// inside a single child quadrant.
	nodes = append(nodes, makeNode("far", 50000, 50000, 5, 5))

	ix := New(types.Rect{})
	ix.Rebuild(nodes)

	got := queryIDs(ix, types.Rect{X: -10, Y: -10, Width: 100, Height: 100})
	assert.Len(t, got, 30)
}

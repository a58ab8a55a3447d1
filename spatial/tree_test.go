package spatial

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/koteyur/ccd2d/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	id  int
	box geom.Box3
}

func randomBox(rng *rand.Rand, world float64, maxSize float64) geom.Box3 {
	lo := geom.Vec3(rng.Float64()*world-world/2, rng.Float64()*world-world/2, rng.Float64()*world-world/2)
	size := geom.Vec3(rng.Float64()*maxSize, rng.Float64()*maxSize, rng.Float64()*maxSize)
	if rng.Intn(4) == 0 {
		size = geom.Vector3{}
	}
	return geom.B3(lo, lo.Add(size))
}

func collect(fn func(func(*item))) []int {
	var ids []int
	fn(func(it *item) { ids = append(ids, it.id) })
	sort.Ints(ids)
	return ids
}

func bruteForce(items []*item, query geom.Box3, dims int) []int {
	var ids []int
	for _, it := range items {
		hit := true
		for a := 0; a < dims; a++ {
			if it.box.Min.Dim(a) > query.Max.Dim(a) || query.Min.Dim(a) > it.box.Max.Dim(a) {
				hit = false
			}
		}
		if hit {
			ids = append(ids, it.id)
		}
	}
	sort.Ints(ids)
	return ids
}

func TestForEachInBoxMatchesBruteForce(t *testing.T) {
	for _, dims := range []int{2, 3} {
		rng := rand.New(rand.NewSource(int64(dims)))
		tree := New[*item](dims)
		var items []*item
		for i := 0; i < 500; i++ {
			it := &item{id: i, box: randomBox(rng, 1000, 60)}
			items = append(items, it)
			tree.AddSolid(it, it.box)
		}
		tree.Rebuild(0)
		require.Equal(t, len(items), tree.Size())

		// items inserted after the rebuild, partly outside the bounds
		for i := 500; i < 600; i++ {
			it := &item{id: i, box: randomBox(rng, 3000, 60)}
			items = append(items, it)
			tree.AddSolid(it, it.box)
		}

		for q := 0; q < 200; q++ {
			query := randomBox(rng, 1400, 300)
			got := collect(func(fn func(*item)) { tree.ForEachInBox(query, fn) })
			assert.Equal(t, bruteForce(items, query, dims), got, "dims %d query %d", dims, q)
		}
		all := collect(tree.ForEach)
		assert.Len(t, all, len(items))
	}
}

func TestRemoveAndMove(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	tree := NewOctTree[*item]()
	var items []*item
	for i := 0; i < 300; i++ {
		it := &item{id: i, box: randomBox(rng, 500, 20)}
		items = append(items, it)
		tree.AddSolid(it, it.box)
	}
	tree.Rebuild(0)

	// move every other item, remove every third
	for i, it := range items {
		if i%2 == 0 {
			to := randomBox(rng, 500, 20)
			require.True(t, tree.MoveSolid(it, it.box, to))
			it.box = to
		}
	}
	var kept []*item
	for i, it := range items {
		if i%3 == 0 {
			require.True(t, tree.RemoveSolid(it, it.box))
			assert.False(t, tree.Contains(it, it.box))
			continue
		}
		assert.True(t, tree.Contains(it, it.box))
		kept = append(kept, it)
	}
	assert.Equal(t, len(kept), tree.Size())

	query := geom.B3(geom.Vec3(-100, -100, -100), geom.Vec3(150, 80, 200))
	got := collect(func(fn func(*item)) { tree.ForEachInBox(query, fn) })
	assert.Equal(t, bruteForce(kept, query, 3), got)
}

func TestRemoveMissingIsNoop(t *testing.T) {
	tree := NewQuadTree[*item]()
	a := &item{id: 1, box: geom.B3(geom.Vec3(0, 0, 0), geom.Vec3(1, 1, 0))}
	tree.AddSolid(a, a.box)
	tree.Rebuild(0)

	stranger := &item{id: 2}
	assert.False(t, tree.RemoveSolid(stranger, a.box))
	assert.False(t, tree.RemovePoint(stranger, geom.Vec3(100, 100, 0)))
	assert.False(t, tree.MoveSolid(stranger, a.box, a.box))
	assert.Equal(t, 1, tree.Size())

	assert.True(t, tree.RemoveSolid(a, a.box))
	assert.False(t, tree.RemoveSolid(a, a.box))
	assert.Equal(t, 0, tree.Size())
}

func TestPoints(t *testing.T) {
	tree := NewQuadTree[int]()
	for i := 0; i < 100; i++ {
		tree.AddPoint(i, geom.Vec3(float64(i%10), float64(i/10), 0))
	}
	tree.Rebuild(0)
	var hits []int
	tree.ForEachInBox(geom.B3(geom.Vec3(2, 3, 0), geom.Vec3(3, 4, 0)), func(v int) { hits = append(hits, v) })
	sort.Ints(hits)
	assert.Equal(t, []int{32, 33, 42, 43}, hits)

	assert.True(t, tree.MovePoint(32, geom.Vec3(2, 3, 0), geom.Vec3(9.5, 9.5, 0)))
	assert.False(t, tree.RemovePoint(32, geom.Vec3(2, 3, 0)))
	assert.True(t, tree.RemovePoint(32, geom.Vec3(9.5, 9.5, 0)))
}

func TestDepthNeverUnderProvisions(t *testing.T) {
	for _, dims := range []int{2, 3} {
		tree := New[int](dims)
		b := tree.Branching()
		for _, n := range []int{0, 1, 3, 4, 5, 17, 64, 65, 1000, 4096, 100000} {
			tree.Rebuild(n)
			if DepthFor(n, b) < MaxDepth {
				assert.GreaterOrEqual(t, tree.LeafCapacity(), n, "dims %d n %d", dims, n)
			}
			if tree.Depth() > 1 {
				// one level less would not be enough
				assert.Less(t, tree.LeafCapacity()/b, max(n, b))
			}
		}
	}
	assert.Equal(t, 1, DepthFor(0, 4))
	assert.Equal(t, 3, DepthFor(64, 4))
	assert.Equal(t, 4, DepthFor(65, 4))
	assert.Equal(t, 4, DepthFor(256, 4))
	assert.Equal(t, 3, DepthFor(512, 8))
	assert.Equal(t, MaxDepth, DepthFor(1<<62, 8))
}

func TestRebuildBounds(t *testing.T) {
	tree := NewOctTree[int]()
	tree.AddSolid(1, geom.B3(geom.Vec3(-5, 0, 0), geom.Vec3(0, 1, 1)))
	tree.AddPoint(2, geom.Vec3(10, 20, 3))
	tree.Rebuild(0)
	assert.Equal(t, geom.B3(geom.Vec3(-5, 0, 0), geom.Vec3(10, 20, 3)), tree.Bounds())

	empty := NewOctTree[int]()
	empty.Rebuild(0)
	assert.Equal(t, geom.Box3{}, empty.Bounds())
	assert.Equal(t, 0, empty.Size())
}

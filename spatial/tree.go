// Package spatial implements a fixed-depth quad-tree / oct-tree used as the
// broad phase of the physics engine and for dynamic body bookkeeping.
//
// Items are stored at the deepest node whose split point they do not straddle.
// Locating an item again only needs the extent it was inserted with, so
// removal and moves take the caller's last-known extent.
package spatial

import (
	"github.com/koteyur/ccd2d/geom"
)

// MaxDepth bounds the depth chosen by [Tree.Rebuild].
const MaxDepth = 12

type entry[T comparable] struct {
	value T
	box   geom.Box3
}

type node[T comparable] struct {
	level    int
	volume   geom.Box3
	split    geom.Vector3
	children []*node[T] // nil until an item descends below this node
	items    []entry[T]
}

// Tree is a fixed-depth spatial tree over values of type T, typically pointers.
// The zero value is not usable; create trees with [NewQuadTree] or [NewOctTree].
type Tree[T comparable] struct {
	dims   int
	branch int
	depth  int
	bounds geom.Box3
	root   *node[T]
	size   int
}

// NewQuadTree returns an empty 2D tree. The Z axis of extents is ignored.
func NewQuadTree[T comparable]() *Tree[T] {
	return newTree[T](2)
}

// NewOctTree returns an empty 3D tree.
func NewOctTree[T comparable]() *Tree[T] {
	return newTree[T](3)
}

// New returns an empty tree over dims (2 or 3) axes. Any other value is
// clamped into that range.
func New[T comparable](dims int) *Tree[T] {
	return newTree[T](min(max(dims, 2), 3))
}

func newTree[T comparable](dims int) *Tree[T] {
	t := &Tree[T]{dims: dims, branch: 1 << dims}
	t.root = t.newNode(0, geom.Box3{})
	return t
}

func (t *Tree[T]) newNode(level int, volume geom.Box3) *node[T] {
	return &node[T]{level: level, volume: volume, split: volume.Center()}
}

// Dims returns the number of axes the tree splits on.
func (t *Tree[T]) Dims() int { return t.dims }

// Branching returns the number of children per node (4 or 8).
func (t *Tree[T]) Branching() int { return t.branch }

// Depth returns the current depth; items can be stored at levels 0..Depth.
func (t *Tree[T]) Depth() int { return t.depth }

// Bounds returns the volume computed by the last [Tree.Rebuild].
func (t *Tree[T]) Bounds() geom.Box3 { return t.bounds }

// Size returns the number of stored items.
func (t *Tree[T]) Size() int { return t.size }

// LeafCapacity returns branching^depth, the number of leaf slots of the tree.
func (t *Tree[T]) LeafCapacity() int {
	c := 1
	for range t.depth {
		c *= t.branch
	}
	return c
}

// childIndex returns the child slot that wholly contains box, or -1 when box
// touches or straddles the split point on some axis.
func (t *Tree[T]) childIndex(n *node[T], box geom.Box3) int {
	idx := 0
	for a := 0; a < t.dims; a++ {
		s := n.split.Dim(a)
		switch {
		case box.Max.Dim(a) < s:
		case box.Min.Dim(a) > s:
			idx |= 1 << a
		default:
			return -1
		}
	}
	return idx
}

func (t *Tree[T]) childVolume(n *node[T], idx int) geom.Box3 {
	v := n.volume
	for a := 0; a < t.dims; a++ {
		if idx&(1<<a) != 0 {
			v.Min.SetDim(a, n.split.Dim(a))
		} else {
			v.Max.SetDim(a, n.split.Dim(a))
		}
	}
	return v
}

// locate descends from the root following the insertion rule. If create is
// false it returns nil when the path does not exist yet.
func (t *Tree[T]) locate(box geom.Box3, create bool) *node[T] {
	n := t.root
	for n.level < t.depth {
		idx := t.childIndex(n, box)
		if idx < 0 {
			break
		}
		if n.children == nil {
			if !create {
				return nil
			}
			n.children = make([]*node[T], t.branch)
		}
		c := n.children[idx]
		if c == nil {
			if !create {
				return nil
			}
			c = t.newNode(n.level+1, t.childVolume(n, idx))
			n.children[idx] = c
		}
		n = c
	}
	return n
}

func (n *node[T]) find(v T) int {
	for i := range n.items {
		if n.items[i].value == v {
			return i
		}
	}
	return -1
}

// removeAt deletes item i with swap-remove.
func (n *node[T]) removeAt(i int) {
	last := len(n.items) - 1
	if i < last {
		n.items[i] = n.items[last]
	}
	var zero entry[T]
	n.items[last] = zero
	n.items = n.items[:last]
}

// AddPoint inserts v at point p.
func (t *Tree[T]) AddPoint(v T, p geom.Vector3) {
	t.AddSolid(v, geom.B3Point(p))
}

// AddSolid inserts v with extent box.
func (t *Tree[T]) AddSolid(v T, box geom.Box3) {
	n := t.locate(box, true)
	n.items = append(n.items, entry[T]{value: v, box: box})
	t.size++
}

// RemovePoint removes v previously added at point p.
func (t *Tree[T]) RemovePoint(v T, p geom.Vector3) bool {
	return t.RemoveSolid(v, geom.B3Point(p))
}

// RemoveSolid removes v, locating it by the extent it was last stored with.
// It returns false and leaves the tree unchanged if v is not found there.
func (t *Tree[T]) RemoveSolid(v T, box geom.Box3) bool {
	n := t.locate(box, false)
	if n == nil {
		return false
	}
	i := n.find(v)
	if i < 0 {
		return false
	}
	n.removeAt(i)
	t.size--
	return true
}

// Contains reports whether v is stored under extent box.
func (t *Tree[T]) Contains(v T, box geom.Box3) bool {
	n := t.locate(box, false)
	return n != nil && n.find(v) >= 0
}

// MovePoint moves v from point from to point to.
func (t *Tree[T]) MovePoint(v T, from, to geom.Vector3) bool {
	return t.MoveSolid(v, geom.B3Point(from), geom.B3Point(to))
}

// MoveSolid updates the extent of v from from to to. When the same node still
// qualifies only the stored extent changes. It returns false if v is not
// found under from, in which case nothing is inserted.
func (t *Tree[T]) MoveSolid(v T, from, to geom.Box3) bool {
	src := t.locate(from, false)
	if src == nil {
		return false
	}
	i := src.find(v)
	if i < 0 {
		return false
	}
	dst := t.locate(to, true)
	if dst == src {
		src.items[i].box = to
		return true
	}
	src.removeAt(i)
	dst.items = append(dst.items, entry[T]{value: v, box: to})
	return true
}

// ForEach calls fn for every item.
func (t *Tree[T]) ForEach(fn func(v T)) {
	t.root.walk(func(e *entry[T]) { fn(e.value) })
}

func (n *node[T]) walk(fn func(e *entry[T])) {
	for i := range n.items {
		fn(&n.items[i])
	}
	for _, c := range n.children {
		if c != nil {
			c.walk(fn)
		}
	}
}

// ForEachInBox calls fn for every item whose extent intersects box.
// Boundaries count as intersecting.
func (t *Tree[T]) ForEachInBox(box geom.Box3, fn func(v T)) {
	t.query(t.root, box, fn)
}

func (t *Tree[T]) query(n *node[T], box geom.Box3, fn func(v T)) {
	for i := range n.items {
		if t.intersects(n.items[i].box, box) {
			fn(n.items[i].value)
		}
	}
	if n.children == nil {
		return
	}
	for idx, c := range n.children {
		if c != nil && t.mayContain(n, idx, box) {
			t.query(c, box, fn)
		}
	}
}

func (t *Tree[T]) intersects(a, b geom.Box3) bool {
	for i := 0; i < t.dims; i++ {
		if a.Min.Dim(i) > b.Max.Dim(i) || b.Min.Dim(i) > a.Max.Dim(i) {
			return false
		}
	}
	return true
}

// mayContain reports whether child idx of n can hold an item intersecting box.
// Items in the low half have Max < split and items in the high half have
// Min > split, independent of the node volume.
func (t *Tree[T]) mayContain(n *node[T], idx int, box geom.Box3) bool {
	for a := 0; a < t.dims; a++ {
		s := n.split.Dim(a)
		if idx&(1<<a) != 0 {
			if box.Max.Dim(a) <= s {
				return false
			}
		} else if box.Min.Dim(a) >= s {
			return false
		}
	}
	return true
}

// Rebuild clears the tree, recomputes its bounding volume from the stored
// items and its depth from max(Size, minElements), then reinserts everything.
func (t *Tree[T]) Rebuild(minElements int) {
	items := make([]entry[T], 0, t.size)
	t.root.walk(func(e *entry[T]) { items = append(items, *e) })

	bounds := geom.B3Empty()
	for _, e := range items {
		bounds.ExpandByBox(e.box)
	}
	if bounds.IsEmpty() {
		bounds = geom.Box3{}
	}
	t.bounds = bounds
	t.depth = DepthFor(max(len(items), minElements), t.branch)
	t.root = t.newNode(0, bounds)
	t.size = 0
	for _, e := range items {
		t.AddSolid(e.value, e.box)
	}
}

// DepthFor returns ceil(log_b(max(b, n))) capped at [MaxDepth]: the smallest
// depth whose b^depth leaf slots hold n elements.
//
// The depth is a single logarithm on purpose. The double logarithm
// ceil(log_b(log_b(n))) gives depth 1 for every n up to b^b, so a quadtree
// sized for 256 elements would offer 4 leaf slots.
func DepthFor(n, branching int) int {
	n = max(n, branching)
	depth, capacity := 0, 1
	for capacity < n && depth < MaxDepth {
		capacity *= branching
		depth++
	}
	return depth
}

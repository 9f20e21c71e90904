// Package index implements a dynamic in-memory R-tree, a balanced tree over
// axis-aligned bounding boxes in N dimensions. The tree supports insertion,
// deletion, containment checks, overlap and sphere queries, k-nearest
// queries, and a bulk-load path that packs a batch of objects for better tree
// quality.
//
// The tree is a set: it holds no duplicate objects and no nil objects. To
// keep memory down it never caches object bounds; it asks the bounds provider
// on demand. While an object is in a tree, its bounds and its equality must
// not change.
//
// References:
//
//	Guttman A., 1984, R-trees - a dynamic index structure for spatial
//	searching: Proceedings of the ACM, SIGMOD, p. 47-57.
//	Roussopoulos, N., Kelley, S., and Vincent, F., 1995, Nearest neighbor
//	queries: Proceedings of the ACM, SIGMOD, p. 71-79.
package index

import (
	"errors"
	"fmt"
	"io"

	"github.com/lintang-b-s/boxtree/lib/geom"
)

// Tree is an R-tree of bounded objects. All operations run synchronously on
// the calling goroutine; callers must serialize mutations externally and
// must not mutate while an iterator is live.
type Tree struct {
	root     *node
	ndim     int
	nmin     int
	nmax     int
	size     int
	boxer    geom.Boxer
	modCount int // for fail-fast iteration
}

// NewTree constructs a tree for objects that implement geom.Boxed.
// ndim is the number of min/max coordinates per object. Every node except the
// root holds between nmin and nmax children; nmin must be positive and at
// most nmax/2, and nmax at least 4.
func NewTree(ndim, nmin, nmax int) (*Tree, error) {
	return NewTreeWithBoxer(ndim, nmin, nmax, geom.DefaultBoxer{})
}

// NewTreeWithBoxer constructs a tree that obtains object bounds and distances
// from the specified boxer, for objects that cannot implement geom.Boxed.
func NewTreeWithBoxer(ndim, nmin, nmax int, boxer geom.Boxer) (*Tree, error) {
	if ndim < 1 {
		return nil, fmt.Errorf("index: ndim must be at least 1, got %d", ndim)
	}
	if nmin <= 0 {
		return nil, fmt.Errorf("index: nmin must be positive, got %d", nmin)
	}
	if nmax < 4 {
		return nil, fmt.Errorf("index: nmax must be at least 4, got %d", nmax)
	}
	if nmin > nmax/2 {
		return nil, fmt.Errorf("index: nmin %d exceeds nmax/2 = %d", nmin, nmax/2)
	}
	if boxer == nil {
		return nil, errors.New("index: boxer is nil")
	}
	t := &Tree{
		ndim:  ndim,
		nmin:  nmin,
		nmax:  nmax,
		boxer: boxer,
	}
	t.root = newNode(t, 1)
	return t, nil
}

// Size returns the number of objects in this tree.
func (t *Tree) Size() int {
	return t.size
}

// IsEmpty reports whether this tree holds no objects.
func (t *Tree) IsEmpty() bool {
	return t.size == 0
}

// Levels returns the number of levels in this tree.
func (t *Tree) Levels() int {
	return t.root.level
}

// Clear removes all objects from this tree.
func (t *Tree) Clear() {
	t.root = newNode(t, 1)
	t.size = 0
	t.modCount++
}

// Add inserts the object, if not already present, and reports whether it was
// inserted. Objects must be comparable with ==; store pointers for identity
// semantics. Adding nil panics.
func (t *Tree) Add(object any) bool {
	if object == nil {
		panic("index: nil object added to tree")
	}
	ob := t.checkBounds(t.boxer.Bounds(object))
	if t.root.findLeafWith(object, ob) != nil {
		return false
	}
	t.root.chooseNodeFor(object).add(object)
	t.size++
	t.modCount++
	return true
}

// Remove deletes the object, if present, and reports whether it was found.
// A node left below its child floor dissolves: its remaining children are
// reinserted from the top, each at its own level. Removing nil panics.
func (t *Tree) Remove(object any) bool {
	if object == nil {
		panic("index: nil object removed from tree")
	}
	ob := t.checkBounds(t.boxer.Bounds(object))
	leaf := t.root.findLeafWith(object, ob)
	if leaf == nil {
		return false
	}

	var orphans []any
	leaf.remove(object, &orphans)
	for _, orphan := range orphans {
		t.root.chooseNodeFor(orphan).add(orphan)
	}

	// A non-leaf root left with a single child is replaced by that child.
	// With nmin of 1 the promoted child may itself hold a single child, so
	// keep shrinking.
	for !t.root.isLeaf() && len(t.root.children) == 1 {
		t.root = t.root.children[0].(*node)
		t.root.parent = nil
	}

	t.size--
	t.modCount++
	return true
}

// Contains reports whether this tree holds the object.
func (t *Tree) Contains(object any) bool {
	if object == nil {
		panic("index: nil object queried in tree")
	}
	ob := t.checkBounds(t.boxer.Bounds(object))
	return t.root.findLeafWith(object, ob) != nil
}

// Update replaces oldObject with newObject. Returns an error when oldObject
// is not in this tree; the tree is unchanged in that case.
func (t *Tree) Update(oldObject, newObject any) error {
	if !t.Remove(oldObject) {
		return errors.New("index: object not found")
	}
	t.Add(newObject)
	return nil
}

// FindOverlapping returns all objects whose bounds overlap the box spanned
// by the specified min/max coordinates. Result order is traversal order.
func (t *Tree) FindOverlapping(min, max []float64) []any {
	t.checkDim(len(min), "min")
	t.checkDim(len(max), "max")
	return t.FindOverlappingBox(geom.NewBox(min, max))
}

// FindOverlappingBox returns all objects whose bounds overlap the box.
func (t *Tree) FindOverlappingBox(query *geom.Box) []any {
	t.checkDim(query.Ndim(), "query box")
	var list []any
	t.root.findOverlapping(query, &list)
	return list
}

// FindInSphere returns all objects within radius of the center point. An
// object is in the sphere when the distance from the center to the object
// itself, not to its bounds, is at most the radius.
func (t *Tree) FindInSphere(center []float64, radius float64) []any {
	t.checkDim(len(center), "center")
	var list []any
	t.root.findInSphere(center, radius*radius, &list)
	return list
}

// FindNearest returns the object nearest to the point, or nil when this tree
// is empty.
func (t *Tree) FindNearest(point []float64) any {
	if t.IsEmpty() {
		return nil
	}
	return t.FindKNearest(1, point)[0]
}

// FindKNearest returns the k objects nearest to the point, ordered by
// increasing distance. Distances are true object distances from the bounds
// provider, not box distances. Fewer than k objects are returned when the
// tree holds fewer than k.
func (t *Tree) FindKNearest(k int, point []float64) []any {
	t.checkDim(len(point), "point")
	if k <= 0 {
		panic("index: k must be positive")
	}
	ns := newNearestSet(k, point)
	t.root.findNearest(ns)
	return ns.objects()
}

// LeafArea returns the sum of the areas of all leaf node boxes, a
// tree-quality metric. Lower is better.
func (t *Tree) LeafArea() float64 {
	if t.IsEmpty() {
		return 0
	}
	return t.root.leafArea()
}

// LeafVolume returns the sum of the volumes of all leaf node boxes.
func (t *Tree) LeafVolume() float64 {
	if t.IsEmpty() {
		return 0
	}
	return t.root.leafVolume()
}

// Dump writes the tree structure to w. Intended for debugging only.
func (t *Tree) Dump(w io.Writer) {
	t.root.dump(w, 0)
}

// Validate walks the whole tree re-checking every structural invariant:
// fanout bounds, level and parent consistency, and tight cached bounds.
// Intended for test harnesses; returns nil for a consistent tree.
func (t *Tree) Validate() error {
	return t.root.validate()
}

func (t *Tree) checkDim(n int, name string) {
	if n != t.ndim {
		panic(fmt.Sprintf("index: %s has %d coordinates, tree has %d dimensions", name, n, t.ndim))
	}
}

func (t *Tree) checkBounds(b *geom.Box) *geom.Box {
	t.checkDim(b.Ndim(), "object bounds")
	return b
}

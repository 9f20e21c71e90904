package index

import (
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/lintang-b-s/boxtree/lib/geom"
)

// node is a box with a list of box children. A node's bounds tightly cover
// the bounds of its children. Leaf nodes are at level 1 and hold opaque
// stored objects; nodes above level 1 hold child nodes. A node's level is
// constant; nodes never move up or down within the tree.
//
// Every node except the root holds between nmin and nmax children. The root
// holds at least two children, unless it is a leaf, in which case it may hold
// between zero and nmax children.
type node struct {
	tree     *Tree
	parent   *node // nil for the root only
	level    int   // 1 for leaf nodes
	bounds   *geom.Box
	children []any // objects if level==1, *node otherwise
}

func newNode(t *Tree, level int) *node {
	return &node{
		tree:   t,
		level:  level,
		bounds: geom.EmptyBox(t.ndim),
	}
}

func (n *node) isLeaf() bool {
	return n.level == 1
}

func (n *node) size() int {
	return len(n.children)
}

// boundsOf returns the cached bounds for node entries and asks the boxer for
// object entries. Node bounds are shared, not copied; callers must not
// mutate the result.
func (t *Tree) boundsOf(entry any) *geom.Box {
	if child, ok := entry.(*node); ok {
		return child.bounds
	}
	return t.boxer.Bounds(entry)
}

// distanceSquared returns the distance-squared from an entry to a point,
// using cached node bounds for node entries and the boxer for objects.
func (t *Tree) distanceSquared(entry any, point []float64) float64 {
	if child, ok := entry.(*node); ok {
		return child.bounds.DistanceSquared(point)
	}
	return t.boxer.DistanceSquared(entry, point)
}

// levelOf returns the level of any entry; opaque objects have level zero.
func (t *Tree) levelOf(entry any) int {
	if child, ok := entry.(*node); ok {
		return child.level
	}
	return 0
}

// indexOf returns the index of the specified entry in this node's child
// list, or -1. Node entries match by pointer; objects match by equality.
func (n *node) indexOf(entry any) int {
	if child, ok := entry.(*node); ok {
		for i, c := range n.children {
			if c == any(child) {
				return i
			}
		}
		return -1
	}
	for i, c := range n.children {
		if c == entry {
			return i
		}
	}
	return -1
}

// appendChild appends the entry to this node's child list, adopting node
// entries. It does not touch this node's bounds.
func (n *node) appendChild(entry any) {
	n.children = append(n.children, entry)
	if child, ok := entry.(*node); ok {
		child.parent = n
	}
}

// expandUp grows this node's bounds to cover the specified box and, if they
// grew, recursively expands the parent. Insertion stops propagating as soon
// as an ancestor already covers the new entry.
func (n *node) expandUp(b *geom.Box) {
	if n.bounds.Expand(b) && n.parent != nil {
		n.parent.expandUp(n.bounds)
	}
}

// update recomputes this node's bounds from its children and reports whether
// they changed.
func (n *node) update() bool {
	recomputed := geom.EmptyBox(n.tree.ndim)
	for _, c := range n.children {
		recomputed.Expand(n.tree.boundsOf(c))
	}
	changed := !recomputed.Equal(n.bounds)
	n.bounds = recomputed
	return changed
}

// updateUp recomputes this node's bounds and, if they changed, recursively
// updates the parent.
func (n *node) updateUp() {
	if n.update() && n.parent != nil {
		n.parent.updateUp()
	}
}

// add appends the entry to this node. If this node is already full, it is
// split instead, and the new sibling is recursively added to the parent,
// which may itself split, cascading up to and including the root.
func (n *node) add(entry any) {
	if len(n.children) < n.tree.nmax {
		n.appendChild(entry)
		n.expandUp(n.tree.boundsOf(entry))
		return
	}

	sibling := n.split(entry)

	// split leaves this node's bounds tight, so recomputing them here
	// reports no change. The ancestors still hold pre-split bounds that
	// may not cover the new entry when its group stayed in this node, so
	// they must be recomputed unconditionally, not behind the early-stop.
	n.update()
	if n.parent != nil {
		n.parent.updateUp()
	}

	// A split root gets a new root one level higher with the old root and
	// its sibling as the only two children.
	if n.parent == nil {
		root := newNode(n.tree, n.level+1)
		n.tree.root = root
		root.add(n)
	}
	n.parent.add(sibling)
}

// split divides this node's children plus the specified entry between this
// node and a new sibling, using Guttman's quadratic method, and returns the
// sibling. The sibling has no parent yet; the caller adds it to this node's
// parent.
func (n *node) split(entry any) *node {
	cand := make([]any, 0, len(n.children)+1)
	cand = append(cand, n.children...)
	cand = append(cand, entry)
	bounds := make([]*geom.Box, len(cand))
	for i := range cand {
		bounds[i] = n.tree.boundsOf(cand[i])
	}

	node1 := n
	node1.children = node1.children[:0]
	node1.bounds = geom.EmptyBox(n.tree.ndim)
	node2 := newNode(n.tree, n.level)

	// Seed each group with one of the two entries that waste the most
	// volume when covered together.
	dmax := math.Inf(-1)
	imax, jmax := -1, -1
	for i := 0; i < len(cand); i++ {
		vi := bounds[i].Volume()
		for j := i + 1; j < len(cand); j++ {
			d := bounds[j].VolumeDelta(bounds[i]) - vi
			if d > dmax {
				dmax = d
				imax = i
				jmax = j
			}
		}
	}
	assign := func(group *node, k int) {
		group.appendChild(cand[k])
		group.bounds.Expand(bounds[k])
	}
	assign(node1, imax)
	assign(node2, jmax)

	remaining := make([]int, 0, len(cand)-2)
	for i := range cand {
		if i != imax && i != jmax {
			remaining = append(remaining, i)
		}
	}

	for len(remaining) > 0 {
		// If one group needs every remaining entry to reach its floor,
		// it gets them all, in any order.
		if len(remaining)+node1.size() <= n.tree.nmin {
			for _, k := range remaining {
				assign(node1, k)
			}
			break
		}
		if len(remaining)+node2.size() <= n.tree.nmin {
			for _, k := range remaining {
				assign(node2, k)
			}
			break
		}

		// Pick the entry with the strongest preference for either group.
		next := 0
		dmax = math.Inf(-1)
		for i, k := range remaining {
			d1 := node1.bounds.VolumeDelta(bounds[k])
			d2 := node2.bounds.VolumeDelta(bounds[k])
			d := math.Abs(d1 - d2)
			if d > dmax {
				dmax = d
				next = i
			}
		}
		k := remaining[next]
		remaining = append(remaining[:next], remaining[next+1:]...)

		// Assign to the group with the smaller volume increase, then the
		// smaller volume, then the smaller size.
		d1 := node1.bounds.VolumeDelta(bounds[k])
		d2 := node2.bounds.VolumeDelta(bounds[k])
		switch {
		case d1 < d2:
			assign(node1, k)
		case d1 > d2:
			assign(node2, k)
		case node1.bounds.Volume() < node2.bounds.Volume():
			assign(node1, k)
		case node1.bounds.Volume() > node2.bounds.Volume():
			assign(node2, k)
		case node1.size() <= node2.size():
			assign(node1, k)
		default:
			assign(node2, k)
		}
	}

	return node2
}

// chooseNodeFor descends to the node that should hold the specified entry.
// The chosen node has a level one greater than the entry's level; opaque
// objects land on leaves, reinserted orphan nodes land higher up.
//
// At each step the child needing the least increase in volume wins; ties go
// to the child with the smaller volume.
func (n *node) chooseNodeFor(entry any) *node {
	level := 1 + n.tree.levelOf(entry)
	if n.level == level {
		return n
	}
	eb := n.tree.boundsOf(entry)
	var chosen *node
	dmin := math.Inf(1)
	vmin := math.Inf(1)
	for _, c := range n.children {
		child := c.(*node)
		d := child.bounds.VolumeDelta(eb)
		if d <= dmin {
			v := child.bounds.Volume()
			if d < dmin || v < vmin {
				chosen = child
				dmin = d
				vmin = v
			}
		}
	}
	return chosen.chooseNodeFor(entry)
}

// findLeafWith finds the leaf node holding the specified object, pruning
// subtrees whose bounds do not overlap the object's bounds. Returns nil if
// the object is not in this subtree.
func (n *node) findLeafWith(object any, ob *geom.Box) *node {
	if n.isLeaf() {
		if n.indexOf(object) >= 0 {
			return n
		}
		return nil
	}
	for _, c := range n.children {
		child := c.(*node)
		if child.bounds.Overlaps(ob) {
			if leaf := child.findLeafWith(object, ob); leaf != nil {
				return leaf
			}
		}
	}
	return nil
}

// remove deletes the entry from this node's child list. A non-root node left
// under its floor moves its remaining children to the orphan list and
// recursively removes itself from its parent; the caller reinserts the
// orphans after the recursion unwinds.
func (n *node) remove(entry any, orphans *[]any) {
	i := n.indexOf(entry)
	if i < 0 {
		panic("index: entry is not a child of this node")
	}
	n.children = append(n.children[:i], n.children[i+1:]...)

	if len(n.children) >= n.tree.nmin || n.parent == nil {
		n.updateUp()
		return
	}

	*orphans = append(*orphans, n.children...)
	n.children = n.children[:0]
	n.parent.remove(n, orphans)
}

// findOverlapping appends to list every object in this subtree whose bounds
// overlap the query box, pruning nodes whose bounds do not.
func (n *node) findOverlapping(query *geom.Box, list *[]any) {
	for _, c := range n.children {
		if n.tree.boundsOf(c).Overlaps(query) {
			if n.isLeaf() {
				*list = append(*list, c)
			} else {
				c.(*node).findOverlapping(query, list)
			}
		}
	}
}

// findInSphere appends to list every object in this subtree within the
// sphere. Nodes prune on box distance, a lower bound for the true object
// distance tested at the leaves.
func (n *node) findInSphere(center []float64, radiusSquared float64, list *[]any) {
	for _, c := range n.children {
		if n.tree.distanceSquared(c, center) <= radiusSquared {
			if n.isLeaf() {
				*list = append(*list, c)
			} else {
				c.(*node).findInSphere(center, radiusSquared, list)
			}
		}
	}
}

// findNearest recursively updates the working set with this subtree's
// objects. Children of internal nodes are visited in order of increasing
// box distance; a child at or beyond the current cutoff is pruned together
// with its whole subtree.
func (n *node) findNearest(ns *nearestSet) {
	if n.isLeaf() {
		for _, c := range n.children {
			ns.update(c, n.tree.boxer.DistanceSquared(c, ns.point))
		}
		return
	}

	type childDistance struct {
		child    *node
		distance float64
	}
	sorted := make([]childDistance, len(n.children))
	for i, c := range n.children {
		child := c.(*node)
		sorted[i] = childDistance{child, child.bounds.DistanceSquared(ns.point)}
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].distance < sorted[j].distance
	})

	for _, cd := range sorted {
		if cd.distance < ns.cutoff {
			cd.child.findNearest(ns)
		}
	}
}

// leafVolume returns the sum of the volumes of all leaf node boxes in this
// subtree.
func (n *node) leafVolume() float64 {
	if n.isLeaf() {
		return n.bounds.Volume()
	}
	v := 0.0
	for _, c := range n.children {
		v += c.(*node).leafVolume()
	}
	return v
}

// leafArea returns the sum of the areas of all leaf node boxes in this
// subtree.
func (n *node) leafArea() float64 {
	if n.isLeaf() {
		return n.bounds.Area()
	}
	a := 0.0
	for _, c := range n.children {
		a += c.(*node).leafArea()
	}
	return a
}

// dump writes this subtree to w, indented by depth.
func (n *node) dump(w io.Writer, depth int) {
	fmt.Fprintf(w, "%*slevel=%d size=%d bounds=%v\n",
		2*depth, "", n.level, len(n.children), n.bounds)
	for _, c := range n.children {
		if child, ok := c.(*node); ok {
			child.dump(w, depth+1)
		} else {
			fmt.Fprintf(w, "%*s%v\n", 2*(depth+1), "", c)
		}
	}
}

// validate re-checks every structural invariant of this subtree and returns
// a descriptive error for the first violation found.
func (n *node) validate() error {
	if n.parent == nil && n != n.tree.root {
		return fmt.Errorf("index: node without parent is not the root")
	}
	if n != n.tree.root {
		if len(n.children) < n.tree.nmin {
			return fmt.Errorf("index: node at level %d has %d children, below floor %d",
				n.level, len(n.children), n.tree.nmin)
		}
	} else if !n.isLeaf() && len(n.children) < 2 {
		return fmt.Errorf("index: non-leaf root has %d children, expected at least 2",
			len(n.children))
	}
	if len(n.children) > n.tree.nmax {
		return fmt.Errorf("index: node at level %d has %d children, above ceiling %d",
			n.level, len(n.children), n.tree.nmax)
	}

	tight := geom.EmptyBox(n.tree.ndim)
	for _, c := range n.children {
		if !n.isLeaf() {
			child, ok := c.(*node)
			if !ok {
				return fmt.Errorf("index: non-leaf node at level %d holds an object", n.level)
			}
			if child.parent != n {
				return fmt.Errorf("index: child at level %d has a stale parent pointer", child.level)
			}
			if child.level != n.level-1 {
				return fmt.Errorf("index: child of level-%d node is at level %d", n.level, child.level)
			}
			if err := child.validate(); err != nil {
				return err
			}
		}
		tight.Expand(n.tree.boundsOf(c))
	}
	if !tight.Equal(n.bounds) {
		return fmt.Errorf("index: node at level %d has bounds %v, children cover %v",
			n.level, n.bounds, tight)
	}
	return nil
}

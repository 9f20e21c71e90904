package index

import "errors"

var (
	// ErrConcurrentModification is returned by Iterator.Next after any
	// structural change to the tree since the iterator was created.
	ErrConcurrentModification = errors.New("index: tree modified during iteration")

	// ErrIteratorExhausted is returned by Iterator.Next once every object
	// has been returned. Use HasNext to detect the end without an error.
	ErrIteratorExhausted = errors.New("index: iterator exhausted")
)

// Iterator walks all objects in the tree in leaf layout order, depth-first,
// first child first. It is fail-fast: a snapshot of the tree's modification
// counter is taken at creation and compared on every Next call. Iterators do
// not support removal.
type Iterator struct {
	tree        *Tree
	leaf        *node // current leaf node
	ibox        int   // index of next object in current leaf
	next        any
	expectedMod int
}

// Iterator returns an iterator over all objects in this tree.
func (t *Tree) Iterator() *Iterator {
	leaf := t.root
	for !leaf.isLeaf() {
		leaf = leaf.children[0].(*node)
	}
	it := &Iterator{
		tree:        t,
		leaf:        leaf,
		expectedMod: t.modCount,
	}
	if len(leaf.children) > 0 {
		it.next = leaf.children[0]
	}
	return it
}

// HasNext reports whether another object remains.
func (it *Iterator) HasNext() bool {
	return it.next != nil
}

// Next returns the next object. It returns ErrIteratorExhausted past the end
// and ErrConcurrentModification if the tree has been structurally modified
// since the iterator was created.
func (it *Iterator) Next() (any, error) {
	if it.next == nil {
		return nil, ErrIteratorExhausted
	}
	if it.expectedMod != it.tree.modCount {
		return nil, ErrConcurrentModification
	}
	object := it.next
	it.loadNext()
	return object, nil
}

// loadNext advances to the next object. When the current leaf is spent, walk
// up until an unvisited sibling branch exists, then down its first-child
// spine to a new leaf. If every branch of the root has been visited,
// iteration is complete.
func (it *Iterator) loadNext() {
	it.ibox++
	if it.ibox == len(it.leaf.children) {
		n := it.leaf
		parent := n
		for n == parent && parent != it.tree.root {
			parent = n.parent
			i := 1 + parent.indexOf(n)
			if i < len(parent.children) {
				n = parent.children[i].(*node)
				for !n.isLeaf() {
					n = n.children[0].(*node)
				}
				it.leaf = n
				it.ibox = 0
			} else {
				n = parent
			}
		}
	}
	if it.ibox < len(it.leaf.children) {
		it.next = it.leaf.children[it.ibox]
	} else {
		it.next = nil
	}
}

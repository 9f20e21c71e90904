package index

import (
	"math"
	"sort"
)

// AddPacked inserts the objects in a packed order and returns the number
// actually added. Packing recursively sorts the batch by center coordinate,
// one dimension at a time, and carves it into contiguous slabs sized so that
// leaves come out roughly cubic. The resulting tree tends to have lower
// overlap and query fan-out than one built by inserting in arbitrary order,
// but every insertion still goes through the normal path, so the tree is
// valid either way. Packing works best for a batch of similarly sized,
// uniformly distributed objects added to an empty tree.
func (t *Tree) AddPacked(objects []any) int {
	before := t.size

	n := len(objects)
	index := make([]int, n)
	centers := make([][]float64, t.ndim)
	for idim := range centers {
		centers[idim] = make([]float64, n)
	}
	for i, object := range objects {
		if object == nil {
			panic("index: nil object added to tree")
		}
		index[i] = i
		b := t.checkBounds(t.boxer.Bounds(object))
		for idim := 0; idim < t.ndim; idim++ {
			centers[idim][i] = b.Center(idim)
		}
	}

	t.addPacked(0, centers, 0, n, index, objects)
	return t.size - before
}

func (t *Tree) addPacked(idim int, x [][]float64, p, q int, index []int, objects []any) {
	if p >= q {
		return
	}

	// Packed for all dimensions; insert the slab.
	kdim := t.ndim - idim
	if kdim == 0 {
		for i := p; i < q; i++ {
			t.Add(objects[index[i]])
		}
		return
	}

	// Sort the slab by object center along the current dimension.
	slab := index[p:q]
	xs := x[idim]
	sort.SliceStable(slab, func(i, j int) bool {
		return xs[slab[i]] < xs[slab[j]]
	})

	// The slab ultimately needs nleaf leaf nodes; spreading them evenly
	// over the remaining dimensions wants nslab sub-slabs here.
	nsort := q - p
	nleaf := (nsort + t.nmax - 1) / t.nmax
	nslab := int(math.Ceil(math.Pow(float64(nleaf), 1.0/float64(kdim))))
	mslab := (nsort + nslab - 1) / nslab

	for pslab := p; pslab < q; pslab += mslab {
		qslab := pslab + mslab
		if qslab > q {
			qslab = q
		}
		t.addPacked(idim+1, x, pslab, qslab, index, objects)
	}
}

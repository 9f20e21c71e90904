package index

import (
	"math"
	"sort"
)

// objectDistance pairs an object with its distance-squared to the query
// point. The sequence number breaks exact distance ties by arrival order, so
// equidistant objects sort deterministically for a fixed traversal.
type objectDistance struct {
	object   any
	distance float64
	seq      int
}

// nearestSet is the bounded sorted working set for k-nearest queries. It
// holds at most k objects ordered by increasing distance. The first k
// candidates always enter the set; after that, a candidate replaces the
// current worst entry only if strictly closer. The cutoff is the distance of
// the k'th entry, or +Inf until the set is full, and is what traversal uses
// to prune subtrees.
type nearestSet struct {
	k      int
	point  []float64
	set    []objectDistance
	cutoff float64
	seq    int
}

func newNearestSet(k int, point []float64) *nearestSet {
	return &nearestSet{
		k:      k,
		point:  point,
		set:    make([]objectDistance, 0, k),
		cutoff: math.Inf(1),
	}
}

// update offers a candidate object at the specified distance-squared.
func (ns *nearestSet) update(object any, distance float64) {
	if distance >= ns.cutoff {
		return
	}
	if len(ns.set) == ns.k {
		ns.set = ns.set[:len(ns.set)-1]
	}
	od := objectDistance{object, distance, ns.seq}
	ns.seq++
	i := sort.Search(len(ns.set), func(i int) bool {
		if ns.set[i].distance != od.distance {
			return ns.set[i].distance > od.distance
		}
		return ns.set[i].seq > od.seq
	})
	ns.set = append(ns.set, objectDistance{})
	copy(ns.set[i+1:], ns.set[i:])
	ns.set[i] = od
	if len(ns.set) == ns.k {
		ns.cutoff = ns.set[len(ns.set)-1].distance
	}
}

// objects returns the collected objects, ordered by increasing distance.
func (ns *nearestSet) objects() []any {
	out := make([]any, len(ns.set))
	for i, od := range ns.set {
		out[i] = od.object
	}
	return out
}

package geom

// Boxed is an N-dimensional object that can report its own bounds. While an
// object is in an index, its bounds must not change; the index never
// re-validates them.
type Boxed interface {

	// Bounds returns the min/max coordinate bounds of this object.
	Bounds() *Box

	// DistanceSquared returns the distance-squared from this object to a
	// point. Note that this is typically not the distance from the object's
	// bounds to the point; it is the distance from the object within those
	// bounds, and so may exceed the bounds distance.
	DistanceSquared(point []float64) float64
}

// Boxer gets bounds and computes distances for objects stored in an index.
// It exists for objects that cannot implement Boxed themselves; an index
// constructed with a Boxer routes every bounds and distance computation
// through it, even for objects that happen to be Boxed.
type Boxer interface {
	Bounds(object any) *Box
	DistanceSquared(object any, point []float64) float64
}

// DefaultBoxer assumes all stored objects are Boxed. It panics when handed
// anything else, which is a caller precondition violation.
type DefaultBoxer struct{}

func (DefaultBoxer) Bounds(object any) *Box {
	return object.(Boxed).Bounds()
}

func (DefaultBoxer) DistanceSquared(object any, point []float64) float64 {
	return object.(Boxed).DistanceSquared(point)
}

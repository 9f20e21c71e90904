package geom

import (
	"fmt"
	"math"
	"strings"
)

// Box is an axis-aligned N-dimensional box defined by min/max coordinates.
// Degenerate boxes with Min[d]==Max[d] are valid and represent points.
type Box struct {
	min []float64
	max []float64
}

// NewBox constructs an N-dimensional box from min/max coordinates, where N is
// the length of the coordinate slices. The slices are copied.
func NewBox(min, max []float64) *Box {
	if len(min) != len(max) {
		panic("geom: min/max lengths differ")
	}
	b := &Box{
		min: make([]float64, len(min)),
		max: make([]float64, len(max)),
	}
	copy(b.min, min)
	copy(b.max, max)
	return b
}

// NewBox2D constructs a 2-dimensional box.
func NewBox2D(xmin, ymin, xmax, ymax float64) *Box {
	return &Box{
		min: []float64{xmin, ymin},
		max: []float64{xmax, ymax},
	}
}

// NewBox3D constructs a 3-dimensional box.
func NewBox3D(xmin, ymin, zmin, xmax, ymax, zmax float64) *Box {
	return &Box{
		min: []float64{xmin, ymin, zmin},
		max: []float64{xmax, ymax, zmax},
	}
}

// EmptyBox constructs an inverted box that covers nothing. Expanding it by
// any box yields that box, so it is the identity for Expand.
func EmptyBox(ndim int) *Box {
	b := &Box{
		min: make([]float64, ndim),
		max: make([]float64, ndim),
	}
	for idim := 0; idim < ndim; idim++ {
		b.min[idim] = math.Inf(1)
		b.max[idim] = math.Inf(-1)
	}
	return b
}

// Ndim returns the number of dimensions.
func (b *Box) Ndim() int {
	return len(b.min)
}

// Min returns the min coordinate for the specified dimension.
func (b *Box) Min(idim int) float64 {
	return b.min[idim]
}

// Max returns the max coordinate for the specified dimension.
func (b *Box) Max(idim int) float64 {
	return b.max[idim]
}

// Center returns the center coordinate for the specified dimension.
func (b *Box) Center(idim int) float64 {
	return 0.5 * (b.min[idim] + b.max[idim])
}

// Bounds returns this box, so that *Box satisfies Boxed.
func (b *Box) Bounds() *Box {
	return b
}

// DistanceSquared returns the distance-squared from this box to a point.
// Coordinates inside the interval for a dimension contribute nothing.
func (b *Box) DistanceSquared(point []float64) float64 {
	sum := 0.0
	for idim := range b.min {
		p := point[idim]
		s := b.min[idim]
		t := b.max[idim]
		var d float64
		if p < s {
			d = p - s
		} else if p > t {
			d = p - t
		}
		sum += d * d
	}
	return sum
}

// Overlaps reports whether this box overlaps the specified box. The interval
// test must pass in every dimension; touching boxes overlap.
func (b *Box) Overlaps(other *Box) bool {
	for idim := range b.min {
		if b.min[idim] > other.max[idim] || b.max[idim] < other.min[idim] {
			return false
		}
	}
	return true
}

// Volume returns the product of the extents over all dimensions.
func (b *Box) Volume() float64 {
	v := 1.0
	for idim := range b.min {
		v *= b.max[idim] - b.min[idim]
	}
	return v
}

// Area returns the surface measure of this box, the sum over dimensions of
// twice the volume divided by the extent in that dimension.
func (b *Box) Area() float64 {
	v := b.Volume()
	area := 0.0
	for idim := range b.min {
		d := b.max[idim] - b.min[idim]
		area += 2.0 * v / d
	}
	return area
}

// Expand grows this box in place, if necessary, to cover the specified box.
// It reports whether this box changed.
func (b *Box) Expand(other *Box) bool {
	changed := false
	for idim := range b.min {
		if other.min[idim] < b.min[idim] {
			b.min[idim] = other.min[idim]
			changed = true
		}
		if other.max[idim] > b.max[idim] {
			b.max[idim] = other.max[idim]
			changed = true
		}
	}
	return changed
}

// VolumeDelta returns the increase in volume of this box were it expanded to
// cover the specified box.
func (b *Box) VolumeDelta(other *Box) float64 {
	vnew := 1.0
	vold := 1.0
	for idim := range b.min {
		amin := b.min[idim]
		amax := b.max[idim]
		vold *= amax - amin
		if other.min[idim] < amin {
			amin = other.min[idim]
		}
		if other.max[idim] > amax {
			amax = other.max[idim]
		}
		vnew *= amax - amin
	}
	return vnew - vold
}

// Equal reports whether this box has exactly the same bounds as the other.
func (b *Box) Equal(other *Box) bool {
	for idim := range b.min {
		if b.min[idim] != other.min[idim] || b.max[idim] != other.max[idim] {
			return false
		}
	}
	return true
}

// Clone returns a copy of this box that shares no storage with it.
func (b *Box) Clone() *Box {
	return NewBox(b.min, b.max)
}

func (b *Box) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for idim := range b.min {
		if idim > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%g:%g", b.min[idim], b.max[idim])
	}
	sb.WriteByte(']')
	return sb.String()
}

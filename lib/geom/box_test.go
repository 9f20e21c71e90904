package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBoxOverlaps(t *testing.T) {
	a := NewBox2D(0, 0, 2, 2)

	t.Run("overlapping boxes", func(t *testing.T) {
		assert.True(t, a.Overlaps(NewBox2D(1, 1, 3, 3)))
		assert.True(t, NewBox2D(1, 1, 3, 3).Overlaps(a))
	})

	t.Run("contained box", func(t *testing.T) {
		assert.True(t, a.Overlaps(NewBox2D(0.5, 0.5, 1.5, 1.5)))
	})

	t.Run("touching boxes overlap", func(t *testing.T) {
		assert.True(t, a.Overlaps(NewBox2D(2, 2, 3, 3)))
	})

	t.Run("disjoint in one dimension", func(t *testing.T) {
		// overlaps in x only
		assert.False(t, a.Overlaps(NewBox2D(1, 3, 2, 4)))
		// overlaps in y only
		assert.False(t, a.Overlaps(NewBox2D(3, 1, 4, 2)))
	})
}

func TestBoxDistanceSquared(t *testing.T) {
	b := NewBox2D(1, 1, 3, 3)

	assert.Equal(t, 0.0, b.DistanceSquared([]float64{2, 2}), "interior point")
	assert.Equal(t, 0.0, b.DistanceSquared([]float64{1, 3}), "corner point")
	assert.Equal(t, 1.0, b.DistanceSquared([]float64{0, 2}), "one dimension outside")
	assert.Equal(t, 2.0, b.DistanceSquared([]float64{0, 0}), "diagonal corner")
	assert.Equal(t, 8.0, b.DistanceSquared([]float64{5, 5}))
}

func TestBoxVolumeAndArea(t *testing.T) {
	b := NewBox2D(0, 0, 3, 2)
	assert.Equal(t, 6.0, b.Volume())
	assert.Equal(t, 2.0*6.0/3.0+2.0*6.0/2.0, b.Area())

	cube := NewBox3D(0, 0, 0, 2, 2, 2)
	assert.Equal(t, 8.0, cube.Volume())
	assert.Equal(t, 24.0, cube.Area())
}

func TestDegeneratePointBox(t *testing.T) {
	p := NewBox2D(1, 1, 1, 1)
	assert.Equal(t, 0.0, p.Volume())
	assert.True(t, p.Overlaps(NewBox2D(0, 0, 2, 2)))
	assert.Equal(t, 2.0, p.DistanceSquared([]float64{2, 2}))
}

func TestBoxExpand(t *testing.T) {
	b := NewBox2D(0, 0, 1, 1)

	changed := b.Expand(NewBox2D(2, 2, 3, 3))
	assert.True(t, changed)
	assert.True(t, b.Equal(NewBox2D(0, 0, 3, 3)))

	// already covered, no change
	changed = b.Expand(NewBox2D(1, 1, 2, 2))
	assert.False(t, changed)
	assert.True(t, b.Equal(NewBox2D(0, 0, 3, 3)))
}

func TestEmptyBoxIsExpandIdentity(t *testing.T) {
	e := EmptyBox(2)
	b := NewBox2D(-1, -2, 3, 4)
	e.Expand(b)
	assert.True(t, e.Equal(b))
}

func TestBoxVolumeDelta(t *testing.T) {
	b := NewBox2D(0, 0, 1, 1)
	assert.Equal(t, 0.0, b.VolumeDelta(NewBox2D(0.2, 0.2, 0.8, 0.8)))
	assert.Equal(t, 3.0, b.VolumeDelta(NewBox2D(0, 0, 2, 2)))
	// the box itself is unchanged
	assert.True(t, b.Equal(NewBox2D(0, 0, 1, 1)))
}

func TestBoxCenter(t *testing.T) {
	b := NewBox2D(0, 2, 4, 8)
	assert.Equal(t, 2.0, b.Center(0))
	assert.Equal(t, 5.0, b.Center(1))
}

func TestNewBoxCopiesCoordinates(t *testing.T) {
	min := []float64{0, 0}
	max := []float64{1, 1}
	b := NewBox(min, max)
	min[0] = 99
	assert.Equal(t, 0.0, b.Min(0))
}

func TestNewBoxDimensionMismatchPanics(t *testing.T) {
	assert.Panics(t, func() {
		NewBox([]float64{0}, []float64{1, 2})
	})
}

func TestDefaultBoxer(t *testing.T) {
	var boxer Boxer = DefaultBoxer{}
	b := NewBox2D(0, 0, 1, 1)

	assert.True(t, boxer.Bounds(b).Equal(b))
	assert.Equal(t, b.DistanceSquared([]float64{2, 0.5}), boxer.DistanceSquared(b, []float64{2, 0.5}))

	assert.Panics(t, func() {
		boxer.Bounds("not boxed")
	})
	assert.False(t, math.IsNaN(boxer.DistanceSquared(b, []float64{0.5, 0.5})))
}

package index

import (
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lintang-b-s/boxtree/lib/geom"
)

func TestFindNearestEmptyTree(t *testing.T) {
	rt, err := NewTree(2, 2, 4)
	require.NoError(t, err)

	assert.Nil(t, rt.FindNearest([]float64{0, 0}))
	assert.Empty(t, rt.FindKNearest(1, []float64{0, 0}))
}

func TestFindKNearestMatchesBruteForce(t *testing.T) {
	rt, err := NewTree(2, 3, 9)
	require.NoError(t, err)
	ln := newLinearIndex()

	faker := gofakeit.New(11)
	for i := 0; i < 500; i++ {
		b := randomBox(faker, 2, 0.2)
		rt.Add(b)
		ln.add(b)
	}
	require.NoError(t, rt.Validate())

	boxer := geom.DefaultBoxer{}
	for i := 0; i < 50; i++ {
		point := []float64{faker.Float64Range(0, 1), faker.Float64Range(0, 1)}
		for _, k := range []int{1, 3, 10} {
			rb := rt.FindKNearest(k, point)
			sb := ln.findNearest(k, point)
			require.Equal(t, len(sb), len(rb))

			// Equidistant objects may order differently between the two
			// indexes, so compare the distance sequences.
			for j := range rb {
				assert.Equal(t,
					boxer.DistanceSquared(sb[j], point),
					boxer.DistanceSquared(rb[j], point),
					"k=%d neighbor %d", k, j)
			}
		}
	}
}

func TestFindKNearestOrderedAscending(t *testing.T) {
	rt, err := NewTree(2, 2, 4)
	require.NoError(t, err)

	faker := gofakeit.New(12)
	for i := 0; i < 200; i++ {
		rt.Add(randomBox(faker, 2, 0.1))
	}

	point := []float64{0.5, 0.5}
	nearest := rt.FindKNearest(20, point)
	require.Len(t, nearest, 20)

	boxer := geom.DefaultBoxer{}
	prev := 0.0
	for _, o := range nearest {
		d := boxer.DistanceSquared(o, point)
		assert.GreaterOrEqual(t, d, prev)
		prev = d
	}
}

func TestFindKNearestFewerThanK(t *testing.T) {
	rt, err := NewTree(2, 2, 4)
	require.NoError(t, err)

	b1 := geom.NewBox2D(0, 0, 1, 1)
	b2 := geom.NewBox2D(3, 3, 4, 4)
	rt.Add(b1)
	rt.Add(b2)

	nearest := rt.FindKNearest(10, []float64{0, 0})
	require.Len(t, nearest, 2)
	assert.Equal(t, b1, nearest[0])
	assert.Equal(t, b2, nearest[1])
}

func TestFindKNearestUsesTrueObjectDistance(t *testing.T) {
	// Two objects whose bounds both contain the query point: the boxes tie
	// at distance zero, but the true object distances differ.
	rt, err := NewTreeWithBoxer(2, 2, 4, placeBoxer{tol: 10})
	require.NoError(t, err)

	near := place{"near", 1, 1}
	far := place{"far", 4, 4}
	rt.Add(near)
	rt.Add(far)

	nearest := rt.FindKNearest(2, []float64{0, 0})
	require.Len(t, nearest, 2)
	assert.Equal(t, near, nearest[0])
	assert.Equal(t, far, nearest[1])
}

func TestFindKNearestInvalidK(t *testing.T) {
	rt, err := NewTree(2, 2, 4)
	require.NoError(t, err)

	assert.Panics(t, func() { rt.FindKNearest(0, []float64{0, 0}) })
	assert.Panics(t, func() { rt.FindKNearest(-1, []float64{0, 0}) })
}

func TestNearestSetCutoffAndTies(t *testing.T) {
	ns := newNearestSet(2, []float64{0, 0})
	a, b, c := "a", "b", "c"

	ns.update(a, 4)
	ns.update(b, 1)
	assert.Equal(t, []any{b, a}, ns.objects())
	assert.Equal(t, 4.0, ns.cutoff)

	// not strictly closer than the worst entry
	ns.update(c, 4)
	assert.Equal(t, []any{b, a}, ns.objects())

	ns.update(c, 1)
	assert.Equal(t, []any{b, c}, ns.objects(), "exact ties keep arrival order")
	assert.Equal(t, 1.0, ns.cutoff)
}

package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func star(name string, x, y, z float64) StarNode {
	return StarNode{ID: "id-" + name, Name: name, Position: Point3D{X: x, Y: y, Z: z}}
}

func TestRouteShapeAddLinkKeepsInvariant(t *testing.T) {
	shape := NewRouteShape("test", "#ffffff", 1)
	for n := 1; n <= 5; n++ {
		require.NoError(t, shape.AddLink(star("S", float64(n), 0, 0), 1))
		assert.Len(t, shape.Coordinates, n)
		assert.Len(t, shape.StarIDs, n)
		assert.Len(t, shape.SegmentLengths, n-1)
	}
	assert.InDelta(t, 4.0, shape.TotalLength(), 1e-9)
}

func TestRouteShapeRemoveLast(t *testing.T) {
	shape := NewRouteShape("test", "", 0)
	require.NoError(t, shape.AddLink(star("Sol", 0, 0, 0), 0))
	require.NoError(t, shape.AddLink(star("Alpha", 4, 0, 0), 4))
	require.NoError(t, shape.AddLink(star("Sirius", 8, 0, 0), 4))

	seed, err := shape.RemoveLast()
	require.NoError(t, err)
	assert.False(t, seed)
	assert.Equal(t, []string{"Sol", "Alpha"}, shape.StarNames)
	assert.Equal(t, []float64{4}, shape.SegmentLengths)

	seed, err = shape.RemoveLast()
	require.NoError(t, err)
	assert.True(t, seed)
	assert.Len(t, shape.Coordinates, 1)
	assert.Empty(t, shape.SegmentLengths)
}

func TestRouteShapeFrozenRejectsChanges(t *testing.T) {
	shape := NewRouteShape("test", "", 0)
	require.NoError(t, shape.AddLink(star("Sol", 0, 0, 0), 0))
	shape.Freeze()

	assert.ErrorIs(t, shape.AddLink(star("Alpha", 4, 0, 0), 4), ErrShapeFrozen)
	_, err := shape.RemoveLast()
	assert.ErrorIs(t, err, ErrShapeFrozen)
}

func TestRouteShapeCloneIsIndependent(t *testing.T) {
	shape := NewRouteShape("test", "", 0)
	require.NoError(t, shape.AddLink(star("Sol", 0, 0, 0), 0))
	clone := shape.Clone()
	require.NoError(t, shape.AddLink(star("Alpha", 4, 0, 0), 4))

	assert.Len(t, clone.Coordinates, 1)
	assert.Equal(t, shape.ID, clone.ID)
}

func TestRouteQueryValidate(t *testing.T) {
	valid := RouteQuery{Origin: "Sol", Destination: "Sirius", LowerBound: 0.5, UpperBound: 5, NumberOfPaths: 3}
	require.NoError(t, valid.Validate())

	cases := map[string]func(q *RouteQuery){
		"missing origin":      func(q *RouteQuery) { q.Origin = " " },
		"missing destination": func(q *RouteQuery) { q.Destination = "" },
		"same endpoints":      func(q *RouteQuery) { q.Destination = "Sol" },
		"negative bound":      func(q *RouteQuery) { q.LowerBound = -1 },
		"inverted bounds":     func(q *RouteQuery) { q.LowerBound = 6 },
		"no paths wanted":     func(q *RouteQuery) { q.NumberOfPaths = 0 },
		"NaN lower bound":     func(q *RouteQuery) { q.LowerBound = math.NaN() },
		"NaN upper bound":     func(q *RouteQuery) { q.UpperBound = math.NaN() },
		"infinite upper":      func(q *RouteQuery) { q.UpperBound = math.Inf(1) },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			q := valid
			mutate(&q)
			assert.ErrorIs(t, q.Validate(), ErrInvalidQuery)
		})
	}
}

func TestSpectralType(t *testing.T) {
	assert.Equal(t, "M", StarNode{SpectralClass: "M4.5V"}.SpectralType())
	assert.Equal(t, "", StarNode{SpectralClass: "  "}.SpectralType())
	assert.Equal(t, "", StarNode{}.SpectralType())
}

func TestParseRoutingMode(t *testing.T) {
	mode, err := ParseRoutingMode("Manual")
	require.NoError(t, err)
	assert.Equal(t, RoutingManual, mode)
	assert.Equal(t, "manual", mode.String())

	_, err = ParseRoutingMode("orbital")
	assert.Error(t, err)
}

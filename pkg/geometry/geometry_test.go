package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntersectStraightDown(t *testing.T) {
	ray := Ray{Origin: Point3{Z: 10}, Direction: Point3{Z: -1}}

	res := Intersect(ray, GroundPlane)

	require.True(t, res.Hit)
	assert.Equal(t, Point3{}, res.Point)
}

func TestIntersectPointingAway(t *testing.T) {
	ray := Ray{Origin: Point3{Z: 10}, Direction: Point3{Z: 1}}

	res := Intersect(ray, GroundPlane)

	assert.False(t, res.Hit)
}

func TestIntersectParallel(t *testing.T) {
	ray := Ray{Origin: Point3{Z: 1}, Direction: Point3{X: 1, Y: 1}}

	assert.False(t, Intersect(ray, GroundPlane).Hit)
}

func TestIntersectOriginOnPlane(t *testing.T) {
	ray := Ray{Origin: Point3{X: 3, Y: 4}, Direction: Point3{X: 1, Z: -1}}

	res := Intersect(ray, GroundPlane)

	require.True(t, res.Hit)
	assert.Equal(t, Point3{X: 3, Y: 4}, res.Point)
}

func TestIntersectObliqueAndOffsetPlane(t *testing.T) {
	// dot(n, p) + offset = 0 with offset -2 is the plane z = 2
	plane := Plane{Normal: Point3{Z: 1}, Offset: -2}
	ray := Ray{Origin: Point3{X: 0, Y: 0, Z: 6}, Direction: Point3{X: 1, Y: 2, Z: -2}}

	res := Intersect(ray, plane)

	require.True(t, res.Hit)
	assert.InDelta(t, 2.0, res.Point.X, 1e-12)
	assert.InDelta(t, 4.0, res.Point.Y, 1e-12)
	assert.InDelta(t, 2.0, res.Point.Z, 1e-12)
}

func TestIntersectNonUnitDirection(t *testing.T) {
	ray := Ray{Origin: Point3{X: 1, Y: 1, Z: 5}, Direction: Point3{Z: -100}}

	res := Intersect(ray, GroundPlane)

	require.True(t, res.Hit)
	assert.InDelta(t, 1.0, res.Point.X, 1e-12)
	assert.InDelta(t, 0.0, res.Point.Z, 1e-12)
}

func TestPointIsFinite(t *testing.T) {
	assert.True(t, Point3{X: 1, Y: -2, Z: 3}.IsFinite())
	assert.False(t, Point3{X: math.NaN()}.IsFinite())
	assert.False(t, Point3{Z: math.Inf(1)}.IsFinite())
}

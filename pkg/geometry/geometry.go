// Package geometry holds the world-space value types shared by the viewer and
// the ray/plane intersection used to pick points on the ground.
package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// ParallelEpsilon is the smallest |n·d| treated as a real crossing.
const ParallelEpsilon = 1e-9

// Point3 is a world coordinate.
type Point3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Vec converts p to a gonum vector.
func (p Point3) Vec() r3.Vec { return r3.Vec{X: p.X, Y: p.Y, Z: p.Z} }

// FromVec converts a gonum vector to a Point3.
func FromVec(v r3.Vec) Point3 { return Point3{X: v.X, Y: v.Y, Z: v.Z} }

// IsFinite reports whether every component is a finite number.
func (p Point3) IsFinite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) &&
		!math.IsNaN(p.Y) && !math.IsInf(p.Y, 0) &&
		!math.IsNaN(p.Z) && !math.IsInf(p.Z, 0)
}

// Ray is a half-line starting at Origin. Direction need not be unit length.
type Ray struct {
	Origin    Point3
	Direction Point3
}

// PointAt returns Origin + t*Direction.
func (r Ray) PointAt(t float64) Point3 {
	return FromVec(r3.Add(r.Origin.Vec(), r3.Scale(t, r.Direction.Vec())))
}

// Plane is the set of points p with dot(Normal, p) + Offset = 0.
type Plane struct {
	Normal Point3
	Offset float64
}

// GroundPlane is z = 0 facing up.
var GroundPlane = Plane{Normal: Point3{Z: 1}, Offset: 0}

// PickResult is the outcome of a single pick. Point is meaningful only when Hit is set.
type PickResult struct {
	Hit   bool   `json:"hit"`
	Point Point3 `json:"point"`
}

// Intersect computes where ray crosses plane. A ray parallel to the plane or
// crossing it behind its origin is a miss, not an error.
func Intersect(ray Ray, plane Plane) PickResult {
	n := plane.Normal.Vec()
	denom := r3.Dot(n, ray.Direction.Vec())
	if math.Abs(denom) < ParallelEpsilon {
		return PickResult{}
	}
	t := -(r3.Dot(n, ray.Origin.Vec()) + plane.Offset) / denom
	if t < 0 || math.IsNaN(t) {
		return PickResult{}
	}
	return PickResult{Hit: true, Point: ray.PointAt(t)}
}

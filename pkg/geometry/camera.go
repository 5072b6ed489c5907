package geometry

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// ErrDegenerateCamera is returned when the camera basis cannot be built.
var ErrDegenerateCamera = errors.New("camera position, target and up do not define a view")

// Camera is a pinhole camera. It only answers viewport ray queries; moving it is
// the view controller's job.
type Camera struct {
	Position Point3
	Target   Point3
	Up       Point3
	// FovY is the vertical field of view in radians.
	FovY float64
	// Aspect is viewport width divided by height.
	Aspect float64
}

// NewCamera builds a camera from a vertical field of view given in degrees.
func NewCamera(position, target, up Point3, fovDeg float64) Camera {
	return Camera{
		Position: position,
		Target:   target,
		Up:       up,
		FovY:     fovDeg * math.Pi / 180,
		Aspect:   1,
	}
}

// WithAspect returns a copy of c for a viewport of the given pixel size.
func (c Camera) WithAspect(width, height int) Camera {
	if width > 0 && height > 0 {
		c.Aspect = float64(width) / float64(height)
	}
	return c
}

// basis returns forward, right and true-up unit vectors.
func (c Camera) basis() (forward, right, up r3.Vec, err error) {
	forward = r3.Sub(c.Target.Vec(), c.Position.Vec())
	if r3.Norm(forward) == 0 {
		return forward, right, up, ErrDegenerateCamera
	}
	forward = r3.Unit(forward)
	right = r3.Cross(forward, c.Up.Vec())
	if r3.Norm(right) < ParallelEpsilon {
		return forward, right, up, ErrDegenerateCamera
	}
	right = r3.Unit(right)
	up = r3.Cross(right, forward)
	return forward, right, up, nil
}

// RayAt returns the ray through normalized viewport coordinates (nx, ny), where
// (0, 0) is the top-left corner and (1, 1) the bottom-right one.
func (c Camera) RayAt(nx, ny float64) (Ray, error) {
	forward, right, up, err := c.basis()
	if err != nil {
		return Ray{}, err
	}
	halfH := math.Tan(c.FovY / 2)
	halfW := halfH * c.Aspect

	sx := (2*nx - 1) * halfW
	sy := (1 - 2*ny) * halfH

	dir := r3.Add(forward, r3.Add(r3.Scale(sx, right), r3.Scale(sy, up)))
	return Ray{Origin: c.Position, Direction: FromVec(r3.Unit(dir))}, nil
}

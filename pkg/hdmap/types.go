// Package hdmap models the road network served by the map server and turns it
// into line geometry the display can draw.
package hdmap

import "github.com/hdmap/viewer/pkg/geometry"

// Curve is an ordered list of points.
type Curve []geometry.Point3

// Lane carries the three curves drawn for one lane. Their lengths are
// independent of each other.
type Lane struct {
	ID            string `json:"id"`
	CentralCurve  Curve  `json:"central_curve"`
	LeftBoundary  Curve  `json:"left_boundary"`
	RightBoundary Curve  `json:"right_boundary"`
}

// Section is a stretch of road with a fixed set of lanes.
type Section struct {
	ID    string `json:"id"`
	Lanes []Lane `json:"lanes"`
}

// Road is an ordered list of sections.
type Road struct {
	ID       string    `json:"id"`
	Sections []Section `json:"sections"`
}

// Map is a complete snapshot of the road network. A received Map is never
// modified.
type Map struct {
	StampNs int64  `json:"stamp_ns"`
	Roads   []Road `json:"roads"`
}

// Polyline is a connected line strip in world coordinates.
type Polyline []geometry.Point3

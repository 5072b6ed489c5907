package hdmap

import (
	"fmt"

	"github.com/hdmap/viewer/pkg/geometry"
)

// GridOptions shapes the map produced by SyntheticGrid.
type GridOptions struct {
	Roads           int
	SectionsPerRoad int
	LanesPerSection int
	// LaneWidth and SectionLength are in meters.
	LaneWidth     float64
	SectionLength float64
	// PointsPerCurve is the number of samples per lane curve, at least 2.
	PointsPerCurve int
	// RoadSpacing is the gap between neighbouring roads along Y.
	RoadSpacing float64
}

// DefaultGridOptions is a small map that is still busy enough to look at.
func DefaultGridOptions() GridOptions {
	return GridOptions{
		Roads:           3,
		SectionsPerRoad: 2,
		LanesPerSection: 2,
		LaneWidth:       3.5,
		SectionLength:   50,
		PointsPerCurve:  11,
		RoadSpacing:     20,
	}
}

// SyntheticGrid builds straight roads running along +X, stacked along +Y. It
// stands in for a real map server when running locally.
func SyntheticGrid(opts GridOptions, stampNs int64) *Map {
	if opts.PointsPerCurve < 2 {
		opts.PointsPerCurve = 2
	}
	m := &Map{StampNs: stampNs, Roads: make([]Road, 0, opts.Roads)}
	for r := 0; r < opts.Roads; r++ {
		baseY := float64(r) * opts.RoadSpacing
		road := Road{ID: fmt.Sprintf("road_%d", r)}
		for s := 0; s < opts.SectionsPerRoad; s++ {
			x0 := float64(s) * opts.SectionLength
			section := Section{ID: fmt.Sprintf("road_%d_section_%d", r, s)}
			for l := 0; l < opts.LanesPerSection; l++ {
				right := baseY + float64(l)*opts.LaneWidth
				left := right + opts.LaneWidth
				section.Lanes = append(section.Lanes, Lane{
					ID:            fmt.Sprintf("road_%d_section_%d_lane_%d", r, s, l),
					CentralCurve:  straight(x0, opts.SectionLength, (left+right)/2, opts.PointsPerCurve),
					LeftBoundary:  straight(x0, opts.SectionLength, left, opts.PointsPerCurve),
					RightBoundary: straight(x0, opts.SectionLength, right, opts.PointsPerCurve),
				})
			}
			road.Sections = append(road.Sections, section)
		}
		m.Roads = append(m.Roads, road)
	}
	return m
}

func straight(x0, length, y float64, points int) Curve {
	c := make(Curve, points)
	step := length / float64(points-1)
	for i := range c {
		c[i] = geometry.Point3{X: x0 + float64(i)*step, Y: y}
	}
	return c
}

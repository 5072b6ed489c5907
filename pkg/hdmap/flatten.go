package hdmap

// Flatten walks roads, sections and lanes in order and emits, per lane, the
// central curve then the left boundary then the right boundary. Each of the
// three lines is cut to the length of the shortest curve of the lane so the
// three always pair up point by point.
//
// Flatten has no side effects and never aliases m: the output may be kept after
// m is released.
func Flatten(m *Map) []Polyline {
	lines := make([]Polyline, 0, 3*LaneCount(m))
	if m == nil {
		return lines
	}
	for _, road := range m.Roads {
		for _, section := range road.Sections {
			for _, lane := range section.Lanes {
				n := min(len(lane.CentralCurve), len(lane.LeftBoundary), len(lane.RightBoundary))
				lines = append(lines,
					prefix(lane.CentralCurve, n),
					prefix(lane.LeftBoundary, n),
					prefix(lane.RightBoundary, n),
				)
			}
		}
	}
	return lines
}

func prefix(c Curve, n int) Polyline {
	out := make(Polyline, n)
	copy(out, c[:n])
	return out
}

// LaneCount returns the number of lanes across all roads and sections.
func LaneCount(m *Map) int {
	if m == nil {
		return 0
	}
	count := 0
	for _, road := range m.Roads {
		for _, section := range road.Sections {
			count += len(section.Lanes)
		}
	}
	return count
}

// PointCount returns the total number of points in lines.
func PointCount(lines []Polyline) int {
	count := 0
	for _, l := range lines {
		count += len(l)
	}
	return count
}

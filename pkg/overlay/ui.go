package overlay

import (
	"fmt"

	"github.com/hdmap/viewer/pkg/geometry"
	"github.com/hdmap/viewer/pkg/region"
)

// CurrentRegionUI shows the lane the vehicle is in.
type CurrentRegionUI struct {
	ID      string
	X, Y    float64
	Heading float64
}

// NewCurrentRegionUI copies a region snapshot into a panel model.
func NewCurrentRegionUI(s region.Snapshot) CurrentRegionUI {
	return CurrentRegionUI{ID: s.ID, X: s.Point.X, Y: s.Point.Y, Heading: s.Heading}
}

// Format returns the id, point and heading lines.
func (u CurrentRegionUI) Format() []string {
	return []string{
		"id: " + u.ID,
		fmt.Sprintf("point: [%f  %f  ]", u.X, u.Y),
		fmt.Sprintf("heading: %f", u.Heading),
	}
}

// MousePositionUI shows the ground point under the cursor.
type MousePositionUI struct {
	Point geometry.Point3
}

// Format returns one line per axis.
func (u MousePositionUI) Format() []string {
	return []string{
		fmt.Sprintf("x: %f", u.Point.X),
		fmt.Sprintf("y: %f", u.Point.Y),
		fmt.Sprintf("z: %f", u.Point.Z),
	}
}

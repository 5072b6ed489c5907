// Package picking turns pointer events on the 3D view into ground points and
// runs the map file selection flow of the pick tool.
package picking

import (
	"time"

	"github.com/google/uuid"

	"github.com/hdmap/viewer/pkg/geometry"
)

// PointStamped is the payload of a MouseCursor event.
type PointStamped struct {
	Stamp time.Time       `json:"stamp"`
	Point geometry.Point3 `json:"point"`
}

// MapType names the format of a selected map file.
type MapType string

const MapTypeOpenDrive MapType = "OPENDRIVE"

// MapFileInfo is the payload of a FileSelected event.
type MapFileInfo struct {
	Stamp    time.Time `json:"stamp"`
	UUID     uuid.UUID `json:"uuid"`
	FilePath string    `json:"file_path"`
	MapType  MapType   `json:"map_type"`
}

// EventType is the kind of pointer interaction.
type EventType string

const (
	PointerMove    EventType = "move"
	PointerPress   EventType = "press"
	PointerRelease EventType = "release"
	PointerWheel   EventType = "wheel"
)

// PointerEvent is a pointer interaction in viewport pixels. Width and Height
// are the viewport size at the time of the event.
type PointerEvent struct {
	Type    EventType `json:"type"`
	X       int       `json:"x"`
	Y       int       `json:"y"`
	Width   int       `json:"width"`
	Height  int       `json:"height"`
	Buttons int       `json:"buttons,omitempty"`
	Wheel   int       `json:"wheel,omitempty"`
}

// Normalized returns the event position in [0,1] viewport units. ok is false
// for an empty viewport.
func (e PointerEvent) Normalized() (nx, ny float64, ok bool) {
	if e.Width <= 0 || e.Height <= 0 {
		return 0, 0, false
	}
	return float64(e.X) / float64(e.Width), float64(e.Y) / float64(e.Height), true
}

// Cursor is the pointer shape requested by the view.
type Cursor string

const (
	CursorDefault Cursor = "default"
	CursorMove    Cursor = "move"
	CursorZoom    Cursor = "zoom"
)

// ViewController moves the camera in response to pointer input.
type ViewController interface {
	HandleMouseEvent(ev PointerEvent)
	Cursor() Cursor
}

// RayFunc returns the camera ray through normalized viewport coordinates.
type RayFunc func(nx, ny float64) (geometry.Ray, error)

// StatusHandled is returned for every processed pointer event.
const StatusHandled = 0

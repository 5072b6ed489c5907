package picking

import "sync"

// NavigationTracker is the view controller of the viewer binary. Camera
// navigation itself runs in the browser, so the tracker only follows the
// pointer to pick the cursor shape reported back to the client.
type NavigationTracker struct {
	mu       sync.Mutex
	cursor   Cursor
	dragging bool
	events   uint64
}

// NewNavigationTracker returns a tracker showing the default cursor.
func NewNavigationTracker() *NavigationTracker {
	return &NavigationTracker{cursor: CursorDefault}
}

// HandleMouseEvent updates the cursor: move while a button is held, zoom for a
// wheel step, default otherwise.
func (n *NavigationTracker) HandleMouseEvent(ev PointerEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events++

	switch ev.Type {
	case PointerPress:
		n.dragging = true
	case PointerRelease:
		n.dragging = false
	case PointerMove:
		n.dragging = ev.Buttons != 0
	}

	switch {
	case ev.Type == PointerWheel && ev.Wheel != 0:
		n.cursor = CursorZoom
	case n.dragging:
		n.cursor = CursorMove
	default:
		n.cursor = CursorDefault
	}
}

// Cursor returns the cursor for the last event.
func (n *NavigationTracker) Cursor() Cursor {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.cursor
}

// Events returns how many events the tracker has seen.
func (n *NavigationTracker) Events() uint64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.events
}

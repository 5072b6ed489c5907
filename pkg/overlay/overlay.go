// Package overlay holds the text panels drawn over the 3D view: the mouse
// position readout and the current region readout.
package overlay

import (
	"fmt"
	"strings"
	"sync"

	"github.com/hdmap/viewer/pkg/config"
)

// UI formats a value into the lines of an overlay panel.
type UI interface {
	Format() []string
}

// HorizontalAlignment anchors a panel to the left, center or right of the view.
type HorizontalAlignment string

// VerticalAlignment anchors a panel to the top, center or bottom of the view.
type VerticalAlignment string

const (
	Left    HorizontalAlignment = "LEFT"
	HCenter HorizontalAlignment = "CENTER"
	Right   HorizontalAlignment = "RIGHT"

	Top     VerticalAlignment = "TOP"
	VCenter VerticalAlignment = "CENTER"
	Bottom  VerticalAlignment = "BOTTOM"
)

// Placement is the pixel offset of a panel relative to its anchor.
type Placement struct {
	X          int                 `json:"x"`
	Y          int                 `json:"y"`
	Horizontal HorizontalAlignment `json:"horizontal"`
	Vertical   VerticalAlignment   `json:"vertical"`
}

// PlacementFromConfig converts a configured placement, falling back to
// LEFT/TOP for unknown alignments.
func PlacementFromConfig(p config.OverlayPlacement) Placement {
	out := Placement{X: p.X, Y: p.Y, Horizontal: Left, Vertical: Top}
	switch h := HorizontalAlignment(strings.ToUpper(p.Horizontal)); h {
	case Left, HCenter, Right:
		out.Horizontal = h
	}
	switch v := VerticalAlignment(strings.ToUpper(p.Vertical)); v {
	case Top, VCenter, Bottom:
		out.Vertical = v
	}
	return out
}

// State is a copy of what a Component currently shows.
type State struct {
	Name      string    `json:"name"`
	Lines     []string  `json:"lines"`
	Visible   bool      `json:"visible"`
	Placement Placement `json:"placement"`
}

// Component is one overlay panel. It is safe for concurrent use; the render
// tick and pointer handlers touch it from different goroutines.
type Component struct {
	mu        sync.RWMutex
	name      string
	lines     []string
	visible   bool
	placement Placement
	revision  uint64
}

// NewComponent returns a hidden, empty panel anchored at the top left.
func NewComponent(name string) *Component {
	return &Component{
		name:      name,
		placement: Placement{Horizontal: Left, Vertical: Top},
	}
}

// Name returns the panel name.
func (c *Component) Name() string { return c.name }

// SetPosition moves the panel.
func (c *Component) SetPosition(p Placement) {
	c.mu.Lock()
	c.placement = p
	c.mu.Unlock()
}

// Clean clears the panel text.
func (c *Component) Clean() {
	c.mu.Lock()
	c.lines = nil
	c.revision++
	c.mu.Unlock()
}

// Update appends the lines formatted by ui.
func (c *Component) Update(ui UI) {
	lines := ui.Format()
	c.mu.Lock()
	c.lines = append(c.lines, lines...)
	c.revision++
	c.mu.Unlock()
}

// Show makes the panel visible.
func (c *Component) Show() {
	c.mu.Lock()
	c.visible = true
	c.mu.Unlock()
}

// Hide hides the panel without clearing it.
func (c *Component) Hide() {
	c.mu.Lock()
	c.visible = false
	c.mu.Unlock()
}

// Replace does Clean, Update and Show as one step so readers never see the
// panel half written.
func (c *Component) Replace(ui UI) {
	lines := ui.Format()
	c.mu.Lock()
	c.lines = lines
	c.visible = true
	c.revision++
	c.mu.Unlock()
}

// Text returns a copy of the current lines.
func (c *Component) Text() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.lines...)
}

// Visible reports whether the panel is shown.
func (c *Component) Visible() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.visible
}

// Revision increases every time the text changes.
func (c *Component) Revision() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.revision
}

// State returns a consistent copy of the panel.
func (c *Component) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return State{
		Name:      c.name,
		Lines:     append([]string(nil), c.lines...),
		Visible:   c.visible,
		Placement: c.placement,
	}
}

// String renders the panel on a single line for logs.
func (c *Component) String() string {
	return fmt.Sprintf("[%s] %s", c.name, strings.Join(c.Text(), " | "))
}

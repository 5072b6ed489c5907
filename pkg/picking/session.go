package picking

import (
	"fmt"
	"sync"
	"time"

	"github.com/hdmap/viewer/pkg/eventbus"
	"github.com/hdmap/viewer/pkg/geometry"
	customlog "github.com/hdmap/viewer/pkg/log"
	"github.com/hdmap/viewer/pkg/overlay"
)

// PickSession picks the ground point under the pointer, shows it on an overlay
// and publishes it on the bus. Events are processed one at a time.
type PickSession struct {
	mu      sync.Mutex
	bus     *eventbus.Bus
	kind    eventbus.Kind
	overlay *overlay.Component
	view    ViewController
	plane   geometry.Plane
	now     func() time.Time
	logger  customlog.Logger

	cursor Cursor
	last   geometry.PickResult
	picks  uint64
	misses uint64
}

// SessionOption configures a PickSession.
type SessionOption func(*PickSession)

// WithViewController forwards every event to vc after picking.
func WithViewController(vc ViewController) SessionOption {
	return func(s *PickSession) { s.view = vc }
}

// WithClock replaces time.Now for stamping picked points.
func WithClock(now func() time.Time) SessionOption {
	return func(s *PickSession) { s.now = now }
}

// WithPlane picks against plane instead of the ground plane.
func WithPlane(plane geometry.Plane) SessionOption {
	return func(s *PickSession) { s.plane = plane }
}

// NewPickSession returns a session that publishes hits under kind and shows
// them on the given overlay. overlay may be nil.
func NewPickSession(bus *eventbus.Bus, kind eventbus.Kind, ov *overlay.Component, logger customlog.Logger, opts ...SessionOption) *PickSession {
	s := &PickSession{
		bus:     bus,
		kind:    kind,
		overlay: ov,
		plane:   geometry.GroundPlane,
		now:     time.Now,
		logger:  logger.WithField("component", "pick_session"),
		cursor:  CursorDefault,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OnPointerEvent picks the ground under ev. A miss is not an error. The event
// is always forwarded to the view controller, and a publish error is returned
// only after that. The hit is published after the session lock is released,
// so bus subscribers may call back into the session.
func (s *PickSession) OnPointerEvent(ev PointerEvent, rayFn RayFunc) (geometry.PickResult, int, error) {
	s.mu.Lock()
	result := s.pick(ev, rayFn)
	s.last = result

	var msg *PointStamped
	if result.Hit {
		s.picks++
		if s.overlay != nil {
			s.overlay.Replace(overlay.MousePositionUI{Point: result.Point})
		}
		msg = &PointStamped{Stamp: s.now(), Point: result.Point}
	} else {
		s.misses++
	}
	s.forward(ev)
	s.mu.Unlock()

	if msg == nil {
		return result, StatusHandled, nil
	}
	if err := s.bus.Publish(s.kind, msg); err != nil {
		return result, StatusHandled, fmt.Errorf("publishing picked point: %w", err)
	}
	return result, StatusHandled, nil
}

// Forward hands ev to the view controller without picking.
func (s *PickSession) Forward(ev PointerEvent) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forward(ev)
	return StatusHandled
}

func (s *PickSession) pick(ev PointerEvent, rayFn RayFunc) geometry.PickResult {
	nx, ny, ok := ev.Normalized()
	if !ok || rayFn == nil {
		return geometry.PickResult{}
	}
	ray, err := rayFn(nx, ny)
	if err != nil {
		s.logger.Warnf("No camera ray for (%.3f, %.3f): %v", nx, ny, err)
		return geometry.PickResult{}
	}
	return geometry.Intersect(ray, s.plane)
}

func (s *PickSession) forward(ev PointerEvent) {
	if s.view == nil {
		return
	}
	s.view.HandleMouseEvent(ev)
	s.cursor = s.view.Cursor()
}

// Cursor returns the cursor last requested by the view controller.
func (s *PickSession) Cursor() Cursor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor
}

// LastPick returns the result of the most recent pick.
func (s *PickSession) LastPick() geometry.PickResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Stats returns the number of hits and misses so far.
func (s *PickSession) Stats() (hits, misses uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.picks, s.misses
}

// Kind returns the event kind hits are published under.
func (s *PickSession) Kind() eventbus.Kind { return s.kind }

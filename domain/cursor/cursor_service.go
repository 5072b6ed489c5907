package cursor

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/hdmap/viewer/pkg/eventbus"
	"github.com/hdmap/viewer/pkg/picking"
)

// Readout is what the HUD shows: the last picked ground point and the last
// selected map file.
type Readout struct {
	Timestamp time.Time             `json:"timestamp"`
	Cursor    *picking.PointStamped `json:"cursor,omitempty"`
	MapFile   *picking.MapFileInfo  `json:"map_file,omitempty"`
	Picks     uint64                `json:"picks"`
	Files     uint64                `json:"files"`
}

// CursorService listens on the event bus and keeps the latest pick and file
// selection for the API.
type CursorService struct {
	mu      sync.RWMutex
	readout Readout

	bus *eventbus.Bus
	// subMu is separate from mu: callbacks take mu while the bus holds its
	// read lock, and Subscribe waits for that lock.
	subMu   sync.Mutex
	handles []eventbus.Handle
}

// NewCursorService creates a new cursor service instance
func NewCursorService(bus *eventbus.Bus) *CursorService {
	return &CursorService{
		bus:     bus,
		readout: Readout{Timestamp: time.Now()},
	}
}

// Start subscribes to mouse cursor and file selection events.
func (s *CursorService) Start() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	if len(s.handles) > 0 {
		return
	}
	s.handles = append(s.handles,
		s.bus.Subscribe(eventbus.MouseCursor, s.onCursor),
		s.bus.Subscribe(eventbus.FileSelected, s.onFileSelected),
	)
}

// Stop removes the subscriptions.
func (s *CursorService) Stop() {
	s.subMu.Lock()
	handles := s.handles
	s.handles = nil
	s.subMu.Unlock()

	for _, h := range handles {
		s.bus.Unsubscribe(h)
	}
}

func (s *CursorService) onCursor(payload any) error {
	p, ok := payload.(*picking.PointStamped)
	if !ok {
		return nil
	}
	cp := *p
	s.mu.Lock()
	s.readout.Cursor = &cp
	s.readout.Picks++
	s.readout.Timestamp = time.Now()
	s.mu.Unlock()
	return nil
}

func (s *CursorService) onFileSelected(payload any) error {
	info, ok := payload.(*picking.MapFileInfo)
	if !ok {
		return nil
	}
	cp := *info
	s.mu.Lock()
	s.readout.MapFile = &cp
	s.readout.Files++
	s.readout.Timestamp = time.Now()
	s.mu.Unlock()
	return nil
}

// GetReadout returns the current HUD readout
func (s *CursorService) GetReadout() Readout {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.readout
}

// GetCursorHandler handles API requests for the HUD readout
func (s *CursorService) GetCursorHandler(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "success",
		"cursor": s.GetReadout(),
	})
}

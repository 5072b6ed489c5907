package display

import (
	"sync/atomic"

	"github.com/hdmap/viewer/pkg/hdmap"
)

// SceneState is one complete set of map lines. It is never modified after
// being stored.
type SceneState struct {
	Version uint64           `json:"version"`
	StampNs int64            `json:"stamp_ns"`
	Lanes   int              `json:"lanes"`
	Points  int              `json:"points"`
	Lines   []hdmap.Polyline `json:"lines"`
}

// Scene holds the line set currently drawn. Readers get the whole previous
// set or the whole new one.
type Scene struct {
	state   atomic.Pointer[SceneState]
	version atomic.Uint64
}

// NewScene returns a scene with no lines.
func NewScene() *Scene {
	s := &Scene{}
	s.state.Store(&SceneState{Lines: []hdmap.Polyline{}})
	return s
}

// Replace swaps in a new line set and returns its version.
func (s *Scene) Replace(lines []hdmap.Polyline, stampNs int64, lanes int) uint64 {
	v := s.version.Add(1)
	s.state.Store(&SceneState{
		Version: v,
		StampNs: stampNs,
		Lanes:   lanes,
		Points:  hdmap.PointCount(lines),
		Lines:   lines,
	})
	return v
}

// State returns the current line set. Callers must not modify it.
func (s *Scene) State() *SceneState {
	return s.state.Load()
}

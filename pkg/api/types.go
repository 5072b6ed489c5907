package api

import (
	"github.com/hdmap/viewer/pkg/geometry"
	"github.com/hdmap/viewer/pkg/picking"
)

// --- Data Structures for WebSocket Messages ---

// PointerMsg is one pointer interaction sent by the 3D view.
type PointerMsg = picking.PointerEvent

// PickReply answers a PointerMsg.
type PickReply struct {
	Status int                 `json:"status"`
	Tool   string              `json:"tool"`
	Picked bool                `json:"picked"`
	Result geometry.PickResult `json:"result"`
	Cursor picking.Cursor      `json:"cursor"`
	Error  string              `json:"error,omitempty"`
}

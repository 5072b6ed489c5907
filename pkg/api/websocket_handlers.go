package api

import (
	"encoding/json"
	"errors"
	"sync"
	"syscall"

	"github.com/gofiber/contrib/websocket"

	"github.com/hdmap/viewer/pkg/geometry"
	customlog "github.com/hdmap/viewer/pkg/log"
	"github.com/hdmap/viewer/pkg/picking"
)

// PointerHandler turns pointer messages from the view into tool input.
type PointerHandler struct {
	tool   *picking.Tool
	logger customlog.Logger

	mu     sync.RWMutex
	camera geometry.Camera
}

// NewPointerHandler creates a handler that casts rays from camera.
func NewPointerHandler(tool *picking.Tool, camera geometry.Camera, logger customlog.Logger) *PointerHandler {
	return &PointerHandler{
		tool:   tool,
		camera: camera,
		logger: logger.WithField("component", "pointer_ws"),
	}
}

// SetCamera replaces the camera used for later events.
func (h *PointerHandler) SetCamera(camera geometry.Camera) {
	h.mu.Lock()
	h.camera = camera
	h.mu.Unlock()
}

// HandleMessage processes one JSON pointer message and returns the reply.
func (h *PointerHandler) HandleMessage(msg []byte) PickReply {
	var ev PointerMsg
	if err := json.Unmarshal(msg, &ev); err != nil {
		h.logger.Warnf("Failed to unmarshal pointer event from WS: %v. Message: %s", err, string(msg))
		return PickReply{Status: -1, Tool: h.tool.State().String(), Error: "invalid pointer event"}
	}

	h.mu.RLock()
	camera := h.camera.WithAspect(ev.Width, ev.Height)
	h.mu.RUnlock()

	result, picked, status := h.tool.ProcessMouseEvent(ev, camera.RayAt)
	return PickReply{
		Status: status,
		Tool:   h.tool.State().String(),
		Picked: picked,
		Result: result,
		Cursor: h.tool.Session().Cursor(),
	}
}

// Serve reads pointer messages from conn until it closes.
func (h *PointerHandler) Serve(conn *websocket.Conn) {
	h.logger.Infof("Pointer WebSocket connected: %s", conn.RemoteAddr())
	for {
		mt, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Errorf("Pointer WS read error: %v", err)
			} else if err != websocket.ErrCloseSent && !errors.Is(err, syscall.EPIPE) && !errors.Is(err, syscall.ECONNRESET) {
				h.logger.Infof("Pointer WS connection closed: %v", err)
			} else {
				h.logger.Infof("Pointer WS connection closed normally.")
			}
			break
		}

		if mt != websocket.TextMessage {
			h.logger.Debugf("Ignoring non-text pointer WS message type: %d", mt)
			continue
		}

		if err := conn.WriteJSON(h.HandleMessage(msg)); err != nil {
			h.logger.Warnf("Pointer WS write failed: %v", err)
			break
		}
	}
	h.logger.Infof("Pointer WebSocket disconnected: %s", conn.RemoteAddr())
}

package zeromq

import (
	"encoding/json"
	"fmt"

	customlog "github.com/hdmap/viewer/pkg/log"
)

// PingHandler answers PING with PONG
type PingHandler struct{}

// HandleMessage returns a PONG message
func (PingHandler) HandleMessage([]byte) ([]byte, error) {
	return json.Marshal(NewZeroMQMessage(MsgTypePong, nil))
}

// MapSource returns the encoded global map
type MapSource func() ([]byte, error)

// GlobalMapHandler handles GET_GLOBAL_MAP requests
type GlobalMapHandler struct {
	source MapSource
	logger customlog.Logger
}

// NewGlobalMapHandler creates a handler serving the map returned by source
func NewGlobalMapHandler(source MapSource, logger customlog.Logger) *GlobalMapHandler {
	return &GlobalMapHandler{
		source: source,
		logger: logger,
	}
}

// HandleMessage replies with the raw FlatBuffers map
func (h *GlobalMapHandler) HandleMessage(data []byte) ([]byte, error) {
	var msg ZeroMQMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("failed to parse message: %w", err)
	}
	if msg.Type != MsgTypeGetGlobalMap {
		return nil, fmt.Errorf("unexpected message type: %s", msg.Type)
	}

	h.logger.Debugf("Processing global map request")

	buf, err := h.source()
	if err != nil {
		return nil, fmt.Errorf("failed to build global map: %w", err)
	}

	h.logger.Infof("Sending global map (%d bytes)", len(buf))
	return buf, nil
}

// RegisterMapHandlers registers PING and GET_GLOBAL_MAP on service
func RegisterMapHandlers(service *ZeroMQService, source MapSource, logger customlog.Logger) {
	service.RegisterHandler(MsgTypePing, PingHandler{})
	service.RegisterHandler(MsgTypeGetGlobalMap, NewGlobalMapHandler(source, logger))
	logger.Infof("Registered map service handlers")
}

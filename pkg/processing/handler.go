package processing

import (
	"encoding/json"
	"sync"

	customlog "github.com/hdmap/viewer/pkg/log"
)

// ResultSummary is the last outcome recorded for a topic.
type ResultSummary struct {
	Timestamp int64  `json:"timestamp"`
	OK        bool   `json:"ok"`
	Error     string `json:"error,omitempty"`
	Summary   string `json:"summary,omitempty"`
}

// LoggingResultHandler logs processing results and remembers the last one per topic
type LoggingResultHandler struct {
	logger customlog.Logger
	mu     sync.RWMutex
	last   map[string]ResultSummary
}

// NewLoggingResultHandler creates a new logging result handler
func NewLoggingResultHandler(logger customlog.Logger) *LoggingResultHandler {
	return &LoggingResultHandler{
		logger: logger,
		last:   make(map[string]ResultSummary),
	}
}

// HandleResult handles a processed message result
func (h *LoggingResultHandler) HandleResult(result *ProcessResult) {
	summary := ResultSummary{Timestamp: result.Timestamp, OK: result.Error == nil}

	if result.Error != nil {
		h.logger.Errorf("Error processing message for topic '%s': %v", result.Topic, result.Error)
		summary.Error = result.Error.Error()
	} else {
		h.logger.Debugf("Successfully processed message for topic '%s' (timestamp: %d)",
			result.Topic, result.Timestamp)

		if result.Data != nil {
			if jsonData, err := json.Marshal(result.Data["data"]); err == nil {
				summary.Summary = string(jsonData)
				if len(summary.Summary) > 100 {
					summary.Summary = summary.Summary[:100] + "..."
				}
				h.logger.Debugf("Data: %s", summary.Summary)
			}
		}
	}

	h.mu.Lock()
	h.last[result.Topic] = summary
	h.mu.Unlock()
}

// LastResults returns the most recent result per topic
func (h *LoggingResultHandler) LastResults() map[string]ResultSummary {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make(map[string]ResultSummary, len(h.last))
	for k, v := range h.last {
		out[k] = v
	}
	return out
}

// CreateHandlerFunc creates a ResultHandler function for the ProcessingPool
func (h *LoggingResultHandler) CreateHandlerFunc() ResultHandler {
	return func(processResult *ProcessResult) {
		if processResult == nil {
			h.logger.Errorf("Received nil ProcessResult")
			return
		}
		h.HandleResult(processResult)
	}
}

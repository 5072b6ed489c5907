package processing

import (
	"errors"
	"fmt"
	"sync"

	customlog "github.com/hdmap/viewer/pkg/log"
)

// ErrUnknownTopic is returned for messages on a topic nobody handles.
var ErrUnknownTopic = errors.New("no processor registered for topic")

// TopicHandler processes the payload of one topic.
type TopicHandler func(msg *Message) (map[string]interface{}, error)

// TopicProcessor dispatches messages to the handler registered for their topic.
type TopicProcessor struct {
	logger        customlog.Logger
	topicRegistry *TopicRegistry
	mu            sync.RWMutex
	handlers      map[string]TopicHandler
}

// NewTopicProcessor creates an empty processor.
func NewTopicProcessor(logger customlog.Logger, topicRegistry *TopicRegistry) *TopicProcessor {
	return &TopicProcessor{
		logger:        logger,
		topicRegistry: topicRegistry,
		handlers:      make(map[string]TopicHandler),
	}
}

// Handle registers h for topic, replacing any previous handler.
func (p *TopicProcessor) Handle(topic string, h TopicHandler) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handlers[topic] = h
	p.logger.Debugf("Registered processor for topic '%s'", topic)
}

// ProcessMessage runs the handler for msg.Topic and adds topic metadata to its result.
func (p *TopicProcessor) ProcessMessage(msg *Message) (map[string]interface{}, error) {
	p.mu.RLock()
	h, ok := p.handlers[msg.Topic]
	p.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: '%s'", ErrUnknownTopic, msg.Topic)
	}
	if len(msg.Data) == 0 {
		return nil, fmt.Errorf("empty payload for topic '%s'", msg.Topic)
	}

	messageType, _ := p.topicRegistry.GetMessageType(msg.Topic)
	p.logger.Debugf("Processing message for topic '%s' (type: %s, %d bytes)", msg.Topic, messageType, len(msg.Data))

	data, err := h(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to process message for topic '%s': %w", msg.Topic, err)
	}

	return map[string]interface{}{
		"topic":     msg.Topic,
		"type":      messageType,
		"timestamp": msg.Timestamp,
		"data":      data,
	}, nil
}

// CreateProcessorFunc creates a MessageProcessor function that can be used with the MessageDirector
func (p *TopicProcessor) CreateProcessorFunc() MessageProcessor {
	return func(msg *Message) (map[string]interface{}, error) {
		return p.ProcessMessage(msg)
	}
}

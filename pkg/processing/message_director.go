package processing

import (
	"errors"
	"fmt"
	"sync"
	"time"

	customlog "github.com/hdmap/viewer/pkg/log"
)

// ErrNotRunning is returned when messages are routed to a stopped director.
var ErrNotRunning = errors.New("message director is not running")

// ErrQueueFull is returned when the target pool rejected a message.
var ErrQueueFull = errors.New("processing queue full")

// Message is one inbound payload, tagged with the topic ID it arrived on.
type Message struct {
	Topic     string
	Data      []byte
	Timestamp int64
}

// NewMessage stamps data with the current time.
func NewMessage(topic string, data []byte) *Message {
	return &Message{Topic: topic, Data: data, Timestamp: GetCurrentTimestamp()}
}

// GetCurrentTimestamp gets the current timestamp in nanoseconds
func GetCurrentTimestamp() int64 {
	return time.Now().UnixNano()
}

// Constants for priority levels
const (
	PriorityHigh     = "HIGH"
	PriorityStandard = "STANDARD"
	PriorityLow      = "LOW"
)

// MessageDirector routes messages to the appropriate processing pool based on priority
type MessageDirector struct {
	logger           customlog.Logger
	highPriorityPool *ProcessingPool
	standardPool     *ProcessingPool
	lowPriorityPool  *ProcessingPool
	topicRegistry    *TopicRegistry
	processor        MessageProcessor
	resultHandler    ResultHandler
	running          bool
	mu               sync.RWMutex

	defaultQueueSize int
}

// DirectorOptions holds configuration options for the MessageDirector
type DirectorOptions struct {
	DefaultQueueSize int
}

// NewMessageDirector creates a new message director
func NewMessageDirector(
	logger customlog.Logger,
	topicRegistry *TopicRegistry,
	options *DirectorOptions,
) *MessageDirector {
	if options == nil || options.DefaultQueueSize <= 0 {
		options = &DirectorOptions{
			DefaultQueueSize: 100,
		}
	}

	return &MessageDirector{
		logger:           logger,
		topicRegistry:    topicRegistry,
		defaultQueueSize: options.DefaultQueueSize,
	}
}

// Initialize creates the processing pools based on the provided worker counts
func (d *MessageDirector) Initialize(highWorkers, standardWorkers, lowWorkers int) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.highPriorityPool = NewProcessingPool(PriorityHigh, highWorkers, d.defaultQueueSize, d.logger)
	d.standardPool = NewProcessingPool(PriorityStandard, standardWorkers, d.defaultQueueSize, d.logger)
	d.lowPriorityPool = NewProcessingPool(PriorityLow, lowWorkers, d.defaultQueueSize, d.logger)

	d.logger.Infof("Message Director initialized with pools: HIGH(%d), STANDARD(%d), LOW(%d)",
		highWorkers, standardWorkers, lowWorkers)
}

func (d *MessageDirector) pools() []*ProcessingPool {
	return []*ProcessingPool{d.highPriorityPool, d.standardPool, d.lowPriorityPool}
}

// SetProcessor sets the message processor function for all pools
func (d *MessageDirector) SetProcessor(processor MessageProcessor) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.processor = processor
	for _, pool := range d.pools() {
		if pool != nil {
			pool.SetProcessor(processor)
		}
	}
}

// SetResultHandler sets the result handler function for all pools
func (d *MessageDirector) SetResultHandler(handler ResultHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.resultHandler = handler
	for _, pool := range d.pools() {
		if pool != nil {
			pool.SetResultHandler(handler)
		}
	}
}

// RouteMessage routes a message to the appropriate processing pool based on its priority
func (d *MessageDirector) RouteMessage(msg *Message) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if !d.running {
		return ErrNotRunning
	}

	priority, exists := d.topicRegistry.GetTopicPriority(msg.Topic)
	if !exists {
		d.logger.Warnf("No priority found for topic '%s', using STANDARD", msg.Topic)
		priority = PriorityStandard
	}
	d.topicRegistry.UpdateTopicStats(msg.Topic, msg.Timestamp)

	var successful bool
	switch priority {
	case PriorityHigh:
		d.logger.Debugf("Routing message for topic '%s' to HIGH priority pool", msg.Topic)
		successful = d.highPriorityPool.ProcessMessage(msg)
	case PriorityLow:
		d.logger.Debugf("Routing message for topic '%s' to LOW priority pool", msg.Topic)
		successful = d.lowPriorityPool.ProcessMessage(msg)
	default:
		d.logger.Debugf("Routing message for topic '%s' to STANDARD priority pool", msg.Topic)
		successful = d.standardPool.ProcessMessage(msg)
	}

	if !successful {
		return fmt.Errorf("%w: topic '%s' (priority: %s)", ErrQueueFull, msg.Topic, priority)
	}

	return nil
}

// EnqueueMessage routes msg and reports whether it was accepted.
func (d *MessageDirector) EnqueueMessage(msg *Message) bool {
	if err := d.RouteMessage(msg); err != nil {
		d.logger.Warnf("Cannot enqueue message for topic '%s': %v", msg.Topic, err)
		return false
	}
	return true
}

// Start starts all processing pools
func (d *MessageDirector) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.running {
		return
	}

	d.running = true
	d.logger.Infof("Starting Message Director")

	for _, pool := range d.pools() {
		pool.Start()
	}
}

// Stop stops all processing pools. Queued messages are still processed.
func (d *MessageDirector) Stop() {
	d.mu.Lock()
	running := d.running
	d.running = false
	d.mu.Unlock()

	if !running {
		return
	}

	d.logger.Infof("Stopping Message Director")
	for _, pool := range d.pools() {
		pool.Stop()
	}
	d.logger.Infof("Message Director stopped")
}

// PoolStatus combines a pool's metrics with its queue occupancy.
type PoolStatus struct {
	PoolMetrics
	QueueLength   int `json:"queue_length"`
	QueueCapacity int `json:"queue_capacity"`
}

// GetPoolMetrics returns metrics for all pools
func (d *MessageDirector) GetPoolMetrics() map[string]PoolStatus {
	d.mu.RLock()
	defer d.mu.RUnlock()

	metrics := make(map[string]PoolStatus)
	for _, pool := range d.pools() {
		if pool == nil {
			continue
		}
		metrics[pool.GetName()] = PoolStatus{
			PoolMetrics:   pool.GetMetrics(),
			QueueLength:   pool.GetQueueLength(),
			QueueCapacity: pool.GetQueueCapacity(),
		}
	}

	return metrics
}

// Registry returns the topic registry used for routing.
func (d *MessageDirector) Registry() *TopicRegistry {
	return d.topicRegistry
}

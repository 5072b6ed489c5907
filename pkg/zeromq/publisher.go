package zeromq

import (
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/hdmap/viewer/pkg/config"
	"github.com/hdmap/viewer/pkg/eventbus"
	customlog "github.com/hdmap/viewer/pkg/log"
)

// Topics used for config notifications
const (
	TopicConfigNotification = "configuration.notification"
)

// MessagePublisher defines the interface for publishing messages
type MessagePublisher interface {
	PublishMessage(topic string, data []byte) error
}

// EventPublisher republishes bus events as JSON on wire topics
type EventPublisher struct {
	publisher MessagePublisher
	logger    customlog.Logger

	mu        sync.Mutex
	bus       *eventbus.Bus
	handles   []eventbus.Handle
	published atomic.Uint64
}

// NewEventPublisher creates a publisher writing through pub
func NewEventPublisher(pub MessagePublisher, logger customlog.Logger) *EventPublisher {
	return &EventPublisher{
		publisher: pub,
		logger:    logger.WithField("component", "event_publisher"),
	}
}

// Attach subscribes to kind on bus and publishes every payload on topic. A
// failed send is returned to the bus publisher.
func (p *EventPublisher) Attach(bus *eventbus.Bus, kind eventbus.Kind, topic string) {
	h := bus.Subscribe(kind, func(payload any) error {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encoding %s event: %w", kind, err)
		}
		if err := p.publisher.PublishMessage(topic, data); err != nil {
			return fmt.Errorf("publishing %s event on %s: %w", kind, topic, err)
		}
		p.published.Add(1)
		p.logger.Debugf("Published %s event on %s (%d bytes)", kind, topic, len(data))
		return nil
	})

	p.mu.Lock()
	p.bus = bus
	p.handles = append(p.handles, h)
	p.mu.Unlock()
	p.logger.Infof("Republishing %s events on %s", kind, topic)
}

// Detach removes every subscription made by Attach
func (p *EventPublisher) Detach() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, h := range p.handles {
		p.bus.Unsubscribe(h)
	}
	p.handles = nil
}

// Published returns how many events were sent
func (p *EventPublisher) Published() uint64 {
	return p.published.Load()
}

// ConfigPublisher announces display configuration changes
type ConfigPublisher struct {
	publisher MessagePublisher
	logger    customlog.Logger
}

// NewConfigPublisher creates a new publisher for configuration updates
func NewConfigPublisher(pub MessagePublisher, logger customlog.Logger) *ConfigPublisher {
	return &ConfigPublisher{
		publisher: pub,
		logger:    logger,
	}
}

// PublishConfigUpdatedNotification publishes a notification that the config has been updated
func (p *ConfigPublisher) PublishConfigUpdatedNotification(cfg *config.Config) error {
	p.logger.Infof("Publishing configuration update notification (ID: %s)", cfg.ConfigID)

	notification := map[string]interface{}{
		"config_id":    cfg.ConfigID,
		"version":      cfg.Version,
		"last_updated": cfg.LastUpdated,
	}

	data, err := json.Marshal(NewZeroMQMessage(MsgTypeConfigUpdated, notification))
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}
	return p.publisher.PublishMessage(TopicConfigNotification, data)
}

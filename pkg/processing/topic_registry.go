package processing

import (
	"sort"
	"sync"

	"github.com/hdmap/viewer/pkg/config"
	customlog "github.com/hdmap/viewer/pkg/log"
)

// TopicInfo holds metadata for a topic
type TopicInfo struct {
	TopicID      string `json:"topic_id"`
	RosTopic     string `json:"ros_topic"`
	MessageType  string `json:"message_type"`
	Priority     string `json:"priority"`
	Direction    string `json:"direction"`
	StatCount    int64  `json:"count"`
	LastReceived int64  `json:"last_received"`
}

// TopicRegistry maintains information about topics
type TopicRegistry struct {
	logger   customlog.Logger
	topics   map[string]*TopicInfo
	byRos    map[string]string
	mu       sync.RWMutex
	fallback string
}

// NewTopicRegistry creates a new topic registry
func NewTopicRegistry(logger customlog.Logger) *TopicRegistry {
	return &TopicRegistry{
		logger:   logger,
		topics:   make(map[string]*TopicInfo),
		byRos:    make(map[string]string),
		fallback: PriorityStandard,
	}
}

// LoadFromConfig loads topic information from the config. Counters of topics
// that survive the reload are kept.
func (r *TopicRegistry) LoadFromConfig(cfg *config.Config) {
	r.mu.Lock()
	defer r.mu.Unlock()

	old := r.topics
	r.topics = make(map[string]*TopicInfo)
	r.byRos = make(map[string]string)
	if cfg.Defaults.Priority != "" {
		r.fallback = cfg.Defaults.Priority
	}

	for _, mapping := range cfg.TopicMappings {
		priority := mapping.Priority
		if priority == "" {
			priority = cfg.Defaults.Priority
		}
		direction := mapping.Direction
		if direction == "" {
			direction = cfg.Defaults.Direction
		}

		info := &TopicInfo{
			TopicID:     mapping.TopicID,
			RosTopic:    mapping.RosTopic,
			MessageType: mapping.MessageType,
			Priority:    priority,
			Direction:   direction,
		}
		if prev, ok := old[mapping.TopicID]; ok {
			info.StatCount = prev.StatCount
			info.LastReceived = prev.LastReceived
		}
		r.topics[mapping.TopicID] = info
		if mapping.RosTopic != "" {
			r.byRos[mapping.RosTopic] = mapping.TopicID
		}
	}

	r.logger.Infof("Loaded %d topics into registry", len(r.topics))
}

// GetTopicPriority gets the priority for a topic
func (r *TopicRegistry) GetTopicPriority(topic string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	info, exists := r.topics[topic]
	if !exists {
		return "", false
	}

	return info.Priority, true
}

// GetTopicInfo gets information for a topic
func (r *TopicRegistry) GetTopicInfo(topic string) (*TopicInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	info, exists := r.topics[topic]
	if !exists {
		return nil, false
	}

	infoCopy := *info
	return &infoCopy, true
}

// ResolveRosTopic maps a ROS topic name to its topic ID.
func (r *TopicRegistry) ResolveRosTopic(rosTopic string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byRos[rosTopic]
	return id, ok
}

// UpdateTopicStats updates statistics for a topic
func (r *TopicRegistry) UpdateTopicStats(topic string, timestamp int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	info, exists := r.topics[topic]
	if !exists {
		info = &TopicInfo{
			TopicID:  topic,
			Priority: r.fallback,
		}
		r.topics[topic] = info
	}

	info.StatCount++
	info.LastReceived = timestamp
}

// GetMessageType gets the message type for a topic
func (r *TopicRegistry) GetMessageType(topic string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	info, exists := r.topics[topic]
	if !exists {
		return "", false
	}

	return info.MessageType, true
}

// GetAllTopics returns the sorted IDs of all registered topics
func (r *TopicRegistry) GetAllTopics() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	topics := make([]string, 0, len(r.topics))
	for topic := range r.topics {
		topics = append(topics, topic)
	}
	sort.Strings(topics)

	return topics
}

// GetTopicStats returns a snapshot of every topic
func (r *TopicRegistry) GetTopicStats() map[string]TopicInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := make(map[string]TopicInfo, len(r.topics))
	for topic, info := range r.topics {
		stats[topic] = *info
	}

	return stats
}

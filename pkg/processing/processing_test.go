package processing

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/hdmap/viewer/pkg/config"
	customlog "github.com/hdmap/viewer/pkg/log"
)

func newTestDirector(t *testing.T) (*MessageDirector, *TopicProcessor, *LoggingResultHandler) {
	t.Helper()
	logger := customlog.NewNopLogger()
	registry := NewTopicRegistry(logger)
	registry.LoadFromConfig(config.DefaultConfig())

	director := NewMessageDirector(logger, registry, &DirectorOptions{DefaultQueueSize: 10})
	director.Initialize(1, 1, 1)

	processor := NewTopicProcessor(logger, registry)
	results := NewLoggingResultHandler(logger)
	director.SetProcessor(processor.CreateProcessorFunc())
	director.SetResultHandler(results.CreateHandlerFunc())
	return director, processor, results
}

func TestRouteMessageBeforeStart(t *testing.T) {
	director, _, _ := newTestDirector(t)

	err := director.RouteMessage(NewMessage(config.TopicCurrentRegion, []byte("{}")))
	if !errors.Is(err, ErrNotRunning) {
		t.Fatalf("expected ErrNotRunning, got %v", err)
	}
}

func TestRouteMessageByPriority(t *testing.T) {
	director, processor, results := newTestDirector(t)

	var mu sync.Mutex
	seen := map[string]int{}
	handler := func(msg *Message) (map[string]interface{}, error) {
		mu.Lock()
		seen[msg.Topic]++
		mu.Unlock()
		return map[string]interface{}{"bytes": len(msg.Data)}, nil
	}
	processor.Handle(config.TopicCurrentRegion, handler)
	processor.Handle(config.TopicGlobalMap, handler)

	director.Start()
	if err := director.RouteMessage(NewMessage(config.TopicCurrentRegion, []byte(`{"id":"a"}`))); err != nil {
		t.Fatalf("RouteMessage region: %v", err)
	}
	if !director.EnqueueMessage(NewMessage(config.TopicGlobalMap, []byte{1, 2, 3})) {
		t.Fatal("EnqueueMessage global map rejected")
	}
	director.Stop()

	if seen[config.TopicCurrentRegion] != 1 || seen[config.TopicGlobalMap] != 1 {
		t.Errorf("unexpected handler calls: %v", seen)
	}

	metrics := director.GetPoolMetrics()
	if metrics[PriorityHigh].ProcessedCount != 1 {
		t.Errorf("HIGH pool processed %d, want 1 (current_region is HIGH)", metrics[PriorityHigh].ProcessedCount)
	}
	if metrics[PriorityStandard].ProcessedCount != 1 {
		t.Errorf("STANDARD pool processed %d, want 1", metrics[PriorityStandard].ProcessedCount)
	}

	last := results.LastResults()
	if !last[config.TopicGlobalMap].OK {
		t.Errorf("expected OK result for global map, got %+v", last[config.TopicGlobalMap])
	}
	if last[config.TopicGlobalMap].Summary != `{"bytes":3}` {
		t.Errorf("unexpected summary %q", last[config.TopicGlobalMap].Summary)
	}

	info, ok := director.Registry().GetTopicInfo(config.TopicCurrentRegion)
	if !ok || info.StatCount != 1 {
		t.Errorf("expected one recorded message for current_region, got %+v", info)
	}
}

func TestUnknownTopicGoesToStandardAndFails(t *testing.T) {
	director, _, results := newTestDirector(t)
	director.Start()

	if err := director.RouteMessage(NewMessage("lidar", []byte{1})); err != nil {
		t.Fatalf("RouteMessage: %v", err)
	}
	director.Stop()

	if got := director.GetPoolMetrics()[PriorityStandard].ErrorCount; got != 1 {
		t.Errorf("STANDARD ErrorCount = %d, want 1", got)
	}
	if r := results.LastResults()["lidar"]; r.OK || r.Error == "" {
		t.Errorf("expected recorded error for unknown topic, got %+v", r)
	}
	if _, ok := director.Registry().GetTopicInfo("lidar"); !ok {
		t.Error("unknown topic should be added to the registry")
	}
}

func TestProcessorRejectsEmptyPayload(t *testing.T) {
	logger := customlog.NewNopLogger()
	p := NewTopicProcessor(logger, NewTopicRegistry(logger))
	p.Handle("t", func(*Message) (map[string]interface{}, error) { return nil, nil })

	if _, err := p.ProcessMessage(&Message{Topic: "t"}); err == nil {
		t.Error("expected error for empty payload")
	}
	if _, err := p.ProcessMessage(&Message{Topic: "other", Data: []byte{1}}); !errors.Is(err, ErrUnknownTopic) {
		t.Errorf("expected ErrUnknownTopic, got %v", err)
	}
}

func TestPoolQueueFull(t *testing.T) {
	pool := NewProcessingPool("TEST", 1, 1, customlog.NewNopLogger())
	release := make(chan struct{})
	started := make(chan struct{}, 1)
	pool.SetProcessor(func(*Message) (map[string]interface{}, error) {
		select {
		case started <- struct{}{}:
		default:
		}
		<-release
		return nil, nil
	})

	if pool.ProcessMessage(&Message{Topic: "x"}) {
		t.Fatal("stopped pool accepted a message")
	}

	pool.Start()
	if !pool.ProcessMessage(&Message{Topic: "x"}) {
		t.Fatal("first message rejected")
	}
	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("worker never started processing")
	}
	if !pool.ProcessMessage(&Message{Topic: "x"}) {
		t.Fatal("second message should fit in the queue")
	}
	if pool.ProcessMessage(&Message{Topic: "x"}) {
		t.Fatal("third message should be dropped")
	}

	close(release)
	pool.Stop()

	m := pool.GetMetrics()
	if m.ProcessedCount != 2 || m.DroppedCount != 1 || m.QueuedCount != 2 {
		t.Errorf("unexpected metrics %+v", m)
	}
}

func TestRegistryLoadFromConfig(t *testing.T) {
	registry := NewTopicRegistry(customlog.NewNopLogger())
	cfg := config.DefaultConfig()
	registry.LoadFromConfig(cfg)

	if id, ok := registry.ResolveRosTopic("/hdmap_server/current_region"); !ok || id != config.TopicCurrentRegion {
		t.Errorf("ResolveRosTopic = %q, %v", id, ok)
	}
	if p, _ := registry.GetTopicPriority(config.TopicMousePosition); p != PriorityStandard {
		t.Errorf("default priority not applied, got %q", p)
	}

	registry.UpdateTopicStats(config.TopicCurrentRegion, 42)
	registry.LoadFromConfig(cfg)
	if info, _ := registry.GetTopicInfo(config.TopicCurrentRegion); info.StatCount != 1 || info.LastReceived != 42 {
		t.Errorf("stats lost on reload: %+v", info)
	}

	topics := registry.GetAllTopics()
	if len(topics) != len(cfg.TopicMappings) || topics[0] != config.TopicCurrentRegion {
		t.Errorf("unexpected topic list %v", topics)
	}
	if stats := registry.GetTopicStats(); stats[config.TopicCurrentRegion].RosTopic != "/hdmap_server/current_region" {
		t.Errorf("unexpected stats %+v", stats[config.TopicCurrentRegion])
	}
}

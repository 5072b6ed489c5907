package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/hdmap/viewer/pkg/eventbus"
	"github.com/hdmap/viewer/pkg/processing"
)

func TestAttachCountsBusEvents(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewCollector(reg, Sources{})
	if err != nil {
		t.Fatalf("NewCollector: %v", err)
	}

	bus := eventbus.New()
	handles := c.Attach(bus, eventbus.MouseCursor, eventbus.FileSelected)
	if len(handles) != 2 {
		t.Fatalf("Attach returned %d handles, want 2", len(handles))
	}

	for i := 0; i < 3; i++ {
		if err := bus.Publish(eventbus.MouseCursor, nil); err != nil {
			t.Fatalf("Publish: %v", err)
		}
	}
	if got := testutil.ToFloat64(c.BusEvents.WithLabelValues(eventbus.MouseCursor.String())); got != 3 {
		t.Fatalf("mouse cursor events = %v, want 3", got)
	}
	if got := testutil.ToFloat64(c.BusEvents.WithLabelValues(eventbus.FileSelected.String())); got != 0 {
		t.Fatalf("file selected events = %v, want 0", got)
	}
}

func TestHandlerExposesState(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewCollector(reg, Sources{
		Pools: func() map[string]processing.PoolStatus {
			return map[string]processing.PoolStatus{
				"HIGH": {PoolMetrics: processing.PoolMetrics{ProcessedCount: 7, DroppedCount: 1}, QueueLength: 2},
			}
		},
		Topics: func() map[string]processing.TopicInfo {
			return map[string]processing.TopicInfo{"current_region": {TopicID: "current_region", StatCount: 5}}
		},
		SceneSize:     func() (int, int) { return 18, 198 },
		RegionUpdates: func() uint64 { return 4 },
	})
	if err != nil {
		t.Fatalf("NewCollector: %v", err)
	}

	rr := httptest.NewRecorder()
	c.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("/metrics status = %d, want 200", rr.Code)
	}

	body := rr.Body.String()
	for _, want := range []string{
		`hdmap_viewer_pool_processed_total{pool="HIGH"} 7`,
		`hdmap_viewer_pool_dropped_total{pool="HIGH"} 1`,
		`hdmap_viewer_pool_queue_length{pool="HIGH"} 2`,
		`hdmap_viewer_topic_messages_total{topic="current_region"} 5`,
		`hdmap_viewer_scene_lines 18`,
		`hdmap_viewer_scene_points 198`,
		`hdmap_viewer_region_updates_total 4`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in /metrics output:\n%s", want, body)
		}
	}
}

func TestNewCollectorTwiceOnSameRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewCollector(reg, Sources{}); err != nil {
		t.Fatalf("first NewCollector: %v", err)
	}
	if _, err := NewCollector(reg, Sources{}); err == nil {
		t.Fatal("second NewCollector on the same registry should fail")
	}
}

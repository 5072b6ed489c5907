// Package metrics exposes viewer state to Prometheus.
package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hdmap/viewer/pkg/eventbus"
	"github.com/hdmap/viewer/pkg/processing"
)

// Sources are read on every scrape. Nil funcs are skipped.
type Sources struct {
	Pools         func() map[string]processing.PoolStatus
	Topics        func() map[string]processing.TopicInfo
	SceneSize     func() (lines, points int)
	RegionUpdates func() uint64
}

// Collector bundles the viewer metrics and serves them over HTTP.
type Collector struct {
	gatherer prometheus.Gatherer

	BusEvents *prometheus.CounterVec
}

// NewCollector registers the viewer metrics against reg, defaulting to the
// global Prometheus registry when nil.
func NewCollector(reg prometheus.Registerer, src Sources) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "hdmap_viewer_bus_events_total",
		Help: "Events published on the in-process bus, labeled by kind.",
	}, []string{"kind"})
	if err := reg.Register(events); err != nil {
		return nil, fmt.Errorf("registering hdmap_viewer_bus_events_total: %w", err)
	}

	if err := reg.Register(&stateCollector{src: src}); err != nil {
		return nil, fmt.Errorf("registering viewer state collector: %w", err)
	}

	return &Collector{gatherer: gatherer, BusEvents: events}, nil
}

// Attach counts every event of the given kinds. Counting never fails a publish.
func (c *Collector) Attach(bus *eventbus.Bus, kinds ...eventbus.Kind) []eventbus.Handle {
	handles := make([]eventbus.Handle, 0, len(kinds))
	for _, kind := range kinds {
		counter := c.BusEvents.WithLabelValues(kind.String())
		handles = append(handles, bus.Subscribe(kind, func(any) error {
			counter.Inc()
			return nil
		}))
	}
	return handles
}

// Handler exposes a ready-to-use /metrics handler.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}

var (
	poolProcessedDesc = prometheus.NewDesc("hdmap_viewer_pool_processed_total",
		"Messages processed by a pool.", []string{"pool"}, nil)
	poolErrorsDesc = prometheus.NewDesc("hdmap_viewer_pool_errors_total",
		"Messages whose processing failed.", []string{"pool"}, nil)
	poolDroppedDesc = prometheus.NewDesc("hdmap_viewer_pool_dropped_total",
		"Messages dropped because the pool queue was full.", []string{"pool"}, nil)
	poolQueueDesc = prometheus.NewDesc("hdmap_viewer_pool_queue_length",
		"Messages waiting in a pool queue.", []string{"pool"}, nil)
	topicMessagesDesc = prometheus.NewDesc("hdmap_viewer_topic_messages_total",
		"Messages routed per topic.", []string{"topic"}, nil)
	sceneLinesDesc = prometheus.NewDesc("hdmap_viewer_scene_lines",
		"Polylines in the drawn map scene.", nil, nil)
	scenePointsDesc = prometheus.NewDesc("hdmap_viewer_scene_points",
		"Points in the drawn map scene.", nil, nil)
	regionUpdatesDesc = prometheus.NewDesc("hdmap_viewer_region_updates_total",
		"Current region updates stored.", nil, nil)
)

// stateCollector turns the Sources into const metrics at scrape time.
type stateCollector struct {
	src Sources
}

func (s *stateCollector) Describe(ch chan<- *prometheus.Desc) {
	for _, d := range []*prometheus.Desc{
		poolProcessedDesc, poolErrorsDesc, poolDroppedDesc, poolQueueDesc,
		topicMessagesDesc, sceneLinesDesc, scenePointsDesc, regionUpdatesDesc,
	} {
		ch <- d
	}
}

func (s *stateCollector) Collect(ch chan<- prometheus.Metric) {
	if s.src.Pools != nil {
		for name, st := range s.src.Pools() {
			ch <- prometheus.MustNewConstMetric(poolProcessedDesc, prometheus.CounterValue, float64(st.ProcessedCount), name)
			ch <- prometheus.MustNewConstMetric(poolErrorsDesc, prometheus.CounterValue, float64(st.ErrorCount), name)
			ch <- prometheus.MustNewConstMetric(poolDroppedDesc, prometheus.CounterValue, float64(st.DroppedCount), name)
			ch <- prometheus.MustNewConstMetric(poolQueueDesc, prometheus.GaugeValue, float64(st.QueueLength), name)
		}
	}
	if s.src.Topics != nil {
		for id, info := range s.src.Topics() {
			ch <- prometheus.MustNewConstMetric(topicMessagesDesc, prometheus.CounterValue, float64(info.StatCount), id)
		}
	}
	if s.src.SceneSize != nil {
		lines, points := s.src.SceneSize()
		ch <- prometheus.MustNewConstMetric(sceneLinesDesc, prometheus.GaugeValue, float64(lines))
		ch <- prometheus.MustNewConstMetric(scenePointsDesc, prometheus.GaugeValue, float64(points))
	}
	if s.src.RegionUpdates != nil {
		ch <- prometheus.MustNewConstMetric(regionUpdatesDesc, prometheus.CounterValue, float64(s.src.RegionUpdates()))
	}
}

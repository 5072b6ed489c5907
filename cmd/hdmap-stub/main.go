// Command hdmap-stub stands in for the HD map server: it serves a synthetic
// global map, publishes a moving current region and logs what the viewer
// publishes back.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pebbe/zmq4"

	"github.com/hdmap/viewer/pkg/config"
	"github.com/hdmap/viewer/pkg/hdmap"
	customlog "github.com/hdmap/viewer/pkg/log"
	"github.com/hdmap/viewer/pkg/processing"
	"github.com/hdmap/viewer/pkg/region"
	"github.com/hdmap/viewer/pkg/zeromq"
)

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	appLogger, err := customlog.NewLogrusLogger(getenv("LOG_LEVEL", "info"), "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}

	cfg := config.DefaultConfig()
	grid := hdmap.SyntheticGrid(hdmap.DefaultGridOptions(), time.Now().UnixNano())
	mapBuf := hdmap.EncodeMap(grid)

	service, err := zeromq.NewZeroMQService(zeromq.ServiceConfig{
		ReplyAddress:   getenv("STUB_REPLY_ADDRESS", "tcp://*:5555"),
		PublishAddress: getenv("STUB_PUBLISH_ADDRESS", "tcp://*:5556"),
	}, appLogger)
	if err != nil {
		appLogger.Fatalf("Failed to create ZeroMQ service: %v", err)
	}
	zeromq.RegisterMapHandlers(service, func() ([]byte, error) { return mapBuf, nil }, appLogger)
	service.Start()

	// Log everything the viewer sends back.
	registry := processing.NewTopicRegistry(appLogger)
	registry.LoadFromConfig(cfg)
	zmqCtx, err := zmq4.NewContext()
	if err != nil {
		appLogger.Fatalf("Failed to create ZMQ context: %v", err)
	}
	echo, err := zeromq.NewSubscriber(zmqCtx, getenv("STUB_VIEWER_ADDRESS", "tcp://localhost:5557"),
		[]string{cfg.RosTopic(config.TopicMousePosition), cfg.RosTopic(config.TopicMapFileInfo)},
		zeromq.RouterFunc(func(msg *processing.Message) error {
			appLogger.Infof("Viewer published on %s: %s", msg.Topic, string(msg.Data))
			return nil
		}), registry, appLogger)
	if err != nil {
		appLogger.Fatalf("Failed to create viewer subscriber: %v", err)
	}
	echo.Start()

	lanes := laneCenters(grid)
	regionTopic := cfg.RosTopic(config.TopicCurrentRegion)
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	appLogger.Infof("Map stub serving %d roads (%d bytes), cycling %d lanes on %s",
		len(grid.Roads), len(mapBuf), len(lanes), regionTopic)

	for i := 0; ; i++ {
		select {
		case <-quit:
			appLogger.Infof("Shutting down map stub...")
			echo.Stop()
			if err := zmqCtx.Term(); err != nil {
				appLogger.Warnf("ZMQ context termination: %v", err)
			}
			service.Stop()
			return
		case <-ticker.C:
			snapshot := lanes[i%len(lanes)]
			data, err := json.Marshal(snapshot)
			if err != nil {
				appLogger.Errorf("Encoding region: %v", err)
				continue
			}
			if err := service.PublishMessage(regionTopic, data); err != nil {
				appLogger.Warnf("Publishing region: %v", err)
			}
		}
	}
}

// laneCenters returns one region per lane, placed at the middle of its
// central curve.
func laneCenters(m *hdmap.Map) []region.Snapshot {
	var out []region.Snapshot
	for _, road := range m.Roads {
		for _, section := range road.Sections {
			for _, lane := range section.Lanes {
				if len(lane.CentralCurve) == 0 {
					continue
				}
				p := lane.CentralCurve[len(lane.CentralCurve)/2]
				out = append(out, region.Snapshot{ID: lane.ID, Point: region.Point2{X: p.X, Y: p.Y}})
			}
		}
	}
	if len(out) == 0 {
		out = append(out, region.Snapshot{ID: "none"})
	}
	return out
}

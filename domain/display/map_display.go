// Package display keeps the drawable state of the HD map view: the flattened
// map lines and the current region overlay.
package display

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hdmap/viewer/pkg/config"
	"github.com/hdmap/viewer/pkg/hdmap"
	customlog "github.com/hdmap/viewer/pkg/log"
	"github.com/hdmap/viewer/pkg/overlay"
	"github.com/hdmap/viewer/pkg/processing"
	"github.com/hdmap/viewer/pkg/region"
)

// MapProvider is the map server as seen by the display.
type MapProvider interface {
	WaitForService(ctx context.Context, interval time.Duration) error
	RequestGlobalMap(ctx context.Context) ([]byte, error)
}

// Router queues messages for processing.
type Router interface {
	RouteMessage(msg *processing.Message) error
}

// Options configures a MapDisplay.
type Options struct {
	RefreshHz           int
	ServiceWaitInterval time.Duration
	LineWidth           float64
}

// Status summarizes the display for the API.
type Status struct {
	MapState     string    `json:"map_state"`
	MapError     string    `json:"map_error,omitempty"`
	SceneVersion uint64    `json:"scene_version"`
	Lines        int       `json:"lines"`
	Points       int       `json:"points"`
	Lanes        int       `json:"lanes"`
	Ticks        uint64    `json:"ticks"`
	RegionShown  bool      `json:"region_shown"`
	LoadedAt     time.Time `json:"loaded_at,omitempty"`
}

// Map loading states.
const (
	MapStateWaiting    = "waiting_for_service"
	MapStateRequesting = "requesting"
	MapStateQueued     = "queued"
	MapStateLoaded     = "loaded"
	MapStateFailed     = "failed"
)

// MapDisplay requests the global map once, keeps its lines in a Scene, and
// refreshes the current region overlay on a fixed tick.
type MapDisplay struct {
	provider MapProvider
	router   Router
	cache    *region.Cache
	overlay  *overlay.Component
	scene    *Scene
	opts     Options
	logger   customlog.Logger

	ticks       atomic.Uint64
	regionShown atomic.Bool

	mu       sync.RWMutex
	mapState string
	mapErr   error
	loadedAt time.Time

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewMapDisplay wires a display. Zero options fall back to 10 Hz and a one
// second service wait.
func NewMapDisplay(provider MapProvider, router Router, cache *region.Cache, ov *overlay.Component, opts Options, logger customlog.Logger) *MapDisplay {
	if opts.RefreshHz <= 0 {
		opts.RefreshHz = 10
	}
	if opts.ServiceWaitInterval <= 0 {
		opts.ServiceWaitInterval = time.Second
	}
	return &MapDisplay{
		provider: provider,
		router:   router,
		cache:    cache,
		overlay:  ov,
		scene:    NewScene(),
		opts:     opts,
		logger:   logger.WithField("component", "map_display"),
		mapState: MapStateWaiting,
	}
}

// RegisterProcessors installs the global map and current region handlers.
func (d *MapDisplay) RegisterProcessors(p *processing.TopicProcessor) {
	p.Handle(config.TopicGlobalMap, d.handleGlobalMap)
	p.Handle(config.TopicCurrentRegion, d.handleCurrentRegion)
}

// Start requests the map in the background and starts the overlay ticker.
func (d *MapDisplay) Start(ctx context.Context) {
	ctx, d.cancel = context.WithCancel(ctx)

	d.wg.Add(2)
	go func() {
		defer d.wg.Done()
		d.loadGlobalMap(ctx)
	}()
	go func() {
		defer d.wg.Done()
		d.runTicker(ctx)
	}()
	d.logger.Infof("Map display started (refresh %d Hz)", d.opts.RefreshHz)
}

// Stop cancels the map request and the ticker and waits for both.
func (d *MapDisplay) Stop() {
	if d.cancel != nil {
		d.cancel()
	}
	d.wg.Wait()
	d.logger.Infof("Map display stopped")
}

func (d *MapDisplay) setMapState(state string, err error) {
	d.mu.Lock()
	d.mapState = state
	d.mapErr = err
	if state == MapStateLoaded {
		d.loadedAt = time.Now()
	}
	d.mu.Unlock()
}

// loadGlobalMap waits for the map service, requests the map once and queues
// the reply for processing.
func (d *MapDisplay) loadGlobalMap(ctx context.Context) {
	d.setMapState(MapStateWaiting, nil)
	if err := d.provider.WaitForService(ctx, d.opts.ServiceWaitInterval); err != nil {
		if !errors.Is(err, context.Canceled) {
			d.setMapState(MapStateFailed, err)
			d.logger.Errorf("Map service never became available: %v", err)
		}
		return
	}

	d.setMapState(MapStateRequesting, nil)
	buf, err := d.provider.RequestGlobalMap(ctx)
	if err != nil {
		d.setMapState(MapStateFailed, err)
		d.logger.Errorf("Global map request failed: %v", err)
		return
	}

	// The handler may finish before RouteMessage returns, so the state must be
	// queued before the message is routed.
	d.setMapState(MapStateQueued, nil)
	if err := d.router.RouteMessage(processing.NewMessage(config.TopicGlobalMap, buf)); err != nil {
		d.setMapState(MapStateFailed, err)
		d.logger.Errorf("Could not queue global map: %v", err)
		return
	}
	d.logger.Infof("Global map received (%d bytes), queued for processing", len(buf))
}

// handleGlobalMap decodes and flattens a map off any lock, then swaps it in.
func (d *MapDisplay) handleGlobalMap(msg *processing.Message) (map[string]interface{}, error) {
	m, err := hdmap.DecodeMap(msg.Data)
	if err != nil {
		d.setMapState(MapStateFailed, err)
		return nil, err
	}

	lines := hdmap.Flatten(m)
	lanes := hdmap.LaneCount(m)
	version := d.scene.Replace(lines, m.StampNs, lanes)
	d.setMapState(MapStateLoaded, nil)

	d.logger.WithFields(map[string]interface{}{
		"roads": len(m.Roads),
		"lanes": lanes,
		"lines": len(lines),
	}).Infof("Global map loaded (scene version %d)", version)

	return map[string]interface{}{
		"roads":   len(m.Roads),
		"lanes":   lanes,
		"lines":   len(lines),
		"points":  hdmap.PointCount(lines),
		"version": version,
	}, nil
}

func (d *MapDisplay) handleCurrentRegion(msg *processing.Message) (map[string]interface{}, error) {
	s, err := region.DecodeSnapshot(msg.Data)
	if err != nil {
		return nil, err
	}
	d.cache.Update(s)
	return map[string]interface{}{"id": s.ID}, nil
}

func (d *MapDisplay) runTicker(ctx context.Context) {
	ticker := time.NewTicker(time.Second / time.Duration(d.opts.RefreshHz))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.ShowCurrentRegion()
		}
	}
}

// ShowCurrentRegion is one render tick: it redraws the region overlay if a
// region is known and leaves it untouched otherwise.
func (d *MapDisplay) ShowCurrentRegion() bool {
	d.ticks.Add(1)
	s, ok := d.cache.ReadForDisplay()
	if !ok {
		return false
	}
	d.overlay.Replace(overlay.NewCurrentRegionUI(s))
	d.regionShown.Store(true)
	return true
}

// Scene returns the drawn line set.
func (d *MapDisplay) Scene() *Scene { return d.scene }

// Overlay returns the current region overlay.
func (d *MapDisplay) Overlay() *overlay.Component { return d.overlay }

// LineWidth returns the configured line width.
func (d *MapDisplay) LineWidth() float64 { return d.opts.LineWidth }

// Status reports map loading progress and scene size.
func (d *MapDisplay) Status() Status {
	d.mu.RLock()
	state, mapErr, loadedAt := d.mapState, d.mapErr, d.loadedAt
	d.mu.RUnlock()

	scene := d.scene.State()
	st := Status{
		MapState:     state,
		SceneVersion: scene.Version,
		Lines:        len(scene.Lines),
		Points:       scene.Points,
		Lanes:        scene.Lanes,
		Ticks:        d.ticks.Load(),
		RegionShown:  d.regionShown.Load(),
		LoadedAt:     loadedAt,
	}
	if mapErr != nil {
		st.MapError = fmt.Sprint(mapErr)
	}
	return st
}

package picking

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hdmap/viewer/pkg/eventbus"
	"github.com/hdmap/viewer/pkg/geometry"
	customlog "github.com/hdmap/viewer/pkg/log"
)

// ToolState is the activation state of a Tool.
type ToolState int

const (
	Inactive ToolState = iota
	Active
)

func (s ToolState) String() string {
	if s == Active {
		return "active"
	}
	return "inactive"
}

// Tool is the interactive pick tool. Activating it asks for a map file once;
// while active, pointer events are picked through its session.
type Tool struct {
	mu    sync.Mutex
	state ToolState

	session  *PickSession
	bus      *eventbus.Bus
	selector FileSelector
	filters  []FileFilter
	mapType  MapType
	exists   func(path string) bool
	now      func() time.Time
	newID    func() uuid.UUID
	logger   customlog.Logger
}

// ToolOption configures a Tool.
type ToolOption func(*Tool)

// WithFilters replaces DefaultFilters.
func WithFilters(filters []FileFilter) ToolOption {
	return func(t *Tool) { t.filters = filters }
}

// WithMapType sets the map type reported for selected files.
func WithMapType(mt MapType) ToolOption {
	return func(t *Tool) { t.mapType = mt }
}

// WithFileCheck replaces the file existence check.
func WithFileCheck(exists func(path string) bool) ToolOption {
	return func(t *Tool) { t.exists = exists }
}

// WithToolClock replaces time.Now for stamping file selections.
func WithToolClock(now func() time.Time) ToolOption {
	return func(t *Tool) { t.now = now }
}

// WithIDGenerator replaces uuid.New.
func WithIDGenerator(newID func() uuid.UUID) ToolOption {
	return func(t *Tool) { t.newID = newID }
}

// NewTool returns an inactive tool. selector may be nil, in which case only
// ActivateWith can select a file.
func NewTool(bus *eventbus.Bus, session *PickSession, selector FileSelector, logger customlog.Logger, opts ...ToolOption) *Tool {
	t := &Tool{
		state:    Inactive,
		session:  session,
		bus:      bus,
		selector: selector,
		filters:  DefaultFilters(),
		mapType:  MapTypeOpenDrive,
		exists:   fileExists,
		now:      time.Now,
		newID:    uuid.New,
		logger:   logger.WithField("component", "pick_tool"),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// State returns the current activation state.
func (t *Tool) State() ToolState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Activate switches the tool on and runs the file selection flow with the
// configured selector. See ActivateWith.
func (t *Tool) Activate() (*MapFileInfo, error) {
	return t.ActivateWith(t.selector)
}

// ActivateWith switches the tool on and asks sel for a map file once. A
// cancelled, failed or missing selection is not an error: the tool stays
// active and nothing is published. Activating an active tool does nothing.
func (t *Tool) ActivateWith(sel FileSelector) (*MapFileInfo, error) {
	t.mu.Lock()
	if t.state == Active {
		t.mu.Unlock()
		return nil, nil
	}
	t.state = Active
	t.mu.Unlock()

	t.logger.Infof("Pick tool activated")
	return t.selectFile(sel)
}

// Deactivate switches the tool off.
func (t *Tool) Deactivate() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state == Inactive {
		return
	}
	t.state = Inactive
	t.logger.Infof("Pick tool deactivated")
}

// ProcessMouseEvent picks while the tool is active. Inactive tools only pass
// the event on to the view controller. picked reports whether this event was
// picked, and result is the pick it produced.
func (t *Tool) ProcessMouseEvent(ev PointerEvent, rayFn RayFunc) (result geometry.PickResult, picked bool, status int) {
	if t.State() != Active {
		return geometry.PickResult{}, false, t.session.Forward(ev)
	}
	result, status, err := t.session.OnPointerEvent(ev, rayFn)
	if err != nil {
		t.logger.Errorf("Pointer event at (%d, %d): %v", ev.X, ev.Y, err)
	}
	return result, true, status
}

// Session returns the pick session driven by the tool.
func (t *Tool) Session() *PickSession { return t.session }

// Filters returns the file filters offered by the selection flow.
func (t *Tool) Filters() []FileFilter {
	return append([]FileFilter(nil), t.filters...)
}

func (t *Tool) selectFile(sel FileSelector) (*MapFileInfo, error) {
	if sel == nil {
		t.logger.Debugf("No file selector configured, skipping file selection")
		return nil, nil
	}
	path, err := sel.SelectFile(t.filters)
	if err != nil {
		t.logger.Warnf("File selection failed: %v", err)
		return nil, nil
	}
	if path == "" {
		t.logger.Debugf("File selection cancelled")
		return nil, nil
	}
	if !t.exists(path) {
		t.logger.Warnf("Selected map file does not exist: %s", path)
		return nil, nil
	}

	info := &MapFileInfo{
		Stamp:    t.now(),
		UUID:     t.newID(),
		FilePath: path,
		MapType:  t.mapType,
	}
	if err := t.bus.Publish(eventbus.FileSelected, info); err != nil {
		return nil, fmt.Errorf("publishing map file selection: %w", err)
	}
	t.logger.WithField("uuid", info.UUID).Infof("Selected map file %s", path)
	return info, nil
}

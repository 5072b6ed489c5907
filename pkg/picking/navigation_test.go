package picking

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hdmap/viewer/pkg/eventbus"
	customlog "github.com/hdmap/viewer/pkg/log"
)

func TestNavigationTrackerCursor(t *testing.T) {
	tests := []struct {
		name string
		evs  []PointerEvent
		want Cursor
	}{
		{"idle", nil, CursorDefault},
		{"hover", []PointerEvent{{Type: PointerMove}}, CursorDefault},
		{"drag", []PointerEvent{{Type: PointerPress, Buttons: 1}, {Type: PointerMove, Buttons: 1}}, CursorMove},
		{"release", []PointerEvent{{Type: PointerPress, Buttons: 1}, {Type: PointerRelease}}, CursorDefault},
		{"wheel", []PointerEvent{{Type: PointerWheel, Wheel: -1}}, CursorZoom},
		{"wheel then move", []PointerEvent{{Type: PointerWheel, Wheel: 1}, {Type: PointerMove}}, CursorDefault},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := NewNavigationTracker()
			for _, ev := range tt.evs {
				n.HandleMouseEvent(ev)
			}
			assert.Equal(t, tt.want, n.Cursor())
			assert.Equal(t, uint64(len(tt.evs)), n.Events())
		})
	}
}

func TestToolForwardsToNavigationTracker(t *testing.T) {
	bus := eventbus.New()
	nav := NewNavigationTracker()
	session := NewPickSession(bus, eventbus.MouseCursor, nil, customlog.NewNopLogger(), WithViewController(nav))
	tool := NewTool(bus, session, nil, customlog.NewNopLogger())

	_, picked, _ := tool.ProcessMouseEvent(PointerEvent{Type: PointerPress, X: 5, Y: 5, Width: 10, Height: 10, Buttons: 1}, topDown())
	assert.False(t, picked)
	assert.Equal(t, CursorMove, session.Cursor())

	_, _ = tool.Activate()
	res, picked, _ := tool.ProcessMouseEvent(PointerEvent{Type: PointerWheel, X: 5, Y: 5, Width: 10, Height: 10, Wheel: 1}, topDown())
	assert.True(t, picked)
	assert.True(t, res.Hit)
	assert.Equal(t, CursorZoom, session.Cursor())
	assert.Equal(t, uint64(2), nav.Events())
}

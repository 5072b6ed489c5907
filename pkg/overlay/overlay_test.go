package overlay

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hdmap/viewer/pkg/config"
	"github.com/hdmap/viewer/pkg/geometry"
	"github.com/hdmap/viewer/pkg/region"
)

func TestCurrentRegionUIFormat(t *testing.T) {
	ui := NewCurrentRegionUI(region.Snapshot{ID: "L7", Point: region.Point2{X: 1, Y: 2}, Heading: 0.5})

	assert.Equal(t, []string{
		"id: L7",
		"point: [1.000000  2.000000  ]",
		"heading: 0.500000",
	}, ui.Format())
}

func TestMousePositionUIFormat(t *testing.T) {
	ui := MousePositionUI{Point: geometry.Point3{X: -1.25, Y: 3, Z: 0}}

	assert.Equal(t, []string{"x: -1.250000", "y: 3.000000", "z: 0.000000"}, ui.Format())
}

func TestComponentLifecycle(t *testing.T) {
	c := NewComponent("current_region")
	assert.False(t, c.Visible())
	assert.Empty(t, c.Text())

	c.Clean()
	c.Update(MousePositionUI{})
	c.Show()
	assert.True(t, c.Visible())
	assert.Len(t, c.Text(), 3)

	c.Update(MousePositionUI{})
	assert.Len(t, c.Text(), 6, "Update appends until Clean")

	c.Hide()
	assert.False(t, c.Visible())
	assert.Len(t, c.Text(), 6)

	c.Clean()
	assert.Empty(t, c.Text())
}

func TestComponentReplace(t *testing.T) {
	c := NewComponent("mouse_position")
	c.Update(MousePositionUI{})
	before := c.Revision()

	c.Replace(CurrentRegionUI{ID: "x"})

	st := c.State()
	assert.True(t, st.Visible)
	assert.Equal(t, "id: x", st.Lines[0])
	assert.Len(t, st.Lines, 3)
	assert.Greater(t, c.Revision(), before)
	assert.Equal(t, "mouse_position", st.Name)
}

func TestTextReturnsCopy(t *testing.T) {
	c := NewComponent("p")
	c.Replace(CurrentRegionUI{ID: "a"})

	lines := c.Text()
	lines[0] = "changed"

	assert.Equal(t, "id: a", c.Text()[0])
}

func TestPlacementFromConfig(t *testing.T) {
	p := PlacementFromConfig(config.OverlayPlacement{X: 0, Y: 25, Horizontal: "left", Vertical: "BOTTOM"})
	assert.Equal(t, Placement{X: 0, Y: 25, Horizontal: Left, Vertical: Bottom}, p)

	p = PlacementFromConfig(config.OverlayPlacement{X: 3, Horizontal: "sideways", Vertical: ""})
	assert.Equal(t, Placement{X: 3, Horizontal: Left, Vertical: Top}, p)

	c := NewComponent("p")
	c.SetPosition(p)
	assert.Equal(t, p, c.State().Placement)
}

func TestComponentConcurrentReplaceAndRead(t *testing.T) {
	c := NewComponent("p")
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			c.Replace(MousePositionUI{Point: geometry.Point3{X: float64(i)}})
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			if st := c.State(); len(st.Lines) != 0 && len(st.Lines) != 3 {
				t.Errorf("partial panel with %d lines", len(st.Lines))
				return
			}
		}
	}()
	wg.Wait()
}

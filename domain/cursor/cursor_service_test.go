package cursor

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hdmap/viewer/pkg/eventbus"
	"github.com/hdmap/viewer/pkg/geometry"
	"github.com/hdmap/viewer/pkg/picking"
)

func TestCursorServiceTracksEvents(t *testing.T) {
	bus := eventbus.New()
	s := NewCursorService(bus)
	s.Start()
	s.Start()
	assert.Equal(t, 1, bus.SubscriberCount(eventbus.MouseCursor))

	require.NoError(t, bus.Publish(eventbus.MouseCursor, &picking.PointStamped{
		Stamp: time.Unix(10, 0), Point: geometry.Point3{X: 1, Y: 2},
	}))
	id := uuid.New()
	require.NoError(t, bus.Publish(eventbus.FileSelected, &picking.MapFileInfo{
		UUID: id, FilePath: "/maps/town.xodr", MapType: picking.MapTypeOpenDrive,
	}))

	r := s.GetReadout()
	require.NotNil(t, r.Cursor)
	assert.Equal(t, geometry.Point3{X: 1, Y: 2}, r.Cursor.Point)
	require.NotNil(t, r.MapFile)
	assert.Equal(t, id, r.MapFile.UUID)
	assert.Equal(t, uint64(1), r.Picks)
	assert.Equal(t, uint64(1), r.Files)
}

func TestCursorServiceIgnoresForeignPayloads(t *testing.T) {
	bus := eventbus.New()
	s := NewCursorService(bus)
	s.Start()

	require.NoError(t, bus.Publish(eventbus.MouseCursor, "not a point"))
	assert.Nil(t, s.GetReadout().Cursor)
}

func TestCursorServiceStop(t *testing.T) {
	bus := eventbus.New()
	s := NewCursorService(bus)
	s.Start()
	s.Stop()

	assert.Equal(t, 0, bus.SubscriberCount(eventbus.MouseCursor))
	assert.Equal(t, 0, bus.SubscriberCount(eventbus.FileSelected))
	require.NoError(t, bus.Publish(eventbus.MouseCursor, &picking.PointStamped{}))
	assert.Equal(t, uint64(0), s.GetReadout().Picks)
}

func TestGetCursorHandler(t *testing.T) {
	bus := eventbus.New()
	s := NewCursorService(bus)
	s.Start()
	require.NoError(t, bus.Publish(eventbus.MouseCursor, &picking.PointStamped{Point: geometry.Point3{X: 4}}))

	app := fiber.New()
	app.Get("/cursor", s.GetCursorHandler)
	resp, err := app.Test(httptest.NewRequest("GET", "/cursor", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	var out struct {
		Cursor Readout `json:"cursor"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	require.NotNil(t, out.Cursor.Cursor)
	assert.Equal(t, 4.0, out.Cursor.Cursor.Point.X)
}

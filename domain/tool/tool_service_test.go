package tool

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hdmap/viewer/pkg/eventbus"
	customlog "github.com/hdmap/viewer/pkg/log"
	"github.com/hdmap/viewer/pkg/overlay"
	"github.com/hdmap/viewer/pkg/picking"
)

func newTestApp(t *testing.T) (*fiber.App, *picking.Tool, *eventbus.Bus) {
	t.Helper()
	bus := eventbus.New()
	logger := customlog.NewNopLogger()
	session := picking.NewPickSession(bus, eventbus.MouseCursor, overlay.NewComponent("mouse_position"), logger)
	tl := picking.NewTool(bus, session, nil, logger)
	svc := NewToolService(tl)

	app := fiber.New()
	app.Post("/tool/activate", svc.ActivateHandler)
	app.Post("/tool/deactivate", svc.DeactivateHandler)
	app.Get("/tool", svc.StateHandler)
	return app, tl, bus
}

func decode(t *testing.T, body io.Reader) map[string]json.RawMessage {
	t.Helper()
	data, err := io.ReadAll(body)
	require.NoError(t, err)
	out := map[string]json.RawMessage{}
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func TestActivateWithFilePublishesSelection(t *testing.T) {
	app, tl, bus := newTestApp(t)
	path := filepath.Join(t.TempDir(), "town.xodr")
	require.NoError(t, os.WriteFile(path, []byte("<OpenDRIVE/>"), 0644))

	var got *picking.MapFileInfo
	bus.Subscribe(eventbus.FileSelected, func(p any) error {
		got = p.(*picking.MapFileInfo)
		return nil
	})

	req := httptest.NewRequest("POST", "/tool/activate", strings.NewReader(`{"file_path":"`+path+`"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	assert.Equal(t, picking.Active, tl.State())
	require.NotNil(t, got)
	assert.Equal(t, path, got.FilePath)

	out := decode(t, resp.Body)
	var info picking.MapFileInfo
	require.NoError(t, json.Unmarshal(out["map_file"], &info))
	assert.Equal(t, got.UUID, info.UUID)
}

func TestActivateWithFilteredOutFile(t *testing.T) {
	app, tl, bus := newTestApp(t)
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	published := false
	bus.Subscribe(eventbus.FileSelected, func(any) error {
		published = true
		return nil
	})

	req := httptest.NewRequest("POST", "/tool/activate", strings.NewReader(`{"file_path":"`+path+`"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, picking.Active, tl.State())
	assert.False(t, published)
	assert.Equal(t, "null", string(decode(t, resp.Body)["map_file"]))
}

func TestActivateWithoutBody(t *testing.T) {
	app, tl, _ := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest("POST", "/tool/activate", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, picking.Active, tl.State())
}

func TestActivateBadBody(t *testing.T) {
	app, tl, _ := newTestApp(t)

	req := httptest.NewRequest("POST", "/tool/activate", strings.NewReader(`{`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, picking.Inactive, tl.State())
}

func TestDeactivateAndState(t *testing.T) {
	app, tl, _ := newTestApp(t)
	_, err := tl.Activate()
	require.NoError(t, err)

	resp, err := app.Test(httptest.NewRequest("POST", "/tool/deactivate", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, picking.Inactive, tl.State())

	resp, err = app.Test(httptest.NewRequest("GET", "/tool", nil))
	require.NoError(t, err)
	var st State
	require.NoError(t, json.Unmarshal(decode(t, resp.Body)["tool"], &st))
	assert.Equal(t, "inactive", st.State)
	assert.Equal(t, []string{"OpenDRIVE Files (*.xodr)", "XML Files (*.xml)"}, st.Filters)
}

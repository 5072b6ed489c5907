package display

import (
	"github.com/gofiber/fiber/v2"
)

// GetLinesHandler returns the flattened map lines
func (d *MapDisplay) GetLinesHandler(c *fiber.Ctx) error {
	scene := d.scene.State()
	return c.JSON(fiber.Map{
		"status":     "success",
		"version":    scene.Version,
		"stamp_ns":   scene.StampNs,
		"line_width": d.opts.LineWidth,
		"lines":      scene.Lines,
	})
}

// GetStatusHandler returns map loading and render tick status
func (d *MapDisplay) GetStatusHandler(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "success",
		"display": d.Status(),
	})
}

// GetRegionHandler returns the current region, 404 while none is known
func (d *MapDisplay) GetRegionHandler(c *fiber.Ctx) error {
	s, ok := d.cache.ReadForDisplay()
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "current region not known yet",
		})
	}
	return c.JSON(fiber.Map{
		"status": "success",
		"region": s,
	})
}

// GetOverlayHandler returns the current region overlay panel
func (d *MapDisplay) GetOverlayHandler(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "success",
		"overlay": d.overlay.State(),
	})
}

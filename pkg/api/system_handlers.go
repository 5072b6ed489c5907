package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/hdmap/viewer/pkg/processing"
)

// SystemHandler exposes topic statistics and processing pool metrics.
type SystemHandler struct {
	director *processing.MessageDirector
	registry *processing.TopicRegistry
}

// RegisterSystemRoutes registers /topics and /processing on router.
func RegisterSystemRoutes(router fiber.Router, director *processing.MessageDirector, registry *processing.TopicRegistry) {
	h := &SystemHandler{director: director, registry: registry}
	router.Get("/topics", h.handleGetTopics)
	router.Get("/processing", h.handleGetProcessing)
}

func (h *SystemHandler) handleGetTopics(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "success",
		"topics": h.registry.GetTopicStats(),
	})
}

func (h *SystemHandler) handleGetProcessing(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "success",
		"pools":  h.director.GetPoolMetrics(),
	})
}

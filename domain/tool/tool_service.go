package tool

import (
	"github.com/gofiber/fiber/v2"

	"github.com/hdmap/viewer/pkg/geometry"
	"github.com/hdmap/viewer/pkg/picking"
)

// ActivateRequest carries the map file chosen by the client. Leaving it empty
// runs the tool's own selector.
type ActivateRequest struct {
	FilePath string `json:"file_path"`
}

// State describes the pick tool for the API.
type State struct {
	State    string              `json:"state"`
	Cursor   picking.Cursor      `json:"cursor"`
	LastPick geometry.PickResult `json:"last_pick"`
	Hits     uint64              `json:"hits"`
	Misses   uint64              `json:"misses"`
	Filters  []string            `json:"filters"`
}

// ToolService exposes the pick tool over HTTP
type ToolService struct {
	tool *picking.Tool
}

// NewToolService creates a new tool service instance
func NewToolService(tool *picking.Tool) *ToolService {
	return &ToolService{tool: tool}
}

// ActivateHandler switches the tool on and runs the file selection flow once
func (s *ToolService) ActivateHandler(c *fiber.Ctx) error {
	var req ActivateRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
	}

	var (
		info *picking.MapFileInfo
		err  error
	)
	if req.FilePath != "" {
		info, err = s.tool.ActivateWith(picking.FilterSelector{Next: picking.StaticSelector{Path: req.FilePath}})
	} else {
		info, err = s.tool.Activate()
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"status":   "activated",
		"map_file": info,
		"tool":     s.GetState(),
	})
}

// DeactivateHandler switches the tool off
func (s *ToolService) DeactivateHandler(c *fiber.Ctx) error {
	s.tool.Deactivate()
	return c.JSON(fiber.Map{
		"status": "deactivated",
		"tool":   s.GetState(),
	})
}

// StateHandler returns the tool state
func (s *ToolService) StateHandler(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "success",
		"tool":   s.GetState(),
	})
}

// GetState returns the current tool state
func (s *ToolService) GetState() State {
	session := s.tool.Session()
	hits, misses := session.Stats()
	filters := s.tool.Filters()
	names := make([]string, len(filters))
	for i, f := range filters {
		names[i] = f.String()
	}
	return State{
		State:    s.tool.State().String(),
		Cursor:   session.Cursor(),
		LastPick: session.LastPick(),
		Hits:     hits,
		Misses:   misses,
		Filters:  names,
	}
}

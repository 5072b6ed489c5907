package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Topic IDs referenced by the viewer. The ROS topic names behind them come from
// topic_mappings so deployments can remap them.
const (
	TopicGlobalMap     = "global_map"
	TopicCurrentRegion = "current_region"
	TopicMousePosition = "mouse_position"
	TopicMapFileInfo   = "map_file_info"
)

// Directions and priorities accepted in topic mappings.
const (
	DirectionInbound  = "INBOUND"
	DirectionOutbound = "OUTBOUND"

	PriorityHigh     = "HIGH"
	PriorityStandard = "STANDARD"
	PriorityLow      = "LOW"
)

// Config represents the operational display configuration
type Config struct {
	Version       string         `yaml:"version" json:"version"`
	ConfigID      string         `yaml:"config_id" json:"config_id"`
	LastUpdated   string         `yaml:"lastUpdated" json:"lastUpdated"`
	TopicMappings []TopicMapping `yaml:"topic_mappings" json:"topic_mappings"`
	Defaults      DefaultsConfig `yaml:"defaults" json:"defaults"`
	Display       DisplayConfig  `yaml:"display" json:"display"`
	Camera        CameraConfig   `yaml:"camera" json:"camera"`
	Tool          ToolConfig     `yaml:"tool" json:"tool"`
	Overlays      OverlaysConfig `yaml:"overlays" json:"overlays"`
}

// TopicMapping binds a viewer topic ID to a ROS topic on the map server side
type TopicMapping struct {
	TopicID     string `yaml:"topic_id" json:"topic_id"`
	RosTopic    string `yaml:"ros_topic" json:"ros_topic"`
	MessageType string `yaml:"message_type" json:"message_type"`
	Priority    string `yaml:"priority" json:"priority"`
	Direction   string `yaml:"direction" json:"direction"`
}

// DefaultsConfig holds default values for topic mappings
type DefaultsConfig struct {
	Priority  string `yaml:"priority" json:"priority"`
	Direction string `yaml:"direction" json:"direction"`
}

// DisplayConfig controls the map display refresh
type DisplayConfig struct {
	RefreshHz int     `yaml:"refresh_hz" json:"refresh_hz"`
	LineWidth float64 `yaml:"line_width" json:"line_width"`
}

// CameraConfig describes the pinhole camera used for pointer picking
type CameraConfig struct {
	Position [3]float64 `yaml:"position" json:"position"`
	Target   [3]float64 `yaml:"target" json:"target"`
	Up       [3]float64 `yaml:"up" json:"up"`
	FovDeg   float64    `yaml:"fov_deg" json:"fov_deg"`
}

// FileFilter is one entry of the file-selection dialog filter list
type FileFilter struct {
	Name     string   `yaml:"name" json:"name"`
	Patterns []string `yaml:"patterns" json:"patterns"`
}

// ToolConfig holds settings for the pick tool
type ToolConfig struct {
	FileFilters []FileFilter `yaml:"file_filters" json:"file_filters"`
	MapType     string       `yaml:"map_type" json:"map_type"`
}

// OverlayPlacement positions an overlay panel on screen
type OverlayPlacement struct {
	X          int    `yaml:"x" json:"x"`
	Y          int    `yaml:"y" json:"y"`
	Horizontal string `yaml:"horizontal" json:"horizontal"`
	Vertical   string `yaml:"vertical" json:"vertical"`
}

// OverlaysConfig positions the overlays drawn by the viewer
type OverlaysConfig struct {
	MousePosition OverlayPlacement `yaml:"mouse_position" json:"mouse_position"`
	CurrentRegion OverlayPlacement `yaml:"current_region" json:"current_region"`
}

// DefaultConfig mirrors the stock hdmap_server deployment.
func DefaultConfig() *Config {
	return &Config{
		Version:  "1.0",
		ConfigID: "default-display-config",
		TopicMappings: []TopicMapping{
			{TopicID: TopicGlobalMap, RosTopic: "/hdmap_server/global_map", MessageType: "hdmap_msgs/srv/GetGlobalMap", Priority: PriorityStandard, Direction: DirectionInbound},
			{TopicID: TopicCurrentRegion, RosTopic: "/hdmap_server/current_region", MessageType: "hdmap_msgs/msg/Region", Priority: PriorityHigh, Direction: DirectionInbound},
			{TopicID: TopicMousePosition, RosTopic: "/hdmap_server/mouse_position", MessageType: "geometry_msgs/msg/PointStamped", Direction: DirectionOutbound},
			{TopicID: TopicMapFileInfo, RosTopic: "/hdmap_server/map_file_info", MessageType: "hdmap_msgs/msg/MapFileInfo", Direction: DirectionOutbound},
		},
		Defaults: DefaultsConfig{Priority: PriorityStandard, Direction: DirectionInbound},
		Display:  DisplayConfig{RefreshHz: 10, LineWidth: 0.1},
		Camera: CameraConfig{
			Position: [3]float64{0, -30, 30},
			Target:   [3]float64{0, 0, 0},
			Up:       [3]float64{0, 0, 1},
			FovDeg:   45,
		},
		Tool: ToolConfig{
			FileFilters: []FileFilter{
				{Name: "OpenDRIVE Files", Patterns: []string{"*.xodr"}},
				{Name: "XML Files", Patterns: []string{"*.xml"}},
			},
			MapType: "OPENDRIVE",
		},
		Overlays: OverlaysConfig{
			MousePosition: OverlayPlacement{X: 0, Y: 25, Horizontal: "LEFT", Vertical: "BOTTOM"},
			CurrentRegion: OverlayPlacement{X: 0, Y: 0, Horizontal: "LEFT", Vertical: "TOP"},
		},
	}
}

// LoadConfig loads configuration from the specified file path.
// Sections left out of the file keep the values from DefaultConfig.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes a YAML display configuration on top of DefaultConfig.
func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}
	return cfg, nil
}

// Validate checks the fields the viewer cannot run without.
func (c *Config) Validate() error {
	if c.ConfigID == "" || c.Version == "" {
		return fmt.Errorf("validation failed: missing required fields (ConfigID, Version)")
	}
	for _, id := range []string{TopicGlobalMap, TopicCurrentRegion} {
		if _, ok := c.GetTopicMapping(id); !ok {
			return fmt.Errorf("validation failed: missing topic mapping for '%s'", id)
		}
	}
	if c.Display.RefreshHz <= 0 {
		return fmt.Errorf("validation failed: display.refresh_hz must be positive, got %d", c.Display.RefreshHz)
	}
	if c.Camera.FovDeg <= 0 || c.Camera.FovDeg >= 180 {
		return fmt.Errorf("validation failed: camera.fov_deg must be in (0, 180), got %v", c.Camera.FovDeg)
	}
	return nil
}

// GetTopicMappingsByDirection returns topic mappings filtered by direction
func (c *Config) GetTopicMappingsByDirection(direction string) []TopicMapping {
	var result []TopicMapping

	for _, mapping := range c.TopicMappings {
		mappingWithDefaults := applyDefaults(mapping, c.Defaults)
		if mappingWithDefaults.Direction == direction {
			result = append(result, mappingWithDefaults)
		}
	}

	return result
}

// GetTopicMapping returns the mapping registered for a viewer topic ID
func (c *Config) GetTopicMapping(topicID string) (TopicMapping, bool) {
	for _, mapping := range c.TopicMappings {
		if mapping.TopicID == topicID {
			return applyDefaults(mapping, c.Defaults), true
		}
	}
	return TopicMapping{}, false
}

// GetTopicMappingByRosTopic returns the mapping for a ROS topic name
func (c *Config) GetTopicMappingByRosTopic(rosTopic string) (TopicMapping, bool) {
	for _, mapping := range c.TopicMappings {
		if mapping.RosTopic == rosTopic {
			return applyDefaults(mapping, c.Defaults), true
		}
	}
	return TopicMapping{}, false
}

// RosTopic resolves a viewer topic ID to its ROS topic, falling back to the ID itself.
func (c *Config) RosTopic(topicID string) string {
	if m, ok := c.GetTopicMapping(topicID); ok && m.RosTopic != "" {
		return m.RosTopic
	}
	return topicID
}

// applyDefaults merges default values into a topic mapping where fields are empty
func applyDefaults(mapping TopicMapping, defaults DefaultsConfig) TopicMapping {
	result := mapping

	if result.Priority == "" {
		result.Priority = defaults.Priority
	}

	if result.Direction == "" {
		result.Direction = defaults.Direction
	}

	return result
}

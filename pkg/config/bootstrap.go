package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// BootstrapFileName is the bootstrap configuration file looked up in the config directory.
const BootstrapFileName = "viewer_config.yaml"

// BootstrapConfig holds the initial configuration loaded from viewer_config.yaml
type BootstrapConfig struct {
	Logging    LoggingConfig         `yaml:"logging"`
	Server     BootstrapServerConfig `yaml:"server"`
	ZeroMQ     ZeroMQBootstrap       `yaml:"zeromq"`
	Data       DataConfig            `yaml:"data"`
	Processing ProcessingConfig      `yaml:"processing"`
}

// LoggingConfig holds logging settings from bootstrap
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogPath string `yaml:"log_path,omitempty"`
}

// BootstrapServerConfig holds the HTTP server settings
type BootstrapServerConfig struct {
	HTTPPort int `yaml:"http_port"`
}

// ZeroMQBootstrap holds the addresses used to reach the map server
type ZeroMQBootstrap struct {
	// MapServiceAddress is where the REQ socket connects for GET_GLOBAL_MAP.
	MapServiceAddress string `yaml:"map_service_address"`
	// RegionSubscribeAddress is where the SUB socket connects for region updates.
	RegionSubscribeAddress string `yaml:"region_subscribe_address"`
	// PublishBindAddress is where picked points and file selections are published.
	PublishBindAddress    string `yaml:"publish_bind_address"`
	ServiceWaitIntervalMs int    `yaml:"service_wait_interval_ms"`
	RequestTimeoutMs      int    `yaml:"request_timeout_ms"`
}

// ProcessingConfig holds message processing worker configuration from bootstrap
type ProcessingConfig struct {
	HighPriorityWorkers     int `yaml:"high_priority_workers"`
	StandardPriorityWorkers int `yaml:"standard_priority_workers"`
	LowPriorityWorkers      int `yaml:"low_priority_workers"`
	QueueSize               int `yaml:"queue_size"`
}

// DataConfig holds data directory settings from bootstrap
type DataConfig struct {
	Directory             string `yaml:"directory"`
	DisplayConfigFilename string `yaml:"display_config_file"`
}

// ServiceWaitInterval returns the map service retry interval, one second when unset.
func (z ZeroMQBootstrap) ServiceWaitInterval() time.Duration {
	if z.ServiceWaitIntervalMs <= 0 {
		return time.Second
	}
	return time.Duration(z.ServiceWaitIntervalMs) * time.Millisecond
}

// RequestTimeout returns the map request timeout, ten seconds when unset.
func (z ZeroMQBootstrap) RequestTimeout() time.Duration {
	if z.RequestTimeoutMs <= 0 {
		return 10 * time.Second
	}
	return time.Duration(z.RequestTimeoutMs) * time.Millisecond
}

// DisplayConfigPath joins the data directory and the display config file name.
func (b *BootstrapConfig) DisplayConfigPath() string {
	return filepath.Join(b.Data.Directory, b.Data.DisplayConfigFilename)
}

// LoadBootstrapConfig loads the bootstrap configuration from viewer_config.yaml
func LoadBootstrapConfig(configDir string) (*BootstrapConfig, error) {
	bootstrapConfigPath := filepath.Join(configDir, BootstrapFileName)

	data, err := os.ReadFile(bootstrapConfigPath)
	if err != nil {
		return nil, fmt.Errorf("error reading bootstrap config file '%s': %w", bootstrapConfigPath, err)
	}

	var bootstrapCfg BootstrapConfig
	if err := yaml.Unmarshal(data, &bootstrapCfg); err != nil {
		return nil, fmt.Errorf("error parsing bootstrap config file '%s': %w", bootstrapConfigPath, err)
	}

	if bootstrapCfg.ZeroMQ.MapServiceAddress == "" {
		return nil, fmt.Errorf("missing required field in bootstrap config: zeromq.map_service_address")
	}
	if bootstrapCfg.ZeroMQ.RegionSubscribeAddress == "" {
		return nil, fmt.Errorf("missing required field in bootstrap config: zeromq.region_subscribe_address")
	}
	if bootstrapCfg.ZeroMQ.PublishBindAddress == "" {
		return nil, fmt.Errorf("missing required field in bootstrap config: zeromq.publish_bind_address")
	}
	if bootstrapCfg.Data.Directory == "" {
		return nil, fmt.Errorf("missing required field in bootstrap config: data.directory")
	}
	if bootstrapCfg.Data.DisplayConfigFilename == "" {
		return nil, fmt.Errorf("missing required field in bootstrap config: data.display_config_file")
	}

	applyProcessingDefaults(&bootstrapCfg.Processing)

	return &bootstrapCfg, nil
}

// Every pool needs at least one worker; a single worker keeps region updates ordered.
func applyProcessingDefaults(p *ProcessingConfig) {
	if p.HighPriorityWorkers <= 0 {
		p.HighPriorityWorkers = 1
	}
	if p.StandardPriorityWorkers <= 0 {
		p.StandardPriorityWorkers = 1
	}
	if p.LowPriorityWorkers <= 0 {
		p.LowPriorityWorkers = 1
	}
	if p.QueueSize <= 0 {
		p.QueueSize = 100
	}
}

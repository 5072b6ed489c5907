package services

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/hdmap/viewer/pkg/config"
	customlog "github.com/hdmap/viewer/pkg/log"
)

// ErrInvalidConfig marks updates rejected before anything was written.
var ErrInvalidConfig = errors.New("invalid display configuration")

// ConfigPublisher announces configuration changes to the map server side.
type ConfigPublisher interface {
	PublishConfigUpdatedNotification(cfg *config.Config) error
}

// DisplayConfigService manages the operational display configuration.
type DisplayConfigService interface {
	LoadConfig() error
	GetCurrentConfig() *config.Config
	GetCurrentConfigYAML() ([]byte, error)
	UpdateConfig(newConfigYAML []byte) error
	PersistConfig(yamlData []byte) error
	SetPublisher(p ConfigPublisher)
	OnChange(fn func(cfg *config.Config))
}

type displayConfigService struct {
	configPath      string
	logger          customlog.Logger
	configPublisher ConfigPublisher
	currentConfig   *config.Config
	listeners       []func(cfg *config.Config)
	mu              sync.RWMutex
	// notify waits for in-flight notifications; used by tests.
	notify sync.WaitGroup
}

// NewDisplayConfigService creates the service and loads configPath. A missing
// or unreadable file leaves the defaults in place.
func NewDisplayConfigService(configPath string, logger customlog.Logger) (DisplayConfigService, error) {
	if configPath == "" {
		return nil, fmt.Errorf("display configuration path cannot be empty")
	}
	if logger == nil {
		logger = customlog.NewNopLogger()
	}

	service := &displayConfigService{
		configPath:    configPath,
		logger:        logger.WithField("component", "config_service"),
		currentConfig: config.DefaultConfig(),
	}

	if err := service.LoadConfig(); err != nil {
		service.logger.Warnf("Initial load of display config '%s' failed: %v. Using defaults.", configPath, err)
		return service, nil
	}

	service.logger.Infof("DisplayConfigService initialized for path: %s", configPath)
	return service, nil
}

// LoadConfig reads and validates the config file. On failure the current
// configuration is kept.
func (s *displayConfigService) LoadConfig() error {
	s.logger.Infof("Loading display configuration from: %s", s.configPath)
	cfg, err := config.LoadConfig(s.configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	s.mu.Lock()
	s.currentConfig = cfg
	s.mu.Unlock()
	s.logger.Infof("Loaded display configuration ID: %s, Version: %s", cfg.ConfigID, cfg.Version)
	return nil
}

// GetCurrentConfig returns the active configuration. Callers must not modify it.
func (s *displayConfigService) GetCurrentConfig() *config.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentConfig
}

// GetCurrentConfigYAML returns the raw file content, or nil if the file does
// not exist yet.
func (s *displayConfigService) GetCurrentConfigYAML() ([]byte, error) {
	data, err := os.ReadFile(s.configPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading display config file '%s': %w", s.configPath, err)
	}
	return data, nil
}

// UpdateConfig validates, persists and applies newConfigYAML, then notifies
// listeners and the publisher.
func (s *displayConfigService) UpdateConfig(newConfigYAML []byte) error {
	newCfg, err := config.ParseConfig(newConfigYAML)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := newCfg.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	s.mu.Lock()
	if err := s.persistConfigUnlocked(newConfigYAML); err != nil {
		s.mu.Unlock()
		return err
	}
	oldID := s.currentConfig.ConfigID
	s.currentConfig = newCfg
	listeners := append([]func(*config.Config){}, s.listeners...)
	publisher := s.configPublisher
	s.mu.Unlock()

	s.logger.Infof("Updated display configuration. ID %s -> %s, Version: %s", oldID, newCfg.ConfigID, newCfg.Version)

	for _, fn := range listeners {
		fn(newCfg)
	}

	if publisher == nil {
		s.logger.Debugf("ConfigPublisher not configured, skipping update notification")
		return nil
	}
	s.notify.Add(1)
	go func() {
		defer s.notify.Done()
		if err := publisher.PublishConfigUpdatedNotification(newCfg); err != nil {
			s.logger.Warnf("Failed to publish config update notification: %v", err)
		}
	}()
	return nil
}

// PersistConfig writes yamlData to the config file without applying it.
func (s *displayConfigService) PersistConfig(yamlData []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistConfigUnlocked(yamlData)
}

func (s *displayConfigService) persistConfigUnlocked(yamlData []byte) error {
	if err := os.WriteFile(s.configPath, yamlData, 0644); err != nil {
		s.logger.Errorf("Error writing display config file '%s': %v", s.configPath, err)
		return fmt.Errorf("error writing display config file '%s': %w", s.configPath, err)
	}
	s.logger.Debugf("Persisted configuration to %s", s.configPath)
	return nil
}

// SetPublisher injects the notification publisher after construction.
func (s *displayConfigService) SetPublisher(p ConfigPublisher) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.configPublisher = p
}

// OnChange registers fn to run synchronously after every applied update.
func (s *displayConfigService) OnChange(fn func(cfg *config.Config)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

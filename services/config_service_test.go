package services

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hdmap/viewer/pkg/config"
	customlog "github.com/hdmap/viewer/pkg/log"
)

const validYAML = `
version: "2.0"
config_id: "test-display"
display:
  refresh_hz: 20
  line_width: 0.3
`

type recordingPublisher struct {
	mu  sync.Mutex
	ids []string
	err error
}

func (p *recordingPublisher) PublishConfigUpdatedNotification(cfg *config.Config) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ids = append(p.ids, cfg.ConfigID)
	return p.err
}

func newService(t *testing.T, content string) (*displayConfigService, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "display_config.yaml")
	if content != "" {
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	svc, err := NewDisplayConfigService(path, customlog.NewNopLogger())
	require.NoError(t, err)
	return svc.(*displayConfigService), path
}

func TestNewDisplayConfigServiceRequiresPath(t *testing.T) {
	_, err := NewDisplayConfigService("", nil)
	assert.Error(t, err)
}

func TestLoadConfigFromFile(t *testing.T) {
	svc, _ := newService(t, validYAML)

	cfg := svc.GetCurrentConfig()
	assert.Equal(t, "test-display", cfg.ConfigID)
	assert.Equal(t, 20, cfg.Display.RefreshHz)
	// sections not in the file keep their defaults
	assert.Equal(t, "/hdmap_server/current_region", cfg.RosTopic(config.TopicCurrentRegion))
}

func TestMissingFileKeepsDefaults(t *testing.T) {
	svc, _ := newService(t, "")

	assert.Equal(t, config.DefaultConfig().ConfigID, svc.GetCurrentConfig().ConfigID)
	data, err := svc.GetCurrentConfigYAML()
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestUpdateConfigPersistsAndNotifies(t *testing.T) {
	svc, path := newService(t, "")
	pub := &recordingPublisher{}
	svc.SetPublisher(pub)

	var seen *config.Config
	svc.OnChange(func(cfg *config.Config) { seen = cfg })

	require.NoError(t, svc.UpdateConfig([]byte(validYAML)))
	svc.notify.Wait()

	assert.Equal(t, "test-display", svc.GetCurrentConfig().ConfigID)
	require.NotNil(t, seen)
	assert.Equal(t, 0.3, seen.Display.LineWidth)
	assert.Equal(t, []string{"test-display"}, pub.ids)

	onDisk, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, validYAML, string(onDisk))
}

func TestUpdateConfigRejectsInvalid(t *testing.T) {
	svc, path := newService(t, "")

	tests := map[string]string{
		"bad yaml":         "display: [",
		"missing id":       "version: \"1\"\nconfig_id: \"\"\n",
		"zero refresh":     "display:\n  refresh_hz: 0\n",
		"fov out of range": "camera:\n  fov_deg: 200\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			err := svc.UpdateConfig([]byte(body))
			assert.True(t, errors.Is(err, ErrInvalidConfig), "got %v", err)
		})
	}

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "rejected updates must not be written")
	assert.Equal(t, config.DefaultConfig().ConfigID, svc.GetCurrentConfig().ConfigID)
}

func TestPublishFailureDoesNotFailUpdate(t *testing.T) {
	svc, _ := newService(t, "")
	svc.SetPublisher(&recordingPublisher{err: errors.New("socket closed")})

	assert.NoError(t, svc.UpdateConfig([]byte(validYAML)))
	svc.notify.Wait()
}

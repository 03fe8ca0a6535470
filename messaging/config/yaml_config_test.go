package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinywideclouds/go-push-messaging/messaging/config"
)

func TestNewConfigFromYaml(t *testing.T) {
	logger := newTestLogger()

	t.Run("Success - maps all fields correctly", func(t *testing.T) {
		yamlCfg := &config.YamlConfig{
			AppName:            "yaml-app",
			SenderID:           "333",
			NotifyNativeOnInit: true,
			FCMConfig: config.YamlFCMConfig{
				ProjectID:       "yaml-project",
				CredentialsFile: "yaml-creds.json",
			},
			APNSConfig: config.YamlAPNSConfig{
				Enabled:   true,
				KeyID:     "yaml-key",
				TeamID:    "yaml-team",
				BundleID:  "com.yaml.app",
				P8KeyFile: "yaml.p8",
			},
			RedisConfig: config.YamlRedisConfig{
				Addr:    "yaml-redis:6379",
				DB:      2,
				Enabled: true,
			},
		}

		cfg, err := config.NewConfigFromYaml(yamlCfg, logger)

		require.NoError(t, err)
		require.NotNil(t, cfg)
		assert.Equal(t, "yaml-app", cfg.AppName)
		assert.Equal(t, "333", cfg.SenderID)
		assert.True(t, cfg.NotifyNativeOnInit)
		assert.Equal(t, "yaml-project", cfg.FCM.ProjectID)
		assert.Equal(t, "yaml-creds.json", cfg.FCM.CredentialsFile)
		assert.True(t, cfg.APNS.Enabled)
		assert.Equal(t, "com.yaml.app", cfg.APNS.BundleID)
		assert.Equal(t, "yaml-redis:6379", cfg.Redis.Addr)
		assert.Equal(t, 2, cfg.Redis.DB)
	})
}

func TestLoad(t *testing.T) {
	logger := newTestLogger()

	t.Run("Success - reads, maps and applies env overrides", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		yaml := `
app_name: file-app
sender_id: "444"
fcm:
  project_id: file-project
redis:
  addr: file-redis:6379
  enabled: true
`
		require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))
		t.Setenv("MESSAGING_APP_NAME", "env-app")

		cfg, err := config.Load(path, logger)

		require.NoError(t, err)
		assert.Equal(t, "env-app", cfg.AppName)
		assert.Equal(t, "444", cfg.SenderID)
		assert.Equal(t, "file-project", cfg.FCM.ProjectID)
		assert.True(t, cfg.Redis.Enabled)
	})

	t.Run("Failure - missing file", func(t *testing.T) {
		_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"), logger)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read config file")
	})

	t.Run("Failure - malformed yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("app_name: [broken"), 0o600))

		_, err := config.Load(path, logger)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse config file")
	})
}

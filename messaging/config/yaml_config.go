package config

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

type YamlFCMConfig struct {
	ProjectID       string `yaml:"project_id"`
	CredentialsFile string `yaml:"credentials_file"`
}

type YamlAPNSConfig struct {
	Enabled   bool   `yaml:"enabled"`
	KeyID     string `yaml:"key_id"`
	TeamID    string `yaml:"team_id"`
	BundleID  string `yaml:"bundle_id"`
	P8KeyFile string `yaml:"p8_key_file"`
}

type YamlRedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Enabled  bool   `yaml:"enabled"`
}

// YamlConfig is the structure that mirrors the raw config.yaml file.
type YamlConfig struct {
	AppName            string          `yaml:"app_name"`
	SenderID           string          `yaml:"sender_id"`
	NotifyNativeOnInit bool            `yaml:"notify_native_on_init"`
	FCMConfig          YamlFCMConfig   `yaml:"fcm"`
	APNSConfig         YamlAPNSConfig  `yaml:"apns"`
	RedisConfig        YamlRedisConfig `yaml:"redis"`
}

// NewConfigFromYaml converts the YamlConfig into a clean, base Config struct.
func NewConfigFromYaml(baseCfg *YamlConfig, logger *slog.Logger) (*Config, error) {
	logger.Debug("Mapping YAML config to base config struct")

	cfg := &Config{
		AppName:            baseCfg.AppName,
		SenderID:           baseCfg.SenderID,
		NotifyNativeOnInit: baseCfg.NotifyNativeOnInit,
		FCM: FCMConfig{
			ProjectID:       baseCfg.FCMConfig.ProjectID,
			CredentialsFile: baseCfg.FCMConfig.CredentialsFile,
		},
		APNS: APNSConfig{
			Enabled:   baseCfg.APNSConfig.Enabled,
			KeyID:     baseCfg.APNSConfig.KeyID,
			TeamID:    baseCfg.APNSConfig.TeamID,
			BundleID:  baseCfg.APNSConfig.BundleID,
			P8KeyFile: baseCfg.APNSConfig.P8KeyFile,
		},
		Redis: RedisConfig{
			Addr:     baseCfg.RedisConfig.Addr,
			Password: baseCfg.RedisConfig.Password,
			DB:       baseCfg.RedisConfig.DB,
			Enabled:  baseCfg.RedisConfig.Enabled,
		},
	}

	logger.Debug("YAML config mapping complete",
		"app_name", cfg.AppName,
		"sender_id", cfg.SenderID,
	)

	return cfg, nil
}

// Load reads the YAML file, maps it and applies env overrides in one step.
func Load(path string, logger *slog.Logger) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	var baseCfg YamlConfig
	if err := yaml.Unmarshal(raw, &baseCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %q: %w", path, err)
	}

	cfg, err := NewConfigFromYaml(&baseCfg, logger)
	if err != nil {
		return nil, err
	}
	return UpdateConfigWithEnvOverrides(cfg, logger)
}

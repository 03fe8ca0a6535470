// Package config holds the facade and platform configuration, loaded from
// YAML with environment-variable overrides.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
)

type FCMConfig struct {
	ProjectID       string
	CredentialsFile string
}

type APNSConfig struct {
	Enabled   bool
	KeyID     string
	TeamID    string
	BundleID  string
	P8KeyFile string
}

type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
}

// Config defines the *single*, authoritative configuration.
type Config struct {
	AppName            string
	SenderID           string
	NotifyNativeOnInit bool

	FCM   FCMConfig
	APNS  APNSConfig
	Redis RedisConfig
}

// UpdateConfigWithEnvOverrides applies environment variables and final validation.
func UpdateConfigWithEnvOverrides(cfg *Config, logger *slog.Logger) (*Config, error) {
	logger.Debug("Applying environment variable overrides...")

	if val := os.Getenv("MESSAGING_APP_NAME"); val != "" {
		logger.Debug("Overriding config value", "key", "MESSAGING_APP_NAME", "source", "env")
		cfg.AppName = val
	}
	if val := os.Getenv("MESSAGING_SENDER_ID"); val != "" {
		logger.Debug("Overriding config value", "key", "MESSAGING_SENDER_ID", "source", "env")
		cfg.SenderID = val
	}
	if val := os.Getenv("MESSAGING_NOTIFY_NATIVE_ON_INIT"); val != "" {
		notify, _ := strconv.ParseBool(val)
		cfg.NotifyNativeOnInit = notify
	}

	// FCM Overrides
	if val := os.Getenv("FCM_PROJECT_ID"); val != "" {
		logger.Debug("Overriding config value", "key", "FCM_PROJECT_ID", "source", "env")
		cfg.FCM.ProjectID = val
	}
	if val := os.Getenv("FCM_CREDENTIALS_FILE"); val != "" {
		logger.Debug("Overriding config value", "key", "FCM_CREDENTIALS_FILE", "source", "env")
		cfg.FCM.CredentialsFile = val
	}

	// APNs Overrides
	if val := os.Getenv("APNS_KEY_ID"); val != "" {
		cfg.APNS.KeyID = val
		cfg.APNS.Enabled = true
	}
	if val := os.Getenv("APNS_TEAM_ID"); val != "" {
		cfg.APNS.TeamID = val
	}
	if val := os.Getenv("APNS_BUNDLE_ID"); val != "" {
		cfg.APNS.BundleID = val
	}
	if val := os.Getenv("APNS_P8_KEY_FILE"); val != "" {
		cfg.APNS.P8KeyFile = val
	}

	// Redis Overrides
	if val := os.Getenv("REDIS_ADDR"); val != "" {
		cfg.Redis.Addr = val
		cfg.Redis.Enabled = true
	}
	if val := os.Getenv("REDIS_PASSWORD"); val != "" {
		cfg.Redis.Password = val
	}
	if val := os.Getenv("REDIS_DB"); val != "" {
		if db, err := strconv.Atoi(val); err == nil {
			cfg.Redis.DB = db
		}
	}
	if val := os.Getenv("REDIS_ENABLED"); val != "" {
		enabled, _ := strconv.ParseBool(val)
		cfg.Redis.Enabled = enabled
	}

	// Final Validation
	if cfg.AppName == "" {
		return nil, fmt.Errorf("app_name is required (set via YAML or MESSAGING_APP_NAME env var)")
	}
	if cfg.SenderID != "" {
		if _, err := strconv.ParseUint(cfg.SenderID, 10, 64); err != nil {
			return nil, fmt.Errorf("sender_id must be numeric, got %q", cfg.SenderID)
		}
	}
	if cfg.APNS.Enabled {
		if cfg.APNS.KeyID == "" || cfg.APNS.TeamID == "" || cfg.APNS.BundleID == "" {
			return nil, fmt.Errorf("apns requires key_id, team_id and bundle_id when enabled")
		}
	}

	logger.Debug("Configuration finalized and validated successfully")
	return cfg, nil
}

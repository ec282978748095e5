package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	envPrefix        = "SHELFNOTE"
	defaultLogLevel  = "info"
	appDirectoryName = "shelfnote"
	databaseFileName = "shelfnote.db"
)

// AppConfig captures runtime configuration for the data bridge.
type AppConfig struct {
	DatabasePath string
	LogLevel     string
}

// NewViper returns a viper instance with defaults and env bindings configured.
func NewViper() *viper.Viper {
	configViper := viper.New()
	ApplyDefaults(configViper)
	return configViper
}

// ApplyDefaults configures defaults and env bindings on the provided viper instance.
func ApplyDefaults(configViper *viper.Viper) {
	configViper.SetEnvPrefix(envPrefix)
	configViper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	configViper.AutomaticEnv()

	configViper.SetDefault("database.path", "")
	configViper.SetDefault("log.level", defaultLogLevel)
}

// Load parses runtime configuration from viper. An empty database path falls
// back to the per-user application-data location.
func Load(configViper *viper.Viper) (AppConfig, error) {
	cfg := AppConfig{
		DatabasePath: configViper.GetString("database.path"),
		LogLevel:     configViper.GetString("log.level"),
	}

	if strings.TrimSpace(cfg.DatabasePath) == "" {
		defaultPath, err := DefaultDatabasePath()
		if err != nil {
			return AppConfig{}, err
		}
		cfg.DatabasePath = defaultPath
	}

	return cfg, nil
}

// DefaultDatabasePath resolves the store file location inside the per-user
// configuration directory for the current platform.
func DefaultDatabasePath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config directory: %w", err)
	}
	return filepath.Join(base, appDirectoryName, databaseFileName), nil
}

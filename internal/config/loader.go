package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const (
	// UserConfigDir is the directory for the user config file, relative to the home directory.
	UserConfigDir = ".config/petd"
	// UserConfigFile is the name of the user config file.
	UserConfigFile = "config.yaml"
	deviceKeyFile  = "device_key"
)

// Loader handles configuration loading with layered precedence.
type Loader struct {
	logger *slog.Logger
}

func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// Load layers defaults, the YAML file and the environment, then validates.
// An explicit path must exist; the default user path is optional.
func (l *Loader) Load(path string) (*Config, error) {
	config := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = UserConfigPath()
	}
	if path != "" {
		loaded, err := LoadFromFile(path)
		switch {
		case err == nil:
			l.logger.Debug("Loaded config", slog.String("path", path))
			config = loaded
		case explicit || !errors.Is(err, fs.ErrNotExist):
			return nil, err
		default:
			l.logger.Debug("No user config found", slog.String("path", path))
		}
	}

	config.ApplyEnv()
	config.ResolvePaths()

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// UserConfigPath is ~/.config/petd/config.yaml, or "" when the home directory is unknown.
func UserConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, UserConfigDir, UserConfigFile)
}

// EnsureDeviceKey returns the configured device key, or a key persisted under DataDir,
// generating and saving a new one on first use.
func (l *Loader) EnsureDeviceKey(c *Config) (string, error) {
	if key := strings.TrimSpace(c.DeviceKey); key != "" {
		return key, nil
	}
	path := filepath.Join(c.DataDir, deviceKeyFile)
	raw, err := os.ReadFile(path)
	if err == nil {
		if key := strings.TrimSpace(string(raw)); key != "" {
			c.DeviceKey = key
			return key, nil
		}
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("read device key: %w", err)
	}

	key := uuid.New().String()
	if err := os.MkdirAll(c.DataDir, 0o755); err != nil {
		return "", fmt.Errorf("create data dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(key+"\n"), 0o644); err != nil {
		return "", fmt.Errorf("write device key: %w", err)
	}
	l.logger.Info("Generated device key", slog.String("path", path))
	c.DeviceKey = key
	return key, nil
}

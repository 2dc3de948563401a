// Package config persists tool defaults between runs.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// DefaultDevice is the first chip select of the first SPI bus.
const DefaultDevice = "/dev/spidev0.0"

// EnvPath overrides the config file location.
const EnvPath = "AT45_CONFIG"

// Config stores defaults applied before command line flags.
type Config struct {
	Device    string   `json:"device"`
	Driver    string   `json:"driver"`
	Shape     string   `json:"shape"`
	ChipFiles []string `json:"chip_files,omitempty"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Device: DefaultDevice,
		Driver: "spidev",
		Shape:  "duplex",
	}
}

// Path returns the path to the config file
func Path() (string, error) {
	if p := os.Getenv(EnvPath); p != "" {
		return p, nil
	}

	// Use platform-appropriate config directory
	if appData := os.Getenv("APPDATA"); appData != "" {
		// Windows: use %APPDATA%\at45
		return filepath.Join(appData, "at45", "config.json"), nil
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "at45", "config.json"), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	// Linux/macOS: use ~/.config/at45
	return filepath.Join(homeDir, ".config", "at45", "config.json"), nil
}

// Load reads the config file at path. A missing file yields the defaults;
// fields absent from the file keep their default value.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to path, creating the directory if needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

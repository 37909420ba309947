package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// EnvironmentConfig describes a single named environment from snowprep.toml.
// Credentials never live here; they come from .env files or the UI.
type EnvironmentConfig struct {
	Account   string `toml:"account"`
	User      string `toml:"user"`
	Role      string `toml:"role"`
	Warehouse string `toml:"warehouse"`
	Variant   string `toml:"variant"`
}

// ImageConfig is the container image configuration consumed by
// scripts/build-image.sh (via `snowprep config image`).
type ImageConfig struct {
	Registry  string   `toml:"registry"`
	Name      string   `toml:"name"`
	Tag       string   `toml:"tag"`
	Platforms []string `toml:"platforms"`
}

// Config is the process-wide configuration, read once at startup and passed
// by value from there.
type Config struct {
	DefaultEnvironment string                       `toml:"default_environment"`
	DefaultVariant     string                       `toml:"default_variant"`
	Environments       map[string]EnvironmentConfig `toml:"environments"`
	Image              ImageConfig                  `toml:"image"`
	ConfigFilePath     string                       `toml:"-"`
}

// ConfigDir returns the directory holding the loaded config file, or ""
// when no config file was found.
func (c *Config) ConfigDir() string {
	if c == nil || c.ConfigFilePath == "" {
		return ""
	}
	return filepath.Dir(c.ConfigFilePath)
}

// LoadConfig finds and parses snowprep.toml, walking up from the working
// directory until a project boundary. A missing config file is not an error;
// everything can come from flags and the environment.
func LoadConfig() (*Config, error) {
	startDir, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return loadConfigFrom(startDir)
}

func loadConfigFrom(startDir string) (*Config, error) {
	dir := startDir
	for {
		configPath := filepath.Join(dir, "snowprep.toml")
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, err
			}

			var config Config
			if err := toml.Unmarshal(data, &config); err != nil {
				return nil, err
			}

			config.ConfigFilePath = configPath
			return &config, nil
		}

		if isProjectRoot(dir) {
			break
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			break
		}
		dir = parent
	}

	return &Config{}, nil
}

// isProjectRoot checks if the directory is a project root based on common markers
func isProjectRoot(dir string) bool {
	if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
		return true
	}
	if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
		return true
	}
	if _, err := os.Stat(filepath.Join(dir, "package.json")); err == nil {
		return true
	}
	return false
}

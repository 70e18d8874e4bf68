package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const (
	// GlobalConfigDir is the name of the config directory in home
	GlobalConfigDir = ".taskflow"

	// GlobalConfigFileName is the name of the config file
	GlobalConfigFileName = "config.toml"
)

// GlobalConfig represents the user-level configuration from ~/.taskflow/config.toml.
// Zero values mean "not set in the file".
type GlobalConfig struct {
	Backend    string
	DataPath   string
	Key        string
	DebounceMS int
	ServerHost string
	ServerPort int

	debounceExplicitlySet bool
}

// globalConfigFile represents the raw TOML structure for the config file
type globalConfigFile struct {
	Storage storageConfig `toml:"storage"`
	Save    saveConfig    `toml:"save"`
	Server  serverConfig  `toml:"server"`
}

type storageConfig struct {
	Backend string `toml:"backend"`
	Path    string `toml:"path"`
	Key     string `toml:"key"`
}

type saveConfig struct {
	DebounceMS *int `toml:"debounce_ms"`
}

// serverConfig represents the [server] section in TOML
type serverConfig struct {
	Host string `toml:"host"`
	Port *int   `toml:"port"`
}

// GlobalConfigPath returns the config file location for homeDir.
func GlobalConfigPath(homeDir string) string {
	return filepath.Join(homeDir, GlobalConfigDir, GlobalConfigFileName)
}

// LoadGlobalConfig loads the configuration from ~/.taskflow/config.toml.
// Returns an empty config (not an error) if the file doesn't exist.
func LoadGlobalConfig() (*GlobalConfig, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	return LoadGlobalConfigFromDir(homeDir)
}

// LoadGlobalConfigFromDir loads global config using the specified directory as home.
func LoadGlobalConfigFromDir(homeDir string) (*GlobalConfig, error) {
	return LoadConfigFile(GlobalConfigPath(homeDir))
}

// LoadConfigFile parses the config file at path. A missing file yields an
// empty config.
func LoadConfigFile(path string) (*GlobalConfig, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &GlobalConfig{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var rawConfig globalConfigFile
	if _, err := toml.Decode(string(data), &rawConfig); err != nil {
		return nil, fmt.Errorf("failed to parse config TOML: %w", err)
	}

	if rawConfig.Storage.Backend != "" {
		if err := validateBackend(rawConfig.Storage.Backend); err != nil {
			return nil, err
		}
	}
	if rawConfig.Server.Port != nil {
		if err := validatePort(*rawConfig.Server.Port); err != nil {
			return nil, err
		}
	}

	cfg := &GlobalConfig{
		Backend:    rawConfig.Storage.Backend,
		DataPath:   rawConfig.Storage.Path,
		Key:        rawConfig.Storage.Key,
		ServerHost: rawConfig.Server.Host,
	}

	if rawConfig.Save.DebounceMS != nil {
		if *rawConfig.Save.DebounceMS < 0 {
			return nil, fmt.Errorf("invalid debounce_ms %d: must not be negative", *rawConfig.Save.DebounceMS)
		}
		cfg.DebounceMS = *rawConfig.Save.DebounceMS
		cfg.debounceExplicitlySet = true
	}
	if rawConfig.Server.Port != nil {
		cfg.ServerPort = *rawConfig.Server.Port
	}

	return cfg, nil
}

// DebounceExplicitlySet returns true if debounce_ms was present in the file.
// Zero is a legal value, so it cannot be told apart from "unset" otherwise.
func (c *GlobalConfig) DebounceExplicitlySet() bool {
	return c.debounceExplicitlySet
}

// validatePort checks if the port is in the valid range (1-65535)
func validatePort(port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("invalid port %d: must be between 1 and 65535", port)
	}
	return nil
}

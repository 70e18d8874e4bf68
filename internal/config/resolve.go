package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultBackend is the storage backend used when none is configured
	DefaultBackend = "sqlite"

	// DefaultKey is the storage key holding the task list
	DefaultKey = "taskflow.tasks"

	// DefaultDebounceMS is the save debounce window in milliseconds
	DefaultDebounceMS = 300

	// DefaultServerHost is the default server host
	DefaultServerHost = "localhost"

	// DefaultServerPort is the default server port
	DefaultServerPort = 7433
)

// Backends lists the accepted storage backend names.
var Backends = []string{"sqlite", "file", "memory"}

// ResolvedConfig represents the final merged configuration with all
// precedence rules applied. Precedence order (highest to lowest):
// 1. Command-line flags
// 2. Config file (~/.taskflow/config.toml or --config)
// 3. Built-in defaults
type ResolvedConfig struct {
	Backend    string
	DataPath   string
	Key        string
	Debounce   time.Duration
	ServerHost string
	ServerPort int
}

// Addr returns host:port for the HTTP server.
func (c *ResolvedConfig) Addr() string {
	return net.JoinHostPort(c.ServerHost, strconv.Itoa(c.ServerPort))
}

// Overrides carries values given on the command line. Empty fields are unset.
type Overrides struct {
	ConfigPath string
	Backend    string
	DataPath   string
}

// ResolveConfig loads the config file from the user's home and merges it.
func ResolveConfig(ov Overrides) (*ResolvedConfig, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	return ResolveConfigWithHome(homeDir, ov)
}

// ResolveConfigWithHome resolves config using a specified home directory.
func ResolveConfigWithHome(homeDir string, ov Overrides) (*ResolvedConfig, error) {
	configPath := GlobalConfigPath(homeDir)
	if ov.ConfigPath != "" {
		configPath = ExpandHome(ov.ConfigPath, homeDir)
	}

	fileCfg, err := LoadConfigFile(configPath)
	if err != nil {
		return nil, err
	}

	// defaults -> file -> flags
	resolved := &ResolvedConfig{
		Backend:    DefaultBackend,
		Key:        DefaultKey,
		Debounce:   DefaultDebounceMS * time.Millisecond,
		ServerHost: DefaultServerHost,
		ServerPort: DefaultServerPort,
	}

	if fileCfg.Backend != "" {
		resolved.Backend = fileCfg.Backend
	}
	if fileCfg.DataPath != "" {
		resolved.DataPath = fileCfg.DataPath
	}
	if fileCfg.Key != "" {
		resolved.Key = fileCfg.Key
	}
	if fileCfg.DebounceExplicitlySet() {
		resolved.Debounce = time.Duration(fileCfg.DebounceMS) * time.Millisecond
	}
	if fileCfg.ServerHost != "" {
		resolved.ServerHost = fileCfg.ServerHost
	}
	if fileCfg.ServerPort != 0 {
		resolved.ServerPort = fileCfg.ServerPort
	}

	if ov.Backend != "" {
		if err := validateBackend(ov.Backend); err != nil {
			return nil, err
		}
		resolved.Backend = ov.Backend
	}
	if ov.DataPath != "" {
		resolved.DataPath = ov.DataPath
	}

	if resolved.DataPath == "" {
		resolved.DataPath = DefaultDataPath(homeDir, resolved.Backend)
	}
	resolved.DataPath = ExpandHome(resolved.DataPath, homeDir)

	return resolved, nil
}

// DefaultDataPath returns the data location used for backend when no path is configured.
func DefaultDataPath(homeDir, backend string) string {
	switch backend {
	case "file":
		return filepath.Join(homeDir, GlobalConfigDir, "tasks.json")
	case "memory":
		return ""
	default:
		return filepath.Join(homeDir, GlobalConfigDir, "tasks.db")
	}
}

// ExpandHome replaces a leading "~" with homeDir.
func ExpandHome(path, homeDir string) string {
	if path == "~" {
		return homeDir
	}
	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		return filepath.Join(homeDir, rest)
	}
	return path
}

func validateBackend(name string) error {
	if !slices.Contains(Backends, name) {
		return fmt.Errorf("invalid backend %q: must be one of %s", name, strings.Join(Backends, ", "))
	}
	return nil
}

// DefaultFileContents is the config written by "taskflow init".
func DefaultFileContents() string {
	return fmt.Sprintf(`[storage]
backend = %q
path = "~/%s/tasks.db"
key = %q

[save]
debounce_ms = %d

[server]
host = %q
port = %d
`, DefaultBackend, GlobalConfigDir, DefaultKey, DefaultDebounceMS, DefaultServerHost, DefaultServerPort)
}

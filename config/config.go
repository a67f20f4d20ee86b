// Package config implements this toolchain's on-disk configuration,
// ported from the teacher's TOML-via-BurntSushi/toml configuration layer
// and adapted to the assembler/CPU/listing/debugger sections this
// project actually has.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config is this toolchain's full on-disk configuration.
type Config struct {
	Assembler struct {
		DefaultOrigin int `toml:"default_origin"` // stored only; the assembler starts at 0 when no ORG directive appears
		ListingTabs   int `toml:"listing_tabs"`
	} `toml:"assembler"`

	Execution struct {
		DefaultMaxSteps int  `toml:"default_max_steps"`
		DefaultEntry    int  `toml:"default_entry"`
		StopOnError     bool `toml:"stop_on_error"`
	} `toml:"execution"`

	Listing struct {
		BytesPerRow int `toml:"bytes_per_row"`
	} `toml:"listing"`

	Debugger struct {
		HistorySize   int  `toml:"history_size"`
		ShowSource    bool `toml:"show_source"`
		ShowRegisters bool `toml:"show_registers"`
	} `toml:"debugger"`
}

// DefaultConfig returns a configuration with this toolchain's default
// values.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Assembler.DefaultOrigin = 0x8000
	cfg.Assembler.ListingTabs = 8

	cfg.Execution.DefaultMaxSteps = 1_000_000
	cfg.Execution.DefaultEntry = 0x8000
	cfg.Execution.StopOnError = true

	cfg.Listing.BytesPerRow = 8

	cfg.Debugger.HistorySize = 1000
	cfg.Debugger.ShowSource = true
	cfg.Debugger.ShowRegisters = true

	return cfg
}

// GetConfigPath returns the platform-specific config file path.
func GetConfigPath() string {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		configDir = filepath.Join(configDir, "z80toolchain")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.toml"
		}
		configDir = filepath.Join(homeDir, ".config", "z80toolchain")

	default:
		return "config.toml"
	}

	if err := os.MkdirAll(configDir, 0750); err != nil {
		return "config.toml"
	}

	return filepath.Join(configDir, "config.toml")
}

// GetLogPath returns the platform-specific log directory path.
func GetLogPath() string {
	var logDir string

	switch runtime.GOOS {
	case "windows":
		logDir = os.Getenv("APPDATA")
		if logDir == "" {
			logDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		logDir = filepath.Join(logDir, "z80toolchain", "logs")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "logs"
		}
		logDir = filepath.Join(homeDir, ".local", "share", "z80toolchain", "logs")

	default:
		return "logs"
	}

	if err := os.MkdirAll(logDir, 0750); err != nil {
		return "logs"
	}

	return logDir
}

// Load loads configuration from the default config file.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom loads configuration from the specified file, falling back to
// defaults if the file does not exist.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Save saves configuration to the default config file.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo saves configuration to the specified file.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path) // #nosec G304 -- user config file path
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}

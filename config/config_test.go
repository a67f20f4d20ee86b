package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	// Test assembler defaults
	if cfg.Assembler.DefaultOrigin != 0x8000 {
		t.Errorf("Expected DefaultOrigin=0x8000, got 0x%X", cfg.Assembler.DefaultOrigin)
	}
	if cfg.Assembler.ListingTabs != 8 {
		t.Errorf("Expected ListingTabs=8, got %d", cfg.Assembler.ListingTabs)
	}

	// Test execution defaults
	if cfg.Execution.DefaultMaxSteps != 1000000 {
		t.Errorf("Expected DefaultMaxSteps=1000000, got %d", cfg.Execution.DefaultMaxSteps)
	}
	if cfg.Execution.DefaultEntry != 0x8000 {
		t.Errorf("Expected DefaultEntry=0x8000, got 0x%X", cfg.Execution.DefaultEntry)
	}
	if !cfg.Execution.StopOnError {
		t.Error("Expected StopOnError=true")
	}

	// Test listing defaults
	if cfg.Listing.BytesPerRow != 8 {
		t.Errorf("Expected BytesPerRow=8, got %d", cfg.Listing.BytesPerRow)
	}

	// Test debugger defaults
	if cfg.Debugger.HistorySize != 1000 {
		t.Errorf("Expected HistorySize=1000, got %d", cfg.Debugger.HistorySize)
	}
	if !cfg.Debugger.ShowSource {
		t.Error("Expected ShowSource=true")
	}
	if !cfg.Debugger.ShowRegisters {
		t.Error("Expected ShowRegisters=true")
	}
}

func TestGetConfigPath(t *testing.T) {
	path := GetConfigPath()

	// Verify path is not empty
	if path == "" {
		t.Error("GetConfigPath returned empty string")
	}

	// Verify path ends with config.toml
	if filepath.Base(path) != "config.toml" {
		t.Errorf("Expected path to end with config.toml, got %s", path)
	}

	// Platform-specific checks
	switch runtime.GOOS {
	case "windows":
		if !filepath.IsAbs(path) && path != "config.toml" {
			t.Errorf("Expected absolute path on Windows, got %s", path)
		}

	case "darwin", "linux":
		// Should be in .config/z80toolchain or be fallback
		dir := filepath.Dir(path)
		if filepath.Base(dir) != "z80toolchain" && path != "config.toml" {
			t.Errorf("Expected path in z80toolchain directory or fallback, got %s", path)
		}
	}
}

func TestGetLogPath(t *testing.T) {
	path := GetLogPath()

	// Verify path is not empty
	if path == "" {
		t.Error("GetLogPath returned empty string")
	}

	// Platform-specific checks
	switch runtime.GOOS {
	case "windows":
		if !filepath.IsAbs(path) && path != "logs" {
			t.Errorf("Expected absolute path on Windows, got %s", path)
		}

	case "darwin", "linux":
		// Should be in .local/share/z80toolchain/logs or be fallback
		if filepath.Base(path) != "logs" {
			t.Errorf("Expected path to end with logs, got %s", path)
		}
	}
}

func TestSaveAndLoad(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "test_config.toml")

	cfg := DefaultConfig()
	cfg.Assembler.DefaultOrigin = 0x9000
	cfg.Execution.DefaultMaxSteps = 5000000
	cfg.Execution.StopOnError = false
	cfg.Listing.BytesPerRow = 16
	cfg.Debugger.HistorySize = 500
	cfg.Debugger.ShowSource = false

	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Fatal("Config file was not created")
	}

	loaded, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if loaded.Assembler.DefaultOrigin != 0x9000 {
		t.Errorf("Expected DefaultOrigin=0x9000, got 0x%X", loaded.Assembler.DefaultOrigin)
	}
	if loaded.Execution.DefaultMaxSteps != 5000000 {
		t.Errorf("Expected DefaultMaxSteps=5000000, got %d", loaded.Execution.DefaultMaxSteps)
	}
	if loaded.Execution.StopOnError {
		t.Error("Expected StopOnError=false")
	}
	if loaded.Listing.BytesPerRow != 16 {
		t.Errorf("Expected BytesPerRow=16, got %d", loaded.Listing.BytesPerRow)
	}
	if loaded.Debugger.HistorySize != 500 {
		t.Errorf("Expected HistorySize=500, got %d", loaded.Debugger.HistorySize)
	}
	if loaded.Debugger.ShowSource {
		t.Error("Expected ShowSource=false")
	}
}

func TestLoadNonExistent(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "nonexistent.toml")

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("LoadFrom should not error on non-existent file: %v", err)
	}

	if cfg.Execution.DefaultMaxSteps != 1000000 {
		t.Error("Expected default config when file doesn't exist")
	}
}

func TestLoadInvalidTOML(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "invalid.toml")

	invalidTOML := `
[execution]
default_max_steps = "not a number"
`
	if err := os.WriteFile(configPath, []byte(invalidTOML), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	_, err := LoadFrom(configPath)
	if err == nil {
		t.Error("Expected error when loading invalid TOML")
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "subdir1", "subdir2", "config.toml")

	cfg := DefaultConfig()
	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Error("Config file was not created")
	}

	dir := filepath.Dir(configPath)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		t.Error("Parent directories were not created")
	}
}

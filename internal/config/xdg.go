// Package config provides XDG path helpers.
package config

import (
	"os"
	"path/filepath"
)

const appDir = "qrhunt"

// XDGConfigHome returns the XDG config home or a default fallback.
func XDGConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".config")
}

// XDGDataHome returns the XDG data home or a default fallback.
func XDGDataHome() string {
	if v := os.Getenv("XDG_DATA_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".local", "share")
}

// DefaultLogDir returns the directory holding the per-day result logs.
func DefaultLogDir() string {
	return filepath.Join(XDGDataHome(), appDir, "logs")
}

// DefaultDBPath returns the default path for the SQLite result log.
func DefaultDBPath() string {
	return filepath.Join(XDGDataHome(), appDir, "qrhunt.db")
}

// DefaultDebugLogPath returns the path of the structured debug log.
func DefaultDebugLogPath() string {
	return filepath.Join(XDGDataHome(), appDir, "qrhunt.log")
}

// DefaultConfigPath returns the default TOML config path.
func DefaultConfigPath() string {
	return filepath.Join(XDGConfigHome(), appDir, "config.toml")
}

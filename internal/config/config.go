package config

import (
	"os"
	"path/filepath"
)

const DefaultWatchPath = "~/Downloads"

// WatchPath returns the monitored folder from CURATOR_WATCH,
// falling back to DefaultWatchPath.
func WatchPath() string {
	if env := os.Getenv("CURATOR_WATCH"); env != "" {
		return env
	}
	return DefaultWatchPath
}

// DatabasePath returns the registry database path from CURATOR_DB,
// falling back to the XDG data directory.
func DatabasePath() string {
	if env := os.Getenv("CURATOR_DB"); env != "" {
		return env
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "curator", "registry.db")
}

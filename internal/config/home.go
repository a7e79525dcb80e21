package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// HomeEnv overrides the state directory
const HomeEnv = "POIPARSER_HOME"

// GetHome returns the poiparser state directory, creating it if needed.
// Priority order:
//  1. POIPARSER_HOME environment variable (if set)
//  2. .poiparser in the current working directory
func GetHome() (string, error) {
	home := os.Getenv(HomeEnv)
	if home == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		home = filepath.Join(cwd, ".poiparser")
	}

	if err := os.MkdirAll(home, 0755); err != nil {
		return "", fmt.Errorf("create poiparser home directory: %w", err)
	}

	return home, nil
}

// GetHistoryDBPath returns the history database path: the configured path
// when set, otherwise $POIPARSER_HOME/history.db
func GetHistoryDBPath(cfg *Config) (string, error) {
	if cfg != nil && cfg.History.DBPath != "" {
		return cfg.History.DBPath, nil
	}

	home, err := GetHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "history.db"), nil
}

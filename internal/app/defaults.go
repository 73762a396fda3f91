package app

import (
	"fmt"
	"os"
	"path/filepath"
)

// GetDefaults returns application default paths, checking environment variables first.
// Environment variables:
//   - FEED_CONFIG_PATH: config file location (default: ~/.config/feed.toml)
//   - FEED_HOME: base directory for feed data (default: ~/.local/share/feed)
//   - FEED_BASE_URL: resource store endpoint offered by `feed config init`
func GetDefaults() (map[string]string, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	baseDir, err := getBaseDir()
	if err != nil {
		return nil, err
	}

	return map[string]string{
		"config_path": configPath,
		"base_dir":    baseDir,
		"log_dir":     filepath.Join(baseDir, "log"),
		"base_url":    os.Getenv("FEED_BASE_URL"),
	}, nil
}

// getConfigPath returns the config file path, checking FEED_CONFIG_PATH env var first,
// then falling back to the default ~/.config/feed.toml.
func getConfigPath() (string, error) {
	if path := os.Getenv("FEED_CONFIG_PATH"); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "feed.toml"), nil
}

// getBaseDir returns the base directory for feed data, checking FEED_HOME env var first,
// then falling back to the XDG default ~/.local/share/feed.
func getBaseDir() (string, error) {
	if path := os.Getenv("FEED_HOME"); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".local", "share", "feed"), nil
}

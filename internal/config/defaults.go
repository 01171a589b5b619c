package config

import (
	"os"
	"path/filepath"
)

// Hard upper bound on concurrent jobs; requests at or above it are rejected
const MaxWorkers = 10

// Source types
const (
	SourceGH   = "gh"
	SourceFile = "file"
)

// Backends
const (
	BackendExec  = "exec"
	BackendGoGit = "gogit"
)

// Default values
const (
	// Source defaults
	DefaultSourceType  = SourceGH
	DefaultOrg         = "chimbosonic"
	DefaultSourceLimit = 1000

	// Concurrency defaults
	DefaultWorkers = 5

	// Sync defaults
	DefaultTransport     = "ssh"
	DefaultBackend       = BackendExec
	DefaultSyncDirectory = "."

	// History defaults
	DefaultHistoryEnabled = true

	// Logging defaults
	DefaultLogLevel  = "info"
	DefaultLogFormat = "pretty"
)

// ConfigDir returns the config directory path
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".reposync"
	}
	return filepath.Join(home, ".reposync")
}

// HistoryDir returns the history database path
func HistoryDir() string {
	return filepath.Join(ConfigDir(), "history")
}

// ConfigFilePath returns the config file path
func ConfigFilePath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Source: SourceConfig{
			Type:  DefaultSourceType,
			Org:   DefaultOrg,
			Limit: DefaultSourceLimit,
		},
		Concurrency: ConcurrencyConfig{
			Workers: DefaultWorkers,
		},
		Sync: SyncConfig{
			Transport: DefaultTransport,
			Backend:   DefaultBackend,
			Directory: DefaultSyncDirectory,
		},
		History: HistoryConfig{
			Enabled:   DefaultHistoryEnabled,
			Directory: HistoryDir(),
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

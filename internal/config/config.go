package config

import (
	"fmt"

	"github.com/quantmind-br/reposync/internal/domain"
)

// Config represents the application configuration
type Config struct {
	Source      SourceConfig      `mapstructure:"source" yaml:"source"`
	Concurrency ConcurrencyConfig `mapstructure:"concurrency" yaml:"concurrency"`
	Sync        SyncConfig        `mapstructure:"sync" yaml:"sync"`
	History     HistoryConfig     `mapstructure:"history" yaml:"history"`
	Exclude     []string          `mapstructure:"exclude" yaml:"exclude"`
	Logging     LoggingConfig     `mapstructure:"logging" yaml:"logging"`
}

// SourceConfig controls where the repository listing comes from
type SourceConfig struct {
	Type  string `mapstructure:"type" yaml:"type"` // "gh" or "file"
	Org   string `mapstructure:"org" yaml:"org"`
	Limit int    `mapstructure:"limit" yaml:"limit"`
	File  string `mapstructure:"file" yaml:"file"`
}

// ConcurrencyConfig contains concurrency settings
type ConcurrencyConfig struct {
	Workers int `mapstructure:"workers" yaml:"workers"`
}

// SyncConfig contains clone/fetch settings
type SyncConfig struct {
	Transport string `mapstructure:"transport" yaml:"transport"` // "ssh" or "https"
	Backend   string `mapstructure:"backend" yaml:"backend"`     // "exec" or "gogit"
	Directory string `mapstructure:"directory" yaml:"directory"`
}

// HistoryConfig contains outcome history settings
type HistoryConfig struct {
	Enabled   bool   `mapstructure:"enabled" yaml:"enabled"`
	Directory string `mapstructure:"directory" yaml:"directory"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Validate checks the configuration. Soft settings fall back to defaults;
// the worker count, transport, backend and source type are rejected outright.
func (c *Config) Validate() error {
	if err := ValidateWorkers(c.Concurrency.Workers); err != nil {
		return err
	}
	if _, err := domain.ParseTransport(c.Sync.Transport); err != nil {
		return err
	}
	switch c.Sync.Backend {
	case "":
		c.Sync.Backend = DefaultBackend
	case BackendExec, BackendGoGit:
	default:
		return domain.NewConfigError("sync.backend", fmt.Sprintf("must be %s or %s, got %q", BackendExec, BackendGoGit, c.Sync.Backend))
	}
	switch c.Source.Type {
	case "":
		c.Source.Type = DefaultSourceType
	case SourceGH:
		if c.Source.Org == "" {
			return domain.NewConfigError("source.org", "required for the gh source")
		}
	case SourceFile:
		if c.Source.File == "" {
			return domain.NewConfigError("source.file", "required for the file source")
		}
	default:
		return domain.NewConfigError("source.type", fmt.Sprintf("must be %s or %s, got %q", SourceGH, SourceFile, c.Source.Type))
	}
	if c.Source.Limit < 1 {
		c.Source.Limit = DefaultSourceLimit
	}
	if c.Sync.Directory == "" {
		c.Sync.Directory = DefaultSyncDirectory
	}
	if c.History.Directory == "" {
		c.History.Directory = HistoryDir()
	}
	return nil
}

// ValidateWorkers rejects worker counts outside [1, MaxWorkers)
func ValidateWorkers(n int) error {
	if n < 1 {
		return domain.NewConfigError("concurrency.workers", fmt.Sprintf("must be at least 1, got %d", n))
	}
	if n >= MaxWorkers {
		return domain.NewConfigError("concurrency.workers", fmt.Sprintf("must be below %d, got %d", MaxWorkers, n))
	}
	return nil
}

// Transport returns the parsed transport setting
func (c *Config) Transport() domain.Transport {
	t, err := domain.ParseTransport(c.Sync.Transport)
	if err != nil {
		return domain.TransportSSH
	}
	return t
}

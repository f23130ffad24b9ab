// Package config loads springmap settings from defaults, an optional config
// file and SPRINGMAP_* environment variables.
package config

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"
)

// FileName is the base name searched for in the scan root, without extension.
const FileName = ".springmap"

// Config is the complete springmap configuration.
type Config struct {
	Scan    ScanConfig    `mapstructure:"scan" toml:"scan"`
	Extract ExtractConfig `mapstructure:"extract" toml:"extract"`
	Store   StoreConfig   `mapstructure:"store" toml:"store"`
	Logging LoggingConfig `mapstructure:"logging" toml:"logging"`
}

// ScanConfig controls source discovery.
type ScanConfig struct {
	Extensions       []string `mapstructure:"extensions" toml:"extensions"`
	RespectGitignore bool     `mapstructure:"respectGitignore" toml:"respectGitignore"`
	MaxFileSize      int64    `mapstructure:"maxFileSize" toml:"maxFileSize"`
	Workers          int      `mapstructure:"workers" toml:"workers"`
}

// ExtractConfig controls fact extraction.
type ExtractConfig struct {
	MaskComments bool `mapstructure:"maskComments" toml:"maskComments"`
}

// StoreConfig locates the run store. A relative path is resolved against the
// scan root.
type StoreConfig struct {
	Path string `mapstructure:"path" toml:"path"`
}

// LoggingConfig sets the default log level and handler format.
type LoggingConfig struct {
	Level  string `mapstructure:"level" toml:"level"`
	Format string `mapstructure:"format" toml:"format"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Scan: ScanConfig{
			Extensions:       []string{".java"},
			RespectGitignore: true,
			MaxFileSize:      1_000_000,
			Workers:          0,
		},
		Store: StoreConfig{
			Path: filepath.Join(".springmap", "runs.db"),
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// Load reads configuration for the given scan root. If path is non-empty it
// names the config file explicitly and must exist; otherwise a .springmap.*
// file in root is used when present.
func Load(root, path string) (*Config, error) {
	v := viper.New()

	def := DefaultConfig()
	v.SetDefault("scan.extensions", def.Scan.Extensions)
	v.SetDefault("scan.respectGitignore", def.Scan.RespectGitignore)
	v.SetDefault("scan.maxFileSize", def.Scan.MaxFileSize)
	v.SetDefault("scan.workers", def.Scan.Workers)
	v.SetDefault("extract.maskComments", def.Extract.MaskComments)
	v.SetDefault("store.path", def.Store.Path)
	v.SetDefault("logging.level", def.Logging.Level)
	v.SetDefault("logging.format", def.Logging.Format)

	v.SetEnvPrefix("SPRINGMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(FileName)
		v.AddConfigPath(root)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !stderrors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes the configuration as TOML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		_ = f.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return f.Close()
}

// StorePath returns the run store location for root.
func (c *Config) StorePath(root string) string {
	if filepath.IsAbs(c.Store.Path) {
		return c.Store.Path
	}
	return filepath.Join(root, c.Store.Path)
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if len(c.Scan.Extensions) == 0 {
		return &ConfigError{Field: "scan.extensions", Message: "at least one extension is required"}
	}
	for _, ext := range c.Scan.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return &ConfigError{Field: "scan.extensions", Message: fmt.Sprintf("%q must start with a dot", ext)}
		}
	}
	if c.Scan.MaxFileSize < 0 {
		return &ConfigError{Field: "scan.maxFileSize", Message: "must not be negative"}
	}
	if c.Scan.Workers < 0 {
		return &ConfigError{Field: "scan.workers", Message: "must not be negative"}
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return &ConfigError{Field: "logging.format", Message: fmt.Sprintf("unknown format %q", c.Logging.Format)}
	}
	return nil
}

// ConfigError represents an invalid configuration value.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}

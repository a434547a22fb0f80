package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config with TOML-friendly field types.
type FileConfig struct {
	File           string `toml:"file"`
	Region         string `toml:"region"`
	Profile        string `toml:"profile"`
	Endpoint       string `toml:"endpoint"`
	BatchSize      int    `toml:"batch_size"`
	MaxRetries     int    `toml:"max_retries"`
	SDKMaxAttempts int    `toml:"sdk_max_attempts"`
	ReturnCapacity string `toml:"return_capacity"`
	ReturnMetrics  string `toml:"return_metrics"`
	Timeout        string `toml:"timeout"`
	LogLevel       string `toml:"log_level"`
	LogFormat      string `toml:"log_format"`
	DryRun         *bool  `toml:"dry_run"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns ~/.writeall/config.toml, or "" when the home
// directory is unknown.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".writeall", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("file", fc.File, &cfg.File)
	s.setString("region", fc.Region, &cfg.Region)
	s.setString("profile", fc.Profile, &cfg.Profile)
	s.setString("endpoint", fc.Endpoint, &cfg.Endpoint)
	s.setString("return-capacity", fc.ReturnCapacity, &cfg.ReturnCapacity)
	s.setString("return-metrics", fc.ReturnMetrics, &cfg.ReturnMetrics)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)
	s.setString("log-format", fc.LogFormat, &cfg.LogFormat)

	s.setInt("batch-size", fc.BatchSize, &cfg.BatchSize)
	s.setInt("max-retries", fc.MaxRetries, &cfg.MaxRetries)
	s.setInt("sdk-max-attempts", fc.SDKMaxAttempts, &cfg.SDKMaxAttempts)

	if err := s.setDuration("timeout", fc.Timeout, &cfg.Timeout); err != nil {
		return err
	}

	s.setBool("dry-run", fc.DryRun, &cfg.DryRun)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}

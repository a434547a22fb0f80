// Package cliconfig holds the writeall command configuration and the layers
// it is assembled from: defaults, TOML file, environment and flags.
package cliconfig

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/rs/zerolog"

	"github.com/jacentio/writeall/batchwrite"
	"github.com/jacentio/writeall/internal/logging"
)

// Config holds CLI configuration for writeall.
type Config struct {
	// File is the JSON document holding the writes, "-" for stdin.
	File string

	Region   string
	Profile  string
	Endpoint string

	BatchSize  int
	MaxRetries int

	// SDKMaxAttempts is handed to the AWS SDK retryer. 1 leaves retries to
	// the writer.
	SDKMaxAttempts int

	ReturnCapacity string
	ReturnMetrics  string

	Timeout time.Duration

	LogLevel  string
	LogFormat string

	DryRun bool
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		BatchSize:      batchwrite.MaxBatchSize,
		MaxRetries:     batchwrite.DefaultMaxRetries,
		SDKMaxAttempts: 1,
		ReturnCapacity: string(types.ReturnConsumedCapacityTotal),
		ReturnMetrics:  string(types.ReturnItemCollectionMetricsNone),
		Timeout:        5 * time.Minute,
		LogLevel:       "info",
		LogFormat:      logging.FormatConsole,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.File == "" {
		return fmt.Errorf("file is required")
	}
	if c.BatchSize < 1 || c.BatchSize > batchwrite.MaxBatchSize {
		return fmt.Errorf("batch size must be between 1 and %d", batchwrite.MaxBatchSize)
	}
	if c.MaxRetries < 1 {
		return fmt.Errorf("max retries must be at least 1")
	}
	if c.SDKMaxAttempts < 1 {
		return fmt.Errorf("sdk max attempts must be at least 1")
	}
	if !slices.Contains(types.ReturnConsumedCapacity("").Values(), types.ReturnConsumedCapacity(c.ReturnCapacity)) {
		return fmt.Errorf("unknown return-capacity %q", c.ReturnCapacity)
	}
	if !slices.Contains(types.ReturnItemCollectionMetrics("").Values(), types.ReturnItemCollectionMetrics(c.ReturnMetrics)) {
		return fmt.Errorf("unknown return-metrics %q", c.ReturnMetrics)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.LogFormat != logging.FormatConsole && c.LogFormat != logging.FormatJSON {
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}
	return nil
}

// BatchConfig returns the writer configuration.
func (c *Config) BatchConfig() batchwrite.Config {
	return batchwrite.Config{
		BatchSize:                   c.BatchSize,
		MaxRetries:                  c.MaxRetries,
		ReturnConsumedCapacity:      types.ReturnConsumedCapacity(c.ReturnCapacity),
		ReturnItemCollectionMetrics: types.ReturnItemCollectionMetrics(c.ReturnMetrics),
	}
}

// Logger builds the command logger writing to w.
func (c *Config) Logger(w io.Writer) (zerolog.Logger, error) {
	return logging.New(w, c.LogFormat, c.LogLevel)
}

// configSetter applies configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses a string to int and sets the destination if positive.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}

// setBoolFromString accepts "true" and "1" as true, anything else as false.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}

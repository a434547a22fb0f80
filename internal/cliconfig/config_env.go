package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables (WRITEALL_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("file", os.Getenv("WRITEALL_FILE"), &cfg.File)
	s.setString("region", os.Getenv("WRITEALL_REGION"), &cfg.Region)
	s.setString("profile", os.Getenv("WRITEALL_PROFILE"), &cfg.Profile)
	s.setString("endpoint", os.Getenv("WRITEALL_ENDPOINT"), &cfg.Endpoint)
	s.setString("return-capacity", os.Getenv("WRITEALL_RETURN_CAPACITY"), &cfg.ReturnCapacity)
	s.setString("return-metrics", os.Getenv("WRITEALL_RETURN_METRICS"), &cfg.ReturnMetrics)
	s.setString("log-level", os.Getenv("WRITEALL_LOG_LEVEL"), &cfg.LogLevel)
	s.setString("log-format", os.Getenv("WRITEALL_LOG_FORMAT"), &cfg.LogFormat)

	if err := s.setIntFromString("batch-size", os.Getenv("WRITEALL_BATCH_SIZE"), &cfg.BatchSize); err != nil {
		return err
	}
	if err := s.setIntFromString("max-retries", os.Getenv("WRITEALL_MAX_RETRIES"), &cfg.MaxRetries); err != nil {
		return err
	}
	if err := s.setIntFromString("sdk-max-attempts", os.Getenv("WRITEALL_SDK_MAX_ATTEMPTS"), &cfg.SDKMaxAttempts); err != nil {
		return err
	}

	if err := s.setDuration("timeout", os.Getenv("WRITEALL_TIMEOUT"), &cfg.Timeout); err != nil {
		return err
	}

	s.setBoolFromString("dry-run", os.Getenv("WRITEALL_DRY_RUN"), &cfg.DryRun)

	return nil
}

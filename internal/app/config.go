package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	JobPath string // hcl job file

	LogFormat       string
	LogLevel        string
	HealthcheckPort int
	WorkerCount     int
	DryRun          bool
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.JobPath == "" {
		return nil, errors.New("JobPath is a required configuration field and cannot be empty")
	}
	if cfg.WorkerCount < 1 {
		return nil, errors.New("WorkerCount must be at least 1")
	}
	if cfg.HealthcheckPort < 0 || cfg.HealthcheckPort > 65535 {
		return nil, errors.New("HealthcheckPort must be between 0 and 65535")
	}

	return &cfg, nil
}

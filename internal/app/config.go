package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	GridPath string // hcl file or directory of hcl files

	LogFormat       string
	LogLevel        string
	LogFile         string // optional secondary log destination
	HealthcheckPort int
	WorkerCount     int
	FailFast        bool
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.GridPath == "" {
		return nil, errors.New("GridPath is a required configuration field and cannot be empty")
	}
	if cfg.WorkerCount < 1 {
		return nil, errors.New("WorkerCount must be at least 1")
	}

	return &cfg, nil
}

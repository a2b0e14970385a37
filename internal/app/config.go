package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ConfigPath string // hcl and yaml files

	LogFormat       string
	LogLevel        string
	HealthcheckPort int

	// Steps overrides the configured number of steps when positive.
	Steps int
	// Models restricts the run to the named model instances. Empty runs
	// every enabled instance.
	Models []string
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.ConfigPath == "" {
		return nil, errors.New("ConfigPath is a required configuration field and cannot be empty")
	}
	if cfg.Steps < 0 {
		return nil, errors.New("Steps must not be negative")
	}
	return &cfg, nil
}

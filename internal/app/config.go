package app

import "errors"

// Config holds all the configuration an App instance needs to run.
type Config struct {
	GraphPath string // path to a .hcl graph file
	Frames    int    // number of runs to encode

	LogFormat string
	LogLevel  string
}

// NewConfig validates a Config and returns it.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.GraphPath == "" {
		return nil, errors.New("GraphPath is a required configuration field and cannot be empty")
	}
	if cfg.Frames < 1 {
		return nil, errors.New("Frames must be at least 1")
	}
	return &cfg, nil
}

package common

import (
	"fmt"

	"go.uber.org/zap"

	"yt-transcript/internal/config"
	"yt-transcript/internal/logger"
)

var (
	// Verbose switches logging to debug level
	Verbose bool
	// ConfigFile is an optional YAML config file
	ConfigFile string
)

// Setup loads the configuration and builds the logger for a command
func Setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(ConfigFile)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	level := cfg.LogLevel
	if Verbose {
		level = "debug"
	}

	log, err := logger.New(!cfg.IsProduction(), level)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

package app

import (
	"errors"
	"fmt"
	"slices"

	"github.com/vk/emucompose/internal/config"
)

// Log formats accepted by newLogger.
const (
	LogFormatText    = "text"
	LogFormatJSON    = "json"
	LogFormatConsole = "console"
)

// StdinPath is the input path that reads a YAML document from standard input.
const StdinPath = "-"

var (
	logFormats = []string{LogFormatText, LogFormatJSON, LogFormatConsole}
	logLevels  = []string{"debug", "info", "warn", "error"}
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	InputPath  string // .yaml, .yml, .json, .hcl, a directory of .hcl files, or "-"
	OutputPath string // empty writes to the App's output writer

	Dev           bool
	DockerDir     string
	Substitutions []config.Substitution

	CheckRefs    bool
	GitHubToken  string
	GitHubAPIURL string

	LogFormat string
	LogLevel  string
	NoColor   bool
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.InputPath == "" {
		return nil, errors.New("InputPath is a required configuration field and cannot be empty")
	}
	if cfg.DockerDir == "" {
		return nil, errors.New("DockerDir cannot be empty")
	}
	if !slices.Contains(logFormats, cfg.LogFormat) {
		return nil, fmt.Errorf("invalid log format %q: must be one of %v", cfg.LogFormat, logFormats)
	}
	if !slices.Contains(logLevels, cfg.LogLevel) {
		return nil, fmt.Errorf("invalid log level %q: must be one of %v", cfg.LogLevel, logLevels)
	}
	return &cfg, nil
}

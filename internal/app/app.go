package app

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/vk/emucompose/internal/fsutil"
	"github.com/vk/emucompose/internal/gitref"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config

	stdin   io.Reader
	checker fsutil.PathChecker
	prober  gitref.Prober
	now     func() time.Time
}

// Option customizes an App's collaborators.
type Option func(*App)

// WithStdin sets the reader the "-" input path reads from.
func WithStdin(r io.Reader) Option {
	return func(a *App) { a.stdin = r }
}

// WithPathChecker replaces the filesystem used to check local paths.
func WithPathChecker(c fsutil.PathChecker) Option {
	return func(a *App) { a.checker = c }
}

// WithProber replaces the remote ref prober used when CheckRefs is set.
func WithProber(p gitref.Prober) Option {
	return func(a *App) { a.prober = p }
}

// WithClock replaces the clock default pipette serial codes are taken from.
func WithClock(now func() time.Time) Option {
	return func(a *App) { a.now = now }
}

// New is the constructor for the main application. Results go to outW and
// logs to logW, through a logger of the App's own.
func New(outW, logW io.Writer, cfg *Config, opts ...Option) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, cfg.NoColor, logW)
	logger.Debug("Logger configured successfully.")

	a := &App{
		outW:    outW,
		logger:  logger,
		config:  cfg,
		stdin:   os.Stdin,
		checker: fsutil.OS{},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// proberFor returns the configured prober, creating a GitHub one on first use.
func (a *App) proberFor() (gitref.Prober, error) {
	if a.prober != nil {
		return a.prober, nil
	}
	p := gitref.NewGitHubProber(nil, a.config.GitHubToken)
	if a.config.GitHubAPIURL != "" {
		if err := p.SetBaseURL(a.config.GitHubAPIURL); err != nil {
			return nil, err
		}
	}
	a.prober = p
	return p, nil
}

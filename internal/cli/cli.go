package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/vk/emucompose/internal/app"
	"github.com/vk/emucompose/internal/config"
	"github.com/vk/emucompose/internal/convert"
	"github.com/vk/emucompose/internal/validation"
)

// Exit codes.
const (
	ExitFailure    = 1
	ExitUsage      = 2
	ExitValidation = 3
)

// Environment variables that provide flag defaults.
const (
	EnvDev         = "EMUCOMPOSE_DEV"
	EnvDockerDir   = "EMUCOMPOSE_DOCKER_DIR"
	EnvNoColor     = "NO_COLOR"
	EnvGitHubToken = "GITHUB_TOKEN"
	EnvGitHubAPI   = "GITHUB_API_URL"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(format string, args ...any) error {
	return &ExitError{Code: ExitUsage, Message: fmt.Sprintf(format, args...)}
}

// flags holds the values shared by every subcommand.
type flags struct {
	output    string
	dev       bool
	dockerDir string
	checkRefs bool
	subs      []string
	logFormat string
	logLevel  string
	noColor   bool
}

// Streams are the process streams commands read from and write to.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// NewRootCommand builds the emucompose command tree.
func NewRootCommand(streams Streams) *cobra.Command {
	f := &flags{}
	cmd := &cobra.Command{
		Use:   "emucompose",
		Short: "Compile an Opentrons emulation configuration into a Docker Compose file",
		Long: color.CyanString("Usage: emucompose <command> [options] INPUT") + "\n\n" +
			"emucompose turns a description of an emulated robot and its modules into\n" +
			"a Docker Compose manifest. INPUT is a .yaml, .yml, .json or .hcl file, a\n" +
			"directory of .hcl files, or \"-\" to read YAML from standard input.\n",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.CompletionOptions.DisableDefaultCmd = true
	cmd.SetIn(streams.In)
	cmd.SetOut(streams.Out)
	cmd.SetErr(streams.Err)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &ExitError{Code: ExitUsage, Message: err.Error()}
	})

	pf := cmd.PersistentFlags()
	pf.BoolVar(&f.dev, "dev", envBool(EnvDev), "Use the development dockerfile. Defaults to $"+EnvDev+".")
	pf.StringVar(&f.dockerDir, "docker-dir", envOr(EnvDockerDir, convert.DefaultDockerDir), "Build context holding the dockerfiles and entrypoint.sh. Defaults to $"+EnvDockerDir+".")
	pf.BoolVar(&f.checkRefs, "check-refs", false, "Check that remote refs exist using the GitHub API ($"+EnvGitHubToken+" is used when set).")
	pf.StringArrayVar(&f.subs, "sub", nil, "Substitution ID,FIELD,VALUE applied before validation, or a JSON array of [id, field, value] triples. Repeatable.")
	pf.StringVar(&f.logFormat, "log-format", app.LogFormatConsole, "Log output format. Options: 'text', 'json' or 'console'.")
	pf.StringVar(&f.logLevel, "log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	_, noColor := os.LookupEnv(EnvNoColor)
	pf.BoolVar(&f.noColor, "no-color", noColor, "Disable colour output. Defaults to true when $"+EnvNoColor+" is set.")

	cmd.AddCommand(
		newConvertCommand(f, streams),
		newValidateCommand(f, streams),
	)
	return cmd
}

func newConvertCommand(f *flags, streams Streams) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert [options] INPUT",
		Short: "Write the Docker Compose file for INPUT",
		Args:  inputArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := f.newApp(args[0], streams)
			if err != nil {
				return err
			}
			return a.Run(cmd.Context())
		},
	}
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "Write the compose file to this path instead of stdout.")
	return cmd
}

func newValidateCommand(f *flags, streams Streams) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [options] INPUT",
		Short: "Check INPUT and report every violation",
		Args:  inputArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := f.newApp(args[0], streams)
			if err != nil {
				return err
			}
			if err := a.Validate(cmd.Context()); err != nil {
				if validation.IsValidation(err) {
					// Violations are already printed.
					return &ExitError{Code: ExitValidation, Message: "validation failed"}
				}
				return err
			}
			return nil
		},
	}
}

func inputArg(_ *cobra.Command, args []string) error {
	if len(args) != 1 {
		return usageError("expected exactly one INPUT argument, got %d", len(args))
	}
	return nil
}

// newApp validates the flags and builds the application.
func (f *flags) newApp(input string, streams Streams) (*app.App, error) {
	slog.Debug("CLI parameter validation started.")
	subs, err := parseSubstitutions(f.subs)
	if err != nil {
		return nil, usageError("%v", err)
	}

	cfg, err := app.NewConfig(app.Config{
		InputPath:     input,
		OutputPath:    f.output,
		Dev:           f.dev,
		DockerDir:     f.dockerDir,
		Substitutions: subs,
		CheckRefs:     f.checkRefs,
		GitHubToken:   os.Getenv(EnvGitHubToken),
		GitHubAPIURL:  os.Getenv(EnvGitHubAPI),
		LogFormat:     strings.ToLower(f.logFormat),
		LogLevel:      strings.ToLower(f.logLevel),
		NoColor:       f.noColor,
	})
	if err != nil {
		return nil, usageError("%v", err)
	}
	slog.Debug("CLI parameter validation complete.", "input", cfg.InputPath)
	return app.New(streams.Out, streams.Err, cfg, app.WithStdin(streams.In)), nil
}

func parseSubstitutions(raw []string) ([]config.Substitution, error) {
	var subs []config.Substitution
	for _, s := range raw {
		if strings.HasPrefix(strings.TrimSpace(s), "[") {
			list, err := config.ParseSubstitutionList(s)
			if err != nil {
				return nil, err
			}
			subs = append(subs, list...)
			continue
		}
		sub, err := config.ParseSubstitution(s)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, nil
}

// Execute runs the command tree with args and maps failures onto ExitErrors.
func Execute(ctx context.Context, args []string, streams Streams) error {
	cmd := NewRootCommand(streams)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return nil
	}

	var exitErr *ExitError
	switch {
	case errors.As(err, &exitErr):
		return exitErr
	case validation.IsValidation(err):
		return &ExitError{Code: ExitValidation, Message: err.Error()}
	case strings.HasPrefix(err.Error(), "unknown command"):
		return &ExitError{Code: ExitUsage, Message: err.Error()}
	}
	return &ExitError{Code: ExitFailure, Message: err.Error()}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envBool(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && v
}

package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/vk/emucompose/internal/compose"
	"github.com/vk/emucompose/internal/convert"
	"github.com/vk/emucompose/internal/ctxlog"
	"github.com/vk/emucompose/internal/gitref"
	"github.com/vk/emucompose/internal/model"
	"github.com/vk/emucompose/internal/validation"
)

// Run converts the input document and writes the compose file.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.With(ctxlog.WithLogger(ctx, a.logger), "input", a.config.InputPath)
	a.logger.Debug("App.Run method started.")

	sys, err := a.loadSystem(ctx)
	if err != nil {
		return err
	}

	file, err := convert.Convert(ctx, sys, convert.Options{
		Dev:       a.config.Dev,
		DockerDir: a.config.DockerDir,
		Now:       a.now,
	})
	if err != nil {
		return err
	}

	if err := a.write(file); err != nil {
		return err
	}
	a.logger.Info("Compose file generated.", "services", len(file.Services), "output", a.outputName())
	a.logger.Debug("App.Run method finished.")
	return nil
}

// Validate checks the input document without converting it and prints a
// summary of the result. Violations are printed one per line and returned.
func (a *App) Validate(ctx context.Context) error {
	ctx = ctxlog.With(ctxlog.WithLogger(ctx, a.logger), "input", a.config.InputPath)
	a.logger.Debug("App.Validate method started.")

	err := a.validate(ctx)
	var reportErr *validation.ReportError
	switch {
	case err == nil:
		fmt.Fprintln(a.outW, a.paint(color.FgGreen, "Valid!"), a.config.InputPath, "has no errors.")
	case errors.As(err, &reportErr):
		for _, e := range reportErr.Errors {
			fmt.Fprintln(a.outW, a.paint(color.FgRed, "Error!"), e.Error())
		}
	case validation.IsValidation(err):
		fmt.Fprintln(a.outW, a.paint(color.FgRed, "Error!"), err.Error())
	}
	return err
}

// paint colours s unless colour is disabled for this App.
func (a *App) paint(attr color.Attribute, s string) string {
	c := color.New(attr)
	if a.config.NoColor {
		c.DisableColor()
	}
	return c.Sprint(s)
}

func (a *App) validate(ctx context.Context) error {
	sys, err := a.loadSystem(ctx)
	if err != nil {
		return err
	}
	a.logger.Debug("Input is valid.", "services", sys.ServiceNames())
	return nil
}

func (a *App) checkRefs(ctx context.Context, sys *model.System) error {
	prober, err := a.proberFor()
	if err != nil {
		return err
	}
	targets := gitref.Targets(sys)
	if err := gitref.Check(ctx, prober, targets); err != nil {
		return err
	}
	a.logger.Debug("Remote refs exist.", "count", len(targets))
	return nil
}

// write encodes the whole file before touching the output, so a failed
// conversion never leaves a truncated compose file behind.
func (a *App) write(file *compose.File) error {
	data, err := compose.Marshal(file)
	if err != nil {
		return err
	}
	if a.config.OutputPath == "" {
		_, err = a.outW.Write(data)
		return err
	}
	if err := os.WriteFile(a.config.OutputPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write compose file: %w", err)
	}
	return nil
}

func (a *App) outputName() string {
	if a.config.OutputPath == "" {
		return "stdout"
	}
	return a.config.OutputPath
}

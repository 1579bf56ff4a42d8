package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/vk/emucompose/internal/config"
	"github.com/vk/emucompose/internal/ctxlog"
	"github.com/vk/emucompose/internal/hclconf"
	"github.com/vk/emucompose/internal/model"
	"github.com/vk/emucompose/internal/yamlconf"
)

// loaderFor picks the loader for path by extension. Directories hold HCL.
func loaderFor(path string) (config.Loader, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml", ".json":
		return yamlconf.NewLoader(), nil
	case ".hcl":
		return hclconf.NewLoader(), nil
	case "":
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			return hclconf.NewLoader(), nil
		}
	}
	return nil, fmt.Errorf("unsupported input %q: expected .yaml, .yml, .json, .hcl, a directory or %q", path, StdinPath)
}

// loadDocument reads the input document and applies the configured substitutions.
func (a *App) loadDocument(ctx context.Context) (*config.Document, error) {
	logger := ctxlog.FromContext(ctx)
	path := a.config.InputPath
	logger.Debug("Loading input document...", "path", path)

	var doc *config.Document
	if path == StdinPath {
		src, err := io.ReadAll(a.stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read standard input: %w", err)
		}
		doc, err = yamlconf.NewLoader().Parse(ctx, "<stdin>", src)
		if err != nil {
			return nil, err
		}
	} else {
		loader, err := loaderFor(path)
		if err != nil {
			return nil, err
		}
		doc, err = loader.Load(ctx, path)
		if err != nil {
			return nil, err
		}
	}

	if len(a.config.Substitutions) > 0 {
		if err := doc.Apply(a.config.Substitutions...); err != nil {
			return nil, err
		}
		logger.Debug("Substitutions applied.", "count", len(a.config.Substitutions))
	}
	return doc, nil
}

// loadSystem loads, validates and optionally probes the input.
func (a *App) loadSystem(ctx context.Context) (*model.System, error) {
	doc, err := a.loadDocument(ctx)
	if err != nil {
		return nil, err
	}
	sys, err := model.Build(ctx, doc, a.checker)
	if err != nil {
		return nil, err
	}
	if a.config.CheckRefs {
		if err := a.checkRefs(ctx, sys); err != nil {
			return nil, err
		}
	}
	return sys, nil
}

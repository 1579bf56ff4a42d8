// Package hclconf loads input documents written in HCL. A path may name a
// single .hcl file or a directory; all .hcl files under a directory are
// merged into one document.
//
//	monorepo-source = "latest"
//
//	robot "otie" {
//	  hardware        = "ot2"
//	  emulation-level = "firmware"
//	}
//
//	module "hs" {
//	  hardware        = "heater-shaker-module"
//	  emulation-level = "hardware"
//	  hardware-specific-attributes = {
//	    mode = "stdin"
//	  }
//	}
package hclconf

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/emucompose/internal/config"
	"github.com/vk/emucompose/internal/ctxlog"
	"github.com/vk/emucompose/internal/fsutil"
	"github.com/vk/emucompose/internal/validation"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads the file or directory at path.
func (l *Loader) Load(ctx context.Context, path string) (*config.Document, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path", path)

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to access configuration: %w", err)
	}

	files := []string{path}
	if info.IsDir() {
		files, err = fsutil.FindFilesByExtension(path, ".hcl")
		if err != nil {
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}
		if len(files) == 0 {
			return nil, validation.Errorf(validation.InputShape, path, "directory contains no .hcl files")
		}
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	parser := hclparse.NewParser()
	var roots []*fileRoot
	var report validation.Report
	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			report.Add(diagnosticsError(diags))
			continue
		}
		root, err := decodeFile(hclFile)
		if err != nil {
			report.Add(err)
			continue
		}
		roots = append(roots, root)
	}
	if err := report.Err(); err != nil {
		return nil, err
	}

	return l.translate(ctx, roots)
}

// Parse decodes a single in-memory HCL document.
func (l *Loader) Parse(ctx context.Context, filename string, src []byte) (*config.Document, error) {
	ctxlog.FromContext(ctx).Debug("HCL loader started.", "file", filename, "bytes", len(src))

	hclFile, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, diagnosticsError(diags)
	}
	root, err := decodeFile(hclFile)
	if err != nil {
		return nil, err
	}
	return l.translate(ctx, []*fileRoot{root})
}

func decodeFile(file *hcl.File) (*fileRoot, error) {
	var root fileRoot
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return nil, diagnosticsError(diags)
	}
	return &root, nil
}

// diagnosticsError reports every error diagnostic as an input-shape violation.
func diagnosticsError(diags hcl.Diagnostics) error {
	var report validation.Report
	for _, diag := range diags {
		if diag.Severity != hcl.DiagError {
			continue
		}
		field := ""
		if diag.Subject != nil {
			field = diag.Subject.String()
		}
		if diag.Detail != "" {
			report.Addf(validation.InputShape, field, "%s; %s", diag.Summary, diag.Detail)
		} else {
			report.Addf(validation.InputShape, field, "%s", diag.Summary)
		}
	}
	return report.Err()
}

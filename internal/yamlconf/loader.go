// Package yamlconf loads input documents written in YAML or JSON. Decoding is
// strict: unknown keys, duplicate keys and wrongly typed values are rejected
// and reported as input-shape violations. Those violations do not stop
// decoding; they travel with the document in Document.LoadErrors so that
// validation reports them together with everything else.
package yamlconf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/vk/emucompose/internal/config"
	"github.com/vk/emucompose/internal/ctxlog"
	"github.com/vk/emucompose/internal/validation"
	"gopkg.in/yaml.v3"
)

// Loader is the YAML implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new YAML configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads and decodes the document at path.
func (l *Loader) Load(ctx context.Context, path string) (*config.Document, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration: %w", err)
	}
	return l.Parse(ctx, path, src)
}

// Parse decodes a single YAML or JSON document.
func (l *Loader) Parse(ctx context.Context, filename string, src []byte) (*config.Document, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("YAML loader started.", "file", filename, "bytes", len(src))

	dec := yaml.NewDecoder(bytes.NewReader(src))
	dec.KnownFields(true)

	var doc config.Document
	if err := dec.Decode(&doc); err != nil {
		var typeErr *yaml.TypeError
		switch {
		case errors.Is(err, io.EOF):
			return nil, validation.Errorf(validation.InputShape, filename, "document is empty")
		case errors.As(err, &typeErr):
			doc.LoadErrors = decodeError(filename, err)
			logger.Debug("YAML document decoded partially.", "file", filename, "violations", len(typeErr.Errors))
		default:
			return nil, decodeError(filename, err)
		}
	}

	var next yaml.Node
	if err := dec.Decode(&next); !errors.Is(err, io.EOF) {
		return nil, validation.Errorf(validation.InputShape, filename, "expected a single document")
	}

	logger.Debug("YAML loading complete.", "file", filename, "modules", len(doc.Modules), "extra_mounts", len(doc.ExtraMounts))
	return &doc, nil
}

// decodeError turns every message of a yaml.TypeError into its own violation.
func decodeError(filename string, err error) error {
	var report validation.Report
	var typeErr *yaml.TypeError
	if errors.As(err, &typeErr) {
		for _, msg := range typeErr.Errors {
			report.Addf(validation.InputShape, filename, "%s", msg)
		}
		return report.Err()
	}
	report.Addf(validation.InputShape, filename, "%v", err)
	return report.Err()
}

package config

import "context"

// Loader is the interface for a format-specific configuration loader.
type Loader interface {
	// Load reads the document at path.
	Load(ctx context.Context, path string) (*Document, error)
	// Parse decodes an in-memory document. filename is used in error messages.
	Parse(ctx context.Context, filename string, src []byte) (*Document, error)
}

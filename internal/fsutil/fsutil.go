// Package fsutil answers the filesystem questions the compiler asks of the
// host: whether configured paths exist and which config files a directory holds.
package fsutil

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// PathChecker reports on host paths referenced by a configuration.
type PathChecker interface {
	// DirExists reports whether path names an existing directory.
	DirExists(path string) bool
	// Exists reports whether path names an existing file or directory.
	Exists(path string) bool
}

// OS is the PathChecker backed by the real filesystem.
type OS struct{}

func (OS) DirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func (OS) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil || !errors.Is(err, fs.ErrNotExist)
}

// FindFilesByExtension recursively searches the given root path for all files ending
// with the specified extension. Results are sorted so callers merge them in a
// stable order.
func FindFilesByExtension(rootPath string, extension string) ([]string, error) {
	if extension == "" {
		panic("extension must not be empty")
	}

	var files []string
	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), extension) {
			files = append(files, path)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	slices.Sort(files)
	return files, nil
}

// Package testutil runs the emucompose command end to end against documents
// written to a temporary directory.
package testutil

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/emucompose/internal/cli"
)

// RootPlaceholder is replaced by the temporary root directory in every file
// and argument, so documents can point local sources at directories the
// harness created.
const RootPlaceholder = "{{root}}"

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	Root      string
	Output    string
	LogOutput string
	Err       error
}

// RunIntegrationTest writes files under a temporary root and runs the command
// line in args. A file name ending in "/" creates a directory. Arguments that
// name one of the files are replaced by its absolute path.
func RunIntegrationTest(t *testing.T, files map[string]string, args ...string) *HarnessResult {
	t.Helper()
	return RunIntegrationTestWithStdin(t, files, "", args...)
}

// RunIntegrationTestWithStdin is RunIntegrationTest with stdin as standard input.
func RunIntegrationTestWithStdin(t *testing.T, files map[string]string, stdin string, args ...string) *HarnessResult {
	t.Helper()

	root := t.TempDir()
	expand := func(s string) string { return strings.ReplaceAll(s, RootPlaceholder, root) }

	for name, content := range files {
		path := filepath.Join(root, name)
		if strings.HasSuffix(name, "/") {
			require.NoError(t, os.MkdirAll(path, 0o755))
			continue
		}
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(expand(content)), 0o644))
	}

	resolved := make([]string, len(args))
	for i, arg := range args {
		if _, ok := files[arg]; ok {
			arg = filepath.Join(root, arg)
		}
		resolved[i] = expand(arg)
	}

	var out, logs SafeBuffer
	err := cli.Execute(context.Background(), resolved, cli.Streams{
		In:  strings.NewReader(expand(stdin)),
		Out: &out,
		Err: &logs,
	})

	t.Cleanup(func() {
		if os.Getenv("EMUCOMPOSE_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
		}
	})

	return &HarnessResult{Root: root, Output: out.String(), LogOutput: logs.String(), Err: err}
}

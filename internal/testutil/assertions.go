package testutil

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/emucompose/internal/cli"
	"github.com/vk/emucompose/internal/compose"
)

// ComposeFile parses the compose file the run wrote to its output.
func ComposeFile(t *testing.T, result *HarnessResult) *compose.File {
	t.Helper()
	require.NoError(t, result.Err, "run failed; logs:\n%s", result.LogOutput)
	file, err := compose.Unmarshal([]byte(result.Output))
	require.NoError(t, err, "output is not a compose file:\n%s", result.Output)
	return file
}

// AssertServices checks that the run emitted exactly the named services.
func AssertServices(t *testing.T, result *HarnessResult, names ...string) *compose.File {
	t.Helper()
	file := ComposeFile(t, result)
	assert.ElementsMatch(t, names, file.ServiceNames())
	return file
}

// AssertExitCode checks that the run failed with the given exit code and a
// message containing every substring in msgs.
func AssertExitCode(t *testing.T, result *HarnessResult, code int, msgs ...string) {
	t.Helper()
	require.Error(t, result.Err, "expected the run to fail")
	var exitErr *cli.ExitError
	require.True(t, errors.As(result.Err, &exitErr), "expected *cli.ExitError, got %T", result.Err)
	assert.Equal(t, code, exitErr.Code, exitErr.Message)
	for _, msg := range msgs {
		assert.Contains(t, exitErr.Message, msg)
	}
}

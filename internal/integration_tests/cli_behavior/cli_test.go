package integration_tests

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/emucompose/internal/cli"
	"github.com/vk/emucompose/internal/testutil"
)

const ot2YAML = `
monorepo-source: latest
robot:
  id: otie
  hardware: ot2
  emulation-level: firmware
modules:
  - id: temp
    hardware: temperature-module
    emulation-level: firmware
`

func TestCLI_DisplaysHelp(t *testing.T) {
	t.Parallel()

	// --- Act ---
	result := testutil.RunIntegrationTest(t, nil, "convert", "--help")

	// --- Assert ---
	require.NoError(t, result.Err)
	assert.Contains(t, result.Output, "--docker-dir")
	assert.Contains(t, result.Output, "--output")
}

func TestCLI_ReadsStdin(t *testing.T) {
	t.Parallel()

	// --- Act ---
	result := testutil.RunIntegrationTestWithStdin(t, nil, ot2YAML, "convert", "-")

	// --- Assert ---
	testutil.AssertServices(t, result, "otie", "smoothie", "emulator-proxy", "temp")
}

func TestCLI_Substitutions(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	files := map[string]string{
		"src/opentrons/": "",
		"system.yaml":    ot2YAML,
	}

	// --- Act ---
	result := testutil.RunIntegrationTest(t, files, "convert",
		"--sub", `[["otie", "source-location", "{{root}}/src/opentrons"], ["otie", "exposed-port", "8080"]]`,
		"--sub", "temp,emulation-level,firmware",
		"system.yaml",
	)

	// --- Assert ---
	file := testutil.AssertServices(t, result, "otie", "smoothie", "emulator-proxy", "temp", "monorepo-builder")
	assert.Equal(t, []string{"8080:31950"}, file.Services["otie"].Ports)
	assert.Contains(t, file.Services["otie"].Volumes, result.Root+"/src/opentrons:/opentrons")
	assert.NotNil(t, file.Services["temp"].Build.Args, "the module keeps the remote monorepo")
}

func TestCLI_SubstitutionOfUnknownService(t *testing.T) {
	t.Parallel()

	// --- Act ---
	result := testutil.RunIntegrationTest(t, map[string]string{"system.yaml": ot2YAML},
		"convert", "--sub", "ghost,emulation-level,firmware", "system.yaml")

	// --- Assert ---
	testutil.AssertExitCode(t, result, cli.ExitValidation, `no robot or module with id "ghost"`)
}

func TestCLI_WritesOutputFile(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	files := map[string]string{"system.yaml": ot2YAML}

	// --- Act ---
	result := testutil.RunIntegrationTest(t, files, "convert", "-o", testutil.RootPlaceholder+"/compose.yaml", "system.yaml")

	// --- Assert ---
	require.NoError(t, result.Err)
	assert.Empty(t, result.Output)
	data, err := os.ReadFile(filepath.Join(result.Root, "compose.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "emulator-proxy:")
}

func TestCLI_Validate(t *testing.T) {
	t.Parallel()

	// --- Act ---
	result := testutil.RunIntegrationTest(t, map[string]string{"system.yaml": ot2YAML}, "validate", "--no-color", "system.yaml")

	// --- Assert ---
	require.NoError(t, result.Err)
	assert.Contains(t, result.Output, "Valid!")
	assert.Contains(t, result.Output, "has no errors.")
}

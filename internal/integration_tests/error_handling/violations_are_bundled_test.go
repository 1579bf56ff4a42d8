package integration_tests

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vk/emucompose/internal/cli"
	"github.com/vk/emucompose/internal/testutil"
)

func TestErrorHandling_EveryViolationIsReported(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	files := map[string]string{
		"system.yaml": `
monorepo-source: not-a-ref
robot:
  id: smoothie
  hardware: ot2
  emulation-level: hardware
modules:
  - id: maggy
    hardware: magnetic-module
    emulation-level: hardware
  - id: maggy
    hardware: temperature-module
    emulation-level: firmware
`,
	}

	// --- Act ---
	result := testutil.RunIntegrationTest(t, files, "convert", "system.yaml")

	// --- Assert ---
	testutil.AssertExitCode(t, result, cli.ExitValidation,
		"remote ref invalid",
		"emulation level not supported",
		"smoothie",
		"maggy",
	)
	assert.Empty(t, result.Output, "nothing may be written for an invalid document")
}

func TestErrorHandling_UnknownKeyIsRejected(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	files := map[string]string{
		"system.yaml": `
monorepo-source: latest
robot:
  id: otie
  hardware: ot2
  emulation-level: firmware
  colour: blue
`,
	}

	// --- Act ---
	result := testutil.RunIntegrationTest(t, files, "convert", "system.yaml")

	// --- Assert ---
	testutil.AssertExitCode(t, result, cli.ExitValidation, "input shape", "colour")
}

func TestErrorHandling_UnknownKeyDoesNotHideOtherViolations(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	files := map[string]string{
		"system.yaml": `
bogus: true
monorepo-source: not-a-ref
robot:
  id: smoothie
  hardware: ot2
  emulation-level: hardware
modules:
  - id: maggy
    hardware: magnetic-module
    emulation-level: hardware
`,
	}

	// --- Act ---
	result := testutil.RunIntegrationTest(t, files, "convert", "system.yaml")

	// --- Assert ---
	testutil.AssertExitCode(t, result, cli.ExitValidation,
		"field bogus not found",
		"remote ref invalid",
		"reserved container name",
		"robot.emulation-level",
		"modules[0].emulation-level",
	)
}

func TestErrorHandling_InvalidHCLIsRejected(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	files := map[string]string{
		"system.hcl": `
robot "otie" {
  hardware = "ot2"
`,
	}

	// --- Act ---
	result := testutil.RunIntegrationTest(t, files, "convert", "system.hcl")

	// --- Assert ---
	testutil.AssertExitCode(t, result, cli.ExitValidation, "system.hcl")
}

package integration_tests

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vk/emucompose/internal/testutil"
)

func TestConversion_OT2WithLocalModules(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	files := map[string]string{
		"src/opentrons/":         "",
		"src/opentrons-modules/": "",
		"system.yaml": `
monorepo-source: {{root}}/src/opentrons
opentrons-modules-source: {{root}}/src/opentrons-modules
robot:
  id: otie
  hardware: ot2
  emulation-level: firmware
  exposed-port: 31951
  hardware-specific-attributes:
    left-pipette: P20 Single
modules:
  - id: shakey
    hardware: heater-shaker-module
    emulation-level: hardware
    hardware-specific-attributes:
      mode: socket
  - id: maggy
    hardware: magnetic-module
    emulation-level: firmware
  - id: cycler
    hardware: thermocycler-module
    emulation-level: firmware
    hardware-specific-attributes:
      lid-temperature: {degrees-per-tick: 5}
`,
	}

	// --- Act ---
	result := testutil.RunIntegrationTest(t, files, "convert", "--log-level", "debug", "--log-format", "json", "system.yaml")

	// --- Assert ---
	file := testutil.AssertServices(t, result,
		"otie", "smoothie", "emulator-proxy", "shakey", "maggy", "cycler",
		"monorepo-builder", "opentrons-modules-builder",
	)
	root := result.Root

	otie := file.Services["otie"]
	assert.Subset(t, otie.DependsOn, []string{"smoothie", "emulator-proxy", "shakey", "maggy", "cycler"})
	assert.Equal(t, []string{"31951:31950"}, otie.Ports)
	assert.Contains(t, otie.Volumes, root+"/src/opentrons:/opentrons")
	assert.Nil(t, otie.Build.Args)

	assert.Contains(t, file.Services["smoothie"].Environment["OT_EMULATOR_smoothie"], `"port":11000`)
	assert.Contains(t, file.Services["shakey"].Volumes, root+"/src/opentrons-modules:/opentrons-modules")
	assert.Equal(t, `{"serial_number":"maggy","model":"mag_deck_v20","version":"2.0.0"}`,
		file.Services["maggy"].Environment["OT_EMULATOR_magdeck"])
	assert.Contains(t, file.Services["cycler"].Environment["OT_EMULATOR_thermocycler"], `"degrees_per_tick":5`)

	assert.Equal(t, []string{"CMD-SHELL", "(cd /opentrons)"}, file.Services["monorepo-builder"].Healthcheck.Test)
	assert.Contains(t, result.LogOutput, `"msg":"Compose file generated."`)
}

func TestConversion_HCLDirectory(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	files := map[string]string{
		"config/robot.hcl": `
monorepo-source = "latest"

robot "otie" {
  hardware        = "ot2"
  emulation-level = "firmware"
}
`,
		"config/modules.hcl": `
module "temp" {
  hardware        = "temperature-module"
  emulation-level = "firmware"
}
`,
	}

	// --- Act ---
	result := testutil.RunIntegrationTest(t, files, "convert", testutil.RootPlaceholder+"/config")

	// --- Assert ---
	file := testutil.AssertServices(t, result, "otie", "smoothie", "emulator-proxy", "temp")
	assert.Equal(t, "emulator-proxy", file.Services["temp"].Command)
	assert.Equal(t, "https://github.com/Opentrons/opentrons.git#edge",
		file.Services["temp"].Build.Args["OPENTRONS_SOURCE_DOWNLOAD_LOCATION"])
}

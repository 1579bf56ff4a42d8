package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHardwareLevels(t *testing.T) {
	t.Parallel()

	assert.True(t, HeaterShaker.Supports(LevelHardware))
	assert.True(t, HeaterShaker.Supports(LevelFirmware))
	assert.True(t, MagDeck.Supports(LevelFirmware))
	assert.False(t, MagDeck.Supports(LevelHardware))
	assert.False(t, OT3.Supports(LevelFirmware))
	assert.Equal(t, []Level{LevelFirmware}, OT2.Levels())
}

func TestParseHardware(t *testing.T) {
	t.Parallel()

	for _, hw := range HardwareKinds() {
		got, ok := ParseHardware(string(hw))
		require.True(t, ok, hw)
		assert.Equal(t, hw, got)
	}

	_, ok := ParseHardware("ot4")
	assert.False(t, ok)
}

func TestImageFor(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		hw    Hardware
		level Level
		st    SourceType
		want  string
	}{
		{OT2, LevelFirmware, Remote, "robot-server-remote"},
		{OT3, LevelHardware, Local, "robot-server-local"},
		{MagDeck, LevelFirmware, Local, "magdeck-firmware-local"},
		{TempDeck, LevelFirmware, Remote, "tempdeck-firmware-remote"},
		{HeaterShaker, LevelHardware, Remote, "heater-shaker-hardware-remote"},
		{Thermocycler, LevelHardware, Local, "thermocycler-hardware-local"},
		{Thermocycler, LevelFirmware, Remote, "thermocycler-firmware-remote"},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, ImageFor(tc.hw, tc.level, tc.st))
	}

	assert.Panics(t, func() { ImageFor(MagDeck, LevelHardware, Local) })
}

func TestModuleSettings(t *testing.T) {
	t.Parallel()

	info := ProxyInfoFor(HeaterShaker)
	assert.Equal(t, ProxyInfo{EnvVar: "OT_EMULATOR_heatershaker_proxy", EmulatorPort: 10004, DriverPort: 11004}, info)

	fs, ok := FirmwareSerialFor(MagDeck)
	require.True(t, ok)
	assert.Equal(t, "mag_deck_v20", fs.Model)
	assert.Equal(t, "2.0.0", fs.Version)

	_, ok = FirmwareSerialFor(OT2)
	assert.False(t, ok)

	assert.Panics(t, func() { ProxyInfoFor(OT3) })
	assert.True(t, SupportsModule(OT2, MagDeck))
	assert.False(t, SupportsModule(OT3, MagDeck))
}

func TestRepos(t *testing.T) {
	t.Parallel()

	mono := RepoOf(MonorepoSource)
	assert.Equal(t, "edge", mono.DefaultBranch)
	assert.Equal(t, "/opentrons", mono.MountPath())
	assert.Equal(t, "https://github.com/Opentrons/opentrons.git#edge", mono.DownloadURL("edge"))
	assert.Empty(t, mono.BuildCacheVolumes())

	fw := RepoOf(OT3FirmwareSource)
	assert.Equal(t, "main", fw.DefaultBranch)
	assert.Equal(t, "FIRMWARE_SOURCE_DOWNLOAD_LOCATION", fw.BuildArg)
	assert.Equal(t, []string{
		"ot3-firmware-build-host-docker-cache:/ot3-firmware/build-host",
		"ot3-firmware-stm32-tools-docker-cache:/ot3-firmware/stm32-tools",
	}, fw.BuildCacheVolumes())

	assert.Equal(t, "MODULE_SOURCE_DOWNLOAD_LOCATION", RepoOf(ModulesSource).BuildArg)
}

func TestLookupPipette(t *testing.T) {
	t.Parallel()

	p, ok := LookupPipette(OT3, "P1000 Single")
	require.True(t, ok)
	assert.Equal(t, "p1000_single_gen3", p.Name)
	assert.Equal(t, 1, p.Model)

	p, ok = LookupPipette(OT2, "p300_multi_gen2")
	require.True(t, ok)
	assert.Equal(t, "P300 Multi", p.DisplayName)

	_, ok = LookupPipette(OT2, "P50 Single")
	assert.False(t, ok, "OT-3 pipettes are not in the OT-2 catalog")

	p, ok = LookupPipette(OT3, "p1000_96")
	require.True(t, ok)
	assert.True(t, p.LeftOnly)
	assert.True(t, p.BlocksOtherMount)
}

func TestReservedNames(t *testing.T) {
	t.Parallel()

	assert.True(t, IsReserved("smoothie"))
	assert.True(t, IsReserved("ot3-gantry-x"))
	assert.True(t, IsReserved("opentrons-modules-builder"))
	assert.False(t, IsReserved("otie"))
}

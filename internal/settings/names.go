package settings

import "slices"

const (
	ComposeVersion = "3.8"

	LocalNetwork = "local-network"
	CANNetwork   = "can-network"

	Dockerfile    = "Dockerfile"
	DevDockerfile = "dev_Dockerfile"

	EntrypointFile   = "entrypoint.sh"
	EntrypointTarget = "/entrypoint.sh"
)

// Ports.
const (
	RobotServerPort  = 31950
	StateManagerPort = 9999
	SmoothiePort     = 11000
	CANServerPort    = 9898
)

// Fixed container names. User identifiers may not collide with these.
const (
	SmoothieName        = "smoothie"
	CANServerName       = "can-server"
	EmulatorProxyName   = "emulator-proxy"
	StateManagerName    = "ot3-state-manager"
	MonorepoBuilderName = "monorepo-builder"
	FirmwareBuilderName = "ot3-firmware-builder"
	ModulesBuilderName  = "opentrons-modules-builder"
)

// Environment variable names shared with the emulator images.
const (
	EnvOpentronsProject       = "OPENTRONS_PROJECT"
	EnvSmoothie               = "OT_EMULATOR_smoothie"
	EnvSmoothieURI            = "OT_SMOOTHIE_EMULATOR_URI"
	EnvModuleServer           = "OT_EMULATOR_module_server"
	EnvSerialNumber           = "SERIAL_NUMBER"
	EnvPipetteDefinition      = "OT3_PIPETTE_DEFINITION"
	EnvRightPipetteDefinition = "RIGHT_OT3_PIPETTE_DEFINITION"
	EnvEEPROMFilename         = "EEPROM_FILENAME"
	EnvCANServerHost          = "CAN_SERVER_HOST"
	EnvStateManagerHost       = "STATE_MANAGER_HOST"
	EnvStateManagerPort       = "STATE_MANAGER_PORT"
	EnvOT3HardwareController  = "OT_API_FF_enableOT3HardwareController"
	EnvCANDriverInterface     = "OT3_CAN_DRIVER_interface"
	EnvCANDriverHost          = "OT3_CAN_DRIVER_host"
	EnvCANDriverPort          = "OT3_CAN_DRIVER_port"

	ProjectOT3         = "ot3"
	CANDriverInterface = "opentrons_sock"
	EEPROMFilename     = "eeprom.bin"
)

// Named volumes.
const (
	MonorepoWheelsVolume = "monorepo-wheels"
	MonorepoWheelsPath   = "/dist"

	StateManagerDistVolume = "state-manager-dist"
	StateManagerDistPath   = "/state-manager-dist"
	StateManagerVenvVolume = "state-manager-venv"
	StateManagerVenvPath   = "/.venv"

	ExecutablePath = "/executable"

	// BuilderVolumesDir is where builder sidecars see the volumes they fill.
	BuilderVolumesDir = "/volumes"
)

// ReservedNames returns the container names no user identifier may take.
func ReservedNames() []string {
	names := []string{
		SmoothieName,
		CANServerName,
		EmulatorProxyName,
		StateManagerName,
		MonorepoBuilderName,
		FirmwareBuilderName,
		ModulesBuilderName,
	}
	for _, sc := range Subcomponents() {
		names = append(names, sc.ContainerName())
	}
	return names
}

// IsReserved reports whether name is one of ReservedNames.
func IsReserved(name string) bool {
	return slices.Contains(ReservedNames(), name)
}

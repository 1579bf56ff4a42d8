package hclconf

import "github.com/zclconf/go-cty/cty"

// fileRoot is a struct used to decode all possible top-level items from any file.
// Every attribute is optional here; presence is checked during validation so
// that HCL and YAML documents report missing keys the same way.
type fileRoot struct {
	SystemUniqueID         *string            `hcl:"system-unique-id,optional"`
	MonorepoSource         cty.Value          `hcl:"monorepo-source,optional"`
	OT3FirmwareSource      cty.Value          `hcl:"ot3-firmware-source,optional"`
	OpentronsModulesSource cty.Value          `hcl:"opentrons-modules-source,optional"`
	Robots                 []*robotBlock      `hcl:"robot,block"`
	Modules                []*moduleBlock     `hcl:"module,block"`
	ExtraMounts            []*extraMountBlock `hcl:"extra-mount,block"`
}

// robotBlock is `robot "<id>" { ... }`.
type robotBlock struct {
	ID                      string  `hcl:"id,label"`
	Hardware                string  `hcl:"hardware,optional"`
	EmulationLevel          string  `hcl:"emulation-level,optional"`
	SourceType              *string `hcl:"source-type,optional"`
	SourceLocation          *string `hcl:"source-location,optional"`
	ExposedPort             *int    `hcl:"exposed-port,optional"`
	CANServerExposedPort    *int    `hcl:"can-server-exposed-port,optional"`
	StateManagerExposedPort *int    `hcl:"ot3-state-manager-exposed-port,optional"`

	HardwareSpecificAttributes cty.Value `hcl:"hardware-specific-attributes,optional"`

	RobotServerEnvVars   map[string]string            `hcl:"robot-server-env-vars,optional"`
	EmulatorProxyEnvVars map[string]string            `hcl:"emulator-proxy-env-vars,optional"`
	CANServerEnvVars     map[string]string            `hcl:"can-server-env-vars,optional"`
	StateManagerEnvVars  map[string]string            `hcl:"ot3-state-manager-env-vars,optional"`
	HardwareEnvVars      map[string]map[string]string `hcl:"hardware-env-vars,optional"`
}

// moduleBlock is `module "<id>" { ... }`.
type moduleBlock struct {
	ID             string  `hcl:"id,label"`
	Hardware       string  `hcl:"hardware,optional"`
	EmulationLevel string  `hcl:"emulation-level,optional"`
	SourceType     *string `hcl:"source-type,optional"`
	SourceLocation *string `hcl:"source-location,optional"`

	HardwareSpecificAttributes cty.Value `hcl:"hardware-specific-attributes,optional"`

	ModuleEnvVars map[string]string `hcl:"module-env-vars,optional"`
}

// extraMountBlock is `extra-mount { ... }`.
type extraMountBlock struct {
	ContainerNames []string `hcl:"container-names,optional"`
	HostPath       string   `hcl:"host-path,optional"`
	ContainerPath  string   `hcl:"container-path,optional"`
}

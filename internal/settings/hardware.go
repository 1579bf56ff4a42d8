package settings

import (
	"fmt"
	"slices"
)

// Hardware identifies a robot or module kind as written in the input document.
type Hardware string

const (
	OT2          Hardware = "ot2"
	OT3          Hardware = "ot3"
	HeaterShaker Hardware = "heater-shaker-module"
	Thermocycler Hardware = "thermocycler-module"
	TempDeck     Hardware = "temperature-module"
	MagDeck      Hardware = "magnetic-module"
)

// Level is an emulation level.
type Level string

const (
	LevelFirmware Level = "firmware"
	LevelHardware Level = "hardware"
)

// SourceType tells whether a service runs from a local checkout or a remote ref.
type SourceType string

const (
	Local  SourceType = "local"
	Remote SourceType = "remote"
)

var hardwareLevels = map[Hardware][]Level{
	OT2:          {LevelFirmware},
	OT3:          {LevelHardware},
	HeaterShaker: {LevelHardware, LevelFirmware},
	Thermocycler: {LevelFirmware, LevelHardware},
	TempDeck:     {LevelFirmware},
	MagDeck:      {LevelFirmware},
}

// shortNames are the prefixes used for image names and proxy settings.
var shortNames = map[Hardware]string{
	OT2:          "robot-server",
	OT3:          "robot-server",
	HeaterShaker: "heater-shaker",
	Thermocycler: "thermocycler",
	TempDeck:     "tempdeck",
	MagDeck:      "magdeck",
}

// modulesByRobot lists the module kinds each robot accepts.
var modulesByRobot = map[Hardware][]Hardware{
	OT2: {HeaterShaker, Thermocycler, TempDeck, MagDeck},
	OT3: {HeaterShaker, Thermocycler, TempDeck},
}

// ParseHardware maps an input string onto a known hardware kind.
func ParseHardware(s string) (Hardware, bool) {
	h := Hardware(s)
	_, ok := hardwareLevels[h]
	return h, ok
}

// ParseLevel maps an input string onto an emulation level.
func ParseLevel(s string) (Level, bool) {
	switch Level(s) {
	case LevelFirmware, LevelHardware:
		return Level(s), true
	}
	return "", false
}

// ParseSourceType maps an input string onto a source type.
func ParseSourceType(s string) (SourceType, bool) {
	switch SourceType(s) {
	case Local, Remote:
		return SourceType(s), true
	}
	return "", false
}

// HardwareKinds returns every known hardware kind, robots first.
func HardwareKinds() []Hardware {
	return []Hardware{OT2, OT3, HeaterShaker, Thermocycler, TempDeck, MagDeck}
}

func (h Hardware) IsRobot() bool { return h == OT2 || h == OT3 }

func (h Hardware) IsModule() bool {
	_, ok := proxyInfo[h]
	return ok
}

// Levels returns the emulation levels the hardware kind can run at.
func (h Hardware) Levels() []Level {
	levels, ok := hardwareLevels[h]
	if !ok {
		panic(fmt.Sprintf("settings: unknown hardware %q", h))
	}
	return slices.Clone(levels)
}

// Supports reports whether the hardware kind can run at the given level.
func (h Hardware) Supports(l Level) bool {
	return slices.Contains(hardwareLevels[h], l)
}

// ShortName is the prefix used for the hardware's image names.
func (h Hardware) ShortName() string {
	name, ok := shortNames[h]
	if !ok {
		panic(fmt.Sprintf("settings: unknown hardware %q", h))
	}
	return name
}

// SupportsModule reports whether a robot accepts a module kind.
func SupportsModule(robot, module Hardware) bool {
	return slices.Contains(modulesByRobot[robot], module)
}

// Subcomponent is one of the OT-3 firmware emulators.
type Subcomponent string

const (
	Head       Subcomponent = "head"
	GantryX    Subcomponent = "gantry-x"
	GantryY    Subcomponent = "gantry-y"
	Pipettes   Subcomponent = "pipettes"
	Gripper    Subcomponent = "gripper"
	Bootloader Subcomponent = "bootloader"
)

// Subcomponents returns the OT-3 firmware subcomponents in emission order.
func Subcomponents() []Subcomponent {
	return []Subcomponent{Head, GantryX, GantryY, Pipettes, Gripper, Bootloader}
}

// ParseSubcomponent maps an input string onto a subcomponent.
func ParseSubcomponent(s string) (Subcomponent, bool) {
	sc := Subcomponent(s)
	return sc, slices.Contains(Subcomponents(), sc)
}

// ContainerName is the unprefixed service name, e.g. "ot3-head".
func (s Subcomponent) ContainerName() string { return "ot3-" + string(s) }

// Image is the fixed image the subcomponent runs.
func (s Subcomponent) Image() string { return "ot3-" + string(s) + "-hardware" }

// ExecutableVolume is the named volume the firmware builder fills for the subcomponent.
func (s Subcomponent) ExecutableVolume() string { return "ot3-" + string(s) + "-executable" }

package settings

import "fmt"

// ProxyInfo is how the emulator proxy exposes one module kind.
type ProxyInfo struct {
	EnvVar       string
	EmulatorPort int
	DriverPort   int
}

// FirmwareSerial is the identity a firmware-level module emulator reports.
type FirmwareSerial struct {
	EnvVar  string
	Model   string
	Version string
}

var proxyInfo = map[Hardware]ProxyInfo{
	MagDeck:      {EnvVar: "OT_EMULATOR_magdeck_proxy", EmulatorPort: 10002, DriverPort: 11002},
	TempDeck:     {EnvVar: "OT_EMULATOR_tempdeck_proxy", EmulatorPort: 10003, DriverPort: 11003},
	HeaterShaker: {EnvVar: "OT_EMULATOR_heatershaker_proxy", EmulatorPort: 10004, DriverPort: 11004},
	Thermocycler: {EnvVar: "OT_EMULATOR_thermocycler_proxy", EmulatorPort: 10005, DriverPort: 11005},
}

var firmwareSerials = map[Hardware]FirmwareSerial{
	MagDeck:      {EnvVar: "OT_EMULATOR_magdeck", Model: "mag_deck_v20", Version: "2.0.0"},
	TempDeck:     {EnvVar: "OT_EMULATOR_tempdeck", Model: "temp_deck_v20", Version: "v2.0.1"},
	HeaterShaker: {EnvVar: "OT_EMULATOR_heatershaker", Model: "v01", Version: "v0.0.1"},
	Thermocycler: {EnvVar: "OT_EMULATOR_thermocycler", Model: "v02", Version: "v1.1.0"},
}

// ProxyInfoFor returns the proxy settings of a module kind.
func ProxyInfoFor(hw Hardware) ProxyInfo {
	info, ok := proxyInfo[hw]
	if !ok {
		panic(fmt.Sprintf("settings: %q is not a module", hw))
	}
	return info
}

// FirmwareSerialFor returns the firmware identity of a module kind, if it
// has a firmware-level emulator.
func FirmwareSerialFor(hw Hardware) (FirmwareSerial, bool) {
	fs, ok := firmwareSerials[hw]
	return fs, ok
}

// ModuleExecutableVolume is the named volume the modules builder fills for a
// hardware-level module kind.
func ModuleExecutableVolume(hw Hardware) string {
	return hw.ShortName() + "-executable"
}

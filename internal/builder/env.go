package builder

import (
	"encoding/json"
	"fmt"

	"github.com/vk/emucompose/internal/model"
	"github.com/vk/emucompose/internal/settings"
)

type moduleServer struct {
	Host string `json:"host"`
}

type proxySettings struct {
	EmulatorPort int `json:"emulator_port"`
	DriverPort   int `json:"driver_port"`
}

type serialSettings struct {
	SerialNumber string `json:"serial_number"`
	Model        string `json:"model"`
	Version      string `json:"version"`
}

func marshalString(v any) (string, error) {
	buf, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(buf), nil
}

// moduleServerEnv points the robot server at the emulator proxy.
func moduleServerEnv(proxy string) (string, error) {
	return marshalString(moduleServer{Host: proxy})
}

// proxyEnv is the proxy-info value of a module kind.
func proxyEnv(hw settings.Hardware) (string, error) {
	info := settings.ProxyInfoFor(hw)
	return marshalString(proxySettings{EmulatorPort: info.EmulatorPort, DriverPort: info.DriverPort})
}

// serialEnv is the identity a firmware-level module reports. The module's
// hardware-specific attributes follow the serial, model and version keys.
func serialEnv(m *model.Module, fs settings.FirmwareSerial) (string, error) {
	head, err := json.Marshal(serialSettings{SerialNumber: m.ID, Model: fs.Model, Version: fs.Version})
	if err != nil {
		return "", err
	}
	attrs := m.Attributes()
	if attrs == nil {
		return string(head), nil
	}
	tail, err := json.Marshal(attrs)
	if err != nil {
		return "", fmt.Errorf("failed to encode attributes of %s: %w", m.ID, err)
	}
	if len(tail) <= len("{}") {
		return string(head), nil
	}
	// Splice the two objects: drop head's closing brace and tail's opening one.
	return string(head[:len(head)-1]) + "," + string(tail[1:]), nil
}

package builder

import (
	"fmt"

	"github.com/vk/emucompose/internal/compose"
	"github.com/vk/emucompose/internal/model"
	"github.com/vk/emucompose/internal/settings"
)

func buildModule(in *Input, req Request) (*compose.Service, error) {
	m := req.Module
	if m == nil {
		return nil, fmt.Errorf("module request without a module")
	}
	image := settings.ImageFor(m.Hardware, m.Level, m.Source.Type())
	proxy := in.Names.Service(settings.EmulatorProxyName)

	svc := in.newService(req, image)
	svc.Build = in.build(image, m.Source)
	svc.Volumes = in.emulatorVolumes(m.Source)
	svc.DependsOn = []string{proxy}
	svc.Command = moduleArgs(m, proxy)

	env := compose.Env{}
	switch m.Level {
	case settings.LevelFirmware:
		fs, ok := settings.FirmwareSerialFor(m.Hardware)
		if !ok {
			return nil, fmt.Errorf("%s has no firmware emulator", m.Hardware)
		}
		serial, err := serialEnv(m, fs)
		if err != nil {
			return nil, err
		}
		env.Set(fs.EnvVar, serial)
		p, err := proxyEnv(m.Hardware)
		if err != nil {
			return nil, err
		}
		env.Set(settings.ProxyInfoFor(m.Hardware).EnvVar, p)
	case settings.LevelHardware:
		env.Set(settings.EnvSerialNumber, m.ID)
		svc.Volumes = append(svc.Volumes, compose.Mount{
			Source: settings.ModuleExecutableVolume(m.Hardware),
			Target: settings.ExecutablePath,
		}.String())
	}
	svc.Environment = env.Merge(m.Env)
	return svc, nil
}

// moduleArgs is how a module finds the emulator proxy on startup. A
// hardware-level heater-shaker talks over a socket unless it runs in stdin
// mode; every other module takes the bare proxy name.
func moduleArgs(m *model.Module, proxy string) string {
	if m.Hardware == settings.HeaterShaker && m.Level == settings.LevelHardware {
		if m.HeaterShaker != nil && m.HeaterShaker.Mode == model.ModeStdin {
			return ""
		}
		return fmt.Sprintf("--socket http://%s:%d", proxy, settings.ProxyInfoFor(m.Hardware).EmulatorPort)
	}
	return proxy
}

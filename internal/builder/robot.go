package builder

import (
	"fmt"
	"strconv"

	"github.com/vk/emucompose/internal/compose"
	"github.com/vk/emucompose/internal/pipette"
	"github.com/vk/emucompose/internal/settings"
)

func buildRobotServer(in *Input, req Request) (*compose.Service, error) {
	sys := in.System
	robot := &sys.Robot
	image := settings.ImageFor(robot.Hardware, robot.Level, robot.Source.Type())

	svc := in.newService(req, image)
	svc.Build = in.build(image, robot.Source)
	svc.Volumes = in.emulatorVolumes(robot.Source)
	svc.Ports = ports(compose.Port{Host: robot.ExposedPort, Container: settings.RobotServerPort})

	env := compose.Env{}
	if in.Proxy {
		proxy := in.Names.Service(settings.EmulatorProxyName)
		v, err := moduleServerEnv(proxy)
		if err != nil {
			return nil, err
		}
		env.Set(settings.EnvModuleServer, v)
		for _, hw := range sys.ModuleKinds() {
			v, err := proxyEnv(hw)
			if err != nil {
				return nil, err
			}
			env.Set(settings.ProxyInfoFor(hw).EnvVar, v)
		}
		svc.DependsOn = append(svc.DependsOn, proxy)
	}

	if sys.IsOT3() {
		canServer := in.Names.Service(settings.CANServerName)
		env.Set(settings.EnvOpentronsProject, settings.ProjectOT3).
			Set(settings.EnvOT3HardwareController, "true").
			Set(settings.EnvCANDriverInterface, settings.CANDriverInterface).
			Set(settings.EnvCANDriverHost, canServer).
			Set(settings.EnvCANDriverPort, strconv.Itoa(settings.CANServerPort))
		if err := in.pipetteDefinitions(env); err != nil {
			return nil, err
		}
		svc.DependsOn = append(svc.DependsOn, canServer, in.Names.Service(settings.StateManagerName))
	} else {
		smoothie := in.Names.Service(settings.SmoothieName)
		env.Set(settings.EnvSmoothieURI, fmt.Sprintf("socket://%s:%d", smoothie, settings.SmoothiePort))
		svc.DependsOn = append(svc.DependsOn, smoothie)
	}

	for _, m := range sys.Modules {
		svc.DependsOn = append(svc.DependsOn, in.Names.Service(m.ID))
	}

	svc.Environment = env.Merge(robot.RobotServerEnv).OrNil()
	return svc, nil
}

// pipetteDefinitions sets the definition of each mounted OT-3 pipette.
func (in *Input) pipetteDefinitions(env compose.Env) error {
	for _, sel := range in.System.Robot.Pipettes() {
		def, err := pipette.Definition(sel, in.Options.Now)
		if err != nil {
			return err
		}
		env.Set(pipette.DefinitionEnv(sel.Mount), def)
	}
	return nil
}

func buildSmoothie(in *Input, req Request) (*compose.Service, error) {
	sys := in.System
	svc := in.newService(req, settings.SmoothieImage)
	svc.Build = in.build(settings.SmoothieImage, sys.Monorepo)
	svc.Volumes = in.emulatorVolumes(sys.Monorepo)

	v, err := pipette.SmoothieEnv(sys.Robot.LeftPipette, sys.Robot.RightPipette)
	if err != nil {
		return nil, err
	}
	svc.Environment = compose.Env{settings.EnvSmoothie: v}
	return svc, nil
}

func buildCANServer(in *Input, req Request) (*compose.Service, error) {
	sys := in.System
	svc := in.newService(req, settings.CANServerImage)
	in.joinCAN(svc)
	svc.Build = in.build(settings.CANServerImage, sys.Monorepo)
	svc.Volumes = in.emulatorVolumes(sys.Monorepo)
	svc.Ports = ports(compose.Port{Host: sys.Robot.CANServerExposedPort, Container: settings.CANServerPort})
	svc.Environment = compose.Env{settings.EnvOpentronsProject: settings.ProjectOT3}.
		Merge(sys.Robot.CANServerEnv)
	return svc, nil
}

func buildEmulatorProxy(in *Input, req Request) (*compose.Service, error) {
	sys := in.System
	svc := in.newService(req, settings.EmulatorProxyImage)
	svc.Build = in.build(settings.EmulatorProxyImage, sys.Monorepo)
	svc.Volumes = in.emulatorVolumes(sys.Monorepo)

	env := compose.Env{}
	for _, hw := range sys.ModuleKinds() {
		v, err := proxyEnv(hw)
		if err != nil {
			return nil, err
		}
		env.Set(settings.ProxyInfoFor(hw).EnvVar, v)
	}
	svc.Environment = env.Merge(sys.Robot.EmulatorProxyEnv).OrNil()
	return svc, nil
}

func buildStateManager(in *Input, req Request) (*compose.Service, error) {
	sys := in.System
	if sys.OT3Firmware == nil {
		return nil, fmt.Errorf("the state manager needs the %s source", settings.OT3FirmwareSource)
	}
	svc := in.newService(req, settings.StateManagerImage)
	in.joinCAN(svc)
	svc.Build = in.build(settings.StateManagerImage, sys.Monorepo, *sys.OT3Firmware)
	svc.Volumes = append(in.emulatorVolumes(sys.Monorepo, *sys.OT3Firmware),
		compose.Mount{Source: settings.StateManagerDistVolume, Target: settings.StateManagerDistPath}.String(),
		compose.Mount{Source: settings.StateManagerVenvVolume, Target: settings.StateManagerVenvPath}.String(),
	)
	svc.Ports = ports(compose.Port{Host: sys.Robot.StateManagerExposedPort, Container: settings.StateManagerPort})
	svc.Environment = compose.Env{settings.EnvOpentronsProject: settings.ProjectOT3}.
		Merge(sys.Robot.StateManagerEnv)
	return svc, nil
}

func buildSubcomponent(in *Input, req Request) (*compose.Service, error) {
	sys := in.System
	if sys.OT3Firmware == nil {
		return nil, fmt.Errorf("%s needs the %s source", req.Subcomponent.ContainerName(), settings.OT3FirmwareSource)
	}
	sc := req.Subcomponent
	canServer := in.Names.Service(settings.CANServerName)

	svc := in.newService(req, sc.Image())
	in.joinCAN(svc)
	svc.Build = in.build(sc.Image(), *sys.OT3Firmware)
	svc.Volumes = append(in.emulatorVolumes(*sys.OT3Firmware),
		compose.Mount{Source: sc.ExecutableVolume(), Target: settings.ExecutablePath}.String())
	svc.DependsOn = []string{canServer}

	env := compose.Env{settings.EnvCANServerHost: canServer}
	if sc != settings.Bootloader {
		env.Set(settings.EnvStateManagerHost, in.Names.Service(settings.StateManagerName)).
			Set(settings.EnvStateManagerPort, strconv.Itoa(settings.StateManagerPort))
	}
	if sc == settings.Pipettes {
		env.Set(settings.EnvEEPROMFilename, settings.EEPROMFilename)
		if err := in.pipetteDefinitions(env); err != nil {
			return nil, err
		}
	}
	svc.Environment = env.Merge(sys.Robot.HardwareEnv[sc])
	return svc, nil
}

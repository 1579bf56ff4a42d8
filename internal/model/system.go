// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the validated entities produced by Build.
package model

import (
	"github.com/vk/emucompose/internal/pipette"
	"github.com/vk/emucompose/internal/settings"
	"github.com/vk/emucompose/internal/source"
)

// System is a validated configuration.
type System struct {
	UniqueID      string
	Monorepo      source.Source
	OT3Firmware   *source.Source
	ModulesSource *source.Source
	Robot         Robot
	Modules       []Module
	ExtraMounts   []ExtraMount
}

// IsOT3 reports whether the robot is an OT-3.
func (s *System) IsOT3() bool { return s.Robot.Hardware == settings.OT3 }

// HasModule reports whether a module of the given kind is attached.
func (s *System) HasModule(hw settings.Hardware) bool {
	for _, m := range s.Modules {
		if m.Hardware == hw {
			return true
		}
	}
	return false
}

// ModuleKinds returns the attached module kinds in catalog order, without repeats.
func (s *System) ModuleKinds() []settings.Hardware {
	var kinds []settings.Hardware
	for _, hw := range settings.HardwareKinds() {
		if hw.IsModule() && s.HasModule(hw) {
			kinds = append(kinds, hw)
		}
	}
	return kinds
}

// NeedsProxy reports whether the emulator proxy is emitted: some module talks
// through it or the robot is an OT-3.
func (s *System) NeedsProxy() bool { return len(s.Modules) > 0 || s.IsOT3() }

// Sidecars picks the local source each builder sidecar compiles. A sidecar is
// only emitted when some emitted service runs from a local checkout of its
// repository.
func (s *System) Sidecars() map[settings.SourceKind]source.Source {
	out := make(map[settings.SourceKind]source.Source)

	switch {
	case s.Monorepo.IsLocal():
		out[settings.MonorepoSource] = s.Monorepo
	case s.Robot.Source.IsLocal():
		out[settings.MonorepoSource] = s.Robot.Source
	}

	if s.IsOT3() && s.OT3Firmware != nil && s.OT3Firmware.IsLocal() {
		out[settings.OT3FirmwareSource] = *s.OT3Firmware
	}

	for _, m := range s.Modules {
		if m.Level == settings.LevelHardware && m.Source.IsLocal() {
			out[settings.ModulesSource] = m.Source
			break
		}
	}
	return out
}

// ServiceNames lists the emitted services by unprefixed name, in emission
// order. Extra mounts name their targets this way.
func (s *System) ServiceNames() []string {
	names := []string{s.Robot.ID}
	if s.IsOT3() {
		names = append(names, settings.CANServerName, settings.StateManagerName)
		for _, sc := range settings.Subcomponents() {
			names = append(names, sc.ContainerName())
		}
	} else {
		names = append(names, settings.SmoothieName)
	}
	if s.NeedsProxy() {
		names = append(names, settings.EmulatorProxyName)
	}
	for _, m := range s.Modules {
		names = append(names, m.ID)
	}
	sidecars := s.Sidecars()
	for _, sc := range []struct {
		kind settings.SourceKind
		name string
	}{
		{settings.MonorepoSource, settings.MonorepoBuilderName},
		{settings.OT3FirmwareSource, settings.FirmwareBuilderName},
		{settings.ModulesSource, settings.ModulesBuilderName},
	} {
		if _, ok := sidecars[sc.kind]; ok {
			names = append(names, sc.name)
		}
	}
	return names
}

// Robot is the validated robot.
type Robot struct {
	ID       string
	Hardware settings.Hardware
	Level    settings.Level
	// Source is what the robot server runs from: the robot's own source when
	// given, the monorepo source otherwise.
	Source source.Source

	ExposedPort             int
	CANServerExposedPort    int
	StateManagerExposedPort int

	LeftPipette  *pipette.Selection
	RightPipette *pipette.Selection

	RobotServerEnv   map[string]string
	EmulatorProxyEnv map[string]string
	CANServerEnv     map[string]string
	StateManagerEnv  map[string]string
	HardwareEnv      map[settings.Subcomponent]map[string]string
}

// Pipettes returns the mounted pipettes, left first.
func (r *Robot) Pipettes() []*pipette.Selection {
	var sels []*pipette.Selection
	for _, sel := range []*pipette.Selection{r.LeftPipette, r.RightPipette} {
		if sel != nil {
			sels = append(sels, sel)
		}
	}
	return sels
}

// Module is a validated module.
type Module struct {
	ID       string
	Hardware settings.Hardware
	Level    settings.Level
	// Source is the monorepo for firmware-level modules and the modules
	// repository for hardware-level ones.
	Source source.Source

	HeaterShaker *HeaterShakerAttributes
	Thermocycler *ThermocyclerAttributes
	TempDeck     *TempDeckAttributes

	Env map[string]string
}

// Attributes returns the typed hardware-specific attributes, or nil for
// hardware without any.
func (m *Module) Attributes() any {
	switch {
	case m.HeaterShaker != nil:
		return m.HeaterShaker
	case m.Thermocycler != nil:
		return m.Thermocycler
	case m.TempDeck != nil:
		return m.TempDeck
	}
	return nil
}

// ExtraMount is a validated extra bind mount.
type ExtraMount struct {
	Targets       []string
	HostPath      string
	ContainerPath string
}

// Bind is the docker bind string of the mount.
func (e ExtraMount) Bind() string {
	return e.HostPath + ":" + e.ContainerPath
}

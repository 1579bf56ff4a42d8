// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file decodes hardware-specific attributes. Input keys are kebab-case;
// the json tags are the names the module emulators read.
package model

import (
	"fmt"

	"github.com/vk/emucompose/internal/pipette"
	"github.com/vk/emucompose/internal/settings"
	"github.com/vk/emucompose/internal/validation"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// HeaterShakerMode is how the heater-shaker emulator talks to the proxy.
type HeaterShakerMode string

const (
	ModeSocket HeaterShakerMode = "socket"
	ModeStdin  HeaterShakerMode = "stdin"
)

// Temperature is a simulated temperature ramp.
type Temperature struct {
	DegreesPerTick float64 `json:"degrees_per_tick"`
	Starting       float64 `json:"starting"`
}

// RPM is a simulated shaker speed ramp.
type RPM struct {
	RPMPerTick float64 `json:"rpm_per_tick"`
	Starting   float64 `json:"starting"`
}

type HeaterShakerAttributes struct {
	Mode        HeaterShakerMode `json:"mode"`
	Temperature Temperature      `json:"temperature"`
	RPM         RPM              `json:"rpm"`
}

type ThermocyclerAttributes struct {
	LidTemperature   Temperature `json:"lid_temperature"`
	PlateTemperature Temperature `json:"plate_temperature"`
}

type TempDeckAttributes struct {
	Temperature Temperature `json:"temperature"`
}

var (
	defaultTemperature = Temperature{DegreesPerTick: 2.0, Starting: 23.0}
	defaultRPM         = RPM{RPMPerTick: 100.0, Starting: 0.0}
)

type rawTemperature struct {
	DegreesPerTick *float64 `cty:"degrees-per-tick"`
	Starting       *float64 `cty:"starting"`
}

func (r *rawTemperature) resolve() Temperature {
	t := defaultTemperature
	if r == nil {
		return t
	}
	if r.DegreesPerTick != nil {
		t.DegreesPerTick = *r.DegreesPerTick
	}
	if r.Starting != nil {
		t.Starting = *r.Starting
	}
	return t
}

type rawRPM struct {
	RPMPerTick *float64 `cty:"rpm-per-tick"`
	Starting   *float64 `cty:"starting"`
}

func (r *rawRPM) resolve() RPM {
	rpm := defaultRPM
	if r == nil {
		return rpm
	}
	if r.RPMPerTick != nil {
		rpm.RPMPerTick = *r.RPMPerTick
	}
	if r.Starting != nil {
		rpm.Starting = *r.Starting
	}
	return rpm
}

type rawHeaterShaker struct {
	Mode        *string         `cty:"mode"`
	Temperature *rawTemperature `cty:"temperature"`
	RPM         *rawRPM         `cty:"rpm"`
}

type rawThermocycler struct {
	LidTemperature   *rawTemperature `cty:"lid-temperature"`
	PlateTemperature *rawTemperature `cty:"plate-temperature"`
}

type rawTempDeck struct {
	Temperature *rawTemperature `cty:"temperature"`
}

type rawRobot struct {
	LeftPipette  *cty.Value `cty:"left-pipette"`
	RightPipette *cty.Value `cty:"right-pipette"`
}

// decodeAttributes decodes v into target, a pointer to one of the raw structs.
// A null v leaves target untouched.
func decodeAttributes(field string, v cty.Value, target any) error {
	if v.IsNull() {
		return nil
	}
	if !v.Type().IsObjectType() && !v.Type().IsMapType() {
		return validation.Errorf(validation.InputShape, field, "must be an object, got %s", v.Type().FriendlyName())
	}
	if err := gocty.FromCtyValue(v, target); err != nil {
		return validation.Errorf(validation.InputShape, field, "%s", describeCtyError(err))
	}
	return nil
}

// describeCtyError prefixes cty path errors with the offending attribute path.
func describeCtyError(err error) string {
	pathErr, ok := err.(cty.PathError)
	if !ok || len(pathErr.Path) == 0 {
		return err.Error()
	}
	var path string
	for _, step := range pathErr.Path {
		if attr, ok := step.(cty.GetAttrStep); ok {
			if path != "" {
				path += "."
			}
			path += attr.Name
		}
	}
	if path == "" {
		return err.Error()
	}
	return fmt.Sprintf("%s: %v", path, pathErr.Error())
}

// moduleAttributes decodes and defaults the attributes of a module.
func moduleAttributes(field string, hw settings.Hardware, v cty.Value, m *Module) error {
	switch hw {
	case settings.HeaterShaker:
		var raw rawHeaterShaker
		if err := decodeAttributes(field, v, &raw); err != nil {
			return err
		}
		attrs := &HeaterShakerAttributes{
			Mode:        ModeSocket,
			Temperature: raw.Temperature.resolve(),
			RPM:         raw.RPM.resolve(),
		}
		if raw.Mode != nil {
			switch mode := HeaterShakerMode(*raw.Mode); mode {
			case ModeSocket, ModeStdin:
				attrs.Mode = mode
			default:
				return validation.Errorf(validation.InputShape, field+".mode", "must be %q or %q, got %q", ModeSocket, ModeStdin, *raw.Mode)
			}
		}
		m.HeaterShaker = attrs
	case settings.Thermocycler:
		var raw rawThermocycler
		if err := decodeAttributes(field, v, &raw); err != nil {
			return err
		}
		m.Thermocycler = &ThermocyclerAttributes{
			LidTemperature:   raw.LidTemperature.resolve(),
			PlateTemperature: raw.PlateTemperature.resolve(),
		}
	case settings.TempDeck:
		var raw rawTempDeck
		if err := decodeAttributes(field, v, &raw); err != nil {
			return err
		}
		m.TempDeck = &TempDeckAttributes{Temperature: raw.Temperature.resolve()}
	default:
		if !v.IsNull() && v.LengthInt() > 0 {
			return validation.Errorf(validation.InputShape, field, "%s has no hardware-specific attributes", hw)
		}
	}
	return nil
}

// robotAttributes decodes the pipettes of a robot.
func robotAttributes(field string, hw settings.Hardware, v cty.Value, r *Robot) error {
	var raw rawRobot
	if err := decodeAttributes(field, v, &raw); err != nil {
		return err
	}

	var report validation.Report
	left, err := pipette.Parse(field+".left-pipette", hw, pipette.Left, valueOrNull(raw.LeftPipette))
	report.Add(err)
	right, err := pipette.Parse(field+".right-pipette", hw, pipette.Right, valueOrNull(raw.RightPipette))
	report.Add(err)
	if report.Len() == 0 {
		report.Add(pipette.CheckMounts(field, left, right))
	}
	r.LeftPipette, r.RightPipette = left, right
	return report.Err()
}

func valueOrNull(v *cty.Value) cty.Value {
	if v == nil {
		return cty.NullVal(cty.DynamicPseudoType)
	}
	return *v
}

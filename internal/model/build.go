// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file validates a raw document and builds the System from it.
package model

import (
	"context"
	"fmt"
	"path"
	"regexp"
	"slices"
	"strings"

	"github.com/samber/lo"
	"github.com/vk/emucompose/internal/config"
	"github.com/vk/emucompose/internal/ctxlog"
	"github.com/vk/emucompose/internal/fsutil"
	"github.com/vk/emucompose/internal/settings"
	"github.com/vk/emucompose/internal/source"
	"github.com/vk/emucompose/internal/validation"
)

var identifier = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?$`)

const (
	minPort = 1
	maxPort = 65535
)

// builder accumulates violations while walking a document.
type builder struct {
	checker fsutil.PathChecker
	report  validation.Report
}

// Build validates doc and returns the System it describes. Every violation
// found is returned in a single *validation.ReportError.
func Build(ctx context.Context, doc *config.Document, checker fsutil.PathChecker) (*System, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Building system model.")

	if doc == nil {
		return nil, validation.Errorf(validation.InputShape, "", "document is empty")
	}

	b := &builder{checker: checker}
	b.report.Add(doc.LoadErrors)
	sys := &System{UniqueID: doc.SystemUniqueID}

	if sys.UniqueID != "" {
		b.checkIdentifier("system-unique-id", sys.UniqueID)
	}

	monorepo, ok := b.topLevelSource("monorepo-source", settings.MonorepoSource, doc.MonorepoSource)
	if ok {
		sys.Monorepo = *monorepo
	} else if doc.MonorepoSource == nil {
		b.report.Addf(validation.InputShape, "monorepo-source", "is required")
	}
	sys.OT3Firmware, _ = b.topLevelSource("ot3-firmware-source", settings.OT3FirmwareSource, doc.OT3FirmwareSource)
	sys.ModulesSource, _ = b.topLevelSource("opentrons-modules-source", settings.ModulesSource, doc.OpentronsModulesSource)

	// robot is nil only when its hardware did not resolve. An invalid robot
	// still takes part in the cross-entity checks below.
	robot := b.robot(doc.Robot, monorepo)
	if robot != nil {
		sys.Robot = *robot
	}
	if robot != nil && robot.Hardware == settings.OT3 && doc.OT3FirmwareSource == nil {
		b.report.Addf(validation.Invariant, "ot3-firmware-source", "is required when the robot is %s", settings.OT3)
	}

	var moduleFields []string
	for i, raw := range doc.Modules {
		field := fmt.Sprintf("modules[%d]", i)
		if raw == nil {
			b.report.Addf(validation.InputShape, field, "module entry is empty")
			continue
		}
		if m, ok := b.module(field, raw, sys, robot != nil); ok {
			sys.Modules = append(sys.Modules, *m)
			moduleFields = append(moduleFields, field)
		}
	}

	b.checkUniqueIDs(doc)
	b.checkModulesCheckout(sys, moduleFields)

	for i, raw := range doc.ExtraMounts {
		field := fmt.Sprintf("extra-mounts[%d]", i)
		if raw == nil {
			b.report.Addf(validation.InputShape, field, "extra mount entry is empty")
			continue
		}
		if em, ok := b.extraMount(field, raw); ok {
			sys.ExtraMounts = append(sys.ExtraMounts, em)
		}
	}

	if robot != nil {
		b.checkExtraMountTargets(doc, sys)
	}

	if err := b.report.Err(); err != nil {
		logger.Debug("System model is invalid.", "violations", b.report.Len())
		return nil, err
	}
	logger.Debug("System model built.", "robot", sys.Robot.ID, "modules", len(sys.Modules))
	return sys, nil
}

// topLevelSource parses one of the three document-level sources. It returns
// false when ref is absent or invalid.
func (b *builder) topLevelSource(field string, kind settings.SourceKind, ref *config.SourceRef) (*source.Source, bool) {
	if ref == nil {
		return nil, false
	}
	st, ok := b.sourceType(field+".source-type", ref.Type)
	if !ok {
		return nil, false
	}
	return b.parseSource(field, kind, st, ref.Location)
}

func (b *builder) sourceType(field, raw string) (settings.SourceType, bool) {
	if raw == "" {
		return "", true
	}
	st, ok := settings.ParseSourceType(raw)
	if !ok {
		b.report.Addf(validation.InputShape, field, "must be %q or %q, got %q", settings.Local, settings.Remote, raw)
	}
	return st, ok
}

func (b *builder) parseSource(field string, kind settings.SourceKind, st settings.SourceType, raw string) (*source.Source, bool) {
	src, err := source.Parse(field, kind, st, raw)
	if err != nil {
		b.report.Add(err)
		return nil, false
	}
	if err := src.Validate(field, b.checker); err != nil {
		b.report.Add(err)
		return nil, false
	}
	return &src, true
}

func (b *builder) checkIdentifier(field, id string) {
	switch {
	case id == "":
		b.report.Addf(validation.InputShape, field, "is required")
	case !identifier.MatchString(id):
		b.report.Addf(validation.Invariant, field, "%q must be lowercase letters, digits and dashes, starting and ending with a letter or digit", id)
	case settings.IsReserved(id):
		b.report.Addf(validation.Invariant, field, "%q is a reserved container name", id)
	}
}

// hardwareAndLevel resolves the hardware kind and emulation level of an entry.
func (b *builder) hardwareAndLevel(field, rawHW, rawLevel string, wantRobot bool) (settings.Hardware, settings.Level, bool) {
	hw, ok := settings.ParseHardware(rawHW)
	switch {
	case rawHW == "":
		b.report.Addf(validation.InputShape, field+".hardware", "is required")
		return "", "", false
	case !ok || hw.IsRobot() != wantRobot:
		want := "module"
		if wantRobot {
			want = "robot"
		}
		b.report.Addf(validation.InputShape, field+".hardware", "%q is not a known %s", rawHW, want)
		return "", "", false
	}

	if rawLevel == "" {
		b.report.Addf(validation.InputShape, field+".emulation-level", "is required")
		return hw, "", false
	}
	level, ok := settings.ParseLevel(rawLevel)
	if !ok {
		b.report.Addf(validation.InputShape, field+".emulation-level", "must be %q or %q, got %q", settings.LevelFirmware, settings.LevelHardware, rawLevel)
		return hw, "", false
	}
	if !hw.Supports(level) {
		b.report.Addf(validation.EmulationLevelNotSupported, field+".emulation-level", "%s cannot be emulated at %s level, supported: %v", hw, level, hw.Levels())
		return hw, level, false
	}
	return hw, level, true
}

func (b *builder) port(field string, p *int, def int) int {
	if p == nil {
		return def
	}
	if *p < minPort || *p > maxPort {
		b.report.Addf(validation.InputShape, field, "port %d is outside %d-%d", *p, minPort, maxPort)
		return def
	}
	return *p
}

// robot validates the robot entry. It returns nil when the hardware kind or
// emulation level cannot be resolved, and the robot otherwise, even if other
// keys were invalid.
func (b *builder) robot(raw *config.Robot, monorepo *source.Source) *Robot {
	if raw == nil {
		b.report.Addf(validation.InputShape, "robot", "is required")
		return nil
	}

	b.checkIdentifier("robot.id", raw.ID)
	hw, level, ok := b.hardwareAndLevel("robot", raw.Hardware, raw.EmulationLevel, true)
	if !ok {
		return nil
	}

	r := &Robot{
		ID:               raw.ID,
		Hardware:         hw,
		Level:            level,
		ExposedPort:      b.port("robot.exposed-port", raw.ExposedPort, settings.RobotServerPort),
		RobotServerEnv:   raw.RobotServerEnvVars,
		EmulatorProxyEnv: raw.EmulatorProxyEnvVars,
		CANServerEnv:     raw.CANServerEnvVars,
		StateManagerEnv:  raw.StateManagerEnvVars,
	}

	switch {
	case raw.SourceLocation != "":
		st, ok := b.sourceType("robot.source-type", raw.SourceType)
		if ok {
			if src, ok := b.parseSource("robot.source-location", settings.MonorepoSource, st, raw.SourceLocation); ok {
				r.Source = *src
			}
		}
	case raw.SourceType != "":
		b.report.Addf(validation.InputShape, "robot.source-type", "source-type needs a source-location")
	case monorepo != nil:
		r.Source = *monorepo
	}

	if hw == settings.OT3 {
		if raw.CANServerExposedPort != nil {
			r.CANServerExposedPort = b.port("robot.can-server-exposed-port", raw.CANServerExposedPort, 0)
		}
		r.StateManagerExposedPort = b.port("robot.ot3-state-manager-exposed-port", raw.StateManagerExposedPort, settings.StateManagerPort)
		r.HardwareEnv = b.hardwareEnv(raw.HardwareEnvVars)
	} else {
		b.rejectOT3Only(raw)
	}

	b.report.Add(robotAttributes("robot.hardware-specific-attributes", hw, raw.HardwareSpecificAttributes.Value, r))

	return r
}

// rejectOT3Only reports keys that only make sense on an OT-3.
func (b *builder) rejectOT3Only(raw *config.Robot) {
	keys := []struct {
		name string
		set  bool
	}{
		{"can-server-exposed-port", raw.CANServerExposedPort != nil},
		{"ot3-state-manager-exposed-port", raw.StateManagerExposedPort != nil},
		{"can-server-env-vars", raw.CANServerEnvVars != nil},
		{"ot3-state-manager-env-vars", raw.StateManagerEnvVars != nil},
		{"hardware-env-vars", raw.HardwareEnvVars != nil},
	}
	for _, key := range keys {
		if key.set {
			b.report.Addf(validation.Invariant, "robot."+key.name, "only applies to %s robots", settings.OT3)
		}
	}
}

func (b *builder) hardwareEnv(raw map[string]map[string]string) map[settings.Subcomponent]map[string]string {
	if raw == nil {
		return nil
	}
	env := make(map[settings.Subcomponent]map[string]string, len(raw))
	names := lo.Keys(raw)
	slices.Sort(names)
	for _, name := range names {
		sc, ok := settings.ParseSubcomponent(name)
		if !ok {
			b.report.Addf(validation.InputShape, "robot.hardware-env-vars."+name, "%q is not an %s firmware subcomponent, expected one of %v", name, settings.OT3, settings.Subcomponents())
			continue
		}
		env[sc] = raw[name]
	}
	return env
}

func (b *builder) module(field string, raw *config.Module, sys *System, hasRobot bool) (*Module, bool) {
	before := b.report.Len()

	b.checkIdentifier(field+".id", raw.ID)
	hw, level, ok := b.hardwareAndLevel(field, raw.Hardware, raw.EmulationLevel, false)
	if !ok {
		return nil, false
	}
	if hasRobot && !settings.SupportsModule(sys.Robot.Hardware, hw) {
		b.report.Addf(validation.Invariant, field+".hardware", "%s is not supported on %s robots", hw, sys.Robot.Hardware)
	}

	m := &Module{ID: raw.ID, Hardware: hw, Level: level, Env: raw.ModuleEnvVars}

	switch level {
	case settings.LevelFirmware:
		if raw.SourceType != "" || raw.SourceLocation != "" {
			b.report.Addf(validation.Invariant, field+".source-location", "firmware level modules run from the monorepo source and take no source of their own")
		}
		m.Source = sys.Monorepo
	case settings.LevelHardware:
		switch {
		case raw.SourceLocation != "":
			if st, ok := b.sourceType(field+".source-type", raw.SourceType); ok {
				if src, ok := b.parseSource(field+".source-location", settings.ModulesSource, st, raw.SourceLocation); ok {
					m.Source = *src
				}
			}
		case raw.SourceType != "":
			b.report.Addf(validation.InputShape, field+".source-type", "source-type needs a source-location")
		case sys.ModulesSource != nil:
			m.Source = *sys.ModulesSource
		default:
			b.report.Addf(validation.Invariant, field+".source-location", "hardware level modules need opentrons-modules-source or a source-location of their own")
		}
	}

	b.report.Add(moduleAttributes(field+".hardware-specific-attributes", hw, raw.HardwareSpecificAttributes.Value, m))

	return m, b.report.Len() == before
}

// checkUniqueIDs reports identifiers used more than once across the robot
// and the modules.
func (b *builder) checkUniqueIDs(doc *config.Document) {
	var ids []string
	if doc.Robot != nil && doc.Robot.ID != "" {
		ids = append(ids, doc.Robot.ID)
	}
	for _, m := range doc.Modules {
		if m != nil && m.ID != "" {
			ids = append(ids, m.ID)
		}
	}
	for _, dup := range lo.FindDuplicates(ids) {
		b.report.Addf(validation.Invariant, "id", "%q is used by more than one container", dup)
	}
}

// checkModulesCheckout reports hardware-level modules that would need a
// second opentrons-modules build. Once one of them runs from a local checkout,
// all of them run from that checkout.
func (b *builder) checkModulesCheckout(sys *System, fields []string) {
	local, ok := sys.Sidecars()[settings.ModulesSource]
	if !ok {
		return
	}
	for i, m := range sys.Modules {
		if m.Level == settings.LevelHardware && m.Source != local {
			b.report.Addf(validation.Invariant, fields[i]+".source-location",
				"%s runs from %s, but hardware level modules share one opentrons-modules build from %s", m.ID, m.Source, local)
		}
	}
}

// checkExtraMountTargets reports extra mounts naming containers the system
// does not emit. Modules that failed validation still count as emitted, so a
// broken module is reported once.
func (b *builder) checkExtraMountTargets(doc *config.Document, sys *System) {
	known := sys.ServiceNames()
	for _, raw := range doc.Modules {
		if raw != nil && raw.ID != "" && !slices.Contains(known, raw.ID) {
			known = append(known, raw.ID)
		}
	}
	for i, raw := range doc.ExtraMounts {
		if raw == nil {
			continue
		}
		unknown := lo.Without(lo.Uniq(raw.ContainerNames), append(known, "")...)
		if len(unknown) > 0 {
			b.report.Addf(validation.Invariant, fmt.Sprintf("extra-mounts[%d].container-names", i),
				"no such container: %s (known: %s)", strings.Join(unknown, ", "), strings.Join(sys.ServiceNames(), ", "))
		}
	}
}

func (b *builder) extraMount(field string, raw *config.ExtraMount) (ExtraMount, bool) {
	before := b.report.Len()
	if len(raw.ContainerNames) == 0 {
		b.report.Addf(validation.InputShape, field+".container-names", "at least one container name is required")
	}
	for i, name := range raw.ContainerNames {
		if name == "" {
			b.report.Addf(validation.InputShape, fmt.Sprintf("%s.container-names[%d]", field, i), "must not be empty")
		}
	}
	switch {
	case raw.HostPath == "":
		b.report.Addf(validation.InputShape, field+".host-path", "is required")
	case !b.checker.Exists(raw.HostPath):
		b.report.Addf(validation.LocalPathMissing, field+".host-path", "%q does not exist", raw.HostPath)
	}
	if !path.IsAbs(raw.ContainerPath) {
		b.report.Addf(validation.InputShape, field+".container-path", "%q must be an absolute path", raw.ContainerPath)
	}
	em := ExtraMount{
		Targets:       lo.Uniq(raw.ContainerNames),
		HostPath:      raw.HostPath,
		ContainerPath: raw.ContainerPath,
	}
	return em, b.report.Len() == before
}

// This file contains the logic for translating decoded HCL blocks into the
// format-agnostic document defined in the config package.

package hclconf

import (
	"context"
	"fmt"

	"github.com/vk/emucompose/internal/config"
	"github.com/vk/emucompose/internal/ctxlog"
	"github.com/vk/emucompose/internal/validation"
	"github.com/zclconf/go-cty/cty"
)

// translate merges the decoded files into one document. Top-level attributes
// may be set by one file only.
func (l *Loader) translate(ctx context.Context, roots []*fileRoot) (*config.Document, error) {
	logger := ctxlog.FromContext(ctx)
	doc := &config.Document{}
	var report validation.Report

	var robots []*robotBlock
	for _, root := range roots {
		if root.SystemUniqueID != nil {
			if doc.SystemUniqueID != "" {
				report.Addf(validation.InputShape, "system-unique-id", "set in more than one file")
			}
			doc.SystemUniqueID = *root.SystemUniqueID
		}
		mergeSource(&report, "monorepo-source", &doc.MonorepoSource, root.MonorepoSource)
		mergeSource(&report, "ot3-firmware-source", &doc.OT3FirmwareSource, root.OT3FirmwareSource)
		mergeSource(&report, "opentrons-modules-source", &doc.OpentronsModulesSource, root.OpentronsModulesSource)

		robots = append(robots, root.Robots...)
		for _, m := range root.Modules {
			doc.Modules = append(doc.Modules, translateModule(m))
		}
		for _, em := range root.ExtraMounts {
			doc.ExtraMounts = append(doc.ExtraMounts, &config.ExtraMount{
				ContainerNames: em.ContainerNames,
				HostPath:       em.HostPath,
				ContainerPath:  em.ContainerPath,
			})
		}
	}

	switch len(robots) {
	case 0:
	case 1:
		doc.Robot = translateRobot(robots[0])
	default:
		report.Addf(validation.Invariant, "robot", "exactly one robot is allowed, found %d", len(robots))
	}

	if err := report.Err(); err != nil {
		return nil, err
	}
	logger.Debug("HCL loading complete.", "files", len(roots), "modules", len(doc.Modules), "extra_mounts", len(doc.ExtraMounts))
	return doc, nil
}

func mergeSource(report *validation.Report, field string, dst **config.SourceRef, v cty.Value) {
	if v.IsNull() {
		return
	}
	if *dst != nil {
		report.Addf(validation.InputShape, field, "set in more than one file")
		return
	}
	ref, err := sourceRef(v)
	if err != nil {
		report.Add(validation.Errorf(validation.InputShape, field, "%v", err))
		return
	}
	*dst = ref
}

// sourceRef accepts a string or an object with source-type and source-location.
func sourceRef(v cty.Value) (*config.SourceRef, error) {
	ty := v.Type()
	switch {
	case ty.Equals(cty.String):
		return &config.SourceRef{Location: v.AsString()}, nil
	case ty.IsObjectType():
		ref := &config.SourceRef{}
		for name := range ty.AttributeTypes() {
			attr := v.GetAttr(name)
			if !attr.Type().Equals(cty.String) || attr.IsNull() {
				return nil, fmt.Errorf("%s must be a string", name)
			}
			switch name {
			case "source-type":
				ref.Type = attr.AsString()
			case "source-location":
				ref.Location = attr.AsString()
			default:
				return nil, fmt.Errorf("unsupported attribute %q", name)
			}
		}
		return ref, nil
	}
	return nil, fmt.Errorf("source location must be a string or an object, got %s", ty.FriendlyName())
}

func translateRobot(r *robotBlock) *config.Robot {
	return &config.Robot{
		ID:                         r.ID,
		Hardware:                   r.Hardware,
		EmulationLevel:             r.EmulationLevel,
		SourceType:                 deref(r.SourceType),
		SourceLocation:             deref(r.SourceLocation),
		ExposedPort:                r.ExposedPort,
		CANServerExposedPort:       r.CANServerExposedPort,
		StateManagerExposedPort:    r.StateManagerExposedPort,
		HardwareSpecificAttributes: config.Attributes{Value: r.HardwareSpecificAttributes},
		RobotServerEnvVars:         r.RobotServerEnvVars,
		EmulatorProxyEnvVars:       r.EmulatorProxyEnvVars,
		CANServerEnvVars:           r.CANServerEnvVars,
		StateManagerEnvVars:        r.StateManagerEnvVars,
		HardwareEnvVars:            r.HardwareEnvVars,
	}
}

func translateModule(m *moduleBlock) *config.Module {
	return &config.Module{
		ID:                         m.ID,
		Hardware:                   m.Hardware,
		EmulationLevel:             m.EmulationLevel,
		SourceType:                 deref(m.SourceType),
		SourceLocation:             deref(m.SourceLocation),
		HardwareSpecificAttributes: config.Attributes{Value: m.HardwareSpecificAttributes},
		ModuleEnvVars:              m.ModuleEnvVars,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

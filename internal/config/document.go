package config

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
	"gopkg.in/yaml.v3"
)

// Document is the raw input document. Keys are kebab-case as written.
type Document struct {
	SystemUniqueID         string        `yaml:"system-unique-id,omitempty"`
	MonorepoSource         *SourceRef    `yaml:"monorepo-source,omitempty"`
	OT3FirmwareSource      *SourceRef    `yaml:"ot3-firmware-source,omitempty"`
	OpentronsModulesSource *SourceRef    `yaml:"opentrons-modules-source,omitempty"`
	Robot                  *Robot        `yaml:"robot,omitempty"`
	Modules                []*Module     `yaml:"modules,omitempty"`
	ExtraMounts            []*ExtraMount `yaml:"extra-mounts,omitempty"`

	// LoadErrors holds the violations a loader recovered from while decoding
	// the rest of the document. Validation reports them with its own.
	LoadErrors error `yaml:"-"`
}

// SourceRef is a source-location, written either as a bare string or as an
// object with source-type and source-location keys.
type SourceRef struct {
	Type     string `yaml:"source-type,omitempty"`
	Location string `yaml:"source-location"`
}

// sourceRefFields lets UnmarshalYAML decode the mapping form strictly without recursing.
type sourceRefFields SourceRef

// UnmarshalYAML accepts both the scalar and the mapping form.
func (s *SourceRef) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		*s = SourceRef{Location: value.Value}
		return nil
	case yaml.MappingNode:
		var fields sourceRefFields
		if err := value.Decode(&fields); err != nil {
			return err
		}
		*s = SourceRef(fields)
		return unknownKeys(value, "source-type", "source-location")
	}
	return typeError("line %d: source location must be a string or a mapping", value.Line)
}

// Robot is the raw robot entry.
type Robot struct {
	ID                      string `yaml:"id"`
	Hardware                string `yaml:"hardware"`
	EmulationLevel          string `yaml:"emulation-level"`
	SourceType              string `yaml:"source-type,omitempty"`
	SourceLocation          string `yaml:"source-location,omitempty"`
	ExposedPort             *int   `yaml:"exposed-port,omitempty"`
	CANServerExposedPort    *int   `yaml:"can-server-exposed-port,omitempty"`
	StateManagerExposedPort *int   `yaml:"ot3-state-manager-exposed-port,omitempty"`

	HardwareSpecificAttributes Attributes `yaml:"hardware-specific-attributes,omitempty"`

	RobotServerEnvVars   map[string]string            `yaml:"robot-server-env-vars,omitempty"`
	EmulatorProxyEnvVars map[string]string            `yaml:"emulator-proxy-env-vars,omitempty"`
	CANServerEnvVars     map[string]string            `yaml:"can-server-env-vars,omitempty"`
	StateManagerEnvVars  map[string]string            `yaml:"ot3-state-manager-env-vars,omitempty"`
	HardwareEnvVars      map[string]map[string]string `yaml:"hardware-env-vars,omitempty"`
}

// Module is a raw module entry.
type Module struct {
	ID             string `yaml:"id"`
	Hardware       string `yaml:"hardware"`
	EmulationLevel string `yaml:"emulation-level"`
	SourceType     string `yaml:"source-type,omitempty"`
	SourceLocation string `yaml:"source-location,omitempty"`

	HardwareSpecificAttributes Attributes `yaml:"hardware-specific-attributes,omitempty"`

	ModuleEnvVars map[string]string `yaml:"module-env-vars,omitempty"`
}

// ExtraMount is a raw extra bind mount.
type ExtraMount struct {
	ContainerNames []string `yaml:"container-names"`
	HostPath       string   `yaml:"host-path"`
	ContainerPath  string   `yaml:"container-path"`
}

// Attributes holds hardware-specific attributes as a dynamic value. The
// meaning of the keys depends on the hardware kind, so decoding into typed
// attributes happens during validation.
type Attributes struct {
	Value cty.Value
}

// IsZero reports whether no attributes were given.
func (a Attributes) IsZero() bool {
	return a.Value.IsNull()
}

// UnmarshalYAML converts the YAML mapping into a cty object.
func (a *Attributes) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		if value.Tag == "!!null" {
			return nil
		}
		return typeError("line %d: hardware-specific-attributes must be a mapping", value.Line)
	}
	var raw map[string]any
	if err := value.Decode(&raw); err != nil {
		return err
	}
	v, err := ValueFromGo(raw)
	if err != nil {
		return typeError("line %d: hardware-specific-attributes: %v", value.Line, err)
	}
	a.Value = v
	return nil
}

// ValueFromGo converts decoded document data (maps, slices and scalars) into a cty value.
func ValueFromGo(raw any) (cty.Value, error) {
	buf, err := json.Marshal(raw)
	if err != nil {
		return cty.NilVal, err
	}
	ty, err := ctyjson.ImpliedType(buf)
	if err != nil {
		return cty.NilVal, err
	}
	return ctyjson.Unmarshal(buf, ty)
}

// typeError reports a value the decoder can skip. yaml.v3 keeps decoding the
// rest of the document after a *yaml.TypeError and fails on anything else.
func typeError(format string, args ...any) error {
	return &yaml.TypeError{Errors: []string{fmt.Sprintf(format, args...)}}
}

// unknownKeys returns a *yaml.TypeError naming every key of node that is not
// in allowed, or nil.
func unknownKeys(node *yaml.Node, allowed ...string) error {
	var msgs []string
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i]
		if !slices.Contains(allowed, key.Value) {
			msgs = append(msgs, fmt.Sprintf("line %d: field %s not found", key.Line, key.Value))
		}
	}
	if len(msgs) == 0 {
		return nil
	}
	return &yaml.TypeError{Errors: msgs}
}

package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vk/emucompose/internal/validation"
	"gopkg.in/yaml.v3"
)

// Substitution replaces one field of the robot or a module, addressed by id,
// before the document is validated. CI uses it to point a shared
// configuration at the ref under test.
type Substitution struct {
	ServiceID string
	Field     string
	Value     string
}

// ParseSubstitution parses the "ID,FIELD,VALUE" form. VALUE may contain commas.
func ParseSubstitution(s string) (Substitution, error) {
	parts := strings.SplitN(s, ",", 3)
	if len(parts) != 3 {
		return Substitution{}, fmt.Errorf("substitution %q must have the form ID,FIELD,VALUE", s)
	}
	return Substitution{
		ServiceID: strings.TrimSpace(parts[0]),
		Field:     strings.TrimSpace(parts[1]),
		Value:     strings.TrimSpace(parts[2]),
	}, nil
}

// ParseSubstitutionList parses a JSON array of [id, field, value] triples.
func ParseSubstitutionList(s string) ([]Substitution, error) {
	// Some CI systems leave literal "\n" sequences in multi-line arguments.
	s = strings.ReplaceAll(s, `\n`, "")

	var triples [][]string
	if err := yaml.Unmarshal([]byte(s), &triples); err != nil {
		return nil, fmt.Errorf("failed to parse substitution list: %w", err)
	}
	subs := make([]Substitution, 0, len(triples))
	for i, triple := range triples {
		if len(triple) != 3 {
			return nil, fmt.Errorf("substitution %d must have exactly 3 elements, got %d", i, len(triple))
		}
		subs = append(subs, Substitution{ServiceID: triple[0], Field: triple[1], Value: triple[2]})
	}
	return subs, nil
}

// Apply performs the substitutions in order. Every failed substitution is
// reported; the document is left partially substituted on error.
func (d *Document) Apply(subs ...Substitution) error {
	var report validation.Report
	for _, sub := range subs {
		report.Add(d.apply(sub))
	}
	return report.Err()
}

func (d *Document) apply(sub Substitution) error {
	field := fmt.Sprintf("substitution %s.%s", sub.ServiceID, sub.Field)

	if d.Robot != nil && d.Robot.ID == sub.ServiceID {
		switch sub.Field {
		case "source-type":
			d.Robot.SourceType = sub.Value
		case "source-location":
			d.Robot.SourceLocation = sub.Value
		case "emulation-level":
			d.Robot.EmulationLevel = sub.Value
		case "exposed-port":
			port, err := strconv.Atoi(sub.Value)
			if err != nil {
				return validation.Errorf(validation.InputShape, field, "port %q is not a number", sub.Value)
			}
			d.Robot.ExposedPort = &port
		default:
			return validation.Errorf(validation.InputShape, field, "field cannot be substituted on a robot")
		}
		return nil
	}

	for _, m := range d.Modules {
		if m == nil || m.ID != sub.ServiceID {
			continue
		}
		switch sub.Field {
		case "source-type":
			m.SourceType = sub.Value
		case "source-location":
			m.SourceLocation = sub.Value
		case "emulation-level":
			m.EmulationLevel = sub.Value
		default:
			return validation.Errorf(validation.InputShape, field, "field cannot be substituted on a module")
		}
		return nil
	}

	return validation.Errorf(validation.InputShape, field, "no robot or module with id %q", sub.ServiceID)
}

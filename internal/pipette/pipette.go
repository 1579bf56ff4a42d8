// Package pipette resolves the pipettes a robot carries and renders them in
// the forms the emulators expect: the smoothie JSON for the OT-2 and the
// pipette definition for the OT-3 pipettes firmware.
package pipette

import (
	"fmt"
	"regexp"

	"github.com/vk/emucompose/internal/settings"
	"github.com/vk/emucompose/internal/validation"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Mount is a pipette mount on the gantry.
type Mount string

const (
	Left  Mount = "left"
	Right Mount = "right"
)

const (
	maxModel      = 99
	serialDateFmt = "01022006"
)

var serialCode = regexp.MustCompile(`^[A-Za-z0-9]{1,12}$`)

// Selection is a validated pipette on one mount.
type Selection struct {
	Mount   Mount
	Pipette settings.Pipette
	// Model overrides the catalog model number when set (OT-3).
	Model *int
	// SerialCode is empty when the date-based default applies (OT-3).
	SerialCode string
}

// ModelNumber is the model the pipette reports.
func (s *Selection) ModelNumber() int {
	if s.Model != nil {
		return *s.Model
	}
	return s.Pipette.Model
}

// objectForm is the long form of a pipette entry.
type objectForm struct {
	Name       *string `cty:"name"`
	Model      *int    `cty:"model"`
	SerialCode *string `cty:"serial-code"`
}

// Parse resolves the pipette written for a mount. v is either the pipette's
// display or internal name, or an object with name and, on the OT-3, model
// and serial-code. A null v means the mount is empty.
func Parse(field string, robot settings.Hardware, mount Mount, v cty.Value) (*Selection, error) {
	if v.IsNull() {
		return nil, nil
	}

	var form objectForm
	switch ty := v.Type(); {
	case ty.Equals(cty.String):
		name := v.AsString()
		form.Name = &name
	case ty.IsObjectType():
		if err := gocty.FromCtyValue(v, &form); err != nil {
			return nil, validation.Errorf(validation.InputShape, field, "%v", err)
		}
	default:
		return nil, validation.Errorf(validation.InputShape, field, "pipette must be a name or an object, got %s", ty.FriendlyName())
	}

	if form.Name == nil {
		return nil, validation.Errorf(validation.InputShape, field, "pipette name is required")
	}
	p, ok := settings.LookupPipette(robot, *form.Name)
	if !ok {
		return nil, validation.Errorf(validation.PipetteUnknown, field, "%q is not a known %s pipette", *form.Name, robot)
	}

	sel := &Selection{Mount: mount, Pipette: p, Model: form.Model}
	if form.SerialCode != nil {
		sel.SerialCode = *form.SerialCode
	}

	if robot != settings.OT3 && (form.Model != nil || form.SerialCode != nil) {
		return nil, validation.Errorf(validation.PipetteUnknown, field, "model and serial-code can only be set for ot3 pipettes")
	}
	if form.Model != nil && (*form.Model < 0 || *form.Model > maxModel) {
		return nil, validation.Errorf(validation.PipetteUnknown, field, "model %d is outside 0-%d", *form.Model, maxModel)
	}
	if form.SerialCode != nil && !serialCode.MatchString(*form.SerialCode) {
		return nil, validation.Errorf(validation.PipetteUnknown, field, "serial-code %q must be 1-12 letters or digits", *form.SerialCode)
	}
	return sel, nil
}

// CheckMounts enforces pipettes that are restricted to, or take over, a mount.
func CheckMounts(field string, left, right *Selection) error {
	var report validation.Report
	if right != nil && right.Pipette.LeftOnly {
		report.Addf(validation.Invariant, field, "%s can only be mounted on the left", right.Pipette.DisplayName)
	}
	if left != nil && right != nil {
		for _, sel := range []*Selection{left, right} {
			if sel.Pipette.BlocksOtherMount {
				report.Addf(validation.Invariant, field, "%s occupies both mounts, the %s mount must be empty", sel.Pipette.DisplayName, otherMount(sel.Mount))
			}
		}
	}
	return report.Err()
}

func otherMount(m Mount) Mount {
	if m == Left {
		return Right
	}
	return Left
}

func (s *Selection) String() string {
	return fmt.Sprintf("%s:%s", s.Mount, s.Pipette.Name)
}

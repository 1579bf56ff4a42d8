package settings

import (
	"slices"
	"strings"
)

// Channels is the channel class of a pipette.
type Channels string

const (
	SingleChannel Channels = "single"
	MultiChannel  Channels = "multi"
	NinetySix     Channels = "96"
)

// Pipette is one entry of a robot's pipette catalog.
type Pipette struct {
	DisplayName string
	Name        string
	Channels    Channels
	// Model is the numeric model an OT-3 pipette reports.
	Model int
	// SmoothieModel and SmoothieID identify an OT-2 pipette to the smoothie emulator.
	SmoothieModel string
	SmoothieID    string
	// LeftOnly pipettes may only sit on the left mount.
	LeftOnly bool
	// BlocksOtherMount pipettes occupy both mounts.
	BlocksOtherMount bool
}

var ot2Pipettes = []Pipette{
	{DisplayName: "P20 Single", Name: "p20_single_gen2", Channels: SingleChannel, SmoothieModel: "p20_single_v2.2", SmoothieID: "P20SV202020070101"},
	{DisplayName: "P20 Multi", Name: "p20_multi_gen2", Channels: MultiChannel, SmoothieModel: "p20_multi_v2.1", SmoothieID: "P20MV202020070101"},
	{DisplayName: "P300 Single", Name: "p300_single_gen2", Channels: SingleChannel, SmoothieModel: "p300_single_v2.1", SmoothieID: "P3HSV202020070101"},
	{DisplayName: "P300 Multi", Name: "p300_multi_gen2", Channels: MultiChannel, SmoothieModel: "p300_multi_v2.1", SmoothieID: "P3HMV202020070101"},
	{DisplayName: "P1000 Single", Name: "p1000_single_gen2", Channels: SingleChannel, SmoothieModel: "p1000_single_v2.2", SmoothieID: "P1KSV202020070101"},
}

var ot3Pipettes = []Pipette{
	{DisplayName: "P50 Single", Name: "p50_single_gen3", Channels: SingleChannel, Model: 3},
	{DisplayName: "P50 Multi", Name: "p50_multi_gen3", Channels: MultiChannel, Model: 3},
	{DisplayName: "P1000 Single", Name: "p1000_single_gen3", Channels: SingleChannel, Model: 1},
	{DisplayName: "P1000 Multi", Name: "p1000_multi_gen3", Channels: MultiChannel, Model: 1},
	{DisplayName: "P1000 96 Channel", Name: "p1000_96", Channels: NinetySix, Model: 0, LeftOnly: true, BlocksOtherMount: true},
}

// DefaultOT2Pipette is what the smoothie emulator reports on an empty mount.
var DefaultOT2Pipette = Pipette{
	DisplayName:   "P20 Single",
	Name:          "p20_single_gen2",
	Channels:      SingleChannel,
	SmoothieModel: "p20_single_v2.0",
	SmoothieID:    "P20SV202020070101",
}

// PipetteCatalog returns the pipettes a robot can carry.
func PipetteCatalog(robot Hardware) []Pipette {
	switch robot {
	case OT2:
		return slices.Clone(ot2Pipettes)
	case OT3:
		return slices.Clone(ot3Pipettes)
	}
	return nil
}

// LookupPipette finds a pipette by display name or internal name. Display
// names match case-insensitively.
func LookupPipette(robot Hardware, name string) (Pipette, bool) {
	for _, p := range PipetteCatalog(robot) {
		if p.Name == name || strings.EqualFold(p.DisplayName, name) {
			return p, true
		}
	}
	return Pipette{}, false
}

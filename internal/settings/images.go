package settings

import "fmt"

type imageKey struct {
	hardware Hardware
	level    Level
	source   SourceType
}

var images = map[imageKey]string{}

func init() {
	for hw, levels := range hardwareLevels {
		for _, level := range levels {
			for _, st := range []SourceType{Local, Remote} {
				images[imageKey{hw, level, st}] = imageName(hw, level, st)
			}
		}
	}
}

// imageName spells the per-variant image, e.g. "magdeck-firmware-local".
// Robot servers share one image per source type whatever the level.
func imageName(hw Hardware, level Level, st SourceType) string {
	if hw.IsRobot() {
		return fmt.Sprintf("%s-%s", hw.ShortName(), st)
	}
	return fmt.Sprintf("%s-%s-%s", hw.ShortName(), level, st)
}

// ImageFor returns the image a robot server or module runs for the given
// emulation level and source type.
func ImageFor(hw Hardware, level Level, st SourceType) string {
	img, ok := images[imageKey{hw, level, st}]
	if !ok {
		panic(fmt.Sprintf("settings: no image for %s at %s level from %s source", hw, level, st))
	}
	return img
}

// Fixed images.
const (
	SmoothieImage        = "smoothie"
	CANServerImage       = "can-server"
	EmulatorProxyImage   = "emulator-proxy"
	StateManagerImage    = "ot3-state-manager"
	MonorepoBuilderImage = "local-monorepo-builder"
	FirmwareBuilderImage = "local-ot3-firmware-builder"
	ModulesBuilderImage  = "local-opentrons-modules-builder"
)

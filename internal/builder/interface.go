package builder

import (
	"context"
	"fmt"
	"time"

	"github.com/vk/emucompose/internal/compose"
	"github.com/vk/emucompose/internal/model"
	"github.com/vk/emucompose/internal/settings"
	"github.com/vk/emucompose/internal/source"
)

// Kind identifies a service kind.
type Kind string

const (
	RobotServer     Kind = "robot-server"
	Smoothie        Kind = "smoothie"
	CANServer       Kind = "can-server"
	EmulatorProxy   Kind = "emulator-proxy"
	StateManager    Kind = "state-manager"
	Module          Kind = "module"
	Subcomponent    Kind = "ot3-subcomponent"
	MonorepoBuilder Kind = "monorepo-builder"
	FirmwareBuilder Kind = "ot3-firmware-builder"
	ModulesBuilder  Kind = "opentrons-modules-builder"
)

// Request names one service to build.
type Request struct {
	Kind Kind
	// Module is set for Module requests.
	Module *model.Module
	// Subcomponent is set for Subcomponent requests.
	Subcomponent settings.Subcomponent
}

// BaseName is the container name of the requested service before the
// system-unique-id prefix is applied.
func (r Request) BaseName(sys *model.System) string {
	switch r.Kind {
	case RobotServer:
		return sys.Robot.ID
	case Smoothie:
		return settings.SmoothieName
	case CANServer:
		return settings.CANServerName
	case EmulatorProxy:
		return settings.EmulatorProxyName
	case StateManager:
		return settings.StateManagerName
	case Module:
		return r.Module.ID
	case Subcomponent:
		return r.Subcomponent.ContainerName()
	case MonorepoBuilder:
		return settings.MonorepoBuilderName
	case FirmwareBuilder:
		return settings.FirmwareBuilderName
	case ModulesBuilder:
		return settings.ModulesBuilderName
	}
	panic(fmt.Sprintf("builder: unknown service kind %q", r.Kind))
}

func (r Request) String() string {
	switch r.Kind {
	case Module:
		return fmt.Sprintf("%s(%s)", r.Kind, r.Module.ID)
	case Subcomponent:
		return fmt.Sprintf("%s(%s)", r.Kind, r.Subcomponent)
	}
	return string(r.Kind)
}

// Options are the conversion flags that affect every service.
type Options struct {
	// Dev selects the development dockerfile.
	Dev bool
	// DockerDir is the build context and holds the entrypoint script.
	DockerDir string
	// Now is the time pipette serial codes default to.
	Now time.Time
}

// Input is everything a build function may read.
type Input struct {
	System  *model.System
	Options Options
	Names   Names
	// Proxy is true when the emulator proxy is part of the output.
	Proxy bool
	// Sidecars maps each emitted builder sidecar to the local source it compiles.
	Sidecars map[settings.SourceKind]source.Source
}

// Builder builds compose services.
type Builder interface {
	// Build returns the service described by req.
	Build(ctx context.Context, req Request) (*compose.Service, error)
}

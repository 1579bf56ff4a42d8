package builder

import (
	"context"
	"fmt"
	"strings"

	"github.com/vk/emucompose/internal/compose"
	"github.com/vk/emucompose/internal/ctxlog"
	"github.com/vk/emucompose/internal/settings"
	"github.com/vk/emucompose/internal/source"
)

// buildFunc builds one service kind.
type buildFunc func(in *Input, req Request) (*compose.Service, error)

var table = map[Kind]buildFunc{
	RobotServer:     buildRobotServer,
	Smoothie:        buildSmoothie,
	CANServer:       buildCANServer,
	EmulatorProxy:   buildEmulatorProxy,
	StateManager:    buildStateManager,
	Module:          buildModule,
	Subcomponent:    buildSubcomponent,
	MonorepoBuilder: buildMonorepoBuilder,
	FirmwareBuilder: buildFirmwareBuilder,
	ModulesBuilder:  buildModulesBuilder,
}

// DefaultBuilder dispatches requests to the build function of their kind.
type DefaultBuilder struct {
	in *Input
}

// New creates a builder over in.
func New(in *Input) Builder {
	return &DefaultBuilder{in: in}
}

// Build implements the Builder interface.
func (b *DefaultBuilder) Build(ctx context.Context, req Request) (*compose.Service, error) {
	logger := ctxlog.FromContext(ctx).With("service", req.String())
	fn, ok := table[req.Kind]
	if !ok {
		return nil, fmt.Errorf("no build function for service kind %q", req.Kind)
	}
	svc, err := fn(b.in, req)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s: %w", req, err)
	}
	logger.Debug("Service built.", "container_name", svc.ContainerName, "image", svc.Image)
	return svc, nil
}

// newService starts a service record with the fields every service shares.
func (in *Input) newService(req Request, image string) *compose.Service {
	return &compose.Service{
		ContainerName: in.Names.Service(req.BaseName(in.System)),
		Image:         image,
		TTY:           true,
		Networks:      []string{in.Names.LocalNetwork()},
	}
}

// joinCAN adds the CAN network to a service on the bus.
func (in *Input) joinCAN(svc *compose.Service) {
	svc.Networks = append(svc.Networks, in.Names.CANNetwork())
}

func (in *Input) dockerfile() string {
	if in.Options.Dev {
		return settings.DevDockerfile
	}
	return settings.Dockerfile
}

// build is the build section of image. Build args of every remote source are
// merged; local sources contribute none.
func (in *Input) build(image string, sources ...source.Source) *compose.Build {
	var args map[string]string
	for _, src := range sources {
		for k, v := range src.BuildArgs() {
			if args == nil {
				args = make(map[string]string)
			}
			args[k] = v
		}
	}
	return &compose.Build{
		Context:    in.Options.DockerDir,
		Dockerfile: in.dockerfile(),
		Target:     image,
		Args:       args,
	}
}

func (in *Input) entrypoint() string {
	dir := strings.TrimSuffix(in.Options.DockerDir, "/")
	return compose.Mount{Source: dir + "/" + settings.EntrypointFile, Target: settings.EntrypointTarget}.String()
}

func wheels() string {
	return compose.Mount{Source: settings.MonorepoWheelsVolume, Target: settings.MonorepoWheelsPath}.String()
}

// emulatorVolumes are the volumes of a service running emulator code from
// sources: the entrypoint, the bind mount of each local source and the wheels
// volume when the monorepo is among them.
func (in *Input) emulatorVolumes(sources ...source.Source) []string {
	volumes := []string{in.entrypoint()}
	monorepo := false
	for _, src := range sources {
		volumes = append(volumes, src.EmulatorMounts()...)
		monorepo = monorepo || src.Repo.Kind == settings.MonorepoSource
	}
	if monorepo {
		volumes = append(volumes, wheels())
	}
	return volumes
}

// ports renders published ports, skipping those with no host port.
func ports(ps ...compose.Port) []string {
	var out []string
	for _, p := range ps {
		if p.Host != 0 {
			out = append(out, p.String())
		}
	}
	return out
}

package builder

import (
	"fmt"
	"path"

	"github.com/vk/emucompose/internal/compose"
	"github.com/vk/emucompose/internal/settings"
	"github.com/vk/emucompose/internal/source"
)

// sidecar starts a builder sidecar for kind. Sidecars compile local sources
// only, so they never carry build args.
func (in *Input) sidecar(req Request, kind settings.SourceKind, image string) (*compose.Service, error) {
	src, ok := in.Sidecars[kind]
	if !ok {
		return nil, fmt.Errorf("no local %s source to build", kind)
	}
	svc := in.newService(req, image)
	svc.Build = in.build(image, src)
	svc.Healthcheck = compose.ShellHealthcheck(src.Repo.HealthCheck())
	svc.Volumes = append([]string{in.entrypoint()}, src.BuilderMounts()...)
	return svc, nil
}

// builderVolume mounts a named volume under the sidecar's volumes directory.
func builderVolume(name string) string {
	return compose.Mount{Source: name, Target: path.Join(settings.BuilderVolumesDir, name)}.String()
}

func buildMonorepoBuilder(in *Input, req Request) (*compose.Service, error) {
	svc, err := in.sidecar(req, settings.MonorepoSource, settings.MonorepoBuilderImage)
	if err != nil {
		return nil, err
	}
	svc.Volumes = append(svc.Volumes, wheels())
	if in.System.IsOT3() {
		svc.Environment = compose.Env{settings.EnvOpentronsProject: settings.ProjectOT3}
	}
	return svc, nil
}

func buildFirmwareBuilder(in *Input, req Request) (*compose.Service, error) {
	svc, err := in.sidecar(req, settings.OT3FirmwareSource, settings.FirmwareBuilderImage)
	if err != nil {
		return nil, err
	}
	for _, sc := range settings.Subcomponents() {
		svc.Volumes = append(svc.Volumes, builderVolume(sc.ExecutableVolume()))
	}
	svc.Volumes = append(svc.Volumes,
		builderVolume(settings.StateManagerDistVolume),
		builderVolume(settings.StateManagerVenvVolume),
	)
	return svc, nil
}

func buildModulesBuilder(in *Input, req Request) (*compose.Service, error) {
	svc, err := in.sidecar(req, settings.ModulesSource, settings.ModulesBuilderImage)
	if err != nil {
		return nil, err
	}
	src := in.Sidecars[settings.ModulesSource]
	for _, hw := range in.System.ModuleKinds() {
		if in.buildsFrom(hw, src) {
			svc.Volumes = append(svc.Volumes, builderVolume(settings.ModuleExecutableVolume(hw)))
		}
	}
	return svc, nil
}

// buildsFrom reports whether a hardware-level module of kind hw runs from src,
// so its executable is the one the modules builder compiles.
func (in *Input) buildsFrom(hw settings.Hardware, src source.Source) bool {
	for _, m := range in.System.Modules {
		if m.Hardware == hw && m.Level == settings.LevelHardware && m.Source == src {
			return true
		}
	}
	return false
}

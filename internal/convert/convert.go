package convert

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/vk/emucompose/internal/builder"
	"github.com/vk/emucompose/internal/compose"
	"github.com/vk/emucompose/internal/ctxlog"
	"github.com/vk/emucompose/internal/dag"
	"github.com/vk/emucompose/internal/model"
	"github.com/vk/emucompose/internal/settings"
)

// Options control a conversion.
type Options struct {
	// Dev selects the development dockerfile.
	Dev bool
	// DockerDir is the build context of every service.
	DockerDir string
	// Now supplies the date OT-3 pipette serial codes default to. It defaults
	// to time.Now.
	Now func() time.Time
}

// DefaultDockerDir is the build context used when Options.DockerDir is empty.
const DefaultDockerDir = "./docker"

func (o Options) builderOptions() builder.Options {
	now := time.Now
	if o.Now != nil {
		now = o.Now
	}
	dir := o.DockerDir
	if dir == "" {
		dir = DefaultDockerDir
	}
	return builder.Options{Dev: o.Dev, DockerDir: dir, Now: now()}
}

// Convert turns sys into a compose document.
func Convert(ctx context.Context, sys *model.System, opts Options) (*compose.File, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Converting system to compose file.", "robot", sys.Robot.ID, "dev", opts.Dev)

	plan := NewPlan(sys)
	logger.Debug("Planned services.", "services", plan.BaseNames(), "networks", plan.Networks)

	b := builder.New(&builder.Input{
		System:   sys,
		Options:  opts.builderOptions(),
		Names:    plan.names,
		Proxy:    plan.Proxy,
		Sidecars: plan.Sidecars,
	})

	file := compose.New(settings.ComposeVersion)
	for i, req := range plan.Requests {
		svc, err := b.Build(ctx, req)
		if err != nil {
			return nil, err
		}
		appendExtraMounts(svc, plan.base[i], sys.ExtraMounts)
		if err := file.Add(svc); err != nil {
			return nil, err
		}
	}

	order, err := startOrder(file)
	if err != nil {
		return nil, err
	}
	logger.Debug("Dependency graph is acyclic.", "start_order", order)

	for _, network := range plan.Networks {
		file.Networks[network] = &compose.Network{}
	}
	if err := declareVolumes(file); err != nil {
		return nil, err
	}

	logger.Debug("Conversion complete.", "services", len(file.Services), "volumes", len(file.Volumes))
	return file, nil
}

// appendExtraMounts adds every extra mount targeting base to svc.
func appendExtraMounts(svc *compose.Service, base string, mounts []model.ExtraMount) {
	for _, em := range mounts {
		if slices.Contains(em.Targets, base) {
			svc.Volumes = append(svc.Volumes, em.Bind())
		}
	}
}

// startOrder loads depends_on into a graph, checks that every dependency is
// an emitted service and that there is no cycle, and returns the services in
// start order.
func startOrder(file *compose.File) ([]string, error) {
	g := dag.New()
	names := file.ServiceNames()
	for _, name := range names {
		g.AddNode(name)
	}
	for _, name := range names {
		for _, dep := range file.Services[name].DependsOn {
			if !g.Has(dep) {
				return nil, fmt.Errorf("service %q depends on %q, which is not emitted", name, dep)
			}
			if err := g.AddEdge(dep, name); err != nil {
				return nil, fmt.Errorf("service %q: %w", name, err)
			}
		}
	}
	order, err := g.TopologicalOrder()
	if err != nil {
		return nil, fmt.Errorf("invalid depends_on graph: %w", err)
	}
	return order, nil
}

// declareVolumes declares every named volume a service mounts. The wheels
// volume is always declared.
func declareVolumes(file *compose.File) error {
	file.Volumes[settings.MonorepoWheelsVolume] = &compose.Volume{}
	for _, name := range file.ServiceNames() {
		for _, v := range file.Services[name].Volumes {
			m, err := compose.ParseMount(v)
			if err != nil {
				return fmt.Errorf("service %q: %w", name, err)
			}
			if m.IsNamed() {
				file.Volumes[m.Source] = &compose.Volume{}
			}
		}
	}
	return nil
}

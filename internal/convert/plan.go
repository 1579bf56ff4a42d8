package convert

import (
	"github.com/vk/emucompose/internal/builder"
	"github.com/vk/emucompose/internal/model"
	"github.com/vk/emucompose/internal/settings"
	"github.com/vk/emucompose/internal/source"
)

// Plan is the set of services a System turns into.
type Plan struct {
	// Requests lists the services in emission order.
	Requests []builder.Request
	// Proxy is true when the emulator proxy is emitted: some module needs it
	// or the robot is an OT-3.
	Proxy bool
	// Sidecars maps each emitted builder sidecar to the local source it compiles.
	Sidecars map[settings.SourceKind]source.Source
	// Networks lists the required networks, local first.
	Networks []string

	names builder.Names
	base  []string
}

// NewPlan decides which services sys requires.
func NewPlan(sys *model.System) *Plan {
	p := &Plan{
		Proxy:    sys.NeedsProxy(),
		Sidecars: sys.Sidecars(),
		names:    builder.NewNames(sys.UniqueID),
	}

	p.add(sys, builder.Request{Kind: builder.RobotServer})
	if sys.IsOT3() {
		p.add(sys, builder.Request{Kind: builder.CANServer})
		p.add(sys, builder.Request{Kind: builder.StateManager})
		for _, sc := range settings.Subcomponents() {
			p.add(sys, builder.Request{Kind: builder.Subcomponent, Subcomponent: sc})
		}
	} else {
		p.add(sys, builder.Request{Kind: builder.Smoothie})
	}
	if p.Proxy {
		p.add(sys, builder.Request{Kind: builder.EmulatorProxy})
	}
	for i := range sys.Modules {
		p.add(sys, builder.Request{Kind: builder.Module, Module: &sys.Modules[i]})
	}
	for _, sc := range []struct {
		kind settings.SourceKind
		req  builder.Kind
	}{
		{settings.MonorepoSource, builder.MonorepoBuilder},
		{settings.OT3FirmwareSource, builder.FirmwareBuilder},
		{settings.ModulesSource, builder.ModulesBuilder},
	} {
		if _, ok := p.Sidecars[sc.kind]; ok {
			p.add(sys, builder.Request{Kind: sc.req})
		}
	}

	p.Networks = []string{p.names.LocalNetwork()}
	if sys.IsOT3() {
		p.Networks = append(p.Networks, p.names.CANNetwork())
	}
	return p
}

func (p *Plan) add(sys *model.System, req builder.Request) {
	p.Requests = append(p.Requests, req)
	p.base = append(p.base, req.BaseName(sys))
}

// BaseNames lists the planned services by unprefixed name, in emission order.
// Extra mounts name their targets this way.
func (p *Plan) BaseNames() []string {
	return append([]string(nil), p.base...)
}

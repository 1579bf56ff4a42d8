package settings

import "fmt"

// SourceKind names one of the three source trees a configuration draws from.
type SourceKind int

const (
	MonorepoSource SourceKind = iota
	OT3FirmwareSource
	ModulesSource
)

func (k SourceKind) String() string {
	switch k {
	case MonorepoSource:
		return "monorepo"
	case OT3FirmwareSource:
		return "ot3-firmware"
	case ModulesSource:
		return "opentrons-modules"
	}
	return fmt.Sprintf("SourceKind(%d)", int(k))
}

// Repo is the identity of a source repository.
type Repo struct {
	Kind          SourceKind
	Owner         string
	Name          string
	DefaultBranch string
	BuildArg      string

	// HealthCheckPath is the directory the healthcheck of a builder sidecar for
	// this repo enters. Sidecars mount the checkout there too.
	HealthCheckPath string
}

var repos = map[SourceKind]Repo{
	MonorepoSource: {
		Kind:            MonorepoSource,
		Owner:           "Opentrons",
		Name:            "opentrons",
		DefaultBranch:   "edge",
		BuildArg:        "OPENTRONS_SOURCE_DOWNLOAD_LOCATION",
		HealthCheckPath: "/opentrons",
	},
	OT3FirmwareSource: {
		Kind:            OT3FirmwareSource,
		Owner:           "Opentrons",
		Name:            "ot3-firmware",
		DefaultBranch:   "main",
		BuildArg:        "FIRMWARE_SOURCE_DOWNLOAD_LOCATION",
		HealthCheckPath: "/opentrons/ot3-firmware",
	},
	ModulesSource: {
		Kind:            ModulesSource,
		Owner:           "Opentrons",
		Name:            "opentrons-modules",
		DefaultBranch:   "edge",
		BuildArg:        "MODULE_SOURCE_DOWNLOAD_LOCATION",
		HealthCheckPath: "/opentrons-modules",
	},
}

// RepoOf returns the repository identity of a source kind.
func RepoOf(k SourceKind) Repo {
	r, ok := repos[k]
	if !ok {
		panic(fmt.Sprintf("settings: unknown source kind %d", int(k)))
	}
	return r
}

// MountPath is where the repository is bind-mounted inside containers.
func (r Repo) MountPath() string { return "/" + r.Name }

// HealthCheck is the shell command a builder sidecar is checked with.
func (r Repo) HealthCheck() string { return "(cd " + r.HealthCheckPath + ")" }

// DownloadURL is the git URL docker build fetches the repository from.
func (r Repo) DownloadURL(ref string) string {
	return fmt.Sprintf("https://github.com/%s/%s.git#%s", r.Owner, r.Name, ref)
}

// BuildCacheVolumes are the named volumes a builder of this repository keeps
// its toolchains in, as "volume:path" strings.
func (r Repo) BuildCacheVolumes() []string {
	switch r.Kind {
	case OT3FirmwareSource, ModulesSource:
		return []string{
			fmt.Sprintf("%s-build-host-docker-cache:/%s/build-host", r.Name, r.Name),
			fmt.Sprintf("%s-stm32-tools-docker-cache:/%s/stm32-tools", r.Name, r.Name),
		}
	}
	return nil
}

// Package source models where the code for each emulator comes from: a local
// checkout that is bind-mounted into containers, or a remote git reference
// that docker build downloads.
package source

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/vk/emucompose/internal/fsutil"
	"github.com/vk/emucompose/internal/settings"
	"github.com/vk/emucompose/internal/validation"
)

// LocationKind tags a Location.
type LocationKind int

const (
	LocalPath LocationKind = iota + 1
	Latest
	RemoteBranch
	RemoteCommit
)

func (k LocationKind) String() string {
	switch k {
	case LocalPath:
		return "local path"
	case Latest:
		return "latest"
	case RemoteBranch:
		return "remote branch"
	case RemoteCommit:
		return "remote commit"
	}
	return fmt.Sprintf("LocationKind(%d)", int(k))
}

// Location is a parsed source-location. Value keeps the string as written,
// so "latest" stays "latest" until build args are generated.
type Location struct {
	Kind  LocationKind
	Value string
}

const latestKeyword = "latest"

var commitSHA = regexp.MustCompile(`^[0-9a-f]{40}$`)

// IsCommitSHA reports whether ref is a full lowercase commit sha.
func IsCommitSHA(ref string) bool { return commitSHA.MatchString(ref) }

// ParseLocation classifies raw for repo. An empty st infers the type: absolute
// paths are local, everything else is a remote reference.
func ParseLocation(field string, repo settings.Repo, st settings.SourceType, raw string) (Location, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Location{}, validation.Errorf(validation.InputShape, field, "source location must not be empty")
	}
	if st == "" {
		st = settings.Remote
		if filepath.IsAbs(raw) {
			st = settings.Local
		}
	}

	if st == settings.Local {
		if !filepath.IsAbs(raw) {
			return Location{}, validation.Errorf(validation.InputShape, field, "local source %q must be an absolute path", raw)
		}
		return Location{Kind: LocalPath, Value: filepath.Clean(raw)}, nil
	}

	switch {
	case strings.EqualFold(raw, latestKeyword):
		return Location{Kind: Latest, Value: raw}, nil
	case raw == repo.DefaultBranch:
		return Location{Kind: RemoteBranch, Value: raw}, nil
	case commitSHA.MatchString(raw):
		return Location{Kind: RemoteCommit, Value: raw}, nil
	}
	return Location{}, validation.Errorf(validation.RemoteRefInvalid, field,
		"%q is not %q, the %s default branch %q, or a 40 character commit sha",
		raw, latestKeyword, repo.Name, repo.DefaultBranch)
}

// Source pairs a repository with a location.
type Source struct {
	Repo     settings.Repo
	Location Location
}

// New builds the source of the given kind.
func New(kind settings.SourceKind, loc Location) Source {
	return Source{Repo: settings.RepoOf(kind), Location: loc}
}

// Parse is ParseLocation followed by New.
func Parse(field string, kind settings.SourceKind, st settings.SourceType, raw string) (Source, error) {
	loc, err := ParseLocation(field, settings.RepoOf(kind), st, raw)
	if err != nil {
		return Source{}, err
	}
	return New(kind, loc), nil
}

func (s Source) IsLocal() bool  { return s.Location.Kind == LocalPath }
func (s Source) IsRemote() bool { return !s.IsLocal() }

// Type is the settings.SourceType the source resolves to.
func (s Source) Type() settings.SourceType {
	if s.IsLocal() {
		return settings.Local
	}
	return settings.Remote
}

// Ref is the git reference build args point at. It is empty for local sources.
func (s Source) Ref() string {
	switch s.Location.Kind {
	case Latest, RemoteBranch:
		return s.Repo.DefaultBranch
	case RemoteCommit:
		return s.Location.Value
	}
	return ""
}

// Validate checks that a local source exists on the host.
func (s Source) Validate(field string, checker fsutil.PathChecker) error {
	if s.IsLocal() && !checker.DirExists(s.Location.Value) {
		return validation.Errorf(validation.LocalPathMissing, field, "directory %q does not exist", s.Location.Value)
	}
	return nil
}

// BuildArgs returns the download-location build arg of a remote source and
// nil for a local one.
func (s Source) BuildArgs() map[string]string {
	if s.IsLocal() {
		return nil
	}
	return map[string]string{s.Repo.BuildArg: s.Repo.DownloadURL(s.Ref())}
}

// EmulatorMounts are the bind mounts an emulator running from this source needs.
func (s Source) EmulatorMounts() []string {
	if s.IsRemote() {
		return nil
	}
	return []string{s.bindMount()}
}

// BuilderMounts are the mounts a builder sidecar compiling this source needs.
// A local checkout is also mounted where the sidecar's healthcheck looks for
// it when that differs from its usual mount path.
func (s Source) BuilderMounts() []string {
	var mounts []string
	if s.IsLocal() {
		mounts = append(mounts, s.bindMount())
		if p := s.Repo.HealthCheckPath; p != "" && p != s.Repo.MountPath() {
			mounts = append(mounts, s.Location.Value+":"+p)
		}
	}
	return append(mounts, s.Repo.BuildCacheVolumes()...)
}

func (s Source) bindMount() string {
	return s.Location.Value + ":" + s.Repo.MountPath()
}

func (s Source) String() string {
	if s.IsLocal() {
		return fmt.Sprintf("%s@%s", s.Repo.Name, s.Location.Value)
	}
	return fmt.Sprintf("%s@%s", s.Repo.Name, s.Ref())
}

package compose

import (
	"fmt"
	"maps"
	"strings"
	"time"
)

// Port publishes a container port on the host.
type Port struct {
	Host      int
	Container int
}

func (p Port) String() string { return fmt.Sprintf("%d:%d", p.Host, p.Container) }

// Mount is a volume entry: either a bind mount of an absolute host path or a
// named volume.
type Mount struct {
	Source string
	Target string
}

// ParseMount splits a "source:target" string.
func ParseMount(s string) (Mount, error) {
	source, target, ok := strings.Cut(s, ":")
	if !ok || source == "" || target == "" {
		return Mount{}, fmt.Errorf("mount %q is not source:target", s)
	}
	return Mount{Source: source, Target: target}, nil
}

func (m Mount) String() string { return m.Source + ":" + m.Target }

// IsNamed reports whether the mount refers to a named volume rather than a
// host path. Docker treats any source with a slash, or starting with "." or
// "~", as a path.
func (m Mount) IsNamed() bool {
	return !strings.ContainsRune(m.Source, '/') && !strings.HasPrefix(m.Source, ".") && !strings.HasPrefix(m.Source, "~")
}

// Env is a service environment. Later writes win.
type Env map[string]string

// Set records a variable and returns e for chaining.
func (e Env) Set(key, value string) Env {
	e[key] = value
	return e
}

// Merge copies every entry of overrides into e.
func (e Env) Merge(overrides map[string]string) Env {
	maps.Copy(e, overrides)
	return e
}

// OrNil returns nil for an empty environment so it is left out of the output.
func (e Env) OrNil() map[string]string {
	if len(e) == 0 {
		return nil
	}
	return e
}

const (
	HealthcheckInterval = 10 * time.Second
	HealthcheckTimeout  = 10 * time.Second
	HealthcheckRetries  = 6
)

// ShellHealthcheck probes a container with a shell command.
func ShellHealthcheck(command string) *Healthcheck {
	return &Healthcheck{
		Test:     []string{"CMD-SHELL", command},
		Interval: HealthcheckInterval.String(),
		Timeout:  HealthcheckTimeout.String(),
		Retries:  HealthcheckRetries,
	}
}

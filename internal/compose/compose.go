// Package compose holds the Docker Compose document the compiler emits and
// the small value types service builders produce on the way there.
package compose

import (
	"bytes"
	"fmt"
	"io"
	"slices"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

// File is a Docker Compose manifest. yaml.v3 writes map keys sorted, so the
// encoded form of a File is deterministic.
type File struct {
	Version  string              `yaml:"version"`
	Services map[string]*Service `yaml:"services"`
	Networks map[string]*Network `yaml:"networks,omitempty"`
	Volumes  map[string]*Volume  `yaml:"volumes,omitempty"`
}

// Service is one entry of the services mapping. Field order is the key order
// of the encoded service.
type Service struct {
	ContainerName string            `yaml:"container_name"`
	Image         string            `yaml:"image"`
	Build         *Build            `yaml:"build,omitempty"`
	TTY           bool              `yaml:"tty,omitempty"`
	Networks      []string          `yaml:"networks,omitempty"`
	Healthcheck   *Healthcheck      `yaml:"healthcheck,omitempty"`
	Volumes       []string          `yaml:"volumes,omitempty"`
	Ports         []string          `yaml:"ports,omitempty"`
	DependsOn     []string          `yaml:"depends_on,omitempty"`
	Environment   map[string]string `yaml:"environment,omitempty"`
	Command       string            `yaml:"command,omitempty"`
}

type Build struct {
	Context    string            `yaml:"context"`
	Dockerfile string            `yaml:"dockerfile"`
	Target     string            `yaml:"target,omitempty"`
	Args       map[string]string `yaml:"args,omitempty"`
}

type Healthcheck struct {
	Test     []string `yaml:"test"`
	Interval string   `yaml:"interval"`
	Timeout  string   `yaml:"timeout"`
	Retries  int      `yaml:"retries"`
}

// Network is a top-level network. The zero value uses the default driver.
type Network struct {
	Driver string `yaml:"driver,omitempty"`
}

// Volume is a top-level named volume with default settings.
type Volume struct{}

// New returns an empty File of the given compose version.
func New(version string) *File {
	return &File{
		Version:  version,
		Services: make(map[string]*Service),
		Networks: make(map[string]*Network),
		Volumes:  make(map[string]*Volume),
	}
}

// ServiceNames returns the service keys in sorted order.
func (f *File) ServiceNames() []string {
	names := lo.Keys(f.Services)
	slices.Sort(names)
	return names
}

// Add inserts a service under its container name.
func (f *File) Add(s *Service) error {
	if _, exists := f.Services[s.ContainerName]; exists {
		return fmt.Errorf("service %q is defined twice", s.ContainerName)
	}
	f.Services[s.ContainerName] = s
	return nil
}

// Marshal encodes f as YAML with a two space indent.
func Marshal(f *File) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Encode writes f to w as YAML.
func Encode(w io.Writer, f *File) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("failed to encode compose file: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to encode compose file: %w", err)
	}
	return nil
}

// Unmarshal decodes a compose file produced by Marshal. Unknown keys are
// rejected.
func Unmarshal(data []byte) (*File, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var f File
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to decode compose file: %w", err)
	}
	return &f, nil
}

// Package metadata reads and writes the metadata.yaml sidecar that travels
// with every key directory through the pipeline.
package metadata

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Filename is the sidecar file name inside each key directory.
const Filename = "metadata.yaml"

// StatusPending is the status stamped on keys entering the pipeline.
const StatusPending = "pending"

// ErrNotFound is returned when a key directory has no sidecar.
var ErrNotFound = errors.New("metadata.yaml not found")

// ReconStatus holds the reconstruction_status field, which historically
// appears as either a bool or a string.
type ReconStatus struct {
	value any
}

// UnmarshalYAML accepts any scalar form of the field.
func (s *ReconStatus) UnmarshalYAML(node *yaml.Node) error {
	var value any
	if err := node.Decode(&value); err != nil {
		return err
	}
	s.value = value
	return nil
}

// MarshalYAML writes the field back in its original form.
func (s ReconStatus) MarshalYAML() (any, error) {
	return s.value, nil
}

// IsZero lets omitempty drop an absent status.
func (s ReconStatus) IsZero() bool {
	return s.value == nil
}

// Succeeded reports whether the status indicates a successful
// reconstruction: boolean true or the string "success", case-insensitive.
func (s ReconStatus) Succeeded() bool {
	switch v := s.value.(type) {
	case bool:
		return v
	case string:
		return strings.EqualFold(strings.TrimSpace(v), "success")
	default:
		return false
	}
}

// Sidecar is the metadata.yaml document. Fields the pipeline does not manage
// pass through Extra untouched.
type Sidecar struct {
	Author               string         `yaml:"author,omitempty"`
	Status               string         `yaml:"status,omitempty"`
	Week                 string         `yaml:"week,omitempty"`
	ReconstructionStatus ReconStatus    `yaml:"reconstruction_status,omitempty"`
	Synced               bool           `yaml:"synced,omitempty"`
	Extra                map[string]any `yaml:",inline"`
}

// Load reads the sidecar at path. A missing file yields ErrNotFound; an
// empty file yields an empty sidecar.
func Load(path string) (*Sidecar, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("read sidecar: %w", err)
	}
	var sidecar Sidecar
	if err := yaml.Unmarshal(data, &sidecar); err != nil {
		return nil, fmt.Errorf("parse sidecar %s: %w", path, err)
	}
	return &sidecar, nil
}

// Save writes the sidecar to path with stable two-space indentation.
func Save(path string, sidecar *Sidecar) error {
	var b strings.Builder
	enc := yaml.NewEncoder(&b)
	enc.SetIndent(2)
	if err := enc.Encode(sidecar); err != nil {
		return fmt.Errorf("encode sidecar: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("finish sidecar encoding: %w", err)
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write sidecar: %w", err)
	}
	return nil
}

package pose

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed references.yaml
var defaultReferences []byte

var ErrNoReference = errors.New("reference pose not found")

// CorrectionTemplate holds the guidance for a joint that is above or below its
// reference angle. {joint}, {delta} and {target} are substituted when rendered.
type CorrectionTemplate struct {
	Above string `yaml:"above" json:"above,omitempty"`
	Below string `yaml:"below" json:"below,omitempty"`
}

// ReferencePose is a named canonical pose used as the scoring target.
type ReferencePose struct {
	Name        string                        `yaml:"name" json:"name"`
	Description string                        `yaml:"description" json:"description,omitempty"`
	Benefits    []string                      `yaml:"benefits" json:"benefits,omitempty"`
	Alignment   map[string]string             `yaml:"alignment" json:"alignment,omitempty"`
	Angles      AngleTable                    `yaml:"angles" json:"angles"`
	Corrections map[string]CorrectionTemplate `yaml:"corrections" json:"corrections,omitempty"`
}

// Library is the read-only set of reference poses.
type Library struct {
	poses map[string]ReferencePose
	names []string
}

type libraryFile struct {
	Poses []ReferencePose `yaml:"poses"`
}

// DefaultLibrary returns the embedded reference poses.
func DefaultLibrary() *Library {
	lib, err := NewLibraryFromYAML(bytes.NewReader(defaultReferences))
	if err != nil {
		panic(fmt.Sprintf("embedded reference poses are invalid: %v", err))
	}
	return lib
}

// NewLibraryFromYAML parses a reference pose document.
func NewLibraryFromYAML(r io.Reader) (*Library, error) {
	var file libraryFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("decode reference poses: %w", err)
	}
	return NewLibrary(file.Poses...)
}

// NewLibrary validates and indexes poses. Later entries with the same name win.
func NewLibrary(poses ...ReferencePose) (*Library, error) {
	lib := &Library{poses: make(map[string]ReferencePose, len(poses))}
	for _, p := range poses {
		if p.Name == "" {
			return nil, errors.New("reference pose without name")
		}
		for joint, angle := range p.Angles {
			if angle < 0 || angle > 180 {
				return nil, fmt.Errorf("pose %s: joint %s angle %.1f outside [0,180]", p.Name, joint, angle)
			}
		}
		lib.poses[p.Name] = p
	}
	for name := range lib.poses {
		lib.names = append(lib.names, name)
	}
	sort.Strings(lib.names)
	return lib, nil
}

// Get looks a pose up by name.
func (l *Library) Get(name string) (ReferencePose, error) {
	p, ok := l.poses[name]
	if !ok {
		return ReferencePose{}, fmt.Errorf("%s: %w", name, ErrNoReference)
	}
	return p, nil
}

// Names returns the pose names in sorted order.
func (l *Library) Names() []string {
	out := make([]string, len(l.names))
	copy(out, l.names)
	return out
}

// Poses returns all poses in name order.
func (l *Library) Poses() []ReferencePose {
	out := make([]ReferencePose, 0, len(l.names))
	for _, name := range l.names {
		out = append(out, l.poses[name])
	}
	return out
}

func (l *Library) Len() int {
	return len(l.names)
}

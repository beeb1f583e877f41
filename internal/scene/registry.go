// Package scene plays named sequences of lighting effects.
package scene

import (
	"fmt"
)

// Scene is a named, ordered list of steps.
type Scene struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Steps       []Step `yaml:"-"`
}

// Info describes a scene without its steps.
type Info struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Registry is the fixed set of scenes available to a sequencer. It does not change after construction.
type Registry struct {
	scenes map[string]Scene
	order  []string
}

// NewRegistry checks and registers scenes in the given order.
func NewRegistry(scenes ...Scene) (*Registry, error) {
	r := &Registry{
		scenes: make(map[string]Scene, len(scenes)),
	}

	for _, s := range scenes {
		if s.Name == "" {
			return nil, fmt.Errorf("scene without a name")
		}
		if _, ok := r.scenes[s.Name]; ok {
			return nil, fmt.Errorf("scene %q is defined more than once", s.Name)
		}
		for i, step := range s.Steps {
			if step == nil {
				return nil, fmt.Errorf("scene %q step %d: %w", s.Name, i+1, &UnknownOperationError{Op: "<nil>"})
			}
		}
		r.scenes[s.Name] = s
		r.order = append(r.order, s.Name)
	}

	return r, nil
}

func (r *Registry) Lookup(name string) (Scene, bool) {
	s, ok := r.scenes[name]
	return s, ok
}

// Infos lists the registered scenes in registration order.
func (r *Registry) Infos() []Info {
	infos := make([]Info, 0, len(r.order))
	for _, name := range r.order {
		infos = append(infos, Info{Name: name, Description: r.scenes[name].Description})
	}
	return infos
}

// Package section splits the pixel strip into named, contiguous zones.
package section

import (
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
)

var ErrConfiguration = errors.New("invalid section configuration")

// Entry is one configured section, in strip order.
type Entry struct {
	Name  string `yaml:"name" json:"name"`
	Count int    `yaml:"count" json:"count"`
}

// Range is a half-open pixel index interval [Start, End).
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

func (r Range) Len() int {
	return r.End - r.Start
}

// Map resolves section names to pixel ranges. It is immutable once built.
type Map struct {
	ranges map[string]Range
	names  []string
	total  int
}

// Build lays the entries out back to back. A capacity above zero caps the total pixel count. Entries sharing a
// name shadow each other: the last one wins, and the name keeps the position of its first occurrence.
func Build(entries []Entry, capacity int) (*Map, error) {
	m := &Map{
		ranges: make(map[string]Range, len(entries)),
	}

	for i, e := range entries {
		if e.Name == "" {
			return nil, fmt.Errorf("entry %d has no name: %w", i, ErrConfiguration)
		}
		if e.Count < 0 {
			return nil, fmt.Errorf("section %q has negative count %d: %w", e.Name, e.Count, ErrConfiguration)
		}

		if _, ok := m.ranges[e.Name]; ok {
			log.Warnf("Section %q is defined more than once, the last definition wins", e.Name)
		} else {
			m.names = append(m.names, e.Name)
		}
		m.ranges[e.Name] = Range{Start: m.total, End: m.total + e.Count}
		m.total += e.Count
	}

	if capacity > 0 && m.total > capacity {
		return nil, fmt.Errorf("sections need %d pixels, strip only has %d: %w", m.total, capacity, ErrConfiguration)
	}

	return m, nil
}

// Resolve returns the range of the named section. An empty or unknown name selects the whole strip.
func (m *Map) Resolve(name string) Range {
	if r, ok := m.ranges[name]; ok {
		return r
	}
	return Range{Start: 0, End: m.total}
}

func (m *Map) Has(name string) bool {
	_, ok := m.ranges[name]
	return ok
}

// Names lists the known sections in configuration order.
func (m *Map) Names() []string {
	names := make([]string, len(m.names))
	copy(names, m.names)
	return names
}

func (m *Map) Total() int {
	return m.total
}

// Package config reads the service configuration and persists the section layout.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/callebjorkell/tardis-lights/internal/neopixel"
	"github.com/callebjorkell/tardis-lights/internal/section"
	"gopkg.in/yaml.v3"
)

const (
	defaultListen       = ":8000"
	defaultSectionsFile = "led_sections.yaml"
	defaultButtonPin    = "GPIO20"
)

type Strip struct {
	Driver     neopixel.Backend `yaml:"driver"`
	Capacity   int              `yaml:"capacity"`
	Brightness float64          `yaml:"brightness"`
	GPIOPin    int              `yaml:"gpioPin"`
}

// Schedule plays Scene whenever the cron expression fires.
type Schedule struct {
	Cron  string `yaml:"cron"`
	Scene string `yaml:"scene"`
}

// Button plays Scene when the physical trigger button is pressed.
type Button struct {
	Enabled bool   `yaml:"enabled"`
	Pin     string `yaml:"pin"`
	Scene   string `yaml:"scene"`
}

// Display turns on the status LCD.
type Display struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	Listen       string     `yaml:"listen"`
	Strip        Strip      `yaml:"strip"`
	SectionsFile string     `yaml:"sectionsFile"`
	ScenesFile   string     `yaml:"scenesFile"`
	Schedules    []Schedule `yaml:"schedules"`
	Button       Button     `yaml:"button"`
	Display      Display    `yaml:"display"`
}

func (c Config) StripOptions() neopixel.Options {
	return neopixel.Options{
		Backend:    c.Strip.Driver,
		Capacity:   c.Strip.Capacity,
		Brightness: c.Strip.Brightness,
		GPIOPin:    c.Strip.GPIOPin,
	}
}

// Load reads the configuration file at path. A missing file gives the defaults.
func Load(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return parse(nil)
	}
	if err != nil {
		return nil, err
	}

	c, err := parse(content)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", path, err)
	}

	// relative files are relative to the configuration itself
	dir := filepath.Dir(path)
	if !filepath.IsAbs(c.SectionsFile) {
		c.SectionsFile = filepath.Join(dir, c.SectionsFile)
	}
	if c.ScenesFile != "" && !filepath.IsAbs(c.ScenesFile) {
		c.ScenesFile = filepath.Join(dir, c.ScenesFile)
	}

	return c, nil
}

func parse(content []byte) (*Config, error) {
	c := &Config{}
	err := yaml.Unmarshal(content, c)
	if err != nil {
		return nil, err
	}

	if c.Listen == "" {
		c.Listen = defaultListen
	}
	if c.SectionsFile == "" {
		c.SectionsFile = defaultSectionsFile
	}

	switch c.Strip.Driver {
	case "":
		c.Strip.Driver = neopixel.BackendMock
	case neopixel.BackendMock, neopixel.BackendWS281x:
	default:
		return nil, fmt.Errorf("unknown strip driver %q", c.Strip.Driver)
	}
	if c.Strip.Capacity <= 0 {
		c.Strip.Capacity = neopixel.DefaultCapacity
	}
	if c.Strip.Brightness == 0 {
		c.Strip.Brightness = neopixel.DefaultBrightness
	}
	if c.Strip.Brightness < 0 || c.Strip.Brightness > 1 {
		return nil, fmt.Errorf("strip brightness must be within (0, 1], got %v", c.Strip.Brightness)
	}
	if c.Strip.GPIOPin == 0 {
		c.Strip.GPIOPin = neopixel.DefaultGPIOPin
	}

	for i, s := range c.Schedules {
		if s.Cron == "" {
			return nil, fmt.Errorf("cron expression must be specified for schedule %d", i)
		}
		if s.Scene == "" {
			return nil, fmt.Errorf("scene must be specified for schedule %d", i)
		}
	}

	if c.Button.Enabled && c.Button.Scene == "" {
		return nil, fmt.Errorf("the button needs a scene to play")
	}
	if c.Button.Pin == "" {
		c.Button.Pin = defaultButtonPin
	}

	return c, nil
}

// DefaultSections is the layout used until one has been saved.
var DefaultSections = []section.Entry{
	{Name: "Left Windows", Count: 2},
	{Name: "Rear Windows", Count: 2},
	{Name: "Left Police", Count: 2},
	{Name: "Right Windows", Count: 2},
	{Name: "Front Police", Count: 2},
	{Name: "Front Windows", Count: 2},
	{Name: "Rear Police", Count: 2},
	{Name: "Right Police", Count: 2},
	{Name: "Top Light", Count: 2},
	{Name: "Extra", Count: 0},
}

type sectionsFile struct {
	Sections []section.Entry `yaml:"sections"`
}

// LoadSections reads the saved section layout, falling back to DefaultSections when nothing has been saved.
func LoadSections(path string) ([]section.Entry, error) {
	content, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return defaultSections(), nil
	}
	if err != nil {
		return nil, err
	}

	f := sectionsFile{}
	if err := yaml.Unmarshal(content, &f); err != nil {
		return nil, fmt.Errorf("invalid sections in %s: %w", path, err)
	}
	if f.Sections == nil {
		return defaultSections(), nil
	}
	return f.Sections, nil
}

func defaultSections() []section.Entry {
	entries := make([]section.Entry, len(DefaultSections))
	copy(entries, DefaultSections)
	return entries
}

// SaveSections replaces the saved section layout.
func SaveSections(path string, entries []section.Entry) error {
	content, err := yaml.Marshal(sectionsFile{Sections: entries})
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, content, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Package app wires the strip, the effects engine, the scene sequencer and the task runner together.
package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/callebjorkell/tardis-lights/internal/config"
	"github.com/callebjorkell/tardis-lights/internal/effects"
	"github.com/callebjorkell/tardis-lights/internal/neopixel"
	"github.com/callebjorkell/tardis-lights/internal/scene"
	"github.com/callebjorkell/tardis-lights/internal/section"
	"github.com/callebjorkell/tardis-lights/internal/tasks"
	log "github.com/sirupsen/logrus"
)

// Core owns the strip for the lifetime of the process. The section layout can be replaced at runtime, which
// swaps in a new engine and sequencer on the same strip.
type Core struct {
	Runner *tasks.Runner

	strip        *neopixel.Strip
	registry     *scene.Registry
	sectionsFile string

	mu        sync.RWMutex
	entries   []section.Entry
	engine    *effects.Engine
	sequencer *scene.Sequencer
}

// New opens the strip and loads sections and scenes as configured.
func New(cfg *config.Config) (*Core, error) {
	scenes := scene.Builtin()
	if cfg.ScenesFile != "" {
		extra, err := scene.LoadFile(cfg.ScenesFile)
		if err != nil {
			return nil, err
		}
		log.Infof("Loaded %d scenes from %s", len(extra), cfg.ScenesFile)
		scenes = append(scenes, extra...)
	}
	registry, err := scene.NewRegistry(scenes...)
	if err != nil {
		return nil, err
	}

	entries, err := config.LoadSections(cfg.SectionsFile)
	if err != nil {
		return nil, err
	}

	strip, err := neopixel.New(cfg.StripOptions())
	if err != nil {
		return nil, err
	}

	m, err := section.Build(entries, strip.Capacity())
	if err != nil {
		strip.Close()
		return nil, err
	}

	engine := effects.NewEngine(strip, m)
	return &Core{
		Runner:       tasks.NewRunner(),
		strip:        strip,
		registry:     registry,
		sectionsFile: cfg.SectionsFile,
		entries:      entries,
		engine:       engine,
		sequencer:    scene.NewSequencer(engine, registry),
	}, nil
}

func (c *Core) Engine() *effects.Engine {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.engine
}

func (c *Core) Sequencer() *scene.Sequencer {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sequencer
}

func (c *Core) Capacity() int {
	return c.strip.Capacity()
}

// Sections returns the current layout in strip order.
func (c *Core) Sections() []section.Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entries := make([]section.Entry, len(c.entries))
	copy(entries, c.entries)
	return entries
}

// Reconfigure validates and saves a new layout and switches to it. Effects already running finish on the layout
// they started with.
func (c *Core) Reconfigure(entries []section.Entry) error {
	m, err := section.Build(entries, c.strip.Capacity())
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := config.SaveSections(c.sectionsFile, entries); err != nil {
		return fmt.Errorf("unable to save sections: %w", err)
	}

	c.entries = entries
	c.engine = c.engine.WithSections(m)
	c.sequencer = scene.NewSequencer(c.engine, c.registry)
	log.Infof("Reconfigured strip with %d sections over %d pixels", len(m.Names()), m.Total())

	return nil
}

// Run starts fn on the current engine as a background task.
func (c *Core) Run(name string, fn func(e *effects.Engine)) uint64 {
	e := c.Engine()
	return c.Runner.Go(name, func() error {
		fn(e)
		return nil
	})
}

// PlayScene starts the named scene as a background task. Unknown scenes are reported right away.
func (c *Core) PlayScene(name string) (uint64, error) {
	s := c.Sequencer()
	if !s.Has(name) {
		err := &scene.UnknownSceneError{Name: name}
		log.Error(err)
		return 0, err
	}
	return c.Runner.Go("scene "+name, func() error {
		return s.Play(name)
	}), nil
}

// Close waits for running tasks until ctx is done, then blanks and releases the strip. Tasks that outlive ctx
// keep running but no longer draw.
func (c *Core) Close(ctx context.Context) {
	if err := c.Runner.Wait(ctx); err != nil {
		log.Warnf("Closing with %d tasks still running", len(c.Runner.Running()))
	}
	c.Engine().Close()
}

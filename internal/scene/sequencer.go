package scene

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/callebjorkell/tardis-lights/internal/effects"
	"github.com/callebjorkell/tardis-lights/internal/neopixel"
	log "github.com/sirupsen/logrus"
)

const sectionPause = 200 * time.Millisecond

// Engine is the set of effect operations a scene can use.
type Engine interface {
	SetColor(c neopixel.Color, section string)
	TurnOn(section string, c *neopixel.Color)
	TurnOff(section string)
	Pulse(c *neopixel.Color, d time.Duration, section string)
	FadeTo(target neopixel.Color, d time.Duration, section string)
	Breath(section string, c neopixel.Color, period time.Duration, count int)
	RainbowCycle(d time.Duration, section string)
	Cylon(c neopixel.Color, d time.Duration, section string)
	Wipe(section string, c neopixel.Color, direction effects.Direction, speed time.Duration)
	Chase(section string, c neopixel.Color, spacing int, speed time.Duration, count int)
	Sparkle(section string, c neopixel.Color, density int, d time.Duration)
	Flicker(section string, base neopixel.Color, intensity float64, d time.Duration)
	Strobe(section string, c neopixel.Color, frequency float64, d time.Duration)
	Delay(d time.Duration)
	PreviewCount(count int, c neopixel.Color)
	SectionNames() []string
}

// Sequencer plays scenes from a registry against an engine.
type Sequencer struct {
	engine   Engine
	registry *Registry
}

func NewSequencer(engine Engine, registry *Registry) *Sequencer {
	return &Sequencer{
		engine:   engine,
		registry: registry,
	}
}

func (s *Sequencer) Scenes() []Info {
	return s.registry.Infos()
}

func (s *Sequencer) Has(name string) bool {
	_, ok := s.registry.Lookup(name)
	return ok
}

// Play runs the steps of the named scene one after the other on the calling goroutine. It returns an
// *UnknownSceneError without touching the strip if there is no such scene, and stops at the first step that
// cannot be run.
func (s *Sequencer) Play(name string) error {
	sc, ok := s.registry.Lookup(name)
	if !ok {
		err := &UnknownSceneError{Name: name}
		log.Error(err)
		return err
	}

	log.Infof("Playing scene %q", name)
	for i, step := range sc.Steps {
		if err := s.apply(step); err != nil {
			log.WithError(err).Errorf("Aborting scene %q at step %d", name, i+1)
			return fmt.Errorf("scene %q step %d: %w", name, i+1, err)
		}
	}
	log.Debugf("Scene %q done", name)

	return nil
}

func (s *Sequencer) apply(step Step) error {
	e := s.engine

	switch st := step.(type) {
	case SetColor:
		e.SetColor(st.Color, st.Section)
	case TurnOn:
		e.TurnOn(st.Section, st.Color)
	case TurnOff:
		e.TurnOff(st.Section)
	case Pulse:
		e.Pulse(st.Color, st.Duration.Duration(), st.Section)
	case FadeTo:
		e.FadeTo(st.Color, st.Duration.Duration(), st.Section)
	case Breath:
		e.Breath(st.Section, st.Color, st.Period.Duration(), st.Count)
	case RainbowCycle:
		e.RainbowCycle(st.Duration.Duration(), st.Section)
	case Cylon:
		e.Cylon(st.Color, st.Duration.Duration(), st.Section)
	case Wipe:
		e.Wipe(st.Section, st.Color, st.Direction, st.Speed.Duration())
	case Chase:
		e.Chase(st.Section, st.Color, st.Spacing, st.Speed.Duration(), st.Count)
	case Sparkle:
		e.Sparkle(st.Section, st.Color, st.Density, st.Duration.Duration())
	case Flicker:
		e.Flicker(st.Section, st.Color, st.Intensity, st.Duration.Duration())
	case Strobe:
		e.Strobe(st.Section, st.Color, st.Frequency, st.Duration.Duration())
	case PreviewCount:
		e.PreviewCount(st.Count, st.Color)
	case Wait:
		e.Delay(st.Duration.Duration())
	case FlashRandom:
		s.flashRandom(st.Flashes, st.Delay.Duration())
	default:
		return &UnknownOperationError{Op: fmt.Sprintf("%T", step)}
	}

	return nil
}

// flashRandom flashes each section in turn, in configuration order.
func (s *Sequencer) flashRandom(flashes int, delay time.Duration) {
	for _, name := range s.engine.SectionNames() {
		for i := 0; i < flashes; i++ {
			s.engine.SetColor(randomColor(), name)
			s.engine.Delay(delay)
			s.engine.TurnOff(name)
			s.engine.Delay(delay)
		}
		s.engine.Delay(sectionPause)
	}
}

func randomColor() neopixel.Color {
	return neopixel.RGB(uint8(rand.IntN(256)), uint8(rand.IntN(256)), uint8(rand.IntN(256)))
}

// Package effects runs timed lighting effects on sections of a shared pixel strip.
//
// Every visible frame (a buffer mutation followed by a flush) happens while holding a single strip lock. The
// lock is released between frames, so any number of effects can run at the same time and interleave at frame
// granularity. Effects on overlapping pixels are not coordinated: the last frame flushed wins. Nothing stops a
// running effect; it ends when its duration or iteration count is used up.
//
// Hardware failures never escape an effect. A frame that cannot be drawn or flushed is logged and skipped, and
// the effect continues with its next frame.
package effects

import (
	"time"

	"github.com/callebjorkell/tardis-lights/internal/neopixel"
	"github.com/callebjorkell/tardis-lights/internal/section"
	log "github.com/sirupsen/logrus"
)

// Driver is the pixel output the engine draws on.
type Driver interface {
	SetPixel(i int, c neopixel.Color) error
	Fill(start, end int, c neopixel.Color) error
	Get(i int) (neopixel.Color, error)
	Flush() error
	Capacity() int
}

type Engine struct {
	drv      Driver
	sections *section.Map
	lock     *frameLock

	sleep func(time.Duration)
	now   func() time.Time
}

func NewEngine(drv Driver, sections *section.Map) *Engine {
	return &Engine{
		drv:      drv,
		sections: sections,
		lock:     &frameLock{},
		sleep:    time.Sleep,
		now:      time.Now,
	}
}

// WithSections returns an engine for a new section layout. It shares the driver and the strip lock with e, so
// effects still running on the old layout keep their frames serialized with the new one.
func (e *Engine) WithSections(sections *section.Map) *Engine {
	return &Engine{
		drv:      e.drv,
		sections: sections,
		lock:     e.lock,
		sleep:    e.sleep,
		now:      e.now,
	}
}

func (e *Engine) Sections() *section.Map {
	return e.sections
}

func (e *Engine) SectionNames() []string {
	return e.sections.Names()
}

// frame runs one buffer mutation and a flush while holding the strip lock.
func (e *Engine) frame(effect string, draw func(px Driver) error) {
	done := e.lock.acquire()
	defer done()

	if e.lock.closed {
		return
	}
	if err := draw(e.drv); err != nil {
		log.WithError(err).WithField("effect", effect).Warn("Skipping frame")
		return
	}
	if err := e.drv.Flush(); err != nil {
		log.WithError(err).WithField("effect", effect).Warn("Unable to flush frame")
	}
}

func (e *Engine) fill(effect string, r section.Range, c neopixel.Color) {
	e.frame(effect, func(px Driver) error {
		return px.Fill(r.Start, r.End, c)
	})
}

// sample reads the current color of the first pixel in r. Since no color is tracked per section, the buffer
// itself is the baseline.
func (e *Engine) sample(r section.Range) (neopixel.Color, bool) {
	done := e.lock.acquire()
	defer done()

	if e.lock.closed || r.Len() == 0 {
		return neopixel.Black, false
	}
	c, err := e.drv.Get(r.Start)
	if err != nil {
		log.WithError(err).Debug("Unable to sample pixel")
		return neopixel.Black, false
	}
	return c, true
}

// Close blanks the strip and releases the driver if it can be released. Effects still running keep their
// timing but no longer draw. Engines sharing the strip through WithSections are closed along with e.
func (e *Engine) Close() {
	done := e.lock.acquire()
	defer done()

	if e.lock.closed {
		return
	}
	e.lock.closed = true
	log.Debugf("Closing strip with %d frames waiting", e.lock.waitingFrames())

	if err := e.drv.Fill(0, e.drv.Capacity(), neopixel.Black); err != nil {
		log.WithError(err).Warn("Unable to blank strip")
	} else if err := e.drv.Flush(); err != nil {
		log.WithError(err).Warn("Unable to flush blank strip")
	}
	if c, ok := e.drv.(interface{ Close() }); ok {
		c.Close()
	}
}

func (e *Engine) until(d time.Duration) func() bool {
	start := e.now()
	return func() bool {
		return e.now().Sub(start) < d
	}
}

func describe(name string) string {
	if name == "" {
		return "all sections"
	}
	return name
}

// SetColor fills the section with c.
func (e *Engine) SetColor(c neopixel.Color, section string) {
	log.Debugf("Setting %v on %s", c, describe(section))
	e.fill("set-color", e.sections.Resolve(section), c)
}

// TurnOn lights the section with c, or white when c is nil.
func (e *Engine) TurnOn(section string, c *neopixel.Color) {
	color := neopixel.White
	if c != nil {
		color = *c
	}
	log.Debugf("Turning on %s with %v", describe(section), color)
	e.fill("turn-on", e.sections.Resolve(section), color)
}

func (e *Engine) TurnOff(section string) {
	log.Debugf("Turning off %s", describe(section))
	e.fill("turn-off", e.sections.Resolve(section), neopixel.Black)
}

// Delay waits without touching the strip.
func (e *Engine) Delay(d time.Duration) {
	if d > 0 {
		e.sleep(d)
	}
}

// PreviewCount lights the first count physical pixels and blanks the rest of the strip, ignoring sections. It
// is used to find out how many pixels a physical zone has.
func (e *Engine) PreviewCount(count int, c neopixel.Color) {
	capacity := e.drv.Capacity()
	if count < 0 {
		count = 0
	}
	if count > capacity {
		count = capacity
	}

	log.Infof("Previewing %d of %d pixels", count, capacity)
	e.frame("preview", func(px Driver) error {
		if err := px.Fill(0, count, c); err != nil {
			return err
		}
		return px.Fill(count, capacity, neopixel.Black)
	})
}

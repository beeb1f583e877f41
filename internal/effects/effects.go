package effects

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/callebjorkell/tardis-lights/internal/neopixel"
	log "github.com/sirupsen/logrus"
)

const (
	framesPerSecond = 50
	pulseSteps      = 20
	rainbowDelay    = 10 * time.Millisecond
	sparkleHold     = 50 * time.Millisecond
	flickerMinDelay = 20 * time.Millisecond
	flickerMaxDelay = 100 * time.Millisecond
	cylonFade       = 0.7
	minStrobeHz     = 0.1
)

// Direction of a wipe.
type Direction string

const (
	Forward Direction = "forward"
	Reverse Direction = "reverse"
)

func stepsFor(d time.Duration) int {
	steps := int(d.Seconds() * framesPerSecond)
	if steps < 1 {
		return 1
	}
	return steps
}

func lerp(from, to uint8, t float64) uint8 {
	v := math.Round(float64(from) + (float64(to)-float64(from))*t)
	return uint8(math.Max(0, math.Min(255, v)))
}

func blend(from, to neopixel.Color, t float64) neopixel.Color {
	return neopixel.RGB(lerp(from.R, to.R, t), lerp(from.G, to.G, t), lerp(from.B, to.B, t))
}

// pulseLevel is the brightness of step 1..20: it climbs by a tenth per step to full at step 10, holds for step
// 11 and falls back symmetrically.
func pulseLevel(step int) float64 {
	if step <= pulseSteps/2 {
		return float64(step) / 10
	}
	return float64(pulseSteps+1-step) / 10
}

// Pulse fades the section up to c and back down over d. Without a color, the section's current color is
// pulsed, or white if it is dark.
func (e *Engine) Pulse(c *neopixel.Color, d time.Duration, section string) {
	r := e.sections.Resolve(section)

	var color neopixel.Color
	if c != nil {
		color = *c
	} else {
		color, _ = e.sample(r)
		if color.IsBlack() {
			color = neopixel.White
		}
	}

	log.Debugf("Pulsing %v on %s", color, describe(section))
	delay := d / pulseSteps
	for step := 1; step <= pulseSteps; step++ {
		e.fill("pulse", r, color.Scale(pulseLevel(step)))
		e.sleep(delay)
	}
}

// FadeTo moves the section linearly from its current color to target over d. The last frame is exactly target.
func (e *Engine) FadeTo(target neopixel.Color, d time.Duration, section string) {
	r := e.sections.Resolve(section)
	start, _ := e.sample(r)

	steps := stepsFor(d)
	delay := d / time.Duration(steps)
	log.Debugf("Fading %s from %v to %v in %d steps", describe(section), start, target, steps)

	for i := 1; i <= steps; i++ {
		e.fill("fade", r, blend(start, target, float64(i)/float64(steps)))
		e.sleep(delay)
	}
}

// Breath swells the section to c and back count times, each breath taking period, then turns it off.
func (e *Engine) Breath(section string, c neopixel.Color, period time.Duration, count int) {
	r := e.sections.Resolve(section)
	steps := stepsFor(period)
	delay := period / time.Duration(steps)

	log.Debugf("Breathing %v on %s %d times", c, describe(section), count)
	for n := 0; n < count; n++ {
		for i := 0; i < steps; i++ {
			level := (1 - math.Cos(2*math.Pi*float64(i)/float64(steps))) / 2
			e.fill("breath", r, c.Scale(level))
			e.sleep(delay)
		}
	}
	e.TurnOff(section)
}

// RainbowCycle spreads the color wheel across the section and rotates it until d has passed.
func (e *Engine) RainbowCycle(d time.Duration, section string) {
	r := e.sections.Resolve(section)
	n := r.Len()

	log.Debugf("Rainbow on %s for %v", describe(section), d)
	running := e.until(d)
	for phase := 0; running(); phase = (phase + 1) % 256 {
		e.frame("rainbow", func(px Driver) error {
			for p := 0; p < n; p++ {
				if err := px.SetPixel(r.Start+p, Wheel((p*256/n+phase)%256)); err != nil {
					return err
				}
			}
			return nil
		})
		e.sleep(rainbowDelay)
	}
	e.TurnOff(section)
}

// cylonPath bounces across n pixels: 0..n-1 and back down to 1.
func cylonPath(n int) []int {
	path := make([]int, 0, 2*n)
	for i := 0; i < n; i++ {
		path = append(path, i)
	}
	for i := n - 2; i > 0; i-- {
		path = append(path, i)
	}
	return path
}

// Cylon sweeps a single lit pixel back and forth across the section with a fading tail.
func (e *Engine) Cylon(c neopixel.Color, d time.Duration, section string) {
	r := e.sections.Resolve(section)
	n := r.Len()
	if n == 0 {
		return
	}

	delay := d / time.Duration(2*n)
	log.Debugf("Cylon %v on %s", c, describe(section))
	for _, p := range cylonPath(n) {
		e.frame("cylon", func(px Driver) error {
			for i := r.Start; i < r.End; i++ {
				cur, err := px.Get(i)
				if err != nil {
					return err
				}
				if err := px.SetPixel(i, cur.Scale(cylonFade)); err != nil {
					return err
				}
			}
			return px.SetPixel(r.Start+p, c)
		})
		e.sleep(delay)
	}
	e.TurnOff(section)
}

// Wipe lights the section one pixel every speed, leaving it lit.
func (e *Engine) Wipe(section string, c neopixel.Color, direction Direction, speed time.Duration) {
	r := e.sections.Resolve(section)
	n := r.Len()

	log.Debugf("Wiping %v across %s (%s)", c, describe(section), direction)
	for i := 0; i < n; i++ {
		p := r.Start + i
		if direction == Reverse {
			p = r.End - 1 - i
		}
		e.frame("wipe", func(px Driver) error {
			return px.SetPixel(p, c)
		})
		e.sleep(speed)
	}
}

// Chase runs count frames where every spacing-th pixel is lit, moving one pixel per frame.
func (e *Engine) Chase(section string, c neopixel.Color, spacing int, speed time.Duration, count int) {
	r := e.sections.Resolve(section)
	if spacing < 1 {
		spacing = 1
	}

	log.Debugf("Chasing %v on %s", c, describe(section))
	for frame := 0; frame < count; frame++ {
		e.frame("chase", func(px Driver) error {
			for p := 0; p < r.Len(); p++ {
				color := neopixel.Black
				if ((p-frame)%spacing+spacing)%spacing == 0 {
					color = c
				}
				if err := px.SetPixel(r.Start+p, color); err != nil {
					return err
				}
			}
			return nil
		})
		e.sleep(speed)
	}
	e.TurnOff(section)
}

// Sparkle briefly flashes density random pixels of the section in c, restoring what was there, until d has
// passed.
func (e *Engine) Sparkle(section string, c neopixel.Color, density int, d time.Duration) {
	r := e.sections.Resolve(section)
	k := min(density, r.Len())
	if k <= 0 {
		return
	}

	log.Debugf("Sparkling %v on %s", c, describe(section))
	running := e.until(d)
	for running() {
		picked := rand.Perm(r.Len())[:k]
		saved := make([]neopixel.Color, k)

		e.frame("sparkle", func(px Driver) error {
			for i, p := range picked {
				cur, err := px.Get(r.Start + p)
				if err != nil {
					return err
				}
				saved[i] = cur
				if err := px.SetPixel(r.Start+p, c); err != nil {
					return err
				}
			}
			return nil
		})
		e.sleep(sparkleHold)

		e.frame("sparkle", func(px Driver) error {
			for i, p := range picked {
				if err := px.SetPixel(r.Start+p, saved[i]); err != nil {
					return err
				}
			}
			return nil
		})
		e.sleep(sparkleHold)
	}
}

// Flicker shows base at a randomly reduced brightness, dimming by at most intensity, at random intervals until
// d has passed.
func (e *Engine) Flicker(section string, base neopixel.Color, intensity float64, d time.Duration) {
	r := e.sections.Resolve(section)

	log.Debugf("Flickering %v on %s", base, describe(section))
	running := e.until(d)
	for running() {
		e.fill("flicker", r, base.Scale(1-rand.Float64()*intensity))
		e.sleep(flickerMinDelay + rand.N(flickerMaxDelay-flickerMinDelay+1))
	}
	e.TurnOff(section)
}

// Strobe toggles the section between c and off at frequency Hz until d has passed.
func (e *Engine) Strobe(section string, c neopixel.Color, frequency float64, d time.Duration) {
	r := e.sections.Resolve(section)
	half := time.Duration(float64(time.Second) / (2 * math.Max(frequency, minStrobeHz)))

	log.Debugf("Strobing %v on %s at %.1f Hz", c, describe(section), frequency)
	on := true
	running := e.until(d)
	for running() {
		color := neopixel.Black
		if on {
			color = c
		}
		e.fill("strobe", r, color)
		e.sleep(half)
		on = !on
	}
	e.TurnOff(section)
}

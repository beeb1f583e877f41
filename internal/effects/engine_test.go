package effects

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/callebjorkell/tardis-lights/internal/neopixel"
	"github.com/callebjorkell/tardis-lights/internal/section"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDriver keeps the buffer in memory and snapshots it on every flush.
type fakeDriver struct {
	mu        sync.Mutex
	pixels    []neopixel.Color
	frames    [][]neopixel.Color
	mutations int
	flushes   int
	failFlush func(n int) bool
	closed    bool
	drawnDead int
}

func newFakeDriver(capacity int) *fakeDriver {
	return &fakeDriver{pixels: make([]neopixel.Color, capacity)}
}

func (d *fakeDriver) SetPixel(i int, c neopixel.Color) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if i < 0 || i >= len(d.pixels) {
		return neopixel.ErrOutOfRange
	}
	d.mutations++
	d.pixels[i] = c
	return nil
}

func (d *fakeDriver) Fill(start, end int, c neopixel.Color) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if start < 0 || end > len(d.pixels) || start > end {
		return neopixel.ErrOutOfRange
	}
	d.mutations++
	for i := start; i < end; i++ {
		d.pixels[i] = c
	}
	return nil
}

func (d *fakeDriver) Get(i int) (neopixel.Color, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if i < 0 || i >= len(d.pixels) {
		return neopixel.Black, neopixel.ErrOutOfRange
	}
	return d.pixels[i], nil
}

func (d *fakeDriver) Flush() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		d.drawnDead++
	}
	d.flushes++
	if d.failFlush != nil && d.failFlush(d.flushes) {
		return errors.New("spi bus on fire")
	}
	snapshot := make([]neopixel.Color, len(d.pixels))
	copy(snapshot, d.pixels)
	d.frames = append(d.frames, snapshot)
	return nil
}

func (d *fakeDriver) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
}

func (d *fakeDriver) flushCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.flushes
}

func (d *fakeDriver) Capacity() int {
	return len(d.pixels)
}

func (d *fakeDriver) pixel(i int) neopixel.Color {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pixels[i]
}

// fakeClock advances only when something sleeps.
type fakeClock struct {
	mu    sync.Mutex
	t     time.Time
	slept []time.Duration
}

func (c *fakeClock) Sleep(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
	c.slept = append(c.slept, d)
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func newTestEngine(t *testing.T, capacity int, entries ...section.Entry) (*Engine, *fakeDriver, *fakeClock) {
	t.Helper()
	if len(entries) == 0 {
		entries = []section.Entry{{Name: "strip", Count: capacity}}
	}
	m, err := section.Build(entries, capacity)
	require.NoError(t, err)

	drv := newFakeDriver(capacity)
	clock := &fakeClock{t: time.Unix(0, 0)}
	e := NewEngine(drv, m)
	e.sleep = clock.Sleep
	e.now = clock.Now
	return e, drv, clock
}

var red = neopixel.RGB(255, 0, 0)

func TestWheel(t *testing.T) {
	assert.Equal(t, neopixel.RGB(255, 0, 0), Wheel(0))
	assert.Equal(t, neopixel.RGB(0, 255, 0), Wheel(85))
	assert.Equal(t, neopixel.RGB(0, 0, 255), Wheel(170))
	assert.Equal(t, neopixel.RGB(255, 0, 0), Wheel(255))

	assert.Equal(t, neopixel.Black, Wheel(-1))
	assert.Equal(t, neopixel.Black, Wheel(256))

	diff := func(a, b uint8) int {
		if a > b {
			return int(a - b)
		}
		return int(b - a)
	}
	near := func(a, b neopixel.Color) bool {
		return diff(a.R, b.R) <= 3 && diff(a.G, b.G) <= 3 && diff(a.B, b.B) <= 3
	}
	for pos := 1; pos <= 255; pos++ {
		assert.True(t, near(Wheel(pos-1), Wheel(pos)), "wheel jumps between %d and %d", pos-1, pos)
	}
	assert.True(t, near(Wheel(255), Wheel(0)), "wheel must wrap around smoothly")
}

func TestSetColorAndTurnOff(t *testing.T) {
	e, drv, _ := newTestEngine(t, 10, section.Entry{Name: "A", Count: 3}, section.Entry{Name: "B", Count: 2})

	e.SetColor(red, "B")
	assert.Equal(t, []neopixel.Color{
		neopixel.Black, neopixel.Black, neopixel.Black, red, red,
		neopixel.Black, neopixel.Black, neopixel.Black, neopixel.Black, neopixel.Black,
	}, drv.frames[0])

	e.TurnOn("", nil)
	for i := 0; i < 5; i++ {
		assert.Equal(t, neopixel.White, drv.pixel(i))
	}
	assert.Equal(t, neopixel.Black, drv.pixel(5), "pixels outside the sections are untouched")

	blue := neopixel.RGB(0, 0, 255)
	e.TurnOn("A", &blue)
	assert.Equal(t, blue, drv.pixel(0))
	assert.Equal(t, neopixel.White, drv.pixel(3))

	e.TurnOff("nope")
	for i := 0; i < 5; i++ {
		assert.Equal(t, neopixel.Black, drv.pixel(i))
	}
}

func TestFadeTo(t *testing.T) {
	for _, d := range []time.Duration{time.Millisecond, 100 * time.Millisecond, 1500 * time.Millisecond} {
		e, drv, clock := newTestEngine(t, 4, section.Entry{Name: "A", Count: 4})

		e.FadeTo(neopixel.White, d, "A")

		require.Equal(t, stepsFor(d), len(drv.frames))
		prev := neopixel.Black
		for _, f := range drv.frames {
			c := f[0]
			assert.GreaterOrEqual(t, c.R, prev.R)
			assert.GreaterOrEqual(t, c.G, prev.G)
			assert.GreaterOrEqual(t, c.B, prev.B)
			prev = c
		}
		assert.Equal(t, neopixel.White, drv.frames[len(drv.frames)-1][3])
		assert.Equal(t, d, clock.Now().Sub(time.Unix(0, 0)))
	}
}

func TestFadeFromCurrentColor(t *testing.T) {
	e, drv, _ := newTestEngine(t, 2)
	e.SetColor(neopixel.RGB(200, 100, 0), "")

	e.FadeTo(neopixel.RGB(0, 100, 200), 40*time.Millisecond, "")

	assert.Equal(t, neopixel.RGB(100, 100, 100), drv.frames[1][0], "first fade frame is halfway")
	assert.Equal(t, neopixel.RGB(0, 100, 200), drv.frames[2][1])
}

func TestPulse(t *testing.T) {
	e, drv, clock := newTestEngine(t, 3)

	e.Pulse(&red, time.Second, "")

	require.Len(t, drv.frames, 20)
	assert.Equal(t, red, drv.frames[9][0], "frame 10 is at full color")
	assert.Equal(t, neopixel.RGB(25, 0, 0), drv.frames[0][0])
	assert.Equal(t, neopixel.RGB(25, 0, 0), drv.frames[19][0])
	for i := 0; i < 10; i++ {
		assert.Equal(t, drv.frames[i], drv.frames[19-i], "frame %d mirrors frame %d", i+1, 20-i)
	}
	for i := 1; i < 10; i++ {
		assert.Greater(t, drv.frames[i][0].R, drv.frames[i-1][0].R)
	}
	for _, d := range clock.slept {
		assert.Equal(t, 50*time.Millisecond, d)
	}
}

func TestPulseSamplesCurrentColor(t *testing.T) {
	e, drv, _ := newTestEngine(t, 4, section.Entry{Name: "A", Count: 2}, section.Entry{Name: "B", Count: 2})
	green := neopixel.RGB(0, 200, 0)
	e.SetColor(green, "A")

	e.Pulse(nil, 100*time.Millisecond, "A")
	assert.Equal(t, green, drv.frames[10][0])

	e.Pulse(nil, 100*time.Millisecond, "B")
	assert.Equal(t, neopixel.White, drv.frames[len(drv.frames)-11][3], "a dark section pulses white")
}

func TestBreath(t *testing.T) {
	e, drv, _ := newTestEngine(t, 2)

	e.Breath("", red, 200*time.Millisecond, 2)

	steps := stepsFor(200 * time.Millisecond)
	require.Len(t, drv.frames, 2*steps+1)
	assert.Equal(t, neopixel.Black, drv.frames[0][0], "a breath starts dark")
	assert.Equal(t, red, drv.frames[steps/2][0], "and peaks halfway")
	assert.NotZero(t, drv.frames[steps-1][0].R, "and fades back down")
	assert.Less(t, drv.frames[steps-1][0].R, uint8(30))
	assert.Equal(t, neopixel.Black, drv.frames[steps][0], "the next breath starts dark again")
	assert.Equal(t, neopixel.Black, drv.frames[len(drv.frames)-1][1])
}

func TestRainbowCycle(t *testing.T) {
	e, drv, clock := newTestEngine(t, 6, section.Entry{Name: "A", Count: 2}, section.Entry{Name: "B", Count: 4})

	e.RainbowCycle(100*time.Millisecond, "B")

	require.Len(t, drv.frames, 11)
	assert.Equal(t, []neopixel.Color{
		neopixel.Black, neopixel.Black, Wheel(0), Wheel(64), Wheel(128), Wheel(192),
	}, drv.frames[0])
	assert.Equal(t, Wheel(1), drv.frames[1][2], "the phase advances every frame")
	for i := 2; i < 6; i++ {
		assert.Equal(t, neopixel.Black, drv.frames[10][i])
	}
	assert.Equal(t, 100*time.Millisecond, clock.Now().Sub(time.Unix(0, 0)))
}

func TestCylon(t *testing.T) {
	e, drv, _ := newTestEngine(t, 4)

	e.Cylon(red, 80*time.Millisecond, "")

	assert.Equal(t, []int{0, 1, 2, 3, 2, 1}, cylonPath(4))
	require.Len(t, drv.frames, 7)
	lead := []int{0, 1, 2, 3, 2, 1}
	for i, p := range lead {
		assert.Equal(t, red, drv.frames[i][p], "frame %d leads with pixel %d", i, p)
	}
	assert.Equal(t, red.Scale(0.7), drv.frames[1][0], "the tail fades")
	assert.Equal(t, red.Scale(0.7).Scale(0.7), drv.frames[2][0])
	assert.Equal(t, []neopixel.Color{neopixel.Black, neopixel.Black, neopixel.Black, neopixel.Black}, drv.frames[6])
}

func TestCylonEmptySection(t *testing.T) {
	e, drv, clock := newTestEngine(t, 4, section.Entry{Name: "Extra", Count: 0}, section.Entry{Name: "A", Count: 4})

	e.Cylon(red, time.Second, "Extra")

	assert.Zero(t, drv.mutations)
	assert.Zero(t, drv.flushes)
	assert.Empty(t, clock.slept)
}

func TestWipe(t *testing.T) {
	e, drv, clock := newTestEngine(t, 3)

	e.Wipe("", red, Reverse, 100*time.Millisecond)

	require.Len(t, drv.frames, 3)
	assert.Equal(t, []neopixel.Color{neopixel.Black, neopixel.Black, red}, drv.frames[0])
	assert.Equal(t, []neopixel.Color{neopixel.Black, red, red}, drv.frames[1])
	assert.Equal(t, []neopixel.Color{red, red, red}, drv.frames[2], "a wipe stays lit")
	assert.Len(t, clock.slept, 3)

	e.TurnOff("")
	e.Wipe("", red, Forward, 0)
	assert.Equal(t, []neopixel.Color{red, neopixel.Black, neopixel.Black}, drv.frames[4])
}

func TestChase(t *testing.T) {
	e, drv, _ := newTestEngine(t, 7)

	e.Chase("", red, 3, 10*time.Millisecond, 3)

	require.Len(t, drv.frames, 4)
	b := neopixel.Black
	assert.Equal(t, []neopixel.Color{red, b, b, red, b, b, red}, drv.frames[0])
	assert.Equal(t, []neopixel.Color{b, red, b, b, red, b, b}, drv.frames[1])
	assert.Equal(t, []neopixel.Color{b, b, red, b, b, red, b}, drv.frames[2])
	assert.Equal(t, []neopixel.Color{b, b, b, b, b, b, b}, drv.frames[3])
}

func TestSparkleRestores(t *testing.T) {
	e, drv, _ := newTestEngine(t, 8)
	base := neopixel.RGB(0, 0, 40)
	e.SetColor(base, "")

	e.Sparkle("", neopixel.White, 3, 500*time.Millisecond)

	frames := drv.frames[1:]
	require.Len(t, frames, 10)
	for i, f := range frames {
		lit := 0
		for _, c := range f {
			if c == neopixel.White {
				lit++
			} else {
				assert.Equal(t, base, c)
			}
		}
		if i%2 == 0 {
			assert.Equal(t, 3, lit, "sparkle frame %d", i)
		} else {
			assert.Zero(t, lit, "restore frame %d", i)
		}
	}
}

func TestFlicker(t *testing.T) {
	e, drv, clock := newTestEngine(t, 2)

	e.Flicker("", red, 0.5, time.Second)

	require.Greater(t, len(drv.frames), 1)
	for _, f := range drv.frames[:len(drv.frames)-1] {
		assert.GreaterOrEqual(t, f[0].R, uint8(127))
		assert.Zero(t, f[0].G)
	}
	assert.Equal(t, neopixel.Black, drv.frames[len(drv.frames)-1][0])
	for _, d := range clock.slept {
		assert.GreaterOrEqual(t, d, 20*time.Millisecond)
		assert.LessOrEqual(t, d, 100*time.Millisecond)
	}
}

func TestStrobe(t *testing.T) {
	e, drv, clock := newTestEngine(t, 1)

	e.Strobe("", red, 5, time.Second)

	require.Len(t, drv.frames, 11)
	for i := 0; i < 10; i++ {
		want := red
		if i%2 == 1 {
			want = neopixel.Black
		}
		assert.Equal(t, want, drv.frames[i][0])
	}
	assert.Equal(t, 100*time.Millisecond, clock.slept[0])

	e.Strobe("", red, 0, time.Second)
	assert.Equal(t, 5*time.Second, clock.slept[len(clock.slept)-1], "frequency is floored at 0.1 Hz")
}

func TestDelay(t *testing.T) {
	e, drv, clock := newTestEngine(t, 1)

	e.Delay(250 * time.Millisecond)

	assert.Zero(t, drv.mutations)
	assert.Equal(t, []time.Duration{250 * time.Millisecond}, clock.slept)
}

func TestPreviewCount(t *testing.T) {
	e, drv, _ := newTestEngine(t, 6, section.Entry{Name: "A", Count: 2})

	e.PreviewCount(6, red)
	for i := 0; i < 6; i++ {
		assert.Equal(t, red, drv.pixel(i), "the whole physical strip is lit")
	}

	e.PreviewCount(0, red)
	for i := 0; i < 6; i++ {
		assert.Equal(t, neopixel.Black, drv.pixel(i))
	}

	e.PreviewCount(3, red)
	assert.Equal(t, []neopixel.Color{red, red, red, neopixel.Black, neopixel.Black, neopixel.Black}, drv.frames[2])

	e.PreviewCount(100, red)
	assert.Equal(t, red, drv.pixel(5))
	e.PreviewCount(-4, red)
	assert.Equal(t, neopixel.Black, drv.pixel(0))
}

func TestFlushFailureSkipsFrame(t *testing.T) {
	e, drv, _ := newTestEngine(t, 5)
	drv.failFlush = func(n int) bool { return n == 2 || n == 3 }

	e.Wipe("", red, Forward, time.Millisecond)

	assert.Equal(t, 5, drv.flushes, "every frame is attempted")
	assert.Len(t, drv.frames, 3)
	assert.Equal(t, []neopixel.Color{red, red, red, red, red}, drv.frames[2])
}

func TestConcurrentDisjointSections(t *testing.T) {
	e, drv, _ := newTestEngine(t, 5, section.Entry{Name: "A", Count: 3}, section.Entry{Name: "B", Count: 2})
	blue := neopixel.RGB(0, 0, 255)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			e.SetColor(red, "A")
		}()
		go func() {
			defer wg.Done()
			e.SetColor(blue, "B")
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, drv.flushes)
	assert.Zero(t, e.lock.waitingFrames())
	for i := 0; i < 3; i++ {
		assert.Equal(t, red, drv.pixel(i))
	}
	for i := 3; i < 5; i++ {
		assert.Equal(t, blue, drv.pixel(i))
	}
}

func TestWithSectionsSharesLock(t *testing.T) {
	e, drv, _ := newTestEngine(t, 4, section.Entry{Name: "A", Count: 4})
	m, err := section.Build([]section.Entry{{Name: "X", Count: 1}, {Name: "Y", Count: 3}}, 4)
	require.NoError(t, err)

	next := e.WithSections(m)
	assert.Same(t, e.lock, next.lock)
	assert.Equal(t, []string{"X", "Y"}, next.SectionNames())

	next.SetColor(red, "Y")
	assert.Equal(t, []neopixel.Color{neopixel.Black, red, red, red}, drv.frames[0])
}

func TestCloseWhileEffectRuns(t *testing.T) {
	e, drv, _ := newTestEngine(t, 6)
	e.sleep = func(time.Duration) { time.Sleep(time.Millisecond) }
	e.now = time.Now

	done := make(chan struct{})
	go func() {
		e.RainbowCycle(200*time.Millisecond, "")
		close(done)
	}()
	require.Eventually(t, func() bool { return drv.flushCount() > 3 }, time.Second, time.Millisecond)

	e.Close()
	closedAt := drv.flushCount()
	assert.Equal(t, make([]neopixel.Color, 6), drv.frames[closedAt-1], "the strip is blanked on close")

	next := e.WithSections(e.Sections())
	next.SetColor(red, "")
	_, sampled := next.sample(section.Range{Start: 0, End: 6})
	assert.False(t, sampled)

	<-done
	e.Close()

	assert.True(t, drv.closed)
	assert.Equal(t, closedAt, drv.flushCount(), "nothing is drawn after close")
	assert.Zero(t, drv.drawnDead)
}

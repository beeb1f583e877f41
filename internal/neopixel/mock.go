package neopixel

import (
	"sync/atomic"

	log "github.com/sirupsen/logrus"
)

const previewPixels = 5

// mockEngine keeps the buffer in memory and logs what would have been rendered.
type mockEngine struct {
	colors     []uint32
	brightness float64
	renders    atomic.Int64
}

func newMockEngine(opts Options) *mockEngine {
	return &mockEngine{
		colors:     make([]uint32, opts.Capacity),
		brightness: opts.Brightness,
	}
}

func (d *mockEngine) Init() error {
	log.Infof("neopixel: using mock strip with %d pixels at brightness %.2f", len(d.colors), d.brightness)
	return nil
}

func (d *mockEngine) Render() error {
	n := d.renders.Add(1)
	if log.IsLevelEnabled(log.TraceLevel) {
		shown := d.colors
		if len(shown) > previewPixels {
			shown = shown[:previewPixels]
		}
		preview := make([]Color, len(shown))
		for i, c := range shown {
			preview[i] = FromUint32(c)
		}
		log.Tracef("neopixel: render %d %v...", n, preview)
	}
	return nil
}

func (d *mockEngine) Wait() error {
	return nil
}

func (d *mockEngine) Fini() {
	log.Debugf("neopixel: mock strip closed after %d renders", d.renders.Load())
}

func (d *mockEngine) Leds(_ int) []uint32 {
	return d.colors
}

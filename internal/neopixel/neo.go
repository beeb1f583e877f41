package neopixel

import (
	"errors"
	"fmt"
)

const (
	DefaultCapacity   = 50
	DefaultBrightness = 0.2
	DefaultGPIOPin    = 18
)

var ErrOutOfRange = errors.New("pixel index out of range")

// Backend selects the implementation pushing pixels to the physical (or simulated) strip.
type Backend string

const (
	BackendWS281x Backend = "ws281x"
	BackendMock   Backend = "mock"
)

type Options struct {
	Backend Backend
	// Capacity is the fixed number of addressable pixels, independent of how the strip is sectioned.
	Capacity int
	// Brightness is a uniform scaling factor in (0, 1] applied by the driver to everything it renders.
	Brightness float64
	GPIOPin    int
}

func (o Options) withDefaults() Options {
	if o.Backend == "" {
		o.Backend = BackendMock
	}
	if o.Capacity <= 0 {
		o.Capacity = DefaultCapacity
	}
	if o.Brightness <= 0 || o.Brightness > 1 {
		o.Brightness = DefaultBrightness
	}
	if o.GPIOPin == 0 {
		o.GPIOPin = DefaultGPIOPin
	}
	return o
}

// brightnessByte maps the brightness factor onto the 0-255 channel brightness of the ws281x library.
func brightnessByte(b float64) int {
	v := int(b * 255)
	if v < 1 {
		return 1
	}
	if v > 255 {
		return 255
	}
	return v
}

type wsEngine interface {
	Init() error
	Render() error
	Wait() error
	Fini()
	Leds(channel int) []uint32
}

// Strip is the pixel buffer of a single ws281x channel. It is not safe for concurrent use; callers serialize
// access to it.
type Strip struct {
	ws       wsEngine
	capacity int
}

// New creates and initializes the strip backend selected in opts.
func New(opts Options) (*Strip, error) {
	opts = opts.withDefaults()

	var engine wsEngine
	switch opts.Backend {
	case BackendMock:
		engine = newMockEngine(opts)
	case BackendWS281x:
		e, err := newWS281xEngine(opts)
		if err != nil {
			return nil, err
		}
		engine = e
	default:
		return nil, fmt.Errorf("unknown strip driver %q", opts.Backend)
	}

	if err := engine.Init(); err != nil {
		return nil, fmt.Errorf("unable to initialize %s strip: %w", opts.Backend, err)
	}

	capacity := len(engine.Leds(0))
	if capacity > opts.Capacity {
		capacity = opts.Capacity
	}

	return &Strip{
		ws:       engine,
		capacity: capacity,
	}, nil
}

func (s *Strip) Capacity() int {
	return s.capacity
}

func (s *Strip) SetPixel(i int, c Color) error {
	if i < 0 || i >= s.capacity {
		return fmt.Errorf("set %d: %w", i, ErrOutOfRange)
	}
	s.ws.Leds(0)[i] = c.Uint32()
	return nil
}

// Fill sets every pixel in [start, end) to c.
func (s *Strip) Fill(start, end int, c Color) error {
	if start < 0 || end > s.capacity || start > end {
		return fmt.Errorf("fill [%d, %d): %w", start, end, ErrOutOfRange)
	}
	leds := s.ws.Leds(0)
	v := c.Uint32()
	for i := start; i < end; i++ {
		leds[i] = v
	}
	return nil
}

func (s *Strip) Get(i int) (Color, error) {
	if i < 0 || i >= s.capacity {
		return Black, fmt.Errorf("get %d: %w", i, ErrOutOfRange)
	}
	return FromUint32(s.ws.Leds(0)[i]), nil
}

// Flush pushes the buffer to the output.
func (s *Strip) Flush() error {
	if err := s.ws.Render(); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return nil
}

// Close blanks the strip and releases the backend.
func (s *Strip) Close() {
	_ = s.Fill(0, s.capacity, Black)
	_ = s.Flush()
	s.ws.Fini()
}

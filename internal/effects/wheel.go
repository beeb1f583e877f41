package effects

import "github.com/callebjorkell/tardis-lights/internal/neopixel"

// Wheel maps pos in [0, 255] onto a hue ramp going red, green, blue and back to red. Anything outside the
// range is black.
func Wheel(pos int) neopixel.Color {
	switch {
	case pos < 0 || pos > 255:
		return neopixel.Black
	case pos < 85:
		return neopixel.RGB(uint8(255-pos*3), uint8(pos*3), 0)
	case pos < 170:
		pos -= 85
		return neopixel.RGB(0, uint8(255-pos*3), uint8(pos*3))
	default:
		pos -= 170
		return neopixel.RGB(uint8(pos*3), 0, uint8(255-pos*3))
	}
}
